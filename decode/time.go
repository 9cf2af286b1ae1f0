/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package decode

import (
	"github.com/facebook/ipfixd/ipfix"
)

// TimeProvenance records which IEs the time gauntlet actually used to
// derive a record's (start, duration) pair, for trace logging.
type TimeProvenance uint8

// Provenance values, in the priority order the gauntlet tries them.
const (
	ProvenanceNone TimeProvenance = iota
	ProvenanceMillis
	ProvenanceSeconds
	ProvenanceMicros
	ProvenanceNanos
	ProvenanceDeltaMicros
	ProvenanceDurationMillis
	ProvenanceDurationMicros
	ProvenanceSysUpTime
)

// jan1970 is the NTP-to-Unix epoch offset in seconds.
const jan1970 = int64(ipfix.NTPUnixEpochOffsetSeconds)

// decodeNTP converts an NTP-format 64-bit timestamp (whole seconds in the
// upper 32 bits, fractional seconds in the lower 32) to milliseconds
// since the Unix epoch. A raw value of
// zero is treated as absent and returns 0.
func decodeNTP(raw uint64) int64 {
	if raw == 0 {
		return 0
	}
	upper := int64(raw >> 32)
	lower := raw & 0xFFFFFFFF
	frac := (lower*1000 + 1<<31) >> 32 // round(lower/2^32*1000)
	return (upper-jan1970)*1000 + int64(frac)
}

// decodeNTPMicro decodes a microseconds-typed NTP value, whose lower 11
// fractional bits are not significant and must be ignored.
func decodeNTPMicro(raw uint64) int64 {
	return decodeNTP(raw &^ 0x7FF)
}

// DeriveTime implements the time gauntlet: given a
// template's bmap and the raw record fields, produce (start_ms,
// duration_ms). Duration is clamped to [0, 2^32-1] ms.
func DeriveTime(bmap ipfix.Bmap, in *Fields, cfg Config) (startMillis int64, durationMillis uint32, prov TimeProvenance) {
	switch {
	case bmap.Has(ipfix.HasFlowStartMillis | ipfix.HasFlowEndMillis):
		start := int64(in.FlowStartMillis)
		end := int64(in.FlowEndMillis)
		return start, clampDuration(end - start), ProvenanceMillis

	case bmap.Has(ipfix.HasFlowStartSeconds | ipfix.HasFlowEndSeconds):
		start := int64(in.FlowStartSeconds) * 1000
		end := int64(in.FlowEndSeconds) * 1000
		return start, clampDuration(end - start), ProvenanceSeconds

	case bmap.Has(ipfix.HasFlowStartMicros | ipfix.HasFlowEndMicros):
		// dateTimeMicroseconds is NTP-encoded on the wire (RFC 7011).
		start := decodeNTPMicro(in.FlowStartMicros)
		end := decodeNTPMicro(in.FlowEndMicros)
		return start, clampDuration(end - start), ProvenanceMicros

	case bmap.Has(ipfix.HasFlowStartNanos | ipfix.HasFlowEndNanos):
		start := decodeNTP(in.FlowStartNanos)
		end := decodeNTP(in.FlowEndNanos)
		return start, clampDuration(end - start), ProvenanceNanos

	case bmap.Has(ipfix.HasFlowStartDeltaMicros | ipfix.HasFlowEndDeltaMicros):
		start := in.ExportTimeMillis - int64(in.FlowStartDeltaMicros)/1000
		end := in.ExportTimeMillis - int64(in.FlowEndDeltaMicros)/1000
		return start, clampDuration(end - start), ProvenanceDeltaMicros

	case bmap.Has(ipfix.HasFlowStartMillis | ipfix.HasFlowDurationMillis):
		start := int64(in.FlowStartMillis)
		return start, clampDuration32(in.FlowDurationMillis), ProvenanceDurationMillis

	case bmap.Has(ipfix.HasFlowStartMicros | ipfix.HasFlowDurationMicros):
		start := decodeNTPMicro(in.FlowStartMicros)
		return start, clampDuration32(in.FlowDurationMicros / 1000), ProvenanceDurationMicros

	case bmap.Has(ipfix.HasFlowStartSysUpTime) && bmap.Has(ipfix.HasSystemInitTimeMillis):
		return deriveSysUpTime(in, cfg)
	}

	return fallbackScan(bmap, in)
}

// clampDuration clamps a signed millisecond delta into [0, 2^32-1].
func clampDuration(deltaMillis int64) uint32 {
	if deltaMillis < 0 {
		return 0
	}
	if deltaMillis > int64(ipfix.MaxUint32) {
		return ipfix.MaxUint32
	}
	return uint32(deltaMillis)
}

func clampDuration32(v uint64) uint32 {
	if v > uint64(ipfix.MaxUint32) {
		return ipfix.MaxUint32
	}
	return uint32(v)
}

// deriveSysUpTime reconstructs absolute timestamps from sysUpTime
// offsets and systemInitTimeMillis, handling 32-bit counter rollover.
func deriveSysUpTime(in *Fields, cfg Config) (int64, uint32, TimeProvenance) {
	systemInit := int64(in.SystemInitTimeMillis)
	uptimeMillis := in.ExportTimeMillis - systemInit

	if cfg.Quirks.Has(QuirkNF9SysUpTimeSecs) {
		uptimeMillis *= 1000
		systemInit = in.ExportTimeMillis - uptimeMillis
	}

	start := int64(in.FlowStartSysUpTime)
	end := int64(in.FlowEndSysUpTime)
	if end < start {
		if cfg.Quirks.Has(QuirkNF9SysUpTimeSecs) && in.SinglePacketFlow {
			end = start
		} else {
			end += ipfix.Rollover32
		}
	}
	durationUp := end - start

	// Start-time rollover detection: flowStartSysUpTime is compared
	// against the export-time-derived uptime. A start far behind it
	// means the start counter rolled over; a start far ahead of it means
	// uptime itself rolled over.
	switch {
	case uptimeMillis-start > ipfix.RolloverThresholdMillis:
		start += ipfix.Rollover32
	case uptimeMillis-start < -ipfix.RolloverThresholdMillis:
		start -= ipfix.Rollover32
	}

	startMillis := systemInit + start
	if in.SystemInitTimeMillis == 0 {
		startMillis = in.ExportTimeMillis - durationUp
	}

	return startMillis, clampDuration(durationUp), ProvenanceSysUpTime
}

// fallbackScan scans the time bits in priority order for templates
// whose time IEs don't match one of the fast-path pairs handled above
// (e.g. a start-only Millis IE paired with an end-only Seconds IE).
func fallbackScan(bmap ipfix.Bmap, in *Fields) (int64, uint32, TimeProvenance) {
	start, startProv, ok := scanStart(bmap, in)
	if !ok {
		return in.ExportTimeMillis, 0, ProvenanceNone
	}
	end, ok := scanEnd(bmap, in)
	if !ok {
		return start, 0, startProv
	}
	return start, clampDuration(end - start), startProv
}

func scanStart(bmap ipfix.Bmap, in *Fields) (int64, TimeProvenance, bool) {
	switch {
	case bmap.Has(ipfix.HasFlowStartMillis):
		return int64(in.FlowStartMillis), ProvenanceMillis, true
	case bmap.Has(ipfix.HasFlowStartSeconds):
		return int64(in.FlowStartSeconds) * 1000, ProvenanceSeconds, true
	case bmap.Has(ipfix.HasFlowStartMicros):
		return decodeNTPMicro(in.FlowStartMicros), ProvenanceMicros, true
	case bmap.Has(ipfix.HasFlowStartNanos):
		return decodeNTP(in.FlowStartNanos), ProvenanceNanos, true
	case bmap.Has(ipfix.HasFlowStartDeltaMicros):
		return in.ExportTimeMillis - int64(in.FlowStartDeltaMicros)/1000, ProvenanceDeltaMicros, true
	case bmap.Has(ipfix.HasFlowStartSysUpTime) && bmap.Has(ipfix.HasSystemInitTimeMillis):
		return int64(in.SystemInitTimeMillis) + int64(in.FlowStartSysUpTime), ProvenanceSysUpTime, true
	}
	return 0, ProvenanceNone, false
}

func scanEnd(bmap ipfix.Bmap, in *Fields) (int64, bool) {
	switch {
	case bmap.Has(ipfix.HasFlowEndMillis):
		return int64(in.FlowEndMillis), true
	case bmap.Has(ipfix.HasFlowEndSeconds):
		return int64(in.FlowEndSeconds) * 1000, true
	case bmap.Has(ipfix.HasFlowEndMicros):
		return decodeNTPMicro(in.FlowEndMicros), true
	case bmap.Has(ipfix.HasFlowEndNanos):
		return decodeNTP(in.FlowEndNanos), true
	case bmap.Has(ipfix.HasFlowEndDeltaMicros):
		return 0, false // delta-micro end without a matching start fast path: no reliable base
	case bmap.Has(ipfix.HasCollectionTimeMillis):
		return int64(in.CollectionTimeMillis), true
	case bmap.Has(ipfix.HasObservationTimeMillis):
		return int64(in.ObservationTimeMillis), true
	case bmap.Has(ipfix.HasObservationTimeSeconds):
		return int64(in.ObservationTimeSeconds) * 1000, true
	case bmap.Has(ipfix.HasObservationTimeMicros):
		return decodeNTPMicro(in.ObservationTimeMicros), true
	case bmap.Has(ipfix.HasObservationTimeNanos):
		return decodeNTP(in.ObservationTimeNanos), true
	}
	return 0, false
}
