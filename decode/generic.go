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
	"github.com/facebook/ipfixd/record"
)

// RejectReason names why a decoder dropped a record without emitting
// anything, for the "ignored_flows" counter and optional logging.
type RejectReason uint8

// Reasons a record can be silently ignored.
const (
	RejectNone RejectReason = iota
	RejectIntermediateUniflow
	RejectNoAddress
	RejectZeroBytes
	RejectZeroPackets
	RejectFirewallEvent
)

// Generic implements the FIXREC decoder: given a
// template's bmap and one record's raw fields, produce 0, 1, or 2
// normalized records.
func Generic(cfg Config, bmap ipfix.Bmap, in *Fields) (Result, RejectReason) {
	// Work on a local copy so quirk rewrites never touch the caller's
	// transcoded record.
	local := *in
	in = &local

	if in.FlowEndReason&FlowEndReasonMask == YAFIntermediateEndReason {
		return Result{}, RejectIntermediateUniflow
	}

	hasV4, hasV6 := bmap.Has(ipfix.HasIPv4), bmap.Has(ipfix.HasIPv6)
	if !hasV4 && !hasV6 && !cfg.Quirks.Has(QuirkMissingIPs) {
		return Result{}, RejectNoAddress
	}

	if cfg.Quirks.Has(QuirkNF9OutIsReverse) && bmap.Any(ipfix.HasPostOctetDelta|ipfix.HasPostPacketDelta) {
		in.ReverseOctetDelta = in.PostOctetDelta
		in.ReversePacketDelta = in.PostPacketDelta
		in.PostOctetDelta = 0
		in.PostPacketDelta = 0
	}

	fwdPkts, fwdBytes := genericForwardVolume(in)
	revPkts, revBytes := genericReverseVolume(in)

	fwEventActive := cfg.Quirks.Has(QuirkFWEvent) && bmap.Any(ipfix.HasFirewallEvent|ipfix.HasNFFWEvent|ipfix.HasNFFWExtEvent) && in.FirewallEvent != 0

	var memo uint32
	if fwEventActive {
		outcome := applyFirewallEvent(in.FirewallEvent, in.NFFWExtEvent, &fwdPkts, &fwdBytes, &revPkts, &revBytes)
		if outcome.drop {
			return Result{}, RejectFirewallEvent
		}
		memo = outcome.memo
	}

	if fwdBytes == 0 && revBytes == 0 {
		return Result{}, RejectZeroBytes
	}
	if fwdPkts == 0 && revPkts == 0 && !cfg.Quirks.Has(QuirkZeroPackets) {
		return Result{}, RejectZeroPackets
	}

	var fwd *record.Flow
	swapped := false
	switch {
	case fwdPkts > 0 && fwdBytes > 0:
		fwd = &record.Flow{}
		fwd.SetPackets(fwdPkts)
		fwd.SetBytes(fwdBytes)
	case revPkts > 0 && revBytes > 0:
		fwd = &record.Flow{}
		fwd.SetPackets(revPkts)
		fwd.SetBytes(revBytes)
		swapped = true
	default:
		fwd = &record.Flow{}
		fwd.SetPackets(fwdPkts)
		fwd.SetBytes(fwdBytes)
	}
	fwd.Memo = memo
	fwd.Protocol = in.Protocol

	icmp := in.Protocol == ProtocolICMP || in.Protocol == ProtocolICMPv6
	family := selectIPv4v6(hasV4, hasV6, ipNonZero(in.SrcIPv6)||ipNonZero(in.DstIPv6))
	applyAddresses(fwd, in, family)

	sPort, dPort, _ := encodeICMP(in, bmap, family)
	fwd.SPort, fwd.DPort = sPort, dPort

	if swapped {
		fwd.SwapAddresses(icmp)
	}

	pickInterfaces(cfg, fwd, in, swapped)
	applyTCPFlags(fwd, in, swapped)
	applyEndReasonAttributes(fwd, in)

	startMillis, durationMillis, _ := DeriveTime(bmap, in, cfg)
	fwd.StartMillis = startMillis
	fwd.DurationMillis = durationMillis

	res := Result{Forward: fwd}

	if !swapped && revBytes > 0 {
		rev := fwd.Clone()
		rev.SetPackets(revPkts)
		rev.SetBytes(revBytes)
		rev.SwapAddresses(icmp)
		pickInterfaces(cfg, rev, in, true)
		applyTCPFlags(rev, in, true)
		rev.StartMillis = fwd.StartMillis + int64(in.ReverseFlowDeltaMillis)
		rev.SetDuration(int64(fwd.DurationMillis) - int64(in.ReverseFlowDeltaMillis))
		res.Reverse = rev
	}

	return res, RejectNone
}

func applyAddresses(fwd *record.Flow, in *Fields, family record.Family) {
	fwd.Family = family
	switch family {
	case record.FamilyIPv6:
		fwd.Src, fwd.Dst, fwd.NextHop = in.SrcIPv6, in.DstIPv6, in.NextHopIPv6
	case record.FamilyIPv4:
		fwd.Src, fwd.Dst, fwd.NextHop = in.SrcIPv4, in.DstIPv4, in.NextHopIPv4
	}
}

// genericForwardVolume runs the forward volume gauntlet: first
// non-zero from packetDelta -> packetTotal ->
// initiatorPackets -> postPacketDelta -> postPacketTotal, and analogously
// for bytes.
func genericForwardVolume(in *Fields) (pkts, bytes uint64) {
	pkts = firstNonZero(in.PacketDelta, in.PacketTotal, in.InitiatorPackets, in.PostPacketDelta, in.PostPacketTotal)
	bytes = firstNonZero(in.OctetDelta, in.OctetTotal, in.InitiatorOctets, in.PostOctetDelta, in.PostOctetTotal)
	return pkts, bytes
}

// genericReverseVolume runs the reverse volume gauntlet:
// reversePacketDelta -> reversePacketTotal -> responderPackets,
// and analogously for bytes.
func genericReverseVolume(in *Fields) (pkts, bytes uint64) {
	pkts = firstNonZero(in.ReversePacketDelta, in.ReversePacketTotal, in.ResponderPackets)
	bytes = firstNonZero(in.ReverseOctetDelta, in.ReverseOctetTotal, in.ResponderOctets)
	return pkts, bytes
}

func firstNonZero(vs...uint64) uint64 {
	for _, v := range vs {
		if v != 0 {
			return v
		}
	}
	return 0
}
