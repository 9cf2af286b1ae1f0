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

package ipfix

import log "github.com/sirupsen/logrus"

// IE is one element of a template's IE list, as handed to the classifier
// by the transport.
type IE struct {
	IESpec
	Length uint16
}

// PlanKind is the decoder-path tag a template is classified into:
// dispatch is a sum type, not bit arithmetic on the bitmap.
type PlanKind uint8

const (
	// PlanIgnore means the template carries nothing this engine extracts;
	// its data records are drained and discarded.
	PlanIgnore PlanKind = iota
	// PlanGeneric dispatches to the FIXREC decoder (decode.Generic).
	PlanGeneric
	// PlanYAF dispatches to the YAFREC fast path (decode.YAF).
	PlanYAF
	// PlanNF9 dispatches to the NF9REC fast path (decode.NF9).
	PlanNF9
	// PlanOptions means the template is an options template; OptKind says
	// which flavor.
	PlanOptions
	// PlanInner means the template is a known sub-template shape carried
	// inside an STML/STL; its records arrive through the list side channel,
	// never as top-level data records. Inner says which shape, and
	// Inner.ID() is the internal template id the lower transcoder should
	// map the exporter's template id to.
	PlanInner
)

func (k PlanKind) String() string {
	switch k {
	case PlanIgnore:
		return "ignore"
	case PlanGeneric:
		return "generic"
	case PlanYAF:
		return "yaf"
	case PlanNF9:
		return "nf9"
	case PlanOptions:
		return "options"
	case PlanInner:
		return "inner"
	default:
		return "unknown"
	}
}

// InnerKind identifies a known sub-template shape.
type InnerKind uint8

const (
	// InnerNone means the template is not a recognized sub-template shape.
	InnerNone InnerKind = iota
	// InnerTCPFlags is YAF's TCP-flags STML entry (initial/union flags,
	// forward and reverse).
	InnerTCPFlags
	// InnerTombstoneAccess is YAF's tombstone-access STL entry.
	InnerTombstoneAccess
)

// IPFamily is the address family(ies) a template carries.
type IPFamily uint8

const (
	// IPFamilyNone means the template carries neither v4 nor v6 addresses.
	IPFamilyNone IPFamily = iota
	// IPFamilyV4 means only IPv4 addresses are present.
	IPFamilyV4
	// IPFamilyV6 means only IPv6 addresses are present.
	IPFamilyV6
	// IPFamilyBoth means both IPv4 and IPv6 addresses are present.
	IPFamilyBoth
)

// VolumeStyle is how a template expresses packet/octet counts.
type VolumeStyle uint8

const (
	// VolumeDelta means octetDeltaCount/packetDeltaCount style counters.
	VolumeDelta VolumeStyle = iota
	// VolumeTotal means octetTotalCount/packetTotalCount style counters.
	VolumeTotal
	// VolumeInitiator means initiatorOctets/initiatorPackets style
	// counters (NF9 only).
	VolumeInitiator
)

// YAFVariant is the internal template id for the YAF fast path.
type YAFVariant struct {
	Family IPFamily
	Bi     bool // false = uniflow, true = biflow
	Volume VolumeStyle
	STML   bool // TCP flags arrive via a sub-template multi-list
}

// NF9Variant is the internal template id for the NF9 fast path.
type NF9Variant struct {
	Family IPFamily // only V4 or V6, never Both or None
	SysUp  bool     // false = MILLI time style, true = SYSUP time style
	Volume VolumeStyle
}

// OptKind identifies which options-record shape a template describes.
type OptKind uint8

const (
	// OptOther is an options template this engine does not recognize; it
	// is logged verbatim and dropped.
	OptOther OptKind = iota
	// OptYAFStats is YAF's flow-table statistics options record.
	OptYAFStats
	// OptTombstone is YAF's tombstone/access options record.
	OptTombstone
	// OptNF9Sampling is a NetFlow-v9 sampling options record.
	OptNF9Sampling
)

// DecodePlan is a template's classification result, stored as its
// per-template context.
type DecodePlan struct {
	Kind  PlanKind
	Bmap  Bmap
	YAF   YAFVariant
	NF9   NF9Variant
	Opt   OptKind
	Inner InnerKind
}

// Classify inspects a newly arrived data template's IE list and returns
// the DecodePlan to store as its context. Classification never
// fails: an unrecognized template classifies as PlanIgnore.
func Classify(ies []IE, probeName string) DecodePlan {
	// Known STML/STL inner shapes get an internal-template mapping and
	// no decoder path; their records arrive through the list side
	// channel.
	if inner := innerShape(ies); inner != InnerNone {
		log.Debugf("probe %s: template is a known sub-template shape, mapped to internal id %d", probeName, inner.ID())
		return DecodePlan{Kind: PlanInner, Inner: inner}
	}

	bmap := walkIEs(ies)
	stml := bmap.Has(HasSubTemplateMultiList)

	if isYAFShape(bmap) {
		v := YAFVariant{
			Family: addressFamily(bmap),
			Bi:     bmap.Has(HasReverseFlowDeltaMillis),
			Volume: yafVolumeStyle(bmap),
			STML:   stml,
		}
		log.Debugf("probe %s: template classified as YAF %+v", probeName, v)
		return DecodePlan{Kind: PlanYAF, Bmap: bmap, YAF: v}
	}

	if v, ok := nf9Shape(bmap); ok {
		log.Debugf("probe %s: template classified as NF9 %+v", probeName, v)
		return DecodePlan{Kind: PlanNF9, Bmap: bmap, NF9: v}
	}

	if bmap != 0 {
		log.Debugf("probe %s: template classified as generic, bmap=%#x", probeName, uint64(bmap))
		return DecodePlan{Kind: PlanGeneric, Bmap: bmap}
	}

	log.Debugf("probe %s: template classified as ignore", probeName)
	return DecodePlan{Kind: PlanIgnore}
}

// ClassifyOptions inspects an options template's scope+IE list and
// picks the options-record flavor.
func ClassifyOptions(ies []IE) DecodePlan {
	has := func(s IESpec) bool {
		for _, ie := range ies {
			if ie.IESpec == s {
				return true
			}
		}
		return false
	}

	switch {
	case has(std(ieFlowTableFlushEventCount)) && has(std(ieFlowTablePeakCount)):
		return DecodePlan{Kind: PlanOptions, Opt: OptYAFStats}
	case has(std(ieTombstoneID)):
		return DecodePlan{Kind: PlanOptions, Opt: OptTombstone}
	case has(std(ieSamplingAlgorithm)) && has(std(ieSamplingInterval)):
		return DecodePlan{Kind: PlanOptions, Opt: OptNF9Sampling}
	case has(std(ieSamplerMode)) && has(std(ieSamplerRandomInterval)):
		return DecodePlan{Kind: PlanOptions, Opt: OptNF9Sampling}
	default:
		return DecodePlan{Kind: PlanOptions, Opt: OptOther}
	}
}

// innerShape reports whether the IE list is one of the known sub-template
// shapes: YAF's TCP-flags STML entry (a subset of the 4 initial/union
// forward/reverse flag elements containing at least the forward pair) or
// the tombstone-access STL entry.
func innerShape(ies []IE) InnerKind {
	tcpFlagsOnly := len(ies) > 0
	var fwdInitial, fwdUnion bool
	for _, e := range ies {
		switch e.IESpec {
		case cert(ieInitialTCPFlags):
			fwdInitial = true
		case cert(ieUnionTCPFlags):
			fwdUnion = true
		case reverse(ieInitialTCPFlags), reverse(ieUnionTCPFlags):
		default:
			tcpFlagsOnly = false
		}
	}
	if tcpFlagsOnly && fwdInitial && fwdUnion {
		return InnerTCPFlags
	}

	if len(ies) == 2 {
		specs := map[IESpec]bool{ies[0].IESpec: true, ies[1].IESpec: true}
		if specs[std(ieExportingProcessID)] && specs[std(ieObservationTimeSecs)] {
			return InnerTombstoneAccess
		}
	}
	return InnerNone
}

// walkIEs sets one bit per salient (enterprise, element-id) pair.
func walkIEs(ies []IE) Bmap {
	var b Bmap
	for _, ie := range ies {
		switch ie.IESpec {
		case std(ieSourceIPv4Address), std(ieDestIPv4Address), std(ieIPNextHopIPv4Address):
			b |= HasIPv4
		case std(ieSourceIPv6Address), std(ieDestIPv6Address), std(ieIPNextHopIPv6Address):
			b |= HasIPv6

		case std(ieOctetDeltaCount):
			b |= HasOctetDelta
		case std(iePacketDeltaCount):
			b |= HasPacketDelta
		case std(ieOctetTotalCount):
			b |= HasOctetTotal
		case std(iePacketTotalCount):
			b |= HasPacketTotal
		case std(ieInitiatorOctets):
			b |= HasInitiatorOctets
		case std(ieInitiatorPackets):
			b |= HasInitiatorPackets
		case std(ieResponderOctets):
			b |= HasResponderOctets
		case std(ieResponderPackets):
			b |= HasResponderPackets
		case std(iePostOctetDeltaCount):
			b |= HasPostOctetDelta
		case std(iePostPacketDeltaCount):
			b |= HasPostPacketDelta
		case std(iePostOctetTotalCount):
			b |= HasPostOctetTotal
		case std(iePostPacketTotalCount):
			b |= HasPostPacketTotal

		case std(ieFlowStartMillis):
			b |= HasFlowStartMillis
		case std(ieFlowEndMillis):
			b |= HasFlowEndMillis
		case std(ieFlowStartSeconds):
			b |= HasFlowStartSeconds
		case std(ieFlowEndSeconds):
			b |= HasFlowEndSeconds
		case std(ieFlowStartMicros):
			b |= HasFlowStartMicros
		case std(ieFlowEndMicros):
			b |= HasFlowEndMicros
		case std(ieFlowStartNanos):
			b |= HasFlowStartNanos
		case std(ieFlowEndNanos):
			b |= HasFlowEndNanos
		case std(ieFlowStartDeltaMicros):
			b |= HasFlowStartDeltaMicros
		case std(ieFlowEndDeltaMicros):
			b |= HasFlowEndDeltaMicros
		case std(ieFlowDurationMillis):
			b |= HasFlowDurationMillis
		case std(ieFlowDurationMicros):
			b |= HasFlowDurationMicros
		case std(ieFlowStartSysUpTime):
			b |= HasFlowStartSysUpTime
		case std(ieFlowEndSysUpTime):
			b |= HasFlowEndSysUpTime
		case std(ieSystemInitTimeMillis):
			b |= HasSystemInitTimeMillis
		case std(ieObservationTimeSecs):
			b |= HasObservationTimeSeconds
		case std(ieObservationTimeMillis):
			b |= HasObservationTimeMillis
		case std(ieObservationTimeMicros):
			b |= HasObservationTimeMicros
		case std(ieObservationTimeNanos):
			b |= HasObservationTimeNanos
		case std(ieCollectionTimeMillis):
			b |= HasCollectionTimeMillis

		case std(ieIcmpTypeCodeIPv4), std(ieIcmpTypeCodeIPv6):
			b |= HasIcmpTypeCodeCombined
		case std(ieIcmpTypeIPv4), std(ieIcmpCodeIPv4), std(ieIcmpTypeIPv6), std(ieIcmpCodeIPv6):
			b |= HasIcmpTypeCodeSplit

		case std(ieVlanID):
			b |= HasVlanID
		case std(iePostVlanID):
			b |= HasPostVlanID
		case reverse(ieVlanID):
			b |= HasReverseVlanID
		case cert(ieInitialTCPFlags):
			b |= HasInitialTCPFlags
		case reverse(ieInitialTCPFlags):
			b |= HasReverseInitialTCPFlags
		case reverse(ieTCPControlBits):
			b |= HasReverseTCPControlBits
		case std(ieFirewallEvent):
			b |= HasFirewallEvent
		case cisco(ieNFFWEvent):
			b |= HasNFFWEvent
		case cisco(ieNFFWExtEvent):
			b |= HasNFFWExtEvent
		case std(ieSubTemplateMultiList):
			b |= HasSubTemplateMultiList
		case cert(ieReverseFlowDeltaMillis):
			b |= HasReverseFlowDeltaMillis
		case cert(ieCertToolID):
			b |= HasCertToolID
		case std(ieExportingProcessID):
			b |= HasExportingProcessID
		}
	}
	return b
}

// isYAFShape reports whether the bitmap qualifies for the YAF fast
// path: no foreign IEs, an address, the millisecond time pair, and
// exactly one volume pair.
func isYAFShape(b Bmap) bool {
	if b&^yafMask != 0 {
		return false
	}
	if !b.Any(HasIPv4 | HasIPv6) {
		return false
	}
	if !b.Has(HasFlowStartMillis | HasFlowEndMillis) {
		return false
	}
	delta := b.Has(HasOctetDelta | HasPacketDelta)
	total := b.Has(HasOctetTotal | HasPacketTotal)
	return delta != total // exactly one pair present
}

func yafVolumeStyle(b Bmap) VolumeStyle {
	if b.Has(HasOctetTotal | HasPacketTotal) {
		return VolumeTotal
	}
	return VolumeDelta
}

// nf9Shape checks the bitmap against the NF9 fast-path requirements:
// exactly one address family, one time style, and one volume style.
func nf9Shape(b Bmap) (NF9Variant, bool) {
	if b&^nf9Mask != 0 {
		return NF9Variant{}, false
	}

	family := addressFamily(b)
	if family != IPFamilyV4 && family != IPFamilyV6 {
		return NF9Variant{}, false
	}

	milli := b.Has(HasFlowStartMillis | HasObservationTimeMillis)
	sysup := b.Has(HasFlowStartSysUpTime | HasSystemInitTimeMillis)
	if milli == sysup {
		return NF9Variant{}, false
	}

	delta := b.Has(HasOctetDelta | HasPacketDelta)
	total := b.Has(HasOctetTotal | HasPacketTotal)
	initiator := b.Has(HasInitiatorOctets|HasInitiatorPackets) ||
		b.Has(HasPostOctetDelta | HasPostPacketDelta)

	var volume VolumeStyle
	switch {
	case delta && !total && !initiator:
		volume = VolumeDelta
	case total && !delta && !initiator:
		volume = VolumeTotal
	case initiator && !delta && !total:
		volume = VolumeInitiator
	default:
		return NF9Variant{}, false
	}

	return NF9Variant{Family: family, SysUp: sysup, Volume: volume}, true
}

func addressFamily(b Bmap) IPFamily {
	switch {
	case b.Has(HasIPv4) && b.Has(HasIPv6):
		return IPFamilyBoth
	case b.Has(HasIPv4):
		return IPFamilyV4
	case b.Has(HasIPv6):
		return IPFamilyV6
	default:
		return IPFamilyNone
	}
}
