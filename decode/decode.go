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

// Package decode holds the three record decoders (generic, YAF, NF9) and
// the time gauntlet they all share.
package decode

import (
	"net"

	"github.com/facebook/ipfixd/ipfix"
	"github.com/facebook/ipfixd/record"
)

// Quirk is a per-probe behavior flag.
type Quirk uint32

// Quirks recognized by the decoders.
const (
	QuirkFWEvent Quirk = 1 << iota
	QuirkNF9OutIsReverse
	QuirkNF9SysUpTimeSecs
	QuirkZeroPackets
	QuirkMissingIPs
)

// Has reports whether all bits in mask are set in q.
func (q Quirk) Has(mask Quirk) bool { return q&mask == mask }

// InterfaceValueType says how a probe's ingress/egress fields should be
// read: either real SNMP ifIndex values, or VLAN ids standing in for them.
type InterfaceValueType uint8

// Interface value interpretations.
const (
	InterfaceSNMP InterfaceValueType = iota
	InterfaceVLAN
)

// Fields is the superset of raw values the lower transcoder populates for
// one data record, addressed by name rather than by offset.
// Only the fields relevant to the record's variant are populated; the
// rest are left at their zero value, which every gauntlet below treats as
// "absent".
type Fields struct {
	SrcIPv4, DstIPv4, NextHopIPv4 net.IP
	SrcIPv6, DstIPv6, NextHopIPv6 net.IP

	SrcPort, DstPort uint16
	Protocol         uint8

	OctetDelta, PacketDelta             uint64
	OctetTotal, PacketTotal              uint64
	InitiatorOctets, InitiatorPackets    uint64
	ResponderOctets, ResponderPackets    uint64
	PostOctetDelta, PostPacketDelta      uint64
	PostOctetTotal, PostPacketTotal      uint64
	ReverseOctetDelta, ReversePacketDelta uint64
	ReverseOctetTotal, ReversePacketTotal uint64

	FlowStartMillis, FlowEndMillis               uint64
	FlowStartSeconds, FlowEndSeconds             uint64
	FlowStartMicros, FlowEndMicros               uint64
	FlowStartNanos, FlowEndNanos                 uint64
	FlowStartDeltaMicros, FlowEndDeltaMicros     uint64
	FlowDurationMillis, FlowDurationMicros       uint64
	FlowStartSysUpTime, FlowEndSysUpTime         uint32
	SystemInitTimeMillis                          uint64
	ObservationTimeSeconds, ObservationTimeMillis uint64
	ObservationTimeMicros, ObservationTimeNanos   uint64
	CollectionTimeMillis                          uint64
	ReverseFlowDeltaMillis                        uint64

	IcmpTypeCodeIPv4, IcmpTypeCodeIPv6 uint16
	IcmpTypeIPv4, IcmpCodeIPv4         uint8
	IcmpTypeIPv6, IcmpCodeIPv6         uint8

	VlanID, PostVlanID, ReverseVlanID, ReversePostVlanID uint16
	IngressInterface, EgressInterface                     uint32
	ReverseIngressInterface, ReverseEgressInterface        uint32

	TCPControlBits, ReverseTCPControlBits uint8
	InitialTCPFlags, ReverseInitialTCPFlags uint8
	UnionTCPFlags                           uint8
	SilkTCPState                            uint8
	STMLFlags                               *STMLFlags

	FlowEndReason   uint8
	FlowAttributes  uint8
	FirewallEvent   uint8
	NFFWExtEvent    uint32

	// FlushEventCount and PeakCount hold a YAF flow-table statistics
	// options record's two cumulative counters.
	FlushEventCount uint64
	PeakCount       uint64

	ExportTimeMillis int64

	// SinglePacketFlow is set by the NF9 decoder before calling DeriveTime
	// when the record's forward packet count is exactly 1, so the
	// sysUpTime path can clamp end = start instead of assuming rollover.
	SinglePacketFlow bool
}

// STMLFlags is the TCP-flags payload carried in a sub-template-multi-list
// side channel, one initial/union pair per direction; when present it
// overrides the flat initial/union/control fields.
type STMLFlags struct {
	FwdInitial uint8
	FwdUnion   uint8
	RevInitial uint8
	RevUnion   uint8
}

// Result is what a decoder produces for one incoming record: a forward
// record, and optionally a reverse record.
type Result struct {
	Forward *record.Flow
	Reverse *record.Flow
}

// Config is the subset of probe configuration the decoders consult.
type Config struct {
	Name                string
	InterfaceValueType   InterfaceValueType
	Quirks               Quirk
}

// pickInterfaces fills the interface fields per the probe's interface
// value type and direction, swapping for reverse records.
func pickInterfaces(cfg Config, fl *record.Flow, in *Fields, reverse bool) {
	if cfg.InterfaceValueType == InterfaceSNMP {
		ingress, egress := in.IngressInterface, in.EgressInterface
		if reverse {
			egress, ingress = in.IngressInterface, in.EgressInterface
		}
		fl.SetInterface(&fl.IngressInterface, uint64(ingress))
		fl.SetInterface(&fl.EgressInterface, uint64(egress))
		return
	}

	vlan, postVlan := uint64(in.VlanID), uint64(in.PostVlanID)
	if reverse {
		if in.ReverseVlanID != 0 || in.ReversePostVlanID != 0 {
			vlan, postVlan = uint64(in.ReverseVlanID), uint64(in.ReversePostVlanID)
		} else {
			vlan, postVlan = uint64(in.PostVlanID), uint64(in.VlanID)
		}
	}
	fl.SetInterface(&fl.IngressInterface, vlan)
	fl.SetInterface(&fl.EgressInterface, postVlan)
}

// encodeICMP packs an ICMP record's type/code into the dest port for
// the generic decoder; the YAF/NF9 fast paths reuse it verbatim, since
// their raw Fields carry the same named members.
func encodeICMP(in *Fields, bmap ipfix.Bmap, family record.Family) (sPort, dPort uint16, handled bool) {
	if in.Protocol != ProtocolICMP && in.Protocol != ProtocolICMPv6 {
		return 0, 0, false
	}

	if bmap.Has(ipfix.HasIcmpTypeCodeCombined) {
		if family == record.FamilyIPv6 {
			return 0, in.IcmpTypeCodeIPv6, true
		}
		return 0, in.IcmpTypeCodeIPv4, true
	}

	if bmap.Has(ipfix.HasIcmpTypeCodeSplit) {
		if family == record.FamilyIPv6 {
			return 0, uint16(in.IcmpTypeIPv6)<<8 | uint16(in.IcmpCodeIPv6), true
		}
		return 0, uint16(in.IcmpTypeIPv4)<<8 | uint16(in.IcmpCodeIPv4), true
	}

	return in.SrcPort, in.DstPort, false
}

// Protocol numbers the decoders check against.
const (
	ProtocolICMP   uint8 = 1
	ProtocolICMPv6 uint8 = 58
	ProtocolTCP    uint8 = 6
)

// applyTCPFlags reconstructs all/initial/session TCP flags, preferring
// the STML side channel, then the flat initial/union pair, then the
// plain control bits.
func applyTCPFlags(fl *record.Flow, in *Fields, reverse bool) {
	if in.Protocol != ProtocolTCP {
		return
	}

	if in.STMLFlags != nil {
		initial, union := in.STMLFlags.FwdInitial, in.STMLFlags.FwdUnion
		if reverse {
			initial, union = in.STMLFlags.RevInitial, in.STMLFlags.RevUnion
		}
		fl.TCPFlagsInitial = initial
		fl.TCPFlagsSession = union
		fl.TCPFlagsAll = initial | union
		fl.TCPState |= record.SKTCPStateExpanded
		return
	}

	initial, union := in.InitialTCPFlags, in.UnionTCPFlags
	control := in.TCPControlBits
	if reverse {
		initial, union = in.ReverseInitialTCPFlags, 0
		control = in.ReverseTCPControlBits
	}

	if initial != 0 || union != 0 {
		fl.TCPFlagsInitial = initial
		fl.TCPFlagsSession = union
		fl.TCPFlagsAll = initial | union
		fl.TCPState |= record.SKTCPStateExpanded
		return
	}
	fl.TCPFlagsAll = control
}

// applyEndReasonAttributes folds flowEndReason and flowAttributes into
// the tcp_state bitmask unless silkTCPState already set it.
func applyEndReasonAttributes(fl *record.Flow, in *Fields) {
	if in.SilkTCPState != 0 {
		return
	}
	if in.FlowEndReason == FlowEndReasonActive {
		fl.TCPState |= record.SKTCPStateTimeoutKilled
	}
	if in.FlowEndReason&FlowEndReasonContinuation != 0 {
		fl.TCPState |= record.SKTCPStateTimeoutStarted
	}
	if in.FlowAttributes&UniformPacketSizeAttr != 0 {
		fl.TCPState |= record.SKTCPStateUniformPacketSize
	}
}

// Protocol constants shared by the decoders.
const (
	YAFIntermediateEndReason  uint8 = 0x1F
	FlowEndReasonMask         uint8 = 0x1F
	FlowEndReasonContinuation uint8 = 0x80
	FlowEndReasonActive       uint8 = 0x02
	UniformPacketSizeAttr     uint8 = 0x01

	FirewallEventCreated uint8 = 1
	FirewallEventDeleted uint8 = 2
	FirewallEventDenied  uint8 = 3
	FirewallEventAlert   uint8 = 4
	FirewallEventUpdated uint8 = 5

	DeniedEventExtRangeLow  uint32 = 1001
	DeniedEventExtRangeHigh uint32 = 1004
)

func selectIPv4v6(hasV4, hasV6 bool, v6NonZero bool) record.Family {
	if hasV6 && (!hasV4 || v6NonZero) {
		return record.FamilyIPv6
	}
	if hasV4 {
		return record.FamilyIPv4
	}
	return record.FamilyNone
}

func ipNonZero(ip net.IP) bool {
	for _, b := range ip {
		if b != 0 {
			return true
		}
	}
	return false
}
