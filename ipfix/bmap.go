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

// Bmap is the 64-bit bitmap summarizing which salient IEs a template
// carries. Decoder dispatch is a tagged union (DecodePlan, see
// classifier.go); Bmap is kept purely as the IE-presence summary the
// classifier and the time/volume gauntlets work from -- useful on its
// own for trace logging ("why did this template classify as generic?").
type Bmap uint64

// Bit assignments, grouped by concern: address, volume, time, ICMP,
// other.
const (
	HasIPv4 Bmap = 1 << iota
	HasIPv6

	// Volume bits.
	HasOctetDelta
	HasPacketDelta
	HasOctetTotal
	HasPacketTotal
	HasInitiatorOctets
	HasInitiatorPackets
	HasResponderOctets
	HasResponderPackets
	HasPostOctetDelta
	HasPostPacketDelta
	HasPostOctetTotal
	HasPostPacketTotal

	// Time bits.
	HasFlowStartMillis
	HasFlowEndMillis
	HasFlowStartSeconds
	HasFlowEndSeconds
	HasFlowStartMicros
	HasFlowEndMicros
	HasFlowStartNanos
	HasFlowEndNanos
	HasFlowStartDeltaMicros
	HasFlowEndDeltaMicros
	HasFlowDurationMillis
	HasFlowDurationMicros
	HasFlowStartSysUpTime
	HasFlowEndSysUpTime
	HasSystemInitTimeMillis
	HasObservationTimeSeconds
	HasObservationTimeMillis
	HasObservationTimeMicros
	HasObservationTimeNanos
	HasCollectionTimeMillis

	// ICMP bits.
	HasIcmpTypeCodeCombined // icmpTypeCodeIPv4 or icmpTypeCodeIPv6
	HasIcmpTypeCodeSplit    // icmpType{IPv4,IPv6} + icmpCode{IPv4,IPv6}

	// Other bits.
	HasVlanID
	HasPostVlanID
	HasReverseVlanID
	HasInitialTCPFlags
	HasReverseInitialTCPFlags
	HasReverseTCPControlBits
	HasFirewallEvent
	HasNFFWEvent
	HasNFFWExtEvent
	HasSubTemplateMultiList
	HasReverseFlowDeltaMillis
	HasCertToolID
	HasExportingProcessID
)

// yafMask is the set of bits the YAF fast path is allowed to see; any bit
// outside this mask on a data template disqualifies it from the YAF
// decoder.
const yafMask = HasIPv4 | HasIPv6 |
	HasOctetDelta | HasPacketDelta | HasOctetTotal | HasPacketTotal |
	HasFlowStartMillis | HasFlowEndMillis |
	HasReverseFlowDeltaMillis |
	HasInitialTCPFlags | HasReverseInitialTCPFlags |
	HasSubTemplateMultiList

// nf9Mask is the set of bits the NF9 fast path is allowed to see.
const nf9Mask = HasIPv4 | HasIPv6 |
	HasOctetDelta | HasPacketDelta |
	HasOctetTotal | HasPacketTotal |
	HasInitiatorOctets | HasInitiatorPackets |
	HasResponderOctets | HasResponderPackets |
	HasPostOctetDelta | HasPostPacketDelta |
	HasFlowStartMillis | HasObservationTimeMillis |
	HasFlowStartSysUpTime | HasFlowEndSysUpTime | HasSystemInitTimeMillis

// Has reports whether all bits in mask are set.
func (b Bmap) Has(mask Bmap) bool { return b&mask == mask }

// Any reports whether any bit in mask is set.
func (b Bmap) Any(mask Bmap) bool { return b&mask != 0 }
