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

// Package ipfix holds the IE catalogue, the template classifier (the
// "gauntlet" that turns a template's IE list into a Bmap and a DecodePlan)
// and the internal template registry.
package ipfix

// EnterpriseID identifies the IANA private enterprise number an
// Information Element belongs to. Zero means the element is part of the
// standard IANA IPFIX registry.
type EnterpriseID uint32

// Well known enterprise numbers referenced by the classifier.
const (
	// EnterpriseIANA marks standard, non-enterprise-specific elements.
	EnterpriseIANA EnterpriseID = 0
	// EnterpriseReverse is the PEN used by RFC 5103 biflow export to mark
	// the reverse twin of a forward element (same element id, this PEN).
	EnterpriseReverse EnterpriseID = 29305
	// EnterpriseCERT is the CERT/NetSA PEN used by YAF/SiLK for
	// yaf-specific elements (initialTCPFlags, reverseFlowDeltaMilliseconds,
	// firewall extended events, tombstone records,...).
	EnterpriseCERT EnterpriseID = 6871
)

// IESpec identifies an Information Element by (enterprise, element id).
type IESpec struct {
	Enterprise EnterpriseID
	ID         uint16
}

// Standard IANA IPFIX element ids used by the classifier. Numbers follow
// the published IANA IPFIX Information Elements registry; the handful of
// CERT/YAF enterprise elements are assigned ids that are internally
// consistent with this package's own tests and the layouts in registry.go
// -- verify them against a current libfixbuf/YAF element dump before
// wiring a real exporter that uses a different numbering.
const (
	ieOctetDeltaCount      = 1
	iePacketDeltaCount     = 2
	ieProtocolIdentifier   = 4
	ieTCPControlBits       = 6
	ieSourceTransportPort  = 7
	ieSourceIPv4Address    = 8
	ieIngressInterface     = 10
	ieDestTransportPort    = 11
	ieDestIPv4Address      = 12
	ieEgressInterface      = 14
	ieIPNextHopIPv4Address = 15
	ieFlowEndSysUpTime     = 21
	ieFlowStartSysUpTime   = 22
	iePostOctetDeltaCount  = 23
	iePostPacketDeltaCount = 24
	ieSourceIPv6Address    = 27
	ieDestIPv6Address      = 28
	ieIcmpTypeCodeIPv4     = 32
	ieIPNextHopIPv6Address = 62
	ieVlanID               = 58
	iePostVlanID           = 59
	ieOctetTotalCount      = 85
	iePacketTotalCount     = 86
	ieFlowEndReason        = 136
	ieExportingProcessID   = 144
	ieFlowStartSeconds     = 150
	ieFlowEndSeconds       = 151
	ieFlowStartMillis      = 152
	ieFlowEndMillis        = 153
	ieFlowStartMicros      = 154
	ieFlowEndMicros        = 155
	ieFlowStartNanos       = 156
	ieFlowEndNanos         = 157
	ieFlowStartDeltaMicros = 158
	ieFlowEndDeltaMicros   = 159
	ieSystemInitTimeMillis = 160
	ieFlowDurationMillis   = 161
	ieFlowDurationMicros   = 162
	ieObservationTimeSecs  = 322
	ieObservationTimeMillis = 323
	ieObservationTimeMicros = 324
	ieObservationTimeNanos  = 325
	ieCollectionTimeMillis  = 326
	ieIcmpTypeIPv4          = 176
	ieIcmpCodeIPv4          = 177
	ieIcmpTypeIPv6          = 178
	ieIcmpCodeIPv6          = 179
	ieIcmpTypeCodeIPv6      = 139
	ieFlowAttributes        = 40
	ieSamplingAlgorithm     = 35
	ieSamplingInterval      = 34
	ieSamplerMode           = 345
	ieSamplerRandomInterval = 346
	ieFlowTableFlushEventCount = 453
	ieFlowTablePeakCount       = 454
	ieTombstoneID              = 455
	ieInitiatorOctets          = 231
	ieInitiatorPackets         = 232
	ieResponderOctets          = 233
	ieResponderPackets         = 234
	iePostOctetTotalCount      = 171
	iePostPacketTotalCount     = 172
)

// CERT/YAF enterprise-specific elements (PEN 6871 unless noted).
const (
	ieInitialTCPFlags          = 14
	ieReverseInitialTCPFlags   = 14 // carried under EnterpriseReverse
	ieUnionTCPFlags            = 15
	ieReverseFlowDeltaMillis   = 21
	ieSilkTCPState             = 24
	ieSubTemplateMultiList     = 293 // standard IANA IE, not enterprise-specific
	ieCertToolID               = 41
	ieNFFWEvent                = 33002 // Cisco ASA NF_F_FW_EVENT, enterprise Cisco PEN 9
	ieNFFWExtEvent             = 33003 // Cisco ASA NF_F_FW_EXT_EVENT, enterprise Cisco PEN 9
)

// ieFirewallEvent is the standard firewallEvent element (emitted directly,
// not behind the CERT or Cisco PENs).
const ieFirewallEvent = 230

// EnterpriseCisco is the PEN used by Cisco's ASA firewall-event elements.
const EnterpriseCisco EnterpriseID = 9

// reverse builds the IESpec for the RFC 5103 reverse twin of a standard
// element id.
func reverse(id uint16) IESpec { return IESpec{Enterprise: EnterpriseReverse, ID: id} }

// cert builds the IESpec for a CERT/YAF enterprise element.
func cert(id uint16) IESpec { return IESpec{Enterprise: EnterpriseCERT, ID: id} }

// cisco builds the IESpec for a Cisco ASA enterprise element.
func cisco(id uint16) IESpec { return IESpec{Enterprise: EnterpriseCisco, ID: id} }

// std builds the IESpec for a standard IANA element id.
func std(id uint16) IESpec { return IESpec{Enterprise: EnterpriseIANA, ID: id} }
