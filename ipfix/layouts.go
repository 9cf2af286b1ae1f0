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

// genericSuperset is the IE list of the single FIXREC internal template:
// the union of every field the generic decoder (decode.Generic) knows how
// to pull out of an arbitrary template, regardless of which of them a
// given probe actually exports.
var genericSuperset = []IESpec{
	std(ieSourceIPv4Address), std(ieDestIPv4Address),
	std(ieSourceIPv6Address), std(ieDestIPv6Address),
	std(ieIPNextHopIPv4Address), std(ieIPNextHopIPv6Address),
	std(ieSourceTransportPort), std(ieDestTransportPort),
	std(ieProtocolIdentifier),
	std(ieIngressInterface), std(ieEgressInterface),
	std(ieVlanID), std(iePostVlanID), reverse(ieVlanID),
	std(ieOctetDeltaCount), std(iePacketDeltaCount),
	std(ieOctetTotalCount), std(iePacketTotalCount),
	std(iePostOctetDeltaCount), std(iePostPacketDeltaCount),
	std(iePostOctetTotalCount), std(iePostPacketTotalCount),
	std(ieInitiatorOctets), std(ieInitiatorPackets),
	std(ieResponderOctets), std(ieResponderPackets),
	std(ieFlowStartSeconds), std(ieFlowEndSeconds),
	std(ieFlowStartMillis), std(ieFlowEndMillis),
	std(ieFlowStartMicros), std(ieFlowEndMicros),
	std(ieFlowStartNanos), std(ieFlowEndNanos),
	std(ieFlowStartDeltaMicros), std(ieFlowEndDeltaMicros),
	std(ieFlowDurationMillis), std(ieFlowDurationMicros),
	std(ieFlowStartSysUpTime), std(ieFlowEndSysUpTime),
	std(ieSystemInitTimeMillis),
	std(ieObservationTimeSecs), std(ieObservationTimeMillis),
	std(ieObservationTimeMicros), std(ieObservationTimeNanos),
	std(ieCollectionTimeMillis),
	std(ieIcmpTypeCodeIPv4), std(ieIcmpTypeCodeIPv6),
	std(ieIcmpTypeIPv4), std(ieIcmpCodeIPv4),
	std(ieIcmpTypeIPv6), std(ieIcmpCodeIPv6),
	std(ieTCPControlBits), reverse(ieTCPControlBits),
	cert(ieInitialTCPFlags), reverse(ieInitialTCPFlags), cert(ieUnionTCPFlags),
	std(ieFlowEndReason), std(ieFlowAttributes),
	std(ieFirewallEvent), cisco(ieNFFWEvent), cisco(ieNFFWExtEvent),
	std(ieSubTemplateMultiList),
	cert(ieReverseFlowDeltaMillis), cert(ieSilkTCPState), cert(ieCertToolID),
	std(ieExportingProcessID),
}

// yafStatsLayout is the YAF flow-table-statistics options record shape.
var yafStatsLayout = []IESpec{
	std(ieExportingProcessID),
	std(ieFlowTableFlushEventCount),
	std(ieFlowTablePeakCount),
	std(ieFlowStartSeconds),
}

// tombstoneLayout is YAF's tombstone record, which carries a nested
// access sub-template (one entry per collector that has acknowledged the
// tombstone) addressed via the tombstoneAccessList sub-template. Only the
// outer scalar fields are listed here; the access list is decoded
// separately once its own inner template is classified.
var tombstoneLayout = []IESpec{
	std(ieExportingProcessID),
	std(ieTombstoneID),
	std(ieObservationTimeSecs),
	std(ieSubTemplateMultiList),
}

// tcpFlagsInnerLayout is YAF's TCP-flags STML entry: initial and union
// flags for both directions.
var tcpFlagsInnerLayout = []IESpec{
	cert(ieInitialTCPFlags), cert(ieUnionTCPFlags),
	reverse(ieInitialTCPFlags), reverse(ieUnionTCPFlags),
}

// tombstoneAccessLayout is YAF's tombstone-access STL entry, one per
// collector that has acknowledged a tombstone.
var tombstoneAccessLayout = []IESpec{
	std(ieExportingProcessID),
	std(ieObservationTimeSecs),
}

// nf9SamplingLayout is a NetFlow-v9 sampling options record, covering both
// the legacy samplingAlgorithm/samplingInterval pair and the newer
// samplerMode/samplerRandomInterval pair.
var nf9SamplingLayout = []IESpec{
	std(ieSamplingAlgorithm),
	std(ieSamplingInterval),
	std(ieSamplerMode),
	std(ieSamplerRandomInterval),
}

// yafLayout returns the concrete IE list for one YAF variant.
func yafLayout(v YAFVariant) []IESpec {
	var ies []IESpec
	switch v.Family {
	case IPFamilyV4:
		ies = append(ies, std(ieSourceIPv4Address), std(ieDestIPv4Address))
	case IPFamilyV6:
		ies = append(ies, std(ieSourceIPv6Address), std(ieDestIPv6Address))
	case IPFamilyBoth:
		ies = append(ies,
			std(ieSourceIPv4Address), std(ieDestIPv4Address),
			std(ieSourceIPv6Address), std(ieDestIPv6Address))
	}

	switch v.Volume {
	case VolumeTotal:
		ies = append(ies, std(ieOctetTotalCount), std(iePacketTotalCount))
	default:
		ies = append(ies, std(ieOctetDeltaCount), std(iePacketDeltaCount))
	}

	ies = append(ies, std(ieFlowStartMillis), std(ieFlowEndMillis))

	if v.Bi {
		ies = append(ies, cert(ieReverseFlowDeltaMillis))
	}

	if v.STML {
		ies = append(ies, std(ieSubTemplateMultiList))
	} else {
		ies = append(ies, cert(ieInitialTCPFlags))
		if v.Bi {
			ies = append(ies, reverse(ieInitialTCPFlags))
		}
	}

	return ies
}

// nf9Layout returns the concrete IE list for one NF9 variant.
func nf9Layout(v NF9Variant) []IESpec {
	var ies []IESpec
	switch v.Family {
	case IPFamilyV4:
		ies = append(ies, std(ieSourceIPv4Address), std(ieDestIPv4Address))
	case IPFamilyV6:
		ies = append(ies, std(ieSourceIPv6Address), std(ieDestIPv6Address))
	}

	switch v.Volume {
	case VolumeTotal:
		ies = append(ies, std(ieOctetTotalCount), std(iePacketTotalCount))
	case VolumeInitiator:
		ies = append(ies,
			std(ieInitiatorOctets), std(ieInitiatorPackets),
			std(ieResponderOctets), std(ieResponderPackets))
	default:
		ies = append(ies, std(ieOctetDeltaCount), std(iePacketDeltaCount))
	}

	if v.SysUp {
		ies = append(ies, std(ieFlowStartSysUpTime), std(ieFlowEndSysUpTime), std(ieSystemInitTimeMillis))
	} else {
		ies = append(ies, std(ieFlowStartMillis), std(ieObservationTimeMillis))
	}

	return ies
}
