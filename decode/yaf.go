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

// YAFIPv6Supported gates the drop of IPv6-only templates on builds
// without IPv6 support. This engine always supports IPv6; the constant
// documents the gate, since a build without net.IP v6 support is not a
// configuration this engine offers.
const YAFIPv6Supported = true

// YAF implements the YAFREC fast path. It skips the
// volume gauntlet -- the variant dictates delta vs total directly -- but
// reuses the same ICMP, TCP-flags, time, and reverse-synthesis logic as
// the generic decoder.
func YAF(cfg Config, v ipfix.YAFVariant, in *Fields) (Result, RejectReason) {
	if in.FlowEndReason&FlowEndReasonMask == YAFIntermediateEndReason {
		return Result{}, RejectIntermediateUniflow
	}
	if v.Family == ipfix.IPFamilyV6 && !YAFIPv6Supported {
		return Result{}, RejectNoAddress
	}

	var fwdPkts, fwdBytes, revPkts, revBytes uint64
	switch v.Volume {
	case ipfix.VolumeTotal:
		fwdPkts, fwdBytes = in.PacketTotal, in.OctetTotal
	default:
		fwdPkts, fwdBytes = in.PacketDelta, in.OctetDelta
	}
	if v.Bi {
		switch v.Volume {
		case ipfix.VolumeTotal:
			revPkts, revBytes = in.ReversePacketTotal, in.ReverseOctetTotal
		default:
			revPkts, revBytes = in.ReversePacketDelta, in.ReverseOctetDelta
		}
	}

	if fwdBytes == 0 && revBytes == 0 {
		return Result{}, RejectZeroBytes
	}
	if fwdPkts == 0 && revPkts == 0 && !cfg.Quirks.Has(QuirkZeroPackets) {
		return Result{}, RejectZeroPackets
	}

	icmp := in.Protocol == ProtocolICMP || in.Protocol == ProtocolICMPv6
	swapped := false
	if fwdBytes == 0 && revBytes != 0 {
		// Forward volume zero with non-zero reverse volume: swap
		// addresses/ports/interfaces in place and emit as a forward-only
		// record, no companion reverse.
		fwdPkts, fwdBytes = revPkts, revBytes
		swapped = true
	}

	fwd := &record.Flow{Protocol: in.Protocol}
	fwd.SetPackets(fwdPkts)
	fwd.SetBytes(fwdBytes)

	family := yafFamily(v.Family, in)
	applyAddresses(fwd, in, family)

	sPort, dPort, _ := encodeICMP(in, yafBmap(v), family)
	fwd.SPort, fwd.DPort = sPort, dPort
	if swapped {
		fwd.SwapAddresses(icmp)
	}

	pickInterfaces(cfg, fwd, in, swapped)
	applyTCPFlags(fwd, in, swapped)
	applyEndReasonAttributes(fwd, in)

	fwd.StartMillis = int64(in.FlowStartMillis)
	fwd.SetDuration(int64(in.FlowEndMillis) - int64(in.FlowStartMillis))

	res := Result{Forward: fwd}

	if v.Bi && !swapped && revBytes > 0 {
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

func yafFamily(f ipfix.IPFamily, in *Fields) record.Family {
	switch f {
	case ipfix.IPFamilyV6:
		return record.FamilyIPv6
	case ipfix.IPFamilyBoth:
		if ipNonZero(in.SrcIPv6) || ipNonZero(in.DstIPv6) {
			return record.FamilyIPv6
		}
		return record.FamilyIPv4
	default:
		return record.FamilyIPv4
	}
}

// yafBmap reconstructs the minimal bmap encodeICMP needs (whether the
// template carried the combined or split ICMP IEs) from a YAF variant.
// YAF templates never carry ICMP IEs directly; this always yields the
// "use transport ports verbatim" branch, kept for symmetry with the
// generic decoder's call signature.
func yafBmap(ipfix.YAFVariant) ipfix.Bmap { return 0 }
