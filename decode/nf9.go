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

// NF9 implements the NF9REC fast path, specialized
// for the 12 precomputed NF9 shapes.
func NF9(cfg Config, v ipfix.NF9Variant, in *Fields) (Result, RejectReason) {
	// Work on a local copy so per-record bookkeeping never touches the
	// caller's transcoded record.
	local := *in
	in = &local

	if in.FlowEndReason&FlowEndReasonMask == YAFIntermediateEndReason {
		return Result{}, RejectIntermediateUniflow
	}

	// NF9_OUT_IS_REVERSE flips which of the initiator/responder pair
	// plays the forward role.
	initiatorStyle := v.Volume == ipfix.VolumeInitiator
	if cfg.Quirks.Has(QuirkNF9OutIsReverse) {
		initiatorStyle = !initiatorStyle
	}

	var fwdPkts, fwdBytes, revPkts, revBytes uint64
	if initiatorStyle {
		fwdPkts, fwdBytes = in.InitiatorPackets, in.InitiatorOctets
		revPkts, revBytes = in.ResponderPackets, in.ResponderOctets
	} else {
		switch v.Volume {
		case ipfix.VolumeTotal:
			fwdPkts, fwdBytes = in.PacketTotal, in.OctetTotal
		default:
			fwdPkts, fwdBytes = in.PacketDelta, in.OctetDelta
		}
	}

	fwEventActive := cfg.Quirks.Has(QuirkFWEvent) && in.FirewallEvent != 0
	var memo uint32
	if fwEventActive {
		// post*Delta is consulted as an alternative
		// forward source when non-zero and the variant is not
		// initiator-style.
		if v.Volume != ipfix.VolumeInitiator && (in.PostPacketDelta != 0 || in.PostOctetDelta != 0) {
			fwdPkts, fwdBytes = in.PostPacketDelta, in.PostOctetDelta
		}
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

	icmp := in.Protocol == ProtocolICMP || in.Protocol == ProtocolICMPv6
	swapped := false
	if (fwdPkts == 0 || fwdBytes == 0) && revPkts > 0 && revBytes > 0 {
		fwdPkts, fwdBytes = revPkts, revBytes
		swapped = true
	}

	fwd := &record.Flow{Protocol: in.Protocol, Memo: memo}
	fwd.SetPackets(fwdPkts)
	fwd.SetBytes(fwdBytes)

	family := nf9Family(v.Family)
	applyAddresses(fwd, in, family)

	sPort, dPort, _ := encodeICMP(in, nf9Bmap(v), family)
	fwd.SPort, fwd.DPort = sPort, dPort
	if swapped {
		fwd.SwapAddresses(icmp)
	}

	pickInterfaces(cfg, fwd, in, swapped)
	applyTCPFlags(fwd, in, swapped)
	applyEndReasonAttributes(fwd, in)

	in.SinglePacketFlow = fwdPkts == 1
	startMillis, durationMillis := nf9Time(v, in, cfg)
	fwd.StartMillis = startMillis
	fwd.DurationMillis = durationMillis

	res := Result{Forward: fwd}

	// NF9 has no separate reverse-timing IEs; a companion reverse record
	// copies timing/interfaces from the forward record.
	if !swapped && revPkts > 0 && revBytes > 0 {
		rev := fwd.Clone()
		rev.SetPackets(revPkts)
		rev.SetBytes(revBytes)
		rev.SwapAddresses(icmp)
		pickInterfaces(cfg, rev, in, true)
		applyTCPFlags(rev, in, true)
		rev.StartMillis = fwd.StartMillis
		rev.DurationMillis = fwd.DurationMillis
		res.Reverse = rev
	}

	return res, RejectNone
}

func nf9Family(f ipfix.IPFamily) record.Family {
	if f == ipfix.IPFamilyV6 {
		return record.FamilyIPv6
	}
	return record.FamilyIPv4
}

// nf9Bmap reconstructs the minimal bmap encodeICMP needs. NF9 templates
// never carry ICMP IEs directly; this always yields the "use transport
// ports verbatim" branch.
func nf9Bmap(ipfix.NF9Variant) ipfix.Bmap { return 0 }

func nf9Time(v ipfix.NF9Variant, in *Fields, cfg Config) (int64, uint32) {
	if !v.SysUp {
		start := int64(in.FlowStartMillis)
		end := int64(in.ObservationTimeMillis)
		return start, clampDuration(end - start)
	}

	bmap := ipfix.HasFlowStartSysUpTime | ipfix.HasSystemInitTimeMillis
	start, duration, _ := DeriveTime(bmap, in, cfg)
	return start, duration
}
