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
	"net"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facebook/ipfixd/ipfix"
)

func v4(s string) net.IP { return net.ParseIP(s).To4() }

func TestGenericFirewallDenied(t *testing.T) {
	in := &Fields{
		SrcIPv4:       v4("10.1.1.1"),
		DstIPv4:       v4("10.2.2.2"),
		Protocol:      ProtocolTCP,
		FirewallEvent: FirewallEventDenied,
		NFFWExtEvent:  1002,
	}
	bmap := ipfix.HasIPv4 | ipfix.HasFirewallEvent
	cfg := Config{Quirks: QuirkFWEvent}

	res, reason := Generic(cfg, bmap, in)
	require.Equal(t, RejectNone, reason)
	require.NotNil(t, res.Forward, "Forward record is nil:\n%s", spew.Sdump(res))
	assert.EqualValues(t, 1, res.Forward.Packets)
	assert.EqualValues(t, 1, res.Forward.Bytes)
	assert.EqualValues(t, 1002, res.Forward.Memo)
	assert.Nil(t, res.Reverse)
}

func TestGenericFirewallDeletedZeroVolumeBothDirections(t *testing.T) {
	in := &Fields{
		SrcIPv4:            v4("10.1.1.1"),
		DstIPv4:            v4("10.2.2.2"),
		Protocol:           ProtocolTCP,
		FirewallEvent:      FirewallEventDeleted,
		ReversePacketDelta: 0,
		ReverseOctetDelta:  0,
	}
	bmap := ipfix.HasIPv4 | ipfix.HasFirewallEvent
	cfg := Config{Quirks: QuirkFWEvent}

	res, reason := Generic(cfg, bmap, in)
	require.Equal(t, RejectNone, reason)
	require.NotNil(t, res.Forward)
	assert.EqualValues(t, 1, res.Forward.Packets)
	assert.EqualValues(t, 1, res.Forward.Bytes)
	// DELETED promotes zero volume to 1/1 on both directions; a
	// companion reverse record should therefore be synthesized, not
	// suppressed.
	require.NotNil(t, res.Reverse, "reverse record unexpectedly nil:\n%s", spew.Sdump(res))
	assert.EqualValues(t, 1, res.Reverse.Packets)
	assert.EqualValues(t, 1, res.Reverse.Bytes)
}

func TestGenericFirewallDeniedWithPackets(t *testing.T) {
	in := &Fields{
		SrcIPv4:       v4("10.1.1.1"),
		DstIPv4:       v4("10.2.2.2"),
		Protocol:      ProtocolTCP,
		FirewallEvent: FirewallEventDenied,
		PacketDelta:   5,
	}
	bmap := ipfix.HasIPv4 | ipfix.HasFirewallEvent
	res, reason := Generic(Config{Quirks: QuirkFWEvent}, bmap, in)
	require.Equal(t, RejectNone, reason)
	assert.EqualValues(t, 5, res.Forward.Packets, "packet count survives DENIED promotion")
	assert.EqualValues(t, 5, res.Forward.Bytes, "bytes forced to packets when packets > 0")
	assert.EqualValues(t, uint32(FirewallEventDenied), res.Forward.Memo, "ext event outside 1001..1004 falls back to the event code")
}

func TestGenericFirewallUnknownEventDropped(t *testing.T) {
	in := &Fields{
		SrcIPv4:       v4("10.1.1.1"),
		DstIPv4:       v4("10.2.2.2"),
		Protocol:      ProtocolTCP,
		FirewallEvent: FirewallEventCreated,
		PacketDelta:   1,
		OctetDelta:    40,
	}
	bmap := ipfix.HasIPv4 | ipfix.HasFirewallEvent
	_, reason := Generic(Config{Quirks: QuirkFWEvent}, bmap, in)
	assert.Equal(t, RejectFirewallEvent, reason)
}

func TestGenericPostTotalVolumeGauntlet(t *testing.T) {
	in := &Fields{
		SrcIPv4:         v4("10.0.0.1"),
		DstIPv4:         v4("10.0.0.2"),
		Protocol:        ProtocolTCP,
		PostPacketTotal: 9,
		PostOctetTotal:  900,
		FlowStartMillis: 1000,
		FlowEndMillis:   2000,
	}
	bmap := ipfix.HasIPv4 | ipfix.HasPostOctetTotal | ipfix.HasPostPacketTotal |
		ipfix.HasFlowStartMillis | ipfix.HasFlowEndMillis
	res, reason := Generic(Config{}, bmap, in)
	require.Equal(t, RejectNone, reason)
	assert.EqualValues(t, 9, res.Forward.Packets, "post*TotalCount is the last resort of the volume gauntlet")
	assert.EqualValues(t, 900, res.Forward.Bytes)
}

func TestGenericICMPCombinedTypeCode(t *testing.T) {
	in := &Fields{
		SrcIPv4:          v4("10.0.0.1"),
		DstIPv4:          v4("10.0.0.2"),
		Protocol:         ProtocolICMP,
		IcmpTypeCodeIPv4: 0x0800,
		PacketDelta:      1,
		OctetDelta:       84,
	}
	bmap := ipfix.HasIPv4 | ipfix.HasIcmpTypeCodeCombined
	res, reason := Generic(Config{}, bmap, in)
	require.Equal(t, RejectNone, reason)
	assert.EqualValues(t, 0, res.Forward.SPort)
	assert.EqualValues(t, 0x0800, res.Forward.DPort)
}

func TestGenericIntermediateUniflowDropped(t *testing.T) {
	in := &Fields{FlowEndReason: YAFIntermediateEndReason}
	_, reason := Generic(Config{}, ipfix.HasIPv4, in)
	assert.Equal(t, RejectIntermediateUniflow, reason)
}

func TestGenericZeroVolumeReverseOnlyUniflow(t *testing.T) {
	in := &Fields{
		SrcIPv4:            v4("10.0.0.1"),
		DstIPv4:            v4("10.0.0.2"),
		Protocol:           ProtocolTCP,
		ReversePacketDelta: 5,
		ReverseOctetDelta:  300,
	}
	bmap := ipfix.HasIPv4
	res, reason := Generic(Config{}, bmap, in)
	require.Equal(t, RejectNone, reason)
	assert.EqualValues(t, 5, res.Forward.Packets)
	assert.EqualValues(t, 300, res.Forward.Bytes)
	// Addresses must be swapped: original dst (10.0.0.2) is now src.
	assert.True(t, res.Forward.Src.Equal(v4("10.0.0.2")), "Src = %v, want 10.0.0.2 (swapped)", res.Forward.Src)
	assert.Nil(t, res.Reverse, "unexpected companion reverse record")
}

func TestGenericRejectsZeroBytesBothDirections(t *testing.T) {
	in := &Fields{SrcIPv4: v4("10.0.0.1"), DstIPv4: v4("10.0.0.2"), PacketDelta: 1}
	_, reason := Generic(Config{}, ipfix.HasIPv4, in)
	assert.Equal(t, RejectZeroBytes, reason)
}

func TestGenericNoAddressRejectedUnlessQuirk(t *testing.T) {
	in := &Fields{PacketDelta: 1, OctetDelta: 10}
	_, reason := Generic(Config{}, 0, in)
	require.Equal(t, RejectNoAddress, reason)

	_, reason = Generic(Config{Quirks: QuirkMissingIPs}, 0, in)
	assert.Equal(t, RejectNone, reason, "with MissingIPs quirk")
}

func TestGenericSTMLFlagsOverrideFlatFields(t *testing.T) {
	in := &Fields{
		SrcIPv4:            v4("10.0.0.1"),
		DstIPv4:            v4("10.0.0.2"),
		Protocol:           ProtocolTCP,
		PacketDelta:        6,
		OctetDelta:         600,
		ReversePacketDelta: 3,
		ReverseOctetDelta:  300,
		FlowStartMillis:    1000,
		FlowEndMillis:      1200,
		TCPControlBits:     0x10, // flat field the STML pair must override
		STMLFlags: &STMLFlags{
			FwdInitial: 0x02,
			FwdUnion:   0x10,
			RevInitial: 0x12,
			RevUnion:   0x01,
		},
	}
	bmap := ipfix.HasIPv4 | ipfix.HasFlowStartMillis | ipfix.HasFlowEndMillis |
		ipfix.HasSubTemplateMultiList
	res, reason := Generic(Config{}, bmap, in)
	require.Equal(t, RejectNone, reason)
	assert.EqualValues(t, 0x02, res.Forward.TCPFlagsInitial)
	assert.EqualValues(t, 0x10, res.Forward.TCPFlagsSession)
	require.NotNil(t, res.Reverse)
	assert.EqualValues(t, 0x12, res.Reverse.TCPFlagsInitial, "reverse record must carry the reverse STML pair")
	assert.EqualValues(t, 0x01, res.Reverse.TCPFlagsSession)
}

func TestGenericBiflowReverseSynthesis(t *testing.T) {
	in := &Fields{
		SrcIPv4:                v4("10.0.0.1"),
		DstIPv4:                v4("10.0.0.2"),
		Protocol:               ProtocolTCP,
		PacketDelta:            10,
		OctetDelta:             600,
		ReversePacketDelta:     8,
		ReverseOctetDelta:      500,
		FlowStartMillis:        1_700_000_000_000,
		FlowEndMillis:          1_700_000_000_500,
		ReverseFlowDeltaMillis: 50,
	}
	bmap := ipfix.HasIPv4 | ipfix.HasFlowStartMillis | ipfix.HasFlowEndMillis
	res, reason := Generic(Config{}, bmap, in)
	require.Equal(t, RejectNone, reason)
	require.NotNil(t, res.Reverse, "expected a reverse record:\n%s", spew.Sdump(res))
	assert.EqualValues(t, 1_700_000_000_050, res.Reverse.StartMillis)
	assert.EqualValues(t, 450, res.Reverse.DurationMillis)
	assert.True(t, res.Reverse.Src.Equal(v4("10.0.0.2")), "reverse Src = %v, want swapped to 10.0.0.2", res.Reverse.Src)
}
