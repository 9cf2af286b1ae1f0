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

// Package record holds the normalized flow record every decoder
// produces.
package record

import "net"

// Family is the address family a record's addresses are populated in.
type Family uint8

// Address families a Flow can carry.
const (
	FamilyNone Family = iota
	FamilyIPv4
	FamilyIPv6
)

// tcp_state bits. SKTCPStateExpanded is set iff initial-flags and
// session-flags were individually known to the decoder.
const (
	SKTCPStateExpanded    uint8 = 1 << 0
	SKTCPStateTimeoutKilled  uint8 = 1 << 1
	SKTCPStateTimeoutStarted uint8 = 1 << 2
	SKTCPStateUniformPacketSize uint8 = 1 << 3
)

// MaxUint32 and MaxUint16 are the saturation ceilings used by the Set*
// helpers below.
const (
	MaxUint32 uint32 = 1<<32 - 1
	MaxUint16 uint16 = 1<<16 - 1
)

// Flow is the fixed-shape output record. All volume and
// interface fields are only ever written through the saturating setters
// below so saturation at the u32/u16 ceiling is enforced in one place.
type Flow struct {
	Family Family
	Src    net.IP
	Dst    net.IP
	NextHop net.IP

	SPort uint16 // 0 for ICMP
	DPort uint16 // (type<<8)|code for ICMP

	Protocol uint8

	TCPFlagsAll     uint8
	TCPFlagsInitial uint8
	TCPFlagsSession uint8
	TCPState        uint8

	Packets uint32
	Bytes   uint32

	IngressInterface uint16
	EgressInterface  uint16

	StartMillis int64
	DurationMillis uint32

	FlowType  uint8
	SensorID  uint32
	AppLabel  uint16

	// Memo carries, for records promoted from a DENIED firewallEvent, the
	// firewall extended-event code when it lies in 1001..1004 and the
	// event code itself otherwise; zero for all other records.
	Memo uint32
}

// SetPackets saturates v to MaxUint32 before storing it.
func (f *Flow) SetPackets(v uint64) {
	f.Packets = saturate32(v)
}

// SetBytes saturates v to MaxUint32 before storing it.
func (f *Flow) SetBytes(v uint64) {
	f.Bytes = saturate32(v)
}

// SetDuration saturates v to MaxUint32 ms before storing it.
func (f *Flow) SetDuration(v int64) {
	if v < 0 {
		v = 0
	}
	f.DurationMillis = saturate32(uint64(v))
}

// SetInterface saturates v to MaxUint16 before storing it into dst, which
// must point at one of f.IngressInterface/f.EgressInterface.
func (f *Flow) SetInterface(dst *uint16, v uint64) {
	if v > uint64(MaxUint16) {
		*dst = MaxUint16
		return
	}
	*dst = uint16(v)
}

func saturate32(v uint64) uint32 {
	if v > uint64(MaxUint32) {
		return MaxUint32
	}
	return uint32(v)
}

// Clone returns a deep-enough copy of f suitable as the starting point for
// reverse-record synthesis: address byte slices are duplicated so mutating
// the clone's addresses never aliases the forward record's.
func (f *Flow) Clone() *Flow {
	c := *f
	c.Src = cloneIP(f.Src)
	c.Dst = cloneIP(f.Dst)
	c.NextHop = cloneIP(f.NextHop)
	return &c
}

func cloneIP(ip net.IP) net.IP {
	if ip == nil {
		return nil
	}
	out := make(net.IP, len(ip))
	copy(out, ip)
	return out
}

// SwapAddresses exchanges src/dst (and their ports, unless the record is
// ICMP, which has no meaningful port swap) in place. Used both for
// reverse-record synthesis and for the zero-forward-volume uniflow
// swap.
func (f *Flow) SwapAddresses(icmp bool) {
	f.Src, f.Dst = f.Dst, f.Src
	if !icmp {
		f.SPort, f.DPort = f.DPort, f.SPort
	}
}
