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

package record

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetPacketsSaturates(t *testing.T) {
	f := &Flow{}
	f.SetPackets(uint64(MaxUint32) + 1)
	assert.Equal(t, MaxUint32, f.Packets)

	f.SetPackets(7)
	assert.EqualValues(t, 7, f.Packets)
}

func TestSetBytesSaturates(t *testing.T) {
	f := &Flow{}
	f.SetBytes(1 << 40)
	assert.Equal(t, MaxUint32, f.Bytes)
}

func TestSetDurationClampsNegative(t *testing.T) {
	f := &Flow{}
	f.SetDuration(-50)
	assert.Zero(t, f.DurationMillis)

	f.SetDuration(int64(MaxUint32) + 500)
	assert.Equal(t, MaxUint32, f.DurationMillis)
}

func TestSetInterfaceSaturates(t *testing.T) {
	f := &Flow{}
	f.SetInterface(&f.IngressInterface, uint64(MaxUint16)+1)
	assert.Equal(t, MaxUint16, f.IngressInterface)

	f.SetInterface(&f.EgressInterface, 42)
	assert.EqualValues(t, 42, f.EgressInterface)
}

func TestCloneDoesNotAliasAddresses(t *testing.T) {
	f := &Flow{
		Src: net.ParseIP("10.0.0.1").To4(),
		Dst: net.ParseIP("10.0.0.2").To4(),
	}
	c := f.Clone()
	c.Src[3] = 99
	require.True(t, f.Src.Equal(net.ParseIP("10.0.0.1")), "mutating the clone leaked into the original: %v", f.Src)
}

func TestSwapAddresses(t *testing.T) {
	f := &Flow{
		Src:   net.ParseIP("10.0.0.1").To4(),
		Dst:   net.ParseIP("10.0.0.2").To4(),
		SPort: 1234,
		DPort: 80,
	}
	f.SwapAddresses(false)
	assert.True(t, f.Src.Equal(net.ParseIP("10.0.0.2")))
	assert.True(t, f.Dst.Equal(net.ParseIP("10.0.0.1")))
	assert.EqualValues(t, 80, f.SPort)
	assert.EqualValues(t, 1234, f.DPort)
}

func TestSwapAddressesICMPKeepsPorts(t *testing.T) {
	f := &Flow{
		Src:   net.ParseIP("10.0.0.1").To4(),
		Dst:   net.ParseIP("10.0.0.2").To4(),
		SPort: 0,
		DPort: 0x0800, // ICMP echo request packed as (type<<8)|code
	}
	f.SwapAddresses(true)
	assert.EqualValues(t, 0, f.SPort, "ICMP sPort must stay 0 across a swap")
	assert.EqualValues(t, 0x0800, f.DPort, "ICMP dPort must keep the packed type/code")
}
