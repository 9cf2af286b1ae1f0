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

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facebook/ipfixd/decode"
)

func TestParseProbeFileDefaults(t *testing.T) {
	cfg, err := ParseProbeFile(ProbeFile{Name: "eth0"})
	require.NoError(t, err)
	assert.Equal(t, decode.InterfaceSNMP, cfg.InterfaceValueType, "default InterfaceValueType")
	assert.Zero(t, cfg.Quirks, "expected no quirks by default")
	assert.Zero(t, cfg.LogFlags, "expected no log flags by default")
}

func TestParseProbeFileQuirksAndFlags(t *testing.T) {
	cfg, err := ParseProbeFile(ProbeFile{
		Name:               "nf9-sensor",
		InterfaceValueType: "vlan",
		Quirks:             []string{"nf9_out_is_reverse", "missing_ips"},
		LogFlags:           []string{"firewall", "templates"},
	})
	require.NoError(t, err)
	assert.Equal(t, decode.InterfaceVLAN, cfg.InterfaceValueType)
	assert.True(t, cfg.Quirks.Has(decode.QuirkNF9OutIsReverse), "expected QuirkNF9OutIsReverse set")
	assert.True(t, cfg.Quirks.Has(decode.QuirkMissingIPs), "expected QuirkMissingIPs set")
	assert.True(t, cfg.LogFlags.Has(LogFirewall), "expected LogFirewall set")
	assert.True(t, cfg.LogFlags.Has(LogTemplates), "expected LogTemplates set")
}

func TestParseProbeFileRejectsUnknownQuirk(t *testing.T) {
	_, err := ParseProbeFile(ProbeFile{Name: "x", Quirks: []string{"bogus"}})
	assert.Error(t, err, "expected an error for an unknown quirk name")
}

func TestParseProbeFileRejectsUnknownInterfaceType(t *testing.T) {
	_, err := ParseProbeFile(ProbeFile{Name: "x", InterfaceValueType: "bogus"})
	assert.Error(t, err, "expected an error for an unknown interface_value_type")
}
