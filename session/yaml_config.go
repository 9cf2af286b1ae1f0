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
	"fmt"
	"os"

	"github.com/facebook/ipfixd/decode"
	yaml "gopkg.in/yaml.v2"
)

// ProbeFile is the on-disk shape of one probe's configuration, named
// and typed the way an operator writes it rather than the way the
// decoders consume it.
type ProbeFile struct {
	Name               string   `yaml:"name"`
	InterfaceValueType string   `yaml:"interface_value_type"` // "snmp" or "vlan"
	Quirks             []string `yaml:"quirks"`
	LogFlags           []string `yaml:"log_flags"`
}

var quirkNames = map[string]decode.Quirk{
	"fw_event":             decode.QuirkFWEvent,
	"nf9_out_is_reverse":   decode.QuirkNF9OutIsReverse,
	"nf9_sysuptime_secs":   decode.QuirkNF9SysUpTimeSecs,
	"zero_packets":         decode.QuirkZeroPackets,
	"missing_ips":          decode.QuirkMissingIPs,
}

var logFlagNames = map[string]LogFlag{
	"timestamps": LogTimestamps,
	"sampling":   LogSampling,
	"firewall":   LogFirewall,
	"templates":  LogTemplates,
}

// ParseProbeFile converts a ProbeFile into the typed Config the session
// package runs on, rejecting unknown quirk/log-flag/interface-type names
// up front rather than silently ignoring a typo in an operator's config.
func ParseProbeFile(f ProbeFile) (Config, error) {
	cfg := Config{Name: f.Name}

	switch f.InterfaceValueType {
	case "", "snmp":
		cfg.InterfaceValueType = decode.InterfaceSNMP
	case "vlan":
		cfg.InterfaceValueType = decode.InterfaceVLAN
	default:
		return Config{}, fmt.Errorf("unknown interface_value_type %q", f.InterfaceValueType)
	}

	for _, name := range f.Quirks {
		bit, ok := quirkNames[name]
		if !ok {
			return Config{}, fmt.Errorf("unknown quirk %q", name)
		}
		cfg.Quirks |= bit
	}

	for _, name := range f.LogFlags {
		bit, ok := logFlagNames[name]
		if !ok {
			return Config{}, fmt.Errorf("unknown log flag %q", name)
		}
		cfg.LogFlags |= bit
	}

	return cfg, nil
}

// LoadProbeFiles reads a YAML document of probe configurations from path:
// a top-level list, one entry per exporter.
func LoadProbeFiles(path string) ([]Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading probe config %s: %w", path, err)
	}

	var files []ProbeFile
	if err := yaml.Unmarshal(raw, &files); err != nil {
		return nil, fmt.Errorf("parsing probe config %s: %w", path, err)
	}

	cfgs := make([]Config, 0, len(files))
	for _, f := range files {
		cfg, err := ParseProbeFile(f)
		if err != nil {
			return nil, fmt.Errorf("probe %q: %w", f.Name, err)
		}
		cfgs = append(cfgs, cfg)
	}
	return cfgs, nil
}
