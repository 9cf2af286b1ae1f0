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

import "github.com/facebook/ipfixd/decode"

// LogFlag controls which categories of decoder activity get logged at
// trace/debug level.
type LogFlag uint32

// Log flag bits.
const (
	LogTimestamps LogFlag = 1 << iota
	LogSampling
	LogFirewall
	LogTemplates
)

// Has reports whether all bits in mask are set in l.
func (l LogFlag) Has(mask LogFlag) bool { return l&mask == mask }

// Config is the immutable per-probe configuration consumed from the
// probe configuration system. It is
// loaded once per exporter and never mutated afterward.
type Config struct {
	Name               string
	InterfaceValueType decode.InterfaceValueType
	Quirks             decode.Quirk
	LogFlags           LogFlag
}

// DecodeConfig projects the fields the decode package needs out of the
// full probe Config.
func (c Config) DecodeConfig() decode.Config {
	return decode.Config{
		Name:               c.Name,
		InterfaceValueType: c.InterfaceValueType,
		Quirks:             c.Quirks,
	}
}
