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

const (
	// NTPUnixEpochOffsetSeconds is the NTP-to-Unix epoch offset in seconds
	// (1970-01-01 minus 1900-01-01), 0x83AA7E80.
	NTPUnixEpochOffsetSeconds uint32 = 0x83AA7E80

	// RolloverThresholdMillis is the half-range of a 32-bit ms counter,
	// used to detect sysUpTime wraparound.
	RolloverThresholdMillis int64 = 1 << 31

	// Rollover32 is 2^32, added/subtracted when a 32-bit counter wraps.
	Rollover32 int64 = 1 << 32

	// MaxUint32 is the saturation ceiling for 32-bit record fields.
	MaxUint32 uint32 = 1<<32 - 1
)
