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

package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJSONStatsCounters(t *testing.T) {
	j := NewJSONStats()
	j.IncForward("eth0")
	j.IncForward("eth0")
	j.IncReverse("eth0")
	j.IncIgnored("eth0")
	j.IncTemplates("eth0")

	snap := j.snapshot()
	require.Equal(t, int64(2), snap["eth0"].Forward)
	require.Equal(t, int64(1), snap["eth0"].Reverse)
	require.Equal(t, int64(1), snap["eth0"].Ignored)
	require.Equal(t, int64(1), snap["eth0"].Templates)
}

func TestJSONStatsSeparatesProbes(t *testing.T) {
	j := NewJSONStats()
	j.IncForward("eth0")
	j.IncForward("eth1")
	j.IncForward("eth1")

	snap := j.snapshot()
	require.Equal(t, int64(1), snap["eth0"].Forward)
	require.Equal(t, int64(2), snap["eth1"].Forward)
}

func TestJSONStatsLatency(t *testing.T) {
	j := NewJSONStats()
	j.ObserveExportLatency("eth0", 10*time.Millisecond)
	j.ObserveExportLatency("eth0", 30*time.Millisecond)

	snap := j.snapshot()
	require.InDelta(t, 20.0, snap["eth0"].LatencyMeanMs, 0.001)
}
