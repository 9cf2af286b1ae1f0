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

import "sync"

// YAFStatsSnapshot is the cumulative counters from one YAF flow-table
// statistics options record, used to compute deltas against the
// previously observed snapshot.
type YAFStatsSnapshot struct {
	FlushEvents uint64
	PeakCount   uint64
}

func (s YAFStatsSnapshot) delta(prev YAFStatsSnapshot) YAFStatsSnapshot {
	d := YAFStatsSnapshot{}
	if s.FlushEvents >= prev.FlushEvents {
		d.FlushEvents = s.FlushEvents - prev.FlushEvents
	}
	if s.PeakCount >= prev.PeakCount {
		d.PeakCount = s.PeakCount - prev.PeakCount
	}
	return d
}

// Source is the per-exporter state the reader loop maintains: counters
// and the previous yaf-stats snapshot, guarded by a mutex.
type Source struct {
	Config Config

	mu             sync.Mutex
	forwardFlows   uint64
	reverseFlows   uint64
	ignoredFlows   uint64
	yafFlushEvents uint64
	yafPeakCount   uint64
	prevYAFStats   YAFStatsSnapshot
	haveYAFStats   bool
}

// NewSource returns a Source bound to the given probe configuration.
func NewSource(cfg Config) *Source { return &Source{Config: cfg} }

// CountForward increments the forward-flow counter.
func (s *Source) CountForward() {
	s.mu.Lock()
	s.forwardFlows++
	s.mu.Unlock()
}

// CountReverse increments the reverse-flow counter.
func (s *Source) CountReverse() {
	s.mu.Lock()
	s.reverseFlows++
	s.mu.Unlock()
}

// CountIgnored increments the ignored-flow counter.
func (s *Source) CountIgnored() {
	s.mu.Lock()
	s.ignoredFlows++
	s.mu.Unlock()
}

// ApplyYAFStats folds in a new yaf-stats snapshot, adding the delta
// against the previous snapshot to the running totals.
func (s *Source) ApplyYAFStats(snap YAFStatsSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.haveYAFStats {
		d := snap.delta(s.prevYAFStats)
		s.yafFlushEvents += d.FlushEvents
		s.yafPeakCount += d.PeakCount
	}
	s.prevYAFStats = snap
	s.haveYAFStats = true
}

// Counters is a point-in-time copy of a Source's counters, safe to
// use outside the mutex.
type Counters struct {
	ForwardFlows   uint64
	ReverseFlows   uint64
	IgnoredFlows   uint64
	YAFFlushEvents uint64
	YAFPeakCount   uint64
}

// Snapshot returns a copy of the current counters.
func (s *Source) Snapshot() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Counters{
		ForwardFlows:   s.forwardFlows,
		ReverseFlows:   s.reverseFlows,
		IgnoredFlows:   s.ignoredFlows,
		YAFFlushEvents: s.yafFlushEvents,
		YAFPeakCount:   s.yafPeakCount,
	}
}
