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
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/eclesh/welford"
	log "github.com/sirupsen/logrus"
)

// perProbe holds one probe's counters and latency distribution.
type perProbe struct {
	mu        sync.Mutex
	forward   int64
	reverse   int64
	ignored   int64
	templates int64
	latency   *welford.Stats
}

// JSONStats is a passive Stat implementation reporting flat JSON metrics
// over HTTP: one handler, one map per request.
type JSONStats struct {
	mu     sync.Mutex
	probes map[string]*perProbe
}

// NewJSONStats returns an empty JSONStats.
func NewJSONStats() *JSONStats {
	return &JSONStats{probes: make(map[string]*perProbe)}
}

func (j *JSONStats) probe(name string) *perProbe {
	j.mu.Lock()
	defer j.mu.Unlock()
	p, ok := j.probes[name]
	if !ok {
		p = &perProbe{latency: welford.New()}
		j.probes[name] = p
	}
	return p
}

// IncForward implements Stat.
func (j *JSONStats) IncForward(probe string) {
	p := j.probe(probe)
	p.mu.Lock()
	p.forward++
	p.mu.Unlock()
}

// IncReverse implements Stat.
func (j *JSONStats) IncReverse(probe string) {
	p := j.probe(probe)
	p.mu.Lock()
	p.reverse++
	p.mu.Unlock()
}

// IncIgnored implements Stat.
func (j *JSONStats) IncIgnored(probe string) {
	p := j.probe(probe)
	p.mu.Lock()
	p.ignored++
	p.mu.Unlock()
}

// IncTemplates implements Stat.
func (j *JSONStats) IncTemplates(probe string) {
	p := j.probe(probe)
	p.mu.Lock()
	p.templates++
	p.mu.Unlock()
}

// ObserveExportLatency implements Stat.
func (j *JSONStats) ObserveExportLatency(probe string, d time.Duration) {
	p := j.probe(probe)
	p.mu.Lock()
	p.latency.Add(float64(d.Milliseconds()))
	p.mu.Unlock()
}

type probeSnapshot struct {
	Forward          int64   `json:"forward_flows"`
	Reverse          int64   `json:"reverse_flows"`
	Ignored          int64   `json:"ignored_flows"`
	Templates        int64   `json:"templates"`
	LatencyMeanMs    float64 `json:"latency_mean_ms"`
	LatencyStddevMs  float64 `json:"latency_stddev_ms"`
}

func (j *JSONStats) snapshot() map[string]probeSnapshot {
	j.mu.Lock()
	names := make([]string, 0, len(j.probes))
	for name := range j.probes {
		names = append(names, name)
	}
	j.mu.Unlock()

	out := make(map[string]probeSnapshot, len(names))
	for _, name := range names {
		p := j.probe(name)
		p.mu.Lock()
		out[name] = probeSnapshot{
			Forward:         p.forward,
			Reverse:         p.reverse,
			Ignored:         p.ignored,
			Templates:       p.templates,
			LatencyMeanMs:   p.latency.Mean(),
			LatencyStddevMs: p.latency.Stddev(),
		}
		p.mu.Unlock()
	}
	return out
}

func (j *JSONStats) handleRequest(w http.ResponseWriter, _ *http.Request) {
	js, err := json.Marshal(j.snapshot())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(js); err != nil {
		log.Errorf("failed to reply with stats: %v", err)
	}
}

// Start implements Stat.
func (j *JSONStats) Start(port int) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", j.handleRequest)
	addr := fmt.Sprintf(":%d", port)
	log.Debugf("starting json stats server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Errorf("json stats server failed: %v", err)
	}
}
