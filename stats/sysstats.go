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
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/shirou/gopsutil/process"
)

// SelfHealthLogger periodically logs this process's own CPU/memory
// footprint alongside the per-probe flow counters: a coarse,
// low-cardinality signal an operator reads off logs rather than a
// dashboard.
type SelfHealthLogger struct {
	proc *process.Process
}

// NewSelfHealthLogger returns a logger for the current process.
func NewSelfHealthLogger() (*SelfHealthLogger, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &SelfHealthLogger{proc: proc}, nil
}

// Run logs a self-health line every interval until stop is closed.
func (s *SelfHealthLogger) Run(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.logOnce()
		}
	}
}

func (s *SelfHealthLogger) logOnce() {
	cpuPct, err := s.proc.Percent(0)
	if err != nil {
		log.Debugf("self-health: cpu percent unavailable: %v", err)
		return
	}
	mem, err := s.proc.MemoryInfo()
	if err != nil {
		log.Debugf("self-health: memory info unavailable: %v", err)
		return
	}
	log.Infof("self-health: cpu=%.1f%% rss=%dMB vms=%dMB", cpuPct, mem.RSS/1024/1024, mem.VMS/1024/1024)
}
