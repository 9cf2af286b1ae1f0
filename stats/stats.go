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

// Package stats implements counter collection and reporting for the
// ingestion engine: per-probe flow counters plus an export-to-ingest
// latency distribution, exported over HTTP as either flat JSON or
// Prometheus metrics.
package stats

import "time"

// Stat describes what functionality the reader loop and its probe sources
// expect from a stats sink.
type Stat interface {
	// IncForward counts one forward flow record committed to the queue.
	IncForward(probe string)
	// IncReverse counts one reverse flow record committed to the queue.
	IncReverse(probe string)
	// IncIgnored counts one record a decoder dropped without emitting
	// anything.
	IncIgnored(probe string)
	// IncTemplates counts one newly classified template.
	IncTemplates(probe string)
	// ObserveExportLatency records the delay between a record's export
	// time and the moment this engine finished decoding it.
	ObserveExportLatency(probe string, d time.Duration)
	// Start begins serving the stats endpoint on the given port. It blocks
	// until the listener fails.
	Start(port int)
}
