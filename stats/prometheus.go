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
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/eclesh/welford"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// PrometheusStats is a Stat implementation exporting counters as
// Prometheus counters and export latency as mean/stddev gauges fed by a
// running welford accumulator.
type PrometheusStats struct {
	registry *prometheus.Registry
	listenPort int

	mu      sync.Mutex
	probes  map[string]*promProbe
}

type promProbe struct {
	forward, reverse, ignored, templates prometheus.Counter
	latencyMean, latencyStddev           prometheus.Gauge
	latency                              *welford.Stats
	mu                                   sync.Mutex
}

// NewPrometheusStats returns a PrometheusStats serving on listenPort.
func NewPrometheusStats(listenPort int) *PrometheusStats {
	return &PrometheusStats{
		registry:   prometheus.NewRegistry(),
		listenPort: listenPort,
		probes:     make(map[string]*promProbe),
	}
}

func (p *PrometheusStats) probe(name string) *promProbe {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pr, ok := p.probes[name]; ok {
		return pr
	}

	labels := prometheus.Labels{"probe": name}
	pr := &promProbe{
		forward: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "ipfixd_forward_flows_total",
			Help:        "forward flow records committed",
			ConstLabels: labels,
		}),
		reverse: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "ipfixd_reverse_flows_total",
			Help:        "reverse flow records committed",
			ConstLabels: labels,
		}),
		ignored: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "ipfixd_ignored_flows_total",
			Help:        "records dropped by a decoder",
			ConstLabels: labels,
		}),
		templates: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "ipfixd_templates_total",
			Help:        "templates classified",
			ConstLabels: labels,
		}),
		latencyMean: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "ipfixd_export_latency_mean_ms",
			Help:        "mean export-to-ingest latency in milliseconds",
			ConstLabels: labels,
		}),
		latencyStddev: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "ipfixd_export_latency_stddev_ms",
			Help:        "stddev of export-to-ingest latency in milliseconds",
			ConstLabels: labels,
		}),
		latency: welford.New(),
	}
	for _, c := range []prometheus.Collector{pr.forward, pr.reverse, pr.ignored, pr.templates, pr.latencyMean, pr.latencyStddev} {
		if err := p.registry.Register(c); err != nil {
			log.Errorf("failed to register stat for probe %s: %v", name, err)
		}
	}
	p.probes[name] = pr
	return pr
}

// IncForward implements Stat.
func (p *PrometheusStats) IncForward(probe string) { p.probe(probe).forward.Inc() }

// IncReverse implements Stat.
func (p *PrometheusStats) IncReverse(probe string) { p.probe(probe).reverse.Inc() }

// IncIgnored implements Stat.
func (p *PrometheusStats) IncIgnored(probe string) { p.probe(probe).ignored.Inc() }

// IncTemplates implements Stat.
func (p *PrometheusStats) IncTemplates(probe string) { p.probe(probe).templates.Inc() }

// ObserveExportLatency implements Stat.
func (p *PrometheusStats) ObserveExportLatency(probe string, d time.Duration) {
	pr := p.probe(probe)
	pr.mu.Lock()
	pr.latency.Add(float64(d.Milliseconds()))
	pr.latencyMean.Set(pr.latency.Mean())
	pr.latencyStddev.Set(pr.latency.Stddev())
	pr.mu.Unlock()
}

// Start implements Stat.
func (p *PrometheusStats) Start(port int) {
	p.listenPort = port
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	addr := fmt.Sprintf(":%d", p.listenPort)
	log.Debugf("starting prometheus stats server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Errorf("prometheus stats server failed: %v", err)
	}
}
