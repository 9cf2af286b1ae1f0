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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/facebook/ipfixd/session"
	"github.com/facebook/ipfixd/stats"
	log "github.com/sirupsen/logrus"
)

func main() {
	var (
		probeConfigPath string
		monitoringPort  int
		statsBackend    string
		logLevel        string
		notifySystemd   bool
		healthInterval  time.Duration
	)

	flag.StringVar(&probeConfigPath, "config", "", "Path to the probe configuration YAML file")
	flag.IntVar(&monitoringPort, "monitoringport", 8080, "Port to run the stats monitoring server on")
	flag.StringVar(&statsBackend, "stats", "json", "Stats backend to serve: json or prometheus")
	flag.StringVar(&logLevel, "loglevel", "info", "Set a log level. Can be: debug, info, warning, error")
	flag.BoolVar(&notifySystemd, "notify-systemd", false, "Notify systemd (READY=1) once probes are bound")
	flag.DurationVar(&healthInterval, "health-interval", time.Minute, "Self-health log interval")
	flag.Parse()

	switch logLevel {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warning":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.Fatalf("Unrecognized log level: %v", logLevel)
	}

	if probeConfigPath == "" {
		log.Fatal("-config is required")
	}
	probeConfigs, err := session.LoadProbeFiles(probeConfigPath)
	if err != nil {
		log.Fatalf("Loading probe config: %v", err)
	}
	if len(probeConfigs) == 0 {
		log.Fatal("probe config defines no probes")
	}

	var st stats.Stat
	switch statsBackend {
	case "json":
		st = stats.NewJSONStats()
	case "prometheus":
		st = stats.NewPrometheusStats(monitoringPort)
	default:
		log.Fatalf("Unrecognized stats backend: %v", statsBackend)
	}
	go st.Start(monitoringPort)

	if healthLogger, err := stats.NewSelfHealthLogger(); err != nil {
		log.Warningf("self-health logger unavailable: %v", err)
	} else {
		stop := make(chan struct{})
		defer close(stop)
		go healthLogger.Run(healthInterval, stop)
	}

	readers := make([]*session.Reader, 0, len(probeConfigs))
	for _, cfg := range probeConfigs {
		transport, queue, err := newTransport(cfg)
		if err != nil {
			log.Fatalf("probe %s: building transport: %v", cfg.Name, err)
		}
		src := session.NewSource(cfg)
		r := session.NewReader(transport, queue, src)
		r.Stats = st
		readers = append(readers, r)
	}

	sup := session.NewSupervisor(readers...)

	ctx, cancel := context.WithCancel(context.Background())
	sigStop := make(chan os.Signal, 1)
	signal.Notify(sigStop, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)

	go func() {
		<-sigStop
		log.Warning("graceful shutdown requested")
		cancel()
	}()

	if notifySystemd {
		if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
			log.Warningf("failed to notify systemd: %v", err)
		} else if !sent {
			log.Debug("systemd notification socket not present")
		}
	}

	if err := sup.Run(ctx); err != nil {
		log.Fatalf("reader supervision exited: %v", err)
	}
}

// newTransport is the injection point for the external lower
// transcoder. The variable is unexported, so only code in package main
// (for example an init function in another file of this package) can
// override it.
var newTransport session.TransportFactory = func(cfg session.Config) (session.Transport, session.Queue, error) {
	return nil, nil, fmt.Errorf("no transport implementation registered for probe %q", cfg.Name)
}
