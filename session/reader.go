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
	"context"
	"sync"
	"time"

	"github.com/facebook/ipfixd/decode"
	"github.com/facebook/ipfixd/ipfix"
	"github.com/facebook/ipfixd/record"
	"github.com/facebook/ipfixd/stats"
	log "github.com/sirupsen/logrus"
)

// arena is the per-session template-context store: template lifetimes
// are bound to the session, so contexts live in one map keyed by
// template id rather than
// being individually heap-allocated and freed. Writes happen only from
// the transport's new-template callback, which the transport itself
// serializes; reads happen from the reader task. A mutex keeps the Go
// race detector happy even though the two callers never truly race.
type arena struct {
	mu   sync.Mutex
	byID map[ipfix.TemplateID]ipfix.DecodePlan
}

func newArena() *arena { return &arena{byID: make(map[ipfix.TemplateID]ipfix.DecodePlan)} }

func (a *arena) set(id ipfix.TemplateID, plan ipfix.DecodePlan) {
	a.mu.Lock()
	a.byID[id] = plan
	a.mu.Unlock()
}

func (a *arena) get(id ipfix.TemplateID) (ipfix.DecodePlan, bool) {
	a.mu.Lock()
	plan, ok := a.byID[id]
	a.mu.Unlock()
	return plan, ok
}

// Reader is the per-session reader loop: a single
// consumer goroutine draining one exporter's transport buffer, dispatching
// decoded records to the shared queue.
type Reader struct {
	Transport Transport
	Queue     Queue
	Source    *Source
	// Stats is the optional monitoring sink fed alongside the Source
	// counters; nil disables it.
	Stats stats.Stat

	arena *arena
}

// NewReader returns a Reader ready to Run.
func NewReader(t Transport, q Queue, src *Source) *Reader {
	return &Reader{Transport: t, Queue: q, Source: src, arena: newArena()}
}

// OnNewTemplate is the callback the transport invokes once per newly
// observed template. It
// classifies the template and stores the resulting DecodePlan in the
// session's arena.
func (r *Reader) OnNewTemplate(id ipfix.TemplateID, ies []ipfix.IE, optionsScope int) {
	var plan ipfix.DecodePlan
	if optionsScope > 0 {
		plan = ipfix.ClassifyOptions(ies)
	} else {
		plan = ipfix.Classify(ies, r.Source.Config.Name)
	}
	r.arena.set(id, plan)
	if r.Stats != nil {
		r.Stats.IncTemplates(r.Source.Config.Name)
	}
	if r.Source.Config.LogFlags.Has(LogTemplates) {
		log.Debugf("probe %s: template %d classified as %s", r.Source.Config.Name, id, plan.Kind)
	}
}

// Run executes the reader loop until ctx is done or a fatal transport
// error occurs.
func (r *Reader) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		msg, errClass := r.Transport.NextMessage(ctx)
		switch errClass {
		case ErrNone:
		case ErrTransientRead:
			log.Tracef("probe %s: transient read error, continuing", r.Source.Config.Name)
			continue
		case ErrConnectionEnd:
			log.Infof("probe %s: exporter connection ended", r.Source.Config.Name)
			if msg != nil {
				msg.Free()
			}
			continue
		case ErrProtocolAnomaly:
			log.Debugf("probe %s: exporter protocol anomaly, continuing", r.Source.Config.Name)
			continue
		case ErrInvalidStructure:
			log.Infof("probe %s: invalid IPFIX structure", r.Source.Config.Name)
			if msg != nil {
				msg.Free()
			}
			continue
		case ErrFatal:
			log.Errorf("probe %s: fatal transport error, exiting reader", r.Source.Config.Name)
			return errReaderFatal
		}

		if msg == nil {
			continue
		}
		r.drain(ctx, msg)
		msg.Free()
	}
}

var errReaderFatal = readerFatalErr{}

type readerFatalErr struct{}

func (readerFatalErr) Error() string { return "fatal transport error" }

// drain walks every record in one message buffer, dispatching by
// rectype. Per-record errors are logged and do not desync the buffer:
// its templates remain valid for later records.
func (r *Reader) drain(ctx context.Context, msg Message) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		templateID, rt, ok := msg.PeekRecord()
		if !ok {
			return
		}

		var fields decode.Fields
		switch rt {
		case RecTypeYAFStats:
			if err := msg.Decode(&fields); err != nil {
				log.Debugf("probe %s: yaf-stats decode error: %v", r.Source.Config.Name, err)
				continue
			}
			r.Source.ApplyYAFStats(YAFStatsSnapshot{
				FlushEvents: fields.FlushEventCount,
				PeakCount:   fields.PeakCount,
			})
			continue

		case RecTypeTombstone, RecTypeNF9Sampling, RecTypeIgnore:
			if err := msg.Decode(&fields); err != nil {
				log.Debugf("probe %s: dropping malformed %v record: %v", r.Source.Config.Name, rt, err)
				continue
			}
			if rt == RecTypeNF9Sampling && r.Source.Config.LogFlags.Has(LogSampling) {
				log.Infof("probe %s: sampling options record", r.Source.Config.Name)
			}
			continue

		case RecTypeFixrec, RecTypeYAFRec, RecTypeNF9Rec:
			plan, ok := r.arena.get(templateID)
			if !ok {
				log.Debugf("probe %s: unknown template %d referenced by data set", r.Source.Config.Name, templateID)
				_ = msg.Decode(&fields)
				continue
			}
			if err := msg.Decode(&fields); err != nil {
				log.Debugf("probe %s: record decode error: %v", r.Source.Config.Name, err)
				continue
			}
			r.dispatch(ctx, plan, &fields)
		}
	}
}

func (r *Reader) dispatch(ctx context.Context, plan ipfix.DecodePlan, fields *decode.Fields) {
	cfg := r.Source.Config.DecodeConfig()

	var res decode.Result
	var reason decode.RejectReason

	switch plan.Kind {
	case ipfix.PlanGeneric:
		res, reason = decode.Generic(cfg, plan.Bmap, fields)
	case ipfix.PlanYAF:
		res, reason = decode.YAF(cfg, plan.YAF, fields)
	case ipfix.PlanNF9:
		res, reason = decode.NF9(cfg, plan.NF9, fields)
	default:
		return
	}

	if reason != decode.RejectNone {
		r.Source.CountIgnored()
		if r.Stats != nil {
			r.Stats.IncIgnored(cfg.Name)
		}
		if reason == decode.RejectFirewallEvent && r.Source.Config.LogFlags.Has(LogFirewall) {
			log.Debugf("probe %s: dropping record with unhandled firewall event %d", cfg.Name, fields.FirewallEvent)
		}
		return
	}

	if r.Source.Config.LogFlags.Has(LogTimestamps) && res.Forward != nil {
		log.Tracef("probe %s: derived start=%d duration=%d", cfg.Name, res.Forward.StartMillis, res.Forward.DurationMillis)
	}

	if res.Forward != nil {
		if !r.enqueue(ctx, res.Forward) {
			return
		}
		r.Source.CountForward()
		if r.Stats != nil {
			r.Stats.IncForward(cfg.Name)
		}
	}
	if res.Reverse != nil {
		if !r.enqueue(ctx, res.Reverse) {
			return
		}
		r.Source.CountReverse()
		if r.Stats != nil {
			r.Stats.IncReverse(cfg.Name)
		}
	}
	if r.Stats != nil && fields.ExportTimeMillis > 0 {
		r.Stats.ObserveExportLatency(cfg.Name, time.Since(time.UnixMilli(fields.ExportTimeMillis)))
	}
}

// enqueue acquires a writer slot and commits the record, honoring the
// queue's stop sentinel.
func (r *Reader) enqueue(ctx context.Context, flow *record.Flow) bool {
	slot, err := r.Queue.AcquireWriterSlot(ctx)
	if err != nil {
		return false
	}
	*slot = *flow
	r.Queue.Commit(slot)
	return true
}
