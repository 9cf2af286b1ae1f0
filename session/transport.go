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

// Package session holds the per-exporter reader loop,
// the probe configuration it runs under, and the counters it maintains.
// It describes what functionality it expects from the transport and
// queue it is handed rather than owning either.
package session

import (
	"context"

	"github.com/facebook/ipfixd/decode"
	"github.com/facebook/ipfixd/ipfix"
	"github.com/facebook/ipfixd/record"
)

// RecType is the kind of record a Transport hands back from PeekRecord.
type RecType uint8

// Record types the reader loop dispatches on.
const (
	RecTypeFixrec RecType = iota
	RecTypeYAFRec
	RecTypeNF9Rec
	RecTypeYAFStats
	RecTypeTombstone
	RecTypeNF9Sampling
	RecTypeIgnore
)

// ReadError classifies a transport-level error into the five-kind
// taxonomy the reader loop reacts to.
type ReadError uint8

// Error classes the reader loop reacts to.
const (
	ErrNone ReadError = iota
	ErrTransientRead
	ErrProtocolAnomaly
	ErrConnectionEnd
	ErrInvalidStructure
	ErrFatal
)

// Message is one transport buffer: a batch of records sharing an
// exporter connection, read non-blockingly one record at a time.
type Message interface {
	// PeekRecord returns the next record's template id and kind without
	// consuming its payload, or ok=false when the buffer is exhausted.
	PeekRecord() (templateID ipfix.TemplateID, rt RecType, ok bool)
	// Decode transcodes the current record's payload into dst and
	// advances past it.
	Decode(dst *Fields) error
	// Free releases any resources owned by the buffer (connection-oriented
	// transports only; no-op otherwise).
	Free()
}

// Fields is an alias so callers of this package don't need to import
// decode directly just to build a Message implementation.
type Fields = decode.Fields

// Transport is the subset of the lower transcoder's API the reader loop
// needs.
type Transport interface {
	// NextMessage blocks until a message buffer is available or ctx is
	// done, classifying the outcome as a ReadError.
	NextMessage(ctx context.Context) (Message, ReadError)
}

// NewTemplateFunc is the new-template callback the transport invokes:
// given a newly observed template, classify it and return the context to
// store plus its releaser.
type NewTemplateFunc func(templateID ipfix.TemplateID, ies []ipfix.IE, optionsScope int) (ctx interface{}, free func())

// StopSentinel is returned by Queue.AcquireWriterSlot when the session is
// stopping, so a decoder abandons a partial bi-flow write rather than
// blocking forever.
var StopSentinel = errStop{}

type errStop struct{}

func (errStop) Error() string { return "session stopping" }

// Queue is the bounded output queue consumed from.
type Queue interface {
	// AcquireWriterSlot blocks until a slot is free or the session is
	// stopping, in which case it returns StopSentinel.
	AcquireWriterSlot(ctx context.Context) (*record.Flow, error)
	// Commit publishes a slot previously returned by AcquireWriterSlot.
	Commit(slot *record.Flow)
}
