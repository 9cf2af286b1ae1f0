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

import "errors"

// Sentinel errors a Transport implementation is documented to return
// from NextMessage, classified below into the ReadError taxonomy the
// reader loop reacts to.
var (
	ErrInterrupted        = errors.New("read interrupted, retry")
	ErrProtocolAnomalyErr = errors.New("ipfix protocol anomaly")
	ErrConnectionRejected = errors.New("exporter connection rejected")
	ErrConnectionEOF      = errors.New("exporter connection closed")
	ErrInvalidFraming     = errors.New("invalid ipfix message structure")
)

// ClassifyTransportError maps a Transport error to the reader loop's
// five-kind taxonomy. Unrecognized errors are treated as
// fatal: an unclassified transport failure is exactly the case where we
// can no longer trust the buffer, so stop rather than spin.
func ClassifyTransportError(err error) ReadError {
	switch {
	case err == nil:
		return ErrNone
	case errors.Is(err, ErrInterrupted):
		return ErrTransientRead
	case errors.Is(err, ErrProtocolAnomalyErr):
		return ErrProtocolAnomaly
	case errors.Is(err, ErrConnectionEOF), errors.Is(err, ErrConnectionRejected):
		return ErrConnectionEnd
	case errors.Is(err, ErrInvalidFraming):
		return ErrInvalidStructure
	default:
		return ErrFatal
	}
}
