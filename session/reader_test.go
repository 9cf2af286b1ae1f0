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
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/facebook/ipfixd/decode"
	"github.com/facebook/ipfixd/ipfix"
	"github.com/facebook/ipfixd/record"
)

const testTemplateID = ipfix.TemplateID(42)

func newTestReader(t *testing.T) (*Reader, *MockTransport, *MockQueue) {
	ctrl := gomock.NewController(t)
	transport := NewMockTransport(ctrl)
	queue := NewMockQueue(ctrl)
	src := NewSource(Config{Name: "test-probe"})
	r := NewReader(transport, queue, src)
	return r, transport, queue
}

// TestReaderDispatchesGenericRecordAndStops drives one FIXREC-classified
// template through the generic decoder and confirms the resulting forward
// record is committed to the queue, then stops the loop via ErrFatal.
func TestReaderDispatchesGenericRecordAndStops(t *testing.T) {
	r, transport, queue := newTestReader(t)

	r.OnNewTemplate(testTemplateID, []ipfix.IE{
		{IESpec: ipfix.IESpec{ID: 8}},   // sourceIPv4Address
		{IESpec: ipfix.IESpec{ID: 12}},  // destinationIPv4Address
		{IESpec: ipfix.IESpec{ID: 1}},   // octetDeltaCount
		{IESpec: ipfix.IESpec{ID: 2}},   // packetDeltaCount
		{IESpec: ipfix.IESpec{ID: 150}}, // flowStartSeconds
		{IESpec: ipfix.IESpec{ID: 151}}, // flowEndSeconds
	}, 0)

	msg := NewMockMessage(gomock.NewController(t))
	gomock.InOrder(
		msg.EXPECT().PeekRecord().Return(testTemplateID, RecTypeFixrec, true),
		msg.EXPECT().Decode(gomock.Any()).DoAndReturn(func(dst *Fields) error {
			*dst = Fields{
				SrcIPv4:          net.ParseIP("10.0.0.1").To4(),
				DstIPv4:          net.ParseIP("10.0.0.2").To4(),
				Protocol:         decode.ProtocolTCP,
				OctetDelta:       100,
				PacketDelta:      2,
				FlowStartSeconds: 1000,
				FlowEndSeconds:   1001,
			}
			return nil
		}),
		msg.EXPECT().PeekRecord().Return(ipfix.TemplateID(0), RecTypeFixrec, false),
	)
	msg.EXPECT().Free()

	var committed *record.Flow
	slot := &record.Flow{}
	queue.EXPECT().AcquireWriterSlot(gomock.Any()).Return(slot, nil)
	queue.EXPECT().Commit(gomock.Any()).Do(func(s *record.Flow) { committed = s })

	gomock.InOrder(
		transport.EXPECT().NextMessage(gomock.Any()).Return(msg, ErrNone),
		transport.EXPECT().NextMessage(gomock.Any()).Return(nil, ErrFatal),
	)

	err := r.Run(context.Background())
	require.Error(t, err, "expected Run to return the fatal-transport error")

	require.NotNil(t, committed, "expected a record to be committed to the queue")
	assert.EqualValues(t, 2, committed.Packets)
	assert.EqualValues(t, 100, committed.Bytes)

	snap := r.Source.Snapshot()
	assert.EqualValues(t, 1, snap.ForwardFlows)
}

// TestReaderDropsOptionsAndIgnoreRecordsWithoutEnqueuing confirms tombstone
// and ignore records never reach the queue.
func TestReaderDropsOptionsAndIgnoreRecordsWithoutEnqueuing(t *testing.T) {
	r, transport, queue := newTestReader(t)

	msg := NewMockMessage(gomock.NewController(t))
	gomock.InOrder(
		msg.EXPECT().PeekRecord().Return(ipfix.TemplateID(7), RecTypeTombstone, true),
		msg.EXPECT().Decode(gomock.Any()).Return(nil),
		msg.EXPECT().PeekRecord().Return(ipfix.TemplateID(8), RecTypeIgnore, true),
		msg.EXPECT().Decode(gomock.Any()).Return(nil),
		msg.EXPECT().PeekRecord().Return(ipfix.TemplateID(0), RecTypeTombstone, false),
	)
	msg.EXPECT().Free()

	// queue.AcquireWriterSlot/Commit deliberately have zero expected calls.
	_ = queue

	gomock.InOrder(
		transport.EXPECT().NextMessage(gomock.Any()).Return(msg, ErrNone),
		transport.EXPECT().NextMessage(gomock.Any()).Return(nil, ErrFatal),
	)

	err := r.Run(context.Background())
	require.Error(t, err, "expected Run to return the fatal-transport error")

	snap := r.Source.Snapshot()
	assert.Zero(t, snap.ForwardFlows, "expected no flows counted, got %+v", snap)
	assert.Zero(t, snap.ReverseFlows, "expected no flows counted, got %+v", snap)
}

// TestReaderHonorsContextCancellation confirms Run returns nil (not an
// error) when the context is canceled between messages.
func TestReaderHonorsContextCancellation(t *testing.T) {
	r, transport, _ := newTestReader(t)
	ctx, cancel := context.WithCancel(context.Background())

	transport.EXPECT().NextMessage(gomock.Any()).DoAndReturn(func(context.Context) (Message, ReadError) {
		cancel()
		return nil, ErrTransientRead
	}).AnyTimes()

	assert.NoError(t, r.Run(ctx))
}
