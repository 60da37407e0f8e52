package mykafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishEvent(t *testing.T) {
	t.Parallel()

	w := &recordingWriter{}
	p := &Producer{writer: w}

	event := map[string]any{"type": "maintenance_report_created", "report_id": 10}
	require.NoError(t, p.PublishEvent(context.Background(), "maintenance_events", "1", event))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "maintenance_events", w.msgs[0].Topic)
	assert.Equal(t, "1", string(w.msgs[0].Key))

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "maintenance_report_created", got["type"])
	assert.EqualValues(t, 10, got["report_id"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishEvent_Errors(t *testing.T) {
	t.Parallel()

	p := &Producer{writer: &recordingWriter{err: errors.New("leader not available")}}
	err := p.PublishEvent(context.Background(), "t", "k", map[string]any{"a": 1})
	assert.ErrorContains(t, err, "delivery failed")

	err = p.PublishEvent(context.Background(), "t", "k", map[string]any{"bad": make(chan int)})
	assert.ErrorContains(t, err, "json.Marshal failed")
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	t.Parallel()

	_, err := NewProducer(nil)
	assert.Error(t, err)

	p, err := NewProducer([]string{"localhost:9092"})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}
