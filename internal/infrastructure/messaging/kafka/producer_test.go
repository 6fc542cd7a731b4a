package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *captureWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func TestProducerPublish(t *testing.T) {
	w := &captureWriter{}
	p := newProducerWithWriter(w, nil)

	payload := map[string]interface{}{"listing_id": "lst-1", "top_score": 92}
	require.NoError(t, p.Publish(context.Background(), "msme.match.completed", "evt-1", payload))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "msme.match.completed", msg.Topic)
	assert.Equal(t, "evt-1", string(msg.Key))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "lst-1", decoded["listing_id"])
	assert.Equal(t, int64(1), p.Sent())
}

func TestProducerPublishWriteFailure(t *testing.T) {
	w := &captureWriter{err: assert.AnError}
	p := newProducerWithWriter(w, nil)

	err := p.Publish(context.Background(), "msme.match.completed", "k", map[string]string{})
	assert.Error(t, err)
	assert.Equal(t, int64(1), p.Failed())
	assert.Equal(t, int64(0), p.Sent())
}

func TestProducerPublishUnencodablePayload(t *testing.T) {
	p := newProducerWithWriter(&captureWriter{}, nil)

	err := p.Publish(context.Background(), "t", "k", make(chan int))
	assert.Error(t, err)
}

func TestProducerCloseRejectsPublish(t *testing.T) {
	w := &captureWriter{}
	p := newProducerWithWriter(w, nil)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)

	err := p.Publish(context.Background(), "t", "k", map[string]string{})
	assert.ErrorIs(t, err, ErrProducerClosed)

	// Double close is a no-op.
	assert.NoError(t, p.Close())
}

func TestTopicPublisherBindsTopic(t *testing.T) {
	w := &captureWriter{}
	p := newProducerWithWriter(w, nil)

	valuations := p.ForTopic("msme.valuation.completed")
	require.NoError(t, valuations.Publish(context.Background(), "evt-9", map[string]float64{"valuation": 880000}))

	require.Len(t, w.messages, 1)
	assert.Equal(t, "msme.valuation.completed", w.messages[0].Topic)
}
