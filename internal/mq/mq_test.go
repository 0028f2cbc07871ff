package mq

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/lightbnb/lightbnb/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingBackend struct {
	channel string
	data    []byte
	attrs   map[string]string
	closed  bool
}

func (c *capturingBackend) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	c.channel = channel
	c.data = data
	c.attrs = attrs
	return "msg-1", nil
}

func (c *capturingBackend) Close() error {
	c.closed = true
	return nil
}

func TestPublishJSON(t *testing.T) {
	backend := &capturingBackend{}
	queue := New(backend)

	id, err := queue.PublishJSON(context.Background(), ChannelPropertyCreated, map[string]any{"id": 3, "name": "Loft"})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	assert.Equal(t, ChannelPropertyCreated, backend.channel)
	assert.Equal(t, "application/json", backend.attrs["content_type"])
	assert.Equal(t, ChannelPropertyCreated, backend.attrs["event"])

	var payload map[string]any
	require.NoError(t, json.Unmarshal(backend.data, &payload))
	assert.Equal(t, "Loft", payload["name"])

	require.NoError(t, queue.Close())
	assert.True(t, backend.closed)
}

func TestPublishJSONRejectsUnencodableValues(t *testing.T) {
	backend := &capturingBackend{}
	_, err := New(backend).PublishJSON(context.Background(), ChannelUserCreated, make(chan int))
	assert.Error(t, err)
	assert.Empty(t, backend.channel)
}

func TestNewFromConfig(t *testing.T) {
	queue, err := NewFromConfig(context.Background(), config.EventsConfig{Backend: config.EventsBackendNone})
	require.NoError(t, err)
	assert.Nil(t, queue)

	_, err = NewFromConfig(context.Background(), config.EventsConfig{Backend: "kafka"})
	assert.Error(t, err)

	_, err = NewFromConfig(context.Background(), config.EventsConfig{Backend: config.EventsBackendRabbitMQ})
	assert.Error(t, err, "rabbitmq url is required")

	_, err = NewFromConfig(context.Background(), config.EventsConfig{Backend: config.EventsBackendPubSub})
	assert.Error(t, err, "pubsub project id is required")
}

func TestNewMessageID(t *testing.T) {
	a, b := newMessageID(), newMessageID()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
