package events

import (
	"context"
	"encoding/json"
	"testing"

	"ecommerce-backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestToMessage(t *testing.T) {
	e := NewEvent(CheckoutSucceeded, "PAY-1", map[string]any{"amount": "25.00"})

	msg, err := toMessage(e)
	require.NoError(t, err)
	assert.Equal(t, "PAY-1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, CheckoutSucceeded, string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, CheckoutSucceeded, decoded["type"])
	assert.Equal(t, "25.00", decoded["payload"].(map[string]any)["amount"])
}

func TestToMessageUnmarshalable(t *testing.T) {
	_, err := toMessage(NewEvent(OrderPlaced, "o1", make(chan int)))
	assert.Error(t, err)
}

func TestNewWithoutBrokersLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := New(utils.KafkaConfig{Topic: "shop.events"}, zap.New(core))
	defer p.Close()

	require.NoError(t, p.Publish(context.Background(),
		NewEvent(OrderPlaced, "o1", nil),
		NewEvent(CheckoutFailed, "PAY-2", nil)))

	assert.Equal(t, 2, logs.FilterMessage("Domain event").Len())
}

func TestNewWithBrokers(t *testing.T) {
	p := New(utils.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "shop.events"}, zap.NewNop())
	_, ok := p.(*kafkaPublisher)
	assert.True(t, ok)
	assert.NoError(t, p.Close())
}
