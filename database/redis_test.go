package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRedisClient_InvalidURL(t *testing.T) {
	client, err := NewRedisClient(context.Background(), "not-a-url")
	assert.Nil(t, client)
	assert.ErrorContains(t, err, "invalid redis url")
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	// Port 1 on loopback refuses connections.
	client, err := NewRedisClient(context.Background(), "redis://127.0.0.1:1/0")
	assert.Nil(t, client)
	assert.ErrorContains(t, err, "failed to connect to redis")
}
