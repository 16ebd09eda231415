package redis

import (
	"context"
	"testing"

	"github.com/kishkisupermarket/khs/internal/app/config"
	"github.com/kishkisupermarket/khs/internal/repository"
	"github.com/stretchr/testify/assert"
)

func TestNewClient_UnreachableServer(t *testing.T) {
	client, err := NewClient(context.Background(), config.RedisConfig{Addr: "127.0.0.1:1"})

	assert.Nil(t, client)
	assert.ErrorIs(t, err, repository.ErrConnectionFailed)
}
