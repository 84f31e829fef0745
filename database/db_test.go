package database

import (
	"io"
	"log/slog"
	"testing"

	"basurahub/internal/config"

	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConnectRedis_Unconfigured(t *testing.T) {
	client, err := ConnectRedis(&config.Config{}, discardLogger())

	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestConnectRedis_MalformedURL(t *testing.T) {
	client, err := ConnectRedis(&config.Config{RedisURL: "not-a-redis-url"}, discardLogger())

	assert.Error(t, err)
	assert.Nil(t, client)
}
