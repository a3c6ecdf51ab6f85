package main

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/emiliano-diaz/commerce-api/internal/commerce"
	"github.com/emiliano-diaz/commerce-api/internal/config"
)

func TestOpenStore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	tests := []struct {
		name string
		cfg  func() config.Config
	}{
		{"memory", config.Default},
		{"redis", func() config.Config {
			cfg := config.Default()
			cfg.StoreDriver = config.DriverRedis
			cfg.RedisURL = "redis://" + mr.Addr() + "/0"
			return cfg
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s, err := openStore(ctx, tt.cfg(), zaptest.NewLogger(t))
			require.NoError(t, err)
			defer s.Close(ctx)

			require.NoError(t, s.Ping(ctx))
			c, err := commerce.NewCustomer("c1", "Ana", 10)
			require.NoError(t, err)
			require.NoError(t, s.CreateCustomer(ctx, c))

			got, err := s.ReadCustomer(ctx, "c1")
			require.NoError(t, err)
			assert.Equal(t, 10.0, got.Balance)
		})
	}
}

func TestOpenStore_RedisUnreachable(t *testing.T) {
	cfg := config.Default()
	cfg.StoreDriver = config.DriverRedis
	cfg.RedisURL = "redis://127.0.0.1:1/0"

	_, err := openStore(context.Background(), cfg, zaptest.NewLogger(t))
	assert.Error(t, err)
}
