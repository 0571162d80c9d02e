package changekit_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/autom8ter/changekit"
)

func TestLogger(t *testing.T) {
	t.Run("debug", func(t *testing.T) {
		logger, err := changekit.NewLogger("debug", map[string]any{})
		assert.Nil(t, err)
		assert.NotNil(t, logger)
		logger.Debug(context.Background(), "staged a command", map[string]any{"collection": "product"})
	})
	t.Run("info", func(t *testing.T) {
		logger, err := changekit.NewLogger("info", map[string]any{})
		assert.Nil(t, err)
		assert.NotNil(t, logger)
		logger.Info(context.Background(), "committed a transaction", nil)
	})
	t.Run("warn", func(t *testing.T) {
		logger, err := changekit.NewLogger("warn", map[string]any{})
		assert.Nil(t, err)
		assert.NotNil(t, logger)
		logger.Warn(context.Background(), "slow query", map[string]any{"collection": "order"})
	})
	t.Run("error", func(t *testing.T) {
		logger, err := changekit.NewLogger("error", map[string]any{})
		assert.Nil(t, err)
		assert.NotNil(t, logger)
		logger.Error(context.Background(), "failed to apply change set", fmt.Errorf("boom"), nil)
	})
	t.Run("context metadata is attached", func(t *testing.T) {
		logger, err := changekit.NewLogger("info", map[string]any{"service": "changekit"})
		assert.Nil(t, err)
		assert.NotNil(t, logger)
		ctx := changekit.NewMetadata(map[string]any{"origin": "test"}).ToContext(context.Background())
		logger.Info(ctx, "metadata logger", map[string]any{"tagged": true})
	})
	t.Run("unknown levels fall back to info", func(t *testing.T) {
		logger, err := changekit.NewLogger("verbose", nil)
		assert.Nil(t, err)
		assert.NotNil(t, logger)
		logger.Info(context.Background(), "fallback logger", nil)
	})
}
