package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFromContext(t *testing.T) {
	t.Run("uses logger from ctx", func(t *testing.T) {
		l := zap.NewNop().Sugar()
		ctx := WithLogger(context.Background(), l)
		require.Same(t, l, FromContext(ctx))
	})

	t.Run("falls back to global", func(t *testing.T) {
		l := FromContext(context.Background())
		require.NotNil(t, l)
		l.Infow("no logger in ctx", "ok", true)
	})
}
