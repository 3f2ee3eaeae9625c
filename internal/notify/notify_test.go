package notify

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lawhelp/lawhelp/internal/domain"
	"github.com/lawhelp/lawhelp/pkg/slogx"
)

func captureLog(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return slogx.WithContext(context.Background(), logger), &buf
}

func TestLogNotifier_IncludesCode(t *testing.T) {
	ctx, buf := captureLog(t)

	err := LogNotifier{}.Notify(ctx, "user-1", "dev@example.com", domain.CodeEmailVerification, "482913")
	require.NoError(t, err)
	require.Contains(t, buf.String(), "482913")
	require.Contains(t, buf.String(), "user-1")
}

func TestDropNotifier_NeverLogsCode(t *testing.T) {
	ctx, buf := captureLog(t)

	err := DropNotifier{}.Notify(ctx, "user-1", "prod@example.com", domain.CodeEmailVerification, "482913")
	require.NoError(t, err)
	require.NotContains(t, buf.String(), "482913")
	require.NotContains(t, buf.String(), "prod@example.com")
	require.Contains(t, buf.String(), "user-1")
}
