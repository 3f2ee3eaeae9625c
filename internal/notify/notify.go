// Package notify delivers one-time codes to users out of band. The only
// implementation today logs the code; a real mailer slots in behind the
// same interface.
package notify

import (
	"context"
	"log/slog"

	"github.com/lawhelp/lawhelp/internal/domain"
	"github.com/lawhelp/lawhelp/pkg/slogx"
)

// Notifier delivers a one-time code to the user it belongs to. The code
// itself travels only through this interface; it is never returned over
// the API that requested it.
type Notifier interface {
	Notify(ctx context.Context, userID string, email string, typ domain.CodeType, code string) error
}

// LogNotifier writes codes to the structured log. Development only: it
// exists so the full verification flow works without SMTP credentials.
// Never wire it outside development, it exposes the code in the log.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, userID string, email string, typ domain.CodeType, code string) error {
	slogx.FromContext(ctx).Info("verification code issued",
		slog.String("user_id", userID),
		slog.String("email", email),
		slog.String("type", string(typ)),
		slog.String("code", code),
	)
	return nil
}

// DropNotifier records that a code was issued without the code itself.
// It is the default outside development until a real mailer is wired;
// codes stay out of the logs no matter the log level.
type DropNotifier struct{}

func (DropNotifier) Notify(ctx context.Context, userID string, email string, typ domain.CodeType, code string) error {
	slogx.FromContext(ctx).Warn("verification code issued but no delivery backend is configured",
		slog.String("user_id", userID),
		slog.String("type", string(typ)),
	)
	return nil
}
