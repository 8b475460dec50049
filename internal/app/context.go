package app

import (
	"log/slog"
	"net/http"

	"github.com/cinetick/cinema-pos/internal/auth"
)

type contextKey string

const (
	contextKeyLogger   = contextKey("logger")
	contextKeyIdentity = contextKey("identity")
)

func (app *Application) contextGetLogger(r *http.Request) *slog.Logger {
	logger, ok := r.Context().Value(contextKeyLogger).(*slog.Logger)
	if !ok {
		return app.logger
	}

	return logger
}

func (app *Application) contextGetIdentity(r *http.Request) *auth.Identity {
	identity, ok := r.Context().Value(contextKeyIdentity).(*auth.Identity)
	if !ok {
		panic("missing identity in request context")
	}

	return identity
}
