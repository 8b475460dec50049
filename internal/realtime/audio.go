package realtime

import (
	"context"
	"log/slog"

	"github.com/cinetick/cinema-pos/internal/storage"
)

const audioPrefKey = "audio-feed-enabled"

// AudioGate guards the experimental live audio feed. Policy invariant: the
// feed only ever starts in direct response to an explicit operator action --
// never from a timer, a startup hook, or a network callback. The stored
// preference pre-fills the UI toggle on the next load but does not arm the
// feed by itself.
type AudioGate struct {
	manager *Manager
	port    storage.Port
	logger  *slog.Logger
}

func NewAudioGate(manager *Manager, port storage.Port, logger *slog.Logger) *AudioGate {
	return &AudioGate{
		manager: manager,
		port:    port,
		logger:  logger,
	}
}

// Arm starts the audio feed. Callers must invoke this only from a handler
// serving an explicit operator request.
func (g *AudioGate) Arm(ctx context.Context) {
	g.manager.Start()

	if err := g.port.Set(ctx, audioPrefKey, []byte("true")); err != nil {
		g.logger.Error("failed to persist audio feed preference", "error", err)
	}
}

// Disarm stops the feed and clears the stored preference.
func (g *AudioGate) Disarm(ctx context.Context) {
	g.manager.Stop()

	if err := g.port.Remove(ctx, audioPrefKey); err != nil {
		g.logger.Error("failed to clear audio feed preference", "error", err)
	}
}

// Preferred reports the stored operator preference. It is informational
// only; a true value never triggers Arm.
func (g *AudioGate) Preferred(ctx context.Context) bool {
	value, err := g.port.Get(ctx, audioPrefKey)
	if err != nil {
		g.logger.Error("failed to read audio feed preference", "error", err)
		return false
	}

	return string(value) == "true"
}

func (g *AudioGate) State() State {
	return g.manager.State()
}
