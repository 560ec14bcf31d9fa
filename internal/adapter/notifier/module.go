package notifier

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/gildedline/atelier/internal/config"
)

// Module exposes notifier client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// newClient falls back to a no-op client when no gateway address is
// configured; quote expiry then runs without outbound notifications.
func newClient(p clientParams) (Client, error) {
	if p.Config.NotifierAddress == "" {
		return NoopClient{}, nil
	}
	return NewHTTPClient(p.Config.NotifierAddress, p.Logger)
}
