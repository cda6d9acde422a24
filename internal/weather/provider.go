package weather

import (
	"context"
	"encoding/json"

	"github.com/i474232898/weather-dashboard/internal/geo"
)

// Provider abstracts the upstream weather source. Payloads are returned
// unmodified so they can be forwarded verbatim.
type Provider interface {
	Name() string
	Current(ctx context.Context, at geo.Coordinate, units Units) (json.RawMessage, error)
	Forecast(ctx context.Context, at geo.Coordinate, units Units) (json.RawMessage, error)
}
