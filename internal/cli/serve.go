package cli

import (
	"context"
	"net/http"

	httpadapter "github.com/sylvanmoss/manifold/pkg/adapters/http"
	"github.com/sylvanmoss/manifold/pkg/domain"
	"github.com/sylvanmoss/manifold/pkg/observability"
)

// BuildServer wires an engine, its metrics and the HTTP handler for serve
// mode.
func BuildServer(opts RunOptions) (http.Handler, error) {
	logger := createLogger(opts.Debug)

	metrics := observability.NewMetrics()
	hooks := domain.MergeHooks(metrics.Hooks(), progressHooks(logger))

	engine, err := createEngine(context.Background(), opts, logger, hooks)
	if err != nil {
		return nil, err
	}

	return httpadapter.NewHandler(engine,
		httpadapter.WithLogger(logger),
		httpadapter.WithMetricsHandler(metrics.Handler()),
	), nil
}
