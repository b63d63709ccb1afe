package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/sylvanmoss/manifold/internal/logging"
	"github.com/sylvanmoss/manifold/internal/presentation/tui"
	"github.com/sylvanmoss/manifold/pkg/domain"
	"github.com/sylvanmoss/manifold/pkg/observability"
	"github.com/sylvanmoss/manifold/pkg/stimulus"
)

// RunSimulation drives the engine for the configured number of steps and
// prints a run report. Interrupts stop the loop cleanly after the current
// step.
func RunSimulation(opts RunOptions) error {
	logger := createLogger(opts.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()
	hooks := domain.MergeHooks(metrics.Hooks(), progressHooks(logger))

	engine, err := createEngine(ctx, opts, logger, hooks)
	if err != nil {
		return err
	}

	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	source, err := stimulusSource(opts, cfg.Dimension)
	if err != nil {
		return err
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		tui.PrintBanner()
	}

	steps := opts.Steps
	if steps <= 0 {
		steps = 100
	}

	start := time.Now()
	for i := 0; i < steps; i++ {
		if ctx.Err() != nil {
			logger.Info("run interrupted", "completed_steps", i)
			break
		}

		var stim []float64
		if source != nil {
			stim, err = source.Sample(ctx)
			if err != nil {
				return fmt.Errorf("stimulus sampling failed: %w", err)
			}
		}

		if _, err := engine.Step(ctx, stim, 1); err != nil {
			var ierr *domain.InstabilityError
			if errors.As(err, &ierr) {
				logger.Warn("step rejected, state rolled back", "node", ierr.NodeID, "step", ierr.Step)
				continue
			}
			return err
		}
	}
	logger.Info("run finished", "elapsed", time.Since(start))

	return printReport(engine, interactive)
}

func stimulusSource(opts RunOptions, dimension int) (stimulus.Source, error) {
	switch opts.Stimulus {
	case "", "none":
		return nil, nil
	case "system":
		return stimulus.NewSystemSource(dimension)
	default:
		return stimulus.NewTextSource(opts.Stimulus, dimension), nil
	}
}

type reportEngine interface {
	Snapshot() domain.Snapshot
	Check() (domain.ConvergenceReport, error)
	Glyphs() []domain.Glyph
}

func printReport(engine reportEngine, interactive bool) error {
	rep, err := engine.Check()
	if err != nil {
		var herr *domain.InsufficientHistoryError
		if !errors.As(err, &herr) {
			return err
		}
		// short runs legitimately end before the window fills
		rep = domain.ConvergenceReport{}
	}

	md := tui.RunReport(engine.Snapshot(), rep, engine.Glyphs())
	if interactive {
		render := tui.NewRenderer()
		out, err := render(md)
		if err == nil {
			fmt.Print(out)
			return nil
		}
	}
	fmt.Print(md)
	return nil
}

func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(slog.LevelInfo)
}

func progressHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCollapse: func(res domain.CollapseResult) {
			logger.Info("node collapsed", "node", res.NodeID, "basis", res.Basis)
		},
		OnGlyph: func(g domain.Glyph) {
			logger.Info("glyph formed", "glyph", g.ID, "stability", g.Stability, "step", g.Step)
		},
		OnConverged: func(rep domain.ConvergenceReport) {
			logger.Info("convergence reached", "mean_tension", rep.MeanTension, "attractor", rep.NearestAttractor)
		},
	}
}
