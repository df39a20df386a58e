package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/picanha/dash/internal/domain"
)

// SnapshotGenerator defines the interface for generating balance snapshots.
type SnapshotGenerator interface {
	Generate(ctx context.Context, date time.Time) (domain.BalanceSnapshot, error)
}

// AfterSnapshotHook is called after each successful snapshot generation.
type AfterSnapshotHook interface {
	Export(ctx context.Context, balances domain.BalanceSnapshot) error
}

// SnapshotWorker periodically stores balance snapshots.
type SnapshotWorker struct {
	generator SnapshotGenerator
	interval  time.Duration
	hook      AfterSnapshotHook // optional
}

// NewSnapshotWorker creates a new SnapshotWorker with an optional
// post-generation hook.
func NewSnapshotWorker(generator SnapshotGenerator, interval time.Duration, hook AfterSnapshotHook) *SnapshotWorker {
	return &SnapshotWorker{
		generator: generator,
		interval:  interval,
		hook:      hook,
	}
}

// Run starts the snapshot worker loop. It blocks until the context is cancelled.
func (w *SnapshotWorker) Run(ctx context.Context) {
	slog.Info("SnapshotWorker: starting")

	w.generate(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("SnapshotWorker: shutting down")
			return
		case <-ticker.C:
			w.generate(ctx)
		}
	}
}

func (w *SnapshotWorker) generate(ctx context.Context) {
	balances, err := w.generator.Generate(ctx, time.Now())
	if err != nil {
		slog.Error("SnapshotWorker: generation failed", "error", err)
		return
	}
	slog.Info("SnapshotWorker: snapshot generated", "total", balances.TotalValue)

	if w.hook == nil {
		return
	}
	if err := w.hook.Export(ctx, balances); err != nil {
		slog.Error("SnapshotWorker: export hook failed", "error", err)
	} else {
		slog.Info("SnapshotWorker: export hook completed")
	}
}
