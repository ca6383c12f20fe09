package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/savingsvault/internal/domain/model"
)

// VaultAuditor exposes the subset of application functionality required by the reconciler.
type VaultAuditor interface {
	Vaults(ctx context.Context) ([]model.VaultAccount, error)
	VaultSummary(ctx context.Context, vault model.Address) (*model.VaultSummary, error)
}

// AuditObserver receives the outcome of every vault check. summary is nil when err is set.
type AuditObserver interface {
	VaultAudited(summary *model.VaultSummary, err error)
}

// Reconciler periodically checks that every vault's ledger balance equals the claims against it.
type Reconciler struct {
	auditor  VaultAuditor
	observer AuditObserver
	interval time.Duration
	workers  int
	logger   *slog.Logger

	jobs   chan model.Address
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewReconciler constructs the reconciliation worker pool.
func NewReconciler(auditor VaultAuditor, observer AuditObserver, interval time.Duration, workers int, logger *slog.Logger) *Reconciler {
	if workers <= 0 {
		workers = 1
	}
	return &Reconciler{
		auditor:  auditor,
		observer: observer,
		interval: interval,
		workers:  workers,
		logger:   logger,
		jobs:     make(chan model.Address, workers),
	}
}

// Start launches background reconciliation.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Reconciler) dispatch(ctx context.Context) {
	defer r.wg.Done()
	defer close(r.jobs)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.listAndDispatch(ctx)
		}
	}
}

func (r *Reconciler) listAndDispatch(ctx context.Context) {
	vaults, err := r.auditor.Vaults(ctx)
	if err != nil {
		r.logger.Error("list vaults for reconciliation failed", slog.String("error", err.Error()))
		r.notify(nil, err)
		return
	}
	for _, vault := range vaults {
		select {
		case <-ctx.Done():
			return
		case r.jobs <- vault.Address:
		}
	}
}

func (r *Reconciler) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case vault, ok := <-r.jobs:
			if !ok {
				return
			}
			r.check(ctx, vault)
		}
	}
}

func (r *Reconciler) check(ctx context.Context, vault model.Address) {
	summary, err := r.auditor.VaultSummary(ctx, vault)
	if err != nil {
		r.logger.Error("vault audit failed", slog.String("vault", vault.String()), slog.String("error", err.Error()))
		r.notify(nil, err)
		return
	}

	if summary.Balanced() {
		r.logger.Debug("vault balanced",
			slog.String("vault", vault.String()),
			slog.Uint64("balance", summary.LedgerBalance),
		)
	} else {
		r.logger.Error("vault conservation drift",
			slog.String("vault", vault.String()),
			slog.Uint64("balance", summary.LedgerBalance),
			slog.Uint64("reserve", summary.Vault.Reserve),
			slog.Uint64("user_claims", summary.UserClaims),
			slog.Int64("drift", summary.Drift()),
		)
	}
	r.notify(summary, nil)
}

func (r *Reconciler) notify(summary *model.VaultSummary, err error) {
	if r.observer != nil {
		r.observer.VaultAudited(summary, err)
	}
}
