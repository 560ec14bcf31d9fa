package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gildedline/atelier/internal/adapter/notifier"
	"github.com/gildedline/atelier/internal/domain/model"
)

// AtelierFacade exposes the subset of application functionality required by the worker.
type AtelierFacade interface {
	ExpireDueQuotes(ctx context.Context, limit int) ([]model.Quote, error)
	NotifyQuoteExpired(ctx context.Context, quote model.Quote) error
}

// QuoteExpirer sweeps pending quotes past their validity window and
// fans out notifications concurrently.
type QuoteExpirer struct {
	facade       AtelierFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Quote
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewQuoteExpirer constructs quote expiry worker pool.
func NewQuoteExpirer(facade AtelierFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *QuoteExpirer {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &QuoteExpirer{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Quote, batchSize*workers),
	}
}

// Start launches background processing.
func (p *QuoteExpirer) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *QuoteExpirer) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *QuoteExpirer) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.sweepAndDispatch(ctx)
		}
	}
}

func (p *QuoteExpirer) sweepAndDispatch(ctx context.Context) {
	quotes, err := p.facade.ExpireDueQuotes(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("quote expiry sweep failed", slog.String("error", err.Error()))
		return
	}
	for _, quote := range quotes {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- quote:
		}
	}
}

func (p *QuoteExpirer) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case quote, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handleQuote(ctx, quote)
		}
	}
}

func (p *QuoteExpirer) handleQuote(ctx context.Context, quote model.Quote) {
	if err := p.facade.NotifyQuoteExpired(ctx, quote); err != nil {
		switch e := err.(type) {
		case notifier.TooManyRequestsError:
			p.logger.Warn("notifier rate limited", slog.Duration("retry_after", e.RetryAfter))
			time.Sleep(e.RetryAfter)
		default:
			p.logger.Error("quote expiry notification failed",
				slog.String("quote", quote.ID.String()), slog.String("error", err.Error()))
		}
	}
}
