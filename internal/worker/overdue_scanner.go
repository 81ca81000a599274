package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// LoanFacade exposes the subset of application functionality required by the scanner.
type LoanFacade interface {
	MarkOverdueInstallments(ctx context.Context, limit int) (int, error)
}

// OverdueScanner periodically sweeps the payment schedule and flips
// past-due installments to late, and long-overdue ones to missed.
type OverdueScanner struct {
	facade       LoanFacade
	scanInterval time.Duration
	batchSize    int
	logger       *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewOverdueScanner constructs the scanner.
func NewOverdueScanner(facade LoanFacade, scanInterval time.Duration, batchSize int, logger *slog.Logger) *OverdueScanner {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &OverdueScanner{
		facade:       facade,
		scanInterval: scanInterval,
		batchSize:    batchSize,
		logger:       logger,
	}
}

// Start launches background scanning.
func (s *OverdueScanner) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(runCtx)
}

// Stop waits for the scanner loop to finish.
func (s *OverdueScanner) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *OverdueScanner) run(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.scanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.scan(ctx)
		}
	}
}

// scan drains consecutive full batches so a backlog larger than one
// batch clears within a single tick.
func (s *OverdueScanner) scan(ctx context.Context) {
	for {
		changed, err := s.facade.MarkOverdueInstallments(ctx, s.batchSize)
		if err != nil {
			s.logger.Error("overdue scan failed", slog.String("error", err.Error()))
			return
		}
		if changed > 0 {
			s.logger.Info("installments marked overdue", slog.Int("count", changed))
		}
		if changed < s.batchSize {
			return
		}
	}
}
