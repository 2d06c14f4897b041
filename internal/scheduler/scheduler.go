package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"cryptoedge-mcp/internal/model"
	"cryptoedge-mcp/internal/provider"
)

// Scheduler drives the provider's background cache maintenance: a sweep of
// expired entries, and an optional periodic warm of a configured watchlist.
type Scheduler struct {
	Cron      *cron.Cron
	Provider  *provider.Provider
	Watchlist []string
	Ctx       context.Context
}

func NewScheduler(ctx context.Context, p *provider.Provider, watchlist []string) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Provider:  p,
		Watchlist: watchlist,
		Ctx:       ctx,
	}
}

// RegisterAll registers the sweep job and, when a watchlist is configured,
// the warm job.
func (s *Scheduler) RegisterAll(sweepCron, warmCron string) error {
	if _, err := s.Cron.AddFunc(sweepCron, s.sweepTask); err != nil {
		return fmt.Errorf("register sweep task: %w", err)
	}
	if len(s.Watchlist) > 0 {
		if _, err := s.Cron.AddFunc(warmCron, s.warmTask); err != nil {
			return fmt.Errorf("register warm task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) sweepTask() {
	evicted := s.Provider.SweepCaches()
	if evicted > 0 {
		log.Printf("[INFO] cache sweep evicted %d entries", evicted)
	}
}

func (s *Scheduler) warmTask() {
	for _, symbol := range s.Watchlist {
		if _, err := s.Provider.Price(s.Ctx, symbol); err != nil {
			log.Printf("[WARN] warm price %s: %v", symbol, err)
			continue
		}
		if _, err := s.Provider.Candles(s.Ctx, symbol, model.TimeframeDaily, 100); err != nil {
			log.Printf("[WARN] warm candles %s: %v", symbol, err)
		}
	}
	log.Printf("[INFO] warmed %d watchlist symbols", len(s.Watchlist))
}
