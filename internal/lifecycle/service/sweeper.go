package service

import (
	"context"
	"sync"
	"time"

	"slotline/pkg/logger"
)

// Sweeper periodically reverts expired holds. The 10-minute expiry returned
// by the hold path is a real promise: without the sweep an unconfirmed hold
// would occupy its slot forever.
type Sweeper struct {
	service  LifecycleService
	interval time.Duration
	log      *logger.Logger

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewSweeper(service LifecycleService, interval time.Duration, log *logger.Logger) *Sweeper {
	return &Sweeper{
		service:  service,
		interval: interval,
		log:      log,
		done:     make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	s.wg.Add(1)
	go s.run()
	s.log.Info("Hold expiry sweep started", "interval", s.interval)
}

func (s *Sweeper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.done:
			return
		}
	}
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	expired, err := s.service.ExpireOverdue(ctx)
	if err != nil {
		s.log.Error("Hold expiry sweep failed", "error", err)
		return
	}
	if expired > 0 {
		s.log.Info("Hold expiry sweep completed", "expired", expired)
	}
}

// Stop halts the sweep and waits for an in-flight pass to finish.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}
