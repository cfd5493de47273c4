package app

import (
	"context"
	"errors"
	"time"

	"github.com/comalice/superstate/ecs"
)

// ErrRunning is returned by Start when the tick loop is already running.
var ErrRunning = errors.New("app already running")

// Start begins ticking at the configured rate in a new goroutine.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped != nil {
		return ErrRunning
	}

	tickCtx, cancel := context.WithCancel(ctx)
	a.tickCancel = cancel
	a.stopped = make(chan struct{})
	go a.tickLoop(tickCtx, a.stopped)
	return nil
}

// Stop ends the tick loop and waits for the current tick to finish.
func (a *App) Stop() {
	a.mu.Lock()
	cancel, stopped := a.tickCancel, a.stopped
	a.tickCancel, a.stopped = nil, nil
	a.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-stopped
}

// Run ticks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	a.Stop()
	return nil
}

func (a *App) tickLoop(ctx context.Context, stopped chan struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(a.cfg.TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.tick(ctx)
		}
	}
}

// tick runs one Update, logging errors and recovering from panics so a
// faulty system does not stop the loop. Panics wrapping ecs.ErrInvariant
// are re-raised. After a recovered panic the world keeps the commands the
// flush had not reached; they apply on the next tick.
func (a *App) tick(ctx context.Context) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if err, ok := r.(error); ok && errors.Is(err, ecs.ErrInvariant) {
			panic(r)
		}
		a.logger.Printf("app: world %s: tick panicked: %v", a.cfg.WorldID, r)
	}()
	if err := a.Update(ctx); err != nil {
		a.logger.Printf("app: world %s: tick %d: %v", a.cfg.WorldID, a.TickNumber(), err)
	}
}
