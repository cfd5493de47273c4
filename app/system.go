package app

import (
	"context"
	"log"
	"time"

	"github.com/comalice/superstate/ecs"
)

// LoggingSystem wraps s and logs each run with its duration.
func LoggingSystem(name string, s System, l *log.Logger) System {
	if l == nil {
		l = log.Default()
	}
	return func(ctx context.Context, w *ecs.World) error {
		l.Printf("LOG: running system %s on world %s", name, w.ID())
		start := time.Now()
		err := s(ctx, w)
		l.Printf("LOG: system %s completed in %v: %v", name, time.Since(start), err)
		return err
	}
}
