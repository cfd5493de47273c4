package benchmarks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/comalice/superstate/app"
	"github.com/comalice/superstate/ecs"
)

// Tick Processing Benchmarks
//
// These measure one Update: draining the batch, flushing hooks and running
// systems. Batch size is the number of state changes applied per tick.

func BenchmarkTickProcessing(b *testing.B) {
	for _, n := range []int{1, 100, 1000} {
		b.Run(fmt.Sprintf("batch=%d", n), func(b *testing.B) {
			a, entities := NewMovementApp(app.Config{MaxCommandsPerTick: n}, n)
			a.AddSystem("noop", func(context.Context, *ecs.World) error { return nil })
			ctx := context.Background()
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				gait := Gaits[i%len(Gaits)]
				for _, e := range entities {
					if err := a.Enqueue(func(c *ecs.Commands) { c.Entity(e).Insert(gait) }); err != nil {
						b.Fatal(err)
					}
				}
				if err := a.Update(ctx); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkTickLatency measures the time from Enqueue to the change being
// visible, including tick scheduling.
func BenchmarkTickLatency(b *testing.B) {
	a, entities := NewMovementApp(app.Config{TickRate: time.Millisecond}, 1)
	e := entities[0]
	seen := make(chan struct{}, 1)
	a.AddSystem("signal", func(context.Context, *ecs.World) error {
		select {
		case seen <- struct{}{}:
		default:
		}
		return nil
	})
	if err := a.Start(context.Background()); err != nil {
		b.Fatal(err)
	}
	defer a.Stop()

	var total time.Duration
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Drain signals from ticks that ran before this enqueue.
		select {
		case <-seen:
		default:
		}
		gait := Gaits[i%len(Gaits)]
		start := time.Now()
		if err := a.Enqueue(func(c *ecs.Commands) { c.Entity(e).Insert(gait) }); err != nil {
			b.Fatal(err)
		}
		select {
		case <-seen:
		case <-time.After(time.Second):
			b.Fatal("tick did not run")
		}
		total += time.Since(start)
	}
	b.ReportMetric(float64(total.Microseconds())/float64(b.N), "µs/change")
}
