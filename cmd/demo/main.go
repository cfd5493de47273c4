package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/comalice/superstate"
	"github.com/comalice/superstate/app"
	"github.com/comalice/superstate/ecs"
	"github.com/comalice/superstate/internal/production"
)

type Movement struct{}

type Walking struct{ Speed uint32 }
type Running struct{ Speed uint32 }
type Flying struct{ Altitude uint32 }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := production.SetupTracing(ctx, "superstate-demo")
	if err != nil {
		log.Fatalf("tracing: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.TickRate == 0 {
		cfg.TickRate = 500 * time.Millisecond
	}

	persistCfg, err := production.PersisterConfigFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	persister, closePersister, err := production.NewPersister(ctx, persistCfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = closePersister() }()

	publishChan := make(chan ecs.Change, 100)
	metrics, err := production.NewMetricsPublisher(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal(err)
	}

	a := app.New(cfg,
		app.WithPersister(persister),
		app.WithWorldOptions(ecs.WithPublisher(production.NewChannelPublisher(publishChan), metrics)),
	)
	if err := a.AddPlugins(superstate.Plugin[Movement](
		ecs.TypeOf[Walking](),
		ecs.TypeOf[Running](),
		ecs.TypeOf[Flying](),
	)); err != nil {
		log.Fatal(err)
	}

	// Resume the previous run when the backend holds a snapshot.
	switch err := a.Load(ctx); {
	case err == nil:
		fmt.Printf("Resumed world %s from %s persister\n", a.Config().WorldID, persistCfg.Kind)
	case errors.Is(err, app.ErrSnapshotNotFound):
	default:
		log.Fatal(err)
	}
	var e ecs.Entity
	_ = a.Do(func(w *ecs.World) error {
		if ents := w.Entities(); len(ents) > 0 {
			e = ents[0]
		} else {
			e = w.SpawnEmpty()
		}
		return nil
	})

	// Every tick moves the entity to the next gait; every fourth tick it stops.
	steps := []func(c *ecs.Commands){
		func(c *ecs.Commands) { c.Entity(e).Insert(Walking{Speed: 1}) },
		func(c *ecs.Commands) { c.Entity(e).Insert(Running{Speed: 5}) },
		func(c *ecs.Commands) { c.Entity(e).Insert(Flying{Altitude: 100}) },
		func(c *ecs.Commands) { c.Entity(e).RemoveTypes(ecs.TypeOf[Movement]()) },
	}
	visualizer := &production.DefaultVisualizer{}
	a.AddSystem("report", app.LoggingSystem("report", func(_ context.Context, w *ecs.World) error {
		state := "none"
		if id, ok := superstate.Current[Movement](w, e); ok {
			state = w.Components().Name(id)
		}
		fmt.Printf("\n--- Entity %v ---\nCurrent state: %s\n", e, state)
		fmt.Println("DOT:\n" + visualizer.ExportDOT(w))
		for {
			select {
			case c := <-publishChan:
				fmt.Printf("Published: %s %s on %v\n", c.Kind, c.Name, c.Entity)
			default:
				return nil
			}
		}
	}, nil))

	if err := a.Start(ctx); err != nil {
		log.Fatal(err)
	}

	ticker := time.NewTicker(cfg.TickRate)
	defer ticker.Stop()

	cycles := 0
	for {
		select {
		case <-ticker.C:
			if err := a.Enqueue(steps[cycles%len(steps)]); err != nil {
				fmt.Printf("Enqueue error: %v\n", err)
			}
			cycles++
			if cycles >= 12 {
				a.Stop()
				if err := a.Save(context.Background()); err != nil {
					log.Printf("save: %v", err)
				} else {
					fmt.Printf("Saved world %s to %s persister\n", a.Config().WorldID, persistCfg.Kind)
				}
				fmt.Println("Demo complete after 12 cycles.")
				return
			}
		case <-ctx.Done():
			fmt.Println("\nShutting down gracefully...")
			a.Stop()
			return
		}
	}
}
