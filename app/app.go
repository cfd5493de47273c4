package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/comalice/superstate/ecs"
)

const tracerName = "github.com/comalice/superstate/app"

// ErrQueueFull is returned by Enqueue when the per-tick batch is full.
var ErrQueueFull = errors.New("command queue full")

// Plugin configures an App, typically by registering components and hooks
// on its world.
type Plugin func(a *App) error

// System runs once per tick against the world.
type System func(ctx context.Context, w *ecs.World) error

type namedSystem struct {
	name string
	run  System
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger used by the app and its world.
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithTracerProvider sets the provider used for tick spans. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(a *App) {
		a.tracer = tp.Tracer(tracerName)
	}
}

// WithPersister configures the persister used by Save and Load.
func WithPersister(p Persister) Option {
	return func(a *App) {
		a.persister = p
	}
}

// WithWorldOptions passes options to the world created by New.
func WithWorldOptions(opts ...ecs.Option) Option {
	return func(a *App) {
		a.worldOpts = append(a.worldOpts, opts...)
	}
}

// App owns a world and drives it in fixed ticks. Every tick applies the
// command batches enqueued since the previous tick in FIFO order, runs the
// systems in registration order and flushes the world.
//
// All world access goes through the App's mutex, so Enqueue, Do and the
// tick loop may be used from different goroutines.
type App struct {
	cfg       Config
	logger    *log.Logger
	tracer    trace.Tracer
	persister Persister
	worldOpts []ecs.Option

	mu      sync.Mutex
	world   *ecs.World
	systems []namedSystem

	batchMu sync.Mutex
	batch   []func(*ecs.Commands)
	tickNum uint64

	tickCancel context.CancelFunc
	stopped    chan struct{}
}

// New creates an App with an empty world.
func New(cfg Config, opts ...Option) *App {
	cfg = cfg.withDefaults()
	a := &App{
		cfg:    cfg,
		logger: log.Default(),
		batch:  make([]func(*ecs.Commands), 0, cfg.MaxCommandsPerTick),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.tracer == nil {
		a.tracer = otel.Tracer(tracerName)
	}
	worldOpts := append([]ecs.Option{ecs.WithID(cfg.WorldID), ecs.WithLogger(a.logger)}, a.worldOpts...)
	a.world = ecs.NewWorld(worldOpts...)
	return a
}

// Config returns the effective configuration.
func (a *App) Config() Config { return a.cfg }

// World returns the app's world. Callers must not use it concurrently with
// a running tick loop; use Do instead.
func (a *App) World() *ecs.World { return a.world }

// AddPlugins applies plugins in order and stops at the first error.
func (a *App) AddPlugins(plugins ...Plugin) error {
	for i, p := range plugins {
		if err := p(a); err != nil {
			return fmt.Errorf("plugin %d: %w", i, err)
		}
	}
	return nil
}

// AddSystem appends a system run every tick.
func (a *App) AddSystem(name string, s System) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.systems = append(a.systems, namedSystem{name: name, run: s})
}

// Enqueue schedules fn to queue commands at the start of the next tick.
func (a *App) Enqueue(fn func(*ecs.Commands)) error {
	a.batchMu.Lock()
	defer a.batchMu.Unlock()

	if len(a.batch) >= cap(a.batch) {
		return ErrQueueFull
	}
	a.batch = append(a.batch, fn)
	return nil
}

// Do runs fn with exclusive access to the world and flushes afterwards.
func (a *App) Do(fn func(w *ecs.World) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	err := fn(a.world)
	a.world.Flush()
	return err
}

// TickNumber returns the number of completed ticks.
func (a *App) TickNumber() uint64 {
	a.batchMu.Lock()
	defer a.batchMu.Unlock()
	return a.tickNum
}

// Update runs one tick. System errors do not stop the tick; they are
// recorded on the span and returned joined.
func (a *App) Update(ctx context.Context) error {
	batch := a.collect()

	a.mu.Lock()
	defer a.mu.Unlock()

	tick := a.TickNumber() + 1
	ctx, span := a.tracer.Start(ctx, "app.update", trace.WithAttributes(
		attribute.String("world.id", a.world.ID()),
		attribute.Int64("tick.number", int64(tick)),
		attribute.Int("tick.commands", len(batch)),
	))
	defer span.End()

	cmds := a.world.Commands()
	for _, fn := range batch {
		fn(cmds)
	}
	a.world.Flush()

	var errs []error
	for _, s := range a.systems {
		if err := s.run(ctx, a.world); err != nil {
			err = fmt.Errorf("system %s: %w", s.name, err)
			span.RecordError(err)
			errs = append(errs, err)
		}
		a.world.Flush()
	}

	a.batchMu.Lock()
	a.tickNum = tick
	a.batchMu.Unlock()

	err := errors.Join(errs...)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// collect atomically retrieves and clears the pending batch.
func (a *App) collect() []func(*ecs.Commands) {
	a.batchMu.Lock()
	defer a.batchMu.Unlock()

	batch := a.batch
	a.batch = make([]func(*ecs.Commands), 0, cap(a.batch))
	return batch
}
