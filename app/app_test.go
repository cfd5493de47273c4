package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/comalice/superstate/ecs"
)

type counter struct{ N int }

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func TestNewDefaults(t *testing.T) {
	a := New(Config{}, WithLogger(quietLogger()))
	cfg := a.Config()
	if cfg.TickRate != defaultTickRate || cfg.MaxCommandsPerTick != 1000 || cfg.WorldID != "world" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if a.World().ID() != "world" {
		t.Errorf("world id %q", a.World().ID())
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("SUPERSTATE_TICK_RATE", "5ms")
	t.Setenv("SUPERSTATE_MAX_COMMANDS_PER_TICK", "7")
	t.Setenv("SUPERSTATE_WORLD_ID", "env-world")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.TickRate != 5*time.Millisecond || cfg.MaxCommandsPerTick != 7 || cfg.WorldID != "env-world" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("SUPERSTATE_MAX_COMMANDS_PER_TICK", "many")
	_, err := LoadConfig()
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}
}

func TestUpdateAppliesBatchInOrder(t *testing.T) {
	a := New(Config{}, WithLogger(quietLogger()))
	var e ecs.Entity
	_ = a.Do(func(w *ecs.World) error {
		e = w.SpawnEmpty()
		return nil
	})

	for i := 1; i <= 3; i++ {
		n := i
		if err := a.Enqueue(func(c *ecs.Commands) { c.Entity(e).Insert(counter{N: n}) }); err != nil {
			t.Fatal(err)
		}
	}
	if err := a.Update(context.Background()); err != nil {
		t.Fatal(err)
	}
	got, ok := ecs.Get[counter](a.World(), e)
	if !ok || got.N != 3 {
		t.Errorf("expected last enqueued value, got %+v", got)
	}
	if a.TickNumber() != 1 {
		t.Errorf("tick number %d", a.TickNumber())
	}
}

func TestEnqueueQueueFull(t *testing.T) {
	a := New(Config{MaxCommandsPerTick: 2}, WithLogger(quietLogger()))
	noop := func(*ecs.Commands) {}
	_ = a.Enqueue(noop)
	_ = a.Enqueue(noop)
	if err := a.Enqueue(noop); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	_ = a.Update(context.Background())
	if err := a.Enqueue(noop); err != nil {
		t.Errorf("queue not reset after tick: %v", err)
	}
}

func TestSystemsRunInOrderAndErrorsJoin(t *testing.T) {
	a := New(Config{}, WithLogger(quietLogger()))
	var order []string
	errA := errors.New("a failed")
	a.AddSystem("a", func(ctx context.Context, w *ecs.World) error {
		order = append(order, "a")
		return errA
	})
	a.AddSystem("b", func(ctx context.Context, w *ecs.World) error {
		order = append(order, "b")
		return nil
	})

	err := a.Update(context.Background())
	if !errors.Is(err, errA) {
		t.Fatalf("expected joined system error, got %v", err)
	}
	if !strings.Contains(err.Error(), "system a") {
		t.Errorf("error lacks system name: %v", err)
	}
	if strings.Join(order, ",") != "a,b" {
		t.Errorf("order %v", order)
	}
}

func TestUpdateSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	a := New(Config{WorldID: "traced"}, WithLogger(quietLogger()), WithTracerProvider(tp))
	_ = a.Enqueue(func(*ecs.Commands) {})
	a.AddSystem("fail", func(context.Context, *ecs.World) error { return errors.New("boom") })
	_ = a.Update(context.Background())

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name() != "app.update" {
		t.Errorf("span name %q", span.Name())
	}
	attrs := map[string]string{}
	for _, kv := range span.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	if attrs["world.id"] != "traced" || attrs["tick.number"] != "1" || attrs["tick.commands"] != "1" {
		t.Errorf("unexpected attributes %v", attrs)
	}
	if len(span.Events()) == 0 {
		t.Error("system error not recorded on span")
	}
}

func TestStartStop(t *testing.T) {
	a := New(Config{TickRate: 2 * time.Millisecond}, WithLogger(quietLogger()))
	ctx := context.Background()
	if err := a.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := a.Start(ctx); !errors.Is(err, ErrRunning) {
		t.Errorf("expected ErrRunning, got %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for a.TickNumber() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	a.Stop()
	if a.TickNumber() < 3 {
		t.Fatalf("expected at least 3 ticks, got %d", a.TickNumber())
	}
	stoppedAt := a.TickNumber()
	time.Sleep(10 * time.Millisecond)
	if a.TickNumber() != stoppedAt {
		t.Error("ticks continued after Stop")
	}
	a.Stop() // no-op
}

func TestTickRecoversFromPanic(t *testing.T) {
	var buf bytes.Buffer
	a := New(Config{TickRate: 2 * time.Millisecond}, WithLogger(log.New(&buf, "", 0)))
	a.AddSystem("panic", func(context.Context, *ecs.World) error { panic("bad system") })

	a.tick(context.Background())
	if !strings.Contains(buf.String(), "tick panicked: bad system") {
		t.Errorf("panic not logged: %q", buf.String())
	}
	// The app is still usable.
	if err := a.Do(func(*ecs.World) error { return nil }); err != nil {
		t.Fatal(err)
	}
}

func TestTickReraisesInvariantPanic(t *testing.T) {
	a := New(Config{}, WithLogger(quietLogger()))
	a.AddSystem("broken", func(context.Context, *ecs.World) error {
		panic(fmt.Errorf("record missing: %w", ecs.ErrInvariant))
	})

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ecs.ErrInvariant) {
			t.Fatalf("expected invariant panic, got %v", r)
		}
		// The world lock was released on the way out.
		if err := a.Do(func(*ecs.World) error { return nil }); err != nil {
			t.Fatal(err)
		}
	}()
	a.tick(context.Background())
}

func TestRunStopsOnCancel(t *testing.T) {
	a := New(Config{TickRate: time.Millisecond}, WithLogger(quietLogger()))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := a.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if a.TickNumber() == 0 {
		t.Error("Run did not tick")
	}
}

func TestLoggingSystem(t *testing.T) {
	var buf bytes.Buffer
	a := New(Config{WorldID: "logged"}, WithLogger(quietLogger()))
	a.AddSystem("noop", LoggingSystem("noop", func(context.Context, *ecs.World) error { return nil }, log.New(&buf, "", 0)))
	_ = a.Update(context.Background())
	if !strings.Contains(buf.String(), "running system noop on world logged") {
		t.Errorf("unexpected log %q", buf.String())
	}
}
