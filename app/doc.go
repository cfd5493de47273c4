// Package app drives an ecs.World with a fixed tick loop.
//
// Work reaches the world in three ways:
//   - Enqueue batches command-queuing functions; they run at the start of
//     the next tick in the order they were enqueued.
//   - Systems run every tick in registration order, each followed by a flush.
//   - Do runs a function with exclusive world access immediately.
//
// Every tick is traced as an OpenTelemetry span named "app.update".
//
// # Example Usage
//
//	cfg, _ := app.LoadConfig()
//	a := app.New(cfg)
//	_ = a.AddPlugins(superstate.Plugin[Movement](
//		ecs.TypeOf[Walking](), ecs.TypeOf[Running]()))
//	_ = a.Enqueue(func(c *ecs.Commands) { c.Entity(e).Insert(Running{}) })
//	_ = a.Run(ctx)
package app
