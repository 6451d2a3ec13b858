/*
Package turtle is a command-queue execution and animation engine for turtle
graphics.

A caller describes a sequence of pen, movement and fill operations and has
them replayed instantly or as a smooth frame-by-frame animation, across any
number of independently animated turtles. Pen-up/pen-down contours inside a
fill bracket are tracked so that shapes with holes come out right.

# Concept

Commands are plain values collected into a Plan, usually with the builder in
pkg/dsl. A World owns a registry of turtles; each turtle replays its queue
through a tween controller, one frame at a time. Work submitted from other
goroutines goes through the registry's bounded Inbox and is applied at the
start of the next frame.

Tessellation and presentation are collaborators behind the interfaces in
pkg/ports. Reference implementations live under pkg/adapters: a gg based
rasterizer, an in-memory recorder, YAML/JSON scripts, generator processes,
and HTTP, MCP and Redis producers. The turtle command (cmd/turtle) wires them
together: run, generate, validate, serve and mcp.

# Usage

	w := turtle.New()
	plan := dsl.New().
		Speed(300).
		FillColorName("gold").
		Fill(func(b *dsl.Builder) {
			b.Repeat(5, func(_ int, b *dsl.Builder) {
				b.Forward(200).Right(144)
			})
		}).
		MustBuild()

	if _, err := w.Spawn(plan); err != nil {
		log.Fatal(err)
	}
	frames, err := w.Draw(context.Background())
*/
package turtle
