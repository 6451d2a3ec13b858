/*
Package runner implements the frame loop for the turtle engine.

It acts as the bridge between the registry and the outside world: each frame
it drains externally submitted commands, advances every turtle, hands the
resulting meshes to a ports.Surface and publishes an immutable snapshot for
readers on other goroutines.

# Usage

	reg := registry.New(registry.WithTessellator(tess))
	r := runner.NewRunner(reg,
		runner.WithSurface(surface),
		runner.WithFPS(60),
	)

	// Real time, until Ctrl+C:
	ctx, stop := runner.SignalContext(context.Background())
	defer stop()
	_ = r.Run(ctx)

	// Or headless and deterministic:
	frames, err := r.RunUntilIdle(context.Background())
*/
package runner
