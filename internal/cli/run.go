package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/turtle/internal/presentation/tui"
	"github.com/aretw0/turtle/pkg/adapters/script"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	ConfigPath string
	Script     string
	Out        string // PNG path; defaults to the script name with .png
	Realtime   bool   // animate at the configured FPS instead of stepping as fast as possible
	Debug      bool
	Quiet      bool
	Styled     bool // render the summary with glamour
	Stdout     io.Writer
}

// Execute draws a script to a PNG file and prints a summary of the result.
// An interrupted drawing is still saved.
func Execute(ctx context.Context, opts RunOptions) error {
	doc, err := script.Load(opts.Script)
	if err != nil {
		return err
	}
	if opts.Out == "" {
		opts.Out = strings.TrimSuffix(opts.Script, filepath.Ext(opts.Script)) + ".png"
	}
	return draw(ctx, opts, doc, filepath.Base(opts.Script))
}

func draw(ctx context.Context, opts RunOptions, doc *script.Document, title string) error {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	logger := createLogger(cfg, opts.Debug, false)

	plans, err := doc.Compile()
	if err != nil {
		return fmt.Errorf("error compiling %s: %w", title, err)
	}

	eng, err := createEngine(cfg, logger, engineOptions{debug: opts.Debug, stopWhenIdle: true})
	if err != nil {
		return err
	}
	defer eng.Close()

	for _, p := range plans {
		if _, err := eng.world.Spawn(p); err != nil {
			return err
		}
	}
	logger.Info("drawing started", "script", title, "turtles", len(plans), "realtime", opts.Realtime)

	if opts.Realtime {
		err = eng.world.Run(ctx)
	} else {
		_, err = eng.world.Draw(ctx)
	}
	if err := handleExecutionError(err); err != nil {
		return err
	}

	if err := eng.canvas.SavePNG(opts.Out); err != nil {
		return err
	}

	if opts.Quiet {
		return nil
	}
	if ctx.Err() != nil {
		printSystemMessage(opts.Stdout, "Interrupted after %d frames.", eng.world.Snapshot().Frame)
	}
	md, err := tui.NewRenderer(opts.Styled)(tui.Summary(title, eng.world.Snapshot()))
	if err != nil {
		return err
	}
	fmt.Fprint(opts.Stdout, md)
	printSystemMessage(opts.Stdout, "Saved %s", opts.Out)
	return nil
}
