package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/turtle/pkg/adapters/process"
)

// GenerateOptions configures the Generate command. The script comes from a
// registered generator instead of a file.
type GenerateOptions struct {
	RunOptions
	Registry string // generators file; defaults to process.DefaultPath
	Name     string
	Args     []string // key=value pairs
}

// Generate runs a registered generator and draws the script it prints.
func Generate(ctx context.Context, opts GenerateOptions) error {
	if opts.Registry == "" {
		opts.Registry = process.DefaultPath
	}
	gens, err := process.LoadGenerators(opts.Registry)
	if err != nil {
		return err
	}
	args, err := parseArgs(opts.Args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	r := process.NewRunner(
		process.WithRegistry(gens),
		process.WithLogger(createLogger(cfg, opts.Debug, false)),
	)
	doc, err := r.Generate(ctx, opts.Name, args)
	if err != nil {
		return err
	}

	if opts.Out == "" {
		opts.Out = opts.Name + ".png"
	}
	return draw(ctx, opts.RunOptions, doc, opts.Name)
}

// parseArgs turns key=value pairs into generator arguments. Numbers and
// booleans keep their type.
func parseArgs(pairs []string) (map[string]any, error) {
	args := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("argument %q must be key=value", p)
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			args[k] = f
		} else if b, err := strconv.ParseBool(v); err == nil {
			args[k] = b
		} else {
			args[k] = v
		}
	}
	return args, nil
}
