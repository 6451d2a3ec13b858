// Package process runs allow-listed external programs that generate turtle
// scripts. A generator receives its arguments as TURTLE_ARG_<NAME>
// environment variables and prints a YAML or JSON script document on
// stdout.
package process

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/turtle/internal/logging"
	"github.com/aretw0/turtle/pkg/adapters/script"
)

// DefaultGracePeriod is how long a cancelled generator may take to exit
// after the interrupt before it is killed.
const DefaultGracePeriod = 5 * time.Second

var (
	// ErrNotRegistered is returned for generators missing from the allow-list.
	ErrNotRegistered = errors.New("generator not registered")
	// ErrGeneratorFailed is returned when the program exits unsuccessfully.
	ErrGeneratorFailed = errors.New("generator failed")
)

// Runner executes registered generators. Only names on the allow-list can
// run; arguments never reach the command line.
type Runner struct {
	registry map[string]GeneratorConfig
	baseDir  string
	grace    time.Duration
	logger   *slog.Logger
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithRegistry populates the allow-list from a loaded config.
func WithRegistry(gens map[string]GeneratorConfig) RunnerOption {
	return func(r *Runner) {
		for name, g := range gens {
			g.Name = name
			r.registry[name] = g
		}
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// WithGracePeriod bounds how long a cancelled generator may keep running.
func WithGracePeriod(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.grace = d
	}
}

// WithLogger configures the structured logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = l
	}
}

// NewRunner creates a new generator runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: make(map[string]GeneratorConfig),
		grace:    DefaultGracePeriod,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a trusted command to the allow-list.
func (r *Runner) Register(name, command string, args ...string) {
	r.registry[name] = GeneratorConfig{Name: name, Command: command, Args: args}
}

// Names lists the registered generators in order.
func (r *Runner) Names() []string {
	names := make([]string, 0, len(r.registry))
	for n := range r.registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Generate runs a registered generator and parses its output as a script
// document. Cancelling ctx interrupts the process, which is killed after
// the grace period.
func (r *Runner) Generate(ctx context.Context, name string, args map[string]any) (*script.Document, error) {
	gen, ok := r.registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}

	cmd := exec.CommandContext(ctx, gen.Command, gen.Args...)
	cmd.Dir = r.baseDir
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = r.grace
	cmd.Env = append(cmd.Environ(), environment(gen.Environment, args)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	r.logger.Debug("generator finished", "generator", name, "took", time.Since(start), "err", err)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrGeneratorFailed, name, ctxErr)
		}
		return nil, fmt.Errorf("%w: %s: %v: %s", ErrGeneratorFailed, name, err, strings.TrimSpace(stderr.String()))
	}

	doc, err := script.Parse(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("generator %s output: %w", name, err)
	}
	return doc, nil
}

// environment renders static variables and call arguments as KEY=value
// pairs. Scalars are formatted directly; anything else is JSON.
func environment(static map[string]string, args map[string]any) []string {
	env := make([]string, 0, len(static)+len(args))
	for k, v := range static {
		env = append(env, k+"="+v)
	}
	for k, v := range args {
		var val string
		switch v.(type) {
		case string, int, int64, float64, bool:
			val = fmt.Sprintf("%v", v)
		case nil:
		default:
			if data, err := json.Marshal(v); err == nil {
				val = string(data)
			} else {
				val = fmt.Sprintf("%v", v)
			}
		}
		env = append(env, fmt.Sprintf("TURTLE_ARG_%s=%s", strings.ToUpper(k), val))
	}
	return env
}
