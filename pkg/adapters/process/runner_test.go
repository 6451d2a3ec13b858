package process_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/aretw0/turtle/pkg/adapters/process"
	"github.com/aretw0/turtle/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("generators in these tests are sh scripts")
	}
}

func TestRunner_Generate(t *testing.T) {
	requireShell(t)

	r := process.NewRunner()
	r.Register("polygon", "sh", "-c", `
echo "turtles:"
echo "  - name: poly"
echo "    commands:"
echo "      - repeat: {times: $TURTLE_ARG_SIDES, do: [{forward: $TURTLE_ARG_SIZE}, {right: 60}]}"
`)

	t.Run("Passes Arguments via Env Vars", func(t *testing.T) {
		doc, err := r.Generate(context.Background(), "polygon", map[string]any{"sides": 6, "size": 40.5})
		require.NoError(t, err)
		require.Len(t, doc.Turtles, 1)
		assert.Equal(t, "poly", doc.Turtles[0].Name)

		plans, err := doc.Compile()
		require.NoError(t, err)
		cmds := plans[0].Commands()
		require.Len(t, cmds, 12)
		assert.Equal(t, domain.Move{Distance: 40.5}, cmds[0])
	})

	t.Run("Fails For Unregistered Generator", func(t *testing.T) {
		_, err := r.Generate(context.Background(), "hacker_script", nil)
		assert.ErrorIs(t, err, process.ErrNotRegistered)
	})
}

func TestRunner_Failures(t *testing.T) {
	requireShell(t)

	r := process.NewRunner(process.WithGracePeriod(100 * time.Millisecond))
	r.Register("crashy", "sh", "-c", "echo 'Something went terribly wrong' >&2; exit 123")
	r.Register("garbage", "sh", "-c", "echo 'turtles: [{commands: [fly]}]'")
	r.Register("slow", "sh", "-c", "sleep 5")

	_, err := r.Generate(context.Background(), "crashy", nil)
	assert.ErrorIs(t, err, process.ErrGeneratorFailed)
	assert.ErrorContains(t, err, "exit status 123")
	assert.ErrorContains(t, err, "Something went terribly wrong")

	doc, err := r.Generate(context.Background(), "garbage", nil)
	require.NoError(t, err)
	_, err = doc.Compile()
	assert.Error(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err = r.Generate(ctx, "slow", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestLoadGenerators(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "generators.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
generators:
  - name: spiral
    command: python3
    args: [spiral.py]
    env: {SEED: "7"}
  - command: ignored-without-name
`), 0o644))

	gens, err := process.LoadGenerators(path)
	require.NoError(t, err)
	require.Len(t, gens, 1)
	assert.Equal(t, []string{"spiral.py"}, gens["spiral"].Args)
	assert.Equal(t, "7", gens["spiral"].Environment["SEED"])

	r := process.NewRunner(process.WithRegistry(gens))
	assert.Equal(t, []string{"spiral"}, r.Names())

	empty, err := process.LoadGenerators(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Empty(t, empty)
}
