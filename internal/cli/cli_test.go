package cli

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/turtle/internal/config"
	"github.com/aretw0/turtle/internal/logging"
	"github.com/aretw0/turtle/pkg/adapters/process"
	"github.com/aretw0/turtle/pkg/adapters/script"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const square = `
turtles:
  - name: square
    commands:
      - instant
      - hide
      - fill_color: red
      - fill:
          - repeat:
              times: 4
              do:
                - forward: 100
                - right: 90
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExecute_DrawsPNG(t *testing.T) {
	path := writeFile(t, "square.yaml", square)
	out := filepath.Join(t.TempDir(), "out.png")
	var stdout bytes.Buffer

	err := Execute(context.Background(), RunOptions{
		ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
		Script:     path,
		Out:        out,
		Stdout:     &stdout,
	})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "# square.yaml")
	assert.Contains(t, stdout.String(), ">>> Saved "+out)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())

	// The square spans (0,0)-(100,100) from the canvas center.
	r, g, b, _ := img.At(450, 350).RGBA()
	assert.Greater(t, r, uint32(0xf000))
	assert.Less(t, g, uint32(0x1000))
	assert.Less(t, b, uint32(0x1000))

	r, g, b, _ = img.At(300, 200).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})
}

func TestExecute_DefaultOutputPath(t *testing.T) {
	path := writeFile(t, "square.yaml", square)

	err := Execute(context.Background(), RunOptions{
		ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
		Script:     path,
		Quiet:      true,
	})
	require.NoError(t, err)
	assert.FileExists(t, strings.TrimSuffix(path, ".yaml")+".png")
}

func TestExecute_Errors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	err := Execute(context.Background(), RunOptions{ConfigPath: missing, Script: missing, Quiet: true})
	assert.Error(t, err)

	bad := writeFile(t, "bad.yaml", "turtles:\n  - commands:\n      - fly: 3\n")
	err = Execute(context.Background(), RunOptions{ConfigPath: missing, Script: bad, Quiet: true})
	assert.ErrorIs(t, err, script.ErrUnknownOp)

	cfg := writeFile(t, "turtle.yaml", "fps: 0\n")
	err = Execute(context.Background(), RunOptions{ConfigPath: cfg, Script: bad, Quiet: true})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	path := writeFile(t, "warn.yaml", `
turtles:
  - name: sloppy
    commands:
      - forward: 0
      - begin_fill
      - circle: {radius: 0}
      - right: 90
  - commands:
      - end_fill
`)
	r, err := Validate(path)
	require.NoError(t, err)
	require.Len(t, r.Turtles, 2)

	assert.Equal(t, "sloppy", r.Turtles[0].Name)
	assert.Equal(t, 4, r.Turtles[0].Commands)
	assert.Equal(t, 3, r.Turtles[0].Animated)
	assert.Len(t, r.Turtles[0].Warnings, 3)
	assert.Equal(t, "#1", r.Turtles[1].Name)
	assert.Len(t, r.Turtles[1].Warnings, 1)
	assert.Equal(t, 4, r.Warnings())

	md := r.Markdown()
	assert.Contains(t, md, "| sloppy | 4 | 3 | 3 |")
	assert.Contains(t, md, "fill bracket is never closed")
}

func TestCreateEngine_Metrics(t *testing.T) {
	cfg := config.Default()
	eng, err := createEngine(cfg, logging.NewNop(), engineOptions{stopWhenIdle: true, streams: true})
	require.NoError(t, err)
	defer eng.Close()
	require.NotNil(t, eng.gatherer)
	require.NotNil(t, eng.streams)

	n, err := testutil.GatherAndCount(eng.gatherer, "turtle_inbox_depth")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	cfg.Metrics.Enabled = false
	bare, err := createEngine(cfg, logging.NewNop(), engineOptions{})
	require.NoError(t, err)
	defer bare.Close()
	assert.Nil(t, bare.gatherer)
	assert.Nil(t, bare.streams)
}

func TestServe(t *testing.T) {
	path := writeFile(t, "square.yaml", square)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrs := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, ServeOptions{
			ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
			Addr:       "127.0.0.1:0",
			Scripts:    []string{path},
			Ready:      func(addr string) { addrs <- addr },
		})
	}()

	var base string
	select {
	case addr := <-addrs:
		base = "http://" + addr
	case err := <-done:
		t.Fatalf("serve exited early: %v", err)
	}

	get := func(path string) (int, string) {
		resp, err := http.Get(base + path)
		if err != nil {
			return 0, ""
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(body)
	}

	code, _ := get("/health")
	assert.Equal(t, http.StatusOK, code)

	assert.Eventually(t, func() bool {
		code, body := get("/turtles")
		return code == http.StatusOK && strings.Contains(body, `"status":"done"`)
	}, 5*time.Second, 20*time.Millisecond)

	code, body := get("/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "turtle_frames_total")

	code, _ = get("/frame.png")
	assert.Equal(t, http.StatusOK, code)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8081", baseURL(":8081"))
	assert.Equal(t, "http://10.0.0.1:9", baseURL("10.0.0.1:9"))
}

func TestGenerate(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("generator is an sh script")
	}
	registry := writeFile(t, "generators.yaml", `
generators:
  - name: line
    command: sh
    args: ["-c", "echo 'turtles: [{commands: [instant, {forward: '$TURTLE_ARG_LENGTH'}]}]'"]
`)
	out := filepath.Join(t.TempDir(), "line.png")
	var stdout bytes.Buffer

	err := Generate(context.Background(), GenerateOptions{
		RunOptions: RunOptions{
			ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
			Out:        out,
			Stdout:     &stdout,
		},
		Registry: registry,
		Name:     "line",
		Args:     []string{"length=120"},
	})
	require.NoError(t, err)
	assert.FileExists(t, out)
	assert.Contains(t, stdout.String(), "(120.0, 0.0)")

	err = Generate(context.Background(), GenerateOptions{Registry: registry, Name: "nope"})
	assert.ErrorIs(t, err, process.ErrNotRegistered)
}

func TestParseArgs(t *testing.T) {
	args, err := parseArgs([]string{"n=5", "filled=true", "color=gold"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": 5.0, "filled": true, "color": "gold"}, args)

	_, err = parseArgs([]string{"oops"})
	assert.Error(t, err)
}
