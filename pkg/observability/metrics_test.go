package observability_test

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/turtle/pkg/domain"
	"github.com/aretw0/turtle/pkg/observability"
	"github.com/aretw0/turtle/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_FedByHooks(t *testing.T) {
	promReg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(promReg)
	require.NoError(t, err)

	reg := registry.New(registry.WithLifecycleHooks(m.Hooks()))
	require.NoError(t, m.WatchInbox(reg.Inbox().Len))

	a := reg.Create()
	b := reg.Create()
	require.NoError(t, reg.Append(a, domain.PlanOf(
		domain.SetSpeed{Speed: 5000},
		domain.BeginFill{},
		domain.Move{Distance: 10},
		domain.Move{},
		domain.EndFill{},
	)))
	require.NoError(t, reg.Remove(b))
	require.NoError(t, reg.Inbox().TrySubmit(b, domain.PlanOf(domain.PenUp{})))
	require.NoError(t, reg.Inbox().TrySubmit(a, domain.PlanOf(domain.PenUp{})))
	assert.Equal(t, 2.0, gaugeValue(t, promReg, "turtle_inbox_depth"))

	reg.Step(time.Second / 60)
	m.ObserveFrame(1, time.Second/60, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Turtles))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Commands.WithLabelValues(domain.KindMove, "instant")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Degenerate))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fills))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Batches.WithLabelValues("applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Batches.WithLabelValues("dropped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Frames))
}

func TestMetrics_DoubleRegistrationFails(t *testing.T) {
	promReg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(promReg)
	require.NoError(t, err)
	_, err = observability.NewMetrics(promReg)
	assert.Error(t, err)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	reg := registry.New(registry.WithLifecycleHooks(observability.LoggingHooks(logger)))
	id := reg.Create()
	require.NoError(t, reg.Append(id, domain.PlanOf(domain.PenUp{})))
	reg.Step(0)

	out := buf.String()
	assert.Contains(t, out, "turtle_created")
	assert.Contains(t, out, "command=pen_up")
	assert.Contains(t, out, "turtle_id="+id.String())
}

// gaugeValue gathers a single unlabeled gauge by name.
func gaugeValue(t *testing.T, g prometheus.Gatherer, name string) float64 {
	t.Helper()
	families, err := g.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}
