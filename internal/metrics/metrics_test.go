package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.OverlaysOpen.Set(1)
	m.Outcomes.WithLabelValues("chosen").Inc()
	m.Drops.WithLabelValues("busy").Add(2)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	require.Contains(t, names, "menutrack_overlay_open")
	require.Contains(t, names, "menutrack_tracking_outcomes_total")
	require.Contains(t, names, "menutrack_runner_dropped_total")
	require.Equal(t, 2.0, testutil.ToFloat64(m.Drops.WithLabelValues("busy")))
}

func TestDiscardInstancesAreIndependent(t *testing.T) {
	a, b := Discard(), Discard()
	a.Workers.Inc()
	require.Equal(t, 1.0, testutil.ToFloat64(a.Workers))
	require.Equal(t, 0.0, testutil.ToFloat64(b.Workers))
}
