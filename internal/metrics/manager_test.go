package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_RegistersCollectors(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.CounterCheckIns.Inc()
	m.CounterXPAwarded.Add(21)
	m.CounterPersistFailures.WithLabelValues("swimmer").Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(m.CounterCheckIns), 1e-9)
	assert.InDelta(t, 21, testutil.ToFloat64(m.CounterXPAwarded), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CounterPersistFailures.WithLabelValues("swimmer")), 1e-9)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["aquaflow_test_check_ins"])
	assert.True(t, names["aquaflow_test_xp_awarded"])
}
