package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNew_RegistersCollectors(t *testing.T) {
	m := New()
	m.Exports.WithLabelValues(OutcomeBuilt).Inc()
	m.Submissions.WithLabelValues(OutcomeTimeout).Add(2)
	m.FilterQueries.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Exports.WithLabelValues(OutcomeBuilt)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Submissions.WithLabelValues(OutcomeTimeout)))

	families, err := m.Registry.Gather()
	assert.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["cuticulome_exports_total"])
	assert.True(t, names["cuticulome_filter_queries_total"])
}
