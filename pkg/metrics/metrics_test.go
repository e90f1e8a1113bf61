package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/seat-allotment/pkg/core/allotment"
	"github.com/jakechorley/seat-allotment/pkg/core/model"
)

func sampleRun() (*allotment.Outcome, *allotment.SeatPool) {
	pool := allotment.NewSeatPool([]model.SeatRow{
		{Group: "B", Type: "G", College: "KKM", Course: "PH", Category: "SM", Seats: 2},
		{Group: "B", Type: "G", College: "KKM", Course: "PH", Category: "EZ", Seats: 1},
	})
	outcome := &allotment.Outcome{
		Stats: allotment.Stats{
			Considered: 3,
			Allotted:   2,
			Unallotted: 1,
			Excluded:   1,
			Skips: map[allotment.SkipReason]int{
				allotment.SkipNoSeat:      2,
				allotment.SkipUndecodable: 1,
			},
		},
	}
	return outcome, pool
}

func gatherValues(t *testing.T, m *RunMetrics) map[string]float64 {
	t.Helper()

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			name := family.GetName()
			for _, label := range metric.GetLabel() {
				name += "/" + label.GetValue()
			}
			switch {
			case metric.GetCounter() != nil:
				values[name] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[name] = metric.GetGauge().GetValue()
			case metric.GetHistogram() != nil:
				values[name] = float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}
	return values
}

func TestRunMetrics_ObserveOutcome(t *testing.T) {
	outcome, pool := sampleRun()
	m := NewRunMetrics()

	m.ObserveOutcome(outcome, pool, 150*time.Millisecond)

	values := gatherValues(t, m)
	assert.Equal(t, 2.0, values["allotment_candidates_total/allotted"])
	assert.Equal(t, 1.0, values["allotment_candidates_total/unallotted"])
	assert.Equal(t, 1.0, values["allotment_candidates_total/excluded"])
	assert.Equal(t, 0.0, values["allotment_candidates_total/duplicate"])
	assert.Equal(t, 2.0, values["allotment_preference_skips_total/no_seat"])
	assert.Equal(t, 1.0, values["allotment_preference_skips_total/undecodable"])
	assert.Equal(t, 2.0, values["allotment_seats_remaining/SM"])
	assert.Equal(t, 1.0, values["allotment_seats_remaining/EZ"])
	assert.Equal(t, 1.0, values["allotment_run_duration_seconds"])
}

func TestRunMetrics_SeparateRegistries(t *testing.T) {
	outcome, pool := sampleRun()
	first := NewRunMetrics()
	second := NewRunMetrics()

	first.ObserveOutcome(outcome, pool, time.Second)

	assert.Equal(t, 2.0, gatherValues(t, first)["allotment_candidates_total/allotted"])
	assert.NotContains(t, gatherValues(t, second), "allotment_candidates_total/allotted")
}

func TestRunMetrics_NilSafe(t *testing.T) {
	var m *RunMetrics
	assert.NotPanics(t, func() {
		m.ObserveOutcome(&allotment.Outcome{}, nil, time.Second)
	})
	assert.NoError(t, m.WriteToTextfile(filepath.Join(t.TempDir(), "unused.prom")))
}

func TestRunMetrics_WriteToTextfile(t *testing.T) {
	outcome, pool := sampleRun()
	m := NewRunMetrics()
	m.ObserveOutcome(outcome, pool, time.Second)

	path := filepath.Join(t.TempDir(), "allotment.prom")
	require.NoError(t, m.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.Contains(content, `allotment_candidates_total{outcome="allotted"} 2`))
	assert.True(t, strings.Contains(content, `allotment_seats_remaining{category="SM"} 2`))
}

func TestRunMetrics_WriteToTextfileBadPath(t *testing.T) {
	m := NewRunMetrics()
	err := m.WriteToTextfile(filepath.Join(t.TempDir(), "missing", "dir", "allotment.prom"))
	assert.Error(t, err)
}
