package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectintel/internal/model"
)

func TestSimulator_EditsDoNotLeakIntoProject(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	p := &model.Project{
		Code:       "P1",
		Hours:      model.Hours{Balance: ptrFloat(1000)},
		Deployment: []model.DeploymentEntry{{Name: "A", Percent: 50}, {Name: "B", Percent: 50}},
	}

	var calls []model.RunwayResult
	sim := NewSimulator(p, func() time.Time { return now }, func(r model.RunwayResult) {
		calls = append(calls, r)
	})

	base := sim.Result()
	require.NotNil(t, base.RunwayMonths)
	assert.InDelta(t, 1000/HoursPerMonth, *base.RunwayMonths, 1e-9)

	res := sim.SetPercent("A", 100)
	assert.InDelta(t, 1.5, res.FactorDecimal, 1e-9)
	res = sim.SetPercent("C", 25)
	assert.InDelta(t, 1.75, res.FactorDecimal, 1e-9)
	res = sim.Remove("B")
	assert.InDelta(t, 1.25, res.FactorDecimal, 1e-9)
	res = sim.SetPercent("nobody", 0)
	assert.InDelta(t, 1.25, res.FactorDecimal, 1e-9)

	assert.Equal(t, []model.DeploymentEntry{{Name: "A", Percent: 100}, {Name: "C", Percent: 25}}, sim.Roster())
	assert.Equal(t, []model.DeploymentEntry{{Name: "A", Percent: 50}, {Name: "B", Percent: 50}}, p.Deployment)
	assert.Len(t, calls, 4)

	res = sim.Reset()
	assert.InDelta(t, 1.0, res.FactorDecimal, 1e-9)
	assert.Equal(t, p.Deployment, sim.Roster())
	assert.Len(t, calls, 5)

	sim.Roster()[0].Percent = 999
	assert.InDelta(t, 1.0, sim.Result().FactorDecimal, 1e-9)
}
