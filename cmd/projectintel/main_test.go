package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectintel/internal/model"
	"projectintel/internal/service/dashboard"
	"projectintel/internal/tui"
)

func TestParseOverrides(t *testing.T) {
	t.Parallel()

	got, err := parseOverrides([]string{"Alice=50", " Bob = 12.5% ", "Carol=0"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Alice": 50, "Bob": 12.5, "Carol": 0}, got)

	for _, bad := range []string{"Alice", "=50", "Alice=lots"} {
		_, err := parseOverrides([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestExportName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "projects_dashboard.xlsx", exportName(filepath.Join("data", "projects.csv")))
	assert.Equal(t, "tracker.v2_dashboard.xlsx", exportName("tracker.v2.xlsx"))
	assert.Equal(t, "noext_dashboard.xlsx", exportName("noext"))
}

func TestFilterFlags(t *testing.T) {
	t.Parallel()

	f := filterFlags{teamType: "interior", status: "onhold", query: " tower ", teamName: "Team B"}
	got := f.state().Filter
	assert.Equal(t, dashboard.Filter{
		TeamType: model.DisciplineInterior,
		Status:   dashboard.StatusOnHold,
		Query:    "tower",
		TeamName: "Team B",
	}, got)

	assert.Equal(t, dashboard.NewState().Filter, filterFlags{status: "all"}.state().Filter)
}

func TestLandingTable(t *testing.T) {
	t.Parallel()

	l := dashboard.Landing{
		Total: 2,
		Projects: []model.ProjectCard{
			{Code: "P-1", Name: "Tower", Status: "Active", MissedStageLabels: []string{"CD1", "CD2"}},
		},
	}
	view := landingTable(l).View(tui.DefaultStyles())
	assert.Contains(t, view, "Projects (1 of 2)")
	assert.Contains(t, view, "CD1,CD2")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.csv")
	csv := "PC,Project Name,AH,TCH,DYT\nP-1,Tower,100,40,Alice (50%)\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	configPath = filepath.Join(t.TempDir(), "missing.toml")
	t.Cleanup(func() { configPath = "" })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	a, err := setup()
	require.NoError(t, err)
	ws, err := a.loadFile(ctx, path)
	require.NoError(t, err)
	require.Len(t, ws.ds.Projects, 1)
	assert.Equal(t, "Tower", ws.ds.Projects[0].Name)

	_, err = a.loadFile(ctx, filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to load: ")
}
