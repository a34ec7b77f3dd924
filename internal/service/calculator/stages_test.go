package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectintel/internal/model"
	"projectintel/internal/parser"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

func stageOf(t *testing.T, p *model.Project, code string) model.Stage {
	t.Helper()
	for _, st := range p.Stages {
		if st.Code == code {
			return st
		}
	}
	t.Fatalf("stage %s not found", code)
	return model.Stage{}
}

func TestBuildStages_OverdueUsesExtendedEnd(t *testing.T) {
	t.Parallel()

	tbl := &parser.Table{
		Headers: []string{"PC", "CD1 Planned End date", "CD1 Ext end date"},
		Rows:    []parser.Row{{"P1", "10-Jan-24", "20-Jan-24"}},
	}
	e := NewEngine(fixedClock(time.Date(2024, time.January, 25, 9, 30, 0, 0, time.UTC)))
	projects := e.Build(tbl)
	require.Len(t, projects, 1)

	st := stageOf(t, projects[0], "CD1")
	require.NotNil(t, st.EffectiveEnd)
	assert.Equal(t, day(2024, time.January, 20), *st.EffectiveEnd)
	assert.Equal(t, model.StageAlert{Kind: model.AlertBad, Text: "Overdue +5d"}, st.Alert)
	assert.False(t, st.Completed)
	assert.Equal(t, model.DisciplineArchitecture, st.Discipline)
}

func TestStageAlert_Variants(t *testing.T) {
	t.Parallel()

	today := day(2024, time.January, 25)
	ptr := func(t time.Time) *time.Time { return &t }
	cases := []struct {
		name string
		st   model.Stage
		want model.StageAlert
	}{
		{
			name: "active inside window",
			st:   model.Stage{Start: ptr(day(2024, 1, 20)), EffectiveEnd: ptr(day(2024, 1, 30))},
			want: model.StageAlert{Kind: model.AlertWarn, Text: "Spent 5d • Left 5d"},
		},
		{
			name: "not yet started",
			st:   model.Stage{Start: ptr(day(2024, 1, 28)), EffectiveEnd: ptr(day(2024, 2, 5))},
			want: model.StageAlert{Kind: model.AlertWarn, Text: "In 3d"},
		},
		{
			name: "ends today",
			st:   model.Stage{Start: ptr(day(2024, 1, 1)), EffectiveEnd: ptr(today)},
			want: model.StageAlert{Kind: model.AlertWarn, Text: "Spent 24d • Left 0d"},
		},
		{
			name: "outside window",
			st:   model.Stage{Start: ptr(day(2024, 1, 1)), EffectiveEnd: ptr(day(2024, 3, 1))},
			want: model.StageAlert{Kind: model.AlertNone},
		},
		{
			name: "no dates",
			st:   model.Stage{},
			want: model.StageAlert{Kind: model.AlertNone},
		},
		{
			name: "completed wins over overdue",
			st:   model.Stage{Completed: true, EffectiveEnd: ptr(day(2023, 1, 1))},
			want: model.StageAlert{Kind: model.AlertOK, Text: "Complete"},
		},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StageAlert(tc.st, today, DefaultDueSoonDays), tc.name)
	}
}

func TestBuildStages_MergeAcrossRows(t *testing.T) {
	t.Parallel()

	tbl := &parser.Table{
		Headers: []string{"PC", "SD1 Start date", "SD1 Start", "SD1 End date", "SD1 Deliverables", "SD1 Allocated", "SD1 Consumed", "SD1 Status Progress"},
		Rows: []parser.Row{
			{"P1", "05-Feb-24", "01-Feb-24", "01-Mar-24", "3", "100", "20", "0.4"},
			{"P1", "", "", "15-Mar-24", "5", "80", "no data", "55%"},
			{"P1", "no data", "-", "—", "", "", "30", ""},
		},
	}
	e := NewEngine(fixedClock(day(2024, time.January, 1)))
	p := e.Build(tbl)[0]
	st := stageOf(t, p, "SD1")

	assert.Equal(t, day(2024, time.February, 1), *st.Start)
	assert.Equal(t, day(2024, time.March, 15), *st.PlannedEnd)
	assert.Equal(t, day(2024, time.March, 15), *st.ExtendedEnd)
	assert.Equal(t, 5.0, *st.Deliverables)
	assert.Equal(t, 100.0, *st.AllocatedHours)
	assert.Equal(t, 30.0, *st.ConsumedHours)
	assert.Equal(t, 55.0, *st.ProgressPercent)
	assert.Equal(t, "In progress", st.StatusText)
	assert.Equal(t, model.AlertNone, st.Alert.Kind)
}

func TestBuildStages_BackfillAndCompletion(t *testing.T) {
	t.Parallel()

	tbl := &parser.Table{
		Headers: []string{"PC", "DD3 Ext End Date", "WD80 Status", "MC Status Progress"},
		Rows:    []parser.Row{{"P1", "2024-02-10", "Approved", "100%"}},
	}
	p := NewEngine(fixedClock(day(2024, time.March, 1))).Build(tbl)[0]

	dd3 := stageOf(t, p, "DD3")
	assert.Equal(t, model.DisciplineInterior, dd3.Discipline)
	assert.Equal(t, day(2024, time.February, 10), *dd3.Start)
	assert.Equal(t, day(2024, time.February, 10), *dd3.PlannedEnd)
	assert.Equal(t, "/", dd3.StatusText)
	assert.Equal(t, "Overdue +20d", dd3.Alert.Text)

	wd80 := stageOf(t, p, "WD80")
	assert.Equal(t, model.DisciplineLandscape, wd80.Discipline)
	assert.True(t, wd80.Completed)
	assert.Equal(t, "Approved", wd80.StatusText)
	assert.Equal(t, 100.0, *wd80.ProgressPercent)
	assert.Equal(t, model.AlertOK, wd80.Alert.Kind)

	mc := stageOf(t, p, "MC")
	assert.True(t, mc.Completed)
	assert.Equal(t, "Complete", mc.StatusText)

	co := stageOf(t, p, "CO")
	assert.False(t, co.HasData())
	assert.Equal(t, "/", co.StatusText)
}

func TestIsStatusComplete(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"Complete", "completed", "DONE", "Closed out", "finish", "Client approved", "100% issued"} {
		assert.True(t, IsStatusComplete(s), s)
	}
	for _, s := range []string{"", "in progress", "finishing", "50%"} {
		assert.False(t, IsStatusComplete(s), s)
	}
}

func TestStageStatusText(t *testing.T) {
	t.Parallel()

	f := func(v float64) *float64 { return &v }
	assert.Equal(t, "On hold", StageStatusText(" On hold ", f(10)))
	assert.Equal(t, "/", StageStatusText("", nil))
	assert.Equal(t, "/", StageStatusText("n/a", nil))
	assert.Equal(t, "Complete", StageStatusText("", f(100)))
	assert.Equal(t, "In progress", StageStatusText("", f(1)))
	assert.Equal(t, "Not started", StageStatusText("", f(0)))
}

func TestDaysBetween(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, DaysBetween(day(2024, 1, 20), day(2024, 1, 25)))
	assert.Equal(t, -5, DaysBetween(day(2024, 1, 25), day(2024, 1, 20)))
	assert.Equal(t, 1, DaysBetween(day(2024, 1, 20), day(2024, 1, 20).Add(12*time.Hour)))
	assert.Equal(t, 0, DaysBetween(day(2024, 1, 20), day(2024, 1, 20).Add(-12*time.Hour)))
}
