package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectintel/internal/model"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func timelineProject() *model.Project {
	pp := 35.0
	stages := make([]model.Stage, len(model.StageCodes))
	for i, code := range model.StageCodes {
		stages[i] = model.Stage{Code: code, Discipline: model.DisciplineForStage(code), StatusText: "/"}
	}
	stages[0].Start, stages[0].PlannedEnd = day(2024, time.January, 1), day(2024, time.January, 31)
	stages[0].EffectiveEnd = stages[0].PlannedEnd
	return &model.Project{Code: "P-10", Name: "Harbour Tower", ProgressPercent: &pp, Stages: stages}
}

func TestBuildTimeline_Window(t *testing.T) {
	t.Parallel()

	today := *day(2024, time.February, 10)
	tl := BuildTimeline(timelineProject(), nil, today, 50)

	assert.Equal(t, "P-10 — Harbour Tower", tl.Title)
	require.Len(t, tl.Stages, 1)
	assert.Equal(t, "CD1", tl.Stages[0].Code)
	assert.Empty(t, tl.Message)

	require.NotNil(t, tl.Window)
	assert.Equal(t, *day(2024, time.January, 1), *tl.RangeStart)
	assert.Equal(t, today, *tl.RangeEnd)
	assert.Zero(t, tl.Window.Offset, "span shorter than the window cannot pan")
	assert.Equal(t, *day(2024, time.January, 1), tl.Window.Start)
	assert.Equal(t, *day(2024, time.December, 30), tl.Window.End)

	require.Len(t, tl.Months, 12)
	assert.Equal(t, MonthSegment{Label: "Jan 2024", Quarter: "Q4", Days: 31}, tl.Months[0])
	assert.Equal(t, MonthSegment{Label: "Dec 2024", Quarter: "Q3", Days: 29}, tl.Months[11])
	assert.Equal(t, []QuarterSegment{
		{Quarter: "Q4", Days: 91},
		{Quarter: "Q1", Days: 91},
		{Quarter: "Q2", Days: 92},
		{Quarter: "Q3", Days: 90},
	}, tl.Quarters)
}

func TestBuildTimeline_RunwayExtendsRangeAndClampsOffset(t *testing.T) {
	t.Parallel()

	today := *day(2024, time.February, 10)
	runway := day(2026, time.January, 1)
	tl := BuildTimeline(timelineProject(), runway, today, 1000)

	require.NotNil(t, tl.Window)
	assert.Equal(t, *runway, *tl.RangeEnd)
	assert.Equal(t, 731-WindowDays, tl.Window.MaxOffset)
	assert.Equal(t, tl.Window.MaxOffset, tl.Window.Offset)
	assert.Equal(t, *runway, tl.Window.End)

	tl = BuildTimeline(timelineProject(), runway, today, -5)
	assert.Zero(t, tl.Window.Offset)
}

func TestBuildTimeline_NoStageData(t *testing.T) {
	t.Parallel()

	p := timelineProject()
	p.Stages[0] = model.Stage{Code: "CD1", StatusText: "/"}
	tl := BuildTimeline(p, nil, *day(2024, time.February, 10), 0)
	assert.Equal(t, NoStageData, tl.Message)
	assert.Nil(t, tl.Window)
	assert.Empty(t, tl.Stages)
	assert.Empty(t, tl.Months)
}

func TestMonthSegments_PartialMonths(t *testing.T) {
	t.Parallel()

	segs := MonthSegments(*day(2024, time.January, 15), *day(2024, time.March, 10))
	assert.Equal(t, []MonthSegment{
		{Label: "Jan 2024", Quarter: "Q4", Days: 17},
		{Label: "Feb 2024", Quarter: "Q4", Days: 29},
		{Label: "Mar 2024", Quarter: "Q4", Days: 9},
	}, segs)
	assert.Equal(t, []QuarterSegment{{Quarter: "Q4", Days: 55}}, QuarterSegments(segs))

	assert.Empty(t, MonthSegments(*day(2024, time.March, 1), *day(2024, time.March, 1)))
}

func TestFiscalQuarter(t *testing.T) {
	t.Parallel()

	want := map[time.Month]string{
		time.January: "Q4", time.March: "Q4", time.April: "Q1", time.June: "Q1",
		time.July: "Q2", time.September: "Q2", time.October: "Q3", time.December: "Q3",
	}
	for m, q := range want {
		assert.Equal(t, q, FiscalQuarter(m), m.String())
	}
}
