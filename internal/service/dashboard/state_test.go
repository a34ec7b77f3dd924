package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectintel/internal/model"
	memstore "projectintel/internal/service/store"
)

func TestReduce_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	s0 := NewState()
	s1 := Reduce(s0, Event{Kind: EventSetTeamType, Value: "interior"})
	assert.Equal(t, model.Discipline(""), s0.Filter.TeamType)
	assert.Equal(t, model.DisciplineInterior, s1.Filter.TeamType)

	s2 := Reduce(s1, Event{Kind: EventSetTeamName, Value: "  Team B "})
	assert.Equal(t, "Team B", s2.Filter.TeamName)

	// 切换专业时清空团队名
	s3 := Reduce(s2, Event{Kind: EventSetTeamType, Value: "All"})
	assert.Equal(t, model.Discipline(""), s3.Filter.TeamType)
	assert.Empty(t, s3.Filter.TeamName)
	assert.Equal(t, "Team B", s2.Filter.TeamName)
}

func TestReduce_StatusAndQuery(t *testing.T) {
	t.Parallel()

	s := Reduce(NewState(), Event{Kind: EventSetStatus, Value: "OnHold"})
	assert.Equal(t, StatusOnHold, s.Filter.Status)
	s = Reduce(s, Event{Kind: EventSetStatus, Value: "whatever"})
	assert.Equal(t, StatusAll, s.Filter.Status)

	s = Reduce(s, Event{Kind: EventSetQuery, Value: "  tower "})
	assert.Equal(t, "tower", s.Filter.Query)

	s = Reduce(s, Event{Kind: EventResetFilters})
	assert.Equal(t, NewState().Filter, s.Filter)
}

func TestReduce_ProjectAndPan(t *testing.T) {
	t.Parallel()

	s := Reduce(NewState(), Event{Kind: EventSelectProject, Value: "P1"})
	s = Reduce(s, Event{Kind: EventPanTimeline, Days: 30})
	s = Reduce(s, Event{Kind: EventPanTimeline, Days: -10})
	assert.Equal(t, 20, s.TimelineOffset)

	s = Reduce(s, Event{Kind: EventPanTimeline, Days: -100})
	assert.Zero(t, s.TimelineOffset)

	s = Reduce(s, Event{Kind: EventPanTimeline, Days: 7})
	same := Reduce(s, Event{Kind: EventSelectProject, Value: "P1"})
	assert.Equal(t, 7, same.TimelineOffset)

	other := Reduce(s, Event{Kind: EventSelectProject, Value: "P2"})
	assert.Equal(t, "P2", other.ActiveProject)
	assert.Zero(t, other.TimelineOffset)

	closed := Reduce(other, Event{Kind: EventCloseProject})
	assert.Empty(t, closed.ActiveProject)

	assert.Equal(t, other, Reduce(other, Event{Kind: "unknown"}))
}

func TestSession_Dispatch(t *testing.T) {
	t.Parallel()

	mem := memstore.NewMemoryStore()
	sess := NewSession(mem)

	_, err := sess.Dispatch(Event{Kind: EventSelectProject, Value: "P1"})
	assert.ErrorIs(t, err, memstore.ErrNoDataset)
	assert.Empty(t, sess.Landing().Projects)

	mem.Swap(sampleDataset(), nil)
	_, err = sess.Dispatch(Event{Kind: EventSelectProject, Value: "nope"})
	assert.ErrorIs(t, err, memstore.ErrProjectNotFound)

	st, err := sess.Dispatch(Event{Kind: EventSelectProject, Value: "P-2"})
	require.NoError(t, err)
	assert.Equal(t, "P-2", st.ActiveProject)

	p, err := sess.ActiveProject()
	require.NoError(t, err)
	assert.Equal(t, "Garden", p.Name)

	_, err = sess.Dispatch(Event{Kind: EventSetStatus, Value: "active"})
	require.NoError(t, err)
	l := sess.Landing()
	assert.Equal(t, 3, l.Total)
	require.Len(t, l.Projects, 1)
	assert.Equal(t, "P-10", l.Projects[0].Code)

	sess.Reset()
	assert.Equal(t, NewState(), sess.State())
	_, err = sess.ActiveProject()
	assert.ErrorIs(t, err, memstore.ErrProjectNotFound)
}
