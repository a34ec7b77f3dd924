package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectintel/internal/model"
)

func TestFieldMapper_FirstCandidateWins(t *testing.T) {
	t.Parallel()

	headers := []string{"Code", "Project Code", "Name", "Allotted", "AH", "Deployement"}
	b := NewFieldMapper(nil).Map(headers)
	row := Row{"X-1", "P-100", "Tower", "10", "200", "Alice (50%)"}

	assert.Equal(t, "P-100", b.Text(row, FieldCode))
	assert.Equal(t, "200", b.Text(row, FieldAllotted))
	assert.Equal(t, "Alice (50%)", b.Text(row, FieldDeployment))
	assert.False(t, b.Has(FieldBalance))
	assert.Equal(t, "", b.Value(row, FieldBalance))
}

func TestFieldMapper_StageTemplatesCollectAllColumns(t *testing.T) {
	t.Parallel()

	headers := []string{"PC", "CD1 Start date", "CD1 Start", "cd1_end_date", "CD1 Ext End Date", "CD1 Status Progress", "WD100 Deliverables"}
	b := NewFieldMapper(nil).Map(headers)
	row := Row{"P1", "01-Mar-21", "05-Mar-21", "10-Mar-21", "20-Mar-21", "50%", "3"}

	assert.Equal(t, []any{"01-Mar-21", "05-Mar-21"}, b.StageValues(row, "CD1", StageStart))
	assert.Equal(t, []any{"10-Mar-21"}, b.StageValues(row, "CD1", StagePlannedEnd))
	assert.Equal(t, []any{"20-Mar-21"}, b.StageValues(row, "CD1", StageExtEnd))
	assert.Equal(t, []any{"50%"}, b.StageValues(row, "CD1", StageProgress))
	assert.Equal(t, []any{"3"}, b.StageValues(row, "WD100", StageDeliverables))
	assert.Empty(t, b.StageValues(row, "CD2", StageStart))
	assert.Equal(t, 6, b.StageColumnCount())
}

func TestFieldMapper_StageFallbackDiscovery(t *testing.T) {
	t.Parallel()

	headers := []string{"PC", "SD2 kick-off begin", "SD2 finish (target)", "SD2 extension finish", "SD2 hrs allotted", "WD20 completion pp"}
	b := NewFieldMapper(nil).Map(headers)
	row := Row{"P1", "a", "b", "c", "d", "e"}

	assert.Equal(t, []any{"a"}, b.StageValues(row, "SD2", StageStart))
	assert.Equal(t, []any{"b"}, b.StageValues(row, "SD2", StagePlannedEnd))
	assert.Equal(t, []any{"c"}, b.StageValues(row, "SD2", StageExtEnd))
	assert.Equal(t, []any{"d"}, b.StageValues(row, "SD2", StageAllocated))
	assert.Equal(t, []any{"e"}, b.StageValues(row, "WD20", StageProgress))
	assert.Empty(t, b.StageValues(row, "WD100", StageProgress))
}

func TestFieldMapper_TeamColumns(t *testing.T) {
	t.Parallel()

	b := NewFieldMapper(nil).Map([]string{"PC", "Arch", "Interior Team", "Landacpe"})
	col, ok := b.TeamColumn(model.DisciplineArchitecture)
	require.True(t, ok)
	assert.Equal(t, 1, col)
	col, ok = b.TeamColumn(model.DisciplineInterior)
	require.True(t, ok)
	assert.Equal(t, 2, col)
	col, ok = b.TeamColumn(model.DisciplineLandscape)
	require.True(t, ok)
	assert.Equal(t, 3, col)

	b = NewFieldMapper(nil).Map([]string{"PC", "Architecture Lead"})
	_, ok = b.TeamColumn(model.DisciplineInterior)
	assert.False(t, ok)
}

func TestLoadSchema_OverridesOnlyListedFields(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "synonyms.yaml")
	content := `fields:
  code: ["Job No"]
stage_fields:
  start: ["{stage} kickoff"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := LoadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Job No"}, s.Fields[FieldCode])
	assert.Equal(t, DefaultSchema().Fields[FieldName], s.Fields[FieldName])
	assert.Equal(t, []string{"MC kickoff"}, s.StageCandidates("MC", StageStart))

	b := NewFieldMapper(s).Map([]string{"job_no", "MC Kickoff"})
	row := Row{"J-9", "01-Mar-21"}
	assert.Equal(t, "J-9", b.Text(row, FieldCode))
	assert.Equal(t, []any{"01-Mar-21"}, b.StageValues(row, "MC", StageStart))
}

func TestLoadSchema_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadSchema(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	s, err := LoadSchema("")
	require.NoError(t, err)
	assert.NotEmpty(t, s.Fields[FieldCode])
}
