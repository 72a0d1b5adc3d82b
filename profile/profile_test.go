package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/asksql/dataset"
)

// ============================================================================
// PROFILE TESTS
// ============================================================================

var jiraCSV = []byte(`Issue Key,Status,Story Points,Time Spent Hours,Created,Resolved,Notes
PROJ-101,In Progress,5,12.5,2026-01-15,,
PROJ-102,To Do,3,0,2026-01-16,,
PROJ-103,Done,8,16,2026-01-10,2026-01-20,
PROJ-104,In Review,2,4,2026-01-18,,
PROJ-105,In Progress,8,20,2026-01-12,,
PROJ-106,Done,5,10,2026-01-08,2026-01-15,
PROJ-107,To Do,13,0,2026-01-20,,
PROJ-108,In Progress,5,8,2026-01-14,,
PROJ-109,Done,8,14,2026-01-05,2026-01-12,
PROJ-110,Done,5,9,2026-01-09,2026-01-18,
PROJ-111,To Do,3,0,2026-01-22,,
PROJ-112,Done,1,2,2026-01-07,2026-01-07,
`)

func buildJira(t *testing.T) *Profile {
	t.Helper()
	ds, err := dataset.ParseCSV("jira", jiraCSV)
	require.NoError(t, err)
	return Build(ds, 0)
}

func column(t *testing.T, p *Profile, name string) Column {
	t.Helper()
	for _, c := range p.Columns {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("column %q not profiled", name)
	return Column{}
}

func TestBuild_Roles(t *testing.T) {
	p := buildJira(t)
	assert.Equal(t, 12, p.Rows)
	require.Len(t, p.Columns, 7)

	tests := []struct {
		column string
		typ    string
		role   string
	}{
		{"Issue Key", "string", RoleIdentifier},
		{"Status", "string", RoleDimension},
		{"Story Points", "integer", RoleMeasure},
		{"Time Spent Hours", "float", RoleMeasure},
		{"Created", "date", RoleDimension},
		{"Resolved", "date", RoleDimension},
		{"Notes", "string", RoleEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			c := column(t, p, tt.column)
			assert.Equal(t, tt.typ, c.Type)
			assert.Equal(t, tt.role, c.Role)
		})
	}
}

func TestBuild_Stats(t *testing.T) {
	p := buildJira(t)

	status := column(t, p, "Status")
	assert.Equal(t, 4, status.DistinctCount)
	assert.Equal(t, 0, status.NullCount)
	assert.Equal(t, CardinalityLow, status.CardinalityHint)
	assert.Equal(t, []string{"Done", "In Progress", "In Review", "To Do"}, status.SampleValues)
	assert.Empty(t, status.Min, "string columns carry no range")

	points := column(t, p, "Story Points")
	assert.Equal(t, "1", points.Min)
	assert.Equal(t, "13", points.Max)

	hours := column(t, p, "Time Spent Hours")
	assert.Equal(t, "0", hours.Min)
	assert.Equal(t, "20", hours.Max)

	created := column(t, p, "Created")
	assert.Equal(t, "2026-01-05", created.Min)
	assert.Equal(t, "2026-01-22", created.Max)

	resolved := column(t, p, "Resolved")
	assert.Equal(t, 7, resolved.NullCount)
	assert.Equal(t, 5, resolved.DistinctCount)

	notes := column(t, p, "Notes")
	assert.Equal(t, 12, notes.NullCount)
	assert.Empty(t, notes.SampleValues)
	assert.Empty(t, notes.CardinalityHint)
}

func TestBuild_SampleLimit(t *testing.T) {
	ds, err := dataset.ParseCSV("jira", jiraCSV)
	require.NoError(t, err)

	p := Build(ds, 2)
	assert.Equal(t, []string{"PROJ-101", "PROJ-102"}, column(t, p, "Issue Key").SampleValues)
}

func TestClassifyRole(t *testing.T) {
	tests := []struct {
		name     string
		typ      dataset.ColumnType
		distinct int
		total    int
		want     string
	}{
		{"coded priority", dataset.TypeInteger, 5, 100, RoleDimension},
		{"integer amounts", dataset.TypeInteger, 80, 100, RoleMeasure},
		{"integer id", dataset.TypeInteger, 100, 100, RoleIdentifier},
		{"small table stays measure", dataset.TypeInteger, 6, 12, RoleMeasure},
		{"float", dataset.TypeFloat, 3, 100, RoleMeasure},
		{"bool", dataset.TypeBool, 2, 100, RoleDimension},
		{"timestamp", dataset.TypeTimestamp, 100, 100, RoleDimension},
		{"unique strings on tiny table", dataset.TypeString, 3, 3, RoleDimension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyRole(tt.typ, tt.distinct, tt.total))
		})
	}
}
