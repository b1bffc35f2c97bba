package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Validate_DefaultsToDaily(t *testing.T) {
	f := Filter{StartDate: "2024-01-01"}
	require.NoError(t, f.Validate())
	assert.Equal(t, string(TypeDaily), f.Type)
}

func TestFilter_Validate_RequiresStartDate(t *testing.T) {
	f := Filter{Type: "student"}
	err := f.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_date is required")
}

func TestFilter_Validate_RejectsUnknownType(t *testing.T) {
	f := Filter{Type: "weekly", StartDate: "2024-01-01"}
	err := f.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type")
}

func TestFilter_Validate_EndBeforeStart(t *testing.T) {
	end := "2023-12-31"
	f := Filter{StartDate: "2024-01-01", EndDate: &end}
	err := f.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end_date")
}

func TestType_GroupBy(t *testing.T) {
	g, ok := TypeDaily.GroupBy()
	assert.True(t, ok)
	assert.Equal(t, GroupByDate, g)

	g, ok = TypeDepartment.GroupBy()
	assert.True(t, ok)
	assert.Equal(t, GroupByDepartment, g)

	g, ok = TypeStudent.GroupBy()
	assert.True(t, ok)
	assert.Equal(t, GroupByStudent, g)

	_, ok = Type("monthly").GroupBy()
	assert.False(t, ok)
}

func TestExportRequest_Validate(t *testing.T) {
	ok := ExportRequest{Format: "CSV", ReportData: &Response{ReportType: "daily"}}
	require.NoError(t, ok.Validate())
	assert.Equal(t, "csv", ok.Format)

	missing := ExportRequest{}
	err := missing.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format is required")
	assert.Contains(t, err.Error(), "reportData is required")

	bad := ExportRequest{Format: "pdf", ReportData: &Response{ReportType: "weekly"}}
	err = bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv, json")
	assert.Contains(t, err.Error(), "report_type")
}
