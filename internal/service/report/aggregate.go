package report

import (
	"sort"

	"github.com/clinassign/clinassign-backend-go/internal/domain/attendance"
	"github.com/clinassign/clinassign-backend-go/internal/domain/report"
)

// BuildReport partitions records by the groupBy dimension and counts present
// versus not-present per partition. Groups are sorted by key; records keep input order.
// The input slice is not modified.
func BuildReport(records []attendance.Record, groupBy report.GroupBy) []report.Group {
	index := make(map[string]int)
	groups := make([]report.Group, 0)

	for _, rec := range records {
		key, label := dimension(rec, groupBy)

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, report.Group{Key: key, Label: label, Records: []attendance.Record{}})
		}

		g := &groups[i]
		g.Total++
		if rec.Status.IsPresent() {
			g.Present++
		} else {
			g.Absent++
		}
		g.Records = append(g.Records, rec)
	}

	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}

func dimension(rec attendance.Record, groupBy report.GroupBy) (key, label string) {
	switch groupBy {
	case report.GroupByDepartment:
		return rec.Department, rec.Department
	case report.GroupByStudent:
		return rec.StudentID, rec.StudentName
	default:
		return rec.Date, rec.Date
	}
}
