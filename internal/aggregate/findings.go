package aggregate

import (
	"enterprise-audit-dashboard/internal/fixtures"
)

// FindingsRollup is the findings view rollup. Counts follow sum-of-counts:
// absent summaries contribute zero, labels outside the closed severity and
// status sets are excluded from every tally.
type FindingsRollup struct {
	Total       int            `json:"total"`
	BySeverity  map[string]int `json:"by_severity"`
	ByStatus    map[string]int `json:"by_status"`
	TestingPass Ratio          `json:"testing_pass"`
	ByUnit      []UnitFindings `json:"by_unit"`
}

// UnitFindings is one unit's contribution, used by the findings table.
type UnitFindings struct {
	UnitID   string `json:"unit_id"`
	UnitName string `json:"unit_name"`
	Open     int    `json:"open"`
	Critical int    `json:"critical"`
	High     int    `json:"high"`
	Total    int    `json:"total"`
}

// FindingRow is a single register entry joined with its owning unit.
type FindingRow struct {
	UnitID   string `json:"unit_id"`
	UnitName string `json:"unit_name"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	Severity string `json:"severity"`
	Category string `json:"category"`
	Status   string `json:"status"`
	DueDate  string `json:"due_date"`
	Owner    string `json:"owner"`
}

// BuildFindingsRollup sums severity and status tallies across all units.
func BuildFindingsRollup(units []fixtures.UnitFixture) FindingsRollup {
	out := FindingsRollup{
		BySeverity: map[string]int{},
		ByStatus:   map[string]int{},
	}

	var pass []*float64
	for i := range units {
		u := &units[i]
		if u.AuditFindings == nil {
			continue
		}
		uf := UnitFindings{UnitID: u.ID, UnitName: u.Name}
		if s := u.AuditFindings.Summary; s != nil {
			for severity, count := range s.BySeverity {
				severity = fixtures.NormalizeSeverity(severity)
				if severity == "unknown" {
					continue
				}
				out.BySeverity[severity] += count
				out.Total += count
				uf.Total += count
				switch severity {
				case "critical":
					uf.Critical += count
				case "high":
					uf.High += count
				}
			}
			for status, count := range s.ByStatus {
				status = fixtures.NormalizeStatus(status)
				if status == "unknown" {
					continue
				}
				out.ByStatus[status] += count
				if status == "open" {
					uf.Open += count
				}
			}
		}
		if t := u.AuditFindings.Testing; t != nil && t.Results != nil {
			pass = append(pass, t.Results.Pass)
		}
		out.ByUnit = append(out.ByUnit, uf)
	}
	out.TestingPass = MeanOfRatios(pass)

	return out
}

// BuildFindingRows flattens every unit's findings register, preserving unit
// catalog order then fixture order within a unit. Severity and status labels
// are normalized; rows whose labels fall outside the closed sets keep the
// "unknown" label so the table can still show them.
func BuildFindingRows(units []fixtures.UnitFixture) []FindingRow {
	var rows []FindingRow
	for i := range units {
		u := &units[i]
		if u.AuditFindings == nil {
			continue
		}
		for _, f := range u.AuditFindings.Findings {
			rows = append(rows, FindingRow{
				UnitID:   u.ID,
				UnitName: u.Name,
				ID:       f.ID,
				Title:    f.Title,
				Severity: fixtures.NormalizeSeverity(f.Severity),
				Category: f.Category,
				Status:   fixtures.NormalizeStatus(f.Status),
				DueDate:  f.DueDate,
				Owner:    f.Owner,
			})
		}
	}
	return rows
}
