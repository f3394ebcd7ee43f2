package transform

import (
	"github.com/nextstep-aba/supervision-pipeline/internal/warehouse"
)

// unknownLocation matches the placeholder the warehouse queries emit for
// missing locations.
const unknownLocation = "(Unknown)"

// ReportRow is the final report shape: a daily row enriched with the
// provider's certification-hours aggregate and office location.
type ReportRow struct {
	DailyRow
	CertificationHours    float64
	HasCertificationCodes bool
	WorkLocation          string
}

// MergeReference left-joins certification hours and employee locations onto
// the daily rows by provider contact id. Rows without a match keep zero
// certification hours and an "(Unknown)" work location.
func MergeReference(daily []DailyRow, cert []warehouse.CertificationHours, locs []warehouse.EmployeeLocation) []ReportRow {
	certByProvider := make(map[int64]warehouse.CertificationHours, len(cert))
	for _, c := range cert {
		certByProvider[c.ProviderContactID] = c
	}
	locByProvider := make(map[int64]string, len(locs))
	for _, l := range locs {
		locByProvider[l.ProviderContactID] = l.WorkLocation
	}

	out := make([]ReportRow, 0, len(daily))
	for _, d := range daily {
		r := ReportRow{DailyRow: d, WorkLocation: unknownLocation}
		if c, ok := certByProvider[d.ProviderContactID]; ok {
			r.CertificationHours = c.Hours
			r.HasCertificationCodes = c.HasCertificationCodes
		}
		if loc, ok := locByProvider[d.ProviderContactID]; ok && loc != "" {
			r.WorkLocation = loc
		}
		out = append(out, r)
	}
	return out
}
