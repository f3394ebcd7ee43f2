package transform

import (
	"strconv"

	"github.com/nextstep-aba/supervision-pipeline/internal/export"
	"github.com/nextstep-aba/supervision-pipeline/internal/report"
)

// JoinedTable shapes the phase-2 output for intermediate export.
func JoinedTable(rows []JoinedEntry) export.Table {
	t := export.Table{Header: []string{
		"ServiceDate", "ClientContactId", "ClientFullName", "ClientOfficeLocationName",
		"ProviderContactId", "ProviderName", "DirectMinutes",
		"SupervisionProviderContactId", "SupervisionProviderName", "SupervisionCode", "SupervisedMinutes",
	}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.ServiceDate.Format(report.DateLayout),
			strconv.FormatInt(r.ClientContactID, 10),
			r.ClientFullName,
			r.ClientOfficeLocation,
			strconv.FormatInt(r.DirectProviderID, 10),
			r.DirectProviderName,
			f2(r.DirectMinutes),
			strconv.FormatInt(r.SupervisionProviderID, 10),
			r.SupervisionProviderName,
			r.SupervisionCode,
			f2(r.SupervisedMinutes),
		})
	}
	return t
}

// DailyTable shapes the phase-3 output for intermediate export.
func DailyTable(rows []DailyRow) export.Table {
	t := export.Table{Header: []string{
		"ServiceDate", "ClientContactId", "ClientFullName", "ClientOfficeLocationName",
		"ProviderContactId", "ProviderName", "DirectHours", "SupervisedHours", "SupervisionPct",
	}}
	for _, r := range rows {
		t.Rows = append(t.Rows, dailyCells(r))
	}
	return t
}

// ReportTable shapes the final merged dataset for artifact export.
func ReportTable(rows []ReportRow) export.Table {
	t := export.Table{Header: []string{
		"ServiceDate", "ClientContactId", "ClientFullName", "ClientOfficeLocationName",
		"ProviderContactId", "ProviderName", "DirectHours", "SupervisedHours", "SupervisionPct",
		"CertificationHours", "CertificationCodes", "WorkLocation",
	}}
	for _, r := range rows {
		cells := dailyCells(r.DailyRow)
		cells = append(cells,
			f2(r.CertificationHours),
			strconv.FormatBool(r.HasCertificationCodes),
			r.WorkLocation,
		)
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func dailyCells(r DailyRow) []string {
	return []string{
		r.ServiceDate.Format(report.DateLayout),
		strconv.FormatInt(r.ClientContactID, 10),
		r.ClientFullName,
		r.ClientOfficeLocation,
		strconv.FormatInt(r.ProviderContactID, 10),
		r.ProviderName,
		f2(r.DirectHours),
		f2(r.SupervisedHours),
		f2(r.SupervisionPct),
	}
}

func f2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
