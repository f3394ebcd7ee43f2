// package warehouse pulls the four source datasets for a report run from the
// billing data warehouse.
package warehouse

import (
	"strconv"
	"time"

	"github.com/nextstep-aba/supervision-pipeline/internal/export"
	"github.com/nextstep-aba/supervision-pipeline/internal/report"
)

// ServiceEntry is one billing entry row, shared by the direct-service and
// supervision-service pulls.
type ServiceEntry struct {
	BillingEntryID       int64
	ClientContactID      int64
	ClientFullName       string
	ClientOfficeLocation string
	ProviderContactID    int64
	ProviderFirstName    string
	ProviderLastName     string
	ServiceCode          string
	ServiceStart         time.Time
	ServiceEnd           time.Time
	ServiceLocation      string
}

// ProviderName returns "First Last" for display columns.
func (e ServiceEntry) ProviderName() string {
	if e.ProviderFirstName == "" {
		return e.ProviderLastName
	}
	return e.ProviderFirstName + " " + e.ProviderLastName
}

// CertificationHours is the per-provider certification-supervision aggregate
// for the pulled window.
type CertificationHours struct {
	ProviderContactID     int64
	HasCertificationCodes bool
	Hours                 float64
}

// EmployeeLocation maps a provider to their office location. Reference data,
// not window-scoped.
type EmployeeLocation struct {
	ProviderContactID int64
	FirstName         string
	LastName          string
	WorkLocation      string
}

// Extract bundles the four datasets produced by one extraction phase. It is
// owned exclusively by the phase-chain invocation that pulled it.
type Extract struct {
	Direct        []ServiceEntry
	Supervision   []ServiceEntry
	Certification []CertificationHours
	Locations     []EmployeeLocation
}

// ServiceEntriesTable shapes service entries for tabular export.
func ServiceEntriesTable(entries []ServiceEntry) export.Table {
	t := export.Table{Header: []string{
		"BillingEntryId", "ClientContactId", "ClientFullName", "ClientOfficeLocationName",
		"ProviderContactId", "ProviderFirstName", "ProviderLastName", "ServiceCode",
		"ServiceStartTime", "ServiceEndTime", "ServiceLocationName",
	}}
	for _, e := range entries {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(e.BillingEntryID, 10),
			strconv.FormatInt(e.ClientContactID, 10),
			e.ClientFullName,
			e.ClientOfficeLocation,
			strconv.FormatInt(e.ProviderContactID, 10),
			e.ProviderFirstName,
			e.ProviderLastName,
			e.ServiceCode,
			e.ServiceStart.Format(time.RFC3339),
			e.ServiceEnd.Format(time.RFC3339),
			e.ServiceLocation,
		})
	}
	return t
}

// CertificationTable shapes certification-hours aggregates for tabular export.
func CertificationTable(rows []CertificationHours) export.Table {
	t := export.Table{Header: []string{"ProviderContactId", "CertificationCodes", "CertificationHours"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(r.ProviderContactID, 10),
			strconv.FormatBool(r.HasCertificationCodes),
			strconv.FormatFloat(r.Hours, 'f', 2, 64),
		})
	}
	return t
}

// LocationsTable shapes the employee-location reference for tabular export.
func LocationsTable(rows []EmployeeLocation) export.Table {
	t := export.Table{Header: []string{"ProviderContactId", "ProviderFirstName", "ProviderLastName", "WorkLocation"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(r.ProviderContactID, 10),
			r.FirstName,
			r.LastName,
			r.WorkLocation,
		})
	}
	return t
}

// windowArgs converts a report window to the query arguments every
// window-scoped statement takes.
func windowArgs(w report.DateWindow) []interface{} {
	return []interface{}{w.Start, w.End}
}
