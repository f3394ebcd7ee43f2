package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/nextstep-aba/supervision-pipeline/internal/report"
)

// PGSource pulls the report datasets from a Postgres warehouse.
type PGSource struct {
	db *sql.DB
}

// NewPGSource wraps an existing database handle (used by tests).
func NewPGSource(db *sql.DB) *PGSource {
	return &PGSource{db: db}
}

// Open connects to the warehouse, trying the configured URL and then a small
// set of sslmode fallbacks before giving up. Each candidate is verified with
// a bounded ping.
func Open(ctx context.Context, databaseURL string) (*PGSource, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("warehouse: database URL required")
	}

	var lastErr error
	for _, dsn := range dsnCandidates(databaseURL) {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			lastErr = err
			continue
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			log.Printf("[warehouse] connected to postgres")
			return &PGSource{db: db}, nil
		}
		log.Printf("[warehouse] connection attempt failed: %v", err)
		lastErr = err
		_ = db.Close()
	}
	return nil, fmt.Errorf("warehouse: all connection attempts failed: %w", lastErr)
}

// dsnCandidates returns the URL as given plus sslmode fallbacks when the URL
// does not already pin one.
func dsnCandidates(databaseURL string) []string {
	if strings.Contains(databaseURL, "sslmode=") {
		return []string{databaseURL}
	}
	sep := "?"
	if strings.Contains(databaseURL, "?") {
		sep = "&"
	}
	return []string{
		databaseURL,
		databaseURL + sep + "sslmode=require",
		databaseURL + sep + "sslmode=disable",
	}
}

// Close releases the underlying database handle.
func (s *PGSource) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Pull executes the four extraction queries for the window and returns the
// bundled datasets. Any query failure aborts the pull; retries, if any,
// belong to the driver.
func (s *PGSource) Pull(ctx context.Context, w report.DateWindow) (*Extract, error) {
	direct, err := s.serviceEntries(ctx, directServicesQuery, w)
	if err != nil {
		return nil, fmt.Errorf("pull direct services: %w", err)
	}
	log.Printf("[warehouse] direct services: %d rows", len(direct))

	supervision, err := s.serviceEntries(ctx, supervisionServicesQuery, w)
	if err != nil {
		return nil, fmt.Errorf("pull supervision services: %w", err)
	}
	log.Printf("[warehouse] supervision services: %d rows", len(supervision))

	cert, err := s.certificationHours(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("pull certification hours: %w", err)
	}
	log.Printf("[warehouse] certification hours: %d rows", len(cert))

	locs, err := s.employeeLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("pull employee locations: %w", err)
	}
	log.Printf("[warehouse] employee locations: %d rows", len(locs))

	return &Extract{Direct: direct, Supervision: supervision, Certification: cert, Locations: locs}, nil
}

func (s *PGSource) serviceEntries(ctx context.Context, query string, w report.DateWindow) ([]ServiceEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, windowArgs(w)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ServiceEntry
	for rows.Next() {
		var (
			e         ServiceEntry
			provider  sql.NullInt64
			firstName sql.NullString
			lastName  sql.NullString
		)
		if err := rows.Scan(
			&e.BillingEntryID,
			&e.ClientContactID,
			&e.ClientFullName,
			&e.ClientOfficeLocation,
			&provider,
			&firstName,
			&lastName,
			&e.ServiceCode,
			&e.ServiceStart,
			&e.ServiceEnd,
			&e.ServiceLocation,
		); err != nil {
			return nil, fmt.Errorf("scan service entry: %w", err)
		}
		e.ProviderContactID = provider.Int64
		e.ProviderFirstName = firstName.String
		e.ProviderLastName = lastName.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PGSource) certificationHours(ctx context.Context, w report.DateWindow) ([]CertificationHours, error) {
	rows, err := s.db.QueryContext(ctx, certificationHoursQuery, windowArgs(w)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CertificationHours
	for rows.Next() {
		var c CertificationHours
		if err := rows.Scan(&c.ProviderContactID, &c.HasCertificationCodes, &c.Hours); err != nil {
			return nil, fmt.Errorf("scan certification hours: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PGSource) employeeLocations(ctx context.Context) ([]EmployeeLocation, error) {
	rows, err := s.db.QueryContext(ctx, employeeLocationsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EmployeeLocation
	for rows.Next() {
		var l EmployeeLocation
		if err := rows.Scan(&l.ProviderContactID, &l.FirstName, &l.LastName, &l.WorkLocation); err != nil {
			return nil, fmt.Errorf("scan employee location: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
