package warehouse

// Query text for the four warehouse pulls. All window-scoped statements take
// ($1 = window start, $2 = window end) against the half-open interval
// [start, end) on the service end time.

// directServicesQuery selects technician-delivered direct service entries.
// Providers holding a BCBA position are excluded from the direct side.
const directServicesQuery = `
SELECT DISTINCT
    b.billing_entry_id,
    b.client_contact_id,
    c.client_full_name,
    c.client_office_location_name,
    b.provider_contact_id,
    p.first_name  AS provider_first_name,
    p.last_name   AS provider_last_name,
    sc.service_code,
    b.service_start_time,
    b.service_end_time,
    COALESCE(b.service_location_name, '(Unknown)') AS service_location_name
FROM billing_entries_current b
JOIN service_codes sc ON sc.service_code_id = b.service_code_id
JOIN clients c        ON c.client_id = b.client_contact_id
LEFT JOIN contacts p  ON p.contact_id = b.provider_contact_id
LEFT JOIN employees e ON e.employee_first_name = p.first_name
                     AND e.employee_last_name  = p.last_name
WHERE b.service_end_time >= $1
  AND b.service_end_time <  $2
  AND sc.service_code IN ('97153', 'PDS | Technicians')
  AND (e.employment_position NOT IN ('BCBA', 'Board Certified Behavior Analyst')
       OR e.employment_position IS NULL)
ORDER BY c.client_full_name, b.service_start_time
`

// supervisionServicesQuery selects supervision service entries.
const supervisionServicesQuery = `
SELECT
    b.billing_entry_id,
    b.client_contact_id,
    c.client_full_name,
    c.client_office_location_name,
    b.provider_contact_id,
    p.first_name  AS provider_first_name,
    p.last_name   AS provider_last_name,
    sc.service_code,
    b.service_start_time,
    b.service_end_time,
    COALESCE(b.service_location_name, '(Unknown)') AS service_location_name
FROM billing_entries_current b
JOIN service_codes sc ON sc.service_code_id = b.service_code_id
JOIN clients c        ON c.client_id = b.client_contact_id
LEFT JOIN contacts p  ON p.contact_id = b.provider_contact_id
WHERE b.service_end_time >= $1
  AND b.service_end_time <  $2
  AND sc.service_code IN (
    '97155', 'Non-billable: PM Admin', 'PDS | BCBA', '0362T', '0368T', '0373T',
    'H0032', 'H0032 Program Management Student BCBS PREMERA', 'H2019', 'H2033'
  )
ORDER BY c.client_full_name, b.service_start_time
`

// certificationHoursQuery aggregates certification-supervision minutes into
// decimal hours per provider for the window.
const certificationHoursQuery = `
SELECT
    b.provider_contact_id,
    TRUE AS certification_codes,
    ROUND(SUM(EXTRACT(EPOCH FROM (b.service_end_time - b.service_start_time)) / 60.0) / 60.0, 2) AS certification_hours
FROM billing_entries_current b
JOIN service_codes sc ON sc.service_code_id = b.service_code_id
WHERE b.service_end_time >= $1
  AND b.service_end_time <  $2
  AND b.provider_contact_id IS NOT NULL
  AND (sc.service_code LIKE '%BACB%Supervision%Meeting%client%'
    OR sc.service_code LIKE '%VA%Medicaid%Supervision%client%')
GROUP BY b.provider_contact_id
ORDER BY b.provider_contact_id
`

// employeeLocationsQuery maps provider names to office locations. Reference
// data: no window parameters.
const employeeLocationsQuery = `
SELECT DISTINCT
    c.contact_id AS provider_contact_id,
    c.first_name,
    c.last_name,
    p.provider_office_location_name AS work_location
FROM contacts c
JOIN providers p ON p.provider_first_name = c.first_name
             AND p.provider_last_name  = c.last_name
ORDER BY c.last_name, c.first_name
`
