// package transform reshapes the extracted datasets into the report form:
// join direct and supervision entries, aggregate to daily rows, and merge in
// the certification and location reference data.
package transform

import (
	"sort"
	"time"

	"github.com/nextstep-aba/supervision-pipeline/internal/warehouse"
)

// JoinedEntry is one direct service entry annotated with the supervision it
// received. There is exactly one joined row per direct entry; overlap from
// multiple supervisors is summed and the supervisor with the largest overlap
// is named.
type JoinedEntry struct {
	ServiceDate             time.Time
	ClientContactID         int64
	ClientFullName          string
	ClientOfficeLocation    string
	DirectProviderID        int64
	DirectProviderName      string
	DirectMinutes           float64
	SupervisionProviderID   int64
	SupervisionProviderName string
	SupervisionCode         string
	SupervisedMinutes       float64
}

// JoinSupervision matches supervision entries to direct entries by client and
// overlapping service time. Either side may be empty; the result then carries
// the direct entries unsupervised, or nothing at all.
func JoinSupervision(direct, supervision []warehouse.ServiceEntry) []JoinedEntry {
	byClient := make(map[int64][]warehouse.ServiceEntry, len(supervision))
	for _, s := range supervision {
		byClient[s.ClientContactID] = append(byClient[s.ClientContactID], s)
	}

	out := make([]JoinedEntry, 0, len(direct))
	for _, d := range direct {
		j := JoinedEntry{
			ServiceDate:          day(d.ServiceStart),
			ClientContactID:      d.ClientContactID,
			ClientFullName:       d.ClientFullName,
			ClientOfficeLocation: d.ClientOfficeLocation,
			DirectProviderID:     d.ProviderContactID,
			DirectProviderName:   d.ProviderName(),
			DirectMinutes:        d.ServiceEnd.Sub(d.ServiceStart).Minutes(),
		}

		var best float64
		for _, s := range byClient[d.ClientContactID] {
			ov := overlapMinutes(d, s)
			if ov <= 0 {
				continue
			}
			j.SupervisedMinutes += ov
			if ov > best {
				best = ov
				j.SupervisionProviderID = s.ProviderContactID
				j.SupervisionProviderName = s.ProviderName()
				j.SupervisionCode = s.ServiceCode
			}
		}
		out = append(out, j)
	}

	sort.SliceStable(out, func(a, b int) bool {
		if !out[a].ServiceDate.Equal(out[b].ServiceDate) {
			return out[a].ServiceDate.Before(out[b].ServiceDate)
		}
		if out[a].ClientFullName != out[b].ClientFullName {
			return out[a].ClientFullName < out[b].ClientFullName
		}
		return out[a].DirectProviderName < out[b].DirectProviderName
	})
	return out
}

// overlapMinutes returns the overlap of the two entries' service intervals.
func overlapMinutes(d, s warehouse.ServiceEntry) float64 {
	start := d.ServiceStart
	if s.ServiceStart.After(start) {
		start = s.ServiceStart
	}
	end := d.ServiceEnd
	if s.ServiceEnd.Before(end) {
		end = s.ServiceEnd
	}
	if !start.Before(end) {
		return 0
	}
	return end.Sub(start).Minutes()
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
