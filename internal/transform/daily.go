package transform

import (
	"math"
	"sort"
	"time"
)

// DailyRow is the per-day, per-client, per-provider supervision summary.
type DailyRow struct {
	ServiceDate          time.Time
	ClientContactID      int64
	ClientFullName       string
	ClientOfficeLocation string
	ProviderContactID    int64
	ProviderName         string
	DirectHours          float64
	SupervisedHours      float64
	SupervisionPct       float64
}

// Daily aggregates joined entries into daily rows keyed by
// (service date, client, direct provider).
func Daily(joined []JoinedEntry) []DailyRow {
	type key struct {
		date     time.Time
		client   int64
		provider int64
	}

	acc := make(map[key]*DailyRow)
	order := make([]key, 0)
	for _, j := range joined {
		k := key{j.ServiceDate, j.ClientContactID, j.DirectProviderID}
		row, ok := acc[k]
		if !ok {
			row = &DailyRow{
				ServiceDate:          j.ServiceDate,
				ClientContactID:      j.ClientContactID,
				ClientFullName:       j.ClientFullName,
				ClientOfficeLocation: j.ClientOfficeLocation,
				ProviderContactID:    j.DirectProviderID,
				ProviderName:         j.DirectProviderName,
			}
			acc[k] = row
			order = append(order, k)
		}
		row.DirectHours += j.DirectMinutes / 60
		row.SupervisedHours += j.SupervisedMinutes / 60
	}

	out := make([]DailyRow, 0, len(order))
	for _, k := range order {
		row := acc[k]
		row.DirectHours = round2(row.DirectHours)
		row.SupervisedHours = round2(row.SupervisedHours)
		if row.DirectHours > 0 {
			row.SupervisionPct = round2(row.SupervisedHours / row.DirectHours * 100)
		}
		out = append(out, *row)
	}

	sort.SliceStable(out, func(a, b int) bool {
		if !out[a].ServiceDate.Equal(out[b].ServiceDate) {
			return out[a].ServiceDate.Before(out[b].ServiceDate)
		}
		if out[a].ClientFullName != out[b].ClientFullName {
			return out[a].ClientFullName < out[b].ClientFullName
		}
		return out[a].ProviderName < out[b].ProviderName
	})
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
