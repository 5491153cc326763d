package model

import "strconv"

// DatastoreConfig mirrors the backend's datastore configuration record.
// Name and path are fixed at creation time; everything else is optional
// and omitted from payloads when unset.
type DatastoreConfig struct {
	Name           string  `json:"name"`
	Path           string  `json:"path"`
	Comment        *string `json:"comment,omitempty"`
	GCSchedule     *string `json:"gc-schedule,omitempty"`
	PruneSchedule  *string `json:"prune-schedule,omitempty"`
	VerifySchedule *string `json:"verify-schedule,omitempty"`
	KeepLast       *uint64 `json:"keep-last,omitempty"`
	KeepHourly     *uint64 `json:"keep-hourly,omitempty"`
	KeepDaily      *uint64 `json:"keep-daily,omitempty"`
	KeepWeekly     *uint64 `json:"keep-weekly,omitempty"`
	KeepMonthly    *uint64 `json:"keep-monthly,omitempty"`
	KeepYearly     *uint64 `json:"keep-yearly,omitempty"`
}

func (d *DatastoreConfig) ID() string {
	return d.Name
}

// Values flattens the record into form values keyed by wire name.
// Unset optionals map to absent keys.
func (d *DatastoreConfig) Values() map[string]string {
	values := map[string]string{
		"name": d.Name,
		"path": d.Path,
	}

	setString := func(key string, v *string) {
		if v != nil {
			values[key] = *v
		}
	}
	setCount := func(key string, v *uint64) {
		if v != nil {
			values[key] = formatCount(*v)
		}
	}

	setString("comment", d.Comment)
	setString("gc-schedule", d.GCSchedule)
	setString("prune-schedule", d.PruneSchedule)
	setString("verify-schedule", d.VerifySchedule)
	setCount("keep-last", d.KeepLast)
	setCount("keep-hourly", d.KeepHourly)
	setCount("keep-daily", d.KeepDaily)
	setCount("keep-weekly", d.KeepWeekly)
	setCount("keep-monthly", d.KeepMonthly)
	setCount("keep-yearly", d.KeepYearly)

	return values
}

func formatCount(v uint64) string {
	return strconv.FormatUint(v, 10)
}
