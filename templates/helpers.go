package templates

import (
	"strconv"

	"github.com/wy414012/proxmox-backup/internal/model"
)

// Helper functions for the console templates

func Comment(ds model.DatastoreConfig) string {
	if ds.Comment == nil {
		return ""
	}
	return *ds.Comment
}

func Schedule(s *string) string {
	if s == nil {
		return "none"
	}
	return *s
}

// RetentionSummary compresses the keep counters of a record into a
// short display string, e.g. "last=3, daily=7".
func RetentionSummary(ds model.DatastoreConfig) string {
	parts := ""
	add := func(label string, v *uint64) {
		if v == nil {
			return
		}
		if parts != "" {
			parts += ", "
		}
		parts += label + "=" + strconv.FormatUint(*v, 10)
	}

	add("last", ds.KeepLast)
	add("hourly", ds.KeepHourly)
	add("daily", ds.KeepDaily)
	add("weekly", ds.KeepWeekly)
	add("monthly", ds.KeepMonthly)
	add("yearly", ds.KeepYearly)

	if parts == "" {
		return "keep all"
	}
	return parts
}

func EditURL(ds model.DatastoreConfig) string {
	return "/datastore/" + ds.ID() + "/edit"
}
