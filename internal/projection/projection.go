// Package projection derives the display list from the job collection:
// a pure filter/sort pass over a snapshot, recomputed whenever the
// collection or the filter parameters change. Identical inputs always
// produce an identical ordered list, including tie order.
package projection

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/gearr/gearr-console/internal/model"
)

// Column identifies a sortable column of the job table.
type Column string

const (
	ColumnSource      Column = "source"
	ColumnDestination Column = "destination"
	ColumnStatus      Column = "status"
	ColumnMessage     Column = "message"
	ColumnLastUpdate  Column = "last_update"
)

// Direction is the sort direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Buckets lists the recognized date filter options, newest window
// first. Any other value disables date filtering entirely.
var Buckets = []string{
	"Last 30 minutes",
	"Last 3 hours",
	"Last 6 hours",
	"Last 24 hours",
	"Last 2 days",
	"Last 7 days",
	"Last 30 days",
}

var bucketWindows = map[string]time.Duration{
	"Last 30 minutes": 30 * time.Minute,
	"Last 3 hours":    3 * time.Hour,
	"Last 6 hours":    6 * time.Hour,
	"Last 24 hours":   24 * time.Hour,
	"Last 2 days":     2 * 24 * time.Hour,
	"Last 7 days":     7 * 24 * time.Hour,
	"Last 30 days":    30 * 24 * time.Hour,
}

// Options are the filter and sort parameters of a projection.
type Options struct {
	// Statuses keeps only jobs whose status is a member (OR
	// semantics). Empty means no status filtering.
	Statuses []model.Status
	// DateBucket is a named bucket from Buckets. An empty or
	// unrecognized bucket excludes nothing.
	DateBucket string
	// Name keeps only jobs whose source path contains it,
	// case-insensitively. Jobs without a source path are excluded
	// while the filter is active.
	Name string
	// SortColumn selects the sort key. Empty means no sorting:
	// collection order is kept.
	SortColumn Column
	// SortDirection applies when SortColumn is set.
	SortDirection Direction
	// Now anchors the date buckets. The zero value means the wall
	// clock; tests inject a fixed instant for determinism.
	Now time.Time
}

// String columns compare by locale collation. The collator is built
// once; collate.New is too expensive to run per comparison.
var collator = collate.New(language.Und)

// CutoffFor resolves a named bucket to its cutoff instant relative to
// now. The second return is false for unrecognized buckets, which per
// the original behavior fall back to "exclude nothing".
func CutoffFor(bucket string, now time.Time) (time.Time, bool) {
	window, ok := bucketWindows[bucket]
	if !ok {
		return time.Unix(0, 0), false
	}
	return now.Add(-window), true
}

// Project applies status, date and name filters in that order, then a
// stable sort. The input slice is never mutated; the result is a fresh
// slice of copies.
func Project(jobs []model.Job, opts Options) []model.Job {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	var statusSet map[model.Status]bool
	if len(opts.Statuses) > 0 {
		statusSet = make(map[model.Status]bool, len(opts.Statuses))
		for _, status := range opts.Statuses {
			statusSet[status] = true
		}
	}

	cutoff, dateActive := time.Time{}, false
	if opts.DateBucket != "" {
		cutoff, dateActive = CutoffFor(opts.DateBucket, now)
	}

	nameNeedle := strings.ToLower(opts.Name)

	out := make([]model.Job, 0, len(jobs))
	for _, job := range jobs {
		if statusSet != nil && !statusSet[job.Status] {
			continue
		}
		if dateActive && job.LastUpdate.Time.Before(cutoff) {
			continue
		}
		if nameNeedle != "" {
			if job.SourcePath == "" {
				continue
			}
			if !strings.Contains(strings.ToLower(job.SourcePath), nameNeedle) {
				continue
			}
		}
		out = append(out, job)
	}

	if opts.SortColumn != "" {
		sortJobs(out, opts.SortColumn, opts.SortDirection)
	}
	return out
}

func sortJobs(jobs []model.Job, column Column, direction Direction) {
	sort.SliceStable(jobs, func(i, j int) bool {
		c := compare(jobs[i], jobs[j], column)
		if direction == Descending {
			return c > 0
		}
		return c < 0
	})
}

func compare(a, b model.Job, column Column) int {
	switch column {
	case ColumnLastUpdate:
		switch {
		case a.LastUpdate.Time.Before(b.LastUpdate.Time):
			return -1
		case b.LastUpdate.Time.Before(a.LastUpdate.Time):
			return 1
		default:
			return 0
		}
	case ColumnSource:
		return collator.CompareString(a.SourcePath, b.SourcePath)
	case ColumnDestination:
		return collator.CompareString(a.DestinationPath, b.DestinationPath)
	case ColumnStatus:
		return collator.CompareString(string(a.Status), string(b.Status))
	case ColumnMessage:
		return collator.CompareString(a.StatusMessage, b.StatusMessage)
	default:
		return 0
	}
}
