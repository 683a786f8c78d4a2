// Package ranking orders and classifies tasks for display.
//
// Every function here is pure: the caller supplies the evaluation instant and
// the calendar date of that instant, in its own location, is "today".
// Malformed dates and timestamps never produce errors; they fall back to a
// fixed position instead.
package ranking

import (
	"cmp"
	"slices"
	"time"

	"github.com/jaekwang-park/todos/internal/model"
)

// Bucket is the display group of a task. Lower buckets are listed first.
type Bucket int

const (
	// BucketUndated holds active tasks without a due date, newest first.
	BucketUndated Bucket = iota + 1
	// BucketUpcoming holds active tasks due today or later, soonest first.
	BucketUpcoming
	// BucketOverdue holds active tasks past their due date, most overdue first.
	BucketOverdue
	// BucketDone holds completed tasks, most recently completed first.
	BucketDone
)

func (b Bucket) String() string {
	switch b {
	case BucketUndated:
		return "undated"
	case BucketUpcoming:
		return "upcoming"
	case BucketOverdue:
		return "overdue"
	case BucketDone:
		return "done"
	default:
		return "unknown"
	}
}

// descending reports whether keys inside b are ordered newest first.
func (b Bucket) descending() bool {
	return b == BucketUndated || b == BucketDone
}

const dateLayout = "2006-01-02"

var (
	earliest = time.Time{}
	latest   = time.Date(9999, time.December, 31, 23, 59, 59, 999999999, time.UTC)
)

// Zone-less layouts are interpreted in the evaluation location.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	dateLayout,
}

// IsExpired reports whether dueDate is a calendar date strictly before the
// date of now. Absent, empty and unparseable values are never expired.
func IsExpired(dueDate *string, now time.Time) bool {
	if dueDate == nil || *dueDate == "" {
		return false
	}
	due, err := time.ParseInLocation(dateLayout, *dueDate, now.Location())
	if err != nil {
		return false
	}
	return due.Before(startOfDay(now))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// parseTimestamp reads an ISO-8601 date or date-time. Bare dates resolve to
// the start of that day.
func parseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func timestampOr(s *string, loc *time.Location, fallback time.Time) time.Time {
	if s == nil {
		return fallback
	}
	if t, ok := parseTimestamp(*s, loc); ok {
		return t
	}
	return fallback
}

// Classify returns the bucket of t and the key that orders it inside the
// bucket. Completion outranks expiry: a completed task is always BucketDone.
func Classify(t model.Task, now time.Time) (Bucket, time.Time) {
	loc := now.Location()

	switch {
	case t.Completed:
		return BucketDone, timestampOr(t.CompletedAt, loc, earliest)
	case IsExpired(t.DueDate, now):
		return BucketOverdue, timestampOr(t.DueDate, loc, latest)
	case t.DueDate != nil && *t.DueDate != "":
		return BucketUpcoming, timestampOr(t.DueDate, loc, latest)
	default:
		return BucketUndated, timestampOr(&t.CreatedAt, loc, earliest)
	}
}

type rankedTask struct {
	task   model.Task
	bucket Bucket
	key    time.Time
}

func compareRanked(a, b rankedTask) int {
	if c := cmp.Compare(a.bucket, b.bucket); c != 0 {
		return c
	}
	if a.bucket.descending() {
		return b.key.Compare(a.key)
	}
	return a.key.Compare(b.key)
}

// Sort returns tasks in display order: bucket first, then the bucket's key.
// Ties keep their input order. The input slice is not modified.
func Sort(tasks []model.Task, now time.Time) []model.Task {
	ranked := make([]rankedTask, len(tasks))
	for i, t := range tasks {
		b, k := Classify(t, now)
		ranked[i] = rankedTask{task: t, bucket: b, key: k}
	}

	slices.SortStableFunc(ranked, compareRanked)

	out := make([]model.Task, len(ranked))
	for i, r := range ranked {
		out[i] = r.task
	}
	return out
}

// Annotate returns every task in display order with its expired flag set.
// The flag reflects the due date alone, so a completed task may be expired.
func Annotate(tasks []model.Task, now time.Time) []model.TaskView {
	sorted := Sort(tasks, now)
	views := make([]model.TaskView, len(sorted))
	for i, t := range sorted {
		views[i] = model.TaskView{Task: t, Expired: IsExpired(t.DueDate, now)}
	}
	return views
}

// ExpiredOnly returns the active tasks whose due date has passed, in display
// order.
func ExpiredOnly(tasks []model.Task, now time.Time) []model.TaskView {
	views := make([]model.TaskView, 0)
	for _, t := range Sort(tasks, now) {
		if t.Completed || !IsExpired(t.DueDate, now) {
			continue
		}
		views = append(views, model.TaskView{Task: t, Expired: true})
	}
	return views
}
