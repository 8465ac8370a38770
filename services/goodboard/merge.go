package goodboard

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"dario.cat/mergo"

	"goodboard-backend/lib/kvstore"
	"goodboard-backend/lib/scrapers/blackboard"
)

// Storage keys shared with the dashboard reading the same store.
const (
	KeyTasks       = "goodBoardTasks"
	KeyGrades      = "goodBoardGrades"
	KeyCourses     = "goodBoardCourses"
	KeyAssignments = "goodBoardAssignments"

	KeyLastSyncTasks       = "lastSyncTasks"
	KeyLastSyncGrades      = "lastSyncGrades"
	KeyLastSyncCourses     = "lastSyncCourses"
	KeyLastSyncAssignments = "lastSyncAssignments"
	KeyLastSyncDetails     = "lastSyncDetails"

	detailKeyPrefix = "course_details_"
)

var detailKeyChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// DetailKey returns the storage key holding the detail record of the
// course with the given title.
func DetailKey(title string) string {
	return detailKeyPrefix + detailKeyChars.ReplaceAllString(title, "_")
}

// Merger reconciles freshly extracted record sets with whatever the store
// already holds. The store is shared with other readers and writers, so
// every policy errs on the side of keeping existing data: an empty
// extraction never clears a non-empty key.
type Merger struct {
	store kvstore.Store
	now   func() time.Time
}

func NewMerger(store kvstore.Store) Merger {
	return Merger{store: store, now: time.Now}
}

func (m Merger) stamp(ctx context.Context, key string) error {
	err := kvstore.SetJSON(ctx, m.store, key, m.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("stamp %s: %w", key, err)
	}
	return nil
}

// MergeTasks replaces the stored task list. The raw event count
// distinguishes a calendar with nothing on it from an extraction that
// failed: with events in the DOM and zero extracted tasks the store keeps
// what it has.
func (m Merger) MergeTasks(ctx context.Context, result blackboard.CalendarResult) error {
	if len(result.Tasks) == 0 && result.RawEventCount > 0 {
		slog.WarnContext(ctx,
			"calendar has events but extraction produced none, keeping stored tasks",
			"rawEvents", result.RawEventCount)
		return nil
	}

	tasks := result.Tasks
	if tasks == nil {
		tasks = []blackboard.Task{}
	}
	err := kvstore.SetJSON(ctx, m.store, KeyTasks, tasks)
	if err != nil {
		return fmt.Errorf("store tasks: %w", err)
	}
	return m.stamp(ctx, KeyLastSyncTasks)
}

// MergeGrades replaces the stored global grade summaries. The global
// grades page is authoritative and complete whenever it yields anything,
// so there is no per-record reconciliation, only the non-empty guard.
func (m Merger) MergeGrades(ctx context.Context, grades []blackboard.Grade) error {
	if len(grades) == 0 {
		return nil
	}
	err := kvstore.SetJSON(ctx, m.store, KeyGrades, grades)
	if err != nil {
		return fmt.Errorf("store grades: %w", err)
	}
	return m.stamp(ctx, KeyLastSyncGrades)
}

// MergeAssignments upserts one course's gradebook rows: stored rows for
// that course are replaced, rows belonging to other courses are kept
// untouched. A batch always belongs to a single course.
func (m Merger) MergeAssignments(ctx context.Context, incoming []blackboard.Assignment) error {
	if len(incoming) == 0 {
		return nil
	}

	existing, _, err := kvstore.GetJSON[[]blackboard.Assignment](ctx, m.store, KeyAssignments)
	if err != nil {
		return fmt.Errorf("load assignments: %w", err)
	}

	course := incoming[0].Course
	var merged []blackboard.Assignment
	for _, a := range existing {
		if a.Course == course || a.Course == blackboard.UnknownCourse {
			continue
		}
		merged = append(merged, a)
	}
	merged = append(merged, incoming...)

	// dedupe on (title, course), keeping the last occurrence
	index := map[string]int{}
	var unique []blackboard.Assignment
	for _, a := range merged {
		key := a.Title + "-" + a.Course
		if i, ok := index[key]; ok {
			unique[i] = a
			continue
		}
		index[key] = len(unique)
		unique = append(unique, a)
	}

	err = kvstore.SetJSON(ctx, m.store, KeyAssignments, unique)
	if err != nil {
		return fmt.Errorf("store assignments: %w", err)
	}
	return m.stamp(ctx, KeyLastSyncAssignments)
}

// MergeCourses upserts by the course identity key. On collision only
// missing fields are patched from the new observation, an existing record
// is never overwritten wholesale.
func (m Merger) MergeCourses(ctx context.Context, incoming []blackboard.Course) error {
	if len(incoming) == 0 {
		return nil
	}

	existing, _, err := kvstore.GetJSON[[]blackboard.Course](ctx, m.store, KeyCourses)
	if err != nil {
		return fmt.Errorf("load courses: %w", err)
	}

	merged := existing
	for _, course := range incoming {
		found := -1
		for i, e := range merged {
			if sameCourse(e, course) {
				found = i
				break
			}
		}
		if found == -1 {
			merged = append(merged, course)
			continue
		}
		merged[found] = enrichCourse(merged[found], course)
	}

	err = kvstore.SetJSON(ctx, m.store, KeyCourses, merged)
	if err != nil {
		return fmt.Errorf("store courses: %w", err)
	}
	return m.stamp(ctx, KeyLastSyncCourses)
}

// sameCourse reports whether two records describe the same course,
// checked per identity level: portal-internal id, course code, then
// name. A record observed without its internal id still has to collide
// with the richer one stored earlier, which is why name equality counts
// when either side lacks the stronger ids.
func sameCourse(a, b blackboard.Course) bool {
	if a.InternalId != "" && b.InternalId != "" {
		return a.InternalId == b.InternalId
	}
	if a.Id != "" && b.Id != "" {
		return a.Id == b.Id
	}
	return a.Name != "" && a.Name == b.Name
}

// enrichCourse fills the empty fields of existing from incoming. The
// no-professor sentinel counts as empty so a later page carrying the real
// name can replace it.
func enrichCourse(existing, incoming blackboard.Course) blackboard.Course {
	if existing.Professor == blackboard.NoProfessor {
		existing.Professor = ""
	}
	if incoming.Professor == blackboard.NoProfessor {
		incoming.Professor = ""
	}

	err := mergo.Merge(&existing, incoming)
	if err != nil {
		slog.Warn("course enrichment failed", "course", existing.Name, "err", err)
	}

	if existing.Professor == "" {
		existing.Professor = blackboard.NoProfessor
	}
	return existing
}

// MergeCourseDetail fully replaces the single detail record of the
// course, keyed by its sanitized title.
func (m Merger) MergeCourseDetail(ctx context.Context, detail blackboard.CourseDetail) error {
	if detail.Title == "" || len(detail.Grades) == 0 {
		return nil
	}
	err := kvstore.SetJSON(ctx, m.store, DetailKey(detail.Title), detail)
	if err != nil {
		return fmt.Errorf("store course detail: %w", err)
	}
	return m.stamp(ctx, KeyLastSyncDetails)
}
