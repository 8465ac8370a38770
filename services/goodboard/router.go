package goodboard

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"goodboard-backend/lib/kvstore"
	"goodboard-backend/lib/scrapers/blackboard"
)

// DefaultDebounce coalesces mutation bursts into a single evaluation; the
// portal re-renders dozens of times while a page settles.
const DefaultDebounce = time.Second

// InitialDelays are the fixed post-load delays after which the page is
// evaluated again, catching content that finishes rendering
// asynchronously after the first pass.
var InitialDelays = []time.Duration{2 * time.Second, 5 * time.Second}

// PageLoader produces a snapshot of the currently loaded page and its
// url. Called once per fired trigger.
type PageLoader func() (*goquery.Document, string, error)

// Router decides which extractor set runs for the page currently loaded
// and feeds the output to the merge engine. Triggers arrive from three
// places: debounced mutation bursts, the fixed initial delays, and
// explicit scrape requests. Overlapping evaluations are not mutually
// excluded; the merge guards are the defense against lost updates.
type Router struct {
	merger   Merger
	store    kvstore.Store
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func NewRouter(merger Merger, store kvstore.Store) *Router {
	return &Router{
		merger:   merger,
		store:    store,
		debounce: DefaultDebounce,
	}
}

// SetDebounce overrides the mutation debounce interval.
func (r *Router) SetDebounce(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debounce = d
}

// Trigger schedules a debounced evaluation. A newer trigger supersedes a
// pending one, so at most one timer is ever outstanding.
func (r *Router) Trigger(ctx context.Context, load PageLoader) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.debounce, func() {
		r.evaluate(ctx, load)
	})
}

// Start schedules the fixed initial-delay evaluations.
func (r *Router) Start(ctx context.Context, load PageLoader) {
	for _, delay := range InitialDelays {
		time.AfterFunc(delay, func() {
			r.evaluate(ctx, load)
		})
	}
}

// Stop cancels a pending debounced evaluation.
func (r *Router) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Router) evaluate(ctx context.Context, load PageLoader) {
	doc, pageUrl, err := load()
	if err != nil {
		slog.WarnContext(ctx, "page load failed, skipping evaluation", "err", err)
		return
	}
	err = r.Route(ctx, doc, pageUrl)
	if err != nil {
		slog.WarnContext(ctx, "page evaluation failed", "err", err)
	}
}

// Route inspects the page and runs the matching extractor set. The legacy
// grade-detail marker is checked regardless of the url: that gradebook
// renders inside an Ultra frame whose url says nothing useful about its
// content.
func (r *Router) Route(ctx context.Context, doc *goquery.Document, pageUrl string) error {
	switch {
	case strings.Contains(pageUrl, "calendar"):
		err := r.routeCalendar(ctx, doc)
		if err != nil {
			return err
		}
	case strings.Contains(pageUrl, "grades"):
		err := r.routeGrades(ctx, doc, pageUrl)
		if err != nil {
			return err
		}
	case strings.Contains(pageUrl, "messages") || strings.Contains(pageUrl, "course"):
		err := r.merger.MergeCourses(ctx, blackboard.ExtractCourses(doc, time.Now()))
		if err != nil {
			return err
		}
	}

	if doc.Find("div.sortable_item_row").Length() > 0 {
		slog.DebugContext(ctx, "detected legacy grade detail page, auto extracting")
		result := blackboard.ExtractGradeDetails(doc, "")
		if !result.Empty() && result.CourseName != "" {
			return r.merger.MergeCourseDetail(ctx, result.Detail())
		}
	}
	return nil
}

func (r *Router) routeCalendar(ctx context.Context, doc *goquery.Document) error {
	// while the calendar shell is still loading there is nothing
	// trustworthy to commit, not even an empty list
	if doc.Find(".fc-view-container, .fc-view").Length() == 0 {
		return nil
	}
	return r.merger.MergeTasks(ctx, blackboard.ExtractCalendar(doc))
}

func (r *Router) routeGrades(ctx context.Context, doc *goquery.Document, pageUrl string) error {
	known, _, err := kvstore.GetJSON[[]blackboard.Course](ctx, r.store, KeyCourses)
	if err != nil {
		return fmt.Errorf("load courses: %w", err)
	}

	err = r.merger.MergeGrades(ctx, blackboard.ExtractGrades(doc, origin(pageUrl), time.Now()))
	if err != nil {
		return err
	}
	return r.merger.MergeAssignments(ctx, blackboard.ExtractAssignments(doc, pageUrl, known))
}

func origin(pageUrl string) string {
	parsed, err := url.Parse(pageUrl)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}
