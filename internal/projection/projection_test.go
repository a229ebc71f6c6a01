package projection

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gearr/gearr-console/internal/model"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func jobAt(source string, status model.Status, age time.Duration) model.Job {
	return model.Job{
		ID:         uuid.New(),
		SourcePath: source,
		Status:     status,
		LastUpdate: model.NewTime(now.Add(-age)),
	}
}

func sources(jobs []model.Job) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.SourcePath)
	}
	return out
}

func TestProject_NoFiltersReturnsEverything(t *testing.T) {
	jobs := []model.Job{
		jobAt("/media/b.mkv", model.StatusQueued, time.Hour),
		jobAt("/media/a.mkv", model.StatusFailed, time.Minute),
	}

	got := Project(jobs, Options{Now: now})
	if len(got) != len(jobs) {
		t.Fatalf("expected %d jobs, got %d", len(jobs), len(got))
	}
	// Collection order kept when no sort column is chosen.
	if got[0].SourcePath != "/media/b.mkv" {
		t.Errorf("expected collection order preserved, got %v", sources(got))
	}
}

func TestProject_StatusFilterORSemantics(t *testing.T) {
	jobs := []model.Job{
		jobAt("/media/a.mkv", model.StatusQueued, 0),
		jobAt("/media/b.mkv", model.StatusCompleted, 0),
		jobAt("/media/c.mkv", model.StatusFailed, 0),
	}

	got := Project(jobs, Options{
		Statuses: []model.Status{model.StatusCompleted, model.StatusFailed},
		Now:      now,
	})
	want := []string{"/media/b.mkv", "/media/c.mkv"}
	if !reflect.DeepEqual(sources(got), want) {
		t.Errorf("expected %v, got %v", want, sources(got))
	}
}

func TestProject_DateBucket(t *testing.T) {
	jobs := []model.Job{
		jobAt("/media/old.mkv", model.StatusCompleted, time.Hour),
		jobAt("/media/fresh.mkv", model.StatusCompleted, 5*time.Minute),
	}

	got := Project(jobs, Options{DateBucket: "Last 30 minutes", Now: now})
	if len(got) != 1 || got[0].SourcePath != "/media/fresh.mkv" {
		t.Errorf("expected only the fresh job, got %v", sources(got))
	}
}

func TestProject_UnrecognizedBucketExcludesNothing(t *testing.T) {
	jobs := []model.Job{
		jobAt("/media/old.mkv", model.StatusCompleted, 400*24*time.Hour),
		{ID: uuid.New(), SourcePath: "/media/undated.mkv", Status: model.StatusQueued},
	}

	got := Project(jobs, Options{DateBucket: "Last fortnight", Now: now})
	if len(got) != 2 {
		t.Errorf("expected no exclusion for unrecognized bucket, got %v", sources(got))
	}
}

func TestCutoffFor(t *testing.T) {
	tests := []struct {
		bucket string
		window time.Duration
		wantOK bool
	}{
		{"Last 30 minutes", 30 * time.Minute, true},
		{"Last 3 hours", 3 * time.Hour, true},
		{"Last 24 hours", 24 * time.Hour, true},
		{"Last 30 days", 30 * 24 * time.Hour, true},
		{"whenever", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.bucket, func(t *testing.T) {
			cutoff, ok := CutoffFor(tt.bucket, now)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if ok && !cutoff.Equal(now.Add(-tt.window)) {
				t.Errorf("expected cutoff %v, got %v", now.Add(-tt.window), cutoff)
			}
		})
	}
}

func TestProject_NameFilter(t *testing.T) {
	jobs := []model.Job{
		jobAt("/media/Movies/Alien.mkv", model.StatusQueued, 0),
		jobAt("/media/Shows/alien-nation.mkv", model.StatusQueued, 0),
		jobAt("/media/Movies/Heat.mkv", model.StatusQueued, 0),
		{ID: uuid.New(), Status: model.StatusQueued}, // no source path
	}

	got := Project(jobs, Options{Name: "ALIEN", Now: now})
	want := []string{"/media/Movies/Alien.mkv", "/media/Shows/alien-nation.mkv"}
	if !reflect.DeepEqual(sources(got), want) {
		t.Errorf("expected %v, got %v", want, sources(got))
	}
}

func TestProject_SortStable(t *testing.T) {
	a := jobAt("/media/a.mkv", model.StatusQueued, 3*time.Minute)
	b := jobAt("/media/b.mkv", model.StatusQueued, 3*time.Minute) // tie with a
	c := jobAt("/media/c.mkv", model.StatusQueued, time.Minute)

	got := Project([]model.Job{a, b, c}, Options{
		SortColumn: ColumnLastUpdate, Now: now,
	})
	want := []string{"/media/a.mkv", "/media/b.mkv", "/media/c.mkv"}
	if !reflect.DeepEqual(sources(got), want) {
		t.Errorf("expected ties to keep pre-sort order, got %v", sources(got))
	}

	got = Project([]model.Job{a, b, c}, Options{
		SortColumn: ColumnLastUpdate, SortDirection: Descending, Now: now,
	})
	want = []string{"/media/c.mkv", "/media/a.mkv", "/media/b.mkv"}
	if !reflect.DeepEqual(sources(got), want) {
		t.Errorf("expected descending with stable ties, got %v", sources(got))
	}
}

func TestProject_SortStringColumn(t *testing.T) {
	jobs := []model.Job{
		jobAt("/media/b.mkv", model.StatusQueued, 0),
		jobAt("/media/a.mkv", model.StatusQueued, 0),
		jobAt("/media/c.mkv", model.StatusQueued, 0),
	}

	got := Project(jobs, Options{SortColumn: ColumnSource, Now: now})
	want := []string{"/media/a.mkv", "/media/b.mkv", "/media/c.mkv"}
	if !reflect.DeepEqual(sources(got), want) {
		t.Errorf("expected %v, got %v", want, sources(got))
	}
}

func TestProject_Deterministic(t *testing.T) {
	jobs := []model.Job{
		jobAt("/media/b.mkv", model.StatusQueued, time.Minute),
		jobAt("/media/a.mkv", model.StatusCompleted, time.Minute),
		jobAt("/media/c.mkv", model.StatusFailed, 2*time.Minute),
	}
	opts := Options{SortColumn: ColumnLastUpdate, Now: now}

	first := Project(jobs, opts)
	second := Project(jobs, opts)
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical output for identical inputs")
	}
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	jobs := []model.Job{
		jobAt("/media/b.mkv", model.StatusQueued, 0),
		jobAt("/media/a.mkv", model.StatusQueued, 0),
	}
	before := append([]model.Job(nil), jobs...)

	Project(jobs, Options{SortColumn: ColumnSource, Now: now})

	if !reflect.DeepEqual(jobs, before) {
		t.Error("expected input slice untouched")
	}
}

func TestProject_EmptyFiltersStillSort(t *testing.T) {
	// status={} AND date=none AND name="" returns the full collection,
	// sorted.
	jobs := []model.Job{
		jobAt("/media/b.mkv", model.StatusQueued, 0),
		jobAt("/media/a.mkv", model.StatusCompleted, 0),
	}

	got := Project(jobs, Options{SortColumn: ColumnSource, Now: now})
	if len(got) != 2 {
		t.Fatalf("expected full collection, got %d", len(got))
	}
	if got[0].SourcePath != "/media/a.mkv" {
		t.Errorf("expected sorted output, got %v", sources(got))
	}
}
