package window

import (
	"testing"

	"github.com/google/uuid"

	"github.com/gearr/gearr-console/internal/model"
)

func testJobs(n int) []model.Job {
	jobs := make([]model.Job, n)
	for i := range jobs {
		jobs[i] = model.Job{ID: uuid.New(), Status: model.StatusQueued}
	}
	return jobs
}

func TestView_Range(t *testing.T) {
	view := View{RowHeight: 20, ViewportHeight: 100, Overscan: 2}

	tests := []struct {
		name      string
		offset    int
		total     int
		wantStart int
		wantEnd   int
	}{
		{"top of list", 0, 100, 0, 7},
		{"mid list", 200, 100, 8, 17},
		{"overscan clamped at start", 20, 100, 0, 8},
		{"end of list", 1900, 100, 93, 100},
		{"list shorter than viewport", 0, 3, 0, 3},
		{"empty list", 0, 0, 0, 0},
		{"offset past content", 5000, 10, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := view.Range(tt.offset, tt.total)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("expected [%d, %d), got [%d, %d)", tt.wantStart, tt.wantEnd, start, end)
			}
		})
	}
}

func TestView_RangeZeroRowHeight(t *testing.T) {
	view := View{RowHeight: 0, ViewportHeight: 100}
	start, end := view.Range(50, 10)
	if start != 0 || end != 10 {
		t.Errorf("expected full range for zero row height, got [%d, %d)", start, end)
	}
}

func TestView_NearBottom(t *testing.T) {
	view := View{RowHeight: 20, ViewportHeight: 100}
	// 100 rows * 20 = 2000 content height.

	tests := []struct {
		name   string
		offset int
		want   bool
	}{
		{"at top", 0, false},
		{"just outside threshold", 1799, false},
		{"at threshold", 1800, true},
		{"at bottom", 1900, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := view.NearBottom(tt.offset, 100); got != tt.want {
				t.Errorf("expected NearBottom(%d)=%v, got %v", tt.offset, tt.want, got)
			}
		})
	}
}

func TestView_NearBottomShortList(t *testing.T) {
	view := View{RowHeight: 20, ViewportHeight: 100}
	// 3 rows fit entirely in the viewport: always near bottom.
	if !view.NearBottom(0, 3) {
		t.Error("expected short list to always be near bottom")
	}
}

func TestRenderer_VisibleRecyclesSlots(t *testing.T) {
	r := NewRenderer(View{RowHeight: 20, ViewportHeight: 100, Overscan: 2})
	jobs := testJobs(50)

	first := r.Visible(jobs)
	if len(first) == 0 {
		t.Fatal("expected visible slots")
	}
	if first[0].ListIndex != 0 {
		t.Errorf("expected first slot at index 0, got %d", first[0].ListIndex)
	}

	r.ScrollTo(400, len(jobs))
	second := r.Visible(jobs)
	if second[0].ListIndex != 18 {
		t.Errorf("expected window to move with scroll, got start %d", second[0].ListIndex)
	}
	if cap(second) != cap(first) {
		t.Errorf("expected slot arena reuse, caps %d vs %d", cap(first), cap(second))
	}
}

func TestRenderer_ScrollClamped(t *testing.T) {
	r := NewRenderer(View{RowHeight: 20, ViewportHeight: 100})
	jobs := testJobs(10) // content 200, max scroll 100

	r.ScrollTo(-50, len(jobs))
	if r.ScrollOffset() != 0 {
		t.Errorf("expected clamp at 0, got %d", r.ScrollOffset())
	}
	r.ScrollBy(5000, len(jobs))
	if r.ScrollOffset() != 100 {
		t.Errorf("expected clamp at max scroll 100, got %d", r.ScrollOffset())
	}
}

func TestRenderer_SelectionSurvivesReorder(t *testing.T) {
	r := NewRenderer(View{RowHeight: 20, ViewportHeight: 100})
	jobs := testJobs(3)
	target := jobs[2]

	r.Select(target.ID)

	// Reorder the list: selection must follow the id, not the index.
	reordered := []model.Job{jobs[2], jobs[0], jobs[1]}
	got, ok := r.SelectedJob(reordered)
	if !ok {
		t.Fatal("expected selected job found")
	}
	if got.ID != target.ID {
		t.Errorf("expected selection to follow id %s, got %s", target.ID, got.ID)
	}

	slots := r.Visible(reordered)
	if !slots[0].Selected {
		t.Error("expected slot 0 marked selected after reorder")
	}
}

func TestRenderer_SelectionClearedAndGone(t *testing.T) {
	r := NewRenderer(View{RowHeight: 20, ViewportHeight: 100})
	jobs := testJobs(2)

	r.Select(jobs[0].ID)
	if _, ok := r.Selected(); !ok {
		t.Fatal("expected selection recorded")
	}

	// Selected job removed from the list (deleted).
	if _, ok := r.SelectedJob(jobs[1:]); ok {
		t.Error("expected no selected job once it leaves the list")
	}

	r.ClearSelection()
	if _, ok := r.Selected(); ok {
		t.Error("expected selection cleared")
	}
}
