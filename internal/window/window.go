// Package window computes which slice of the projected job list is
// worth materializing: the rows inside the viewport plus a bounded
// overscan margin, backed by a fixed arena of recycled row slots. It
// is a pure view-model over the projection's output; the only state it
// keeps is the scroll offset and the selected row id.
package window

import (
	"github.com/google/uuid"

	"github.com/gearr/gearr-console/internal/model"
)

// BottomThreshold is how close (in distance units) the scroll position
// must be to the bottom of the content before the next page load is
// triggered.
const BottomThreshold = 100

// DefaultOverscan is the number of extra rows materialized on each side
// of the viewport.
const DefaultOverscan = 3

// View holds the fixed geometry of the viewport.
type View struct {
	// RowHeight is the fixed height of one row in distance units.
	RowHeight int
	// ViewportHeight is the visible height in distance units.
	ViewportHeight int
	// Overscan is the number of extra rows on each side of the
	// visible range.
	Overscan int
}

// ContentHeight is the total height of the rendered list.
func (v View) ContentHeight(total int) int {
	return total * v.RowHeight
}

// Range computes the half-open [start, end) slice of row indexes to
// materialize for the given scroll offset, including overscan, clamped
// to the list bounds. A non-positive row height materializes
// everything.
func (v View) Range(scrollOffset, total int) (start, end int) {
	if total <= 0 {
		return 0, 0
	}
	if v.RowHeight <= 0 {
		return 0, total
	}

	first := scrollOffset / v.RowHeight
	visible := (v.ViewportHeight + v.RowHeight - 1) / v.RowHeight

	start = first - v.Overscan
	if start < 0 {
		start = 0
	}
	end = first + visible + v.Overscan
	if end > total {
		end = total
	}
	if start > end {
		start = end
	}
	return start, end
}

// NearBottom reports whether the scroll position is within
// BottomThreshold of the bottom of the content, the condition that
// drives incremental pagination.
func (v View) NearBottom(scrollOffset, total int) bool {
	return scrollOffset+v.ViewportHeight >= v.ContentHeight(total)-BottomThreshold
}

// MaxScroll is the largest useful scroll offset for the given list.
func (v View) MaxScroll(total int) int {
	max := v.ContentHeight(total) - v.ViewportHeight
	if max < 0 {
		return 0
	}
	return max
}

// Slot is a recycled row slot holding one materialized row.
type Slot struct {
	// ListIndex is the row's index in the projected list.
	ListIndex int
	// Job is a copy of the row's job.
	Job model.Job
	// Selected marks the row whose detail view is open.
	Selected bool
}

// Renderer materializes the visible slice of a projected list into a
// bounded arena of row slots. Selection is tracked by job id, not by
// index, so it survives list reordering.
type Renderer struct {
	view     View
	slots    []Slot
	scroll   int
	selected uuid.UUID
}

// NewRenderer creates a Renderer for the given view geometry. The slot
// arena is sized to the largest slice Range can produce and never grows
// afterwards.
func NewRenderer(view View) *Renderer {
	if view.Overscan == 0 {
		view.Overscan = DefaultOverscan
	}
	capacity := 0
	if view.RowHeight > 0 {
		visible := (view.ViewportHeight + view.RowHeight - 1) / view.RowHeight
		capacity = visible + 2*view.Overscan
	}
	return &Renderer{
		view:  view,
		slots: make([]Slot, 0, capacity),
	}
}

// View returns the renderer's geometry.
func (r *Renderer) View() View {
	return r.view
}

// ScrollTo sets the scroll offset, clamped to the content bounds of a
// list with total rows.
func (r *Renderer) ScrollTo(offset, total int) {
	if offset < 0 {
		offset = 0
	}
	if max := r.view.MaxScroll(total); offset > max {
		offset = max
	}
	r.scroll = offset
}

// ScrollBy adjusts the scroll offset by delta, clamped.
func (r *Renderer) ScrollBy(delta, total int) {
	r.ScrollTo(r.scroll+delta, total)
}

// ScrollOffset returns the current scroll offset.
func (r *Renderer) ScrollOffset() int {
	return r.scroll
}

// NearBottom reports whether the current scroll position should trigger
// the next page load for a list with total rows.
func (r *Renderer) NearBottom(total int) bool {
	return r.view.NearBottom(r.scroll, total)
}

// Select opens the detail view for the given job id.
func (r *Renderer) Select(id uuid.UUID) {
	r.selected = id
}

// ClearSelection closes the detail view.
func (r *Renderer) ClearSelection() {
	r.selected = uuid.Nil
}

// Selected returns the selected job id, if any.
func (r *Renderer) Selected() (uuid.UUID, bool) {
	return r.selected, r.selected != uuid.Nil
}

// SelectedJob resolves the selected id against the projected list. The
// lookup is by id, so the detail view follows the job through
// reordering and returns false once the job leaves the list.
func (r *Renderer) SelectedJob(jobs []model.Job) (model.Job, bool) {
	if r.selected == uuid.Nil {
		return model.Job{}, false
	}
	for _, job := range jobs {
		if job.ID == r.selected {
			return job, true
		}
	}
	return model.Job{}, false
}

// Visible materializes the currently visible slice of jobs into the
// slot arena and returns it. Slots are recycled across calls; the
// returned slice is only valid until the next call.
func (r *Renderer) Visible(jobs []model.Job) []Slot {
	start, end := r.view.Range(r.scroll, len(jobs))

	r.slots = r.slots[:0]
	for i := start; i < end; i++ {
		r.slots = append(r.slots, Slot{
			ListIndex: i,
			Job:       jobs[i],
			Selected:  jobs[i].ID == r.selected,
		})
	}
	return r.slots
}
