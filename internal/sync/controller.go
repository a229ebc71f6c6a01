// Package sync bridges the gateway's asynchronous, possibly
// out-of-order events into the store's sequential operations, and
// drives the incremental loading policy.
package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/gearr/gearr-console/internal/gateway"
	"github.com/gearr/gearr-console/internal/logger"
	"github.com/gearr/gearr-console/internal/model"
	"github.com/gearr/gearr-console/internal/store"
)

// Code classifies controller failures for the caller.
type Code string

const (
	CodeFetchFailed  Code = "fetch-failed"
	CodeDeleteFailed Code = "delete-failed"
	CodeCreateFailed Code = "create-failed"
	CodeDetailFailed Code = "detail-failed"
)

// Error is a classified controller failure. SessionEnded is set when
// the caller should treat the session credential as no longer valid;
// list/delete/create failures typically mean the token expired.
type Error struct {
	Code         Code
	Err          error
	SessionEnded bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Gateway is the slice of the transport the controller drives.
// *gateway.Client satisfies it; tests substitute fakes.
type Gateway interface {
	ListJobs(ctx context.Context, page int) ([]model.Job, error)
	GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error)
	DeleteJob(ctx context.Context, id uuid.UUID) error
	CreateJob(ctx context.Context, sourcePath string) (*model.ScheduleResult, error)
}

// NotificationSource yields push notifications in arrival order.
// *gateway.UpdateStream satisfies it.
type NotificationSource interface {
	Next() (model.JobUpdateNotification, error)
}

// Controller translates loads, enrichment, push messages and user
// mutations into store operations. It is the store's only writer.
type Controller struct {
	gw    Gateway
	store *store.Store

	// OnSessionEnd, when set, is invoked once per failure that
	// invalidates the session, with the classified error.
	OnSessionEnd func(*Error)

	mu           sync.Mutex
	page         int
	pageInFlight bool
	enriched     map[uuid.UUID]struct{}
}

// New creates a Controller over the given gateway and store.
func New(gw Gateway, st *store.Store) *Controller {
	return &Controller{
		gw:       gw,
		store:    st,
		enriched: make(map[uuid.UUID]struct{}),
	}
}

// Load performs the initial page-1 fetch. On failure the store keeps
// its contents, the failure is recorded, and the session is flagged as
// ended.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.pageInFlight {
		c.mu.Unlock()
		return nil
	}
	c.pageInFlight = true
	c.page = 1
	c.mu.Unlock()

	return c.fetchPage(ctx, 1)
}

// LoadMore fetches the next page. Pages are strictly monotonic; a
// trigger that fires while a page fetch is already outstanding is
// dropped rather than queued, the store's upsert-by-id semantics make
// any duplicate page delivery harmless anyway.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.pageInFlight {
		c.mu.Unlock()
		return nil
	}
	c.pageInFlight = true
	c.page++
	page := c.page
	c.mu.Unlock()

	return c.fetchPage(ctx, page)
}

func (c *Controller) fetchPage(ctx context.Context, page int) error {
	defer func() {
		c.mu.Lock()
		c.pageInFlight = false
		c.mu.Unlock()
	}()

	c.store.BeginFetch()
	jobs, err := c.gw.ListJobs(ctx, page)
	if err != nil {
		c.store.FailFetch(err)
		return c.fail(CodeFetchFailed, err, true)
	}

	c.store.ApplyFetchedPage(jobs)
	logger.Debugf("Controller", "fetchPage", "page %d applied, %d jobs", page, len(jobs))
	return nil
}

// LastRequestedPage returns the most recently requested page number.
func (c *Controller) LastRequestedPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// EnrichDetails issues one detail fetch for every job that has not had
// one yet. Each id is attempted at most once, success or not, so a
// permanently failing id cannot cause a retry storm. Individual
// failures are classified as detail-failed and skipped; they never
// abort the pass and never end the session.
func (c *Controller) EnrichDetails(ctx context.Context) {
	for _, job := range c.store.Snapshot() {
		c.mu.Lock()
		_, done := c.enriched[job.ID]
		c.mu.Unlock()
		if done {
			continue
		}

		detail, err := c.gw.GetJob(ctx, job.ID)
		if err == nil {
			c.store.ApplyDetail(job.ID, *detail)
		} else if !errors.Is(err, gateway.ErrNotFound) {
			c.fail(CodeDetailFailed, fmt.Errorf("detail fetch for %s: %w", job.ID, err), false)
		}

		c.mu.Lock()
		c.enriched[job.ID] = struct{}{}
		c.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
	}
}

// Run consumes push notifications and applies them to the store in
// arrival order until the source fails or ctx is canceled. The caller
// owns the source's lifecycle; closing it unblocks Next.
func (c *Controller) Run(ctx context.Context, source NotificationSource) error {
	for {
		notification, err := source.Next()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("notification stream ended: %w", err)
		}
		c.store.ApplyNotification(notification)
		logger.Debugf("Controller", "Run", "applied update for %s: %s", notification.ID, notification.Status)

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

// Create asks the server to schedule a job for the given source path.
// No record is inserted locally; the job materializes later through a
// push notification or a page refresh.
func (c *Controller) Create(ctx context.Context, sourcePath string) error {
	if _, err := c.gw.CreateJob(ctx, sourcePath); err != nil {
		return c.fail(CodeCreateFailed, err, true)
	}
	logger.Infof("Controller", "Create", "job scheduled for %s", sourcePath)
	return nil
}

// Delete sends the delete to the server and removes the record only on
// confirmed success. A job that already vanished server-side counts as
// success. On any other failure the job stays visible.
func (c *Controller) Delete(ctx context.Context, id uuid.UUID) error {
	err := c.gw.DeleteJob(ctx, id)
	if err != nil && !errors.Is(err, gateway.ErrNotFound) {
		return c.fail(CodeDeleteFailed, err, true)
	}
	c.store.ConfirmDelete(id)
	return nil
}

// Reload clears the collection and the enrichment bookkeeping, then
// re-runs the initial load. The next requested page is 1 again.
func (c *Controller) Reload(ctx context.Context) error {
	c.store.Reset()
	c.mu.Lock()
	c.enriched = make(map[uuid.UUID]struct{})
	c.page = 0
	c.mu.Unlock()
	return c.Load(ctx)
}

func (c *Controller) fail(code Code, err error, endsSession bool) *Error {
	classified := &Error{Code: code, Err: err, SessionEnded: endsSession}
	logger.Error("Controller", string(code), err)
	if endsSession && c.OnSessionEnd != nil {
		c.OnSessionEnd(classified)
	}
	return classified
}
