// Package model defines the job, notification and worker types exchanged
// with a gearr server, plus the defensive parsing helpers the console
// needs to render whatever the server sends.
package model

import "github.com/google/uuid"

// Status represents the lifecycle state of a transcoding job.
type Status string

const (
	StatusQueued      Status = "queued"
	StatusReQueued    Status = "requeued"
	StatusProgressing Status = "progressing"
	StatusCompleted   Status = "completed"
	StatusCanceled    Status = "canceled"
	StatusFailed      Status = "failed"
)

// KnownStatuses lists every status the server is known to emit, in
// lifecycle order. Statuses normally move queued -> progressing ->
// completed/failed, but out-of-order updates are tolerated everywhere.
var KnownStatuses = []Status{
	StatusQueued,
	StatusReQueued,
	StatusProgressing,
	StatusCompleted,
	StatusCanceled,
	StatusFailed,
}

// Known reports whether s is a status the server is known to emit.
// Unknown statuses are still stored and displayed verbatim.
func (s Status) Known() bool {
	for _, known := range KnownStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Job is the central entity tracked by the console. The bulk list
// endpoint returns sparse records; the detail endpoint and push
// notifications fill in the rest over time.
type Job struct {
	ID              uuid.UUID `json:"id"`
	SourcePath      string    `json:"source_path,omitempty"`
	DestinationPath string    `json:"destination_path,omitempty"`
	Status          Status    `json:"status,omitempty"`
	StatusMessage   string    `json:"status_message,omitempty"`
	LastUpdate      Time      `json:"last_update,omitempty"`
}

// JobUpdateNotification is a partial patch pushed over the websocket
// channel when a job's state changes. It is not a full Job: applying it
// to an unknown id synthesizes a minimal record.
type JobUpdateNotification struct {
	ID              uuid.UUID `json:"id"`
	Status          Status    `json:"status"`
	Message         string    `json:"message"`
	EventTime       Time      `json:"event_time"`
	SourcePath      string    `json:"source_path,omitempty"`
	DestinationPath string    `json:"destination_path,omitempty"`
}

// NewJob builds the minimal record synthesized when a notification
// references an id the console has never seen.
func (n JobUpdateNotification) NewJob() Job {
	status := n.Status
	if status == "" {
		status = StatusQueued
	}
	return Job{
		ID:              n.ID,
		SourcePath:      n.SourcePath,
		DestinationPath: n.DestinationPath,
		Status:          status,
		StatusMessage:   n.Message,
		LastUpdate:      n.EventTime,
	}
}

// JobRequest is the body of a job creation request.
type JobRequest struct {
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path,omitempty"`
}

// ScheduleResult is the (possibly empty) response to a job creation
// request. The actual Job materializes later through a push
// notification or a page refresh.
type ScheduleResult struct {
	Scheduled []Job `json:"scheduled,omitempty"`
}

// Worker describes a transcoding worker as reported by the server.
// The server serializes the worker IP under the "id" key.
type Worker struct {
	Name      string `json:"name"`
	IP        string `json:"id"`
	QueueName string `json:"queue_name"`
	LastSeen  Time   `json:"last_seen"`
}

const (
	shortDateFormat    = "2006-01-02"
	detailedDateFormat = "2006-01-02 15:04:05 MST"
)

// FormatShort renders t as a short date, or blank for the zero time.
func FormatShort(t Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(shortDateFormat)
}

// FormatDetailed renders t with time-of-day detail, or blank for the
// zero time.
func FormatDetailed(t Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(detailedDateFormat)
}
