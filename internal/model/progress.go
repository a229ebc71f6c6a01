package model

import "encoding/json"

// progressPayload is the structured form a progressing job's
// status_message may carry.
type progressPayload struct {
	Progress *float64 `json:"progress"`
}

// ParseProgress extracts a numeric progress percentage from a job's
// status_message. The message may encode a JSON object with a
// "progress" field while the job is progressing; anything else is not
// an error, the caller falls back to displaying the raw message.
func ParseProgress(statusMessage string) (float64, bool) {
	if statusMessage == "" {
		return 0, false
	}

	var payload progressPayload
	if err := json.Unmarshal([]byte(statusMessage), &payload); err != nil {
		return 0, false
	}
	if payload.Progress == nil {
		return 0, false
	}
	return *payload.Progress, true
}
