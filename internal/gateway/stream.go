package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/gearr/gearr-console/internal/logger"
	"github.com/gearr/gearr-console/internal/model"
)

// UpdateStream is the persistent push channel. The server sends one
// JobUpdateNotification per message, in the order it generated them;
// the stream surfaces them in that same order.
type UpdateStream struct {
	conn *websocket.Conn
}

// Updates opens the push channel scoped to the client's credential.
func (c *Client) Updates(ctx context.Context) (*UpdateStream, error) {
	endpoint, err := c.updatesURL()
	if err != nil {
		return nil, err
	}

	dialer := c.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	conn, resp, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil && (resp.StatusCode == 401 || resp.StatusCode == 403) {
			return nil, fmt.Errorf("%w: websocket handshake got %d", ErrUnauthorized, resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to open update stream: %w", err)
	}
	return &UpdateStream{conn: conn}, nil
}

// Next blocks until the next notification arrives. Messages that do
// not decode as a notification are logged and skipped; they must not
// kill the stream. A nil error guarantees a usable notification.
func (s *UpdateStream) Next() (model.JobUpdateNotification, error) {
	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			return model.JobUpdateNotification{}, fmt.Errorf("update stream closed: %w", err)
		}

		var notification model.JobUpdateNotification
		if err := json.Unmarshal(payload, &notification); err != nil {
			logger.Warnf("UpdateStream", "Next", "skipping malformed update message: %v", err)
			continue
		}
		return notification, nil
	}
}

// Close tears down the websocket connection.
func (s *UpdateStream) Close() error {
	return s.conn.Close()
}
