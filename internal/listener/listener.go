// Package listener consumes the container_status_change notifications the
// schema's trigger emits via pg_notify.
package listener

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/browseterm/browseterm-db/pkg/logger"
)

// ContainerStatusChannel is the pg_notify channel the trigger publishes on.
const ContainerStatusChannel = "container_status_change"

// ContainerStatusEvent is the decoded trigger payload.
type ContainerStatusEvent struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	UpdatedAt string `json:"updated_at"`
}

// ParseContainerStatusEvent decodes a notification payload.
func ParseContainerStatusEvent(payload string) (ContainerStatusEvent, error) {
	var ev ContainerStatusEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return ContainerStatusEvent{}, fmt.Errorf("decode container status payload: %w", err)
	}
	return ev, nil
}

// Handler receives each decoded event. Handlers run on the listener
// goroutine; slow work should be handed off.
type Handler func(ContainerStatusEvent)

// Listener holds a dedicated connection in LISTEN mode. Notifications are
// connection-scoped in Postgres, so the connection is not shared with a
// pool.
type Listener struct {
	conn    *pgx.Conn
	handler Handler
	log     *logger.Logger
}

// New connects and subscribes to the container status channel.
func New(ctx context.Context, dsn string, handler Handler, log *logger.Logger) (*Listener, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect listener: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+ContainerStatusChannel); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("listen on %s: %w", ContainerStatusChannel, err)
	}
	log.Info("Listening on channel %s", ContainerStatusChannel)
	return &Listener{conn: conn, handler: handler, log: log}, nil
}

// Run blocks delivering notifications until ctx is cancelled. Payloads
// that fail to decode are logged and skipped.
func (l *Listener) Run(ctx context.Context) error {
	defer l.conn.Close(context.Background())

	for {
		notification, err := l.conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("wait for notification: %w", err)
		}

		ev, err := ParseContainerStatusEvent(notification.Payload)
		if err != nil {
			l.log.Warn("Dropping malformed notification: %v", err)
			continue
		}
		l.handler(ev)
	}
}
