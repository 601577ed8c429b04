package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"novelhub/internal/microservices/http-api/dto"

	"github.com/jackc/pgx/v5/pgxpool"
)

// chatChannel is the Postgres notification channel every server instance
// listens on. Routing NOTIFY through the database keeps fan-out correct
// when more than one instance is running.
const chatChannel = "chat_messages"

const listenRetryDelay = 3 * time.Second

// Changefeed bridges Postgres LISTEN/NOTIFY into the hub. It also
// implements service.MessageNotifier on the publish side, so the save
// path and the fan-out path share one channel name.
type Changefeed struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewChangefeed(ctx context.Context, databaseURL string, logger *slog.Logger) (*Changefeed, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("changefeed pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("changefeed ping: %w", err)
	}
	return &Changefeed{pool: pool, logger: logger}, nil
}

// Publish sends one message payload through NOTIFY.
func (f *Changefeed) Publish(ctx context.Context, payload []byte) error {
	_, err := f.pool.Exec(ctx, "SELECT pg_notify($1, $2)", chatChannel, string(payload))
	if err != nil {
		return fmt.Errorf("pg_notify: %w", err)
	}
	return nil
}

// Run listens for notifications until ctx is cancelled, reconnecting
// with a fixed delay when the listening connection drops. Parsed
// payloads are pushed into the hub for room-scoped fan-out.
func (f *Changefeed) Run(ctx context.Context, hub *Hub) {
	for {
		if err := f.listen(ctx, hub); err != nil {
			if ctx.Err() != nil {
				return
			}
			f.logger.Warn("changefeed listener dropped, reconnecting", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(listenRetryDelay):
		}
	}
}

func (f *Changefeed) listen(ctx context.Context, hub *Hub) error {
	conn, err := f.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+chatChannel); err != nil {
		return fmt.Errorf("listen %s: %w", chatChannel, err)
	}
	f.logger.Info("changefeed listening", "channel", chatChannel)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		var payload dto.ChatMessageResponse
		if err := json.Unmarshal([]byte(notification.Payload), &payload); err != nil {
			f.logger.Warn("changefeed payload not parseable", "error", err)
			continue
		}
		hub.Broadcast <- NewChatMessage(&payload)
	}
}

func (f *Changefeed) Close() {
	f.pool.Close()
}
