package question

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	ws "github.com/gokatarajesh/trivia-api/pkg/http/ws"
)

// Question bank event types.
const (
	EventCreated = "question.created"
	EventDeleted = "question.deleted"
)

const defaultEventChannel = "questions:events"

// Event describes a change to the question bank.
type Event struct {
	Type       string    `json:"type"`
	QuestionID int64     `json:"question_id"`
	Question   *Question `json:"question,omitempty"`
	At         time.Time `json:"at"`
}

// RedisPublisher publishes events on a Redis Pub/Sub channel so every API
// instance can forward them to its own websocket clients.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

var _ EventPublisher = (*RedisPublisher)(nil)

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = defaultEventChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, evt Event) error {
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, data).Err()
}

// Broadcaster listens for Redis Pub/Sub question events and forwards them to all clients.
type Broadcaster struct {
	redis   *redis.Client
	hub     *ws.Hub
	channel string
	logger  zerolog.Logger
}

// NewBroadcaster creates a Pub/Sub powered change-feed broadcaster.
func NewBroadcaster(redis *redis.Client, hub *ws.Hub, channel string, logger zerolog.Logger) *Broadcaster {
	if channel == "" {
		channel = defaultEventChannel
	}
	return &Broadcaster{
		redis:   redis,
		hub:     hub,
		channel: channel,
		logger:  logger.With().Str("component", "question_broadcaster").Logger(),
	}
}

// Run subscribes to the event channel and blocks until the context is cancelled.
func (b *Broadcaster) Run(ctx context.Context) error {
	if b.redis == nil || b.hub == nil {
		return nil
	}

	sub := b.redis.Subscribe(ctx, b.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.forward(msg.Payload)
		}
	}
}

func (b *Broadcaster) forward(payload string) {
	msg, err := eventMessage([]byte(payload))
	if err != nil {
		b.logger.Warn().Err(err).Msg("failed to decode question event payload")
		return
	}
	if err := b.hub.BroadcastAll(msg); err != nil {
		b.logger.Warn().Err(err).Msg("failed to broadcast question event")
	}
}

// eventMessage converts a published Event into the websocket wire message.
func eventMessage(payload []byte) (ws.Message, error) {
	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return ws.Message{}, err
	}

	var msgType string
	switch evt.Type {
	case EventCreated:
		msgType = ws.TypeQuestionCreated
	case EventDeleted:
		msgType = ws.TypeQuestionDeleted
	default:
		return ws.Message{}, fmt.Errorf("unknown event type %q", evt.Type)
	}

	out := ws.QuestionEventPayload{
		QuestionID: evt.QuestionID,
		At:         evt.At.UTC().Format(time.RFC3339),
	}
	if evt.Question != nil {
		raw, err := json.Marshal(evt.Question)
		if err != nil {
			return ws.Message{}, err
		}
		out.Question = raw
	}
	return ws.NewMessage(msgType, out)
}

// FeedHandler serves GET /ws/questions, the live change feed.
type FeedHandler struct {
	hub      *ws.Hub
	logger   zerolog.Logger
	connOpts []ws.ConnectionOption
}

func NewFeedHandler(hub *ws.Hub, logger zerolog.Logger, opts ...ws.ConnectionOption) *FeedHandler {
	return &FeedHandler{
		hub:      hub,
		logger:   logger.With().Str("component", "question_feed").Logger(),
		connOpts: opts,
	}
}

func (h *FeedHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	id := uuid.New()
	c := ws.NewConnection(conn, h.logger.With().Str("conn_id", id.String()).Logger(), h.connOpts...)
	h.hub.RegisterConnection(id, c)
	go c.WritePump()

	c.ReadPump(func(msg ws.Message) error {
		if msg.Type != ws.TypePing {
			errMsg, err := ws.NewMessage(ws.TypeError, ws.ErrorPayload{Code: "unknown_message_type", Message: "only ping is accepted"})
			if err != nil {
				return fmt.Errorf("build error reply: %w", err)
			}
			return c.Send(errMsg)
		}
		return c.Send(ws.Message{Type: ws.TypePong, RequestID: msg.RequestID})
	})
	h.hub.UnregisterConnection(id)
}
