package chat

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/matheus3301/padesk/internal/apiclient"
	"github.com/matheus3301/padesk/internal/bus"
	"github.com/matheus3301/padesk/internal/logging"
	"github.com/matheus3301/padesk/internal/reqcache"
	"github.com/matheus3301/padesk/internal/wire"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// ErrEmptyMessage is returned by SendMessage for blank text.
var ErrEmptyMessage = errors.New("message is empty")

// Client is the subset of apiclient.Client used by the engine.
type Client interface {
	Get(ctx context.Context, path string, query url.Values) ([]byte, error)
	Post(ctx context.Context, path string, body any) ([]byte, error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the wall clock used for sent messages.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the time zone timestamps are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

// WithLayout sets the layout timestamps are rendered with.
func WithLayout(layout string) Option {
	return func(e *Engine) { e.layout = layout }
}

// Engine keeps the conversation list and one message list per conversation.
// Every fetch overwrites its list wholesale; nothing is merged.
type Engine struct {
	client Client
	bus    *bus.Bus
	logger *zap.Logger
	now    func() time.Time
	loc    *time.Location
	layout string

	ctx    context.Context
	cancel context.CancelFunc

	conversations *reqcache.Cache[[]Conversation]

	mu      sync.Mutex
	threads map[string]*reqcache.Cache[[]Message]

	refreshCh chan struct{}
}

// NewEngine creates an engine talking to the messaging backend through client.
func NewEngine(client Client, b *bus.Bus, logger *zap.Logger, opts ...Option) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		client:    client,
		bus:       b,
		logger:    logging.OrNop(logger),
		now:       time.Now,
		loc:       time.Local,
		layout:    DefaultLayout,
		ctx:       ctx,
		cancel:    cancel,
		threads:   make(map[string]*reqcache.Cache[[]Message]),
		refreshCh: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.conversations = reqcache.New[[]Conversation](ctx, reqcache.WithName("conversations"), reqcache.WithLogger(e.logger))
	e.conversations.Observe(func(reqcache.State[[]Conversation]) { e.signal() })
	return e
}

// Changes returns a channel signalled whenever any list or its state changes.
func (e *Engine) Changes() <-chan struct{} {
	return e.refreshCh
}

// Close retires every cache; in-flight fetches are cancelled and discarded.
func (e *Engine) Close() {
	e.cancel()
	e.conversations.Close()
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range e.threads {
		c.Close()
	}
}

// FetchConversations reloads the conversation list. On failure the previous
// list stays, the error is recorded and a notification is published.
func (e *Engine) FetchConversations(ctx context.Context) ([]Conversation, error) {
	convs, err := e.conversations.Request(ctx, func(ctx context.Context) ([]Conversation, error) {
		items, err := e.list(ctx, "/conversations")
		if err != nil {
			return nil, err
		}
		out := make([]Conversation, 0, len(items))
		for i, r := range items {
			out = append(out, e.normalizeConversation(r, i))
		}
		return out, nil
	})
	if err != nil {
		e.fail("Failed to load conversations", err)
		return nil, err
	}
	return convs, nil
}

// FetchMessages reloads one conversation's messages, replacing the cached list.
func (e *Engine) FetchMessages(ctx context.Context, conversationID string) ([]Message, error) {
	msgs, err := e.thread(conversationID).Request(ctx, func(ctx context.Context) ([]Message, error) {
		items, err := e.list(ctx, messagesPath(conversationID))
		if err != nil {
			return nil, err
		}
		out := make([]Message, 0, len(items))
		for i, r := range items {
			out = append(out, e.normalizeMessage(r, conversationID, i))
		}
		return out, nil
	})
	if err != nil {
		e.fail("Failed to load messages", err)
		return nil, err
	}
	return msgs, nil
}

// SendMessage posts text and appends the sent message to the conversation's
// list. The conversation preview is left alone until the next list fetch.
// On failure nothing is appended and the caller keeps the unsent text.
func (e *Engine) SendMessage(ctx context.Context, conversationID, text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrEmptyMessage
	}

	body, err := e.client.Post(ctx, messagesPath(conversationID), map[string]string{"content": text})
	if err != nil {
		e.fail("Failed to send message", err)
		return Message{}, fmt.Errorf("send message: %w", err)
	}

	now := e.now()
	msg := Message{
		ID:             strconv.FormatInt(now.UnixMilli(), 10),
		ConversationID: conversationID,
		Sender:         SenderOperator,
		Content:        text,
		Timestamp:      e.timestamp(now),
		DeliveryStatus: StatusSent,
	}
	if p, err := wire.Unwrap(body); err == nil && p.Data.IsObject() {
		if id := first(p.Data, messageIDFields).String(); id != "" {
			msg.ID = id
		}
		if ts := e.timestamp(first(p.Data, messageTimeFields)); ts != "" {
			msg.Timestamp = ts
		}
	}

	e.thread(conversationID).SetState(func(s reqcache.State[[]Message]) reqcache.State[[]Message] {
		var next []Message
		if s.Data != nil {
			next = make([]Message, 0, len(*s.Data)+1)
			next = append(next, *s.Data...)
		}
		next = append(next, msg)
		s.Data = &next
		return s
	})
	e.logger.Info("message sent", zap.String("conversation", conversationID), zap.String("msg_id", msg.ID))
	return msg, nil
}

// Conversations returns the cached conversation list.
func (e *Engine) Conversations() []Conversation {
	if s := e.conversations.State(); s.Data != nil {
		return *s.Data
	}
	return nil
}

// ConversationsLoading reports whether a list fetch is in flight.
func (e *Engine) ConversationsLoading() bool {
	return e.conversations.State().Loading
}

// ConversationsError returns the last list fetch error, or "".
func (e *Engine) ConversationsError() string {
	if s := e.conversations.State(); s.Error != nil {
		return s.Error.Message
	}
	return ""
}

// Messages returns the cached messages of a conversation.
func (e *Engine) Messages(conversationID string) []Message {
	if s := e.thread(conversationID).State(); s.Data != nil {
		return *s.Data
	}
	return nil
}

// MessagesError returns the last message fetch error for a conversation, or "".
func (e *Engine) MessagesError(conversationID string) string {
	if s := e.thread(conversationID).State(); s.Error != nil {
		return s.Error.Message
	}
	return ""
}

func (e *Engine) thread(conversationID string) *reqcache.Cache[[]Message] {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.threads[conversationID]
	if !ok {
		c = reqcache.New[[]Message](e.ctx, reqcache.WithName("messages"), reqcache.WithLogger(e.logger))
		c.Observe(func(reqcache.State[[]Message]) { e.signal() })
		e.threads[conversationID] = c
	}
	return c
}

// list fetches path and returns its elements. A bare array and a {data: [...]}
// envelope are both accepted.
func (e *Engine) list(ctx context.Context, path string) ([]gjson.Result, error) {
	body, err := e.client.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	p, err := wire.Unwrap(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	items, err := p.Items()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return items, nil
}

func (e *Engine) fail(title string, err error) {
	if errors.Is(err, reqcache.ErrRetired) || errors.Is(err, context.Canceled) {
		return
	}
	info := apiclient.Classify(err)
	e.logger.Warn(strings.ToLower(title), zap.Stringer("kind", info.Kind), zap.Error(err))
	e.bus.Notify(bus.KindNotifyError, title, info.Message)
}

func (e *Engine) timestamp(v any) string {
	return NormalizeTimestamp(v, e.loc, e.layout)
}

func (e *Engine) signal() {
	select {
	case e.refreshCh <- struct{}{}:
	default:
	}
}

func messagesPath(conversationID string) string {
	return "/conversations/" + url.PathEscape(conversationID) + "/messages"
}
