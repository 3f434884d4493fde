// Package chat drives a linear assistant conversation against the backend.
//
// A Controller owns the local copy of one conversation. The server's history
// is authoritative: every successful turn replaces the local copy wholesale
// through Adopt.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/moneymap/moneytree/internal/api"
	"github.com/moneymap/moneytree/internal/model"
)

// Apology is appended when a turn fails so the user sees something happened.
const Apology = "Sorry, I encountered an error. Please try again."

var (
	ErrBusy         = errors.New("chat: another request is in flight")
	ErrEmptyMessage = errors.New("chat: message is empty")
	ErrFinalized    = errors.New("chat: conversation is finalized")
	ErrTooShort     = errors.New("chat: conversation too short to finalize")
)

// State is the lifecycle position of a conversation.
type State int

const (
	Uninitialized State = iota
	Restoring
	Idle
	Sending
	Finalized
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Restoring:
		return "restoring"
	case Idle:
		return "idle"
	case Sending:
		return "sending"
	case Finalized:
		return "finalized"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Transport advances a conversation on the backend.
type Transport interface {
	// History returns the stored conversation, empty if none was started.
	History(ctx context.Context, userID string) ([]model.ChatMessage, error)
	// Advance sends message, or starts the conversation when message is empty.
	Advance(ctx context.Context, userID, message string) (*model.ChatTurn, error)
}

// FinalizedReporter is implemented by transports that learn during History
// that the conversation was already finalized server-side.
type FinalizedReporter interface {
	Finalized() bool
}

// Options configures a Controller.
type Options struct {
	// Greeting is shown when the conversation cannot be restored or started.
	Greeting string
	// MinMessages gates Finalize. Zero disables the gate.
	MinMessages int
	Logger      *slog.Logger
}

// Controller holds one conversation. It is safe for concurrent use; network
// calls are made without holding the lock.
type Controller struct {
	transport Transport
	userID    string
	opts      Options
	log       *slog.Logger

	mu         sync.Mutex
	history    []model.ChatMessage
	state      State
	sending    bool
	finalizing bool
}

// New returns a Controller for userID's conversation over t.
func New(t Transport, userID string, opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		transport: t,
		userID:    userID,
		opts:      opts,
		log:       log.With("user_id", userID),
	}
}

// Restore loads the prior conversation, or starts a new one when the server
// has none. A 404 is returned to the caller (the user must onboard again);
// any other failure falls back to the greeting and returns nil.
func (c *Controller) Restore(ctx context.Context) error {
	c.mu.Lock()
	if c.state == Restoring || c.sending {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state = Restoring
	c.mu.Unlock()

	history, err := c.restore(ctx)
	if err != nil {
		if api.IsNotFound(err) {
			c.setState(Uninitialized)
			return err
		}
		c.log.Warn("restoring conversation, using greeting", "err", err)
		history = c.greeting()
	}

	c.Adopt(history)

	state := Idle
	if r, ok := c.transport.(FinalizedReporter); ok && r.Finalized() {
		state = Finalized
	}
	c.setState(state)
	return nil
}

func (c *Controller) restore(ctx context.Context) ([]model.ChatMessage, error) {
	history, err := c.transport.History(ctx, c.userID)
	if err != nil {
		return nil, err
	}
	if len(history) > 0 {
		return history, nil
	}

	turn, err := c.transport.Advance(ctx, c.userID, "")
	if err != nil {
		return nil, err
	}
	switch {
	case turn != nil && len(turn.History) > 0:
		return turn.History, nil
	case turn != nil && turn.Response != "":
		return []model.ChatMessage{{Role: model.RoleAssistant, Content: turn.Response}}, nil
	default:
		return c.greeting(), nil
	}
}

func (c *Controller) greeting() []model.ChatMessage {
	if c.opts.Greeting == "" {
		return nil
	}
	return []model.ChatMessage{{Role: model.RoleAssistant, Content: c.opts.Greeting}}
}

// Send appends text to the conversation and advances it. Guard failures
// return before any network call. When the call fails the user's message
// stays and a single apology is appended; the error is still returned so
// callers can react to a 404.
func (c *Controller) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	switch {
	case c.state == Finalized:
		c.mu.Unlock()
		return ErrFinalized
	case c.sending || c.state == Restoring:
		c.mu.Unlock()
		return ErrBusy
	}
	c.sending = true
	c.state = Sending
	c.history = append(c.history, model.ChatMessage{Role: model.RoleUser, Content: text})
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.sending = false
		if c.state == Sending {
			c.state = Idle
		}
		c.mu.Unlock()
	}()

	turn, err := c.transport.Advance(ctx, c.userID, text)
	if err != nil {
		c.log.Warn("sending chat message", "err", err)
		c.appendAssistant(Apology)
		return err
	}

	if turn != nil && len(turn.History) > 0 {
		c.Adopt(turn.History)
	} else if turn != nil && turn.Response != "" {
		c.appendAssistant(turn.Response)
	}
	return nil
}

func (c *Controller) appendAssistant(content string) {
	c.mu.Lock()
	c.history = append(c.history, model.ChatMessage{Role: model.RoleAssistant, Content: content})
	c.mu.Unlock()
}

// Finalize runs fn once the conversation is long enough and moves it into
// the Finalized state on success. Concurrent calls return ErrBusy.
func (c *Controller) Finalize(ctx context.Context, fn func(ctx context.Context) error) error {
	c.mu.Lock()
	switch {
	case c.state == Finalized:
		c.mu.Unlock()
		return ErrFinalized
	case c.finalizing:
		c.mu.Unlock()
		return ErrBusy
	case !c.canFinalizeLocked():
		c.mu.Unlock()
		return ErrTooShort
	}
	c.finalizing = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.finalizing = false
		c.mu.Unlock()
	}()

	if err := fn(ctx); err != nil {
		c.log.Warn("finalizing conversation", "err", err)
		return err
	}

	c.setState(Finalized)
	return nil
}

// CanFinalize reports whether Finalize would pass its length gate.
func (c *Controller) CanFinalize() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state != Finalized && c.canFinalizeLocked()
}

func (c *Controller) canFinalizeLocked() bool {
	return c.opts.MinMessages <= 0 || len(c.history) >= c.opts.MinMessages
}

// Adopt replaces the whole history with a snapshot.
func (c *Controller) Adopt(history []model.ChatMessage) {
	snapshot := model.CloneMessages(history)
	c.mu.Lock()
	c.history = snapshot
	c.mu.Unlock()
}

// Messages returns a copy of the current history.
func (c *Controller) Messages() []model.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.CloneMessages(c.history)
}

// Replies returns the assistant messages after the last user turn of history.
func Replies(history []model.ChatMessage) []model.ChatMessage {
	i := len(history)
	for i > 0 && history[i-1].Role != model.RoleUser {
		i--
	}
	var out []model.ChatMessage
	for _, m := range history[i:] {
		if m.Role == model.RoleAssistant {
			out = append(out, m)
		}
	}
	return out
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsSending reports whether a Send is in flight.
func (c *Controller) IsSending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// IsFinalizing reports whether a Finalize is in flight.
func (c *Controller) IsFinalizing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finalizing
}

// UserID returns the owner of the conversation.
func (c *Controller) UserID() string {
	return c.userID
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
