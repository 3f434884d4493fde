// Package credit tracks the credit-card advisor conversation: the loadout
// revealed while the conversation runs and the stack it is finalized into.
package credit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/moneymap/moneytree/internal/model"
)

// Greeting opens the advisor chat when the backend cannot.
const Greeting = "Hi! I'm here to help you find the perfect credit card stack. What categories do you spend the most on?"

// ErrBusy is returned when a finalize is already in flight.
var ErrBusy = errors.New("credit: finalize already in flight")

// Service is the slice of the backend the advisor needs. *api.Client satisfies it.
type Service interface {
	CreditConversation(ctx context.Context, userID string) (*model.CreditConversation, error)
	CreditChat(ctx context.Context, userID, message string) (*model.ChatTurn, error)
	FinalizeCreditStack(ctx context.Context, userID string) (*model.CreditCardStack, error)
}

// Advisor is the chat.Transport for the credit conversation. Besides relaying
// turns it keeps the sidebar loadout and the finalized stack.
type Advisor struct {
	svc Service
	log *slog.Logger

	mu         sync.Mutex
	loadout    model.Loadout
	stack      *model.CreditCardStack
	finalizing bool
}

// NewAdvisor returns an Advisor over svc.
func NewAdvisor(svc Service, log *slog.Logger) *Advisor {
	if log == nil {
		log = slog.Default()
	}
	return &Advisor{svc: svc, log: log}
}

// History implements chat.Transport. A stack finalized in an earlier session
// is hydrated into both the result and the loadout.
func (a *Advisor) History(ctx context.Context, userID string) ([]model.ChatMessage, error) {
	conv, err := a.svc.CreditConversation(ctx, userID)
	if err != nil {
		return nil, err
	}
	if conv.FinalizedStack != nil {
		a.mu.Lock()
		stack := conv.FinalizedStack.Clone()
		a.stack = &stack
		a.loadout = model.LoadoutFromStack(stack)
		a.mu.Unlock()
	}
	return conv.History, nil
}

// Advance implements chat.Transport and applies any loadout in the reply.
func (a *Advisor) Advance(ctx context.Context, userID, message string) (*model.ChatTurn, error) {
	turn, err := a.svc.CreditChat(ctx, userID, message)
	if err != nil {
		return nil, err
	}
	a.OnAssistantTurn(turn)
	return turn, nil
}

// OnAssistantTurn replaces the loadout with the one carried by turn, unless
// the conversation is finalized.
func (a *Advisor) OnAssistantTurn(turn *model.ChatTurn) {
	if turn == nil || turn.Loadout == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stack != nil {
		return
	}
	a.loadout = turn.Loadout.Clone()
}

// Finalize freezes the conversation into a card stack.
func (a *Advisor) Finalize(ctx context.Context, userID string) (*model.CreditCardStack, error) {
	a.mu.Lock()
	if a.finalizing {
		a.mu.Unlock()
		return nil, ErrBusy
	}
	a.finalizing = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.finalizing = false
		a.mu.Unlock()
	}()

	stack, err := a.svc.FinalizeCreditStack(ctx, userID)
	if err != nil {
		a.log.Warn("finalizing credit stack", "user_id", userID, "err", err)
		return nil, fmt.Errorf("credit: finalizing: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	frozen := stack.Clone()
	if frozen.TreeName == "" && a.loadout.TreeName != nil {
		frozen.TreeName = *a.loadout.TreeName
	}
	a.stack = &frozen
	a.loadout = model.LoadoutFromStack(frozen)
	out := frozen.Clone()
	return &out, nil
}

// Finalized reports whether a stack exists. It lets chat.Controller restore
// straight into the finalized state.
func (a *Advisor) Finalized() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stack != nil
}

// Stack returns the finalized stack, if any.
func (a *Advisor) Stack() (model.CreditCardStack, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stack == nil {
		return model.CreditCardStack{}, false
	}
	return a.stack.Clone(), true
}

// Loadout returns a copy of the current sidebar loadout.
func (a *Advisor) Loadout() model.Loadout {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loadout.Clone()
}

// IsFinalizing reports whether a finalize is in flight.
func (a *Advisor) IsFinalizing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.finalizing
}
