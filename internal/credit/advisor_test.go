package credit

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneymap/moneytree/internal/api"
	"github.com/moneymap/moneytree/internal/chat"
	"github.com/moneymap/moneytree/internal/logger"
	"github.com/moneymap/moneytree/internal/model"
)

type fakeService struct {
	conv        model.CreditConversation
	convErr     error
	turns       []*model.ChatTurn
	stack       *model.CreditCardStack
	finalizeErr error
	finalizes   int
}

func (f *fakeService) CreditConversation(context.Context, string) (*model.CreditConversation, error) {
	if f.convErr != nil {
		return nil, f.convErr
	}
	c := f.conv
	return &c, nil
}

func (f *fakeService) CreditChat(context.Context, string, string) (*model.ChatTurn, error) {
	if len(f.turns) == 0 {
		return &model.ChatTurn{Response: "ok"}, nil
	}
	t := f.turns[0]
	f.turns = f.turns[1:]
	return t, nil
}

func (f *fakeService) FinalizeCreditStack(context.Context, string) (*model.CreditCardStack, error) {
	f.finalizes++
	if f.finalizeErr != nil {
		return nil, f.finalizeErr
	}
	return f.stack, nil
}

func strPtr(s string) *string { return &s }

func newAdvisor(svc *fakeService) (*Advisor, *chat.Controller) {
	a := NewAdvisor(svc, logger.Discard())
	c := chat.New(a, "u1", chat.Options{Greeting: Greeting, Logger: logger.Discard()})
	return a, c
}

func TestRestoreHydratesFinalizedStack(t *testing.T) {
	svc := &fakeService{conv: model.CreditConversation{
		History:        []model.ChatMessage{{Role: model.RoleAssistant, Content: "Here is your stack"}},
		FinalizedStack: &model.CreditCardStack{Cards: []model.CreditCard{{Name: "Sapphire"}, {Name: "Freedom"}}, TreeName: "Oak"},
	}}
	a, c := newAdvisor(svc)

	require.NoError(t, c.Restore(t.Context()))
	assert.Equal(t, chat.Finalized, c.State())

	stack, ok := a.Stack()
	require.True(t, ok)
	assert.Len(t, stack.Cards, 2)

	l := a.Loadout()
	assert.Len(t, l.Cards, 2)
	require.NotNil(t, l.TreeName)
	assert.Equal(t, "Oak", *l.TreeName)
}

func TestAssistantTurnsReplaceLoadout(t *testing.T) {
	svc := &fakeService{turns: []*model.ChatTurn{
		{Response: "start"},
		{Response: "one", Loadout: &model.Loadout{Cards: []model.CreditCard{{Name: "Gold"}}}},
		{Response: "two", Loadout: &model.Loadout{Cards: []model.CreditCard{{Name: "Gold"}, {Name: "Venture"}}, TreeName: strPtr("Maple")}},
		{Response: "three"},
	}}
	a, c := newAdvisor(svc)

	require.NoError(t, c.Restore(t.Context()))
	assert.Empty(t, a.Loadout().Cards)
	assert.False(t, a.Finalized())

	require.NoError(t, c.Send(t.Context(), "groceries"))
	assert.Len(t, a.Loadout().Cards, 1)

	require.NoError(t, c.Send(t.Context(), "travel"))
	l := a.Loadout()
	assert.Len(t, l.Cards, 2)
	require.NotNil(t, l.TreeName)
	assert.Equal(t, "Maple", *l.TreeName)

	require.NoError(t, c.Send(t.Context(), "thanks"))
	assert.Len(t, a.Loadout().Cards, 2, "a turn without a loadout keeps the previous one")
}

func TestFinalizeFreezesLoadout(t *testing.T) {
	svc := &fakeService{
		turns: []*model.ChatTurn{{Response: "start"}, {Response: "one", Loadout: &model.Loadout{Cards: []model.CreditCard{{Name: "Gold"}}, TreeName: strPtr("Birch")}}},
		stack: &model.CreditCardStack{Cards: []model.CreditCard{{Name: "Gold"}, {Name: "Blue"}}, Strategy: "Use Gold for dining"},
	}
	a, c := newAdvisor(svc)
	require.NoError(t, c.Restore(t.Context()))
	require.NoError(t, c.Send(t.Context(), "dining"))

	var stack *model.CreditCardStack
	require.NoError(t, c.Finalize(t.Context(), func(ctx context.Context) error {
		var err error
		stack, err = a.Finalize(ctx, c.UserID())
		return err
	}))
	require.NotNil(t, stack)
	assert.Equal(t, "Birch", stack.TreeName, "tree name carries over from the loadout")
	assert.Len(t, a.Loadout().Cards, 2)
	assert.True(t, a.Finalized())

	a.OnAssistantTurn(&model.ChatTurn{Loadout: &model.Loadout{Cards: nil}})
	assert.Len(t, a.Loadout().Cards, 2, "loadout is frozen after finalize")
	assert.ErrorIs(t, c.Send(t.Context(), "more"), chat.ErrFinalized)
}

func TestFinalizeFailure(t *testing.T) {
	svc := &fakeService{finalizeErr: &api.RequestError{Status: http.StatusBadRequest, Message: "conversation too short"}}
	a := NewAdvisor(svc, logger.Discard())

	_, err := a.Finalize(t.Context(), "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conversation too short")
	assert.False(t, a.Finalized())
	assert.False(t, a.IsFinalizing())
}

func TestRestoreNotFound(t *testing.T) {
	svc := &fakeService{convErr: &api.RequestError{Status: http.StatusNotFound, Message: "User not found"}}
	_, c := newAdvisor(svc)
	assert.True(t, api.IsNotFound(c.Restore(t.Context())))
}

func TestRestoreFailureUsesGreeting(t *testing.T) {
	svc := &fakeService{convErr: &api.RequestError{Status: http.StatusBadGateway, Message: "API Error: 502"}}
	_, c := newAdvisor(svc)
	require.NoError(t, c.Restore(t.Context()))
	require.Len(t, c.Messages(), 1)
	assert.Equal(t, Greeting, c.Messages()[0].Content)
}
