package goals

import (
	"context"
	"fmt"

	"github.com/moneymap/moneytree/internal/api"
	"github.com/moneymap/moneytree/internal/model"
)

// Greeting opens the goal-planning chat when the backend cannot.
const Greeting = "Hi! I'm here to help you set your financial goals. Let's start by learning a bit about you. What's your age?"

// PlannerService is the slice of the backend the goal-planning chat needs.
type PlannerService interface {
	GoalConversation(ctx context.Context, userID string) ([]model.ChatMessage, error)
	GoalChat(ctx context.Context, userID, message string) (*model.ChatTurn, error)
	FinalizeGoals(ctx context.Context, userID string) (*api.FinalizeGoalsResponse, error)
}

// Planner is the chat.Transport for the goal-planning conversation.
type Planner struct {
	svc PlannerService
}

// NewPlanner returns a Planner over svc.
func NewPlanner(svc PlannerService) *Planner {
	return &Planner{svc: svc}
}

// History implements chat.Transport.
func (p *Planner) History(ctx context.Context, userID string) ([]model.ChatMessage, error) {
	return p.svc.GoalConversation(ctx, userID)
}

// Advance implements chat.Transport.
func (p *Planner) Advance(ctx context.Context, userID, message string) (*model.ChatTurn, error) {
	return p.svc.GoalChat(ctx, userID, message)
}

// Finalize turns the conversation into goals on the server.
func (p *Planner) Finalize(ctx context.Context, userID string) (*api.FinalizeGoalsResponse, error) {
	resp, err := p.svc.FinalizeGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("goals: finalizing: %w", err)
	}
	return resp, nil
}
