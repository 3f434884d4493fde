package api

import (
	"context"
	"net/http"

	"github.com/moneymap/moneytree/internal/model"
)

type chatRequest struct {
	Message string `json:"message,omitempty"`
}

type historyResponse struct {
	History []model.ChatMessage `json:"conversation_history"`
}

// FinalizeGoalsResponse lists the goals created from a planning conversation.
type FinalizeGoalsResponse struct {
	Goals   []model.FinancialGoal `json:"goals"`
	Message string                `json:"message"`
}

// GoalResponse wraps a single goal, as returned by get and update.
type GoalResponse struct {
	Goal    model.FinancialGoal `json:"goal"`
	Message string              `json:"message,omitempty"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

type goalsResponse struct {
	Goals []model.FinancialGoal `json:"goals"`
}

type missionsResponse struct {
	Missions []model.Mission `json:"missions"`
}

// GoalConversation returns the stored goal-planning history for the user.
func (c *Client) GoalConversation(ctx context.Context, userID string) ([]model.ChatMessage, error) {
	var out historyResponse
	if err := c.do(ctx, http.MethodGet, "/api/goals/chat/"+seg(userID), nil, &out); err != nil {
		return nil, err
	}
	return out.History, nil
}

// GoalChat advances the goal-planning conversation. An empty message starts it.
func (c *Client) GoalChat(ctx context.Context, userID, message string) (*model.ChatTurn, error) {
	var out model.ChatTurn
	if err := c.do(ctx, http.MethodPost, "/api/goals/chat/"+seg(userID), chatRequest{Message: message}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FinalizeGoals converts the planning conversation into goals.
func (c *Client) FinalizeGoals(ctx context.Context, userID string) (*FinalizeGoalsResponse, error) {
	var out FinalizeGoalsResponse
	if err := c.do(ctx, http.MethodPost, "/api/goals/finalize/"+seg(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListGoals returns all goals of the user.
func (c *Client) ListGoals(ctx context.Context, userID string) ([]model.FinancialGoal, error) {
	var out goalsResponse
	if err := c.do(ctx, http.MethodGet, "/api/goals/"+seg(userID), nil, &out); err != nil {
		return nil, err
	}
	return out.Goals, nil
}

// GetGoal returns one goal.
func (c *Client) GetGoal(ctx context.Context, userID, goalID string) (*model.FinancialGoal, error) {
	var out GoalResponse
	if err := c.do(ctx, http.MethodGet, "/api/goals/"+seg(userID)+"/"+seg(goalID), nil, &out); err != nil {
		return nil, err
	}
	return &out.Goal, nil
}

// UpdateGoal applies a partial update and returns the server's copy of the goal.
func (c *Client) UpdateGoal(ctx context.Context, userID, goalID string, upd model.GoalUpdate) (*GoalResponse, error) {
	var out GoalResponse
	if err := c.do(ctx, http.MethodPatch, "/api/goals/"+seg(userID)+"/"+seg(goalID), upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteGoal removes a goal.
func (c *Client) DeleteGoal(ctx context.Context, userID, goalID string) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodDelete, "/api/goals/"+seg(userID)+"/"+seg(goalID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GoalMissions lists the missions generated for a goal.
func (c *Client) GoalMissions(ctx context.Context, userID, goalID string) ([]model.Mission, error) {
	var out missionsResponse
	if err := c.do(ctx, http.MethodGet, "/api/goals/"+seg(userID)+"/"+seg(goalID)+"/missions", nil, &out); err != nil {
		return nil, err
	}
	return out.Missions, nil
}

// GenerateGoalMissions asks the backend to (re)generate missions for a goal.
func (c *Client) GenerateGoalMissions(ctx context.Context, userID, goalID string) ([]model.Mission, error) {
	var out missionsResponse
	if err := c.do(ctx, http.MethodPost, "/api/goals/"+seg(userID)+"/"+seg(goalID)+"/missions/generate", nil, &out); err != nil {
		return nil, err
	}
	return out.Missions, nil
}

// UpdateMissionStatus sets a mission's status.
func (c *Client) UpdateMissionStatus(ctx context.Context, userID, goalID, missionID string, status model.MissionStatus) error {
	body := struct {
		Status model.MissionStatus `json:"status"`
	}{status}
	path := "/api/goals/" + seg(userID) + "/" + seg(goalID) + "/missions/" + seg(missionID)
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

// CompleteMissionResponse reports the streak after a mission completes.
type CompleteMissionResponse struct {
	Mission    model.Mission    `json:"mission"`
	Streak     model.UserStreak `json:"streak"`
	SharkLevel int              `json:"shark_level"`
}

// CompleteMission marks a mission complete through the legacy missions endpoint.
func (c *Client) CompleteMission(ctx context.Context, userID, missionID string) (*CompleteMissionResponse, error) {
	body := struct {
		UserID string `json:"user_id"`
	}{userID}
	var out CompleteMissionResponse
	if err := c.do(ctx, http.MethodPost, "/api/missions/"+seg(missionID)+"/complete", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Missions lists every mission of the user across goals.
func (c *Client) Missions(ctx context.Context, userID string) ([]model.Mission, error) {
	var out missionsResponse
	if err := c.do(ctx, http.MethodGet, "/api/missions/"+seg(userID), nil, &out); err != nil {
		return nil, err
	}
	return out.Missions, nil
}
