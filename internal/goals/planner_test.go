package goals

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneymap/moneytree/internal/api"
	"github.com/moneymap/moneytree/internal/chat"
	"github.com/moneymap/moneytree/internal/logger"
	"github.com/moneymap/moneytree/internal/model"
)

// goalChatServer is a minimal goal-planning backend that echoes each message.
func goalChatServer(t *testing.T) *api.Client {
	t.Helper()
	var history []model.ChatMessage

	r := chi.NewRouter()
	r.Get("/api/goals/chat/{userID}", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"conversation_history": history})
	})
	r.Post("/api/goals/chat/{userID}", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(req.Body).Decode(&body)
		if body.Message != "" {
			history = append(history, model.ChatMessage{Role: model.RoleUser, Content: body.Message})
		}
		reply := "got: " + body.Message
		if body.Message == "" {
			reply = Greeting
		}
		history = append(history, model.ChatMessage{Role: model.RoleAssistant, Content: reply})
		_ = json.NewEncoder(w).Encode(model.ChatTurn{Response: reply, History: history})
	})
	r.Post("/api/goals/finalize/{userID}", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(api.FinalizeGoalsResponse{
			Goals:   []model.FinancialGoal{{GoalID: "g1", Title: "Emergency fund", TargetAmount: 10000}},
			Message: "Created 1 goal",
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL, api.WithLogger(logger.Discard()))
}

func TestPlannerConversation(t *testing.T) {
	planner := NewPlanner(goalChatServer(t))
	c := chat.New(planner, "u1", chat.Options{Greeting: Greeting, MinMessages: 4, Logger: logger.Discard()})

	require.NoError(t, c.Restore(t.Context()))
	require.Len(t, c.Messages(), 1)
	assert.Equal(t, Greeting, c.Messages()[0].Content)

	require.NoError(t, c.Send(t.Context(), "30"))
	assert.False(t, c.CanFinalize())
	require.NoError(t, c.Send(t.Context(), "85000"))
	require.Len(t, c.Messages(), 5)
	assert.Equal(t, "got: 85000", c.Messages()[4].Content)

	var created []model.FinancialGoal
	require.NoError(t, c.Finalize(t.Context(), func(ctx context.Context) error {
		resp, err := planner.Finalize(ctx, c.UserID())
		if err != nil {
			return err
		}
		created = resp.Goals
		return nil
	}))
	assert.Equal(t, chat.Finalized, c.State())
	require.Len(t, created, 1)
	assert.Equal(t, "g1", created[0].GoalID)

	// A fresh controller restores the same history without starting over.
	again := chat.New(planner, "u1", chat.Options{Logger: logger.Discard()})
	require.NoError(t, again.Restore(t.Context()))
	assert.Equal(t, c.Messages(), again.Messages())
}
