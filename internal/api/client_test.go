package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneymap/moneytree/internal/model"
)

func newTestServer(t *testing.T, r chi.Router) *Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", WithTimeout(5*time.Second))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNotFoundMatchesSentinel(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/goals/{userID}", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "User not found"})
	})
	c := newTestServer(t, r)

	_, err := c.ListGoals(t.Context(), "u1")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "User not found", err.Error())

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusNotFound, reqErr.Status)
	assert.Equal(t, http.MethodGet, reqErr.Method)
}

func TestErrorMessageFallsBackToStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/dashboard/{userID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "<html>boom</html>")
	})
	c := newTestServer(t, r)

	_, err := c.Dashboard(t.Context(), "u1")
	require.Error(t, err)
	assert.Equal(t, "API Error: 500", err.Error())
	assert.False(t, IsNotFound(err))
}

func TestErrorMessageVariants(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail", `{"detail":"bad input"}`, "bad input"},
		{"message", `{"message":"nope"}`, "nope"},
		{"error", `{"error":"broken"}`, "broken"},
		{"validation list", `{"detail":[{"loc":["body","age"],"msg":"field required"}]}`, "API Error: 422"},
		{"empty", ``, "API Error: 422"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorMessage([]byte(tt.body), 422))
		})
	}
}

func TestTransportFailureHasZeroStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, WithTimeout(time.Second))
	_, err := c.Budget(t.Context(), "u1")
	require.Error(t, err)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, 0, reqErr.Status)
	assert.NotNil(t, reqErr.Err)
	assert.False(t, IsNotFound(err))
}

func TestRequestHeaders(t *testing.T) {
	var gotID, gotUA string
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		gotID = req.Header.Get("X-Request-ID")
		gotUA = req.Header.Get("User-Agent")
		writeJSON(w, http.StatusOK, HealthStatus{Status: "healthy"})
	})
	c := newTestServer(t, r)

	h, err := c.Health(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)
	assert.Len(t, gotID, 36)
	assert.Equal(t, userAgent, gotUA)
}

func TestGoalChatStartSendsNoMessage(t *testing.T) {
	var bodies []map[string]any
	r := chi.NewRouter()
	r.Post("/api/goals/chat/{userID}", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(req.Body).Decode(&body)
		bodies = append(bodies, body)
		writeJSON(w, http.StatusOK, model.ChatTurn{
			Response: "What's your age?",
			History:  []model.ChatMessage{{Role: model.RoleAssistant, Content: "What's your age?"}},
		})
	})
	c := newTestServer(t, r)

	turn, err := c.GoalChat(t.Context(), "u1", "")
	require.NoError(t, err)
	assert.Equal(t, "What's your age?", turn.Response)
	require.Len(t, turn.History, 1)

	_, err = c.GoalChat(t.Context(), "u1", "I'm 30")
	require.NoError(t, err)

	require.Len(t, bodies, 2)
	assert.NotContains(t, bodies[0], "message")
	assert.Equal(t, "I'm 30", bodies[1]["message"])
}

func TestUpdateGoalSendsPartialBody(t *testing.T) {
	var body map[string]any
	r := chi.NewRouter()
	r.Patch("/api/goals/{userID}/{goalID}", func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewDecoder(req.Body).Decode(&body)
		writeJSON(w, http.StatusOK, GoalResponse{
			Goal:    model.FinancialGoal{GoalID: chi.URLParam(req, "goalID"), CurrentAmount: 150},
			Message: "Goal updated",
		})
	})
	c := newTestServer(t, r)

	amt := 150.0
	resp, err := c.UpdateGoal(t.Context(), "u1", "g1", model.GoalUpdate{CurrentAmount: &amt})
	require.NoError(t, err)
	assert.Equal(t, "g1", resp.Goal.GoalID)
	assert.InDelta(t, 150, resp.Goal.CurrentAmount, 0.001)
	assert.Equal(t, map[string]any{"current_amount": 150.0}, body)
}

func TestPathSegmentsAreEscaped(t *testing.T) {
	var got string
	r := chi.NewRouter()
	r.Delete("/api/goals/{userID}/{goalID}", func(w http.ResponseWriter, req *http.Request) {
		got = req.URL.EscapedPath()
		writeJSON(w, http.StatusOK, MessageResponse{Message: "deleted"})
	})
	c := newTestServer(t, r)

	resp, err := c.DeleteGoal(t.Context(), "u1", "a b")
	require.NoError(t, err)
	assert.Equal(t, "deleted", resp.Message)
	assert.Equal(t, "/api/goals/u1/a%20b", got)
}

func TestOnboardJSONDropsEmptyDebts(t *testing.T) {
	var body map[string]any
	r := chi.NewRouter()
	r.Post("/api/users/onboard", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		_ = json.NewDecoder(req.Body).Decode(&body)
		writeJSON(w, http.StatusOK, model.OnboardResponse{UserID: "u-new"})
	})
	c := newTestServer(t, r)

	resp, err := c.Onboard(t.Context(), model.OnboardRequest{
		Age:          30,
		AnnualIncome: 85000,
		Debts:        []model.Debt{{Type: "student", Amount: 1000}, {Type: "", Amount: 5}, {Type: "car", Amount: 0}},
	})
	require.NoError(t, err)
	assert.Equal(t, "u-new", resp.UserID)
	debts, ok := body["debts"].([]any)
	require.True(t, ok)
	assert.Len(t, debts, 1)
}

func TestOnboardMultipartUploadsStatement(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "statement.csv")
	csv := "date,description,amount\n2026-01-02,Coffee,-4.50\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	r := chi.NewRouter()
	r.Post("/api/users/onboard", func(w http.ResponseWriter, req *http.Request) {
		if !assert.NoError(t, req.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "30", req.FormValue("age"))
		assert.Equal(t, "85000", req.FormValue("annual_income"))
		assert.JSONEq(t, `[{"type":"student","amount":1000}]`, req.FormValue("debts"))

		f, hdr, err := req.FormFile("transactions_csv")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer func() { _ = f.Close() }()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "statement.csv", hdr.Filename)
		assert.Equal(t, csv, string(data))

		writeJSON(w, http.StatusOK, model.OnboardResponse{UserID: "u-csv"})
	})
	c := newTestServer(t, r)

	resp, err := c.Onboard(t.Context(), model.OnboardRequest{
		Age:           30,
		AnnualIncome:  85000,
		Debts:         []model.Debt{{Type: "student", Amount: 1000}},
		StatementPath: path,
	})
	require.NoError(t, err)
	assert.Equal(t, "u-csv", resp.UserID)
}

func TestOnboardMissingStatement(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	_, err := c.Onboard(t.Context(), model.OnboardRequest{Age: 30, AnnualIncome: 1, StatementPath: "/nonexistent/x.csv"})
	require.Error(t, err)
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCreditConversationWithFinalizedStack(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/credit/chat/{userID}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{
			"conversation_history":[{"role":"assistant","content":"hi"}],
			"finalized_stack":{"cards":[{"name":"Sapphire"}],"tree_name":"Oak"}
		}`)
	})
	c := newTestServer(t, r)

	conv, err := c.CreditConversation(t.Context(), "u1")
	require.NoError(t, err)
	require.Len(t, conv.History, 1)
	require.NotNil(t, conv.FinalizedStack)
	assert.Equal(t, "Oak", conv.FinalizedStack.TreeName)
}

func TestMissionEndpoints(t *testing.T) {
	var status string
	r := chi.NewRouter()
	r.Route("/api/goals/{userID}/{goalID}/missions", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{"missions":[{"mission_id":"m1","status":"active","mission_type":"savings"}]}`)
		})
		r.Post("/generate", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{"missions":[{"mission_id":"m2","status":"active"}]}`)
		})
		r.Patch("/{missionID}", func(w http.ResponseWriter, req *http.Request) {
			var body struct{ Status string }
			_ = json.NewDecoder(req.Body).Decode(&body)
			status = body.Status
			w.WriteHeader(http.StatusNoContent)
		})
	})
	c := newTestServer(t, r)

	ms, err := c.GoalMissions(t.Context(), "u1", "g1")
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, model.MissionSavings, ms[0].MissionType.Normalize())

	ms, err = c.GenerateGoalMissions(t.Context(), "u1", "g1")
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, "m2", ms[0].MissionID)

	require.NoError(t, c.UpdateMissionStatus(t.Context(), "u1", "g1", "m1", model.MissionCompleted))
	assert.Equal(t, "completed", status)
}
