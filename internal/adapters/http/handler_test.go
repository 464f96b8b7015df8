package httpadapter_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpadapter "github.com/PabloGalante/mindmate/internal/adapters/http"
	"github.com/PabloGalante/mindmate/internal/adapters/llm"
	"github.com/PabloGalante/mindmate/internal/adapters/storage/memory"
	"github.com/PabloGalante/mindmate/internal/app/chat"
	"github.com/PabloGalante/mindmate/internal/app/goals"
	"github.com/PabloGalante/mindmate/internal/app/journal"
	"github.com/PabloGalante/mindmate/internal/app/profile"
	"github.com/PabloGalante/mindmate/internal/app/therapy"
)

func newTestServer(t *testing.T, mock *llm.MockClient) http.Handler {
	t.Helper()

	store := memory.NewStore()

	chatSvc := chat.NewService(mock, store, store, store, store)
	therapySvc := therapy.NewService(mock, store)
	journalSvc := journal.NewService(mock, store, store)
	goalsSvc := goals.NewService(mock, store, store, store)
	profileSvc := profile.NewService(mock, store, store, store, store, store, store)

	return httpadapter.NewServer(chatSvc, therapySvc, journalSvc, goalsSvc, profileSvc, store)
}

func doJSON(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, llm.NewMockClient())

	w := doJSON(t, srv, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestSaveAndGetUser(t *testing.T) {
	srv := newTestServer(t, llm.NewMockClient())

	w := doJSON(t, srv, http.MethodPut, "/users/u1", `{"name":"Priya","email":"priya@example.com","age":17}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, srv, http.MethodGet, "/users/u1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Name     string `json:"name"`
		AgeGroup string `json:"age_group"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Name != "Priya" || resp.AgeGroup != "teen" {
		t.Fatalf("unexpected user response: %+v", resp)
	}
}

func TestSaveUserRequiresName(t *testing.T) {
	srv := newTestServer(t, llm.NewMockClient())

	w := doJSON(t, srv, http.MethodPut, "/users/u1", `{"age":30}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestChatRoundTrip(t *testing.T) {
	mock := llm.NewMockClient("sad", "That sounds really hard. Want to tell me more?")
	srv := newTestServer(t, mock)

	w := doJSON(t, srv, http.MethodPost, "/users/u1/chat/messages", `{"text":"rough week honestly"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Reply struct {
			Content string `json:"content"`
		} `json:"reply"`
		Intercepted bool `json:"intercepted"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Intercepted {
		t.Fatal("ordinary message must not be intercepted")
	}
	if resp.Reply.Content != "That sounds really hard. Want to tell me more?" {
		t.Fatalf("unexpected reply: %q", resp.Reply.Content)
	}

	w = doJSON(t, srv, http.MethodGet, "/users/u1/chat", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var history struct {
		Messages []json.RawMessage `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(history.Messages) != 2 {
		t.Fatalf("expected 2 messages in history, got %d", len(history.Messages))
	}

	w = doJSON(t, srv, http.MethodGet, "/users/u1/moods", "")
	if !strings.Contains(w.Body.String(), `"sad"`) {
		t.Fatalf("expected recorded mood, body=%s", w.Body.String())
	}
}

func TestChatRejectsEmptyText(t *testing.T) {
	srv := newTestServer(t, llm.NewMockClient())

	w := doJSON(t, srv, http.MethodPost, "/users/u1/chat/messages", `{"text":"  "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestTherapyFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t, llm.NewMockClient())

	w := doJSON(t, srv, http.MethodPost, "/users/u1/therapy/start", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d, body=%s", w.Code, w.Body.String())
	}
	var sess struct {
		Active bool   `json:"active"`
		Step   int    `json:"step"`
		Label  string `json:"label"`
		Prompt string `json:"prompt"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !sess.Active || sess.Step != 0 || sess.Label != "Situation" || sess.Prompt == "" {
		t.Fatalf("unexpected session start: %+v", sess)
	}

	var last struct {
		Step    int    `json:"step"`
		Done    bool   `json:"done"`
		Insight string `json:"insight"`
	}
	for i := 0; i < therapy.NumSteps; i++ {
		w = doJSON(t, srv, http.MethodPost, "/users/u1/therapy/reply",
			fmt.Sprintf(`{"text":"answer %d"}`, i))
		if w.Code != http.StatusOK {
			t.Fatalf("reply %d: expected 200, got %d, body=%s", i, w.Code, w.Body.String())
		}
		if err := json.Unmarshal(w.Body.Bytes(), &last); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
	}
	if !last.Done || last.Insight == "" {
		t.Fatalf("expected finished session with insight, got %+v", last)
	}

	// A reply after completion conflicts with the session state.
	w = doJSON(t, srv, http.MethodPost, "/users/u1/therapy/reply", `{"text":"one more"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}

	w = doJSON(t, srv, http.MethodPost, "/users/u1/therapy/reset", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	w = doJSON(t, srv, http.MethodGet, "/users/u1/therapy/session", "")
	var after struct {
		Active bool `json:"active"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &after); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if after.Active {
		t.Fatal("expected inactive session after reset")
	}
}

func TestTherapyReplyWithoutSession(t *testing.T) {
	srv := newTestServer(t, llm.NewMockClient())

	w := doJSON(t, srv, http.MethodPost, "/users/u1/therapy/reply", `{"text":"hello"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestGoalLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t, llm.NewMockClient())

	w := doJSON(t, srv, http.MethodPost, "/users/u1/goals", `{"text":"walk every morning"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, srv, http.MethodPost, "/users/u1/goals/0/checkin", `{"status":"done"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}
	var goal struct {
		Streak int `json:"streak"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &goal); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if goal.Streak != 1 {
		t.Fatalf("expected streak 1, got %d", goal.Streak)
	}

	w = doJSON(t, srv, http.MethodPost, "/users/u1/goals/0/checkin", `{"status":"sorta"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid status, got %d", w.Code)
	}

	w = doJSON(t, srv, http.MethodPost, "/users/u1/goals/7/checkin", `{"status":"done"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown goal, got %d", w.Code)
	}

	w = doJSON(t, srv, http.MethodPost, "/users/u1/goals/0/complete", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = doJSON(t, srv, http.MethodDelete, "/users/u1/goals/0", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	w = doJSON(t, srv, http.MethodGet, "/users/u1/goals", "")
	var list struct {
		Goals []json.RawMessage `json:"goals"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(list.Goals) != 0 {
		t.Fatalf("expected empty goal list, got %d", len(list.Goals))
	}
}

func TestGoalIndexMustBeNumeric(t *testing.T) {
	srv := newTestServer(t, llm.NewMockClient())

	w := doJSON(t, srv, http.MethodPost, "/users/u1/goals/first/checkin", `{"status":"done"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestJournalOverHTTP(t *testing.T) {
	mock := llm.NewMockClient(
		"EMOTION: hopeful\nPATTERN: none\nREFLECTION: What made today lighter?\nENCOURAGEMENT: Keep going.")
	srv := newTestServer(t, mock)

	w := doJSON(t, srv, http.MethodPost, "/users/u1/journal", `{"entry":"today felt a little lighter"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d, body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"hopeful"`) {
		t.Fatalf("expected analysed emotion in response, body=%s", w.Body.String())
	}

	w = doJSON(t, srv, http.MethodPost, "/users/u1/journal", `{"entry":""}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	w = doJSON(t, srv, http.MethodGet, "/users/u1/journal", "")
	var resp struct {
		Entries []json.RawMessage `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(resp.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(resp.Entries))
	}
}

func TestProfileRegenerateOverHTTP(t *testing.T) {
	mock := llm.NewMockClient(
		"TRIGGERS: deadlines\nSTRENGTHS: resilience\nSUPPORT_STYLE: gentle\nGROWTH: patience\nMESSAGE: Hi there.")
	srv := newTestServer(t, mock)

	w := doJSON(t, srv, http.MethodPost, "/users/u1/profile/regenerate", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "resilience") {
		t.Fatalf("expected parsed snapshot, body=%s", w.Body.String())
	}

	w = doJSON(t, srv, http.MethodGet, "/users/u1/profile", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "deadlines") {
		t.Fatalf("expected stored snapshot, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t, llm.NewMockClient())

	w := doJSON(t, srv, http.MethodGet, "/healthz", "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a request id header on every response")
	}
}
