package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/PabloGalante/mindmate/internal/app/chat"
	"github.com/PabloGalante/mindmate/internal/app/goals"
	"github.com/PabloGalante/mindmate/internal/app/journal"
	"github.com/PabloGalante/mindmate/internal/app/profile"
	"github.com/PabloGalante/mindmate/internal/app/therapy"
	"github.com/PabloGalante/mindmate/internal/domain"
)

type Server struct {
	chat    *chat.Service
	therapy *therapy.Service
	journal *journal.Service
	goals   *goals.Service
	profile *profile.Service
	users   domain.UserStore
}

func NewServer(
	chatSvc *chat.Service,
	therapySvc *therapy.Service,
	journalSvc *journal.Service,
	goalsSvc *goals.Service,
	profileSvc *profile.Service,
	users domain.UserStore,
) http.Handler {
	s := &Server{
		chat:    chatSvc,
		therapy: therapySvc,
		journal: journalSvc,
		goals:   goalsSvc,
		profile: profileSvc,
		users:   users,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)

	mux.HandleFunc("PUT /users/{id}", s.handleSaveUser)
	mux.HandleFunc("GET /users/{id}", s.handleGetUser)
	mux.HandleFunc("POST /users/{id}/logout", s.handleLogout)

	mux.HandleFunc("POST /users/{id}/chat/messages", s.handleSendChat)
	mux.HandleFunc("GET /users/{id}/chat", s.handleGetChat)
	mux.HandleFunc("POST /users/{id}/chat/clear", s.handleClearChat)

	mux.HandleFunc("POST /users/{id}/therapy/start", s.handleTherapyStart)
	mux.HandleFunc("POST /users/{id}/therapy/reply", s.handleTherapyReply)
	mux.HandleFunc("POST /users/{id}/therapy/reset", s.handleTherapyReset)
	mux.HandleFunc("GET /users/{id}/therapy/session", s.handleTherapySession)

	mux.HandleFunc("POST /users/{id}/journal", s.handleAddJournal)
	mux.HandleFunc("GET /users/{id}/journal", s.handleGetJournal)

	mux.HandleFunc("POST /users/{id}/goals", s.handleAddGoal)
	mux.HandleFunc("GET /users/{id}/goals", s.handleListGoals)
	mux.HandleFunc("GET /users/{id}/goals/suggestion", s.handleGoalSuggestion)
	mux.HandleFunc("POST /users/{id}/goals/{index}/checkin", s.handleGoalCheckIn)
	mux.HandleFunc("POST /users/{id}/goals/{index}/complete", s.handleGoalComplete)
	mux.HandleFunc("GET /users/{id}/goals/{index}/encouragement", s.handleGoalEncouragement)
	mux.HandleFunc("DELETE /users/{id}/goals/{index}", s.handleDeleteGoal)

	mux.HandleFunc("GET /users/{id}/moods", s.handleGetMoods)

	mux.HandleFunc("POST /users/{id}/profile/regenerate", s.handleRegenerateProfile)
	mux.HandleFunc("GET /users/{id}/profile", s.handleGetProfile)

	return chainMiddlewares(mux, withCORS, withRequestID, withLogging)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type saveUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

type userResponse struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Age                int    `json:"age"`
	AgeGroup           string `json:"age_group"`
	LastSeen           string `json:"last_seen,omitempty"`
	DaysSinceLastVisit int    `json:"days_since_last_visit"`
}

type sendChatRequest struct {
	Text string `json:"text"`
}

type sendChatResponse struct {
	UserMessage domain.ChatMessage `json:"user_message"`
	Reply       domain.ChatMessage `json:"reply"`
	Intercepted bool               `json:"intercepted"`
}

type chatHistoryResponse struct {
	Messages []domain.ChatMessage `json:"messages"`
}

type therapySessionResponse struct {
	Active  bool                 `json:"active"`
	Step    int                  `json:"step"`
	Label   string               `json:"label,omitempty"`
	Prompt  string               `json:"prompt,omitempty"`
	History []domain.ChatMessage `json:"history"`
	Done    bool                 `json:"done"`
	Insight string               `json:"insight,omitempty"`
}

type therapyReplyRequest struct {
	Text string `json:"text"`
}

type therapyReplyResponse struct {
	Reply   string `json:"reply"`
	Step    int    `json:"step"`
	Label   string `json:"label"`
	Done    bool   `json:"done"`
	Insight string `json:"insight,omitempty"`
}

type addJournalRequest struct {
	Entry string `json:"entry"`
}

type journalResponse struct {
	Entries []domain.JournalEntry `json:"entries"`
}

type addGoalRequest struct {
	Text string `json:"text"`
}

type goalsResponse struct {
	Goals []domain.Goal `json:"goals"`
}

type goalCheckInRequest struct {
	Status string `json:"status"`
}

type moodsResponse struct {
	Moods []domain.MoodRecord `json:"moods"`
}

// ─────────────────────────────────────────────
// Users
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSaveUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	var req saveUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		badRequest(w, "name is required")
		return
	}

	existing, err := s.users.GetUser(userID)
	if err != nil {
		internalError(w, err)
		return
	}

	p := domain.UserProfile{
		Name:     req.Name,
		Email:    req.Email,
		Age:      req.Age,
		AgeGroup: profile.AgeGroup(req.Age),
		LastSeen: existing.LastSeen,
	}
	if err := s.users.SaveUser(userID, p); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(p, s.chat.DaysSinceLastVisit(userID)))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	p, err := s.users.GetUser(userID)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(p, s.chat.DaysSinceLastVisit(userID)))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}
	if err := s.chat.Logout(r.Context(), userID); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─────────────────────────────────────────────
// Chat
// ─────────────────────────────────────────────

func (s *Server) handleSendChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	var req sendChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	out, err := s.chat.SendMessage(r.Context(), chat.SendMessageInput{
		UserID: userID,
		Text:   req.Text,
	})
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			badRequest(w, "text is required")
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sendChatResponse{
		UserMessage: out.UserMessage,
		Reply:       out.Reply,
		Intercepted: out.Intercepted,
	})
}

func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}
	msgs, err := s.chat.History(userID)
	if err != nil {
		internalError(w, err)
		return
	}
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, chatHistoryResponse{Messages: msgs})
}

func (s *Server) handleClearChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}
	if err := s.chat.Clear(r.Context(), userID); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetMoods(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}
	moods, err := s.chat.Moods(userID)
	if err != nil {
		internalError(w, err)
		return
	}
	if moods == nil {
		moods = []domain.MoodRecord{}
	}
	writeJSON(w, http.StatusOK, moodsResponse{Moods: moods})
}

// ─────────────────────────────────────────────
// Therapy
// ─────────────────────────────────────────────

func (s *Server) handleTherapyStart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}
	sess, err := s.therapy.Start(r.Context(), userID)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTherapyResponse(sess))
}

func (s *Server) handleTherapyReply(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	var req therapyReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	out, err := s.therapy.SubmitReply(r.Context(), userID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, therapy.ErrEmptyReply):
			badRequest(w, "text is required")
		case errors.Is(err, therapy.ErrNotActive), errors.Is(err, therapy.ErrDone):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			internalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, therapyReplyResponse{
		Reply:   out.Reply,
		Step:    out.Step,
		Label:   out.Label,
		Done:    out.Done,
		Insight: out.Insight,
	})
}

func (s *Server) handleTherapyReset(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}
	s.therapy.Reset(userID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTherapySession(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toTherapyResponse(s.therapy.Snapshot(userID)))
}

// ─────────────────────────────────────────────
// Journal
// ─────────────────────────────────────────────

func (s *Server) handleAddJournal(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	var req addJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	entry, err := s.journal.Add(r.Context(), userID, req.Entry)
	if err != nil {
		if errors.Is(err, journal.ErrEmptyEntry) {
			badRequest(w, "entry is required")
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleGetJournal(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}
	entries, err := s.journal.Entries(userID)
	if err != nil {
		internalError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	writeJSON(w, http.StatusOK, journalResponse{Entries: entries})
}

// ─────────────────────────────────────────────
// Goals
// ─────────────────────────────────────────────

func (s *Server) handleAddGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	var req addGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	goal, err := s.goals.Add(r.Context(), userID, req.Text)
	if err != nil {
		if errors.Is(err, goals.ErrEmptyGoal) {
			badRequest(w, "text is required")
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}
	list, err := s.goals.List(userID)
	if err != nil {
		internalError(w, err)
		return
	}
	if list == nil {
		list = []domain.Goal{}
	}
	writeJSON(w, http.StatusOK, goalsResponse{Goals: list})
}

func (s *Server) handleGoalCheckIn(w http.ResponseWriter, r *http.Request) {
	userID, index, ok := goalRefFrom(w, r)
	if !ok {
		return
	}

	var req goalCheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	goal, err := s.goals.CheckIn(r.Context(), userID, index, req.Status)
	if err != nil {
		writeGoalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleGoalComplete(w http.ResponseWriter, r *http.Request) {
	userID, index, ok := goalRefFrom(w, r)
	if !ok {
		return
	}
	goal, err := s.goals.Complete(userID, index)
	if err != nil {
		writeGoalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, index, ok := goalRefFrom(w, r)
	if !ok {
		return
	}
	if err := s.goals.Delete(userID, index); err != nil {
		writeGoalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGoalEncouragement(w http.ResponseWriter, r *http.Request) {
	userID, index, ok := goalRefFrom(w, r)
	if !ok {
		return
	}
	text, err := s.goals.Encouragement(r.Context(), userID, index)
	if err != nil {
		writeGoalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"encouragement": text})
}

func (s *Server) handleGoalSuggestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"suggestion": s.goals.Suggest(r.Context(), userID),
	})
}

// ─────────────────────────────────────────────
// Profile
// ─────────────────────────────────────────────

func (s *Server) handleRegenerateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}
	snap, err := s.profile.Regenerate(r.Context(), userID)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}
	snap, err := s.profile.Snapshot(userID)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func userIDFrom(w http.ResponseWriter, r *http.Request) (domain.UserID, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		badRequest(w, "user id is required")
		return "", false
	}
	return domain.UserID(id), true
}

func goalRefFrom(w http.ResponseWriter, r *http.Request) (domain.UserID, int, bool) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return "", 0, false
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		badRequest(w, "goal index must be a non-negative integer")
		return "", 0, false
	}
	return userID, index, true
}

func writeGoalError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, goals.ErrGoalNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, goals.ErrInvalidStatus):
		badRequest(w, err.Error())
	default:
		internalError(w, err)
	}
}

func toUserResponse(p domain.UserProfile, daysSince int) userResponse {
	return userResponse{
		Name:               p.Name,
		Email:              p.Email,
		Age:                p.Age,
		AgeGroup:           p.AgeGroup,
		LastSeen:           p.LastSeen,
		DaysSinceLastVisit: daysSince,
	}
}

func toTherapyResponse(sess therapy.Session) therapySessionResponse {
	resp := therapySessionResponse{
		Active:  sess.Active,
		Step:    sess.Step,
		History: sess.History,
		Done:    sess.Done,
		Insight: sess.Insight,
	}
	if resp.History == nil {
		resp.History = []domain.ChatMessage{}
	}
	if sess.Active && !sess.Done {
		resp.Label, _ = therapy.LabelFor(sess.Step)
		resp.Prompt, _ = therapy.PromptFor(sess.Step)
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}
