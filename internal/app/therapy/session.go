// Package therapy implements the guided five-step CBT session: a strictly
// ordered conversational protocol with per-step directives and a final
// insight card.
package therapy

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/PabloGalante/mindmate/internal/domain"
	"github.com/PabloGalante/mindmate/internal/observability"
)

var (
	ErrNotActive  = errors.New("no active therapy session")
	ErrDone       = errors.New("therapy session already completed")
	ErrEmptyReply = errors.New("reply text is required")
)

// Session is the per-user state of one guided CBT run. It lives only in
// memory: starting a new session or resetting discards it entirely.
type Session struct {
	Active  bool
	Step    int // 0-based index into the script; equals NumSteps-1 when done
	History []domain.ChatMessage
	Done    bool
	Insight string
}

// Service drives CBT sessions. Exactly one session exists per user at a
// time; the registry is process-local and never persisted.
type Service struct {
	llm   domain.CompletionClient
	users domain.UserStore

	mu       sync.Mutex
	sessions map[domain.UserID]*Session
}

func NewService(llm domain.CompletionClient, users domain.UserStore) *Service {
	return &Service{
		llm:      llm,
		users:    users,
		sessions: make(map[domain.UserID]*Session),
	}
}

// Start resets the user's session to a fresh active state. The first
// step's question is seeded into the history as an assistant turn.
func (s *Service) Start(ctx context.Context, userID domain.UserID) (Session, error) {
	log := observability.LoggerFromContext(ctx).With("user_id", userID)

	first, err := PromptFor(0)
	if err != nil {
		return Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{
		Active: true,
		Step:   0,
		History: []domain.ChatMessage{
			{Role: domain.RoleAssistant, Content: first},
		},
	}
	s.sessions[userID] = sess

	log.Info("therapy session started")
	return snapshot(sess), nil
}

type ReplyOutput struct {
	Reply   string
	Step    int
	Label   string
	Done    bool
	Insight string
}

// SubmitReply processes the user's answer to the current step. On the
// final step it also synthesizes the insight card and freezes the
// session; otherwise it advances to the next step. The step index only
// ever increases, one step at a time.
func (s *Service) SubmitReply(ctx context.Context, userID domain.UserID, text string) (ReplyOutput, error) {
	if strings.TrimSpace(text) == "" {
		return ReplyOutput{}, ErrEmptyReply
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok || !sess.Active {
		return ReplyOutput{}, ErrNotActive
	}
	if sess.Done {
		return ReplyOutput{}, ErrDone
	}

	log := observability.LoggerFromContext(ctx).With(
		"user_id", userID,
		"cbt_step", sess.Step,
	)

	// The turn processor receives every prior turn plus the new user
	// turn; the session history is extended in the same order.
	prior := make([]domain.ChatMessage, len(sess.History))
	copy(prior, sess.History)

	sess.History = append(sess.History, domain.ChatMessage{
		Role:    domain.RoleUser,
		Content: text,
	})

	reply := s.processTurn(ctx, sess.Step, text, prior)
	sess.History = append(sess.History, domain.ChatMessage{
		Role:    domain.RoleAssistant,
		Content: reply,
	})

	out := ReplyOutput{Reply: reply, Step: sess.Step}
	out.Label, _ = LabelFor(sess.Step)

	if sess.Step == NumSteps-1 {
		name := s.userName(userID)
		sess.Insight = s.synthesize(ctx, sess.History, name)
		sess.Done = true
		out.Done = true
		out.Insight = sess.Insight
		log.Info("therapy session completed")
		return out, nil
	}

	sess.Step++
	out.Step = sess.Step
	out.Label, _ = LabelFor(sess.Step)
	log.Info("therapy step advanced", "next_step", sess.Step)
	return out, nil
}

// Reset clears the user's session back to the pre-start default. It is
// idempotent and callable at any time.
func (s *Service) Reset(userID domain.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// Snapshot returns a copy of the user's current session state. A user
// with no session gets the inactive zero state.
func (s *Service) Snapshot(userID domain.UserID) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return Session{}
	}
	return snapshot(sess)
}

func (s *Service) userName(userID domain.UserID) string {
	profile, err := s.users.GetUser(userID)
	if err != nil || profile.Name == "" {
		return "Friend"
	}
	return profile.Name
}

func snapshot(sess *Session) Session {
	out := *sess
	out.History = make([]domain.ChatMessage, len(sess.History))
	copy(out.History, sess.History)
	return out
}
