// Package chat implements the open-ended companion conversation: keyword
// guard, persona prompt, emotion tracking, and long-term memory capture.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/PabloGalante/mindmate/internal/app/safeguard"
	"github.com/PabloGalante/mindmate/internal/domain"
	"github.com/PabloGalante/mindmate/internal/observability"
)

const (
	// chatHistoryLimit caps how many turns are sent for model context.
	chatHistoryLimit = 20
	// moodRetention caps the persisted mood timeline.
	moodRetention = 30
	// memoryRetention caps the persisted long-term memory bullets.
	memoryRetention = 20
	// minTurnsForSummary: shorter chats carry too little signal to mine.
	minTurnsForSummary = 4

	// defaultAge shapes the persona when the profile has no age yet.
	defaultAge = 25
)

const fallbackChatReply = "I'm having trouble finding my words right now, but I'm still here with you. " +
	"Take a breath — and tell me a little more when you're ready. 💙"

var ErrEmptyMessage = errors.New("message text is required")

type Service struct {
	llm    domain.CompletionClient
	users  domain.UserStore
	chats  domain.ChatStore
	moods  domain.MoodStore
	memory domain.MemoryStore
	now    func() time.Time
}

func NewService(
	llm domain.CompletionClient,
	users domain.UserStore,
	chats domain.ChatStore,
	moods domain.MoodStore,
	memory domain.MemoryStore,
) *Service {
	return &Service{
		llm:    llm,
		users:  users,
		chats:  chats,
		moods:  moods,
		memory: memory,
		now:    time.Now,
	}
}

type SendMessageInput struct {
	UserID domain.UserID
	Text   string
}

type SendMessageOutput struct {
	UserMessage domain.ChatMessage
	Reply       domain.ChatMessage
	// Intercepted is true when the keyword guard answered instead of
	// the model.
	Intercepted bool
}

// SendMessage runs one chat turn: guard first, then emotion detection and
// mood capture, then the persona-framed completion call. The whole
// updated timeline is written back under the user's chat key.
func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, ErrEmptyMessage
	}

	log := observability.LoggerFromContext(ctx).With("user_id", in.UserID)

	history, err := s.chats.LoadChat(in.UserID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	// Crisis and off-topic messages are answered from the fixed lists
	// and never reach the completion service.
	if canned, intercepted := safeguard.Screen(in.Text); intercepted {
		log.Info("chat message intercepted by safeguard")

		userMsg := domain.ChatMessage{Role: domain.RoleUser, Content: in.Text, CreatedAt: now}
		reply := domain.ChatMessage{Role: domain.RoleAssistant, Content: canned, CreatedAt: now}

		history = append(history, userMsg, reply)
		if err := s.chats.SaveChat(in.UserID, history); err != nil {
			return nil, err
		}
		return &SendMessageOutput{UserMessage: userMsg, Reply: reply, Intercepted: true}, nil
	}

	emotion := s.detectEmotion(ctx, in.Text)
	if err := s.recordMood(in.UserID, emotion, now); err != nil {
		log.Error("failed to record mood", "error", err)
		return nil, err
	}

	userMsg := domain.ChatMessage{
		Role:      domain.RoleUser,
		Content:   in.Text,
		Emotion:   emotion,
		CreatedAt: now,
	}
	history = append(history, userMsg)

	replyText := s.generateReply(ctx, in.UserID, history)
	reply := domain.ChatMessage{Role: domain.RoleAssistant, Content: replyText, CreatedAt: s.now()}
	history = append(history, reply)

	if err := s.chats.SaveChat(in.UserID, history); err != nil {
		log.Error("failed to save chat history", "error", err)
		return nil, err
	}

	log.Info("chat turn completed", "emotion", emotion)
	return &SendMessageOutput{UserMessage: userMsg, Reply: reply}, nil
}

// generateReply builds the persona prompt (age band + long-term memory)
// and sends the recent timeline to the completion service. Failures are
// mapped to the fixed fallback line, never surfaced.
func (s *Service) generateReply(ctx context.Context, userID domain.UserID, history []domain.ChatMessage) string {
	log := observability.LoggerFromContext(ctx).With("user_id", userID)

	profile, err := s.users.GetUser(userID)
	if err != nil {
		log.Error("failed to load user profile", "error", err)
	}
	age := profile.Age
	if age <= 0 {
		age = defaultAge
	}

	bullets, err := s.memory.LoadBullets(userID)
	if err != nil {
		log.Error("failed to load memory bullets", "error", err)
		bullets = nil
	}

	recent := history
	if len(recent) > chatHistoryLimit {
		recent = recent[len(recent)-chatHistoryLimit:]
	}

	reply, err := s.llm.Complete(ctx, domain.CompletionRequest{
		System:      BuildSystemPrompt(age, formatLongTermMemory(bullets)),
		Messages:    recent,
		MaxTokens:   300,
		Temperature: 0.75,
	})
	if err != nil {
		log.Error("chat completion failed", "error", err)
		return fallbackChatReply
	}
	return reply
}

func (s *Service) recordMood(userID domain.UserID, emotion domain.Emotion, now time.Time) error {
	moods, err := s.moods.LoadMoods(userID)
	if err != nil {
		return err
	}
	moods = append(moods, domain.MoodRecord{
		Emotion: emotion,
		Date:    now.Format("02 Jan 2006"),
		Time:    now.Format("15:04"),
	})
	if len(moods) > moodRetention {
		moods = moods[len(moods)-moodRetention:]
	}
	return s.moods.SaveMoods(userID, moods)
}

// History returns the persisted chat timeline.
func (s *Service) History(userID domain.UserID) ([]domain.ChatMessage, error) {
	return s.chats.LoadChat(userID)
}

// Moods returns the persisted mood timeline.
func (s *Service) Moods(userID domain.UserID) ([]domain.MoodRecord, error) {
	return s.moods.LoadMoods(userID)
}

// Clear wipes the chat timeline, first mining it for memory bullets when
// it is long enough to carry signal.
func (s *Service) Clear(ctx context.Context, userID domain.UserID) error {
	history, err := s.chats.LoadChat(userID)
	if err != nil {
		return err
	}
	s.captureMemory(ctx, userID, history)
	return s.chats.SaveChat(userID, []domain.ChatMessage{})
}

// Logout mines the chat for memory bullets and stamps the last-seen date.
// The chat timeline itself stays persisted for the next visit.
func (s *Service) Logout(ctx context.Context, userID domain.UserID) error {
	history, err := s.chats.LoadChat(userID)
	if err != nil {
		return err
	}
	s.captureMemory(ctx, userID, history)
	return s.users.UpdateLastSeen(userID, s.now().Format("2006-01-02"))
}

// DaysSinceLastVisit reports how many days have passed since the stored
// last-seen date; first-time users read as 0.
func (s *Service) DaysSinceLastVisit(userID domain.UserID) int {
	profile, err := s.users.GetUser(userID)
	if err != nil || profile.LastSeen == "" {
		return 0
	}
	last, err := time.Parse("2006-01-02", profile.LastSeen)
	if err != nil {
		return 0
	}
	return int(s.now().Sub(last).Hours() / 24)
}
