// Package journal analyses free-form journal entries and keeps a capped
// per-user history of them.
package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PabloGalante/mindmate/internal/domain"
	"github.com/PabloGalante/mindmate/internal/observability"
)

// retention caps the persisted journal; only the most recent entries survive.
const retention = 30

const analysisDirective = "Analyse this journal entry. Respond in EXACT format:\n" +
	"EMOTION: [anxious/sad/angry/lonely/hopeful/stressed/happy/neutral]\n" +
	"PATTERN: [1 sentence about a theme noticed]\n" +
	"REFLECTION: [1 thoughtful question to go deeper]\n" +
	"ENCOURAGEMENT: [1 warm encouraging sentence by name]\n" +
	"Nothing outside this format."

var ErrEmptyEntry = errors.New("journal entry text is required")

type Service struct {
	llm   domain.CompletionClient
	store domain.JournalStore
	users domain.UserStore
	now   func() time.Time
}

func NewService(llm domain.CompletionClient, store domain.JournalStore, users domain.UserStore) *Service {
	return &Service{
		llm:   llm,
		store: store,
		users: users,
		now:   time.Now,
	}
}

// Add analyses the entry and appends the result to the user's journal,
// trimming it to the retention cap.
func (s *Service) Add(ctx context.Context, userID domain.UserID, text string) (domain.JournalEntry, error) {
	if strings.TrimSpace(text) == "" {
		return domain.JournalEntry{}, ErrEmptyEntry
	}

	log := observability.LoggerFromContext(ctx).With("user_id", userID)

	name := "Friend"
	if profile, err := s.users.GetUser(userID); err == nil && profile.Name != "" {
		name = profile.Name
	}

	analysis := s.analyse(ctx, text, name)

	entry := domain.JournalEntry{
		Date:            s.now().Format("02 Jan 2006, 15:04"),
		Entry:           text,
		DominantEmotion: analysis.DominantEmotion,
		Patterns:        analysis.Patterns,
		Reflection:      analysis.Reflection,
		Encouragement:   analysis.Encouragement,
	}

	entries, err := s.store.LoadEntries(userID)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	entries = append(entries, entry)
	if len(entries) > retention {
		entries = entries[len(entries)-retention:]
	}
	if err := s.store.SaveEntries(userID, entries); err != nil {
		log.Error("failed to save journal", "error", err)
		return domain.JournalEntry{}, err
	}

	log.Info("journal entry saved", "emotion", entry.DominantEmotion)
	return entry, nil
}

// Entries returns the persisted journal, oldest first.
func (s *Service) Entries(userID domain.UserID) ([]domain.JournalEntry, error) {
	return s.store.LoadEntries(userID)
}

type analysis struct {
	DominantEmotion domain.Emotion
	Patterns        string
	Reflection      string
	Encouragement   string
}

// analyse asks the model for the fixed four-line format and parses it
// line by line. Missing lines fall back to gentle defaults; a failed call
// falls back entirely.
func (s *Service) analyse(ctx context.Context, entry, userName string) analysis {
	raw, err := s.llm.Complete(ctx, domain.CompletionRequest{
		System: analysisDirective,
		Messages: []domain.ChatMessage{
			{Role: domain.RoleUser, Content: fmt.Sprintf("User: %s\n\n%s", userName, entry)},
		},
		MaxTokens:   200,
		Temperature: 0.6,
	})
	if err != nil {
		observability.LoggerFromContext(ctx).Error("journal analysis failed", "error", err)
		return fallbackAnalysis(userName)
	}
	return parseAnalysis(raw, userName)
}

func parseAnalysis(raw, userName string) analysis {
	out := fallbackAnalysis(userName)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "EMOTION:"):
			out.DominantEmotion = domain.ParseEmotion(
				strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "EMOTION:"))))
		case strings.HasPrefix(line, "PATTERN:"):
			out.Patterns = strings.TrimSpace(strings.TrimPrefix(line, "PATTERN:"))
		case strings.HasPrefix(line, "REFLECTION:"):
			out.Reflection = strings.TrimSpace(strings.TrimPrefix(line, "REFLECTION:"))
		case strings.HasPrefix(line, "ENCOURAGEMENT:"):
			out.Encouragement = strings.TrimSpace(strings.TrimPrefix(line, "ENCOURAGEMENT:"))
		}
	}
	return out
}

func fallbackAnalysis(userName string) analysis {
	return analysis{
		DominantEmotion: domain.EmotionNeutral,
		Patterns:        "You shared something meaningful today.",
		Reflection:      "What feeling stays with you after writing this?",
		Encouragement:   fmt.Sprintf("Thank you for taking time to reflect, %s. 💙", userName),
	}
}
