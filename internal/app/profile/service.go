// Package profile regenerates the mental-health profile snapshot from
// everything the system has gathered about a user.
package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PabloGalante/mindmate/internal/domain"
	"github.com/PabloGalante/mindmate/internal/observability"
)

const profileDirective = "Generate a personal mental health profile. Respond in EXACT format:\n" +
	"TRIGGERS: [2-3 emotional triggers]\n" +
	"STRENGTHS: [2-3 emotional strengths]\n" +
	"SUPPORT_STYLE: [how they prefer support — 1 sentence]\n" +
	"GROWTH: [one area of growth — 1 sentence]\n" +
	"MESSAGE: [personal warm message by name — 2 sentences]\n" +
	"Nothing outside this format."

type Service struct {
	llm      domain.CompletionClient
	users    domain.UserStore
	moods    domain.MoodStore
	memory   domain.MemoryStore
	journal  domain.JournalStore
	goals    domain.GoalStore
	snapshot domain.ProfileStore
	now      func() time.Time
}

func NewService(
	llm domain.CompletionClient,
	users domain.UserStore,
	moods domain.MoodStore,
	memory domain.MemoryStore,
	journal domain.JournalStore,
	goals domain.GoalStore,
	snapshot domain.ProfileStore,
) *Service {
	return &Service{
		llm:      llm,
		users:    users,
		moods:    moods,
		memory:   memory,
		journal:  journal,
		goals:    goals,
		snapshot: snapshot,
		now:      time.Now,
	}
}

// AgeGroup returns the persona band label for an age.
func AgeGroup(age int) string {
	switch {
	case age <= 19:
		return "teen"
	case age <= 55:
		return "adult"
	default:
		return "senior"
	}
}

// Regenerate rebuilds the snapshot from recent moods, memory bullets,
// active goals, and journal snippets, and fully replaces the stored one.
// A failed completion call still yields a (fallback) snapshot.
func (s *Service) Regenerate(ctx context.Context, userID domain.UserID) (domain.ProfileSnapshot, error) {
	log := observability.LoggerFromContext(ctx).With("user_id", userID)

	profile, err := s.users.GetUser(userID)
	if err != nil {
		return domain.ProfileSnapshot{}, err
	}
	name := profile.Name
	if name == "" {
		name = "Friend"
	}

	snap := s.generate(ctx, userID, name, profile.Age)

	if err := s.snapshot.SaveSnapshot(userID, snap); err != nil {
		log.Error("failed to save profile snapshot", "error", err)
		return domain.ProfileSnapshot{}, err
	}

	log.Info("mental profile regenerated")
	return snap, nil
}

// Snapshot returns the stored profile; a user without one gets the
// zero snapshot.
func (s *Service) Snapshot(userID domain.UserID) (domain.ProfileSnapshot, error) {
	return s.snapshot.LoadSnapshot(userID)
}

func (s *Service) generate(ctx context.Context, userID domain.UserID, name string, age int) domain.ProfileSnapshot {
	log := observability.LoggerFromContext(ctx).With("user_id", userID)

	moodList := "No mood data yet"
	if moods, err := s.moods.LoadMoods(userID); err == nil && len(moods) > 0 {
		if len(moods) > 20 {
			moods = moods[len(moods)-20:]
		}
		labels := make([]string, 0, len(moods))
		for _, m := range moods {
			labels = append(labels, string(m.Emotion))
		}
		moodList = strings.Join(labels, ", ")
	}

	memoryText := "No memories yet"
	if bullets, err := s.memory.LoadBullets(userID); err == nil && len(bullets) > 0 {
		if len(bullets) > 10 {
			bullets = bullets[len(bullets)-10:]
		}
		memoryText = strings.Join(bullets, "\n")
	}

	goalList := "No active goals"
	if goals, err := s.goals.LoadGoals(userID); err == nil && len(goals) > 0 {
		var active []string
		for _, g := range goals {
			if !g.Completed {
				active = append(active, g.Text)
			}
		}
		if len(active) > 0 {
			goalList = strings.Join(active, "\n")
		}
	}

	journalText := "No journal entries"
	if entries, err := s.journal.LoadEntries(userID); err == nil && len(entries) > 0 {
		if len(entries) > 5 {
			entries = entries[len(entries)-5:]
		}
		var snippets []string
		for _, e := range entries {
			snippet := e.Entry
			if len(snippet) > 100 {
				snippet = snippet[:100]
			}
			snippets = append(snippets, snippet)
		}
		journalText = strings.Join(snippets, "\n")
	}

	raw, err := s.llm.Complete(ctx, domain.CompletionRequest{
		System: profileDirective,
		Messages: []domain.ChatMessage{{
			Role: domain.RoleUser,
			Content: fmt.Sprintf(
				"User: %s, Age: %d\nMoods: %s\nMemories:\n%s\nGoals:\n%s\nJournal snippets:\n%s",
				name, age, moodList, memoryText, goalList, journalText),
		}},
		MaxTokens:   350,
		Temperature: 0.7,
	})
	if err != nil {
		log.Error("profile generation failed", "error", err)
		return s.fallbackSnapshot(name)
	}

	snap := parseSnapshot(raw)
	snap.GeneratedAt = s.now().Format("02 Jan 2006")
	return snap
}

func parseSnapshot(raw string) domain.ProfileSnapshot {
	var snap domain.ProfileSnapshot
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "TRIGGERS:"):
			snap.Triggers = strings.TrimSpace(strings.TrimPrefix(line, "TRIGGERS:"))
		case strings.HasPrefix(line, "STRENGTHS:"):
			snap.Strengths = strings.TrimSpace(strings.TrimPrefix(line, "STRENGTHS:"))
		case strings.HasPrefix(line, "SUPPORT_STYLE:"):
			snap.SupportStyle = strings.TrimSpace(strings.TrimPrefix(line, "SUPPORT_STYLE:"))
		case strings.HasPrefix(line, "GROWTH:"):
			snap.Growth = strings.TrimSpace(strings.TrimPrefix(line, "GROWTH:"))
		case strings.HasPrefix(line, "MESSAGE:"):
			snap.Message = strings.TrimSpace(strings.TrimPrefix(line, "MESSAGE:"))
		}
	}
	return snap
}

func (s *Service) fallbackSnapshot(name string) domain.ProfileSnapshot {
	return domain.ProfileSnapshot{
		Triggers:     "Still learning about your triggers",
		Strengths:    "Courage to seek support",
		SupportStyle: "You appreciate warm, non-judgmental conversations",
		Growth:       "You're building self-awareness with every conversation",
		Message:      fmt.Sprintf("Thank you for trusting MindMate, %s. 💙", name),
		GeneratedAt:  s.now().Format("02 Jan 2006"),
	}
}
