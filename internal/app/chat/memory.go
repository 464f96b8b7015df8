package chat

import (
	"context"
	"strings"

	"github.com/PabloGalante/mindmate/internal/domain"
	"github.com/PabloGalante/mindmate/internal/observability"
)

const memoryDirective = "You are a memory assistant for a mental health AI. " +
	"Extract 1 to 3 short bullet points about what the USER shared — " +
	"their struggles, feelings, or important life context. " +
	"Each point must be under 15 words. " +
	"Output ONLY the bullet points. No preamble."

// captureMemory distils the most recent turns into long-term memory
// bullets. It is best-effort: a failed call just means nothing new is
// remembered.
func (s *Service) captureMemory(ctx context.Context, userID domain.UserID, history []domain.ChatMessage) {
	if len(history) < minTurnsForSummary {
		return
	}

	log := observability.LoggerFromContext(ctx).With("user_id", userID)

	recent := history
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}

	var convo strings.Builder
	for i, m := range recent {
		if i > 0 {
			convo.WriteString("\n")
		}
		convo.WriteString(strings.ToUpper(string(m.Role)))
		convo.WriteString(": ")
		convo.WriteString(m.Content)
	}

	summary, err := s.llm.Complete(ctx, domain.CompletionRequest{
		System: memoryDirective,
		Messages: []domain.ChatMessage{
			{Role: domain.RoleUser, Content: convo.String()},
		},
		MaxTokens:   120,
		Temperature: 0.3,
	})
	if err != nil {
		log.Error("memory summary failed", "error", err)
		return
	}

	bullets, err := s.memory.LoadBullets(userID)
	if err != nil {
		log.Error("failed to load memory bullets", "error", err)
		return
	}
	bullets = append(bullets, parseBullets(summary)...)
	if len(bullets) > memoryRetention {
		bullets = bullets[len(bullets)-memoryRetention:]
	}

	if err := s.memory.SaveBullets(userID, bullets); err != nil {
		log.Error("failed to save memory bullets", "error", err)
		return
	}
	log.Info("memory bullets updated", "count", len(bullets))
}

// parseBullets splits the model output into clean bullet lines.
func parseBullets(summary string) []string {
	var out []string
	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimLeft(line, "•-* "))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
