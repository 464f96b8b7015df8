package chat

import (
	"context"
	"strings"

	"github.com/PabloGalante/mindmate/internal/domain"
	"github.com/PabloGalante/mindmate/internal/observability"
)

const emotionDirective = "You are an emotion detector. Given a message, return ONLY one word " +
	"from this list: anxious, sad, angry, lonely, hopeful, stressed, happy, neutral. " +
	"No explanation. No punctuation. Just the single word."

// detectEmotion silently classifies the user's message. Anything the
// model returns outside the fixed label list, including a failed call,
// reads as neutral.
func (s *Service) detectEmotion(ctx context.Context, message string) domain.Emotion {
	raw, err := s.llm.Complete(ctx, domain.CompletionRequest{
		System: emotionDirective,
		Messages: []domain.ChatMessage{
			{Role: domain.RoleUser, Content: message},
		},
		MaxTokens:   5,
		Temperature: 0.1,
	})
	if err != nil {
		observability.LoggerFromContext(ctx).Error("emotion detection failed", "error", err)
		return domain.EmotionNeutral
	}
	return domain.ParseEmotion(strings.ToLower(strings.TrimSpace(raw)))
}
