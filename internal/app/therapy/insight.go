package therapy

import (
	"context"
	"fmt"
	"strings"

	"github.com/PabloGalante/mindmate/internal/domain"
	"github.com/PabloGalante/mindmate/internal/observability"
)

const insightDirective = "Generate a beautiful personal insight card from this CBT session.\n" +
	"Format exactly as:\n" +
	"🌱 **Your Session Insight**\n\n" +
	"**What happened:** [1 sentence]\n" +
	"**What you felt:** [1 sentence]\n" +
	"**A new perspective:** [1 sentence]\n" +
	"**Your action:** [1 sentence]\n\n" +
	"**MindMate says:** [warm encouragement by name]"

// synthesize turns the full session transcript into the insight card.
// The model produces the card's formatting; only the failure path is
// generated locally.
func (s *Service) synthesize(ctx context.Context, history []domain.ChatMessage, userName string) string {
	var convo strings.Builder
	for i, m := range history {
		if i > 0 {
			convo.WriteString("\n")
		}
		convo.WriteString(strings.ToUpper(string(m.Role)))
		convo.WriteString(": ")
		convo.WriteString(m.Content)
	}

	card, err := s.llm.Complete(ctx, domain.CompletionRequest{
		System: insightDirective,
		Messages: []domain.ChatMessage{
			{
				Role:    domain.RoleUser,
				Content: fmt.Sprintf("User: %s\n\n%s", userName, convo.String()),
			},
		},
		MaxTokens:   300,
		Temperature: 0.7,
	})
	if err != nil {
		observability.LoggerFromContext(ctx).Error("insight synthesis failed", "error", err)
		return fallbackInsight(userName)
	}
	return card
}

func fallbackInsight(userName string) string {
	return fmt.Sprintf(
		"🌱 **Your Session Insight**\n\nThank you for sharing today, %s. Every step forward counts. 💙",
		userName,
	)
}
