package therapy

import (
	"context"

	"github.com/PabloGalante/mindmate/internal/domain"
	"github.com/PabloGalante/mindmate/internal/observability"
)

// fallbackTurnReply is returned whenever the completion service fails
// mid-session. The flow must never surface a raw error to someone in a
// support conversation.
const fallbackTurnReply = "I'm here with you. Take your time. 💙"

// processTurn sends the step's directive, the prior transcript, and the
// new user reply to the completion service. Failures are logged and
// mapped to the fixed fallback line.
func (s *Service) processTurn(
	ctx context.Context,
	step int,
	userReply string,
	history []domain.ChatMessage,
) string {
	instruction, err := InstructionFor(step)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("invalid cbt step", "step", step, "error", err)
		return fallbackTurnReply
	}

	messages := make([]domain.ChatMessage, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, domain.ChatMessage{
		Role:    domain.RoleUser,
		Content: userReply,
	})

	reply, err := s.llm.Complete(ctx, domain.CompletionRequest{
		System:      instruction,
		Messages:    messages,
		MaxTokens:   300,
		Temperature: 0.75,
	})
	if err != nil {
		observability.LoggerFromContext(ctx).Error("cbt turn completion failed",
			"step", step, "error", err)
		return fallbackTurnReply
	}
	return reply
}
