// Package goals manages 7-day wellbeing goals: creation, daily check-ins
// with streak tracking, and model-written encouragement.
package goals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/mindmate/internal/domain"
	"github.com/PabloGalante/mindmate/internal/observability"
)

// goalWindow is how long the user gets to work on a new goal.
const goalWindow = 7 * 24 * time.Hour

var (
	ErrEmptyGoal     = errors.New("goal text is required")
	ErrGoalNotFound  = errors.New("goal index out of range")
	ErrInvalidStatus = errors.New("check-in status must be done, partial, or missed")
)

type Service struct {
	llm    domain.CompletionClient
	store  domain.GoalStore
	memory domain.MemoryStore
	users  domain.UserStore
	now    func() time.Time
}

func NewService(
	llm domain.CompletionClient,
	store domain.GoalStore,
	memory domain.MemoryStore,
	users domain.UserStore,
) *Service {
	return &Service{
		llm:    llm,
		store:  store,
		memory: memory,
		users:  users,
		now:    time.Now,
	}
}

// Add appends a fresh goal with a one-week deadline.
func (s *Service) Add(ctx context.Context, userID domain.UserID, text string) (domain.Goal, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Goal{}, ErrEmptyGoal
	}

	now := s.now()
	goal := domain.Goal{
		ID:       uuid.NewString(),
		Text:     text,
		Created:  now,
		Deadline: now.Add(goalWindow),
		CheckIns: []domain.GoalCheckIn{},
	}

	goals, err := s.store.LoadGoals(userID)
	if err != nil {
		return domain.Goal{}, err
	}
	goals = append(goals, goal)
	if err := s.store.SaveGoals(userID, goals); err != nil {
		return domain.Goal{}, err
	}

	observability.LoggerFromContext(ctx).Info("goal added", "user_id", userID, "goal_id", goal.ID)
	return goal, nil
}

// List returns all of the user's goals, oldest first.
func (s *Service) List(userID domain.UserID) ([]domain.Goal, error) {
	return s.store.LoadGoals(userID)
}

// CheckIn records today's outcome against the goal at index. "done"
// extends the streak, "missed" resets it, "partial" leaves it untouched.
// Prior check-ins are never removed.
func (s *Service) CheckIn(ctx context.Context, userID domain.UserID, index int, rawStatus string) (domain.Goal, error) {
	status, ok := domain.ParseCheckInStatus(rawStatus)
	if !ok {
		return domain.Goal{}, ErrInvalidStatus
	}

	goals, err := s.store.LoadGoals(userID)
	if err != nil {
		return domain.Goal{}, err
	}
	if index < 0 || index >= len(goals) {
		return domain.Goal{}, ErrGoalNotFound
	}

	goal := &goals[index]
	goal.CheckIns = append(goal.CheckIns, domain.GoalCheckIn{
		Date:   s.now().Format("02 Jan 2006"),
		Status: status,
	})
	switch status {
	case domain.CheckInDone:
		goal.Streak++
	case domain.CheckInMissed:
		goal.Streak = 0
	}

	if err := s.store.SaveGoals(userID, goals); err != nil {
		return domain.Goal{}, err
	}

	observability.LoggerFromContext(ctx).Info("goal check-in",
		"user_id", userID, "goal_id", goal.ID, "status", status, "streak", goal.Streak)
	return *goal, nil
}

// Complete marks the goal at index as completed.
func (s *Service) Complete(userID domain.UserID, index int) (domain.Goal, error) {
	goals, err := s.store.LoadGoals(userID)
	if err != nil {
		return domain.Goal{}, err
	}
	if index < 0 || index >= len(goals) {
		return domain.Goal{}, ErrGoalNotFound
	}
	goals[index].Completed = true
	if err := s.store.SaveGoals(userID, goals); err != nil {
		return domain.Goal{}, err
	}
	return goals[index], nil
}

// Delete removes the goal at index.
func (s *Service) Delete(userID domain.UserID, index int) error {
	goals, err := s.store.LoadGoals(userID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(goals) {
		return ErrGoalNotFound
	}
	goals = append(goals[:index], goals[index+1:]...)
	return s.store.SaveGoals(userID, goals)
}

// Encouragement asks the model for one accountability sentence about the
// goal's progress. Failures fall back to a fixed line by name.
func (s *Service) Encouragement(ctx context.Context, userID domain.UserID, index int) (string, error) {
	goals, err := s.store.LoadGoals(userID)
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(goals) {
		return "", ErrGoalNotFound
	}
	goal := goals[index]

	name := s.userName(userID)
	done := 0
	for _, c := range goal.CheckIns {
		if c.Status == domain.CheckInDone {
			done++
		}
	}

	text, err := s.llm.Complete(ctx, domain.CompletionRequest{
		System: "You are a warm accountability partner. Write 1 encouraging sentence " +
			"about their goal progress. Be specific and address them by name.",
		Messages: []domain.ChatMessage{{
			Role: domain.RoleUser,
			Content: fmt.Sprintf("User: %s\nGoal: %s\nStreak: %d days\nCompleted %d/%d check-ins",
				name, goal.Text, goal.Streak, done, len(goal.CheckIns)),
		}},
		MaxTokens:   80,
		Temperature: 0.75,
	})
	if err != nil {
		observability.LoggerFromContext(ctx).Error("goal encouragement failed", "error", err)
		return fmt.Sprintf("Keep going, %s! Every small step counts. 💙", name), nil
	}
	return text, nil
}

// Suggest proposes one small 7-day goal from the user's recent memory
// bullets. Failures fall back to a fixed suggestion.
func (s *Service) Suggest(ctx context.Context, userID domain.UserID) string {
	const fallback = "Talk to one person I trust this week"

	name := s.userName(userID)
	age := 0
	if profile, err := s.users.GetUser(userID); err == nil {
		age = profile.Age
	}

	memoryText := "No memories yet."
	if bullets, err := s.memory.LoadBullets(userID); err == nil && len(bullets) > 0 {
		if len(bullets) > 5 {
			bullets = bullets[len(bullets)-5:]
		}
		memoryText = strings.Join(bullets, "\n")
	}

	text, err := s.llm.Complete(ctx, domain.CompletionRequest{
		System: "Suggest ONE small, specific, achievable 7-day mental health goal " +
			"based on what you know about the user. Under 15 words. Return ONLY the goal text.",
		Messages: []domain.ChatMessage{{
			Role:    domain.RoleUser,
			Content: fmt.Sprintf("User: %s, Age: %d\n%s", name, age, memoryText),
		}},
		MaxTokens:   40,
		Temperature: 0.8,
	})
	if err != nil {
		observability.LoggerFromContext(ctx).Error("goal suggestion failed", "error", err)
		return fallback
	}
	return text
}

func (s *Service) userName(userID domain.UserID) string {
	profile, err := s.users.GetUser(userID)
	if err != nil || profile.Name == "" {
		return "Friend"
	}
	return profile.Name
}
