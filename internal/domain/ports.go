package domain

import "context"

// CompletionRequest is the full shape of one call to the hosted completion
// service: an optional system directive, the ordered conversation, and the
// per-call output budget and randomness.
type CompletionRequest struct {
	System      string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float32
}

// CompletionClient defines how the core application talks to the hosted
// LLM. Implementations return the trimmed text of the top completion.
// No retries, no streaming.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// The store ports below share the document-store contract: each record
// family is one whole value under a per-user key, read and written as a
// unit. A missing key reads back as the empty value, never an error.
// Write failures propagate to the caller.

// UserStore persists the signup profile and last-seen date.
type UserStore interface {
	GetUser(userID UserID) (UserProfile, error)
	SaveUser(userID UserID, profile UserProfile) error
	UpdateLastSeen(userID UserID, date string) error
}

// ChatStore persists the open-ended chat timeline.
type ChatStore interface {
	LoadChat(userID UserID) ([]ChatMessage, error)
	SaveChat(userID UserID, messages []ChatMessage) error
}

// MoodStore persists the mood timeline.
type MoodStore interface {
	LoadMoods(userID UserID) ([]MoodRecord, error)
	SaveMoods(userID UserID, moods []MoodRecord) error
}

// MemoryStore persists the long-term memory bullets.
type MemoryStore interface {
	LoadBullets(userID UserID) ([]string, error)
	SaveBullets(userID UserID, bullets []string) error
}

// JournalStore persists analysed journal entries.
type JournalStore interface {
	LoadEntries(userID UserID) ([]JournalEntry, error)
	SaveEntries(userID UserID, entries []JournalEntry) error
}

// GoalStore persists the goal list.
type GoalStore interface {
	LoadGoals(userID UserID) ([]Goal, error)
	SaveGoals(userID UserID, goals []Goal) error
}

// ProfileStore persists the mental-health profile snapshot.
type ProfileStore interface {
	LoadSnapshot(userID UserID) (ProfileSnapshot, error)
	SaveSnapshot(userID UserID, snapshot ProfileSnapshot) error
}
