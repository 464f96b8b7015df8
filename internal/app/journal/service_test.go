package journal_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/PabloGalante/mindmate/internal/adapters/llm"
	"github.com/PabloGalante/mindmate/internal/adapters/storage/memory"
	"github.com/PabloGalante/mindmate/internal/app/journal"
	"github.com/PabloGalante/mindmate/internal/domain"
)

const testUser = domain.UserID("test-user")

func newService(mock *llm.MockClient) (*journal.Service, *memory.Store) {
	store := memory.NewStore()
	_ = store.SaveUser(testUser, domain.UserProfile{Name: "Priya", Age: 24})
	return journal.NewService(mock, store, store), store
}

func TestAddParsesAnalysis(t *testing.T) {
	mock := llm.NewMockClient(
		"EMOTION: anxious\n" +
			"PATTERN: Work deadlines keep coming up as a source of pressure.\n" +
			"REFLECTION: What would it feel like to ask for help with one task?\n" +
			"ENCOURAGEMENT: You're doing better than you think, Priya.")
	svc, store := newService(mock)

	entry, err := svc.Add(context.Background(), testUser, "Another deadline slipped and I panicked.")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if entry.DominantEmotion != domain.EmotionAnxious {
		t.Errorf("emotion = %q, want anxious", entry.DominantEmotion)
	}
	if !strings.Contains(entry.Patterns, "deadlines") {
		t.Errorf("unexpected pattern: %q", entry.Patterns)
	}
	if !strings.HasSuffix(entry.Reflection, "?") {
		t.Errorf("expected a question, got %q", entry.Reflection)
	}
	if !strings.Contains(entry.Encouragement, "Priya") {
		t.Errorf("encouragement should address by name: %q", entry.Encouragement)
	}

	entries, _ := store.LoadEntries(testUser)
	if len(entries) != 1 {
		t.Fatalf("expected 1 persisted entry, got %d", len(entries))
	}
}

func TestAddToleratesPartialAnalysis(t *testing.T) {
	mock := llm.NewMockClient("EMOTION: hopeful\nsome stray line the model added")
	svc, _ := newService(mock)

	entry, err := svc.Add(context.Background(), testUser, "Planted seedlings on the balcony today.")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if entry.DominantEmotion != domain.EmotionHopeful {
		t.Errorf("emotion = %q, want hopeful", entry.DominantEmotion)
	}
	// Missing lines fall back to the gentle defaults.
	if entry.Reflection == "" || entry.Encouragement == "" {
		t.Fatalf("expected defaults for missing fields, got %+v", entry)
	}
}

func TestAddFallsBackOnFailure(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Err = errors.New("service down")
	svc, _ := newService(mock)

	entry, err := svc.Add(context.Background(), testUser, "Just a hard day.")
	if err != nil {
		t.Fatalf("analysis failures must not surface: %v", err)
	}
	if entry.DominantEmotion != domain.EmotionNeutral {
		t.Errorf("fallback emotion = %q, want neutral", entry.DominantEmotion)
	}
	if !strings.Contains(entry.Encouragement, "Priya") {
		t.Errorf("fallback encouragement should address by name: %q", entry.Encouragement)
	}
}

func TestJournalRetentionCap(t *testing.T) {
	mock := llm.NewMockClient()
	svc, store := newService(mock)

	seed := make([]domain.JournalEntry, 30)
	for i := range seed {
		seed[i] = domain.JournalEntry{Entry: fmt.Sprintf("entry %d", i)}
	}
	if err := store.SaveEntries(testUser, seed); err != nil {
		t.Fatalf("SaveEntries failed: %v", err)
	}

	if _, err := svc.Add(context.Background(), testUser, "the newest entry"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	entries, _ := store.LoadEntries(testUser)
	if len(entries) != 30 {
		t.Fatalf("expected journal capped at 30, got %d", len(entries))
	}
	if entries[0].Entry != "entry 1" {
		t.Fatal("oldest entry must be dropped")
	}
	if entries[len(entries)-1].Entry != "the newest entry" {
		t.Fatal("newest entry must be kept")
	}
}
