// Package firestore persists every record family as one document per
// user, written whole on each save (last write wins, no partial merges).
package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/mindmate/internal/domain"
)

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store for the given project.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) userDoc(family string, userID domain.UserID) *firestore.DocumentRef {
	return s.client.Collection(family).Doc(string(userID))
}

// getDoc reads one per-user document into out. A missing document is not
// an error: it reads as "no data yet" and out is left untouched.
func (s *Store) getDoc(family string, userID domain.UserID, out any) error {
	ctx := context.Background()

	snap, err := s.userDoc(family, userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return fmt.Errorf("firestore get %s: %w", family, err)
	}
	if err := snap.DataTo(out); err != nil {
		return fmt.Errorf("firestore decode %s: %w", family, err)
	}
	return nil
}

func (s *Store) setDoc(family string, userID domain.UserID, doc any) error {
	ctx := context.Background()

	if _, err := s.userDoc(family, userID).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore set %s: %w", family, err)
	}
	return nil
}

// ─────────────────────────────────────────
// Firestore document types
// ─────────────────────────────────────────

type userDoc struct {
	Name     string `firestore:"name"`
	Email    string `firestore:"email"`
	Age      int    `firestore:"age"`
	AgeGroup string `firestore:"age_group"`
	LastSeen string `firestore:"last_seen"`
}

type chatMessageDoc struct {
	Role      string    `firestore:"role"`
	Content   string    `firestore:"content"`
	Emotion   string    `firestore:"emotion"`
	CreatedAt time.Time `firestore:"created_at"`
}

type chatDoc struct {
	Messages []chatMessageDoc `firestore:"messages"`
}

type moodDoc struct {
	Entries []moodEntryDoc `firestore:"entries"`
}

type moodEntryDoc struct {
	Emotion string `firestore:"emotion"`
	Date    string `firestore:"date"`
	Time    string `firestore:"time"`
}

type memoryDoc struct {
	Summaries []string `firestore:"summaries"`
}

type journalDoc struct {
	Entries []journalEntryDoc `firestore:"entries"`
}

type journalEntryDoc struct {
	Date            string `firestore:"date"`
	Entry           string `firestore:"entry"`
	DominantEmotion string `firestore:"dominant_emotion"`
	Patterns        string `firestore:"patterns"`
	Reflection      string `firestore:"reflection"`
	Encouragement   string `firestore:"encouragement"`
}

type goalsDoc struct {
	Goals []goalDoc `firestore:"goals"`
}

type goalDoc struct {
	ID        string       `firestore:"id"`
	Text      string       `firestore:"goal"`
	Created   time.Time    `firestore:"created"`
	Deadline  time.Time    `firestore:"deadline"`
	CheckIns  []checkInDoc `firestore:"checkins"`
	Completed bool         `firestore:"completed"`
	Streak    int          `firestore:"streak"`
}

type checkInDoc struct {
	Date   string `firestore:"date"`
	Status string `firestore:"status"`
}

type profileSnapshotDoc struct {
	Triggers     string `firestore:"triggers"`
	Strengths    string `firestore:"strengths"`
	SupportStyle string `firestore:"support_style"`
	Growth       string `firestore:"growth"`
	Message      string `firestore:"message"`
	GeneratedAt  string `firestore:"generated_at"`
}

// ─────────────────────────────────────────
// UserStore implementation
// ─────────────────────────────────────────

func (s *Store) GetUser(userID domain.UserID) (domain.UserProfile, error) {
	var doc userDoc
	if err := s.getDoc("users", userID, &doc); err != nil {
		return domain.UserProfile{}, err
	}
	return domain.UserProfile{
		Name:     doc.Name,
		Email:    doc.Email,
		Age:      doc.Age,
		AgeGroup: doc.AgeGroup,
		LastSeen: doc.LastSeen,
	}, nil
}

func (s *Store) SaveUser(userID domain.UserID, profile domain.UserProfile) error {
	return s.setDoc("users", userID, userDoc{
		Name:     profile.Name,
		Email:    profile.Email,
		Age:      profile.Age,
		AgeGroup: profile.AgeGroup,
		LastSeen: profile.LastSeen,
	})
}

func (s *Store) UpdateLastSeen(userID domain.UserID, date string) error {
	ctx := context.Background()

	_, err := s.userDoc("users", userID).Set(ctx, map[string]any{
		"last_seen": date,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("firestore update last_seen: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────
// ChatStore implementation
// ─────────────────────────────────────────

func (s *Store) LoadChat(userID domain.UserID) ([]domain.ChatMessage, error) {
	var doc chatDoc
	if err := s.getDoc("chats", userID, &doc); err != nil {
		return nil, err
	}

	out := make([]domain.ChatMessage, 0, len(doc.Messages))
	for _, m := range doc.Messages {
		out = append(out, domain.ChatMessage{
			Role:      domain.Role(m.Role),
			Content:   m.Content,
			Emotion:   domain.Emotion(m.Emotion),
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}

func (s *Store) SaveChat(userID domain.UserID, messages []domain.ChatMessage) error {
	doc := chatDoc{Messages: make([]chatMessageDoc, 0, len(messages))}
	for _, m := range messages {
		doc.Messages = append(doc.Messages, chatMessageDoc{
			Role:      string(m.Role),
			Content:   m.Content,
			Emotion:   string(m.Emotion),
			CreatedAt: m.CreatedAt,
		})
	}
	return s.setDoc("chats", userID, doc)
}

// ─────────────────────────────────────────
// MoodStore implementation
// ─────────────────────────────────────────

func (s *Store) LoadMoods(userID domain.UserID) ([]domain.MoodRecord, error) {
	var doc moodDoc
	if err := s.getDoc("moods", userID, &doc); err != nil {
		return nil, err
	}

	out := make([]domain.MoodRecord, 0, len(doc.Entries))
	for _, m := range doc.Entries {
		out = append(out, domain.MoodRecord{
			Emotion: domain.Emotion(m.Emotion),
			Date:    m.Date,
			Time:    m.Time,
		})
	}
	return out, nil
}

func (s *Store) SaveMoods(userID domain.UserID, moods []domain.MoodRecord) error {
	doc := moodDoc{Entries: make([]moodEntryDoc, 0, len(moods))}
	for _, m := range moods {
		doc.Entries = append(doc.Entries, moodEntryDoc{
			Emotion: string(m.Emotion),
			Date:    m.Date,
			Time:    m.Time,
		})
	}
	return s.setDoc("moods", userID, doc)
}

// ─────────────────────────────────────────
// MemoryStore implementation
// ─────────────────────────────────────────

func (s *Store) LoadBullets(userID domain.UserID) ([]string, error) {
	var doc memoryDoc
	if err := s.getDoc("memory", userID, &doc); err != nil {
		return nil, err
	}
	return doc.Summaries, nil
}

func (s *Store) SaveBullets(userID domain.UserID, bullets []string) error {
	if bullets == nil {
		bullets = []string{}
	}
	return s.setDoc("memory", userID, memoryDoc{Summaries: bullets})
}

// ─────────────────────────────────────────
// JournalStore implementation
// ─────────────────────────────────────────

func (s *Store) LoadEntries(userID domain.UserID) ([]domain.JournalEntry, error) {
	var doc journalDoc
	if err := s.getDoc("journal", userID, &doc); err != nil {
		return nil, err
	}

	out := make([]domain.JournalEntry, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		out = append(out, domain.JournalEntry{
			Date:            e.Date,
			Entry:           e.Entry,
			DominantEmotion: domain.Emotion(e.DominantEmotion),
			Patterns:        e.Patterns,
			Reflection:      e.Reflection,
			Encouragement:   e.Encouragement,
		})
	}
	return out, nil
}

func (s *Store) SaveEntries(userID domain.UserID, entries []domain.JournalEntry) error {
	doc := journalDoc{Entries: make([]journalEntryDoc, 0, len(entries))}
	for _, e := range entries {
		doc.Entries = append(doc.Entries, journalEntryDoc{
			Date:            e.Date,
			Entry:           e.Entry,
			DominantEmotion: string(e.DominantEmotion),
			Patterns:        e.Patterns,
			Reflection:      e.Reflection,
			Encouragement:   e.Encouragement,
		})
	}
	return s.setDoc("journal", userID, doc)
}

// ─────────────────────────────────────────
// GoalStore implementation
// ─────────────────────────────────────────

func (s *Store) LoadGoals(userID domain.UserID) ([]domain.Goal, error) {
	var doc goalsDoc
	if err := s.getDoc("goals", userID, &doc); err != nil {
		return nil, err
	}

	out := make([]domain.Goal, 0, len(doc.Goals))
	for _, g := range doc.Goals {
		checkIns := make([]domain.GoalCheckIn, 0, len(g.CheckIns))
		for _, c := range g.CheckIns {
			checkIns = append(checkIns, domain.GoalCheckIn{
				Date:   c.Date,
				Status: domain.CheckInStatus(c.Status),
			})
		}
		out = append(out, domain.Goal{
			ID:        g.ID,
			Text:      g.Text,
			Created:   g.Created,
			Deadline:  g.Deadline,
			CheckIns:  checkIns,
			Completed: g.Completed,
			Streak:    g.Streak,
		})
	}
	return out, nil
}

func (s *Store) SaveGoals(userID domain.UserID, goals []domain.Goal) error {
	doc := goalsDoc{Goals: make([]goalDoc, 0, len(goals))}
	for _, g := range goals {
		checkIns := make([]checkInDoc, 0, len(g.CheckIns))
		for _, c := range g.CheckIns {
			checkIns = append(checkIns, checkInDoc{
				Date:   c.Date,
				Status: string(c.Status),
			})
		}
		doc.Goals = append(doc.Goals, goalDoc{
			ID:        g.ID,
			Text:      g.Text,
			Created:   g.Created,
			Deadline:  g.Deadline,
			CheckIns:  checkIns,
			Completed: g.Completed,
			Streak:    g.Streak,
		})
	}
	return s.setDoc("goals", userID, doc)
}

// ─────────────────────────────────────────
// ProfileStore implementation
// ─────────────────────────────────────────

func (s *Store) LoadSnapshot(userID domain.UserID) (domain.ProfileSnapshot, error) {
	var doc profileSnapshotDoc
	if err := s.getDoc("mental_profile", userID, &doc); err != nil {
		return domain.ProfileSnapshot{}, err
	}
	return domain.ProfileSnapshot{
		Triggers:     doc.Triggers,
		Strengths:    doc.Strengths,
		SupportStyle: doc.SupportStyle,
		Growth:       doc.Growth,
		Message:      doc.Message,
		GeneratedAt:  doc.GeneratedAt,
	}, nil
}

func (s *Store) SaveSnapshot(userID domain.UserID, snapshot domain.ProfileSnapshot) error {
	return s.setDoc("mental_profile", userID, profileSnapshotDoc{
		Triggers:     snapshot.Triggers,
		Strengths:    snapshot.Strengths,
		SupportStyle: snapshot.SupportStyle,
		Growth:       snapshot.Growth,
		Message:      snapshot.Message,
		GeneratedAt:  snapshot.GeneratedAt,
	})
}
