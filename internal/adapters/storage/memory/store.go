// Package memory is a non-persistent implementation of every store port,
// suitable for local mode and tests.
package memory

import (
	"sync"

	"github.com/PabloGalante/mindmate/internal/domain"
)

// Store keeps every record family in maps keyed by user id. Like the
// remote document store, a missing key reads back as the empty value.
type Store struct {
	mu        sync.RWMutex
	users     map[domain.UserID]domain.UserProfile
	chats     map[domain.UserID][]domain.ChatMessage
	moods     map[domain.UserID][]domain.MoodRecord
	bullets   map[domain.UserID][]string
	journal   map[domain.UserID][]domain.JournalEntry
	goals     map[domain.UserID][]domain.Goal
	snapshots map[domain.UserID]domain.ProfileSnapshot
}

func NewStore() *Store {
	return &Store{
		users:     make(map[domain.UserID]domain.UserProfile),
		chats:     make(map[domain.UserID][]domain.ChatMessage),
		moods:     make(map[domain.UserID][]domain.MoodRecord),
		bullets:   make(map[domain.UserID][]string),
		journal:   make(map[domain.UserID][]domain.JournalEntry),
		goals:     make(map[domain.UserID][]domain.Goal),
		snapshots: make(map[domain.UserID]domain.ProfileSnapshot),
	}
}

func (s *Store) GetUser(userID domain.UserID) (domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[userID], nil
}

func (s *Store) SaveUser(userID domain.UserID, profile domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = profile
	return nil
}

func (s *Store) UpdateLastSeen(userID domain.UserID, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile := s.users[userID]
	profile.LastSeen = date
	s.users[userID] = profile
	return nil
}

func (s *Store) LoadChat(userID domain.UserID) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.chats[userID]), nil
}

func (s *Store) SaveChat(userID domain.UserID, messages []domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats[userID] = copySlice(messages)
	return nil
}

func (s *Store) LoadMoods(userID domain.UserID) ([]domain.MoodRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.moods[userID]), nil
}

func (s *Store) SaveMoods(userID domain.UserID, moods []domain.MoodRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moods[userID] = copySlice(moods)
	return nil
}

func (s *Store) LoadBullets(userID domain.UserID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.bullets[userID]), nil
}

func (s *Store) SaveBullets(userID domain.UserID, bullets []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bullets[userID] = copySlice(bullets)
	return nil
}

func (s *Store) LoadEntries(userID domain.UserID) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.journal[userID]), nil
}

func (s *Store) SaveEntries(userID domain.UserID, entries []domain.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journal[userID] = copySlice(entries)
	return nil
}

func (s *Store) LoadGoals(userID domain.UserID) ([]domain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.goals[userID]), nil
}

func (s *Store) SaveGoals(userID domain.UserID, goals []domain.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[userID] = copySlice(goals)
	return nil
}

func (s *Store) LoadSnapshot(userID domain.UserID) (domain.ProfileSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshots[userID], nil
}

func (s *Store) SaveSnapshot(userID domain.UserID, snapshot domain.ProfileSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[userID] = snapshot
	return nil
}

func copySlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
