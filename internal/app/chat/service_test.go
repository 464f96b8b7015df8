package chat_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/PabloGalante/mindmate/internal/adapters/llm"
	"github.com/PabloGalante/mindmate/internal/adapters/storage/memory"
	"github.com/PabloGalante/mindmate/internal/app/chat"
	"github.com/PabloGalante/mindmate/internal/app/safeguard"
	"github.com/PabloGalante/mindmate/internal/domain"
)

const testUser = domain.UserID("test-user")

func newService(mock *llm.MockClient) (*chat.Service, *memory.Store) {
	store := memory.NewStore()
	_ = store.SaveUser(testUser, domain.UserProfile{Name: "Priya", Age: 24, AgeGroup: "adult"})
	return chat.NewService(mock, store, store, store, store), store
}

func TestCrisisMessageShortCircuits(t *testing.T) {
	mock := llm.NewMockClient()
	svc, store := newService(mock)

	out, err := svc.SendMessage(context.Background(), chat.SendMessageInput{
		UserID: testUser,
		Text:   "I want to kill myself",
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if !out.Intercepted {
		t.Fatal("expected safeguard interception")
	}
	if out.Reply.Content != safeguard.CrisisResponse() {
		t.Fatalf("expected crisis response, got %q", out.Reply.Content)
	}
	if mock.Calls != 0 {
		t.Fatalf("crisis messages must never reach the completion service, got %d calls", mock.Calls)
	}

	history, _ := store.LoadChat(testUser)
	if len(history) != 2 {
		t.Fatalf("expected the exchange in the timeline, got %d turns", len(history))
	}
	moods, _ := store.LoadMoods(testUser)
	if len(moods) != 0 {
		t.Fatal("intercepted messages must not record a mood")
	}
}

func TestOffTopicMessageRedirects(t *testing.T) {
	mock := llm.NewMockClient()
	svc, _ := newService(mock)

	out, err := svc.SendMessage(context.Background(), chat.SendMessageInput{
		UserID: testUser,
		Text:   "what is the capital of France",
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if !out.Intercepted || out.Reply.Content != safeguard.OffTopicResponse() {
		t.Fatalf("expected off-topic redirection, got %q", out.Reply.Content)
	}
	if mock.Calls != 0 {
		t.Fatal("off-topic messages must never reach the completion service")
	}
}

func TestChatTurnRecordsMoodAndReply(t *testing.T) {
	mock := llm.NewMockClient("sad", "That sounds heavy. What happened?")
	svc, store := newService(mock)

	out, err := svc.SendMessage(context.Background(), chat.SendMessageInput{
		UserID: testUser,
		Text:   "I had a really rough week",
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if out.UserMessage.Emotion != domain.EmotionSad {
		t.Fatalf("expected detected emotion sad, got %q", out.UserMessage.Emotion)
	}
	if out.Reply.Content != "That sounds heavy. What happened?" {
		t.Fatalf("unexpected reply: %q", out.Reply.Content)
	}

	moods, _ := store.LoadMoods(testUser)
	if len(moods) != 1 || moods[0].Emotion != domain.EmotionSad {
		t.Fatalf("expected one sad mood record, got %+v", moods)
	}

	// emotion detection + chat reply
	if mock.Calls != 2 {
		t.Fatalf("expected 2 completion calls, got %d", mock.Calls)
	}
	if !strings.Contains(mock.Requests[1].System, "MindMate") {
		t.Fatal("chat reply must carry the persona prompt")
	}
}

func TestMoodRetentionCap(t *testing.T) {
	mock := llm.NewMockClient("happy", "Love that for you!")
	svc, store := newService(mock)

	seed := make([]domain.MoodRecord, 30)
	for i := range seed {
		seed[i] = domain.MoodRecord{Emotion: domain.EmotionNeutral, Date: fmt.Sprintf("day-%d", i)}
	}
	if err := store.SaveMoods(testUser, seed); err != nil {
		t.Fatalf("SaveMoods failed: %v", err)
	}

	if _, err := svc.SendMessage(context.Background(), chat.SendMessageInput{
		UserID: testUser,
		Text:   "today was actually great",
	}); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	moods, _ := store.LoadMoods(testUser)
	if len(moods) != 30 {
		t.Fatalf("expected mood timeline capped at 30, got %d", len(moods))
	}
	if moods[len(moods)-1].Emotion != domain.EmotionHappy {
		t.Fatal("newest mood must be kept")
	}
	if moods[0].Date != "day-1" {
		t.Fatal("oldest mood must be dropped")
	}
}

func TestCompletionFailureFallsBack(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Err = errors.New("service down")
	svc, store := newService(mock)

	out, err := svc.SendMessage(context.Background(), chat.SendMessageInput{
		UserID: testUser,
		Text:   "feeling a bit off today",
	})
	if err != nil {
		t.Fatalf("completion failures must not surface: %v", err)
	}
	if out.UserMessage.Emotion != domain.EmotionNeutral {
		t.Fatal("failed emotion detection must read as neutral")
	}
	if !strings.Contains(out.Reply.Content, "still here with you") {
		t.Fatalf("expected fallback reply, got %q", out.Reply.Content)
	}

	history, _ := store.LoadChat(testUser)
	if len(history) != 2 {
		t.Fatal("the exchange must still be persisted")
	}
}

func TestClearMinesMemoryBullets(t *testing.T) {
	mock := llm.NewMockClient("sad", "reply1", "happy", "reply2",
		"• Worried about upcoming exams\n- Feels supported by their sister")
	svc, store := newService(mock)

	seed := make([]string, 19)
	for i := range seed {
		seed[i] = fmt.Sprintf("bullet %d", i)
	}
	if err := store.SaveBullets(testUser, seed); err != nil {
		t.Fatalf("SaveBullets failed: %v", err)
	}

	ctx := context.Background()
	for _, text := range []string{"exams are stressing me out", "my sister helped me study"} {
		if _, err := svc.SendMessage(ctx, chat.SendMessageInput{UserID: testUser, Text: text}); err != nil {
			t.Fatalf("SendMessage failed: %v", err)
		}
	}

	if err := svc.Clear(ctx, testUser); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	history, _ := store.LoadChat(testUser)
	if len(history) != 0 {
		t.Fatalf("expected empty timeline after clear, got %d turns", len(history))
	}

	bullets, _ := store.LoadBullets(testUser)
	if len(bullets) != 20 {
		t.Fatalf("expected bullets capped at 20, got %d", len(bullets))
	}
	if bullets[len(bullets)-1] != "Feels supported by their sister" {
		t.Fatalf("expected cleaned newest bullet, got %q", bullets[len(bullets)-1])
	}
	if bullets[0] != "bullet 1" {
		t.Fatal("oldest bullet must be dropped")
	}
}

func TestShortChatIsNotMined(t *testing.T) {
	mock := llm.NewMockClient("neutral", "Tell me more.")
	svc, store := newService(mock)

	ctx := context.Background()
	if _, err := svc.SendMessage(ctx, chat.SendMessageInput{UserID: testUser, Text: "hi"}); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	calls := mock.Calls
	if err := svc.Clear(ctx, testUser); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if mock.Calls != calls {
		t.Fatal("a 2-turn chat must not trigger memory extraction")
	}
	bullets, _ := store.LoadBullets(testUser)
	if len(bullets) != 0 {
		t.Fatalf("expected no bullets, got %v", bullets)
	}
}

func TestLogoutStampsLastSeen(t *testing.T) {
	mock := llm.NewMockClient()
	svc, store := newService(mock)

	if err := svc.Logout(context.Background(), testUser); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	profile, _ := store.GetUser(testUser)
	if profile.LastSeen == "" {
		t.Fatal("expected last-seen date to be stamped")
	}
	if days := svc.DaysSinceLastVisit(testUser); days != 0 {
		t.Fatalf("expected 0 days since last visit, got %d", days)
	}
}
