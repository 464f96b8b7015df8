package domain

// ChatMessage is a single turn in a conversation timeline, either the
// open-ended chat or a guided therapy session. Ordering is chronological
// and meaningful.
type ChatMessage struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Emotion   Emotion   `json:"emotion,omitempty"` // set on user turns of the open chat
	CreatedAt Timestamp `json:"created_at,omitempty"`
}

// UserProfile holds the per-user record written at signup. Authentication
// itself is out of scope; the API only needs the stable user id plus the
// name and age used to shape prompts.
type UserProfile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Age      int    `json:"age"`
	AgeGroup string `json:"age_group"`
	LastSeen string `json:"last_seen,omitempty"` // YYYY-MM-DD
}
