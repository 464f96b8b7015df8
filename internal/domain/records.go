package domain

import "time"

// MoodRecord is one detected emotion, stamped with the local date and time.
type MoodRecord struct {
	Emotion Emotion `json:"emotion"`
	Date    string  `json:"date"` // "02 Jan 2006"
	Time    string  `json:"time"` // "15:04"
}

// JournalEntry is one analysed journal submission.
type JournalEntry struct {
	Date            string  `json:"date"` // "02 Jan 2006, 15:04"
	Entry           string  `json:"entry"`
	DominantEmotion Emotion `json:"dominant_emotion"`
	Patterns        string  `json:"patterns"`
	Reflection      string  `json:"reflection"`
	Encouragement   string  `json:"encouragement"`
}

// CheckInStatus is the outcome of a single goal check-in.
type CheckInStatus string

const (
	CheckInDone    CheckInStatus = "done"
	CheckInPartial CheckInStatus = "partial"
	CheckInMissed  CheckInStatus = "missed"
)

// ParseCheckInStatus validates a raw status string.
func ParseCheckInStatus(s string) (CheckInStatus, bool) {
	switch CheckInStatus(s) {
	case CheckInDone, CheckInPartial, CheckInMissed:
		return CheckInStatus(s), true
	}
	return "", false
}

// GoalCheckIn records one day's outcome against a goal.
type GoalCheckIn struct {
	Date   string        `json:"date"` // "02 Jan 2006"
	Status CheckInStatus `json:"status"`
}

// Goal is a 7-day wellbeing goal with its check-in history. The streak
// counts consecutive "done" check-ins and resets on "missed".
type Goal struct {
	ID        string        `json:"id"`
	Text      string        `json:"goal"`
	Created   time.Time     `json:"created"`
	Deadline  time.Time     `json:"deadline"`
	CheckIns  []GoalCheckIn `json:"checkins"`
	Completed bool          `json:"completed"`
	Streak    int           `json:"streak"`
}

// ProfileSnapshot is the regenerated mental-health profile. Each
// regeneration fully replaces the previous snapshot.
type ProfileSnapshot struct {
	Triggers     string `json:"triggers"`
	Strengths    string `json:"strengths"`
	SupportStyle string `json:"support_style"`
	Growth       string `json:"growth"`
	Message      string `json:"message"`
	GeneratedAt  string `json:"generated_at"` // "02 Jan 2006"
}
