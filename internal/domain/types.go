package domain

import "time"

type UserID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Emotion is one of the fixed labels the emotion detector may return.
type Emotion string

const (
	EmotionAnxious  Emotion = "anxious"
	EmotionSad      Emotion = "sad"
	EmotionAngry    Emotion = "angry"
	EmotionLonely   Emotion = "lonely"
	EmotionHopeful  Emotion = "hopeful"
	EmotionStressed Emotion = "stressed"
	EmotionHappy    Emotion = "happy"
	EmotionNeutral  Emotion = "neutral"
)

// ValidEmotions lists every label the emotion detector is allowed to emit.
var ValidEmotions = []Emotion{
	EmotionAnxious, EmotionSad, EmotionAngry, EmotionLonely,
	EmotionHopeful, EmotionStressed, EmotionHappy, EmotionNeutral,
}

// ParseEmotion maps s to a known emotion, falling back to neutral.
func ParseEmotion(s string) Emotion {
	for _, e := range ValidEmotions {
		if string(e) == s {
			return e
		}
	}
	return EmotionNeutral
}

type Timestamp = time.Time
