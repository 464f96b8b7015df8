// Package safeguard pre-filters open-ended chat messages before they can
// reach the completion service. It is a deliberately conservative
// substring match over two fixed keyword lists, crisis checked first.
package safeguard

import "strings"

var crisisKeywords = []string{
	"suicide", "suicidal", "kill myself", "end my life",
	"want to die", "wish i was dead", "no reason to live",
	"better off dead", "better off without me",
	"self harm", "self-harm", "hurt myself", "cutting myself",
	"overdose", "hang myself", "end it all", "can't go on",
}

const crisisResponse = `I hear you, and I'm really glad you're talking right now. 💙

What you're feeling is real — and you don't have to face this alone.

Please reach out to someone who can truly help you:

🆘 **iCall (India):** 9152987821
🆘 **Vandrevala Foundation (24/7):** 1860-2662-345
🆘 **AASRA:** 9820466627
🆘 **International:** https://www.iasp.info/resources/Crisis_Centres/

You matter more than you know. Please reach out to them right now. 💙`

var offTopicKeywords = []string{
	"write code", "write a program", "solve this math",
	"what is the capital", "stock price", "give me a recipe",
	"translate this", "play a game", "who won",
}

const offTopicResponse = "I'm MindMate — I'm here just for your emotional wellbeing 😊 " +
	"I'm not built for that kind of request, but I'm all ears " +
	"if there's something on your mind you'd like to talk about."

// IsCrisis reports whether the message contains a crisis keyword.
func IsCrisis(message string) bool {
	msg := strings.ToLower(message)
	for _, k := range crisisKeywords {
		if strings.Contains(msg, k) {
			return true
		}
	}
	return false
}

// IsOffTopic reports whether the message is clearly off-topic.
func IsOffTopic(message string) bool {
	msg := strings.ToLower(message)
	for _, k := range offTopicKeywords {
		if strings.Contains(msg, k) {
			return true
		}
	}
	return false
}

func CrisisResponse() string {
	return crisisResponse
}

func OffTopicResponse() string {
	return offTopicResponse
}

// Screen applies both checks in priority order. It returns the canned
// response and true when the message must not reach the model.
func Screen(message string) (string, bool) {
	if IsCrisis(message) {
		return crisisResponse, true
	}
	if IsOffTopic(message) {
		return offTopicResponse, true
	}
	return "", false
}
