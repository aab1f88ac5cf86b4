// Package reply picks the assistant's first spoken answer. It is a local,
// deterministic choice driven by the visitor's declared intent and a few
// keywords in what they said.
package reply

import (
	"strings"
	"unicode"

	"github.com/leonardotrapani/arrival/internal/onboarding"
)

type topic struct {
	name     string
	keywords []string
	reply    string
}

// Checked in order; the first topic with a matching keyword wins.
var topics = []topic{
	{
		name:     "greeting",
		keywords: []string{"hello", "hi", "hey", "good morning", "good evening"},
		reply:    "Hello to you too. It is good to finally hear from you. Let's get you settled in.",
	},
	{
		name:     "work",
		keywords: []string{"work", "job", "hire", "hiring", "role", "team", "project"},
		reply:    "Work it is. I can walk you through what I've built and how I like to collaborate. Let's start there.",
	},
	{
		name:     "build",
		keywords: []string{"build", "make", "create", "idea", "design"},
		reply:    "I love a good idea. Tell me more as we go and we'll see what we can make together.",
	},
	{
		name:     "help",
		keywords: []string{"help", "how", "what", "why", "question"},
		reply:    "Good question. I'll do my best to answer it once you're inside. Everything is one step away.",
	},
	{
		name:     "thanks",
		keywords: []string{"thanks", "thank you", "cheers", "appreciate"},
		reply:    "You're very welcome. Thank you for taking the time to say hello.",
	},
}

var intentReplies = map[onboarding.Intent]string{
	onboarding.IntentCuriosity:     "Curiosity is the best reason to be here. Have a look around, nothing is off limits.",
	onboarding.IntentHiring:        "Thanks for considering me. I'll make it easy to see the work that matters most to you.",
	onboarding.IntentCollaboration: "I'd love to build something together. Let's find the place where our ideas overlap.",
	onboarding.IntentInspiration:   "I hope you leave with a spark. Take whatever is useful and make it your own.",
}

const defaultReply = "It's lovely to meet you. Come on in, I'll show you around."

// Generate returns the reply for an utterance. Keyword matches take
// precedence over the declared intent; with neither, a generic welcome is
// returned. An empty intent means the visitor skipped the question.
func Generate(intent onboarding.Intent, utterance string) string {
	if t := match(utterance); t != nil {
		return t.reply
	}
	if r, ok := intentReplies[intent]; ok {
		return r
	}
	return defaultReply
}

// Topic reports which keyword topic an utterance matched, or "".
func Topic(utterance string) string {
	if t := match(utterance); t != nil {
		return t.name
	}
	return ""
}

func match(utterance string) *topic {
	normalized := " " + strings.Join(tokenize(utterance), " ") + " "
	for i := range topics {
		for _, kw := range topics[i].keywords {
			if strings.Contains(normalized, " "+kw+" ") {
				return &topics[i]
			}
		}
	}
	return nil
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
