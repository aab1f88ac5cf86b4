package tui

import "github.com/leonardotrapani/arrival/internal/onboarding"

type screenCopy struct {
	title string
	lines []string
}

var copyFor = map[onboarding.Screen]screenCopy{
	onboarding.ScreenArrival: {
		title: "You made it.",
		lines: []string{"Take a breath. This will only take a minute."},
	},
	onboarding.ScreenThesis: {
		title: "Software should listen.",
		lines: []string{
			"Most tools wait for you to learn their language.",
			"This one learns yours.",
		},
	},
	onboarding.ScreenWhy: {
		title: "Why we built this",
		lines: []string{
			"Because the best conversations don't start with a form.",
			"They start with hello.",
		},
	},
	onboarding.ScreenAesthetic: {
		title: "Pick a feel",
		lines: []string{"You can change it later."},
	},
	onboarding.ScreenCapabilities: {
		title: "What it can do",
		lines: []string{
			"Answer in your voice or in text.",
			"Remember what matters to you.",
			"Get out of the way when you're busy.",
		},
	},
	onboarding.ScreenIntent: {
		title: "What brings you here?",
		lines: []string{"No wrong answers."},
	},
	onboarding.ScreenIntegrations: {
		title: "Plays well with others",
		lines: []string{"Calendars, inboxes and the tools you already use connect in a click."},
	},
	onboarding.ScreenVoice: {
		title: "Say hello",
		lines: []string{"Talk or type. It will answer out loud."},
	},
	onboarding.ScreenHonesty: {
		title: "A promise",
		lines: []string{
			"It will tell you when it doesn't know.",
			"Your recordings stay on this machine.",
		},
	},
	onboarding.ScreenEntry: {
		title: "Welcome in.",
	},
}

var aestheticLabels = map[onboarding.Aesthetic][2]string{
	onboarding.AestheticClean: {"Clean", "Calm blues, lots of room"},
	onboarding.AestheticWarm:  {"Warm", "Sunset oranges and ambers"},
	onboarding.AestheticDark:  {"Dark", "Quiet greys, easy on the eyes"},
	onboarding.AestheticVivid: {"Vivid", "Loud pinks and neon cyan"},
}

var intentLabels = map[onboarding.Intent][2]string{
	onboarding.IntentCuriosity:     {"Just curious", "Looking around"},
	onboarding.IntentHiring:        {"Hiring", "Looking for people"},
	onboarding.IntentCollaboration: {"Collaborating", "Building something together"},
	onboarding.IntentInspiration:   {"Inspiration", "Looking for ideas"},
}
