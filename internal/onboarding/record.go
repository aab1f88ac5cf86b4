package onboarding

import (
	"time"

	"github.com/leonardotrapani/arrival/internal/recording"
)

type Screen string

const (
	ScreenArrival      Screen = "arrival"
	ScreenThesis       Screen = "thesis"
	ScreenWhy          Screen = "why"
	ScreenAesthetic    Screen = "aesthetic"
	ScreenCapabilities Screen = "capabilities"
	ScreenIntent       Screen = "intent"
	ScreenIntegrations Screen = "integrations"
	ScreenVoice        Screen = "voice"
	ScreenHonesty      Screen = "honesty"
	ScreenEntry        Screen = "entry"
)

// DefaultOrder is the reference onboarding flow.
var DefaultOrder = []Screen{
	ScreenArrival,
	ScreenThesis,
	ScreenWhy,
	ScreenAesthetic,
	ScreenCapabilities,
	ScreenIntent,
	ScreenIntegrations,
	ScreenVoice,
	ScreenHonesty,
	ScreenEntry,
}

type Aesthetic string

const (
	AestheticClean Aesthetic = "clean"
	AestheticWarm  Aesthetic = "warm"
	AestheticDark  Aesthetic = "dark"
	AestheticVivid Aesthetic = "vivid"
)

var Aesthetics = []Aesthetic{AestheticClean, AestheticWarm, AestheticDark, AestheticVivid}

func (a Aesthetic) Valid() bool {
	for _, v := range Aesthetics {
		if a == v {
			return true
		}
	}
	return false
}

type Intent string

const (
	IntentCuriosity     Intent = "curiosity"
	IntentHiring        Intent = "hiring"
	IntentCollaboration Intent = "collaboration"
	IntentInspiration   Intent = "inspiration"
)

var Intents = []Intent{IntentCuriosity, IntentHiring, IntentCollaboration, IntentInspiration}

func (i Intent) Valid() bool {
	for _, v := range Intents {
		if i == v {
			return true
		}
	}
	return false
}

// Record is the per-visitor onboarding data. An empty Aesthetic or Intent
// means unset.
type Record struct {
	Aesthetic           Aesthetic
	Intent              Intent
	VoiceGreeting       *recording.Artifact
	OnboardingCompleted bool
	FirstVisit          *time.Time
}

// State is what the render layer reads.
type State struct {
	Screen           Screen
	ScreenIndex      int
	TotalScreens     int
	Data             Record
	ReturningVisitor bool
	Hydrated         bool
}

func (s State) IsLast() bool {
	return s.ScreenIndex == s.TotalScreens-1
}
