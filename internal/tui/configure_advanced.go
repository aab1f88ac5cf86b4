package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/leonardotrapani/arrival/internal/config"
)

// durationField binds a huh input to a duration setting
type durationField struct {
	title     string
	desc      string
	target    *time.Duration
	allowZero bool
	text      string
}

func (f *durationField) input() *huh.Input {
	f.text = f.target.String()
	return huh.NewInput().
		Title(f.title).
		Description(f.desc).
		Value(&f.text).
		Validate(validateDuration(f.allowZero))
}

func (f *durationField) apply() {
	*f.target = parseDuration(f.text)
}

// editTiming edits how long each timed screen stays up
func editTiming(cfg *config.Config) error {
	t := &cfg.Timing
	fields := []*durationField{
		{title: "Arrival", desc: "The first screen", target: &t.Arrival},
		{title: "Thesis", target: &t.Thesis},
		{title: "Why", target: &t.Why},
		{title: "Capabilities", target: &t.Capabilities},
		{title: "Integrations", target: &t.Integrations},
		{title: "Honesty", desc: "The screen before the last one", target: &t.Honesty},
		{title: "After a choice", desc: "Pause after an aesthetic or intent pick. 0 advances right away", target: &t.ChoiceAdvance, allowZero: true},
	}
	return runDurationForm(fields)
}

// editPlayback edits the audio player and the reveal pacing
func editPlayback(cfg *config.Config) error {
	command := cfg.Playback.Command
	args := strings.Join(cfg.Playback.Args, " ")

	playerForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Player Command").
				Description("Reads audio from stdin. Empty: no sound, the reply is revealed on a timer").
				Placeholder("ffplay").
				Value(&command),
			huh.NewInput().
				Title("Player Arguments").
				Description("Space separated").
				Placeholder("-nodisp -autoexit -loglevel quiet -").
				Value(&args),
		),
	).WithTheme(getTheme())

	if err := playerForm.Run(); err != nil {
		return err
	}

	cfg.Playback.Command = strings.TrimSpace(command)
	cfg.Playback.Args = strings.Fields(args)
	if cfg.Playback.Command == "" {
		cfg.Playback.Args = nil
	}

	p := &cfg.Playback
	c := &cfg.Conversation
	fields := []*durationField{
		{title: "Typewriter Interval", desc: "Delay between revealed characters. 0 shows the reply at once", target: &p.TypewriterInterval, allowZero: true},
		{title: "Silent Time Per Character", desc: "How long a reply stays up when it cannot be played", target: &p.FallbackPerRune, allowZero: true},
		{title: "Silent Padding", target: &p.FallbackPadding, allowZero: true},
		{title: "Sending Delay", target: &c.SendingDelay, allowZero: true},
		{title: "Thinking Delay", target: &c.ThinkingDelay, allowZero: true},
		{title: "Settle Delay", desc: "Pause after the reply before moving on", target: &c.SettleDelay, allowZero: true},
	}
	return runDurationForm(fields)
}

func runDurationForm(fields []*durationField) error {
	var inputs []huh.Field
	for _, f := range fields {
		inputs = append(inputs, f.input())
	}

	form := huh.NewForm(huh.NewGroup(inputs...)).WithTheme(getTheme())
	if err := form.Run(); err != nil {
		return err
	}

	for _, f := range fields {
		f.apply()
	}
	return nil
}
