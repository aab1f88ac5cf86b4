package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leonardotrapani/arrival/internal/notify"
	"github.com/leonardotrapani/arrival/internal/onboarding"
	"github.com/leonardotrapani/arrival/internal/playback"
	"github.com/leonardotrapani/arrival/internal/recording"
	"github.com/leonardotrapani/arrival/internal/reply"
	"github.com/leonardotrapani/arrival/internal/speech"
	"github.com/leonardotrapani/arrival/internal/transcriber"
)

type Phase string
type Mode string

const (
	PhaseInput        Phase = "input"
	PhaseSending      Phase = "sending"
	PhaseTranscribing Phase = "transcribing"
	PhaseResponding   Phase = "responding"
	PhasePlaying      Phase = "playing"
	PhaseFinishing    Phase = "finishing"
)

const (
	ModeVoice Mode = "voice"
	ModeText  Mode = "text"
)

var (
	ErrEmptyTranscript = errors.New("transcription returned no text")
	ErrNoRecording     = errors.New("nothing recorded yet")
)

// Capture is the part of recording.Capture the pipeline drives.
type Capture interface {
	IsRecording() bool
	StartRecording(ctx context.Context) error
	StopRecording() (*recording.Artifact, error)
	Artifact() *recording.Artifact
	ClearRecording()
}

// Deps are the collaborators of a pipeline. Capture may be nil when the
// environment has no microphone; only text mode then works.
type Deps struct {
	Capture     Capture
	Transcriber transcriber.Transcriber
	Synthesizer speech.Synthesizer
	Player      playback.Player
	Notifier    notify.Notifier

	// Intent returns the visitor's declared intent at reply time.
	Intent func() onboarding.Intent
	// OnSave receives the submitted artifact (nil for text or skip) and the
	// transcript once per interaction, right before OnAdvance.
	OnSave    func(artifact *recording.Artifact, transcript string)
	OnAdvance func()
	// OnChange is called after every state change, outside the lock.
	OnChange func(Snapshot)
}

// Snapshot is what the render layer paints.
type Snapshot struct {
	Phase         Phase
	Mode          Mode
	Recording     bool
	Text          string
	Transcript    string
	Reply         string
	Revealed      string
	Error         string
	Playing       bool
	Silent        bool // audio could not be played; reveal runs on a timer
	Provider      string
	CanResend     bool
	InteractionID string
}

type submission struct {
	artifact *recording.Artifact
	text     string
}

func (s submission) voice() bool { return s.artifact != nil }

// Pipeline drives one conversational interaction from utterance to advance.
// Each run carries a generation number; results from a run whose generation
// is no longer current are dropped.
type Pipeline struct {
	config Config
	deps   Deps

	mu            sync.Mutex
	phase         Phase
	mode          Mode
	text          string
	transcript    string
	reply         string
	revealed      string
	errMsg        string
	playing       bool
	silent        bool
	provider      string
	inFlight      bool
	advanced      bool
	gen           uint64
	interactionID string
	submitted     *recording.Artifact
	recStarting   bool
	cancel        context.CancelFunc
	closed        bool
	wg            sync.WaitGroup
}

func New(config Config, deps Deps) *Pipeline {
	if deps.Notifier == nil {
		deps.Notifier = notify.Nop{}
	}
	if deps.Player == nil {
		deps.Player = playback.Nop{}
	}
	mode := ModeVoice
	if deps.Capture == nil {
		mode = ModeText
	}
	return &Pipeline{
		config: config,
		deps:   deps,
		phase:  PhaseInput,
		mode:   mode,
	}
}

func (p *Pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Pipeline) snapshotLocked() Snapshot {
	rec := false
	if p.deps.Capture != nil {
		rec = p.deps.Capture.IsRecording()
	}
	return Snapshot{
		Phase:         p.phase,
		Mode:          p.mode,
		Recording:     rec,
		Text:          p.text,
		Transcript:    p.transcript,
		Reply:         p.reply,
		Revealed:      p.revealed,
		Error:         p.errMsg,
		Playing:       p.playing,
		Silent:        p.silent,
		Provider:      p.provider,
		CanResend:     p.phase == PhaseInput && !p.inFlight && p.submitted != nil,
		InteractionID: p.interactionID,
	}
}

// SetMode switches between voice and text input. Ignored outside the input
// phase or while a run is in flight.
func (p *Pipeline) SetMode(mode Mode) bool {
	p.mu.Lock()
	if p.closed || p.phase != PhaseInput || p.inFlight || p.mode == mode {
		p.mu.Unlock()
		return false
	}
	if mode == ModeVoice && p.deps.Capture == nil {
		p.mu.Unlock()
		return false
	}
	p.mode = mode
	p.errMsg = ""
	if mode == ModeText {
		p.submitted = nil
	}
	p.mu.Unlock()

	if mode == ModeText {
		p.discardRecording()
	}
	p.emit()
	return true
}

// SetText stores the text input buffer.
func (p *Pipeline) SetText(text string) {
	p.mu.Lock()
	if p.phase != PhaseInput {
		p.mu.Unlock()
		return
	}
	p.text = text
	p.mu.Unlock()
	p.emit()
}

// StartRecording begins voice capture for a new utterance.
func (p *Pipeline) StartRecording(ctx context.Context) error {
	p.mu.Lock()
	if p.deps.Capture == nil {
		p.mu.Unlock()
		return recording.ErrUnsupported
	}
	if p.closed || p.phase != PhaseInput || p.inFlight || p.mode != ModeVoice {
		p.mu.Unlock()
		return fmt.Errorf("cannot record in phase %s", p.phase)
	}
	if p.recStarting {
		p.mu.Unlock()
		return recording.ErrAlreadyRecording
	}
	p.recStarting = true
	p.errMsg = ""
	p.submitted = nil
	p.mu.Unlock()

	p.deps.Capture.ClearRecording()
	err := p.deps.Capture.StartRecording(ctx)

	p.mu.Lock()
	p.recStarting = false
	p.mu.Unlock()

	if errors.Is(err, recording.ErrStartCancelled) {
		return err
	}
	if err != nil {
		log.Printf("Pipeline: failed to start recording: %v", err)
		p.mu.Lock()
		p.errMsg = captureMessage(err)
		p.mu.Unlock()
		p.emit()
		return err
	}

	p.deps.Notifier.RecordingChanged(true)
	p.emit()
	return nil
}

// SubmitVoice stops the capture and submits the recording. It returns false
// when the submission was ignored.
func (p *Pipeline) SubmitVoice(ctx context.Context) bool {
	if !p.reserve(ModeVoice) {
		return false
	}

	artifact, err := p.takeArtifact()
	if err != nil {
		log.Printf("Pipeline: voice submission rejected: %v", err)
		p.mu.Lock()
		p.inFlight = false
		p.errMsg = captureMessage(err)
		p.mu.Unlock()
		p.emit()
		return false
	}

	p.launch(ctx, submission{artifact: artifact})
	return true
}

// SubmitText submits typed text. Blank text is ignored.
func (p *Pipeline) SubmitText(ctx context.Context, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if !p.reserve(ModeText) {
		return false
	}
	p.launch(ctx, submission{text: text})
	return true
}

// Resend re-submits the last recording after a failure.
func (p *Pipeline) Resend(ctx context.Context) bool {
	p.mu.Lock()
	artifact := p.submitted
	if artifact == nil || p.closed || p.phase != PhaseInput || p.inFlight {
		p.mu.Unlock()
		return false
	}
	p.inFlight = true
	p.mu.Unlock()

	p.launch(ctx, submission{artifact: artifact})
	return true
}

// Reset abandons the current interaction and returns to input from any
// phase.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	p.invalidateLocked()
	p.phase = PhaseInput
	p.text = ""
	p.transcript = ""
	p.reply = ""
	p.revealed = ""
	p.errMsg = ""
	p.playing = false
	p.silent = false
	p.provider = ""
	p.inFlight = false
	p.advanced = false
	p.submitted = nil
	p.interactionID = ""
	p.mu.Unlock()

	p.discardRecording()
	log.Printf("Pipeline: reset")
	p.emit()
}

// Skip bypasses the conversation: it saves a nil artifact and advances. It
// shares the at-most-once guard with the finishing phase.
func (p *Pipeline) Skip() bool {
	p.mu.Lock()
	if p.advanced || p.closed {
		p.mu.Unlock()
		return false
	}
	p.advanced = true
	p.invalidateLocked()
	p.playing = false
	p.mu.Unlock()

	p.discardRecording()
	log.Printf("Pipeline: skipped")
	p.save(nil, "")
	p.advance()
	return true
}

// Close cancels any running interaction and waits for it to exit.
func (p *Pipeline) Close() {
	p.mu.Lock()
	p.closed = true
	p.invalidateLocked()
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pipeline) invalidateLocked() {
	p.gen++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// reserve claims the in-flight guard for a new submission.
func (p *Pipeline) reserve(mode Mode) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.inFlight || p.phase != PhaseInput || p.advanced {
		log.Printf("Pipeline: submission ignored (phase=%s, inFlight=%v)", p.phase, p.inFlight)
		return false
	}
	if p.mode != mode {
		return false
	}
	p.inFlight = true
	return true
}

func (p *Pipeline) takeArtifact() (*recording.Artifact, error) {
	c := p.deps.Capture
	if c == nil {
		return nil, recording.ErrUnsupported
	}
	if c.IsRecording() {
		p.deps.Notifier.RecordingChanged(false)
		return c.StopRecording()
	}
	if a := c.Artifact(); a != nil {
		return a, nil
	}
	return nil, ErrNoRecording
}

func (p *Pipeline) launch(parent context.Context, sub submission) {
	ctx, cancel := context.WithCancel(parent)

	p.mu.Lock()
	if p.closed {
		p.inFlight = false
		p.mu.Unlock()
		cancel()
		return
	}
	p.gen++
	gen := p.gen
	p.cancel = cancel
	p.interactionID = uuid.NewString()
	p.errMsg = ""
	p.transcript = ""
	p.reply = ""
	p.revealed = ""
	p.provider = ""
	p.silent = false
	p.submitted = sub.artifact
	if !sub.voice() {
		p.text = ""
	}
	id := p.interactionID
	p.wg.Add(1)
	p.mu.Unlock()

	log.Printf("Pipeline: [%s] starting %s interaction", shortID(id), modeOf(sub))
	go func() {
		defer p.wg.Done()
		defer cancel()
		p.run(ctx, gen, sub)
	}()
}

func (p *Pipeline) run(ctx context.Context, gen uint64, sub submission) {
	if !p.enter(gen, PhaseSending) {
		return
	}
	if err := sleep(ctx, p.config.SendingDelay); err != nil {
		return
	}

	utterance := sub.text
	if sub.voice() {
		if !p.enter(gen, PhaseTranscribing) {
			return
		}
		p.deps.Notifier.Transcribing()
		if p.deps.Transcriber == nil {
			p.fail(ctx, gen, errors.New("no transcriber configured"))
			return
		}

		text, err := p.deps.Transcriber.Transcribe(ctx, sub.artifact.Data)
		if err != nil {
			p.fail(ctx, gen, fmt.Errorf("transcribe: %w", err))
			return
		}
		text = strings.TrimSpace(text)
		if text == "" {
			if p.config.EmptyTranscript == EmptyTranscriptError {
				p.fail(ctx, gen, ErrEmptyTranscript)
				return
			}
			log.Printf("Pipeline: empty transcription, using fallback text")
			text = p.config.FallbackTranscript
		}
		utterance = text
	}

	if !p.update(gen, func() {
		p.transcript = utterance
		p.phase = PhaseResponding
	}) {
		return
	}
	if err := sleep(ctx, p.config.ThinkingDelay); err != nil {
		return
	}

	var intent onboarding.Intent
	if p.deps.Intent != nil {
		intent = p.deps.Intent()
	}
	answer := reply.Generate(intent, utterance)
	if !p.update(gen, func() { p.reply = answer }) {
		return
	}

	audio, provider, err := p.synthesize(ctx, answer)
	if err != nil {
		p.fail(ctx, gen, fmt.Errorf("synthesize: %w", err))
		return
	}

	p.play(ctx, gen, answer, audio, provider)
}

func (p *Pipeline) synthesize(ctx context.Context, text string) (speech.Audio, string, error) {
	if p.deps.Synthesizer == nil {
		return speech.Audio{}, "", errors.New("no synthesizer configured")
	}
	if runner, ok := p.deps.Synthesizer.(speech.Runner); ok {
		res := runner.Run(ctx, text)
		return res.Audio, res.Provider, res.Err
	}
	audio, err := p.deps.Synthesizer.Synthesize(ctx, text)
	return audio, p.deps.Synthesizer.Name(), err
}

func (p *Pipeline) play(ctx context.Context, gen uint64, text string, audio speech.Audio, provider string) {
	pb, err := p.deps.Player.Play(ctx, audio.Data, audio.MimeType)
	silent := err != nil
	if silent {
		pb = nil
		if !errors.Is(err, playback.ErrBlocked) {
			log.Printf("Pipeline: player failed, continuing silently: %v", err)
		} else {
			log.Printf("Pipeline: playback blocked, using fallback timer: %v", err)
		}
	}

	if !p.update(gen, func() {
		p.phase = PhasePlaying
		p.playing = true
		p.silent = silent
		p.provider = provider
	}) {
		if pb != nil {
			pb.Stop()
		}
		return
	}
	p.deps.Notifier.Speaking(provider)

	tw := playback.NewTypewriter(text, p.config.TypewriterInterval, func(revealed string, done bool) {
		p.update(gen, func() { p.revealed = revealed })
	})
	tw.Start()
	defer func() {
		tw.Stop()
		tw.Wait()
	}()

	var ended <-chan struct{}
	var timeout <-chan time.Time
	if pb != nil {
		ended = pb.Done()
		defer pb.Stop()
	} else {
		fallback := time.NewTimer(playback.FallbackDuration(text, p.config.FallbackPerRune, p.config.FallbackPadding))
		defer fallback.Stop()
		timeout = fallback.C
	}

	select {
	case <-ended:
	case <-timeout:
	case <-ctx.Done():
		return
	}

	tw.Stop()
	tw.Wait()
	p.finish(ctx, gen)
}

// finish runs the finishing phase at most once per interaction.
func (p *Pipeline) finish(ctx context.Context, gen uint64) {
	p.mu.Lock()
	if gen != p.gen || p.advanced {
		p.mu.Unlock()
		return
	}
	p.advanced = true
	p.phase = PhaseFinishing
	p.playing = false
	p.revealed = p.reply
	snap := p.snapshotLocked()
	p.mu.Unlock()
	p.notifyChange(snap)

	if err := sleep(ctx, p.config.SettleDelay); err != nil {
		return
	}

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	artifact := p.submitted
	transcript := p.transcript
	id := p.interactionID
	p.mu.Unlock()

	log.Printf("Pipeline: [%s] interaction finished", shortID(id))
	p.save(artifact, transcript)
	p.advance()
}

func (p *Pipeline) fail(ctx context.Context, gen uint64, err error) {
	if ctx.Err() != nil {
		return
	}
	var id string
	ok := p.update(gen, func() {
		id = p.interactionID
		p.phase = PhaseInput
		p.errMsg = p.config.RetryMessage
		p.inFlight = false
		p.playing = false
	})
	if !ok {
		return
	}
	log.Printf("Pipeline: [%s] interaction failed: %v", shortID(id), err)
	p.deps.Notifier.Error(p.config.RetryMessage)
}

// enter moves to phase if gen is still current.
func (p *Pipeline) enter(gen uint64, phase Phase) bool {
	return p.update(gen, func() { p.phase = phase })
}

// update applies fn under the lock if gen is still current, then emits.
func (p *Pipeline) update(gen uint64, fn func()) bool {
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return false
	}
	fn()
	snap := p.snapshotLocked()
	p.mu.Unlock()
	p.notifyChange(snap)
	return true
}

func (p *Pipeline) discardRecording() {
	c := p.deps.Capture
	if c == nil {
		return
	}
	if c.IsRecording() {
		p.deps.Notifier.RecordingChanged(false)
		_, _ = c.StopRecording()
	}
	c.ClearRecording()
}

func (p *Pipeline) save(artifact *recording.Artifact, transcript string) {
	if p.deps.OnSave != nil {
		p.deps.OnSave(artifact, transcript)
	}
}

func (p *Pipeline) advance() {
	if p.deps.OnAdvance != nil {
		p.deps.OnAdvance()
	}
}

func (p *Pipeline) emit() {
	p.notifyChange(p.Snapshot())
}

func (p *Pipeline) notifyChange(s Snapshot) {
	if p.deps.OnChange != nil {
		p.deps.OnChange(s)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func captureMessage(err error) string {
	switch {
	case errors.Is(err, recording.ErrUnsupported):
		return "Voice isn't available here. Type instead."
	case errors.Is(err, recording.ErrEmptyRecording), errors.Is(err, ErrNoRecording):
		return "Nothing was recorded. Try again or type instead."
	default:
		return "Could not access the microphone. Try again or type instead."
	}
}

func modeOf(s submission) Mode {
	if s.voice() {
		return ModeVoice
	}
	return ModeText
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
