package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/leonardotrapani/arrival/internal/onboarding"
	"github.com/leonardotrapani/arrival/internal/playback"
	"github.com/leonardotrapani/arrival/internal/recording"
	"github.com/leonardotrapani/arrival/internal/speech"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.SendingDelay = time.Millisecond
	cfg.ThinkingDelay = time.Millisecond
	cfg.SettleDelay = time.Millisecond
	cfg.TypewriterInterval = 0
	cfg.FallbackPerRune = 0
	cfg.FallbackPadding = 5 * time.Millisecond
	return cfg
}

type fakeCapture struct {
	mu        sync.Mutex
	recording bool
	artifact  *recording.Artifact
	startErr  error
	startGate chan struct{}
	starts    int
	stops     int
	clears    int
}

func (c *fakeCapture) IsRecording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recording
}

func (c *fakeCapture) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	c.starts++
	gate := c.startGate
	c.mu.Unlock()
	if gate != nil {
		<-gate
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.startErr != nil {
		return c.startErr
	}
	c.recording = true
	return nil
}

func (c *fakeCapture) StopRecording() (*recording.Artifact, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.recording {
		return nil, recording.ErrNotRecording
	}
	c.recording = false
	c.stops++
	c.artifact = &recording.Artifact{Data: []byte("RIFF-wav"), MimeType: "audio/wav"}
	return c.artifact, nil
}

func (c *fakeCapture) Artifact() *recording.Artifact {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.artifact
}

func (c *fakeCapture) ClearRecording() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.artifact = nil
	c.clears++
}

type fakeTranscriber struct {
	mu    sync.Mutex
	text  string
	err   error
	calls int
	gate  chan struct{} // when set, Transcribe waits for it
	got   []byte
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, wav []byte) (string, error) {
	f.mu.Lock()
	f.calls++
	f.got = wav
	gate := f.gate
	text, err := f.text, f.err
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return text, err
}

func (f *fakeTranscriber) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSynth struct {
	mu    sync.Mutex
	name  string
	data  []byte
	err   error
	calls int
}

func (f *fakeSynth) Name() string { return f.name }

func (f *fakeSynth) Synthesize(ctx context.Context, text string) (speech.Audio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return speech.Audio{}, f.err
	}
	return speech.Audio{Data: f.data, MimeType: "audio/mpeg"}, nil
}

func (f *fakeSynth) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// heldPlayer plays until the test releases it.
type heldPlayer struct {
	mu    sync.Mutex
	plays []*heldPlayback
}

type heldPlayback struct {
	done chan struct{}
	once sync.Once
}

func (h *heldPlayback) Done() <-chan struct{} { return h.done }
func (h *heldPlayback) Stop()                 { h.once.Do(func() { close(h.done) }) }

func (p *heldPlayer) Play(ctx context.Context, data []byte, mime string) (playback.Playback, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pb := &heldPlayback{done: make(chan struct{})}
	p.plays = append(p.plays, pb)
	return pb, nil
}

func (p *heldPlayer) finishAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pb := range p.plays {
		pb.Stop()
	}
}

type recorder struct {
	mu        sync.Mutex
	saves     []savedCall
	advances  int
	phases    []Phase
	snapshots []Snapshot
}

type savedCall struct {
	artifact   *recording.Artifact
	transcript string
}

func (r *recorder) deps(d Deps) Deps {
	d.OnSave = func(a *recording.Artifact, transcript string) {
		r.mu.Lock()
		r.saves = append(r.saves, savedCall{a, transcript})
		r.mu.Unlock()
	}
	d.OnAdvance = func() {
		r.mu.Lock()
		r.advances++
		r.mu.Unlock()
	}
	d.OnChange = func(s Snapshot) {
		r.mu.Lock()
		r.snapshots = append(r.snapshots, s)
		if len(r.phases) == 0 || r.phases[len(r.phases)-1] != s.Phase {
			r.phases = append(r.phases, s.Phase)
		}
		r.mu.Unlock()
	}
	return d
}

func (r *recorder) Advances() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.advances
}

func (r *recorder) Saves() []savedCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]savedCall(nil), r.saves...)
}

func (r *recorder) Phases() []Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Phase(nil), r.phases...)
}

func (r *recorder) sawSilent() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.snapshots {
		if s.Silent {
			return true
		}
	}
	return false
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func phaseIs(p *Pipeline, phase Phase) func() bool {
	return func() bool { return p.Snapshot().Phase == phase }
}

func TestPipeline_TextHappyPath(t *testing.T) {
	rec := &recorder{}
	synth := &fakeSynth{name: "primary", data: []byte("mp3")}
	p := New(fastConfig(), rec.deps(Deps{
		Synthesizer: synth,
		Intent:      func() onboarding.Intent { return onboarding.IntentHiring },
	}))
	defer p.Close()

	if p.Snapshot().Mode != ModeText {
		t.Fatalf("without capture the mode should be text, got %s", p.Snapshot().Mode)
	}

	p.SetText("just looking around")
	if !p.SubmitText(context.Background(), "just looking around") {
		t.Fatal("SubmitText rejected")
	}
	waitFor(t, "advance", func() bool { return rec.Advances() == 1 })

	saves := rec.Saves()
	if len(saves) != 1 || saves[0].artifact != nil || saves[0].transcript != "just looking around" {
		t.Errorf("saves = %+v", saves)
	}

	want := []Phase{PhaseInput, PhaseSending, PhaseResponding, PhasePlaying, PhaseFinishing}
	got := rec.Phases()
	for i, ph := range want[1:] {
		if i+1 >= len(got) || got[i+1] != ph {
			t.Fatalf("phases = %v, want %v", got, want)
		}
	}

	snap := p.Snapshot()
	if snap.Reply == "" || snap.Revealed != snap.Reply {
		t.Errorf("reply not fully revealed: %+v", snap)
	}
	if snap.Text != "" {
		t.Errorf("text buffer should be cleared after submit, got %q", snap.Text)
	}
	if synth.Calls() != 1 {
		t.Errorf("synth calls = %d", synth.Calls())
	}
}

func TestPipeline_VoiceHappyPath(t *testing.T) {
	rec := &recorder{}
	capture := &fakeCapture{}
	tr := &fakeTranscriber{text: "hello there"}
	player := &heldPlayer{}
	p := New(fastConfig(), rec.deps(Deps{
		Capture:     capture,
		Transcriber: tr,
		Synthesizer: &fakeSynth{name: "primary", data: []byte("mp3")},
		Player:      player,
	}))
	defer p.Close()

	if err := p.StartRecording(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !p.Snapshot().Recording {
		t.Error("snapshot should report recording")
	}
	if !p.SubmitVoice(context.Background()) {
		t.Fatal("SubmitVoice rejected")
	}
	if capture.IsRecording() {
		t.Error("submit should stop the capture")
	}

	waitFor(t, "playing", phaseIs(p, PhasePlaying))
	if p.Snapshot().Transcript != "hello there" {
		t.Errorf("transcript = %q", p.Snapshot().Transcript)
	}
	if rec.Advances() != 0 {
		t.Error("advance must wait for playback to end")
	}

	player.finishAll()
	waitFor(t, "advance", func() bool { return rec.Advances() == 1 })

	saves := rec.Saves()
	if len(saves) != 1 || saves[0].artifact == nil || saves[0].transcript != "hello there" {
		t.Errorf("saves = %+v", saves)
	}
	if string(tr.got) != "RIFF-wav" {
		t.Errorf("transcriber got %q", tr.got)
	}
}

func TestPipeline_DuplicateSubmissionIgnored(t *testing.T) {
	rec := &recorder{}
	capture := &fakeCapture{artifact: &recording.Artifact{Data: []byte("wav")}}
	tr := &fakeTranscriber{text: "hi", gate: make(chan struct{})}
	synth := &fakeSynth{name: "primary", data: []byte("mp3")}
	p := New(fastConfig(), rec.deps(Deps{Capture: capture, Transcriber: tr, Synthesizer: synth}))
	defer p.Close()

	ctx := context.Background()
	if !p.SubmitVoice(ctx) {
		t.Fatal("first submission rejected")
	}
	waitFor(t, "transcribing", phaseIs(p, PhaseTranscribing))

	if p.SubmitVoice(ctx) {
		t.Error("second voice submission should be ignored")
	}
	if p.Resend(ctx) {
		t.Error("resend should be ignored while in flight")
	}
	if p.SetMode(ModeText) {
		t.Error("mode switch should be ignored while in flight")
	}

	close(tr.gate)
	waitFor(t, "advance", func() bool { return rec.Advances() == 1 })

	if tr.Calls() != 1 || synth.Calls() != 1 {
		t.Errorf("calls: transcribe=%d synth=%d, want 1/1", tr.Calls(), synth.Calls())
	}
}

func TestPipeline_ZeroBytePrimaryFallsBackToSecondary(t *testing.T) {
	rec := &recorder{}
	primary := &fakeSynth{name: "primary"}
	secondary := &fakeSynth{name: "secondary", data: []byte("mp3")}
	player := &heldPlayer{}
	p := New(fastConfig(), rec.deps(Deps{
		Synthesizer: speech.NewChain(primary, secondary),
		Player:      player,
	}))
	defer p.Close()

	p.SubmitText(context.Background(), "hello")
	waitFor(t, "playing", phaseIs(p, PhasePlaying))

	if primary.Calls() != 1 || secondary.Calls() != 1 {
		t.Errorf("calls = %d/%d, want 1/1", primary.Calls(), secondary.Calls())
	}
	snap := p.Snapshot()
	if snap.Provider != "secondary" || !snap.Playing || snap.Silent {
		t.Errorf("snapshot = %+v", snap)
	}
	player.finishAll()
	waitFor(t, "advance", func() bool { return rec.Advances() == 1 })
}

func TestPipeline_BothProvidersFail(t *testing.T) {
	rec := &recorder{}
	synth := speech.NewChain(
		&fakeSynth{name: "primary", err: errors.New("down")},
		&fakeSynth{name: "secondary", err: errors.New("also down")},
	)
	p := New(fastConfig(), rec.deps(Deps{Synthesizer: synth}))
	defer p.Close()

	ctx := context.Background()
	p.SubmitText(ctx, "hello")
	waitFor(t, "error", func() bool {
		s := p.Snapshot()
		return s.Phase == PhaseInput && s.Error != ""
	})

	if got := p.Snapshot().Error; got != DefaultRetryMessage {
		t.Errorf("error = %q", got)
	}
	if rec.Advances() != 0 {
		t.Error("failed run must not advance")
	}

	// guard cleared: an immediate resubmission is accepted
	if !p.SubmitText(ctx, "hello again") {
		t.Error("resubmission after failure should be accepted")
	}
	waitFor(t, "second failure", func() bool {
		s := p.Snapshot()
		return s.Phase == PhaseInput && s.Error != ""
	})
}

func TestPipeline_TranscriptionFailureKeepsRecording(t *testing.T) {
	rec := &recorder{}
	capture := &fakeCapture{artifact: &recording.Artifact{Data: []byte("wav")}}
	tr := &fakeTranscriber{err: errors.New("503")}
	p := New(fastConfig(), rec.deps(Deps{
		Capture:     capture,
		Transcriber: tr,
		Synthesizer: &fakeSynth{name: "primary", data: []byte("mp3")},
	}))
	defer p.Close()

	ctx := context.Background()
	p.SubmitVoice(ctx)
	waitFor(t, "failure", func() bool { return p.Snapshot().Error != "" })

	if !p.Snapshot().CanResend {
		t.Fatal("recording should be available for resend")
	}

	tr.mu.Lock()
	tr.err = nil
	tr.text = "second try"
	tr.mu.Unlock()

	if !p.Resend(ctx) {
		t.Fatal("Resend rejected")
	}
	waitFor(t, "advance", func() bool { return rec.Advances() == 1 })
	if tr.Calls() != 2 || string(tr.got) != "wav" {
		t.Errorf("transcribe calls = %d, last audio %q", tr.Calls(), tr.got)
	}
}

func TestPipeline_EmptyTranscriptPolicy(t *testing.T) {
	tests := []struct {
		name        string
		policy      EmptyTranscriptPolicy
		wantAdvance bool
	}{
		{"fallback", EmptyTranscriptFallback, true},
		{"error", EmptyTranscriptError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			cfg := fastConfig()
			cfg.EmptyTranscript = tt.policy
			capture := &fakeCapture{artifact: &recording.Artifact{Data: []byte("wav")}}
			p := New(cfg, rec.deps(Deps{
				Capture:     capture,
				Transcriber: &fakeTranscriber{text: "   "},
				Synthesizer: &fakeSynth{name: "primary", data: []byte("mp3")},
			}))
			defer p.Close()

			p.SubmitVoice(context.Background())

			if tt.wantAdvance {
				waitFor(t, "advance", func() bool { return rec.Advances() == 1 })
				if got := rec.Saves()[0].transcript; got != cfg.FallbackTranscript {
					t.Errorf("transcript = %q, want fallback", got)
				}
				return
			}
			waitFor(t, "failure", func() bool { return p.Snapshot().Error != "" })
			if p.Snapshot().Phase != PhaseInput {
				t.Errorf("phase = %s", p.Snapshot().Phase)
			}
		})
	}
}

func TestPipeline_AutoplayBlockedUsesFallbackTimer(t *testing.T) {
	rec := &recorder{}
	p := New(fastConfig(), rec.deps(Deps{
		Synthesizer: &fakeSynth{name: "primary", data: []byte("mp3")},
		Player:      playback.Nop{},
	}))
	defer p.Close()

	p.SubmitText(context.Background(), "hi")
	waitFor(t, "advance", func() bool { return rec.Advances() == 1 })

	if !rec.sawSilent() {
		t.Error("blocked playback should be reported as silent")
	}
	if p.Snapshot().Revealed != p.Snapshot().Reply {
		t.Error("full reply should be revealed after finishing")
	}
}

func TestPipeline_SkipBypassesRun(t *testing.T) {
	rec := &recorder{}
	capture := &fakeCapture{artifact: &recording.Artifact{Data: []byte("wav")}}
	tr := &fakeTranscriber{text: "hi", gate: make(chan struct{})}
	p := New(fastConfig(), rec.deps(Deps{
		Capture:     capture,
		Transcriber: tr,
		Synthesizer: &fakeSynth{name: "primary", data: []byte("mp3")},
	}))
	defer p.Close()

	p.SubmitVoice(context.Background())
	waitFor(t, "transcribing", phaseIs(p, PhaseTranscribing))

	if !p.Skip() {
		t.Fatal("Skip rejected")
	}
	if p.Skip() {
		t.Error("second Skip should be ignored")
	}
	close(tr.gate)

	saves := rec.Saves()
	if len(saves) != 1 || saves[0].artifact != nil || saves[0].transcript != "" {
		t.Errorf("saves = %+v", saves)
	}

	// give the abandoned run a chance to misbehave
	time.Sleep(30 * time.Millisecond)
	if rec.Advances() != 1 {
		t.Errorf("advances = %d, want 1", rec.Advances())
	}
}

func TestPipeline_FinishingFiresOnce(t *testing.T) {
	rec := &recorder{}
	p := New(fastConfig(), rec.deps(Deps{Synthesizer: &fakeSynth{name: "primary", data: []byte("mp3")}}))
	defer p.Close()

	p.SubmitText(context.Background(), "hello")
	waitFor(t, "advance", func() bool { return rec.Advances() == 1 })

	if p.Skip() {
		t.Error("Skip after finishing should be ignored")
	}
	if p.SubmitText(context.Background(), "again") {
		t.Error("submission after finishing should be ignored")
	}
	if rec.Advances() != 1 || len(rec.Saves()) != 1 {
		t.Errorf("advances = %d saves = %d", rec.Advances(), len(rec.Saves()))
	}
}

func TestPipeline_ResetFromAnyPhase(t *testing.T) {
	rec := &recorder{}
	capture := &fakeCapture{artifact: &recording.Artifact{Data: []byte("wav")}}
	tr := &fakeTranscriber{text: "hi", gate: make(chan struct{})}
	synth := &fakeSynth{name: "primary", data: []byte("mp3")}
	p := New(fastConfig(), rec.deps(Deps{Capture: capture, Transcriber: tr, Synthesizer: synth}))
	defer p.Close()

	ctx := context.Background()
	p.SubmitVoice(ctx)
	waitFor(t, "transcribing", phaseIs(p, PhaseTranscribing))

	p.Reset()
	snap := p.Snapshot()
	if snap.Phase != PhaseInput || snap.Transcript != "" || snap.Error != "" || snap.CanResend {
		t.Errorf("snapshot after reset = %+v", snap)
	}
	if capture.Artifact() != nil {
		t.Error("reset should clear the captured recording")
	}

	close(tr.gate)
	time.Sleep(30 * time.Millisecond)
	if synth.Calls() != 0 {
		t.Error("results of the abandoned run must be dropped")
	}

	// a fresh interaction is accepted after reset
	if err := p.StartRecording(ctx); err != nil {
		t.Fatal(err)
	}
	if !p.SubmitVoice(ctx) {
		t.Fatal("submission after reset rejected")
	}
	waitFor(t, "advance", func() bool { return rec.Advances() == 1 })
}

func TestPipeline_SubmitVoiceWithoutRecording(t *testing.T) {
	rec := &recorder{}
	p := New(fastConfig(), rec.deps(Deps{Capture: &fakeCapture{}, Transcriber: &fakeTranscriber{}}))
	defer p.Close()

	if p.SubmitVoice(context.Background()) {
		t.Error("nothing recorded, submission should be rejected")
	}
	snap := p.Snapshot()
	if snap.Error == "" || snap.Phase != PhaseInput {
		t.Errorf("snapshot = %+v", snap)
	}
	// guard released
	if p.SetMode(ModeText) != true {
		t.Error("mode switch should be possible after a rejected submission")
	}
}

func TestPipeline_StartRecordingFailure(t *testing.T) {
	capture := &fakeCapture{startErr: errors.New("permission denied")}
	p := New(fastConfig(), Deps{Capture: capture})
	defer p.Close()

	if err := p.StartRecording(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if p.Snapshot().Error == "" || p.Snapshot().Recording {
		t.Errorf("snapshot = %+v", p.Snapshot())
	}
}

func TestPipeline_SetMode(t *testing.T) {
	capture := &fakeCapture{}
	p := New(fastConfig(), Deps{Capture: capture})
	defer p.Close()

	if p.Snapshot().Mode != ModeVoice {
		t.Fatalf("default mode = %s", p.Snapshot().Mode)
	}
	_ = p.StartRecording(context.Background())
	if !p.SetMode(ModeText) {
		t.Fatal("SetMode(text) rejected")
	}
	if capture.IsRecording() {
		t.Error("switching to text should stop the recording")
	}
	if p.SetMode(ModeText) {
		t.Error("switching to the current mode is a no-op")
	}
	if p.SubmitVoice(context.Background()) {
		t.Error("voice submission in text mode should be ignored")
	}

	textOnly := New(fastConfig(), Deps{})
	defer textOnly.Close()
	if textOnly.SetMode(ModeVoice) {
		t.Error("voice mode needs a capture")
	}
}

func TestPipeline_CloseCancelsRun(t *testing.T) {
	tr := &fakeTranscriber{text: "hi", gate: make(chan struct{})}
	p := New(fastConfig(), Deps{
		Capture:     &fakeCapture{artifact: &recording.Artifact{Data: []byte("wav")}},
		Transcriber: tr,
	})

	p.SubmitVoice(context.Background())
	waitFor(t, "transcribing", phaseIs(p, PhaseTranscribing))

	closed := make(chan struct{})
	go func() {
		p.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not cancel the run")
	}

	if p.SubmitText(context.Background(), "late") {
		t.Error("closed pipeline should reject submissions")
	}
}

func TestPipeline_SwitchingToTextDropsResend(t *testing.T) {
	rec := &recorder{}
	capture := &fakeCapture{artifact: &recording.Artifact{Data: []byte("wav")}}
	tr := &fakeTranscriber{err: errors.New("503")}
	p := New(fastConfig(), rec.deps(Deps{
		Capture:     capture,
		Transcriber: tr,
		Synthesizer: &fakeSynth{name: "primary", data: []byte("mp3")},
	}))
	defer p.Close()

	ctx := context.Background()
	p.SubmitVoice(ctx)
	waitFor(t, "failure", func() bool { return p.Snapshot().CanResend })

	if !p.SetMode(ModeText) {
		t.Fatal("SetMode(text) rejected")
	}
	if !p.SetMode(ModeVoice) {
		t.Fatal("SetMode(voice) rejected")
	}
	if p.Snapshot().CanResend {
		t.Error("a recording discarded by the mode switch should not be offered for resend")
	}
	if p.Resend(ctx) {
		t.Error("Resend should be rejected after the recording was discarded")
	}
	if tr.Calls() != 1 {
		t.Errorf("transcribe calls = %d, want 1", tr.Calls())
	}
}

func TestPipeline_OverlappingStartRecording(t *testing.T) {
	gate := make(chan struct{})
	capture := &fakeCapture{startGate: gate}
	p := New(fastConfig(), Deps{Capture: capture})
	defer p.Close()

	ctx := context.Background()
	first := make(chan error, 1)
	go func() { first <- p.StartRecording(ctx) }()
	waitFor(t, "first start", func() bool {
		capture.mu.Lock()
		defer capture.mu.Unlock()
		return capture.starts == 1
	})

	if err := p.StartRecording(ctx); !errors.Is(err, recording.ErrAlreadyRecording) {
		t.Errorf("second StartRecording = %v, want ErrAlreadyRecording", err)
	}
	close(gate)
	if err := <-first; err != nil {
		t.Fatalf("first StartRecording: %v", err)
	}

	capture.mu.Lock()
	starts, clears := capture.starts, capture.clears
	capture.mu.Unlock()
	if starts != 1 {
		t.Errorf("capture started %d times, want 1", starts)
	}
	if clears != 1 {
		t.Errorf("capture cleared %d times, want 1 (the pending start must not be cancelled)", clears)
	}
	if p.Snapshot().Error != "" {
		t.Errorf("rejected start should not surface an error, got %q", p.Snapshot().Error)
	}
}
