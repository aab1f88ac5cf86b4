package recording

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"
)

type fakeStream struct {
	frames chan AudioFrame
	errs   chan error
	once   sync.Once
	closed chan struct{}
}

func newFakeStream(buffered int) *fakeStream {
	return &fakeStream{
		frames: make(chan AudioFrame, buffered),
		errs:   make(chan error, 1),
		closed: make(chan struct{}),
	}
}

func (s *fakeStream) Frames() <-chan AudioFrame { return s.frames }
func (s *fakeStream) Errors() <-chan error      { return s.errs }

func (s *fakeStream) Close() error {
	s.once.Do(func() {
		close(s.frames)
		close(s.errs)
		close(s.closed)
	})
	return nil
}

func (s *fakeStream) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

type fakeSource struct {
	supportErr  error
	openErr     error
	stream      *fakeStream
	constraints Constraints
	opens       int
}

func (f *fakeSource) Supported(context.Context) error { return f.supportErr }

func (f *fakeSource) Open(_ context.Context, c Constraints) (Stream, error) {
	f.opens++
	f.constraints = c
	if f.openErr != nil {
		return nil, f.openErr
	}
	return f.stream, nil
}

func newTestCapture(t *testing.T, src Source) *Capture {
	t.Helper()
	c := NewCapture(context.Background(), DefaultConfig(), src)
	c.SetTempDir(t.TempDir())
	t.Cleanup(c.Close)
	return c
}

func TestCapture_Unsupported(t *testing.T) {
	src := &fakeSource{supportErr: errors.New("pw-record not found")}
	c := newTestCapture(t, src)

	if c.IsSupported() {
		t.Fatal("IsSupported should be false")
	}

	err := c.StartRecording(context.Background())
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("StartRecording err = %v, want ErrUnsupported", err)
	}
	if !errors.Is(c.Err(), ErrUnsupported) {
		t.Errorf("Err() = %v, want ErrUnsupported", c.Err())
	}
	if c.IsRecording() {
		t.Error("IsRecording should be false")
	}
	if src.opens != 0 {
		t.Errorf("source opened %d times, want 0", src.opens)
	}
}

func TestCapture_PermissionDenied(t *testing.T) {
	src := &fakeSource{openErr: errors.New("permission denied")}
	c := newTestCapture(t, src)

	if err := c.StartRecording(context.Background()); err == nil {
		t.Fatal("StartRecording should fail when the device cannot be opened")
	}
	if c.IsRecording() {
		t.Error("IsRecording should be false after a device error")
	}
	if c.Err() == nil {
		t.Error("Err() should be populated")
	}

	// Retry succeeds once the device is available.
	src.openErr = nil
	src.stream = newFakeStream(4)
	if err := c.StartRecording(context.Background()); err != nil {
		t.Fatalf("retry StartRecording: %v", err)
	}
	if c.Err() != nil {
		t.Errorf("Err() should be cleared on a successful start, got %v", c.Err())
	}
}

func TestCapture_RecordStopClear(t *testing.T) {
	stream := newFakeStream(4)
	src := &fakeSource{stream: stream}
	c := newTestCapture(t, src)

	if err := c.StartRecording(context.Background()); err != nil {
		t.Fatalf("StartRecording: %v", err)
	}
	if !c.IsRecording() {
		t.Fatal("IsRecording should be true")
	}
	if !src.constraints.EchoCancellation || !src.constraints.NoiseSuppression {
		t.Errorf("constraints not forwarded: %+v", src.constraints)
	}

	stream.frames <- AudioFrame{Data: make([]byte, 16000), Timestamp: time.Now()}
	stream.frames <- AudioFrame{Data: make([]byte, 16000), Timestamp: time.Now()}

	artifact, err := c.StopRecording()
	if err != nil {
		t.Fatalf("StopRecording: %v", err)
	}
	if !stream.isClosed() {
		t.Error("device stream should be released on stop")
	}
	if c.IsRecording() {
		t.Error("IsRecording should be false after stop")
	}
	if artifact.MimeType != "audio/wav" || len(artifact.Data) != 44+32000 {
		t.Errorf("unexpected artifact: mime=%s len=%d", artifact.MimeType, len(artifact.Data))
	}
	if artifact.Duration != time.Second {
		t.Errorf("Duration = %v, want 1s", artifact.Duration)
	}

	url := c.AudioURL()
	if url == "" {
		t.Fatal("AudioURL should be set after stop")
	}
	if _, err := os.Stat(url); err != nil {
		t.Fatalf("playable reference missing: %v", err)
	}

	c.ClearRecording()
	if c.Artifact() != nil || c.AudioURL() != "" {
		t.Error("artifact and url should be nil after clear")
	}
	if _, err := os.Stat(url); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("playable reference should be removed, stat err: %v", err)
	}
}

func TestCapture_StopWithoutRecording(t *testing.T) {
	c := newTestCapture(t, &fakeSource{})

	if _, err := c.StopRecording(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("StopRecording err = %v, want ErrNotRecording", err)
	}
}

func TestCapture_EmptyRecording(t *testing.T) {
	src := &fakeSource{stream: newFakeStream(1)}
	c := newTestCapture(t, src)

	if err := c.StartRecording(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := c.StopRecording(); !errors.Is(err, ErrEmptyRecording) {
		t.Errorf("StopRecording err = %v, want ErrEmptyRecording", err)
	}
	if c.IsRecording() {
		t.Error("IsRecording should be false")
	}
}

func TestCapture_StreamFailure(t *testing.T) {
	stream := newFakeStream(1)
	src := &fakeSource{stream: stream}
	c := newTestCapture(t, src)

	if err := c.StartRecording(context.Background()); err != nil {
		t.Fatal(err)
	}

	stream.errs <- errors.New("device unplugged")
	stream.Close()

	deadline := time.Now().Add(time.Second)
	for c.IsRecording() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.IsRecording() {
		t.Fatal("IsRecording should turn false after a stream failure")
	}
	if c.Err() == nil {
		t.Error("Err() should report the stream failure")
	}
}

func TestCapture_CloseReleasesEverything(t *testing.T) {
	stream := newFakeStream(2)
	src := &fakeSource{stream: stream}
	c := NewCapture(context.Background(), DefaultConfig(), src)
	c.SetTempDir(t.TempDir())

	if err := c.StartRecording(context.Background()); err != nil {
		t.Fatal(err)
	}
	stream.frames <- AudioFrame{Data: []byte{1, 2}}

	c.Close()

	if !stream.isClosed() {
		t.Error("Close should release the device stream while recording")
	}
	if c.IsRecording() {
		t.Error("IsRecording should be false after Close")
	}
}

// slowSource hands out a fresh stream per Open after a delay, the way
// pw-record takes a moment to come up.
type slowSource struct {
	delay time.Duration

	mu      sync.Mutex
	streams []*fakeStream
}

func (s *slowSource) Supported(context.Context) error { return nil }

func (s *slowSource) Open(ctx context.Context, c Constraints) (Stream, error) {
	time.Sleep(s.delay)
	st := newFakeStream(4)
	st.frames <- AudioFrame{Data: make([]byte, 320)}
	s.mu.Lock()
	s.streams = append(s.streams, st)
	s.mu.Unlock()
	return st, nil
}

func (s *slowSource) opened() []*fakeStream {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*fakeStream(nil), s.streams...)
}

func TestCapture_OverlappingStartsOpenOneStream(t *testing.T) {
	src := &slowSource{delay: 50 * time.Millisecond}
	c := newTestCapture(t, src)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- c.StartRecording(context.Background())
		}()
	}
	wg.Wait()
	close(errs)

	var started, rejected int
	for err := range errs {
		switch {
		case err == nil:
			started++
		case errors.Is(err, ErrAlreadyRecording):
			rejected++
		default:
			t.Errorf("unexpected start error: %v", err)
		}
	}
	if started != 1 || rejected != 1 {
		t.Fatalf("started=%d rejected=%d, want 1 and 1", started, rejected)
	}
	if got := len(src.opened()); got != 1 {
		t.Fatalf("source opened %d streams, want 1", got)
	}

	if _, err := c.StopRecording(); err != nil {
		t.Fatalf("StopRecording: %v", err)
	}
	c.Close()
	for i, st := range src.opened() {
		if !st.isClosed() {
			t.Errorf("stream %d still open after StopRecording and Close", i)
		}
	}
}

func TestCapture_CloseDuringPendingStartReleasesStream(t *testing.T) {
	tests := []struct {
		name   string
		cancel func(c *Capture)
	}{
		{"close", func(c *Capture) { c.Close() }},
		{"stop", func(c *Capture) { _, _ = c.StopRecording() }},
		{"clear", func(c *Capture) { c.ClearRecording() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &slowSource{delay: 50 * time.Millisecond}
			c := newTestCapture(t, src)

			done := make(chan error, 1)
			go func() { done <- c.StartRecording(context.Background()) }()

			// let the start reach Open
			time.Sleep(10 * time.Millisecond)
			tt.cancel(c)

			err := <-done
			if !errors.Is(err, ErrStartCancelled) {
				t.Fatalf("StartRecording error = %v, want ErrStartCancelled", err)
			}
			if c.IsRecording() {
				t.Error("IsRecording should be false after a cancelled start")
			}
			opened := src.opened()
			if len(opened) != 1 || !opened[0].isClosed() {
				t.Fatal("the stream opened by the cancelled start should be closed")
			}

			if err := c.StartRecording(context.Background()); err != nil {
				t.Errorf("a new start after cancellation failed: %v", err)
			}
		})
	}
}
