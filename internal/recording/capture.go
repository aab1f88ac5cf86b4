package recording

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"
)

var (
	ErrUnsupported      = errors.New("audio capture is not supported in this environment")
	ErrNotRecording     = errors.New("not recording")
	ErrEmptyRecording   = errors.New("recording captured no audio")
	ErrAlreadyRecording = errors.New("already recording")
	ErrStartCancelled   = errors.New("recording cancelled while the microphone was opening")
)

// Artifact is a finalized recording.
type Artifact struct {
	Data       []byte // WAV container
	MimeType   string
	SampleRate int
	Channels   int
	Duration   time.Duration
	CreatedAt  time.Time
}

// Capture owns the microphone for one screen: it opens a stream, buffers the
// audio and turns it into an Artifact plus a playable temp file. Failures are
// stored in Err and returned; they never leave the device held.
type Capture struct {
	config     Config
	source     Source
	tempDir    string
	supported  bool
	supportErr error

	mu        sync.Mutex
	recording bool
	// starting is set while Open runs outside the lock. cancelStart asks the
	// pending start to close its stream as soon as Open returns.
	starting    bool
	cancelStart bool
	stream      Stream
	drained     chan struct{}
	pcm         []byte
	artifact    *Artifact
	url         string
	err         error
}

// NewCapture probes the source once; the result is fixed for the lifetime of
// the capture.
func NewCapture(ctx context.Context, config Config, source Source) *Capture {
	c := &Capture{
		config: config,
		source: source,
	}
	if source == nil {
		c.supportErr = errors.New("no audio source")
	} else {
		c.supportErr = source.Supported(ctx)
	}
	c.supported = c.supportErr == nil
	if !c.supported {
		log.Printf("Capture: audio capture unavailable: %v", c.supportErr)
	}
	return c
}

// SetTempDir overrides where playable references are written.
func (c *Capture) SetTempDir(dir string) {
	c.mu.Lock()
	c.tempDir = dir
	c.mu.Unlock()
}

func (c *Capture) IsSupported() bool { return c.supported }

func (c *Capture) IsRecording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recording
}

func (c *Capture) Artifact() *Artifact {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.artifact
}

// AudioURL is the path of the playable copy of the current artifact.
func (c *Capture) AudioURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.url
}

func (c *Capture) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Capture) StartRecording(ctx context.Context) error {
	if !c.supported {
		err := fmt.Errorf("%w: %v", ErrUnsupported, c.supportErr)
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	if c.recording || c.starting {
		c.mu.Unlock()
		return ErrAlreadyRecording
	}
	c.starting = true
	c.cancelStart = false
	c.err = nil
	c.mu.Unlock()

	stream, err := c.source.Open(ctx, Constraints{
		EchoCancellation: c.config.EchoCancellation,
		NoiseSuppression: c.config.NoiseSuppression,
	})
	if err != nil {
		err = fmt.Errorf("microphone access failed: %w", err)
		log.Printf("Capture: %v", err)
		c.mu.Lock()
		c.starting = false
		c.cancelStart = false
		c.err = err
		c.recording = false
		c.mu.Unlock()
		return err
	}

	drained := make(chan struct{})

	c.mu.Lock()
	c.starting = false
	if c.cancelStart {
		c.cancelStart = false
		c.mu.Unlock()
		log.Printf("Capture: start cancelled, releasing stream")
		releaseStream(stream)
		return ErrStartCancelled
	}
	c.recording = true
	c.stream = stream
	c.drained = drained
	c.pcm = nil
	c.mu.Unlock()

	go c.drain(stream, drained)

	log.Printf("Capture: recording started")
	return nil
}

// releaseStream closes a stream nobody will read from and empties its
// channels so the producer can exit.
func releaseStream(stream Stream) {
	if err := stream.Close(); err != nil {
		log.Printf("Capture: error closing stream: %v", err)
	}
	for range stream.Frames() {
	}
	for range stream.Errors() {
	}
}

func (c *Capture) drain(stream Stream, drained chan struct{}) {
	defer close(drained)

	for frame := range stream.Frames() {
		c.mu.Lock()
		c.pcm = append(c.pcm, frame.Data...)
		c.mu.Unlock()
	}

	var streamErr error
	for err := range stream.Errors() {
		if err != nil && streamErr == nil {
			streamErr = err
		}
	}
	if streamErr == nil {
		return
	}

	c.mu.Lock()
	owned := c.stream == stream
	if owned {
		c.stream = nil
		c.recording = false
		c.err = fmt.Errorf("microphone stream failed: %w", streamErr)
	}
	c.mu.Unlock()

	if owned {
		log.Printf("Capture: stream failed: %v", streamErr)
		_ = stream.Close()
	}
}

// StopRecording releases the device and finalizes the buffered audio.
func (c *Capture) StopRecording() (*Artifact, error) {
	c.mu.Lock()
	if c.starting {
		c.cancelStart = true
	}
	if !c.recording || c.stream == nil {
		c.mu.Unlock()
		return nil, ErrNotRecording
	}
	stream := c.stream
	drained := c.drained
	c.stream = nil
	c.mu.Unlock()

	if err := stream.Close(); err != nil {
		log.Printf("Capture: error closing stream: %v", err)
	}
	<-drained

	c.mu.Lock()
	defer c.mu.Unlock()

	c.recording = false
	pcm := c.pcm
	c.pcm = nil

	if len(pcm) == 0 {
		c.err = ErrEmptyRecording
		return nil, ErrEmptyRecording
	}

	wav, err := EncodeWAV(pcm, c.config.SampleRate, c.config.Channels)
	if err != nil {
		c.err = err
		return nil, err
	}

	bytesPerSecond := c.config.SampleRate * c.config.Channels * 2
	artifact := &Artifact{
		Data:       wav,
		MimeType:   "audio/wav",
		SampleRate: c.config.SampleRate,
		Channels:   c.config.Channels,
		Duration:   time.Duration(len(pcm)) * time.Second / time.Duration(bytesPerSecond),
		CreatedAt:  time.Now(),
	}

	c.releaseURLLocked()
	url, err := c.writePlayableLocked(wav)
	if err != nil {
		// The artifact is still usable for upload without a playable copy.
		log.Printf("Capture: failed to write playable reference: %v", err)
	}
	c.artifact = artifact
	c.url = url

	log.Printf("Capture: recording finalized: %d bytes, %v", len(wav), artifact.Duration)
	return artifact, nil
}

// ClearRecording drops the artifact and its playable reference.
func (c *Capture) ClearRecording() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.starting {
		c.cancelStart = true
	}
	c.releaseURLLocked()
	c.artifact = nil
	c.err = nil
}

// Close releases any held stream and playable reference.
func (c *Capture) Close() {
	c.mu.Lock()
	if c.starting {
		c.cancelStart = true
	}
	stream := c.stream
	drained := c.drained
	c.stream = nil
	c.recording = false
	c.releaseURLLocked()
	c.mu.Unlock()

	if stream != nil {
		_ = stream.Close()
		<-drained
	}
}

func (c *Capture) writePlayableLocked(wav []byte) (string, error) {
	f, err := os.CreateTemp(c.tempDir, "arrival-greeting-*.wav")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(wav); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func (c *Capture) releaseURLLocked() {
	if c.url == "" {
		return
	}
	if err := os.Remove(c.url); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Capture: failed to remove %s: %v", c.url, err)
	}
	c.url = ""
}
