package recording

import (
	"context"
	"sync"
)

// Constraints are the processing preferences requested when opening the
// microphone.
type Constraints struct {
	EchoCancellation bool
	NoiseSuppression bool
}

// Stream is an open microphone stream. Close releases the device; after it
// returns, Frames is closed.
type Stream interface {
	Frames() <-chan AudioFrame
	Errors() <-chan error
	Close() error
}

// Source opens microphone streams.
type Source interface {
	// Supported returns nil when the platform can capture audio.
	Supported(ctx context.Context) error
	Open(ctx context.Context, c Constraints) (Stream, error)
}

// PipeWireSource captures through pw-record.
type PipeWireSource struct {
	config Config
}

func NewPipeWireSource(config Config) *PipeWireSource {
	return &PipeWireSource{config: config}
}

func (s *PipeWireSource) Supported(ctx context.Context) error {
	return CheckPipeWireAvailable(ctx)
}

func (s *PipeWireSource) Open(ctx context.Context, c Constraints) (Stream, error) {
	r := NewRecorder(s.config)
	r.constraints = c

	frames, errs, err := r.Start(ctx)
	if err != nil {
		return nil, err
	}
	return &pipeWireStream{recorder: r, frames: frames, errs: errs}, nil
}

type pipeWireStream struct {
	recorder *Recorder
	frames   <-chan AudioFrame
	errs     <-chan error
	once     sync.Once
}

func (s *pipeWireStream) Frames() <-chan AudioFrame { return s.frames }
func (s *pipeWireStream) Errors() <-chan error      { return s.errs }

func (s *pipeWireStream) Close() error {
	s.once.Do(func() {
		s.recorder.Stop()
		s.recorder.Wait()
	})
	return nil
}
