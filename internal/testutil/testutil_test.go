package testutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"
)

func TestFastConfig_IsValid(t *testing.T) {
	if err := FastConfig().Validate(); err != nil {
		t.Fatalf("FastConfig should validate: %v", err)
	}
}

func TestCreateTempConfigFile(t *testing.T) {
	path := CreateTempConfigFile(t, "[timing]\nthesis = \"2s\"\n")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "[timing]\nthesis = \"2s\"\n" {
		t.Errorf("content = %q", data)
	}
}

func TestCaptureOutput(t *testing.T) {
	out := CaptureOutput(t, func() { fmt.Println("hello") })
	if out != "hello\n" {
		t.Errorf("CaptureOutput = %q, want hello", out)
	}
}

func TestMocks(t *testing.T) {
	ctx := context.Background()

	tr := NewMockTranscriber("hi")
	if text, err := tr.Transcribe(ctx, nil); err != nil || text != "hi" {
		t.Errorf("Transcribe = %q, %v", text, err)
	}
	if tr.Calls() != 1 {
		t.Errorf("Calls = %d, want 1", tr.Calls())
	}

	synth := NewMockSynthesizer("primary")
	if _, err := synth.Synthesize(ctx, "hello"); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	synth.Err = errors.New("down")
	if _, err := synth.Synthesize(ctx, "again"); err == nil {
		t.Error("expected the configured error")
	}
	if got := synth.Texts(); len(got) != 2 || got[0] != "hello" {
		t.Errorf("Texts = %v", got)
	}

	player := &MockPlayer{}
	pb, err := player.Play(ctx, []byte("RIFF"), "audio/wav")
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	WaitForCondition(t, func() bool {
		select {
		case <-pb.Done():
			return true
		default:
			return false
		}
	}, time.Second)
	if player.Played() != 1 {
		t.Errorf("Played = %d, want 1", player.Played())
	}
}
