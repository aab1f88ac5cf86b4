package notify

import (
	"fmt"
	"log"
	"os/exec"
)

const appName = "Arrival"

type Notifier interface {
	RecordingChanged(on bool)
	Transcribing()
	Speaking(provider string)
	Error(msg string)
	Notify(title, message string)
}

// New returns the notifier for a config type: "desktop", "log" or "none".
func New(enabled bool, kind string) Notifier {
	if !enabled {
		return Nop{}
	}
	switch kind {
	case "desktop":
		return Desktop{}
	case "log":
		return Log{}
	default:
		return Nop{}
	}
}

// execCommand is replaced in tests.
var execCommand = exec.Command

type Desktop struct{}

func (d Desktop) RecordingChanged(on bool) {
	state := "Stopped"
	if on {
		state = "Started"
	}
	d.Notify(appName, fmt.Sprintf("%s Recording", state))
}

func (d Desktop) Transcribing() {
	d.Notify(appName, "Listening back...")
}

func (d Desktop) Speaking(provider string) {
	d.Notify(appName, "Replying")
}

func (Desktop) Error(msg string) {
	cmd := execCommand("notify-send", "-a", appName, "-u", "critical", appName+" Error", msg)
	if err := cmd.Run(); err != nil {
		log.Printf("Failed to send error notification: %v", err)
	}
}

func (Desktop) Notify(title, message string) {
	cmd := execCommand("notify-send", "-a", appName, title, message)
	if err := cmd.Run(); err != nil {
		log.Printf("Failed to send notification: %v", err)
	}
}

// Log writes notifications to the standard logger.
type Log struct{}

func (Log) RecordingChanged(on bool) {
	if on {
		log.Printf("%s: Recording Started", appName)
		return
	}
	log.Printf("%s: Recording Stopped", appName)
}

func (Log) Transcribing() {
	log.Printf("%s: Transcribing", appName)
}

func (Log) Speaking(provider string) {
	log.Printf("%s: Speaking via %s", appName, provider)
}

func (Log) Error(msg string) {
	log.Printf("%s Error: %s", appName, msg)
}

func (Log) Notify(title, message string) {
	log.Printf("%s: %s", title, message)
}

// Nop is a Notifier that does absolutely nothing.
// Useful in unit tests or headless builds.
type Nop struct{}

func (Nop) RecordingChanged(on bool)     {}
func (Nop) Transcribing()                {}
func (Nop) Speaking(provider string)     {}
func (Nop) Error(msg string)             {}
func (Nop) Notify(title, message string) {}
