package deps

import (
	"os/exec"
	"strings"
)

// Status represents the installation status of an external tool
type Status struct {
	Name      string
	Installed bool
	Path      string
	Version   string
}

// Check looks up a tool in PATH and, when versionArg is set, records the
// first line it prints for that flag.
func Check(name, versionArg string) Status {
	path, err := exec.LookPath(name)
	if err != nil {
		return Status{Name: name}
	}

	status := Status{
		Name:      name,
		Installed: true,
		Path:      path,
	}
	if versionArg == "" {
		return status
	}

	output, err := exec.Command(path, versionArg).Output()
	if err == nil {
		lines := strings.Split(string(output), "\n")
		if len(lines) > 0 {
			status.Version = strings.TrimSpace(lines[0])
		}
	}

	return status
}

// CheckRecorder reports on pw-record, which captures the voice greeting.
func CheckRecorder() Status {
	return Check("pw-record", "--version")
}

// CheckPlayer reports on the configured playback command. An empty command
// means replies are silent and is reported as not installed.
func CheckPlayer(command string) Status {
	if command == "" {
		return Status{}
	}
	switch command {
	case "ffplay", "ffmpeg":
		return Check(command, "-version")
	case "mpv":
		return Check(command, "--version")
	}
	return Check(command, "")
}

// CheckNotifier reports on notify-send, used for desktop notifications.
func CheckNotifier() Status {
	return Check("notify-send", "--version")
}
