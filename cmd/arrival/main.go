package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/leonardotrapani/arrival/internal/config"
	"github.com/leonardotrapani/arrival/internal/deps"
	"github.com/leonardotrapani/arrival/internal/onboarding"
	"github.com/leonardotrapani/arrival/internal/provider"
	"github.com/leonardotrapani/arrival/internal/recording"
	"github.com/leonardotrapani/arrival/internal/store"
	"github.com/leonardotrapani/arrival/internal/tui"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arrival",
	Short: "A guided first-run experience that ends in a spoken hello",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnboarding(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(
		runCmd(),
		statusCmd(),
		resetCmd(),
		configureCmd(),
		modelCmd(),
		doctorCmd(),
	)
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the onboarding flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnboarding(cmd.Context())
		},
	}
}

func runOnboarding(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logFile, err := openLog()
	if err != nil {
		return err
	}
	defer logFile.Close()

	mgr, err := config.NewManager()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := mgr.StartWatching(ctx); err != nil {
		log.Printf("Config: not watching for changes: %v", err)
	}
	defer mgr.Stop()

	cfg := mgr.GetConfig()
	svc, err := newServices(cfg)
	if err != nil {
		return err
	}
	mgr.OnReload(svc.reload)

	seq, err := newSequencer(cfg)
	if err != nil {
		return err
	}

	capture := recording.NewCapture(ctx, cfg.ToRecordingConfig(), recording.NewPipeWireSource(cfg.ToRecordingConfig()))
	defer capture.Close()

	return tui.Run(ctx, tui.Deps{
		Sequencer:   seq,
		Config:      mgr.GetConfig,
		Capture:     capture,
		Transcriber: svc,
		Synthesizer: svc,
		Player:      svc,
		Notifier:    svc,
	})
}

// openLog sends the log to a file so it does not draw over the TUI.
func openLog() (*os.File, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory: %w", err)
	}
	dir = filepath.Join(dir, "arrival")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := tea.LogToFile(filepath.Join(dir, "arrival.log"), "")
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

func newSequencer(cfg *config.Config) (*onboarding.Sequencer, error) {
	dir, err := cfg.StoreDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve state directory: %w", err)
	}
	seq, err := onboarding.NewSequencer(store.NewFileStore(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to create sequencer: %w", err)
	}
	return seq, nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if errors.Is(err, config.ErrConfigNotFound) {
		return config.DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show saved onboarding progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			seq, err := newSequencer(cfg)
			if err != nil {
				return err
			}
			if err := seq.Hydrate(cmd.Context()); err != nil {
				return fmt.Errorf("failed to read progress: %w", err)
			}
			printStatus(seq.State())
			return nil
		},
	}
}

func printStatus(st onboarding.State) {
	fmt.Printf("screen:     %s (%d/%d)\n", st.Screen, st.ScreenIndex+1, st.TotalScreens)
	fmt.Printf("completed:  %v\n", st.Data.OnboardingCompleted)
	fmt.Printf("aesthetic:  %s\n", orUnset(string(st.Data.Aesthetic)))
	fmt.Printf("intent:     %s\n", orUnset(string(st.Data.Intent)))
	if g := st.Data.VoiceGreeting; g != nil {
		fmt.Printf("greeting:   %v, %d bytes (%s)\n", g.Duration, len(g.Data), g.MimeType)
	} else {
		fmt.Println("greeting:   none")
	}
	if st.Data.FirstVisit != nil {
		fmt.Printf("first visit: %s\n", st.Data.FirstVisit.Local().Format("2006-01-02 15:04"))
	}
}

func orUnset(s string) string {
	if s == "" {
		return "unset"
	}
	return s
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget saved progress and start over next time",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			seq, err := newSequencer(cfg)
			if err != nil {
				return err
			}
			if err := seq.Reset(cmd.Context()); err != nil {
				return fmt.Errorf("failed to reset: %w", err)
			}
			fmt.Println("Onboarding progress cleared.")
			return nil
		},
	}
}

func configureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactive configuration setup",
		Long: `Interactive configuration editor for arrival.
This will guide you through setting up:
- Provider API keys (OpenAI, ElevenLabs, custom endpoint)
- Transcription and the voices that answer
- Screen timing and playback`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure()
		},
	}
}

func runConfigure() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	result, err := tui.Configure(cfg)
	if err != nil {
		return fmt.Errorf("configuration wizard error: %w", err)
	}

	if result.Cancelled {
		fmt.Println("Configuration cancelled.")
		return nil
	}

	if err := config.Save(result.Config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath, _ := config.GetConfigPath()
	fmt.Println()
	fmt.Println("Configuration saved successfully!")
	fmt.Printf("Config file location: %s\n", configPath)
	fmt.Println("A running onboarding picks up the new settings on its next screen.")
	return nil
}

func modelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Inspect transcription and speech models",
	}
	cmd.AddCommand(modelListCmd())
	return cmd
}

func modelListCmd() *cobra.Command {
	var providerFilter string
	var typeFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available transcription and speech models",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModelList(providerFilter, typeFilter)
		},
	}

	cmd.Flags().StringVar(&providerFilter, "provider", "", "filter by provider name")
	cmd.Flags().StringVar(&typeFilter, "type", "", "filter by type: transcription, speech")

	return cmd
}

func runModelList(providerFilter, typeFilter string) error {
	var filterType *provider.ModelType
	if typeFilter != "" {
		switch strings.ToLower(typeFilter) {
		case "transcription":
			t := provider.Transcription
			filterType = &t
		case "speech":
			t := provider.Speech
			filterType = &t
		default:
			return fmt.Errorf("invalid type: %s (use 'transcription' or 'speech')", typeFilter)
		}
	}

	providerNames := provider.ListProviders()
	sort.Strings(providerNames)

	if providerFilter != "" {
		if provider.GetProvider(providerFilter) == nil {
			return fmt.Errorf("unknown provider: %s", providerFilter)
		}
		providerNames = []string{providerFilter}
	}

	for _, providerName := range providerNames {
		p := provider.GetProvider(providerName)
		models := p.Models()
		if filterType != nil {
			models = provider.ModelsOfType(p, *filterType)
		}
		if len(models) == 0 {
			continue
		}

		fmt.Printf("\n%s:\n", providerName)
		for _, m := range models {
			fmt.Println(formatModelLine(m))
		}
	}

	fmt.Println()
	return nil
}

func formatModelLine(m provider.Model) string {
	line := fmt.Sprintf("   %s", m.ID)
	if m.Description != "" {
		line += fmt.Sprintf(" - %s", m.Description)
	}
	parts := []string{m.Type.String()}
	if len(m.Voices) > 0 {
		parts = append(parts, fmt.Sprintf("%d voices", len(m.Voices)))
	}
	return line + fmt.Sprintf(" [%s]", strings.Join(parts, ", "))
}

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the tools used for recording, playback and notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Println(formatToolStatus("recorder", deps.CheckRecorder(), "voice input falls back to text"))
			if cfg.Playback.Command == "" {
				fmt.Println("player:    not configured, replies are silent")
			} else {
				fmt.Println(formatToolStatus("player", deps.CheckPlayer(cfg.Playback.Command), "replies are silent"))
			}
			if cfg.Notifications.Enabled && cfg.Notifications.Type == "desktop" {
				fmt.Println(formatToolStatus("notifier", deps.CheckNotifier(), "notifications are dropped"))
			}
			return nil
		},
	}
}

func formatToolStatus(role string, s deps.Status, missing string) string {
	label := fmt.Sprintf("%-10s", role+":")
	if !s.Installed {
		return fmt.Sprintf("%s%s not found, %s", label, s.Name, missing)
	}
	line := fmt.Sprintf("%s%s (%s)", label, s.Name, s.Path)
	if s.Version != "" {
		line += " " + s.Version
	}
	return line
}
