package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/yuuchan-san/soundcloud-downloader/infrastructure/config"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through the server address, storage location,
retention window, and admission policy settings.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, "config/config.yaml")
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	fmt.Println("Welcome to soundcloud-downloader setup!")
	fmt.Println()

	cfg := config.Default()

	if err := promptServer(prompter, cfg); err != nil {
		return err
	}
	if err := promptStorage(prompter, cfg); err != nil {
		return err
	}
	if err := promptAdmission(prompter, cfg); err != nil {
		return err
	}
	if err := promptAudio(prompter, cfg); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", configPath)
	return nil
}

func promptServer(prompter Prompter, cfg *config.Config) error {
	host, err := prompter.Input("Listen host?", cfg.Server.Host)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if host != "" {
		cfg.Server.Host = host
	}

	port, err := promptInt(prompter, "Listen port?", cfg.Server.Port)
	if err != nil {
		return err
	}
	cfg.Server.Port = port

	return nil
}

func promptStorage(prompter Prompter, cfg *config.Config) error {
	root, err := prompter.Input("Where should staged files go?", cfg.Storage.Root)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if root != "" {
		cfg.Storage.Root = root
	}

	retention, err := promptInt(prompter, "Retention window in seconds?", cfg.Storage.RetentionSeconds)
	if err != nil {
		return err
	}
	if retention <= 0 {
		return fmt.Errorf("retention must be positive")
	}
	cfg.Storage.RetentionSeconds = retention

	return nil
}

func promptAdmission(prompter Prompter, cfg *config.Config) error {
	enable, err := prompter.Confirm("Enforce a maximum source size?", cfg.Admission.MaxSourceBytes > 0)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if !enable {
		cfg.Admission.MaxSourceBytes = 0
		return nil
	}

	def := cfg.Admission.MaxSourceBytes
	if def <= 0 {
		def = config.Default().Admission.MaxSourceBytes
	}
	raw, err := prompter.Input("Maximum source size in bytes?", strconv.FormatInt(def, 10))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	maxBytes, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || maxBytes <= 0 {
		return fmt.Errorf("maximum size must be a positive integer")
	}
	cfg.Admission.MaxSourceBytes = maxBytes

	return nil
}

func promptAudio(prompter Prompter, cfg *config.Config) error {
	codec, err := prompter.Input("Target audio codec?", cfg.Audio.Codec)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if codec != "" {
		cfg.Audio.Codec = codec
	}

	quality, err := prompter.Input("Target audio quality (kbit/s)?", cfg.Audio.Quality)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if quality != "" {
		cfg.Audio.Quality = quality
	}

	return nil
}

func promptInt(prompter Prompter, message string, defaultValue int) (int, error) {
	raw, err := prompter.Input(message, strconv.Itoa(defaultValue))
	if err != nil {
		return 0, fmt.Errorf("prompt cancelled")
	}
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	return value, nil
}
