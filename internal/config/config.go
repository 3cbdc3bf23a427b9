package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MimeLyc/diarized-transcriber/pkg/log"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/text/language"
)

// Config holds all application configuration
// Every value comes from the environment with a default, except the API key
//
// Environment Variables:
// AssemblyAI Configuration:
// - ASSEMBLYAI_API_KEY: API key sent in the authorization header (required)
// - ASSEMBLYAI_API_URL: API base URL (default: https://api.assemblyai.com/v2)
// - ASSEMBLYAI_TIMEOUT: Per-request timeout as a Go duration, 0 disables it (default: 0)
//
// Transcription Configuration:
// - TRANSCRIBE_LANGUAGE: BCP 47 language code of the audio (default: ru)
// - TRANSCRIBE_SPEAKER_LABELS: Request speaker diarization (default: true)
// - TRANSCRIBE_POLL_INTERVAL: Delay between status checks (default: 3s)
//
// Upload Configuration:
// - UPLOAD_CHUNK_SIZE: Bytes read per upload chunk (default: 5242880)
//
// Output Configuration:
// - OUTPUT_SUFFIX: Suffix appended to the input file name (default: .md)
//
// Log Configuration:
// - LOG_LEVEL: debug, info, warn, error or fatal (default: info)
// - LOG_FILE: Append logs to this file instead of stderr (optional)
type Config struct {
	AssemblyAI AssemblyAIConfig `json:"assemblyai"`

	Transcribe TranscribeConfig `json:"transcribe"`

	Upload UploadConfig `json:"upload"`

	Output OutputConfig `json:"output"`

	Log LogConfig `json:"log"`
}

// AssemblyAIConfig holds the connection settings for the transcription service
type AssemblyAIConfig struct {
	APIKey  string        `json:"-"`
	APIURL  string        `json:"api_url"`
	Timeout time.Duration `json:"timeout"`
}

type TranscribeConfig struct {
	Language      language.Tag  `json:"language"`
	SpeakerLabels bool          `json:"speaker_labels"`
	PollInterval  time.Duration `json:"poll_interval"`
}

type UploadConfig struct {
	ChunkSize int `json:"chunk_size"`
}

type OutputConfig struct {
	Suffix string `json:"suffix"`
}

type LogConfig struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

const (
	APIKeyEnv = "ASSEMBLYAI_API_KEY"

	DefaultAPIURL       = "https://api.assemblyai.com/v2"
	DefaultLanguage     = "ru"
	DefaultPollInterval = 3 * time.Second
	DefaultChunkSize    = 5 * 1024 * 1024
	DefaultOutputSuffix = ".md"
)

// Option is a function type for configuring Config
type Option func(*Config)

// WithLanguage overrides the transcription language. Invalid tags are kept
// as language.Und so validation reports them.
func WithLanguage(code string) Option {
	return func(c *Config) {
		tag, err := language.Parse(code)
		if err != nil {
			tag = language.Und
		}
		c.Transcribe.Language = tag
	}
}

func WithSpeakerLabels(enabled bool) Option {
	return func(c *Config) {
		c.Transcribe.SpeakerLabels = enabled
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(c *Config) {
		c.Transcribe.PollInterval = d
	}
}

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		AssemblyAI: AssemblyAIConfig{
			APIKey:  strings.TrimSpace(getEnvString(APIKeyEnv, "")),
			APIURL:  strings.TrimRight(getEnvString("ASSEMBLYAI_API_URL", DefaultAPIURL), "/"),
			Timeout: getEnvDuration("ASSEMBLYAI_TIMEOUT", 0),
		},
		Transcribe: TranscribeConfig{
			Language:      getEnvLanguage("TRANSCRIBE_LANGUAGE", DefaultLanguage),
			SpeakerLabels: getEnvBool("TRANSCRIBE_SPEAKER_LABELS", true),
			PollInterval:  getEnvDuration("TRANSCRIBE_POLL_INTERVAL", DefaultPollInterval),
		},
		Upload: UploadConfig{
			ChunkSize: getEnvInt("UPLOAD_CHUNK_SIZE", DefaultChunkSize),
		},
		Output: OutputConfig{
			Suffix: getEnvString("OUTPUT_SUFFIX", DefaultOutputSuffix),
		},
		Log: LogConfig{
			Level: getEnvString("LOG_LEVEL", "info"),
			File:  getEnvString("LOG_FILE", ""),
		},
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	log.Debug("Config: api_url=%s language=%s speaker_labels=%t poll_interval=%s chunk_size=%d",
		config.AssemblyAI.APIURL,
		config.Transcribe.Language,
		config.Transcribe.SpeakerLabels,
		config.Transcribe.PollInterval,
		config.Upload.ChunkSize)

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate reports every invalid setting at once
func (c *Config) validate() error {
	var result *multierror.Error

	if c.AssemblyAI.APIKey == "" {
		result = multierror.Append(result, fmt.Errorf("%s not found in environment or .env file", APIKeyEnv))
	}
	if c.AssemblyAI.APIURL == "" {
		result = multierror.Append(result, fmt.Errorf("ASSEMBLYAI_API_URL is required"))
	}
	if c.AssemblyAI.Timeout < 0 {
		result = multierror.Append(result, fmt.Errorf("ASSEMBLYAI_TIMEOUT must not be negative"))
	}
	if c.Transcribe.Language == language.Und {
		result = multierror.Append(result, fmt.Errorf("TRANSCRIBE_LANGUAGE must be a valid language code"))
	}
	if c.Transcribe.PollInterval <= 0 {
		result = multierror.Append(result, fmt.Errorf("TRANSCRIBE_POLL_INTERVAL must be positive"))
	}
	if c.Upload.ChunkSize <= 0 {
		result = multierror.Append(result, fmt.Errorf("UPLOAD_CHUNK_SIZE must be positive"))
	}
	if c.Output.Suffix == "" {
		result = multierror.Append(result, fmt.Errorf("OUTPUT_SUFFIX must not be empty"))
	}

	if result != nil {
		result.ErrorFormat = formatErrors
	}
	return result.ErrorOrNil()
}

// formatErrors keeps a single problem on one line, the way the CLI prints it
func formatErrors(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}

// LanguageCode returns the code sent to the service, e.g. "ru" or "en_us"
func (c TranscribeConfig) LanguageCode() string {
	return strings.ReplaceAll(strings.ToLower(c.Language.String()), "-", "_")
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvLanguage parses a language tag, returning language.Und when the
// value is set but invalid
func getEnvLanguage(key, defaultValue string) language.Tag {
	tag, err := language.Parse(getEnvString(key, defaultValue))
	if err != nil {
		return language.Und
	}
	return tag
}
