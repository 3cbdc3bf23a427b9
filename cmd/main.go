package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MimeLyc/diarized-transcriber/internal/config"
	"github.com/MimeLyc/diarized-transcriber/internal/service"
	"github.com/MimeLyc/diarized-transcriber/pkg/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const usage = "Usage: transcribe <media_file>"

// errUsage marks a run that printed the usage line instead of doing work
var errUsage = errors.New("missing media file argument")

func main() {
	// A missing .env is fine; the environment may already hold the key.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
// It is the only place where errors are printed.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	cmd := newRootCmd(stdout)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 1
	}

	fmt.Fprintln(stderr, err)
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		log.Debug("%s", svcErr.Detail())
		log.Info("%s", service.Advice(err))
	}
	return service.ExitCode(err)
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var (
		languageCode  string
		speakerLabels bool
		pollInterval  time.Duration
	)

	cmd := &cobra.Command{
		Use:           "transcribe <media_file>",
		Short:         "Transcribe a media file with speaker labels using AssemblyAI",
		Long:          "Uploads a media file to AssemblyAI, waits for a diarized transcript and writes it as <media_file>.md next to the input.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				fmt.Fprintln(stdout, usage)
				return errUsage
			}

			var opts []config.Option
			if cmd.Flags().Changed("language") {
				opts = append(opts, config.WithLanguage(languageCode))
			}
			if cmd.Flags().Changed("speaker-labels") {
				opts = append(opts, config.WithSpeakerLabels(speakerLabels))
			}
			if cmd.Flags().Changed("poll-interval") {
				opts = append(opts, config.WithPollInterval(pollInterval))
			}

			cfg, err := config.NewFromEnv(opts...)
			if err != nil {
				return service.WrapError(err, service.ErrConfig, "Error")
			}

			closeLog, err := setupLogger(cfg.Log)
			if err != nil {
				return service.WrapError(err, service.ErrConfig, "Error")
			}
			defer closeLog()

			transcriber, err := service.NewTranscriberFromConfig(*cfg, stdout)
			if err != nil {
				return err
			}

			_, err = transcriber.Run(cmd.Context(), args[0])
			return err
		},
	}

	cmd.Flags().StringVar(&languageCode, "language", config.DefaultLanguage, "language code of the audio (overrides TRANSCRIBE_LANGUAGE)")
	cmd.Flags().BoolVar(&speakerLabels, "speaker-labels", true, "request speaker diarization (overrides TRANSCRIBE_SPEAKER_LABELS)")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", config.DefaultPollInterval, "delay between status checks (overrides TRANSCRIBE_POLL_INTERVAL)")

	return cmd
}

// setupLogger installs the global logger and returns its cleanup
func setupLogger(cfg config.LogConfig) (func(), error) {
	level := log.ParseLevel(cfg.Level)
	if cfg.File == "" {
		log.InitLogger(level)
		return func() {}, nil
	}

	fileLogger, err := log.NewFileLogger(cfg.File, level)
	if err != nil {
		return nil, err
	}
	log.SetLogger(fileLogger.Logger)
	return func() {
		_ = fileLogger.Close()
		log.InitLogger(level)
	}, nil
}
