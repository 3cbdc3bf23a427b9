package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/MimeLyc/diarized-transcriber/internal/assemblyai"
	"github.com/MimeLyc/diarized-transcriber/internal/config"
	"github.com/MimeLyc/diarized-transcriber/internal/markdown"
	"github.com/MimeLyc/diarized-transcriber/internal/upload"
	"github.com/MimeLyc/diarized-transcriber/pkg/file"
	"github.com/MimeLyc/diarized-transcriber/pkg/log"
)

// TranscriptionAPI is the subset of the AssemblyAI client the pipeline uses
type TranscriptionAPI interface {
	StatusFetcher
	Upload(ctx context.Context, body io.Reader) (string, error)
	Submit(ctx context.Context, request assemblyai.TranscriptRequest) (string, error)
}

// Transcriber runs one file through upload, submit, poll and format.
// Every stage blocks and the first failure ends the run.
type Transcriber struct {
	cfg    config.Config
	api    TranscriptionAPI
	writer markdown.Writer
	poller *Poller
	out    io.Writer
	now    func() time.Time
}

// NewTranscriber wires a pipeline around api. Progress text goes to out.
func NewTranscriber(cfg config.Config, api TranscriptionAPI, out io.Writer) *Transcriber {
	if out == nil {
		out = io.Discard
	}
	return &Transcriber{
		cfg:    cfg,
		api:    api,
		writer: markdown.NewWriter(),
		poller: NewPoller(api, cfg.Transcribe.PollInterval, out),
		out:    out,
		now:    time.Now,
	}
}

// NewTranscriberFromConfig builds the AssemblyAI client from cfg
func NewTranscriberFromConfig(cfg config.Config, out io.Writer) (*Transcriber, error) {
	client, err := assemblyai.NewClient(&assemblyai.Config{
		APIKey:  cfg.AssemblyAI.APIKey,
		APIURL:  cfg.AssemblyAI.APIURL,
		Timeout: cfg.AssemblyAI.Timeout,
	})
	if err != nil {
		return nil, WrapError(err, ErrConfig, "Error")
	}
	return NewTranscriber(cfg, client, out), nil
}

// Run transcribes mediaPath and returns the path of the written document.
// No file is written unless the job completed.
func (t *Transcriber) Run(ctx context.Context, mediaPath string) (string, error) {
	fmt.Fprintf(t.out, "Processing: %s\n", mediaPath)

	uploadURL, err := t.Upload(ctx, mediaPath)
	if err != nil {
		return "", err
	}
	log.Debug("uploaded %s to %s", mediaPath, uploadURL)

	id, err := t.Submit(ctx, uploadURL)
	if err != nil {
		return "", err
	}
	log.Info("submitted transcript job %s", id)

	transcript, err := t.poller.Poll(ctx, id)
	if err != nil {
		return "", err
	}

	if mismatch := CheckLanguage(transcript.Text, t.cfg.Transcribe.Language); mismatch != nil {
		log.Warn("transcript %s looks like %s but %s was requested",
			id, mismatch.Detected, mismatch.Requested)
	}

	outputPath, err := t.Save(transcript, mediaPath)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(t.out, "Transcript saved to: %s\n", outputPath)
	return outputPath, nil
}

// Upload streams the file in chunks and returns the service's upload_url
func (t *Transcriber) Upload(ctx context.Context, mediaPath string) (string, error) {
	chunks, err := upload.Open(mediaPath, t.cfg.Upload.ChunkSize, upload.NewProgressPrinter(t.out))
	if err != nil {
		if errors.Is(err, upload.ErrFileNotFound) {
			return "", NewErrorWithCause(ErrFileNotFound, "Error", err).WithContext("path", mediaPath)
		}
		return "", NewErrorWithCause(ErrFileNotFound, "Error reading file", err).WithContext("path", mediaPath)
	}
	defer chunks.Close()

	uploadURL, err := t.api.Upload(ctx, chunks.Reader())
	if err != nil {
		return "", requestError(err, "Error uploading file").
			WithContext("path", mediaPath).
			WithContext("sent_bytes", chunks.Sent())
	}
	return uploadURL, nil
}

// Submit requests a transcript of uploadURL with the configured language
// and diarization settings
func (t *Transcriber) Submit(ctx context.Context, uploadURL string) (string, error) {
	id, err := t.api.Submit(ctx, assemblyai.TranscriptRequest{
		AudioURL:      uploadURL,
		LanguageCode:  t.cfg.Transcribe.LanguageCode(),
		SpeakerLabels: t.cfg.Transcribe.SpeakerLabels,
	})
	if err != nil {
		return "", requestError(err, "Error submitting transcription")
	}
	return id, nil
}

// Save writes the transcript next to mediaPath
func (t *Transcriber) Save(transcript *assemblyai.Transcript, mediaPath string) (string, error) {
	outputPath := file.AppendSuffix(mediaPath, t.cfg.Output.Suffix)
	doc := markdown.NewDocument(filepath.Base(mediaPath), t.now(), transcript)

	if err := t.writer.Write(outputPath, doc); err != nil {
		return "", NewErrorWithCause(ErrFileWrite, "Error saving transcript", err).
			WithContext("path", outputPath)
	}
	return outputPath, nil
}

// requestError separates service rejections from transport failures
func requestError(err error, message string) *Error {
	var apiErr *assemblyai.APIError
	if errors.As(err, &apiErr) {
		return NewErrorWithCause(ErrAPI, message, err).WithContext("status", apiErr.StatusCode)
	}
	return NewErrorWithCause(ErrNetwork, message, err)
}
