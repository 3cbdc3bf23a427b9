package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/MimeLyc/diarized-transcriber/internal/assemblyai"
	"github.com/MimeLyc/diarized-transcriber/pkg/log"
)

// DefaultPollInterval is the delay between two status checks
const DefaultPollInterval = 3 * time.Second

// StatusFetcher returns the current state of a transcript job
type StatusFetcher interface {
	Transcript(ctx context.Context, id string) (*assemblyai.Transcript, error)
}

// WaitFunc blocks for d or until ctx is done
type WaitFunc func(ctx context.Context, d time.Duration) error

// Poller re-fetches a job until it reaches a terminal status.
// There is no attempt limit; only ctx cancellation ends a job that never
// finishes.
type Poller struct {
	fetcher  StatusFetcher
	interval time.Duration
	wait     WaitFunc
	out      io.Writer
}

func NewPoller(fetcher StatusFetcher, interval time.Duration, out io.Writer) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if out == nil {
		out = io.Discard
	}
	return &Poller{
		fetcher:  fetcher,
		interval: interval,
		wait:     sleep,
		out:      out,
	}
}

// Poll returns the completed transcript, or an ErrRemoteJob error carrying
// the service's message when the job fails
func (p *Poller) Poll(ctx context.Context, id string) (*assemblyai.Transcript, error) {
	fmt.Fprint(p.out, "Transcribing...")

	for attempt := 1; ; attempt++ {
		transcript, err := p.fetcher.Transcript(ctx, id)
		if err != nil {
			fmt.Fprintln(p.out)
			return nil, requestError(err, "Error polling status").WithContext("transcript_id", id)
		}

		log.Debug("transcript %s status=%s attempt=%d", id, transcript.Status, attempt)

		switch transcript.Status {
		case assemblyai.StatusCompleted:
			fmt.Fprintln(p.out, " Done!")
			return transcript, nil
		case assemblyai.StatusError:
			fmt.Fprintln(p.out, " Failed.")
			detail := transcript.Error
			if detail == "" {
				detail = "unknown error"
			}
			return nil, NewError(ErrRemoteJob, "Transcription failed: "+detail).
				WithContext("transcript_id", id)
		}

		fmt.Fprint(p.out, ".")
		if err := p.wait(ctx, p.interval); err != nil {
			fmt.Fprintln(p.out)
			return nil, fmt.Errorf("polling transcript %s stopped: %w", id, err)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
