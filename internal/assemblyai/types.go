package assemblyai

import "fmt"

// Status is the lifecycle state of a transcript job as reported by the service
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// IsTerminal reports whether no further transitions can follow s
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

// TranscriptRequest is the body of POST /transcript
type TranscriptRequest struct {
	AudioURL      string `json:"audio_url"`
	LanguageCode  string `json:"language_code,omitempty"`
	SpeakerLabels bool   `json:"speaker_labels"`
}

// Transcript is the job payload returned by the transcript endpoints.
// Text and Utterances are only populated once Status is completed.
type Transcript struct {
	ID           string      `json:"id"`
	Status       Status      `json:"status"`
	AudioURL     string      `json:"audio_url,omitempty"`
	LanguageCode string      `json:"language_code,omitempty"`
	Text         string      `json:"text"`
	Utterances   []Utterance `json:"utterances,omitempty"`
	Error        string      `json:"error,omitempty"`
}

// Utterance is one diarized span of speech. Start and End are offsets in
// milliseconds from the beginning of the audio.
type Utterance struct {
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
	Start      int64   `json:"start"`
	End        int64   `json:"end,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

// APIError is returned for any non-2xx response
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Message)
}
