package markdown

import (
	"time"

	"github.com/MimeLyc/diarized-transcriber/internal/assemblyai"
)

// Writer is the interface for writing transcript documents
type Writer interface {
	Write(path string, doc *Document) error
}

// Line is one speaker turn
type Line struct {
	Speaker string
	Text    string
	StartMs int64 // offset from the start of the audio
}

// Document is everything rendered into a transcript file
type Document struct {
	SourceName  string // base name of the transcribed file
	GeneratedAt time.Time
	Text        string // full text, used when Lines is empty
	Lines       []Line
}

// NewDocument builds a Document from a completed transcript
func NewDocument(sourceName string, generatedAt time.Time, transcript *assemblyai.Transcript) *Document {
	doc := &Document{
		SourceName:  sourceName,
		GeneratedAt: generatedAt,
		Text:        transcript.Text,
		Lines:       make([]Line, 0, len(transcript.Utterances)),
	}
	for _, u := range transcript.Utterances {
		doc.Lines = append(doc.Lines, Line{
			Speaker: u.Speaker,
			Text:    u.Text,
			StartMs: u.Start,
		})
	}
	return doc
}
