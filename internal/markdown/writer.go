package markdown

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

const dateLayout = "2006-01-02 15:04:05"

// DefaultWriter is the default transcript file writer
type DefaultWriter struct{}

// NewWriter creates a new transcript file writer
func NewWriter() Writer {
	return &DefaultWriter{}
}

// Write creates or truncates path and renders doc into it
func (w *DefaultWriter) Write(path string, doc *Document) error {
	if doc == nil {
		return fmt.Errorf("transcript document is empty")
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := Render(file, doc); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// Render writes the Markdown form of doc to w.
// Diarized lines take precedence over the full text.
func Render(w io.Writer, doc *Document) error {
	writer := bufio.NewWriter(w)

	fmt.Fprintf(writer, "# Transcript: %s\n\n", doc.SourceName)
	fmt.Fprintf(writer, "**Date:** %s\n\n", doc.GeneratedAt.Format(dateLayout))
	fmt.Fprint(writer, "---\n\n")

	if len(doc.Lines) > 0 {
		for _, line := range doc.Lines {
			fmt.Fprintf(writer, "**Speaker %s** (%s): %s\n\n",
				line.Speaker,
				FormatTimestamp(line.StartMs),
				line.Text)
		}
	} else {
		fmt.Fprintf(writer, "%s\n", doc.Text)
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}

// FormatTimestamp formats a millisecond offset as MM:SS.
// Minutes wrap at 60, so offsets past an hour lose the hour part.
func FormatTimestamp(ms int64) string {
	minutes := (ms / 60000) % 60
	seconds := (ms / 1000) % 60

	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
