package upload

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

// NewProgressPrinter returns a ProgressFunc that redraws a single
// "Uploading: 5.2 MB / 10 MB (52%)" line on w and ends it with a newline
// once the total is reached
func NewProgressPrinter(w io.Writer) ProgressFunc {
	return func(sent, total int64) {
		fmt.Fprintf(w, "\rUploading: %s", FormatProgress(sent, total))
		if sent >= total {
			fmt.Fprintln(w)
		}
	}
}

// FormatProgress renders a byte count against the expected total
func FormatProgress(sent, total int64) string {
	if total <= 0 {
		return humanize.Bytes(uint64(max(sent, 0)))
	}
	percent := sent * 100 / total
	return fmt.Sprintf("%s / %s (%d%%)",
		humanize.Bytes(uint64(sent)),
		humanize.Bytes(uint64(total)),
		percent)
}
