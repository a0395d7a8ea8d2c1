package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ProgressUI displays upload progress
type ProgressUI struct {
	out io.Writer
}

// NewProgressUI creates a new progress UI writing to stderr
func NewProgressUI() *ProgressUI {
	return &ProgressUI{out: os.Stderr}
}

// NewProgressUIWithWriter creates a progress UI writing to out
func NewProgressUIWithWriter(out io.Writer) *ProgressUI {
	return &ProgressUI{out: out}
}

// Track starts a progress bar for an upload of total bytes
func (p *ProgressUI) Track(filename string, total int64) (io.Writer, func()) {
	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(fmt.Sprintf("Uploading %s", filename)),
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetPredictTime(false),
	)
	return bar, func() {
		_ = bar.Finish()
	}
}
