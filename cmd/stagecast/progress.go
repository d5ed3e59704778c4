package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"stagecast/internal/ffmpeg"
)

// progressBars shows one terminal bar per encoding stage.
type progressBars struct {
	mu    sync.Mutex
	out   io.Writer
	label string
	bar   *progressbar.ProgressBar
}

// newProgressBars returns nil when out is not a terminal, leaving progress to
// the log.
func newProgressBars(out io.Writer) *progressBars {
	if !isTerminal(out) {
		return nil
	}
	return &progressBars{out: out}
}

func (b *progressBars) report(p ffmpeg.Progress) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar == nil || p.Label != b.label {
		b.finishLocked()
		b.label = p.Label
		b.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(b.out),
			progressbar.OptionSetDescription(p.Label),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionSetRenderBlankState(true),
		)
	}
	if p.Speed != "" {
		b.bar.Describe(fmt.Sprintf("%s %sx", p.Label, p.Speed))
	}
	_ = b.bar.Set(int(p.Percent))
	if p.Done {
		b.finishLocked()
	}
}

func (b *progressBars) finishLocked() {
	if b.bar == nil {
		return
	}
	_ = b.bar.Finish()
	fmt.Fprintln(b.out)
	b.bar = nil
}

func (b *progressBars) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar != nil {
		_ = b.bar.Exit()
		b.bar = nil
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
