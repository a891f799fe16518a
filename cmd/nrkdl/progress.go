package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/Belphemur/NrkDownload/internal/config"
	"github.com/Belphemur/NrkDownload/internal/services"
)

// newProgress draws a progress bar on terminals and logs every 25% otherwise
func newProgress(w io.Writer) services.Progress {
	if isTerminal(w) {
		return &barProgress{out: w}
	}
	return &logProgress{}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type barProgress struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func (p *barProgress) Begin(name string) {
	p.bar = progressbar.NewOptions(100,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription(name),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *barProgress) Report(percent int) {
	if p.bar != nil {
		_ = p.bar.Set(percent)
	}
}

func (p *barProgress) Done() {
	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
}

type logProgress struct {
	name string
	next int
}

func (p *logProgress) Begin(name string) {
	p.name = name
	p.next = 25
}

func (p *logProgress) Report(percent int) {
	if percent < p.next {
		return
	}
	logger := config.GetLogger()
	logger.Info().Str("title", p.name).Int("percent", percent).Msg("Downloading")
	for p.next <= percent {
		p.next += 25
	}
}

func (p *logProgress) Done() {
	p.name = ""
}
