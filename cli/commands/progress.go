package commands

import (
	"fmt"

	"github.com/vbauerster/mpb/v4"
	"github.com/vbauerster/mpb/v4/decor"
)

const progressBarWidth = 64

// newByteProgressBar sets up a single-bar progress display for a
// known-size byte transfer (insert reads a source file, read writes a
// destination file), mirroring cli/commands' own use of mpb for put/get
// progress.
func newByteProgressBar(label string, total int64) (*mpb.Progress, *mpb.Bar) {
	p := mpb.New(mpb.WithWidth(progressBarWidth))
	bar := p.AddBar(total,
		mpb.PrependDecorators(
			decor.Name(label, decor.WC{W: len(label) + 1, C: decor.DidentRight}),
			decor.CountersKibiByte("% .2f / % .2f", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(decor.Percentage(decor.WCSyncWidth)),
	)
	return p, bar
}

func printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}
