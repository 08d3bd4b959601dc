package display

import (
	"fmt"
	"io"

	"cpuwatch/internal/sample"
	"cpuwatch/internal/shared/logger"
)

// Printer renders decoded frames to a console writer. One Printer owns the
// output for the whole session; frames are handled one at a time in arrival
// order, so no locking is needed.
type Printer struct {
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// HandleFrame decodes and renders one inbound frame. Any decode failure is
// converted into a single diagnostic line carrying the raw byte length; it
// never propagates, so one bad frame cannot take down the stream.
func (p *Printer) HandleFrame(raw []byte) {
	s, err := sample.Decode(raw)
	if err != nil {
		fmt.Fprintf(p.out, "ERROR: failed to decode frame (%d bytes): %v\n", len(raw), err)
		logger.Debug().Int("raw_len", len(raw)).Err(err).Msg("Dropped undecodable frame.")
		return
	}
	s.Render(p.out)
}
