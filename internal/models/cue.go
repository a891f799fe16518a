package models

// Cue is one caption entry of a WebVTT or SRT document.
// A block without a timing line keeps its lines in Raw and is written back unchanged.
type Cue struct {
	Identifier []string // Lines preceding the timing line (usually the cue number); may be empty
	Timing     string   // The "start --> end [settings]" line
	Text       []string // Caption text lines
	Raw        []string // Original lines for blocks that are not cues
}

// IsCue reports whether the block carried a timing line
func (c Cue) IsCue() bool {
	return c.Timing != ""
}
