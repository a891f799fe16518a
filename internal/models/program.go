package models

// ProgramID is the canonical NRK program identifier, either four uppercase
// letters followed by eight digits (e.g. "MSUI28008021") or "PS*" followed by
// a hexadecimal/hyphen token.
type ProgramID string

// String returns the identifier as a plain string
func (id ProgramID) String() string {
	return string(id)
}

// ProgramResponse represents the raw program metadata from the NRK TV API
type ProgramResponse struct {
	FullTitle    string `json:"fullTitle"`    // Series title plus episode title
	Title        string `json:"title"`        // Short title, used when fullTitle is empty
	MediaURL     string `json:"mediaUrl"`     // Top-level HLS manifest
	HasSubtitles bool   `json:"hasSubtitles"` // Whether a subtitle track is announced
}

// MediaDescriptor is the normalized metadata needed to download a program
type MediaDescriptor struct {
	ProgramID    ProgramID `json:"programId"`
	Title        string    `json:"title"`
	MediaURL     string    `json:"mediaUrl"`
	HasSubtitles bool      `json:"hasSubtitles"`
}

// MediaLookupPayload is the JSON embedded in the media-ID lookup page script
type MediaLookupPayload struct {
	ActiveMedia struct {
		PsID string `json:"psId"`
	} `json:"activeMedia"`
}
