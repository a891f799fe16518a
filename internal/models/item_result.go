package models

// ItemStatus is the outcome of processing one requested reference
type ItemStatus int

const (
	ItemStatusFailed ItemStatus = iota
	ItemStatusPartial
	ItemStatusSucceeded
)

// String returns the string representation of the status
func (s ItemStatus) String() string {
	switch s {
	case ItemStatusSucceeded:
		return "succeeded"
	case ItemStatusPartial:
		return "partial"
	default:
		return "failed"
	}
}

// Stage names the step of the download pipeline an error came from
type Stage string

const (
	StageResolve   Stage = "resolve"
	StageMetadata  Stage = "metadata"
	StageFilename  Stage = "filename"
	StageSubtitles Stage = "subtitles"
	StageMedia     Stage = "media"
)

// ItemResult describes what happened to a single reference of a batch
type ItemResult struct {
	Reference    string
	ProgramID    ProgramID
	Title        string
	Status       ItemStatus
	Stage        Stage // Stage of the first error, empty on success
	Err          error // First error encountered
	SubtitleErr  error // Subtitle failure when the media itself succeeded
	SubtitleFile string
	MediaFile    string
	BytesWritten int64
}
