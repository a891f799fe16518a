package apperrors

import "fmt"

// ErrNotFound represents an error when a requested resource is not found.
type ErrNotFound struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewNotFoundError creates a new ErrNotFound.
func NewNotFoundError(resource string, id interface{}) *ErrNotFound {
	return &ErrNotFound{
		Resource: resource,
		ID:       id,
	}
}

// NewProgramNotFoundError is returned when the metadata endpoint knows nothing about a program.
func NewProgramNotFoundError(programID string) *ErrNotFound {
	return &ErrNotFound{
		Resource: "program",
		ID:       programID,
	}
}

// ErrMissingScheme signals a URL without scheme or host. The fetcher retries it once with https://.
type ErrMissingScheme struct {
	URL string
}

// Error implements the error interface.
func (e *ErrMissingScheme) Error() string {
	return fmt.Sprintf("missing URL scheme in %q", e.URL)
}

// Is allows for error checking with errors.Is().
func (e *ErrMissingScheme) Is(target error) bool {
	_, ok := target.(*ErrMissingScheme)
	return ok
}

// ErrTransport wraps any network-level failure (DNS, connection, invalid URL).
type ErrTransport struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *ErrTransport) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *ErrTransport) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrTransport) Is(target error) bool {
	_, ok := target.(*ErrTransport)
	return ok
}

// ErrUnexpectedStatus is returned when a server answers with a non-2xx status code.
type ErrUnexpectedStatus struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *ErrUnexpectedStatus) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// Is allows for error checking with errors.Is().
func (e *ErrUnexpectedStatus) Is(target error) bool {
	_, ok := target.(*ErrUnexpectedStatus)
	return ok
}

// ErrUnresolvableReference is returned when no resolution strategy yields a program identifier.
type ErrUnresolvableReference struct {
	Reference string
}

// Error implements the error interface.
func (e *ErrUnresolvableReference) Error() string {
	return fmt.Sprintf("could not parse program ID from %q", e.Reference)
}

// Is allows for error checking with errors.Is().
func (e *ErrUnresolvableReference) Is(target error) bool {
	_, ok := target.(*ErrUnresolvableReference)
	return ok
}

// ErrMediaUnavailable is returned when program metadata carries no media stream.
type ErrMediaUnavailable struct {
	ProgramID string
}

// Error implements the error interface.
func (e *ErrMediaUnavailable) Error() string {
	return fmt.Sprintf("could not find media stream for program %s, no longer available?", e.ProgramID)
}

// Is allows for error checking with errors.Is().
func (e *ErrMediaUnavailable) Is(target error) bool {
	_, ok := target.(*ErrMediaUnavailable)
	return ok
}

// ErrSubtitleTrackInconsistent is returned when subtitles were announced but the
// manifests do not lead to a caption asset.
type ErrSubtitleTrackInconsistent struct {
	URL    string
	Reason string
}

// Error implements the error interface.
func (e *ErrSubtitleTrackInconsistent) Error() string {
	return fmt.Sprintf("subtitle track inconsistent with manifest %s: %s", e.URL, e.Reason)
}

// Is allows for error checking with errors.Is().
func (e *ErrSubtitleTrackInconsistent) Is(target error) bool {
	_, ok := target.(*ErrSubtitleTrackInconsistent)
	return ok
}

// ErrUnsupportedPlaylist is returned when a media playlist cannot be downloaded as plain segments.
type ErrUnsupportedPlaylist struct {
	URL    string
	Reason string
}

// Error implements the error interface.
func (e *ErrUnsupportedPlaylist) Error() string {
	return fmt.Sprintf("unsupported playlist %s: %s", e.URL, e.Reason)
}

// Is allows for error checking with errors.Is().
func (e *ErrUnsupportedPlaylist) Is(target error) bool {
	_, ok := target.(*ErrUnsupportedPlaylist)
	return ok
}
