package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/unicode/norm"

	"github.com/Belphemur/NrkDownload/internal/models"
)

// Output file extensions
const (
	MediaExtension    = ".ts"
	SubtitleExtension = ".srt"
)

// Characters not allowed in file names on at least one common filesystem
var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	"?", "_",
	"%", "_",
	"*", "_",
	":", "_",
	"|", "_",
	`"`, "_",
	"<", "_",
	">", "_",
)

// FilenameBase derives a file name without extension from a program title.
// Forbidden characters become '_' and the result is NFC-normalised so
// decomposed æ, ø and å compare equal to their composed forms. An empty
// result falls back to the program ID.
func FilenameBase(title string, programID models.ProgramID) string {
	base := strings.TrimSpace(norm.NFC.String(filenameReplacer.Replace(title)))
	if base == "" {
		base = filenameReplacer.Replace(programID.String())
	}
	return base
}

// AvailableBase returns base, or "base (N)" for the lowest N >= 1, such that
// neither the media file nor the subtitle file exists in dir yet
func AvailableBase(fs afero.Fs, dir, base string) (string, error) {
	candidate := base
	for n := 1; ; n++ {
		taken, err := baseTaken(fs, dir, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s (%d)", base, n)
	}
}

func baseTaken(fs afero.Fs, dir, base string) (bool, error) {
	for _, ext := range []string{MediaExtension, SubtitleExtension} {
		exists, err := afero.Exists(fs, filepath.Join(dir, base+ext))
		if err != nil {
			return false, fmt.Errorf("failed to check %s: %w", base+ext, err)
		}
		if exists {
			return true, nil
		}
	}
	return false, nil
}
