package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/Belphemur/NrkDownload/internal/models"
)

func TestRenderSummary(t *testing.T) {
	out := renderSummary([]models.ItemResult{
		{
			Reference:    "MSUI28008021",
			ProgramID:    "MSUI28008021",
			Title:        "Skam",
			Status:       models.ItemStatusSucceeded,
			MediaFile:    "Skam.ts",
			SubtitleFile: "Skam.srt",
			BytesWritten: 2048,
		},
		{
			Reference: "https://tv.nrk.no/ukjent",
			Status:    models.ItemStatusFailed,
			Stage:     models.StageResolve,
			Err:       errors.New("could not parse program ID"),
		},
		{
			Reference:   "KOID20009012",
			ProgramID:   "KOID20009012",
			Status:      models.ItemStatusPartial,
			SubtitleErr: errors.New("no subtitle track directive"),
			MediaFile:   "Lang.ts",
		},
	})

	for _, want := range []string{
		"Program ID",
		"Skam.ts",
		"Skam.srt",
		"2.0 kB",
		"succeeded",
		"resolve failed: could not parse program ID",
		"partial: no subtitle track directive",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestLogProgress_Thresholds(t *testing.T) {
	p := &logProgress{}
	p.Begin("Skam")
	for _, percent := range []int{10, 30, 31, 99} {
		p.Report(percent)
	}
	if p.next != 100 {
		t.Errorf("expected next threshold 100, got %d", p.next)
	}
	p.Report(100)
	if p.next != 125 {
		t.Errorf("expected next threshold 125, got %d", p.next)
	}
	p.Done()
}
