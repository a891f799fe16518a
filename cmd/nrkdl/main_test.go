package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"github.com/Belphemur/NrkDownload/internal/testutil"
)

func writeConfig(t *testing.T, fake *testutil.FakeNRK) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nrkdl.yaml")
	content := fmt.Sprintf("program_api_url: %s\nmedia_lookup_url: %s\nclient_timeout: 5s\nlog_level: warn\n",
		fake.URL("/programs"), fake.URL("/mimir"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCLI_DownloadsBatch(t *testing.T) {
	fake := testutil.NewFakeNRK(t)
	fake.AddStream("MSUI28008021", "Skam", testutil.StreamOptions{
		Segments: []string{"abc"},
		WebVTT:   testutil.SampleWebVTT,
	})
	fake.AddStream("KOID20009012", "Blåfjell", testutil.StreamOptions{Segments: []string{"def"}})
	fake.AddMediaLookup("12345", "KOID20009012")
	outputDir := t.TempDir()

	out, _, err := runCLI(t, "--config", writeConfig(t, fake), "--output", outputDir, "MSUI28008021", "12345")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	for file, expected := range map[string]string{
		"Skam.ts":     "abc",
		"Skam.srt":    testutil.SampleSRT,
		"Blåfjell.ts": "def",
	} {
		data, err := os.ReadFile(filepath.Join(outputDir, file))
		if err != nil {
			t.Fatalf("read %s: %v", file, err)
		}
		if string(data) != expected {
			t.Errorf("%s: expected %q, got %q", file, expected, string(data))
		}
	}

	if !strings.Contains(out, "MSUI28008021") || !strings.Contains(out, "KOID20009012") {
		t.Errorf("summary missing program IDs: %q", out)
	}
	if _, err := os.Stat(filepath.Join(outputDir, lockFileName)); !os.IsNotExist(err) {
		t.Errorf("expected lock file to be removed, got %v", err)
	}
}

func TestCLI_FailedReferenceExitsWithError(t *testing.T) {
	fake := testutil.NewFakeNRK(t)
	fake.AddStream("MSUI28008021", "Skam", testutil.StreamOptions{Segments: []string{"abc"}})
	fake.AddPage("/ingenting", testutil.GenerateEmptyHTML())
	outputDir := t.TempDir()

	out, _, err := runCLI(t, "-c", writeConfig(t, fake), "-o", outputDir, "--no-subtitles",
		fake.URL("/ingenting"), "MSUI28008021")
	if !errors.Is(err, errBatchFailed) {
		t.Fatalf("expected errBatchFailed, got %v", err)
	}

	if _, err := os.Stat(filepath.Join(outputDir, "Skam.ts")); err != nil {
		t.Errorf("expected second reference to be downloaded: %v", err)
	}
	if !strings.Contains(out, "resolve failed") {
		t.Errorf("summary missing failure: %q", out)
	}
}

func TestCLI_RequiresReference(t *testing.T) {
	if _, _, err := runCLI(t); err == nil {
		t.Fatal("expected an error without references")
	}
}

func TestCLI_Version(t *testing.T) {
	out, _, err := runCLI(t, "--version")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("expected version in output, got %q", out)
	}
}

func TestCLI_OutputDirectoryLocked(t *testing.T) {
	fake := testutil.NewFakeNRK(t)
	outputDir := t.TempDir()

	other := flock.New(filepath.Join(outputDir, lockFileName))
	if ok, err := other.TryLock(); err != nil || !ok {
		t.Fatalf("pre-lock: ok=%v err=%v", ok, err)
	}
	defer func() { _ = other.Unlock() }()

	_, _, err := runCLI(t, "-c", writeConfig(t, fake), "-o", outputDir, "MSUI28008021")
	if err == nil || !strings.Contains(err.Error(), "another nrkdl run") {
		t.Fatalf("expected lock error, got %v", err)
	}
	if fake.Requests("/programs/MSUI28008021") != 0 {
		t.Error("expected no requests while the output directory is locked")
	}
}
