package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/Belphemur/NrkDownload/internal/apperrors"
	"github.com/Belphemur/NrkDownload/internal/testutil"
)

func TestMediaLookupParser_ExtractsProgramID(t *testing.T) {
	t.Parallel()
	parser := NewMediaLookupParser()

	id, err := parser.ParseHtml(strings.NewReader(testutil.GenerateMediaLookupHTML("XYZA98765432")), "text/html")
	if err != nil {
		t.Fatalf("ParseHtml failed: %v", err)
	}
	if id != "XYZA98765432" {
		t.Errorf("Expected program ID XYZA98765432, got %q", id)
	}
}

func TestMediaLookupParser_FailureCases(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		html string
	}{
		{
			name: "no scripts",
			html: testutil.GenerateEmptyHTML(),
		},
		{
			name: "only non-JSON scripts",
			html: `<html><head><script>var a = 1;</script></head><body><script>{ broken json</script></body></html>`,
		},
		{
			name: "payload without active media",
			html: `<html><body><script>{"plugin":"static"}</script></body></html>`,
		},
		{
			name: "empty psId",
			html: `<html><body><script>{"activeMedia":{"psId":""}}</script></body></html>`,
		},
	}

	parser := NewMediaLookupParser()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := parser.ParseHtml(strings.NewReader(tt.html), "")
			if !errors.Is(err, &apperrors.ErrNotFound{}) {
				t.Errorf("Expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestMediaLookupParser_FirstJSONPayloadWins(t *testing.T) {
	t.Parallel()
	html := `<html><body>
<script>{"activeMedia":{"psId":"AAAA11111111"}}</script>
<script>{"activeMedia":{"psId":"BBBB22222222"}}</script>
</body></html>`

	id, err := NewMediaLookupParser().ParseHtml(strings.NewReader(html), "")
	if err != nil {
		t.Fatalf("ParseHtml failed: %v", err)
	}
	if id != "AAAA11111111" {
		t.Errorf("Expected first payload's program ID, got %q", id)
	}
}
