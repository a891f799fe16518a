package testutil

import (
	"fmt"
	"sort"
	"strings"
)

// ProgramPageOptions describes a tv.nrk.no style page for the page scrape strategy
type ProgramPageOptions struct {
	Title          string
	IncludeSection bool              // Render <section id="program-info">
	SectionAttrs   map[string]string // Attributes of the program-info section
	Figures        []map[string]string
}

func renderAttrs(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&sb, ` %s="%s"`, key, attrs[key])
	}
	return sb.String()
}

// GenerateProgramPageHTML generates an NRK program page with optional
// program-info section and player figures
func GenerateProgramPageHTML(opts ProgramPageOptions) string {
	if opts.Title == "" {
		opts.Title = "NRK TV"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<!DOCTYPE html>
<html lang="nb">
<head>
	<meta charset="utf-8">
	<title>%s</title>
</head>
<body>
	<header class="site-header"><a href="/">NRK TV</a></header>
	<main>
`, opts.Title)

	if opts.IncludeSection {
		fmt.Fprintf(&sb, `		<section id="program-info"%s>
			<h1>%s</h1>
		</section>
`, renderAttrs(opts.SectionAttrs), opts.Title)
	}

	for i, attrs := range opts.Figures {
		fmt.Fprintf(&sb, `		<figure class="player"%s>
			<img src="/poster-%d.jpg" alt="">
		</figure>
`, renderAttrs(attrs), i)
	}

	sb.WriteString(`	</main>
</body>
</html>`)
	return sb.String()
}

// GenerateMediaLookupHTML generates the media-ID lookup page. A non-JSON
// analytics script precedes the state script, like on the real page.
func GenerateMediaLookupHTML(psID string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<script>window.nrkAnalytics = window.nrkAnalytics || [];</script>
</head>
<body>
	<div id="player"></div>
	<script type="application/json">{"activeMedia":{"psId":"%s","title":"Dagsrevyen"},"plugin":"static"}</script>
</body>
</html>`, psID)
}

// GenerateEmptyHTML returns a page without any program information
func GenerateEmptyHTML() string {
	return "<html><body></body></html>"
}
