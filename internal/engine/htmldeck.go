package engine

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/alnah/go-docforge/internal/assets"
	"github.com/alnah/go-docforge/internal/fileutil"
	"github.com/alnah/go-docforge/internal/outline"
	"github.com/alnah/go-docforge/internal/pipeline"
)

// deckShell is the standalone deck page: one <section> per slide and a
// fixed nav of anchor links so the artifact is browsable without any
// script.
const deckShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
{{.CSS}}
</style>
</head>
<body>
<nav class="deck-nav">
{{- range .Slides}}
<a href="#{{.ID}}">{{.Label}}</a>
{{- end}}
</nav>
{{- range .Slides}}
<section class="slide" id="{{.ID}}">
{{.Body}}
</section>
{{- end}}
</body>
</html>
`

var deckTemplate = template.Must(template.New("deck").Parse(deckShell))

// HTMLDeck renders Markdown as a self-contained HTML slide deck. The
// document splits on second-level headings, one slide each, with the
// leading content as the title slide.
type HTMLDeck struct {
	conv *pipeline.GoldmarkConverter
	css  string
}

func NewHTMLDeck() *HTMLDeck {
	css, err := assets.ReadStyle("deck")
	if err != nil {
		css = ""
	}
	return &HTMLDeck{conv: pipeline.NewGoldmarkConverter(), css: css}
}

func (d *HTMLDeck) Name() string { return NameHTMLDeck }

func (d *HTMLDeck) Close() error { return nil }

type deckSlide struct {
	ID    string
	Label string
	Body  template.HTML
}

func (d *HTMLDeck) Render(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := outline.Parse(job.Markdown)
	title := doc.Title
	if title == "" {
		title = job.Title
	}

	segments := splitSlides(job.Markdown)
	usedIDs := map[string]bool{}
	var slides []deckSlide
	for i, segment := range segments {
		body, err := d.conv.Fragment(segment.markdown)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRenderFailed, err)
		}
		label := segment.heading
		if label == "" {
			label = title
		}
		if label == "" {
			label = fmt.Sprintf("Slide %d", i+1)
		}
		slides = append(slides, deckSlide{
			ID:    slideID(label, usedIDs),
			Label: label,
			Body:  template.HTML(body),
		})
	}

	var buf bytes.Buffer
	err := deckTemplate.Execute(&buf, struct {
		Title  string
		CSS    template.CSS
		Slides []deckSlide
	}{Title: title, CSS: template.CSS(d.css), Slides: slides})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return fileutil.WriteFileAtomic(job.OutputPath, buf.Bytes())
}

type slideSegment struct {
	heading  string
	markdown string
}

// splitSlides cuts the Markdown at H2 boundaries. Content before the
// first H2, including the H1 title, forms the opening slide.
func splitSlides(markdown string) []slideSegment {
	lines := strings.Split(markdown, "\n")
	var segments []slideSegment
	current := slideSegment{}
	var body []string
	inCode := false

	flush := func() {
		current.markdown = strings.TrimSpace(strings.Join(body, "\n"))
		if current.markdown != "" || current.heading != "" {
			segments = append(segments, current)
		}
	}

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCode = !inCode
		}
		if !inCode && strings.HasPrefix(line, "## ") && !strings.HasPrefix(line, "###") {
			flush()
			current = slideSegment{heading: strings.TrimSpace(strings.TrimPrefix(line, "## "))}
			body = nil
		}
		body = append(body, line)
	}
	flush()

	if len(segments) == 0 {
		segments = []slideSegment{{markdown: strings.TrimSpace(markdown)}}
	}
	return segments
}

// slideID slugifies a label into a unique fragment identifier.
func slideID(label string, used map[string]bool) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	id := strings.Trim(b.String(), "-")
	if id == "" {
		id = "slide"
	}
	base := id
	for n := 2; used[id]; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	used[id] = true
	return id
}
