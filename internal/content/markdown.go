// Package content builds decks from authoring sources: markdown files split
// into panels, or structured YAML.
package content

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/zjrosen/podium/internal/deck"
)

// Separators recognized on a line of their own.
const (
	HorizontalSeparator = "---"
	VerticalSeparator   = "--"
)

// notesPrefixes start the speaker notes of a panel.
var notesPrefixes = []string{"Note:", "Notes:"}

// MarkdownOptions tunes markdown splitting.
type MarkdownOptions struct {
	Horizontal string
	Vertical   string
}

func (o MarkdownOptions) withDefaults() MarkdownOptions {
	if o.Horizontal == "" {
		o.Horizontal = HorizontalSeparator
	}
	if o.Vertical == "" {
		o.Vertical = VerticalSeparator
	}
	return o
}

// ParseMarkdown builds a deck from markdown. Sections are separated by a
// "---" line and the panels of a vertical stack by a "--" line. Annotation
// comments set panel attributes:
//
//	<!-- .slide: id=intro state=dim autoslide=2s background=#222 -->
//	<!-- .stack: autoslide=5s start=1 -->
//	- a list item revealed later <!-- .fragment index=1 -->
//	![clip](demo.mp4 "autoplay duration=30s")
func ParseMarkdown(src []byte, title string, opts MarkdownOptions) (*deck.Deck, error) {
	opts = opts.withDefaults()
	d := deck.New(title)
	md := goldmark.New()

	for h, columns := range splitSections(string(src), opts) {
		var panels []*deck.Panel
		stackAttrs := map[string]string{}
		for v, raw := range columns {
			p, stack, err := parsePanel(md, raw)
			if err != nil {
				return nil, fmt.Errorf("panel %d/%d: %w", h, v, err)
			}
			for k, val := range stack {
				stackAttrs[k] = val
			}
			panels = append(panels, p)
		}

		if len(panels) == 1 && len(stackAttrs) == 0 {
			d.Sections = append(d.Sections, deck.NewLeaf(panels[0]))
			continue
		}
		s := deck.NewStack(panels...)
		if err := applyStack(s, stackAttrs); err != nil {
			return nil, fmt.Errorf("section %d: %w", h, err)
		}
		d.Sections = append(d.Sections, s)
	}

	if d.Title == "" {
		if p := d.Panel(0, 0); p != nil {
			d.Title = p.Title
		}
	}
	return d, nil
}

// splitSections cuts src into sections of panel sources. Separators inside
// fenced code blocks are ignored, and empty panels are dropped.
func splitSections(src string, opts MarkdownOptions) [][]string {
	var (
		sections [][]string
		column   []string
		cur      strings.Builder
		fenced   bool
	)
	flushPanel := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			column = append(column, s)
		}
		cur.Reset()
	}
	flushSection := func() {
		flushPanel()
		if len(column) > 0 {
			sections = append(sections, column)
		}
		column = nil
	}

	for _, line := range strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			fenced = !fenced
		}
		switch {
		case !fenced && trimmed == opts.Horizontal:
			flushSection()
		case !fenced && trimmed == opts.Vertical:
			flushPanel()
		default:
			cur.WriteString(line)
			cur.WriteByte('\n')
		}
	}
	flushSection()
	return sections
}

// parsePanel converts one panel's markdown. It returns the attributes of any
// .stack annotation separately since they belong to the enclosing section.
func parsePanel(md goldmark.Markdown, raw string) (*deck.Panel, map[string]string, error) {
	body, notes := splitNotes(raw)
	src := []byte(body)
	doc := md.Parser().Parse(text.NewReader(src))

	p := &deck.Panel{
		Body:  strings.TrimSpace(stripDirectives(body)),
		Notes: strings.TrimSpace(notes),
	}
	stack := map[string]string{}
	var walkErr error

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if p.Title == "" {
				p.Title = strings.TrimSpace(stripDirectives(string(node.Text(src))))
			}
		case *ast.HTMLBlock:
			for _, d := range parseDirectives(blockText(node, src)) {
				switch d.kind {
				case "slide":
					if err := applySlide(p, d.attrs); err != nil {
						walkErr = err
						return ast.WalkStop, nil
					}
				case "stack":
					for k, v := range d.attrs {
						stack[k] = v
					}
				}
			}
		case *ast.ListItem, *ast.Paragraph:
			if _, nested := n.Parent().(*ast.ListItem); nested {
				return ast.WalkContinue, nil
			}
			f, err := fragmentOf(node, src)
			if err != nil {
				walkErr = err
				return ast.WalkStop, nil
			}
			if f != nil {
				p.Fragments = append(p.Fragments, f)
				return ast.WalkSkipChildren, nil
			}
		case *ast.Image:
			m, err := mediaOf(node)
			if err != nil {
				walkErr = err
				return ast.WalkStop, nil
			}
			if m != nil {
				p.Media = append(p.Media, m)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if walkErr != nil {
		return nil, nil, walkErr
	}
	return p, stack, nil
}

func splitNotes(raw string) (body, notes string) {
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		for _, prefix := range notesPrefixes {
			if rest, ok := strings.CutPrefix(strings.TrimSpace(line), prefix); ok {
				notes = strings.Join(append([]string{rest}, lines[i+1:]...), "\n")
				return strings.Join(lines[:i], "\n"), notes
			}
		}
	}
	return raw, ""
}

// fragmentOf returns a fragment when n carries a .fragment annotation.
// Media inside the fragment belong to it rather than to the panel.
func fragmentOf(n ast.Node, src []byte) (*deck.Fragment, error) {
	var (
		found bool
		attrs map[string]string
		media []*deck.Media
		err   error
	)
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *ast.List:
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			for _, d := range parseDirectives(rawText(node, src)) {
				if d.kind == "fragment" {
					found, attrs = true, d.attrs
				}
			}
		case *ast.Image:
			m, mErr := mediaOf(node)
			if mErr != nil {
				err = mErr
				return ast.WalkStop, nil
			}
			if m != nil {
				media = append(media, m)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil || !found {
		return nil, err
	}

	f := &deck.Fragment{
		Text:  strings.TrimSpace(stripDirectives(inlineText(n, src))),
		Media: media,
	}
	if f.Index, err = parseIntAttr(attrs, "index"); err != nil {
		return nil, err
	}
	if f.AutoSlide, err = parseDuration(attrs["autoslide"]); err != nil {
		return nil, err
	}
	return f, nil
}

var mediaKinds = map[string]deck.MediaKind{
	".mp4":  deck.Video,
	".webm": deck.Video,
	".mov":  deck.Video,
	".ogv":  deck.Video,
	".mp3":  deck.Audio,
	".ogg":  deck.Audio,
	".wav":  deck.Audio,
	".m4a":  deck.Audio,
	".html": deck.Frame,
}

// mediaOf interprets an image whose destination is playable. The image
// title holds media attributes.
func mediaOf(img *ast.Image) (*deck.Media, error) {
	dest := string(img.Destination)
	kind, ok := mediaKinds[strings.ToLower(path.Ext(dest))]
	if !ok {
		if strings.HasPrefix(dest, "http://") || strings.HasPrefix(dest, "https://") {
			if strings.Contains(string(img.Title), "frame") {
				kind, ok = deck.Frame, true
			}
		}
		if !ok {
			return nil, nil
		}
	}
	return newMedia(kind, dest, parseAttrs(string(img.Title)))
}

func newMedia(kind deck.MediaKind, src string, attrs map[string]string) (*deck.Media, error) {
	m := &deck.Media{
		Kind:     kind,
		Source:   src,
		Autoplay: attrs["autoplay"] == "true",
		Ignore:   attrs["ignore"] == "true",
		Lazy:     attrs["lazy"] == "true",
	}
	var err error
	if m.Duration, err = parseDuration(attrs["duration"]); err != nil {
		return nil, err
	}
	if rate, ok := attrs["rate"]; ok {
		if _, err := fmt.Sscanf(rate, "%g", &m.PlaybackRate); err != nil {
			return nil, fmt.Errorf("invalid rate %q", rate)
		}
	}
	return m, nil
}

func applySlide(p *deck.Panel, attrs map[string]string) error {
	var err error
	if id, ok := attrs["id"]; ok {
		p.ID = id
	}
	if st, ok := attrs["state"]; ok {
		p.States = append(p.States, strings.Split(st, ",")...)
	}
	if p.AutoSlide, err = parseDuration(attrs["autoslide"]); err != nil {
		return err
	}
	if bg := backgroundOf(attrs); bg != nil {
		p.Background = bg
	}
	return nil
}

func applyStack(s *deck.Section, attrs map[string]string) error {
	var err error
	if s.AutoSlide, err = parseDuration(attrs["autoslide"]); err != nil {
		return err
	}
	if s.StartV, err = parseIntAttr(attrs, "start"); err != nil {
		return err
	}
	s.Background = backgroundOf(attrs)
	return nil
}

func backgroundOf(attrs map[string]string) *deck.Background {
	bg := &deck.Background{
		Color:      attrs["background"],
		Image:      attrs["background-image"],
		Transition: attrs["background-transition"],
	}
	if v := attrs["background-video"]; v != "" {
		bg.Video = &deck.Media{Kind: deck.Video, Source: v, Lazy: true}
	}
	switch attrs["tone"] {
	case "light":
		bg.Tone = deck.ToneLight
	case "dark":
		bg.Tone = deck.ToneDark
	}
	if bg.Color == "" && bg.Image == "" && bg.Video == nil {
		return nil
	}
	return bg
}

func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	if hb, ok := n.(*ast.HTMLBlock); ok && hb.HasClosure() {
		buf.Write(hb.ClosureLine.Value(src))
	}
	return buf.String()
}

func rawText(n *ast.RawHTML, src []byte) string {
	var buf bytes.Buffer
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String()
}

// inlineText flattens the text of n and its inline children.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.RawHTML:
			buf.WriteString(rawText(node, src))
		case *ast.Image:
		default:
			if buf.Len() > 0 && c.Type() == ast.TypeBlock {
				buf.WriteByte(' ')
			}
			buf.WriteString(inlineText(c, src))
		}
	}
	return buf.String()
}
