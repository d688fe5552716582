package content

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/podium/internal/deck"
)

type deckDoc struct {
	Title    string       `yaml:"title"`
	Sections []sectionDoc `yaml:"sections"`
}

// sectionDoc is a leaf when Stack is empty; the inline panel fields are then
// the leaf itself.
type sectionDoc struct {
	panelDoc   `yaml:",inline"`
	Stack      []panelDoc     `yaml:"stack"`
	StackSlide time.Duration  `yaml:"stack_autoslide"`
	Start      *int           `yaml:"start"`
	StackBG    *backgroundDoc `yaml:"stack_background"`
}

type panelDoc struct {
	ID         string         `yaml:"id"`
	Title      string         `yaml:"title"`
	Body       string         `yaml:"body"`
	Notes      string         `yaml:"notes"`
	States     []string       `yaml:"states"`
	AutoSlide  time.Duration  `yaml:"autoslide"`
	Fragments  []fragmentDoc  `yaml:"fragments"`
	Media      []mediaDoc     `yaml:"media"`
	Background *backgroundDoc `yaml:"background"`
}

type fragmentDoc struct {
	Text      string        `yaml:"text"`
	Index     *int          `yaml:"index"`
	AutoSlide time.Duration `yaml:"autoslide"`
	Media     []mediaDoc    `yaml:"media"`
}

type mediaDoc struct {
	Kind     string        `yaml:"kind"`
	Source   string        `yaml:"src"`
	Autoplay bool          `yaml:"autoplay"`
	Ignore   bool          `yaml:"ignore"`
	Lazy     bool          `yaml:"lazy"`
	Duration time.Duration `yaml:"duration"`
	Rate     float64       `yaml:"rate"`
}

type backgroundDoc struct {
	Color      string    `yaml:"color"`
	Image      string    `yaml:"image"`
	Transition string    `yaml:"transition"`
	Tone       string    `yaml:"tone"`
	Video      *mediaDoc `yaml:"video"`
}

// ParseYAML builds a deck from its YAML description.
func ParseYAML(src []byte) (*deck.Deck, error) {
	var doc deckDoc
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("parsing deck yaml: %w", err)
	}

	d := deck.New(doc.Title)
	for i, sd := range doc.Sections {
		if len(sd.Stack) == 0 {
			p, err := sd.panelDoc.panel()
			if err != nil {
				return nil, fmt.Errorf("section %d: %w", i, err)
			}
			d.Sections = append(d.Sections, deck.NewLeaf(p))
			continue
		}
		var panels []*deck.Panel
		for j, pd := range sd.Stack {
			p, err := pd.panel()
			if err != nil {
				return nil, fmt.Errorf("section %d/%d: %w", i, j, err)
			}
			panels = append(panels, p)
		}
		s := deck.NewStack(panels...)
		s.AutoSlide = sd.StackSlide
		s.StartV = sd.Start
		if sd.StackBG != nil {
			bg, err := sd.StackBG.background()
			if err != nil {
				return nil, fmt.Errorf("section %d: %w", i, err)
			}
			s.Background = bg
		}
		d.Sections = append(d.Sections, s)
	}
	return d, nil
}

func (pd panelDoc) panel() (*deck.Panel, error) {
	p := &deck.Panel{
		ID:        pd.ID,
		Title:     pd.Title,
		Body:      pd.Body,
		Notes:     pd.Notes,
		States:    pd.States,
		AutoSlide: pd.AutoSlide,
	}
	var err error
	if p.Media, err = mediaList(pd.Media); err != nil {
		return nil, err
	}
	for _, fd := range pd.Fragments {
		f := &deck.Fragment{Text: fd.Text, Index: fd.Index, AutoSlide: fd.AutoSlide}
		if f.Media, err = mediaList(fd.Media); err != nil {
			return nil, err
		}
		p.Fragments = append(p.Fragments, f)
	}
	if pd.Background != nil {
		if p.Background, err = pd.Background.background(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func mediaList(docs []mediaDoc) ([]*deck.Media, error) {
	var out []*deck.Media
	for _, md := range docs {
		m, err := md.media()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (md mediaDoc) media() (*deck.Media, error) {
	var kind deck.MediaKind
	switch md.Kind {
	case "", "video":
		kind = deck.Video
	case "audio":
		kind = deck.Audio
	case "frame", "iframe":
		kind = deck.Frame
	default:
		return nil, fmt.Errorf("unknown media kind %q", md.Kind)
	}
	return &deck.Media{
		Kind:         kind,
		Source:       md.Source,
		Autoplay:     md.Autoplay,
		Ignore:       md.Ignore,
		Lazy:         md.Lazy,
		Duration:     md.Duration,
		PlaybackRate: md.Rate,
	}, nil
}

func (bd backgroundDoc) background() (*deck.Background, error) {
	bg := &deck.Background{Color: bd.Color, Image: bd.Image, Transition: bd.Transition}
	switch bd.Tone {
	case "":
	case "light":
		bg.Tone = deck.ToneLight
	case "dark":
		bg.Tone = deck.ToneDark
	default:
		return nil, fmt.Errorf("unknown background tone %q", bd.Tone)
	}
	if bd.Video != nil {
		m, err := bd.Video.media()
		if err != nil {
			return nil, err
		}
		bg.Video = m
	}
	return bg, nil
}
