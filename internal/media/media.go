// Package media starts and stops embedded media as panels enter and leave the
// present state.
package media

import (
	"github.com/zjrosen/podium/internal/deck"
	"github.com/zjrosen/podium/internal/log"
)

// Player performs playback for the rendering collaborator.
type Player interface {
	Play(m *deck.Media) error
	Pause(m *deck.Media)
	Unload(m *deck.Media)
}

// ErrorFunc receives load failures reported by the Player.
type ErrorFunc func(m *deck.Media, err error)

// Manager applies the autoplay policy to panels and backgrounds.
type Manager struct {
	player Player
	// autoplay overrides per-element opt-in when non-nil.
	autoplay *bool
	onError  ErrorFunc
}

// NewManager creates a manager. A nil autoplay leaves the decision to each
// element and to background membership.
func NewManager(player Player, autoplay *bool, onError ErrorFunc) *Manager {
	return &Manager{player: player, autoplay: autoplay, onError: onError}
}

// SetAutoplay replaces the global autoplay policy.
func (m *Manager) SetAutoplay(autoplay *bool) {
	m.autoplay = autoplay
}

// Autoplay returns the global policy, nil when unset.
func (m *Manager) Autoplay() *bool {
	return m.autoplay
}

// StartPanel starts the panel's media. Media inside fragments that are not
// yet revealed stay paused.
func (m *Manager) StartPanel(p *deck.Panel) {
	if m == nil || p == nil {
		return
	}
	for _, item := range p.Media {
		m.start(item, false)
	}
	for _, f := range p.Fragments {
		if !f.State.Shown() {
			continue
		}
		for _, item := range f.Media {
			m.start(item, false)
		}
	}
}

// StartFragments starts the media of newly current fragments.
func (m *Manager) StartFragments(fs []*deck.Fragment) {
	if m == nil {
		return
	}
	for _, f := range fs {
		for _, item := range f.Media {
			m.start(item, false)
		}
	}
}

// StopPanel pauses every media item not marked ignore. Lazy items are also
// unloaded when unload is set.
func (m *Manager) StopPanel(p *deck.Panel, unload bool) {
	if m == nil || p == nil {
		return
	}
	for _, item := range p.AllMedia() {
		m.stop(item, unload)
	}
}

// StartBackground starts background video; background media autoplays unless
// the global policy says otherwise.
func (m *Manager) StartBackground(bg *deck.Background) {
	if m == nil || bg == nil || bg.Video == nil {
		return
	}
	m.start(bg.Video, true)
}

// StopBackground pauses background video.
func (m *Manager) StopBackground(bg *deck.Background) {
	if m == nil || bg == nil || bg.Video == nil {
		return
	}
	m.stop(bg.Video, true)
}

// ShouldAutoplay resolves the autoplay policy for one element.
func (m *Manager) ShouldAutoplay(item *deck.Media, background bool) bool {
	if item.Kind == deck.Frame {
		return true
	}
	if m.autoplay != nil {
		return *m.autoplay
	}
	return item.Autoplay || background
}

func (m *Manager) start(item *deck.Media, background bool) {
	if !m.ShouldAutoplay(item, background) {
		return
	}
	if err := m.player.Play(item); err != nil {
		log.ErrorErr(log.CatMedia, "play failed", err, "source", item.Source)
		if m.onError != nil {
			m.onError(item, err)
		}
		return
	}
	log.Debug(log.CatMedia, "started", "source", item.Source, "kind", item.Kind)
}

func (m *Manager) stop(item *deck.Media, unload bool) {
	if item.Ignore {
		return
	}
	m.player.Pause(item)
	if unload && item.Lazy {
		m.player.Unload(item)
	}
}
