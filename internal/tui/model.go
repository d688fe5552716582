// Package tui is the terminal front end: a Bubble Tea program that feeds
// keyboard, mouse, timer, reload and remote-control messages into one
// engine and draws the result.
package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/podium/internal/cachemanager"
	"github.com/zjrosen/podium/internal/config"
	"github.com/zjrosen/podium/internal/deck"
	"github.com/zjrosen/podium/internal/engine"
	"github.com/zjrosen/podium/internal/flags"
	"github.com/zjrosen/podium/internal/history"
	"github.com/zjrosen/podium/internal/infrastructure/sqlite"
	"github.com/zjrosen/podium/internal/intent"
	"github.com/zjrosen/podium/internal/keys"
	"github.com/zjrosen/podium/internal/log"
	"github.com/zjrosen/podium/internal/media"
	"github.com/zjrosen/podium/internal/pubsub"
	"github.com/zjrosen/podium/internal/remote"
	uihelp "github.com/zjrosen/podium/internal/ui/help"
	"github.com/zjrosen/podium/internal/ui/logoverlay"
	"github.com/zjrosen/podium/internal/ui/markdown"
	"github.com/zjrosen/podium/internal/ui/styles"
	"github.com/zjrosen/podium/internal/ui/toaster"
	"github.com/zjrosen/podium/internal/watcher"
)

// OriginMouse tags picks made by clicking an overview cell.
const OriginMouse = "mouse"

// BookmarkStore saves named locations.
type BookmarkStore interface {
	Add(ctx context.Context, deckPath, token, label string) (sqlite.Bookmark, error)
}

// Options wires the program's collaborators. Only Deck is required.
type Options struct {
	Deck       *deck.Deck
	DeckPath   string
	Config     config.Config
	ConfigPath string
	Flags      *flags.Registry
	// StartToken is the location to open at; empty starts at home.
	StartToken string

	Scheduler *Scheduler
	History   *history.Writer
	Player    media.Player
	Tracer    trace.Tracer
	Bookmarks BookmarkStore

	// Reload publishes deck file changes; Loader re-reads the deck.
	Reload *pubsub.Broker[watcher.Event]
	Loader func() (*deck.Deck, error)

	// Status receives the presentation state after every update.
	Status *remote.StatusBox
	// Debug enables the log overlay.
	Debug bool
}

// Model is the root program state.
type Model struct {
	opts   Options
	engine *engine.Engine
	ctx    context.Context
	cancel context.CancelFunc

	listener       *pubsub.ContinuousListener[engine.Event]
	reloadListener *pubsub.ContinuousListener[watcher.Event]
	logListener    *log.LogListener

	cache    cachemanager.Cache[string]
	renderer *markdown.Renderer
	zones    *zone.Manager

	keys     keys.KeyMap
	helpBar  help.Model
	helpView uihelp.Model
	progress progress.Model
	notes    viewport.Model
	toaster  toaster.Model
	logs     logoverlay.Model

	showHelp  bool
	showNotes bool

	width, height int
}

// New builds the model and starts the engine at opts.StartToken.
func New(opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())
	if opts.Scheduler == nil {
		opts.Scheduler = NewScheduler()
	}

	engOpts := []engine.Option{engine.WithScheduler(opts.Scheduler), engine.WithContext(ctx)}
	if opts.Player != nil {
		engOpts = append(engOpts, engine.WithPlayer(opts.Player))
	}
	if opts.History != nil {
		engOpts = append(engOpts, engine.WithHistory(opts.History))
	}
	if opts.Tracer != nil {
		engOpts = append(engOpts, engine.WithTracer(opts.Tracer))
	}
	e := engine.New(opts.Deck, opts.Config.Engine(), engOpts...)

	// Engine notifications are synchronous; the broker hands them to Update
	// as messages so handlers never re-enter the engine mid-transition.
	events := pubsub.NewBroker[engine.Event]()
	e.Observe(func(ev engine.Event) { events.Publish(eventType(ev), ev) })

	m := Model{
		opts:      opts,
		engine:    e,
		ctx:       ctx,
		cancel:    cancel,
		listener:  pubsub.NewContinuousListener(ctx, events, pubsub.NavigationEvent, pubsub.MediaEvent),
		zones:     zone.New(),
		keys:      keys.DefaultKeyMap(),
		helpBar:   help.New(),
		progress:  progress.New(progress.WithGradient(styles.ProgressStartColor, styles.ProgressEndColor), progress.WithoutPercentage()),
		notes:     viewport.New(0, 0),
		toaster:   toaster.New(),
		logs:      logoverlay.New(),
		showNotes: opts.Config.UI.ShowNotes,
	}
	if opts.Bookmarks == nil {
		m.keys.Bookmark.SetEnabled(false)
	}
	m.helpView = uihelp.New(m.keys)
	if opts.Flags.Enabled(flags.FlagRenderCache) {
		m.cache = cachemanager.NewMemory[string]("render", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	}
	if opts.Reload != nil && opts.Loader != nil {
		m.reloadListener = pubsub.NewContinuousListener(ctx, opts.Reload)
	}
	if opts.Debug {
		m.logListener = log.NewListener(ctx)
	}

	e.Start(opts.StartToken)
	m.publishStatus()
	return m
}

// Engine exposes the engine for callers that run after the program exits.
func (m Model) Engine() *engine.Engine {
	return m.engine
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.listener.Listen()}
	if m.reloadListener != nil {
		cmds = append(cmds, m.reloadListener.Listen())
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		m, cmd = m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case timerMsg:
		msg.run()

	case intent.Intent:
		m.engine.Dispatch(msg)

	case pubsub.Event[engine.Event]:
		m, cmd = m.handleEngineEvent(msg)

	case pubsub.Event[watcher.Event]:
		m, cmd = m.handleWatcherEvent(msg)

	case log.LogEvent:
		m.logs = m.logs.Append(msg.Payload)
		cmd = m.logListener.Listen()

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
	}

	m.syncNotes()
	m.publishStatus()
	return m, cmd
}

func (m Model) resize(width, height int) Model {
	if w := m.opts.Config.UI.Width; w > 0 {
		width = min(width, w)
	}
	if h := m.opts.Config.UI.Height; h > 0 {
		height = min(height, h)
	}
	m.width, m.height = width, height
	m.engine.SetViewport(width, height)

	r, err := markdown.New(m.opts.Config.UI.MarkdownStyle, m.panelWidth()-panelChrome, m.cache)
	if err != nil {
		log.ErrorErr(log.CatUI, "creating markdown renderer", err)
	} else {
		m.renderer = r
	}

	m.progress.Width = width
	m.helpBar.Width = width
	m.notes.Width = width
	m.notes.Height = notesHeight(height)
	m.helpView = m.helpView.SetSize(width, height)
	m.logs = m.logs.SetSize(width, height)
	log.Debug(log.CatUI, "resized", "width", width, "height", height)
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.logs.Visible() {
		m.logs = m.logs.Update(msg)
		return m, nil
	}
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, m.quit()
		case key.Matches(msg, m.keys.Help), msg.Type == tea.KeyEsc:
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case m.opts.Debug && msg.String() == "L":
		m.logs = m.logs.Toggle()
	case key.Matches(msg, m.keys.Notes):
		return m.toggleNotes()
	case key.Matches(msg, m.keys.Bookmark):
		return m.bookmark()
	case key.Matches(msg, m.keys.AutoSlide):
		m.engine.AutoSlidePlayerClick()
	case key.Matches(msg, m.keys.Pick):
		if m.engine.InOverview() {
			h, v := m.engine.Indices()
			m.engine.Dispatch(intent.Pick(h, v))
		}
	default:
		if in, ok := m.intentFor(msg); ok {
			m.engine.Dispatch(in)
		}
	}
	return m, nil
}

func (m Model) intentFor(msg tea.KeyMsg) (intent.Intent, bool) {
	bindings := []struct {
		binding key.Binding
		kind    intent.Kind
	}{
		{m.keys.Next, intent.Next},
		{m.keys.Prev, intent.Prev},
		{m.keys.Left, intent.Left},
		{m.keys.Right, intent.Right},
		{m.keys.Up, intent.Up},
		{m.keys.Down, intent.Down},
		{m.keys.First, intent.First},
		{m.keys.Last, intent.Last},
		{m.keys.Overview, intent.ToggleOverview},
		{m.keys.Pause, intent.TogglePause},
	}
	for _, b := range bindings {
		if key.Matches(msg, b.binding) {
			return intent.Of(b.kind), true
		}
	}
	return intent.Intent{}, false
}

func (m Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft || !m.engine.InOverview() {
		return
	}
	for _, p := range m.engine.Placements() {
		if z := m.zones.Get(cellID(p.H, p.V)); z != nil && z.InBounds(msg) {
			m.engine.Dispatch(intent.Pick(p.H, p.V).WithOrigin(OriginMouse))
			return
		}
	}
}

func (m Model) handleEngineEvent(ev pubsub.Event[engine.Event]) (Model, tea.Cmd) {
	listen := m.listener.Listen()
	switch e := ev.Payload.(type) {
	case engine.MediaError:
		var cmd tea.Cmd
		m, cmd = m.toast(fmt.Sprintf("media %s: %v", e.Media.Source, e.Err), toaster.StyleWarn)
		return m, tea.Batch(listen, cmd)
	case engine.SlideChanged:
		m.notes.GotoTop()
	}
	return m, listen
}

func (m Model) handleWatcherEvent(ev pubsub.Event[watcher.Event]) (Model, tea.Cmd) {
	listen := m.reloadListener.Listen()
	switch ev.Payload.Type {
	case watcher.DeckChanged:
		var cmd tea.Cmd
		m, cmd = m.reload()
		return m, tea.Batch(listen, cmd)
	case watcher.WatchError:
		log.Warn(log.CatWatcher, "watcher error received", "error", ev.Payload.Error)
	}
	return m, listen
}

// reload re-reads the deck and keeps the current position where it fits.
func (m Model) reload() (Model, tea.Cmd) {
	d, err := m.opts.Loader()
	if err != nil {
		log.ErrorErr(log.CatDeck, "reload failed", err, "path", m.opts.DeckPath)
		return m.toast("reload failed: "+err.Error(), toaster.StyleError)
	}

	changes := watcher.Changes(m.engine.Deck(), d)
	for _, c := range changes {
		log.Debug(log.CatDeck, "panel changed", "change", c.String())
	}
	m.engine.Sync(d)
	if m.renderer != nil {
		m.renderer.Invalidate()
	}

	text := "deck reloaded"
	if len(changes) > 0 {
		text = fmt.Sprintf("deck reloaded, %d panel(s) changed", len(changes))
	}
	return m.toast(text, toaster.StyleInfo)
}

func (m Model) toggleNotes() (Model, tea.Cmd) {
	m.showNotes = !m.showNotes
	if m.opts.ConfigPath == "" {
		return m, nil
	}
	if err := config.SaveSetting(m.opts.ConfigPath, "ui.show_notes", strconv.FormatBool(m.showNotes)); err != nil {
		log.ErrorErr(log.CatConfig, "saving show_notes", err)
		return m.toast("could not save notes setting", toaster.StyleError)
	}
	return m, nil
}

func (m Model) bookmark() (Model, tea.Cmd) {
	if m.opts.Bookmarks == nil || m.engine.Current() == nil {
		return m, nil
	}
	token := m.engine.Token()
	if _, err := m.opts.Bookmarks.Add(m.ctx, m.opts.DeckPath, token, m.engine.StatusText()); err != nil {
		log.ErrorErr(log.CatDB, "adding bookmark", err, "token", token)
		return m.toast("bookmark failed", toaster.StyleError)
	}
	return m.toast("bookmarked "+token, toaster.StyleSuccess)
}

func (m Model) toast(text string, style toaster.Style) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.Show(text, style, toaster.DefaultDuration)
	return m, cmd
}

func (m Model) quit() tea.Cmd {
	m.cancel()
	return tea.Quit
}

// syncNotes loads the present panel's notes into the notes viewport.
func (m *Model) syncNotes() {
	if !m.showNotes {
		return
	}
	m.notes.SetContent(wrapNotes(m.engine.View().Notes, m.notes.Width))
}

func (m Model) publishStatus() {
	if m.opts.Status == nil {
		return
	}
	v := m.engine.View()
	snap := m.engine.Capture()
	m.opts.Status.Store(remote.Status{
		Title:       m.engine.Deck().Title,
		Token:       m.engine.Token(),
		H:           v.H,
		V:           v.V,
		F:           snap.F,
		SlideNumber: v.SlideNumber,
		Progress:    v.Progress,
		Status:      v.Status,
		Paused:      v.Paused,
		Overview:    v.Overview,
		First:       m.engine.IsFirstSlide(),
		Last:        m.engine.IsLastSlide(),
	})
}

// eventType buckets engine notifications for subscribers.
func eventType(ev engine.Event) pubsub.EventType {
	switch ev.(type) {
	case engine.FragmentShown, engine.FragmentHidden:
		return pubsub.FragmentEvent
	case engine.OverviewShown, engine.OverviewHidden, engine.Paused, engine.Resumed,
		engine.AutoSlidePaused, engine.AutoSlideResumed:
		return pubsub.ModeEvent
	case engine.MediaError:
		return pubsub.MediaEvent
	default:
		return pubsub.NavigationEvent
	}
}
