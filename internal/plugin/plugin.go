// Package plugin adapts the countdown to a display host: it caches the
// selected event, redraws the matrix when the message changes and reports
// its state for the web UI.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fkcurrie/olympics-countdown-led/internal/config"
	"github.com/fkcurrie/olympics-countdown-led/internal/display"
	appLog "github.com/fkcurrie/olympics-countdown-led/internal/log"
	"github.com/fkcurrie/olympics-countdown-led/internal/olympics"
	"github.com/fkcurrie/olympics-countdown-led/internal/types"
)

// Option customises a Plugin
type Option func(*Plugin)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(p *Plugin) { p.now = now }
}

// WithLogo skips the asset lookup and draws logo instead
func WithLogo(logo display.Logo) Option {
	return func(p *Plugin) { p.logo = logo }
}

// WithFaces overrides the font scales, largest first
func WithFaces(faces []display.Face) Option {
	return func(p *Plugin) { p.faces = faces }
}

// Plugin is the countdown display plugin
type Plugin struct {
	cfg      *config.Config
	games    []types.OlympicEvent
	matrix   types.Matrix
	loc      *time.Location
	now      func() time.Time
	logo     display.Logo
	faces    []display.Face
	renderer *display.Renderer

	mu          sync.Mutex
	state       *types.DisplayState
	lastDay     time.Time
	lastMessage string
	blanked     bool
	lastErr     error
}

// New creates the plugin and loads the logo once
func New(cfg *config.Config, games []types.OlympicEvent, matrix types.Matrix, opts ...Option) (*Plugin, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if matrix == nil {
		return nil, errors.New("matrix is required")
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	p := &Plugin{
		cfg:    cfg,
		games:  games,
		matrix: matrix,
		loc:    loc,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logo == nil {
		p.logo = loadLogo(cfg.AssetsDir)
	}
	p.renderer = display.NewRenderer(display.RenderConfig{
		TextColor: cfg.TextRGBA(),
		LogoSize:  cfg.LogoSize,
	}, p.logo, p.faces)
	return p, nil
}

// loadLogo falls back to the drawn rings when no asset loads
func loadLogo(dir string) display.Logo {
	path, err := display.FindLogo(dir)
	if err != nil {
		if errors.Is(err, display.ErrNoLogoAsset) {
			appLog.Debug("No logo asset, drawing rings", "dir", dir)
		} else {
			appLog.Warn("Logo lookup failed, drawing rings", "dir", dir, "err", err)
		}
		return display.RingsLogo{}
	}

	logo, err := display.LoadLogo(path)
	if err != nil {
		appLog.Warn("Logo asset failed to load, drawing rings", "path", path, "err", err)
		return display.RingsLogo{}
	}
	appLog.Info("Loaded logo asset", "path", path)
	return logo
}

// Update selects the event for the current date. When every event has
// closed the last known state is kept and the error returned.
func (p *Plugin) Update() error {
	today := olympics.Today(p.now(), p.loc)

	state, err := olympics.Select(today, p.games)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		if !p.lastDay.Equal(today) {
			appLog.Warn("No upcoming olympic event, keeping last state", "date", today.Format("2006-01-02"))
		}
		p.lastDay = today
		p.lastErr = err
		return err
	}

	if !p.lastDay.Equal(today) {
		appLog.Info("Selected olympic event",
			"event", state.Event.Name,
			"phase", state.Phase,
			"days", state.Days,
			"date", today.Format("2006-01-02"))
	}
	p.lastDay = today
	p.lastErr = nil
	p.state = &state
	return nil
}

// Display draws the cached state. Unless force is set nothing is drawn
// when the message has not changed since the last draw.
func (p *Plugin) Display(force bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.cfg.Enabled || p.state == nil {
		if force || !p.blanked {
			if err := p.blank(); err != nil {
				appLog.Error("Failed to clear display", err)
				return err
			}
			p.blanked = true
		}
		p.lastMessage = ""
		return nil
	}

	message := p.state.Message()
	if !force && message == p.lastMessage {
		return nil
	}

	width, height := p.matrix.GetDimensions()
	frame := p.renderer.Render(*p.state, width, height)
	if err := p.push(frame); err != nil {
		appLog.Error("Failed to draw countdown", err, "message", message)
		return err
	}
	p.lastMessage = message
	p.blanked = false
	return nil
}

func (p *Plugin) blank() error {
	if err := p.matrix.Clear(); err != nil {
		return fmt.Errorf("failed to clear matrix: %w", err)
	}
	return p.matrix.Show()
}

// push copies frame to the matrix and shows it
func (p *Plugin) push(frame *image.RGBA) error {
	if err := p.matrix.Clear(); err != nil {
		return fmt.Errorf("failed to clear matrix: %w", err)
	}
	b := frame.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := frame.RGBAAt(x, y)
			if c.R == 0 && c.G == 0 && c.B == 0 {
				continue
			}
			if err := p.matrix.SetPixel(x, y, c); err != nil {
				return fmt.Errorf("failed to set pixel (%d,%d): %w", x, y, err)
			}
		}
	}
	return p.matrix.Show()
}

// Frame renders the cached state without touching the matrix. It returns
// nil when no state has been selected yet.
func (p *Plugin) Frame() *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == nil {
		return nil
	}
	width, height := p.matrix.GetDimensions()
	return p.renderer.Render(*p.state, width, height)
}

// State returns a copy of the cached state, if any
func (p *Plugin) State() (types.DisplayState, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == nil {
		return types.DisplayState{}, false
	}
	return *p.state, true
}

// UpdateInterval is how often the host should call Update
func (p *Plugin) UpdateInterval() time.Duration {
	return p.cfg.UpdateEvery()
}

// DisplayDuration is how long the host should keep the plugin on screen
func (p *Plugin) DisplayDuration() time.Duration {
	return p.cfg.DisplayFor()
}

// Run drives Update on the configured interval and redraws at the display
// refresh rate until ctx is cancelled
func (p *Plugin) Run(ctx context.Context) error {
	if err := p.Update(); err != nil && !errors.Is(err, olympics.ErrNoUpcomingEvent) {
		return err
	}
	if err := p.Display(true); err != nil {
		return err
	}

	c := cron.New()
	spec := fmt.Sprintf("@every %ds", p.cfg.UpdateInterval)
	if _, err := c.AddFunc(spec, func() {
		if err := p.Update(); err != nil && !errors.Is(err, olympics.ErrNoUpcomingEvent) {
			appLog.Error("Update failed", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule updates: %w", err)
	}
	c.Start()
	defer func() {
		<-c.Stop().Done()
	}()

	ticker := time.NewTicker(p.cfg.RefreshEvery())
	defer ticker.Stop()

	appLog.Info("Countdown running",
		"update_interval", p.UpdateInterval(),
		"refresh", p.cfg.RefreshEvery())

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			// Errors are logged inside Display; keep redrawing.
			_ = p.Display(false)
		}
	}
}
