package plugin

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkcurrie/olympics-countdown-led/internal/config"
	"github.com/fkcurrie/olympics-countdown-led/internal/display"
	"github.com/fkcurrie/olympics-countdown-led/internal/olympics"
	"github.com/fkcurrie/olympics-countdown-led/internal/types"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func at(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	cfg.AssetsDir = t.TempDir()
	return cfg
}

func newTestPlugin(t *testing.T, cfg *config.Config, now time.Time, opts ...Option) (*Plugin, *display.Framebuffer, *fakeClock) {
	t.Helper()
	fb, err := display.NewFramebuffer(cfg.Display.Width, cfg.Display.Height)
	require.NoError(t, err)
	clock := &fakeClock{now: now}
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	p, err := New(cfg, olympics.Games(), fb, opts...)
	require.NoError(t, err)
	return p, fb, clock
}

func litPixels(img *image.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if c.R != 0 || c.G != 0 || c.B != 0 {
				n++
			}
		}
	}
	return n
}

func TestNewErrors(t *testing.T) {
	fb, err := display.NewFramebuffer(64, 32)
	require.NoError(t, err)

	_, err = New(nil, olympics.Games(), fb)
	assert.Error(t, err)

	_, err = New(config.DefaultConfig(), olympics.Games(), nil)
	assert.Error(t, err)

	cfg := config.DefaultConfig()
	cfg.Timezone = "Nowhere/Special"
	_, err = New(cfg, olympics.Games(), fb)
	assert.ErrorContains(t, err, "timezone")
}

func TestUpdateAndDisplay(t *testing.T) {
	p, fb, _ := newTestPlugin(t, testConfig(t), at(2026, 2, 15))

	require.NoError(t, p.Update())
	state, ok := p.State()
	require.True(t, ok)
	assert.Equal(t, types.PhaseDuring, state.Phase)
	assert.Equal(t, 7, state.Days)

	require.NoError(t, p.Display(false))
	assert.Equal(t, 1, fb.Shows())
	assert.Positive(t, litPixels(fb.Snapshot()))

	// Same message: nothing redrawn
	require.NoError(t, p.Update())
	require.NoError(t, p.Display(false))
	assert.Equal(t, 1, fb.Shows())

	require.NoError(t, p.Display(true))
	assert.Equal(t, 2, fb.Shows())
}

func TestDisplayMatchesFrame(t *testing.T) {
	p, fb, _ := newTestPlugin(t, testConfig(t), at(2026, 2, 1))
	assert.Nil(t, p.Frame())

	require.NoError(t, p.Update())
	require.NoError(t, p.Display(false))
	assert.Equal(t, p.Frame().Pix, fb.Snapshot().Pix)
}

func TestDayChangeRedraws(t *testing.T) {
	p, fb, clock := newTestPlugin(t, testConfig(t), at(2026, 2, 21))

	require.NoError(t, p.Update())
	require.NoError(t, p.Display(false))
	assert.Equal(t, "1 DAYS UNTIL CLOSING", p.Info().Message)

	clock.Set(at(2026, 2, 22))
	require.NoError(t, p.Update())
	require.NoError(t, p.Display(false))
	assert.Equal(t, 2, fb.Shows())

	info := p.Info()
	assert.Equal(t, "CLOSING_DAY", info.Phase)
	assert.Equal(t, "OLYMPICS CLOSING TODAY", info.Message)
	assert.Equal(t, []string{"OLYMPICS", "CLOSING TODAY"}, info.Lines)
}

func TestNoUpcomingEventKeepsLastState(t *testing.T) {
	p, fb, clock := newTestPlugin(t, testConfig(t), at(2032, 8, 8))

	require.NoError(t, p.Update())
	require.NoError(t, p.Display(false))
	before := fb.Snapshot()

	clock.Set(at(2033, 1, 1))
	err := p.Update()
	require.ErrorIs(t, err, olympics.ErrNoUpcomingEvent)

	state, ok := p.State()
	require.True(t, ok)
	assert.Equal(t, "Brisbane 2032", state.Event.Name)
	assert.Equal(t, types.PhaseClosingDay, state.Phase)

	require.NoError(t, p.Display(false))
	assert.Equal(t, before.Pix, fb.Snapshot().Pix)
	assert.Contains(t, p.Info().Error, "no upcoming olympic event")
}

func TestNoStateClearsOnce(t *testing.T) {
	p, fb, _ := newTestPlugin(t, testConfig(t), at(2040, 1, 1))

	assert.ErrorIs(t, p.Update(), olympics.ErrNoUpcomingEvent)
	_, ok := p.State()
	assert.False(t, ok)

	require.NoError(t, p.Display(false))
	assert.Equal(t, 1, fb.Shows())
	assert.Zero(t, litPixels(fb.Snapshot()))

	require.NoError(t, p.Display(false))
	assert.Equal(t, 1, fb.Shows())

	info := p.Info()
	assert.Nil(t, info.Event)
	assert.Empty(t, info.Message)
}

func TestDisabledBlanks(t *testing.T) {
	cfg := testConfig(t)
	cfg.Enabled = false
	p, fb, _ := newTestPlugin(t, cfg, at(2026, 2, 1))

	require.NoError(t, p.Update())
	require.NoError(t, p.Display(true))
	assert.Zero(t, litPixels(fb.Snapshot()))
	assert.False(t, p.Info().Enabled)
}

func TestTextColor(t *testing.T) {
	cfg := testConfig(t)
	cfg.TextColor = []int{255, 215, 0}
	p, fb, _ := newTestPlugin(t, cfg, at(2026, 2, 6), WithFaces([]display.Face{display.ExtraSmall}))

	require.NoError(t, p.Update())
	require.NoError(t, p.Display(false))

	frame := fb.Snapshot()
	gold := color.RGBA{R: 255, G: 215, A: 255}
	found := false
	for y := 0; y < 32 && !found; y++ {
		for x := 32; x < 64; x++ {
			if frame.RGBAAt(x, y) == gold {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "text should be drawn in the configured color")
}

func TestLoadLogo(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, display.RingsLogo{}, loadLogo(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "olympics-logo.png"), []byte("not a png"), 0o644))
	assert.Equal(t, display.RingsLogo{}, loadLogo(dir))

	good := t.TempDir()
	f, err := os.Create(filepath.Join(good, "logo.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	require.NoError(t, f.Close())
	assert.IsType(t, display.ImageLogo{}, loadLogo(good))
}

func TestIntervals(t *testing.T) {
	cfg := testConfig(t)
	cfg.UpdateInterval = 120
	cfg.DisplayDuration = 20
	p, _, _ := newTestPlugin(t, cfg, at(2026, 2, 1))

	assert.Equal(t, 2*time.Minute, p.UpdateInterval())
	assert.Equal(t, 20*time.Second, p.DisplayDuration())

	info := p.Info()
	assert.Equal(t, 120, info.UpdateInterval)
	assert.Equal(t, 20, info.DisplayDuration)
	assert.Equal(t, "redraw", info.Transition.Type)
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.Display.RefreshRate = 10
	p, fb, _ := newTestPlugin(t, cfg, at(2026, 2, 1))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.Equal(t, 1, fb.Shows())
	assert.Equal(t, "BEFORE", p.Info().Phase)
}
