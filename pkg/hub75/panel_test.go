package hub75

import (
	"context"
	"image/color"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLine struct {
	mu     sync.Mutex
	values []int
	closed bool
}

func (l *fakeLine) SetValue(v int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values = append(l.values, v)
	return nil
}

func (l *fakeLine) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

func (l *fakeLine) last() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.values) == 0 {
		return -1
	}
	return l.values[len(l.values)-1]
}

// rises counts 0->1 transitions
func (l *fakeLine) rises() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n, prev := 0, 0
	for _, v := range l.values {
		if v == 1 && prev == 0 {
			n++
		}
		prev = v
	}
	return n
}

func newFakePanel(t *testing.T, width, height int) (*Panel, map[int]*fakeLine) {
	t.Helper()
	cfg := DefaultConfig()
	fakes := make(map[int]*fakeLine)
	lines := make(map[int]line)
	for _, pin := range pins(cfg) {
		f := &fakeLine{}
		fakes[pin] = f
		lines[pin] = f
	}
	p, err := newPanel(cfg, width, height, lines)
	require.NoError(t, err)
	return p, fakes
}

func TestNewPanelDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantErr       bool
	}{
		{"64x32", 64, 32, false},
		{"64x64", 64, 64, false},
		{"odd height", 64, 31, true},
		{"too tall", 64, 128, true},
		{"zero width", 0, 32, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newPanel(DefaultConfig(), tt.width, tt.height, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSetPixelPacking(t *testing.T) {
	p, _ := newFakePanel(t, 64, 32)

	require.NoError(t, p.SetPixel(3, 2, color.RGBA{R: 255, G: 20, B: 200, A: 255}))
	require.NoError(t, p.SetPixel(5, 20, color.RGBA{G: 255, A: 255}))

	assert.Equal(t, []byte{1, 0, 1, 0, 0, 0}, p.back[2][3*6:3*6+6])
	assert.Equal(t, []byte{0, 0, 0, 0, 1, 0}, p.back[4][5*6:5*6+6])

	assert.Error(t, p.SetPixel(64, 0, color.White))
	assert.Error(t, p.SetPixel(0, 32, color.White))
	assert.Error(t, p.SetPixel(-1, 0, color.White))
}

func TestShowPublishes(t *testing.T) {
	p, _ := newFakePanel(t, 64, 32)

	require.NoError(t, p.SetPixel(0, 0, color.White))
	assert.Equal(t, byte(0), p.published()[0][0], "drawing must not reach the panel before Show")

	require.NoError(t, p.Show())
	shown := p.published()
	assert.Equal(t, []byte{1, 1, 1}, shown[0][0:3])

	require.NoError(t, p.Clear())
	assert.Equal(t, byte(0), p.back[0][0])
	assert.Equal(t, byte(1), shown[0][0], "published frames are immutable")

	w, h := p.GetDimensions()
	assert.Equal(t, 64, w)
	assert.Equal(t, 32, h)
}

func TestUpdateRowSignals(t *testing.T) {
	p, fakes := newFakePanel(t, 8, 32)
	cfg := DefaultConfig()

	row := make([]byte, 8*bytesPerColumn)
	row[0] = 1 // R1 of column 0
	require.NoError(t, p.UpdateRow(5, row))

	assert.Equal(t, 1, fakes[cfg.APin].last())
	assert.Equal(t, 0, fakes[cfg.BPin].last())
	assert.Equal(t, 1, fakes[cfg.CPin].last())
	assert.Equal(t, 0, fakes[cfg.DPin].last())
	assert.Equal(t, 0, fakes[cfg.EPin].last())

	assert.Equal(t, 8, fakes[cfg.CLKPin].rises())
	assert.Equal(t, 1, fakes[cfg.LAPin].rises())
	assert.Equal(t, 0, fakes[cfg.LAPin].last())
	assert.Equal(t, 0, fakes[cfg.OEPin].last(), "output is enabled after latching")
	assert.Equal(t, []int{1, 0, 0, 0, 0, 0, 0, 0}, fakes[cfg.R1Pin].values)
}

func TestSetPinIgnoresMissingLines(t *testing.T) {
	p, err := newPanel(DefaultConfig(), 8, 16, map[int]line{})
	require.NoError(t, err)
	assert.NoError(t, p.UpdateRow(0, make([]byte, 8*bytesPerColumn)))
}

func TestRunStopsAndBlanks(t *testing.T) {
	p, fakes := newFakePanel(t, 4, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, p.Run(ctx))
	assert.Equal(t, 1, fakes[DefaultConfig().OEPin].last())
}

func TestClose(t *testing.T) {
	p, fakes := newFakePanel(t, 4, 4)
	require.NoError(t, p.Close())
	for pin, f := range fakes {
		assert.True(t, f.closed, "pin %d", pin)
	}
	assert.Error(t, p.Show())
	assert.NoError(t, p.Close())
}
