// Package hub75 drives a HUB75 RGB LED panel by bit-banging GPIO lines
// through the Linux GPIO character device.
package hub75

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"

	appLog "github.com/fkcurrie/olympics-countdown-led/internal/log"
	"github.com/fkcurrie/olympics-countdown-led/internal/types"
)

const (
	// bytesPerColumn holds R1 G1 B1 for the upper half then R2 G2 B2 for
	// the lower half
	bytesPerColumn = 6
	// maxRows is what five address lines can select
	maxRows = 32

	clockPulse = time.Microsecond
	rowDelay   = 50 * time.Microsecond
)

// line is the part of gpiocdev.Line the panel uses
type line interface {
	SetValue(value int) error
	Close() error
}

// DefaultConfig returns the Adafruit RGB Matrix Bonnet pinout
func DefaultConfig() types.HUB75Config {
	return types.HUB75Config{
		Chip:   "gpiochip0",
		R1Pin:  5,
		G1Pin:  13,
		B1Pin:  6,
		R2Pin:  12,
		G2Pin:  16,
		B2Pin:  23,
		CLKPin: 17,
		OEPin:  4,
		LAPin:  21,
		APin:   22,
		BPin:   26,
		CPin:   27,
		DPin:   20,
		EPin:   24,
	}
}

// Panel is a HUB75 panel. Drawing goes to a back buffer; Show publishes it
// and the scan loop in Run keeps refreshing the last published frame.
type Panel struct {
	cfg    types.HUB75Config
	width  int
	height int
	rows   int

	lines map[int]line

	mu     sync.Mutex
	back   [][]byte
	front  [][]byte
	closed bool
}

// Open requests the panel's GPIO lines as outputs
func Open(cfg types.HUB75Config, width, height int) (*Panel, error) {
	chip := cfg.Chip
	if chip == "" {
		chip = "gpiochip0"
	}

	lines := make(map[int]line)
	closeAll := func() {
		for _, l := range lines {
			l.Close()
		}
	}
	for _, pin := range pins(cfg) {
		if _, ok := lines[pin]; ok {
			continue
		}
		l, err := gpiocdev.RequestLine(chip, pin, gpiocdev.AsOutput(0))
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("failed to request %s line %d: %w", chip, pin, err)
		}
		lines[pin] = l
		appLog.Debug("Requested GPIO line", "chip", chip, "pin", pin)
	}

	p, err := newPanel(cfg, width, height, lines)
	if err != nil {
		closeAll()
		return nil, err
	}
	return p, nil
}

func newPanel(cfg types.HUB75Config, width, height int, lines map[int]line) (*Panel, error) {
	if width <= 0 || height <= 0 || height%2 != 0 || height/2 > maxRows {
		return nil, fmt.Errorf("invalid panel dimensions: %dx%d", width, height)
	}
	rows := height / 2
	return &Panel{
		cfg:    cfg,
		width:  width,
		height: height,
		rows:   rows,
		lines:  lines,
		back:   newFrame(rows, width),
		front:  newFrame(rows, width),
	}, nil
}

func pins(cfg types.HUB75Config) []int {
	return []int{
		cfg.R1Pin, cfg.G1Pin, cfg.B1Pin,
		cfg.R2Pin, cfg.G2Pin, cfg.B2Pin,
		cfg.CLKPin, cfg.OEPin, cfg.LAPin,
		cfg.APin, cfg.BPin, cfg.CPin,
		cfg.DPin, cfg.EPin,
	}
}

func newFrame(rows, width int) [][]byte {
	frame := make([][]byte, rows)
	for i := range frame {
		frame[i] = make([]byte, width*bytesPerColumn)
	}
	return frame
}

// Clear clears the back buffer
func (p *Panel) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, row := range p.back {
		clear(row)
	}
	return nil
}

// SetPixel sets a pixel in the back buffer. Each channel is either on or off.
func (p *Panel) SetPixel(x, y int, c color.Color) error {
	if !image.Pt(x, y).In(image.Rect(0, 0, p.width, p.height)) {
		return fmt.Errorf("coordinates out of bounds: (%d, %d)", x, y)
	}
	r, g, b, _ := c.RGBA()

	p.mu.Lock()
	defer p.mu.Unlock()

	row, offset := y, 0
	if y >= p.rows {
		row, offset = y-p.rows, 3
	}
	idx := x*bytesPerColumn + offset
	p.back[row][idx+0] = bit(r)
	p.back[row][idx+1] = bit(g)
	p.back[row][idx+2] = bit(b)
	return nil
}

func bit(v uint32) byte {
	if v >= 0x8000 {
		return 1
	}
	return 0
}

// Show publishes the back buffer to the scan loop
func (p *Panel) Show() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return fmt.Errorf("panel is closed")
	}
	front := newFrame(p.rows, p.width)
	for i := range p.back {
		copy(front[i], p.back[i])
	}
	p.front = front
	return nil
}

// GetDimensions returns the dimensions of the panel
func (p *Panel) GetDimensions() (width, height int) {
	return p.width, p.height
}

// published returns the last shown frame. Published frames are never
// written to again, so callers may read them without the lock.
func (p *Panel) published() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.front
}

// Run scans the published frame onto the panel until ctx is cancelled, then
// blanks the output
func (p *Panel) Run(ctx context.Context) error {
	defer p.setPin(p.cfg.OEPin, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if err := p.RenderFrame(ctx, p.published()); err != nil {
			return err
		}
	}
}

// RenderFrame clocks a full frame out to the panel
func (p *Panel) RenderFrame(ctx context.Context, frame [][]byte) error {
	for rowIdx, rowData := range frame {
		if ctx.Err() != nil {
			return nil
		}
		if err := p.UpdateRow(rowIdx, rowData); err != nil {
			return err
		}
		time.Sleep(rowDelay)
	}
	return nil
}

// UpdateRow shifts out one row pair and latches it
func (p *Panel) UpdateRow(rowIdx int, rowData []byte) error {
	addr := rowIdx & (maxRows - 1)
	addrPins := []int{p.cfg.APin, p.cfg.BPin, p.cfg.CPin, p.cfg.DPin, p.cfg.EPin}
	for i, pin := range addrPins {
		if err := p.setPin(pin, (addr>>i)&1); err != nil {
			return err
		}
	}

	// Output off while data changes
	if err := p.setPin(p.cfg.OEPin, 1); err != nil {
		return err
	}

	dataPins := []int{p.cfg.R1Pin, p.cfg.G1Pin, p.cfg.B1Pin, p.cfg.R2Pin, p.cfg.G2Pin, p.cfg.B2Pin}
	for col := 0; col < p.width; col++ {
		idx := col * bytesPerColumn
		if idx+bytesPerColumn > len(rowData) {
			break
		}
		for i, pin := range dataPins {
			if err := p.setPin(pin, int(rowData[idx+i])); err != nil {
				return err
			}
		}
		if err := p.pulse(p.cfg.CLKPin); err != nil {
			return err
		}
	}

	if err := p.pulse(p.cfg.LAPin); err != nil {
		return err
	}
	return p.setPin(p.cfg.OEPin, 0)
}

func (p *Panel) pulse(pin int) error {
	if err := p.setPin(pin, 1); err != nil {
		return err
	}
	time.Sleep(clockPulse)
	return p.setPin(pin, 0)
}

// setPin ignores pins that were not requested
func (p *Panel) setPin(pin int, value int) error {
	l, ok := p.lines[pin]
	if !ok {
		return nil
	}
	return l.SetValue(value)
}

// Close releases all GPIO lines. Stop Run first.
func (p *Panel) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	var firstErr error
	for pin, l := range p.lines {
		if err := l.Close(); err != nil {
			appLog.Warn("Failed to close GPIO line", "pin", pin, "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
