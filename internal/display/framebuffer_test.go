package display

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFramebuffer(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantErr       bool
	}{
		{"valid", 64, 32, false},
		{"invalid width", 0, 32, true},
		{"invalid height", 64, -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, err := NewFramebuffer(tt.width, tt.height)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			w, h := fb.GetDimensions()
			assert.Equal(t, tt.width, w)
			assert.Equal(t, tt.height, h)
		})
	}
}

func TestFramebufferShow(t *testing.T) {
	fb, err := NewFramebuffer(8, 4)
	require.NoError(t, err)

	red := color.RGBA{R: 255, A: 255}
	require.NoError(t, fb.SetPixel(1, 2, red))

	// Not visible until shown.
	assert.Equal(t, color.RGBA{A: 255}, fb.Snapshot().RGBAAt(1, 2))

	require.NoError(t, fb.Show())
	assert.Equal(t, red, fb.Snapshot().RGBAAt(1, 2))
	assert.Equal(t, 1, fb.Shows())

	require.NoError(t, fb.Clear())
	require.NoError(t, fb.Show())
	assert.Equal(t, color.RGBA{A: 255}, fb.Snapshot().RGBAAt(1, 2))

	assert.Error(t, fb.SetPixel(-1, 0, red))
	assert.Error(t, fb.SetPixel(0, 4, red))

	require.NoError(t, fb.Close())
	assert.Error(t, fb.Show())
}
