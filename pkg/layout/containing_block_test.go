package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"multiformat/pkg/geom"
)

func TestToContainerLocal(t *testing.T) {
	container := rect(100, 100, 200, 200)

	tests := map[string]struct {
		abs  geom.Rect
		want geom.Rect
	}{
		"inside":             {abs: rect(150, 120, 50, 50), want: rect(50, 20, 50, 50)},
		"past the far edge":  {abs: rect(280, 290, 50, 50), want: rect(150, 150, 50, 50)},
		"before the origin":  {abs: rect(20, 40, 50, 50), want: rect(0, 0, 50, 50)},
		"larger than parent": {abs: rect(150, 150, 400, 20), want: rect(0, 50, 400, 20)},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToContainerLocal(tt.abs, container))
		})
	}
}

func TestToAbsolute_InvertsLocal(t *testing.T) {
	container := rect(64, 32, 500, 300)
	abs := rect(100, 100, 120, 80)

	local := ToContainerLocal(abs, container)
	assert.Equal(t, abs, ToAbsolute(local, container))
}

func TestConstrainToBounds(t *testing.T) {
	const overflow = 50.0
	boxes := []geom.Rect{
		rect(-100, 900, 100, 100),
		rect(2000, -3000, 10, 10),
		rect(400, 400, 100, 100),
		rect(0, 0, 1080, 1080),
		rect(-49, 1029, 100, 100),
	}
	for _, r := range boxes {
		got := ConstrainToBounds(r, 800, 800, overflow)
		assert.GreaterOrEqual(t, got.X, -overflow)
		assert.GreaterOrEqual(t, got.Y, -overflow)
		assert.Equal(t, r.Width, got.Width)
		assert.Equal(t, r.Height, got.Height)
		if r.Width <= 800+2*overflow {
			assert.LessOrEqual(t, got.Right(), 800+overflow)
		}
		if r.Height <= 800+2*overflow {
			assert.LessOrEqual(t, got.Bottom(), 800+overflow)
		}
	}

	assert.Equal(t, rect(-50, 750, 100, 100), ConstrainToBounds(rect(-100, 900, 100, 100), 800, 800, overflow))
	assert.Equal(t, rect(400, 400, 100, 100), ConstrainToBounds(rect(400, 400, 100, 100), 800, 800, overflow))
}

func TestConstrainToBounds_OversizedPinsLeadingEdge(t *testing.T) {
	const overflow = 50.0
	// 1000 is wider and taller than 800 + 2*overflow
	tests := map[string]geom.Rect{
		"starting left":  rect(-400, -400, 1000, 1000),
		"starting right": rect(700, 700, 1000, 1000),
		"inside":         rect(-20, 10, 1000, 1000),
		"wide only":      rect(300, 100, 1000, 200),
	}
	for name, r := range tests {
		t.Run(name, func(t *testing.T) {
			got := ConstrainToBounds(r, 800, 800, overflow)
			assert.Equal(t, -overflow, got.X)
			assert.Equal(t, r.Width, got.Width)
			assert.Equal(t, r.Height, got.Height)
			if r.Height > 800+2*overflow {
				assert.Equal(t, -overflow, got.Y)
			} else {
				assert.LessOrEqual(t, got.Bottom(), 800+overflow)
			}
		})
	}
}
