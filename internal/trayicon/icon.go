// Package trayicon draws the notification-area icon.
package trayicon

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	Size         = 64
	outlineWidth = 2
	label        = "HDR"
)

var (
	Background = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	Disc       = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	Accent     = color.RGBA{R: 0, G: 255, B: 255, A: 255}
)

// Image renders a cyan-outlined dark disc with "HDR" centered on it.
func Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Size, Size))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	center := float64(Size) / 2
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			d := math.Hypot(float64(x)+0.5-center, float64(y)+0.5-center)
			switch {
			case d > center:
			case d > center-outlineWidth:
				img.SetRGBA(x, y, Accent)
			default:
				img.SetRGBA(x, y, Disc)
			}
		}
	}

	face := basicfont.Face7x13
	m := face.Metrics()
	d := &font.Drawer{Dst: img, Src: image.NewUniform(Accent), Face: face}
	width := d.MeasureString(label).Ceil()
	baseline := (Size + m.Ascent.Ceil() - m.Descent.Ceil()) / 2
	d.Dot = fixed.P((Size-width)/2, baseline)
	d.DrawString(label)

	return img
}

// PNG encodes Image.
func PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Image()); err != nil {
		return nil, errors.Wrap(err, "encode icon")
	}
	return buf.Bytes(), nil
}

type iconDir struct {
	Reserved uint16
	Type     uint16
	Count    uint16
}

type iconDirEntry struct {
	Width       uint8
	Height      uint8
	Colors      uint8
	Reserved    uint8
	Planes      uint16
	BitCount    uint16
	BytesInRes  uint32
	ImageOffset uint32
}

// headerSize is ICONDIR plus one ICONDIRENTRY.
const headerSize = 6 + 16

// ICO wraps the PNG in a single-image ICO container, which is what the
// Windows tray expects.
func ICO() ([]byte, error) {
	data, err := PNG()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(headerSize + len(data))
	hdr := []any{
		iconDir{Type: 1, Count: 1},
		iconDirEntry{
			Width:       Size,
			Height:      Size,
			Planes:      1,
			BitCount:    32,
			BytesInRes:  uint32(len(data)),
			ImageOffset: headerSize,
		},
	}
	for _, v := range hdr {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			return nil, errors.Wrap(err, "write icon header")
		}
	}
	buf.Write(data)
	return buf.Bytes(), nil
}
