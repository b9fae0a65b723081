// Package identicon renders the deterministic default avatar assigned at
// registration. The same email always produces the same image.
package identicon

import (
	"bytes"
	"crypto/md5"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
)

const (
	gridSize = 5  // 5x5 cells, left half mirrored onto the right
	cellSize = 12 // pixels per cell
	margin   = 2  // background border in pixels
)

// DataURI hashes the input and renders a 5x5 mirrored identicon as an
// inline PNG data URI suitable for a profileImageUrl field.
func DataURI(input string) string {
	sum := md5.Sum([]byte(input))

	fg := color.NRGBA{
		R: sum[13],
		G: sum[14],
		B: sum[15],
		A: 255,
	}
	bg := color.NRGBA{R: 240, G: 240, B: 240, A: 255}

	side := gridSize*cellSize + 2*margin
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			img.SetNRGBA(x, y, bg)
		}
	}

	// One nibble per cell on the left three columns; even nibbles paint.
	// Columns 3 and 4 mirror 1 and 0.
	for row := 0; row < gridSize; row++ {
		for col := 0; col < (gridSize+1)/2; col++ {
			idx := row*((gridSize+1)/2) + col
			nibble := sum[idx/2]
			if idx%2 == 0 {
				nibble >>= 4
			}
			if (nibble&0x0f)%2 != 0 {
				continue
			}
			paintCell(img, col, row, fg)
			paintCell(img, gridSize-1-col, row, fg)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		// Encoding an in-memory NRGBA image cannot fail in practice.
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func paintCell(img *image.NRGBA, col, row int, c color.NRGBA) {
	x0 := margin + col*cellSize
	y0 := margin + row*cellSize
	for y := y0; y < y0+cellSize; y++ {
		for x := x0; x < x0+cellSize; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}
