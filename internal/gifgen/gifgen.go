// Package gifgen encodes replay frames as an animated GIF.
package gifgen

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"sort"

	"github.com/nfnt/resize"
)

// ErrNoFrames is returned when there is nothing to encode.
var ErrNoFrames = errors.New("gifgen: no frames")

// Options configures GIF generation
type Options struct {
	FPS      int
	MaxWidth uint
}

// Encode writes frames to w as a looping GIF.
func Encode(w io.Writer, frames []image.Image, opts Options) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = 10
	}
	delay := 100 / fps // in 100ths of a second
	if delay < 2 {
		delay = 2
	}

	bounds := frames[0].Bounds()
	width := uint(bounds.Dx())
	if opts.MaxWidth != 0 && width > opts.MaxWidth {
		width = opts.MaxWidth
	}
	height := uint(float64(width) * float64(bounds.Dy()) / float64(bounds.Dx()))

	g := &gif.GIF{
		Image:     make([]*image.Paletted, len(frames)),
		Delay:     make([]int, len(frames)),
		LoopCount: 0,
	}

	// Trails appear after the first frame, so sample the last one too.
	palette := generatePalette(frames[0], frames[len(frames)-1])

	for i, frame := range frames {
		var src image.Image = frame
		if uint(frame.Bounds().Dx()) != width {
			src = resize.Resize(width, height, frame, resize.Lanczos3)
		}
		paletted := image.NewPaletted(src.Bounds(), palette)
		draw.FloydSteinberg.Draw(paletted, src.Bounds(), src, src.Bounds().Min)
		g.Image[i] = paletted
		g.Delay[i] = delay
	}
	return gif.EncodeAll(w, g)
}

// WriteFile encodes frames to path and returns the file size.
func WriteFile(path string, frames []image.Image, opts Options) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := Encode(f, frames, opts); err != nil {
		return 0, err
	}
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// generatePalette builds a 256-color palette from the most frequent colors
// of the sampled images.
func generatePalette(imgs ...image.Image) color.Palette {
	counts := make(map[color.RGBA]int)
	const step = 4
	for _, img := range imgs {
		b := img.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y += step {
			for x := b.Min.X; x < b.Max.X; x += step {
				c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
				counts[c]++
			}
		}
	}

	colors := make([]color.RGBA, 0, len(counts))
	for c := range counts {
		colors = append(colors, c)
	}
	sort.Slice(colors, func(i, j int) bool {
		ci, cj := counts[colors[i]], counts[colors[j]]
		if ci != cj {
			return ci > cj
		}
		return packRGBA(colors[i]) < packRGBA(colors[j])
	})

	palette := make(color.Palette, 0, 256)
	palette = append(palette, color.RGBA{0, 0, 0, 0})
	for _, c := range colors {
		if len(palette) == 256 {
			break
		}
		palette = append(palette, c)
	}
	for len(palette) < 256 {
		gray := uint8(len(palette))
		palette = append(palette, color.RGBA{gray, gray, gray, 255})
	}
	return palette
}

func packRGBA(c color.RGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}
