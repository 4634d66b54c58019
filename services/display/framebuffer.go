package display

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
)

// Framebuffer is an in-memory drivers.Displayer. On host builds it stands in
// for the panel; when SnapshotPath is set every Display() writes a PNG.
type Framebuffer struct {
	img *image.RGBA

	SnapshotPath string
	Flushes      int
}

func NewFramebuffer(w, h int) *Framebuffer {
	return &Framebuffer{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (f *Framebuffer) Size() (x, y int16) {
	b := f.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (f *Framebuffer) SetPixel(x, y int16, c color.RGBA) {
	f.img.SetRGBA(int(x), int(y), c) // out of bounds is a no-op
}

func (f *Framebuffer) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	r := image.Rect(int(x), int(y), int(x)+int(width), int(y)+int(height)).Intersect(f.img.Bounds())
	for j := r.Min.Y; j < r.Max.Y; j++ {
		for i := r.Min.X; i < r.Max.X; i++ {
			f.img.SetRGBA(i, j, c)
		}
	}
	return nil
}

func (f *Framebuffer) Display() error {
	f.Flushes++
	if f.SnapshotPath == "" {
		return nil
	}
	tmp := f.SnapshotPath + ".tmp"
	if err := os.MkdirAll(filepath.Dir(f.SnapshotPath), 0o755); err != nil {
		return err
	}
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := png.Encode(out, f.img); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, f.SnapshotPath)
}

// Image exposes the backing image.
func (f *Framebuffer) Image() *image.RGBA { return f.img }

// Lit counts pixels inside r that differ from bg.
func (f *Framebuffer) Lit(r image.Rectangle, bg color.RGBA) int {
	r = r.Intersect(f.img.Bounds())
	n := 0
	for j := r.Min.Y; j < r.Max.Y; j++ {
		for i := r.Min.X; i < r.Max.X; i++ {
			if f.img.RGBAAt(i, j) != bg {
				n++
			}
		}
	}
	return n
}
