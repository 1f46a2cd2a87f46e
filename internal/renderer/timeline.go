// Package renderer draws a timeline preview of a composite camera: one lane
// per source camera showing its frame window and the frames sampled in it.
package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/jdshortiss/uber-camera/internal/registry"
)

// ErrEmptyTimeline is returned when there is no assigned window to draw.
var ErrEmptyTimeline = errors.New("no frame windows to render")

// Config defines the layout and colors of a timeline preview
type Config struct {
	Width      int        // Image width in pixels
	LaneHeight int        // Height of one camera lane in pixels
	LabelWidth int        // Width of the camera name column
	Margin     int        // Outer margin in pixels
	Background color.RGBA // Background color
	Foreground color.RGBA // Text and tick color
}

// DefaultConfig returns the layout used by the command line tool.
func DefaultConfig() Config {
	return Config{
		Width:      960,
		LaneHeight: 28,
		LabelWidth: 140,
		Margin:     12,
		Background: color.RGBA{24, 24, 24, 255},
		Foreground: color.RGBA{230, 230, 230, 255},
	}
}

// palette colors the window bars, cycling per lane.
var palette = []color.RGBA{
	{86, 156, 214, 255},
	{78, 201, 176, 255},
	{220, 170, 90, 255},
	{197, 134, 192, 255},
	{206, 145, 120, 255},
	{181, 206, 168, 255},
}

// Timeline renders frame windows to images
type Timeline struct {
	config Config
	face   font.Face
}

// NewTimeline creates a timeline renderer with the given layout
func NewTimeline(config Config) *Timeline {
	return &Timeline{
		config: config,
		face:   basicfont.Face7x13,
	}
}

// Render draws one lane per assignment with a tick at every sampled frame
// that falls inside the lane's window.
func (tl *Timeline) Render(assignments []registry.Assignment, frames []int) (*image.RGBA, error) {
	if len(assignments) == 0 {
		return nil, ErrEmptyTimeline
	}

	first, last := assignments[0].Window.Start, assignments[0].Window.End
	for _, a := range assignments[1:] {
		if a.Window.Start < first {
			first = a.Window.Start
		}
		if a.Window.End > last {
			last = a.Window.End
		}
	}
	span := last - first
	if span < 1 {
		span = 1
	}

	c := tl.config
	headerH := c.LaneHeight
	height := 2*c.Margin + headerH + len(assignments)*c.LaneHeight
	img := image.NewRGBA(image.Rect(0, 0, c.Width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c.Background), image.Point{}, draw.Src)

	plotX0 := c.Margin + c.LabelWidth
	plotW := c.Width - plotX0 - c.Margin
	xFor := func(frame int) int {
		return plotX0 + (frame-first)*plotW/span
	}

	// Header with the covered frame range
	tl.drawString(img, c.Margin, c.Margin+13, "frames")
	tl.drawString(img, plotX0, c.Margin+13, fmt.Sprint(first))
	lastLabel := fmt.Sprint(last)
	tl.drawString(img, c.Width-c.Margin-7*len(lastLabel), c.Margin+13, lastLabel)

	for i, a := range assignments {
		top := c.Margin + headerH + i*c.LaneHeight
		barTop, barBottom := top+4, top+c.LaneHeight-4

		tl.drawString(img, c.Margin, top+c.LaneHeight/2+5, string(a.Camera))

		bar := image.Rect(xFor(a.Window.Start), barTop, xFor(a.Window.End)+1, barBottom)
		draw.Draw(img, bar, image.NewUniform(palette[i%len(palette)]), image.Point{}, draw.Src)

		for _, f := range frames {
			if !a.Window.Contains(f) {
				continue
			}
			tick := image.Rect(xFor(f), barTop-2, xFor(f)+1, barBottom+2)
			draw.Draw(img, tick, image.NewUniform(c.Foreground), image.Point{}, draw.Src)
		}
	}

	return img, nil
}

// Encode renders the timeline and writes it as PNG to w
func (tl *Timeline) Encode(w io.Writer, assignments []registry.Assignment, frames []int) error {
	img, err := tl.Render(assignments, frames)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// WritePNG renders the timeline to a PNG file
func (tl *Timeline) WritePNG(path string, assignments []registry.Assignment, frames []int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := tl.Encode(file, assignments, frames); err != nil {
		return err
	}
	return file.Close()
}

func (tl *Timeline) drawString(img *image.RGBA, x, y int, s string) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(tl.config.Foreground),
		Face: tl.face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(x << 6),
			Y: fixed.Int26_6(y << 6),
		},
	}
	drawer.DrawString(s)
}
