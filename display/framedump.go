package display

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path"

	"github.com/zeu5/pusht-hirl/types"
)

// FrameDumpRenderer writes image observations as numbered PNG files, a
// poor man's display for headless sessions. Non-image observations render
// nothing; write failures are logged and swallowed.
type FrameDumpRenderer struct {
	dir   string
	every int
	count int
	log   *slog.Logger
}

var _ types.Renderer = &FrameDumpRenderer{}

// NewFrameDumpRenderer dumps every n-th frame into dir.
func NewFrameDumpRenderer(dir string, every int, log *slog.Logger) (*FrameDumpRenderer, error) {
	if log == nil {
		log = slog.Default()
	}
	if every < 1 {
		every = 1
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating frame dir %s: %v", types.ErrConfiguration, dir, err)
	}
	return &FrameDumpRenderer{dir: dir, every: every, log: log}, nil
}

func (r *FrameDumpRenderer) Render(obs types.Observation, overlay string) {
	r.count++
	if (r.count-1)%r.every != 0 {
		return
	}
	var frame types.ImageObservation
	switch o := obs.(type) {
	case types.ImageObservation:
		frame = o
	case types.CompositeObservation:
		frame = o.Image
	default:
		return
	}

	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for i := 0; i < frame.Width*frame.Height; i++ {
		img.Pix[i*4] = frame.Pixels[i*3]
		img.Pix[i*4+1] = frame.Pixels[i*3+1]
		img.Pix[i*4+2] = frame.Pixels[i*3+2]
		img.Pix[i*4+3] = 0xff
	}

	file := path.Join(r.dir, fmt.Sprintf("frame_%06d.png", r.count-1))
	f, err := os.Create(file)
	if err != nil {
		r.log.Warn("frame dump failed", "file", file, "err", err)
		return
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		r.log.Warn("frame dump failed", "file", file, "err", err)
	}
}
