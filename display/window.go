// Package display is the interactive window: it paces the session loop on
// the display refresh, feeds keyboard and mouse state to the controllers
// and shows the rendered workspace.
package display

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/zeu5/pusht-hirl/controllers"
	"github.com/zeu5/pusht-hirl/types"
)

// keymap translates configured key names to physical keys.
var keymap = map[string]ebiten.Key{
	"a": ebiten.KeyA, "b": ebiten.KeyB, "c": ebiten.KeyC, "d": ebiten.KeyD,
	"e": ebiten.KeyE, "f": ebiten.KeyF, "g": ebiten.KeyG, "h": ebiten.KeyH,
	"i": ebiten.KeyI, "j": ebiten.KeyJ, "k": ebiten.KeyK, "l": ebiten.KeyL,
	"m": ebiten.KeyM, "n": ebiten.KeyN, "o": ebiten.KeyO, "p": ebiten.KeyP,
	"q": ebiten.KeyQ, "r": ebiten.KeyR, "s": ebiten.KeyS, "t": ebiten.KeyT,
	"u": ebiten.KeyU, "v": ebiten.KeyV, "w": ebiten.KeyW, "x": ebiten.KeyX,
	"y": ebiten.KeyY, "z": ebiten.KeyZ,
	"space": ebiten.KeySpace,
	"up":    ebiten.KeyArrowUp, "down": ebiten.KeyArrowDown,
	"left": ebiten.KeyArrowLeft, "right": ebiten.KeyArrowRight,
}

// Window drives a tick function from the display loop and doubles as the
// session's input device and renderer. One Update is one session tick, so
// the configured tick rate is applied via ebiten's TPS.
type Window struct {
	size    int
	tick    func() (bool, error)
	frame   func(size int) types.ImageObservation
	overlay string
	rgba    *image.RGBA
	img     *ebiten.Image
	done    bool
	err     error
}

var (
	_ ebiten.Game        = &Window{}
	_ controllers.Device = &Window{}
	_ types.Renderer     = &Window{}
)

// NewWindow prepares a square window. frame supplies the scene raster at
// the requested size on every drawn frame.
func NewWindow(title string, size, tps int, frame func(size int) types.ImageObservation) *Window {
	ebiten.SetWindowSize(size, size)
	ebiten.SetWindowTitle(title)
	if tps > 0 {
		ebiten.SetTPS(tps)
	}
	return &Window{size: size, frame: frame}
}

// Run pumps the tick function until it reports done, blocking on the
// display loop.
func (w *Window) Run(tick func() (bool, error)) error {
	w.tick = tick
	if err := ebiten.RunGame(w); err != nil {
		return err
	}
	return w.err
}

func (w *Window) Update() error {
	if w.done {
		return ebiten.Termination
	}
	done, err := w.tick()
	if done {
		w.done = true
		w.err = err
		return ebiten.Termination
	}
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	obs := w.frame(w.size)
	if w.rgba == nil {
		w.rgba = image.NewRGBA(image.Rect(0, 0, obs.Width, obs.Height))
		w.img = ebiten.NewImage(obs.Width, obs.Height)
	}
	for i := 0; i < obs.Width*obs.Height; i++ {
		w.rgba.Pix[i*4] = obs.Pixels[i*3]
		w.rgba.Pix[i*4+1] = obs.Pixels[i*3+1]
		w.rgba.Pix[i*4+2] = obs.Pixels[i*3+2]
		w.rgba.Pix[i*4+3] = 0xff
	}
	w.img.WritePixels(w.rgba.Pix)
	screen.DrawImage(w.img, nil)
	ebitenutil.DebugPrint(screen, w.overlay)
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.size, w.size
}

// Poll snapshots keyboard and mouse state for the controllers. The cursor
// is reported in workspace coordinates.
func (w *Window) Poll() controllers.DeviceState {
	st := controllers.DeviceState{
		Held:    make(map[string]bool),
		Pressed: make(map[string]bool),
	}
	for name, key := range keymap {
		if ebiten.IsKeyPressed(key) {
			st.Held[name] = true
		}
		if inpututil.IsKeyJustPressed(key) {
			st.Pressed[name] = true
		}
	}
	cx, cy := ebiten.CursorPosition()
	if cx >= 0 && cy >= 0 && cx < w.size && cy < w.size {
		scale := types.Workspace.Max.X / float64(w.size)
		st.Pointer = types.Vec2{X: float64(cx) * scale, Y: float64(cy) * scale}
		st.PointerOK = true
	}
	st.ButtonHeld = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	return st
}

// Render keeps the overlay text; the scene itself is rastered fresh from
// the frame source on every Draw.
func (w *Window) Render(obs types.Observation, overlay string) {
	w.overlay = overlay
}
