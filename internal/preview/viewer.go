package preview

import (
	"fmt"
	gomath "math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/surfacegeom/internal/config"
	"github.com/Faultbox/surfacegeom/internal/logger"
	"github.com/Faultbox/surfacegeom/pkg/math"
	"github.com/Faultbox/surfacegeom/pkg/surface"
)

// MeshSource returns the tessellation of a surface for a color mode.
// Both surface.Geometry.BuildMesh and catalog entries satisfy it.
type MeshSource func(texcoordColors bool) *surface.Mesh

// Viewer draws one surface with an orbit camera.
type Viewer struct {
	cfg    config.PreviewConfig
	source MeshSource
	log    *zap.Logger

	camera    *OrbitCamera
	bounds    surface.Bounds
	colors    bool
	wireframe bool

	program   uint32
	uViewProj int32
	uEye      int32
	uTint     int32
	mesh      *gpuMesh
}

// NewViewer prepares a viewer. No window is opened until Run or Snapshot.
func NewViewer(cfg config.PreviewConfig, source MeshSource) *Viewer {
	v := &Viewer{
		cfg:       cfg,
		source:    source,
		log:       logger.Named("preview"),
		camera:    NewOrbitCamera(),
		colors:    cfg.TexcoordColors,
		wireframe: cfg.Wireframe,
	}
	v.bounds = source(v.colors).Bounds()
	v.resetCamera()
	return v
}

// Camera exposes the orbit camera so callers can set an initial view.
func (v *Viewer) Camera() *OrbitCamera {
	return v.camera
}

func (v *Viewer) fovY() float32 {
	fov := v.cfg.FOV
	if fov <= 0 || fov >= 180 {
		fov = 45
	}
	return fov * gomath.Pi / 180
}

func (v *Viewer) resetCamera() {
	v.camera.FitToBounds(v.bounds, v.fovY())
}

// ViewProjection returns the combined matrix for a viewport of the given
// size.
func (v *Viewer) ViewProjection(width, height int32) math.Mat4 {
	aspect := float32(width) / float32(max(height, 1))
	near, far := v.camera.ClipPlanes(v.bounds)
	return math.Perspective(v.fovY(), aspect, near, far).Mul(v.camera.ViewMatrix())
}

func (v *Viewer) initGL() error {
	program, err := compileProgram(surfaceVertexShader, surfaceFragmentShader)
	if err != nil {
		return fmt.Errorf("compiling surface shader: %w", err)
	}
	v.program = program
	v.uViewProj = uniform(program, "uViewProj")
	v.uEye = uniform(program, "uEye")
	v.uTint = uniform(program, "uTint")
	v.upload()

	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	return nil
}

func (v *Viewer) upload() {
	if v.mesh != nil {
		v.mesh.destroy()
	}
	m := v.source(v.colors)
	v.mesh = uploadMesh(m)
	v.log.Debug("mesh uploaded",
		zap.Int("vertices", m.VertexCount()),
		zap.Int32("indices", v.mesh.indexCount),
		zap.Bool("texcoord_colors", v.colors))
}

func (v *Viewer) releaseGL() {
	if v.mesh != nil {
		v.mesh.destroy()
		v.mesh = nil
	}
	if v.program != 0 {
		gl.DeleteProgram(v.program)
		v.program = 0
	}
}

func (v *Viewer) render(width, height int32) {
	gl.Viewport(0, 0, width, height)
	bg := v.cfg.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	viewProj := v.ViewProjection(width, height)
	eye := v.camera.Position()

	gl.UseProgram(v.program)
	gl.UniformMatrix4fv(v.uViewProj, 1, false, viewProj.Ptr())
	gl.Uniform3f(v.uEye, eye.X, eye.Y, eye.Z)

	if v.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	gl.Uniform4f(v.uTint, 1, 1, 1, 1)
	v.mesh.draw()
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
}

// Run opens a window and renders until it is closed.
//
// Controls: left drag orbits, the wheel zooms, W toggles wireframe, C
// toggles texcoord colors, R resets the camera, P saves a screenshot to
// screenshotDir and Escape quits.
func (v *Viewer) Run(title, screenshotDir string) error {
	win, err := newWindow(WindowConfig{
		Title:      title,
		Width:      v.cfg.Width,
		Height:     v.cfg.Height,
		Fullscreen: v.cfg.Fullscreen,
		VSync:      v.cfg.VSync,
	}, v.log)
	if err != nil {
		return err
	}
	defer win.close()

	if err := v.initGL(); err != nil {
		return err
	}
	defer v.releaseGL()

	dragging := false
	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				return nil
			case *sdl.MouseButtonEvent:
				if e.Button == sdl.BUTTON_LEFT {
					dragging = e.Type == sdl.MOUSEBUTTONDOWN
				}
			case *sdl.MouseMotionEvent:
				if dragging {
					v.camera.HandleDrag(float32(e.XRel), float32(e.YRel))
				}
			case *sdl.MouseWheelEvent:
				v.camera.HandleZoom(float32(e.Y))
			case *sdl.KeyboardEvent:
				if e.Type != sdl.KEYDOWN {
					continue
				}
				switch e.Keysym.Scancode {
				case sdl.SCANCODE_ESCAPE:
					return nil
				case sdl.SCANCODE_W:
					v.wireframe = !v.wireframe
				case sdl.SCANCODE_C:
					v.colors = !v.colors
					v.upload()
				case sdl.SCANCODE_R:
					v.resetCamera()
				case sdl.SCANCODE_P:
					w, h := win.drawableSize()
					v.render(w, h)
					v.saveScreenshot(ScreenshotName(screenshotDir, "surface"), w, h)
				}
			}
		}

		w, h := win.drawableSize()
		v.render(w, h)
		win.swap()
	}
}

// saveScreenshot reads the default framebuffer.
func (v *Viewer) saveScreenshot(path string, width, height int32) {
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	img, err := FlipRGBA(pixels, int(width), int(height))
	if err == nil {
		err = SavePNG(path, img)
	}
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// Snapshot renders one frame offscreen at the configured size and writes
// it to path as PNG.
func (v *Viewer) Snapshot(path string) error {
	win, err := newWindow(WindowConfig{
		Title:  "snapshot",
		Width:  v.cfg.Width,
		Height: v.cfg.Height,
		Hidden: true,
	}, v.log)
	if err != nil {
		return err
	}
	defer win.close()

	if err := v.initGL(); err != nil {
		return err
	}
	defer v.releaseGL()

	fb, err := newFramebuffer(int32(v.cfg.Width), int32(v.cfg.Height))
	if err != nil {
		return err
	}
	defer fb.destroy()

	fb.bind()
	v.render(fb.width, fb.height)
	gl.Finish()

	img, err := FlipRGBA(fb.readPixels(), int(fb.width), int(fb.height))
	if err != nil {
		return err
	}
	if err := SavePNG(path, img); err != nil {
		return err
	}
	v.log.Info("snapshot saved", zap.String("path", path),
		zap.Int32("width", fb.width), zap.Int32("height", fb.height))
	return nil
}
