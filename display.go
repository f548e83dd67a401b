package geoview

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// debounceDelay waits for editor writes to settle before reloading.
const debounceDelay = 250 * time.Millisecond

// DisplayConfig is a window and view layout, usually loaded from YAML:
//
//	windows:
//	  - title: Overview
//	    width: 1280
//	    height: 720
//	    views:
//	      - viewport: {x: 0, y: 0, width: 640, height: 720}
//	      - viewport: {x: 640, y: 0, width: 640, height: 720}
type DisplayConfig struct {
	Windows []WindowConfig `yaml:"windows"`
}

// WindowConfig describes one window and its views.
type WindowConfig struct {
	Title  string       `yaml:"title"`
	Width  int          `yaml:"width"`
	Height int          `yaml:"height"`
	Views  []ViewConfig `yaml:"views"`
}

// ViewConfig describes one view. A missing viewport covers the window.
type ViewConfig struct {
	Name     string          `yaml:"name"`
	Viewport *ViewportConfig `yaml:"viewport"`
}

// ViewportConfig is a window-space rectangle in pixels.
type ViewportConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ParseDisplayConfig decodes and validates a YAML layout.
func ParseDisplayConfig(data []byte) (*DisplayConfig, error) {
	var cfg DisplayConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse display config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDisplayConfig reads and parses the layout at path.
func LoadDisplayConfig(path string) (*DisplayConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read display config: %w", err)
	}
	return ParseDisplayConfig(data)
}

// Validate checks window sizes and viewports.
func (c *DisplayConfig) Validate() error {
	if len(c.Windows) == 0 {
		return errors.New("display config: no windows")
	}
	for i, w := range c.Windows {
		if w.Width < 1 || w.Height < 1 {
			return fmt.Errorf("display config: window %d: invalid size %dx%d", i, w.Width, w.Height)
		}
		for j, v := range w.Views {
			if v.Viewport != nil && (v.Viewport.Width <= 0 || v.Viewport.Height <= 0) {
				return fmt.Errorf("display config: window %d view %d: empty viewport", i, j)
			}
		}
	}
	return nil
}

func (w *WindowConfig) viewport(j int) Rect {
	if j < len(w.Views) && w.Views[j].Viewport != nil {
		vp := w.Views[j].Viewport
		return Rect{X: vp.X, Y: vp.Y, Width: vp.Width, Height: vp.Height}
	}
	return Rect{Width: float64(w.Width), Height: float64(w.Height)}
}

// DisplayLayout records the views created from a DisplayConfig, indexed by
// window then view, so a reloaded config can be mapped back onto them.
type DisplayLayout struct {
	Windows []*Window
	Views   [][]*View
}

// Apply creates the windows and views of c. The first view of each window is
// the window's default view, resized to the configured viewport; further
// views are added with their own cameras. Apply must be called before the
// application is realized.
func (c *DisplayConfig) Apply(app *Application) (*DisplayLayout, error) {
	if app.Realized() {
		return nil, errors.New("display config: apply after realization")
	}
	layout := &DisplayLayout{}
	for i := range c.Windows {
		wc := &c.Windows[i]
		title := wc.Title
		if title == "" {
			title = fmt.Sprintf("Window %d", i+1)
		}
		w, err := app.AddWindow(NewWindowTraits(wc.Width, wc.Height, title)).Get(context.Background())
		if err != nil {
			return layout, fmt.Errorf("display config: window %d: %w", i, err)
		}
		layout.Windows = append(layout.Windows, w)

		views := []*View{app.Views(w)[0]}
		views[0].Camera.SetViewport(wc.viewport(0))
		app.RefreshView(views[0])

		for j := 1; j < len(wc.Views); j++ {
			v := NewView(app.NewViewCamera(w, wc.viewport(j)))
			v.Name = wc.Views[j].Name
			if _, err := app.AddView(w, v, nil).Get(context.Background()); err != nil {
				return layout, fmt.Errorf("display config: window %d view %d: %w", i, j, err)
			}
			views = append(views, v)
		}
		if len(wc.Views) > 0 && wc.Views[0].Name != "" {
			views[0].Name = wc.Views[0].Name
		}
		layout.Views = append(layout.Views, views)
	}
	return layout, nil
}

// Refresh resizes the layout's views to the viewports in c and refreshes
// their render graphs in place, so cameras and render areas change in the
// same frame. Windows and views without a counterpart are left alone. It
// must run on the frame goroutine, typically from a RunDuringUpdate task.
func (l *DisplayLayout) Refresh(app *Application, c *DisplayConfig) {
	if len(c.Windows) != len(l.Windows) {
		logger().Warn("display config window count changed; only viewports are reloaded",
			"configured", len(c.Windows), "open", len(l.Windows))
	}
	for i := 0; i < len(c.Windows) && i < len(l.Views); i++ {
		wc := &c.Windows[i]
		for j, v := range l.Views[i] {
			if j >= len(wc.Views) {
				break
			}
			v.Camera.SetViewport(wc.viewport(j))
			app.refreshViewNow(v)
		}
	}
}

// WatchDisplayConfig reloads path when it changes and refreshes the layout's
// viewports on the next frame. It returns once the watch is established;
// the watch ends with ctx.
func WatchDisplayConfig(ctx context.Context, path string, app *Application, layout *DisplayLayout) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create display watcher: %w", err)
	}
	// Watch the directory: editors often replace the file rather than
	// writing it in place.
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}
	name := filepath.Clean(path)
	log := logger().With("path", path)

	go func() {
		defer w.Close()

		var debounceTimer *time.Timer

		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != name || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDelay, func() {
					cfg, err := LoadDisplayConfig(path)
					if err != nil {
						log.Error("display config reload failed", "err", err)
						return
					}
					app.Runtime.RunDuringUpdate(TaskFunc(func() {
						layout.Refresh(app, cfg)
					}))
					log.Info("display config reloaded")
				})

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Error("display watcher failed", "err", err)
			case <-ctx.Done():
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				return
			}
		}
	}()
	return nil
}
