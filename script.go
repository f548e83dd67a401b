package geoview

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in a script. Window and View index into the
// application's registry at the time the step runs.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Window int     `json:"window,omitempty"`
	View   int     `json:"view,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Delta  float64 `json:"delta,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type script struct {
	Steps []scriptStep `json:"steps"`
}

// eventSource is implemented by viewers that accept injected events.
type eventSource interface {
	Events() *EventQueue
}

// ScriptRunner plays a JSON script one step per frame: registry operations,
// injected input, waits and screenshots. Call Step from the application's
// UpdateFunc.
//
// Actions: addWindow, addView, removeView, refreshView, click, drag,
// scroll, key, wait, screenshot.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range s.Steps {
		if !knownAction(st.Action) {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

func knownAction(a string) bool {
	switch a {
	case "addWindow", "addView", "removeView", "refreshView",
		"click", "drag", "scroll", "key", "wait", "screenshot":
		return true
	}
	return false
}

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Step advances the runner by one frame.
func (r *ScriptRunner) Step(app *Application) {
	if r.done {
		return
	}
	events := scriptEvents(app)
	// Wait for pending injections and registry work to drain.
	if (events != nil && events.Len() > 0) || app.Runtime.Queue().Len() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	r.run(app, events, st)

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

func scriptEvents(app *Application) *EventQueue {
	if es, ok := app.Viewer().(eventSource); ok {
		return es.Events()
	}
	return nil
}

func (r *ScriptRunner) run(app *Application, events *EventQueue, st scriptStep) {
	log := logger().With("step", r.cursor-1, "action", st.Action)

	if st.Action == "wait" {
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
		return
	}
	if st.Action == "addWindow" {
		width, height := int(st.Width), int(st.Height)
		if width < 1 || height < 1 {
			width, height = DefaultWidth, DefaultHeight
		}
		app.AddWindow(NewWindowTraits(width, height, st.Label))
		return
	}

	windows := app.Windows()
	if st.Window < 0 || st.Window >= len(windows) {
		log.Warn("script window out of range", "window", st.Window, "windows", len(windows))
		return
	}
	w := windows[st.Window]

	switch st.Action {
	case "screenshot":
		w.Screenshot(st.Label)
	case "addView":
		v := NewView(app.NewViewCamera(w, st.viewport(w)))
		v.Name = st.Label
		app.AddView(w, v, nil)
	case "removeView", "refreshView":
		views := app.Views(w)
		if st.View < 0 || st.View >= len(views) {
			log.Warn("script view out of range", "view", st.View, "views", len(views))
			return
		}
		v := views[st.View]
		if st.Action == "removeView" {
			app.RemoveView(v)
			return
		}
		if st.Width > 0 && st.Height > 0 {
			v.Camera.SetViewport(st.viewport(w))
		}
		app.RefreshView(v)
	default:
		if events == nil {
			log.Warn("viewer does not accept injected input")
			return
		}
		switch st.Action {
		case "click":
			events.InjectClick(w, st.X, st.Y)
		case "drag":
			events.InjectDrag(w, st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
		case "scroll":
			events.InjectScroll(w, st.X, st.Y, st.Delta)
		case "key":
			events.InjectKey(w, keyByName(st.Label))
		}
	}
}

// viewport returns the step's rectangle, or the whole window when the step
// has no size.
func (st scriptStep) viewport(w *Window) Rect {
	if st.Width > 0 && st.Height > 0 {
		return Rect{X: st.X, Y: st.Y, Width: st.Width, Height: st.Height}
	}
	width, height := w.Size()
	return Rect{Width: float64(width), Height: float64(height)}
}

func keyByName(name string) Key {
	switch name {
	case "escape":
		return KeyEscape
	case "space":
		return KeySpace
	case "home":
		return KeyHome
	}
	return KeyUnknown
}
