package geoview

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// captureLog routes geoview logging into a buffer for the rest of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}

func withDebug(t *testing.T) {
	t.Helper()
	globalDebug = true
	t.Cleanup(func() { globalDebug = false })
}

func TestDebugMode_DisposedNodePanics(t *testing.T) {
	withDebug(t)
	parent := NewGroup("parent")
	child := NewGroup("child")
	child.Dispose()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on AddChild with disposed node, got none")
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, "disposed") {
			t.Errorf("panic message should mention 'disposed', got: %s", msg)
		}
	}()
	parent.AddChild(child)
}

func TestDebugMode_DisposedParentPanics(t *testing.T) {
	withDebug(t)
	parent := NewGroup("parent")
	parent.Dispose()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on AddChild to disposed parent, got none")
		}
	}()
	parent.AddChild(NewGroup("child"))
}

func TestReleaseMode_DisposedNodeNoPanic(t *testing.T) {
	child := NewGroup("child")
	child.Dispose()
	NewGroup("parent").AddChild(child)
}

func TestDebugMode_TreeDepthWarning(t *testing.T) {
	withDebug(t)
	buf := captureLog(t)

	current := NewGroup("root")
	for i := 0; i < debugMaxTreeDepth+5; i++ {
		child := NewGroup(fmt.Sprintf("depth_%d", i))
		current.AddChild(child)
		current = child
	}

	if !strings.Contains(buf.String(), "tree depth exceeds threshold") {
		t.Errorf("expected tree depth warning, got: %q", buf.String())
	}
}

func TestDebugMode_ChildCountWarning(t *testing.T) {
	withDebug(t)
	buf := captureLog(t)

	parent := NewGroup("many_children")
	for i := 0; i < debugMaxChildCount+1; i++ {
		parent.AddChild(NewGroup(""))
	}

	out := buf.String()
	if !strings.Contains(out, "child count exceeds threshold") || !strings.Contains(out, "many_children") {
		t.Errorf("expected child count warning, got: %q", out)
	}
}

func TestSoftAssert(t *testing.T) {
	buf := captureLog(t)

	if !softAssert(true, "never logged") {
		t.Error("softAssert(true) should return true")
	}
	if softAssert(false, "view missing", "view", 7) {
		t.Error("softAssert(false) should return false")
	}

	out := buf.String()
	if strings.Contains(out, "never logged") {
		t.Errorf("passing assertion should not log: %q", out)
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "view missing") || !strings.Contains(out, "view=7") {
		t.Errorf("expected warning with attributes, got: %q", out)
	}
}

func TestDebugLog(t *testing.T) {
	buf := captureLog(t)
	debugLog(FrameStats{Frame: 16 * time.Millisecond, Record: 3 * time.Millisecond}, 42)

	out := buf.String()
	for _, want := range []string{"n=42", "total=16ms", "record=3ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("debug log missing %q: %q", want, out)
		}
	}
}

func TestDebugFrameLogging(t *testing.T) {
	buf := captureLog(t)
	app := NewApplication(&fakeBackend{}, &Options{Debug: true, VSync: true, TerrainConcurrency: 1})
	defer app.SetDebugMode(false)

	app.Frame()

	if !strings.Contains(buf.String(), "msg=frame") {
		t.Errorf("debug mode should log frame timing, got: %q", buf.String())
	}
}
