package geoview

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestVec3Ops(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	tests := []struct {
		name string
		got  Vec3
		want Vec3
	}{
		{"add", a.Add(b), Vec3{5, 7, 9}},
		{"sub", b.Sub(a), Vec3{3, 3, 3}},
		{"scale", a.Scale(2), Vec3{2, 4, 6}},
		{"cross", Vec3{X: 1}.Cross(Vec3{Y: 1}), Vec3{Z: 1}},
		{"normalize", Vec3{X: 3, Y: 4}.Normalize(), Vec3{X: 0.6, Y: 0.8}},
		{"normalize zero", Vec3{}.Normalize(), Vec3{}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, tt.got, approx); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot = %v, want 32", got)
	}
	if got := (Vec3{X: 3, Y: 4}).Length(); got != 5 {
		t.Errorf("Length = %v, want 5", got)
	}
}

func TestMat4MulIdentity(t *testing.T) {
	m := perspectiveMatrix(45, 1.5, 0.1, 100)
	if diff := cmp.Diff(m, m.Mul(Identity4), approx); diff != "" {
		t.Errorf("m*I mismatch:\n%s", diff)
	}
	if diff := cmp.Diff(m, Identity4.Mul(m), approx); diff != "" {
		t.Errorf("I*m mismatch:\n%s", diff)
	}
}

func TestMat4MulComposes(t *testing.T) {
	view := lookAtMatrix(Vec3{Z: 10}, Vec3{}, Vec3{Y: 1})
	proj := perspectiveMatrix(60, 1, 1, 100)
	p := Vec3{X: 1, Y: 2, Z: -3}

	want := proj.TransformPoint(view.TransformPoint(p))
	got := proj.Mul(view).TransformPoint(p)
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("composed transform mismatch (-want +got):\n%s", diff)
	}
}

func TestLookAtMatrix(t *testing.T) {
	eye := Vec3{X: 5, Y: -5, Z: 5}
	m := lookAtMatrix(eye, Vec3{}, Vec3{Z: 1})

	if diff := cmp.Diff(Vec3{}, m.TransformPoint(eye), approx); diff != "" {
		t.Errorf("eye should map to the origin:\n%s", diff)
	}
	c := m.TransformPoint(Vec3{})
	if math.Abs(c.X) > 1e-9 || math.Abs(c.Y) > 1e-9 || c.Z >= 0 {
		t.Errorf("center should lie on -Z, got %+v", c)
	}
	if math.Abs(c.Z+eye.Length()) > 1e-9 {
		t.Errorf("center depth = %v, want %v", c.Z, -eye.Length())
	}
}
