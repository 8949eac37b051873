package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec2FlipV(t *testing.T) {
	got := UV(0.25, 0.75).FlipV()
	want := Vec2{0.25, 0.25}
	if got != want {
		t.Errorf("Vec2.FlipV() = %v, want %v", got, want)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 0, 4}.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if z := (Vec3{}).Normalize(); z != (Vec3{}) {
		t.Errorf("zero Normalize() = %v, want zero", z)
	}
}

func TestVec3MinMax(t *testing.T) {
	a := Vec3{1, 5, -2}
	b := Vec3{3, -1, 0}
	if got, want := a.Min(b), (Vec3{1, -1, -2}); got != want {
		t.Errorf("Min() = %v, want %v", got, want)
	}
	if got, want := a.Max(b), (Vec3{3, 5, 0}); got != want {
		t.Errorf("Max() = %v, want %v", got, want)
	}
}

func TestVec3Components(t *testing.T) {
	v := Vec3{1, 2, 3}
	for axis, want := range []float32{1, 2, 3} {
		if got := v.Component(axis); got != want {
			t.Errorf("Component(%d) = %v, want %v", axis, got, want)
		}
	}
	if got, want := v.WithComponent(1, 9), (Vec3{1, 9, 3}); got != want {
		t.Errorf("WithComponent() = %v, want %v", got, want)
	}
	if got, want := v.SwapYZ(), (Vec3{1, 3, 2}); got != want {
		t.Errorf("SwapYZ() = %v, want %v", got, want)
	}
}
