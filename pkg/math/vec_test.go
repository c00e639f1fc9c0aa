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

func TestVec2Normalize(t *testing.T) {
	v := Vec2{3, 4}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec2.Normalize().Length() = %v, want ~1", l)
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

func TestVec3DominantAxis(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want Axis
	}{
		{"x", Vec3{1, 0, 0}, AxisX},
		{"negative y", Vec3{0, -1, 0}, AxisY},
		{"z", Vec3{0.1, 0.2, 0.9}, AxisZ},
		{"x beats z on tie", Vec3{0.5, 0, 0.5}, AxisX},
		{"z beats y on tie", Vec3{0, 0.5, -0.5}, AxisZ},
		{"x beats y on tie", Vec3{-0.5, 0.5, 0}, AxisX},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.DominantAxis(); got != tt.want {
				t.Errorf("DominantAxis(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestVec3Drop(t *testing.T) {
	v := Vec3{1, 2, 3}
	if got := v.Drop(AxisX); got != (Vec2{2, 3}) {
		t.Errorf("Drop(X) = %v", got)
	}
	if got := v.Drop(AxisY); got != (Vec2{1, 3}) {
		t.Errorf("Drop(Y) = %v", got)
	}
	if got := v.Drop(AxisZ); got != (Vec2{1, 2}) {
		t.Errorf("Drop(Z) = %v", got)
	}
}

func TestVec3MoveToward(t *testing.T) {
	got := Vec3{0, 0, 0}.MoveToward(Vec3{10, 0, 0}, 2)
	if got != (Vec3{2, 0, 0}) {
		t.Errorf("MoveToward = %v, want (2, 0, 0)", got)
	}

	// Never overshoots the target
	got = Vec3{0, 0, 0}.MoveToward(Vec3{0.1, 0, 0}, 2)
	if got != (Vec3{0.1, 0, 0}) {
		t.Errorf("MoveToward overshoot = %v, want (0.1, 0, 0)", got)
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	tests := []struct {
		name string
		p    Vec2
		want bool
	}{
		{"center", Vec2{0.5, 0.5}, true},
		{"near corner", Vec2{0.05, 0.95}, true},
		{"outside right", Vec2{1.5, 0.5}, false},
		{"outside below", Vec2{0.5, -0.1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInPolygon(tt.p, square); got != tt.want {
				t.Errorf("PointInPolygon(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}

	// Winding must not matter
	reversed := []Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	if !PointInPolygon(Vec2{0.5, 0.5}, reversed) {
		t.Error("PointInPolygon should ignore winding")
	}
}
