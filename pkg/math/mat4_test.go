package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
	if !m.IsIdentity() {
		t.Error("IsIdentity should be true for Identity()")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	id := Identity()

	if got := m.Mul(id); got != m {
		t.Errorf("M * I should equal M, got %v", got)
	}
	if got := id.Mul(m); got != m {
		t.Errorf("I * M should equal M, got %v", got)
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation should be in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	got := m.TransformPoint(Vec3{1, 2, 3})

	want := Vec3{11, 22, 33}
	if got != want {
		t.Errorf("TransformPoint: got %v, want %v", got, want)
	}
}

func TestTransformPointScale(t *testing.T) {
	m := Scale(2, 2, 2)
	got := m.TransformPoint(Vec3{1, 2, 3})

	want := Vec3{2, 4, 6}
	if got != want {
		t.Errorf("TransformPoint with scale: got %v, want %v", got, want)
	}
}

func TestMulOrder(t *testing.T) {
	// Rotate first, then translate.
	m := Translate(10, 0, 0).Mul(RotateZ(math.Pi / 2))
	got := m.TransformPoint(Vec3{1, 0, 0})

	if math.Abs(got.X-10) > 1e-12 || math.Abs(got.Y-1) > 1e-12 || math.Abs(got.Z) > 1e-12 {
		t.Errorf("translate * rotate: got %v, want (10, 1, 0)", got)
	}
}

func TestFromBasis(t *testing.T) {
	// Basis rotated 90 degrees about Z, origin at (1, 2, 3).
	m := FromBasis(Vec3{1, 2, 3}, Vec3{0, 1, 0}, Vec3{-1, 0, 0}, Vec3{0, 0, 1})

	got := m.TransformPoint(Vec3{1, 0, 0})
	want := Vec3{1, 3, 3}
	if got != want {
		t.Errorf("FromBasis point: got %v, want %v", got, want)
	}

	if m.Origin() != (Vec3{1, 2, 3}) {
		t.Errorf("Origin: got %v", m.Origin())
	}
}

func TestRowMajor(t *testing.T) {
	rm := Translate(5, 6, 7).RowMajor()
	if len(rm) != 16 {
		t.Fatalf("RowMajor length: got %d, want 16", len(rm))
	}
	// Translation lands in the last column of each row.
	if rm[3] != 5 || rm[7] != 6 || rm[11] != 7 || rm[15] != 1 {
		t.Errorf("RowMajor translation: got %v", rm)
	}
	if rm[12] != 0 || rm[13] != 0 || rm[14] != 0 {
		t.Errorf("RowMajor bottom row should be zero: got %v", rm[12:15])
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 4, 0}.Normalize()
	if l := n.Length(); math.Abs(l-1) > 1e-12 {
		t.Errorf("Vec3.Normalize().Length() = %v, want 1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
}
