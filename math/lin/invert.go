// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// invert.go adds a general 4x4 matrix inverse. The teacher package only
// ever inverts perspective projections (PerspInv); mesh raycasting and
// camera view-matrix recovery both need the inverse of an arbitrary
// world/model matrix (rotation, non-uniform scale, translation), so this
// is a full cofactor-expansion inverse rather than a specialized one.

// Invert sets m to the inverse of a and returns m, false if a is singular
// (determinant within Epsilon of zero) in which case m is left as a.
func (m *M4) Invert(a *M4) (*M4, bool) {
	e := [16]float64{
		a.Xx, a.Xy, a.Xz, a.Xw,
		a.Yx, a.Yy, a.Yz, a.Yw,
		a.Zx, a.Zy, a.Zz, a.Zw,
		a.Wx, a.Wy, a.Wz, a.Ww,
	}
	var inv [16]float64
	inv[0] = e[5]*e[10]*e[15] - e[5]*e[11]*e[14] - e[9]*e[6]*e[15] + e[9]*e[7]*e[14] + e[13]*e[6]*e[11] - e[13]*e[7]*e[10]
	inv[4] = -e[4]*e[10]*e[15] + e[4]*e[11]*e[14] + e[8]*e[6]*e[15] - e[8]*e[7]*e[14] - e[12]*e[6]*e[11] + e[12]*e[7]*e[10]
	inv[8] = e[4]*e[9]*e[15] - e[4]*e[11]*e[13] - e[8]*e[5]*e[15] + e[8]*e[7]*e[13] + e[12]*e[5]*e[11] - e[12]*e[7]*e[9]
	inv[12] = -e[4]*e[9]*e[14] + e[4]*e[10]*e[13] + e[8]*e[5]*e[14] - e[8]*e[6]*e[13] - e[12]*e[5]*e[10] + e[12]*e[6]*e[9]
	inv[1] = -e[1]*e[10]*e[15] + e[1]*e[11]*e[14] + e[9]*e[2]*e[15] - e[9]*e[3]*e[14] - e[13]*e[2]*e[11] + e[13]*e[3]*e[10]
	inv[5] = e[0]*e[10]*e[15] - e[0]*e[11]*e[14] - e[8]*e[2]*e[15] + e[8]*e[3]*e[14] + e[12]*e[2]*e[11] - e[12]*e[3]*e[10]
	inv[9] = -e[0]*e[9]*e[15] + e[0]*e[11]*e[13] + e[8]*e[1]*e[15] - e[8]*e[3]*e[13] - e[12]*e[1]*e[11] + e[12]*e[3]*e[9]
	inv[13] = e[0]*e[9]*e[14] - e[0]*e[10]*e[13] - e[8]*e[1]*e[14] + e[8]*e[2]*e[13] + e[12]*e[1]*e[10] - e[12]*e[2]*e[9]
	inv[2] = e[1]*e[6]*e[15] - e[1]*e[7]*e[14] - e[5]*e[2]*e[15] + e[5]*e[3]*e[14] + e[13]*e[2]*e[7] - e[13]*e[3]*e[6]
	inv[6] = -e[0]*e[6]*e[15] + e[0]*e[7]*e[14] + e[4]*e[2]*e[15] - e[4]*e[3]*e[14] - e[12]*e[2]*e[7] + e[12]*e[3]*e[6]
	inv[10] = e[0]*e[5]*e[15] - e[0]*e[7]*e[13] - e[4]*e[1]*e[15] + e[4]*e[3]*e[13] + e[12]*e[1]*e[7] - e[12]*e[3]*e[5]
	inv[14] = -e[0]*e[5]*e[14] + e[0]*e[6]*e[13] + e[4]*e[1]*e[14] - e[4]*e[2]*e[13] - e[12]*e[1]*e[6] + e[12]*e[2]*e[5]
	inv[3] = -e[1]*e[6]*e[11] + e[1]*e[7]*e[10] + e[5]*e[2]*e[11] - e[5]*e[3]*e[10] - e[9]*e[2]*e[7] + e[9]*e[3]*e[6]
	inv[7] = e[0]*e[6]*e[11] - e[0]*e[7]*e[10] - e[4]*e[2]*e[11] + e[4]*e[3]*e[10] + e[8]*e[2]*e[7] - e[8]*e[3]*e[6]
	inv[11] = -e[0]*e[5]*e[11] + e[0]*e[7]*e[9] + e[4]*e[1]*e[11] - e[4]*e[3]*e[9] - e[8]*e[1]*e[7] + e[8]*e[3]*e[5]
	inv[15] = e[0]*e[5]*e[10] - e[0]*e[6]*e[9] - e[4]*e[1]*e[10] + e[4]*e[2]*e[9] + e[8]*e[1]*e[6] - e[8]*e[2]*e[5]

	det := e[0]*inv[0] + e[1]*inv[4] + e[2]*inv[8] + e[3]*inv[12]
	if AeqZ(det) {
		m.Set(a)
		return m, false
	}
	invDet := 1.0 / det
	m.Xx, m.Xy, m.Xz, m.Xw = inv[0]*invDet, inv[1]*invDet, inv[2]*invDet, inv[3]*invDet
	m.Yx, m.Yy, m.Yz, m.Yw = inv[4]*invDet, inv[5]*invDet, inv[6]*invDet, inv[7]*invDet
	m.Zx, m.Zy, m.Zz, m.Zw = inv[8]*invDet, inv[9]*invDet, inv[10]*invDet, inv[11]*invDet
	m.Wx, m.Wy, m.Wz, m.Ww = inv[12]*invDet, inv[13]*invDet, inv[14]*invDet, inv[15]*invDet
	return m, true
}
