// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package secretsharing

// evalPoly evaluates the polynomial whose coefficients are given in
// ascending order (coefficients[0] is the constant term) at the point x,
// using Horner's method expressed entirely in field operations:
//
//	p(x) = c0 + x(c1 + x(c2 + ... + x*c(t-1)))
func (f *Field) evalPoly(coefficients []byte, x byte) byte {
	var result byte
	for i := len(coefficients) - 1; i >= 0; i-- {
		result = f.Add(f.Mul(result, x), coefficients[i])
	}
	return result
}

// point is one (x, y) sample of a polynomial over GF(2^8).
type point struct {
	x byte
	y byte
}

// interpolateAtZero recovers p(0) from the given sample points via Lagrange
// interpolation:
//
//	p(0) = Σ_j y_j · Π_{m≠j} x_m / (x_m ⊕ x_j)
//
// Division fails only when two points share an x coordinate.
func (f *Field) interpolateAtZero(points []point) (byte, error) {
	var result byte
	for j, pj := range points {
		num := byte(1)
		den := byte(1)
		for m, pm := range points {
			if m == j {
				continue
			}
			num = f.Mul(num, pm.x)
			den = f.Mul(den, f.Add(pm.x, pj.x))
		}
		basis, err := f.Div(num, den)
		if err != nil {
			return 0, err
		}
		result = f.Add(result, f.Mul(pj.y, basis))
	}
	return result, nil
}
