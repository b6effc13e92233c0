package effect

// evalBezier samples the cubic bezier with endpoints (0,0),(1,1) and
// control points b at parameter t, returning the curve's y value for the
// x nearest to t. Solved by bisection since the curve isn't guaranteed to
// be invertible in closed form for arbitrary control points.
//
// Parameters:
//   - b: the control points
//   - t: the input parameter in [0,1], treated as the desired x
//
// Returns:
//   - float64: the curve's y value at x≈t, clamped to [0,1]
func evalBezier(b Bezier, t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}

	lo, hi := 0.0, 1.0
	var u float64
	for i := 0; i < 24; i++ {
		u = (lo + hi) / 2
		x, _ := cubicBezierPoint(b, u)
		if x < t {
			lo = u
		} else {
			hi = u
		}
	}
	_, y := cubicBezierPoint(b, u)
	if y < 0 {
		return 0
	}
	if y > 1 {
		return 1
	}
	return y
}

// cubicBezierPoint evaluates the cubic bezier curve with fixed endpoints
// (0,0) and (1,1) and control points b at parameter u.
func cubicBezierPoint(b Bezier, u float64) (x, y float64) {
	mu := 1 - u
	// P(u) = (1-u)^3 * P0 + 3(1-u)^2 u * P1 + 3(1-u) u^2 * P2 + u^3 * P3
	// P0 = (0,0), P3 = (1,1)
	c1 := 3 * mu * mu * u
	c2 := 3 * mu * u * u
	c3 := u * u * u
	x = c1*b.P1X + c2*b.P2X + c3
	y = c1*b.P1Y + c2*b.P2Y + c3
	return x, y
}
