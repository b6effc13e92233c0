package common

// Color is a 24-bit solid background color, as carried by the Clear request
// and by Wallpaper.SetBgInfo.
type Color [3]byte

// ClampByte clamps v into the [0,255] range before truncating to a byte.
//
// Parameters:
//   - v: the value to clamp, typically the result of an intermediate blend
//
// Returns:
//   - byte: v clamped to [0,255]
func ClampByte(v int32) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// LerpByte linearly interpolates between a and b by t in [0,1].
//
// Parameters:
//   - a: the value at t=0
//   - b: the value at t=1
//   - t: interpolation factor, clamped to [0,1]
//
// Returns:
//   - byte: the interpolated value
func LerpByte(a, b byte, t float64) byte {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return ClampByte(int32(float64(a) + (float64(b)-float64(a))*t))
}

// StepToward moves cur toward target by at most step, saturating at target.
// Used by the Simple transition effect to advance one channel per frame.
//
// Parameters:
//   - cur: the channel's current value
//   - target: the channel's destination value
//   - step: the maximum per-frame change
//
// Returns:
//   - byte: cur moved toward target by step
func StepToward(cur, target, step byte) byte {
	if cur == target {
		return cur
	}
	if cur < target {
		d := target - cur
		if d > step {
			return cur + step
		}
		return target
	}
	d := cur - target
	if d > step {
		return cur - step
	}
	return target
}
