package geometry

import "math"

// MotionThreshold is the displacement a pointer has to exceed before a
// direction is recorded.
const MotionThreshold = 16

// Direction is one of the four gesture tokens.
type Direction byte

const (
	None  Direction = 0
	Up    Direction = 'U'
	Down  Direction = 'D'
	Left  Direction = 'L'
	Right Direction = 'R'
)

func (d Direction) String() string {
	if d == None {
		return ""
	}
	return string(rune(d))
}

// Quantize maps a displacement to a compass direction.
//
// The angle is measured in a transposed page frame: φ = atan2(dx, dy) with y
// growing downward, so the sector [π/4, 3π/4) is rightward travel and
// [3π/4, 5π/4) is upward travel. Displacements at or below MotionThreshold
// report false.
func Quantize(delta Vector) (Direction, bool) {
	if math.IsNaN(delta.DX) || math.IsNaN(delta.DY) || math.IsInf(delta.DX, 0) || math.IsInf(delta.DY, 0) {
		return None, false
	}
	if delta.Len() <= MotionThreshold {
		return None, false
	}

	phi := math.Atan2(delta.DX, delta.DY)
	if phi < 0 {
		phi += 2 * math.Pi
	}

	switch {
	case phi >= math.Pi/4 && phi < 3*math.Pi/4:
		return Right, true
	case phi >= 3*math.Pi/4 && phi < 5*math.Pi/4:
		return Up, true
	case phi >= 5*math.Pi/4 && phi < 7*math.Pi/4:
		return Left, true
	default:
		return Down, true
	}
}
