package edgescroll

// Edge names the viewport edge a band belongs to.
type Edge int

const (
	Top Edge = iota
	Right
	Bottom
	Left
)

// Jump returns the scroll magnitude for a pointer at pos inside a band that
// starts at start and is band long. The band is split in quarters and the
// quarter nearest the true edge uses tiers[0]. Top and Left bands have the
// edge at start; Bottom and Right bands at start+band.
func Jump(pos, start, band float64, edge Edge, tiers [4]int, step int) int {
	quarter := band / 4
	if edge == Top || edge == Left {
		switch {
		case pos < start+quarter:
			return tiers[0] * step
		case pos < start+quarter*2:
			return tiers[1] * step
		case pos < start+quarter*3:
			return tiers[2] * step
		default:
			return tiers[3] * step
		}
	}

	switch {
	case pos > start+quarter*3:
		return tiers[0] * step
	case pos > start+quarter*2:
		return tiers[1] * step
	case pos > start+quarter:
		return tiers[2] * step
	default:
		return tiers[3] * step
	}
}
