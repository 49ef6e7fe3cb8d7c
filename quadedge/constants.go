package quadedge

// Constraint word layout. Each side of an edge pair carries a 32-bit word.
// Flag bits are authoritative on the odd (dual) side of the pair; accessors
// on the even side delegate. Region indices are per-side so that a border
// edge can name different regions on its left and right.
//
//	bit 31      constrained
//	bit 30      region border
//	bit 29      region interior
//	bit 28      line member
//	bit 27      synthetic
//	bits 15-26  line constraint index + 1 (0 = none)
//	bits 0-14   region constraint index + 1 (0 = none)
const (
	constraintFlagConstrained    = int32(-1 << 31)
	constraintFlagRegionBorder   = int32(1 << 30)
	constraintFlagRegionInterior = int32(1 << 29)
	constraintFlagLineMember     = int32(1 << 28)
	constraintFlagSynthetic      = int32(1 << 27)

	constraintLineShift = 15
	constraintLineMask  = int32(0xFFF << constraintLineShift)
	constraintRegionMask = int32(0x7FFF)
)

// MaxRegionConstraintIndex is the largest region constraint index that fits
// the 15-bit packed field (the stored value is index+1).
const MaxRegionConstraintIndex = 32766

// MaxLineConstraintIndex is the largest line constraint index that fits the
// 12-bit packed field (the stored value is index+1).
const MaxLineConstraintIndex = 4094

// pairsPerPage is the fixed capacity of one allocation page, in edge pairs.
const pairsPerPage = 1024

const edgesPerPage = 2 * pairsPerPage
