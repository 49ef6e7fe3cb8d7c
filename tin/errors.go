package tin

import "errors"

var (
	// ErrInvalidInput indicates a nil list, a polygon with too few vertices,
	// a non-positive nominal point spacing, or similar caller mistakes.
	ErrInvalidInput = errors.New("gotin: invalid input")

	// ErrInsufficientGeometry indicates the staged vertices contain no three
	// non-collinear points, so no initial triangle can be formed.
	ErrInsufficientGeometry = errors.New("gotin: insufficient geometry to bootstrap")

	// ErrNotBootstrapped indicates a query or operation that requires a
	// populated triangulation was invoked on an empty one.
	ErrNotBootstrapped = errors.New("gotin: triangulation is not bootstrapped")

	// ErrLocked indicates a mutation was attempted on a locked or disposed
	// triangulation.
	ErrLocked = errors.New("gotin: triangulation is locked for mutation")

	// ErrAlreadyConstrained indicates a second call to AddConstraints.
	ErrAlreadyConstrained = errors.New("gotin: constraints were already added")

	// ErrCapacityExceeded indicates more region or line constraints than the
	// packed edge fields can index.
	ErrCapacityExceeded = errors.New("gotin: constraint capacity exceeded")

	// ErrInternalInvariant indicates corrupted topology: null navigation,
	// failed link reciprocity, an iteration cap exceeded, or a failed
	// circumcircle. The triangulation is left in an undefined state and
	// must be discarded.
	ErrInternalInvariant = errors.New("gotin: internal invariant violated")
)
