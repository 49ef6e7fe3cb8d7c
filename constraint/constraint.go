// Package constraint defines the linear and polygonal constraints that can be
// enforced on a triangulation. A constraint carries an ordered vertex list;
// the triangulation realizes each consecutive pair as a constrained edge.
package constraint

import (
	"errors"
	"math"

	"github.com/iceisfun/gotin/quadedge"
	"github.com/iceisfun/gotin/types"
)

var (
	// ErrTooFewVertices indicates a constraint with an insufficient vertex
	// list: two for a polyline, three for a polygon.
	ErrTooFewVertices = errors.New("gotin: constraint has too few vertices")
)

// Constraint is either a polyline (Linear) or a closed polygon (Polygon).
//
// Constraints are handed to the triangulation once; afterwards the
// triangulation owns the (possibly remapped) vertex list and assigns the
// dense integer index used by the packed edge flags.
type Constraint interface {
	// Vertices returns the ordered vertex list. For a completed polygon the
	// list is explicitly closed: the first vertex reappears at the end.
	Vertices() []*types.Vertex

	// ReplaceVertices installs a remapped vertex list. The triangulation
	// uses this to substitute canonical merged instances for coincident
	// inputs and to record intermediate vertices discovered on segments.
	ReplaceVertices([]*types.Vertex)

	// IsPolygon reports whether the constraint is a closed polygon.
	IsPolygon() bool

	// DefinesRegion reports whether the constraint bounds a constrained
	// region (true for polygons, including holes).
	DefinesRegion() bool

	// Complete normalizes the vertex list (closing polygons) and validates
	// its size.
	Complete() error

	// Index returns the dense constraint index assigned by the
	// triangulation, or -1 before assignment.
	Index() int

	// SetIndex assigns the dense constraint index.
	SetIndex(int)

	// LinkEdge records a back-reference to one of the constraint's
	// realized edges.
	LinkEdge(quadedge.Edge)

	// Edge returns the linked edge, or the nil edge before linking.
	Edge() quadedge.Edge

	// DefaultZ returns the Z value for synthetic vertices introduced along
	// the constraint, or NaN when unset (synthetic vertices then average
	// their neighbors).
	DefaultZ() float64
}

type common struct {
	vertices []*types.Vertex
	index    int
	edge     quadedge.Edge
	defaultZ float64
}

func newCommon(vertices []*types.Vertex) common {
	return common{
		vertices: vertices,
		index:    -1,
		edge:     quadedge.NilEdge,
		defaultZ: math.NaN(),
	}
}

func (c *common) Vertices() []*types.Vertex            { return c.vertices }
func (c *common) ReplaceVertices(list []*types.Vertex) { c.vertices = list }
func (c *common) Index() int                           { return c.index }
func (c *common) SetIndex(ix int)                      { c.index = ix }
func (c *common) LinkEdge(e quadedge.Edge)             { c.edge = e }
func (c *common) Edge() quadedge.Edge                  { return c.edge }
func (c *common) DefaultZ() float64                    { return c.defaultZ }

// SetDefaultZ sets the Z value assigned to synthetic vertices introduced
// along the constraint.
func (c *common) SetDefaultZ(z float64) { c.defaultZ = z }

// Linear is an open polyline constraint.
type Linear struct {
	common
}

// NewLinear creates a polyline constraint over the given vertices.
func NewLinear(vertices ...*types.Vertex) *Linear {
	return &Linear{common: newCommon(vertices)}
}

// AddVertex appends a vertex to the polyline.
func (l *Linear) AddVertex(v *types.Vertex) {
	l.vertices = append(l.vertices, v)
}

// IsPolygon reports false: a polyline is open.
func (l *Linear) IsPolygon() bool { return false }

// DefinesRegion reports false: a polyline bounds no region.
func (l *Linear) DefinesRegion() bool { return false }

// Complete validates that the polyline has at least two vertices.
func (l *Linear) Complete() error {
	if len(l.vertices) < 2 {
		return ErrTooFewVertices
	}
	return nil
}

// Polygon is a closed polygon constraint. Counter-clockwise polygons bound a
// constrained region; clockwise polygons are holes.
type Polygon struct {
	common
}

// NewPolygon creates a polygon constraint over the given vertices. The list
// may be open (closure is added by Complete) or explicitly closed.
func NewPolygon(vertices ...*types.Vertex) *Polygon {
	return &Polygon{common: newCommon(vertices)}
}

// AddVertex appends a vertex to the polygon boundary.
func (p *Polygon) AddVertex(v *types.Vertex) {
	p.vertices = append(p.vertices, v)
}

// IsPolygon reports true.
func (p *Polygon) IsPolygon() bool { return true }

// DefinesRegion reports true: every polygon, hole or not, defines a region.
func (p *Polygon) DefinesRegion() bool { return true }

// Complete closes the polygon when the caller supplied an open ring and
// validates that at least three vertices remain. Only the count is checked;
// repeated vertices within the ring are not detected here.
func (p *Polygon) Complete() error {
	n := len(p.vertices)
	if n >= 2 && p.vertices[0] == p.vertices[n-1] {
		n--
		p.vertices = p.vertices[:n]
	}
	if n < 3 {
		return ErrTooFewVertices
	}
	p.vertices = append(p.vertices, p.vertices[0])
	return nil
}

// Area returns the signed area of the polygon: positive for counter-clockwise
// orientation.
func (p *Polygon) Area() float64 {
	v := p.vertices
	n := len(v)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i+1 < n; i++ {
		sum += v[i].X*v[i+1].Y - v[i+1].X*v[i].Y
	}
	if v[0] != v[n-1] {
		sum += v[n-1].X*v[0].Y - v[0].X*v[n-1].Y
	}
	return sum / 2
}

// IsHole reports whether the polygon is a hole, distinguished by its
// clockwise orientation.
func (p *Polygon) IsHole() bool {
	return p.Area() < 0
}
