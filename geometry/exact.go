package geometry

import (
	"math/big"

	"github.com/iceisfun/gotin/types"
)

// Extended-precision fallbacks for the fast-path predicates. A 256-bit
// mantissa is far beyond what a sequence of float64 products can require, so
// these evaluations are effectively exact for float64 inputs.

func halfPlaneExact(ax, ay, bx, by, px, py float64) float64 {
	abx := bigFloat(bx)
	abx.Sub(abx, bigFloat(ax))
	aby := bigFloat(by)
	aby.Sub(aby, bigFloat(ay))
	apx := bigFloat(px)
	apx.Sub(apx, bigFloat(ax))
	apy := bigFloat(py)
	apy.Sub(apy, bigFloat(ay))

	det := det2(abx, aby, apx, apy)
	out, _ := det.Float64()
	return out
}

func inCircleExact(a, b, c, d *types.Vertex) float64 {
	adx := bigFloat(a.X)
	adx.Sub(adx, bigFloat(d.X))
	ady := bigFloat(a.Y)
	ady.Sub(ady, bigFloat(d.Y))
	bdx := bigFloat(b.X)
	bdx.Sub(bdx, bigFloat(d.X))
	bdy := bigFloat(b.Y)
	bdy.Sub(bdy, bigFloat(d.Y))
	cdx := bigFloat(c.X)
	cdx.Sub(cdx, bigFloat(d.X))
	cdy := bigFloat(c.Y)
	cdy.Sub(cdy, bigFloat(d.Y))

	ad2 := lengthSq(adx, ady)
	bd2 := lengthSq(bdx, bdy)
	cd2 := lengthSq(cdx, cdy)

	term1 := bigFloat(0)
	term1.Mul(ad2, det2(bdx, bdy, cdx, cdy))
	term2 := bigFloat(0)
	term2.Mul(bd2, det2(adx, ady, cdx, cdy))
	term3 := bigFloat(0)
	term3.Mul(cd2, det2(adx, ady, bdx, bdy))

	det := bigFloat(0)
	det.Add(term1, term3)
	det.Sub(det, term2)
	out, _ := det.Float64()
	return out
}

func lengthSq(x, y *big.Float) *big.Float {
	out := bigFloat(0)
	out.Mul(x, x)
	tmp := bigFloat(0)
	tmp.Mul(y, y)
	out.Add(out, tmp)
	return out
}

func det2(ax, ay, bx, by *big.Float) *big.Float {
	out := bigFloat(0)
	tmp := bigFloat(0)
	out.Mul(ax, by)
	tmp.Mul(ay, bx)
	out.Sub(out, tmp)
	return out
}

func bigFloat(v float64) *big.Float {
	return new(big.Float).SetPrec(256).SetFloat64(v)
}
