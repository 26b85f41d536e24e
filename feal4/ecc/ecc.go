// Package ecc provides affine point arithmetic over short Weierstrass curves,
// instantiated for NIST P-256.
package ecc

import (
	"crypto/elliptic"
	"errors"
	"fmt"
	"math/big"

	"github.com/TheusHen/feal4/feal4/internal/modmath"
)

var ErrNotOnCurve = errors.New("ecc: point is not on the curve")

// Point is an affine point. A nil *Point is the point at infinity.
type Point struct {
	X, Y *big.Int
}

// Curve is y^2 = x^3 + a*x + b over GF(P) with base point G of order N.
type Curve struct {
	Name string
	P    *big.Int
	A    *big.Int
	B    *big.Int
	N    *big.Int
	G    *Point
}

// P256 returns the NIST P-256 curve.
func P256() *Curve {
	params := elliptic.P256().Params()
	return &Curve{
		Name: params.Name,
		P:    new(big.Int).Set(params.P),
		A:    new(big.Int).Sub(params.P, big.NewInt(3)),
		B:    new(big.Int).Set(params.B),
		N:    new(big.Int).Set(params.N),
		G:    &Point{X: new(big.Int).Set(params.Gx), Y: new(big.Int).Set(params.Gy)},
	}
}

// IsOnCurve reports whether pt satisfies the curve equation. Infinity is on every curve.
func (c *Curve) IsOnCurve(pt *Point) bool {
	if pt == nil {
		return true
	}
	if pt.X == nil || pt.Y == nil {
		return false
	}
	if pt.X.Sign() < 0 || pt.X.Cmp(c.P) >= 0 || pt.Y.Sign() < 0 || pt.Y.Cmp(c.P) >= 0 {
		return false
	}
	lhs := new(big.Int).Mul(pt.Y, pt.Y)
	lhs.Mod(lhs, c.P)

	rhs := new(big.Int).Exp(pt.X, big.NewInt(3), c.P)
	ax := new(big.Int).Mul(c.A, pt.X)
	rhs.Add(rhs, ax)
	rhs.Add(rhs, c.B)
	rhs.Mod(rhs, c.P)
	return lhs.Cmp(rhs) == 0
}

func (c *Curve) check(pts ...*Point) error {
	for _, pt := range pts {
		if !c.IsOnCurve(pt) {
			return fmt.Errorf("%w: (%v, %v)", ErrNotOnCurve, pt.X, pt.Y)
		}
	}
	return nil
}

// Neg returns -pt.
func (c *Curve) Neg(pt *Point) (*Point, error) {
	if err := c.check(pt); err != nil {
		return nil, err
	}
	if pt == nil {
		return nil, nil
	}
	y := new(big.Int).Neg(pt.Y)
	return &Point{X: new(big.Int).Set(pt.X), Y: y.Mod(y, c.P)}, nil
}

// Add returns p1 + p2.
func (c *Curve) Add(p1, p2 *Point) (*Point, error) {
	if err := c.check(p1, p2); err != nil {
		return nil, err
	}
	return c.add(p1, p2), nil
}

func (c *Curve) add(p1, p2 *Point) *Point {
	if p1 == nil {
		return p2
	}
	if p2 == nil {
		return p1
	}

	var m *big.Int
	if p1.X.Cmp(p2.X) == 0 {
		sum := new(big.Int).Add(p1.Y, p2.Y)
		if sum.Mod(sum, c.P).Sign() == 0 {
			return nil
		}
		// Doubling: m = (3x^2 + a) / 2y.
		num := new(big.Int).Mul(p1.X, p1.X)
		num.Mul(num, big.NewInt(3))
		num.Add(num, c.A)
		den := new(big.Int).Lsh(p1.Y, 1)
		m = c.div(num, den)
	} else {
		num := new(big.Int).Sub(p1.Y, p2.Y)
		den := new(big.Int).Sub(p1.X, p2.X)
		m = c.div(num, den)
	}

	x3 := new(big.Int).Mul(m, m)
	x3.Sub(x3, p1.X)
	x3.Sub(x3, p2.X)
	x3.Mod(x3, c.P)

	y3 := new(big.Int).Sub(p1.X, x3)
	y3.Mul(y3, m)
	y3.Sub(y3, p1.Y)
	y3.Mod(y3, c.P)
	return &Point{X: x3, Y: y3}
}

// div returns num/den mod P. den is never zero for points on a prime-order curve.
func (c *Curve) div(num, den *big.Int) *big.Int {
	inv, err := modmath.Inverse(den, c.P)
	if err != nil {
		panic("ecc: " + err.Error())
	}
	num.Mul(num, inv)
	return num.Mod(num, c.P)
}

// ScalarMult returns k*pt by double-and-add. Negative k multiplies -pt.
func (c *Curve) ScalarMult(k *big.Int, pt *Point) (*Point, error) {
	if err := c.check(pt); err != nil {
		return nil, err
	}
	if pt == nil {
		return nil, nil
	}
	e := new(big.Int).Mod(k, c.N)
	if e.Sign() == 0 {
		return nil, nil
	}

	var acc *Point
	addend := pt
	for i := 0; i < e.BitLen(); i++ {
		if e.Bit(i) == 1 {
			acc = c.add(acc, addend)
		}
		addend = c.add(addend, addend)
	}
	return acc, nil
}

// ScalarBaseMult returns k*G.
func (c *Curve) ScalarBaseMult(k *big.Int) (*Point, error) {
	return c.ScalarMult(k, c.G)
}
