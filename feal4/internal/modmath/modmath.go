// Package modmath holds the modular arithmetic shared by the public-key collaborators.
package modmath

import (
	"crypto/rand"
	"errors"
	"math/big"
)

var (
	ErrNoInverse    = errors.New("modmath: modular inverse does not exist")
	ErrInvalidRange = errors.New("modmath: empty range")
)

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
)

// Inverse returns a^-1 mod m in [0, m) using the iterative extended Euclidean algorithm.
// It returns 0 when m is 1.
func Inverse(a, m *big.Int) (*big.Int, error) {
	if m.Sign() <= 0 {
		return nil, ErrNoInverse
	}
	if m.Cmp(one) == 0 {
		return new(big.Int), nil
	}

	// Invariant: oldR = oldS*a (mod m), r = s*a (mod m).
	oldR, r := new(big.Int).Mod(a, m), new(big.Int).Set(m)
	oldS, s := big.NewInt(1), big.NewInt(0)
	q, tmp := new(big.Int), new(big.Int)
	for r.Sign() != 0 {
		q.Quo(oldR, r)
		tmp.Mul(q, r)
		oldR, r = r, tmp.Sub(oldR, tmp)
		tmp = new(big.Int)

		tmp.Mul(q, s)
		oldS, s = s, tmp.Sub(oldS, tmp)
		tmp = new(big.Int)
	}
	if oldR.Cmp(one) != 0 {
		return nil, ErrNoInverse
	}
	return oldS.Mod(oldS, m), nil
}

// GCD returns the greatest common divisor of a and b.
func GCD(a, b *big.Int) *big.Int {
	x, y := new(big.Int).Abs(a), new(big.Int).Abs(b)
	for y.Sign() != 0 {
		x, y = y, x.Mod(x, y)
	}
	return x
}

// Coprime reports whether gcd(a, b) == 1.
func Coprime(a, b *big.Int) bool {
	return GCD(a, b).Cmp(one) == 0
}

// RandRange returns a uniform integer in [lo, hi] drawn from crypto/rand.
func RandRange(lo, hi *big.Int) (*big.Int, error) {
	span := new(big.Int).Sub(hi, lo)
	if span.Cmp(zero) < 0 {
		return nil, ErrInvalidRange
	}
	span.Add(span, one)
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return nil, err
	}
	return n.Add(n, lo), nil
}
