// Package elgamal implements ElGamal signatures over Z_p* with SHA-256 message digests.
package elgamal

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"

	"github.com/TheusHen/feal4/feal4/internal/modmath"
)

var ErrInvalidSystem = errors.New("elgamal: invalid system parameters")

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// System holds the public group parameters shared by signer and verifier.
type System struct {
	P *big.Int `json:"p"`
	G *big.Int `json:"g"`
}

// KeyPair is a private exponent X and its public value Y = G^X mod P.
type KeyPair struct {
	X *big.Int
	Y *big.Int
}

// Signature is the (r, s) pair.
type Signature struct {
	R *big.Int `json:"r"`
	S *big.Int `json:"s"`
}

// GenerateSystem picks a random bits-bit prime and a generator candidate in [2, p-2].
func GenerateSystem(bits int) (System, error) {
	if bits < 16 {
		return System{}, fmt.Errorf("%w: %d-bit prime", ErrInvalidSystem, bits)
	}
	p, err := rand.Prime(rand.Reader, bits)
	if err != nil {
		return System{}, err
	}
	g, err := modmath.RandRange(two, new(big.Int).Sub(p, two))
	if err != nil {
		return System{}, err
	}
	return System{P: p, G: g}, nil
}

// Validate checks the parameters are usable.
func (sys System) Validate() error {
	if sys.P == nil || sys.G == nil {
		return fmt.Errorf("%w: missing parameter", ErrInvalidSystem)
	}
	if sys.P.Cmp(big.NewInt(5)) < 0 {
		return fmt.Errorf("%w: p=%s", ErrInvalidSystem, sys.P)
	}
	if sys.G.Cmp(one) <= 0 || sys.G.Cmp(sys.P) >= 0 {
		return fmt.Errorf("%w: g=%s", ErrInvalidSystem, sys.G)
	}
	return nil
}

// GenerateKey draws x in [1, p-2] and computes y = g^x mod p.
func GenerateKey(sys System) (*KeyPair, error) {
	if err := sys.Validate(); err != nil {
		return nil, err
	}
	x, err := modmath.RandRange(one, new(big.Int).Sub(sys.P, two))
	if err != nil {
		return nil, err
	}
	return &KeyPair{X: x, Y: new(big.Int).Exp(sys.G, x, sys.P)}, nil
}

func digest(message []byte) *big.Int {
	h := sha256.Sum256(message)
	return new(big.Int).SetBytes(h[:])
}

// Sign signs the SHA-256 digest of message with the private exponent priv.
func Sign(sys System, priv *big.Int, message []byte) (Signature, error) {
	if err := sys.Validate(); err != nil {
		return Signature{}, err
	}
	pm1 := new(big.Int).Sub(sys.P, one)
	h := digest(message)

	for {
		k, err := modmath.RandRange(one, new(big.Int).Sub(sys.P, two))
		if err != nil {
			return Signature{}, err
		}
		if !modmath.Coprime(k, pm1) {
			continue
		}
		r := new(big.Int).Exp(sys.G, k, sys.P)
		kInv, err := modmath.Inverse(k, pm1)
		if err != nil {
			return Signature{}, err
		}
		s := new(big.Int).Mul(priv, r)
		s.Sub(h, s)
		s.Mul(s, kInv)
		s.Mod(s, pm1)
		if s.Sign() == 0 {
			continue
		}
		return Signature{R: r, S: s}, nil
	}
}

// Verify reports whether sig is a valid signature of message under pub.
func Verify(sys System, pub *big.Int, message []byte, sig Signature) bool {
	if sys.Validate() != nil || pub == nil || sig.R == nil || sig.S == nil {
		return false
	}
	pm1 := new(big.Int).Sub(sys.P, one)
	if sig.R.Sign() <= 0 || sig.R.Cmp(sys.P) >= 0 {
		return false
	}
	if sig.S.Sign() <= 0 || sig.S.Cmp(pm1) >= 0 {
		return false
	}

	left := new(big.Int).Exp(sys.G, digest(message), sys.P)
	right := new(big.Int).Exp(pub, sig.R, sys.P)
	right.Mul(right, new(big.Int).Exp(sig.R, sig.S, sys.P))
	right.Mod(right, sys.P)
	return left.Cmp(right) == 0
}
