// Package knapsack implements the Merkle-Hellman knapsack cryptosystem used to transport the
// 8-byte FEAL key. It is broken as a public-key scheme and kept for its teaching value.
package knapsack

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/TheusHen/feal4/feal4/internal/modmath"
)

var (
	ErrLengthMismatch = errors.New("knapsack: input length does not match key length")
	ErrInvalidBit     = errors.New("knapsack: input is not a bit string")
	ErrInvalidKey     = errors.New("knapsack: invalid key")
)

// PrivateKey is a superincreasing sequence with the modulus and multiplier that hide it.
type PrivateKey struct {
	Sequence   []*big.Int
	Modulus    *big.Int
	Multiplier *big.Int
}

// PublicKey is the disguised sequence r*w_i mod q.
type PublicKey []*big.Int

// GenerateKey creates a key pair able to carry n-bit messages.
func GenerateKey(n int) (*PrivateKey, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidKey, n)
	}

	first, err := modmath.RandRange(big.NewInt(1), big.NewInt(100))
	if err != nil {
		return nil, err
	}
	seq := []*big.Int{first}
	sum := new(big.Int).Set(first)
	for len(seq) < n {
		step, err := modmath.RandRange(big.NewInt(1), big.NewInt(10))
		if err != nil {
			return nil, err
		}
		next := new(big.Int).Add(sum, step)
		seq = append(seq, next)
		sum.Add(sum, next)
	}

	q, err := modmath.RandRange(new(big.Int).Add(sum, big.NewInt(1)), new(big.Int).Mul(sum, big.NewInt(10)))
	if err != nil {
		return nil, err
	}
	var r *big.Int
	for {
		r, err = modmath.RandRange(big.NewInt(2), new(big.Int).Sub(q, big.NewInt(1)))
		if err != nil {
			return nil, err
		}
		if modmath.Coprime(r, q) {
			break
		}
	}
	return &PrivateKey{Sequence: seq, Modulus: q, Multiplier: r}, nil
}

// Len returns the message length in bits.
func (k *PrivateKey) Len() int { return len(k.Sequence) }

// Public derives the public key.
func (k *PrivateKey) Public() PublicKey {
	pub := make(PublicKey, len(k.Sequence))
	for i, w := range k.Sequence {
		v := new(big.Int).Mul(k.Multiplier, w)
		pub[i] = v.Mod(v, k.Modulus)
	}
	return pub
}

// Encrypt sums the public-key elements selected by the '1' bits of bits.
func Encrypt(bits string, pub PublicKey) (*big.Int, error) {
	if len(bits) != len(pub) {
		return nil, fmt.Errorf("%w: %d bits for a %d-element key", ErrLengthMismatch, len(bits), len(pub))
	}
	c := new(big.Int)
	for i := 0; i < len(bits); i++ {
		switch bits[i] {
		case '1':
			c.Add(c, pub[i])
		case '0':
		default:
			return nil, fmt.Errorf("%w: %q at %d", ErrInvalidBit, bits[i], i)
		}
	}
	return c, nil
}

// Decrypt recovers the bit string from c.
func Decrypt(c *big.Int, priv *PrivateKey) (string, error) {
	if priv == nil || len(priv.Sequence) == 0 || priv.Modulus == nil || priv.Multiplier == nil {
		return "", ErrInvalidKey
	}
	rInv, err := modmath.Inverse(priv.Multiplier, priv.Modulus)
	if err != nil {
		return "", fmt.Errorf("knapsack: multiplier: %w", err)
	}
	rem := new(big.Int).Mul(c, rInv)
	rem.Mod(rem, priv.Modulus)

	out := make([]byte, len(priv.Sequence))
	for i := len(priv.Sequence) - 1; i >= 0; i-- {
		if rem.Cmp(priv.Sequence[i]) >= 0 {
			out[i] = '1'
			rem.Sub(rem, priv.Sequence[i])
		} else {
			out[i] = '0'
		}
	}
	return string(out), nil
}

// BytesToBits renders b most significant bit first, eight characters per byte.
func BytesToBits(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 8)
	for _, v := range b {
		fmt.Fprintf(&sb, "%08b", v)
	}
	return sb.String()
}

// BitsToBytes parses a bit string produced by BytesToBits.
func BitsToBytes(bits string) ([]byte, error) {
	if len(bits)%8 != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of 8", ErrInvalidBit, len(bits))
	}
	out := make([]byte, len(bits)/8)
	for i := 0; i < len(bits); i++ {
		switch bits[i] {
		case '1':
			out[i/8] |= 0x80 >> (i % 8)
		case '0':
		default:
			return nil, fmt.Errorf("%w: %q at %d", ErrInvalidBit, bits[i], i)
		}
	}
	return out, nil
}

// EncryptBytes encrypts b, which must have exactly len(pub)/8 bytes.
func EncryptBytes(b []byte, pub PublicKey) (*big.Int, error) {
	return Encrypt(BytesToBits(b), pub)
}

// DecryptBytes reverses EncryptBytes.
func DecryptBytes(c *big.Int, priv *PrivateKey) ([]byte, error) {
	bits, err := Decrypt(c, priv)
	if err != nil {
		return nil, err
	}
	return BitsToBytes(bits)
}
