package feal

import (
	"errors"
	"fmt"
)

var ErrInvalidKeyLength = errors.New("feal: invalid key length")

// Subkeys is the expanded key material for one master key.
// Words 0..Rounds-1 key the rounds; the last two words whiten the input block.
type Subkeys [SubkeySize]byte

func (sk *Subkeys) word(i int) word {
	var w word
	copy(w[:], sk[i*halfSize:(i+1)*halfSize])
	return w
}

// DeriveSubkeys expands an 8-byte master key.
// The right key half is fixed to zero, so the result depends on key alone.
func DeriveSubkeys(key []byte) (Subkeys, error) {
	if len(key) != KeySize {
		return Subkeys{}, fmt.Errorf("%w: %d", ErrInvalidKeyLength, len(key))
	}

	var kr1, kr2 word
	q := xorWord(kr1, kr2)

	var a, b, d word
	copy(a[:], key[:halfSize])
	copy(b[:], key[halfSize:])

	var sk Subkeys
	for i := 0; i < SubkeyWords; i++ {
		var mix word
		switch i % 3 {
		case 0:
			mix = xorWord(b, q)
		case 1:
			mix = xorWord(b, kr1)
		default:
			mix = xorWord(b, kr2)
		}
		if i > 0 {
			mix = xorWord(mix, d)
		}
		d = a
		a = fk(a, mix)
		copy(sk[i*halfSize:], a[:])
		a, b = b, a
	}
	return sk, nil
}
