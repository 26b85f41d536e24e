package feal

import (
	"errors"
	"fmt"
)

var ErrInputNotFullBlocks = errors.New("feal: input not full blocks")

func split(b []byte) (l, r word) {
	copy(l[:], b[:halfSize])
	copy(r[:], b[halfSize:BlockSize])
	return l, r
}

// EncryptBlock encrypts one block from src into dst. Both must hold at least BlockSize bytes,
// otherwise it panics; dst and src may overlap entirely. Use Encrypt for input that is
// shorter than a block or not a whole number of blocks.
func EncryptBlock(dst, src []byte, sk *Subkeys) {
	l, r := split(src)
	l = xorWord(l, sk.word(Rounds))
	r = xorWord(r, sk.word(Rounds+1))
	r = xorWord(r, l)

	for i := 0; i < Rounds; i++ {
		l = xorWord(l, f(xorWord(r, sk.word(i))))
		l, r = r, l
	}

	l, r = r, l
	r = xorWord(r, l)
	copy(dst[:halfSize], l[:])
	copy(dst[halfSize:BlockSize], r[:])
}

// DecryptBlock reverses EncryptBlock. dst and src must hold at least BlockSize bytes.
func DecryptBlock(dst, src []byte, sk *Subkeys) {
	l, r := split(src)
	r = xorWord(r, l)
	l, r = r, l

	for i := Rounds - 1; i >= 0; i-- {
		l, r = r, l
		l = xorWord(l, f(xorWord(sk.word(i), r)))
	}

	r = xorWord(r, l)
	r = xorWord(r, sk.word(Rounds+1))
	l = xorWord(l, sk.word(Rounds))
	copy(dst[:halfSize], l[:])
	copy(dst[halfSize:BlockSize], r[:])
}

// Pad appends zero bytes up to the next multiple of BlockSize.
func Pad(data []byte) []byte {
	n := len(data)
	if n%BlockSize != 0 {
		n += BlockSize - n%BlockSize
	}
	out := make([]byte, n)
	copy(out, data)
	return out
}

// Encrypt zero-pads data and encrypts each block on its own.
// The caller must keep the original length; see TrimZeros.
func Encrypt(data []byte, sk *Subkeys) []byte {
	out := Pad(data)
	for i := 0; i < len(out); i += BlockSize {
		EncryptBlock(out[i:], out[i:], sk)
	}
	return out
}

// Decrypt decrypts each block of data. Padding is left in place.
func Decrypt(data []byte, sk *Subkeys) ([]byte, error) {
	if len(data)%BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInputNotFullBlocks, len(data))
	}
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += BlockSize {
		DecryptBlock(out[i:], data[i:], sk)
	}
	return out, nil
}

// TrimZeros drops trailing zero bytes.
//
// This is lossy: a plaintext that really ends in zero bytes loses them. Prefer tracking the
// plaintext length and slicing the output of Decrypt.
func TrimZeros(b []byte) []byte {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	return b[:n]
}
