package feal

import "crypto/cipher"

// Cipher is a FEAL-4 instance keyed once. It implements crypto/cipher.Block
// and is safe for concurrent use.
type Cipher struct {
	subkeys Subkeys
}

var _ cipher.Block = (*Cipher)(nil)

// NewCipher derives the subkeys for key.
func NewCipher(key []byte) (*Cipher, error) {
	sk, err := DeriveSubkeys(key)
	if err != nil {
		return nil, err
	}
	return &Cipher{subkeys: sk}, nil
}

func (c *Cipher) BlockSize() int { return BlockSize }

func (c *Cipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic("feal: block too short")
	}
	EncryptBlock(dst, src, &c.subkeys)
}

func (c *Cipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic("feal: block too short")
	}
	DecryptBlock(dst, src, &c.subkeys)
}

// Subkeys returns a copy of the derived key material.
func (c *Cipher) Subkeys() Subkeys { return c.subkeys }
