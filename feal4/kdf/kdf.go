// Package kdf stretches passphrases and shared secrets into FEAL key material.
package kdf

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/TheusHen/feal4/feal4/feal"
)

const info = "feal4-cfb-key-iv"

var ErrEmptySecret = errors.New("kdf: empty secret")

// DeriveKey derives length bytes from secret using HKDF-SHA256.
// salt can be nil (uses zero salt), info provides context binding.
func DeriveKey(secret, salt, info []byte, length int) ([]byte, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	hk := hkdf.New(sha256.New, secret, salt, info)
	key := make([]byte, length)
	if _, err := io.ReadFull(hk, key); err != nil {
		return nil, err
	}
	return key, nil
}

// DeriveKeyIV derives an 8-byte FEAL key and an 8-byte CFB IV from a passphrase.
func DeriveKeyIV(passphrase, salt []byte) (key, iv []byte, err error) {
	material, err := DeriveKey(passphrase, salt, []byte(info), feal.KeySize+feal.BlockSize)
	if err != nil {
		return nil, nil, err
	}
	return material[:feal.KeySize], material[feal.KeySize:], nil
}
