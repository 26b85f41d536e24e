package session

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/TheusHen/feal4/feal4/cfb"
	"github.com/TheusHen/feal4/feal4/elgamal"
	"github.com/TheusHen/feal4/feal4/feal"
	"github.com/TheusHen/feal4/feal4/knapsack"
	"github.com/TheusHen/feal4/feal4/protocol"
	"github.com/TheusHen/feal4/feal4/transfer"
	"github.com/TheusHen/feal4/feal4/transfer/erasure"
)

var (
	ErrBadSignature = errors.New("session: signature verification failed")
	ErrNoSigner     = errors.New("session: missing signing key")
	ErrLength       = errors.New("session: ciphertext length mismatch")
)

// SealOptions configures how a message is enciphered and packaged.
type SealOptions struct {
	Sender      string
	SegmentBits int
	Compress    bool

	// DataShards and ParityShards enable Reed-Solomon sharding when both are positive.
	DataShards   int
	ParityShards int

	System elgamal.System
	Signer *elgamal.KeyPair
}

// Seal enciphers plaintext under a fresh FEAL key, signs the ciphertext and
// wraps the key for the receiver named in offer.
func Seal(plaintext []byte, offer protocol.KeyOffer, opts SealOptions) (protocol.Envelope, error) {
	if opts.Signer == nil {
		return protocol.Envelope{}, ErrNoSigner
	}

	material := make([]byte, feal.KeySize+feal.BlockSize)
	if _, err := rand.Read(material); err != nil {
		return protocol.Envelope{}, err
	}
	key, iv := material[:feal.KeySize], material[feal.KeySize:]

	body, compressed := plaintext, false
	if opts.Compress {
		body, compressed = transfer.MaybeCompress(plaintext, transfer.CompressionDefault)
	}

	ct, err := cfb.Encrypt(key, iv, body, opts.SegmentBits)
	if err != nil {
		return protocol.Envelope{}, err
	}
	sig, err := elgamal.Sign(opts.System, opts.Signer.X, ct)
	if err != nil {
		return protocol.Envelope{}, fmt.Errorf("session: sign: %w", err)
	}
	wrapped, err := knapsack.EncryptBytes(key, knapsack.PublicKey(offer.KnapsackPublic))
	if err != nil {
		return protocol.Envelope{}, fmt.Errorf("session: wrap key: %w", err)
	}

	env := protocol.Envelope{
		Sender:       opts.Sender,
		IV:           append([]byte(nil), iv...),
		SegmentBits:  opts.SegmentBits,
		Length:       len(ct),
		Compressed:   compressed,
		EncryptedKey: wrapped,
		System:       opts.System,
		SignerPublic: opts.Signer.Y,
		Signature:    sig,
	}

	if opts.DataShards > 0 && opts.ParityShards > 0 && len(ct) > 0 {
		codec, err := erasure.NewCodec(opts.DataShards, opts.ParityShards)
		if err != nil {
			return protocol.Envelope{}, err
		}
		shards, err := codec.Shard(ct)
		if err != nil {
			return protocol.Envelope{}, err
		}
		env.DataShards, env.ParityShards, env.Shards = opts.DataShards, opts.ParityShards, shards
	} else {
		env.Ciphertext = ct
	}
	return env, nil
}

// Ciphertext returns the envelope's ciphertext, rebuilding it from shards when needed.
func Ciphertext(env protocol.Envelope) ([]byte, error) {
	if !env.Sharded() {
		if len(env.Ciphertext) != env.Length {
			return nil, fmt.Errorf("%w: have %d, want %d", ErrLength, len(env.Ciphertext), env.Length)
		}
		return env.Ciphertext, nil
	}
	codec, err := erasure.NewCodec(env.DataShards, env.ParityShards)
	if err != nil {
		return nil, err
	}
	shards := make([][]byte, len(env.Shards))
	copy(shards, env.Shards)
	return codec.Join(shards, env.Length)
}

// Open verifies and deciphers env with the receiver's knapsack key.
func Open(env protocol.Envelope, priv *knapsack.PrivateKey) ([]byte, error) {
	ct, err := Ciphertext(env)
	if err != nil {
		return nil, err
	}
	if !elgamal.Verify(env.System, env.SignerPublic, ct, env.Signature) {
		return nil, ErrBadSignature
	}
	key, err := knapsack.DecryptBytes(env.EncryptedKey, priv)
	if err != nil {
		return nil, fmt.Errorf("session: unwrap key: %w", err)
	}
	body, err := cfb.Decrypt(key, env.IV, ct, env.SegmentBits)
	if err != nil {
		return nil, err
	}
	if env.Compressed {
		return transfer.Decompress(body)
	}
	return body, nil
}
