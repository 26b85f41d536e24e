package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/TheusHen/feal4/feal4/elgamal"
)

var ErrMalformed = errors.New("protocol: malformed message")

// KeyOffer is sent by the receiver to publish the knapsack key the sender must use.
type KeyOffer struct {
	Name           string     `json:"name"`
	KnapsackPublic []*big.Int `json:"knapsack_public"`
}

// Envelope carries one encrypted, signed message and its wrapped key.
// Exactly one of Ciphertext or Shards is set.
type Envelope struct {
	Sender       string            `json:"sender"`
	IV           []byte            `json:"iv"`
	SegmentBits  int               `json:"segment_bits"`
	Length       int               `json:"length"`
	Compressed   bool              `json:"compressed,omitempty"`
	EncryptedKey *big.Int          `json:"encrypted_key"`
	System       elgamal.System    `json:"system"`
	SignerPublic *big.Int          `json:"signer_public"`
	Ciphertext   []byte            `json:"ciphertext,omitempty"`
	DataShards   int               `json:"data_shards,omitempty"`
	ParityShards int               `json:"parity_shards,omitempty"`
	Shards       [][]byte          `json:"shards,omitempty"`
	Signature    elgamal.Signature `json:"signature"`
}

// Sharded reports whether the ciphertext travels as erasure-coded shards.
func (e Envelope) Sharded() bool {
	return e.DataShards > 0
}

// Ack reports whether the receiver could open the envelope.
type Ack struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func EncodeKeyOffer(o KeyOffer) ([]byte, error) {
	return json.Marshal(o)
}

func DecodeKeyOffer(b []byte) (KeyOffer, error) {
	var o KeyOffer
	if err := json.Unmarshal(b, &o); err != nil {
		return KeyOffer{}, err
	}
	if len(o.KnapsackPublic) == 0 {
		return KeyOffer{}, fmt.Errorf("%w: key offer missing knapsack_public", ErrMalformed)
	}
	for i, v := range o.KnapsackPublic {
		if v == nil {
			return KeyOffer{}, fmt.Errorf("%w: knapsack_public[%d] is null", ErrMalformed, i)
		}
	}
	return o, nil
}

func EncodeEnvelope(e Envelope) ([]byte, error) {
	return json.Marshal(e)
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, err
	}
	switch {
	case e.EncryptedKey == nil:
		return Envelope{}, fmt.Errorf("%w: envelope missing encrypted_key", ErrMalformed)
	case e.SignerPublic == nil:
		return Envelope{}, fmt.Errorf("%w: envelope missing signer_public", ErrMalformed)
	case e.Length < 0 || e.Length > MaxFramePayload:
		return Envelope{}, fmt.Errorf("%w: length %d out of range", ErrMalformed, e.Length)
	case e.Sharded() && len(e.Shards) != e.DataShards+e.ParityShards:
		return Envelope{}, fmt.Errorf("%w: %d shards for %d+%d layout", ErrMalformed, len(e.Shards), e.DataShards, e.ParityShards)
	}
	return e, nil
}

func EncodeAck(a Ack) ([]byte, error) {
	return json.Marshal(a)
}

func DecodeAck(b []byte) (Ack, error) {
	var a Ack
	if err := json.Unmarshal(b, &a); err != nil {
		return Ack{}, err
	}
	return a, nil
}
