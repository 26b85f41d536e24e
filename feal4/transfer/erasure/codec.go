package erasure

import (
	"errors"
	"fmt"

	"github.com/klauspost/reedsolomon"
)

var (
	ErrTooManyLost   = errors.New("erasure: too many shards lost, cannot recover")
	ErrInvalidConfig = errors.New("erasure: invalid data/parity configuration")
	ErrShardCount    = errors.New("erasure: wrong number of shards")
)

// Codec wraps a Reed-Solomon encoder for a fixed data/parity layout.
type Codec struct {
	enc          reedsolomon.Encoder
	dataShards   int
	parityShards int
}

func NewCodec(dataShards, parityShards int) (*Codec, error) {
	if dataShards <= 0 || parityShards <= 0 {
		return nil, fmt.Errorf("%w: %d+%d", ErrInvalidConfig, dataShards, parityShards)
	}
	enc, err := reedsolomon.New(dataShards, parityShards)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &Codec{enc: enc, dataShards: dataShards, parityShards: parityShards}, nil
}

func (c *Codec) DataShards() int { return c.dataShards }

func (c *Codec) ParityShards() int { return c.parityShards }

func (c *Codec) TotalShards() int { return c.dataShards + c.parityShards }

// Shard splits data into data shards and computes parity. Shards are zero-padded,
// so the caller must keep len(data) to Join later. Empty input yields no shards.
func (c *Codec) Shard(data []byte) ([][]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	shards, err := c.enc.Split(data)
	if err != nil {
		return nil, err
	}
	if err := c.enc.Encode(shards); err != nil {
		return nil, err
	}
	return shards, nil
}

// Verify checks that parity is consistent with the data shards.
func (c *Codec) Verify(shards [][]byte) (bool, error) {
	return c.enc.Verify(shards)
}

// Join rebuilds missing (nil) data shards and concatenates them back into size bytes.
// size must not exceed what the data shards hold.
func (c *Codec) Join(shards [][]byte, size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrShardCount, size)
	}
	if size == 0 {
		return []byte{}, nil
	}
	if len(shards) != c.TotalShards() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrShardCount, len(shards), c.TotalShards())
	}
	if err := c.enc.ReconstructData(shards); err != nil {
		if errors.Is(err, reedsolomon.ErrTooFewShards) {
			return nil, ErrTooManyLost
		}
		return nil, err
	}

	capacity := 0
	for _, sh := range shards[:c.dataShards] {
		capacity += len(sh)
	}
	if size > capacity {
		return nil, fmt.Errorf("%w: shards hold %d of %d bytes", ErrShardCount, capacity, size)
	}

	out := make([]byte, 0, size)
	for i := 0; i < c.dataShards && len(out) < size; i++ {
		n := size - len(out)
		if n > len(shards[i]) {
			n = len(shards[i])
		}
		out = append(out, shards[i][:n]...)
	}
	return out, nil
}

// ShardSize returns the per-shard size for dataSize bytes.
func (c *Codec) ShardSize(dataSize int) int {
	return (dataSize + c.dataShards - 1) / c.dataShards
}

// Overhead returns the expansion ratio, e.g. 1.5 for 4+2.
func (c *Codec) Overhead() float64 {
	return float64(c.TotalShards()) / float64(c.dataShards)
}
