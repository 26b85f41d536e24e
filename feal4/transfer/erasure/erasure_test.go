package erasure

import (
	"bytes"
	"errors"
	"testing"
)

func TestShardJoinWithLoss(t *testing.T) {
	codec, err := NewCodec(4, 2)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	data := []byte("ciphertext bytes that will be spread over six reed-solomon shards")
	shards, err := codec.Shard(data)
	if err != nil {
		t.Fatalf("Shard: %v", err)
	}
	if len(shards) != 6 {
		t.Fatalf("expected 6 shards, got %d", len(shards))
	}
	ok, err := codec.Verify(shards)
	if err != nil || !ok {
		t.Fatalf("Verify: %v %v", ok, err)
	}

	shards[1] = nil
	shards[4] = nil

	out, err := codec.Join(shards, len(data))
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("recovered data does not match original")
	}
}

func TestTooManyLost(t *testing.T) {
	codec, _ := NewCodec(4, 2)
	data := make([]byte, 1024)
	shards, _ := codec.Shard(data)

	shards[0] = nil
	shards[1] = nil
	shards[2] = nil

	if _, err := codec.Join(shards, len(data)); !errors.Is(err, ErrTooManyLost) {
		t.Fatalf("expected ErrTooManyLost, got %v", err)
	}
}

func TestInvalidConfig(t *testing.T) {
	if _, err := NewCodec(0, 2); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := NewCodec(200, 100); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestWrongShardCount(t *testing.T) {
	codec, _ := NewCodec(4, 2)
	shards, _ := codec.Shard([]byte("some bytes"))
	if _, err := codec.Join(shards[:5], 10); !errors.Is(err, ErrShardCount) {
		t.Fatalf("expected ErrShardCount, got %v", err)
	}
}

func TestEmptyData(t *testing.T) {
	codec, _ := NewCodec(4, 2)
	shards, err := codec.Shard(nil)
	if err != nil || shards != nil {
		t.Fatalf("expected no shards, got %v %v", shards, err)
	}
	out, err := codec.Join(nil, 0)
	if err != nil || len(out) != 0 {
		t.Fatalf("expected empty output, got %v %v", out, err)
	}
}

func TestOverhead(t *testing.T) {
	codec, _ := NewCodec(4, 2)
	if o := codec.Overhead(); o < 1.49 || o > 1.51 {
		t.Fatalf("unexpected overhead: %f", o)
	}
	if s := codec.ShardSize(10); s != 3 {
		t.Fatalf("unexpected shard size %d", s)
	}
}

func BenchmarkShard(b *testing.B) {
	codec, _ := NewCodec(10, 4)
	data := make([]byte, 1024*1024)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = codec.Shard(data)
	}
}

func TestJoinRejectsLengthBeyondShards(t *testing.T) {
	codec, _ := NewCodec(4, 2)
	data := []byte("twenty bytes of data")
	for _, size := range []int{1 << 62, 1 << 30, codec.ShardSize(len(data))*4 + 1, -1} {
		shards, _ := codec.Shard(data)
		if _, err := codec.Join(shards, size); !errors.Is(err, ErrShardCount) {
			t.Fatalf("size %d: expected ErrShardCount, got %v", size, err)
		}
	}
}
