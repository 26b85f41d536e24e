package transfer

import (
	"bytes"
	"errors"
	"testing"
)

func TestCompressDecompress(t *testing.T) {
	data := bytes.Repeat([]byte("feal-4 cfb segment "), 200)
	for _, level := range []CompressionLevel{CompressionFast, CompressionDefault, CompressionBest} {
		compressed, err := Compress(data, level)
		if err != nil {
			t.Fatalf("Compress(%d): %v", level, err)
		}
		if len(compressed) >= len(data) {
			t.Fatalf("level %d: expected compression, got %d >= %d", level, len(compressed), len(data))
		}
		out, err := Decompress(compressed)
		if err != nil {
			t.Fatalf("Decompress: %v", err)
		}
		if !bytes.Equal(out, data) {
			t.Fatalf("level %d: round trip mismatch", level)
		}
	}
}

func TestMaybeCompressKeepsSmallInput(t *testing.T) {
	data := []byte("tiny")
	out, ok := MaybeCompress(data, CompressionDefault)
	if ok {
		t.Fatalf("tiny input should not be compressed")
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("data changed")
	}
}

func TestMaybeCompressRepetitive(t *testing.T) {
	data := bytes.Repeat([]byte{0x42}, 4096)
	out, ok := MaybeCompress(data, CompressionFast)
	if !ok || len(out) >= len(data) {
		t.Fatalf("expected compression")
	}
}

func TestDecompressGarbage(t *testing.T) {
	if _, err := Decompress([]byte("definitely not lz4")); !errors.Is(err, ErrDecompressionFailed) {
		t.Fatalf("expected ErrDecompressionFailed, got %v", err)
	}
}

func BenchmarkCompress(b *testing.B) {
	data := bytes.Repeat([]byte("benchmark payload "), 4096)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Compress(data, CompressionFast)
	}
}
