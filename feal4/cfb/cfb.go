package cfb

import (
	"errors"
	"fmt"

	"github.com/TheusHen/feal4/feal4/feal"
)

var (
	ErrInvalidSegmentSize = errors.New("cfb: invalid segment size")
	ErrInvalidIVLength    = errors.New("cfb: invalid IV length")
)

// SegmentBytes converts a segment size in bits to bytes.
// The size must be a positive multiple of 8 no larger than the block.
func SegmentBytes(bits int) (int, error) {
	if bits <= 0 || bits%8 != 0 {
		return 0, fmt.Errorf("%w: %d bits is not a positive multiple of 8", ErrInvalidSegmentSize, bits)
	}
	n := bits / 8
	if n > feal.BlockSize {
		return 0, fmt.Errorf("%w: %d bits exceeds the %d-byte block", ErrInvalidSegmentSize, bits, feal.BlockSize)
	}
	return n, nil
}

// Stream is one CFB session: a keyed engine plus its feedback register.
type Stream struct {
	subkeys  feal.Subkeys
	register [feal.BlockSize]byte
	out      [feal.BlockSize]byte
	pending  [feal.BlockSize]byte // ciphertext of the segment in progress
	segment  int
	used     int // bytes of the current segment already processed
	decrypt  bool
}

// NewEncrypter returns a Stream that encrypts with the given key, IV and segment size.
func NewEncrypter(key, iv []byte, segmentBits int) (*Stream, error) {
	return newStream(key, iv, segmentBits, false)
}

// NewDecrypter returns a Stream that decrypts with the given key, IV and segment size.
func NewDecrypter(key, iv []byte, segmentBits int) (*Stream, error) {
	return newStream(key, iv, segmentBits, true)
}

func newStream(key, iv []byte, segmentBits int, decrypt bool) (*Stream, error) {
	segment, err := SegmentBytes(segmentBits)
	if err != nil {
		return nil, err
	}
	if len(iv) != feal.BlockSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIVLength, len(iv))
	}
	sk, err := feal.DeriveSubkeys(key)
	if err != nil {
		return nil, err
	}
	s := &Stream{subkeys: sk, segment: segment, decrypt: decrypt}
	copy(s.register[:], iv)
	return s, nil
}

// SegmentSize returns the segment size in bytes.
func (s *Stream) SegmentSize() int { return s.segment }

// Register returns a copy of the current feedback register.
func (s *Stream) Register() [feal.BlockSize]byte { return s.register }

// XORKeyStream encrypts or decrypts src into dst, which must be at least as long as src.
// Input may be split across calls at any byte offset without changing the output.
func (s *Stream) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("cfb: output smaller than input")
	}
	for len(src) > 0 {
		if s.used == 0 {
			feal.EncryptBlock(s.out[:], s.register[:], &s.subkeys)
		}

		n := s.segment - s.used
		if n > len(src) {
			n = len(src)
		}
		ks := s.out[s.used : s.used+n]
		if s.decrypt {
			copy(s.pending[s.used:], src[:n])
			xorBytes(dst[:n], src[:n], ks)
		} else {
			xorBytes(dst[:n], src[:n], ks)
			copy(s.pending[s.used:], dst[:n])
		}
		s.used += n
		dst, src = dst[n:], src[n:]

		if s.used == s.segment {
			s.shift()
		}
	}
}

// shift drops the leading segment bytes of the register and appends the finished segment.
func (s *Stream) shift() {
	keep := feal.BlockSize - s.segment
	copy(s.register[:keep], s.register[s.segment:])
	copy(s.register[keep:], s.pending[:s.segment])
	s.used = 0
}

func xorBytes(dst, a, b []byte) {
	for i := range a {
		dst[i] = a[i] ^ b[i]
	}
}

// Encrypt encrypts plaintext in one pass. The result has the same length as plaintext;
// a short final segment is not padded.
func Encrypt(key, iv, plaintext []byte, segmentBits int) ([]byte, error) {
	s, err := NewEncrypter(key, iv, segmentBits)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(plaintext))
	s.XORKeyStream(out, plaintext)
	return out, nil
}

// Decrypt reverses Encrypt.
func Decrypt(key, iv, ciphertext []byte, segmentBits int) ([]byte, error) {
	s, err := NewDecrypter(key, iv, segmentBits)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(ciphertext))
	s.XORKeyStream(out, ciphertext)
	return out, nil
}
