package feal

import "math/bits"

type word [halfSize]byte

// s computes rot2((x1 + x2 + k) mod 256).
func s(x1, x2, k byte) byte {
	return bits.RotateLeft8(x1+x2+k, rotation)
}

func s0(x1, x2 byte) byte { return s(x1, x2, 0) }

func s1(x1, x2 byte) byte { return s(x1, x2, 1) }

// f is the round function applied in every encryption and decryption round.
func f(a word) word {
	t1 := a[0] ^ a[1]
	t2 := a[2] ^ a[3]
	t1 = s1(t1, t2)
	t2 = s0(t2, t1)
	return word{s0(a[0], t1), t1, t2, s1(t2, a[3])}
}

// fk is the keyed mixing function of the key schedule.
func fk(a, b word) word {
	t1 := a[1] ^ a[0]
	t2 := a[2] ^ a[3]
	t1 = s1(t1, t2^b[0])
	t2 = s0(t2, t1^b[1])
	return word{s0(a[0], t1^b[2]), t1, t2, s1(a[3], t2^b[3])}
}

func xorWord(a, b word) word {
	return word{a[0] ^ b[0], a[1] ^ b[1], a[2] ^ b[2], a[3] ^ b[3]}
}
