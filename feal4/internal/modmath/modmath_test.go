package modmath

import (
	"errors"
	"math/big"
	"testing"
)

func TestInverse(t *testing.T) {
	cases := []struct{ a, m, want int64 }{
		{3, 11, 4},
		{10, 17, 12},
		{17, 3120, 2753},
		{-3, 11, 7},
		{5, 1, 0},
	}
	for _, tc := range cases {
		got, err := Inverse(big.NewInt(tc.a), big.NewInt(tc.m))
		if err != nil {
			t.Fatalf("Inverse(%d, %d): %v", tc.a, tc.m, err)
		}
		if got.Int64() != tc.want {
			t.Fatalf("Inverse(%d, %d) = %v, want %d", tc.a, tc.m, got, tc.want)
		}
	}
}

func TestInverseMatchesModInverse(t *testing.T) {
	p, _ := new(big.Int).SetString("ffffffff00000001000000000000000000000000ffffffffffffffffffffffff", 16)
	for _, a := range []int64{2, 3, 12345, 1 << 40} {
		want := new(big.Int).ModInverse(big.NewInt(a), p)
		got, err := Inverse(big.NewInt(a), p)
		if err != nil {
			t.Fatalf("Inverse: %v", err)
		}
		if got.Cmp(want) != 0 {
			t.Fatalf("Inverse(%d) = %v, want %v", a, got, want)
		}
	}
}

func TestInverseMissing(t *testing.T) {
	if _, err := Inverse(big.NewInt(6), big.NewInt(9)); !errors.Is(err, ErrNoInverse) {
		t.Fatalf("expected ErrNoInverse, got %v", err)
	}
}

func TestGCD(t *testing.T) {
	if g := GCD(big.NewInt(48), big.NewInt(180)); g.Int64() != 12 {
		t.Fatalf("GCD = %v", g)
	}
	if !Coprime(big.NewInt(35), big.NewInt(64)) {
		t.Fatalf("35 and 64 are coprime")
	}
}

func TestRandRange(t *testing.T) {
	lo, hi := big.NewInt(5), big.NewInt(9)
	for i := 0; i < 100; i++ {
		n, err := RandRange(lo, hi)
		if err != nil {
			t.Fatalf("RandRange: %v", err)
		}
		if n.Cmp(lo) < 0 || n.Cmp(hi) > 0 {
			t.Fatalf("%v outside [5, 9]", n)
		}
	}
	if _, err := RandRange(hi, lo); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}
