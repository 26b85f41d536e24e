// Package feal4 provides the FEAL-4 block cipher, a CFB stream mode built on it, and a
// small two-party exchange that moves CFB-enciphered messages over QUIC.
//
// The cipher lives in feal and the stream mode in cfb. A Party bundles the
// collaborators that surround them: a Merkle-Hellman knapsack key that receivers
// offer so senders can wrap a fresh FEAL key, and an ElGamal key that signs every
// ciphertext. FEAL-4 and the knapsack scheme are both broken; this code is for study.
package feal4
