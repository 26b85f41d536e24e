// Package feal implements the FEAL-4 block cipher used by feal4.
//
// Properties:
//   - 64-bit blocks, 64-bit master key
//   - 4 Feistel rounds over 32-bit halves
//   - Key schedule driven by the keyed mixing function fK with a fixed zero right key half
//   - Pre-whitening with the last two subkey words
//
// The cipher is a teaching construction and offers no real security.
// Chaining is not done here; see package cfb.
package feal
