// Package transfer prepares message bodies for the wire.
//
// Plaintext can be LZ4-compressed before it is enciphered; the erasure
// subpackage spreads ciphertext over Reed-Solomon shards so an envelope
// survives the loss of up to its parity count.
package transfer
