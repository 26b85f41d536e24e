// Package erasure spreads a ciphertext over Reed-Solomon shards.
//
// With d data shards and p parity shards, any p shards may be lost in
// transit and the ciphertext is still recovered exactly.
package erasure
