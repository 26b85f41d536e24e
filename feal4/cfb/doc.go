// Package cfb provides Cipher Feedback mode over the FEAL-4 block cipher.
//
// The feedback register is one block wide. Each segment of 1 to 8 bytes is XORed with the
// leading bytes of the encrypted register, and the resulting ciphertext segment is shifted into
// the register. Decryption uses the same forward block transform, so the block cipher inverse is
// never needed.
//
// A Stream carries mutable register state and must not be shared between goroutines.
package cfb
