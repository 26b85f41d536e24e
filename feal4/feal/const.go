package feal

const (
	// BlockSize is the FEAL block size in bytes.
	BlockSize = 8
	// KeySize is the master key size in bytes.
	KeySize = 8
	// Rounds is the number of Feistel rounds.
	Rounds = 4

	halfSize = BlockSize / 2

	// SubkeyWords is the number of 4-byte subkey words derived from one key.
	SubkeyWords = Rounds/2 + 4
	// SubkeySize is the length of a Subkeys value in bytes.
	SubkeySize = SubkeyWords * halfSize

	rotation = 2
)
