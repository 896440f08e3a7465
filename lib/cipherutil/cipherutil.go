// Package cipherutil holds the block decryption primitive used to
// answer the upstream anti-automation challenge.
package cipherutil

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
)

// DecryptHex runs AES-128-CBC over three hex encoded inputs and
// returns the hex encoded plaintext. Padding is left alone, the
// challenge ciphertext is already block aligned. Any malformed input
// (bad hex, wrong key size, ciphertext not a multiple of the block
// size) yields "" rather than an error, callers must treat "" as
// failure and never as a valid empty token.
func DecryptHex(keyHex, ivHex, cipherHex string) string {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return ""
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return ""
	}
	encrypted, err := hex.DecodeString(cipherHex)
	if err != nil {
		return ""
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return ""
	}
	if len(iv) != block.BlockSize() || len(encrypted) == 0 || len(encrypted)%block.BlockSize() != 0 {
		return ""
	}

	decrypted := make([]byte, len(encrypted))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(decrypted, encrypted)
	return hex.EncodeToString(decrypted)
}
