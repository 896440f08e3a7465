package cipherutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	knownKey    = "0f1571c947d9e8590cb7add6af7f6798"
	knownIv     = "5d41402abc4b2a76b9719d911017c592"
	knownCipher = "59ade292f8a87e0036d79ca782f6d0d8"
	knownPlain  = "99aabbccddeeff001122334455667788"
)

func TestDecryptHex(t *testing.T) {
	require.Equal(t, knownPlain, DecryptHex(knownKey, knownIv, knownCipher))
}

func TestDecryptHexMalformedInput(t *testing.T) {
	testCases := []struct {
		name   string
		key    string
		iv     string
		cipher string
	}{
		{name: "bad hex in key", key: "zz", iv: knownIv, cipher: knownCipher},
		{name: "bad hex in iv", key: knownKey, iv: "not-hex", cipher: knownCipher},
		{name: "bad hex in ciphertext", key: knownKey, iv: knownIv, cipher: "0qrs"},
		{name: "wrong key size", key: "0f1571", iv: knownIv, cipher: knownCipher},
		{name: "short iv", key: knownKey, iv: "5d41402a", cipher: knownCipher},
		{name: "ciphertext not block aligned", key: knownKey, iv: knownIv, cipher: "59ade292f8"},
		{name: "empty ciphertext", key: knownKey, iv: knownIv, cipher: ""},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			require.Empty(t, DecryptHex(test.key, test.iv, test.cipher))
		})
	}
}
