package qrtoken

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignFormat(t *testing.T) {
	codec := NewCodec("test-secret")

	token := codec.Sign("2023001")

	identifier, signature, found := strings.Cut(token, Separator)
	require.True(t, found)
	require.Equal(t, "2023001", identifier)
	require.Len(t, signature, SignatureLength)
	require.Equal(t, strings.ToLower(signature), signature)
}

func TestVerifyRoundTrip(t *testing.T) {
	codec := NewCodec("test-secret")

	for _, identifier := range []string{"2023001", "CC-1034567", "A"} {
		token := codec.Sign(identifier)

		got, ok := codec.Verify(token)
		require.True(t, ok, "token %q should verify", token)
		require.Equal(t, identifier, got)
	}
}

func TestVerifyMalformed(t *testing.T) {
	codec := NewCodec("test-secret")

	cases := []string{
		"",
		"2023001",
		".",
		"2023001.",
		".abcdef0123456789",
		"2023001.short",
		"2023001.toolongtoolongtoolong",
		"2023001 f8a9b2c1d4e5f6a7",
	}
	for _, token := range cases {
		got, ok := codec.Verify(token)
		require.False(t, ok, "token %q must not verify", token)
		require.Empty(t, got)
	}
}

func TestVerifyRejectsForgedSignatures(t *testing.T) {
	codec := NewCodec("test-secret")
	token := codec.Sign("2023001")

	identifier, signature, _ := strings.Cut(token, Separator)
	for i := 0; i < len(signature); i++ {
		forged := []byte(signature)
		if forged[i] == 'f' {
			forged[i] = '0'
		} else {
			forged[i]++
		}

		_, ok := codec.Verify(identifier + Separator + string(forged))
		require.False(t, ok, "flipping signature byte %d must fail", i)
	}
}

func TestVerifyDifferentSecret(t *testing.T) {
	token := NewCodec("secret-a").Sign("2023001")

	_, ok := NewCodec("secret-b").Verify(token)
	require.False(t, ok)
}
