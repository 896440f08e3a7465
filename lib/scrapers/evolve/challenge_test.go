package evolve

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	challengeKey    = "0f1571c947d9e8590cb7add6af7f6798"
	challengeIv     = "5d41402abc4b2a76b9719d911017c592"
	challengeCipher = "59ade292f8a87e0036d79ca782f6d0d8"
	challengeToken  = "99aabbccddeeff001122334455667788"
)

func challengePage(tokens ...string) string {
	page := `<!DOCTYPE html><html><head><script src="/aes.min.js"></script></head><body><script>var a=toNumbers(%s),b=toNumbers(%s),c=toNumbers(%s);slowAES.decrypt(c,2,a,b);</script></body></html>`
	quoted := make([]any, 3)
	for i := range quoted {
		quoted[i] = `""`
		if i < len(tokens) {
			quoted[i] = fmt.Sprintf("%q", tokens[i])
		}
	}
	return fmt.Sprintf(page, quoted...)
}

func TestIsChallenge(t *testing.T) {
	testCases := []struct {
		name      string
		body      string
		challenge bool
	}{
		{name: "full page marker", body: "<!DOCTYPE html><html></html>", challenge: true},
		{name: "script loader slowAES", body: "var x = slowAES.decrypt(c,2,a,b);", challenge: true},
		{name: "script loader aes.min.js", body: `<script src="/aes.min.js"></script>`, challenge: true},
		{name: "json payload", body: `{"success":true,"content":[]}`, challenge: false},
		{name: "structured failure", body: `{"success":false}`, challenge: false},
		{name: "empty body", body: "", challenge: false},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.challenge, IsChallenge(test.body))
		})
	}
}

func TestExtractToken(t *testing.T) {
	body := challengePage(challengeKey, challengeIv, challengeCipher)
	require.Equal(t, challengeToken, ExtractToken(body))
}

func TestExtractTokenTooFewMatches(t *testing.T) {
	require.Empty(t, ExtractToken(challengePage()))
	require.Empty(t, ExtractToken(challengePage(challengeKey)))
	require.Empty(t, ExtractToken(challengePage(challengeKey, challengeIv)))
}

func TestExtractTokenIgnoresShortHex(t *testing.T) {
	// quoted hex shorter than 32 characters must not count toward the
	// triplet
	body := challengePage("0f1571c947d9e859", challengeIv, challengeCipher)
	require.Empty(t, ExtractToken(body))
}

func TestPatchSessionCookie(t *testing.T) {
	cookies := "PHPSESSID=abc123; theme=dark"

	patched := PatchSessionCookie(cookies, challengeToken)
	require.Equal(t, "PHPSESSID=abc123; theme=dark; R3ACTLB="+challengeToken, patched)

	// patching again with the same token keeps exactly one token field
	again := PatchSessionCookie(patched, challengeToken)
	require.Equal(t, patched, again)
}

func TestPatchSessionCookieReplacesOldToken(t *testing.T) {
	cookies := "R3ACTLB=stale; PHPSESSID=abc123"
	patched := PatchSessionCookie(cookies, challengeToken)
	require.Equal(t, "PHPSESSID=abc123; R3ACTLB="+challengeToken, patched)
}
