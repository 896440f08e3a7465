package evolve

import (
	"regexp"
	"strings"

	"evowatch-backend/lib/cipherutil"
)

// sessionTokenCookie is the cookie field the anti-automation layer
// checks. Its value is the AES decryption of the triplet embedded in
// the challenge page.
const sessionTokenCookie = "R3ACTLB"

var tokenTripletRegex = regexp.MustCompile(`"([0-9a-f]{32})"`)

// IsChallenge reports whether a response body is the anti-automation
// interstitial rather than the expected JSON payload. A structured
// but unsuccessful reply is not a challenge and must not trigger
// recovery, so only full-page and script-loader fingerprints count.
func IsChallenge(body string) bool {
	return strings.Contains(body, "<!DOCTYPE html>") ||
		strings.Contains(body, "slowAES") ||
		strings.Contains(body, "aes.min.js")
}

// ExtractToken pulls the key/iv/ciphertext triplet out of a challenge
// page and returns the decrypted session token. The page embeds the
// three values as quoted 32 character hex strings in document order.
// Returns "" when fewer than three are present or decryption fails.
func ExtractToken(body string) string {
	matches := tokenTripletRegex.FindAllStringSubmatch(body, 3)
	if len(matches) < 3 {
		return ""
	}
	return cipherutil.DecryptHex(matches[0][1], matches[1][1], matches[2][1])
}

// PatchSessionCookie replaces the session token field of a cookie
// string. Every existing R3ACTLB field is dropped and the new one is
// appended last, so patching twice with the same token is a no-op and
// the field order stays deterministic.
func PatchSessionCookie(cookies, token string) string {
	var kept []string
	for _, part := range strings.Split(cookies, "; ") {
		if part == "" || strings.HasPrefix(part, sessionTokenCookie+"=") {
			continue
		}
		kept = append(kept, part)
	}
	kept = append(kept, sessionTokenCookie+"="+token)
	return strings.Join(kept, "; ")
}
