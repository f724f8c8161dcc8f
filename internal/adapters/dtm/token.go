package dtm

import "strings"

const tokenAttrOpen = `content="`

// extractToken scans served HTML for the anti-forgery token: the csrf-token
// marker, then the content attribute opening right after it, then everything
// up to the closing quote. A substring scan on purpose: the remote markup is
// unstable and a full parser would still depend on the exact attribute
// layout. Failure returns ("", false) and the caller keeps its prior token.
func extractToken(html string) (string, bool) {
	i := strings.Index(html, markerToken)
	if i < 0 {
		return "", false
	}

	rest := html[i+len(markerToken):]
	j := strings.Index(rest, tokenAttrOpen)
	if j < 0 {
		return "", false
	}

	rest = rest[j+len(tokenAttrOpen):]
	k := strings.IndexByte(rest, '"')
	if k < 0 {
		return "", false
	}

	token := rest[:k]
	if token == "" {
		return "", false
	}
	return token, true
}
