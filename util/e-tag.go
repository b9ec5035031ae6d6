package util

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// GenerateETag returns a quoted strong entity tag for content.
// []byte and string are hashed as is, anything else as its JSON encoding.
func GenerateETag(content any) string {
	var data []byte
	var err error

	switch v := content.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		data, err = json.Marshal(content)
		if err != nil {
			data = fmt.Appendf(nil, "%v", content)
		}
	}

	hash := sha1.Sum(data)
	return `"` + hex.EncodeToString(hash[:]) + `"`
}

// ETagMatches reports whether an If-None-Match header value matches etag,
// using weak comparison.
func ETagMatches(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	if strings.TrimSpace(ifNoneMatch) == "*" {
		return true
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		if strings.TrimPrefix(strings.TrimSpace(candidate), "W/") == want {
			return true
		}
	}
	return false
}
