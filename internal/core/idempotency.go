package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// ComputeRequestHash fingerprints a request as SHA-256 of its canonical JSON
// body followed by method and path. Object key order does not matter.
func ComputeRequestHash(body []byte, method, path string) string {
	h := sha256.New()
	h.Write(canonicalJSON(body))
	h.Write([]byte(method))
	h.Write([]byte(path))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// canonicalJSON re-encodes body; encoding/json writes map keys sorted.
// Bodies that are not JSON are hashed as is.
func canonicalJSON(body []byte) []byte {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return body
	}
	b, err := json.Marshal(v)
	if err != nil {
		return body
	}
	return b
}
