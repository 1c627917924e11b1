package cache

import (
	"bytes"
	"crypto/md5" //nolint:gosec // key derivation, not security
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// GenerateHash returns the MD5 hex digest of v's canonical JSON form. Object
// keys are sorted at every level, so two values that differ only in key order
// hash the same. Numbers keep their literal text.
func GenerateHash(v any) string {
	canonical, err := canonicalJSON(v)
	if err != nil {
		// Unserializable input still needs a stable key.
		canonical = []byte(fmt.Sprintf("%#v", v))
	}
	sum := md5.Sum(canonical) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

func canonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}
	// encoding/json writes map keys in sorted order.
	return json.Marshal(generic)
}
