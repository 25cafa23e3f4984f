package engine

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// Hex length of a v1 (SHA-1) info hash.
	V1HexLen = 40
	// Hex length of a v2 (SHA-256) info hash.
	V2HexLen = 64
)

// Identity is the canonical lower-case hex form of a job's content hash. It is the key for every per-job cache and
// the stem of the job's resume file name.
type Identity string

// ParseIdentity validates a hex string as either a v1 or a v2 info hash, normalising it to lower case.
func ParseIdentity(s string) (Identity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != V1HexLen && len(s) != V2HexLen {
		return "", fmt.Errorf("%w: %q has length %d", ErrInvalidIdentity, s, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}
	return Identity(s), nil
}

// MustParseIdentity wraps ParseIdentity but panics if there is an error.
func MustParseIdentity(s string) Identity {
	id, err := ParseIdentity(s)
	if err != nil {
		panic(err)
	}
	return id
}

// IdentityFromBytes encodes a raw 20 or 32 byte hash.
func IdentityFromBytes(b []byte) (Identity, error) {
	return ParseIdentity(hex.EncodeToString(b))
}

func (id Identity) String() string {
	return string(id)
}

// IsV2 is true for SHA-256 identities.
func (id Identity) IsV2() bool {
	return len(id) == V2HexLen
}

func (id Identity) Bytes() []byte {
	b, _ := hex.DecodeString(string(id))
	return b
}

// InfoHashes holds every hash variant the engine knows for a job. A job may carry a v1 hash, a v2 hash, or both
// (hybrid); absent variants are empty.
type InfoHashes struct {
	V1 Identity `json:"v1,omitempty"`
	V2 Identity `json:"v2,omitempty"`
}

func (h InfoHashes) HasV1() bool {
	return h.V1 != ""
}

func (h InfoHashes) HasV2() bool {
	return h.V2 != ""
}

// IsZero is true if no hash is known yet.
func (h InfoHashes) IsZero() bool {
	return !h.HasV1() && !h.HasV2()
}

// Best returns the preferred identity: v2 when present, otherwise v1.
func (h InfoHashes) Best() Identity {
	if h.HasV2() {
		return h.V2
	}
	return h.V1
}

// Has reports whether id matches either variant.
func (h InfoHashes) Has(id Identity) bool {
	return id != "" && (h.V1 == id || h.V2 == id)
}
