package block

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"nipow/utils"
)

// HashSize is the width of every block, body and interlink hash.
const HashSize = 32

// Hash is a blake2b-256 digest.
type Hash [HashSize]byte

var zeroHash Hash

func HashFromHex(s string) (Hash, error) {
	var h Hash
	raw, err := hex.DecodeString(s)
	if err != nil {
		return h, err
	}
	if len(raw) != HashSize {
		return h, fmt.Errorf("invalid hash length %d", len(raw))
	}
	copy(h[:], raw)
	return h, nil
}

func (h Hash) Hex() string {
	return hex.EncodeToString(h[:])
}

// Short returns the abbreviated form used in log lines.
func (h Hash) Short() string {
	return utils.ShortenHash(h.Hex())
}

func (h Hash) IsZero() bool {
	return h == zeroHash
}

func (h Hash) Equal(other Hash) bool {
	return bytes.Equal(h[:], other[:])
}

func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Hex())
}

func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := HashFromHex(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
