package clips

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// DomainClip separates clip content hashes from any other hash space.
const DomainClip = "toerig/clip/v1"

// ContentHash computes a stable identity for a clip's content.
// Format: SHA256(domain + 0x00 + canonical JSON)
//
// Names and paths are NFC normalized so visually identical bone names hash
// the same regardless of how the host encoded them.
func ContentHash(c *Clip) (string, error) {
	data, err := MarshalCanonical(c)
	if err != nil {
		return "", fmt.Errorf("ContentHash: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(DomainClip))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// MarshalCanonical produces the serialization used for hashing and
// storage: struct field order, no HTML escaping, NFC strings.
func MarshalCanonical(c *Clip) ([]byte, error) {
	normalized := Clip{
		Name:      norm.NFC.String(c.Name),
		FrameRate: c.FrameRate,
		WrapMode:  c.WrapMode,
		Curves:    make([]Curve, len(c.Curves)),
	}
	for i, curve := range c.Curves {
		normalized.Curves[i] = Curve{
			Path:     norm.NFC.String(curve.Path),
			Property: curve.Property,
			Keys:     curve.Keys,
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}
	// Encode appends a newline
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
