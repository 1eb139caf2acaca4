package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/toerig/internal/animator"
	"github.com/roach88/toerig/internal/clips"
)

// marshalJSON converts v to JSON TEXT with HTML escaping disabled so bone
// paths and names are stored as written.
func marshalJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	// Encoder adds a trailing newline, remove it
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

func marshalController(c *animator.Controller) (string, error) {
	s, err := marshalJSON(c)
	if err != nil {
		return "", fmt.Errorf("marshal controller %q: %w", c.Name, err)
	}
	return s, nil
}

func unmarshalController(body string) (*animator.Controller, error) {
	return animator.Decode([]byte(body))
}

func marshalClip(c *clips.Clip) (string, error) {
	data, err := clips.MarshalCanonical(c)
	if err != nil {
		return "", fmt.Errorf("marshal clip %q: %w", c.Name, err)
	}
	return string(data), nil
}

func unmarshalClip(body string) (*clips.Clip, error) {
	var c clips.Clip
	if err := json.Unmarshal([]byte(body), &c); err != nil {
		return nil, fmt.Errorf("unmarshal clip: %w", err)
	}
	return &c, nil
}
