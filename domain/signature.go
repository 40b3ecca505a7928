package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// RandomToken is the wire value that requests a random signature.
const RandomToken = "random"

// SignatureKind tags a Signature directive.
type SignatureKind int

const (
	SignatureNone SignatureKind = iota
	SignatureRandom
	SignaturePath
)

// Signature says which image, if any, goes into a signature slot.
// The zero value is "no signature".
type Signature struct {
	kind SignatureKind
	path string
}

// NoSignature leaves the slot blank.
func NoSignature() Signature { return Signature{} }

// RandomSignature picks any image from the slot's directory.
func RandomSignature() Signature { return Signature{kind: SignatureRandom} }

// SignatureAt uses the image at path.
func SignatureAt(path string) Signature {
	if strings.TrimSpace(path) == "" {
		return Signature{}
	}
	return Signature{kind: SignaturePath, path: path}
}

// ParseSignature decodes the wire form: empty is none, "random" is random,
// anything else is a path.
func ParseSignature(s string) Signature {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return NoSignature()
	case strings.EqualFold(s, RandomToken):
		return RandomSignature()
	default:
		return SignatureAt(s)
	}
}

func (s Signature) Kind() SignatureKind { return s.kind }

// Path is set only for SignaturePath directives.
func (s Signature) Path() string { return s.path }

func (s Signature) String() string {
	switch s.kind {
	case SignatureRandom:
		return RandomToken
	case SignaturePath:
		return s.path
	}
	return ""
}

func (s *Signature) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte("false")) {
		*s = NoSignature()
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = ParseSignature(raw)
	return nil
}

func (s Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Slot names a signature position; each slot has its own image directory.
type Slot string

const (
	Sig1 Slot = "sig1"
	Sig2 Slot = "sig2"
)

// Slots lists every signature slot in display order.
func Slots() []Slot {
	return []Slot{Sig1, Sig2}
}
