package core

import (
	"fmt"
	"strings"
)

// Modality is one capability class a connector can serve.
type Modality string

const (
	// ModalityText is plain text generation.
	ModalityText Modality = "text"
	// ModalityImage is image generation.
	ModalityImage Modality = "image"
	// ModalityVideo is video generation.
	ModalityVideo Modality = "video"
	// ModalityAudio is audio / music generation.
	ModalityAudio Modality = "audio"
	// ModalityMIDI is symbolic music (MIDI) generation.
	ModalityMIDI Modality = "midi"
)

// Modalities lists every known modality in canonical order.
var Modalities = []Modality{ModalityText, ModalityImage, ModalityVideo, ModalityAudio, ModalityMIDI}

// Valid reports whether m is one of the known modalities.
func (m Modality) Valid() bool {
	for _, known := range Modalities {
		if m == known {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (m Modality) String() string { return string(m) }

// ParseModality converts a case-insensitive name into a Modality.
func ParseModality(s string) (Modality, error) {
	m := Modality(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown modality %q", s)
	}
	return m, nil
}
