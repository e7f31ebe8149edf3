package translit

import "unicode"

// Detected is the script composition of a string.
type Detected string

const (
	// DetectedUnknown means no letters of either script were found.
	DetectedUnknown Detected = "unknown"
	// DetectedLatin means only Latin letters were found.
	DetectedLatin Detected = "latin"
	// DetectedCyrillic means only Cyrillic letters were found.
	DetectedCyrillic Detected = "cyrillic"
	// DetectedMixed means both scripts occur.
	DetectedMixed Detected = "mixed"
)

// DetectScript classifies the letters of s. Non-letters are ignored.
func DetectScript(s string) Detected {
	var latin, cyrillic bool
	for _, r := range s {
		switch {
		case r >= 0x0400 && r <= 0x04FF:
			cyrillic = true
		case r <= unicode.MaxLatin1 && unicode.IsLetter(r):
			latin = true
		}
	}
	switch {
	case latin && cyrillic:
		return DetectedMixed
	case latin:
		return DetectedLatin
	case cyrillic:
		return DetectedCyrillic
	default:
		return DetectedUnknown
	}
}
