package driven

// TextDecoder turns raw file bytes into text.
type TextDecoder interface {
	// Decode returns the text and the name of the encoding used.
	// Strict UTF-8 is tried first, then fallback when non-empty.
	Decode(data []byte, fallback string) (text string, encoding string, err error)
}
