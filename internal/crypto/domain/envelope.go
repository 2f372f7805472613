package domain

import (
	"encoding/base64"
	"strings"

	"github.com/allisson/qrseal/internal/errors"
)

// Envelope is the self-contained artifact produced by sealing a payload.
//
// Its binary form is the fixed layout nonce(12) || ciphertext(N) || tag(16)
// with no version byte and no length prefixes; the ciphertext length is
// implied by the total length. Its text form is standard padded base64 of
// the binary form, which is what gets rendered into a scannable code:
//
//	base64( nonce[12] || ciphertext[N] || tag[16] )
//
// N equals the plaintext length. An Envelope is never mutated once built.
type Envelope struct {
	Nonce      []byte
	Ciphertext []byte
	Tag        []byte
}

// ParseEnvelope splits raw envelope bytes at their fixed offsets.
//
// The returned Envelope shares memory with data. Returns ErrMalformedEnvelope
// if data is shorter than MinEnvelopeSize.
func ParseEnvelope(data []byte) (Envelope, error) {
	if len(data) < MinEnvelopeSize {
		return Envelope{}, errors.Wrapf(
			ErrMalformedEnvelope,
			"expected at least %d bytes, got %d",
			MinEnvelopeSize,
			len(data),
		)
	}

	tagStart := len(data) - TagSize
	return Envelope{
		Nonce:      data[:NonceSize],
		Ciphertext: data[NonceSize:tagStart],
		Tag:        data[tagStart:],
	}, nil
}

// ParseEnvelopeText decodes the transport text form of an envelope.
//
// Standard padded base64 is what encoders emit, but unpadded and URL-safe
// variants are accepted too because some scanners and URL carriers rewrite
// the text. Surrounding whitespace is ignored.
func ParseEnvelopeText(text string) (Envelope, error) {
	data, err := decodeBase64(strings.TrimSpace(text))
	if err != nil {
		return Envelope{}, errors.Wrap(ErrMalformedEnvelope, "invalid base64")
	}
	return ParseEnvelope(data)
}

// Bytes returns the binary form nonce || ciphertext || tag in a new slice.
func (e Envelope) Bytes() []byte {
	out := make([]byte, 0, len(e.Nonce)+len(e.Ciphertext)+len(e.Tag))
	out = append(out, e.Nonce...)
	out = append(out, e.Ciphertext...)
	out = append(out, e.Tag...)
	return out
}

// String returns the transport text form (standard padded base64).
func (e Envelope) String() string {
	return base64.StdEncoding.EncodeToString(e.Bytes())
}

// Len returns the size of the binary form in bytes.
func (e Envelope) Len() int {
	return len(e.Nonce) + len(e.Ciphertext) + len(e.Tag)
}

func decodeBase64(s string) ([]byte, error) {
	if s == "" {
		return nil, errors.New("empty input")
	}

	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}

	var lastErr error
	for _, enc := range encodings {
		data, err := enc.DecodeString(s)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
