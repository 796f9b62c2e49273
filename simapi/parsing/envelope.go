package parsing

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/cloudx-io/adauction/simapi"
)

// EnvelopeVersion is the current report envelope layout.
const EnvelopeVersion = 1

// SealReport wraps a CBOR report in a 4-element envelope
// [version, run_id, payload, payload_sha256] so that a stored report can be
// checked for corruption before it is replayed.
func SealReport(r *simapi.RunReport) ([]byte, error) {
	payload, err := simapi.EncodeCBOR(r)
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256(payload)

	envelope := []any{
		uint64(EnvelopeVersion),
		r.RunID,
		payload,
		digest[:],
	}
	data, err := cbor.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return data, nil
}

// ExtractEnvelopePayload extracts the payload from a 4-element envelope
// after verifying its version and digest.
func ExtractEnvelopePayload(envelopeBytes []byte) ([]byte, error) {
	var envelope []any
	err := cbor.Unmarshal(envelopeBytes, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parse envelope array: %w", err)
	}

	if len(envelope) != 4 {
		return nil, fmt.Errorf("invalid envelope structure: expected 4 elements, got %d", len(envelope))
	}

	version, ok := envelope[0].(uint64)
	if !ok || version != EnvelopeVersion {
		return nil, fmt.Errorf("unsupported envelope version %v", envelope[0])
	}

	payload, ok := envelope[2].([]byte)
	if !ok {
		return nil, fmt.Errorf("invalid payload in envelope")
	}

	digest, ok := envelope[3].([]byte)
	if !ok {
		return nil, fmt.Errorf("invalid digest in envelope")
	}
	if computed := sha256.Sum256(payload); !bytes.Equal(computed[:], digest) {
		return nil, fmt.Errorf("envelope digest mismatch: computed %x, envelope %x", computed, digest)
	}

	return payload, nil
}

// OpenReport verifies an envelope and decodes the report inside it.
func OpenReport(envelopeBytes []byte) (*simapi.RunReport, error) {
	payload, err := ExtractEnvelopePayload(envelopeBytes)
	if err != nil {
		return nil, err
	}
	return simapi.DecodeCBOR(payload)
}
