package parsing

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/cloudx-io/adauction/simapi"
)

func TestSealOpenReport(t *testing.T) {
	report := &simapi.RunReport{
		RunID:            "run-1",
		RoundsPlayed:     10,
		TranscriptDigest: "digest",
		Bidders:          []simapi.BidderReport{{Name: "ucb", Strategy: "ucb", FinalBalance: 1.5}},
	}

	sealed, err := SealReport(report)
	assert.NoError(t, err)

	opened, err := OpenReport(sealed)
	assert.NoError(t, err)
	check.Equal(t, "run-1", opened.RunID)
	check.Equal(t, 10, opened.RoundsPlayed)
	check.Equal(t, report.Bidders, opened.Bidders)
}

func TestExtractEnvelopePayload_Invalid(t *testing.T) {
	mustMarshal := func(v any) []byte {
		data, err := cbor.Marshal(v)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return data
	}

	tests := []struct {
		name  string
		input []byte
	}{
		{"not CBOR", []byte{0xff, 0x00}},
		{"wrong length", mustMarshal([]any{uint64(1), "run", []byte("x")})},
		{"wrong version", mustMarshal([]any{uint64(9), "run", []byte("x"), []byte("d")})},
		{"payload not bytes", mustMarshal([]any{uint64(1), "run", "x", []byte("d")})},
		{"digest mismatch", mustMarshal([]any{uint64(1), "run", []byte("x"), []byte("d")})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := ExtractEnvelopePayload(tt.input)
			check.Equal(t, 0, len(payload))
			check.Error(t, err)
		})
	}
}

func TestOpenReport_TamperedPayload(t *testing.T) {
	sealed, err := SealReport(&simapi.RunReport{RunID: "run-2", RoundsPlayed: 3})
	assert.NoError(t, err)

	var envelope []any
	assert.NoError(t, cbor.Unmarshal(sealed, &envelope))
	payload := envelope[2].([]byte)
	payload[len(payload)-1] ^= 0x01

	tampered, err := cbor.Marshal(envelope)
	assert.NoError(t, err)

	_, err = OpenReport(tampered)
	check.Error(t, err)
}
