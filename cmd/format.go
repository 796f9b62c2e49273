package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/cloudx-io/adauction/simapi"
	"github.com/cloudx-io/adauction/simapi/parsing"
)

// formatEnvelope is the digest-checked CBOR envelope; it is handled here
// rather than in simapi because it lives in the parsing package.
const formatEnvelope = "envelope"

const formatNames = "json, cbor, yaml, compact, envelope"

// checkFormat rejects a format name that neither encodeReport nor
// decodeReport accepts.
func checkFormat(name string) error {
	if strings.EqualFold(strings.TrimSpace(name), formatEnvelope) {
		return nil
	}
	if _, err := simapi.ParseFormat(name); err != nil {
		return fmt.Errorf("%w; also accepted: %s", err, formatEnvelope)
	}
	return nil
}

func encodeReport(r *simapi.RunReport, name string) ([]byte, error) {
	if strings.EqualFold(strings.TrimSpace(name), formatEnvelope) {
		return parsing.SealReport(r)
	}
	f, err := simapi.ParseFormat(name)
	if err != nil {
		return nil, fmt.Errorf("%w; also accepted: %s", err, formatEnvelope)
	}
	return simapi.Encode(r, f)
}

func decodeReport(data []byte, name string) (*simapi.RunReport, error) {
	if strings.EqualFold(strings.TrimSpace(name), formatEnvelope) {
		return parsing.OpenReport(data)
	}
	f, err := simapi.ParseFormat(name)
	if err != nil {
		return nil, fmt.Errorf("%w; also accepted: %s", err, formatEnvelope)
	}
	return simapi.Decode(data, f)
}

// formatFromPath guesses a report format from a file extension, falling
// back to JSON.
func formatFromPath(path string) string {
	switch {
	case strings.HasSuffix(path, ".cbor"):
		return string(simapi.FormatCBOR)
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return string(simapi.FormatYAML)
	case strings.HasSuffix(path, ".b64"), strings.HasSuffix(path, ".compact"):
		return string(simapi.FormatCompact)
	case strings.HasSuffix(path, ".env"), strings.HasSuffix(path, ".envelope"):
		return formatEnvelope
	default:
		return string(simapi.FormatJSON)
	}
}

func writeOutput(path string, data []byte, stdout func([]byte) error) error {
	if path == "" {
		return stdout(data)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
