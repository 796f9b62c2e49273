package simapi

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Format is a serialisation format for run reports.
type Format string

const (
	FormatJSON    Format = "json"
	FormatCBOR    Format = "cbor"
	FormatYAML    Format = "yaml"
	FormatCompact Format = "compact" // gzipped CBOR, URL-safe base64
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatCBOR, FormatYAML, FormatCompact}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown report format %q (want one of json, cbor, yaml, compact)", s)
}

var cborEncMode = func() cbor.EncMode {
	opts := cbor.CanonicalEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	em, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("simapi: invalid CBOR options: %v", err))
	}
	return em
}()

// EncodeCBOR encodes a report as canonical CBOR.
func EncodeCBOR(r *RunReport) ([]byte, error) {
	data, err := cborEncMode.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode CBOR report: %w", err)
	}
	return data, nil
}

// DecodeCBOR decodes a CBOR report.
func DecodeCBOR(data []byte) (*RunReport, error) {
	var r RunReport
	if err := cbor.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode CBOR report: %w", err)
	}
	return &r, nil
}

// CompactReport is a gzipped CBOR report in URL-safe base64 without padding.
type CompactReport string

func (c CompactReport) String() string { return string(c) }

// CompressReport encodes r in its compact form.
func CompressReport(r *RunReport) (CompactReport, error) {
	data, err := EncodeCBOR(r)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return "", fmt.Errorf("gzip report: %w", err)
	}
	if err := gz.Close(); err != nil {
		return "", fmt.Errorf("gzip report: %w", err)
	}

	return CompactReport(base64.RawURLEncoding.EncodeToString(buf.Bytes())), nil
}

// Decompress decodes a compact report.
func (c CompactReport) Decompress() (*RunReport, error) {
	compressed, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(string(c)))
	if err != nil {
		return nil, fmt.Errorf("decode base64 report: %w", err)
	}

	gz, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("open gzip report: %w", err)
	}
	defer func() { _ = gz.Close() }()

	data, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("read gzip report: %w", err)
	}
	return DecodeCBOR(data)
}

// Encode serialises r in format f.
func Encode(r *RunReport, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode JSON report: %w", err)
		}
		return append(data, '\n'), nil
	case FormatCBOR:
		return EncodeCBOR(r)
	case FormatYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("encode YAML report: %w", err)
		}
		return data, nil
	case FormatCompact:
		compact, err := CompressReport(r)
		if err != nil {
			return nil, err
		}
		return []byte(compact.String() + "\n"), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", f)
	}
}

// Decode parses a report serialised in format f.
func Decode(data []byte, f Format) (*RunReport, error) {
	switch f {
	case FormatJSON:
		var r RunReport
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("decode JSON report: %w", err)
		}
		return &r, nil
	case FormatCBOR:
		return DecodeCBOR(data)
	case FormatYAML:
		var r RunReport
		if err := yaml.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("decode YAML report: %w", err)
		}
		return &r, nil
	case FormatCompact:
		return CompactReport(data).Decompress()
	default:
		return nil, fmt.Errorf("unknown report format %q", f)
	}
}
