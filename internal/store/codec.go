// ABOUTME: Self-describing encodings for the stored note collection.
// ABOUTME: Wraps notes in a versioned envelope with an xxhash checksum.

package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/fxamacker/cbor/v2"
)

// FormatVersion is the envelope version written by this build.
const FormatVersion = 1

type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error

	// wrap and unwrap move the already encoded notes payload in and out of the
	// envelope without re-encoding it, so the checksum covers stored bytes.
	wrap(version int, sum string, payload []byte) any
	unwrap(data []byte) (version int, sum string, payload []byte, err error)
	// canonical returns the bytes the checksum is computed over.
	canonical(payload []byte) ([]byte, error)
}

type jsonCodec struct{}

type jsonEnvelope struct {
	Version  int             `json:"version"`
	Checksum string          `json:"checksum"`
	Notes    json.RawMessage `json:"notes"`
}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) wrap(version int, sum string, payload []byte) any {
	return jsonEnvelope{Version: version, Checksum: sum, Notes: payload}
}

func (jsonCodec) unwrap(data []byte) (int, string, []byte, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return 0, "", nil, err
	}
	return env.Version, env.Checksum, env.Notes, nil
}

// canonical compacts the payload; indentation of the envelope is not part of
// the content.
func (jsonCodec) canonical(payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type cborCodec struct{}

type cborEnvelope struct {
	Version  int             `cbor:"version"`
	Checksum string          `cbor:"checksum"`
	Notes    cbor.RawMessage `cbor:"notes"`
}

// cborDec keeps text strings byte for byte, invalid UTF-8 included, so any
// string that was encoded decodes back unchanged.
var cborDec = mustDecMode(cbor.DecOptions{UTF8: cbor.UTF8DecodeInvalid})

func mustDecMode(opts cbor.DecOptions) cbor.DecMode {
	dm, err := opts.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}

func (cborCodec) Name() string { return "cbor" }

func (cborCodec) Marshal(v any) ([]byte, error) { return cbor.Marshal(v) }

func (cborCodec) Unmarshal(data []byte, v any) error { return cborDec.Unmarshal(data, v) }

func (cborCodec) wrap(version int, sum string, payload []byte) any {
	return cborEnvelope{Version: version, Checksum: sum, Notes: payload}
}

func (cborCodec) unwrap(data []byte) (int, string, []byte, error) {
	var env cborEnvelope
	if err := cborDec.Unmarshal(data, &env); err != nil {
		return 0, "", nil, err
	}
	return env.Version, env.Checksum, env.Notes, nil
}

func (cborCodec) canonical(payload []byte) ([]byte, error) { return payload, nil }

var (
	JSON Codec = jsonCodec{}
	CBOR Codec = cborCodec{}
)

// CodecByName returns the codec registered under name; empty means JSON.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSON, nil
	case "cbor":
		return CBOR, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

func checksum(c Codec, payload []byte) (string, error) {
	canon, err := c.canonical(payload)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(canon)), nil
}

func encodeEnvelope(c Codec, recs []record) ([]byte, error) {
	if recs == nil {
		recs = []record{}
	}
	payload, err := c.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("encode notes: %w", err)
	}
	sum, err := checksum(c, payload)
	if err != nil {
		return nil, fmt.Errorf("encode notes: %w", err)
	}
	data, err := c.Marshal(c.wrap(FormatVersion, sum, payload))
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return data, nil
}

// decodeEnvelope verifies the checksum over the stored payload before
// decoding any note.
func decodeEnvelope(c Codec, data []byte) ([]record, error) {
	version, stored, payload, err := c.unwrap(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.Name(), err)
	}
	if version < 1 || version > FormatVersion {
		return nil, fmt.Errorf("unsupported format version %d", version)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("decode %s: missing notes", c.Name())
	}
	sum, err := checksum(c, payload)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.Name(), err)
	}
	if sum != stored {
		return nil, fmt.Errorf("checksum mismatch: stored %s, computed %s", stored, sum)
	}

	var recs []record
	if err := c.Unmarshal(payload, &recs); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	if recs == nil {
		recs = []record{}
	}
	return recs, nil
}
