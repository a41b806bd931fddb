// Package persist stores trained models as lzw-compressed JSON.
package persist

import (
	"compress/lzw"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

// ErrKind is returned when a file holds a different model kind than requested.
var ErrKind = errors.New("persist: unexpected model kind")

// Header identifies what a model file contains.
type Header struct {
	Kind  string `json:"kind"`
	RunID string `json:"run_id"`
}

type envelope struct {
	Header
	Payload json.RawMessage `json:"payload"`
}

// Write encodes v under kind to w.
func Write(w io.Writer, kind, runID string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "marshal %s", kind)
	}
	lw := lzw.NewWriter(w, lzw.LSB, 8)
	if err := json.NewEncoder(lw).Encode(envelope{Header{kind, runID}, payload}); err != nil {
		lw.Close()
		return errors.Wrap(err, "write model")
	}
	return lw.Close()
}

// Read decodes a model of the given kind from r into v.
func Read(r io.Reader, kind string, v interface{}) (Header, error) {
	env, err := readEnvelope(r)
	if err != nil {
		return Header{}, err
	}
	if env.Kind != kind {
		return env.Header, errors.Wrapf(ErrKind, "got %q, want %q", env.Kind, kind)
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return env.Header, errors.Wrapf(err, "unmarshal %s", kind)
	}
	return env.Header, nil
}

func readEnvelope(r io.Reader) (*envelope, error) {
	lr := lzw.NewReader(r, lzw.LSB, 8)
	defer lr.Close()
	var env envelope
	if err := json.NewDecoder(lr).Decode(&env); err != nil {
		return nil, errors.Wrap(err, "read model")
	}
	return &env, nil
}

// WriteFile writes a model file.
func WriteFile(name, kind, runID string, v interface{}) error {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrapf(err, "create %s", name)
	}
	err = Write(f, kind, runID, v)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadFile reads a model file of the given kind into v.
func ReadFile(name, kind string, v interface{}) (Header, error) {
	f, err := os.Open(name)
	if err != nil {
		return Header{}, errors.Wrapf(err, "open %s", name)
	}
	defer f.Close()
	return Read(f, kind, v)
}

// Peek returns the header of a model file.
func Peek(name string) (Header, error) {
	f, err := os.Open(name)
	if err != nil {
		return Header{}, errors.Wrapf(err, "open %s", name)
	}
	defer f.Close()
	env, err := readEnvelope(f)
	if err != nil {
		return Header{}, err
	}
	return env.Header, nil
}
