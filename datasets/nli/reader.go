package nli

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoData is returned by ReadAll when sampling and filtering left nothing.
var ErrNoData = errors.New("nli: no examples read")

const maxLine = 16 << 20

// Reader streams examples from one JSONL file.
type Reader struct {
	Path string

	// SampPercentage keeps each line with this probability. Zero, or any
	// value of at least 1, keeps every line.
	SampPercentage float64

	// RandomState seeds the sampling so reads are reproducible.
	RandomState int64

	// FilterUnlabeled skips pairs with gold label "-".
	FilterUnlabeled bool
}

// Option configures a Reader.
type Option func(*Reader)

// WithSampPercentage sets the sampling probability.
func WithSampPercentage(p float64) Option {
	return func(r *Reader) { r.SampPercentage = p }
}

// WithRandomState sets the sampling seed.
func WithRandomState(seed int64) Option {
	return func(r *Reader) { r.RandomState = seed }
}

// WithFilterUnlabeled toggles skipping of unlabeled pairs.
func WithFilterUnlabeled(filter bool) Option {
	return func(r *Reader) { r.FilterUnlabeled = filter }
}

// NewReader creates a reader over path. Unlabeled pairs are filtered by default.
func NewReader(path string, opts ...Option) *Reader {
	r := &Reader{Path: path, FilterUnlabeled: true}
	for _, o := range opts {
		o(r)
	}
	return r
}

// String names the file read.
func (r *Reader) String() string {
	return filepath.Base(r.Path)
}

// Read calls yield for every sampled, parsed example in file order.
// An error returned by yield stops the read and is returned unchanged.
func (r *Reader) Read(ctx context.Context, yield func(*Example) error) error {
	path, err := resolve(r.Path)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "gzip %s", path)
		}
		defer gz.Close()
		src = gz
	}

	rng := rand.New(rand.NewSource(r.RandomState))
	sample := r.SampPercentage > 0 && r.SampPercentage < 1

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 64*1024), maxLine)
	var line int
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return err
		}
		if sample && rng.Float64() > r.SampPercentage {
			continue
		}
		raw := scanner.Bytes()
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}
		var ex Example
		if err := json.Unmarshal(raw, &ex); err != nil {
			return errors.Wrapf(err, "%s:%d", path, line)
		}
		if r.FilterUnlabeled && ex.GoldLabel == Unlabeled {
			continue
		}
		if err := ex.parse(); err != nil {
			return errors.Wrapf(err, "%s:%d", path, line)
		}
		if err := yield(&ex); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}
	return nil
}

// ReadAll collects every example Read would yield.
func (r *Reader) ReadAll(ctx context.Context) ([]*Example, error) {
	var out []*Example
	err := r.Read(ctx, func(ex *Example) error {
		out = append(out, ex)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.Wrap(ErrNoData, r.Path)
	}
	return out, nil
}

// resolve finds path or its gzipped sibling.
func resolve(path string) (string, error) {
	candidates := []string{path}
	if strings.HasSuffix(path, ".gz") {
		candidates = append(candidates, strings.TrimSuffix(path, ".gz"))
	} else {
		candidates = append(candidates, path+".gz")
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", errors.Wrapf(os.ErrNotExist, "dataset file %s", path)
}
