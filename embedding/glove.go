// Package embedding loads pretrained word vectors and builds vocabularies for sequence models.
package embedding

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrDimension is returned when vectors in one file disagree on their width.
var ErrDimension = errors.New("embedding: inconsistent vector dimension")

// Lookup maps a word to its vector.
type Lookup map[string][]float64

// Dim returns the vector width, or 0 for an empty lookup.
func (l Lookup) Dim() int {
	for _, v := range l {
		return len(v)
	}
	return 0
}

// GloVePath returns the path of the 6B GloVe file of width dim under home.
func GloVePath(home string, dim int) string {
	return filepath.Join(home, fmt.Sprintf("glove.6B.%dd.txt", dim))
}

// LoadGloVe reads a GloVe text file, plain or gzipped, of lines "word v1 ... vd".
func LoadGloVe(path string) (Lookup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "gzip %s", path)
		}
		defer gz.Close()
		src = gz
	}
	return ReadGloVe(src)
}

// ReadGloVe parses GloVe text from r.
func ReadGloVe(r io.Reader) (Lookup, error) {
	lookup := make(Lookup)
	dim := -1
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4<<20)
	var line int
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, errors.Errorf("line %d: word without vector", line)
		}
		vec := make([]float64, len(fields)-1)
		for i, s := range fields[1:] {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			vec[i] = v
		}
		if dim == -1 {
			dim = len(vec)
		} else if dim != len(vec) {
			return nil, errors.Wrapf(ErrDimension, "line %d: got %d, want %d", line, len(vec), dim)
		}
		lookup[fields[0]] = vec
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan glove")
	}
	return lookup, nil
}

// RandVec draws n values uniformly from [lower, upper).
func RandVec(rng *rand.Rand, n int, lower, upper float64) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = lower + rng.Float64()*(upper-lower)
	}
	return v
}
