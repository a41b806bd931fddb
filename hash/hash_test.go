package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// performance benchmark
func BenchmarkHash(b *testing.B) {
	n := uint32(0)
	s := uint32(0)
	for i := 0; i < b.N; i++ {
		n = Hash(n, s, 1<<20)
		s++
	}
}

func TestHashRange(t *testing.T) {
	for _, max := range []uint32{1, 2, 3, 97, 1 << 16, 1000003} {
		for n := uint32(0); n < 2000; n++ {
			out := Hash(n*2654435761, n, max)
			assert.Less(t, out, max)
		}
	}
	assert.Equal(t, uint32(0), Hash(12345, 7, 0))
}

func TestHashSpreads(t *testing.T) {
	const buckets = 101
	var counts [buckets]int
	for n := uint32(0); n < 101*200; n++ {
		counts[Hash(n, 0, buckets)]++
	}
	var used int
	for _, c := range counts {
		if c > 0 {
			used++
		}
	}
	assert.Greater(t, used, 90)
}

func TestStringKnownValues(t *testing.T) {
	// reference values of 32-bit FNV-1a
	assert.Equal(t, uint32(0x811c9dc5), String(""))
	assert.Equal(t, uint32(0xe40c292c), String("a"))
	assert.Equal(t, uint32(0xbf9cf968), String("foobar"))
}

func TestFeatureDeterministic(t *testing.T) {
	c1, s1 := Feature("dog|cat", 3, 1009)
	c2, s2 := Feature("dog|cat", 3, 1009)
	assert.Equal(t, c1, c2)
	assert.Equal(t, s1, s2)
	assert.Less(t, c1, uint32(1009))
}

// sanity check fuzz
func FuzzHash(f *testing.F) {
	f.Add(uint32(0), uint32(0), uint32(0))
	f.Fuzz(func(t *testing.T, n, s, max uint32) {
		out := Hash(n, s, max)
		if max == 0 && out != 0 {
			t.Errorf("Hash(%d, %d, 0) == %d (max=0 should be 0)", n, s, out)
		}
		if max > 1 && out >= max {
			t.Errorf("Hash(%d, %d, %d) == %d (output bigger or equal than max)", n, s, max, out)
		}
	})
}
