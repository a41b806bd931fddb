package hash

const (
	offset32 = 2166136261
	prime32  = 16777619
)

// String hashes a feature name with 32-bit FNV-1a.
func String(s string) uint32 {
	var h uint32 = offset32
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime32
	}
	return h
}

// Feature maps a feature name to a column in [0, buckets) and a sign.
// The column and the sign use different salts so that colliding names
// tend to cancel rather than accumulate.
func Feature(name string, salt uint32, buckets uint32) (column uint32, negative bool) {
	n := String(name)
	column = Hash(n, salt, buckets)
	negative = Hash(n, ^salt, 2) == 1
	return
}
