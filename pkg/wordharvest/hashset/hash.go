package hashset

// seed is the djb2 starting value.
const seed uint64 = 5381

// Hash returns the XOR variant of djb2 for s: hash(i) = hash(i-1)*33 ^ s[i].
// Arithmetic wraps at 64 bits, so results are stable across runs and hosts.
func Hash(s string) uint64 {
	h := seed
	for i := 0; i < len(s); i++ {
		h = ((h << 5) + h) ^ uint64(s[i])
	}
	return h
}
