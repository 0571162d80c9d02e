package kvutil

// NextPrefix returns the smallest key lexicographically larger than every key
// holding the given prefix - callers use it as an exclusive range end. A nil
// result means no upper bound exists (the prefix is all 0xff).
func NextPrefix(prefix []byte) []byte {
	next := make([]byte, len(prefix))
	copy(next, prefix)
	for i := len(next) - 1; i >= 0; i-- {
		next[i]++
		if next[i] != 0 {
			return next[:i+1]
		}
	}
	return nil
}
