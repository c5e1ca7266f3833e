package classify

// RevisionLength is the length of an immutable content identifier (a full
// 40-character commit hash).
const RevisionLength = 40

// IsImmutableRevision reports whether s is exactly 40 lowercase hexadecimal
// digits. No trimming or case folding is applied.
func IsImmutableRevision(s string) bool {
	if len(s) != RevisionLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
