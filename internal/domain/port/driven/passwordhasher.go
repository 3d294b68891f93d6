package driven

// PasswordHasher defines the driven port for credential digests. Hash
// produces an opaque digest; Verify checks a candidate secret against a
// stored digest. Both may be slow (key stretching) and must be called
// outside the store's critical section.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(digest, secret string) (bool, error)
}
