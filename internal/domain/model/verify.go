package model

// Credential verification failure reasons. Verification reports violated
// preconditions as data rather than errors so callers can show all of them
// at once.
const (
	VerifyBlankName     = "name must not be blank"
	VerifyBlankPassword = "password must not be blank"
	VerifyNoSuchAccount = "account does not exist"
	VerifyWrongPassword = "wrong password"
)

// VerifyResult enumerates every failed precondition of a credential check.
// An empty Failures list means the check passed.
type VerifyResult struct {
	Failures []string
}

// OK reports whether verification succeeded.
func (r VerifyResult) OK() bool {
	return len(r.Failures) == 0
}
