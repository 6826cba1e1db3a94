package domain

// TokenVerifier verifies a bearer token issued by the identity system and
// returns the authenticated subject ID.
type TokenVerifier interface {
	Verify(token string) (subjectID string, err error)
}
