package domain

// PrincipalKind differentiates administrator vs user principals.
type PrincipalKind string

const (
	PrincipalAdmin PrincipalKind = "admin"
	PrincipalUser  PrincipalKind = "user"
)

// Valid reports whether k is one of the known principal kinds.
func (k PrincipalKind) Valid() bool {
	return k == PrincipalAdmin || k == PrincipalUser
}
