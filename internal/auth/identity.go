package auth

// Identity is a verified caller identity as yielded by the identity
// provider. Every mutating operation requires a non-empty identity whose
// Subject matches the resource owner; rollback additionally requires Admin.
type Identity struct {
	// Subject is the stable user id the identity was issued for.
	Subject string

	// Email, Name and PictureURL are the verified account fields.
	Email      string
	Name       string
	PictureURL string

	// Admin marks the elevated capability required for migration rollback.
	Admin bool
}

// IsZero reports whether no identity is present.
func (id Identity) IsZero() bool {
	return id.Subject == ""
}
