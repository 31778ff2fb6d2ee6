package authorization

// OwnerScope returns the user id a query must be restricted to, or nil when
// the caller may read every member's records.
func OwnerScope(userID uint, role UserRole) *uint {
	if role.IsAdmin() {
		return nil
	}
	return &userID
}
