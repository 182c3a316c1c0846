package adminauth

// RequireAdmin fails hard when claims are absent or carry the wrong token
// type. Pure predicate, no side effects.
func RequireAdmin(claims *AdminClaims) error {
	if claims == nil {
		return ErrAuthRequired
	}

	if !claims.IsAdminToken() {
		return ErrNotAdmin
	}

	return nil
}

// RequireSuperAdmin runs RequireAdmin and additionally demands the
// superadmin role.
func RequireSuperAdmin(claims *AdminClaims) error {
	if err := RequireAdmin(claims); err != nil {
		return err
	}

	if !claims.IsSuperAdmin() {
		return ErrInsufficientRole
	}

	return nil
}
