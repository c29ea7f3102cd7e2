package auth

// Authorize reports whether the claims' role appears in the allowed set.
// Nil claims (unauthenticated callers) are never authorized. Membership is
// exact match: admin is not implicitly included in other operations' sets,
// which keeps every endpoint's access policy a literal, greppable list.
func Authorize(claims *Claims, allowed ...Role) bool {
	if claims == nil {
		return false
	}
	for _, role := range allowed {
		if claims.Role == role {
			return true
		}
	}
	return false
}
