package auth

import (
	"strings"

	"go.uber.org/zap"

	"montapulse/internal/domain/model"
)

// SuperAdminEmail is the only account trusted with the admin role. Any other
// profile claiming admin is downgraded client-side before authorization
// decisions. This is defense in depth, not a substitute for server-side
// rules.
const SuperAdminEmail = "pruebasyaprendizaje0@gmail.com"

// IsSuperAdmin reports whether the email belongs to the super admin.
func IsSuperAdmin(email string) bool {
	return strings.EqualFold(email, SuperAdminEmail)
}

// SecureRole resolves the role to trust for an authenticated account. The
// stored profile role and any upstream role hint are only honored up to
// host; admin requires the super-admin email. The master account is always
// admin.
func SecureRole(storedRole, upstreamRole model.Role, email string, logger *zap.SugaredLogger) model.Role {
	if IsSuperAdmin(email) {
		return model.RoleAdmin
	}
	if storedRole == model.RoleAdmin || upstreamRole == model.RoleAdmin {
		logger.Warnw("⚠️ unauthorized admin claim downgraded to visitor", "email", email)
		return model.RoleVisitor
	}
	if storedRole != "" {
		return storedRole
	}
	if upstreamRole != "" {
		return upstreamRole
	}
	return model.RoleVisitor
}
