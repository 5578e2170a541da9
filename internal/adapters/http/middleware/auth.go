package middleware

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotebook/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotebook/internal/platform/config"
	"github.com/jsamuelsen/quotebook/internal/platform/logging"
)

// ContextKeyClaims is the gin.Context key RequireWrite stores *Claims under.
const ContextKeyClaims = "claims"

// adminRole may write regardless of scopes.
const adminRole = "admin"

// Claims are the caller identity forwarded by the gateway, which has already
// validated the caller's token.
type Claims struct {
	Subject string
	Roles   []string
	Scopes  []string
}

func (c *Claims) HasRole(role string) bool { return slices.Contains(c.Roles, role) }

func (c *Claims) HasScope(scope string) bool { return slices.Contains(c.Scopes, scope) }

// gatewayHeaders names the headers claims arrive in.
type gatewayHeaders struct {
	subject, roles, scopes string
}

func headersFor(cfg *config.AuthConfig) gatewayHeaders {
	h := gatewayHeaders{subject: "X-User-ID", roles: "X-User-Roles", scopes: "X-User-Scopes"}
	if cfg != nil {
		h.subject = cmp.Or(cfg.SubjectHeader, h.subject)
		h.roles = cmp.Or(cfg.RolesHeader, h.roles)
		h.scopes = cmp.Or(cfg.ScopesHeader, h.scopes)
	}

	return h
}

// read parses roles as a comma list and scopes as an OAuth2 space list.
func (h gatewayHeaders) read(c *gin.Context) *Claims {
	var roles []string

	for role := range strings.SplitSeq(c.GetHeader(h.roles), ",") {
		if role = strings.TrimSpace(role); role != "" {
			roles = append(roles, role)
		}
	}

	return &Claims{
		Subject: strings.TrimSpace(c.GetHeader(h.subject)),
		Roles:   roles,
		Scopes:  strings.Fields(c.GetHeader(h.scopes)),
	}
}

// ExtractClaims reads claims from the headers cfg names, or the X-User-*
// defaults.
func ExtractClaims(c *gin.Context, cfg *config.AuthConfig) *Claims {
	return headersFor(cfg).read(c)
}

// GetClaims returns the claims stored by RequireWrite, or nil.
func GetClaims(c *gin.Context) *Claims {
	claims, _ := c.Value(ContextKeyClaims).(*Claims)
	return claims
}

// RequireWrite guards the routes that change the quote collection. With auth
// disabled every request passes. Otherwise the caller needs a subject and, if
// cfg.WriteScope is set, that scope or the admin role. The subject is added
// to the request logger so persisted changes can be traced to a caller.
func RequireWrite(cfg *config.AuthConfig) gin.HandlerFunc {
	if cfg == nil || !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	headers := headersFor(cfg)

	return func(c *gin.Context) {
		claims := headers.read(c)

		switch {
		case claims.Subject == "":
			dto.AbortWithCode(c, dto.ErrorCodeUnauthorized, "authentication required")
			return
		case cfg.WriteScope != "" && !claims.HasScope(cfg.WriteScope) && !claims.HasRole(adminRole):
			dto.AbortWithCode(c, dto.ErrorCodeForbidden, "insufficient permissions: scope "+cfg.WriteScope+" required")
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Request = c.Request.WithContext(logging.With(c.Request.Context(), slog.String("subject", claims.Subject)))

		c.Next()
	}
}
