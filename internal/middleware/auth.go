package middleware

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/schoolpilot/schoolpilot-api/internal/models"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
	"github.com/schoolpilot/schoolpilot-api/pkg/response"
)

// Context keys populated by the session middleware.
const (
	ContextTokenKey   = "sessionToken"
	ContextAccountKey = "currentAccount"
	ContextStaffKey   = "currentStaff"
	ContextStudentKey = "currentStudent"
)

type sessionResolver interface {
	Resolve(ctx context.Context, token string) (*models.Session, error)
}

type accountLoader interface {
	FindByID(ctx context.Context, kind models.AccountKind, id string) (*models.Account, error)
}

type staffLoader interface {
	FindByID(ctx context.Context, id string) (*models.Staff, error)
}

type studentLoader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// Session guards a portal behind an opaque session token. The token travels
// in the X-Token header (a Bearer Authorization header also works); the
// resolved session must belong to the portal's account kind.
func Session(sessions sessionResolver, accounts accountLoader, staff staffLoader, students studentLoader, kind models.AccountKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		session, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if session.Kind != kind {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "wrong portal for this account"))
			c.Abort()
			return
		}

		account, err := accounts.FindByID(c.Request.Context(), kind, session.AccountID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "account no longer exists"))
			} else {
				response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account"))
			}
			c.Abort()
			return
		}
		if account.Status != models.StatusActive {
			response.Error(c, appErrors.Clone(appErrors.ErrInactiveAccount, "account is not active"))
			c.Abort()
			return
		}

		switch kind {
		case models.AccountKindStaff:
			current, err := staff.FindByID(c.Request.Context(), session.AccountID)
			if err != nil {
				response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch staff"))
				c.Abort()
				return
			}
			c.Set(ContextStaffKey, current)
		case models.AccountKindStudent:
			current, err := students.FindByID(c.Request.Context(), session.AccountID)
			if err != nil {
				response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student"))
				c.Abort()
				return
			}
			c.Set(ContextStudentKey, current)
		}

		c.Set(ContextTokenKey, token)
		c.Set(ContextAccountKey, account)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if token := c.GetHeader("X-Token"); token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
