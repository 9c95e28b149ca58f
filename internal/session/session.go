// Package session carries the authenticated owner, their business snapshot
// and the effective plan through a request.
package session

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/turnos/internal/domain/plan"
	"github.com/BruksfildServices01/turnos/internal/models"
)

// Session is resolved once per request and never mutated afterwards.
type Session struct {
	userID   uint
	role     string
	business models.Business
	plan     plan.Plan
}

func New(userID uint, role string, b models.Business) *Session {
	return &Session{
		userID:   userID,
		role:     role,
		business: b,
		plan:     plan.Effective(b.Plan, b.PlanStatus),
	}
}

func (s *Session) UserID() uint     { return s.userID }
func (s *Session) Role() string     { return s.role }
func (s *Session) BusinessID() uint { return s.business.ID }
func (s *Session) Plan() plan.Plan  { return s.plan }

// Business returns a copy of the snapshot.
func (s *Session) Business() models.Business { return s.business }

func (s *Session) Can(section plan.Section) error {
	return plan.Check(s.plan, section)
}

type ctxKey struct{}

const ginKey = "session"

func WithContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}

// Attach stores s on both the gin context and the request context.
func Attach(c *gin.Context, s *Session) {
	c.Set(ginKey, s)
	c.Request = c.Request.WithContext(WithContext(c.Request.Context(), s))
}

func From(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(ginKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*Session)
	return s, ok && s != nil
}
