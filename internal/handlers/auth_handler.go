package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/turnos/internal/config"
	"github.com/BruksfildServices01/turnos/internal/domain/plan"
	"github.com/BruksfildServices01/turnos/internal/httperr"
	"github.com/BruksfildServices01/turnos/internal/middleware"
	"github.com/BruksfildServices01/turnos/internal/models"
	"github.com/BruksfildServices01/turnos/internal/validators"
)

const trialDays = 14

// Revoker adds a signed-out token id to the denylist.
type Revoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
}

type AuthHandler struct {
	db      *gorm.DB
	config  *config.Config
	revoker Revoker
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, revoker Revoker) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, revoker: revoker}
}

// --------- Requests ---------

type RegisterRequest struct {
	BusinessName    string `json:"business_name" binding:"required"`
	BusinessSlug    string `json:"business_slug" binding:"required"`
	BusinessPhone   string `json:"business_phone"`
	BusinessAddress string `json:"business_address"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.BusinessSlug))
	if !validators.IsSlug(slug) {
		httperr.BadRequest(c, "invalid_slug", "El enlace solo admite minúsculas, números y guiones.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmail(email) || !validators.EmailDomainResolves(c.Request.Context(), email) {
		httperr.BadRequest(c, "invalid_email_domain", "El dominio del email no parece válido.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Error al registrar.")
		return
	}

	trialEnds := time.Now().AddDate(0, 0, trialDays)
	business := models.Business{
		Name:        strings.TrimSpace(req.BusinessName),
		Slug:        slug,
		Phone:       validators.NormalizePhone(req.BusinessPhone),
		Email:       email,
		Address:     strings.TrimSpace(req.BusinessAddress),
		Plan:        string(plan.Trial),
		PlanStatus:  string(plan.StatusTrialing),
		TrialEndsAt: &trialEnds,
		OpeningHour: 9,
		ClosingHour: 20,
		Timezone:    h.config.DefaultTimezone,

		SlotStepMinutes: 30,
	}
	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        validators.NormalizePhone(req.Phone),
		Role:         "owner",
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Business{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness("slug_already_exists")
		}
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness("email_already_exists")
		}

		if err := tx.Create(&business).Error; err != nil {
			return err
		}
		user.BusinessID = business.ID
		return tx.Omit("Business").Create(&user).Error
	})
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "slug_already_exists"):
			httperr.Conflict(c, "slug_already_exists", "Ese enlace ya está en uso.")
		case httperr.IsBusiness(err, "email_already_exists"), httperr.IsUniqueViolation(err):
			httperr.Conflict(c, "email_already_exists", "Ya existe una cuenta con ese email.")
		default:
			httperr.Internal(c, "failed_to_register", "Error al registrar.")
		}
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Error al iniciar sesión.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":     userView(&user),
		"business": business,
		"token":    token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Business").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Email o contraseña incorrectos.")
			return
		}
		httperr.Internal(c, "internal_error", "Error al iniciar sesión.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Email o contraseña incorrectos.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Error al iniciar sesión.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     userView(&user),
		"business": user.Business,
		"token":    token,
	})
}

// Logout denylists the current token until it would have expired.
func (h *AuthHandler) Logout(c *gin.Context) {
	jti := c.GetString(middleware.ContextTokenID)
	exp := c.GetTime(middleware.ContextTokenExp)

	if h.revoker != nil && jti != "" {
		if err := h.revoker.Revoke(c.Request.Context(), jti, exp); err != nil {
			httperr.Unavailable(c, "logout_failed", "No se pudo cerrar la sesión.")
			return
		}
	}
	c.Status(http.StatusNoContent)
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	now := time.Now()
	ttl := h.config.JWTTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	claims := middleware.Claims{
		BusinessID: user.BusinessID,
		Role:       user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}

func userView(u *models.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"name":        u.Name,
		"email":       u.Email,
		"phone":       u.Phone,
		"role":        u.Role,
		"business_id": u.BusinessID,
	}
}
