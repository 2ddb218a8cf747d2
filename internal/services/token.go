package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/AliiiBenn/mini-auth/internal/config"
	"github.com/AliiiBenn/mini-auth/internal/models"
	"github.com/AliiiBenn/mini-auth/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// Scope tags carried in access-token claims. Platform tokens act on the
// owner dashboard; project tokens are confined to a single tenant.
const ScopePlatform = "platform"

const scopeProjectPrefix = "project:"

// ProjectScope builds the scope tag for a project tenant.
func ProjectScope(projectID string) string {
	return scopeProjectPrefix + projectID
}

// ScopeProjectID extracts the project id from a project scope tag.
// ok is false for the platform scope or a malformed tag.
func ScopeProjectID(scope string) (string, bool) {
	id, found := strings.CutPrefix(scope, scopeProjectPrefix)
	if !found || id == "" {
		return "", false
	}
	return id, true
}

// ScopeForUser derives the scope a user's tokens are minted with.
func ScopeForUser(u *models.User) string {
	if u.IsPlatform() {
		return ScopePlatform
	}
	return ProjectScope(*u.ProjectID)
}

// AccessClaims is the payload of a signed access token. Validity is
// decided by signature and exp alone, with no persistence lookup.
type AccessClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// TokenService issues and validates access tokens and manages the
// revocable refresh-token rows. The clock is injectable for tests.
type TokenService struct {
	db  *gorm.DB
	cfg *config.JWTConfig
	now func() time.Time
}

func NewTokenService(db *gorm.DB, cfg *config.JWTConfig) *TokenService {
	return &TokenService{db: db, cfg: cfg, now: time.Now}
}

// WithTx returns the service bound to tx so refresh-token writes join
// the caller's transaction.
func (s *TokenService) WithTx(tx *gorm.DB) *TokenService {
	return &TokenService{db: tx, cfg: s.cfg, now: s.now}
}

// WithClock returns the service with a replacement time source.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	return &TokenService{db: s.db, cfg: s.cfg, now: now}
}

// IssueAccessToken mints a signed HS256 token for the subject and scope.
func (s *TokenService) IssueAccessToken(userID, scope string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(time.Duration(s.cfg.AccessExpireMinutes) * time.Minute)

	claims := AccessClaims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateAccessToken checks signature and expiry. Any failure surfaces
// as ErrAuthenticationFailed; the token is already invalid at the exact
// expiry second.
func (s *TokenService) ValidateAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	if claims.Subject == "" || claims.Scope == "" {
		return nil, ErrAuthenticationFailed
	}
	return claims, nil
}

// IssueRefreshToken generates a high-entropy opaque value and persists
// its hashed record. The returned plaintext is the only copy that will
// ever exist.
func (s *TokenService) IssueRefreshToken(userID, userAgent, clientIP string) (string, *models.RefreshToken, error) {
	value, hash, err := generateRefreshToken()
	if err != nil {
		return "", nil, err
	}

	record := models.RefreshToken{
		UserID:      userID,
		TokenHash:   hash,
		ExpiresAt:   s.now().Add(time.Duration(s.cfg.RefreshExpireDays) * 24 * time.Hour),
		UserAgent:   userAgent,
		CreatedByIP: clientIP,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return "", nil, err
	}
	return value, &record, nil
}

// ValidateRefreshToken resolves an opaque value to its stored row.
// Unknown, revoked and expired values are indistinguishable to the
// caller. The last-used timestamp is updated best-effort.
func (s *TokenService) ValidateRefreshToken(value string) (*models.RefreshToken, error) {
	if value == "" {
		return nil, ErrAuthenticationFailed
	}

	var stored models.RefreshToken
	err := s.db.Where("token_hash = ?", hashRefreshToken(value)).First(&stored).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}

	if stored.Revoked() || !s.now().Before(stored.ExpiresAt) {
		return nil, ErrAuthenticationFailed
	}

	now := s.now()
	stored.LastUsedAt = &now
	if err := s.db.Model(&stored).Update("last_used_at", now).Error; err != nil {
		logger.Warn().Err(err).Str("token_id", stored.ID).Msg("failed to record refresh token usage")
	}

	return &stored, nil
}

// RevokeRefreshToken revokes the row backing value. Revoking an unknown
// or already-revoked token is a no-op success.
func (s *TokenService) RevokeRefreshToken(value string) error {
	if value == "" {
		return nil
	}
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", hashRefreshToken(value)).
		Update("revoked_at", s.now()).Error
}

// revokeRecord marks a specific row revoked, linking its replacement.
// It only succeeds on a still-live row, so two rotations racing over one
// token cannot both mint a successor.
func (s *TokenService) revokeRecord(record *models.RefreshToken, replacedByID string) error {
	updates := map[string]interface{}{"revoked_at": s.now()}
	if replacedByID != "" {
		updates["replaced_by_token_id"] = replacedByID
	}
	res := s.db.Model(&models.RefreshToken{}).
		Where("id = ? AND revoked_at IS NULL", record.ID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAuthenticationFailed
	}
	return nil
}

// RevokeAllRefreshTokens revokes every live token a user holds with one
// atomic UPDATE, so a concurrent login cannot slip a row past the sweep.
func (s *TokenService) RevokeAllRefreshTokens(userID string) (int64, error) {
	res := s.db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", s.now())
	return res.RowsAffected, res.Error
}

func generateRefreshToken() (value string, hash string, err error) {
	randomBytes := make([]byte, 32)
	if _, err = rand.Read(randomBytes); err != nil {
		return "", "", err
	}
	value = hex.EncodeToString(randomBytes)
	return value, hashRefreshToken(value), nil
}

func hashRefreshToken(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
