package services

import (
	"errors"
	"time"

	"github.com/AliiiBenn/mini-auth/internal/models"
	"github.com/AliiiBenn/mini-auth/internal/utils"
	"gorm.io/gorm"
)

// AuthService orchestrates session lifecycle: login, refresh, logout and
// logout-all. It composes the credential verifier, the token service and
// the identity resolver; each operation runs its writes inside a single
// transaction so a client never holds a token whose backing row did not
// land.
type AuthService struct {
	db     *gorm.DB
	users  *UserService
	tokens *TokenService
}

func NewAuthService(db *gorm.DB, users *UserService, tokens *TokenService) *AuthService {
	return &AuthService{db: db, users: users, tokens: tokens}
}

type LoginResult struct {
	AccessToken     string
	AccessExpireAt  time.Time
	RefreshToken    string
	RefreshExpireAt time.Time
	User            *models.User
}

type RefreshResult struct {
	AccessToken     string
	AccessExpireAt  time.Time
	RefreshToken    string
	RefreshExpireAt time.Time
}

// Login authenticates a platform user by email and password. Unknown
// user, wrong password and disabled account all return the same
// ErrAuthenticationFailed.
func (s *AuthService) Login(email, password, userAgent, clientIP string) (*LoginResult, error) {
	return s.login(email, password, nil, userAgent, clientIP)
}

// ClientLogin authenticates an end-user inside the project resolved from
// a validated API key.
func (s *AuthService) ClientLogin(project *models.Project, email, password, userAgent, clientIP string) (*LoginResult, error) {
	return s.login(email, password, &project.ID, userAgent, clientIP)
}

func (s *AuthService) login(email, password string, projectID *string, userAgent, clientIP string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(email, projectID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAuthenticationFailed
	}
	if !utils.CheckPassword(password, user.HashedPassword) {
		return nil, ErrAuthenticationFailed
	}

	return s.startSession(user, userAgent, clientIP)
}

// startSession issues the access/refresh pair. The refresh row is
// committed before the plaintext values are returned to the caller.
func (s *AuthService) startSession(user *models.User, userAgent, clientIP string) (*LoginResult, error) {
	accessToken, accessExpireAt, err := s.tokens.IssueAccessToken(user.ID, ScopeForUser(user))
	if err != nil {
		return nil, err
	}

	var refreshValue string
	var refreshRecord *models.RefreshToken
	err = s.db.Transaction(func(tx *gorm.DB) error {
		refreshValue, refreshRecord, err = s.tokens.WithTx(tx).IssueRefreshToken(user.ID, userAgent, clientIP)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:     accessToken,
		AccessExpireAt:  accessExpireAt,
		RefreshToken:    refreshValue,
		RefreshExpireAt: refreshRecord.ExpiresAt,
		User:            user,
	}, nil
}

// Refresh exchanges a live refresh token for a new access token and a
// replacement refresh token. Rotation is unconditional: the presented
// token is revoked in the same transaction that creates its successor,
// so a replayed value fails from then on.
func (s *AuthService) Refresh(refreshValue, userAgent, clientIP string) (*RefreshResult, error) {
	stored, user, err := s.resolveRefresh(refreshValue)
	if err != nil {
		return nil, err
	}
	return s.rotate(stored, user, userAgent, clientIP)
}

// ClientRefresh additionally pins the token to the project resolved from
// the API key: a refresh token minted in another tenant is rejected even
// though it is otherwise valid.
func (s *AuthService) ClientRefresh(project *models.Project, refreshValue, userAgent, clientIP string) (*RefreshResult, error) {
	stored, user, err := s.resolveRefresh(refreshValue)
	if err != nil {
		return nil, err
	}
	if user.ProjectID == nil || *user.ProjectID != project.ID {
		return nil, ErrAuthorizationDenied
	}
	return s.rotate(stored, user, userAgent, clientIP)
}

func (s *AuthService) resolveRefresh(refreshValue string) (*models.RefreshToken, *models.User, error) {
	stored, err := s.tokens.ValidateRefreshToken(refreshValue)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetByID(stored.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrAuthenticationFailed
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, ErrAuthenticationFailed
	}
	return stored, user, nil
}

func (s *AuthService) rotate(stored *models.RefreshToken, user *models.User, userAgent, clientIP string) (*RefreshResult, error) {
	accessToken, accessExpireAt, err := s.tokens.IssueAccessToken(user.ID, ScopeForUser(user))
	if err != nil {
		return nil, err
	}

	var newValue string
	var newRecord *models.RefreshToken
	err = s.db.Transaction(func(tx *gorm.DB) error {
		txTokens := s.tokens.WithTx(tx)
		newValue, newRecord, err = txTokens.IssueRefreshToken(user.ID, userAgent, clientIP)
		if err != nil {
			return err
		}
		return txTokens.revokeRecord(stored, newRecord.ID)
	})
	if err != nil {
		return nil, err
	}

	return &RefreshResult{
		AccessToken:     accessToken,
		AccessExpireAt:  accessExpireAt,
		RefreshToken:    newValue,
		RefreshExpireAt: newRecord.ExpiresAt,
	}, nil
}

// Logout revokes the presented refresh token. It succeeds even when no
// token is supplied or the token is already dead.
func (s *AuthService) Logout(refreshValue string) error {
	return s.tokens.RevokeRefreshToken(refreshValue)
}

// ClientLogout revokes the token only when it belongs to an end-user of
// the given project; anything else is silently ignored so the endpoint
// reveals nothing about foreign tokens.
func (s *AuthService) ClientLogout(project *models.Project, refreshValue string) error {
	if refreshValue == "" {
		return nil
	}

	var stored models.RefreshToken
	err := s.db.Where("token_hash = ?", hashRefreshToken(refreshValue)).First(&stored).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	user, err := s.users.GetByID(stored.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if user.ProjectID == nil || *user.ProjectID != project.ID {
		return nil
	}

	return s.tokens.RevokeRefreshToken(refreshValue)
}

// LogoutAll terminates every session the user holds.
func (s *AuthService) LogoutAll(userID string) error {
	_, err := s.tokens.RevokeAllRefreshTokens(userID)
	return err
}
