package services

import (
	"errors"

	"github.com/AliiiBenn/mini-auth/internal/models"
	"github.com/AliiiBenn/mini-auth/internal/utils"
	"gorm.io/gorm"
)

// UserService loads and scopes principals. The scope filter here is
// what keeps a token minted for one project from resolving an identity
// in another.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Resolve loads the user a validated token refers to. A missing or
// inactive user is an authentication failure; a live user outside the
// token's scope is an authorization failure.
func (s *UserService) Resolve(userID, scope string) (*models.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAuthenticationFailed
	}

	if scope == ScopePlatform {
		if !user.IsPlatform() {
			return nil, ErrAuthorizationDenied
		}
		return user, nil
	}

	projectID, ok := ScopeProjectID(scope)
	if !ok {
		return nil, ErrAuthenticationFailed
	}
	if user.ProjectID == nil || *user.ProjectID != projectID {
		return nil, ErrAuthorizationDenied
	}
	return user, nil
}

func (s *UserService) GetByID(userID string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail looks a user up within one namespace: the platform one when
// projectID is nil, a single project otherwise.
func (s *UserService) GetByEmail(email string, projectID *string) (*models.User, error) {
	query := s.db.Where("email = ?", email)
	if projectID == nil {
		query = query.Where("project_id IS NULL")
	} else {
		query = query.Where("project_id = ?", *projectID)
	}

	var user models.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// RegisterPlatform creates a platform user. The email must be unused
// among platform users; project end-users with the same address do not
// collide.
func (s *UserService) RegisterPlatform(email, password, fullName string) (*models.User, error) {
	return s.register(email, password, fullName, nil)
}

// RegisterClient creates an end-user inside the given project's
// namespace.
func (s *UserService) RegisterClient(project *models.Project, email, password, fullName string) (*models.User, error) {
	return s.register(email, password, fullName, &project.ID)
}

func (s *UserService) register(email, password, fullName string, projectID *string) (*models.User, error) {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:          email,
		ProjectID:      projectID,
		HashedPassword: hashed,
		FullName:       fullName,
		IsActive:       true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Cheap pre-check; the unique indexes are the real guard and a
		// racing insert surfaces below as gorm.ErrDuplicatedKey.
		query := tx.Where("email = ?", email)
		if projectID == nil {
			query = query.Where("project_id IS NULL")
		} else {
			query = query.Where("project_id = ?", *projectID)
		}
		var count int64
		if err := query.Model(&models.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &ConflictError{Field: "email"}
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Field: "email"}
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile changes mutable profile fields. A nil pointer leaves the
// field untouched. Email moves stay inside the user's namespace and are
// conflict-checked there.
func (s *UserService) UpdateProfile(userID string, email, fullName *string) (*models.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if email != nil && *email != user.Email {
		if _, err := s.GetByEmail(*email, user.ProjectID); err == nil {
			return nil, &ConflictError{Field: "email"}
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		user.Email = *email
	}
	if fullName != nil {
		user.FullName = *fullName
	}

	if err := s.db.Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Field: "email"}
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the old password before storing a new hash.
// A mismatch is an authentication failure, indistinguishable from any
// other credential problem.
func (s *UserService) ChangePassword(userID, oldPassword, newPassword string) error {
	user, err := s.GetByID(userID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(oldPassword, user.HashedPassword) {
		return ErrAuthenticationFailed
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.db.Model(user).Update("hashed_password", hashed).Error
}

// Deactivate disables a user without deleting it.
func (s *UserService) Deactivate(userID string) error {
	res := s.db.Model(&models.User{}).Where("id = ?", userID).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
