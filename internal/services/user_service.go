package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "peppermint/internal/errors"
	"peppermint/internal/logger"
	"peppermint/internal/models"
)

// attemptWindow is how long a failed-login streak stays relevant. A login
// check first clears any counter older than this, then evaluates the new
// attempt.
const attemptWindow = 15 * time.Minute

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser registers a new user. Username and email are checked for
// existing users in a single combined query before the insert.
func (s *userService) CreateUser(username, email, password, firstName, lastName string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "username, email and password are required")
	}

	var count int64
	s.db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, strings.ToLower(email)).
		Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateUser
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Username:  username,
		Email:     strings.ToLower(email),
		Password:  string(hashedPassword),
		FirstName: firstName,
		LastName:  lastName,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// GetUserByUsername retrieves a user by username
func (s *userService) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetAllUsers returns every registered user. Whether the caller should see
// them is the caller's concern, not enforced here.
func (s *userService) GetAllUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return users, nil
}

// UpdateUser applies a partial profile update. A provided password is
// re-hashed before storage.
func (s *userService) UpdateUser(id string, fields UserUpdateFields) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Email != nil && *fields.Email != "" {
		updates["email"] = strings.ToLower(*fields.Email)
	}
	if fields.FirstName != nil {
		updates["first_name"] = *fields.FirstName
	}
	if fields.LastName != nil {
		updates["last_name"] = *fields.LastName
	}
	if fields.Password != nil && *fields.Password != "" {
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(*fields.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, hashErr)
		}
		updates["password"] = string(hashed)
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", user.ID).First(user).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return user, nil
}

// DeleteUser removes a user together with their accounts and those accounts'
// transactions, all in one database transaction.
func (s *userService) DeleteUser(id string) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var accountIDs []string
		if err := tx.Model(&models.Account{}).Where("user_id = ?", user.ID).
			Pluck("id", &accountIDs).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if len(accountIDs) > 0 {
			if err := tx.Where("account_id IN ?", accountIDs).
				Delete(&models.Transaction{}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if err := tx.Where("user_id = ?", user.ID).
				Delete(&models.Account{}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		if err := tx.Delete(user).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

// AttemptLogin evaluates a login attempt and maintains the login-attempt
// counter. The counter is checked and any stale streak cleared before the
// new attempt is evaluated; failures increment it, successes reset it. It is
// an audit trail only: no value of the counter ever blocks a login.
//
// Unknown usernames and wrong passwords return the same error so responses
// cannot be used to probe which usernames exist.
func (s *userService) AttemptLogin(username, password string) (*models.User, error) {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	s.refreshAttemptStreak(user)

	now := time.Now()
	if !s.VerifyPassword(user, password) {
		if err := s.db.Model(user).Updates(map[string]interface{}{
			"login_attempts":     gorm.Expr("login_attempts + ?", 1),
			"last_login_attempt": now,
		}).Error; err != nil {
			logger.Get().Errorw("failed to record login attempt", "username", username, "error", err)
		}
		user.LoginAttempts++
		user.LastLoginAttempt = &now
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.db.Model(user).Updates(map[string]interface{}{
		"login_attempts":     0,
		"last_login_attempt": now,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user.LoginAttempts = 0
	user.LastLoginAttempt = &now

	return user, nil
}

// refreshAttemptStreak zeroes the failed-login counter when the last attempt
// is older than the attempt window, so a new attempt is judged against the
// current streak only.
func (s *userService) refreshAttemptStreak(user *models.User) {
	if user.LoginAttempts == 0 || user.LastLoginAttempt == nil {
		return
	}
	if time.Since(*user.LastLoginAttempt) <= attemptWindow {
		return
	}
	if err := s.db.Model(user).Update("login_attempts", 0).Error; err != nil {
		logger.Get().Errorw("failed to reset login attempts", "username", user.Username, "error", err)
		return
	}
	user.LoginAttempts = 0
}
