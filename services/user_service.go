package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yeremiapane/restaurant-frontdesk/models"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type UserCreate struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	IsAdmin   bool   `json:"is_admin"`
}

// UserUpdate is the admin edit; nil fields are left untouched.
type UserUpdate struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      *string `json:"role"`
	IsAdmin   *bool   `json:"is_admin"`
	Password  *string `json:"password"`
}

// ProfileUpdate is what a principal may change about itself.
type ProfileUpdate struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Create(ctx context.Context, in UserCreate) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		return nil, utils.NewError(utils.CodeValidation, "username is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, utils.NewError(utils.CodeValidation, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if in.Role == "" {
		in.Role = models.RoleWaiter
	}
	if !models.ValidRole(in.Role) {
		return nil, utils.NewError(utils.CodeValidation, "unknown role "+in.Role)
	}

	// username tetap unik termasuk terhadap akun yang sudah dihapus
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", in.Username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return nil, utils.NewError(utils.CodeValidation, "username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         in.Role,
		PasswordHash: string(hashed),
		IsAdmin:      in.IsAdmin,
		Lifecycle:    models.LifecycleActive,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return writeAudit(tx, ActorFrom(ctx), "user", user.ID, "create", map[string]interface{}{"username": user.Username})
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) List(ctx context.Context, includeDeleted bool) ([]models.User, error) {
	q := s.db.WithContext(ctx).Order("id ASC")
	if !includeDeleted {
		q = q.Scopes(models.NotDeleted)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Get hides soft-deleted principals.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewError(utils.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &user, nil
}

func (s *UserService) Update(ctx context.Context, id uint, in UserUpdate) (*models.User, error) {
	updates := map[string]interface{}{}
	if in.FirstName != nil {
		updates["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		updates["last_name"] = *in.LastName
	}
	if in.Role != nil {
		if !models.ValidRole(*in.Role) {
			return nil, utils.NewError(utils.CodeValidation, "unknown role "+*in.Role)
		}
		updates["role"] = *in.Role
	}
	if in.IsAdmin != nil {
		updates["is_admin"] = *in.IsAdmin
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLength {
			return nil, utils.NewError(utils.CodeValidation, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		updates["password_hash"] = string(hashed)
	}
	return s.apply(ctx, id, "update", updates)
}

func (s *UserService) UpdateProfile(ctx context.Context, id uint, in ProfileUpdate) (*models.User, error) {
	updates := map[string]interface{}{}
	if in.FirstName != nil {
		updates["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		updates["last_name"] = *in.LastName
	}
	return s.apply(ctx, id, "update_profile", updates)
}

// SetLifecycle switches between active and inactive. Deleted is terminal and
// only reachable through Delete.
func (s *UserService) SetLifecycle(ctx context.Context, id uint, lc models.Lifecycle) (*models.User, error) {
	if lc != models.LifecycleActive && lc != models.LifecycleInactive {
		return nil, utils.NewError(utils.CodeValidation, "lifecycle must be active or inactive")
	}
	return s.apply(ctx, id, "set_"+string(lc), map[string]interface{}{"lifecycle": lc})
}

// Delete is a soft delete; the row is kept for audit and order history.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	_, err := s.apply(ctx, id, "delete", map[string]interface{}{"lifecycle": models.LifecycleDeleted})
	return err
}

func (s *UserService) apply(ctx context.Context, id uint, action string, updates map[string]interface{}) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Scopes(models.NotDeleted).First(&user, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewError(utils.CodeNotFound, "user not found")
		}
		if err != nil {
			return fmt.Errorf("load user %d: %w", id, err)
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return fmt.Errorf("update user %d: %w", id, err)
		}

		meta := make(map[string]interface{}, len(updates))
		for k, v := range updates {
			if k == "password_hash" {
				v = "***"
			}
			meta[k] = v
		}
		if err := writeAudit(tx, ActorFrom(ctx), "user", user.ID, action, meta); err != nil {
			return err
		}
		return tx.First(&user, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
