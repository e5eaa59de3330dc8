package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"intellibiz-backend/apperrors"
	"intellibiz-backend/models"
	"intellibiz-backend/policy"
	"intellibiz-backend/repository"
	"intellibiz-backend/utils"
)

type UpdateUserInput struct {
	Name     *string      `json:"name"`
	Phone    *string      `json:"phone"`
	Password *string      `json:"password"`
	Role     *models.Role `json:"role"`
	IsActive *bool        `json:"isActive"`
}

type UserService struct {
	users repository.UserRepository
	now   func() time.Time
}

func (s *UserService) List(ctx context.Context, actor policy.Actor, role models.Role) ([]models.User, error) {
	if err := requireCapability(actor, policy.UserManage); err != nil {
		return nil, err
	}
	return s.users.List(ctx, repository.UserFilter{Role: role})
}

func (s *UserService) Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.User, error) {
	if err := ownsOrAdmin(actor, id); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

// Update edits a profile. Role and active flag are admin-only.
func (s *UserService) Update(ctx context.Context, actor policy.Actor, id uuid.UUID, in UpdateUserInput) (*models.User, error) {
	if err := ownsOrAdmin(actor, id); err != nil {
		return nil, err
	}
	if (in.Role != nil || in.IsActive != nil) && !actor.Can(policy.UserManage) {
		return nil, apperrors.NewForbiddenError("Only admins can change roles or account status")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		if *in.Phone != "" && !utils.ValidatePhone(*in.Phone) {
			return nil, apperrors.NewValidationError("Invalid phone number format")
		}
		user.Phone = *in.Phone
	}
	if in.Password != nil {
		if len(*in.Password) < 8 {
			return nil, apperrors.NewValidationError("Password must be at least 8 characters")
		}
		hash, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to hash password", err)
		}
		user.PasswordHash = hash
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperrors.NewValidationError("Invalid role")
		}
		user.Role = *in.Role
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	user.UpdatedAt = s.now()
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	if err := requireCapability(actor, policy.UserManage); err != nil {
		return err
	}
	if actor.UserID == id {
		return apperrors.NewValidationError("Admins cannot delete their own account")
	}
	return s.users.Delete(ctx, id)
}
