package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages user accounts. Only admins reach these operations;
// the route group enforces that.
type UserService struct {
	userRepo *repository.UserRepository
	activity *ActivityService
}

func NewUserService(userRepo *repository.UserRepository, activity *ActivityService) *UserService {
	return &UserService{userRepo: userRepo, activity: activity}
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	FullName  *string `json:"full_name"`
	Role      *string `json:"role"`
	Password  *string `json:"password"`
	AvatarURL *string `json:"avatar_url"`
}

func validUserRole(role string) bool {
	switch role {
	case entity.UserRoleAdmin, entity.UserRoleInspector, entity.UserRoleApprover, entity.UserRoleViewer:
		return true
	}
	return false
}

func (s *UserService) List(ctx context.Context, page, pageSize int, role string) (*ListResult[entity.User], error) {
	users, total, err := s.userRepo.List(ctx, page, pageSize, role)
	if err != nil {
		return nil, err
	}
	return &ListResult[entity.User]{
		Items:      users,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*entity.User, error) {
	role := req.Role
	if role == "" {
		role = entity.UserRoleViewer
	}
	if !validUserRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email %s already registered", ErrValidation, email)
	} else if err != repository.ErrNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	_ = s.activity.Log(ctx, "INSERT", "profiles", user.ID, nil)
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id string, req UpdateUserRequest) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		if !validUserRole(*req.Role) {
			return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, *req.Role)
		}
		user.Role = *req.Role
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			return nil, fmt.Errorf("%w: password too short", ErrValidation)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	_ = s.activity.Log(ctx, "UPDATE", "profiles", user.ID, nil)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.activity.Log(ctx, "DELETE", "profiles", id, nil)
	return nil
}
