package service

import (
	"strings"

	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/model"
	"go-inventory-gst/internal/repository"
	"go-inventory-gst/pkg/logger"
	"go-inventory-gst/pkg/validator"

	"github.com/google/uuid"
)

type UserService interface {
	CreateUser(req *CreateUserRequest, creatorID string) (*model.User, error)
	UpdateUser(userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.User, error)
	DeleteUser(userID uuid.UUID) error
	UpdateUserPrivileges(userID uuid.UUID, privilegeCodes []string, updaterID string) (*model.User, error)
	GetAllUsers() ([]model.UserResponse, error)
	GetUserByID(id uuid.UUID) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"full_name" validate:"required"`
	PhoneNumber string `json:"phone_number"`
	RoleID      uint   `json:"role_id" validate:"required"`
}

type UpdateUserRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=6"`
	FullName    string  `json:"full_name" validate:"required"`
	PhoneNumber string  `json:"phone_number"`
	RoleID      uint    `json:"role_id" validate:"required"`
	IsActive    *bool   `json:"is_active"`
}

type userService struct {
	userRepo      repository.UserRepository
	privilegeRepo repository.PrivilegeRepository
	roleRepo      repository.RoleRepository
}

func NewUserService(userRepo repository.UserRepository, privilegeRepo repository.PrivilegeRepository, roleRepo repository.RoleRepository) UserService {
	return &userService{
		userRepo:      userRepo,
		privilegeRepo: privilegeRepo,
		roleRepo:      roleRepo,
	}
}

func (s *userService) CreateUser(req *CreateUserRequest, creatorID string) (*model.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.Validation("field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
		return nil, apperr.Conflict("email %s already registered", req.Email)
	}

	role, err := s.roleRepo.FindByID(req.RoleID)
	if err != nil {
		return nil, apperr.NotFound("role %d", req.RoleID)
	}

	user := &model.User{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		RoleID:      &req.RoleID,
		IsActive:    true,
	}
	user.CreatedBy = creatorID
	user.UpdatedBy = creatorID

	if err := user.SetPassword(req.Password); err != nil {
		logger.LogError("user", "CreateUser", err)
		return nil, apperr.Internal("failed to hash password")
	}

	// Direct grants start as a copy of the role's privileges; per-user
	// adjustments go through UpdateUserPrivileges.
	user.Privileges = role.Privileges

	if err := s.userRepo.Create(user); err != nil {
		logger.LogError("user", "CreateUser", err)
		return nil, apperr.Internal("failed to create user")
	}

	return user, nil
}

func (s *userService) UpdateUser(userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.Validation("field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperr.NotFound("user %s", userID)
	}

	if req.Email != user.Email {
		if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
			return nil, apperr.Conflict("email %s already registered", req.Email)
		}
	}

	role, err := s.roleRepo.FindByID(req.RoleID)
	if err != nil {
		return nil, apperr.NotFound("role %d", req.RoleID)
	}

	user.Email = req.Email
	user.FullName = req.FullName
	user.PhoneNumber = req.PhoneNumber
	user.RoleID = &req.RoleID
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = updaterID

	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			logger.LogError("user", "UpdateUser", err)
			return nil, apperr.Internal("failed to hash password")
		}
	}

	// Changing the role resets direct grants to the new role's set.
	user.Privileges = role.Privileges

	if err := s.userRepo.Update(user); err != nil {
		logger.LogError("user", "UpdateUser", err)
		return nil, apperr.Internal("failed to update user")
	}

	return s.userRepo.FindByID(userID)
}

func (s *userService) DeleteUser(userID uuid.UUID) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return apperr.NotFound("user %s", userID)
	}
	return s.userRepo.Delete(userID)
}

func (s *userService) UpdateUserPrivileges(userID uuid.UUID, privilegeCodes []string, updaterID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperr.NotFound("user %s", userID)
	}

	privileges, err := s.privilegeRepo.FindByCodes(privilegeCodes)
	if err != nil {
		logger.LogError("user", "UpdateUserPrivileges", err)
		return nil, apperr.Internal("failed to resolve privileges")
	}
	if len(privileges) != len(privilegeCodes) {
		return nil, apperr.Validation("unknown privilege code in %v", privilegeCodes)
	}

	if err := s.userRepo.UpdatePrivileges(userID, privileges); err != nil {
		logger.LogError("user", "UpdateUserPrivileges", err)
		return nil, apperr.Internal("failed to update privileges")
	}

	user.UpdatedBy = updaterID
	if err := s.userRepo.Update(user); err != nil {
		logger.LogError("user", "UpdateUserPrivileges", err)
	}

	return s.userRepo.FindByID(userID)
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("user %s", id)
	}
	response := user.ToResponse()
	return &response, nil
}
