package service

import (
	"context"
	"errors"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/validators"

	"gorm.io/gorm"
)

type UserService interface {
	List(ctx context.Context, actor permission.Actor, search string, page dto.Page) (*dto.Paginated[dto.UserResponse], error)
	Create(ctx context.Context, actor permission.Actor, req dto.CreateUserRequest) (*dto.UserResponse, error)
	Get(ctx context.Context, actor permission.Actor, username string) (*dto.UserResponse, error)
	Update(ctx context.Context, actor permission.Actor, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, actor permission.Actor, username string) error
	GetMe(ctx context.Context, me *models.User) (*dto.UserResponse, error)
	UpdateMe(ctx context.Context, me *models.User, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	// CreateSuperuser is for operator tooling; it bypasses authorization.
	CreateSuperuser(ctx context.Context, username, email string) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, actor permission.Actor, search string, page dto.Page) (*dto.Paginated[dto.UserResponse], error) {
	if err := permission.Authorize(actor, permission.Users, permission.Read, false); err != nil {
		return nil, err
	}

	users, total, err := s.userRepo.List(ctx, search, page)
	if err != nil {
		return nil, err
	}

	results := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		results = append(results, dto.UserFromModel(&users[i]))
	}
	return dto.NewPaginated(results, total), nil
}

func (s *userService) Create(ctx context.Context, actor permission.Actor, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := permission.Authorize(actor, permission.Users, permission.Create, false); err != nil {
		return nil, err
	}

	user := req.ToModel()
	if err := s.checkUnique(ctx, &user, "", ""); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		return nil, duplicateUser(err)
	}

	resp := dto.UserFromModel(&user)
	return &resp, nil
}

func (s *userService) CreateSuperuser(ctx context.Context, username, email string) (*dto.UserResponse, error) {
	if email == "" {
		return nil, NewValidationError("email", "this field is required")
	}
	user := models.User{Username: username, Email: email, Role: models.RoleAdmin, IsSuperuser: true}
	if err := s.checkUnique(ctx, &user, "", ""); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		return nil, duplicateUser(err)
	}

	resp := dto.UserFromModel(&user)
	return &resp, nil
}

func (s *userService) Get(ctx context.Context, actor permission.Actor, username string) (*dto.UserResponse, error) {
	if err := permission.Authorize(actor, permission.Users, permission.Read, false); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, "user")
	}
	resp := dto.UserFromModel(user)
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, actor permission.Actor, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := permission.Authorize(actor, permission.Users, permission.Update, false); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return s.apply(ctx, user, req, permission.CanChangeRole(actor))
}

func (s *userService) Delete(ctx context.Context, actor permission.Actor, username string) error {
	if err := permission.Authorize(actor, permission.Users, permission.Delete, false); err != nil {
		return err
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return notFound(err, "user")
	}
	return notFound(s.userRepo.Delete(ctx, user.ID), "user")
}

func (s *userService) GetMe(ctx context.Context, me *models.User) (*dto.UserResponse, error) {
	if err := permission.Authorize(permission.ActorOf(me), permission.Me, permission.Read, true); err != nil {
		return nil, err
	}
	resp := dto.UserFromModel(me)
	return &resp, nil
}

// UpdateMe applies a self-edit. A role change is dropped unless the caller is an admin.
func (s *userService) UpdateMe(ctx context.Context, me *models.User, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	actor := permission.ActorOf(me)
	if err := permission.Authorize(actor, permission.Me, permission.Update, true); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, me.ID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return s.apply(ctx, user, req, permission.CanChangeRole(actor))
}

func (s *userService) apply(ctx context.Context, user *models.User, req dto.UpdateUserRequest, allowRole bool) (*dto.UserResponse, error) {
	prevUsername, prevEmail := user.Username, user.Email
	req.ApplyTo(user, allowRole)

	if err := s.checkUnique(ctx, user, prevUsername, prevEmail); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, duplicateUser(err)
	}

	resp := dto.UserFromModel(user)
	return &resp, nil
}

// checkUnique validates the username and reports username/email collisions
// with other accounts. prev values are the record's current keys and are
// skipped.
func (s *userService) checkUnique(ctx context.Context, user *models.User, prevUsername, prevEmail string) error {
	verr := &ValidationError{}

	if user.Username != prevUsername {
		if err := validators.Username(user.Username); err != nil {
			verr.Add("username", err.Error())
		} else if _, err := s.userRepo.FindByUsername(ctx, user.Username); err == nil {
			verr.Add("username", "a user with that username already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	if user.Email != prevEmail {
		if _, err := s.userRepo.FindByEmail(ctx, user.Email); err == nil {
			verr.Add("email", "a user with that email already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	if !verr.empty() {
		return verr
	}
	return nil
}

func duplicateUser(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return NewValidationError("non_field_errors", "a user with that username or email already exists")
	}
	return err
}
