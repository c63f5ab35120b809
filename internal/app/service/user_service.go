package service

import (
	"context"
	"errors"
	"time"

	"user_api/internal/common"
	"user_api/internal/domain/model"
	"user_api/internal/domain/repository"

	"github.com/google/uuid"
)

// listLimit bounds every email-index query issued by List.
const listLimit = 50

type UserService struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo, now: time.Now}
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
}

// UpdateUserRequest uses pointer fields so an explicit false or empty
// value is distinguishable from an omitted one.
type UpdateUserRequest struct {
	Fullname *string `json:"fullname"`
	Verified *bool   `json:"verified"`
}

func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*model.User, error) {
	if req.Email == "" {
		return nil, common.BadRequest("Email is required.")
	}
	if req.Fullname == "" {
		return nil, common.BadRequest("Fullname is required.")
	}

	// Best-effort pre-check for a friendly message. The conditional
	// put below is the authoritative uniqueness guard.
	existing, err := s.userRepo.FindByEmailPrefix(ctx, req.Email+"#", 1)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, common.BadRequest("Email already exists.")
	}

	now := s.now().UTC()
	user := &model.User{
		ID:        uuid.NewString(),
		Email:     req.Email,
		Fullname:  req.Fullname,
		Roles:     []string{model.RoleUser},
		Verified:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.BadRequest("Email already exists.")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// List returns up to 50 users, optionally filtered by a case-sensitive
// email prefix.
func (s *UserService) List(ctx context.Context, emailPrefix string) ([]model.User, error) {
	return s.userRepo.FindByEmailPrefix(ctx, emailPrefix, listLimit)
}

func (s *UserService) Update(ctx context.Context, id string, req UpdateUserRequest) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Fullname != nil {
		user.Fullname = *req.Fullname
	}
	if req.Verified != nil {
		user.Verified = *req.Verified
	}

	now := s.now().UTC()
	// verified_date is set on the first transition to verified and is
	// never cleared, even if verified is later toggled back to false.
	if user.Verified && user.VerifiedDate == nil {
		user.VerifiedDate = &now
	}
	user.UpdatedAt = now

	fields := repository.UpdateFields{
		Fullname:     user.Fullname,
		Verified:     user.Verified,
		VerifiedDate: user.VerifiedDate,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.userRepo.Delete(ctx, id)
}
