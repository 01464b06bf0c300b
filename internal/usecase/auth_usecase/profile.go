package auth

import (
	"context"
	"strings"

	"autoparts/internal/domain/model"
	"autoparts/internal/repository"
	"autoparts/internal/validator"
)

// 画面に返すプロフィール（パスワードは含めない）
type Profile struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	IsAdmin  bool   `json:"is_admin"`
}

func toProfile(u *model.User) Profile {
	return Profile{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Phone:    u.Phone,
		Address:  u.Address,
		IsAdmin:  u.IsAdmin(),
	}
}

type UpdateProfileInput struct {
	FullName string
	Phone    string
	Address  string
}

var ErrInvalidProfile = validator.ErrInvalidProfile

type ProfileUsecase struct {
	userRepo repository.UserRepository
}

func NewProfileUsecase(userRepo repository.UserRepository) *ProfileUsecase {
	return &ProfileUsecase{userRepo: userRepo}
}

func (u *ProfileUsecase) Get(ctx context.Context, userID int64) (Profile, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return toProfile(user), nil
}

func (u *ProfileUsecase) Update(ctx context.Context, userID int64, in UpdateProfileInput) (Profile, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)

	if err := validator.ValidateProfile(in.FullName, in.Phone, in.Address); err != nil {
		return Profile{}, err
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	user.FullName = in.FullName
	user.Phone = in.Phone
	user.Address = in.Address
	if err := u.userRepo.Update(ctx, user); err != nil {
		return Profile{}, err
	}
	return toProfile(user), nil
}
