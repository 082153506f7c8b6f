package usecase

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"zamar-backend/internal/model"
	"zamar-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Unambiguous characters only: no 0/O or 1/I.
const referralAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const referralCodeLength = 8

type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	ReferralCode string
}

type AuthUsecase struct {
	users    repository.UserRepository
	roles    repository.RoleRepository
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthUsecase(users repository.UserRepository, roles repository.RoleRepository, secret string, tokenTTL time.Duration) *AuthUsecase {
	return &AuthUsecase{users: users, roles: roles, secret: []byte(secret), tokenTTL: tokenTTL}
}

func (u *AuthUsecase) Register(in RegisterInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	// 1. Email must be free
	if _, err := u.users.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	// 2. Resolve the referrer, if any
	var referredBy *uint
	if code := strings.ToUpper(strings.TrimSpace(in.ReferralCode)); code != "" {
		referrer, err := u.users.FindByReferralCode(code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidReferral
		}
		if err != nil {
			return nil, fmt.Errorf("lookup referral code: %w", err)
		}
		referredBy = &referrer.ID
	}

	// 3. Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role, err := u.roles.GetByName(model.RoleListener)
	if err != nil {
		return nil, fmt.Errorf("load listener role: %w", err)
	}

	code, err := u.uniqueReferralCode()
	if err != nil {
		return nil, err
	}

	// 4. Save
	user := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Password:     string(hashedPassword),
		RoleID:       role.ID,
		ReferralCode: code,
		ReferredByID: referredBy,
		IsActive:     true,
	}
	if err := u.users.Create(user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	user.Role = *role
	return user, nil
}

func (u *AuthUsecase) Login(email, password string) (string, *model.User, error) {
	// 1. Find user by email
	user, err := u.users.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, ErrForbidden
	}

	// 2. Compare password with the stored hash
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	// 3. Issue JWT
	token, err := u.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (u *AuthUsecase) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := u.users.FindByID(userID)
	if err != nil {
		return ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	return u.users.Update(user)
}

func (u *AuthUsecase) GenerateToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role.Name,
		"exp":     time.Now().Add(u.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := token.SignedString(u.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return t, nil
}

func (u *AuthUsecase) uniqueReferralCode() (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		code, err := NewReferralCode()
		if err != nil {
			return "", err
		}
		exists, err := u.users.ReferralCodeExists(code)
		if err != nil {
			return "", fmt.Errorf("check referral code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("could not allocate a unique referral code")
}

// NewReferralCode returns a random 8-character code.
func NewReferralCode() (string, error) {
	buf := make([]byte, referralCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	for i, b := range buf {
		buf[i] = referralAlphabet[int(b)%len(referralAlphabet)]
	}
	return string(buf), nil
}
