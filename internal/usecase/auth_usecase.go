package usecase

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(userID int64, role model.Role, now time.Time) (token string, expiresAt time.Time, err error)
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type BcryptPasswordVerifier struct{}

func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

type AuthUsecase struct {
	userRepo repo.UserRepository
	hasher   PasswordHasher
	verifier PasswordVerifier
	issuer   AccessTokenIssuer
	clock    Clock
	log      *logrus.Logger
}

// DI
func NewAuthUsecase(
	userRepo repo.UserRepository,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	clock Clock,
	log *logrus.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		verifier: verifier,
		issuer:   issuer,
		clock:    clock,
		log:      log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type UserOutput struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	User        UserOutput `json:"user"`
	AccessToken string     `json:"access_token"`
	ExpiresIn   int        `json:"expires_in"`
}

func toUserOutput(u model.User) UserOutput {
	return UserOutput{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	}
}

// 会員登録。作成されるのは常にcustomer。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserOutput, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	if name == "" || email == "" || in.Password == "" {
		return UserOutput{}, NewHTTPError(http.StatusBadRequest, "all fields are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return UserOutput{}, NewHTTPError(http.StatusBadRequest, "invalid email format")
	}
	if len(in.Password) < 6 {
		return UserOutput{}, NewHTTPError(http.StatusBadRequest, "password too short")
	}

	//email重複チェック
	_, err := u.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return UserOutput{}, NewHTTPError(http.StatusBadRequest, "email already registered")
	}
	if err != repo.ErrNotFound {
		u.log.WithError(err).Error("find user failed")
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		u.log.WithError(err).Error("hash password failed")
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleCustomer,
		CreatedAt:    u.clock.Now(),
	}
	if err := u.userRepo.Create(ctx, &user); err != nil {
		u.log.WithError(err).Error("create user failed")
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserOutput(user), nil
}

// ログイン。emailの有無とパスワード不一致は同じ401で返す。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	user, err := u.userRepo.FindByEmail(ctx, email)
	if err == repo.ErrNotFound {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}
	if err != nil {
		u.log.WithError(err).Error("find user failed")
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !u.verifier.Verify(in.Password, user.PasswordHash) {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	now := u.clock.Now()
	token, expiresAt, err := u.issuer.Issue(user.ID, user.Role, now)
	if err != nil {
		u.log.WithError(err).Error("issue token failed")
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return LoginOutput{
		User:        toUserOutput(user),
		AccessToken: token,
		ExpiresIn:   int(expiresAt.Sub(now).Seconds()),
	}, nil
}

// トークンのユーザーを返す
func (u *AuthUsecase) Me(ctx context.Context, userID int64) (UserOutput, error) {
	if userID <= 0 {
		return UserOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err == repo.ErrNotFound {
		return UserOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		u.log.WithError(err).Error("find user failed")
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserOutput(user), nil
}
