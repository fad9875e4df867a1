package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// accesstokenの有効期限
const accessTokenTTL = 24 * time.Hour

// refreshtokenの有効期限
const refreshTokenTTL = 7 * 24 * time.Hour

var (
	// emailが既に使用済み（409で返す）
	ErrEmailAlreadyUsed = errors.New("email already used")

	// usernameが既に使用済み（409で返す）
	ErrUsernameAlreadyUsed = errors.New("username already used")
)

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, username, email, password, password2 string) error
	ValidateLogin(ctx context.Context, email, password string) error
	ValidateRefresh(ctx context.Context, refreshToken string) error
}

type UserDTO struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Role       string    `json:"role"`
	DateJoined time.Time `json:"date_joined"`
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	Password2 string
	FirstName string
	LastName  string
}

type TokenPairOutput struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
	ExpiresIn    int    `json:"expires_in"`
}

type AuthUsecase struct {
	cfg       config.Config
	users     repository.UserRepository
	rtRepo    repository.RefreshTokenRepository
	validator AuthValidator
}

func NewAuthUsecase(
	cfg config.Config,
	users repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	validator AuthValidator,
) *AuthUsecase {
	return &AuthUsecase{
		cfg:       cfg,
		users:     users,
		rtRepo:    rtRepo,
		validator: validator,
	}
}

// 会員登録。パスワードは必ずbcryptで保存する（平文保存しない）
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserDTO, error) {
	if err := u.validator.ValidateRegister(ctx, in.Username, in.Email, in.Password, in.Password2); err != nil {
		//重複は409、それ以外の検証エラーは400
		if errors.Is(err, ErrEmailAlreadyUsed) || errors.Is(err, ErrUsernameAlreadyUsed) {
			return UserDTO{}, NewHTTPError(http.StatusConflict, err.Error())
		}
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(pwHash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         model.RoleUser,
	}

	if err := u.users.Create(ctx, user); err != nil {
		//username/emailの重複
		if errors.Is(err, repository.ErrConflict) {
			return UserDTO{}, NewHTTPError(http.StatusConflict, "username or email already used")
		}
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserDTO(user), nil
}

// ログイン（access + refreshの発行）
func (u *AuthUsecase) Login(ctx context.Context, email, password, userAgent string) (TokenPairOutput, error) {
	if err := u.validator.ValidateLogin(ctx, email, password); err != nil {
		return TokenPairOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil || user == nil {
		//存在しないことは漏らさない
		return TokenPairOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return TokenPairOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	accessToken, expiresIn, err := u.issueAccessToken(user)
	if err != nil {
		return TokenPairOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	//refresh tokenはhashだけDBに保存
	refreshPlain, refreshHash, err := newRandomTokenAndHash()
	if err != nil {
		return TokenPairOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	rt := &model.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: refreshHash,
		UserAgent: userAgent,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}

	if err := u.rtRepo.Create(ctx, rt); err != nil {
		return TokenPairOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return TokenPairOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshPlain,
		ExpiresIn:    expiresIn,
	}, nil
}

// refresh tokenのローテーション。
// 使用済みトークンの再提示は盗難とみなし、全トークンを破棄する。
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken, userAgent string) (TokenPairOutput, error) {
	if err := u.validator.ValidateRefresh(ctx, refreshToken); err != nil {
		return TokenPairOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	hash := hashToken(refreshToken)

	rt, err := u.rtRepo.FindByTokenHash(ctx, hash)
	if errors.Is(err, repository.ErrNotFound) {
		return TokenPairOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}
	if err != nil {
		return TokenPairOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := time.Now()

	if rt.RevokedAt != nil || now.After(rt.ExpiresAt) {
		return TokenPairOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	//再利用検知
	if rt.UsedAt != nil {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return TokenPairOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	user, err := u.users.FindByID(ctx, rt.UserID)
	if err != nil || user == nil {
		return TokenPairOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	if err := u.rtRepo.MarkUsed(ctx, rt.ID, now); err != nil {
		return TokenPairOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	accessToken, expiresIn, err := u.issueAccessToken(user)
	if err != nil {
		return TokenPairOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	newPlain, newHash, err := newRandomTokenAndHash()
	if err != nil {
		return TokenPairOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	next := &model.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: newHash,
		UserAgent: userAgent,
		ExpiresAt: now.Add(refreshTokenTTL),
	}

	if err := u.rtRepo.Create(ctx, next); err != nil {
		return TokenPairOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return TokenPairOutput{
		AccessToken:  accessToken,
		RefreshToken: newPlain,
		ExpiresIn:    expiresIn,
	}, nil
}

// HS256のaccess tokenを発行
func (u *AuthUsecase) issueAccessToken(user *model.User) (string, int, error) {
	now := time.Now()
	expiresAt := now.Add(accessTokenTTL)

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return "", 0, err
	}

	return signed, int(accessTokenTTL.Seconds()), nil
}

// ランダムトークン（平文）とそのsha256 hashを返す
func newRandomTokenAndHash() (string, string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}

	plain := base64.RawURLEncoding.EncodeToString(buf)
	return plain, hashToken(plain), nil
}

func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       string(u.Role),
		DateJoined: u.CreatedAt,
	}
}
