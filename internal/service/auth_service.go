package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"nashr/internal/mail"
	"nashr/internal/middleware"
	"nashr/internal/models"
	"nashr/internal/repository"
	"nashr/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ResetTokenTTL is how long a password reset link stays valid.
const ResetTokenTTL = 24 * time.Hour

// User-facing auth messages.
const (
	MsgSignupOK        = "حساب کاربری با موفقیت ایجاد شد"
	MsgForgotPassword  = "اگر ایمیل در سیستم وجود داشته باشد، لینک بازیابی رمز عبور ارسال می‌شود"
	MsgResetPasswordOK = "رمز عبور با موفقیت بازنشانی شد"
)

// AuthConfig carries the token and link settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	BaseURL   string
}

// AuthService handles signup, login and password reset.
type AuthService struct {
	userRepo repository.UserRepository
	mailer   mail.Sender
	cfg      AuthConfig
	clock    Clock
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func NewAuthService(userRepo repository.UserRepository, mailer mail.Sender, cfg AuthConfig, clock Clock) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 7 * 24 * time.Hour
	}
	if mailer == nil {
		mailer = mail.LogSender{}
	}
	return &AuthService{userRepo: userRepo, mailer: mailer, cfg: cfg, clock: clock}
}

// Signup validates the form, rejects taken emails and usernames and stores a bcrypt hash.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)

	for _, err := range []error{
		validation.ValidateName(in.Name),
		validation.ValidateEmail(in.Email),
		validation.ValidateUsername(in.Username),
		validation.ValidatePassword(in.Password),
	} {
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}

	if taken, err := s.takenMessage(ctx, in.Email, in.Username); err != nil {
		return nil, internal("خطا در ایجاد حساب کاربری", err)
	} else if taken != "" {
		return nil, models.NewValidationError(taken)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError("خطا در ایجاد حساب کاربری", err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Username: in.Username,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			// lost a race with a concurrent signup
			if taken, lookupErr := s.takenMessage(ctx, in.Email, in.Username); lookupErr == nil && taken != "" {
				return nil, models.NewValidationError(taken)
			}
		}
		return nil, internal("خطا در ایجاد حساب کاربری", err)
	}

	if msg, err := mail.Welcome(user.Email, user.Name, s.cfg.BaseURL); err == nil {
		if err := s.mailer.Send(ctx, msg); err != nil {
			middleware.Logger.WarnContext(ctx, "welcome mail failed", "user", user.ID, "error", err)
		}
	}
	return user, nil
}

func (s *AuthService) takenMessage(ctx context.Context, email, username string) (string, error) {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "این ایمیل قبلاً ثبت شده است", nil
	}
	existing, err = s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "این نام کاربری قبلاً استفاده شده است", nil
	}
	return "", nil
}

// Login checks the credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, models.NewValidationError("ایمیل و رمز عبور الزامی هستند")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, internal("خطا در ورود", err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, models.NewUnauthorizedError("ایمیل یا رمز عبور اشتباه است")
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, models.NewInternalError("خطا در ورود", err)
	}
	return &LoginResult{Token: token, User: user}, nil
}

// IssueToken signs an HS256 access token whose subject is userID.
func (s *AuthService) IssueToken(userID string) (string, error) {
	if s.cfg.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := s.clock.now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iss": middleware.TokenIssuer,
		"aud": middleware.TokenAudience,
		"exp": now.Add(s.cfg.TokenTTL).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ForgotPassword stores a reset token and mails the link when the email is
// known. The answer is the same either way.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", models.NewValidationError("ایمیل الزامی است")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", internal("خطا در پردازش درخواست", err)
	}
	if user == nil {
		return MsgForgotPassword, nil
	}

	token, err := newResetToken()
	if err != nil {
		return "", models.NewInternalError("خطا در پردازش درخواست", err)
	}
	if err := s.userRepo.SetResetToken(ctx, user.ID, token, s.clock.now().Add(ResetTokenTTL)); err != nil {
		return "", internal("خطا در پردازش درخواست", err)
	}

	msg, err := mail.PasswordReset(user.Email, s.cfg.BaseURL, token)
	if err != nil {
		return "", models.NewInternalError("خطا در ارسال ایمیل بازیابی رمز عبور", err)
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		middleware.Logger.ErrorContext(ctx, "password reset mail failed", "user", user.ID, "error", err)
	}
	return MsgForgotPassword, nil
}

// ResetPassword consumes an unexpired token and replaces the password hash.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	token = strings.TrimSpace(token)
	if token == "" || password == "" {
		return models.NewValidationError("توکن و رمز عبور الزامی هستند")
	}
	if err := validation.ValidatePassword(password); err != nil {
		return models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByResetToken(ctx, token, s.clock.now())
	if err != nil {
		return internal("خطا در بازنشانی رمز عبور", err)
	}
	if user == nil {
		return models.NewValidationError("توکن نامعتبر یا منقضی شده است")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError("خطا در بازنشانی رمز عبور", err)
	}
	if err := s.userRepo.ResetPassword(ctx, user.ID, string(hashed)); err != nil {
		return internal("خطا در بازنشانی رمز عبور", err)
	}
	return nil
}

// newResetToken returns 32 random bytes as hex.
func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
