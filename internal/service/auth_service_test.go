package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"nashr/internal/config"
	"nashr/internal/mail"
	"nashr/internal/middleware"
	"nashr/internal/models"
	"nashr/internal/repository"
	"nashr/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-0123456789"

func newAuthService(t *testing.T, now time.Time) (*AuthService, repository.UserRepository, *recordingMailer) {
	t.Helper()
	users := repository.NewUserRepository(testutil.NewTestDB(t))
	mailer := &recordingMailer{}
	svc := NewAuthService(users, mailer, AuthConfig{
		JWTSecret: testSecret,
		TokenTTL:  time.Hour,
		BaseURL:   "https://medium-fa.ir",
	}, func() time.Time { return now })
	return svc, users, mailer
}

func validSignup() SignupInput {
	return SignupInput{Name: "مریم", Email: "Maryam@Example.com", Username: "maryam", Password: "secret1"}
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()
	svc, users, mailer := newAuthService(t, time.Now())

	user, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)
	assert.Equal(t, "maryam@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.Password)

	stored, err := users.GetByEmail(ctx, "maryam@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, user.ID, stored.ID)

	sent := mailer.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, mail.WelcomeSubject, sent[0].Subject)
}

func TestAuthService_Signup_Validation(t *testing.T) {
	svc, _, _ := newAuthService(t, time.Now())

	tests := []struct {
		name   string
		mutate func(*SignupInput)
		want   string
	}{
		{"short name", func(in *SignupInput) { in.Name = "م" }, "نام باید حداقل ۲ کاراکتر باشد"},
		{"bad email", func(in *SignupInput) { in.Email = "nope" }, "ایمیل نامعتبر است"},
		{"short username", func(in *SignupInput) { in.Username = "ab" }, "نام کاربری باید حداقل ۳ کاراکتر باشد"},
		{"short password", func(in *SignupInput) { in.Password = "123" }, "رمز عبور باید حداقل ۶ کاراکتر باشد"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validSignup()
			tt.mutate(&in)
			_, err := svc.Signup(context.Background(), in)
			appErr := assertAppError(t, err, models.CodeValidation)
			assert.Equal(t, tt.want, appErr.Message)
		})
	}
}

func TestAuthService_Signup_Duplicates(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService(t, time.Now())
	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	sameEmail := validSignup()
	sameEmail.Username = "other"
	_, err = svc.Signup(ctx, sameEmail)
	appErr := assertAppError(t, err, models.CodeValidation)
	assert.Equal(t, "این ایمیل قبلاً ثبت شده است", appErr.Message)

	sameUsername := validSignup()
	sameUsername.Email = "other@example.com"
	_, err = svc.Signup(ctx, sameUsername)
	appErr = assertAppError(t, err, models.CodeValidation)
	assert.Equal(t, "این نام کاربری قبلاً استفاده شده است", appErr.Message)
}

func TestAuthService_LoginIssuesVerifiableToken(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService(t, time.Now())
	user, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	middleware.InitMiddleware(&config.Config{JWTSecret: testSecret})

	res, err := svc.Login(ctx, LoginInput{Email: "MARYAM@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)

	sub, err := middleware.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, sub)

	_, err = svc.Login(ctx, LoginInput{Email: "maryam@example.com", Password: "wrong-pass"})
	assertAppError(t, err, models.CodeUnauthorized)

	_, err = svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "secret1"})
	assertAppError(t, err, models.CodeUnauthorized)
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, users, mailer := newAuthService(t, now)
	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	msg, err := svc.ForgotPassword(ctx, "maryam@example.com")
	require.NoError(t, err)
	assert.Equal(t, MsgForgotPassword, msg)

	sent := mailer.messages()
	require.Len(t, sent, 2)
	reset := sent[1]
	assert.Equal(t, mail.ResetSubject, reset.Subject)

	stored, err := users.GetByEmail(ctx, "maryam@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.ResetToken)
	token := *stored.ResetToken
	assert.Len(t, token, 64)
	assert.True(t, strings.Contains(reset.HTML, "https://medium-fa.ir/reset-password?token="+token))
	assert.WithinDuration(t, now.Add(ResetTokenTTL), *stored.ResetTokenExpiry, time.Second)

	err = svc.ResetPassword(ctx, token, "123")
	assertValidationError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, token, "brand-new"))

	_, err = svc.Login(ctx, LoginInput{Email: "maryam@example.com", Password: "brand-new"})
	require.NoError(t, err)

	// the token is single use
	err = svc.ResetPassword(ctx, token, "another1")
	appErr := assertAppError(t, err, models.CodeValidation)
	assert.Equal(t, "توکن نامعتبر یا منقضی شده است", appErr.Message)
}

func TestAuthService_ForgotPassword_UnknownEmailLooksTheSame(t *testing.T) {
	svc, _, mailer := newAuthService(t, time.Now())

	msg, err := svc.ForgotPassword(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.Equal(t, MsgForgotPassword, msg)
	assert.Empty(t, mailer.messages())

	_, err = svc.ForgotPassword(context.Background(), "  ")
	assertValidationError(t, err)
}

func TestAuthService_ForgotPassword_MailFailureIsNotReported(t *testing.T) {
	ctx := context.Background()
	svc, _, mailer := newAuthService(t, time.Now())
	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	mailer.err = errors.New("relay down")
	msg, err := svc.ForgotPassword(ctx, "maryam@example.com")
	require.NoError(t, err)
	assert.Equal(t, MsgForgotPassword, msg)
}

func TestAuthService_ResetPassword_ExpiredToken(t *testing.T) {
	ctx := context.Background()
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, users, _ := newAuthService(t, issued)
	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)
	_, err = svc.ForgotPassword(ctx, "maryam@example.com")
	require.NoError(t, err)

	stored, err := users.GetByEmail(ctx, "maryam@example.com")
	require.NoError(t, err)

	svc.clock = func() time.Time { return issued.Add(ResetTokenTTL + time.Minute) }
	err = svc.ResetPassword(ctx, *stored.ResetToken, "brand-new")
	assertValidationError(t, err)
}
