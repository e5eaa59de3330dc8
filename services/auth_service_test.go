package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intellibiz-backend/apperrors"
	"intellibiz-backend/models"
	"intellibiz-backend/policy"
)

type stubVerifier struct {
	profile *OAuthProfile
	err     error
}

func (v stubVerifier) Verify(context.Context, string) (*OAuthProfile, error) {
	return v.profile, v.err
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Auth.Register(f.ctx, RegisterInput{
		Email:    " New.Owner@Example.com ",
		Password: "correct-horse",
		Name:     "New Owner",
		Role:     models.RoleBusinessOwner,
	})
	require.NoError(t, err)
	assert.Equal(t, "new.owner@example.com", res.User.Email)
	assert.Equal(t, models.RoleBusinessOwner, res.User.Role)
	assert.NotEmpty(t, res.Token)

	_, err = f.svc.Auth.Register(f.ctx, RegisterInput{Email: "new.owner@example.com", Password: "whatever1", Name: "x"})
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeConflict))

	_, err = f.svc.Auth.Register(f.ctx, RegisterInput{Email: "boss@example.com", Password: "whatever1", Name: "x", Role: models.RoleAdmin})
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation), "admins cannot self-register")

	login, err := f.svc.Auth.Login(f.ctx, LoginInput{Email: "NEW.OWNER@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	require.NotNil(t, login.User.LastLogin)
	assert.Equal(t, fixedNow, *login.User.LastLogin)

	_, err = f.svc.Auth.Login(f.ctx, LoginInput{Email: "new.owner@example.com", Password: "wrong"})
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeUnauthorized))

	me, err := f.svc.Auth.Me(f.ctx, policy.Actor{UserID: res.User.ID, Role: res.User.Role})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, me.ID)
}

func TestOAuthLoginCreatesCustomer(t *testing.T) {
	f := newFixture(t)
	f.svc.Auth.oauth = map[string]OAuthVerifier{
		models.ProviderGoogle: stubVerifier{profile: &OAuthProfile{Email: "Pat@Gmail.com", Name: "Pat", EmailVerified: true}},
	}

	first, err := f.svc.Auth.OAuthLogin(f.ctx, models.ProviderGoogle, "access")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, first.User.Role)
	assert.Equal(t, models.ProviderGoogle, first.User.Provider)

	second, err := f.svc.Auth.OAuthLogin(f.ctx, models.ProviderGoogle, "access")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID, "existing account reused")

	_, err = f.svc.Auth.OAuthLogin(f.ctx, "myspace", "access")
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation))

	f.svc.Auth.oauth[models.ProviderFacebook] = stubVerifier{err: apperrors.NewUnauthorizedError("Invalid provider token")}
	_, err = f.svc.Auth.OAuthLogin(f.ctx, models.ProviderFacebook, "expired")
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeUnauthorized))
}

func TestOAuthLoginRefusesUnverifiedOrAdminEmail(t *testing.T) {
	f := newFixture(t)

	f.svc.Auth.oauth = map[string]OAuthVerifier{
		models.ProviderGoogle: stubVerifier{profile: &OAuthProfile{Email: "customer@example.com", Name: "Mallory"}},
	}
	_, err := f.svc.Auth.OAuthLogin(f.ctx, models.ProviderGoogle, "access")
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeUnauthorized), "unverified email cannot claim an account")

	f.svc.Auth.oauth[models.ProviderGoogle] = stubVerifier{profile: &OAuthProfile{Email: "new@example.com", EmailVerified: false}}
	_, err = f.svc.Auth.OAuthLogin(f.ctx, models.ProviderGoogle, "access")
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeUnauthorized), "unverified email cannot open an account")
	created, err := f.svc.Auth.findByEmail(f.ctx, "new@example.com")
	require.NoError(t, err)
	assert.Nil(t, created)

	f.svc.Auth.oauth[models.ProviderGoogle] = stubVerifier{profile: &OAuthProfile{Email: "admin@example.com", EmailVerified: true}}
	_, err = f.svc.Auth.OAuthLogin(f.ctx, models.ProviderGoogle, "access")
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeUnauthorized), "admins use passwords")

	f.svc.Auth.oauth[models.ProviderGoogle] = stubVerifier{profile: &OAuthProfile{Email: "customer@example.com", EmailVerified: true}}
	res, err := f.svc.Auth.OAuthLogin(f.ctx, models.ProviderGoogle, "access")
	require.NoError(t, err)
	assert.Equal(t, f.customer.UserID, res.User.ID, "verified email links to the existing account")
}

func TestSeedAdmin(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.Auth.SeedAdmin(f.ctx, "root@intellibiz.test", "s3cret-pass"))
	require.NoError(t, f.svc.Auth.SeedAdmin(f.ctx, "root@intellibiz.test", "s3cret-pass"))

	admins, err := f.svc.Users.List(f.ctx, f.admin, models.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, admins, 2, "fixture admin plus one seeded admin")

	res, err := f.svc.Auth.Login(f.ctx, LoginInput{Email: "root@intellibiz.test", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.User.Role)
}
