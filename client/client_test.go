package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intellibiz-backend/config"
	"intellibiz-backend/controllers"
	"intellibiz-backend/models"
	"intellibiz-backend/policy"
	"intellibiz-backend/repository"
	"intellibiz-backend/routes"
	"intellibiz-backend/services"
	"intellibiz-backend/utils"
)

const testSecret = "client-test-secret"

func newAPI(t *testing.T) (*httptest.Server, *repository.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := repository.NewMemoryStore()
	tokens := utils.NewTokenManager(testSecret, 1)
	svc := services.New(services.Deps{Store: store, Tokens: tokens})
	require.NoError(t, svc.Auth.SeedAdmin(context.Background(), "admin@intellibiz.test", "admin-pass-1"))

	cfg := &config.Config{CORSOrigins: []string{"http://localhost:3000"}}
	srv := httptest.NewServer(routes.SetupRouter(cfg, controllers.NewHandler(svc), tokens, store.Users))
	t.Cleanup(srv.Close)
	return srv, store
}

func TestSessionPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewSession(path)
	require.NoError(t, s.Init())
	assert.False(t, s.Authenticated())

	user := &models.User{Email: "pat@example.com", Role: models.RoleCustomer}
	require.NoError(t, s.Set("tok", user))
	require.NoError(t, s.SetRedirectAfterLogin("/appointments"))

	reloaded := NewSession(path)
	require.NoError(t, reloaded.Init())
	assert.Equal(t, "tok", reloaded.Token())
	assert.Equal(t, "pat@example.com", reloaded.User().Email)

	require.NoError(t, reloaded.Clear())
	assert.False(t, reloaded.Authenticated())
	assert.Nil(t, reloaded.User())

	redirect, err := reloaded.TakeRedirectAfterLogin()
	require.NoError(t, err)
	assert.Equal(t, "/appointments", redirect)
	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist), "empty session leaves no file")
}

func TestSessionDiscardsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := NewSession(path)
	require.NoError(t, s.Init())
	assert.False(t, s.Authenticated())
}

func TestExpiredTokenClearsSession(t *testing.T) {
	srv, store := newAPI(t)
	ctx := context.Background()

	user := &models.User{Email: "pat@example.com", Role: models.RoleCustomer, IsActive: true}
	user.ID = mustID(t)
	require.NoError(t, store.Users.Create(ctx, user))
	expired, err := utils.NewTokenManager(testSecret, -1).Generate(user.ID, user.Role)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "session.json")
	session := NewSession(path)
	require.NoError(t, session.Set(expired, user))

	c := New(srv.URL, session)
	_, err = c.ListAppointments(ctx)

	var unauthorized *UnauthorizedError
	require.ErrorAs(t, err, &unauthorized)
	assert.Equal(t, "/login", unauthorized.Redirect())
	assert.False(t, session.Authenticated())
	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestForbiddenCalls(t *testing.T) {
	srv, _ := newAPI(t)
	ctx := context.Background()

	c := New(srv.URL, NewSession(""))
	assert.Empty(t, c.Session().Capabilities())
	_, err := c.Register(ctx, services.RegisterInput{Email: "pat@example.com", Password: "password-123", Name: "Pat"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []policy.Capability{policy.AppointmentBook, policy.ReviewWrite, policy.MessageSend}, c.Session().Capabilities())

	_, err = c.ApproveBusiness(ctx, mustID(t))
	assert.ErrorIs(t, err, ErrForbidden, "rejected locally by policy")

	// A session that believes it is an admin is still stopped by the server.
	forged := *c.Session().User()
	forged.Role = models.RoleAdmin
	require.NoError(t, c.Session().Set(c.Session().Token(), &forged))
	_, err = c.ApproveBusiness(ctx, mustID(t))
	assert.ErrorIs(t, err, ErrForbidden)
	assert.True(t, c.Session().Authenticated(), "403 keeps the session")
}

func TestRefreshPicksUpRoleChange(t *testing.T) {
	srv, store := newAPI(t)
	ctx := context.Background()

	c := New(srv.URL, NewSession(""))
	user, err := c.Register(ctx, services.RegisterInput{Email: "sam@example.com", Password: "password-123", Name: "Sam"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, c.Session().User().Role)

	stored, err := store.Users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	stored.Role = models.RoleBusinessOwner
	require.NoError(t, store.Users.Save(ctx, stored))

	require.NoError(t, c.Session().Refresh(ctx, c))
	assert.Equal(t, models.RoleBusinessOwner, c.Session().User().Role)
}

func TestModerationThroughClient(t *testing.T) {
	srv, _ := newAPI(t)
	ctx := context.Background()

	owner := New(srv.URL, NewSession(""))
	_, err := owner.Register(ctx, services.RegisterInput{Email: "o@example.com", Password: "password-123", Name: "O", Role: models.RoleBusinessOwner})
	require.NoError(t, err)
	b, err := owner.SubmitBusiness(ctx, services.BusinessInput{
		Name: "Shop", Category: "Retail", Address: "1 A St", City: "Reno", State: "NV", Zip: "89501",
		Phone: "775-555-0100", Email: "shop@example.com",
	})
	require.NoError(t, err)

	admin := New(srv.URL, NewSession(""))
	_, err = admin.Login(ctx, "admin@intellibiz.test", "admin-pass-1")
	require.NoError(t, err)

	rejected, err := admin.RejectBusiness(ctx, b.ID, "no storefront")
	require.NoError(t, err)
	assert.Equal(t, models.BusinessRejected, rejected.Status)
	assert.Equal(t, "no storefront", rejected.RejectionReason)

	approved, err := admin.ApproveBusiness(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BusinessApproved, approved.Status)

	mine, err := owner.ListBusinesses(ctx, services.BusinessQuery{Mine: true})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, models.BusinessApproved, mine[0].Status)

	_, err = owner.ApproveBusiness(ctx, b.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func mustID(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := uuid.NewRandom()
	require.NoError(t, err)
	return id
}
