package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intellibiz-backend/config"
	"intellibiz-backend/controllers"
	"intellibiz-backend/models"
	"intellibiz-backend/repository"
	"intellibiz-backend/services"
	"intellibiz-backend/utils"
)

const testSecret = "test-secret"

type testServer struct {
	t      *testing.T
	router *gin.Engine
	store  *repository.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	tokens := utils.NewTokenManager(testSecret, 1)
	svc := services.New(services.Deps{Store: store, Tokens: tokens})
	require.NoError(t, svc.Auth.SeedAdmin(context.Background(), "admin@intellibiz.test", "admin-pass-1"))

	cfg := &config.Config{CORSOrigins: []string{"http://localhost:3000"}}
	return &testServer{
		t:      t,
		router: SetupRouter(cfg, controllers.NewHandler(svc), tokens, store.Users),
		store:  store,
	}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *testServer) register(email string, role models.Role) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/auth/register", "", gin.H{
		"email": email, "password": "password-123", "name": "Test " + string(role), "role": role,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[services.AuthResult](s.t, w).Token
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return decode[services.AuthResult](s.t, w).Token
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBookingFlow(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin@intellibiz.test", "admin-pass-1")
	owner := s.register("owner@example.com", models.RoleBusinessOwner)
	customer := s.register("customer@example.com", models.RoleCustomer)

	w := s.do(http.MethodPost, "/api/businesses", owner, gin.H{
		"name": "Corner Cuts", "category": "Barber", "address": "12 Main St", "city": "Austin",
		"state": "TX", "zip": "73301", "phone": "512-555-0100", "email": "hi@corner.test",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	business := decode[models.Business](t, w)
	assert.Equal(t, models.BusinessPending, business.Status)

	w = s.do(http.MethodPost, "/api/businesses", owner, gin.H{
		"name": "No City", "category": "Barber", "address": "1 Elm St",
		"state": "TX", "zip": "73301", "phone": "512-555-0101", "email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "City")
	assert.Contains(t, w.Body.String(), "Email")

	w = s.do(http.MethodGet, "/api/businesses", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.Business](t, w))

	w = s.do(http.MethodPatch, "/api/businesses/"+business.ID.String()+"/approve", customer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPatch, "/api/businesses/"+business.ID.String()+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPatch, "/api/businesses/"+business.ID.String()+"/reject", admin, gin.H{"reason": "late"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.BusinessRejected, decode[models.Business](t, w).Status)

	w = s.do(http.MethodPatch, "/api/businesses/"+business.ID.String()+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/services", owner, gin.H{"businessId": business.ID, "name": "Haircut", "price": 25, "duration": 30})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	svc := decode[models.Service](t, w)

	w = s.do(http.MethodPost, "/api/appointments", customer, gin.H{
		"businessId": business.ID, "serviceId": svc.ID, "date": "2024-06-01", "startTime": "10:00", "endTime": "10:30",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	appt := decode[models.Appointment](t, w)
	statusPath := "/api/appointments/" + appt.ID.String() + "/status"

	w = s.do(http.MethodPatch, statusPath, customer, gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	for _, next := range []string{"confirmed", "completed"} {
		w = s.do(http.MethodPatch, statusPath, owner, gin.H{"status": next})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = s.do(http.MethodPatch, statusPath, customer, gin.H{"status": "cancelled"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, "/api/appointments/"+appt.ID.String(), customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.AppointmentCompleted, decode[models.Appointment](t, w).Status)
}

func TestReviewModerationOverHTTP(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin@intellibiz.test", "admin-pass-1")
	customer := s.register("customer@example.com", models.RoleCustomer)

	business := models.Business{ID: mustUUID(t), Name: "Bakery", Status: models.BusinessApproved}
	require.NoError(t, s.store.Businesses.Create(context.Background(), &business))

	w := s.do(http.MethodPost, "/api/reviews", customer, gin.H{"businessId": business.ID, "rating": 5, "comment": "Fresh bread"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	review := decode[services.ReviewView](t, w)

	base := "/api/reviews/" + review.ID.String()
	w = s.do(http.MethodPatch, base+"/flag", admin, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code, "reason required")

	w = s.do(http.MethodPatch, base+"/flag", admin, gin.H{"reason": "spam"})
	require.Equal(t, http.StatusOK, w.Code)
	flagged := decode[services.ReviewView](t, w)
	assert.True(t, flagged.IsFlagged)
	assert.Equal(t, models.ReviewPending, flagged.Status)

	w = s.do(http.MethodPatch, base+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	approved := decode[services.ReviewView](t, w)
	assert.Equal(t, models.ReviewApproved, approved.Status)
	assert.True(t, approved.IsFlagged)
	assert.Equal(t, "flagged", approved.Display)
}

func TestAuthErrors(t *testing.T) {
	s := newTestServer(t)
	customer := s.register("customer@example.com", models.RoleCustomer)

	w := s.do(http.MethodGet, "/api/appointments", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/businesses", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "bad token rejected even on public routes")

	users, err := s.store.Users.List(context.Background(), repository.UserFilter{Email: "customer@example.com"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	expired, err := utils.NewTokenManager(testSecret, -1).Generate(users[0].ID, models.RoleCustomer)
	require.NoError(t, err)
	w = s.do(http.MethodGet, "/api/appointments", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token expired", decode[errorBody](t, w).Error)

	w = s.do(http.MethodGet, "/api/admin/analytics", customer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/auth/me", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "customer@example.com", decode[models.User](t, w).Email)
}

func TestMessagesRoutes(t *testing.T) {
	s := newTestServer(t)
	owner := s.register("owner@example.com", models.RoleBusinessOwner)
	customer := s.register("customer@example.com", models.RoleCustomer)

	w := s.do(http.MethodGet, "/auth/me", owner, nil)
	ownerUser := decode[models.User](t, w)

	w = s.do(http.MethodPost, "/api/messages", customer, gin.H{"receiverId": ownerUser.ID, "content": "Open Sunday?"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	msg := decode[models.Message](t, w)

	w = s.do(http.MethodGet, "/api/messages/unread-count", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode[map[string]any](t, w)["count"])

	w = s.do(http.MethodPatch, "/api/messages/"+msg.ID.String()+"/read", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/messages/unread-count", owner, nil)
	assert.Equal(t, float64(0), decode[map[string]any](t, w)["count"])
}

func mustUUID(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := uuid.NewRandom()
	require.NoError(t, err)
	return id
}
