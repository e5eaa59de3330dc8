package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"intellibiz-backend/models"
	"intellibiz-backend/policy"
	"intellibiz-backend/repository"
)

var fixedNow = time.Date(2024, 5, 31, 10, 0, 0, 0, time.UTC)

type stubTokens struct{}

func (stubTokens) Generate(userID uuid.UUID, role models.Role) (string, error) {
	return "token-" + string(role) + "-" + userID.String(), nil
}

type recordingNotifier struct {
	sent map[uuid.UUID][]string
}

func (n *recordingNotifier) Notify(_ context.Context, userID uuid.UUID, message string) {
	if n.sent == nil {
		n.sent = map[uuid.UUID][]string{}
	}
	n.sent[userID] = append(n.sent[userID], message)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(to, body string) (string, error) {
	args := m.Called(to, body)
	return args.String(0), args.Error(1)
}

type fixture struct {
	ctx      context.Context
	store    *repository.Store
	svc      *Services
	notifier *recordingNotifier

	admin    policy.Actor
	owner    policy.Actor
	customer policy.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:      context.Background(),
		store:    repository.NewMemoryStore(),
		notifier: &recordingNotifier{},
	}
	f.svc = New(Deps{
		Store:    f.store,
		Tokens:   stubTokens{},
		Notifier: f.notifier,
		Now:      func() time.Time { return fixedNow },
	})
	f.admin = f.addUser(t, models.RoleAdmin, "admin@example.com", "")
	f.owner = f.addUser(t, models.RoleBusinessOwner, "owner@example.com", "+15550000001")
	f.customer = f.addUser(t, models.RoleCustomer, "customer@example.com", "+15550000002")
	return f
}

func (f *fixture) addUser(t *testing.T, role models.Role, email, phone string) policy.Actor {
	t.Helper()
	u := &models.User{
		ID:       uuid.New(),
		Email:    email,
		Name:     string(role) + " user",
		Phone:    phone,
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, f.store.Users.Create(f.ctx, u))
	return policy.Actor{UserID: u.ID, Role: role}
}

func validBusiness() BusinessInput {
	return BusinessInput{
		Name:     "Corner Cuts",
		Category: "Barber",
		Address:  "12 Main St",
		City:     "Austin",
		State:    "TX",
		Zip:      "73301",
		Phone:    "(512) 555-0100",
		Email:    "hello@cornercuts.test",
	}
}

// approvedBusiness returns an approved business owned by f.owner with one
// active service.
func (f *fixture) approvedBusiness(t *testing.T) (*models.Business, *models.Service) {
	t.Helper()
	b, err := f.svc.Businesses.Submit(f.ctx, f.owner, validBusiness())
	require.NoError(t, err)
	b, err = f.svc.Businesses.Approve(f.ctx, f.admin, b.ID)
	require.NoError(t, err)
	svc, err := f.svc.Catalog.Create(f.ctx, f.owner, ServiceInput{BusinessID: b.ID, Name: "Haircut", Price: 25, Duration: 30})
	require.NoError(t, err)
	return b, svc
}

func (f *fixture) book(t *testing.T, businessID, serviceID uuid.UUID, date string) *models.Appointment {
	t.Helper()
	appt, err := f.svc.Appointments.Create(f.ctx, f.customer, BookingInput{
		BusinessID: businessID,
		ServiceID:  serviceID,
		Date:       date,
		StartTime:  "10:00",
		EndTime:    "10:30",
	})
	require.NoError(t, err)
	return appt
}
