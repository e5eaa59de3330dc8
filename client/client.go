package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"intellibiz-backend/models"
	"intellibiz-backend/policy"
	"intellibiz-backend/services"
)

// ErrForbidden is returned for 403 responses and for calls the session's
// role may not make.
var ErrForbidden = errors.New("forbidden")

// UnauthorizedError is returned for 401 responses. The session has already
// been cleared when the caller sees it.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return "unauthorized: " + e.Message }

// Redirect is where the user should be sent next.
func (e *UnauthorizedError) Redirect() string { return LoginPath }

// APIError is any other non-2xx response.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// Client calls the API with the session token. Requests are not retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

func New(baseURL string, session *Session) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		session:    session,
	}
}

func (c *Client) Session() *Session { return c.session }

func (c *Client) require(cap policy.Capability) error {
	if !c.session.Can(cap) {
		return ErrForbidden
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var e struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			if err := c.session.Clear(); err != nil {
				return err
			}
			return &UnauthorizedError{Message: e.Error}
		case http.StatusForbidden:
			return ErrForbidden
		default:
			return &APIError{Status: resp.StatusCode, Code: e.Code, Message: e.Error}
		}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func call[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	var out T
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var res services.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", services.LoginInput{Email: email, Password: password}, &res); err != nil {
		return nil, err
	}
	return res.User, c.session.Set(res.Token, res.User)
}

func (c *Client) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	var res services.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", in, &res); err != nil {
		return nil, err
	}
	return res.User, c.session.Set(res.Token, res.User)
}

func (c *Client) Logout() error {
	return c.session.Clear()
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	return call[models.User](ctx, c, http.MethodGet, "/auth/me", nil)
}

func (c *Client) ListBusinesses(ctx context.Context, q services.BusinessQuery) ([]models.Business, error) {
	v := url.Values{}
	for k, val := range map[string]string{"category": q.Category, "city": q.City, "q": q.Query, "status": string(q.Status)} {
		if val != "" {
			v.Set(k, val)
		}
	}
	if q.Mine {
		v.Set("ownerId", "me")
	}
	path := "/api/businesses"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}
	var list []models.Business
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) SubmitBusiness(ctx context.Context, in services.BusinessInput) (*models.Business, error) {
	if err := c.require(policy.BusinessSubmit); err != nil {
		return nil, err
	}
	return call[models.Business](ctx, c, http.MethodPost, "/api/businesses", in)
}

func (c *Client) businessAction(ctx context.Context, id uuid.UUID, action string, body any) (*models.Business, error) {
	if err := c.require(policy.BusinessModerate); err != nil {
		return nil, err
	}
	return call[models.Business](ctx, c, http.MethodPatch, "/api/businesses/"+id.String()+"/"+action, body)
}

func (c *Client) ApproveBusiness(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	return c.businessAction(ctx, id, "approve", nil)
}

func (c *Client) RejectBusiness(ctx context.Context, id uuid.UUID, reason string) (*models.Business, error) {
	return c.businessAction(ctx, id, "reject", map[string]string{"reason": reason})
}

func (c *Client) VerifyBusiness(ctx context.Context, id uuid.UUID, verified bool) (*models.Business, error) {
	return c.businessAction(ctx, id, "verify", map[string]bool{"isVerified": verified})
}

func (c *Client) BookAppointment(ctx context.Context, in services.BookingInput) (*models.Appointment, error) {
	if err := c.require(policy.AppointmentBook); err != nil {
		return nil, err
	}
	return call[models.Appointment](ctx, c, http.MethodPost, "/api/appointments", in)
}

func (c *Client) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	var list []models.Appointment
	if err := c.do(ctx, http.MethodGet, "/api/appointments", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateAppointmentStatus leaves ownership checks to the server; customers may
// still cancel their own bookings.
func (c *Client) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status models.AppointmentStatus) (*models.Appointment, error) {
	return call[models.Appointment](ctx, c, http.MethodPatch, "/api/appointments/"+id.String()+"/status",
		map[string]models.AppointmentStatus{"status": status})
}

func (c *Client) CreateReview(ctx context.Context, in services.ReviewInput) (*services.ReviewView, error) {
	if err := c.require(policy.ReviewWrite); err != nil {
		return nil, err
	}
	return call[services.ReviewView](ctx, c, http.MethodPost, "/api/reviews", in)
}

func (c *Client) reviewAction(ctx context.Context, id uuid.UUID, action string, body any) (*services.ReviewView, error) {
	if err := c.require(policy.ReviewModerate); err != nil {
		return nil, err
	}
	return call[services.ReviewView](ctx, c, http.MethodPatch, "/api/reviews/"+id.String()+"/"+action, body)
}

func (c *Client) ApproveReview(ctx context.Context, id uuid.UUID) (*services.ReviewView, error) {
	return c.reviewAction(ctx, id, "approve", nil)
}

func (c *Client) RejectReview(ctx context.Context, id uuid.UUID) (*services.ReviewView, error) {
	return c.reviewAction(ctx, id, "reject", nil)
}

func (c *Client) FlagReview(ctx context.Context, id uuid.UUID, reason string) (*services.ReviewView, error) {
	return c.reviewAction(ctx, id, "flag", map[string]string{"reason": reason})
}

func (c *Client) UnflagReview(ctx context.Context, id uuid.UUID) (*services.ReviewView, error) {
	return c.reviewAction(ctx, id, "unflag", nil)
}
