package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Admin dashboard surface: ticket and bundle management, user listing and
// sales reporting. Route it behind AdminGuard; the backend still re-checks
// the ADMIN authority on every call.

// TicketDraft carries the fields of a ticket create or update form.
type TicketDraft struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	IsAvailable bool      `json:"isAvailable"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
}

// BundleDraft carries the fields of a bundle create or update form. TicketID
// references an existing ticket from the catalog.
type BundleDraft struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	TicketID    int64   `json:"ticketId"`
	Discount    float64 `json:"discount"`
}

// UserSummary is one row of the dashboard's user list.
type UserSummary struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Firstname  string `json:"firstname"`
	IsBlocked  bool   `json:"isBlock"`
	IsVerified bool   `json:"isVerified"`
}

// UserDetail adds the sensitive fields the dashboard reveals on demand.
type UserDetail struct {
	UserSummary
	Email       string `json:"email"`
	CustomerKey string `json:"customerKey"`
}

// InvoiceItem is one sold line for the sales report.
type InvoiceItem struct {
	ItemName string `json:"itemName"`
	Quantity int    `json:"quantity"`
}

func (s *StorefrontClient) CreateTicket(ctx context.Context, draft TicketDraft) error {
	return s.sendJSON(ctx, http.MethodPost, "/tickets", draft)
}

func (s *StorefrontClient) UpdateTicket(ctx context.Context, ticketID int64, draft TicketDraft) error {
	return s.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/tickets/%d", ticketID), draft)
}

func (s *StorefrontClient) CreateBundle(ctx context.Context, draft BundleDraft) error {
	return s.sendJSON(ctx, http.MethodPost, "/bundles", draft)
}

func (s *StorefrontClient) UpdateBundle(ctx context.Context, bundleID int64, draft BundleDraft) error {
	return s.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/bundles/%d", bundleID), draft)
}

func (s *StorefrontClient) DeleteBundle(ctx context.Context, bundleID int64) error {
	return s.sendJSON(ctx, http.MethodDelete, fmt.Sprintf("/bundles/%d", bundleID), nil)
}

// Bundle fetches a single bundle, used to prefill the update form.
func (s *StorefrontClient) Bundle(ctx context.Context, bundleID int64) (Bundle, error) {
	var bundle Bundle
	if err := s.getJSON(ctx, fmt.Sprintf("/bundles/%d", bundleID), &bundle); err != nil {
		return Bundle{}, err
	}
	return bundle, nil
}

func (s *StorefrontClient) ListUsers(ctx context.Context) ([]UserSummary, error) {
	var users []UserSummary
	if err := s.getJSON(ctx, "/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *StorefrontClient) User(ctx context.Context, userID int64) (UserDetail, error) {
	var user UserDetail
	if err := s.getJSON(ctx, fmt.Sprintf("/users/%d", userID), &user); err != nil {
		return UserDetail{}, err
	}
	return user, nil
}

// ListInvoiceItems returns every sold line across orders; the dashboard
// aggregates them per item for the sales chart.
func (s *StorefrontClient) ListInvoiceItems(ctx context.Context) ([]InvoiceItem, error) {
	var items []InvoiceItem
	if err := s.getJSON(ctx, "/invoice/items", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *StorefrontClient) sendJSON(ctx context.Context, method, path string, body any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "error marshaling request body")
		}
		reqBody = bytes.NewReader(raw)
	}

	status, _, err := s.do(ctx, method, path, reqBody)
	if err != nil {
		return err
	}

	if status != http.StatusOK && status != http.StatusCreated {
		return goerrors.New("store API rejected the request", goerrors.CategoryOperation).
			WithMetadata(map[string]any{"status": status, "path": path})
	}
	return nil
}
