package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Ticket is a single sellable event entry from the catalog.
type Ticket struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Available   bool      `json:"available"`
}

// Bundle groups a ticket with a quantity and discount.
type Bundle struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Ticket      Ticket    `json:"ticket"`
	Discount    float64   `json:"discount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CartItem is one line of the server-side cart.
type CartItem struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// StorefrontClient is the thin REST client for the catalog and cart surface.
// The cart lives server-side; this client only attaches the stored bearer
// token and relays results.
type StorefrontClient struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore
	timeout    time.Duration
	logger     Logger
}

func NewStorefrontClient(cfg Config, store TokenStore) *StorefrontClient {
	return &StorefrontClient{
		baseURL:    strings.TrimRight(cfg.GetBaseURL(), "/"),
		httpClient: &http.Client{},
		store:      store,
		timeout:    cfg.GetRequestTimeout(),
		logger:     defLogger{},
	}
}

func (s *StorefrontClient) WithLogger(logger Logger) *StorefrontClient {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithHTTPClient lets callers share the gateway's cookie-jar client so the
// ambient credential travels with cart calls too.
func (s *StorefrontClient) WithHTTPClient(client *http.Client) *StorefrontClient {
	if client != nil {
		s.httpClient = client
	}
	return s
}

func (s *StorefrontClient) ListBundles(ctx context.Context) ([]Bundle, error) {
	var bundles []Bundle
	if err := s.getJSON(ctx, "/bundles", &bundles); err != nil {
		return nil, err
	}
	return bundles, nil
}

func (s *StorefrontClient) ListTickets(ctx context.Context) ([]Ticket, error) {
	var tickets []Ticket
	if err := s.getJSON(ctx, "/tickets", &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (s *StorefrontClient) CartItems(ctx context.Context) ([]CartItem, error) {
	var items []CartItem
	if err := s.getJSON(ctx, "/cart/bundle/items", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *StorefrontClient) AddCartItem(ctx context.Context, bundleID int64, quantity int) error {
	return s.postCart(ctx, "/cart/bundle/add_item", bundleID, quantity)
}

func (s *StorefrontClient) UpdateCartItem(ctx context.Context, bundleID int64, quantity int) error {
	return s.postCart(ctx, "/cart/bundle/update_item", bundleID, quantity)
}

// RemoveCartItem deletes a line. The backend models removal as an update
// with quantity -1.
func (s *StorefrontClient) RemoveCartItem(ctx context.Context, bundleID int64) error {
	return s.postCart(ctx, "/cart/bundle/update_item", bundleID, -1)
}

func (s *StorefrontClient) postCart(ctx context.Context, path string, bundleID int64, quantity int) error {
	body := map[string]any{
		"bundleId": bundleID,
		"quantity": quantity,
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "error marshaling cart request")
	}

	status, _, err := s.do(ctx, http.MethodPost, path, bytes.NewReader(raw))
	if err != nil {
		return err
	}

	if status != http.StatusOK {
		return goerrors.New("cart update rejected", goerrors.CategoryOperation).
			WithMetadata(map[string]any{"status": status, "path": path})
	}
	return nil
}

func (s *StorefrontClient) getJSON(ctx context.Context, path string, out any) error {
	status, raw, err := s.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	if status != http.StatusOK {
		return goerrors.New("store API rejected the request", goerrors.CategoryOperation).
			WithMetadata(map[string]any{"status": status, "path": path})
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "error unmarshaling response body").
			WithMetadata(map[string]any{"path": path})
	}
	return nil
}

func (s *StorefrontClient) do(ctx context.Context, method, path string, body io.Reader) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return 0, nil, goerrors.Wrap(err, goerrors.CategoryInternal, "error creating HTTP request")
	}

	if body != nil {
		req.Header.Set("Content-Type", jsonContentType)
	}
	if token, ok := s.store.ReadToken(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, nil, goerrors.Wrap(err, goerrors.CategoryOperation, "error invoking store API").
			WithMetadata(map[string]any{"path": path})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, goerrors.Wrap(err, goerrors.CategoryOperation, "error reading response body").
			WithMetadata(map[string]any{"path": path})
	}

	return resp.StatusCode, raw, nil
}
