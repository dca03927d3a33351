package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

const jsonContentType = "application/json;charset=UTF-8"

// HTTPGateway implements CredentialGateway against the store's REST API.
// The underlying client carries a cookie jar so the ambient credential cookie
// set by /auth/login travels with every later call, and every request runs
// under a bounded timeout so a hanging backend cannot pin the session in
// Unknown forever.
type HTTPGateway struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     Logger
}

var _ CredentialGateway = (*HTTPGateway)(nil)

func NewHTTPGateway(cfg Config) (*HTTPGateway, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "error creating cookie jar")
	}

	return &HTTPGateway{
		baseURL: strings.TrimRight(cfg.GetBaseURL(), "/"),
		httpClient: &http.Client{
			Jar: jar,
		},
		timeout: cfg.GetRequestTimeout(),
		logger:  defLogger{},
	}, nil
}

func (g *HTTPGateway) WithLogger(logger Logger) *HTTPGateway {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// WithHTTPClient swaps the underlying client. The replacement keeps the
// existing jar unless it brings its own.
func (g *HTTPGateway) WithHTTPClient(client *http.Client) *HTTPGateway {
	if client == nil {
		return g
	}
	if client.Jar == nil {
		client.Jar = g.httpClient.Jar
	}
	g.httpClient = client
	return g
}

func (g *HTTPGateway) HasAmbientCredential(ctx context.Context) bool {
	status, _, err := g.do(ctx, http.MethodGet, "/auth/is_auth", nil, nil, "")
	if err != nil {
		g.logger.Debug("ambient credential probe failed: %v", err)
		return false
	}
	return status == http.StatusOK
}

func (g *HTTPGateway) ReclaimToken(ctx context.Context) (string, error) {
	status, raw, err := g.do(ctx, http.MethodGet, "/token/user/claim", nil, nil, "")
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", nil
	}

	return g.parseToken(raw)
}

func (g *HTTPGateway) Validate(ctx context.Context, token string) bool {
	query := url.Values{}
	query.Set("token", token)

	status, _, err := g.do(ctx, http.MethodGet, "/token/user/validate", query, nil, "")
	if err != nil {
		g.logger.Debug("token validation call failed: %v", err)
		return false
	}
	return status == http.StatusOK
}

func (g *HTTPGateway) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	status, raw, err := g.do(ctx, http.MethodPost, "/auth/login", nil, body, "")
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", g.rejection(ErrBadCredentials, status, raw)
	}

	return g.parseToken(raw)
}

func (g *HTTPGateway) Signup(ctx context.Context, payload SignupPayload) error {
	status, raw, err := g.do(ctx, http.MethodPost, "/auth/signup", nil, payload, "")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return g.rejection(nil, status, raw)
	}
	return nil
}

func (g *HTTPGateway) SubmitCode(ctx context.Context, code, subjectID string) error {
	body := map[string]string{
		"code":   code,
		"userId": subjectID,
	}

	status, raw, err := g.do(ctx, http.MethodPost, "/auth/code/validate", nil, body, "")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return g.rejection(ErrCodeInvalid, status, raw)
	}
	return nil
}

func (g *HTTPGateway) RequestNewCode(ctx context.Context, email, subjectID string) error {
	body := map[string]string{
		"email":  email,
		"userId": subjectID,
	}

	status, raw, err := g.do(ctx, http.MethodPost, "/auth/code/claim", nil, body, "")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return g.rejection(nil, status, raw)
	}
	return nil
}

func (g *HTTPGateway) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{
		"email": email,
	}

	status, raw, err := g.do(ctx, http.MethodPost, "/auth/reset-password", nil, body, "")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return g.rejection(nil, status, raw)
	}
	return nil
}

func (g *HTTPGateway) SubmitNewPassword(ctx context.Context, resetToken, newPassword string) error {
	body := map[string]string{
		"password": newPassword,
	}

	status, raw, err := g.do(ctx, http.MethodPost, "/user/reset-password", nil, body, resetToken)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return g.rejection(nil, status, raw)
	}
	return nil
}

func (g *HTTPGateway) Logout(ctx context.Context) error {
	status, _, err := g.do(ctx, http.MethodPost, "/auth/logout", nil, struct{}{}, "")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return goerrors.New("logout rejected by backend", goerrors.CategoryOperation).
			WithMetadata(map[string]any{"status": status})
	}
	return nil
}

// do executes one bounded request and returns status plus body. Transport
// failures come back as rich errors; non-2xx statuses are the caller's to
// interpret.
func (g *HTTPGateway) do(ctx context.Context, method, path string, query url.Values, body any, bearer string) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, nil, goerrors.Wrap(err, goerrors.CategoryInternal, "error marshaling request body")
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, goerrors.Wrap(err, goerrors.CategoryInternal, "error creating HTTP request")
	}

	if query != nil {
		req.URL.RawQuery = query.Encode()
	}
	if body != nil {
		req.Header.Set("Content-Type", jsonContentType)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := g.httpClient.Do(req)
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

func (g *HTTPGateway) parseToken(raw []byte) (string, error) {
	payload := struct {
		Token string `json:"token"`
	}{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryOperation, "error unmarshaling token response")
	}
	return payload.Token, nil
}

// rejection converts a non-success backend response into a rich error
// carrying the backend's detail lines so forms can render them.
func (g *HTTPGateway) rejection(base *goerrors.Error, status int, raw []byte) error {
	details := parseDetails(raw)

	if base == nil {
		base = goerrors.New(
			fmt.Sprintf("store API rejected the request with status %d", status),
			goerrors.CategoryOperation,
		).WithTextCode(textCodeBackendRejected)
	}

	meta := map[string]any{"status": status}
	if len(details) > 0 {
		meta["details"] = details
	}

	g.logger.Info(
		"Backend rejected request with status %d: %s",
		status,
		print.MaybePrettyJSON(meta),
	)

	clone := base.Clone()
	if clone == nil {
		return base
	}
	clone.Source = base
	return clone.WithMetadata(meta)
}

// parseDetails pulls the `details` field from an error body. The backend
// sends either a single string or a list.
func parseDetails(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}

	payload := struct {
		Details json.RawMessage `json:"details"`
	}{}
	if err := json.Unmarshal(raw, &payload); err != nil || len(payload.Details) == 0 {
		return nil
	}

	var many []string
	if err := json.Unmarshal(payload.Details, &many); err == nil {
		return many
	}

	var one string
	if err := json.Unmarshal(payload.Details, &one); err == nil && one != "" {
		return []string{one}
	}

	return nil
}
