package authclient

import "time"

const (
	defaultRequestTimeout = 10 * time.Second
	// defaultResendCodeWindow is the client-side disable window between
	// "send new code" requests. UX throttle only; the backend rate-limits
	// for real.
	defaultResendCodeWindow = 300 * time.Second

	defaultLoginRoute = "/register"
	defaultHomeRoute  = "/"
)

// SimpleConfig is a plain-struct Config implementation with sensible
// defaults for everything but the base URL.
type SimpleConfig struct {
	BaseURL          string        `json:"base_url"`
	RequestTimeout   time.Duration `json:"request_timeout"`
	StorageDir       string        `json:"storage_dir"`
	LoginRoute       string        `json:"login_route"`
	HomeRoute        string        `json:"home_route"`
	ResendCodeWindow time.Duration `json:"resend_code_window"`
}

var _ Config = (*SimpleConfig)(nil)

func NewConfig(baseURL string) *SimpleConfig {
	return &SimpleConfig{
		BaseURL:          baseURL,
		RequestTimeout:   defaultRequestTimeout,
		LoginRoute:       defaultLoginRoute,
		HomeRoute:        defaultHomeRoute,
		ResendCodeWindow: defaultResendCodeWindow,
	}
}

func (c *SimpleConfig) GetBaseURL() string {
	return c.BaseURL
}

func (c *SimpleConfig) GetRequestTimeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return defaultRequestTimeout
	}
	return c.RequestTimeout
}

func (c *SimpleConfig) GetStorageDir() string {
	return c.StorageDir
}

func (c *SimpleConfig) GetLoginRoute() string {
	if c.LoginRoute == "" {
		return defaultLoginRoute
	}
	return c.LoginRoute
}

func (c *SimpleConfig) GetHomeRoute() string {
	if c.HomeRoute == "" {
		return defaultHomeRoute
	}
	return c.HomeRoute
}

func (c *SimpleConfig) GetResendCodeWindow() time.Duration {
	if c.ResendCodeWindow <= 0 {
		return defaultResendCodeWindow
	}
	return c.ResendCodeWindow
}
