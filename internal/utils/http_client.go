package utils

import (
	"github.com/go-resty/resty/v2"
)

// HTTPClient is a thin wrapper around [resty.Client] used by the admin API
// client. Each instance carries its own configuration, connection pool, and
// state.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates a new HTTPClient with a default-configured
// underlying resty.Client.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{Client: resty.New()}
}
