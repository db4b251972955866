package customHttpClient

import (
	"net/http"

	"github.com/avemuri/CaseDocAPI/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var pooledClient = &http.Client{Transport: customTransport}

// GetPooledClient returns the shared connection-pooled client used for all
// OCR provider HTTP calls. Per-call deadlines come from request contexts,
// not from this client.
func GetPooledClient() *http.Client {
	return pooledClient
}
