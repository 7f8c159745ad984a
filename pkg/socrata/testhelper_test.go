package socrata

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"go.uber.org/zap"

	"github.com/opencivic-io/socrata-engine/pkg/config"
)

// rewriteTransport redirects every request to the test server while
// preserving the path and query, so production URL building stays intact.
type rewriteTransport struct {
	target *url.URL
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

// newTestClient returns a Client whose requests hit the given handler.
func newTestClient(t *testing.T, cfg config.SocrataConfig, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	target, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("failed to parse test server URL: %v", err)
	}

	client := NewClient(cfg, zap.NewNop(), nil)
	client.SetTransport(rewriteTransport{target: target})
	return client
}
