package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/opencivic-io/socrata-engine/pkg/config"
	"github.com/opencivic-io/socrata-engine/pkg/socrata"
)

// rewriteTransport redirects every request to the fake Socrata server
// while preserving path and query.
type rewriteTransport struct {
	target *url.URL
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

// setupServer builds an MCP server with the full tool catalog registered,
// backed by the given fake Socrata handler and domain allowlist.
func setupServer(t *testing.T, handler http.Handler, allowed []string) *server.MCPServer {
	t.Helper()

	fake := httptest.NewServer(handler)
	t.Cleanup(fake.Close)

	target, err := url.Parse(fake.URL)
	if err != nil {
		t.Fatalf("failed to parse fake server URL: %v", err)
	}

	client := socrata.NewClient(config.SocrataConfig{}, zap.NewNop(), nil)
	client.SetTransport(rewriteTransport{target: target})

	deps := &Deps{
		Client: client,
		Guard:  socrata.NewGuard(allowed),
		Logger: zap.NewNop(),
	}

	mcpServer := server.NewMCPServer("test", "1.0.0", server.WithToolCapabilities(true))
	RegisterAll(mcpServer, deps, "test-version")
	return mcpServer
}

// callTool round-trips one tools/call through the MCP server and returns
// the first text content and the error flag.
func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) (string, bool) {
	t.Helper()

	request := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]any{
			"name":      name,
			"arguments": args,
		},
	}
	encoded, err := json.Marshal(request)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	result := s.HandleMessage(context.Background(), encoded)
	resultBytes, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var response struct {
		Result struct {
			IsError bool `json:"isError"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resultBytes, &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response.Error != nil {
		t.Fatalf("protocol error calling %s: %s", name, response.Error.Message)
	}
	if len(response.Result.Content) == 0 {
		t.Fatalf("no content in %s response: %s", name, string(resultBytes))
	}
	return response.Result.Content[0].Text, response.Result.IsError
}

// listToolNames returns the registered tool names via tools/list.
func listToolNames(t *testing.T, s *server.MCPServer) map[string]bool {
	t.Helper()

	result := s.HandleMessage(context.Background(),
		[]byte(`{"jsonrpc":"2.0","method":"tools/list","id":1}`))
	resultBytes, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var response struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(resultBytes, &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	names := make(map[string]bool, len(response.Result.Tools))
	for _, tool := range response.Result.Tools {
		names[tool.Name] = true
	}
	return names
}

// jsonHandler serves a fixed JSON body for every request.
// resultText extracts the text payload of a tool result's first content block.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	if len(result.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return text.Text
}

func jsonHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	})
}
