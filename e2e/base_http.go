package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"giveboard/auth"
	"giveboard/domain"
)

// BaseHTTPSuite drives a running giveboard server over its HTTP and
// websocket surfaces. It mints its own tokens with the shared secret
// so no out-of-band login step is needed.
type BaseHTTPSuite struct {
	suite.Suite
	Config   Config
	provider *auth.Provider
	client   *http.Client
}

func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	s.provider = auth.NewProvider(s.Config.JWTSecret, time.Hour)
	s.client = &http.Client{Timeout: 10 * time.Second}
}

func (s *BaseHTTPSuite) Step(t *testing.T, name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)
}

func (s *BaseHTTPSuite) Token(userID string) string {
	token, err := s.provider.Issue(domain.Identity{ID: userID, DisplayName: userID})
	s.Require().NoError(err)
	return token
}

// Call issues one authenticated request and decodes the JSON response
// into out (when out is non-nil). It returns the status code.
func (s *BaseHTTPSuite) Call(t *testing.T, method, path, token string, body, out any) int {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	url := "http://" + s.Config.APIAddr + path
	req, err := http.NewRequest(method, url, &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	logBuilder := bytes.Buffer{}
	fmt.Fprintf(&logBuilder, "HTTP %s %s [%d] in %v", method, path, resp.StatusCode, time.Since(start))

	var raw json.RawMessage
	if resp.ContentLength != 0 {
		_ = json.NewDecoder(resp.Body).Decode(&raw)
	}
	if s.Config.DebugJSON && len(raw) > 0 {
		fmt.Fprintf(&logBuilder, "\nRESPONSE:\n%s", raw)
	}
	t.Log(logBuilder.String())

	if out != nil && len(raw) > 0 {
		s.Require().NoError(json.Unmarshal(raw, out))
	}
	return resp.StatusCode
}

// Dial opens an authenticated websocket stream against the server.
func (s *BaseHTTPSuite) Dial(t *testing.T, path, token string) *websocket.Conn {
	url := "ws://" + s.Config.APIAddr + path + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err, "Failed to connect to websocket at "+url)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}
