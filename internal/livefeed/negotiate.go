package livefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func resolveHTTPClient(client *http.Client) httpDoer {
	if client != nil {
		return client
	}
	return &http.Client{}
}

func normalizeBaseURL(raw string) string {
	if raw == "" {
		raw = defaultBaseURL
	}
	return strings.TrimSuffix(raw, "/")
}

func normalizeHubPath(raw string) string {
	if raw == "" {
		raw = defaultHubPath
	}
	return "/" + strings.Trim(raw, "/")
}

// negotiation is the negotiate response. The hub either redirects us to a
// socket URL with an access token, or hands out a connection token for itself.
type negotiation struct {
	URL             string `json:"url"`
	AccessToken     string `json:"accessToken"`
	ConnectionToken string `json:"connectionToken"`
	ConnectionID    string `json:"connectionId"`
}

type negotiator struct {
	baseURL    string
	hubPath    string
	userAgent  string
	timeout    time.Duration
	httpClient httpDoer
}

func newNegotiator(cfg Config) *negotiator {
	timeout := cfg.NegotiateTimeout
	if timeout <= 0 {
		timeout = defaultNegotiateTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &negotiator{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		hubPath:    normalizeHubPath(cfg.HubPath),
		userAgent:  userAgent,
		timeout:    timeout,
		httpClient: resolveHTTPClient(cfg.HTTPClient),
	}
}

// Negotiate asks the hub for a socket URL and returns it ready to dial.
func (n *negotiator) Negotiate(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+n.hubPath+negotiatePath, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Origin", n.baseURL)
	req.Header.Set("Referer", n.baseURL+"/")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var payload negotiation
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedNegotiation, err)
	}
	return n.socketURL(payload)
}

func (n *negotiator) socketURL(neg negotiation) (string, error) {
	var (
		target *url.URL
		err    error
	)
	switch {
	case neg.URL != "":
		target, err = url.Parse(neg.URL)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedNegotiation, err)
		}
		// The hub may hand out signed URLs, so the existing query is kept verbatim.
		if neg.AccessToken != "" {
			token := "access_token=" + url.QueryEscape(neg.AccessToken)
			if target.RawQuery == "" {
				target.RawQuery = token
			} else {
				target.RawQuery += "&" + token
			}
		}
	case neg.ConnectionToken != "" || neg.ConnectionID != "":
		target, err = url.Parse(n.baseURL + n.hubPath)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedNegotiation, err)
		}
		id := neg.ConnectionToken
		if id == "" {
			id = neg.ConnectionID
		}
		q := target.Query()
		q.Set("id", id)
		target.RawQuery = q.Encode()
	default:
		return "", fmt.Errorf("%w: no url or connection token", ErrMalformedNegotiation)
	}

	switch target.Scheme {
	case "https":
		target.Scheme = "wss"
	case "http":
		target.Scheme = "ws"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrMalformedNegotiation, target.Scheme)
	}
	return target.String(), nil
}
