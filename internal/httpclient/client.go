package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/tradedocs/pdfgen/internal/auth"
	"github.com/tradedocs/pdfgen/internal/config"
	"github.com/tradedocs/pdfgen/pkg/logger_i"
)

var pooledTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// Transport exposes the shared pooled transport for auxiliary clients that
// bypass authentication (the health probe).
func Transport() http.RoundTripper {
	return pooledTransport
}

type Response struct {
	Status int
	Body   []byte
	Header http.Header
}

// Client issues authenticated requests against the rendering service. On a
// 401 it forces one token refresh and replays the same logical request once;
// a second 401 is surfaced, never retried, so a broken refresh path cannot
// loop.
type Client struct {
	http   *http.Client
	tokens auth.TokenProvider
	logger *logger_i.Logger
}

func New(tokens auth.TokenProvider) *Client {
	return &Client{
		http: &http.Client{
			Transport: pooledTransport,
			Timeout:   config.RequestTimeout,
		},
		tokens: tokens,
		logger: logger_i.NewLogger("HttpClient"),
	}
}

// Do performs one authenticated request. body may be nil. The response body
// is fully read before returning so the request can be replayed on refresh.
func (c *Client) Do(ctx context.Context, method, url, contentType string, body []byte) (*Response, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, &AuthError{Cause: err}
	}

	retried := false
	for {
		resp, err := c.send(ctx, method, url, contentType, body, token)
		if err != nil {
			return nil, err
		}

		if resp.Status == http.StatusUnauthorized && !retried {
			retried = true
			c.logger.Warn("Got 401, forcing token refresh", "url", url)
			token, err = c.tokens.Refresh(ctx)
			if err != nil {
				return nil, &AuthError{Cause: err}
			}
			continue
		}

		if resp.Status < 200 || resp.Status > 299 {
			return nil, &ServerError{Status: resp.Status, Body: resp.Body}
		}
		return resp, nil
	}
}

// Plain performs an unauthenticated GET. Used only for the health probe,
// where auth is optional by contract.
func (c *Client) Plain(ctx context.Context, url string) (*Response, error) {
	resp, err := c.send(ctx, http.MethodGet, url, "", nil, "")
	if err != nil {
		return nil, err
	}
	if resp.Status < 200 || resp.Status > 299 {
		return nil, &ServerError{Status: resp.Status, Body: resp.Body}
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, method, url, contentType string, body []byte, token string) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, &NetworkError{URL: url, Cause: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Cause: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Error("Couldn't close response body", "err", cerr)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: url, Cause: err}
	}

	return &Response{Status: resp.StatusCode, Body: data, Header: resp.Header}, nil
}
