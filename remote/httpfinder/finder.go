// Package httpfinder fetches resources from a JSON HTTP API.
//
// Lookup arguments map onto the request: scalar arguments become path
// segments under the resource path, the All marker is dropped, and the
// trailing options map becomes the query string.
//
//	Args{"all"}                      GET /widgets
//	Args{42}                         GET /widgets/42
//	Args{"all", Opts{"color": "red"}} GET /widgets?color=red
//
// A JSON array response is a collection; an object is a single record; 204
// is nothing. Every record returned is marked persisted.
package httpfinder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/unkn0wn-root/rescache"
	"github.com/unkn0wn-root/rescache/internal/util"
)

// RequestIDHeader carries a fresh id on every request.
const RequestIDHeader = "X-Request-Id"

const defaultTimeout = 10 * time.Second

// maxBody caps how much of a response is read.
const maxBody = 32 << 20

var ErrNoBaseURL = errors.New("httpfinder: base URL is required")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method    string
	URL       string
	Code      int
	RequestID string
	Body      string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("httpfinder: %s %s: %d %s (request %s)",
		e.Method, e.URL, e.Code, http.StatusText(e.Code), e.RequestID)
}

// NotFound reports whether the remote answered 404.
func (e *StatusError) NotFound() bool { return e.Code == http.StatusNotFound }

type Config struct {
	BaseURL  string // e.g. "https://api.example.com/v1"
	Resource string // collection path segment, e.g. "widgets"
	Timeout  time.Duration
	Headers  map[string]string
	// HTTPClient overrides the default client; Timeout is then ignored.
	HTTPClient *http.Client
}

// Client is a rescache.Finder[*Resource] over HTTP.
type Client struct {
	http     *http.Client
	base     *url.URL
	resource string
	headers  map[string]string
}

var _ rescache.Finder[*Resource] = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrNoBaseURL
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "httpfinder: parse base URL")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("httpfinder: base URL %q must be absolute", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	return &Client{
		http:     hc,
		base:     base,
		resource: strings.Trim(cfg.Resource, "/"),
		headers:  headers,
	}, nil
}

// Find performs one GET. Transport, status and decode failures are returned
// as errors; nothing is retried.
func (c *Client) Find(ctx context.Context, args rescache.Args) (rescache.Result[*Resource], error) {
	u := c.requestURL(args)
	reqID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return rescache.Result[*Resource]{}, errors.Wrap(err, "httpfinder: build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return rescache.Result[*Resource]{}, errors.Wrapf(err, "httpfinder: GET %s", u)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return rescache.Result[*Resource]{}, errors.Wrapf(err, "httpfinder: read %s", u)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return rescache.Result[*Resource]{}, &StatusError{
			Method:    http.MethodGet,
			URL:       u,
			Code:      resp.StatusCode,
			RequestID: reqID,
			Body:      truncate(string(body), 512),
		}
	}
	if resp.StatusCode == http.StatusNoContent || len(strings.TrimSpace(string(body))) == 0 {
		return rescache.None[*Resource](), nil
	}
	return decode(body)
}

func decode(body []byte) (rescache.Result[*Resource], error) {
	trimmed := strings.TrimSpace(string(body))

	switch {
	case strings.HasPrefix(trimmed, "["):
		var list []map[string]any
		if err := json.Unmarshal(body, &list); err != nil {
			return rescache.Result[*Resource]{}, errors.Wrap(err, "httpfinder: decode collection")
		}
		out := make([]*Resource, 0, len(list))
		for _, attrs := range list {
			out = append(out, &Resource{Attributes: attrs, persisted: true})
		}
		return rescache.Many(out...), nil

	case strings.HasPrefix(trimmed, "{"):
		var attrs map[string]any
		if err := json.Unmarshal(body, &attrs); err != nil {
			return rescache.Result[*Resource]{}, errors.Wrap(err, "httpfinder: decode record")
		}
		return rescache.One(&Resource{Attributes: attrs, persisted: true}), nil

	case trimmed == "null":
		return rescache.None[*Resource](), nil
	}
	return rescache.Result[*Resource]{}, errors.Errorf("httpfinder: unexpected payload %q", truncate(trimmed, 64))
}

func (c *Client) requestURL(args rescache.Args) string {
	var segs []string
	if c.resource != "" {
		segs = append(segs, c.resource)
	}
	q := url.Values{}
	for _, a := range args {
		switch v := a.(type) {
		case map[string]any:
			addQuery(q, v)
		case string:
			if strings.EqualFold(strings.TrimSpace(v), rescache.All) {
				continue
			}
			segs = append(segs, v)
		default:
			segs = append(segs, util.Arg(v))
		}
	}

	escaped := make([]string, len(segs))
	for i, s := range segs {
		escaped[i] = url.PathEscape(s)
	}

	u := *c.base
	prefix := strings.TrimRight(u.Path, "/") + "/"
	u.Path = prefix + strings.Join(segs, "/")
	u.RawPath = strings.TrimRight(c.base.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	u.RawQuery = q.Encode()
	return u.String()
}

func addQuery(q url.Values, opts map[string]any) {
	for k, val := range opts {
		switch v := val.(type) {
		case []string:
			for _, s := range v {
				q.Add(k, s)
			}
		case []any:
			for _, s := range v {
				q.Add(k, util.Arg(s))
			}
		default:
			q.Add(k, util.Arg(v))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
