package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// Recorder receives diagnostic attachments for each HTTP exchange, such as the request URL and
// the response body. A test run supplies one per test so that the attachments end up in that
// test's debug output.
type Recorder interface {
	Attach(name, content string)
}

type nullRecorder struct{}

func (nullRecorder) Attach(string, string) {}

// Options configures a Client. Zero values mean no timeout and no retries.
type Options struct {
	BaseURL           string
	RequestTimeout    time.Duration
	ConnectionTimeout time.Duration
	MaxRetries        int
	RetryDelay        time.Duration
	Logger            logrus.FieldLogger
	Recorder          Recorder
}

// Client executes requests against the service under test. It never interprets status codes:
// 4xx and 5xx responses are returned as ordinary Exchanges.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	logger     logrus.FieldLogger
	recorder   Recorder
}

// Request describes one call. Endpoint must already have any path placeholders filled in.
//
// Body is sent as-is if it is a []byte or string, and is otherwise encoded as JSON. A nil Body
// means no request body at all.
type Request struct {
	Method   string
	Endpoint string
	Query    url.Values
	Body     interface{}
}

// Exchange is the complete record of one HTTP call.
type Exchange struct {
	Method      string
	URL         string
	Query       url.Values
	RequestBody []byte
	Status      int
	Header      http.Header
	Body        []byte
	Elapsed     time.Duration
}

// IsSuccess is true for 2xx statuses.
func (e Exchange) IsSuccess() bool {
	return e.Status >= 200 && e.Status < 300
}

func (e Exchange) String() string {
	return fmt.Sprintf("%s %s -> %d (%s)", e.Method, e.URL, e.Status, e.Elapsed)
}

func New(opts Options) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: opts.ConnectionTimeout,
		}).DialContext,
		TLSHandshakeTimeout: opts.ConnectionTimeout,
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		httpClient: &http.Client{Transport: transport, Timeout: opts.RequestTimeout},
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
		logger:     opts.Logger,
		recorder:   opts.Recorder,
	}
	if c.logger == nil {
		c.logger = logrus.StandardLogger()
	}
	if c.recorder == nil {
		c.recorder = nullRecorder{}
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// WithLogger returns a copy of the client that logs to the given logger. The copy shares the
// underlying connection pool.
func (c *Client) WithLogger(logger logrus.FieldLogger) *Client {
	c1 := *c
	c1.logger = logger
	return &c1
}

// WithRecorder returns a copy of the client that sends attachments to the given recorder.
func (c *Client) WithRecorder(recorder Recorder) *Client {
	c1 := *c
	c1.recorder = recorder
	if recorder == nil {
		c1.recorder = nullRecorder{}
	}
	return &c1
}

// Execute performs the request. An error is returned only if the body could not be encoded or
// no response was received at all.
func (c *Client) Execute(ctx context.Context, r Request) (Exchange, error) {
	ex := Exchange{
		Method: r.Method,
		URL:    c.baseURL + r.Endpoint,
		Query:  r.Query,
	}
	target := ex.URL
	if len(r.Query) != 0 {
		target += "?" + r.Query.Encode()
	}
	c.recorder.Attach("Request", fmt.Sprintf("%s %s", r.Method, target))
	if len(r.Query) != 0 {
		c.recorder.Attach("Query parameters", r.Query.Encode())
	}

	body, err := encodeBody(r.Body)
	if err != nil {
		err = fmt.Errorf("can't serialize %s %s request body: %w", r.Method, r.Endpoint, err)
		c.recorder.Attach("Request body", err.Error())
		return ex, err
	}
	ex.RequestBody = body
	if body != nil {
		c.recorder.Attach("Request body", string(body))
	}

	log := c.logger.WithFields(logrus.Fields{"method": r.Method, "url": ex.URL})

	var resp *http.Response
	start := time.Now()
	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, r.Method, target, bodyReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		resp, err = c.httpClient.Do(req)
		if err != nil {
			if !isDialError(err) {
				return backoff.Permanent(err)
			}
			log.WithField("attempt", attempt).WithError(err).Warn("connection failed")
		}
		return err
	}, c.retryPolicy(ctx))
	if err != nil {
		ex.Elapsed = time.Since(start)
		c.recorder.Attach("Transport error", err.Error())
		log.WithError(err).Error("request failed")
		return ex, fmt.Errorf("%s %s failed: %w", r.Method, ex.URL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	ex.Elapsed = time.Since(start)
	ex.Status = resp.StatusCode
	ex.Header = resp.Header
	ex.Body = respBody
	if err != nil {
		return ex, fmt.Errorf("reading response from %s %s: %w", r.Method, ex.URL, err)
	}

	c.recorder.Attach("Response", fmt.Sprintf("%d (%d ms)", ex.Status, ex.Elapsed.Milliseconds()))
	c.recorder.Attach("Response body", string(respBody))

	log = log.WithFields(logrus.Fields{"status": ex.Status, "elapsed": ex.Elapsed.Milliseconds()})
	if ex.Status >= 400 {
		log.WithField("body", string(respBody)).Warn("request returned error status")
	} else {
		log.Info("request completed")
	}
	return ex, nil
}

func (c *Client) retryPolicy(ctx context.Context) backoff.BackOff {
	if c.maxRetries <= 0 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}
	return backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryDelay), uint64(c.maxRetries)),
		ctx,
	)
}

// Only failures to open a connection are retried; a request that may have reached the server
// is never sent twice.
func isDialError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

func encodeBody(body interface{}) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	default:
		return json.Marshal(b)
	}
}

func bodyReader(body []byte) io.Reader {
	if body == nil {
		return nil
	}
	return bytes.NewReader(body)
}

func (c *Client) Get(ctx context.Context, endpoint string) (Exchange, error) {
	return c.Execute(ctx, Request{Method: http.MethodGet, Endpoint: endpoint})
}

// GetWithQuery is a GET whose parameters travel in the query string.
func (c *Client) GetWithQuery(ctx context.Context, endpoint string, query url.Values) (Exchange, error) {
	return c.Execute(ctx, Request{Method: http.MethodGet, Endpoint: endpoint, Query: query})
}

// GetWithBody sends a GET with a JSON body. Few servers accept this, but some APIs require it.
func (c *Client) GetWithBody(ctx context.Context, endpoint string, body interface{}) (Exchange, error) {
	return c.Execute(ctx, Request{Method: http.MethodGet, Endpoint: endpoint, Body: body})
}

func (c *Client) Post(ctx context.Context, endpoint string, body interface{}) (Exchange, error) {
	return c.Execute(ctx, Request{Method: http.MethodPost, Endpoint: endpoint, Body: body})
}

func (c *Client) Put(ctx context.Context, endpoint string, body interface{}) (Exchange, error) {
	return c.Execute(ctx, Request{Method: http.MethodPut, Endpoint: endpoint, Body: body})
}

func (c *Client) Patch(ctx context.Context, endpoint string, body interface{}) (Exchange, error) {
	return c.Execute(ctx, Request{Method: http.MethodPatch, Endpoint: endpoint, Body: body})
}

func (c *Client) Delete(ctx context.Context, endpoint string) (Exchange, error) {
	return c.Execute(ctx, Request{Method: http.MethodDelete, Endpoint: endpoint})
}

// DeleteWithBody sends a DELETE with a JSON body.
func (c *Client) DeleteWithBody(ctx context.Context, endpoint string, body interface{}) (Exchange, error) {
	return c.Execute(ctx, Request{Method: http.MethodDelete, Endpoint: endpoint, Body: body})
}
