package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/spirit-labs/endbclient/codec"
	"github.com/spirit-labs/endbclient/conf"
	"github.com/spirit-labs/endbclient/errors"
	log "github.com/spirit-labs/endbclient/logger"
)

const (
	queryField     = "q"
	parameterField = "parameter"
)

type Credentials struct {
	Username string
	Password string
}

type Options struct {
	Endpoint    string
	Accept      AcceptFormat
	Credentials *Credentials
	TLS         *conf.TLSConfig
}

// Client submits SQL to a single endpoint. Each call to SQL is exactly one HTTP request, there are no retries.
type Client struct {
	opts Options
	rest *resty.Client
}

func NewClient(opts Options) (*Client, error) {
	if opts.Endpoint == "" {
		opts.Endpoint = conf.DefaultEndpoint
	}
	if opts.Accept == "" {
		opts.Accept = conf.DefaultAccept
	}
	if err := conf.ValidateEndpoint(opts.Endpoint); err != nil {
		return nil, err
	}
	rest := resty.New().
		SetRetryCount(0).
		SetDisableWarn(true).
		SetLogger(log.Named("http"))
	if !opts.TLS.IsZero() {
		tlsConf, err := opts.TLS.ToGoTLSConfig()
		if err != nil {
			return nil, err
		}
		rest.SetTLSClientConfig(tlsConf)
	}
	return &Client{opts: opts, rest: rest}, nil
}

// SQL is the one call form: it creates a client from opts and executes a single query with it.
func SQL(ctx context.Context, opts Options, query string, params ...any) (*Result, error) {
	cl, err := NewClient(opts)
	if err != nil {
		return nil, err
	}
	return cl.SQL(ctx, query, params...)
}

func (c *Client) Endpoint() string {
	return c.opts.Endpoint
}

func (c *Client) Accept() AcceptFormat {
	return c.opts.Accept
}

// SQL posts query, and params bound in order, to the endpoint. A non-2xx response is returned as an
// *errors.HTTPError and a failure to get any response as an *errors.TransportError.
func (c *Client) SQL(ctx context.Context, query string, params ...any) (*Result, error) {
	form, err := encodeForm(query, params)
	if err != nil {
		return nil, err
	}
	requestID := uuid.New().String()
	log.Debugf("request %s: POST %s accept=%s parameters=%d", requestID, c.opts.Endpoint, c.opts.Accept, len(params))

	req := c.rest.R().
		SetContext(ctx).
		SetHeader("Accept", string(c.opts.Accept)).
		SetFormDataFromValues(form)
	if c.opts.Credentials != nil {
		req.SetBasicAuth(c.opts.Credentials.Username, c.opts.Credentials.Password)
	}
	resp, err := req.Post(c.opts.Endpoint)
	if err != nil {
		log.Debugf("request %s: transport failure %v", requestID, err)
		return nil, errors.NewTransportError(c.opts.Endpoint, err)
	}
	log.Debugf("request %s: %s in %s", requestID, resp.Status(), resp.Time())
	if err := mapHTTPError(resp); err != nil {
		return nil, err
	}
	return newResult(c.opts.Accept, resp.StatusCode(), resp.Body())
}

func encodeForm(query string, params []any) (url.Values, error) {
	form := url.Values{}
	form.Set(queryField, query)
	for i, param := range params {
		text, err := codec.Marshal(param)
		if err != nil {
			return nil, errors.Wrap(err, "cannot encode parameter "+strconv.Itoa(i))
		}
		form.Add(parameterField, string(text))
	}
	return form, nil
}

func mapHTTPError(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return errors.NewHTTPError(resp.StatusCode(), reasonPhrase(resp.StatusCode(), resp.Status()), string(resp.Body()))
}

// reasonPhrase strips the status code from a status line such as "404 Not Found".
func reasonPhrase(code int, status string) string {
	reason := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
	if reason == "" {
		return http.StatusText(code)
	}
	return reason
}
