// Package moondream provides a client for the Moondream vision API.
//
// The client wraps the hosted Moondream HTTP endpoints for object pointing,
// object detection, caption generation and visual question answering. Use
// Remote for the hosted service or Local for a self-hosted deployment.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"log"
//		"os"
//
//		moondream "github.com/moondream-ai/moondream-go"
//	)
//
//	func main() {
//		client := moondream.Remote(os.Getenv("MOONDREAM_API_KEY"))
//
//		result, err := client.Query(context.Background(),
//			"https://example.com/photo.jpg", "What is in this image?")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		fmt.Println(result.Answer)
//	}
//
// Images are passed as strings: either a remote URL or a data URI of the
// form "data:<mime>;base64,<payload>". The internal/imgutil package used by
// the bundled CLI shows how to build a data URI from a local file.
//
// A Client is a value. The With* methods return a modified copy, so a
// configured Client can be shared freely; any number of operations may run
// concurrently against the same value.
package moondream

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Version of the moondream client library
const Version = "1.0.0"

// DefaultEndpoint is the base URL of the hosted Moondream service.
const DefaultEndpoint = "https://api.moondream.ai/v1"

// DefaultTimeout applies to each request unless overridden with WithTimeout.
const DefaultTimeout = 5 * time.Second

// AuthHeader is the request header carrying the access token.
const AuthHeader = "X-Moondream-Auth"

// Header is a single extra request header. Headers are applied in the order
// they are configured.
type Header struct {
	Name  string
	Value string
}

// Client talks to a Moondream deployment. The zero value is not usable;
// construct one with New, Local or Remote.
type Client struct {
	token    string
	endpoint string
	headers  []Header
	timeout  time.Duration
	http     *resty.Client
}

// New creates a Client for the hosted endpoint with the given token and
// default settings. The token cannot be changed afterwards.
func New(token string) Client {
	return Client{
		token:    token,
		endpoint: DefaultEndpoint,
		timeout:  DefaultTimeout,
		http:     resty.New(),
	}
}

// Local creates a Client for an unauthenticated deployment at the given
// base endpoint.
func Local(endpoint string) Client {
	return New("").WithEndpoint(endpoint)
}

// Remote creates a Client for the hosted service using the given token.
func Remote(token string) Client {
	return New(token)
}

// WithEndpoint returns a copy of the client with the base endpoint replaced.
// A trailing slash is stripped so operation paths join cleanly.
func (c Client) WithEndpoint(endpoint string) Client {
	c.endpoint = strings.TrimSuffix(endpoint, "/")
	return c
}

// WithTimeout returns a copy of the client with the per-request timeout
// replaced.
func (c Client) WithTimeout(timeout time.Duration) Client {
	c.timeout = timeout
	return c
}

// WithHeaders returns a copy of the client with the extra headers replaced.
// The slice is copied, so later changes to the argument do not leak in.
func (c Client) WithHeaders(headers []Header) Client {
	c.headers = append([]Header(nil), headers...)
	return c
}

// WithHTTPClient returns a copy of the client using the given resty client
// as its transport. Useful for proxies or custom TLS settings.
func (c Client) WithHTTPClient(http *resty.Client) Client {
	c.http = http
	return c
}

// Endpoint returns the configured base endpoint.
func (c Client) Endpoint() string { return c.endpoint }

// Timeout returns the configured per-request timeout.
func (c Client) Timeout() time.Duration { return c.timeout }

// taskRequest is the shared request body for all four endpoints; exactly one
// task field is set per operation.
type taskRequest struct {
	ImageURL string `json:"image_url"`
	Object   string `json:"object,omitempty"`
	Length   string `json:"length,omitempty"`
	Question string `json:"question,omitempty"`
}

// Points locates each instance of object in the image and returns the
// centre coordinates, normalized to [0,1].
func (c Client) Points(ctx context.Context, image, object string) (PointsResult, error) {
	var result PointsResult
	err := c.post(ctx, "point", taskRequest{ImageURL: image, Object: object}, &result)
	return result, err
}

// Detect finds each instance of object in the image and returns its
// bounding box, normalized to [0,1].
func (c Client) Detect(ctx context.Context, image, object string) (DetectResult, error) {
	var result DetectResult
	err := c.post(ctx, "detect", taskRequest{ImageURL: image, Object: object}, &result)
	return result, err
}

// Caption generates a caption for the image. The zero value of length is
// treated as CaptionNormal.
func (c Client) Caption(ctx context.Context, image string, length CaptionLength) (CaptionResult, error) {
	if length == "" {
		length = CaptionNormal
	}
	var result CaptionResult
	err := c.post(ctx, "caption", taskRequest{ImageURL: image, Length: string(length)}, &result)
	return result, err
}

// Query answers a free-form question about the image.
func (c Client) Query(ctx context.Context, image, question string) (QueryResult, error) {
	var result QueryResult
	err := c.post(ctx, "query", taskRequest{ImageURL: image, Question: question}, &result)
	return result, err
}

// post sends one request and decodes the 2xx body into out. Any transport
// failure, non-2xx status or undecodable body comes back as *TransportError.
func (c Client) post(ctx context.Context, op string, body taskRequest, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(AuthHeader, c.token)
	for _, h := range c.headers {
		req.SetHeader(h.Name, h.Value)
	}

	resp, err := req.SetBody(body).Post(c.endpoint + "/" + op)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	if resp.IsError() {
		return &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode(),
			Body:       strings.TrimSpace(resp.String()),
		}
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &TransportError{Op: op, Err: err}
	}
	return nil
}
