package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jonathan/portfolio-site/internal/types"
)

// Relay forwards a validated draft and classifies the reply.
type Relay interface {
	Send(ctx context.Context, draft types.ContactDraft) Outcome
}

// Variant selects the relay's request and response contract.
type Variant string

const (
	// VariantWeb3Forms posts JSON with an access_key and reads the success field.
	VariantWeb3Forms Variant = "web3forms"
	// VariantFormspree posts JSON to a per-form endpoint and reads the HTTP status.
	VariantFormspree Variant = "formspree"
)

// DefaultEndpoint is the Web3Forms submit endpoint.
const DefaultEndpoint = "https://api.web3forms.com/submit"

// maxReplyBytes bounds how much of a relay reply is read.
const maxReplyBytes = 1 << 20

// ClientConfig configures a relay Client.
type ClientConfig struct {
	Endpoint  string
	AccessKey string
	Variant   Variant
	// HTTPClient defaults to a client without a timeout; callers bound the call with ctx.
	HTTPClient *http.Client
}

// Client is the HTTP implementation of Relay.
type Client struct {
	endpoint   string
	accessKey  string
	variant    Variant
	httpClient *http.Client
}

// NewClient validates cfg and returns a Client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	parsed, err := url.Parse(cfg.Endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &RelayError{Endpoint: cfg.Endpoint, Message: "invalid endpoint URL", Cause: err}
	}
	if cfg.Variant == "" {
		cfg.Variant = VariantWeb3Forms
	}
	switch cfg.Variant {
	case VariantWeb3Forms:
		if cfg.AccessKey == "" {
			return nil, fmt.Errorf("relay access key is required for %s", cfg.Variant)
		}
	case VariantFormspree:
	default:
		return nil, fmt.Errorf("unknown relay variant %q: must be web3forms or formspree", cfg.Variant)
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		accessKey:  cfg.AccessKey,
		variant:    cfg.Variant,
		httpClient: cfg.HTTPClient,
	}, nil
}

// Endpoint returns the configured relay URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// web3formsRequest is the JSON body posted to Web3Forms.
type web3formsRequest struct {
	AccessKey string `json:"access_key"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Message   string `json:"message"`
}

// web3formsReply is the subset of the Web3Forms reply we interpret.
type web3formsReply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// formspreeRequest is the JSON body posted to Formspree, which identifies the form by URL.
type formspreeRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

// formspreeReply is the subset of the Formspree reply we interpret.
type formspreeReply struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error"`
	Errors []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Send posts the draft once and classifies the reply. It never retries.
func (c *Client) Send(ctx context.Context, draft types.ContactDraft) Outcome {
	body, err := json.Marshal(c.payload(draft))
	if err != nil {
		return UnreachableBecause(&RelayError{Endpoint: c.endpoint, Message: "failed to encode request", Cause: err})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return UnreachableBecause(&RelayError{Endpoint: c.endpoint, Message: "failed to create request", Cause: err})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UnreachableBecause(&RelayError{Endpoint: c.endpoint, Message: "HTTP request failed", Cause: err})
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return UnreachableBecause(&RelayError{Endpoint: c.endpoint, Message: "failed to read reply", Cause: err})
	}

	if c.variant == VariantFormspree {
		return classifyFormspree(resp.StatusCode, raw)
	}
	return c.classifyWeb3Forms(raw)
}

func (c *Client) payload(d types.ContactDraft) any {
	if c.variant == VariantFormspree {
		return formspreeRequest{Name: d.Name, Email: d.Email, Phone: d.Phone, Message: d.Message}
	}
	return web3formsRequest{
		AccessKey: c.accessKey,
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Message:   d.Message,
	}
}

// classifyWeb3Forms reads the success flag. A reply that is not JSON is treated like a
// failed call, since nothing application-level can be said about it.
func (c *Client) classifyWeb3Forms(raw []byte) Outcome {
	var reply web3formsReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return UnreachableBecause(&RelayError{Endpoint: c.endpoint, Message: "failed to decode reply", Cause: err})
	}
	if reply.Success {
		return Succeeded()
	}
	return RejectedWith(strings.TrimSpace(reply.Message))
}

func classifyFormspree(status int, raw []byte) Outcome {
	if status >= 200 && status < 300 {
		return Succeeded()
	}
	var reply formspreeReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return RejectedWith("")
	}
	if reply.Error != "" {
		return RejectedWith(reply.Error)
	}
	msgs := make([]string, 0, len(reply.Errors))
	for _, e := range reply.Errors {
		if e.Message != "" {
			msgs = append(msgs, e.Message)
		}
	}
	return RejectedWith(strings.Join(msgs, "; "))
}
