package backup

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"resty.dev/v3"
)

// Result codes reported by Client.
const (
	CodeInvalidKey      = "INVALID_KEY"
	CodeInvalidData     = "INVALID_DATA"
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidResponse = "INVALID_RESPONSE"
	CodeNetworkError    = "NETWORK_ERROR"
	CodeUnknownError    = "UNKNOWN_ERROR"
)

// DefaultCollection is the path segment the backup API is mounted under.
const DefaultCollection = "playerData"

// Result is what Client returns for every call; transport and validation
// problems are reported through ErrorCode rather than a Go error.
type Result struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	ErrorCode string      `json:"errorCode,omitempty"`
	Data      *PlayerData `json:"data,omitempty"`
}

// envelope is the JSON body returned by the backup API.
type envelope struct {
	Success   bool        `json:"success"`
	Data      *PlayerData `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	ErrorCode string      `json:"errorCode,omitempty"`
}

// ClientOptions configures a Client.
type ClientOptions struct {
	BaseURL    string
	Collection string
	Timeout    time.Duration
	Logger     *zap.Logger
}

// Client saves and loads player inventories through the backup HTTP API.
type Client struct {
	http       *resty.Client
	collection string
	logger     *zap.Logger
}

// NewClient creates a new Client.
func NewClient(opts ClientOptions) *Client {
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	hc := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:       hc,
		collection: opts.Collection,
		logger:     opts.Logger,
	}
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.http.Close()
}

func (c *Client) path() string {
	return "/api/" + c.collection + "/{nick}"
}

// Save validates data locally and posts it under key.
func (c *Client) Save(ctx context.Context, key string, data *PlayerData) Result {
	nick, err := NormalizeKey(key)
	if err != nil {
		return Result{ErrorCode: CodeInvalidKey, Message: err.Error()}
	}
	if data == nil {
		return Result{ErrorCode: CodeInvalidData, Message: "player data is required"}
	}
	if err := data.Validate(); err != nil {
		return Result{ErrorCode: CodeInvalidData, Message: err.Error()}
	}

	var ok, failed envelope
	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("nick", nick).
		SetBody(data).
		SetResult(&ok).
		SetError(&failed).
		Post(c.path())
	if err != nil {
		c.logger.Warn("player data save request failed", zap.String("nick", nick), zap.Error(err))
		return Result{ErrorCode: CodeNetworkError, Message: fmt.Sprintf("network error: %v", err)}
	}

	if res.IsSuccess() {
		msg := ok.Message
		if msg == "" {
			msg = "Player data saved"
		}
		return Result{Success: true, Message: msg}
	}
	return errorResult(failed, res.StatusCode(), "save")
}

// Load fetches the data stored under key and validates it before returning.
func (c *Client) Load(ctx context.Context, key string) Result {
	nick, err := NormalizeKey(key)
	if err != nil {
		return Result{ErrorCode: CodeInvalidKey, Message: err.Error()}
	}

	var ok, failed envelope
	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("nick", nick).
		SetResult(&ok).
		SetError(&failed).
		Get(c.path())
	if err != nil {
		c.logger.Warn("player data load request failed", zap.String("nick", nick), zap.Error(err))
		return Result{ErrorCode: CodeNetworkError, Message: fmt.Sprintf("network error: %v", err)}
	}

	if res.StatusCode() == http.StatusNotFound {
		return Result{ErrorCode: CodeNotFound, Message: "Player data not found"}
	}
	if !res.IsSuccess() {
		return errorResult(failed, res.StatusCode(), "load")
	}

	if !ok.Success || ok.Data == nil {
		return Result{ErrorCode: CodeInvalidResponse, Message: "Invalid response from API"}
	}
	if err := ok.Data.Validate(); err != nil {
		return Result{ErrorCode: CodeInvalidData, Message: fmt.Sprintf("invalid data received: %v", err)}
	}
	if ok.Data.Inventory == nil {
		ok.Data.Inventory = []InventoryItem{}
	}
	return Result{Success: true, Data: ok.Data}
}

func errorResult(body envelope, status int, op string) Result {
	r := Result{ErrorCode: body.ErrorCode, Message: body.Message}
	if r.ErrorCode == "" {
		r.ErrorCode = CodeUnknownError
	}
	if r.Message == "" {
		r.Message = fmt.Sprintf("failed to %s: status %d", op, status)
	}
	return r
}
