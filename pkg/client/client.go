package client

import (
	"time"

	"github.com/Galinha2/super-nova-2177/internal/logger"
	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// UserAgent is sent with every request
const UserAgent = "SuperNova-CLI/0.1.0"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// New builds an HTTP client for the given backend
func New(baseURL string, timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetBaseURL(baseURL)
	c.SetTimeout(timeout)
	c.SetHeader("User-Agent", UserAgent)
	c.SetJSONMarshaler(json.Marshal)
	c.SetJSONUnmarshaler(json.Unmarshal)

	c.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logger.Log.Debug("HTTP Request", zap.String("method", req.Method), zap.String("url", req.URL))
		return nil
	})

	c.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logger.Log.Debug("HTTP Response",
			zap.Int("status", resp.StatusCode()),
			zap.Duration("elapsed", resp.Time()),
		)
		return nil
	})
	return c
}
