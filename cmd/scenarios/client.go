package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// API performs one JSON request and returns the status code and raw body.
type API interface {
	Do(method, path, token string, body interface{}) (int, []byte, error)
}

type httpAPI struct {
	baseURL string
	timeout time.Duration
}

func newHTTPAPI(baseURL string, timeout time.Duration) *httpAPI {
	return &httpAPI{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

func (a *httpAPI) Do(method, path, token string, body interface{}) (int, []byte, error) {
	url := a.baseURL + path
	var agent *fiber.Agent
	switch method {
	case fiber.MethodGet:
		agent = fiber.Get(url)
	case fiber.MethodPost:
		agent = fiber.Post(url)
	case fiber.MethodPatch:
		agent = fiber.Patch(url)
	default:
		return 0, nil, fmt.Errorf("unsupported method %s", method)
	}
	agent.Timeout(a.timeout)
	if token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	if body != nil {
		agent.JSON(body)
	}

	code, raw, errs := agent.Bytes()
	if len(errs) > 0 {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, errors.Join(errs...))
	}
	return code, raw, nil
}
