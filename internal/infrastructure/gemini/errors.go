package gemini

import (
	"context"
	"errors"
	"net"
	"net/url"

	"github.com/yourusername/gemini-chat-bot/internal/domain/entity"
	"google.golang.org/api/googleapi"
)

// missingKeyMessage mirrors the wording Gemini uses for a bad key, so a blank
// key surfaces as invalid credentials.
const missingKeyMessage = "API key not valid. No API key configured."

func missingKeyError() *entity.ProviderError {
	return &entity.ProviderError{Message: missingKeyMessage}
}

// providerErrorFrom maps a transport/SDK error onto entity.ProviderError
func providerErrorFrom(err error) *entity.ProviderError {
	var perr *entity.ProviderError
	if errors.As(err, &perr) {
		return perr
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		msg := gerr.Message
		if msg == "" {
			msg = gerr.Body
		}
		return &entity.ProviderError{StatusCode: gerr.Code, Message: msg, Err: err}
	}

	if isNoResponse(err) {
		return &entity.ProviderError{NoResponse: true, Err: err}
	}

	return &entity.ProviderError{Message: err.Error(), Err: err}
}

func isNoResponse(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// redactURL strips the key query parameter from errors produced by net/http
func redactURL(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	if u, perr := url.Parse(urlErr.URL); perr == nil {
		q := u.Query()
		if q.Has("key") {
			q.Set("key", "REDACTED")
			u.RawQuery = q.Encode()
			urlErr.URL = u.String()
		}
	}
	return err
}
