package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error is a failed API call. Message holds the server-provided detail when
// there was one.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorMessage returns the most specific message for err: the server detail
// if the API supplied one, otherwise fallback.
func ErrorMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == 404
}

func parseDetail(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) > 0 && list[0].Msg != "" {
			return list[0].Msg
		}
		return "validation error"
	}
	return ""
}
