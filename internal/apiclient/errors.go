package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrorKind is the closed classification of backend failures.
type ErrorKind int

const (
	// KindUnexpected covers errors that never reached the HTTP layer's
	// classification, e.g. a decode failure or a caller bug.
	KindUnexpected ErrorKind = iota
	// KindTransport is an unreachable backend or a non-success response
	// without a structured body.
	KindTransport
	// KindStructuredAPI is a non-success response whose JSON body carries a message or code.
	KindStructuredAPI
	// KindAuthorizationDenied is a 403: the role lacks visibility or permission.
	KindAuthorizationDenied
	// KindSessionExpired is a 401 that the session could not recover from.
	KindSessionExpired
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStructuredAPI:
		return "structured_api"
	case KindAuthorizationDenied:
		return "authorization_denied"
	case KindSessionExpired:
		return "session_expired"
	default:
		return "unexpected"
	}
}

// Source records which link of the classification chain produced a message.
type Source int

const (
	SourceRaw Source = iota
	SourceBody
	SourceTransport
)

// APIError is returned by Client for every failed call.
type APIError struct {
	Kind    ErrorKind
	Method  string
	Path    string
	Status  int    // 0 when no response was received
	Code    string // server error code, if the body had one
	Message string // server error message, if the body had one
	Body    []byte
	Err     error // transport cause
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, statusMessage(e.Status))
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// ErrorInfo is the display-ready classification stored by caches.
type ErrorInfo struct {
	Kind    ErrorKind
	Status  int
	Code    string
	Message string
	Source  Source
}

// KindOf returns the kind of err, or KindUnexpected for errors not produced by Client.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnexpected
}

// Classify resolves the most specific message available for err, in order:
// the structured server body, the transport-level message, the raw error text.
func Classify(err error) *ErrorInfo {
	if err == nil {
		return nil
	}
	info := &ErrorInfo{Kind: KindOf(err), Source: SourceRaw}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		info.Status = apiErr.Status
		info.Code = apiErr.Code
		switch {
		case apiErr.Message != "":
			info.Message = apiErr.Message
			info.Source = SourceBody
			return info
		case apiErr.Err != nil:
			info.Message = apiErr.Err.Error()
			info.Source = SourceTransport
			return info
		case apiErr.Status > 0:
			info.Message = statusMessage(apiErr.Status)
			info.Source = SourceTransport
			return info
		}
	}

	info.Message = err.Error()
	return info
}

func newStatusError(method, path string, status int, body []byte) *APIError {
	code, message := parseErrorBody(body)
	e := &APIError{
		Method:  method,
		Path:    path,
		Status:  status,
		Code:    code,
		Message: message,
		Body:    body,
	}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind = KindSessionExpired
	case status == http.StatusForbidden:
		e.Kind = KindAuthorizationDenied
	case message != "" || code != "":
		e.Kind = KindStructuredAPI
	default:
		e.Kind = KindTransport
	}
	return e
}

// parseErrorBody extracts code and message from the error bodies the backends
// produce: {"message": "..."}, {"message": ["...", "..."]}, {"error": "..."},
// and {"error": {"code": "...", "message": "..."}}.
func parseErrorBody(body []byte) (code, message string) {
	if !gjson.ValidBytes(body) {
		return "", ""
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return "", ""
	}

	for _, path := range []string{"message", "error.message", "error", "msg", "detail"} {
		v := root.Get(path)
		switch {
		case v.IsArray():
			var parts []string
			for _, p := range v.Array() {
				if s := p.String(); s != "" {
					parts = append(parts, s)
				}
			}
			message = strings.Join(parts, "; ")
		case v.Type == gjson.String:
			message = v.String()
		}
		if message != "" {
			break
		}
	}

	for _, path := range []string{"code", "error.code", "errorCode"} {
		if v := root.Get(path); v.Exists() && !v.IsObject() && !v.IsArray() {
			code = v.String()
			break
		}
	}
	return code, message
}

func statusMessage(status int) string {
	return fmt.Sprintf("request failed with status code %d", status)
}
