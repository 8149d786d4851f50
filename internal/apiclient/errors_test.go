package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNewStatusErrorKind(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   ErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"jwt expired"}`, KindSessionExpired},
		{"forbidden", http.StatusForbidden, `{"message":"Forbidden resource"}`, KindAuthorizationDenied},
		{"forbidden without body", http.StatusForbidden, ``, KindAuthorizationDenied},
		{"structured", http.StatusBadRequest, `{"message":"title is required"}`, KindStructuredAPI},
		{"code only", http.StatusConflict, `{"code":"DUPLICATE"}`, KindStructuredAPI},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, KindTransport},
		{"empty body", http.StatusInternalServerError, ``, KindTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newStatusError(http.MethodGet, "/v1/listings", tt.status, []byte(tt.body))
			if got.Kind != tt.want {
				t.Errorf("kind = %v, want %v", got.Kind, tt.want)
			}
		})
	}
}

func TestParseErrorBody(t *testing.T) {
	tests := []struct {
		body        string
		wantCode    string
		wantMessage string
	}{
		{`{"message":"not found"}`, "", "not found"},
		{`{"message":["a is required","b is too long"]}`, "", "a is required; b is too long"},
		{`{"error":{"code":"E42","message":"nested"}}`, "E42", "nested"},
		{`{"error":"plain"}`, "", "plain"},
		{`{"detail":"from detail","errorCode":"X"}`, "X", "from detail"},
		{`{"statusCode":500}`, "", ""},
		{`[1,2]`, "", ""},
		{`not json`, "", ""},
	}
	for _, tt := range tests {
		code, message := parseErrorBody([]byte(tt.body))
		if code != tt.wantCode || message != tt.wantMessage {
			t.Errorf("parseErrorBody(%s) = (%q, %q), want (%q, %q)", tt.body, code, message, tt.wantCode, tt.wantMessage)
		}
	}
}

func TestClassifyPrecedence(t *testing.T) {
	transportCause := errors.New("dial tcp: connection refused")

	tests := []struct {
		name       string
		err        error
		wantKind   ErrorKind
		wantSource Source
		wantMsg    string
	}{
		{
			name:       "body message wins",
			err:        newStatusError("GET", "/x", 400, []byte(`{"message":"bad filter"}`)),
			wantKind:   KindStructuredAPI,
			wantSource: SourceBody,
			wantMsg:    "bad filter",
		},
		{
			name:       "transport cause",
			err:        &APIError{Kind: KindTransport, Method: "GET", Path: "/x", Err: transportCause},
			wantKind:   KindTransport,
			wantSource: SourceTransport,
			wantMsg:    "dial tcp: connection refused",
		},
		{
			name:       "status without body",
			err:        newStatusError("GET", "/x", 502, nil),
			wantKind:   KindTransport,
			wantSource: SourceTransport,
			wantMsg:    "request failed with status code 502",
		},
		{
			name:       "wrapped api error",
			err:        fmt.Errorf("list listings: %w", newStatusError("GET", "/x", 403, []byte(`{"message":"nope"}`))),
			wantKind:   KindAuthorizationDenied,
			wantSource: SourceBody,
			wantMsg:    "nope",
		},
		{
			name:       "raw error",
			err:        errors.New("decode listings: unexpected payload kind"),
			wantKind:   KindUnexpected,
			wantSource: SourceRaw,
			wantMsg:    "decode listings: unexpected payload kind",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Classify(tt.err)
			if info == nil {
				t.Fatal("Classify() = nil")
			}
			if info.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", info.Kind, tt.wantKind)
			}
			if info.Source != tt.wantSource {
				t.Errorf("source = %v, want %v", info.Source, tt.wantSource)
			}
			if info.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", info.Message, tt.wantMsg)
			}
		})
	}
}

func TestClassifyNil(t *testing.T) {
	if info := Classify(nil); info != nil {
		t.Errorf("Classify(nil) = %+v, want nil", info)
	}
}

func TestKindString(t *testing.T) {
	if got := KindAuthorizationDenied.String(); got != "authorization_denied" {
		t.Errorf("got %q", got)
	}
	if got := ErrorKind(99).String(); got != "unexpected" {
		t.Errorf("got %q", got)
	}
}
