package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"guestbook/cmd/internal/kinds"
)

func TestStatusAndMessageFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{kinds.Invalid("lastName", "Last name is required"), http.StatusBadRequest, "Last name is required"},
		{kinds.OpError{Op: "x", Kind: kinds.ErrNotFound, Msg: "No matching invite found"}, http.StatusNotFound, "No matching invite found"},
		{kinds.OpError{Op: "x", Kind: kinds.ErrAuthDenied, Msg: "nope"}, http.StatusForbidden, "nope"},
		{kinds.Storage("x", errors.New("password=secret")), http.StatusInternalServerError, "Internal server error"},
		{errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		if got := StatusFor(tc.err); got != tc.status {
			t.Fatalf("StatusFor(%v)=%d want=%d", tc.err, got, tc.status)
		}
		if got := MessageFor(tc.err); got != tc.msg {
			t.Fatalf("MessageFor(%v)=%q want=%q", tc.err, got, tc.msg)
		}
	}
}

func TestWriteDataEnvelopes(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	WriteData(rr, []int{1})
	if got := strings.TrimSpace(rr.Body.String()); got != `{"data":[1],"error":null}` {
		t.Fatalf("WriteData body=%s", got)
	}

	rr = httptest.NewRecorder()
	WriteDataError(rr, http.StatusInternalServerError, "boom")
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["data"] != nil || body["error"] != "boom" || rr.Code != http.StatusInternalServerError {
		t.Fatalf("WriteDataError=%d %v", rr.Code, body)
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	type req struct {
		Name string `json:"name"`
	}
	cases := []struct {
		body string
		ok   bool
	}{
		{`{"name":"a"}`, true},
		{`{"name":"a","extra":1}`, true},
		{`{"name":"a"}{"name":"b"}`, false},
		{`not json`, false},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
		var dst req
		err := DecodeJSON(httptest.NewRecorder(), r, 0, &dst)
		if (err == nil) != tc.ok {
			t.Fatalf("DecodeJSON(%q) err=%v ok=%v", tc.body, err, tc.ok)
		}
	}
}

func TestAllowMethods(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	if AllowMethods(rr, httptest.NewRequest(http.MethodDelete, "/", nil), http.MethodGet, http.MethodPost) {
		t.Fatalf("DELETE must be rejected")
	}
	if rr.Code != http.StatusMethodNotAllowed || rr.Header().Get("Allow") != "GET, POST" {
		t.Fatalf("got %d Allow=%q", rr.Code, rr.Header().Get("Allow"))
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	if got := ClientIP(r, false).String(); got != "10.0.0.1" {
		t.Fatalf("ClientIP(untrusted)=%s", got)
	}
	if got := ClientIP(r, true).String(); got != "203.0.113.9" {
		t.Fatalf("ClientIP(trusted)=%s", got)
	}
}
