// Package testutil provides HTTP test helpers for the planner API.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestServer wraps httptest.Server with JSON request helpers
type TestServer struct {
	Server  *httptest.Server
	BaseURL string
	t       *testing.T
}

// NewTestServer starts a server for router and closes it when the test ends
func NewTestServer(t *testing.T, router http.Handler) *TestServer {
	t.Helper()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{
		Server:  server,
		BaseURL: server.URL,
		t:       t,
	}
}

// GET performs a GET request to the given path
func (ts *TestServer) GET(path string) *http.Response {
	ts.t.Helper()
	return ts.Do(http.MethodGet, path, nil)
}

// POST sends body as JSON
func (ts *TestServer) POST(path string, body any) *http.Response {
	ts.t.Helper()
	return ts.Do(http.MethodPost, path, body)
}

// PUT sends body as JSON
func (ts *TestServer) PUT(path string, body any) *http.Response {
	ts.t.Helper()
	return ts.Do(http.MethodPut, path, body)
}

// DELETE performs a DELETE request to the given path
func (ts *TestServer) DELETE(path string) *http.Response {
	ts.t.Helper()
	return ts.Do(http.MethodDelete, path, nil)
}

// Do sends a request with body encoded as JSON. A nil body sends nothing;
// a string or []byte body is sent verbatim.
func (ts *TestServer) Do(method, path string, body any) *http.Response {
	ts.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			ts.t.Fatalf("encoding %s %s body: %v", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.BaseURL+path, reader)
	if err != nil {
		ts.t.Fatalf("building %s %s: %v", method, path, err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		ts.t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}

// ReadBody reads and returns the response body as a string
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return string(body)
}

// Upload posts data as a multipart form file field
func (ts *TestServer) Upload(path, field, filename string, data []byte) *http.Response {
	ts.t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	if err == nil {
		_, err = fw.Write(data)
	}
	if err == nil {
		err = mw.Close()
	}
	if err != nil {
		ts.t.Fatalf("building upload for %s: %v", path, err)
	}

	resp, err := http.Post(ts.BaseURL+path, mw.FormDataContentType(), &body)
	if err != nil {
		ts.t.Fatalf("POST %s failed: %v", path, err)
	}
	return resp
}
