package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/reviewguard/reviewguard-go/pkg"
)

func PostRequest(t *testing.T, url string, payload interface{}) (*http.Response, error) {
	t.Helper()
	b, _ := json.Marshal(payload)
	t.Logf("Request POST %s", url)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if resp != nil {
		t.Logf("Response POST %s: Status %d", url, resp.StatusCode)
		t.Cleanup(func() {
			_ = resp.Body.Close()
		})
	}
	return resp, err
}

func GetRequest(t *testing.T, url string) (*http.Response, error) {
	t.Helper()
	t.Logf("Request GET %s", url)
	resp, err := http.Get(url)
	if resp != nil {
		t.Logf("Response GET %s: Status %d", url, resp.StatusCode)
		t.Cleanup(func() {
			_ = resp.Body.Close()
		})
	}
	return resp, err
}

// UploadFile posts contents as a multipart form file under the "file" field,
// the shape the bulk upload endpoint expects.
func UploadFile(t *testing.T, url, filename string, contents []byte) (*http.Response, error) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to build multipart body: %v", err)
	}
	if _, err := part.Write(contents); err != nil {
		t.Fatalf("failed to write multipart body: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart body: %v", err)
	}

	t.Logf("Request POST %s (%s, %d bytes)", url, filename, len(contents))
	resp, err := http.Post(url, w.FormDataContentType(), &body)
	if resp != nil {
		t.Logf("Response POST %s: Status %d", url, resp.StatusCode)
		t.Cleanup(func() {
			_ = resp.Body.Close()
		})
	}
	return resp, err
}

func GetTraceId(resp *http.Response) string {
	return resp.Header.Get(pkg.HeaderTraceId)
}

func DecodeJSON(t *testing.T, r io.Reader, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(r).Decode(out); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

// DecodeError reads the service's `{"error": "..."}` envelope.
func DecodeError(t *testing.T, r io.Reader) string {
	t.Helper()
	var out struct {
		Error string `json:"error"`
	}
	DecodeJSON(t, r, &out)
	return out.Error
}
