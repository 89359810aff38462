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

// FileField is a file part of a multipart test request
type FileField struct {
	Field    string
	FileName string
	Content  []byte
}

// MakeRequest creates a basic HTTP request with an optional JSON body
func MakeRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, url, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req
}

// MakeMultipartRequest creates a multipart/form-data request with the given text
// fields and an optional file part
func MakeMultipartRequest(t *testing.T, method, url string, fields map[string]string, file *FileField) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("Failed to write form field %s: %v", key, err)
		}
	}

	if file != nil {
		part, err := writer.CreateFormFile(file.Field, file.FileName)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		if _, err := part.Write(file.Content); err != nil {
			t.Fatalf("Failed to write form file: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, url, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// AssertJSONResponse checks that the response has the expected status and decodes JSON
func AssertJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus int, v interface{}) {
	t.Helper()

	if rr.Code != expectedStatus {
		t.Errorf("Expected status %d, got %d. Body: %s", expectedStatus, rr.Code, rr.Body.String())
	}

	if v != nil && rr.Body.Len() > 0 {
		if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
			t.Errorf("Failed to decode JSON response: %v. Body: %s", err, rr.Body.String())
		}
	}
}
