package validation

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorsCollectsFirstMessage(t *testing.T) {
	v := &Errors{}
	v.Required("title", "  ")
	v.Add("title", "second message")
	v.Check("email", ValidateEmail("nope"))
	v.Range("progress", 120, 0, 100)
	v.OneOf("status", "paused", false)
	v.MaxLength("name", strings.Repeat("x", 11), 10)

	err := v.Err()
	require.Error(t, err)

	var verr *Errors
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "is required", verr.Fields["title"])
	assert.Equal(t, "must be a plain address like name@example.com", verr.Fields["email"])
	assert.Equal(t, "must be between 0 and 100", verr.Fields["progress"])
	assert.Contains(t, verr.Fields["status"], "paused")
	assert.Contains(t, verr.Fields["name"], "10")
	assert.True(t, strings.HasPrefix(err.Error(), "validation failed: email:"))
}

func TestErrorsEmptyIsNil(t *testing.T) {
	v := &Errors{}
	v.Required("title", "ok")
	v.Check("email", nil)
	assert.NoError(t, v.Err())
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid", email: "coach@example.com"},
		{name: "empty", email: "", wantErr: true},
		{name: "missing at", email: "coach.example.com", wantErr: true},
		{name: "too long", email: strings.Repeat("a", 250) + "@x.io", wantErr: true},
		{name: "display name", email: "Ada <ada@example.com>", wantErr: true},
		{name: "no dot in domain", email: "ada@localhost", wantErr: true},
		{name: "subdomain", email: "ada@mail.example.co.uk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTitle(t *testing.T) {
	assert.NoError(t, ValidateTitle("Run a marathon"))
	assert.Error(t, ValidateTitle("   "))
	assert.Error(t, ValidateTitle(strings.Repeat("ü", 201)))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("correct horse battery staple"))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword("mypassword-is-long"))
	assert.Error(t, ValidatePassword("my-lifeos-coach-login"))
	assert.Error(t, ValidatePassword(strings.Repeat("long words ", 8)))
	assert.Error(t, ValidatePassword("ümlautsüüü"), "length counts characters, not bytes")
}

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestValidateFile(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	assert.NoError(t, ValidateFile(fileHeader(t, "cover.png", png), ImageConstraints))
	assert.ErrorContains(t, ValidateFile(fileHeader(t, "cover.txt", png), ImageConstraints), "extension")
	assert.ErrorContains(t, ValidateFile(fileHeader(t, "cover.png", []byte("plain text")), ImageConstraints), "invalid file type")
	assert.Error(t, ValidateFile(fileHeader(t, "cover.png", png)))
}
