package pdf

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPConverter_PostsHTMLAndReturnsPDF(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 converted"))
	}))
	defer srv.Close()

	conv := &HTTPConverter{BaseURL: srv.URL}
	out, err := conv.Convert(context.Background(), []byte("<html>certificate</html>"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 converted", string(out))
	assert.Equal(t, "/convert", gotPath)
	assert.Contains(t, gotContentType, "text/html")
	assert.Equal(t, "<html>certificate</html>", string(gotBody))
}

func TestHTTPConverter_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	conv := &HTTPConverter{BaseURL: srv.URL}
	_, err := conv.Convert(context.Background(), []byte("<html></html>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "boom")
}

func TestHTTPConverter_MissingBaseURL(t *testing.T) {
	conv := &HTTPConverter{}
	_, err := conv.Convert(context.Background(), []byte("x"))
	assert.Error(t, err)
}

func TestServiceRender_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		// The converter receives the executed template, not the view struct
		assert.Contains(t, string(body), "HEAT TREATMENT CERTIFICATE")
		_, _ = w.Write([]byte("%PDF"))
	}))
	defer srv.Close()

	s := &Service{Converter: &HTTPConverter{BaseURL: srv.URL}}
	out, err := s.Render(context.Background(), BuildView(sampleCertificate(), nil, true))
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out))
}
