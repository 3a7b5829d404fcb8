package httpclient

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeResponse creates an *http.Response with the given status code and body string.
func makeResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func asStatusError(t *testing.T, err error) *StatusError {
	t.Helper()
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr), "expected *StatusError, got %T: %v", err, err)
	return statusErr
}

func TestParseResponseError_StructuredError(t *testing.T) {
	resp := makeResponse(http.StatusNotFound, `{"error":{"code":"NOT_FOUND","message":"no such route"}}`)
	err := ParseResponseError(resp, "catalog-api")

	statusErr := asStatusError(t, err)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "NOT_FOUND", statusErr.Code)
	assert.Equal(t, "no such route", statusErr.Message)
	assert.Equal(t, "catalog-api returned status 404: no such route", err.Error())
}

func TestParseResponseError_PlainStringError(t *testing.T) {
	// Shape produced by the catalog API when the gold price lookup fails.
	resp := makeResponse(http.StatusInternalServerError,
		`{"error":"Could not retrieve real-time gold price. Please check API key and service availability."}`)
	err := ParseResponseError(resp, "catalog-api")

	statusErr := asStatusError(t, err)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Empty(t, statusErr.Code)
	assert.Contains(t, statusErr.Message, "gold price")
	assert.Contains(t, err.Error(), "500")
}

func TestParseResponseError_UnstructuredBody(t *testing.T) {
	resp := makeResponse(http.StatusBadGateway, "Bad Gateway: upstream connection refused")
	err := ParseResponseError(resp, "nginx")

	statusErr := asStatusError(t, err)
	assert.Equal(t, "Bad Gateway: upstream connection refused", statusErr.Message)
	assert.Contains(t, err.Error(), "nginx")
	assert.Contains(t, err.Error(), "502")
}

func TestParseResponseError_EmptyBody(t *testing.T) {
	err := ParseResponseError(makeResponse(http.StatusInternalServerError, ""), "some-service")

	assert.Equal(t, "some-service returned status 500", err.Error())
}

func TestParseResponseError_NullError(t *testing.T) {
	err := ParseResponseError(makeResponse(http.StatusBadRequest, `{"error":null}`), "svc")

	statusErr := asStatusError(t, err)
	assert.Equal(t, `{"error":null}`, statusErr.Message)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
}
