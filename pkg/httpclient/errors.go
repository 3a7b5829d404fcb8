package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// StatusError is returned for upstream responses outside the 2xx range.
type StatusError struct {
	Service    string
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// upstreamErrorBody covers the two error shapes upstreams are known to send:
// {"error":{"code":"...","message":"..."}} and {"error":"..."}.
type upstreamErrorBody struct {
	Error json.RawMessage `json:"error"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and returns a
// *StatusError describing it. The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	statusErr := &StatusError{Service: serviceName, StatusCode: resp.StatusCode}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		statusErr.Message = fmt.Sprintf("failed to read body: %v", err)
		return statusErr
	}

	var body upstreamErrorBody
	if json.Unmarshal(bodyBytes, &body) == nil && len(body.Error) > 0 && string(body.Error) != "null" {
		var structured struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		var plain string
		switch {
		case json.Unmarshal(body.Error, &structured) == nil && structured.Message != "":
			statusErr.Code = structured.Code
			statusErr.Message = structured.Message
			return statusErr
		case json.Unmarshal(body.Error, &plain) == nil:
			statusErr.Message = plain
			return statusErr
		}
	}

	statusErr.Message = string(bodyBytes)
	return statusErr
}
