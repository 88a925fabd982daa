package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rgummadi/vidscribe/internal/api/response"
)

// maxInspectBody bounds how much of a request body the validator will buffer.
const maxInspectBody = 1 << 20

// ValidateVideoURL rejects any JSON request body whose videoUrl field fails
// URL parsing, before the request reaches a route handler. Bodies without a
// videoUrl field pass through untouched.
func ValidateVideoURL(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil || !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxInspectBody))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		r.Body.Close()
		// Hand the handler an untouched copy of what was read.
		r.Body = io.NopCloser(bytes.NewReader(body))

		var probe struct {
			VideoURL *string `json:"videoUrl"`
		}
		if err := json.Unmarshal(body, &probe); err == nil && probe.VideoURL != nil {
			if !validURL(*probe.VideoURL) {
				response.Error(w, http.StatusBadRequest, "Invalid video URL format")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
