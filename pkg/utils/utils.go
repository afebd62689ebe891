package utils

import (
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	apperrors "github.com/tendant/user-role-service/pkg/errors"
)

// ErrorResponse is the JSON body of non-404 error responses
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// RequireJSONBody fails unless the request declares a JSON body
func RequireJSONBody(r *http.Request) error {
	if render.GetRequestContentType(r) != render.ContentTypeJSON {
		return apperrors.Newf(apperrors.ErrCodeUnsupportedMedia, "unsupported content type: %q", r.Header.Get("Content-Type"))
	}
	return nil
}

// AcceptsJSON reports whether a JSON response is acceptable to the client.
// A missing Accept header accepts anything.
func AcceptsJSON(r *http.Request) bool {
	header := r.Header.Get("Accept")
	if strings.TrimSpace(header) == "" {
		return true
	}

	for _, part := range strings.Split(header, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if params["q"] == "0" {
			continue
		}
		switch {
		case mediaType == "*/*", mediaType == "application/*", mediaType == "application/json":
			return true
		case strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json"):
			return true
		}
	}
	return false
}

// DecodeJSON decodes the request body into v; malformed JSON is invalid input
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "malformed JSON body")
	}
	return nil
}

// Location joins the base URL of a collection and an entity id
func Location(base, id string) string {
	return strings.TrimSuffix(base, "/") + "/" + id
}

// RenderEmpty writes a status code with no body
func RenderEmpty(w http.ResponseWriter, statusCode int) {
	w.WriteHeader(statusCode)
}

// RenderError writes err as an HTTP response. Not-found errors get an empty body;
// everything else gets an ErrorResponse. Server-side failures are logged.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := apperrors.HTTPStatus(err)
	if statusCode == http.StatusNotFound {
		RenderEmpty(w, statusCode)
		return
	}

	if statusCode >= http.StatusInternalServerError {
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		slog.Debug("Rejected request", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Status:  "error",
		Message: apperrors.GetMessage(err),
	})
}
