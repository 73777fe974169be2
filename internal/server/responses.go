package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/workcard/pkg/errors"
)

type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
	Meta    any  `json:"meta,omitempty"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
	Meta    any       `json:"meta,omitempty"`
}

type errorBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []errorDetail `json:"details,omitempty"`
}

type errorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func meta(r *http.Request) any {
	if id := RequestID(r.Context()); id != "" {
		return map[string]string{"request_id": id}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(successResponse{Success: true, Data: data, Meta: meta(r)})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details []errorDetail) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorBody{Code: code, Message: message, Details: details},
		Meta:  meta(r),
	})
}

// statusFor maps an error code to the HTTP status reported for it.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidVariant, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeMalformedRecord:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeErr reports err using its code, with field details for validation
// failures.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeError(w, r, statusFor(code), string(code), errors.UserMessage(err), fieldDetails(err))
}

func fieldDetails(err error) []errorDetail {
	var v *errors.ValidationError
	if !stderrors.As(err, &v) {
		return nil
	}
	out := make([]errorDetail, len(v.Fields))
	for i, f := range v.Fields {
		out[i] = errorDetail{Field: f.Field, Message: f.Reason}
	}
	return out
}
