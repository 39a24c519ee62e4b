package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GrzegKrol/10x-cards/internal/middleware"
	"github.com/GrzegKrol/10x-cards/internal/models"
	"github.com/GrzegKrol/10x-cards/internal/services"
)

const (
	maxBodyBytes = 1 << 20

	msgInvalidJSON     = "Invalid JSON in request body"
	msgInternalError   = "Internal server error"
	msgAIServiceFailed = "AI service error. Please try again later."
)

var errInvalidJSON = errors.New(msgInvalidJSON)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(errMsg string, details interface{}) models.ErrorResponse {
	return models.ErrorResponse{Error: errMsg, Details: details}
}

// decodeJSON reads a single JSON object into v. A value of the wrong type is
// reported as a validation error on that field; anything unparseable is
// errInvalidJSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(v)
	if err == nil {
		if _, extra := dec.Token(); extra != io.EOF {
			return errInvalidJSON
		}
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			return errInvalidJSON
		}
		return services.NewFieldError(field, fmt.Sprintf("%s must be a %s", field, jsonTypeName(typeErr.Type.Kind().String())))
	}
	return errInvalidJSON
}

func jsonTypeName(kind string) string {
	switch {
	case strings.HasPrefix(kind, "float"), strings.HasPrefix(kind, "int"), strings.HasPrefix(kind, "uint"):
		return "number"
	case kind == "bool":
		return "boolean"
	case kind == "slice", kind == "array":
		return "array"
	case kind == "map", kind == "struct":
		return "object"
	default:
		return kind
	}
}

// pathUUID parses a chi URL parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, services.NewFieldError(name, name+" must be a valid UUID")
	}
	return id, nil
}

// queryInt reads an optional integer query parameter, recording a field
// error when it is present but not an integer.
func queryInt(q url.Values, key string, def int, fields *[]models.FieldError) int {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*fields = append(*fields, models.FieldError{Field: key, Message: key + " must be an integer"})
		return def
	}
	return n
}

// responder turns service errors into HTTP responses. Every handler embeds it.
type responder struct {
	logger *zap.Logger
}

func (h responder) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr  *services.ValidationError
		nf    *services.NotFoundError
		ue    *services.UnauthorizedError
		ce    *services.ConflictError
		upErr *services.UpstreamError
	)

	switch {
	case errors.Is(err, errInvalidJSON):
		writeJSON(w, http.StatusBadRequest, errorResp(msgInvalidJSON, nil))
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResp(services.MsgValidationFailed, verr.Fields))
	case errors.As(err, &nf):
		writeJSON(w, http.StatusNotFound, errorResp(nf.Message, nil))
	case errors.As(err, &ue):
		writeJSON(w, http.StatusUnauthorized, errorResp(ue.Message, nil))
	case errors.As(err, &ce):
		writeJSON(w, http.StatusConflict, errorResp(ce.Message, nil))
	case errors.As(err, &upErr):
		h.logger.Warn("upstream AI failure",
			zap.String("provider", upErr.Provider),
			zap.String("kind", string(upErr.Kind)),
			zap.Int("status_code", upErr.StatusCode),
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: msgInternalError, Message: msgAIServiceFailed})
	default:
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp(msgInternalError, nil))
	}
}
