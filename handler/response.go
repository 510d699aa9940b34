package handler

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type jsonResponse struct {
	status int
	body   any
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, j.status, j.body)
	return nil
}

// JSON renders body with the given status.
func JSON(status int, body any) Response {
	return jsonResponse{status: status, body: body}
}

// OK renders body with 200.
func OK(body any) Response {
	return JSON(http.StatusOK, body)
}

// Error renders err through the default classification. Use it from a
// handler when the failure response must carry extra fields.
func Error(err error) Response {
	return errorResponse{err: err}
}

type errorResponse struct{ err error }

func (e errorResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	writeError(w, classify(e.err, nil))
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, e HTTPError) {
	writeJSON(w, e.Code, ErrorBody{Success: false, Error: e.Key})
}

// Fail hands err to the ErrorHandler configured on Wrap, so module error
// mappers apply.
func Fail(err error) Response {
	if err == nil {
		err = ErrInternal
	}
	return failResponse{err: err}
}

type failResponse struct{ err error }

func (f failResponse) Render(http.ResponseWriter, *http.Request) error { return f.err }
