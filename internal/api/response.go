package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/dialog"
	"github.com/lzjever/mbos-wbs/internal/editing"
	"github.com/lzjever/mbos-wbs/internal/host"
	"github.com/lzjever/mbos-wbs/internal/store"
)

// ErrorResponse represents a WBS error response. Prompt is set when the
// operation stopped at a dialog the request carried no answer for.
type ErrorResponse struct {
	Code          string                `json:"code"`
	Message       string                `json:"message"`
	EditCode      string                `json:"edit_code,omitempty"`
	Prompt        *dialog.Prompt        `json:"prompt,omitempty"`
	Notifications []dialog.Notification `json:"notifications,omitempty"`
	Prompts       []dialog.Prompt       `json:"prompts,omitempty"`
}

// WriteError writes a WBS error response.
func WriteError(w http.ResponseWriter, err *core.AppError) {
	WriteJSON(w, err.Code.HTTPStatus(), ErrorResponse{
		Code:    string(err.Code),
		Message: err.Message,
	})
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeFailure maps a service error onto a response.
func (a *API) writeFailure(w http.ResponseWriter, err error, preset *dialog.Preset) {
	resp := ErrorResponse{Code: string(core.ErrInternal), Message: err.Error()}
	if preset != nil {
		resp.Notifications = preset.Notifications()
		resp.Prompts = preset.Shown()
	}

	var (
		appErr    *core.AppError
		answerErr *dialog.AnswerRequiredError
		editErr   *editing.EditError
	)
	switch {
	case errors.As(err, &answerErr):
		resp.Code = string(core.ErrAnswerRequired)
		resp.Prompt = &answerErr.Prompt
	case errors.As(err, &appErr):
		resp.Code = string(appErr.Code)
		resp.Message = appErr.Message
	case errors.As(err, &editErr):
		resp.Code = string(core.ErrEditConflict)
		resp.EditCode = string(editErr.Code)
	case errors.Is(err, host.ErrWindowNotFound), errors.Is(err, store.ErrNotFound):
		resp.Code = string(core.ErrNotFound)
	default:
		a.log.Error("api: request failed", zap.Error(err))
		resp.Message = "internal error"
	}
	WriteJSON(w, core.ErrorCode(resp.Code).HTTPStatus(), resp)
}

// OperationResponse is returned by every window operation.
type OperationResponse struct {
	Window        *host.Info            `json:"window,omitempty"`
	Notifications []dialog.Notification `json:"notifications"`
	Prompts       []dialog.Prompt       `json:"prompts"`
}
