package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/wrtgvr/rimdash-connect/internal/domain"
	errs "github.com/wrtgvr/rimdash-connect/internal/errors"
	"github.com/wrtgvr/rimdash-connect/internal/form"
)

// Respond with err as JSON. Non-AppErrors are reported as internal errors.
func (h *HTTPHandler) error(w http.ResponseWriter, err error) {
	appErr, ok := errs.As(err)
	if !ok {
		appErr = errs.NewInternalError(err)
	}
	if appErr.Type == errs.TypeInternal {
		h.logger.Error("request failed", "err", err)
	}
	h.encodeJSONResponse(w, &ErrorResponse{Error: appErr.Msg, Type: appErr.Type}, appErr.Code)
}

// Decode request body to `v`.
// Response with BadRequest on decode error
func (h *HTTPHandler) decodeJSONRequestBody(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.error(w, errs.NewBadRequest(err, "bad request"))
		return err
	}
	return nil
}

// Encode `v` to `w` with status `code`
func (h *HTTPHandler) encodeJSONResponse(w http.ResponseWriter, v any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to encode response", "err", err)
	}
}

func (h *HTTPHandler) connectionResponse() *ConnectionResponse {
	st := h.form.State()
	return &ConnectionResponse{
		CandidateURL: st.CandidateURL,
		IsValid:      st.IsValid,
		IsProbing:    st.IsProbing,
		Error:        st.Error,
		Reason:       st.Reason,
		ActiveURL:    h.activeURL(),
		Status:       h.domainStatusToDTO(h.lastStatus()),
	}
}

func (h *HTTPHandler) lastStatus() *domain.EndpointStatus {
	if h.monitor == nil {
		return nil
	}
	return h.monitor.Last()
}

func (h *HTTPHandler) domainStatusToDTO(st *domain.EndpointStatus) *StatusResponse {
	if st == nil {
		return nil
	}
	return &StatusResponse{
		ID:          st.ID,
		URL:         st.URL,
		OK:          st.OK,
		StatusCode:  st.StatusCode,
		Error:       st.Error,
		LastChecked: st.CheckedAt.Format(time.RFC3339),
		LatencyMs:   st.Latency.Milliseconds(),
	}
}

// superseded results are reported as conflicts
func actionError(err error) error {
	if err == form.ErrSuperseded {
		return errs.NewConflict(err, "a newer connection attempt replaced this one")
	}
	return err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
