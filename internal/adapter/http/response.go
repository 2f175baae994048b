package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/adapter/logger"
	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/go-chi/chi/v5"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// errorKinds maps each failure kind to its status code and a stable name
// clients can switch on. The first match wins, so a kind that wraps another
// must come before it.
var errorKinds = []struct {
	err    error
	status int
	kind   string
}{
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrDuplicate, http.StatusConflict, "duplicate"},
	{domain.ErrReferentialConflict, http.StatusConflict, "referential_conflict"},
	{domain.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument"},
	{domain.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{domain.ErrOrderTerminal, http.StatusUnprocessableEntity, "order_terminal"},
	{domain.ErrInvalidTransition, http.StatusUnprocessableEntity, "invalid_transition"},
	{domain.ErrItemUnavailable, http.StatusUnprocessableEntity, "item_unavailable"},
	{domain.ErrInsufficientStock, http.StatusUnprocessableEntity, "insufficient_stock"},
	{domain.ErrTableUnavailable, http.StatusUnprocessableEntity, "table_unavailable"},
	{domain.ErrAlreadyOccupied, http.StatusConflict, "already_occupied"},
	{domain.ErrWorkerInactive, http.StatusUnprocessableEntity, "worker_inactive"},
	{domain.ErrPaymentRequired, http.StatusUnprocessableEntity, "payment_required"},
	{domain.ErrAlreadyPaid, http.StatusUnprocessableEntity, "already_paid"},
	{domain.ErrUnderPayment, http.StatusUnprocessableEntity, "under_payment"},
	{domain.ErrInvalidStatusTransition, http.StatusUnprocessableEntity, "invalid_status_transition"},
	{domain.ErrLastSupervisor, http.StatusUnprocessableEntity, "last_supervisor"},
	{domain.ErrStorageUnavailable, http.StatusServiceUnavailable, "storage_unavailable"},
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondError writes the mapped status for err. Unknown errors are logged
// and hidden behind a 500.
func respondError(w http.ResponseWriter, r *http.Request, log logger.Logger, action string, err error) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			if k.status >= http.StatusInternalServerError {
				log.Error(action, "Request failed", requestID(r), nil, err)
			} else {
				log.Debug(action, err.Error(), requestID(r), map[string]interface{}{"kind": k.kind})
			}
			writeJSON(w, k.status, ErrorResponse{Error: err.Error(), Kind: k.kind})
			return
		}
	}

	log.Error(action, "Unexpected failure", requestID(r), nil, err)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", domain.ErrInvalidArgument, err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", domain.ErrInvalidArgument, name)
	}
	return id, nil
}

func queryBool(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: invalid %s", domain.ErrInvalidArgument, name)
	}
	return b, nil
}

// parseWindow reads from/to as RFC 3339 timestamps or YYYY-MM-DD dates in loc
func parseWindow(r *http.Request, loc *time.Location) (domain.Window, error) {
	var w domain.Window
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"from", &w.From}, {"to", &w.To}} {
		v := r.URL.Query().Get(p.name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			t, err = time.ParseInLocation(time.DateOnly, v, loc)
		}
		if err != nil {
			return w, fmt.Errorf("%w: %s must be RFC 3339 or YYYY-MM-DD", domain.ErrInvalidArgument, p.name)
		}
		*p.dst = &t
	}
	if w.From != nil && w.To != nil && !w.From.Before(*w.To) {
		return w, fmt.Errorf("%w: from must be before to", domain.ErrInvalidArgument)
	}
	return w, nil
}
