package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/vbonduro/cafeapi/internal/domain"
	"github.com/vbonduro/cafeapi/internal/service"
)

// Error labels used as the single key inside an error envelope.
const (
	labelNotFound      = "Not Found"
	labelNotAuthorized = "Not Authorized"
	labelBadRequest    = "Bad Request"
	labelConflict      = "Conflict"
	labelInternal      = "Internal Server Error"
)

const (
	msgAdded         = "Successfully added the new cafe."
	msgPriceUpdated  = "Successfully updated the price."
	msgReported      = "Successfully reported a closed cafe."
	msgNoCafesNear   = "Sorry, there are no cafes near that location."
	msgIDNotFound    = "Sorry, a cafe with that id was not found in the database."
	msgNotAuthorized = "Sorry, that is not allowed. Make sure you have a valid api_key."
	msgEmptyStore    = "Sorry, there are no cafes in the database yet."
)

// cafeJSON is the wire form of a cafe.
type cafeJSON struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	MapURL       string  `json:"map_url"`
	ImgURL       string  `json:"img_url"`
	Location     string  `json:"location"`
	Seats        string  `json:"seats"`
	HasToilet    bool    `json:"has_toilet"`
	HasWifi      bool    `json:"has_wifi"`
	HasSockets   bool    `json:"has_sockets"`
	CanTakeCalls bool    `json:"can_take_calls"`
	CoffeePrice  *string `json:"coffee_price"`
}

func toCafeJSON(c *domain.Cafe) cafeJSON {
	return cafeJSON{
		ID:           c.ID,
		Name:         c.Name,
		MapURL:       c.MapURL,
		ImgURL:       c.ImgURL,
		Location:     c.Location,
		Seats:        c.Seats,
		HasToilet:    c.HasToilet,
		HasWifi:      c.HasWifi,
		HasSockets:   c.HasSockets,
		CanTakeCalls: c.CanTakeCalls,
		CoffeePrice:  c.CoffeePrice,
	}
}

func toCafeList(cafes []*domain.Cafe) []cafeJSON {
	out := make([]cafeJSON, len(cafes))
	for i, c := range cafes {
		out[i] = toCafeJSON(c)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func writeSuccess(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]map[string]string{"response": {"success": msg}})
}

func writeError(w http.ResponseWriter, status int, label, msg string) {
	writeJSON(w, status, map[string]map[string]string{"error": {label: msg}})
}

// writeServiceError maps a service error onto its status and envelope.
// notFoundMsg is the message used for service.ErrNotFound.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, labelBadRequest, verr.Error())
	case errors.Is(err, service.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, labelNotAuthorized, msgNotAuthorized)
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, labelNotFound, notFoundMsg)
	case errors.Is(err, service.ErrEmptyStore):
		writeError(w, http.StatusNotFound, labelNotFound, msgEmptyStore)
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusConflict, labelConflict, "Sorry, a cafe with that name already exists.")
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, labelInternal, "Something went wrong, please try again later.")
	}
}
