package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/cafeapi/internal/service"
)

var endpoints = []struct {
	Method, Path, Description string
}{
	{"GET", "/random", "A random cafe"},
	{"GET", "/all", "Every cafe"},
	{"GET", "/search?loc=Peckham", "Cafes whose location matches exactly"},
	{"POST", "/add", "Add a cafe (form body)"},
	{"PATCH", "/update_price/{cafe_id}?price=2.50", "Update a cafe's coffee price"},
	{"DELETE", "/report_closed/{cafe_id}?api_key=...", "Remove a cafe that has closed"},
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if err := s.renderPage(w, map[string]any{"Endpoints": endpoints}, "index.html"); err != nil {
		s.logger.Error("render page error", "error", err)
	}
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	cafe, err := s.service.RandomCafe(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, msgEmptyStore)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cafe": toCafeJSON(cafe)})
}

func (s *Server) handleAll(w http.ResponseWriter, r *http.Request) {
	cafes, err := s.service.AllCafes(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, msgIDNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cafes": toCafeList(cafes)})
}

// handleSearch answers a miss with 200 and an error body rather than 404,
// which existing clients of /search rely on.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	cafes, err := s.service.SearchByLocation(r.Context(), r.URL.Query().Get("loc"))
	if errors.Is(err, service.ErrNotFound) {
		writeError(w, http.StatusOK, labelNotFound, msgNoCafesNear)
		return
	}
	if err != nil {
		s.writeServiceError(w, r, err, msgNoCafesNear)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cafe": toCafeList(cafes)})
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	in := service.AddCafeInput{
		Name:     r.PostFormValue("name"),
		MapURL:   r.PostFormValue("map_url"),
		ImgURL:   r.PostFormValue("img_url"),
		Location: r.PostFormValue("loc"),
		Seats:    r.PostFormValue("seats"),
		Toilet:   r.PostFormValue("toilet"),
		Wifi:     r.PostFormValue("wifi"),
		Sockets:  r.PostFormValue("sockets"),
		Calls:    r.PostFormValue("calls"),
		Price:    r.PostFormValue("price"),
	}

	if _, err := s.service.AddCafe(r.Context(), in); err != nil {
		s.writeServiceError(w, r, err, msgIDNotFound)
		return
	}
	writeSuccess(w, msgAdded)
}

func (s *Server) handleUpdatePrice(w http.ResponseWriter, r *http.Request) {
	id, ok := parseCafeID(r)
	if !ok {
		writeError(w, http.StatusNotFound, labelNotFound, msgIDNotFound)
		return
	}

	if err := s.service.UpdatePrice(r.Context(), id, r.URL.Query().Get("price")); err != nil {
		s.writeServiceError(w, r, err, msgIDNotFound)
		return
	}
	writeSuccess(w, msgPriceUpdated)
}

func (s *Server) handleReportClosed(w http.ResponseWriter, r *http.Request) {
	id, ok := parseCafeID(r)
	if !ok {
		writeError(w, http.StatusNotFound, labelNotFound, msgIDNotFound)
		return
	}

	if err := s.service.ReportClosed(r.Context(), id, r.URL.Query().Get("api_key")); err != nil {
		s.writeServiceError(w, r, err, msgIDNotFound)
		return
	}
	writeSuccess(w, msgReported)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseCafeID reads the {cafe_id} path segment. Only non-negative integers
// match, so anything else is treated like an unknown route.
func parseCafeID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "cafe_id"), 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}
