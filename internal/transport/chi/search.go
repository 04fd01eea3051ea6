package chi

import (
	"encoding/json"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/shopdex/internal/domain/search/order"
	"github.com/kailas-cloud/shopdex/internal/domain/search/request"
)

// NaturalSearch handles POST /api/v1/search/natural.
func (s *Server) NaturalSearch(w http.ResponseWriter, r *http.Request) {
	var req naturalSearchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	page := request.NewPage(req.Page, req.Limit, s.opts.DefaultPageSize, s.opts.MaxPageSize)
	natural, err := request.NewNatural(req.Query, page)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	res, err := s.search.Natural(r.Context(), &natural)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set(IntentSourceHeader, string(res.Outcome.Source))
	writeJSON(w, http.StatusOK, res.Envelope)
}

// FacetedSearch handles GET /api/v1/search.
func (s *Server) FacetedSearch(w http.ResponseWriter, r *http.Request) {
	var (
		text, sortBy, sortOrder *string
		categories              *[]string
		minPrice, maxPrice      *float64
		pageNum, limit          *int
	)
	params := []struct {
		name string
		dest any
	}{
		{"query", &text},
		{"categories", &categories},
		{"min_price", &minPrice},
		{"max_price", &maxPrice},
		{"sort_by", &sortBy},
		{"sort_order", &sortOrder},
		{"page", &pageNum},
		{"limit", &limit},
	}
	query := r.URL.Query()
	for _, p := range params {
		if err := runtime.BindQueryParameter("form", true, false, p.name, query, p.dest); err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid format for parameter "+p.name+": "+err.Error())
			return
		}
	}

	ord, err := order.Parse(deref(sortBy), deref(sortOrder))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}
	page := request.NewPage(deref(pageNum), deref(limit), s.opts.DefaultPageSize, s.opts.MaxPageSize)
	faceted, err := request.NewFaceted(deref(text), deref(categories), minPrice, maxPrice, ord, page)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	items, err := s.search.Faceted(r.Context(), &faceted)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// FeaturedProducts handles GET /api/v1/search/featured.
func (s *Server) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid format for parameter limit: "+err.Error())
		return
	}

	env, err := s.search.Featured(r.Context(), deref(limit))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, env)
}
