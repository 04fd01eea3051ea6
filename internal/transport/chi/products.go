package chi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/shopdex/internal/domain"
)

// maxBodyBytes bounds product payloads.
const maxBodyBytes = 1 << 20

// ListProducts handles GET /api/v1/products.
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	var (
		skip, limit *int
		category    *string
	)
	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "skip", query, &skip); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid format for parameter skip: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &limit); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid format for parameter limit: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "category", query, &category); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid format for parameter category: "+err.Error())
		return
	}

	products, err := s.catalog.List(r.Context(), deref(category), deref(skip), deref(limit))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	out := make([]productResponse, len(products))
	for i := range products {
		out[i] = toProductResponse(&products[i])
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateProduct handles POST /api/v1/products.
func (s *Server) CreateProduct(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	if err := validate(s.schemas.create, body); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	var req productCreateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	p, err := s.catalog.Create(r.Context(), req.draft())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(&p))
}

// GetProduct handles GET /api/v1/products/{id}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := bindProductID(w, r)
	if !ok {
		return
	}
	p, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(&p))
}

// UpdateProduct handles PUT /api/v1/products/{id}. Absent fields are left unchanged.
func (s *Server) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := bindProductID(w, r)
	if !ok {
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	if err := validate(s.schemas.update, body); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	var req productUpdateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	pt, err := req.patch()
	if err != nil {
		s.handleDomainError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err))
		return
	}

	p, err := s.catalog.Update(r.Context(), id, pt)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(&p))
}

// DeleteProduct handles DELETE /api/v1/products/{id}.
func (s *Server) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := bindProductID(w, r)
	if !ok {
		return
	}
	if err := s.catalog.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func bindProductID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid format for parameter id: "+err.Error())
		return 0, false
	}
	return id, true
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return nil, false
	}
	return body, true
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
