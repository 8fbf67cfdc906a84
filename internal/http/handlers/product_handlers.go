package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"go.uber.org/zap"
)

func toResponse(p models.Product) ProductResponse {
	return ProductResponse{
		Id:    p.ID,
		Name:  p.Name,
		Price: p.Price,
	}
}

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the catalog
// @Tags products
// @Accept json
// @Produce json
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Header 201 {string} Location "/products/{id}"
// @Failure 400 {array} ProductValidationError
// @Failure 500 {string} string "Internal error"
// @Router /products [post]
func (s *Server) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateProduct(req)
	if len(validationErrors) > 0 {
		s.respond(w, http.StatusBadRequest, validationErrors)
		return
	}

	created, err := s.productRepo.Create(r.Context(), models.Product{Name: req.Name, Price: req.Price})
	if err != nil {
		if errors.Is(err, repo.ErrConstraintViolation) {
			s.logger.Warn("product rejected by storage", zap.Error(err))
			http.Error(w, "could not create product: value rejected by storage", http.StatusBadRequest)
			return
		}
		s.logger.Error("could not create product", zap.Error(err))
		http.Error(w, "could not create product", http.StatusInternalServerError)
		return
	}

	headers := http.Header{}
	headers.Set("Location", fmt.Sprintf("/products/%d", created.ID))
	s.respond(w, http.StatusCreated, toResponse(created), headers)
}

// GetProductsHandler godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Success 200 {array} ProductResponse
// @Failure 500 {string} string "Internal error"
// @Router /products [get]
func (s *Server) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := s.productRepo.GetAll(r.Context())
	if err != nil {
		s.logger.Error("could not fetch products", zap.Error(err))
		http.Error(w, "could not fetch products", http.StatusInternalServerError)
		return
	}
	response := make([]ProductResponse, len(products))
	for i, p := range products {
		response[i] = toResponse(p)
	}
	s.respond(w, http.StatusOK, response)
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [get]
func (s *Server) GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	product, err := s.productRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		s.logger.Error("could not fetch product", zap.Int("id", id), zap.Error(err))
		http.Error(w, "could not fetch product", http.StatusInternalServerError)
		return
	}
	s.respond(w, http.StatusOK, toResponse(product))
}
