package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"shopfront/internal/models"
	"shopfront/internal/services"
	"shopfront/internal/store"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
	logger         zerolog.Logger
}

func NewCatalogHandler(st store.Store, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: services.NewCatalogService(st, logger),
		logger:         logger,
	}
}

func (h *CatalogHandler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.ListProducts(r.Context())
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) Product(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, h.logger, r, store.ErrProductNotFound)
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	phrase := r.URL.Query().Get("phrase")

	ids, err := h.catalogService.Search(r.Context(), phrase)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	if ids == nil {
		ids = []int{}
	}
	respondJSON(w, http.StatusOK, ids)
}

func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	names, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	respondJSON(w, http.StatusOK, names)
}
