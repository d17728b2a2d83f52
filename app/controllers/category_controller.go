package controllers

import (
	"net/http"

	"inkwell/app/auth"
	"inkwell/app/logger"
	"inkwell/app/services"
)

// CategoryController handles HTTP requests for categories
type CategoryController struct {
	categoryService *services.CategoryService
	log             *logger.Logger
}

func NewCategoryController(categoryService *services.CategoryService, log *logger.Logger) *CategoryController {
	if log == nil {
		log = logger.Nop()
	}
	return &CategoryController{
		categoryService: categoryService,
		log:             log.With("controller", "CategoryController"),
	}
}

func (cc *CategoryController) Index(w http.ResponseWriter, r *http.Request) {
	categories, err := cc.categoryService.List(r.Context())
	if err != nil {
		sendError(w, r, cc.log, err)
		return
	}
	sendList(w, categories)
}

func (cc *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFrom(r.Context())

	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		sendError(w, r, cc.log, err)
		return
	}

	category, err := cc.categoryService.Create(r.Context(), principal, services.CategoryInput{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		sendError(w, r, cc.log, err)
		return
	}
	sendData(w, http.StatusCreated, category)
}
