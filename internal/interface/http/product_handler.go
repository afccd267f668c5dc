package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/marketplace-api/internal/application"
	"github.com/oksasatya/marketplace-api/internal/domain/entity"
	"github.com/oksasatya/marketplace-api/pkg/response"
)

type ProductHandler struct {
	Svc            *application.ProductService
	Logger         *logrus.Logger
	MaxUploadBytes int64
}

func NewProductHandler(svc *application.ProductService, logger *logrus.Logger, maxUploadBytes int64) *ProductHandler {
	return &ProductHandler{Svc: svc, Logger: logger, MaxUploadBytes: maxUploadBytes}
}

type createProductRequest struct {
	Name        string   `form:"name" binding:"required,max=100"`
	Description string   `form:"description" binding:"required,max=500"`
	Price       string   `form:"price" binding:"required"`
	Category    string   `form:"category" binding:"required,category"`
	Stock       int      `form:"stock" binding:"min=0"`
	Tags        string   `form:"tags"`
	Weight      *float64 `form:"weight" binding:"omitempty,gte=0"`
	Length      float64  `form:"length" binding:"gte=0"`
	Width       float64  `form:"width" binding:"gte=0"`
	Height      float64  `form:"height" binding:"gte=0"`
}

type reviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=500"`
}

func productPage(page *entity.Page[entity.Product]) gin.H {
	return gin.H{"products": page.Items, "pagination": page.Pagination}
}

func parseMoney(c *gin.Context, key string) (*decimal.Decimal, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		response.Error[any](c, http.StatusBadRequest, "Validation failed", map[string]string{key: "must be a non-negative number"})
		return nil, false
	}
	return &d, true
}

// List serves the public catalog.
func (h *ProductHandler) List(c *gin.Context) {
	minPrice, ok := parseMoney(c, "minPrice")
	if !ok {
		return
	}
	maxPrice, ok := parseMoney(c, "maxPrice")
	if !ok {
		return
	}

	page, err := h.Svc.ListPublic(c.Request.Context(), application.CatalogQuery{
		Category:  c.Query("category"),
		Search:    c.Query("search"),
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Page:      pageFrom(c),
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, productPage(page), "", nil)
}

// Mine lists the caller's own products in any status.
func (h *ProductHandler) Mine(c *gin.Context) {
	page, err := h.Svc.ListMine(c.Request.Context(), userID(c), c.Query("status"), pageFrom(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, productPage(page), "", nil)
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"product": p}, "", nil)
}

// Create accepts multipart/form-data with up to five "images" files.
func (h *ProductHandler) Create(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}

	var req createProductRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}
	price, err := decimal.NewFromString(strings.TrimSpace(req.Price))
	if err != nil || price.IsNegative() {
		response.Error[any](c, http.StatusBadRequest, "Validation failed", map[string]string{"price": "must be a non-negative number"})
		return
	}

	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files = form.File["images"]
	}
	if len(files) > entity.MaxProductImages {
		response.Error[any](c, http.StatusBadRequest, "Validation failed", map[string]string{"images": "at most 5 images are allowed"})
		return
	}

	in := application.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Category:    entity.Category(req.Category),
		Stock:       req.Stock,
		Tags:        application.ParseTags(req.Tags),
		Weight:      req.Weight,
		Images:      uploadsFrom(files),
	}
	if req.Length > 0 || req.Width > 0 || req.Height > 0 {
		in.Dimensions = &entity.Dimensions{Length: req.Length, Width: req.Width, Height: req.Height}
	}

	p, err := h.Svc.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"product": p}, "Product created successfully", nil)
}

func uploadsFrom(files []*multipart.FileHeader) []application.ImageUpload {
	out := make([]application.ImageUpload, 0, len(files))
	for _, fh := range files {
		fh := fh
		out = append(out, application.ImageUpload{
			ContentType: fh.Header.Get("Content-Type"),
			Open:        func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	return out
}

func (h *ProductHandler) AddReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	p, err := h.Svc.AddReview(c.Request.Context(), userID(c), c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"product": p}, "Review added", nil)
}
