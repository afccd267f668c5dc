package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/marketplace-api/internal/application"
	"github.com/oksasatya/marketplace-api/internal/domain/entity"
	"github.com/oksasatya/marketplace-api/pkg/helpers"
	"github.com/oksasatya/marketplace-api/pkg/response"
	"github.com/oksasatya/marketplace-api/pkg/validation"
)

type errorMapping struct {
	kind   error
	status int
	msg    string
}

// errorTable maps application sentinels to status and default message.
var errorTable = []errorMapping{
	{application.ErrInvalidInput, http.StatusBadRequest, "Invalid input"},
	{application.ErrEmailTaken, http.StatusBadRequest, "User already exists with this email"},
	{application.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{application.ErrAdminAccessDenied, http.StatusUnauthorized, "Admin access denied"},
	{application.ErrInvalidAdminCredentials, http.StatusUnauthorized, "Invalid admin credentials"},
	{application.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{application.ErrForbidden, http.StatusForbidden, "Access denied"},
	{application.ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{application.ErrProductUnavailable, http.StatusBadRequest, "Product is not available"},
	{application.ErrInsufficientStock, http.StatusBadRequest, "Insufficient stock"},
	{application.ErrOrderNotFound, http.StatusNotFound, "Order not found"},
	{application.ErrInvalidTransition, http.StatusBadRequest, "Invalid status transition"},
}

// respondError writes the envelope for err. Unknown errors are logged and
// answered with a generic 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	for _, m := range errorTable {
		if !errors.Is(err, m.kind) {
			continue
		}
		msg := m.msg
		var f *application.Failure
		if errors.As(err, &f) && f.Msg != "" {
			msg = f.Msg
		}
		response.Error[any](c, m.status, msg, nil)
		return
	}
	helpers.LogError(logger, "request failed", err, logrus.Fields{
		"request_id": c.GetString("request_id"),
		"path":       c.FullPath(),
	})
	response.Error[any](c, http.StatusInternalServerError, "Server error", nil)
}

func respondBindError(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "Validation failed", validation.ToDetails(err))
}

// pageFrom reads page and limit from the query string; invalid values fall back to defaults.
func pageFrom(c *gin.Context) entity.PageRequest {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return entity.PageRequest{Page: page, Limit: limit}
}

func userID(c *gin.Context) string {
	return c.GetString("userID")
}
