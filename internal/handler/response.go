package handler

import (
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/pixellab01/dashboard/internal/domain"
)

// Response is the uniform envelope for every endpoint
type Response struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// SuccessResponse returns a successful response
func SuccessResponse(c *app.RequestContext, data interface{}) {
	c.JSON(consts.StatusOK, Response{
		Code:    "SUCCESS",
		Message: "operation successful",
		Data:    data,
	})
}

// CreatedResponse returns a created response
func CreatedResponse(c *app.RequestContext, data interface{}) {
	c.JSON(consts.StatusCreated, Response{
		Code:    "CREATED",
		Message: "resource created successfully",
		Data:    data,
	})
}

// AcceptedResponse returns an accepted response (async job enqueued)
func AcceptedResponse(c *app.RequestContext, data interface{}) {
	c.JSON(consts.StatusAccepted, Response{
		Code:    "ACCEPTED",
		Message: "request accepted",
		Data:    data,
	})
}

// NoContentResponse returns a no content response (typically for delete operations)
func NoContentResponse(c *app.RequestContext) {
	c.Status(consts.StatusNoContent)
}

// ErrorResponse returns an error response based on error type
func ErrorResponse(c *app.RequestContext, err error) {
	// user-facing message only, never internal detail
	getUserMessage := func(err error) string {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return domainErr.UserMessage()
		}
		return "an error occurred"
	}

	switch {
	case domain.IsNotFound(err):
		c.JSON(consts.StatusNotFound, Response{
			Code:    "NOT_FOUND",
			Message: getUserMessage(err),
		})
	case domain.IsAlreadyExists(err):
		c.JSON(consts.StatusConflict, Response{
			Code:    "ALREADY_EXISTS",
			Message: getUserMessage(err),
		})
	case domain.IsUnknownReport(err):
		c.JSON(consts.StatusBadRequest, Response{
			Code:    "UNKNOWN_REPORT",
			Message: getUserMessage(err),
		})
	case errors.Is(err, domain.ErrDatasetExpired):
		c.JSON(consts.StatusGone, Response{
			Code:    "DATASET_EXPIRED",
			Message: "dataset has expired, upload the file again",
		})
	case errors.Is(err, domain.ErrEmptyDataset):
		c.JSON(consts.StatusBadRequest, Response{
			Code:    "EMPTY_DATASET",
			Message: "uploaded file has no data rows",
		})
	case domain.IsInvalidInput(err):
		c.JSON(consts.StatusBadRequest, Response{
			Code:    "INVALID_INPUT",
			Message: getUserMessage(err),
		})
	default:
		c.JSON(consts.StatusInternalServerError, Response{
			Code:    "INTERNAL_ERROR",
			Message: "internal server error",
		})
	}
}

// BadRequestResponse returns a bad request response
func BadRequestResponse(c *app.RequestContext, message string) {
	c.JSON(consts.StatusBadRequest, Response{
		Code:    "BAD_REQUEST",
		Message: message,
	})
}

// ListResponse is the envelope for list endpoints
type ListResponse struct {
	Items      interface{} `json:"items"`
	TotalCount int         `json:"totalCount"`
}
