package handler

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/swharr/storm-surge/internal/constant"
	"github.com/swharr/storm-surge/internal/entity/response"
)

type baseHandler struct {
}

func (h baseHandler) errorResponse(c *fiber.Ctx, data interface{}) error {
	return c.Status(http.StatusBadRequest).JSON(
		&response.Base{
			Status: constant.Error,
			Data:   data,
		},
	)
}

func (h baseHandler) errorResponseWithCode(c *fiber.Ctx, data interface{}, code int) error {
	return c.Status(code).JSON(
		&response.Base{
			Code:   code,
			Status: constant.Error,
			Data:   data,
		},
	)
}

func (h baseHandler) successResponse(c *fiber.Ctx, data interface{}) error {
	return c.JSON(
		&response.Base{
			Data:   data,
			Status: constant.Success,
		},
	)
}
