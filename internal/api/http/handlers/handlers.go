package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/billboardhub/billboard-market/internal/api/dto"
	"github.com/billboardhub/billboard-market/internal/api/validation"
	"github.com/billboardhub/billboard-market/internal/service"
	apperrors "github.com/billboardhub/billboard-market/pkg/util/errorutil"
)

func respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(dto.Response{Status: status, Message: message, Data: data})
}

// bindBody decodes the JSON body into out and validates it.
func bindBody(c *fiber.Ctx, v *validation.Validator, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewBadRequest("Bad Request. Invalid payload")
	}
	return v.Struct(out)
}

// bindQuery decodes query parameters into out and validates it.
func bindQuery(c *fiber.Ctx, v *validation.Validator, out any) error {
	if err := c.QueryParser(out); err != nil {
		return apperrors.NewBadRequest("Bad Request. Invalid query parameters")
	}
	return v.Struct(out)
}

func pageParams(c *fiber.Ctx, v *validation.Validator) (int, int, error) {
	var q dto.PageQuery
	if err := bindQuery(c, v, &q); err != nil {
		return 0, 0, err
	}
	return q.Page, q.Limit, nil
}

// formImage opens the multipart file in field. The returned close func is
// never nil.
func formImage(c *fiber.Ctx, field string) (service.Upload, func(), error) {
	header, err := c.FormFile(field)
	if err != nil {
		return service.Upload{}, func() {}, apperrors.NewBadRequest("Bad Request. File not found")
	}
	file, err := header.Open()
	if err != nil {
		return service.Upload{}, func() {}, apperrors.NewInternalError(err)
	}
	upload := service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Size:        header.Size,
		Body:        file,
	}
	return upload, func() { _ = file.Close() }, nil
}
