package controller

import (
	"lecture-qa-be/internal/dto"
	"lecture-qa-be/internal/pkg/serverutils"
	"lecture-qa-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ILectureController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
}

type lectureController struct {
	lectureService service.ILectureService
}

func NewLectureController(lectureService service.ILectureService) ILectureController {
	return &lectureController{
		lectureService: lectureService,
	}
}

func (c *lectureController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/lecture/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
}

func (c *lectureController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateLectureRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.lectureService.CreateLecture(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create lecture", res))
}
