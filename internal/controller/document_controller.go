// FILE: internal/controller/document_controller.go
package controller

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/rispar0529/De-Sign/internal/dto"
	"github.com/rispar0529/De-Sign/internal/pkg/serverutils"
	"github.com/rispar0529/De-Sign/internal/service"
	"github.com/rispar0529/De-Sign/internal/workflow"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Verify(ctx *fiber.Ctx) error
	Summarize(ctx *fiber.Ctx) error
	SuggestClause(ctx *fiber.Ctx) error
	Ask(ctx *fiber.Ctx) error
	Decide(ctx *fiber.Ctx) error
	ScheduleMeeting(ctx *fiber.Ctx) error
}

type documentController struct {
	service service.IDocumentService
}

func NewDocumentController(service service.IDocumentService) IDocumentController {
	return &documentController{service: service}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Upload)
	h.Get("", c.GetAll)
	h.Get(":id", c.Show)
	h.Post(":id/verify", c.Verify)
	h.Post(":id/summarize", c.Summarize)
	h.Post(":id/suggest", c.SuggestClause)
	h.Post(":id/ask", c.Ask)
	h.Post(":id/decision", c.Decide)
	h.Post(":id/meeting", c.ScheduleMeeting)
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return &workflow.ValidationError{Reason: "multipart field 'file' is required"}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	contentType := fileHeader.Header.Get("Content-Type")

	res, err := c.service.Upload(ctx.Context(), userId, fileHeader.Filename, contentType, data)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success upload document", res))
}

func (c *documentController) GetAll(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	res, err := c.service.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all sessions", res))
}

func (c *documentController) Show(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	res, err := c.service.Get(ctx.Context(), userId, ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *documentController) Verify(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	res, err := c.service.Verify(ctx.Context(), userId, ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success verify document", res))
}

func (c *documentController) Summarize(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	res, err := c.service.Summarize(ctx.Context(), userId, ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success summarize document", res))
}

func (c *documentController) SuggestClause(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	var req dto.SuggestClauseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return &workflow.ValidationError{Reason: "invalid request body"}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SuggestClause(ctx.Context(), userId, ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success suggest clause", res))
}

func (c *documentController) Ask(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	var req dto.AskQuestionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return &workflow.ValidationError{Reason: "invalid request body"}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Ask(ctx.Context(), userId, ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success answer question", res))
}

func (c *documentController) Decide(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	var req dto.DecisionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return &workflow.ValidationError{Reason: "invalid request body"}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Decide(ctx.Context(), userId, ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success record decision", res))
}

func (c *documentController) ScheduleMeeting(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	var req dto.ScheduleMeetingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return &workflow.ValidationError{Reason: "invalid request body"}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ScheduleMeeting(ctx.Context(), userId, ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success schedule meeting", res))
}
