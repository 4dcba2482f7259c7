package controller

import (
	"fmt"
	"path/filepath"
	"strings"

	"ai-model-advisor-be/internal/dto"
	"ai-model-advisor-be/internal/pkg/serverutils"
	"ai-model-advisor-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAdvisorController interface {
	RegisterRoutes(r fiber.Router)
	SubmitTurn(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	ResetSession(ctx *fiber.Ctx) error
	UploadFile(ctx *fiber.Ctx) error
}

type advisorController struct {
	service    service.IAdvisorService
	uploadsDir string
}

func NewAdvisorController(service service.IAdvisorService, uploadsDir string) IAdvisorController {
	return &advisorController{
		service:    service,
		uploadsDir: uploadsDir,
	}
}

func (c *advisorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/advisor/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/chat", c.SubmitTurn)
	h.Get("/history", c.GetHistory)
	h.Post("/reset", c.ResetSession)
	h.Post("/upload", c.UploadFile)
}

func (c *advisorController) SubmitTurn(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SubmitTurnRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SubmitTurn(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	if res.Category == service.CategoryBusy {
		return ctx.Status(fiber.StatusConflict).JSON(serverutils.SuccessResponse("Session busy", res))
	}
	return ctx.JSON(serverutils.SuccessResponse("Turn processed", res))
}

func (c *advisorController) GetHistory(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.GetHistory(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Turn history", res))
}

func (c *advisorController) ResetSession(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.ResetSession(ctx.Context(), userId)
	if err != nil {
		// session.ErrBusy maps to 409 in the error handler
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session reset", res))
}

var allowedUploadExtensions = map[string]struct{}{
	".txt":  {},
	".md":   {},
	".csv":  {},
	".json": {},
}

func (c *advisorController) UploadFile(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing file")
	}

	name := filepath.Base(fileHeader.Filename)
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := allowedUploadExtensions[ext]; !ok {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Unsupported file type %q", ext))
	}

	if err := ctx.SaveFile(fileHeader, filepath.Join(c.uploadsDir, name)); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to store file"))
	}

	return ctx.JSON(serverutils.SuccessResponse("File uploaded", dto.UploadFileResponse{
		FileName: name,
		Size:     fileHeader.Size,
	}))
}
