package controller

import (
	"errors"
	"net/url"

	"legal-docchat-be/internal/dto"
	"legal-docchat-be/internal/pkg/logger"
	"legal-docchat-be/internal/pkg/serverutils"
	"legal-docchat-be/internal/service"
	"legal-docchat-be/pkg/session"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	Upload(c *fiber.Ctx) error
	Ask(c *fiber.Ctx) error
	Reset(c *fiber.Ctx) error
	State(c *fiber.Ctx) error
	Suggestions(c *fiber.Ctx) error
	LookupCitation(c *fiber.Ctx) error
	AskAboutCitation(c *fiber.Ctx) error
	RegisterRoutes(r fiber.Router)
}

type SessionController struct {
	service service.ISessionService
	logger  logger.ILogger
}

func NewSessionController(svc service.ISessionService, log logger.ILogger) ISessionController {
	return &SessionController{
		service: svc,
		logger:  log,
	}
}

// Upload receives the document as multipart form data. Local validation
// failures (wrong kind, too large) come back as 400 before any backend
// call; a backend failure is reported inside the snapshot, not as an
// HTTP error.
func (ctl *SessionController) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "A file is required under the 'file' form field")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Could not read the uploaded file")
	}
	defer file.Close()

	snap, err := ctl.service.Upload(
		c.UserContext(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		return ctl.mapError(err)
	}

	return c.JSON(serverutils.SuccessResponse("Upload processed", snap))
}

func (ctl *SessionController) Ask(c *fiber.Ctx) error {
	var req dto.AskRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := ctl.service.Ask(c.UserContext(), &req)
	if err != nil {
		return ctl.mapError(err)
	}

	if !res.Accepted {
		// A question is already in flight; the client keeps waiting for it.
		return c.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("A question is already being answered", res))
	}
	return c.JSON(serverutils.SuccessResponse("Question answered", res))
}

func (ctl *SessionController) Reset(c *fiber.Ctx) error {
	snap, err := ctl.service.Reset(c.UserContext())
	if err != nil {
		return ctl.mapError(err)
	}
	return c.JSON(serverutils.SuccessResponse("Session reset", snap))
}

// State returns the full session snapshot used to render every panel.
func (ctl *SessionController) State(c *fiber.Ctx) error {
	return c.JSON(serverutils.SuccessResponse("Session state retrieved", ctl.service.Snapshot()))
}

func (ctl *SessionController) Suggestions(c *fiber.Ctx) error {
	input := c.Query("q")
	return c.JSON(serverutils.SuccessResponse("Suggestions retrieved", ctl.service.Suggestions(input)))
}

func (ctl *SessionController) LookupCitation(c *fiber.Ctx) error {
	ref, err := decodeReference(c)
	if err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse("Citation retrieved", ctl.service.LookupCitation(ref)))
}

// AskAboutCitation turns a clicked citation handle into a follow-up
// question through the normal ask path.
func (ctl *SessionController) AskAboutCitation(c *fiber.Ctx) error {
	ref, err := decodeReference(c)
	if err != nil {
		return err
	}

	res, err := ctl.service.AskAboutCitation(c.UserContext(), ref)
	if err != nil {
		return ctl.mapError(err)
	}
	if !res.Accepted {
		return c.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("A question is already being answered", res))
	}
	return c.JSON(serverutils.SuccessResponse("Question answered", res))
}

func (ctl *SessionController) RegisterRoutes(r fiber.Router) {
	v1 := r.Group("/session/v1")

	v1.Post("/upload", ctl.Upload)
	v1.Post("/ask", ctl.Ask)
	v1.Post("/reset", ctl.Reset)
	v1.Get("/state", ctl.State)
	v1.Get("/suggestions", ctl.Suggestions)
	v1.Get("/citation/:ref", ctl.LookupCitation)
	v1.Post("/citation/:ref/ask", ctl.AskAboutCitation)
}

func (ctl *SessionController) mapError(err error) error {
	switch {
	case errors.Is(err, session.ErrResetWhileAsking):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, session.ErrDocumentLoaded):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case session.IsValidationError(err):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		ctl.logger.Error("SessionController", "Unhandled session error", map[string]interface{}{"error": err})
		return fiber.NewError(fiber.StatusInternalServerError, "Something went wrong")
	}
}

func decodeReference(c *fiber.Ctx) (string, error) {
	ref := c.Params("ref")
	if ref == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "Citation reference is required")
	}
	// Path segments arrive percent-encoded ("Section%204.2").
	decoded, err := url.PathUnescape(ref)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "Invalid citation reference encoding")
	}
	return decoded, nil
}
