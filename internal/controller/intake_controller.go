package controller

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"deal-intake-be/internal/dto"
	"deal-intake-be/internal/pkg/logger"
	"deal-intake-be/internal/pkg/serverutils"
	"deal-intake-be/internal/service"
	internalWS "deal-intake-be/internal/websocket"
	"deal-intake-be/pkg/pipeline"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

type intakeController struct {
	service service.IIntakeService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewIntakeController(svc service.IIntakeService, hub *internalWS.Hub, log logger.ILogger) *intakeController {
	return &intakeController{
		service: svc,
		hub:     hub,
		logger:  log,
	}
}

func (c *intakeController) RegisterRoutes(router fiber.Router) {
	h := router.Group("/intake/v1")

	h.Post("/", c.Submit)
	h.Get("/:id/events", c.Events)
	h.Get("/:id/ws", c.Watch)
	h.Post("/:id/clarifications", c.Clarify)
	h.Get("/:id", c.Status)
}

// Submit accepts a multipart upload under the "files" field and kicks off an
// intake run. Responds immediately; progress arrives on the event stream.
func (c *intakeController) Submit(ctx *fiber.Ctx) error {
	form, err := ctx.MultipartForm()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "multipart form with a 'files' field is required"))
	}

	headers := form.File["files"]
	files := make([]pipeline.SubmittedFile, 0, len(headers))
	for _, header := range headers {
		content, err := readUpload(header)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, fmt.Sprintf("failed to read uploaded file %s", header.Filename)))
		}
		files = append(files, pipeline.SubmittedFile{
			Filename:  header.Filename,
			MediaType: header.Header.Get("Content-Type"),
			Content:   content,
		})
	}

	res, err := c.service.Submit(ctx.Context(), files)
	if err != nil {
		return c.serviceError(ctx, err)
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Intake run accepted", res))
}

// Events is the replayable SSE stream of one session: history first, then
// the live tail, heartbeats in between. The stream ends after a terminal
// event or when the client goes away.
func (c *intakeController) Events(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid session id"))
	}

	sub, channel, err := c.service.Subscribe(sessionId)
	if err != nil {
		return c.serviceError(ctx, err)
	}

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer channel.Unsubscribe(sub)
		for ev := range sub.C {
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload); err != nil {
				return
			}
			// Flush per event; a failed flush means the client is gone.
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))
	return nil
}

// Watch is the websocket flavor of the event stream.
func (c *intakeController) Watch(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid session id"))
	}

	history, err := c.service.History(sessionId)
	if err != nil {
		return c.serviceError(ctx, err)
	}

	replay := make([][]byte, 0, len(history))
	for _, ev := range history {
		if b, err := json.Marshal(ev); err == nil {
			replay = append(replay, b)
		}
	}

	if websocket.IsWebSocketUpgrade(ctx) {
		id := sessionId.String()
		return websocket.New(func(conn *websocket.Conn) {
			internalWS.ServeClient(c.hub, conn, id, replay)
		})(ctx)
	}
	return fiber.ErrUpgradeRequired
}

// Clarify submits clarification answers to a paused session.
func (c *intakeController) Clarify(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid session id"))
	}

	var req dto.ResumeIntakeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Resume(ctx.Context(), sessionId, &req)
	if err != nil {
		return c.serviceError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Clarifications submitted", res))
}

// Status reports the session's current state.
func (c *intakeController) Status(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid session id"))
	}

	res, err := c.service.Status(ctx.Context(), sessionId)
	if err != nil {
		return c.serviceError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Session status", res))
}

func (c *intakeController) serviceError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNoFiles):
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	case errors.Is(err, service.ErrSessionNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	case errors.Is(err, service.ErrNotPaused):
		return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409, err.Error()))
	default:
		c.logger.Error("IntakeController", "Unhandled service error", map[string]interface{}{
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
