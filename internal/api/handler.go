// Package api serves subscription detection over HTTP.
package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/subscription-detector/internal/detector"
	"github.com/insightdelivered/subscription-detector/internal/enrich"
	"github.com/insightdelivered/subscription-detector/internal/extractor"
	"github.com/insightdelivered/subscription-detector/internal/logger"
	"github.com/insightdelivered/subscription-detector/internal/models"
	"github.com/insightdelivered/subscription-detector/internal/writer"
)

// maxUpload caps request bodies, uploads included.
const maxUpload = 32 << 20

// DetectResponse is the JSON response from the /api/detect endpoint.
type DetectResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	*models.Report
	CSV     string `json:"csv,omitempty"`
	Version string `json:"version,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Detector *detector.Detector
	// Namer is optional. Without one, enrich requests return heuristic names.
	Namer   enrich.Namer
	Log     zerolog.Logger
	Version string
}

// NewApp builds the fiber application with middleware and routes.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "subscription-detector",
		BodyLimit:             maxUpload,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})
	Use(app, h.Log)
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	router.Get("/api/health", h.handleHealth)
	router.Post("/api/detect", h.handleDetect)
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": h.Version,
		"engine":  "subscription-detector",
	})
}

func (h *Handler) handleDetect(c *fiber.Ctx) error {
	log := logger.FromContext(c.UserContext())

	text, err := readStatement(c)
	if err != nil {
		return err
	}

	d := h.Detector
	if d == nil {
		d = detector.New(detector.WithLogger(log))
	}
	report, err := d.Analyze(text)
	if err != nil {
		if errors.Is(err, detector.ErrInvalidInput) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}

	if c.QueryBool("enrich") && h.Namer != nil {
		report.Subscriptions = enrich.Apply(c.UserContext(), h.Namer, report.Subscriptions, log)
	}

	var csvBuf bytes.Buffer
	csvWriter := &writer.CSVWriter{IncludeHeader: c.Query("header") != "false"}
	if err := csvWriter.Write(&csvBuf, report); err != nil {
		return fmt.Errorf("CSV generation failed: %w", err)
	}

	log.Info().
		Str("format", string(report.Format)).
		Int("transactions", report.TransactionCount).
		Int("subscriptions", len(report.Subscriptions)).
		Bool("fallback", report.UsedFallback).
		Msg("statement analysed")

	return c.JSON(DetectResponse{
		Success: true,
		Report:  report,
		CSV:     csvBuf.String(),
		Version: h.Version,
	})
}

// readStatement takes statement text from an uploaded file, a "text" form
// field or a raw request body, in that order.
func readStatement(c *fiber.Ctx) (string, error) {
	if header, err := c.FormFile("file"); err == nil {
		f, err := header.Open()
		if err != nil {
			return "", fiber.NewError(fiber.StatusBadRequest, "Failed to read uploaded file.")
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return "", fiber.NewError(fiber.StatusBadRequest, "Failed to read uploaded file.")
		}

		switch strings.ToLower(filepath.Ext(header.Filename)) {
		case ".pdf":
			text, err := extractor.Extract(data)
			if err != nil {
				return "", fiber.NewError(fiber.StatusUnprocessableEntity, fmt.Sprintf("PDF extraction failed: %v", err))
			}
			return text, nil
		case ".csv", ".txt":
			return string(data), nil
		default:
			return "", fiber.NewError(fiber.StatusBadRequest, "Only PDF, CSV and text files are supported.")
		}
	}

	if text := c.FormValue("text"); text != "" {
		return text, nil
	}

	contentType := strings.ToLower(c.Get(fiber.HeaderContentType))
	if strings.HasPrefix(contentType, fiber.MIMEMultipartForm) || strings.HasPrefix(contentType, fiber.MIMEApplicationForm) {
		return "", fiber.NewError(fiber.StatusBadRequest, "No statement provided. Use form field 'file' or 'text'.")
	}
	if len(c.Body()) == 0 {
		return "", fiber.NewError(fiber.StatusBadRequest, "No statement provided.")
	}
	return string(c.Body()), nil
}

// errorHandler renders every error as a DetectResponse. Errors that are not
// *fiber.Error become 500s.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(DetectResponse{
		Success: false,
		Error:   err.Error(),
	})
}
