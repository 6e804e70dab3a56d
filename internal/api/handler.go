// Package api exposes the import pipeline over HTTP.
package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/insightdelivered/trade-import/internal/extractor"
	"github.com/insightdelivered/trade-import/internal/locator"
	"github.com/insightdelivered/trade-import/internal/models"
	"github.com/insightdelivered/trade-import/internal/parser"
)

const requestIDKey = "requestid"

// ImportResponse is the JSON response of the /api/import endpoint.
type ImportResponse struct {
	Success    bool              `json:"success"`
	Error      string            `json:"error,omitempty"`
	RequestID  string            `json:"requestId,omitempty"`
	Broker     models.Broker     `json:"broker,omitempty"`
	Status     models.Status     `json:"status"`
	StatusText string            `json:"statusText,omitempty"`
	Activities []models.Activity `json:"activities"`
	Count      int               `json:"count"`
	Cached     bool              `json:"cached"`
}

// ImportRequest is the JSON form of an import: an already tokenized
// document.
type ImportRequest struct {
	Pages     [][]string `json:"pages"`
	Extension string     `json:"extension"`
}

// Options configures a Handler.
type Options struct {
	Version        string
	CacheTTL       time.Duration
	MaxUploadBytes int
	StaticDir      string
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	registry *parser.Registry
	results  *cache.Cache
	log      logrus.FieldLogger
	opts     Options
}

// NewHandler returns a handler that parses with registry and keeps results
// for opts.CacheTTL.
func NewHandler(registry *parser.Registry, log logrus.FieldLogger, opts Options) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 15 * time.Minute
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	return &Handler{
		registry: registry,
		results:  cache.New(opts.CacheTTL, 2*opts.CacheTTL),
		log:      log,
		opts:     opts,
	}
}

// NewApp builds the fiber app with middleware and every route registered.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "trade-import " + h.opts.Version,
		BodyLimit:             h.opts.MaxUploadBytes,
		DisableStartupMessage: true,
		ErrorHandler:          h.handleError,
	})
	app.Use(h.tagRequest)
	app.Use(fiberrecover.New())
	app.Use("/api", cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/health", h.HandleHealth)
	api.Post("/import", h.HandleImport)

	if h.opts.StaticDir != "" {
		app.Static("/", h.opts.StaticDir)
		// SPA: unknown non-API paths get index.html
		app.Get("/*", func(c *fiber.Ctx) error {
			if strings.HasPrefix(c.Path(), "/api/") {
				return fiber.ErrNotFound
			}
			return c.SendFile(filepath.Join(h.opts.StaticDir, "index.html"))
		})
	}
}

// HandleHealth reports liveness and the supported brokers.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	brokers := make([]models.Broker, 0, len(h.registry.Parsers()))
	for _, p := range h.registry.Parsers() {
		brokers = append(brokers, p.Broker())
	}
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": h.opts.Version,
		"brokers": brokers,
	})
}

// HandleImport accepts either a multipart PDF upload in field "file" or a
// JSON ImportRequest.
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	var (
		doc locator.Document
		ext string
		key string
	)

	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return h.fail(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
		}
		ext = strings.TrimPrefix(filepath.Ext(fh.Filename), ".")
		if !strings.EqualFold(ext, parser.SupportedExtension) {
			return h.fail(c, fiber.StatusBadRequest, "Only PDF files are supported.")
		}
		f, err := fh.Open()
		if err != nil {
			return h.fail(c, fiber.StatusBadRequest, "Failed to read uploaded file.")
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return h.fail(c, fiber.StatusBadRequest, "Failed to read uploaded file.")
		}

		key = cacheKey(data, ext)
		if res, ok := h.cached(key); ok {
			return h.respond(c, res, true)
		}
		doc, err = extractor.ExtractBytes(data)
		if err != nil {
			h.logger(c).WithError(err).Warn("PDF extraction failed")
			return h.fail(c, fiber.StatusUnprocessableEntity, "PDF extraction failed: "+err.Error())
		}
	} else {
		var req ImportRequest
		if err := c.BodyParser(&req); err != nil {
			return h.fail(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
		}
		if len(req.Pages) == 0 {
			return h.fail(c, fiber.StatusBadRequest, "Request has no pages.")
		}
		ext = req.Extension
		if ext == "" {
			ext = parser.SupportedExtension
		}
		raw, err := json.Marshal(req.Pages)
		if err != nil {
			return h.fail(c, fiber.StatusBadRequest, "Invalid pages.")
		}

		key = cacheKey(raw, ext)
		if res, ok := h.cached(key); ok {
			return h.respond(c, res, true)
		}
		doc = locator.NewDocument(req.Pages)
	}

	res, err := h.registry.Parse(doc, ext)
	switch {
	case errors.Is(err, parser.ErrUnsupportedExtension):
		return h.fail(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		return h.fail(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	h.results.Set(key, res, cache.DefaultExpiration)
	return h.respond(c, res, false)
}

func (h *Handler) cached(key string) (models.Result, bool) {
	v, ok := h.results.Get(key)
	if !ok {
		return models.Result{}, false
	}
	res, ok := v.(models.Result)
	return res, ok
}

func (h *Handler) respond(c *fiber.Ctx, res models.Result, cached bool) error {
	activities := res.Activities
	if activities == nil {
		activities = []models.Activity{}
	}
	resp := ImportResponse{
		Success:    res.Status == models.StatusSuccess,
		RequestID:  requestID(c),
		Broker:     res.Broker,
		Status:     res.Status,
		StatusText: res.Status.String(),
		Activities: activities,
		Count:      len(activities),
		Cached:     cached,
	}
	if res.Status != models.StatusSuccess {
		resp.Error = "document could not be extracted: " + res.Status.String()
	}
	return c.JSON(resp)
}

func (h *Handler) fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ImportResponse{
		Success:    false,
		Error:      msg,
		RequestID:  requestID(c),
		Activities: []models.Activity{},
	})
}

// handleError renders errors returned by routes and middleware, including
// recovered panics and oversized bodies, in the response format.
func (h *Handler) handleError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	if status >= fiber.StatusInternalServerError {
		h.logger(c).WithError(err).Error("request failed")
	}
	return h.fail(c, status, err.Error())
}

// tagRequest tags every request with an id, taken from X-Request-ID when the
// client sent one, and logs the request once it completes.
func (h *Handler) tagRequest(c *fiber.Ctx) error {
	id := c.Get(fiber.HeaderXRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Locals(requestIDKey, id)
	c.Set(fiber.HeaderXRequestID, id)

	start := time.Now()
	err := c.Next()
	if err != nil {
		err = h.handleError(c, err)
	}
	h.logger(c).WithFields(logrus.Fields{
		"method":   c.Method(),
		"path":     c.Path(),
		"status":   c.Response().StatusCode(),
		"duration": time.Since(start).String(),
	}).Info("request")
	return err
}

func (h *Handler) logger(c *fiber.Ctx) logrus.FieldLogger {
	return h.log.WithField("request_id", requestID(c))
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}

func cacheKey(data []byte, ext string) string {
	sum := sha256.Sum256(data)
	return strings.ToLower(ext) + ":" + hex.EncodeToString(sum[:])
}
