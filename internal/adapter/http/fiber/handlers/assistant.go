package handlers

import (
	"encoding/json"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/dreamweaver/internal/domain"
	"github.com/seu-repo/dreamweaver/internal/ports"
)

// AssistantHandler exposes the assistant intents over HTTP. Request bodies
// are read leniently: malformed or missing JSON counts as an empty object.
type AssistantHandler struct {
	service ports.AssistantService
	log     *zap.Logger
}

func NewAssistantHandler(service ports.AssistantService, log *zap.Logger) *AssistantHandler {
	return &AssistantHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes mounts the intent endpoints on router.
func (h *AssistantHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/ask_claude", h.AskClaude)
	router.Post("/dream_analysis", h.DreamAnalysis)
	router.Post("/sleep_tips", h.SleepTips)
	router.Post("/generate_bedtime_story", h.GenerateBedtimeStory)
}

func (h *AssistantHandler) AskClaude(c *fiber.Ctx) error {
	body := h.parseBody(c)
	return reply(c, h.service.AskRaw(c.UserContext(), stringField(body, "prompt")))
}

func (h *AssistantHandler) DreamAnalysis(c *fiber.Ctx) error {
	body := h.parseBody(c)
	return reply(c, h.service.AnalyzeDream(c.UserContext(), stringField(body, "dream")))
}

// SleepTips ignores the request body.
func (h *AssistantHandler) SleepTips(c *fiber.Ctx) error {
	return reply(c, h.service.GetSleepTip(c.UserContext()))
}

func (h *AssistantHandler) GenerateBedtimeStory(c *fiber.Ctx) error {
	body := h.parseBody(c)
	return reply(c, h.service.GenerateBedtimeStory(c.UserContext(), stringField(body, "theme")))
}

func (h *AssistantHandler) parseBody(c *fiber.Ctx) map[string]interface{} {
	body := map[string]interface{}{}
	raw := c.Body()
	if len(raw) == 0 {
		return body
	}
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		h.log.Debug("Ignoring unparsable request body",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return map[string]interface{}{}
	}
	return body
}

// stringField returns body[key] when it is a string and "" otherwise.
func stringField(body map[string]interface{}, key string) string {
	if s, ok := body[key].(string); ok {
		return s
	}
	return ""
}

func reply(c *fiber.Ctx, r domain.Reply) error {
	return c.Status(r.Status).JSON(r.Envelope)
}

// PageHandler serves the landing page.
type PageHandler struct {
	templatesDir string
}

func NewPageHandler(templatesDir string) *PageHandler {
	return &PageHandler{templatesDir: templatesDir}
}

func (h *PageHandler) Index(c *fiber.Ctx) error {
	return c.SendFile(filepath.Join(h.templatesDir, "index.html"))
}
