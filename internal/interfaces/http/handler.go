package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"project_armada/internal/entities"
	"project_armada/internal/infrastructure"
	"project_armada/internal/interfaces"
	"project_armada/internal/usecases"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	RunningText       = "Bot is running"
	NotConfiguredBody = "Bot is not configured"
	OKText            = "OK"
)

// Status is what /healthz reports about the running configuration
type Status struct {
	BotConfigured  bool   `json:"bot_configured"`
	RowsConfigured bool   `json:"rows_configured"`
	StateBackend   string `json:"state_backend"`
}

// SessionCounter reports how many conversations are held in memory
type SessionCounter interface {
	Len() int
}

// Dependencies wires the handler. Everything except Engine may be nil.
type Dependencies struct {
	Engine    *usecases.DialogueEngine
	Messenger interfaces.Messenger
	Usage     interfaces.UsageRecorder
	Limiter   *infrastructure.MessageRateLimiter
	Sessions  SessionCounter
	Metrics   *infrastructure.Metrics
	Gatherer  prometheus.Gatherer
	Status    Status
	Logger    *zap.Logger
}

type Handler struct {
	engine    *usecases.DialogueEngine
	messenger interfaces.Messenger
	usage     interfaces.UsageRecorder
	limiter   *infrastructure.MessageRateLimiter
	sessions  SessionCounter
	metrics   *infrastructure.Metrics
	gatherer  prometheus.Gatherer
	status    Status
	log       *zap.Logger
}

func NewHandler(deps Dependencies) *Handler {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		engine:    deps.Engine,
		messenger: deps.Messenger,
		usage:     deps.Usage,
		limiter:   deps.Limiter,
		sessions:  deps.Sessions,
		metrics:   deps.Metrics,
		gatherer:  deps.Gatherer,
		status:    deps.Status,
		log:       log,
	}
}

// SetupRoutes registers the webhook, health and metrics endpoints
func SetupRoutes(r *gin.Engine, h *Handler, webhookSecret string) {
	r.Use(RequestLogger(h.log))
	r.Use(Recovery(h.log))
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(1 << 20)) // 1MB max update size

	r.GET("/", h.HealthCheck)
	r.GET("/healthz", h.Healthz)

	webhook := r.Group("/")
	webhook.Use(WebhookSecret(webhookSecret))
	{
		webhook.POST("/", h.HandleWebhook)
		webhook.POST("/webhook", h.HandleWebhook)
	}

	if h.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}
}

// HandleWebhook receives one Telegram update per request
func (h *Handler) HandleWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.metrics.ObserveWebhook(http.StatusInternalServerError)
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	status, text := h.ProcessUpdate(c.Request.Context(), body)
	h.metrics.ObserveWebhook(status)
	c.String(status, text)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, RunningText)
}

func (h *Handler) Healthz(c *gin.Context) {
	body := gin.H{
		"status":          "ok",
		"bot_configured":  h.status.BotConfigured,
		"rows_configured": h.status.RowsConfigured,
		"state_backend":   h.status.StateBackend,
	}
	if h.sessions != nil {
		body["active_sessions"] = h.sessions.Len()
	}
	if h.limiter != nil {
		body["rate_limiter"] = h.limiter.GetStats()
	}
	c.JSON(http.StatusOK, body)
}

// ProcessUpdate decodes a raw update and runs one dialogue turn.
// Every failure maps to 500 with the error text as body.
func (h *Handler) ProcessUpdate(ctx context.Context, raw []byte) (int, string) {
	if h.messenger == nil {
		h.log.Warn("update received but bot is not configured")
		return http.StatusInternalServerError, NotConfiguredBody
	}

	var update tgbotapi.Update
	if err := json.Unmarshal(raw, &update); err != nil {
		decodeErr := entities.NewError(entities.KindDecode, "decode update", err)
		h.log.Error("failed to decode update", zap.Error(decodeErr))
		return http.StatusInternalServerError, decodeErr.Error()
	}

	if err := h.HandleUpdate(ctx, update); err != nil {
		return http.StatusInternalServerError, err.Error()
	}
	return http.StatusOK, OKText
}

// HandleUpdate runs one turn for a decoded update. Updates without text are ignored.
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		return nil
	}

	in := entities.IncomingMessage{
		ChatID: msg.Chat.ID,
		Text:   TruncateString(SanitizeString(msg.Text), MaxTextLength),
	}
	if msg.From != nil {
		in.UserID = msg.From.ID
		in.Username = msg.From.UserName
	}
	log := h.log.With(zap.Int64("chat_id", in.ChatID), zap.Int64("update_id", int64(update.UpdateID)))

	h.recordUsage(ctx, in.ChatID, false, log)

	if !h.limiter.Allow(in.ChatID) {
		log.Warn("rate limit exceeded, dropping message")
		return nil
	}

	reply, err := h.engine.HandleMessage(ctx, in)
	if err != nil {
		log.Error("failed to handle message", zap.Error(err), zap.String("kind", string(entities.KindOf(err))))
		return err
	}

	if err := h.messenger.SendReply(ctx, in.ChatID, reply); err != nil {
		log.Error("failed to send reply", zap.Error(err))
		return err
	}

	h.recordUsage(ctx, in.ChatID, true, log)
	return nil
}

func (h *Handler) recordUsage(ctx context.Context, chatID int64, sent bool, log *zap.Logger) {
	if h.usage == nil {
		return
	}
	var err error
	if sent {
		err = h.usage.IncrementSent(ctx, chatID)
	} else {
		err = h.usage.IncrementReceived(ctx, chatID)
	}
	if err != nil {
		log.Warn("failed to record usage", zap.Bool("sent", sent), zap.Error(err))
	}
}
