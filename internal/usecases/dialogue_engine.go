package usecases

import (
	"context"
	"strings"
	"time"

	"project_armada/internal/entities"
	"project_armada/internal/infrastructure"
	"project_armada/internal/interfaces"

	"go.uber.org/zap"
)

// DialogueEngine runs the two-step category-then-value conversation.
//
// A chat starts waiting for a category. Sending a category label lists that
// column's values and remembers the label; any other text is then looked up in
// the remembered column until the user picks another label or sends /start.
type DialogueEngine struct {
	rows    interfaces.RowSource // nil when the data source is not configured
	states  interfaces.StateStore
	metrics *infrastructure.Metrics
	log     *zap.Logger
}

func NewDialogueEngine(rows interfaces.RowSource, states interfaces.StateStore, metrics *infrastructure.Metrics, log *zap.Logger) *DialogueEngine {
	if log == nil {
		log = zap.NewNop()
	}
	return &DialogueEngine{
		rows:    rows,
		states:  states,
		metrics: metrics,
		log:     log,
	}
}

// RowsConfigured reports whether lookups can reach a data source
func (e *DialogueEngine) RowsConfigured() bool {
	return e.rows != nil
}

// HandleMessage produces the reply for one inbound text message.
// Only infrastructure failures are returned as errors; "no match" is a normal reply.
func (e *DialogueEngine) HandleMessage(ctx context.Context, msg entities.IncomingMessage) (entities.Reply, error) {
	text := strings.TrimSpace(msg.Text)
	log := e.log.With(zap.Int64("chat_id", msg.ChatID))

	if IsStartCommand(text) {
		return e.start(ctx, msg.ChatID, log)
	}
	if entities.IsCategory(text) {
		return e.selectCategory(ctx, msg.ChatID, text, log)
	}

	session, err := e.states.Get(ctx, msg.ChatID)
	if err != nil {
		e.metrics.ObserveTurn(infrastructure.OutcomeError)
		return entities.Reply{}, err
	}
	if !session.AwaitingValue() {
		e.metrics.ObserveTurn(infrastructure.OutcomePrompt)
		return entities.Reply{Text: PromptStartText}, nil
	}
	return e.lookup(ctx, msg.ChatID, session.Category, text, log)
}

func (e *DialogueEngine) start(ctx context.Context, chatID int64, log *zap.Logger) (entities.Reply, error) {
	if err := e.states.Clear(ctx, chatID); err != nil {
		e.metrics.ObserveTurn(infrastructure.OutcomeError)
		return entities.Reply{}, err
	}
	log.Debug("session reset")
	e.metrics.ObserveTurn(infrastructure.OutcomeMenu)
	return entities.Reply{Text: MenuText(), Keyboard: MenuKeyboard()}, nil
}

func (e *DialogueEngine) selectCategory(ctx context.Context, chatID int64, category string, log *zap.Logger) (entities.Reply, error) {
	if e.rows == nil {
		e.metrics.ObserveTurn(infrastructure.OutcomeNotConfigured)
		return entities.Reply{Text: NotConfiguredText}, nil
	}

	rows, err := e.fetchRows(ctx)
	if err != nil {
		return entities.Reply{}, err
	}
	values := DistinctValues(rows, category)

	if err := e.states.Set(ctx, chatID, category); err != nil {
		e.metrics.ObserveTurn(infrastructure.OutcomeError)
		return entities.Reply{}, err
	}

	log.Info("category selected", zap.String("category", category), zap.Int("values", len(values)))
	e.metrics.ObserveTurn(infrastructure.OutcomeListing)
	return entities.Reply{Text: ListingText(category, values)}, nil
}

func (e *DialogueEngine) lookup(ctx context.Context, chatID int64, category, query string, log *zap.Logger) (entities.Reply, error) {
	// every query counts as activity, so the session only expires when idle
	if err := e.states.Set(ctx, chatID, category); err != nil {
		e.metrics.ObserveTurn(infrastructure.OutcomeError)
		return entities.Reply{}, err
	}

	if e.rows == nil {
		e.metrics.ObserveTurn(infrastructure.OutcomeNotConfigured)
		return entities.Reply{Text: NotConfiguredText}, nil
	}

	rows, err := e.fetchRows(ctx)
	if err != nil {
		return entities.Reply{}, err
	}
	matches := FilterRows(rows, category, query)

	log.Info("lookup", zap.String("category", category), zap.String("query", query), zap.Int("matches", len(matches)))
	if len(matches) == 0 {
		e.metrics.ObserveTurn(infrastructure.OutcomeNoMatch)
	} else {
		e.metrics.ObserveTurn(infrastructure.OutcomeMatch)
	}
	return entities.Reply{Text: MatchesText(matches)}, nil
}

func (e *DialogueEngine) fetchRows(ctx context.Context) ([]entities.Row, error) {
	started := time.Now()
	rows, err := e.rows.FetchAllRows(ctx)
	e.metrics.ObserveRowFetch(time.Since(started))
	if err != nil {
		e.metrics.ObserveTurn(infrastructure.OutcomeError)
		if entities.KindOf(err) == entities.KindUnknown {
			err = entities.NewError(entities.KindDataSource, "fetch rows", err)
		}
		return nil, err
	}
	return rows, nil
}

// IsStartCommand matches /start, /start@botname and /start <payload>
func IsStartCommand(text string) bool {
	return text == "/start" ||
		strings.HasPrefix(text, "/start@") ||
		strings.HasPrefix(text, "/start ")
}
