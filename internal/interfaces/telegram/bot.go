// Package telegram serves the chat surface over Telegram long polling.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/betfaro/betstats/internal/platform/logging"
	"github.com/betfaro/betstats/internal/usecase"
)

// AnalysisService answers free-text betting queries.
type AnalysisService interface {
	AnalyzeQuery(ctx context.Context, text string) (*usecase.AnalysisReport, error)
}

// DailyPicksService builds the unattended daily-picks aggregate.
type DailyPicksService interface {
	DailyPicks(ctx context.Context, rangeType string, forceRefresh bool) (usecase.DailyPicksResult, error)
}

const (
	pollTimeoutSeconds = 30
	queryTimeout       = 45 * time.Second
)

const helpText = `Send a query like:
- Arsenal x Chelsea
- Flamengo over 2.5 last 15
- Santos em casa

Commands:
/picks [today|tomorrow|both] - ranked picks for upcoming fixtures
/help - this message`

type Bot struct {
	api        *tgbotapi.BotAPI
	analysis   AnalysisService
	dailyPicks DailyPicksService
	logger     *logging.Logger
}

func NewBot(token string, analysis AnalysisService, dailyPicks DailyPicksService, logger *logging.Logger) (*Bot, error) {
	if logger == nil {
		logger = logging.Default()
	}

	api, err := tgbotapi.NewBotAPI(strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("create telegram bot api: %w", err)
	}

	return &Bot{
		api:        api,
		analysis:   analysis,
		dailyPicks: dailyPicks,
		logger:     logger,
	}, nil
}

// Run long-polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeoutSeconds

	updates := b.api.GetUpdatesChan(cfg)
	b.logger.InfoContext(ctx, "telegram bot started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || strings.TrimSpace(update.Message.Text) == "" {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	reply := b.replyFor(ctx, msg.Text)
	if reply == "" {
		return
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, reply)
	if _, err := b.api.Send(out); err != nil {
		b.logger.WarnContext(ctx, "send telegram reply failed", "chat_id", msg.Chat.ID, "error", err)
	}
}

// replyFor routes one incoming text to a response. Kept separate from the
// transport so the routing is testable without a live bot.
func (b *Bot) replyFor(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)

	switch command, args := splitCommand(text); command {
	case "/start", "/help":
		return helpText
	case "/picks":
		return b.dailyPicksReply(ctx, args)
	}

	report, err := b.analysis.AnalyzeQuery(ctx, text)
	if err != nil {
		b.logger.InfoContext(ctx, "analyze query failed", "query", text, "error", err)
		return friendlyError(err)
	}
	return report.Format()
}

func (b *Bot) dailyPicksReply(ctx context.Context, args string) string {
	rangeType := strings.ToLower(strings.TrimSpace(args))

	result, err := b.dailyPicks.DailyPicks(ctx, rangeType, false)
	if err != nil {
		b.logger.InfoContext(ctx, "daily picks failed", "range", rangeType, "error", err)
		return friendlyError(err)
	}
	return FormatDailyPicks(result)
}

// FormatDailyPicks renders the aggregate as plain text for chat surfaces.
func FormatDailyPicks(result usecase.DailyPicksResult) string {
	if len(result.Fixtures) == 0 {
		return "No confident picks for " + result.Range + " yet. Try again later."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Top picks (%s) - %d of %d fixtures analyzed\n",
		result.Range, result.FixturesAnalyzed, result.FixturesScanned)

	for i, fp := range result.Fixtures {
		fmt.Fprintf(&b, "\n%d. %s x %s (%s)\n", i+1, fp.HomeTeam, fp.AwayTeam, fp.League)
		if !fp.KickoffAt.IsZero() {
			fmt.Fprintf(&b, "   Kickoff: %s\n", fp.KickoffAt.UTC().Format("Mon 15:04 UTC"))
		}
		for _, p := range fp.Picks {
			fmt.Fprintf(&b, "   - %s (%.1f%%, %s)\n", p.Market, p.Confidence, p.Level)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func friendlyError(err error) string {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return "I could not understand that. Send /help to see query examples."
	case errors.Is(err, usecase.ErrNotFound):
		return "I could not find that team. Check the spelling and try again."
	case errors.Is(err, usecase.ErrInsufficientSample):
		return "Not enough finished games to analyze that reliably."
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return "The sports data provider is unavailable right now. Try again in a minute."
	default:
		return "Something went wrong on my side. Try again shortly."
	}
}

func splitCommand(text string) (string, string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	parts := strings.SplitN(text, " ", 2)
	command := strings.ToLower(parts[0])
	// Commands may be addressed to the bot as /picks@botname.
	if at := strings.IndexByte(command, '@'); at > 0 {
		command = command[:at]
	}
	if len(parts) == 2 {
		return command, strings.TrimSpace(parts[1])
	}
	return command, ""
}
