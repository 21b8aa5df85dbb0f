package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"coinpulse-bot/internal/advisor"
	"coinpulse-bot/internal/market"
	"coinpulse-bot/internal/models"
	"coinpulse-bot/internal/news"
	"coinpulse-bot/internal/providers"
)

const (
	dashboardCurrency = "usd"
	dashboardTopN     = 6

	// 5 pages x 250 coins: the search universe for /analyze.
	rankedPages   = 5
	rankedPerPage = 250

	defaultChartDays = 30

	commandTimeout  = 90 * time.Second
	refreshInterval = 10 * time.Minute

	newsPerReply = 5
)

// Bot is the Telegram delivery surface over the data layer. It holds
// only presentation state: the prebuilt dashboard message and the news
// continuation token (article accumulation is this caller's job, the
// news client is stateless).
type Bot struct {
	api      *tgbotapi.BotAPI
	market   *market.Client
	news     *news.Client
	pipeline *advisor.Pipeline

	mutex        sync.RWMutex
	dashboardMsg string
	newsToken    string
	newsSeen     int
}

func New(token string, marketClient *market.Client, newsClient *news.Client, pipeline *advisor.Pipeline) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:      api,
		market:   marketClient,
		news:     newsClient,
		pipeline: pipeline,
	}, nil
}

func (b *Bot) Start() {
	logrus.WithField("account", b.api.Self.UserName).Info("authorized")

	b.refreshDashboard()
	go b.startRefreshTicker()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.handleUpdates(updates)
}

func (b *Bot) handleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.Message == nil {
			continue
		}

		chatID := update.Message.Chat.ID
		args := strings.TrimSpace(update.Message.CommandArguments())

		switch update.Message.Command() {
		case "markets":
			b.mutex.RLock()
			msg := b.dashboardMsg
			b.mutex.RUnlock()
			if msg == "" {
				msg = "Dashboard is still warming up. Try again in a moment."
			}
			b.send(chatID, msg)

		case "news":
			b.handleNews(chatID)

		case "analyze":
			b.handleAnalyze(chatID, args)

		case "chart":
			b.handleChart(chatID, args)

		case "start", "help":
			b.send(chatID, helpMessage())
		}
	}
}

func (b *Bot) startRefreshTicker() {
	ticker := time.NewTicker(refreshInterval)
	for range ticker.C {
		b.refreshDashboard()
	}
}

// refreshDashboard rebuilds the /markets reply. Top coins and global
// stats are independent fetches, so they go out concurrently; both are
// served through the market client's cache.
func (b *Bot) refreshDashboard() {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	var (
		wg       sync.WaitGroup
		coins    []models.Coin
		stats    *models.GlobalStats
		coinsErr error
		statsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		coins, coinsErr = b.market.FetchMarkets(ctx, dashboardCurrency, 1, dashboardTopN)
	}()
	go func() {
		defer wg.Done()
		stats, statsErr = b.market.FetchGlobalStats(ctx, dashboardCurrency)
	}()
	wg.Wait()

	if coinsErr != nil || statsErr != nil {
		logrus.WithFields(logrus.Fields{
			"coins_err": coinsErr,
			"stats_err": statsErr,
		}).Error("dashboard refresh failed")
		return
	}

	b.mutex.Lock()
	b.dashboardMsg = formatDashboard(coins, stats)
	b.mutex.Unlock()

	logrus.Info("dashboard refreshed")
}

func (b *Bot) handleNews(chatID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	b.mutex.RLock()
	token := b.newsToken
	seen := b.newsSeen
	b.mutex.RUnlock()

	page, err := b.news.FetchNews(ctx, token)
	if err != nil {
		logrus.WithError(err).Error("news fetch failed")
		// Token and accumulated count stay as they were; the user can
		// simply retry.
		b.send(chatID, providers.UserMessage(err))
		return
	}

	b.mutex.Lock()
	b.newsToken = page.NextToken
	b.newsSeen = seen + len(page.Articles)
	b.mutex.Unlock()

	b.send(chatID, formatNews(page.Articles, page.NextToken != ""))
}

func (b *Bot) handleAnalyze(chatID int64, query string) {
	if query == "" {
		b.send(chatID, "Usage: /analyze <coin name>, e.g. /analyze bitcoin")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	universe, err := b.market.FetchAllRanked(ctx, rankedPages, rankedPerPage)
	if err != nil {
		logrus.WithError(err).Error("ranked universe fetch failed")
		b.send(chatID, providers.UserMessage(err))
		return
	}

	coin := findCoin(universe, query)
	if coin == nil {
		b.send(chatID, fmt.Sprintf("No coin matches %q. Try the full name or ticker symbol.", query))
		return
	}

	b.send(chatID, fmt.Sprintf("Analyzing %s (%s)...", coin.Name, strings.ToUpper(coin.Symbol)))

	result, err := b.pipeline.Recommend(ctx, coin)
	if err != nil {
		logrus.WithField("coin", coin.ID).WithError(err).Error("recommendation failed")
		b.send(chatID, advisor.FailureMessage(err))
		return
	}
	b.send(chatID, result.Text)
}

func (b *Bot) handleChart(chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		b.send(chatID, "Usage: /chart <coin id> [days], e.g. /chart bitcoin 30")
		return
	}
	coinID := fields[0]
	days := defaultChartDays
	if len(fields) > 1 {
		parsed, err := strconv.Atoi(fields[1])
		if err != nil || parsed <= 0 {
			b.send(chatID, fmt.Sprintf("%q is not a valid day count.", fields[1]))
			return
		}
		days = parsed
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	candles, err := b.market.FetchOHLC(ctx, coinID, dashboardCurrency, days)
	if err != nil {
		logrus.WithField("coin", coinID).WithError(err).Error("ohlc fetch failed")
		b.send(chatID, providers.UserMessage(err))
		return
	}
	b.send(chatID, formatCandleSummary(coinID, days, candles))
}

// findCoin picks the best-ranked coin whose name or symbol matches the
// query. The universe is already in rank order, so the first exact
// match wins, then the first substring match.
func findCoin(universe []models.Coin, query string) *models.Coin {
	q := strings.ToLower(query)
	for i := range universe {
		if strings.ToLower(universe[i].Name) == q || strings.ToLower(universe[i].Symbol) == q {
			return &universe[i]
		}
	}
	for i := range universe {
		if strings.Contains(strings.ToLower(universe[i].Name), q) {
			return &universe[i]
		}
	}
	return nil
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		logrus.WithError(err).Error("send failed")
	}
}

func helpMessage() string {
	return `📈 CoinPulse commands:

/markets — market dashboard (top coins + global stats)
/analyze <name> — AI recommendation for a coin
/chart <id> [days] — candlestick summary (7, 30, 90, 365)
/news — latest crypto headlines (repeat for more)`
}
