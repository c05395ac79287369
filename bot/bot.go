package bot

import (
	"time"

	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"github.com/99rahul8605-ops/Yt-v2/config"
	"github.com/99rahul8605-ops/Yt-v2/logging"
	"github.com/99rahul8605-ops/Yt-v2/manager"
	"github.com/99rahul8605-ops/Yt-v2/service/cookies"
)

type Bot struct {
	tb        *telebot.Bot
	cfg       *config.Config
	dlmanager *manager.DownloadManager
	store     *cookies.Store
	states    *StateTracker
	startedAt time.Time
	allowed   map[int64]struct{}
	admins    map[int64]struct{}
}

func New(cfg *config.Config, dlmanager *manager.DownloadManager, store *cookies.Store) (*Bot, error) {
	pref := telebot.Settings{
		Token:  cfg.BotToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	}

	tb, err := telebot.NewBot(pref)
	if err != nil {
		return nil, err
	}

	bot := &Bot{
		tb:        tb,
		cfg:       cfg,
		dlmanager: dlmanager,
		store:     store,
		states:    NewStateTracker(),
		startedAt: time.Now(),
		allowed:   toIDSet(cfg.AllowedIDs()),
		admins:    toIDSet(cfg.AdminIDs()),
	}
	bot.registerHandlers()
	return bot, nil
}

func toIDSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// IsAllowed reports whether the user may talk to the bot. An empty allow
// list means the bot is open.
func (b *Bot) IsAllowed(userID int64) bool {
	if len(b.allowed) == 0 {
		return true
	}
	_, ok := b.allowed[userID]
	return ok
}

func (b *Bot) IsAdmin(userID int64) bool {
	_, ok := b.admins[userID]
	return ok
}

func (b *Bot) registerHandlers() {
	b.tb.Handle("/start", b.handleStart)
	b.tb.Handle("/help", b.handleStart)
	b.tb.Handle("/yt", b.handleYt)
	b.tb.Handle("/status", b.handleStatus)
	b.tb.Handle("/cancel", b.handleCancel)

	b.tb.Handle("/cookies", b.handleCookies)
	b.tb.Handle("/cookies_info", b.handleCookiesInfo)
	b.tb.Handle("/cookies_upload", b.handleCookiesUpload)
	b.tb.Handle("/cookies_backup", b.handleCookiesBackup)
	b.tb.Handle("/cookies_restore", b.handleCookiesRestore)
	b.tb.Handle("/cookies_test", b.handleCookiesTest)
	b.tb.Handle("/cookies_delete", b.handleCookiesDelete)
	b.tb.Handle(&btnDeleteCookiesYes, b.handleDeleteCookiesConfirm)
	b.tb.Handle(&btnDeleteCookiesNo, b.handleDeleteCookiesAbort)

	b.tb.Handle(telebot.OnText, b.handleText)
	b.tb.Handle(telebot.OnDocument, b.handleDocument)
}

func (b *Bot) Start() {
	logger := logging.GetLogger()
	logger.Info("Telegram bot starting", zap.String("username", b.tb.Me.Username))
	b.tb.Start()
}

func (b *Bot) Stop() {
	b.tb.Stop()
}
