package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/joyguard/joyguard/guard"
	"github.com/joyguard/joyguard/guard/blockstore"
	"github.com/joyguard/joyguard/guard/cachestore"
	"github.com/joyguard/joyguard/guard/countstore"
	"github.com/joyguard/joyguard/guard/keyword"
	"github.com/joyguard/joyguard/guard/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// how long the substitute notice stays up before the bot removes it
const noticeTTL = 12 * time.Second

// minimum gap between support tickets from the same user
const supportCooldown = 30 * time.Second

type Server struct {
	logger   *slog.Logger
	bot      *tgbotapi.BotAPI
	engine   *guard.Engine
	sessions *session.Store
	adminID  int64

	// chats already warned about missing delete permission
	warnedChats sync.Map
}

type Config struct {
	BotToken               string
	AdminID                int64
	RedisURL               string
	VocabFileJSON          string
	UsernameFetchRateLimit int
	Logger                 *slog.Logger
}

func NewServer(db *gorm.DB, config Config) (*Server, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	bot, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		return nil, fmt.Errorf("connecting to telegram: %w", err)
	}
	logger.Info("authorized on telegram", "username", bot.Self.UserName)

	store, err := blockstore.NewGormStore(db)
	if err != nil {
		return nil, fmt.Errorf("initializing blockstore: %w", err)
	}

	var counters countstore.CountStore
	var cache cachestore.CacheStore
	if config.RedisURL != "" {
		cnt, err := countstore.NewRedisCountStore(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("initializing redis countstore: %w", err)
		}
		counters = cnt

		csh, err := cachestore.NewRedisCacheStore(config.RedisURL, 30*time.Minute)
		if err != nil {
			return nil, fmt.Errorf("initializing redis cachestore: %w", err)
		}
		cache = csh
	} else {
		counters = countstore.NewMemCountStore()
		cache = cachestore.NewMemCacheStore(5_000, 30*time.Minute)
	}

	lexicon := keyword.DefaultLexicon()
	if config.VocabFileJSON != "" {
		lexicon, err = keyword.NewLexiconFromFileJSON(config.VocabFileJSON)
		if err != nil {
			return nil, fmt.Errorf("loading vocabulary: %w", err)
		}
		logger.Info("loaded vocabulary from JSON", "path", config.VocabFileJSON, "size", lexicon.Size())
	}

	fetchRate := config.UsernameFetchRateLimit
	if fetchRate <= 0 {
		fetchRate = 10
	}

	engine := guard.Engine{
		Logger:       logger,
		Store:        store,
		Counters:     counters,
		Cache:        cache,
		Lexicon:      lexicon,
		Platform:     &telegramPlatform{bot: bot},
		FetchLimiter: rate.NewLimiter(rate.Limit(fetchRate), 1),
	}

	s := &Server{
		logger:   logger,
		bot:      bot,
		engine:   &engine,
		sessions: session.NewStore(),
		adminID:  config.AdminID,
	}

	return s, nil
}

func (s *Server) RunMetrics(listen string) error {
	http.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(listen, nil)
}
