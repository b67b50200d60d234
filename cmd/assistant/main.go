package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/kapu/crypto-price-assistant-go/internal/app"
	"github.com/kapu/crypto-price-assistant-go/internal/config"
	"github.com/kapu/crypto-price-assistant-go/internal/domain"
	"github.com/kapu/crypto-price-assistant-go/internal/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to build application", zap.Error(err))
	}
	defer container.Close()

	// Serve from the last persisted snapshot while the first live refresh
	// runs, so a provider outage at boot is not fatal when Redis has data.
	warmStarted := container.Catalog.WarmStart(ctx)

	if err := container.Catalog.Refresh(ctx); err != nil {
		if !warmStarted {
			logger.Fatal("Initial catalog refresh failed with no snapshot to fall back to", zap.Error(err))
		}
		logger.Warn("Initial refresh failed, serving warm-start snapshot", zap.Error(err))
	}

	if container.Scheduler != nil {
		if err := container.Scheduler.Start(); err != nil {
			logger.Fatal("Failed to start refresh scheduler", zap.Error(err))
		}
	}

	logger.Info("Assistant ready",
		zap.Int("assets", container.Catalog.Size()),
		zap.String("refresh_schedule", cfg.Refresh.Schedule),
	)

	runREPL(ctx, container)

	logger.Info("Shutting down")
}

func runREPL(ctx context.Context, container *app.Container) {
	language := domain.WorkingLanguage
	var session []domain.Turn

	printHelp(language)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		fmt.Printf("[%s] > ", domain.LanguageName(language))

		select {
		case <-ctx.Done():
			fmt.Println()
			return
		case line, ok := <-lines:
			if !ok {
				return
			}

			input := strings.TrimSpace(line)
			if input == "" {
				continue
			}

			if strings.HasPrefix(input, "/") {
				if quit := handleCommand(input, &language, session, container); quit {
					return
				}
				continue
			}

			answer, err := container.Assistant.Query(ctx, input, language)
			if err != nil {
				fmt.Printf("Sorry, that didn't work: %v\n", err)
				continue
			}

			session = append(session,
				domain.Turn{Role: "user", Content: input, Language: language},
				domain.Turn{Role: "assistant", Content: answer.Text, Asset: answer.Asset},
			)

			fmt.Println(answer.Text)
			if answer.Asset != nil {
				fmt.Printf("  [%s #%d, market cap %s, data refreshed %s]\n",
					answer.Asset.Symbol,
					answer.Asset.MarketCapRank,
					util.FormatCompactUSD(answer.Asset.MarketCap),
					humanize.Time(container.Catalog.LastRefreshedAt()),
				)
			}
		}
	}
}

func handleCommand(input string, language *string, session []domain.Turn, container *app.Container) (quit bool) {
	fields := strings.Fields(input)

	switch fields[0] {
	case "/quit", "/exit":
		return true

	case "/lang":
		if len(fields) < 2 {
			fmt.Println("Usage: /lang <code>  (e.g. /lang hi-IN)")
			return false
		}
		code := fields[1]
		if !domain.IsSupportedLanguage(code) {
			fmt.Printf("Unsupported language %q. Supported: %s\n", code, supportedLanguageList())
			return false
		}
		*language = code
		fmt.Printf("Language set to %s\n", domain.LanguageName(code))

	case "/top":
		assets := container.Catalog.Assets()
		n := util.Min(len(assets), 10)
		for _, a := range assets[:n] {
			fmt.Printf("  #%-3d %-8s %-20s $%s\n", a.MarketCapRank, a.Symbol, a.Name, util.FormatMoney(a.CurrentPrice))
		}
		fmt.Printf("  (%d assets, refreshed %s)\n", len(assets), humanize.Time(container.Catalog.LastRefreshedAt()))

	case "/history":
		if len(session) == 0 {
			fmt.Println("No conversation yet.")
			return false
		}
		for _, turn := range session {
			prefix := "you"
			if turn.Role == "assistant" {
				prefix = "bot"
			}
			fmt.Printf("  %s: %s\n", prefix, util.TruncateString(turn.Content, 80))
		}

	case "/refresh":
		if err := container.Catalog.Refresh(context.Background()); err != nil {
			fmt.Printf("Refresh failed: %v\n", err)
			return false
		}
		fmt.Printf("Refreshed %d assets.\n", container.Catalog.Size())

	case "/help":
		printHelp(*language)

	default:
		fmt.Printf("Unknown command %q. Try /help.\n", fields[0])
	}

	return false
}

func printHelp(language string) {
	fmt.Println("Crypto price assistant. Ask a question in", domain.LanguageName(language), "or use a command:")
	fmt.Println("  /lang <code>   switch input language (" + supportedLanguageList() + ")")
	fmt.Println("  /top           show the top tracked assets")
	fmt.Println("  /refresh       force a market data refresh")
	fmt.Println("  /history       show this session's conversation")
	fmt.Println("  /quit          exit")
}

func supportedLanguageList() string {
	codes := make([]string, 0, len(domain.SupportedLanguages))
	for code := range domain.SupportedLanguages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return strings.Join(codes, ", ")
}
