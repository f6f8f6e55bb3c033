package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"fx-alert-hub/internal/application/monitor"
	"fx-alert-hub/internal/infrastructure/config"
	"fx-alert-hub/internal/infrastructure/db"
	"fx-alert-hub/internal/infrastructure/notify"
	"fx-alert-hub/internal/infrastructure/persistence/postgres"
	"fx-alert-hub/internal/infrastructure/pricefeed"
)

// checkalerts 執行單輪警報監控後結束，供 cron 等外部排程呼叫。
// 警報層級的失敗（通知失敗、轉移衝突）不影響結束碼，
// 僅整輪失敗（資料庫或報價來源不可用）回傳非零。
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	timeout := flag.Duration("timeout", time.Minute, "cycle timeout")
	flag.Parse()

	cfg, err := config.LoadFromFile(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if pool == nil {
		log.Fatal("DB_DSN is required")
	}
	defer pool.Close()

	feed := pricefeed.NewClient(cfg.Feed.BaseURL, cfg.Feed.UserAgent, cfg.Feed.Timeout)
	var tgClient *notify.TelegramClient
	if cfg.Notifier.Telegram.Enabled && cfg.Notifier.Telegram.Token != "" && cfg.Notifier.Telegram.ChatID != 0 {
		tgClient = notify.NewTelegramClient(cfg.Notifier.Telegram.Token, cfg.Notifier.Telegram.ChatID)
	}

	engine := monitor.NewEngine(postgres.NewAlertRepo(pool), feed, tgClient)
	outcomes, runErr := engine.Run(ctx)

	for _, out := range outcomes {
		line := fmt.Sprintf("alert=%d symbol=%s matched=%t notified=%t", out.AlertID, out.Symbol, out.Matched, out.Notified)
		if out.ErrorKind != monitor.KindNone {
			line += " error=" + string(out.ErrorKind)
		}
		fmt.Println(line)
	}

	if runErr != nil {
		log.Printf("cycle failed: %v", runErr)
		os.Exit(1)
	}
	fmt.Printf("checked %d alerts\n", len(outcomes))
}
