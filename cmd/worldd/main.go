package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mopgo/server/internal/config"
	"github.com/mopgo/server/internal/core/event"
	coresys "github.com/mopgo/server/internal/core/system"
	"github.com/mopgo/server/internal/data"
	"github.com/mopgo/server/internal/handler"
	gonet "github.com/mopgo/server/internal/net"
	"github.com/mopgo/server/internal/net/packet"
	"github.com/mopgo/server/internal/persist"
	"github.com/mopgo/server/internal/query"
	"github.com/mopgo/server/internal/scripting"
	"github.com/mopgo/server/internal/system"
	"github.com/mopgo/server/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// autoSaveInterval is how often dirty players are written back.
const autoSaveInterval = 5 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, realmID uint32) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              worldd  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1m伺服器:\033[0m %s \033[90m(realm: %d)\033[0m\n\n", serverName, realmID)
}

// displayWidth counts CJK runes as two columns.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		if r > 0x7F {
			n += 2
		} else {
			n++
		}
	}
	return n
}

func printSection(title string) {
	lineLen := 46 - displayWidth(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - displayWidth(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfg, err := config.Load(config.Path())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.RealmID)

	// 3. Connect to PostgreSQL and run migrations
	printSection("資料庫")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	printOK("PostgreSQL 連線成功")

	version, err := persist.RunMigrations(ctx, db.Pool, log)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	printOK(fmt.Sprintf("資料庫遷移完成 (版本 %d)", version))

	accountRepo := persist.NewAccountRepo(db)
	charRepo := persist.NewCharacterRepo(db)

	// A previous crash may have left accounts flagged online.
	stale, err := accountRepo.ResetOnline(ctx)
	if err != nil {
		return fmt.Errorf("reset online flags: %w", err)
	}
	printStat("重設在線帳號", int(stale))
	fmt.Println()

	// 4. Load static data and populate the world
	printSection("資料載入")

	catalog, err := data.LoadCatalog(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}
	printStat("生物模板", catalog.Creatures.Count())
	printStat("物件模板", catalog.GameObjects.Count())
	printStat("NPC 文字", catalog.NpcTexts.Count())
	printStat("書頁", catalog.Pages.Count())
	printStat("任務興趣點", catalog.QuestPOIs.Count())
	printStat("地圖", catalog.Maps.Count())
	printStat("過場動畫", catalog.SceneTemplates.Count())

	worldState := world.NewState()
	printStat("生物生成", worldState.SpawnCreatures(catalog.Spawns, catalog.Creatures))

	names, err := charRepo.LoadAllNames(ctx)
	if err != nil {
		return fmt.Errorf("load character names: %w", err)
	}
	for _, nd := range names {
		worldState.Names().Put(nd)
	}
	printStat("角色名稱", worldState.Names().Len())

	luaEngine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("Lua 腳本載入完成")

	// 5. Event bus
	bus := event.NewBus()
	event.Subscribe(bus, func(e event.PlayerEnteredWorld) {
		log.Debug("事件: 進入世界", zap.String("name", e.Name), zap.Int("online", worldState.PlayerCount()))
	})
	event.Subscribe(bus, func(e event.PlayerLeftWorld) {
		log.Debug("事件: 離開世界", zap.String("name", e.Name), zap.Int("online", worldState.PlayerCount()))
	})
	event.Subscribe(bus, func(e event.SceneFinished) {
		log.Debug("事件: 過場結束",
			zap.Stringer("guid", e.GUID),
			zap.Uint32("instance", e.InstanceID),
			zap.Uint32("scene", e.SceneID),
			zap.Uint32("package", e.PackageID),
			zap.Bool("completed", e.Completed),
		)
	})

	// 6. Create packet handler registry and register handlers
	responder := query.NewResponder(query.Stores{
		Creatures:   catalog.Creatures,
		GameObjects: catalog.GameObjects,
		NpcTexts:    catalog.NpcTexts,
		Pages:       catalog.Pages,
		QuestPOIs:   catalog.QuestPOIs,
		Maps:        catalog.Maps,
		Names:       worldState,
		Units:       worldState,
	}, query.Config{
		RealmID:        cfg.Server.RealmID,
		Realms:         cfg.RealmNames(),
		PageChainLimit: cfg.Query.PageChainLimit,
		DailyResetHour: cfg.Server.DailyResetHour,
	}, log.Named("query"))

	pktReg := packet.NewRegistry(log)
	deps := &handler.Deps{
		Accounts:   accountRepo,
		Characters: charRepo,
		Config:     cfg,
		Log:        log,
		World:      worldState,
		Catalog:    catalog,
		Scripting:  luaEngine,
		Query:      responder,
		Bus:        bus,
	}
	handler.RegisterAll(pktReg, deps)
	printStat("封包處理器", len(pktReg.Opcodes()))
	fmt.Println()

	// 7. Create network server
	opts := gonet.SessionOptions{
		InQueueSize:  cfg.Network.InQueueSize,
		OutQueueSize: cfg.Network.OutQueueSize,
		ReadTimeout:  cfg.Network.ReadTimeout,
		WriteTimeout: cfg.Network.WriteTimeout,
	}
	if cfg.RateLimit.Enabled {
		opts.PacketsPerSecond = cfg.RateLimit.PacketsPerSecond
	}
	netServer, err := gonet.NewServer(cfg.Network.BindAddress, opts, log)
	if err != nil {
		return fmt.Errorf("net server: %w", err)
	}
	go netServer.AcceptLoop()

	if cfg.Network.WSBindAddress != "" {
		if err := netServer.ListenWS(cfg.Network.WSBindAddress, cfg.Network.WSPath); err != nil {
			netServer.Shutdown()
			return fmt.Errorf("websocket listener: %w", err)
		}
	}

	// 8. Create systems and register with runner
	sessions := gonet.NewSessionStore()
	saveTicks := int(autoSaveInterval / cfg.Network.TickRate)
	if saveTicks < 1 {
		saveTicks = 1
	}
	persistSys := system.NewPersistenceSystem(worldState, charRepo, log, saveTicks)

	runner := coresys.NewRunner(cfg.Network.TickRate, log)
	runner.Register(system.NewInputSystem(netServer, pktReg, sessions, worldState,
		func(sess *gonet.Session) { handler.HandleDisconnect(sess, deps) },
		cfg.Network.MaxPacketsPerTick, log))
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewOutputSystem(sessions))
	runner.Register(persistSys)

	// 9. Start game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Network.TickRate)
	defer ticker.Stop()

	printSection("伺服器就緒")
	printReady(fmt.Sprintf("監聽位址 %s", netServer.Addr().String()))
	if addr := netServer.WSAddr(); addr != nil {
		printReady(fmt.Sprintf("WebSocket 位址 %s%s", addr.String(), cfg.Network.WSPath))
	}
	printReady(fmt.Sprintf("遊戲迴圈啟動 (tick: %s)", cfg.Network.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Network.TickRate)
		case sig := <-shutdownCh:
			log.Info("收到關閉信號", zap.String("signal", sig.String()))
			saved := persistSys.SaveAllPlayers()
			log.Info("關閉前存檔完成", zap.Int("players", saved))
			netServer.Shutdown()
			log.Info("伺服器已停止")
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
