package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Conclave/internal/adapters/mockproto"
	"github.com/dkeye/Conclave/internal/app"
	"github.com/dkeye/Conclave/internal/config"
	"github.com/dkeye/Conclave/internal/core"
	"github.com/dkeye/Conclave/internal/dispatch"
	"github.com/dkeye/Conclave/internal/domain"
	"github.com/dkeye/Conclave/internal/protocol"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
		os.Exit(1)
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	store, err := config.OpenStore(cfg.StorePath)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.StorePath).Msg("failed to open room store")
		os.Exit(1)
	}

	disp := dispatch.New()
	defer disp.Close()

	registry := mockproto.NewRegistry()
	history := mockproto.NewHistory()

	manager := app.NewManager(disp, registry, store, history, &consoleUI{}, core.SessionConfig{
		HistoryWindow:   cfg.HistoryWindow,
		HistoryLookback: cfg.HistoryLookback,
		LeaveOnClose:    cfg.LeaveOnClose,
	})
	manager.Start()
	defer manager.Stop()

	log.Info().Msg("Conclave started")
	runDemo(registry, manager, disp)

	<-ctx.Done()
	log.Info().Msg("Shutting down")
}

// runDemo drives a scripted conversation through the mock provider: account
// registration, room join, membership churn, traffic and an ad-hoc room.
func runDemo(registry *mockproto.Registry, manager *app.Manager, disp *dispatch.Dispatcher) {
	account, err := domain.NewAccount("mock", "alice@example.org", "Alice")
	if err != nil {
		log.Error().Err(err).Msg("demo account invalid")
		return
	}
	provider := mockproto.NewProvider("mock", account)
	registry.Register(provider)

	room := provider.Muc().Room("go-room@conference.example.org")

	var wrapper *core.RoomWrapper
	disp.Post(func() {
		for _, pw := range manager.Rooms().Providers() {
			wrapper = pw.FindRoomByID(room.Identity().ID)
		}
		if wrapper == nil {
			pw := manager.Rooms().Providers()[0]
			wrapper = core.WrapRoom(pw, room)
			manager.Rooms().AddRoom(wrapper)
		}
		manager.JoinRoom(wrapper, "alice", nil)
	})
	disp.Sync()
	// Let the background join land before scripting traffic.
	time.Sleep(50 * time.Millisecond)
	disp.Sync()

	bob := mockproto.NewMember("bob@example.org", "bob", domain.RoleModerator)
	carol := mockproto.NewMember("carol@example.org", "carol", domain.RoleMember)
	room.SimulateMemberJoined(bob, true)
	room.SimulateMemberJoined(carol, false)
	_ = room.SetSubject("weekly sync")
	room.SimulateMessage(bob, "hello everyone", time.Now(), false, false)
	room.SimulateMessage(carol, "hi bob", time.Now(), false, true)
	room.SimulateMemberLeft(carol, protocol.MemberLeft, "lunch")
	disp.Sync()

	disp.Post(func() {
		if w := manager.CreateAdHocRoom(provider, []string{"bob@example.org"}, "quick question"); w != nil {
			log.Info().Str("room", string(w.Name())).Msg("ad-hoc room created")
		}
	})
	disp.Sync()
}
