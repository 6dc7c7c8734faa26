package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/annel0/sandbox2d/internal/api"
	"github.com/annel0/sandbox2d/internal/config"
	"github.com/annel0/sandbox2d/internal/eventbus"
	"github.com/annel0/sandbox2d/internal/logging"
	"github.com/annel0/sandbox2d/internal/metrics"
	"github.com/annel0/sandbox2d/internal/observability"
	"github.com/annel0/sandbox2d/internal/sim"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (по умолчанию $SANDBOX_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	logOpts := logging.OptionsFromEnv()
	if _, ok := os.LookupEnv("LOG_LEVEL"); !ok {
		logOpts.Level = cfg.Logging.Level
	}
	if _, ok := os.LookupEnv("LOG_FORMAT"); !ok {
		logOpts.Format = cfg.Logging.Format
	}
	if err := logging.InitDefaultLogger("server", logOpts); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Error("❌ %v", err)
		logging.CloseDefaultLogger()
		os.Exit(1)
	}
	logging.Info("👋 Сервер успешно остановлен")
}

func run(ctx context.Context, cfg *config.Config) error {
	logging.Info("🎮 Запуск песочницы: seed=%d, мир %dx%d", cfg.World.Seed, cfg.World.Width, cfg.World.Height)

	// === ТЕЛЕМЕТРИЯ ===
	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("телеметрия: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logging.Warn("Ошибка остановки телеметрии: %v", err)
		}
	}()

	// === ШИНА СОБЫТИЙ ===
	bus, stopBus, err := newBus(cfg.EventBus)
	if err != nil {
		return fmt.Errorf("шина событий: %w", err)
	}
	defer stopBus()

	if _, err := eventbus.StartLoggingListener(ctx, bus); err != nil {
		return fmt.Errorf("логирование событий: %w", err)
	}

	// === МЕТРИКИ ===
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	busMetrics, err := eventbus.NewMetricsExporter(bus, reg, 5*time.Second)
	if err != nil {
		return err
	}
	busMetrics.Start()
	defer busMetrics.Stop()

	collector, err := metrics.NewCollector(reg)
	if err != nil {
		return err
	}

	// === СИМУЛЯЦИЯ ===
	opts, err := sim.OptionsFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("параметры симуляции: %w", err)
	}

	sink := eventbus.NewSimSink(bus, cfg.EventBus.Buffer)
	defer sink.Close()
	opts.Sink = sim.MultiSink{collector, sink}

	simulation := sim.InitializeWithOptions(opts)
	report := simulation.Report()
	logging.Info("🌍 Мир сгенерирован: деревьев %d, пещер %d, руды %v", report.Trees, report.CaveWorms, report.Ores)

	runner := sim.NewRunner(simulation, cfg.Simulation.TickRate, cfg.Simulation.SnapshotEvery, collector)

	// === REST API ===
	apiCfg := api.Config{
		Port:       fmt.Sprintf(":%d", cfg.Server.GetRESTPort()),
		Source:     runner,
		Registerer: reg,
	}
	if cfg.Server.MetricsEnabled {
		apiCfg.Gatherer = reg
	}
	restServer, err := api.NewRestServer(apiCfg)
	if err != nil {
		return err
	}

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	errCh := make(chan error, 1)
	go func() {
		if err := restServer.Start(); err != nil {
			errCh <- fmt.Errorf("REST API: %w", err)
		}
	}()
	runnerDone := make(chan struct{})
	go func() {
		defer close(runnerDone)
		if err := runner.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logging.Error("❌ Цикл симуляции: %v", err)
		}
	}()
	go sampleProcess(runCtx, collector)

	logging.Info("✅ Все сервисы запущены")
	logging.Info("   🌐 REST API: http://localhost%s", apiCfg.Port)
	logging.Info("   ❤️  Health check: http://localhost%s/health", apiCfg.Port)

	var runErr error
	select {
	case <-ctx.Done():
		logging.Info("📡 Получен сигнал, завершение работы...")
	case runErr = <-errCh:
	}

	// === GRACEFUL SHUTDOWN ===
	cancelRun()
	<-runnerDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := restServer.Stop(shutdownCtx); err != nil {
		logging.Error("❌ Ошибка остановки REST API: %v", err)
	}
	if d := sink.Dropped(); d > 0 {
		logging.Warn("⚠️ Потеряно событий: %d", d)
	}
	return runErr
}

// newBus создаёт шину событий; stop освобождает её вместе со встроенным сервером
func newBus(cfg config.EventBusConfig) (eventbus.EventBus, func(), error) {
	retention := time.Duration(cfg.Retention) * time.Hour
	switch strings.ToLower(cfg.Kind) {
	case "jetstream":
		jb, err := eventbus.NewJetStreamBus(cfg.URL, cfg.Stream, retention)
		if err != nil {
			return nil, nil, err
		}
		return jb, func() { _ = jb.Close() }, nil

	case "embedded":
		srv, err := eventbus.NewEmbeddedServer(
			eventbus.WithStoreDir(cfg.StoreDir),
			eventbus.WithPort(cfg.Port),
		)
		if err != nil {
			return nil, nil, err
		}
		if err := srv.Start(); err != nil {
			return nil, nil, err
		}
		jb, err := eventbus.NewJetStreamBus(srv.ClientURL(), cfg.Stream, retention)
		if err != nil {
			srv.Shutdown()
			return nil, nil, err
		}
		logging.Info("📨 Встроенный NATS JetStream: %s", srv.ClientURL())
		return jb, func() {
			_ = jb.Close()
			srv.Shutdown()
		}, nil

	default:
		mb := eventbus.NewMemoryBus(cfg.Buffer)
		return mb, func() { _ = mb.Close() }, nil
	}
}

// sampleProcess периодически обновляет метрики процесса
func sampleProcess(ctx context.Context, c *metrics.Collector) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.UpdateProcess(); err != nil {
				logging.Debug("Метрики процесса недоступны: %v", err)
			}
		}
	}
}
