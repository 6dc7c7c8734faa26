package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/annel0/sandbox2d/internal/logging"
	"github.com/annel0/sandbox2d/internal/middleware"
	"github.com/annel0/sandbox2d/internal/sim"
)

// MaxRegionSide - максимальная сторона запрашиваемой области тайлов
const MaxRegionSide = 64

// SnapshotSource отдаёт последний согласованный снимок симуляции
type SnapshotSource interface {
	Latest() sim.Frame
}

// RestServer представляет REST API для просмотра состояния мира
type RestServer struct {
	router  *gin.Engine
	source  SnapshotSource
	port    string
	started time.Time
	http    *http.Server
	log     *logging.Logger
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port       string                // порт для запуска сервера
	Source     SnapshotSource        // источник снимков
	Registerer prometheus.Registerer // куда регистрировать HTTP-метрики
	Gatherer   prometheus.Gatherer   // что отдавать на /metrics; nil - без эндпоинта
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) (*RestServer, error) {
	if config.Source == nil {
		return nil, errors.New("api: не задан источник снимков")
	}
	if config.Port == "" {
		config.Port = ":8088"
	}
	if config.Registerer == nil {
		config.Registerer = prometheus.NewRegistry()
	}

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	// === Observability middleware ===
	router.Use(middleware.NewRequestLogger(nil).Handler())
	router.Use(otelgin.Middleware("rest_api"))

	promMw, err := middleware.NewPrometheusMiddleware("rest_api", config.Registerer)
	if err != nil {
		return nil, fmt.Errorf("api: метрики HTTP: %w", err)
	}
	router.Use(promMw.Handler())
	if config.Gatherer != nil {
		middleware.RegisterMetricsEndpoint(router, config.Gatherer)
	}

	rs := &RestServer{
		router:  router,
		source:  config.Source,
		port:    config.Port,
		started: time.Now(),
		log:     logging.GetAPILogger(),
	}
	rs.setupRoutes()
	return rs, nil
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	// Middleware для CORS
	rs.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	api := rs.router.Group("/api")
	{
		api.GET("/world", rs.handleWorld)
		api.GET("/world/blocks", rs.handleBlocks)
		api.GET("/world/columns", rs.handleColumns)
		api.GET("/player", rs.handlePlayer)
		api.GET("/hostiles", rs.handleHostiles)
	}

	rs.router.GET("/health", rs.handleHealth)
}

// Handler возвращает http.Handler сервера
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

func (rs *RestServer) handleHealth(c *gin.Context) {
	frame := rs.source.Latest()
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
		"uptime": time.Since(rs.started).Seconds(),
		"tick":   frame.Snapshot.Tick,
	})
}

// Start запускает REST сервер и блокируется до его остановки
func (rs *RestServer) Start() error {
	rs.http = &http.Server{
		Addr:              rs.port,
		Handler:           rs.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	rs.log.Info("🌐 REST API слушает %s", rs.port)
	if err := rs.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop корректно останавливает REST сервер
func (rs *RestServer) Stop(ctx context.Context) error {
	if rs.http == nil {
		return nil
	}
	return rs.http.Shutdown(ctx)
}

func badRequest(c *gin.Context, format string, args ...interface{}) {
	c.JSON(http.StatusBadRequest, GenericResponse{
		Success: false,
		Message: fmt.Sprintf(format, args...),
	})
}

// intQuery читает обязательный целочисленный параметр запроса
func intQuery(c *gin.Context, name string) (int, bool) {
	raw, ok := c.GetQuery(name)
	if !ok {
		badRequest(c, "не задан параметр %s", name)
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, "параметр %s должен быть целым числом", name)
		return 0, false
	}
	return v, true
}
