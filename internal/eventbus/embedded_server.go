package eventbus

import (
	"fmt"
	"os"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// EmbeddedServer - NATS сервер с JetStream внутри процесса.
// Нужен, когда внешнего кластера нет, а события хочется читать event-cli.
type EmbeddedServer struct {
	ns *server.Server

	startupTimeout time.Duration
	host           string
	port           int
	storeDir       string
}

// EmbeddedOpt настраивает EmbeddedServer
type EmbeddedOpt func(*EmbeddedServer)

// WithStartTimeout задаёт время ожидания готовности сервера
func WithStartTimeout(d time.Duration) EmbeddedOpt {
	return func(e *EmbeddedServer) {
		e.startupTimeout = d
	}
}

// WithHost задаёт адрес прослушивания
func WithHost(host string) EmbeddedOpt {
	return func(e *EmbeddedServer) {
		e.host = host
	}
}

// WithPort задаёт порт; 0 - случайный свободный
func WithPort(port int) EmbeddedOpt {
	return func(e *EmbeddedServer) {
		e.port = port
	}
}

// WithStoreDir задаёт каталог хранилища JetStream
func WithStoreDir(dir string) EmbeddedOpt {
	return func(e *EmbeddedServer) {
		e.storeDir = dir
	}
}

// NewEmbeddedServer создаёт сервер, но не запускает его
func NewEmbeddedServer(opts ...EmbeddedOpt) (*EmbeddedServer, error) {
	e := &EmbeddedServer{
		startupTimeout: 10 * time.Second,
		host:           "127.0.0.1",
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.storeDir == "" {
		dir, err := os.MkdirTemp("", "sandbox-jetstream-")
		if err != nil {
			return nil, fmt.Errorf("store dir: %w", err)
		}
		e.storeDir = dir
	}

	port := e.port
	if port == 0 {
		port = server.RANDOM_PORT
	}
	ns, err := server.NewServer(&server.Options{
		Host:      e.host,
		Port:      port,
		JetStream: true,
		StoreDir:  e.storeDir,
		NoSigs:    true, // сигналы обрабатывает приложение
		NoLog:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("nats server: %w", err)
	}
	e.ns = ns
	return e, nil
}

// Start запускает сервер и ждёт готовности к подключениям
func (e *EmbeddedServer) Start() error {
	go e.ns.Start()
	if !e.ns.ReadyForConnections(e.startupTimeout) {
		return fmt.Errorf("nats server not ready for connections")
	}
	return nil
}

// ClientURL возвращает адрес для nats.Connect
func (e *EmbeddedServer) ClientURL() string {
	return e.ns.ClientURL()
}

// Shutdown останавливает сервер и дожидается завершения
func (e *EmbeddedServer) Shutdown() {
	e.ns.Shutdown()
	e.ns.WaitForShutdown()
}
