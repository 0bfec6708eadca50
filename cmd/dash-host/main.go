// Command dash-host runs a reference Dash API host.
//
// The host answers watchapp requests for phone state (battery, network,
// storage, calendar) and gated feature toggles, backed by simulated
// providers. An interactive console manages app permissions and injects
// test requests over a loopback bridge.
//
// Usage:
//
//	dash-host [flags]
//
// Flags:
//
//	-store string         Permission store backend: file, sqlite (default "file")
//	-store-path string    Permission store location (default "dash-apps.json")
//	-protocol-log string  Write protocol events to this .dlog file
//	-log-level string     Log level: debug, info, warn, error (default "info")
//
// Examples:
//
//	# Start with the default file-backed permission store
//	dash-host
//
//	# SQLite store with protocol logging
//	dash-host -store sqlite -store-path apps.db -protocol-log host.dlog
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dash-protocol/dash-go/pkg/dispatch"
	"github.com/dash-protocol/dash-go/pkg/log"
	"github.com/dash-protocol/dash-go/pkg/permission"
	"github.com/dash-protocol/dash-go/pkg/providers/simulated"
	"github.com/dash-protocol/dash-go/pkg/transport"
	"github.com/dash-protocol/dash-go/pkg/version"
	"github.com/google/uuid"
)

// Config holds the host configuration.
type Config struct {
	StoreBackend string
	StorePath    string
	ProtocolLog  string
	LogLevel     string
}

var config Config

func init() {
	flag.StringVar(&config.StoreBackend, "store", "file", "Permission store backend: file, sqlite")
	flag.StringVar(&config.StorePath, "store-path", "dash-apps.json", "Permission store location")
	flag.StringVar(&config.ProtocolLog, "protocol-log", "", "Write protocol events to this .dlog file")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "dash-host: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(config.LogLevel),
	}))

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("opening permission store: %w", err)
	}
	defer store.Close()

	plog, closePlog, err := openProtocolLog(logger)
	if err != nil {
		return fmt.Errorf("opening protocol log: %w", err)
	}
	defer closePlog()

	phone := simulated.NewPhone(simulated.Snapshot{
		BatteryPercent:    82,
		OperatorName:      "DashNet",
		SignalPercent:     70,
		WifiSSID:          `"HomeNet"`,
		StorageFreeBytes:  12 << 30,
		StorageTotalBytes: 64 << 30,
		UnreadSMS:         2,
	})

	bridge := newLoopbackBridge()

	dispatcher, err := dispatch.New(dispatch.Config{
		Store:    store,
		Sender:   bridge,
		Data:     phone,
		Features: phone,
		Notifier: dispatch.NotifierFunc(func(id uuid.UUID, displayName string) {
			name := displayName
			if name == "" {
				name = id.String()
			}
			logger.Info("permission requested", "app", name)
		}),
		ProtocolLogger: plog,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}

	receiver, err := transport.NewReceiver(transport.ReceiverConfig{
		Handler: dispatcher,
		Ack:     bridge,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("creating receiver: %w", err)
	}
	defer receiver.Close()

	logger.Info("dash host ready",
		"version", version.Current,
		"store", config.StoreBackend,
		"store_path", config.StorePath)

	console, err := newConsole(store, receiver, bridge)
	if err != nil {
		return fmt.Errorf("creating console: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	console.run(ctx, cancel)
	return nil
}

func openStore() (permission.Store, error) {
	switch config.StoreBackend {
	case "file":
		return permission.NewFileStore(config.StorePath)
	case "sqlite":
		return permission.NewSQLiteStore(config.StorePath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", config.StoreBackend)
	}
}

func openProtocolLog(logger *slog.Logger) (log.Logger, func(), error) {
	if config.ProtocolLog == "" {
		if config.LogLevel == "debug" {
			return log.NewSlogAdapter(logger), func() {}, nil
		}
		return log.NoopLogger{}, func() {}, nil
	}
	fl, err := log.NewFileLogger(config.ProtocolLog)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("protocol logging enabled", "path", config.ProtocolLog)
	if config.LogLevel == "debug" {
		// Echo protocol traffic to the console as well.
		return log.NewMultiLogger(fl, log.NewSlogAdapter(logger)), func() { _ = fl.Close() }, nil
	}
	return fl, func() { _ = fl.Close() }, nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
