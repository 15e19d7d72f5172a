package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/maynagashev/gophblog/internal/api"
	"github.com/maynagashev/gophblog/internal/request"
	"github.com/maynagashev/gophblog/internal/session"
	"github.com/maynagashev/gophblog/internal/storage"
	"github.com/maynagashev/gophblog/internal/tui"
)

const (
	logDir             = "logs"
	logFileName        = "client.log"
	logFilePermissions = 0o600
	kdbxFileName       = "session.kdbx"
)

// Переменные для версии и даты сборки, устанавливаются через ldflags.
//
//nolint:gochecknoglobals // Устанавливается через ldflags при сборке
var (
	version    = "dev"
	buildDate  = "unknown"
	commitHash = "N/A"
)

// setupLogging настраивает логирование в файл <dataDir>/logs/client.log.
// TUI занимает терминал, поэтому логи пишутся только в файл.
func setupLogging(dataDir string) (*os.File, error) {
	dir := filepath.Join(dataDir, logDir)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию для логов: %w", err)
	}
	logPath := filepath.Join(dir, logFileName)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть лог-файл: %w", err)
	}

	logHandler := slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug})
	slog.SetDefault(slog.New(logHandler))
	slog.Info("Логгер инициализирован", "path", logPath)
	return logFile, nil
}

// openStorage открывает хранилище сессии, выбранное в конфигурации.
func openStorage(cfg *config) (storage.KV, error) {
	if cfg.Store == storeKdbx {
		kdbx, err := storage.OpenKdbxStore(filepath.Join(cfg.DataDir, kdbxFileName), cfg.KdbxPassword)
		if err != nil {
			return nil, err
		}
		return kdbx, nil
	}
	fs, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	return fs, nil
}

func printVersion() {
	// slog настроен на файл, версию выводим в консоль через log
	log.SetOutput(os.Stdout)
	log.SetFlags(0)
	log.Println("GophBlog Client")
	log.Printf("Version: %s", version)
	log.Printf("Build Date: %s", buildDate)
	log.Printf("Commit Hash: %s", commitHash)
}

func run(cfg *config) error {
	if err := os.MkdirAll(cfg.DataDir, os.ModePerm); err != nil {
		return fmt.Errorf("не удалось создать каталог данных: %w", err)
	}
	logFile, err := setupLogging(cfg.DataDir)
	if err != nil {
		return err
	}
	defer logFile.Close()

	slog.Info("Запуск GophBlog",
		"server_url", cfg.ServerURL,
		"data_dir", cfg.DataDir,
		"store", cfg.Store,
		"timeout", cfg.Timeout,
		"debug_mode", cfg.Debug,
	)

	store, err := openStorage(cfg)
	if err != nil {
		slog.Error("Ошибка открытия хранилища сессии", "error", err)
		return fmt.Errorf("ошибка открытия хранилища сессии: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Ошибка закрытия хранилища сессии", "error", closeErr)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	return tui.Start(tui.Options{
		Session:   session.New(store),
		Client:    api.NewHTTPClient(cfg.ServerURL),
		Tracker:   request.NewTracker(ctx, cfg.Timeout),
		ServerURL: cfg.ServerURL,
		Debug:     cfg.Debug,
	})
}

func main() {
	cfg, err := parseFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка конфигурации:", err)
		os.Exit(2)
	}
	if cfg.Version {
		printVersion()
		return
	}

	if err = run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
