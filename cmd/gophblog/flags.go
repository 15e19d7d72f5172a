package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"
)

const (
	defaultServerURL = "http://localhost:5000"
	defaultDataDir   = ".gophblog"

	storeFile = "file"
	storeKdbx = "kdbx"

	// Переменные окружения.
	envServerURL    = "GOPHBLOG_SERVER_URL"
	envDataDir      = "GOPHBLOG_DATA_DIR"
	envStore        = "GOPHBLOG_STORE"
	envKdbxPassword = "GOPHBLOG_KDBX_PASSWORD"
	envTimeout      = "GOPHBLOG_TIMEOUT"
)

// config хранит конфигурацию клиента.
type config struct {
	ServerURL    string
	DataDir      string
	Store        string
	KdbxPassword string
	Timeout      time.Duration // 0 - без таймаута
	Debug        bool
	Version      bool
}

// parseFlags разбирает флаги и переменные окружения, возвращает config или ошибку.
// Флаг имеет приоритет над переменной окружения.
func parseFlags() (*config, error) {
	cfg := &config{}

	flag.StringVar(&cfg.ServerURL, "server-url", "",
		fmt.Sprintf("URL сервера блога (env: %s, default: %s)", envServerURL, defaultServerURL))
	flag.StringVar(&cfg.DataDir, "data-dir", "",
		fmt.Sprintf("Каталог для сессии и логов (env: %s, default: %s)", envDataDir, defaultDataDir))
	flag.StringVar(&cfg.Store, "store", "",
		fmt.Sprintf("Хранилище сессии: %s или %s (env: %s, default: %s)", storeFile, storeKdbx, envStore, storeFile))
	flag.StringVar(&cfg.KdbxPassword, "kdbx-password", "",
		fmt.Sprintf("Пароль файла KDBX для хранилища %s (env: %s)", storeKdbx, envKdbxPassword))
	flag.DurationVar(&cfg.Timeout, "timeout", 0,
		fmt.Sprintf("Таймаут сетевых запросов, 0 - без таймаута (env: %s)", envTimeout))
	flag.BoolVar(&cfg.Debug, "debug", false, "Включить режим отладки TUI")
	flag.BoolVar(&cfg.Version, "version", false, "Показать версию и дату сборки")

	flag.Parse()

	if cfg.Version {
		return cfg, nil
	}

	// Применяем переменные окружения, если флаги не заданы
	cfg.ServerURL = fromEnv(cfg.ServerURL, envServerURL, defaultServerURL)
	cfg.DataDir = fromEnv(cfg.DataDir, envDataDir, defaultDataDir)
	cfg.Store = fromEnv(cfg.Store, envStore, storeFile)
	cfg.KdbxPassword = fromEnv(cfg.KdbxPassword, envKdbxPassword, "")

	timeoutSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "timeout" {
			timeoutSet = true
		}
	})
	if value, ok := os.LookupEnv(envTimeout); ok && value != "" && !timeoutSet {
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("некорректный таймаут в %s: %w", envTimeout, err)
		}
		cfg.Timeout = d
	}

	// Проверяем параметры
	if cfg.Timeout < 0 {
		return nil, errors.New("таймаут не может быть отрицательным")
	}
	switch cfg.Store {
	case storeFile:
	case storeKdbx:
		if cfg.KdbxPassword == "" {
			return nil, errors.New("не указан пароль KDBX (--kdbx-password или " + envKdbxPassword + ")")
		}
	default:
		return nil, fmt.Errorf("неизвестное хранилище '%s': ожидается %s или %s", cfg.Store, storeFile, storeKdbx)
	}

	return cfg, nil
}

// fromEnv возвращает value, если оно задано, иначе значение переменной окружения или def.
func fromEnv(value, env, def string) string {
	if value != "" {
		return value
	}
	if envValue, ok := os.LookupEnv(env); ok && envValue != "" {
		return envValue
	}
	return def
}
