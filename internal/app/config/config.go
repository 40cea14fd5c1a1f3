package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/AlenaMolokova/passgen/internal/app/models"
	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Workers        int           `env:"WORKERS" envDefault:"0"`
	SliceDuration  time.Duration `env:"SLICE_DURATION" envDefault:"50ms"`
	Timeout        time.Duration `env:"TIMEOUT" envDefault:"5s"`
	RandomPoolSize int           `env:"RANDOM_POOL_SIZE" envDefault:"1024"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`

	ServerAddress   string `env:"SERVER_ADDRESS"` // флаг -a
	DatabaseDSN     string `env:"DATABASE_DSN"`   // флаг -d
	RedisAddress    string `env:"REDIS_ADDRESS"`  // флаг -r
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	FileStoragePath string `env:"FILE_STORAGE_PATH"` // флаг -f
	HistoryLimit    int    `env:"HISTORY_LIMIT" envDefault:"100"`

	// Задаются только флагами командной строки
	Options models.GenerationOptions
	Count   int
	Serve   bool
}

// NewConfig читает .env (если он есть), переменные окружения и флаги
// командной строки. Флаги имеют приоритет над окружением.
func NewConfig(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Debug("Файл .env не загружен")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("ошибка чтения переменных окружения: %w", err)
	}

	if err := cfg.parseFlags(args); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("passgen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	defaults := models.DefaultOptions()
	opts := &cfg.Options

	fs.StringVar(&cfg.ServerAddress, "a", cfg.ServerAddress, "Адрес административного HTTP-сервера")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "Строка подключения к PostgreSQL")
	fs.StringVar(&cfg.RedisAddress, "r", cfg.RedisAddress, "Адрес Redis")
	fs.StringVar(&cfg.FileStoragePath, "f", cfg.FileStoragePath, "Путь к файлу журнала генераций")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Число воркеров (0 - по числу CPU)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Бюджет времени на один пароль")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Уровень логирования")

	fs.IntVar(&opts.PasswordLength, "length", defaults.PasswordLength, "Длина пароля")
	fs.BoolVar(&opts.UseUppercase, "upper", defaults.UseUppercase, "Использовать заглавные буквы")
	fs.BoolVar(&opts.UseLowercase, "lower", defaults.UseLowercase, "Использовать строчные буквы")
	fs.BoolVar(&opts.UseDigits, "digits", defaults.UseDigits, "Использовать цифры")
	fs.BoolVar(&opts.UseSymbols, "symbols", defaults.UseSymbols, "Использовать символы")
	fs.StringVar(&opts.Symbols, "symbol-set", defaults.Symbols, "Набор допустимых символов")
	fs.Float64Var(&opts.MinDigitProportion, "min-digits", defaults.MinDigitProportion, "Минимальная доля цифр")
	fs.Float64Var(&opts.MinSymbolProportion, "min-symbols", defaults.MinSymbolProportion, "Минимальная доля символов")
	fs.Float64Var(&opts.MaxCaseVariance, "max-case-variance", defaults.MaxCaseVariance, "Максимальная разница регистров")
	fs.IntVar(&cfg.Count, "count", 1, "Количество паролей")
	fs.BoolVar(&cfg.Serve, "serve", false, "Оставить административный сервер запущенным после генерации")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("ошибка разбора флагов: %w", err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("неожиданные аргументы: %v", fs.Args())
	}
	return nil
}

func (cfg *Config) validate() error {
	switch {
	case cfg.Workers < 0:
		return errors.New("число воркеров не может быть отрицательным")
	case cfg.Count < 1:
		return errors.New("количество паролей должно быть не меньше 1")
	case cfg.Serve && cfg.ServerAddress == "":
		return errors.New("флаг -serve требует адрес сервера (-a или SERVER_ADDRESS)")
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("неизвестный уровень логирования %q: %w", cfg.LogLevel, err)
	}
	return nil
}
