// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек сервиса рассылки.
type Config struct {
	Env                     string `yaml:"env"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	BaseURL                 string `yaml:"base_url"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	SMTPConnection          `yaml:"smtp_connection"`
	RabbitConnection        `yaml:"rabbit_connection"`
	SessionSettings         `yaml:"session"`
	AdminBootstrap          `yaml:"admin_bootstrap"`
}

// AdminBootstrap — учетная запись оператора, создаваемая при старте,
// если ее еще нет. Пустое имя отключает создание.
type AdminBootstrap struct {
	AdminUsername string `yaml:"admin_username"`
	AdminPassword string `yaml:"admin_password"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// RedisConnection структура для настройки подключения к redis,
// где живут серверные сессии операторов.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// SMTPConnection структура для настройки исходящей почты.
type SMTPConnection struct {
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort string `yaml:"smtp_port"`
	SMTPUser string `yaml:"smtp_user"`
	SMTPPass string `yaml:"smtp_pass"`
}

// RabbitConnection структура для настройки очереди отчетов
// о неудачных отправках выпуска.
type RabbitConnection struct {
	RabbitURL        string `yaml:"rabbit_url"`
	SendFailureQueue string `yaml:"send_failure_queue"`
}

// SessionSettings структура для настройки серверных сессий и подписи кук.
type SessionSettings struct {
	CookieSecretKey string        `yaml:"cookie_secret_key"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и падает при любой ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

// String выводит конфиг для отладки. Пароли и ключи подписи не раскрываются.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: [REDACTED]\n"+
			"BaseURL: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  User: %s\n"+
			"  DB: %d\n"+
			"  MaxRetries: %d\n"+
			"  DialTimeout: %s\n"+
			"  Timeout: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"SMTP:\n"+
			"  Host: %s\n"+
			"  Port: %s\n"+
			"  User: %s\n"+
			"Rabbit:\n"+
			"  Queue: %s\n"+
			"Session:\n"+
			"  TTL: %s\n"+
			"AdminBootstrap:\n"+
			"  Username: %s\n",
		c.Env,
		c.BaseURL,
		c.AddressRedis,
		c.User,
		c.DB,
		c.MaxRetries,
		c.DialTimeout,
		c.TimeoutRedis,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.SMTPHost,
		c.SMTPPort,
		c.SMTPUser,
		c.SendFailureQueue,
		c.SessionTTL,
		c.AdminUsername,
	)
}
