package config

import (
	"fmt"
	stdlog "log"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	port := u.Port()
	if port == "" {
		port = "3306"
	}

	cfg := baseMySQLConfig()
	cfg.User = u.User.Username()
	cfg.Passwd, _ = u.User.Password()
	cfg.Addr = net.JoinHostPort(u.Hostname(), port)
	cfg.DBName = dbName
	for key, values := range u.Query() {
		if len(values) == 0 {
			continue
		}
		switch key {
		case "parseTime", "loc":
			// fixed by baseMySQLConfig
		default:
			cfg.Params[key] = values[0]
		}
	}
	return cfg.FormatDSN(), nil
}

func baseMySQLConfig() *mysql.Config {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg
}

// ResolveMySQLDSN prefers MYSQL_URL / DATABASE_URL and falls back to the discrete DB_* settings.
func (c *Config) ResolveMySQLDSN() (string, error) {
	if raw := c.DatabaseURL; raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	cfg := baseMySQLConfig()
	cfg.User = c.DBUser
	cfg.Passwd = c.DBPass
	cfg.Addr = net.JoinHostPort(c.DBHost, c.DBPort)
	cfg.DBName = c.DBName
	return cfg.FormatDSN(), nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// NewGormLogger routes gorm's query log through zerolog.
func NewGormLogger(log zerolog.Logger, level string) logger.Interface {
	sink := log.With().Str("component", "gorm").Logger()
	return logger.New(
		stdlog.New(sink, "", 0),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogLevel(level),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func ConnectDatabase(c *Config, log zerolog.Logger) (*gorm.DB, error) {
	dsn, err := c.ResolveMySQLDSN()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(gormmysql.Open(dsn), &gorm.Config{
		Logger:         NewGormLogger(log, c.DBLogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("cannot get raw sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
