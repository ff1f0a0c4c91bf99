// Package db はgormによるデータベース接続の生成とマイグレーションを提供します。
package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// retryInterval は接続リトライの間隔です。
	retryInterval = 3 * time.Second
)

// Config はデータベース接続設定を保持します。
// DSNが空の場合、postgresでは個別の項目からDSNを組み立てます。
type Config struct {
	Driver   string
	DSN      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	// DisableForeignKeys はマイグレーション時に外部キー制約を作成しません。
	// レプリケーション先では参照先より先に行が届くことがあるため使用します。
	DisableForeignKeys bool
}

// Opener はDSNからgorm.DBを開く関数です。テストで差し替えられます。
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN はConfigから接続文字列を生成します。
// DSNが明示されている場合はそれを優先します。
func BuildDSN(cfg Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	if cfg.Driver == DriverSQLite {
		return ""
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslmode)
}

// NewOpener はドライバー名に対応するOpenerを返します。
func NewOpener(cfg Config) (Opener, error) {
	gcfg := &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: cfg.DisableForeignKeys,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:                                  func() time.Time { return time.Now().UTC() },
	}

	switch cfg.Driver {
	case DriverPostgres:
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gcfg)
		}, nil
	case DriverSQLite, "":
		return func(dsn string) (*gorm.DB, error) {
			db, err := gorm.Open(sqlite.Open(dsn), gcfg)
			if err != nil {
				return nil, err
			}
			// SQLiteは書き込みが単一コネクションに直列化されます。
			// ":memory:" はコネクションごとに別DBになるため、共有のためにも1本に制限します。
			sqlDB, err := db.DB()
			if err != nil {
				return nil, err
			}
			sqlDB.SetMaxOpenConns(1)
			return db, nil
		}, nil
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", cfg.Driver)
	}
}

// ConnectWithRetry はtimeoutまでの間、接続をリトライします。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("db: connect failed after %s: %w", timeout, err)
		}
		time.Sleep(min(retryInterval, remaining))
	}
}

// Open はConfigに従ってDBへ接続します。起動直後にDBが未準備の場合に備えてリトライします。
func Open(cfg Config, timeout time.Duration, log zerolog.Logger) (*gorm.DB, error) {
	open, err := NewOpener(cfg)
	if err != nil {
		return nil, err
	}
	logged := func(dsn string) (*gorm.DB, error) {
		db, err := open(dsn)
		if err != nil {
			log.Warn().Err(err).Str("driver", cfg.Driver).Msg("db connect failed, retrying")
		}
		return db, err
	}

	db, err := ConnectWithRetry(BuildDSN(cfg), timeout, logged)
	if err != nil {
		return nil, err
	}
	log.Info().Str("driver", cfg.Driver).Str("target", redact(cfg)).Msg("db connected")
	return db, nil
}

// Migrate は指定されたモデルのテーブルを作成・更新します。
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("db: failed to migrate: %w", err)
	}
	return nil
}

// redact はログ出力用にパスワードを含まない接続先を返します。
func redact(cfg Config) string {
	if cfg.Driver == DriverSQLite || cfg.Driver == "" {
		return cfg.DSN
	}
	if cfg.DSN != "" {
		if i := strings.Index(cfg.DSN, "@"); i >= 0 {
			return cfg.DSN[i+1:]
		}
		return "dsn"
	}
	return cfg.Host + ":" + cfg.Port + "/" + cfg.Name
}
