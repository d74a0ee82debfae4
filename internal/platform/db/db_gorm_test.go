package db

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

// TestBuildDSN_Postgres はPostgres接続用のDSN文字列が正しく生成されることを検証します。
func TestBuildDSN_Postgres(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Driver:   DriverPostgres,
		User:     "testuser",
		Password: "testpass",
		Name:     "testdb",
		Host:     "localhost",
		Port:     "5432",
		SSLMode:  "disable",
	}

	dsn := BuildDSN(cfg)

	expected := "host=localhost user=testuser password=testpass dbname=testdb port=5432 sslmode=disable TimeZone=UTC"
	if dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

// TestBuildDSN_SQLite はSQLiteの場合にファイルパスがそのままDSNになることを検証します。
func TestBuildDSN_SQLite(t *testing.T) {
	t.Parallel()

	dsn := BuildDSN(Config{Driver: DriverSQLite, SQLitePath: ":memory:", Host: "ignored"})
	if dsn != ":memory:" {
		t.Errorf("expected DSN %q, got %q", ":memory:", dsn)
	}
}

// TestOpenerFor_Unsupported は未対応ドライバでエラーになることを検証します。
func TestOpenerFor_Unsupported(t *testing.T) {
	t.Parallel()

	if _, err := OpenerFor("mysql"); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

// TestOpen_SQLiteMemory はインメモリSQLiteに接続しマイグレーションできることを検証します。
func TestOpen_SQLiteMemory(t *testing.T) {
	t.Parallel()

	type migrationCheck struct {
		ID   uint
		Name string
	}

	db, err := Open(Config{Driver: DriverSQLite, SQLitePath: ":memory:", ConnectTimeout: time.Second, RunMigrations: true}, &migrationCheck{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !db.Migrator().HasTable(&migrationCheck{}) {
		t.Error("expected migration_checks table to be migrated")
	}
}

// TestConnectWithRetry_SuccessOnFirstTry は初回接続成功時にリトライせずDBを返すことを検証します。
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	opener := func(dsn string) (*gorm.DB, error) {
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
}

// TestConnectWithRetry_RetriesOnFailure は接続失敗時にリトライして最終的に成功することを検証します。
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	// retryInterval を書き換えるため並列実行しない
	orig := retryInterval
	retryInterval = 10 * time.Millisecond
	defer func() { retryInterval = orig }()

	mockDB := &gorm.DB{}
	attemptCount := 0

	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		if attemptCount < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", time.Second, opener)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
	if attemptCount != 3 {
		t.Errorf("expected 3 attempts, got %d", attemptCount)
	}
}

// TestConnectWithRetry_TimeoutAfterRetries はタイムアウト後にエラーが返されることを検証します。
func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		return nil, errors.New("connection refused")
	}

	_, err := ConnectWithRetry("test-dsn", 100*time.Millisecond, opener)

	if err == nil {
		t.Fatal("expected error after timeout, got nil")
	}
	if attemptCount == 0 {
		t.Error("expected at least one connection attempt")
	}
}

// TestLoadConfigFromEnv は環境変数からデータベース設定が正しく読み込まれることを検証します。
func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_USER", "envuser")
	t.Setenv("DB_PASSWORD", "envpass")
	t.Setenv("DB_NAME", "envdb")
	t.Setenv("DB_HOST", "envhost")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("RUN_MIGRATIONS", "")

	cfg := LoadConfigFromEnv()

	if cfg.Driver != DriverPostgres {
		t.Errorf("expected Driver %q, got %q", DriverPostgres, cfg.Driver)
	}
	if cfg.User != "envuser" || cfg.Password != "envpass" || cfg.Name != "envdb" || cfg.Host != "envhost" {
		t.Errorf("unexpected credentials: %+v", cfg)
	}
	if cfg.Port != "5432" {
		t.Errorf("expected default Port '5432', got %q", cfg.Port)
	}
	if cfg.SQLitePath != "mining_analytics.db" {
		t.Errorf("expected default sqlite path, got %q", cfg.SQLitePath)
	}
	if !cfg.RunMigrations {
		t.Error("expected migrations enabled by default")
	}
}
