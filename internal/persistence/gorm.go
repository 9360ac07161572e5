package persistence

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Gorm wraps a gorm session opened on top of the pgx pool so the ORM and
// the hand-written queries share one set of connections.
type Gorm struct {
	DB    *gorm.DB
	sqlDB *sql.DB
}

// NewGorm opens the session. The pool must already be connected.
func NewGorm(pool *pgxpool.Pool, logger *zap.Logger) (*Gorm, error) {
	if pool == nil {
		return nil, errors.New("postgres pool not configured")
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	logger.Debug("gorm session ready")
	return &Gorm{DB: db, sqlDB: sqlDB}, nil
}

// Close releases the database/sql handle. The pgx pool is closed separately.
func (g *Gorm) Close() error {
	if g == nil || g.sqlDB == nil {
		return nil
	}
	return g.sqlDB.Close()
}

// Session returns the gorm handle.
func (g *Gorm) Session() *gorm.DB {
	if g == nil {
		return nil
	}
	return g.DB
}
