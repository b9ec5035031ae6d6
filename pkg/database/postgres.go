package database

import (
	"context"
	"fmt"
	"time"

	"github.com/duccv/user-auth-service/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresDB holds a write pool and an optional read pool. Without a
// read connection string both names point at the same pool.
type PostgresDB struct {
	config    *config.PostgresConfig
	readPool  *pgxpool.Pool
	writePool *pgxpool.Pool
	logger    *zap.Logger
}

func NewPostgresDB(config *config.PostgresConfig) *PostgresDB {
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = 30
	}
	return &PostgresDB{
		config: config,
		logger: zap.L(),
	}
}

func (p *PostgresDB) Connect(ctx context.Context) error {
	if p.config.ConnectionString == "" {
		return fmt.Errorf("postgres connection string (DATABASE_URL) is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(p.config.ConnectTimeout)*time.Second)
	defer cancel()

	p.logger.Info("Starting PostgreSQL connection")

	var err error
	p.writePool, err = p.newPool(ctx, p.config.ConnectionString)
	if err != nil {
		p.logger.Error("Failed to create write pool", zap.Error(err))
		return fmt.Errorf("failed to create write pool: %w", err)
	}

	if p.config.ReadConnection == "" {
		p.readPool = p.writePool
	} else {
		p.readPool, err = p.newPool(ctx, p.config.ReadConnection)
		if err != nil {
			p.logger.Error("Failed to create read pool", zap.Error(err))
			p.writePool.Close()
			return fmt.Errorf("failed to create read pool: %w", err)
		}
	}

	if err := p.Ping(ctx); err != nil {
		p.Close()
		return err
	}

	p.logger.Info("Successfully connected to PostgreSQL",
		zap.Bool("separate_read_pool", p.readPool != p.writePool))
	return nil
}

func (p *PostgresDB) newPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	p.configurePool(poolConfig)
	return pgxpool.NewWithConfig(ctx, poolConfig)
}

func (p *PostgresDB) Ping(ctx context.Context) error {
	if p.writePool == nil || p.readPool == nil {
		return fmt.Errorf("postgres pools not initialized")
	}
	if err := p.writePool.Ping(ctx); err != nil {
		p.logger.Error("Write pool ping failed", zap.Error(err))
		return fmt.Errorf("write pool ping failed: %w", err)
	}
	if p.readPool != p.writePool {
		if err := p.readPool.Ping(ctx); err != nil {
			p.logger.Error("Read pool ping failed", zap.Error(err))
			return fmt.Errorf("read pool ping failed: %w", err)
		}
	}
	return nil
}

func (p *PostgresDB) ReadPool() *pgxpool.Pool {
	return p.readPool
}

func (p *PostgresDB) WritePool() *pgxpool.Pool {
	return p.writePool
}

// HealthCheck reports a ping result per pool, for the /health endpoint.
func (p *PostgresDB) HealthCheck(ctx context.Context) map[string]error {
	result := map[string]error{"write_pool": fmt.Errorf("write pool not initialized")}
	if p.writePool != nil {
		result["write_pool"] = p.writePool.Ping(ctx)
	}
	if p.readPool != nil && p.readPool != p.writePool {
		result["read_pool"] = p.readPool.Ping(ctx)
	}
	return result
}

func (p *PostgresDB) Close() {
	p.logger.Info("Closing PostgreSQL connections")

	if p.readPool != nil && p.readPool != p.writePool {
		p.readPool.Close()
	}
	if p.writePool != nil {
		p.writePool.Close()
	}
	p.readPool, p.writePool = nil, nil
}

func (p *PostgresDB) configurePool(config *pgxpool.Config) {
	if p.config.MaxConns != 0 {
		config.MaxConns = p.config.MaxConns
	}

	if p.config.MinConns != 0 {
		config.MinConns = p.config.MinConns
	}

	if p.config.ConnMaxIdleTime != 0 {
		config.MaxConnIdleTime = time.Duration(p.config.ConnMaxIdleTime) * time.Minute
	}

	if p.config.ConnMaxLifetime != 0 {
		config.MaxConnLifetime = time.Duration(p.config.ConnMaxLifetime) * time.Hour
	}

	if p.config.HealthCheckPeriod != 0 {
		config.HealthCheckPeriod = time.Duration(p.config.HealthCheckPeriod) * time.Minute
	}
}
