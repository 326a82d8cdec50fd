package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"app/utils"
)

// DB holds the database connection pool.
var DB *pgxpool.Pool

// InitDB sets up the database connection pool.
func InitDB(databaseURL string) {
	log := utils.GetLogger()

	var err error
	DB, err = pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		log.Fatal("Unable to connect to database", zap.Error(err))
	}

	if err = DB.Ping(context.Background()); err != nil {
		log.Fatal("Database ping failed", zap.Error(err))
	}

	log.Info("Successfully connected to the database")
}

// GetDB returns the shared connection pool.
func GetDB() *pgxpool.Pool {
	return DB
}

// CloseDB closes the database connection pool.
func CloseDB() {
	if DB != nil {
		DB.Close()
		utils.GetLogger().Info("Database connection pool closed")
	}
}
