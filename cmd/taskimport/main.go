// Command taskimport is a one-time operational script. It copies rows from a
// legacy flat tasks table (name, due_date as mm/dd/yyyy text, priority,
// status) into the current users+tasks schema, assigning every row to the
// named default owner and stamping posted_date with the current time.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/taskline/backend/internal/config"
	pgInfra "github.com/taskline/backend/internal/infrastructure/postgres"
	"github.com/taskline/backend/pkg/logger"
	"github.com/taskline/backend/usecase/task"
)

// quoteTable keeps the -source value from being interpreted as SQL.
func quoteTable(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func main() {
	var (
		sourceTable = flag.String("source", "old_tasks", "legacy table to import from")
		ownerName   = flag.String("owner", "", "username that will own the imported tasks")
		dropSource  = flag.Bool("drop", false, "drop the legacy table after a successful import")
	)
	flag.Parse()

	if *ownerName == "" {
		log.Fatal("-owner is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: "console",
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := pgInfra.NewPool(ctx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pool.Close()

	var ownerID string
	if err := pool.QueryRow(ctx, `SELECT id FROM users WHERE name = $1`, *ownerName).Scan(&ownerID); err != nil {
		zapLogger.Fatal("default owner not found", zap.String("owner", *ownerName), zap.Error(err))
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		zapLogger.Fatal("begin failed", zap.Error(err))
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT name, due_date, priority, status FROM `+quoteTable(*sourceTable)+` ORDER BY task_id ASC`)
	if err != nil {
		zapLogger.Fatal("legacy read failed", zap.Error(err))
	}

	type legacyRow struct {
		name     string
		dueDate  string
		priority int
		status   int
	}
	var legacy []legacyRow
	for rows.Next() {
		var lr legacyRow
		if err := rows.Scan(&lr.name, &lr.dueDate, &lr.priority, &lr.status); err != nil {
			rows.Close()
			zapLogger.Fatal("legacy scan failed", zap.Error(err))
		}
		legacy = append(legacy, lr)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		zapLogger.Fatal("legacy read failed", zap.Error(err))
	}

	imported := 0
	for _, lr := range legacy {
		due, err := time.Parse(task.DueDateLayout, lr.dueDate)
		if err != nil {
			zapLogger.Warn("skipping row with unparseable due date",
				zap.String("name", lr.name),
				zap.String("due_date", lr.dueDate))
			continue
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO tasks (user_id, name, due_date, priority, status, posted_date)
			VALUES ($1, $2, $3, $4, $5, NOW())`,
			ownerID, lr.name, due, lr.priority, lr.status,
		); err != nil {
			zapLogger.Fatal("insert failed", zap.String("name", lr.name), zap.Error(err))
		}
		imported++
	}

	if *dropSource {
		if _, err := tx.Exec(ctx, `DROP TABLE IF EXISTS `+quoteTable(*sourceTable)); err != nil {
			zapLogger.Fatal("drop failed", zap.Error(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		zapLogger.Fatal("commit failed", zap.Error(err))
	}

	zapLogger.Info("legacy import finished",
		zap.Int("imported", imported),
		zap.Int("read", len(legacy)),
		zap.String("owner", *ownerName),
		zap.Bool("dropped_source", *dropSource))
}
