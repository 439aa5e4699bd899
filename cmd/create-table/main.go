// Command create-table provisions the user table for the configured backend:
// the DynamoDB table keyed by userId, or the SQLite schema.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/sirupsen/logrus"

	"user-registry-api/internal/config"
	"user-registry-api/internal/database"
	"user-registry-api/internal/logging"
)

func main() {
	var (
		action  = flag.String("action", "up", "Action: up, status")
		maxWait = flag.Duration("wait", 2*time.Minute, "How long to wait for the DynamoDB table to become active")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	logging.Setup(cfg.Log)

	logger := logrus.WithFields(logrus.Fields{
		"backend": cfg.Store.Backend,
		"table":   cfg.Store.TableName,
		"action":  *action,
	})
	logger.Info("Starting table tool")

	ctx := context.Background()

	switch cfg.Store.Backend {
	case config.BackendDynamoDB:
		err = runDynamoDB(ctx, cfg.Store, *action, *maxWait)
	case config.BackendSQLite:
		err = runSQLite(cfg.Store, *action)
	default:
		logger.Info("Backend keeps no persistent table, nothing to do")
		return
	}
	if err != nil {
		logger.WithError(err).Fatal("Table tool failed")
	}

	logger.Info("Table tool completed successfully")
}

func runDynamoDB(ctx context.Context, store config.StoreConfig, action string, maxWait time.Duration) error {
	client, err := database.NewDynamoDBClient(ctx, store)
	if err != nil {
		return err
	}

	switch action {
	case "up":
		created, err := database.EnsureTable(ctx, client, store.TableName, maxWait)
		if err != nil {
			return err
		}
		fmt.Printf("Table %s ready (created: %t)\n", store.TableName, created)
		return nil
	case "status":
		out, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(store.TableName)})
		if err != nil {
			return fmt.Errorf("failed to describe table %s: %w", store.TableName, err)
		}
		fmt.Printf("Table %s status: %s, items: %d\n", store.TableName, out.Table.TableStatus, aws.ToInt64(out.Table.ItemCount))
		return nil
	default:
		return fmt.Errorf("unknown action %q, use: up, status", action)
	}
}

func runSQLite(store config.StoreConfig, action string) error {
	manager := database.NewMigrationManager(store.SQLitePath, logrus.StandardLogger())

	switch action {
	case "up":
		db, err := database.OpenSQLite(store.SQLitePath, logrus.StandardLogger())
		if err != nil {
			return err
		}
		return db.Close()
	case "status":
		status, err := manager.GetMigrationStatus()
		if err != nil {
			return fmt.Errorf("failed to get migration status: %w", err)
		}
		fmt.Printf("Migration Status:\n")
		fmt.Printf("  Version: %d\n", status.Version)
		fmt.Printf("  Dirty: %t\n", status.Dirty)
		return nil
	default:
		return fmt.Errorf("unknown action %q, use: up, status", action)
	}
}
