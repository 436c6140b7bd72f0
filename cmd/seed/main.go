// Package main provides a CLI tool for seeding the well-known numbering rules.
package main

import (
	"context"
	"fmt"
	"os"

	"numera/internal/core/apperror"
	"numera/internal/core/sequence"
	"numera/internal/domain/rules"
	"numera/internal/infrastructure/storage/postgres"
	"numera/internal/infrastructure/storage/postgres/rule_repo"
	"numera/pkg/logger"
)

// seedRule describes one well-known rule to create if missing.
type seedRule struct {
	Code           string
	Name           string
	Prefix         string
	DateFormat     sequence.DateFormat
	SequenceLength int
	ResetPeriod    sequence.ResetPeriod
}

var seedRules = []seedRule{
	{"ORDER", "Sales orders", "ORD", sequence.DateFormatYearMonthDay, 4, sequence.ResetDaily},
	{"PO", "Purchase orders", "PO", sequence.DateFormatYearMonth, 5, sequence.ResetMonthly},
	{"REFUND", "Refunds", "RF", sequence.DateFormatYearMonthDay, 4, sequence.ResetDaily},
	{"GR", "Goods receipts", "GR", sequence.DateFormatYearMonth, 5, sequence.ResetMonthly},
	{"GI", "Goods issues", "GI", sequence.DateFormatYearMonth, 5, sequence.ResetMonthly},
	{"STOCK_COUNT", "Stock counts", "SC", sequence.DateFormatYearMonth, 4, sequence.ResetMonthly},
	{"STOCK_TRANSFER", "Stock transfers", "ST", sequence.DateFormatYearMonth, 4, sequence.ResetMonthly},
	{"STOCK_ADJ", "Stock adjustments", "SA", sequence.DateFormatYearMonth, 4, sequence.ResetMonthly},
	{"INVOICE", "Invoices", "INV", sequence.DateFormatYear, 6, sequence.ResetYearly},
	{"HOLD", "Held carts", "H", sequence.DateFormatYearMonthDay, 3, sequence.ResetDaily},
	{"POS_SESSION", "POS sessions", "PS", sequence.DateFormatYearMonthDay, 3, sequence.ResetDaily},
	{"SHIFT", "Cashier shifts", "SH", sequence.DateFormatYearMonthDay, 4, sequence.ResetDaily},
	{"CUSTOMER", "Customer codes", "C", sequence.DateFormatNone, 6, sequence.ResetNever},
}

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)
	repo := rule_repo.NewRuleRepo(txManager)
	service := rules.NewService(repo, txManager)

	var created, skipped int
	for _, s := range seedRules {
		existing, err := service.GetByCode(ctx, s.Code)
		if err == nil && existing != nil {
			skipped++
			continue
		}
		if err != nil && !apperror.IsNotFound(err) {
			log.Fatalw("failed to check rule", "code", s.Code, "error", err)
		}

		rule := sequence.NewRule(s.Code, s.Name, s.Prefix)
		rule.DateFormat = s.DateFormat
		rule.SequenceLength = s.SequenceLength
		rule.ResetPeriod = s.ResetPeriod

		if err := service.Create(ctx, rule); err != nil {
			log.Fatalw("failed to create rule", "code", s.Code, "error", err)
		}

		log.Infow("rule created", "code", s.Code, "prefix", s.Prefix)
		created++
	}

	log.Infow("seeding completed", "created", created, "skipped", skipped)
}
