// Package main provides a CLI tool for bootstrapping the database:
// it creates the schema if missing, seeds the admin user and,
// optionally, a set of demo catalog data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"bookstock/internal/core/id"
	"bookstock/internal/infrastructure/storage/postgres"
	"bookstock/pkg/logger"
)

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

	if err := ensureSchema(ctx, pool); err != nil {
		log.Fatalw("failed to create schema", "error", err)
	}
	log.Info("schema ready")

	if err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// ensureSchema creates all tables if they do not exist yet.
func ensureSchema(ctx context.Context, pool *postgres.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS cat_items (
			id UUID PRIMARY KEY,
			deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
			version INTEGER NOT NULL DEFAULT 1,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			class_level TEXT NOT NULL DEFAULT '',
			subject TEXT NOT NULL DEFAULT '',
			unit_price NUMERIC(12,2) NOT NULL DEFAULT 0,
			unit_cost NUMERIC(12,2) NOT NULL DEFAULT 0,
			stock_quantity INTEGER NOT NULL DEFAULT 0,
			min_stock INTEGER NOT NULL DEFAULT 0,
			supplier_name TEXT NOT NULL DEFAULT '',
			CONSTRAINT cat_items_stock_non_negative CHECK (stock_quantity >= 0)
		)`,
		`CREATE TABLE IF NOT EXISTS cat_students (
			id UUID PRIMARY KEY,
			deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
			version INTEGER NOT NULL DEFAULT 1,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			class_level TEXT NOT NULL DEFAULT '',
			guardian_name TEXT NOT NULL DEFAULT '',
			guardian_phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS cat_suppliers (
			id UUID PRIMARY KEY,
			deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
			version INTEGER NOT NULL DEFAULT 1,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			contact_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS reg_stock_ledger (
			id UUID PRIMARY KEY,
			item_id UUID NOT NULL REFERENCES cat_items(id),
			delta INTEGER NOT NULL,
			change_type TEXT NOT NULL,
			reason TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_ledger_item ON reg_stock_ledger (item_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS doc_purchases (
			id UUID PRIMARY KEY,
			deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
			version INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_by TEXT NOT NULL DEFAULT '',
			updated_by TEXT NOT NULL DEFAULT '',
			student_id UUID NOT NULL REFERENCES cat_students(id),
			item_id UUID NOT NULL REFERENCES cat_items(id),
			quantity INTEGER NOT NULL,
			unit_price NUMERIC(12,2) NOT NULL,
			total_amount NUMERIC(12,2) NOT NULL,
			receipt_number TEXT NOT NULL UNIQUE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_student ON doc_purchases (student_id)`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_item ON doc_purchases (item_id)`,
		`CREATE TABLE IF NOT EXISTS doc_supply_orders (
			id UUID PRIMARY KEY,
			deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
			version INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_by TEXT NOT NULL DEFAULT '',
			updated_by TEXT NOT NULL DEFAULT '',
			supplier_id UUID NOT NULL REFERENCES cat_suppliers(id),
			order_number TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL,
			total_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			ordered_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			expected_at TIMESTAMPTZ,
			received_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS doc_supply_order_lines (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES doc_supply_orders(id) ON DELETE CASCADE,
			item_id UUID NOT NULL REFERENCES cat_items(id),
			quantity INTEGER NOT NULL,
			unit_cost NUMERIC(12,2) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS doc_supplier_payments (
			id UUID PRIMARY KEY,
			supplier_id UUID NOT NULL REFERENCES cat_suppliers(id),
			amount NUMERIC(12,2) NOT NULL,
			paid_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			method TEXT NOT NULL DEFAULT '',
			reference TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS sys_sequences (
			key TEXT PRIMARY KEY,
			current_val BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS sys_audit (
			id UUID PRIMARY KEY,
			entity_type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			action TEXT NOT NULL,
			user_id TEXT NOT NULL DEFAULT '',
			user_email TEXT NOT NULL DEFAULT '',
			changes JSONB,
			changes_compressed BYTEA,
			compression_algo TEXT NOT NULL DEFAULT 'none',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_entity ON sys_audit (entity_type, entity_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS sys_users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'staff',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			last_login_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@bookstock.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	var existingID id.ID
	err := pool.QueryRow(ctx,
		`SELECT id FROM sys_users WHERE email = $1`, adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO sys_users (id, email, password_hash, name, role, is_active, is_admin)
		VALUES ($1, $2, $3, $4, $5, TRUE, TRUE)
	`, id.New(), adminEmail, string(hash), "Administrator", "admin")
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created", "email", adminEmail)
	return nil
}

// seedDemoData inserts a small catalog to play with. Idempotent: skips
// when any items already exist.
func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM cat_items`).Scan(&count); err != nil {
		return fmt.Errorf("count items: %w", err)
	}
	if count > 0 {
		log.Info("demo data already present, skipping")
		return nil
	}

	supplierID := id.New()
	_, err := pool.Exec(ctx, `
		INSERT INTO cat_suppliers (id, code, name, contact_name, phone, email)
		VALUES ($1, 'SP-2026-00001', 'Scholastic Supply Co', 'Jordan Reyes', '+1-555-0101', 'orders@scholasticsupply.example')
	`, supplierID)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}

	items := []struct {
		code, name, classLevel, subject string
		price, cost                     decimal.Decimal
		stock, minStock                 int
	}{
		{"BK-2026-00001", "Algebra I Workbook", "9", "Mathematics", decimal.NewFromFloat(24.50), decimal.NewFromFloat(15.00), 0, 10},
		{"BK-2026-00002", "Biology Essentials", "10", "Science", decimal.NewFromFloat(32.00), decimal.NewFromFloat(21.25), 0, 8},
		{"BK-2026-00003", "World History Reader", "11", "History", decimal.NewFromFloat(28.75), decimal.NewFromFloat(18.40), 0, 5},
	}
	for _, it := range items {
		_, err := pool.Exec(ctx, `
			INSERT INTO cat_items (id, code, name, class_level, subject, unit_price, unit_cost, stock_quantity, min_stock, supplier_name)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'Scholastic Supply Co')
		`, id.New(), it.code, it.name, it.classLevel, it.subject, it.price, it.cost, it.stock, it.minStock)
		if err != nil {
			return fmt.Errorf("insert item %s: %w", it.code, err)
		}
	}

	students := []struct {
		code, name, classLevel string
	}{
		{"ST-2026-00001", "Maya Chen", "9"},
		{"ST-2026-00002", "Liam Okafor", "10"},
		{"ST-2026-00003", "Sofia Petrov", "11"},
	}
	for _, st := range students {
		_, err := pool.Exec(ctx, `
			INSERT INTO cat_students (id, code, name, class_level)
			VALUES ($1, $2, $3, $4)
		`, id.New(), st.code, st.name, st.classLevel)
		if err != nil {
			return fmt.Errorf("insert student %s: %w", st.code, err)
		}
	}

	log.Infow("demo data seeded",
		"suppliers", 1,
		"items", len(items),
		"students", len(students),
	)
	return nil
}
