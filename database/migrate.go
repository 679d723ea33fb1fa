package database

import (
	"fmt"

	"barangay-backend/models"

	"gorm.io/gorm"
)

// Migrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns)
// - Composite indexes for the dashboard queries
// - CHECK constraints backing the workflow invariants
func Migrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		// --- AutoMigrate tables/columns/index tags (non-destructive) ---
		if err := tx.AutoMigrate(
			&models.Barangay{},
			&models.User{},
			&models.Item{},
			&models.Benefit{},
			&models.DocumentType{},
			&models.Request{},
			&models.AuditEvent{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		// --- Composite / helpful indexes (idempotent) ---
		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_requests_requester_status ON requests (requester_id, status)`,
			`CREATE INDEX IF NOT EXISTS idx_requests_kind_status ON requests (kind, status)`,
			`CREATE INDEX IF NOT EXISTS idx_audit_events_request_created ON audit_events (request_id, created_at)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- CHECK constraints backing workflow invariants (idempotent) ---
		checks := []string{
			// Rejected requests always carry a reason
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'requests'::regclass
					  AND conname  = 'chk_requests_rejection_reason'
				) THEN
					ALTER TABLE requests
					ADD CONSTRAINT chk_requests_rejection_reason
					CHECK (status <> 'rejected' OR rejection_reason <> '');
				END IF;
			END $$;`,
			// Status values stay inside the state graph
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'requests'::regclass
					  AND conname  = 'chk_requests_status'
				) THEN
					ALTER TABLE requests
					ADD CONSTRAINT chk_requests_status
					CHECK (status IN ('pending','approved','rejected','cancelled','completed','ready','active','responded','resolved'));
				END IF;
			END $$;`,
			// Document type fee is non-negative
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'document_types'::regclass
					  AND conname  = 'chk_document_types_fee_nonneg'
				) THEN
					ALTER TABLE document_types
					ADD CONSTRAINT chk_document_types_fee_nonneg
					CHECK (fee >= 0);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
