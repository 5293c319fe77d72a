package persistence

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rs/zerolog/log"

	"github.com/nexuscrm/hygiene/pkg/constants"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether name is safe to interpolate as a table name
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// SchemaStatements returns the DDL for the hygiene tables
func SchemaStatements() []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(36) PRIMARY KEY,
			source VARCHAR(64) NOT NULL,
			record_count INT NOT NULL DEFAULT 0,
			health_score INT NOT NULL DEFAULT 0,
			insights JSON,
			report JSON,
			started_at DATETIME(3) NOT NULL,
			finished_at DATETIME(3) NOT NULL,
			INDEX idx_hygiene_run_started (started_at)
		)`, constants.TableRun),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(36) PRIMARY KEY,
			recipient VARCHAR(255) NOT NULL,
			subject VARCHAR(255) NOT NULL,
			payload JSON,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			retry_count INT NOT NULL DEFAULT 0,
			error_message TEXT,
			created_date DATETIME NOT NULL,
			processed_date DATETIME NULL,
			last_modified_date DATETIME NOT NULL,
			INDEX idx_hygiene_outbox_status (status, created_date)
		)`, constants.TableAlertOutbox),
	}
}

// Migrate creates the hygiene tables when they do not exist
func Migrate(ctx context.Context, exec Executor) error {
	for _, stmt := range SchemaStatements() {
		if _, err := exec.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	log.Info().Int("tables", len(SchemaStatements())).Msg("🧱 Hygiene schema ready")
	return nil
}
