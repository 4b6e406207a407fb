package db

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/terraincognita07/cyclemate/internal/logger"
	"github.com/terraincognita07/cyclemate/migrations"
	"gorm.io/gorm"
)

var (
	scriptNamePattern = regexp.MustCompile(`^(\d+)_[\w.-]+\.sql$`)
	addColumnPattern  = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+(\S+)\s+ADD\s+COLUMN\s+(\S+)`)
)

// schemaScript is one numbered file from the migrations directory.
type schemaScript struct {
	Version string
	Order   int
	Name    string
	SQL     string
}

// schemaMigration is a row of schema_migrations.
type schemaMigration struct {
	Version string `gorm:"column:version;primaryKey"`
	Name    string `gorm:"column:name"`
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

const createSchemaMigrationsSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// migrateSchema brings the app_state and app_lock tables up to date.
func migrateSchema(database *gorm.DB) error {
	return runScripts(database, migrations.FS())
}

// runScripts applies every script in source whose version is not yet recorded.
func runScripts(database *gorm.DB, source fs.FS) error {
	scripts, err := loadMigrations(source)
	if err != nil {
		return err
	}
	if err := database.Exec(createSchemaMigrationsSQL).Error; err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var applied []string
	if err := database.Model(&schemaMigration{}).Pluck("version", &applied).Error; err != nil {
		return fmt.Errorf("list applied migrations: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, version := range applied {
		done[version] = true
	}

	for _, script := range scripts {
		if done[script.Version] {
			continue
		}
		if err := applyScript(database, script); err != nil {
			return err
		}
		logger.Log.WithField("migration", script.Name).Info("db: migration applied")
	}
	return nil
}

// loadMigrations reads the numbered scripts from source ordered by version.
// Files that do not look like NNN_name.sql are ignored.
func loadMigrations(source fs.FS) ([]schemaScript, error) {
	names, err := fs.Glob(source, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	scripts := make([]schemaScript, 0, len(names))
	owners := map[string]string{}
	for _, name := range names {
		match := scriptNamePattern.FindStringSubmatch(path.Base(name))
		if match == nil {
			continue
		}
		version := match[1]
		if owner, taken := owners[version]; taken {
			return nil, fmt.Errorf("duplicate migration version %s in %s and %s", version, owner, name)
		}
		owners[version] = name

		order, err := strconv.Atoi(version)
		if err != nil {
			return nil, fmt.Errorf("migration %s: bad version: %w", name, err)
		}
		body, err := fs.ReadFile(source, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		scripts = append(scripts, schemaScript{Version: version, Order: order, Name: name, SQL: string(body)})
	}

	sort.SliceStable(scripts, func(i, j int) bool {
		return scripts[i].Order < scripts[j].Order
	})
	return scripts, nil
}

// applyScript runs a script and records it in one transaction. An ADD COLUMN
// for a column that already exists is skipped, so databases created before
// schema_migrations existed can catch up.
func applyScript(database *gorm.DB, script schemaScript) error {
	statements := splitStatements(script.SQL)
	if len(statements) == 0 {
		return fmt.Errorf("migration %s: %w", script.Name, errEmptyScript)
	}

	return database.Transaction(func(tx *gorm.DB) error {
		for _, statement := range statements {
			if columnAlreadyAdded(tx, statement) {
				continue
			}
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("migration %s: %q: %w", script.Name, statement, err)
			}
		}

		record := schemaMigration{Version: script.Version, Name: script.Name}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", script.Name, err)
		}
		return nil
	})
}

var errEmptyScript = errors.New("no SQL statements")

func splitStatements(script string) []string {
	var statements []string
	for _, part := range strings.Split(script, ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

func columnAlreadyAdded(database *gorm.DB, statement string) bool {
	match := addColumnPattern.FindStringSubmatch(statement)
	if match == nil {
		return false
	}
	table := unquoteIdentifier(match[1])
	column := unquoteIdentifier(match[2])
	return database.Migrator().HasColumn(table, column)
}

func unquoteIdentifier(identifier string) string {
	return strings.Trim(identifier, "\"`[]")
}
