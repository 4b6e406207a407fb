package db

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/glebarez/sqlite"
	embeddedmigrations "github.com/terraincognita07/cyclemate/migrations"
	"gorm.io/gorm"
)

func TestOpenSQLiteAppliesEmbeddedMigrationsOnCleanDatabase(t *testing.T) {
	database := openSQLiteForMigrationBootstrapTest(t, filepath.Join(t.TempDir(), "cyclemate-clean.db"))

	assertTableColumns(t, database, "app_state", "id", "schema_version", "payload", "updated_at", "checksum")
	assertTableColumns(t, database, "app_lock", "id", "passcode_hash", "updated_at")
	assertAllEmbeddedMigrationsApplied(t, database)
}

func TestOpenSQLiteReconcilesPreexistingChecksumColumn(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "cyclemate-legacy.db")
	seedLegacyStateSchema(t, databasePath)

	database := openSQLiteForMigrationBootstrapTest(t, databasePath)

	assertTableColumns(t, database, "app_state", "checksum")
	assertAllEmbeddedMigrationsApplied(t, database)

	var payload string
	if err := database.Raw(`SELECT payload FROM app_state WHERE id = 1`).Scan(&payload).Error; err != nil {
		t.Fatalf("load legacy payload: %v", err)
	}
	if payload != `{"schemaVersion":0}` {
		t.Fatalf("expected legacy payload to survive migrations, got %q", payload)
	}
}

func TestOpenSQLiteMigrationBootstrapIsIdempotent(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "cyclemate-idempotent.db")

	firstOpen, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("first open sqlite: %v", err)
	}
	firstRecords := loadMigrationRecords(t, firstOpen)

	firstSQLDB, err := firstOpen.DB()
	if err != nil {
		t.Fatalf("first open sql db: %v", err)
	}
	if err := firstSQLDB.Close(); err != nil {
		t.Fatalf("close first sql db: %v", err)
	}

	secondOpen := openSQLiteForMigrationBootstrapTest(t, databasePath)
	secondRecords := loadMigrationRecords(t, secondOpen)

	if !reflect.DeepEqual(firstRecords, secondRecords) {
		t.Fatalf("expected migration records to remain unchanged between boots, before=%v after=%v", firstRecords, secondRecords)
	}
}

func TestLoadMigrationsRejectsDuplicateVersions(t *testing.T) {
	source := fstest.MapFS{
		"001_init.sql":  {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"001_other.sql": {Data: []byte("CREATE TABLE b (id INTEGER);")},
	}

	if _, err := loadMigrations(source); err == nil || !strings.Contains(err.Error(), "duplicate migration version") {
		t.Fatalf("expected duplicate version error, got %v", err)
	}
}

func TestLoadMigrationsOrdersByVersionAndSkipsForeignFiles(t *testing.T) {
	source := fstest.MapFS{
		"010_late.sql":  {Data: []byte("SELECT 1;")},
		"002_early.sql": {Data: []byte("SELECT 1;")},
		"README.md":     {Data: []byte("notes")},
	}

	migrations, err := loadMigrations(source)
	if err != nil {
		t.Fatalf("load migrations: %v", err)
	}
	if len(migrations) != 2 || migrations[0].Version != "002" || migrations[1].Version != "010" {
		t.Fatalf("unexpected migration order: %+v", migrations)
	}
}

func TestRunScriptsAppliesOnlyNewVersions(t *testing.T) {
	database, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cyclemate-scripts.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	first := fstest.MapFS{
		"001_notes.sql": {Data: []byte("CREATE TABLE notes (id INTEGER PRIMARY KEY);")},
	}
	if err := runScripts(database, first); err != nil {
		t.Fatalf("first run: %v", err)
	}

	second := fstest.MapFS{
		"001_notes.sql":      {Data: []byte("CREATE TABLE notes (id INTEGER PRIMARY KEY);")},
		"002_notes_body.sql": {Data: []byte("ALTER TABLE notes ADD COLUMN body TEXT NOT NULL DEFAULT '';\nALTER TABLE notes ADD COLUMN body TEXT NOT NULL DEFAULT '';")},
	}
	if err := runScripts(database, second); err != nil {
		t.Fatalf("second run: %v", err)
	}

	assertTableColumns(t, database, "notes", "id", "body")
	records := loadMigrationRecords(t, database)
	if len(records) != 2 || records[0].Name != "001_notes.sql" || records[1].Name != "002_notes_body.sql" {
		t.Fatalf("unexpected migration records: %+v", records)
	}
}

func TestRunScriptsRejectsEmptyScript(t *testing.T) {
	database, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cyclemate-empty.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	source := fstest.MapFS{"001_blank.sql": {Data: []byte(" ; \n")}}
	if err := runScripts(database, source); err == nil || !strings.Contains(err.Error(), "001_blank.sql") {
		t.Fatalf("expected empty script error naming the file, got %v", err)
	}
	if records := loadMigrationRecords(t, database); len(records) != 0 {
		t.Fatalf("expected nothing recorded, got %+v", records)
	}
}

func openSQLiteForMigrationBootstrapTest(t *testing.T, databasePath string) *gorm.DB {
	t.Helper()

	database, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database
}

func seedLegacyStateSchema(t *testing.T, databasePath string) {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{})
	if err != nil {
		t.Fatalf("open legacy sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open legacy sql db: %v", err)
	}
	defer sqlDB.Close()

	statements := []string{
		`CREATE TABLE app_state (
  id INTEGER PRIMARY KEY,
  schema_version INTEGER NOT NULL DEFAULT 0,
  payload TEXT NOT NULL,
  updated_at DATETIME NOT NULL,
  checksum TEXT NOT NULL DEFAULT ''
)`,
		`INSERT INTO app_state (id, schema_version, payload, updated_at) VALUES (1, 0, '{"schemaVersion":0}', CURRENT_TIMESTAMP)`,
	}
	for _, statement := range statements {
		if err := database.Exec(statement).Error; err != nil {
			t.Fatalf("seed legacy schema: %v", err)
		}
	}
}

func assertTableColumns(t *testing.T, database *gorm.DB, tableName string, expected ...string) {
	t.Helper()

	columns := loadTableColumns(t, database, tableName)
	for _, column := range expected {
		if _, ok := columns[column]; !ok {
			t.Fatalf("expected column %s.%s, got %v", tableName, column, columns)
		}
	}
}

func assertAllEmbeddedMigrationsApplied(t *testing.T, database *gorm.DB) {
	t.Helper()

	expectedVersions := embeddedMigrationVersionsForTest(t)
	actualVersions := make([]string, 0)

	var rows []struct {
		Version string `gorm:"column:version"`
	}
	if err := database.Raw(`SELECT version FROM schema_migrations ORDER BY version ASC`).Scan(&rows).Error; err != nil {
		t.Fatalf("load applied migration versions: %v", err)
	}
	for _, row := range rows {
		actualVersions = append(actualVersions, row.Version)
	}

	if !reflect.DeepEqual(expectedVersions, actualVersions) {
		t.Fatalf("unexpected applied migration versions: expected=%v actual=%v", expectedVersions, actualVersions)
	}
}

type migrationRecord struct {
	Version   string `gorm:"column:version"`
	Name      string `gorm:"column:name"`
	AppliedAt string `gorm:"column:applied_at"`
}

func loadMigrationRecords(t *testing.T, database *gorm.DB) []migrationRecord {
	t.Helper()

	records := make([]migrationRecord, 0)
	if err := database.Raw(
		`SELECT version, name, applied_at FROM schema_migrations ORDER BY version ASC`,
	).Scan(&records).Error; err != nil {
		t.Fatalf("load migration records: %v", err)
	}
	return records
}

func loadTableColumns(t *testing.T, database *gorm.DB, tableName string) map[string]struct{} {
	t.Helper()

	escapedTable := strings.ReplaceAll(tableName, `"`, `""`)
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, escapedTable)

	var rows []struct {
		Name string `gorm:"column:name"`
	}
	if err := database.Raw(query).Scan(&rows).Error; err != nil {
		t.Fatalf("load table columns for %s: %v", tableName, err)
	}

	columns := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		columns[strings.ToLower(strings.TrimSpace(row.Name))] = struct{}{}
	}
	return columns
}

func embeddedMigrationVersionsForTest(t *testing.T) []string {
	t.Helper()

	migrations, err := loadMigrations(embeddedmigrations.FS())
	if err != nil {
		t.Fatalf("load embedded migrations: %v", err)
	}

	versions := make([]string, 0, len(migrations))
	for _, migration := range migrations {
		versions = append(versions, migration.Version)
	}
	return versions
}
