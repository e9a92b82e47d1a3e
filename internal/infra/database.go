package infra

import (
	"fmt"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (partial unique indexes).
//
// TranslateError is on so a unique-index violation surfaces as
// gorm.ErrDuplicatedKey — the lote open path depends on that to turn a lost
// race into a clean conflict instead of a raw pgx error.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies AutoMigrate plus schema patches. Exposed separately so
// integration tests can migrate a throwaway database without opening a second
// connection pool.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Socio{},
		&model.Cargo{},
		&model.MovimientoSocio{},
		&model.Caja{},
		&model.CuentaTesoreria{},
		&model.LoteOperaciones{},
		&model.DetalleLote{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement is guarded so re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one open lote per operator+drawer. A partial unique index
		// makes the database the arbiter: of two concurrent opens, exactly one
		// commits and the loser gets a duplicate-key error.
		{"partial unique index uq_lotes_abiertos", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uq_lotes_abiertos') THEN
    CREATE UNIQUE INDEX uq_lotes_abiertos
        ON lote_operaciones (usuario_id, caja_id)
        WHERE estado = 'abierto';
  END IF;
END $$`},
		// Sweeper query: pendientes with a due date in the past.
		{"partial index idx_movimientos_pendientes_vto", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movimientos_pendientes_vto') THEN
    CREATE INDEX idx_movimientos_pendientes_vto
        ON movimiento_socios (fecha_vencimiento)
        WHERE estado = 'pendiente' AND fecha_vencimiento IS NOT NULL;
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
