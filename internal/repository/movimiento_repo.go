package repository

import (
	"context"
	"time"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MovimientoRepository is the durable store of the member account ledger.
// Append-mostly: entries are created and their Saldo/Estado mutated, never
// deleted. Balance-chain writers must go through the Tx variants under the
// caller's per-socio serialization (see service.SocioLocks).
type MovimientoRepository interface {
	DB() *gorm.DB
	CreateTx(tx *gorm.DB, m *model.MovimientoSocio) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MovimientoSocio, error)
	// FindByIDForUpdate row-locks the entry inside tx so concurrent payments
	// on the same charge serialize at the database as well.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.MovimientoSocio, error)
	UpdateTx(tx *gorm.DB, m *model.MovimientoSocio) error
	// UltimoSaldoAcumulado returns the running balance as of the member's
	// latest entry, decimal.Zero when the ledger is empty. The chain is
	// ordered by created_at on both ends (here and ListBySocio): fecha is
	// display metadata and may be back-dated, the balance chain is not.
	UltimoSaldoAcumulado(tx *gorm.DB, socioID uuid.UUID) (decimal.Decimal, error)
	ListBySocio(ctx context.Context, socioID uuid.UUID) ([]model.MovimientoSocio, error)
	// AplicarVencimientos transitions pendiente→vencida for cargos whose due
	// date is strictly before asOf, returning the ids it touched. Idempotent.
	AplicarVencimientos(ctx context.Context, asOf time.Time) ([]uuid.UUID, error)
}

type movimientoRepo struct{ db *gorm.DB }

func NewMovimientoRepository(db *gorm.DB) MovimientoRepository {
	return &movimientoRepo{db: db}
}

func (r *movimientoRepo) DB() *gorm.DB { return r.db }

func (r *movimientoRepo) CreateTx(tx *gorm.DB, m *model.MovimientoSocio) error {
	return tx.Create(m).Error
}

func (r *movimientoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MovimientoSocio, error) {
	var m model.MovimientoSocio
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *movimientoRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.MovimientoSocio, error) {
	var m model.MovimientoSocio
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *movimientoRepo) UpdateTx(tx *gorm.DB, m *model.MovimientoSocio) error {
	return tx.Save(m).Error
}

func (r *movimientoRepo) UltimoSaldoAcumulado(tx *gorm.DB, socioID uuid.UUID) (decimal.Decimal, error) {
	var m model.MovimientoSocio
	err := tx.Where("socio_id = ?", socioID).
		Order("created_at DESC").
		First(&m).Error
	if err == gorm.ErrRecordNotFound {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return m.SaldoAcumulado, nil
}

func (r *movimientoRepo) ListBySocio(ctx context.Context, socioID uuid.UUID) ([]model.MovimientoSocio, error) {
	var movs []model.MovimientoSocio
	err := r.db.WithContext(ctx).
		Where("socio_id = ?", socioID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *movimientoRepo) AplicarVencimientos(ctx context.Context, asOf time.Time) ([]uuid.UUID, error) {
	var vencidos []model.MovimientoSocio
	err := r.db.WithContext(ctx).
		Model(&vencidos).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Where("tipo = ? AND estado = ? AND fecha_vencimiento IS NOT NULL AND fecha_vencimiento < ?",
			model.MovimientoCargo, model.EstadoPendiente, asOf).
		Update("estado", model.EstadoVencida).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(vencidos))
	for i, m := range vencidos {
		ids[i] = m.ID
	}
	return ids, nil
}
