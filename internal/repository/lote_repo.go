package repository

import (
	"context"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TotalCuenta aggregates a lote's postings for one treasury account.
type TotalCuenta struct {
	CuentaID    uuid.UUID
	CuentaNombre string
	TipoCuenta  model.TipoCuenta
	Ingresos    decimal.Decimal
	Egresos     decimal.Decimal
}

// LoteRepository persists cash sessions and their immutable postings.
// CreateLote relies on the partial unique index uq_lotes_abiertos: inserting
// a second open lote for the same (usuario, caja) fails with a duplicate-key
// error, which the service maps to lote_ya_abierto.
type LoteRepository interface {
	DB() *gorm.DB
	CreateLote(ctx context.Context, l *model.LoteOperaciones) error
	FindLoteByID(ctx context.Context, id uuid.UUID) (*model.LoteOperaciones, error)
	FindLoteByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.LoteOperaciones, error)
	FindLoteAbierto(ctx context.Context, usuarioID, cajaID uuid.UUID) (*model.LoteOperaciones, error)
	FindLoteAbiertoPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.LoteOperaciones, error)
	// UltimoLoteCerrado returns the most recently closed lote for a caja,
	// regardless of operator; nil when the caja has no closed history.
	UltimoLoteCerrado(ctx context.Context, cajaID uuid.UUID) (*model.LoteOperaciones, error)
	UpdateLoteTx(tx *gorm.DB, l *model.LoteOperaciones) error
	CreateDetalle(ctx context.Context, d *model.DetalleLote) error
	CreateDetalleTx(tx *gorm.DB, d *model.DetalleLote) error
	ListDetalles(ctx context.Context, loteID uuid.UUID) ([]model.DetalleLote, error)
	// SumPorCuenta derives per-account ingreso/egreso totals with the account
	// type joined in, so the caller can split cash from bank figures. The Tx
	// variant runs inside the caller's transaction; Cerrar uses it under the
	// lote's row lock so the totals and the freeze are one atomic view.
	SumPorCuenta(ctx context.Context, loteID uuid.UUID) ([]TotalCuenta, error)
	SumPorCuentaTx(tx *gorm.DB, loteID uuid.UUID) ([]TotalCuenta, error)
	ListLotes(ctx context.Context, page, limit int) ([]model.LoteOperaciones, int64, error)
}

type loteRepo struct{ db *gorm.DB }

func NewLoteRepository(db *gorm.DB) LoteRepository { return &loteRepo{db: db} }

func (r *loteRepo) DB() *gorm.DB { return r.db }

func (r *loteRepo) CreateLote(ctx context.Context, l *model.LoteOperaciones) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *loteRepo) FindLoteByID(ctx context.Context, id uuid.UUID) (*model.LoteOperaciones, error) {
	var l model.LoteOperaciones
	err := r.db.WithContext(ctx).Preload("Detalles").First(&l, "id = ?", id).Error
	return &l, err
}

func (r *loteRepo) FindLoteByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.LoteOperaciones, error) {
	var l model.LoteOperaciones
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *loteRepo) FindLoteAbierto(ctx context.Context, usuarioID, cajaID uuid.UUID) (*model.LoteOperaciones, error) {
	var l model.LoteOperaciones
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND caja_id = ? AND estado = ?", usuarioID, cajaID, model.LoteAbierto).
		First(&l).Error
	return &l, err
}

func (r *loteRepo) FindLoteAbiertoPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.LoteOperaciones, error) {
	var l model.LoteOperaciones
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND estado = ?", usuarioID, model.LoteAbierto).
		First(&l).Error
	return &l, err
}

func (r *loteRepo) UltimoLoteCerrado(ctx context.Context, cajaID uuid.UUID) (*model.LoteOperaciones, error) {
	var l model.LoteOperaciones
	err := r.db.WithContext(ctx).
		Where("caja_id = ? AND estado = ?", cajaID, model.LoteCerrado).
		Order("closed_at DESC").
		First(&l).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *loteRepo) UpdateLoteTx(tx *gorm.DB, l *model.LoteOperaciones) error {
	return tx.Save(l).Error
}

func (r *loteRepo) CreateDetalle(ctx context.Context, d *model.DetalleLote) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *loteRepo) CreateDetalleTx(tx *gorm.DB, d *model.DetalleLote) error {
	return tx.Create(d).Error
}

func (r *loteRepo) ListDetalles(ctx context.Context, loteID uuid.UUID) ([]model.DetalleLote, error) {
	var dets []model.DetalleLote
	err := r.db.WithContext(ctx).
		Where("lote_id = ?", loteID).
		Order("created_at ASC").
		Find(&dets).Error
	return dets, err
}

func (r *loteRepo) SumPorCuenta(ctx context.Context, loteID uuid.UUID) ([]TotalCuenta, error) {
	return sumPorCuenta(r.db.WithContext(ctx), loteID)
}

func (r *loteRepo) SumPorCuentaTx(tx *gorm.DB, loteID uuid.UUID) ([]TotalCuenta, error) {
	return sumPorCuenta(tx, loteID)
}

func sumPorCuenta(db *gorm.DB, loteID uuid.UUID) ([]TotalCuenta, error) {
	var rows []TotalCuenta
	err := db.
		Model(&model.DetalleLote{}).
		Select(`detalle_lotes.cuenta_id AS cuenta_id,
			cuenta_tesorerias.nombre AS cuenta_nombre,
			cuenta_tesorerias.tipo AS tipo_cuenta,
			COALESCE(SUM(detalle_lotes.monto) FILTER (WHERE detalle_lotes.tipo = 'ingreso'), 0) AS ingresos,
			COALESCE(SUM(detalle_lotes.monto) FILTER (WHERE detalle_lotes.tipo = 'egreso'), 0) AS egresos`).
		Joins("JOIN cuenta_tesorerias ON cuenta_tesorerias.id = detalle_lotes.cuenta_id").
		Where("detalle_lotes.lote_id = ?", loteID).
		Group("detalle_lotes.cuenta_id, cuenta_tesorerias.nombre, cuenta_tesorerias.tipo").
		Order("cuenta_tesorerias.nombre ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *loteRepo) ListLotes(ctx context.Context, page, limit int) ([]model.LoteOperaciones, int64, error) {
	var lotes []model.LoteOperaciones
	var total int64
	q := r.db.WithContext(ctx).Model(&model.LoteOperaciones{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("opened_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&lotes).Error
	return lotes, total, err
}
