package repository

import (
	"context"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CuentaTesoreriaRepository is the treasury account directory. The lote close
// consults it to decide which postings count toward the physical cash figure.
type CuentaTesoreriaRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.CuentaTesoreria, error)
	ListActivas(ctx context.Context) ([]model.CuentaTesoreria, error)
}

type cuentaRepo struct{ db *gorm.DB }

func NewCuentaTesoreriaRepository(db *gorm.DB) CuentaTesoreriaRepository {
	return &cuentaRepo{db: db}
}

func (r *cuentaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CuentaTesoreria, error) {
	var c model.CuentaTesoreria
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cuentaRepo) ListActivas(ctx context.Context) ([]model.CuentaTesoreria, error) {
	var cuentas []model.CuentaTesoreria
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&cuentas).Error
	return cuentas, err
}
