package repository

import (
	"context"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CajaRepository lists the physical/virtual drawers a lote can be opened on.
type CajaRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error)
	ListActivas(ctx context.Context) ([]model.Caja, error)
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cajaRepo) ListActivas(ctx context.Context) ([]model.Caja, error) {
	var cajas []model.Caja
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&cajas).Error
	return cajas, err
}
