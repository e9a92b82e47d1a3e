package repository

import (
	"context"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CargoRepository is the charge catalog, consumed read-only by the generator.
type CargoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cargo, error)
	ListActivos(ctx context.Context) ([]model.Cargo, error)
}

type cargoRepo struct{ db *gorm.DB }

func NewCargoRepository(db *gorm.DB) CargoRepository { return &cargoRepo{db: db} }

func (r *cargoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cargo, error) {
	var c model.Cargo
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cargoRepo) ListActivos(ctx context.Context) ([]model.Cargo, error) {
	var cargos []model.Cargo
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&cargos).Error
	return cargos, err
}
