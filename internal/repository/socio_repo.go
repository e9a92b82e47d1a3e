package repository

import (
	"context"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SocioRepository is the member directory. Master-data writes happen in the
// back-office CRUD; the ledger core only reads.
type SocioRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Socio, error)
	ListActivos(ctx context.Context) ([]model.Socio, error)
	EsActivo(ctx context.Context, id uuid.UUID) (bool, error)
}

type socioRepo struct{ db *gorm.DB }

func NewSocioRepository(db *gorm.DB) SocioRepository { return &socioRepo{db: db} }

func (r *socioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Socio, error) {
	var s model.Socio
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *socioRepo) ListActivos(ctx context.Context) ([]model.Socio, error) {
	var socios []model.Socio
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&socios).Error
	return socios, err
}

func (r *socioRepo) EsActivo(ctx context.Context, id uuid.UUID) (bool, error) {
	s, err := r.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return s.Activo, nil
}
