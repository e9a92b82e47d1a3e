package service

import (
	"context"
	"testing"
	"time"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCargoConVencimiento(t *testing.T, repo *fakeMovimientoRepo, socioID uuid.UUID, venc time.Time, estado model.EstadoMovimiento) uuid.UUID {
	t.Helper()
	m := &model.MovimientoSocio{
		SocioID:          socioID,
		Fecha:            venc.AddDate(0, -1, 0),
		Tipo:             model.MovimientoCargo,
		Concepto:         "Cuota social",
		Monto:            decimal.NewFromInt(1000),
		Saldo:            decimal.NewFromInt(1000),
		SaldoAcumulado:   decimal.NewFromInt(1000),
		FechaVencimiento: &venc,
		Estado:           estado,
	}
	require.NoError(t, repo.CreateTx(nil, m))
	return m.ID
}

func TestAplicarVencimientos(t *testing.T) {
	movRepo := newFakeMovimientoRepo()
	svc := NewVencimientoService(movRepo)

	socio := uuid.New()
	now := time.Now()
	vencida := seedCargoConVencimiento(t, movRepo, socio, now.AddDate(0, 0, -5), model.EstadoPendiente)
	vigente := seedCargoConVencimiento(t, movRepo, socio, now.AddDate(0, 0, 5), model.EstadoPendiente)

	resp, err := svc.Aplicar(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.CantidadActualizada)

	m1, _ := movRepo.FindByID(context.Background(), vencida)
	assert.Equal(t, model.EstadoVencida, m1.Estado)
	// The outstanding is untouched: overdue charges remain payable in full.
	assert.Equal(t, "1000", m1.Saldo.String())

	m2, _ := movRepo.FindByID(context.Background(), vigente)
	assert.Equal(t, model.EstadoPendiente, m2.Estado)
}

func TestAplicarVencimientosIdempotente(t *testing.T) {
	movRepo := newFakeMovimientoRepo()
	svc := NewVencimientoService(movRepo)

	socio := uuid.New()
	now := time.Now()
	seedCargoConVencimiento(t, movRepo, socio, now.AddDate(0, 0, -1), model.EstadoPendiente)

	primero, err := svc.Aplicar(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, primero.CantidadActualizada)

	segundo, err := svc.Aplicar(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, segundo.CantidadActualizada)
}

func TestAplicarVencimientosNoTocaCobradas(t *testing.T) {
	movRepo := newFakeMovimientoRepo()
	svc := NewVencimientoService(movRepo)

	socio := uuid.New()
	now := time.Now()
	cobrada := seedCargoConVencimiento(t, movRepo, socio, now.AddDate(0, 0, -10), model.EstadoCobrada)

	resp, err := svc.Aplicar(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.CantidadActualizada)

	m, _ := movRepo.FindByID(context.Background(), cobrada)
	assert.Equal(t, model.EstadoCobrada, m.Estado)
}

func TestAplicarVencimientosSinFecha(t *testing.T) {
	movRepo := newFakeMovimientoRepo()
	svc := NewVencimientoService(movRepo)

	// Charges without a due date never expire.
	m := &model.MovimientoSocio{
		SocioID:        uuid.New(),
		Fecha:          time.Now().AddDate(-1, 0, 0),
		Tipo:           model.MovimientoCargo,
		Concepto:       "Cargo sin vencimiento",
		Monto:          decimal.NewFromInt(500),
		Saldo:          decimal.NewFromInt(500),
		SaldoAcumulado: decimal.NewFromInt(500),
		Estado:         model.EstadoPendiente,
	}
	require.NoError(t, movRepo.CreateTx(nil, m))

	resp, err := svc.Aplicar(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, resp.CantidadActualizada)
}
