package service

import (
	"context"
	"testing"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/apierror"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/dto"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCargoFixture() (*fakeCargoRepo, *fakeSocioRepo, *fakeMovimientoRepo, CargoService) {
	cargoRepo := newFakeCargoRepo()
	socioRepo := newFakeSocioRepo()
	movRepo := newFakeMovimientoRepo()
	svc := NewCargoService(cargoRepo, socioRepo, movRepo, NewSocioLocks(nil))
	return cargoRepo, socioRepo, movRepo, svc
}

func TestGenerarCargoFijo(t *testing.T) {
	cargoRepo, socioRepo, movRepo, svc := newCargoFixture()

	cargoID := cargoRepo.addFijo("Cuota social marzo", decimal.NewFromInt(1500))
	socioA := socioRepo.add("Ferretería Mitre", true)
	socioB := socioRepo.add("Panadería La Espiga", true)

	venc := "2026-03-10"
	resp, err := svc.Generar(context.Background(), dto.GenerarCargoRequest{
		CargoID: cargoID.String(),
		Socios: []dto.SocioCargoRequest{
			{SocioID: socioA.String()},
			{SocioID: socioB.String()},
		},
		FechaEmision:     "2026-03-01",
		FechaVencimiento: &venc,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.CantidadCreada)
	assert.Equal(t, "3000", resp.MontoTotal.String())
	require.Len(t, movRepo.movs, 2)

	for _, m := range movRepo.movs {
		assert.Equal(t, model.MovimientoCargo, m.Tipo)
		assert.Equal(t, model.EstadoPendiente, m.Estado)
		assert.Equal(t, "1500", m.Monto.String())
		// Outstanding starts equal to the full charge amount.
		assert.Equal(t, "1500", m.Saldo.String())
		assert.Equal(t, "1500", m.SaldoAcumulado.String())
		require.NotNil(t, m.FechaVencimiento)
	}
}

func TestGenerarCargoEncadenaSaldoAcumulado(t *testing.T) {
	cargoRepo, socioRepo, movRepo, svc := newCargoFixture()

	cargoID := cargoRepo.addFijo("Cuota social", decimal.NewFromInt(1000))
	socio := socioRepo.add("Librería El Faro", true)

	for i := 0; i < 3; i++ {
		_, err := svc.Generar(context.Background(), dto.GenerarCargoRequest{
			CargoID:      cargoID.String(),
			Socios:       []dto.SocioCargoRequest{{SocioID: socio.String()}},
			FechaEmision: "2026-03-01",
		})
		require.NoError(t, err)
	}

	require.Len(t, movRepo.movs, 3)
	assert.Equal(t, "1000", movRepo.movs[0].SaldoAcumulado.String())
	assert.Equal(t, "2000", movRepo.movs[1].SaldoAcumulado.String())
	assert.Equal(t, "3000", movRepo.movs[2].SaldoAcumulado.String())
}

func TestGenerarCargoRetroactivoMantieneCadena(t *testing.T) {
	cargoRepo, socioRepo, movRepo, svc := newCargoFixture()

	cargoID := cargoRepo.addFijo("Cuota social", decimal.NewFromInt(1000))
	socio := socioRepo.add("Ferretería Italia", true)

	// Charge for March, then a payment against it.
	_, err := svc.Generar(context.Background(), dto.GenerarCargoRequest{
		CargoID:      cargoID.String(),
		Socios:       []dto.SocioCargoRequest{{SocioID: socio.String()}},
		FechaEmision: "2026-03-01",
	})
	require.NoError(t, err)

	prev, err := movRepo.UltimoSaldoAcumulado(nil, socio)
	require.NoError(t, err)
	pago := decimal.NewFromInt(400)
	require.NoError(t, movRepo.CreateTx(nil, &model.MovimientoSocio{
		SocioID:        socio,
		Fecha:          movRepo.movs[0].Fecha.AddDate(0, 0, 5),
		Tipo:           model.MovimientoPago,
		Concepto:       "Pago Cuota social",
		Monto:          pago.Neg(),
		Saldo:          decimal.Zero,
		SaldoAcumulado: prev.Sub(pago),
		Estado:         model.EstadoCobrada,
	}))

	// A back-dated charge created AFTER the payment: the chain extends in
	// creation order, the emission date is display metadata only.
	_, err = svc.Generar(context.Background(), dto.GenerarCargoRequest{
		CargoID:      cargoID.String(),
		Socios:       []dto.SocioCargoRequest{{SocioID: socio.String()}},
		FechaEmision: "2026-01-01",
	})
	require.NoError(t, err)

	// Prefix-sum invariant: every entry's running balance equals the sum of
	// all amounts up to and including it, in statement order.
	movs, err := movRepo.ListBySocio(context.Background(), socio)
	require.NoError(t, err)
	require.Len(t, movs, 3)
	running := decimal.Zero
	for _, m := range movs {
		running = running.Add(m.Monto)
		assert.True(t, running.Equal(m.SaldoAcumulado),
			"saldo acumulado %s no coincide con la suma %s", m.SaldoAcumulado, running)
	}
	assert.Equal(t, "1600", running.String())
}

func TestGenerarCargoTodosLosActivos(t *testing.T) {
	cargoRepo, socioRepo, movRepo, svc := newCargoFixture()

	cargoID := cargoRepo.addFijo("Cuota anual", decimal.NewFromInt(500))
	socioRepo.add("Socio activo 1", true)
	socioRepo.add("Socio activo 2", true)
	socioRepo.add("Socio dado de baja", false)

	// Empty member set targets every active member.
	resp, err := svc.Generar(context.Background(), dto.GenerarCargoRequest{
		CargoID:      cargoID.String(),
		FechaEmision: "2026-01-15",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.CantidadCreada)
	assert.Len(t, movRepo.movs, 2)
}

func TestGenerarCargoSinSociosActivos(t *testing.T) {
	cargoRepo, socioRepo, _, svc := newCargoFixture()

	cargoID := cargoRepo.addFijo("Cuota", decimal.NewFromInt(500))
	socioRepo.add("Baja", false)

	_, err := svc.Generar(context.Background(), dto.GenerarCargoRequest{
		CargoID:      cargoID.String(),
		FechaEmision: "2026-01-15",
	})

	require.Error(t, err)
	assert.Equal(t, "sin_socios", apierror.CodeOf(err))
}

func TestGenerarCargoVariableRequiereMonto(t *testing.T) {
	cargoRepo, socioRepo, movRepo, svc := newCargoFixture()

	cargoID := cargoRepo.addVariable("Derecho de inscripción")
	socio := socioRepo.add("Nuevo socio", true)

	_, err := svc.Generar(context.Background(), dto.GenerarCargoRequest{
		CargoID:      cargoID.String(),
		Socios:       []dto.SocioCargoRequest{{SocioID: socio.String()}},
		FechaEmision: "2026-02-01",
	})
	require.Error(t, err)
	assert.Equal(t, "monto_invalido", apierror.CodeOf(err))
	assert.Empty(t, movRepo.movs)

	// With an explicit per-member amount it goes through.
	monto := decimal.NewFromInt(2500)
	resp, err := svc.Generar(context.Background(), dto.GenerarCargoRequest{
		CargoID:      cargoID.String(),
		Socios:       []dto.SocioCargoRequest{{SocioID: socio.String(), Monto: &monto}},
		FechaEmision: "2026-02-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "2500", resp.MontoTotal.String())
}

func TestGenerarCargoTodoONada(t *testing.T) {
	cargoRepo, socioRepo, movRepo, svc := newCargoFixture()

	cargoID := cargoRepo.addFijo("Cuota", decimal.NewFromInt(800))
	socio := socioRepo.add("Existente", true)

	// One valid member plus one that does not exist: no entry may be created.
	_, err := svc.Generar(context.Background(), dto.GenerarCargoRequest{
		CargoID: cargoID.String(),
		Socios: []dto.SocioCargoRequest{
			{SocioID: socio.String()},
			{SocioID: uuid.NewString()},
		},
		FechaEmision: "2026-03-01",
	})

	require.Error(t, err)
	assert.Equal(t, "socio_inexistente", apierror.CodeOf(err))
	assert.Empty(t, movRepo.movs)
}

func TestGenerarCargoSocioDuplicadoEnLote(t *testing.T) {
	cargoRepo, socioRepo, movRepo, svc := newCargoFixture()

	cargoID := cargoRepo.addFijo("Cuota", decimal.NewFromInt(800))
	socio := socioRepo.add("Repetido", true)

	_, err := svc.Generar(context.Background(), dto.GenerarCargoRequest{
		CargoID: cargoID.String(),
		Socios: []dto.SocioCargoRequest{
			{SocioID: socio.String()},
			{SocioID: socio.String()},
		},
		FechaEmision: "2026-03-01",
	})

	require.Error(t, err)
	assert.Equal(t, "socio_duplicado", apierror.CodeOf(err))
	assert.Empty(t, movRepo.movs)
}

func TestGenerarCargoInexistente(t *testing.T) {
	_, socioRepo, _, svc := newCargoFixture()
	socio := socioRepo.add("Socio", true)

	_, err := svc.Generar(context.Background(), dto.GenerarCargoRequest{
		CargoID:      uuid.NewString(),
		Socios:       []dto.SocioCargoRequest{{SocioID: socio.String()}},
		FechaEmision: "2026-03-01",
	})

	require.Error(t, err)
	assert.Equal(t, "cargo_inexistente", apierror.CodeOf(err))
}
