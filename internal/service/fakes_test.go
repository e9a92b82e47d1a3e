package service

import (
	"context"
	"errors"
	"time"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/model"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory fakes. DB() returns nil so runTx executes the closure directly,
// letting the service logic run without a database.

// ── MovimientoRepository ─────────────────────────────────────────────────────

type fakeMovimientoRepo struct {
	movs []*model.MovimientoSocio
}

func newFakeMovimientoRepo() *fakeMovimientoRepo { return &fakeMovimientoRepo{} }

func (r *fakeMovimientoRepo) DB() *gorm.DB { return nil }

func (r *fakeMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoSocio) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	cp := *m
	r.movs = append(r.movs, &cp)
	return nil
}

func (r *fakeMovimientoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MovimientoSocio, error) {
	for _, m := range r.movs {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMovimientoRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.MovimientoSocio, error) {
	return r.FindByID(context.Background(), id)
}

func (r *fakeMovimientoRepo) UpdateTx(_ *gorm.DB, m *model.MovimientoSocio) error {
	for i, existing := range r.movs {
		if existing.ID == m.ID {
			cp := *m
			r.movs[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeMovimientoRepo) UltimoSaldoAcumulado(_ *gorm.DB, socioID uuid.UUID) (decimal.Decimal, error) {
	saldo := decimal.Zero
	for _, m := range r.movs {
		if m.SocioID == socioID {
			saldo = m.SaldoAcumulado
		}
	}
	return saldo, nil
}

func (r *fakeMovimientoRepo) ListBySocio(_ context.Context, socioID uuid.UUID) ([]model.MovimientoSocio, error) {
	var out []model.MovimientoSocio
	for _, m := range r.movs {
		if m.SocioID == socioID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMovimientoRepo) AplicarVencimientos(_ context.Context, asOf time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, m := range r.movs {
		if m.Tipo == model.MovimientoCargo &&
			m.Estado == model.EstadoPendiente &&
			m.FechaVencimiento != nil &&
			m.FechaVencimiento.Before(asOf) {
			m.Estado = model.EstadoVencida
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}

var _ repository.MovimientoRepository = (*fakeMovimientoRepo)(nil)

// ── SocioRepository ──────────────────────────────────────────────────────────

type fakeSocioRepo struct {
	socios map[uuid.UUID]*model.Socio
}

func newFakeSocioRepo() *fakeSocioRepo {
	return &fakeSocioRepo{socios: make(map[uuid.UUID]*model.Socio)}
}

func (r *fakeSocioRepo) add(nombre string, activo bool) uuid.UUID {
	id := uuid.New()
	email := nombre + "@socios.test"
	r.socios[id] = &model.Socio{ID: id, Nombre: nombre, Email: &email, Activo: activo}
	return id
}

func (r *fakeSocioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Socio, error) {
	s, ok := r.socios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeSocioRepo) ListActivos(_ context.Context) ([]model.Socio, error) {
	var out []model.Socio
	for _, s := range r.socios {
		if s.Activo {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSocioRepo) EsActivo(_ context.Context, id uuid.UUID) (bool, error) {
	s, ok := r.socios[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	return s.Activo, nil
}

var _ repository.SocioRepository = (*fakeSocioRepo)(nil)

// ── CargoRepository ──────────────────────────────────────────────────────────

type fakeCargoRepo struct {
	cargos map[uuid.UUID]*model.Cargo
}

func newFakeCargoRepo() *fakeCargoRepo {
	return &fakeCargoRepo{cargos: make(map[uuid.UUID]*model.Cargo)}
}

func (r *fakeCargoRepo) addFijo(nombre string, monto decimal.Decimal) uuid.UUID {
	id := uuid.New()
	r.cargos[id] = &model.Cargo{ID: id, Nombre: nombre, Tipo: model.CargoFijo, Monto: &monto, Periodicidad: "mensual", Activo: true}
	return id
}

func (r *fakeCargoRepo) addVariable(nombre string) uuid.UUID {
	id := uuid.New()
	r.cargos[id] = &model.Cargo{ID: id, Nombre: nombre, Tipo: model.CargoVariable, Periodicidad: "unica", Activo: true}
	return id
}

func (r *fakeCargoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cargo, error) {
	c, ok := r.cargos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeCargoRepo) ListActivos(_ context.Context) ([]model.Cargo, error) {
	var out []model.Cargo
	for _, c := range r.cargos {
		if c.Activo {
			out = append(out, *c)
		}
	}
	return out, nil
}

var _ repository.CargoRepository = (*fakeCargoRepo)(nil)

// ── CajaRepository / CuentaTesoreriaRepository ───────────────────────────────

type fakeCajaRepo struct {
	cajas map[uuid.UUID]*model.Caja
}

func newFakeCajaRepo() *fakeCajaRepo { return &fakeCajaRepo{cajas: make(map[uuid.UUID]*model.Caja)} }

func (r *fakeCajaRepo) add(nombre string, activo bool) uuid.UUID {
	id := uuid.New()
	r.cajas[id] = &model.Caja{ID: id, Nombre: nombre, Activo: activo}
	return id
}

func (r *fakeCajaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Caja, error) {
	c, ok := r.cajas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeCajaRepo) ListActivas(_ context.Context) ([]model.Caja, error) {
	var out []model.Caja
	for _, c := range r.cajas {
		if c.Activo {
			out = append(out, *c)
		}
	}
	return out, nil
}

var _ repository.CajaRepository = (*fakeCajaRepo)(nil)

type fakeCuentaRepo struct {
	cuentas map[uuid.UUID]*model.CuentaTesoreria
}

func newFakeCuentaRepo() *fakeCuentaRepo {
	return &fakeCuentaRepo{cuentas: make(map[uuid.UUID]*model.CuentaTesoreria)}
}

func (r *fakeCuentaRepo) add(nombre string, tipo model.TipoCuenta) uuid.UUID {
	id := uuid.New()
	r.cuentas[id] = &model.CuentaTesoreria{ID: id, Nombre: nombre, Tipo: tipo, Activo: true}
	return id
}

func (r *fakeCuentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CuentaTesoreria, error) {
	c, ok := r.cuentas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeCuentaRepo) ListActivas(_ context.Context) ([]model.CuentaTesoreria, error) {
	var out []model.CuentaTesoreria
	for _, c := range r.cuentas {
		if c.Activo {
			out = append(out, *c)
		}
	}
	return out, nil
}

var _ repository.CuentaTesoreriaRepository = (*fakeCuentaRepo)(nil)

// ── LoteRepository ───────────────────────────────────────────────────────────

type fakeLoteRepo struct {
	lotes    map[uuid.UUID]*model.LoteOperaciones
	detalles []model.DetalleLote
	cuentas  *fakeCuentaRepo

	// failNextCreate simulates losing the insert race: the pre-check saw no
	// open lote but the partial unique index rejects the insert.
	failNextCreate bool

	// afterFindAbierto runs after a successful FindLoteAbierto, letting a test
	// interleave a concurrent state change before the caller's transaction.
	afterFindAbierto func()
}

func newFakeLoteRepo(cuentas *fakeCuentaRepo) *fakeLoteRepo {
	return &fakeLoteRepo{lotes: make(map[uuid.UUID]*model.LoteOperaciones), cuentas: cuentas}
}

func (r *fakeLoteRepo) DB() *gorm.DB { return nil }

func (r *fakeLoteRepo) CreateLote(_ context.Context, l *model.LoteOperaciones) error {
	if r.failNextCreate {
		r.failNextCreate = false
		return gorm.ErrDuplicatedKey
	}
	for _, existing := range r.lotes {
		if existing.UsuarioID == l.UsuarioID && existing.CajaID == l.CajaID && existing.Estado == model.LoteAbierto {
			return gorm.ErrDuplicatedKey
		}
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	cp := *l
	r.lotes[l.ID] = &cp
	return nil
}

func (r *fakeLoteRepo) FindLoteByID(_ context.Context, id uuid.UUID) (*model.LoteOperaciones, error) {
	l, ok := r.lotes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLoteRepo) FindLoteByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.LoteOperaciones, error) {
	return r.FindLoteByID(context.Background(), id)
}

func (r *fakeLoteRepo) FindLoteAbierto(_ context.Context, usuarioID, cajaID uuid.UUID) (*model.LoteOperaciones, error) {
	for _, l := range r.lotes {
		if l.UsuarioID == usuarioID && l.CajaID == cajaID && l.Estado == model.LoteAbierto {
			cp := *l
			if r.afterFindAbierto != nil {
				r.afterFindAbierto()
			}
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeLoteRepo) FindLoteAbiertoPorUsuario(_ context.Context, usuarioID uuid.UUID) (*model.LoteOperaciones, error) {
	for _, l := range r.lotes {
		if l.UsuarioID == usuarioID && l.Estado == model.LoteAbierto {
			cp := *l
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeLoteRepo) UltimoLoteCerrado(_ context.Context, cajaID uuid.UUID) (*model.LoteOperaciones, error) {
	var latest *model.LoteOperaciones
	for _, l := range r.lotes {
		if l.CajaID == cajaID && l.Estado == model.LoteCerrado && l.ClosedAt != nil {
			if latest == nil || l.ClosedAt.After(*latest.ClosedAt) {
				latest = l
			}
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeLoteRepo) UpdateLoteTx(_ *gorm.DB, l *model.LoteOperaciones) error {
	if _, ok := r.lotes[l.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *l
	r.lotes[l.ID] = &cp
	return nil
}

func (r *fakeLoteRepo) CreateDetalle(_ context.Context, d *model.DetalleLote) error {
	return r.CreateDetalleTx(nil, d)
}

func (r *fakeLoteRepo) CreateDetalleTx(_ *gorm.DB, d *model.DetalleLote) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	r.detalles = append(r.detalles, *d)
	return nil
}

func (r *fakeLoteRepo) ListDetalles(_ context.Context, loteID uuid.UUID) ([]model.DetalleLote, error) {
	var out []model.DetalleLote
	for _, d := range r.detalles {
		if d.LoteID == loteID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeLoteRepo) SumPorCuenta(_ context.Context, loteID uuid.UUID) ([]repository.TotalCuenta, error) {
	byCuenta := make(map[uuid.UUID]*repository.TotalCuenta)
	var order []uuid.UUID
	for _, d := range r.detalles {
		if d.LoteID != loteID {
			continue
		}
		t, ok := byCuenta[d.CuentaID]
		if !ok {
			cta, exists := r.cuentas.cuentas[d.CuentaID]
			if !exists {
				return nil, errors.New("cuenta inexistente en detalle")
			}
			t = &repository.TotalCuenta{
				CuentaID:     d.CuentaID,
				CuentaNombre: cta.Nombre,
				TipoCuenta:   cta.Tipo,
				Ingresos:     decimal.Zero,
				Egresos:      decimal.Zero,
			}
			byCuenta[d.CuentaID] = t
			order = append(order, d.CuentaID)
		}
		switch d.Tipo {
		case model.DetalleIngreso:
			t.Ingresos = t.Ingresos.Add(d.Monto)
		case model.DetalleEgreso:
			t.Egresos = t.Egresos.Add(d.Monto)
		}
	}
	out := make([]repository.TotalCuenta, 0, len(order))
	for _, id := range order {
		out = append(out, *byCuenta[id])
	}
	return out, nil
}

func (r *fakeLoteRepo) SumPorCuentaTx(_ *gorm.DB, loteID uuid.UUID) ([]repository.TotalCuenta, error) {
	return r.SumPorCuenta(context.Background(), loteID)
}

func (r *fakeLoteRepo) ListLotes(_ context.Context, page, limit int) ([]model.LoteOperaciones, int64, error) {
	all := make([]model.LoteOperaciones, 0, len(r.lotes))
	for _, l := range r.lotes {
		all = append(all, *l)
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

var _ repository.LoteRepository = (*fakeLoteRepo)(nil)
