package orders_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/application/orders"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeOrderRepo struct {
	rows map[string]*entity.ServiceOrder
	ids  []string // preserva orden de inserción
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{rows: map[string]*entity.ServiceOrder{}}
}

func (f *fakeOrderRepo) Create(o *entity.ServiceOrder) error {
	cp := *o
	f.rows[o.ID] = &cp
	f.ids = append(f.ids, o.ID)
	return nil
}

func (f *fakeOrderRepo) GetByID(id string) (*entity.ServiceOrder, error) {
	o, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) Update(o *entity.ServiceOrder) error {
	if _, ok := f.rows[o.ID]; !ok {
		return fmt.Errorf("update orden inexistente %s", o.ID)
	}
	cp := *o
	f.rows[o.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) UpdateStatus(id, status string, updatedAt time.Time) (bool, error) {
	o, ok := f.rows[id]
	if !ok {
		return false, nil
	}
	o.Status = status
	o.UpdatedAt = updatedAt
	return true, nil
}

func (f *fakeOrderRepo) Delete(id string) (bool, error) {
	if _, ok := f.rows[id]; !ok {
		return false, nil
	}
	delete(f.rows, id)
	return true, nil
}

func (f *fakeOrderRepo) List(filter repository.OrderFilter) ([]*entity.ServiceOrder, error) {
	var out []*entity.ServiceOrder
	for _, id := range f.ids {
		o, ok := f.rows[id]
		if !ok {
			continue
		}
		if filter.From != nil && (o.PlannedDate == nil || o.PlannedDate.Before(*filter.From)) {
			continue
		}
		if filter.To != nil && (o.PlannedDate == nil || o.PlannedDate.After(*filter.To)) {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, s := range filter.Statuses {
				if o.Status == s {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

type fakeAssignmentRepo struct {
	rows []entity.Assignment
}

func (f *fakeAssignmentRepo) Create(a *entity.Assignment) error {
	f.rows = append(f.rows, *a)
	return nil
}

func (f *fakeAssignmentRepo) ListByOrder(orderID string) ([]entity.Assignment, error) {
	var out []entity.Assignment
	for _, a := range f.rows {
		if a.ServiceOrderID == orderID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) DeleteByOrder(orderID string) error {
	kept := f.rows[:0]
	for _, a := range f.rows {
		if a.ServiceOrderID != orderID {
			kept = append(kept, a)
		}
	}
	f.rows = kept
	return nil
}

func (f *fakeAssignmentRepo) OrderIDsByEmployee(employeeID string) (map[string]struct{}, error) {
	out := map[string]struct{}{}
	for _, a := range f.rows {
		if a.EmployeeID == employeeID {
			out[a.ServiceOrderID] = struct{}{}
		}
	}
	return out, nil
}

type fakeTimeEntryRepo struct {
	rows map[string]*entity.TimeEntry
}

func newFakeTimeEntryRepo() *fakeTimeEntryRepo {
	return &fakeTimeEntryRepo{rows: map[string]*entity.TimeEntry{}}
}

func (f *fakeTimeEntryRepo) Create(e *entity.TimeEntry) error {
	cp := *e
	f.rows[e.ID] = &cp
	return nil
}

func (f *fakeTimeEntryRepo) GetByID(id string) (*entity.TimeEntry, error) {
	e, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (f *fakeTimeEntryRepo) Update(e *entity.TimeEntry) error {
	cp := *e
	f.rows[e.ID] = &cp
	return nil
}

func (f *fakeTimeEntryRepo) Delete(id string) (bool, error) {
	if _, ok := f.rows[id]; !ok {
		return false, nil
	}
	delete(f.rows, id)
	return true, nil
}

func (f *fakeTimeEntryRepo) ListByOrder(orderID string) ([]entity.TimeEntry, error) {
	var out []entity.TimeEntry
	for _, e := range f.rows {
		if e.ServiceOrderID == orderID {
			out = append(out, *e)
		}
	}
	// orden por inicio ascendente, como el repositorio real
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].StartTime.Before(out[i].StartTime) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

type fakeMaterialUsageRepo struct {
	rows map[string]*entity.MaterialUsage
}

func newFakeMaterialUsageRepo() *fakeMaterialUsageRepo {
	return &fakeMaterialUsageRepo{rows: map[string]*entity.MaterialUsage{}}
}

func (f *fakeMaterialUsageRepo) Create(m *entity.MaterialUsage) error {
	cp := *m
	f.rows[m.ID] = &cp
	return nil
}

func (f *fakeMaterialUsageRepo) GetByID(id string) (*entity.MaterialUsage, error) {
	m, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMaterialUsageRepo) Update(m *entity.MaterialUsage) error {
	cp := *m
	f.rows[m.ID] = &cp
	return nil
}

func (f *fakeMaterialUsageRepo) Delete(id string) (bool, error) {
	if _, ok := f.rows[id]; !ok {
		return false, nil
	}
	delete(f.rows, id)
	return true, nil
}

func (f *fakeMaterialUsageRepo) ListByOrder(orderID string) ([]entity.MaterialUsage, error) {
	var out []entity.MaterialUsage
	for _, m := range f.rows {
		if m.ServiceOrderID == orderID {
			out = append(out, *m)
		}
	}
	return out, nil
}

type fakePhotoRepo struct {
	rows map[string]*entity.Photo
}

func newFakePhotoRepo() *fakePhotoRepo {
	return &fakePhotoRepo{rows: map[string]*entity.Photo{}}
}

func (f *fakePhotoRepo) Create(p *entity.Photo) error {
	cp := *p
	f.rows[p.ID] = &cp
	return nil
}

func (f *fakePhotoRepo) GetByID(id string) (*entity.Photo, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePhotoRepo) Delete(id string) (bool, error) {
	if _, ok := f.rows[id]; !ok {
		return false, nil
	}
	delete(f.rows, id)
	return true, nil
}

func (f *fakePhotoRepo) ListByOrder(orderID string) ([]entity.Photo, error) {
	var out []entity.Photo
	for _, p := range f.rows {
		if p.ServiceOrderID == orderID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeSignatureRepo struct {
	rows map[string]*entity.Signature // clave: service_order_id
}

func newFakeSignatureRepo() *fakeSignatureRepo {
	return &fakeSignatureRepo{rows: map[string]*entity.Signature{}}
}

func (f *fakeSignatureRepo) Upsert(s *entity.Signature) error {
	cp := *s
	f.rows[s.ServiceOrderID] = &cp
	return nil
}

func (f *fakeSignatureRepo) GetByOrder(orderID string) (*entity.Signature, error) {
	s, ok := f.rows[orderID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSignatureRepo) DeleteByOrder(orderID string) error {
	delete(f.rows, orderID)
	return nil
}

type fakeAccountRepo struct{ rows map[string]*entity.Account }

func (f *fakeAccountRepo) GetByID(id string) (*entity.Account, error) { return f.rows[id], nil }

type fakePropertyRepo struct{ rows map[string]*entity.Property }

func (f *fakePropertyRepo) GetByID(id string) (*entity.Property, error) { return f.rows[id], nil }

type fakeContactRepo struct{ rows map[string]*entity.Contact }

func (f *fakeContactRepo) GetByID(id string) (*entity.Contact, error) { return f.rows[id], nil }

type fakeEmployeeRepo struct{ rows map[string]*entity.Employee }

func (f *fakeEmployeeRepo) GetByID(id string) (*entity.Employee, error) { return f.rows[id], nil }

type fakeCatalogRepo struct{ rows map[string]*entity.Material }

func (f *fakeCatalogRepo) GetByID(id string) (*entity.Material, error) { return f.rows[id], nil }

// fakeTxRunner ejecuta la función directamente contra los mismos fakes;
// no hay rollback real, los tests no simulan fallos a mitad de transacción.
type fakeTxRunner struct {
	repos orders.TxRepos
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(r orders.TxRepos) error) error {
	return fn(f.repos)
}

// ──────────────────────────────────────────────────────────────────────────────
// Arnés de pruebas
// ──────────────────────────────────────────────────────────────────────────────

type testEnv struct {
	uc          *orders.UseCase
	orders      *fakeOrderRepo
	assignments *fakeAssignmentRepo
	entries     *fakeTimeEntryRepo
	materials   *fakeMaterialUsageRepo
	photos      *fakePhotoRepo
	signatures  *fakeSignatureRepo
	properties  *fakePropertyRepo
}

// Coordenadas del predio de pruebas (sabana de Bogotá).
const (
	propLat = 4.6486
	propLng = -74.0628
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	lat, lng := propLat, propLng
	env := &testEnv{
		orders:      newFakeOrderRepo(),
		assignments: &fakeAssignmentRepo{},
		entries:     newFakeTimeEntryRepo(),
		materials:   newFakeMaterialUsageRepo(),
		photos:      newFakePhotoRepo(),
		signatures:  newFakeSignatureRepo(),
	}
	accounts := &fakeAccountRepo{rows: map[string]*entity.Account{
		"acc-1": {ID: "acc-1", Name: "Finca La Esperanza"},
		"acc-2": {ID: "acc-2", Name: "Hacienda El Roble"},
	}}
	env.properties = &fakePropertyRepo{rows: map[string]*entity.Property{
		"prop-1":       {ID: "prop-1", AccountID: "acc-1", Name: "Lote norte", Lat: &lat, Lng: &lng},
		"prop-sin-gps": {ID: "prop-sin-gps", AccountID: "acc-1", Name: "Lote sin coordenadas"},
	}}
	contacts := &fakeContactRepo{rows: map[string]*entity.Contact{
		"con-1": {ID: "con-1", AccountID: "acc-1", Name: "Marta Ruiz"},
	}}
	employees := &fakeEmployeeRepo{rows: map[string]*entity.Employee{
		"emp-1": {ID: "emp-1", Name: "Carlos Pérez", Active: true},
		"emp-2": {ID: "emp-2", Name: "Luisa Gómez", Active: true},
	}}
	catalog := &fakeCatalogRepo{rows: map[string]*entity.Material{
		"mat-1": {ID: "mat-1", SKU: "HB-20", Name: "Herbicida concentrado", Unit: "l", UnitPrice: decimal.RequireFromString("10.50")},
	}}
	txRunner := &fakeTxRunner{repos: orders.TxRepos{
		Orders:      env.orders,
		Assignments: env.assignments,
		TimeEntries: env.entries,
		Materials:   env.materials,
		Photos:      env.photos,
		Signatures:  env.signatures,
	}}
	env.uc = orders.NewUseCase(
		txRunner,
		env.orders, env.assignments, env.entries, env.materials, env.photos, env.signatures,
		accounts, env.properties, contacts, employees, catalog,
		orders.Config{},
	)
	return env
}

func strPtr(s string) *string       { return &s }
func intPtr(n int) *int             { return &n }
func boolPtr(b bool) *bool          { return &b }
func timePtr(t time.Time) *time.Time { return &t }

func createBasicOrder(t *testing.T, env *testEnv, req dto.CreateOrderRequest) *dto.OrderResponse {
	t.Helper()
	if req.Title == "" {
		req.Title = "Fumigación lote norte"
	}
	if req.AccountID == "" {
		req.AccountID = "acc-1"
	}
	resp, err := env.uc.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_AplicaDefaults(t *testing.T) {
	env := newTestEnv(t)
	resp := createBasicOrder(t, env, dto.CreateOrderRequest{})

	assert.Equal(t, entity.OrderStatusPlanned, resp.Status, "status por defecto debe ser planned")
	assert.Equal(t, entity.OrderPriorityNormal, resp.Priority, "priority por defecto debe ser normal")
	assert.Equal(t, "acc-1", resp.InvoiceAccountID, "cuenta de facturación por defecto = cuenta")
	assert.NotEmpty(t, resp.ID)
	assert.Empty(t, resp.Assignments)
	assert.Zero(t, resp.TotalTrackedMinutes)
}

func TestCreate_ValidaEntrada(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.Create(context.Background(), dto.CreateOrderRequest{AccountID: "acc-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "title es obligatorio")

	_, err = env.uc.Create(context.Background(), dto.CreateOrderRequest{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "account_id es obligatorio")

	_, err = env.uc.Create(context.Background(), dto.CreateOrderRequest{Title: "x", AccountID: "acc-1", Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "status desconocido debe rechazarse")

	_, err = env.uc.Create(context.Background(), dto.CreateOrderRequest{Title: "x", AccountID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound, "la cuenta debe existir")

	_, err = env.uc.Create(context.Background(), dto.CreateOrderRequest{Title: "x", AccountID: "acc-1", PropertyID: strPtr("no-existe")})
	assert.ErrorIs(t, err, domain.ErrNotFound, "el predio debe existir")
}

func TestCreate_PrimeraAsignacionForzadaPrimaria(t *testing.T) {
	env := newTestEnv(t)
	resp := createBasicOrder(t, env, dto.CreateOrderRequest{
		Assignments: []dto.AssignmentPayload{
			{EmployeeID: "emp-1"},
			{EmployeeID: "emp-2"},
		},
	})

	require.Len(t, resp.Assignments, 2)
	assert.True(t, resp.Assignments[0].IsPrimary, "sin marca explícita, la primera asignación se fuerza primaria")
	assert.False(t, resp.Assignments[1].IsPrimary)
}

func TestCreate_AsignacionPrimariaExplicitaNoSeFuerza(t *testing.T) {
	env := newTestEnv(t)
	resp := createBasicOrder(t, env, dto.CreateOrderRequest{
		Assignments: []dto.AssignmentPayload{
			{EmployeeID: "emp-1"},
			{EmployeeID: "emp-2", IsPrimary: boolPtr(true)},
		},
	})

	require.Len(t, resp.Assignments, 2)
	primaries := 0
	for _, a := range resp.Assignments {
		if a.IsPrimary {
			primaries++
			assert.Equal(t, "emp-2", a.EmployeeID, "debe respetarse la marca explícita")
		}
	}
	assert.Equal(t, 1, primaries)
}

func TestCreate_AsignacionHeredaVentanaPlanificada(t *testing.T) {
	env := newTestEnv(t)
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	resp := createBasicOrder(t, env, dto.CreateOrderRequest{
		PlannedDate:  strPtr("2026-03-10"),
		PlannedStart: timePtr(start),
		PlannedEnd:   timePtr(end),
		Assignments: []dto.AssignmentPayload{
			{EmployeeID: "emp-1"}, // hereda todo
			{EmployeeID: "emp-2", ScheduledStart: timePtr(start.Add(2 * time.Hour))},
		},
	})

	require.Len(t, resp.Assignments, 2)
	a := resp.Assignments[0]
	require.NotNil(t, a.ScheduledDate)
	assert.Equal(t, "2026-03-10", *a.ScheduledDate)
	require.NotNil(t, a.ScheduledStart)
	assert.True(t, a.ScheduledStart.Equal(start))
	require.NotNil(t, a.ScheduledEnd)
	assert.True(t, a.ScheduledEnd.Equal(end))

	b := resp.Assignments[1]
	require.NotNil(t, b.ScheduledStart)
	assert.True(t, b.ScheduledStart.Equal(start.Add(2*time.Hour)), "ventana individual no se pisa con la heredada")
}

func TestCreate_RegistrosDeTiempoDerivanDuracionYSuman(t *testing.T) {
	env := newTestEnv(t)
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	resp := createBasicOrder(t, env, dto.CreateOrderRequest{
		TimeEntries: []dto.TimeEntryPayload{
			{EmployeeID: "emp-1", StartTime: timePtr(start), EndTime: timePtr(start.Add(90 * time.Minute))},
			{EmployeeID: "emp-2", StartTime: timePtr(start), DurationMinutes: intPtr(45)},
		},
	})

	require.Len(t, resp.TimeEntries, 2)
	assert.Equal(t, 135, resp.TotalTrackedMinutes, "90 derivados + 45 explícitos")
}

func TestCreate_MaterialCompletaDesdeElMaestro(t *testing.T) {
	env := newTestEnv(t)
	resp := createBasicOrder(t, env, dto.CreateOrderRequest{
		Materials: []dto.MaterialUsagePayload{
			{MaterialID: strPtr("mat-1"), Quantity: decimal.RequireFromString("2.5")},
		},
	})

	require.Len(t, resp.Materials, 1)
	m := resp.Materials[0]
	assert.Equal(t, "Herbicida concentrado", m.Name, "nombre completado desde el maestro")
	assert.Equal(t, "l", m.Unit)
	require.NotNil(t, m.UnitPrice)
	assert.True(t, m.UnitPrice.Equal(decimal.RequireFromString("10.50")))
}

func TestCreate_MaterialConCantidadInvalida(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.uc.Create(context.Background(), dto.CreateOrderRequest{
		Title: "x", AccountID: "acc-1",
		Materials: []dto.MaterialUsagePayload{
			{Name: "Cal", Unit: "kg", Quantity: decimal.Zero},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad debe ser > 0")
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / UpdateStatus / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_OrdenInexistenteDevuelveNilNil(t *testing.T) {
	env := newTestEnv(t)
	resp, err := env.uc.Update(context.Background(), "no-existe", dto.UpdateOrderRequest{Title: "x", AccountID: "acc-1"})
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestUpdate_ReemplazaAsignacionesCompletas(t *testing.T) {
	env := newTestEnv(t)
	created := createBasicOrder(t, env, dto.CreateOrderRequest{
		Assignments: []dto.AssignmentPayload{{EmployeeID: "emp-1"}, {EmployeeID: "emp-2"}},
	})

	newSet := []dto.AssignmentPayload{{EmployeeID: "emp-2"}}
	resp, err := env.uc.Update(context.Background(), created.ID, dto.UpdateOrderRequest{
		Title:       created.Title,
		AccountID:   created.AccountID,
		Assignments: &newSet,
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	require.Len(t, resp.Assignments, 1, "reemplazo total del conjunto, no merge")
	assert.Equal(t, "emp-2", resp.Assignments[0].EmployeeID)
	assert.True(t, resp.Assignments[0].IsPrimary, "única asignación del nuevo conjunto queda primaria")
}

func TestUpdate_AsignacionesAusentesSeConservan(t *testing.T) {
	env := newTestEnv(t)
	created := createBasicOrder(t, env, dto.CreateOrderRequest{
		Assignments: []dto.AssignmentPayload{{EmployeeID: "emp-1"}},
	})

	resp, err := env.uc.Update(context.Background(), created.ID, dto.UpdateOrderRequest{
		Title:     "Título nuevo",
		AccountID: created.AccountID,
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, "Título nuevo", resp.Title)
	assert.Len(t, resp.Assignments, 1, "clave assignments ausente no toca el conjunto")
}

func TestUpdate_FirmaTriEstado(t *testing.T) {
	env := newTestEnv(t)
	created := createBasicOrder(t, env, dto.CreateOrderRequest{
		Signature: &dto.SignaturePayload{SignerName: "Marta Ruiz", Data: "data:image/png;base64,AAA"},
	})
	base := dto.UpdateOrderRequest{Title: created.Title, AccountID: created.AccountID}

	// Clave ausente ⇒ la firma se conserva.
	resp, err := env.uc.Update(context.Background(), created.ID, base)
	require.NoError(t, err)
	require.NotNil(t, resp.Signature, "firma debe conservarse si la clave no viene")

	// Objeto ⇒ reemplazo.
	withNew := base
	withNew.Signature = dto.OptionalSignature{Present: true, Value: &dto.SignaturePayload{SignerName: "Otro Firmante", Data: "data:image/png;base64,BBB"}}
	resp, err = env.uc.Update(context.Background(), created.ID, withNew)
	require.NoError(t, err)
	require.NotNil(t, resp.Signature)
	assert.Equal(t, "Otro Firmante", resp.Signature.SignerName)

	// null ⇒ borrado.
	withNull := base
	withNull.Signature = dto.OptionalSignature{Present: true, Value: nil}
	resp, err = env.uc.Update(context.Background(), created.ID, withNull)
	require.NoError(t, err)
	assert.Nil(t, resp.Signature, "signature: null debe borrar la firma")
}

func TestUpdateStatus_Valida(t *testing.T) {
	env := newTestEnv(t)
	created := createBasicOrder(t, env, dto.CreateOrderRequest{})

	_, err := env.uc.UpdateStatus(created.ID, "archived")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	resp, err := env.uc.UpdateStatus(created.ID, entity.OrderStatusInProgress)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, entity.OrderStatusInProgress, resp.Status)

	// Permisivo a propósito: completed → planned no se bloquea.
	resp, err = env.uc.UpdateStatus(created.ID, entity.OrderStatusPlanned)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPlanned, resp.Status)

	resp, err = env.uc.UpdateStatus("no-existe", entity.OrderStatusPlanned)
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	created := createBasicOrder(t, env, dto.CreateOrderRequest{})

	found, err := env.uc.Delete(created.ID)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = env.uc.Delete(created.ID)
	require.NoError(t, err)
	assert.False(t, found, "segunda eliminación debe reportar inexistente")
}

// ──────────────────────────────────────────────────────────────────────────────
// List
// ──────────────────────────────────────────────────────────────────────────────

func TestList_Filtros(t *testing.T) {
	env := newTestEnv(t)
	createBasicOrder(t, env, dto.CreateOrderRequest{Title: "A", PlannedDate: strPtr("2026-03-01")})
	b := createBasicOrder(t, env, dto.CreateOrderRequest{Title: "B", PlannedDate: strPtr("2026-03-15"),
		Assignments: []dto.AssignmentPayload{{EmployeeID: "emp-2"}}})
	c := createBasicOrder(t, env, dto.CreateOrderRequest{Title: "C", PlannedDate: strPtr("2026-03-20")})
	_, err := env.uc.UpdateStatus(c.ID, entity.OrderStatusCompleted)
	require.NoError(t, err)

	// Rango de fechas inclusivo.
	out, err := env.uc.List(dto.ListOrdersQuery{From: "2026-03-10", To: "2026-03-15"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "B", out.Items[0].Title)

	// onlyActive excluye completadas/canceladas.
	out, err = env.uc.List(dto.ListOrdersQuery{OnlyActive: true})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	for _, o := range out.Items {
		assert.NotEqual(t, entity.OrderStatusCompleted, o.Status)
	}

	// employeeId filtra por asignación.
	out, err = env.uc.List(dto.ListOrdersQuery{EmployeeID: "emp-2"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, b.ID, out.Items[0].ID)

	// Lista separada por comas en status.
	out, err = env.uc.List(dto.ListOrdersQuery{Status: "completed, cancelled"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, c.ID, out.Items[0].ID)

	// Status desconocido rechazado.
	_, err = env.uc.List(dto.ListOrdersQuery{Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Fecha malformada rechazada.
	_, err = env.uc.List(dto.ListOrdersQuery{From: "10/03/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Hidratación
// ──────────────────────────────────────────────────────────────────────────────

func TestGet_DerivaDuracionDeFilasAntiguas(t *testing.T) {
	env := newTestEnv(t)
	created := createBasicOrder(t, env, dto.CreateOrderRequest{})

	// Fila antigua sin duración guardada: se deriva en lectura.
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	require.NoError(t, env.entries.Create(&entity.TimeEntry{
		ID: "te-legacy", ServiceOrderID: created.ID, EmployeeID: "emp-1",
		StartTime: start, EndTime: &end, Source: entity.TimeSourceManual,
	}))

	resp, err := env.uc.Get(created.ID)
	require.NoError(t, err)
	require.Len(t, resp.TimeEntries, 1)
	require.NotNil(t, resp.TimeEntries[0].DurationMinutes)
	assert.Equal(t, 120, *resp.TimeEntries[0].DurationMinutes)
	assert.Equal(t, 120, resp.TotalTrackedMinutes)

	// La derivación en lectura no muta el almacenamiento.
	stored, err := env.entries.GetByID("te-legacy")
	require.NoError(t, err)
	assert.Nil(t, stored.DurationMinutes)
}

func TestGet_OrdenInexistente(t *testing.T) {
	env := newTestEnv(t)
	resp, err := env.uc.Get("no-existe")
	require.NoError(t, err)
	assert.Nil(t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Mutadores de campo
// ──────────────────────────────────────────────────────────────────────────────

func TestAddTimeEntry(t *testing.T) {
	env := newTestEnv(t)
	created := createBasicOrder(t, env, dto.CreateOrderRequest{})
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	resp, err := env.uc.AddTimeEntry(created.ID, dto.TimeEntryPayload{
		EmployeeID: "emp-1", StartTime: timePtr(start), EndTime: timePtr(start.Add(30 * time.Minute)),
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.Len(t, resp.TimeEntries, 1, "debe responder el agregado completo, no la fila suelta")
	assert.Equal(t, 30, resp.TotalTrackedMinutes)

	// Orden inexistente ⇒ nil, nil.
	resp, err = env.uc.AddTimeEntry("no-existe", dto.TimeEntryPayload{EmployeeID: "emp-1", StartTime: timePtr(start)})
	require.NoError(t, err)
	assert.Nil(t, resp)

	// Sin empleado o sin inicio ⇒ inválido.
	_, err = env.uc.AddTimeEntry(created.ID, dto.TimeEntryPayload{StartTime: timePtr(start)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateTimeEntry_RecalculaDuracion(t *testing.T) {
	env := newTestEnv(t)
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	created := createBasicOrder(t, env, dto.CreateOrderRequest{
		TimeEntries: []dto.TimeEntryPayload{{EmployeeID: "emp-1", StartTime: timePtr(start)}},
	})
	entryID := created.TimeEntries[0].ID
	assert.Nil(t, created.TimeEntries[0].DurationMinutes, "registro abierto no tiene duración")

	// Al cerrar la ventana sin duración explícita, se recalcula.
	resp, err := env.uc.UpdateTimeEntry(entryID, dto.UpdateTimeEntryRequest{
		EndTime: timePtr(start.Add(75 * time.Minute)),
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.NotNil(t, resp.TimeEntries[0].DurationMinutes)
	assert.Equal(t, 75, *resp.TimeEntries[0].DurationMinutes)

	// Duración explícita gana sobre la derivada.
	resp, err = env.uc.UpdateTimeEntry(entryID, dto.UpdateTimeEntryRequest{
		DurationMinutes: intPtr(60),
	})
	require.NoError(t, err)
	assert.Equal(t, 60, *resp.TimeEntries[0].DurationMinutes)

	// Duración negativa rechazada.
	_, err = env.uc.UpdateTimeEntry(entryID, dto.UpdateTimeEntryRequest{DurationMinutes: intPtr(-5)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Registro inexistente ⇒ nil, nil.
	resp, err = env.uc.UpdateTimeEntry("no-existe", dto.UpdateTimeEntryRequest{})
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestDeleteTimeEntry(t *testing.T) {
	env := newTestEnv(t)
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	created := createBasicOrder(t, env, dto.CreateOrderRequest{
		TimeEntries: []dto.TimeEntryPayload{{EmployeeID: "emp-1", StartTime: timePtr(start), DurationMinutes: intPtr(20)}},
	})

	resp, err := env.uc.DeleteTimeEntry(created.TimeEntries[0].ID)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Empty(t, resp.TimeEntries)
	assert.Zero(t, resp.TotalTrackedMinutes)
}

func TestAddPhoto(t *testing.T) {
	env := newTestEnv(t)
	created := createBasicOrder(t, env, dto.CreateOrderRequest{})

	_, err := env.uc.AddPhoto(created.ID, dto.PhotoPayload{Caption: "sin datos"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "data es obligatorio")

	resp, err := env.uc.AddPhoto(created.ID, dto.PhotoPayload{Data: "data:image/jpeg;base64,XYZ", Caption: "antes del trabajo"})
	require.NoError(t, err)
	require.Len(t, resp.Photos, 1)

	resp, err = env.uc.DeletePhoto(resp.Photos[0].ID)
	require.NoError(t, err)
	assert.Empty(t, resp.Photos)
}

func TestSetSignature_UpsertDejaUnaSola(t *testing.T) {
	env := newTestEnv(t)
	created := createBasicOrder(t, env, dto.CreateOrderRequest{})

	resp, err := env.uc.SetSignature(created.ID, dto.SignaturePayload{SignerName: "Marta Ruiz", Data: "firma-1"})
	require.NoError(t, err)
	require.NotNil(t, resp.Signature)

	resp, err = env.uc.SetSignature(created.ID, dto.SignaturePayload{SignerName: "Marta Ruiz", Data: "firma-2"})
	require.NoError(t, err)
	require.NotNil(t, resp.Signature)
	assert.Equal(t, "firma-2", resp.Signature.Data, "la segunda firma reemplaza a la primera")

	resp, err = env.uc.ClearSignature(created.ID)
	require.NoError(t, err)
	assert.Nil(t, resp.Signature)

	// Borrar sin firma es idempotente.
	resp, err = env.uc.ClearSignature(created.ID)
	require.NoError(t, err)
	require.NotNil(t, resp)
}

func TestUpdateMaterialUsage(t *testing.T) {
	env := newTestEnv(t)
	created := createBasicOrder(t, env, dto.CreateOrderRequest{
		Materials: []dto.MaterialUsagePayload{{Name: "Cal", Unit: "kg", Quantity: decimal.RequireFromString("5")}},
	})
	lineID := created.Materials[0].ID

	qty := decimal.RequireFromString("7.5")
	resp, err := env.uc.UpdateMaterialUsage(lineID, dto.UpdateMaterialUsageRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.True(t, resp.Materials[0].Quantity.Equal(qty))

	zero := decimal.Zero
	_, err = env.uc.UpdateMaterialUsage(lineID, dto.UpdateMaterialUsageRequest{Quantity: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	resp, err = env.uc.DeleteMaterialUsage(lineID)
	require.NoError(t, err)
	assert.Empty(t, resp.Materials)
}

// ──────────────────────────────────────────────────────────────────────────────
// Check-in geocercado
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckIn_DentroDelRadioAbreRegistroGPS(t *testing.T) {
	env := newTestEnv(t)
	created := createBasicOrder(t, env, dto.CreateOrderRequest{PropertyID: strPtr("prop-1")})

	// ~11 m al norte del predio: dentro de los 50 m.
	out, err := env.uc.CheckIn(created.ID, dto.CheckInRequest{
		EmployeeID: "emp-1",
		Latitude:   propLat + 0.0001,
		Longitude:  propLng,
	})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.True(t, out.Granted)
	assert.InDelta(t, 11.1, out.DistanceMeters, 0.5)

	require.NotNil(t, out.Order)
	require.Len(t, out.Order.TimeEntries, 1)
	entry := out.Order.TimeEntries[0]
	assert.Equal(t, entity.TimeSourceGPS, entry.Source)
	assert.Nil(t, entry.EndTime, "el registro queda abierto (cronómetro corriendo)")
	assert.Nil(t, entry.DurationMinutes)
	require.NotNil(t, entry.StartLat)
	assert.InDelta(t, propLat+0.0001, *entry.StartLat, 1e-9)
}

func TestCheckIn_FueraDelRadioNoCreaNada(t *testing.T) {
	env := newTestEnv(t)
	created := createBasicOrder(t, env, dto.CreateOrderRequest{PropertyID: strPtr("prop-1")})

	// ~111 m al norte: fuera de los 50 m.
	out, err := env.uc.CheckIn(created.ID, dto.CheckInRequest{
		EmployeeID: "emp-1",
		Latitude:   propLat + 0.001,
		Longitude:  propLng,
	})
	require.Error(t, err)
	assert.Nil(t, out)

	ge, ok := domain.IsGeofenceDenied(err)
	require.True(t, ok, "debe ser un rechazo por geocerca")
	assert.InDelta(t, 111.2, ge.DistanceMeters, 1.0)
	assert.Equal(t, orders.DefaultCheckInRadiusMeters, ge.RadiusMeters)

	// No debe quedar ningún registro de tiempo.
	entries, err := env.entries.ListByOrder(created.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCheckIn_Errores(t *testing.T) {
	env := newTestEnv(t)
	conGPS := createBasicOrder(t, env, dto.CreateOrderRequest{Title: "Con GPS", PropertyID: strPtr("prop-1")})
	sinGPS := createBasicOrder(t, env, dto.CreateOrderRequest{Title: "Sin GPS", PropertyID: strPtr("prop-sin-gps")})
	sinPredio := createBasicOrder(t, env, dto.CreateOrderRequest{Title: "Sin predio"})

	// Orden inexistente ⇒ nil, nil.
	out, err := env.uc.CheckIn("no-existe", dto.CheckInRequest{EmployeeID: "emp-1", Latitude: propLat, Longitude: propLng})
	require.NoError(t, err)
	assert.Nil(t, out)

	// Empleado inexistente.
	_, err = env.uc.CheckIn(conGPS.ID, dto.CheckInRequest{EmployeeID: "no-existe", Latitude: propLat, Longitude: propLng})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Coordenadas inválidas.
	_, err = env.uc.CheckIn(conGPS.ID, dto.CheckInRequest{EmployeeID: "emp-1", Latitude: 91, Longitude: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Sin empleado.
	_, err = env.uc.CheckIn(conGPS.ID, dto.CheckInRequest{Latitude: propLat, Longitude: propLng})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Predio sin coordenadas y orden sin predio.
	_, err = env.uc.CheckIn(sinGPS.ID, dto.CheckInRequest{EmployeeID: "emp-1", Latitude: propLat, Longitude: propLng})
	assert.ErrorIs(t, err, domain.ErrNoPropertyLocation)
	_, err = env.uc.CheckIn(sinPredio.ID, dto.CheckInRequest{EmployeeID: "emp-1", Latitude: propLat, Longitude: propLng})
	assert.ErrorIs(t, err, domain.ErrNoPropertyLocation)
}

func TestCheckIn_RadioConfigurable(t *testing.T) {
	env := newTestEnv(t)
	// Reconstruir el caso de uso con un radio amplio.
	lat, lng := propLat, propLng
	wide := orders.NewUseCase(
		&fakeTxRunner{repos: orders.TxRepos{
			Orders: env.orders, Assignments: env.assignments, TimeEntries: env.entries,
			Materials: env.materials, Photos: env.photos, Signatures: env.signatures,
		}},
		env.orders, env.assignments, env.entries, env.materials, env.photos, env.signatures,
		&fakeAccountRepo{rows: map[string]*entity.Account{"acc-1": {ID: "acc-1", Name: "Finca"}}},
		&fakePropertyRepo{rows: map[string]*entity.Property{"prop-1": {ID: "prop-1", AccountID: "acc-1", Lat: &lat, Lng: &lng}}},
		&fakeContactRepo{rows: map[string]*entity.Contact{}},
		&fakeEmployeeRepo{rows: map[string]*entity.Employee{"emp-1": {ID: "emp-1", Name: "Carlos", Active: true}}},
		&fakeCatalogRepo{rows: map[string]*entity.Material{}},
		orders.Config{CheckInRadiusMeters: 200},
	)
	created, err := wide.Create(context.Background(), dto.CreateOrderRequest{
		Title: "Radio amplio", AccountID: "acc-1", PropertyID: strPtr("prop-1"),
	})
	require.NoError(t, err)

	// ~111 m: rechazado con el radio por defecto, admitido con 200 m.
	out, err := wide.CheckIn(created.ID, dto.CheckInRequest{
		EmployeeID: "emp-1", Latitude: propLat + 0.001, Longitude: propLng,
	})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.True(t, out.Granted)
}
