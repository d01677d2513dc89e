package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

// Adaptadores de solo lectura sobre los maestros (cuentas, predios, contactos,
// empleados, materiales). El CRUD completo de esas tablas vive en otro servicio;
// aquí solo se consultan por id para decorar el agregado, validar referencias
// y resolver la ubicación del check-in.

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo lookup de cuentas.
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

// GetByID obtiene una cuenta, o nil si no existe.
func (r *AccountRepo) GetByID(id string) (*entity.Account, error) {
	var a entity.Account
	err := r.q.QueryRow(context.Background(), `
		SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), created_at
		FROM accounts WHERE id = $1`, id).Scan(
		&a.ID, &a.Name, &a.Email, &a.Phone, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}

var _ repository.PropertyRepository = (*PropertyRepo)(nil)

// PropertyRepo lookup de predios (coordenadas para la geocerca).
type PropertyRepo struct {
	q Querier
}

// NewPropertyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPropertyRepository(q Querier) *PropertyRepo {
	return &PropertyRepo{q: q}
}

// GetByID obtiene un predio, o nil si no existe.
func (r *PropertyRepo) GetByID(id string) (*entity.Property, error) {
	var p entity.Property
	err := r.q.QueryRow(context.Background(), `
		SELECT id, account_id, name, COALESCE(address, ''), lat, lng, created_at
		FROM properties WHERE id = $1`, id).Scan(
		&p.ID, &p.AccountID, &p.Name, &p.Address, &p.Lat, &p.Lng, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	return &p, nil
}

var _ repository.ContactRepository = (*ContactRepo)(nil)

// ContactRepo lookup de contactos.
type ContactRepo struct {
	q Querier
}

// NewContactRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContactRepository(q Querier) *ContactRepo {
	return &ContactRepo{q: q}
}

// GetByID obtiene un contacto, o nil si no existe.
func (r *ContactRepo) GetByID(id string) (*entity.Contact, error) {
	var c entity.Contact
	err := r.q.QueryRow(context.Background(), `
		SELECT id, account_id, name, COALESCE(email, ''), COALESCE(phone, ''), created_at
		FROM contacts WHERE id = $1`, id).Scan(
		&c.ID, &c.AccountID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return &c, nil
}

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

// EmployeeRepo lookup de empleados.
type EmployeeRepo struct {
	q Querier
}

// NewEmployeeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEmployeeRepository(q Querier) *EmployeeRepo {
	return &EmployeeRepo{q: q}
}

// GetByID obtiene un empleado, o nil si no existe.
func (r *EmployeeRepo) GetByID(id string) (*entity.Employee, error) {
	var e entity.Employee
	err := r.q.QueryRow(context.Background(), `
		SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), active, created_at
		FROM employees WHERE id = $1`, id).Scan(
		&e.ID, &e.Name, &e.Email, &e.Phone, &e.Active, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return &e, nil
}

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo lookup del maestro de materiales.
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

// GetByID obtiene un material del maestro, o nil si no existe.
func (r *MaterialRepo) GetByID(id string) (*entity.Material, error) {
	var m entity.Material
	err := r.q.QueryRow(context.Background(), `
		SELECT id, COALESCE(sku, ''), name, COALESCE(unit, ''), COALESCE(unit_price, 0), created_at
		FROM materials WHERE id = $1`, id).Scan(
		&m.ID, &m.SKU, &m.Name, &m.Unit, &m.UnitPrice, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return &m, nil
}
