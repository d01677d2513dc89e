package repository

import "github.com/jhoicas/ServiCampo-api/internal/domain/entity"

// Puertos de solo lectura sobre los maestros. El CRUD completo de cuentas,
// predios, contactos, empleados y materiales vive fuera de este núcleo; aquí
// solo se consultan para decorar el agregado hidratado y resolver la ubicación
// del check-in.

// AccountRepository lookup de cuentas.
type AccountRepository interface {
	GetByID(id string) (*entity.Account, error)
}

// PropertyRepository lookup de predios (coordenadas para la geocerca).
type PropertyRepository interface {
	GetByID(id string) (*entity.Property, error)
}

// ContactRepository lookup de contactos.
type ContactRepository interface {
	GetByID(id string) (*entity.Contact, error)
}

// EmployeeRepository lookup de empleados.
type EmployeeRepository interface {
	GetByID(id string) (*entity.Employee, error)
}

// MaterialRepository lookup del maestro de materiales.
type MaterialRepository interface {
	GetByID(id string) (*entity.Material, error)
}
