package fiscal

import "github.com/mesafacil/pos-api/internal/domain/entity"

// Capability modela la capacidad fiscal de una empresa como variante
// etiquetada: o no está registrada ante SUNAT, o tiene un registro fiscal.
// Evita el puntero anulable suelto y obliga a ramas exhaustivas en el resolver.
type Capability struct {
	reg *entity.FiscalRegistration
}

// Unregistered empresa sin registro fiscal (solo tickets internos).
func Unregistered() Capability { return Capability{} }

// Registered empresa con registro fiscal.
func Registered(reg *entity.FiscalRegistration) Capability {
	return Capability{reg: reg}
}

// Registration devuelve el registro y true si la empresa está registrada.
func (c Capability) Registration() (*entity.FiscalRegistration, bool) {
	return c.reg, c.reg != nil
}

// CapabilityOf construye la variante a partir del resultado del repositorio
// (nil = sin registro).
func CapabilityOf(reg *entity.FiscalRegistration) Capability {
	if reg == nil {
		return Unregistered()
	}
	return Registered(reg)
}
