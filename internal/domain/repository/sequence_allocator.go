package repository

import "context"

// SequenceAllocator asigna el siguiente correlativo de una serie.
//
// Contrato:
//   - Dos llamadas concurrentes para la misma (empresa, serie) nunca devuelven
//     el mismo número (lectura-incremento-escritura indivisible sobre la fila
//     dueña del contador).
//   - Los números son consecutivos: si se emite N, el siguiente emitido para
//     esa serie es N+1, incluso tras reinicios del proceso.
//   - La asignación participa de la transacción del caller: si la creación del
//     comprobante falla antes del commit, el número no se consume.
//
// El número devuelto es el valor del contador antes del incremento.
// Para BOLETA/FACTURA/notas devuelve domain.ErrNoFiscalRegistration si la
// empresa no tiene registro fiscal.
type SequenceAllocator interface {
	Allocate(ctx context.Context, companyID, documentType string) (series string, number int64, err error)
}
