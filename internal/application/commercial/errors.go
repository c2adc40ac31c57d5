package commercial

import (
	"fmt"

	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
)

// RejectedError indica que la validación rechazó el pedido; no hubo escrituras.
type RejectedError struct {
	Kind   entity.OrderKind
	Result ValidationResult
}

func (e *RejectedError) Error() string {
	if len(e.Result.Reasons) == 0 {
		return fmt.Sprintf("%s rechazada", e.Kind.Label())
	}
	return fmt.Sprintf("%s rechazada: %s", e.Kind.Label(), e.Result.Reasons[0].Message)
}

// Unwrap expone los errores de dominio de los motivos (p. ej. domain.ErrBlockedParty).
func (e *RejectedError) Unwrap() []error {
	var errs []error
	for _, r := range e.Result.Reasons {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}

// FinalizationError indica que la transacción falló y se revirtió por completo.
type FinalizationError struct {
	Kind  entity.OrderKind
	Cause error
}

func (e *FinalizationError) Error() string {
	return fmt.Sprintf("no se pudo confirmar la %s: %v", e.Kind.Label(), e.Cause)
}

func (e *FinalizationError) Unwrap() error { return e.Cause }
