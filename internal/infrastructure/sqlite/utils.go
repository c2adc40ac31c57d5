package sqlite

import (
	"fmt"
	"strings"

	"github.com/jhoicas/sistema-comercial/internal/domain"
)

// mapWriteError traduce violaciones de constraint a errores de dominio.
// modernc no expone códigos tipados estables entre versiones; se usa el mensaje.
func mapWriteError(op string, err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
