package usecase

import (
	"encoding/json"
	"fmt"

	"github.com/jhoicas/taller-api/internal/domain"
)

// UpdateOptions comportamiento del filtrado de campos en actualizaciones parciales.
type UpdateOptions struct {
	// StrictFieldFilter rechaza con 400 cualquier payload con campos no permitidos en vez
	// de descartarlos en silencio.
	StrictFieldFilter bool
}

func rejectDropped(opts UpdateOptions, dropped []string) error {
	if opts.StrictFieldFilter && len(dropped) > 0 {
		return &domain.PartialRejectionError{Fields: dropped}
	}
	return nil
}

func decodeString(raw json.RawMessage, field string) (*string, error) {
	var v *string
	if err := json.Unmarshal(raw, &v); err != nil || v == nil {
		return nil, fmt.Errorf("%w: %s debe ser texto", domain.ErrInvalidInput, field)
	}
	return v, nil
}

func decodeInt(raw json.RawMessage, field string) (*int, error) {
	var v *int
	if err := json.Unmarshal(raw, &v); err != nil || v == nil {
		return nil, fmt.Errorf("%w: %s debe ser entero", domain.ErrInvalidInput, field)
	}
	return v, nil
}

// decodeNullableID distingue null (desasignar) de un id.
func decodeNullableID(raw json.RawMessage, field string) (*int64, error) {
	var v *int64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: %s debe ser un id o null", domain.ErrInvalidInput, field)
	}
	return v, nil
}
