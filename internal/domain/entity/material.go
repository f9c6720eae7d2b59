package entity

import "time"

// Valores por defecto de Material (iguales a los DEFAULT de la tabla).
const (
	DefaultMinimumLevel = 5
	DefaultUnit         = "pcs"
)

// Material representa un insumo del inventario del taller.
type Material struct {
	ID           int64
	MaterialName string
	Quantity     int
	MinimumLevel int
	Unit         string
	UpdatedAt    time.Time
}

// LowStock es verdadero cuando la cantidad llegó al nivel mínimo o por debajo.
func (m *Material) LowStock() bool {
	return m.Quantity <= m.MinimumLevel
}

// MaterialPatch actualización parcial tipada de Material.
type MaterialPatch struct {
	MaterialName *string
	Quantity     *int
	MinimumLevel *int
	Unit         *string
}

// Apply aplica el patch y sella UpdatedAt.
func (p MaterialPatch) Apply(m *Material, now time.Time) {
	if p.MaterialName != nil {
		m.MaterialName = *p.MaterialName
	}
	if p.Quantity != nil {
		m.Quantity = *p.Quantity
	}
	if p.MinimumLevel != nil {
		m.MinimumLevel = *p.MinimumLevel
	}
	if p.Unit != nil {
		m.Unit = *p.Unit
	}
	m.UpdatedAt = now
}
