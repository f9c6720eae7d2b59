package entity

import "time"

// SparePart registro de consumo de un repuesto. UsedBy siempre es el actor que lo registra.
type SparePart struct {
	ID           int64
	PartName     string
	QuantityUsed int
	UsedBy       int64
	UsedByName   *string // solo lectura
	UsedDate     time.Time
}

// MonthlyUsage total consumido de un repuesto en un mes (YYYY-MM).
type MonthlyUsage struct {
	Month     string
	PartName  string
	TotalUsed int64
}
