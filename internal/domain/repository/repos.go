package repository

import "context"

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Users      UserRepository
	Jobs       JobRepository
	Materials  MaterialRepository
	SpareParts SparePartRepository
}

// TxRunner ejecuta fn dentro de una transacción. Si fn devuelve error (o entra en pánico)
// la transacción se revierte; en otro caso se confirma. Siempre se libera la conexión.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}
