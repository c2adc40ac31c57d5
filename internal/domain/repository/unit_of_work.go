package repository

// UnitOfWork agrupa los repositorios ligados a una misma transacción.
// Lo que se escribe a través de él se confirma o se descarta en bloque.
type UnitOfWork struct {
	Products  ProductRepository
	Parties   PartyRepository
	Orders    OrderRepository
	Movements StockMovementRepository
	Ledger    LedgerRepository
}
