package repository

// Set agrupa los repositorios atados a una misma conexión o transacción.
// El TxRunner lo construye sobre la tx para garantizar atomicidad.
type Set struct {
	Products  ProductRepository
	Movements StockMovementRepository
	Batches   StockBatchRepository
	Summaries StockSummaryRepository
	Drafts    DraftSaleRepository
	Sales     SaleRepository
	Sequences SequenceRepository
}
