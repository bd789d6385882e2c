package layaway

import (
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
	"github.com/tiendamx/pos-mostrador/pkg/logger"
)

// Usecase apartados: mercancía reservada que el cliente paga en abonos.
// Todas las transiciones mueven el stock reservado y el estado en la misma
// transacción.
type Usecase struct {
	txRunner    repository.TxRunner
	layawayRepo repository.LayawayRepository
	log         *logger.Logger
}

// New construye el caso de uso.
func New(txRunner repository.TxRunner, layawayRepo repository.LayawayRepository, log *logger.Logger) *Usecase {
	return &Usecase{txRunner: txRunner, layawayRepo: layawayRepo, log: log}
}
