package cashbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/domain/payment"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
	"github.com/tiendamx/pos-mostrador/internal/domain/session"
	"github.com/tiendamx/pos-mostrador/pkg/logger"
)

// Usecase turnos de caja: apertura, movimientos de efectivo, corte y cierre.
// Las ventas se atribuyen al turno por su turn_id almacenado; los abonos de
// apartados y crédito (que no guardan turno) por la ventana de tiempo del
// turno.
type Usecase struct {
	txRunner repository.TxRunner
	turnRepo repository.TurnRepository
	moveRepo repository.CashMovementRepository
	saleRepo repository.SaleRepository
	layRepo  repository.LayawayRepository
	credRepo repository.CreditRepository
	log      *logger.Logger
}

// New construye el caso de uso.
func New(txRunner repository.TxRunner, turnRepo repository.TurnRepository,
	moveRepo repository.CashMovementRepository, saleRepo repository.SaleRepository,
	layRepo repository.LayawayRepository, credRepo repository.CreditRepository,
	log *logger.Logger) *Usecase {
	return &Usecase{
		txRunner: txRunner,
		turnRepo: turnRepo,
		moveRepo: moveRepo,
		saleRepo: saleRepo,
		layRepo:  layRepo,
		credRepo: credRepo,
		log:      log,
	}
}

// OpenTurn abre un turno de caja con el fondo inicial. A lo más un turno
// abierto por (sucursal, usuario).
func (uc *Usecase) OpenTurn(ctx context.Context, s session.Session, opening decimal.Decimal, notes string) (*entity.Turn, error) {
	if opening.IsNegative() {
		return nil, domain.ErrAmountNotPositive
	}
	var turn *entity.Turn
	err := uc.txRunner.Run(ctx, func(r *repository.Atomic) error {
		open, err := r.Turns.GetOpen(s.BranchID, s.UserID)
		if err != nil {
			return err
		}
		if open != nil {
			return domain.ErrTurnAlreadyOpen
		}
		t := &entity.Turn{
			BranchID:      s.BranchID,
			UserID:        s.UserID,
			OpeningAmount: opening,
			Status:        entity.TurnOpen,
			Notes:         notes,
		}
		id, err := r.Turns.Create(t)
		if err != nil {
			return err
		}
		t.ID = id
		turn = t
		auditTurn(r, &s, "open_turn", map[string]any{"turn_id": id, "opening": opening.String()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("turn_id", turn.ID).Msg("turno abierto")
	return turn, nil
}

// CurrentTurn devuelve el turno abierto de la sesión o nil.
func (uc *Usecase) CurrentTurn(ctx context.Context, s session.Session) (*entity.Turn, error) {
	return uc.turnRepo.GetOpen(s.BranchID, s.UserID)
}

// RegisterMovement registra una entrada o salida de efectivo ligada al turno
// abierto. Sin turno abierto no hay movimientos.
func (uc *Usecase) RegisterMovement(ctx context.Context, s session.Session, movType string, amount decimal.Decimal, reason string) (*entity.CashMovement, error) {
	if movType != entity.CashIn && movType != entity.CashOut {
		return nil, domain.ErrInvalidInput
	}
	if !amount.IsPositive() {
		return nil, domain.ErrAmountNotPositive
	}
	var movement *entity.CashMovement
	err := uc.txRunner.Run(ctx, func(r *repository.Atomic) error {
		turn, err := r.Turns.GetOpen(s.BranchID, s.UserID)
		if err != nil {
			return err
		}
		if turn == nil {
			return domain.ErrNoOpenTurn
		}
		m := &entity.CashMovement{
			BranchID: s.BranchID,
			UserID:   &s.UserID,
			Type:     movType,
			Amount:   amount,
			Reason:   reason,
			TurnID:   turn.ID,
		}
		id, err := r.CashMovements.Create(m)
		if err != nil {
			return err
		}
		m.ID = id
		movement = m
		auditTurn(r, &s, "cash_movement", map[string]any{
			"turn_id": turn.ID,
			"type":    movType,
			"amount":  amount.String(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// Summary calcula el resumen del turno: el efectivo esperado es fondo inicial
// más ventas en efectivo, abonos de apartados y de crédito de la ventana del
// turno, más entradas menos salidas.
func (uc *Usecase) Summary(ctx context.Context, turnID int64) (*entity.TurnSummary, error) {
	turn, err := uc.turnRepo.GetByID(turnID)
	if err != nil {
		return nil, err
	}
	return uc.buildSummary(turn)
}

func (uc *Usecase) buildSummary(turn *entity.Turn) (*entity.TurnSummary, error) {
	sales, err := uc.saleRepo.ListByTurn(turn.ID)
	if err != nil {
		return nil, err
	}
	byMethod := make(map[string]decimal.Decimal)
	for _, s := range sales {
		for method, amount := range s.Breakdown.Flatten() {
			byMethod[string(method)] = byMethod[string(method)].Add(amount)
		}
	}
	cashSales := byMethod[string(payment.MethodCash)]
	creditSales := byMethod[string(payment.MethodCredit)]

	from, to := turnWindow(turn)
	layawayPayments, err := uc.layRepo.PaymentsInWindow(turn.BranchID, from, to)
	if err != nil {
		return nil, err
	}
	creditPayments, err := uc.credRepo.PaymentsInWindow(from, to)
	if err != nil {
		return nil, err
	}
	ins, outs, err := uc.moveRepo.Sums(turn.ID)
	if err != nil {
		return nil, err
	}

	expected := turn.OpeningAmount.
		Add(cashSales).
		Add(layawayPayments).
		Add(creditPayments).
		Add(ins).
		Sub(outs)

	return &entity.TurnSummary{
		Opening:         turn.OpeningAmount,
		CashSales:       cashSales,
		CreditSales:     creditSales,
		LayawayPayments: layawayPayments,
		CreditPayments:  creditPayments,
		Ins:             ins,
		Outs:            outs,
		ExpectedCash:    expected,
		SalesByMethod:   byMethod,
	}, nil
}

// CloseResult resultado del cierre de turno.
type CloseResult struct {
	Turn    *entity.Turn
	Summary *entity.TurnSummary
	Delta   decimal.Decimal
}

// CloseTurn cierra el turno abierto: calcula el efectivo esperado, persiste
// el contado y la diferencia queda a la vista en el resumen. El cierre es
// irreversible.
func (uc *Usecase) CloseTurn(ctx context.Context, s session.Session, counted decimal.Decimal, notes string) (*CloseResult, error) {
	if counted.IsNegative() {
		return nil, domain.ErrAmountNotPositive
	}
	turn, err := uc.turnRepo.GetOpen(s.BranchID, s.UserID)
	if err != nil {
		return nil, err
	}
	if turn == nil {
		return nil, domain.ErrNoOpenTurn
	}
	summary, err := uc.buildSummary(turn)
	if err != nil {
		return nil, err
	}

	err = uc.txRunner.Run(ctx, func(r *repository.Atomic) error {
		if err := r.Turns.Close(turn.ID, counted, summary.ExpectedCash, notes); err != nil {
			return err
		}
		auditTurn(r, &s, "close_turn", map[string]any{
			"turn_id":  turn.ID,
			"expected": summary.ExpectedCash.String(),
			"counted":  counted.String(),
			"delta":    counted.Sub(summary.ExpectedCash).String(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	closed, err := uc.turnRepo.GetByID(turn.ID)
	if err != nil {
		return nil, err
	}
	delta := counted.Sub(summary.ExpectedCash)
	uc.log.Info().
		Int64("turn_id", turn.ID).
		Str("expected", summary.ExpectedCash.String()).
		Str("counted", counted.String()).
		Str("delta", delta.String()).
		Msg("turno cerrado")
	return &CloseResult{Turn: closed, Summary: summary, Delta: delta}, nil
}

// ListTurns turnos de la sucursal, opcionalmente filtrados por estado.
func (uc *Usecase) ListTurns(ctx context.Context, branchID int64, status string, limit int) ([]*entity.Turn, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return uc.turnRepo.List(branchID, status, limit)
}

// Movements movimientos de efectivo del turno.
func (uc *Usecase) Movements(ctx context.Context, turnID int64) ([]*entity.CashMovement, error) {
	return uc.moveRepo.ListByTurn(turnID)
}

// turnWindow devuelve la ventana [apertura, cierre] del turno; para un turno
// abierto el fin es ahora.
func turnWindow(turn *entity.Turn) (string, string) {
	const layout = "2006-01-02 15:04:05"
	from := turn.OpenedAt.Format(layout)
	to := time.Now().Format(layout)
	if turn.ClosedAt != nil {
		to = turn.ClosedAt.Format(layout)
	}
	return from, to
}

func auditTurn(r *repository.Atomic, s *session.Session, action string, payload map[string]any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte("{}")
	}
	_ = r.Audits.Create(&entity.AuditLog{
		UserID:  &s.UserID,
		Action:  action,
		Payload: string(raw),
	})
}
