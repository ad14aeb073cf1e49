package application

import (
	"context"
	"time"

	"townbank/domain/apperrors"
	"townbank/domain/entities"
	"townbank/domain/interfaces"
	"townbank/domain/services"

	log "github.com/sirupsen/logrus"
)

// CycleHandler drives day/night transitions and the payroll they trigger
type CycleHandler struct {
	uowFactory UnitOfWorkFactory
}

// NewCycleHandler creates a new cycle handler
func NewCycleHandler(uowFactory UnitOfWorkFactory) *CycleHandler {
	return &CycleHandler{uowFactory: uowFactory}
}

func (h *CycleHandler) payroll(uow UnitOfWork) interfaces.PayrollService {
	return services.NewPayrollService(
		uow.AccountRepository(),
		uow.CycleRepository(),
		uow.PayrollRepository(),
		uow.BalanceHistoryRepository(),
		uow.EventBus(),
	)
}

// GetCycle returns the current cycle state
func (h *CycleHandler) GetCycle(ctx context.Context) (*entities.CycleState, error) {
	return readOnly(ctx, h.uowFactory, "get cycle", func(uow UnitOfWork) (*entities.CycleState, error) {
		return h.payroll(uow).GetState(ctx)
	})
}

// AdvanceCycle switches between day and night. A nil requester is the scheduler acting as the system.
// Ending the day pays every employed account its salary before night falls.
func (h *CycleHandler) AdvanceCycle(ctx context.Context, requesterID *int64, rawDirection string) (*entities.CycleResult, error) {
	direction, ok := entities.ParseCycleDirection(rawDirection)
	if !ok {
		return nil, apperrors.ErrInvalidDirection
	}

	if requesterID != nil {
		if _, err := readOnly(ctx, h.uowFactory, "require role", func(uow UnitOfWork) (*entities.Account, error) {
			roles := services.NewRoleService(uow.AccountRepository(), uow.CreatorSecretRepository(), uow.BalanceHistoryRepository(), uow.EventBus(), nil)
			return roles.RequireRole(ctx, *requesterID, entities.RoleMayor)
		}); err != nil {
			return nil, err
		}
	}

	if direction == entities.CycleDirectionEndNight {
		state, err := inTransaction(ctx, h.uowFactory, "end night", func(uow UnitOfWork) (*entities.CycleState, error) {
			return h.payroll(uow).EndNight(ctx, requesterID)
		})
		if err != nil {
			return nil, err
		}
		log.WithField("actorID", requesterID).Info("Night ended")
		return &entities.CycleResult{State: *state}, nil
	}

	return h.endDay(ctx, requesterID)
}

type openedPayroll struct {
	run    *entities.PayrollRun
	payees []*entities.Account
}

func (h *CycleHandler) endDay(ctx context.Context, actorID *int64) (*entities.CycleResult, error) {
	started := time.Now()

	opened, err := inTransaction(ctx, h.uowFactory, "open payroll", func(uow UnitOfWork) (*openedPayroll, error) {
		svc := h.payroll(uow)
		run, err := svc.OpenPayroll(ctx, actorID)
		if err != nil {
			return nil, err
		}
		payees, err := svc.ListPayees(ctx)
		if err != nil {
			return nil, err
		}
		return &openedPayroll{run: run, payees: payees}, nil
	})
	if err != nil {
		return nil, err
	}

	summary := &entities.PayrollSummary{RunID: opened.run.ID}

	// One transaction per account so a single failure does not block the rest
	for _, payee := range opened.payees {
		amount, paid, err := h.payAccount(ctx, opened.run, payee.ID)
		switch {
		case err != nil:
			log.WithFields(log.Fields{
				"runID":     opened.run.ID,
				"accountID": payee.ID,
				"error":     err,
			}).Error("Failed to pay salary")
			summary.AccountsFailed++
			summary.FailedAccountIDs = append(summary.FailedAccountIDs, payee.ID)
		case paid:
			summary.AccountsPaid++
			summary.TotalPaid += amount
		default:
			summary.AccountsSkipped++
		}
	}

	// Night only falls once every payee is paid; ending the day again resumes this run
	// and pays the accounts that are still missing
	if summary.AccountsFailed > 0 {
		if _, err := inTransaction(ctx, h.uowFactory, "hold payroll", func(uow UnitOfWork) (struct{}, error) {
			return struct{}{}, h.payroll(uow).HoldPayroll(ctx, opened.run, summary)
		}); err != nil {
			return nil, err
		}

		log.WithFields(log.Fields{
			"runID":        opened.run.ID,
			"paid":         summary.AccountsPaid,
			"failed":       summary.AccountsFailed,
			"failedIDs":    summary.FailedAccountIDs,
			"total_paid":   summary.TotalPaid,
			"total_payees": len(opened.payees),
		}).Warn("Payroll incomplete, day not ended")

		return nil, apperrors.ErrPayrollIncomplete.WithMessage(
			"%d of %d salaries could not be paid; end the day again to retry them", summary.AccountsFailed, len(opened.payees))
	}

	state, err := inTransaction(ctx, h.uowFactory, "close day", func(uow UnitOfWork) (*entities.CycleState, error) {
		return h.payroll(uow).CloseDay(ctx, opened.run, summary, actorID)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"runID":           opened.run.ID,
		"total_payees":    len(opened.payees),
		"paid":            summary.AccountsPaid,
		"skipped":         summary.AccountsSkipped,
		"failed":          summary.AccountsFailed,
		"total_paid":      summary.TotalPaid,
		"processing_time": time.Since(started).String(),
	}).Info("Day ended, payroll completed")

	return &entities.CycleResult{State: *state, Payroll: summary}, nil
}

type salaryPayment struct {
	amount int64
	paid   bool
}

func (h *CycleHandler) payAccount(ctx context.Context, run *entities.PayrollRun, accountID int64) (int64, bool, error) {
	result, err := inTransaction(ctx, h.uowFactory, "pay salary", func(uow UnitOfWork) (salaryPayment, error) {
		amount, paid, err := h.payroll(uow).PayAccount(ctx, run, accountID)
		return salaryPayment{amount: amount, paid: paid}, err
	})
	return result.amount, result.paid, err
}
