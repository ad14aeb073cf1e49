package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"townbank/domain/apperrors"
	"townbank/domain/entities"
	"townbank/domain/events"
	"townbank/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

var errCycleStateMissing = errors.New("cycle state row is missing")

type payrollService struct {
	accountRepo    interfaces.AccountRepository
	cycleRepo      interfaces.CycleRepository
	payrollRepo    interfaces.PayrollRepository
	ledger         interfaces.LedgerService
	eventPublisher interfaces.EventPublisher
}

// NewPayrollService creates a new payroll service
func NewPayrollService(
	accountRepo interfaces.AccountRepository,
	cycleRepo interfaces.CycleRepository,
	payrollRepo interfaces.PayrollRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.PayrollService {
	return &payrollService{
		accountRepo:    accountRepo,
		cycleRepo:      cycleRepo,
		payrollRepo:    payrollRepo,
		ledger:         NewLedgerService(accountRepo, balanceHistoryRepo, eventPublisher),
		eventPublisher: eventPublisher,
	}
}

func (s *payrollService) GetState(ctx context.Context) (*entities.CycleState, error) {
	state, err := s.cycleRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get cycle state: %w", err)
	}
	if state == nil {
		return nil, errCycleStateMissing
	}
	return state, nil
}

// OpenPayroll returns the run to pay out, resuming one left behind by an interrupted attempt
func (s *payrollService) OpenPayroll(ctx context.Context, actorID *int64) (*entities.PayrollRun, error) {
	state, err := s.lockState(ctx)
	if err != nil {
		return nil, err
	}
	if !state.Accepts(entities.CycleDirectionEndDay) {
		return nil, apperrors.ErrCycleAlreadyInState.WithMessage("it is already night")
	}

	run, err := s.payrollRepo.GetRunning(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get running payroll: %w", err)
	}
	if run != nil {
		log.WithFields(log.Fields{
			"runID":     run.ID,
			"startedAt": run.StartedAt,
		}).Warn("Resuming unfinished payroll run")
		return run, nil
	}

	run = &entities.PayrollRun{
		Status:    entities.PayrollRunStatusRunning,
		StartedBy: actorID,
		StartedAt: time.Now(),
	}
	if err := s.payrollRepo.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create payroll run: %w", err)
	}
	return run, nil
}

func (s *payrollService) ListPayees(ctx context.Context) ([]*entities.Account, error) {
	accounts, err := s.accountRepo.ListEmployed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employed accounts: %w", err)
	}
	return accounts, nil
}

func (s *payrollService) PayAccount(ctx context.Context, run *entities.PayrollRun, accountID int64) (int64, bool, error) {
	account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return 0, false, fmt.Errorf("failed to get account: %w", err)
	}
	// Lost the job or was deactivated after the payee list was read
	if account == nil || !account.Active || !account.IsEmployed() {
		return 0, false, nil
	}

	salary := account.Job.Salary
	inserted, err := s.payrollRepo.RecordPayment(ctx, &entities.PayrollPayment{
		RunID:     run.ID,
		AccountID: accountID,
		Amount:    salary,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return 0, false, fmt.Errorf("failed to record payroll payment: %w", err)
	}
	if !inserted {
		return 0, false, nil
	}

	relatedID, relatedType := entities.NewRelatedRef(run.ID, entities.RelatedTypePayrollRun)
	if _, err := s.ledger.AdjustBalance(ctx, entities.BalanceAdjustment{
		AccountID:       accountID,
		Delta:           salary,
		TransactionType: entities.TransactionTypeSalary,
		Metadata: map[string]any{
			"run_id":    run.ID,
			"job_title": account.Job.Title,
		},
		RelatedID:   relatedID,
		RelatedType: relatedType,
	}); err != nil {
		return 0, false, err
	}

	return salary, true, nil
}

func (s *payrollService) HoldPayroll(ctx context.Context, run *entities.PayrollRun, summary *entities.PayrollSummary) error {
	s.accumulate(run, summary)
	if err := s.payrollRepo.UpdateRun(ctx, run); err != nil {
		return fmt.Errorf("failed to store payroll progress: %w", err)
	}
	return nil
}

func (s *payrollService) accumulate(run *entities.PayrollRun, summary *entities.PayrollSummary) {
	run.AccountsPaid += summary.AccountsPaid
	run.AccountsFailed = summary.AccountsFailed
	run.TotalPaid += summary.TotalPaid
	run.ExecutionSummary = map[string]any{
		"accounts_skipped":   summary.AccountsSkipped,
		"failed_account_ids": summary.FailedAccountIDs,
	}
}

func (s *payrollService) CloseDay(ctx context.Context, run *entities.PayrollRun, summary *entities.PayrollSummary, actorID *int64) (*entities.CycleState, error) {
	state, err := s.lockState(ctx)
	if err != nil {
		return nil, err
	}
	if !state.Accepts(entities.CycleDirectionEndDay) {
		return nil, apperrors.ErrCycleAlreadyInState.WithMessage("it is already night")
	}

	now := time.Now()
	state.IsDay = false
	state.LastChange = now
	state.ChangedBy = actorID
	if err := s.cycleRepo.Update(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to update cycle state: %w", err)
	}

	s.accumulate(run, summary)
	run.Status = entities.PayrollRunStatusCompleted
	run.CompletedAt = &now
	if err := s.payrollRepo.UpdateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to complete payroll run: %w", err)
	}

	s.publishAdvance(entities.CycleDirectionEndDay, state, actorID, &run.ID, run.TotalPaid)
	return state, nil
}

func (s *payrollService) EndNight(ctx context.Context, actorID *int64) (*entities.CycleState, error) {
	state, err := s.lockState(ctx)
	if err != nil {
		return nil, err
	}
	if !state.Accepts(entities.CycleDirectionEndNight) {
		return nil, apperrors.ErrCycleAlreadyInState.WithMessage("it is already day")
	}

	state.IsDay = true
	state.LastChange = time.Now()
	state.ChangedBy = actorID
	if err := s.cycleRepo.Update(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to update cycle state: %w", err)
	}

	s.publishAdvance(entities.CycleDirectionEndNight, state, actorID, nil, 0)
	return state, nil
}

func (s *payrollService) lockState(ctx context.Context) (*entities.CycleState, error) {
	state, err := s.cycleRepo.GetForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock cycle state: %w", err)
	}
	if state == nil {
		return nil, errCycleStateMissing
	}
	return state, nil
}

func (s *payrollService) publishAdvance(direction entities.CycleDirection, state *entities.CycleState, actorID *int64, runID *int64, totalPaid int64) {
	event := events.CycleAdvancedEvent{
		Direction:    direction,
		IsDay:        state.IsDay,
		ActorID:      actorID,
		PayrollRunID: runID,
		TotalPaid:    totalPaid,
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish cycle advanced event")
	}
}
