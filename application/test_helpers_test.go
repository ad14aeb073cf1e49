package application

import (
	"context"
	"errors"

	"townbank/domain/events"
	"townbank/domain/interfaces"
	"townbank/domain/testhelpers"
)

// fakeUnitOfWork hands out shared mocks and records the transaction lifecycle
type fakeUnitOfWork struct {
	factory *fakeUnitOfWorkFactory
	begun   bool
	done    bool
	pending []events.Event
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	if u.begun {
		return errors.New("transaction already started")
	}
	u.begun = true
	u.factory.begins++
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	if u.done {
		return nil
	}
	u.done = true
	u.factory.commits++
	u.factory.published = append(u.factory.published, u.pending...)
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	u.factory.rollbacks++
	return nil
}

func (u *fakeUnitOfWork) Publish(event events.Event) error {
	u.pending = append(u.pending, event)
	return nil
}

func (u *fakeUnitOfWork) AccountRepository() interfaces.AccountRepository { return u.factory.accounts }
func (u *fakeUnitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	return u.factory.history
}
func (u *fakeUnitOfWork) CreditRepository() interfaces.CreditRepository     { return u.factory.credits }
func (u *fakeUnitOfWork) TransferRepository() interfaces.TransferRepository { return u.factory.transfers }
func (u *fakeUnitOfWork) WagerRepository() interfaces.WagerRepository       { return u.factory.wagers }
func (u *fakeUnitOfWork) CycleRepository() interfaces.CycleRepository       { return u.factory.cycle }
func (u *fakeUnitOfWork) PayrollRepository() interfaces.PayrollRepository   { return u.factory.payroll }
func (u *fakeUnitOfWork) CreatorSecretRepository() interfaces.CreatorSecretRepository {
	return u.factory.secrets
}
func (u *fakeUnitOfWork) EventBus() interfaces.EventPublisher { return u }

// fakeUnitOfWorkFactory creates fake units of work sharing one set of mocks
type fakeUnitOfWorkFactory struct {
	accounts  *testhelpers.MockAccountRepository
	history   *testhelpers.MockBalanceHistoryRepository
	credits   *testhelpers.MockCreditRepository
	transfers *testhelpers.MockTransferRepository
	wagers    *testhelpers.MockWagerRepository
	cycle     *testhelpers.MockCycleRepository
	payroll   *testhelpers.MockPayrollRepository
	secrets   *testhelpers.MockCreatorSecretRepository

	begins    int
	commits   int
	rollbacks int
	published []events.Event
}

func newFakeUnitOfWorkFactory() *fakeUnitOfWorkFactory {
	return &fakeUnitOfWorkFactory{
		accounts:  &testhelpers.MockAccountRepository{},
		history:   &testhelpers.MockBalanceHistoryRepository{},
		credits:   &testhelpers.MockCreditRepository{},
		transfers: &testhelpers.MockTransferRepository{},
		wagers:    &testhelpers.MockWagerRepository{},
		cycle:     &testhelpers.MockCycleRepository{},
		payroll:   &testhelpers.MockPayrollRepository{},
		secrets:   &testhelpers.MockCreatorSecretRepository{},
	}
}

func (f *fakeUnitOfWorkFactory) Create() UnitOfWork {
	return &fakeUnitOfWork{factory: f}
}

// publishedOfType returns the committed events of the given type
func (f *fakeUnitOfWorkFactory) publishedOfType(eventType events.EventType) []events.Event {
	var matched []events.Event
	for _, event := range f.published {
		if event.Type() == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}
