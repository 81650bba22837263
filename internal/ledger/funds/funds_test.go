package funds

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"humanproof/internal/ledger/store"
	"humanproof/pkg/domain"
	dErrors "humanproof/pkg/domain-errors"
)

type FundsSuite struct {
	suite.Suite
	store *store.Memory
	ctx   context.Context
}

func (s *FundsSuite) SetupTest() {
	s.store = store.NewMemory()
	s.ctx = context.Background()
}

func TestFundsSuite(t *testing.T) {
	suite.Run(t, new(FundsSuite))
}

func wallet(b byte) domain.Wallet {
	var w domain.Wallet
	for i := range w {
		w[i] = b
	}
	return w
}

func (s *FundsSuite) balance(w domain.Wallet) uint64 {
	var v uint64
	s.Require().NoError(s.store.View(s.ctx, func(tx store.ReadTx) error {
		var err error
		v, err = Balance(tx, w)
		return err
	}))
	return v
}

func (s *FundsSuite) TestDepositAndBalance() {
	s.Run("unfunded wallet holds zero", func() {
		s.Equal(uint64(0), s.balance(wallet(1)))
	})

	s.Run("deposits accumulate", func() {
		s.Require().NoError(s.store.Update(s.ctx, func(tx store.Tx) error {
			return Deposit(tx, wallet(1), 500)
		}))
		s.Require().NoError(s.store.Update(s.ctx, func(tx store.Tx) error {
			return Deposit(tx, wallet(1), 250)
		}))
		s.Equal(uint64(750), s.balance(wallet(1)))
	})
}

func (s *FundsSuite) TestTransfer() {
	s.Require().NoError(s.store.Update(s.ctx, func(tx store.Tx) error {
		return Deposit(tx, wallet(1), 1000)
	}))

	s.Run("moves funds between wallets", func() {
		s.Require().NoError(s.store.Update(s.ctx, func(tx store.Tx) error {
			return Transfer(tx, wallet(1), wallet(2), 300)
		}))
		s.Equal(uint64(700), s.balance(wallet(1)))
		s.Equal(uint64(300), s.balance(wallet(2)))
	})

	s.Run("rejects insufficient funds and leaves balances untouched", func() {
		err := s.store.Update(s.ctx, func(tx store.Tx) error {
			return Transfer(tx, wallet(1), wallet(2), 10_000)
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInsufficientFunds))
		s.Equal(uint64(700), s.balance(wallet(1)))
		s.Equal(uint64(300), s.balance(wallet(2)))
	})

	s.Run("rejects self transfer", func() {
		err := s.store.Update(s.ctx, func(tx store.Tx) error {
			return Transfer(tx, wallet(1), wallet(1), 1)
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("zero amount is a no-op", func() {
		s.Require().NoError(s.store.Update(s.ctx, func(tx store.Tx) error {
			return Transfer(tx, wallet(1), wallet(2), 0)
		}))
		s.Equal(uint64(700), s.balance(wallet(1)))
	})
}
