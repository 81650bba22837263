// Package funds tracks native-currency balances as records in the ledger's
// own store. Keeping balances in the same store means a registration fee
// moves in the same atomic commit that creates the identity record; a
// failed registration never leaves money moved.
package funds

import (
	"errors"

	"humanproof/internal/ledger/arith"
	"humanproof/internal/ledger/record"
	"humanproof/internal/ledger/store"
	"humanproof/pkg/domain"
	dErrors "humanproof/pkg/domain-errors"
	"humanproof/pkg/platform/sentinel"
)

// Balance returns a wallet's balance inside a transaction. A wallet with no
// balance record holds zero.
func Balance(tx store.ReadTx, wallet domain.Wallet) (uint64, error) {
	payload, err := tx.Get(record.BalanceAddress(wallet))
	if errors.Is(err, sentinel.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return record.DecodeBalance(payload)
}

// Deposit credits a wallet inside a transaction.
func Deposit(tx store.Tx, wallet domain.Wallet, amount uint64) error {
	current, err := Balance(tx, wallet)
	if err != nil {
		return err
	}
	next, err := arith.AddU64(current, amount)
	if err != nil {
		return err
	}
	return tx.Put(record.BalanceAddress(wallet), record.EncodeBalance(next))
}

// Transfer moves amount from one wallet to another inside a transaction.
// Insufficient funds fail the whole operation; the staged debit and credit
// commit together or not at all.
func Transfer(tx store.Tx, from, to domain.Wallet, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if from == to {
		return dErrors.New(dErrors.CodeInvalidInput, "transfer to self")
	}
	fromBalance, err := Balance(tx, from)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return dErrors.New(dErrors.CodeInsufficientFunds, "balance below transfer amount")
	}
	toBalance, err := Balance(tx, to)
	if err != nil {
		return err
	}
	credited, err := arith.AddU64(toBalance, amount)
	if err != nil {
		return err
	}
	if err := tx.Put(record.BalanceAddress(from), record.EncodeBalance(fromBalance-amount)); err != nil {
		return err
	}
	return tx.Put(record.BalanceAddress(to), record.EncodeBalance(credited))
}
