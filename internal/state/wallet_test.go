package state

import (
	"testing"
	"time"

	"github.com/Afiolabi/kaji-whot-client/internal/domain"
	"github.com/google/uuid"
)

func tx(txType domain.TransactionType, amount int64, status domain.TransactionStatus) domain.Transaction {
	now := time.Now().UTC()
	return domain.Transaction{
		ID:        uuid.New().String(),
		Type:      txType,
		Amount:    amount,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCompletedTransactionAppliesOnce(t *testing.T) {
	t.Run("GameWinCreditsExactlyOnce", func(t *testing.T) {
		// Scenario: a completed game_win of 500 raises the balance by
		// exactly 500, once.
		s := WalletState{Balance: 1000}
		s = reduceWallet(s, TransactionAdded{Tx: tx(domain.TxTypeGameWin, 500, domain.TxStatusCompleted)})
		if s.Balance != 1500 {
			t.Errorf("Balance = %d, want 1500", s.Balance)
		}
	})

	t.Run("PendingAppliesNothing", func(t *testing.T) {
		s := WalletState{Balance: 1000}
		s = reduceWallet(s, TransactionAdded{Tx: tx(domain.TxTypeDeposit, 300, domain.TxStatusPending)})
		if s.Balance != 1000 {
			t.Errorf("pending transaction moved the balance: %d", s.Balance)
		}
	})

	t.Run("CompletionTransitionAppliesDelta", func(t *testing.T) {
		pending := tx(domain.TxTypeDeposit, 300, domain.TxStatusPending)
		s := WalletState{Balance: 1000}
		s = reduceWallet(s, TransactionAdded{Tx: pending})
		s = reduceWallet(s, TransactionUpdated{ID: pending.ID, Status: domain.TxStatusCompleted})
		if s.Balance != 1300 {
			t.Errorf("Balance = %d, want 1300", s.Balance)
		}
	})

	t.Run("RedeliveredCompletionIsIdempotent", func(t *testing.T) {
		pending := tx(domain.TxTypeGameWin, 500, domain.TxStatusPending)
		s := WalletState{Balance: 0}
		s = reduceWallet(s, TransactionAdded{Tx: pending})

		s = reduceWallet(s, TransactionUpdated{ID: pending.ID, Status: domain.TxStatusCompleted})
		s = reduceWallet(s, TransactionUpdated{ID: pending.ID, Status: domain.TxStatusCompleted})

		if s.Balance != 500 {
			t.Errorf("double-applied completion: balance %d, want 500", s.Balance)
		}
	})

	t.Run("DuplicateAddIgnored", func(t *testing.T) {
		win := tx(domain.TxTypeGameWin, 500, domain.TxStatusCompleted)
		s := WalletState{}
		s = reduceWallet(s, TransactionAdded{Tx: win})
		s = reduceWallet(s, TransactionAdded{Tx: win})
		if s.Balance != 500 {
			t.Errorf("re-delivered add applied twice: balance %d", s.Balance)
		}
		if len(s.Transactions) != 1 {
			t.Errorf("duplicate ledger entry: %d entries", len(s.Transactions))
		}
	})

	t.Run("DebitTypesSubtract", func(t *testing.T) {
		s := WalletState{Balance: 1000}
		s = reduceWallet(s, TransactionAdded{Tx: tx(domain.TxTypeGameEntry, 200, domain.TxStatusCompleted)})
		if s.Balance != 800 {
			t.Errorf("Balance = %d, want 800", s.Balance)
		}
		s = reduceWallet(s, TransactionAdded{Tx: tx(domain.TxTypeWithdrawal, 300, domain.TxStatusCompleted)})
		if s.Balance != 500 {
			t.Errorf("Balance = %d, want 500", s.Balance)
		}
	})

	t.Run("FailedTransitionNeverApplies", func(t *testing.T) {
		pending := tx(domain.TxTypeDeposit, 300, domain.TxStatusPending)
		s := WalletState{Balance: 100}
		s = reduceWallet(s, TransactionAdded{Tx: pending})
		s = reduceWallet(s, TransactionUpdated{ID: pending.ID, Status: domain.TxStatusFailed})
		if s.Balance != 100 {
			t.Errorf("failed transaction moved the balance: %d", s.Balance)
		}
	})
}

func TestTransactionOrdering(t *testing.T) {
	s := WalletState{}
	first := tx(domain.TxTypeDeposit, 100, domain.TxStatusCompleted)
	second := tx(domain.TxTypeDeposit, 200, domain.TxStatusCompleted)
	s = reduceWallet(s, TransactionAdded{Tx: first})
	s = reduceWallet(s, TransactionAdded{Tx: second})

	if s.Transactions[0].ID != second.ID {
		t.Error("newest transaction must be first")
	}
	if s.Balance != 300 {
		t.Errorf("Balance = %d, want 300", s.Balance)
	}
}

func TestPendingDeposit(t *testing.T) {
	s := WalletState{}
	s = reduceWallet(s, PendingDepositSet{Deposit: &PendingDeposit{Amount: 1000, Reference: "ref-1"}})
	if s.PendingDeposit == nil || s.PendingDeposit.Reference != "ref-1" {
		t.Fatalf("pending deposit not recorded: %+v", s.PendingDeposit)
	}
	s = reduceWallet(s, PendingDepositSet{Deposit: nil})
	if s.PendingDeposit != nil {
		t.Error("pending deposit not cleared")
	}
}
