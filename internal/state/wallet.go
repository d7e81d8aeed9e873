package state

import "github.com/Afiolabi/kaji-whot-client/internal/domain"

// WalletState mirrors the wallet ledger. The balance is derived: it moves
// only when a transaction transitions into completed status, and each
// transition is applied exactly once even if the server re-delivers it.
type WalletState struct {
	Balance        int64                `json:"balance"`
	Transactions   []domain.Transaction `json:"transactions"`
	PendingDeposit *PendingDeposit      `json:"pendingDeposit"`
	Loading        bool                 `json:"-"`
	Err            string               `json:"-"`
}

// PendingDeposit tracks an initiated but unverified deposit.
type PendingDeposit struct {
	Amount    int64  `json:"amount"`
	Reference string `json:"reference"`
}

func initialWalletState() WalletState { return WalletState{} }

// WalletAction is the action set owned by the wallet container.
type WalletAction interface {
	Action
	isWallet()
}

// BalanceSet replaces the balance from an authoritative fetch.
type BalanceSet struct{ Balance int64 }

// TransactionsSet replaces the ledger from an authoritative fetch.
type TransactionsSet struct{ Transactions []domain.Transaction }

// TransactionAdded prepends a new transaction, applying its balance delta
// once if it arrives already completed. Re-delivery of an id already in the
// ledger is ignored.
type TransactionAdded struct{ Tx domain.Transaction }

// TransactionUpdated moves a transaction to a new status. The balance delta
// is applied only on the transition into completed.
type TransactionUpdated struct {
	ID     string
	Status domain.TransactionStatus
}

// PendingDepositSet records or clears (nil) the in-flight deposit reference.
type PendingDepositSet struct{ Deposit *PendingDeposit }

// WalletLoadingSet flips the ledger-loading flag.
type WalletLoadingSet struct{ Loading bool }

// WalletErrorSet records a wallet operation failure.
type WalletErrorSet struct{ Err string }

// WalletErrorCleared clears the error field.
type WalletErrorCleared struct{}

func (BalanceSet) isAction()         {}
func (BalanceSet) isWallet()         {}
func (TransactionsSet) isAction()    {}
func (TransactionsSet) isWallet()    {}
func (TransactionAdded) isAction()   {}
func (TransactionAdded) isWallet()   {}
func (TransactionUpdated) isAction() {}
func (TransactionUpdated) isWallet() {}
func (PendingDepositSet) isAction()  {}
func (PendingDepositSet) isWallet()  {}
func (WalletLoadingSet) isAction()   {}
func (WalletLoadingSet) isWallet()   {}
func (WalletErrorSet) isAction()     {}
func (WalletErrorSet) isWallet()     {}
func (WalletErrorCleared) isAction() {}
func (WalletErrorCleared) isWallet() {}

// delta returns the signed balance change a completed transaction causes.
func delta(tx domain.Transaction) int64 {
	if tx.Type.Credits() {
		return tx.Amount
	}
	return -tx.Amount
}

func reduceWallet(s WalletState, a WalletAction) WalletState {
	switch act := a.(type) {
	case BalanceSet:
		s.Balance = act.Balance
	case TransactionsSet:
		s.Transactions = append([]domain.Transaction{}, act.Transactions...)
		s.Loading = false
	case TransactionAdded:
		for _, tx := range s.Transactions {
			if tx.ID == act.Tx.ID {
				return s // duplicate delivery
			}
		}
		s.Transactions = append([]domain.Transaction{act.Tx}, s.Transactions...)
		if act.Tx.Status == domain.TxStatusCompleted {
			s.Balance += delta(act.Tx)
		}
	case TransactionUpdated:
		txs := append([]domain.Transaction{}, s.Transactions...)
		for i := range txs {
			if txs[i].ID != act.ID {
				continue
			}
			prior := txs[i].Status
			txs[i].Status = act.Status
			// The delta applies exactly once, on the transition into
			// completed. A repeated completed update is a no-op.
			if prior != domain.TxStatusCompleted && act.Status == domain.TxStatusCompleted {
				s.Balance += delta(txs[i])
			}
			break
		}
		s.Transactions = txs
	case PendingDepositSet:
		s.PendingDeposit = act.Deposit
	case WalletLoadingSet:
		s.Loading = act.Loading
	case WalletErrorSet:
		s.Err = act.Err
		s.Loading = false
	case WalletErrorCleared:
		s.Err = ""
	}
	return s
}
