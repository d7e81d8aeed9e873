package state

import (
	"testing"
	"time"

	"github.com/Afiolabi/kaji-whot-client/internal/domain"
)

func TestDispatchRouting(t *testing.T) {
	store := NewStore()

	store.Dispatch(LoggedIn{Token: "tok", RefreshToken: "ref"})
	store.Dispatch(BalanceSet{Balance: 250})
	store.Dispatch(PlayerAdded{Player: domain.LobbyPlayer{ID: "p1"}})

	s := store.State()
	if !s.Auth.Authenticated || s.Auth.Token != "tok" {
		t.Errorf("auth container not updated: %+v", s.Auth)
	}
	if s.Wallet.Balance != 250 {
		t.Errorf("wallet container not updated: %d", s.Wallet.Balance)
	}
	if len(s.Lobby.Players) != 1 {
		t.Errorf("lobby container not updated: %+v", s.Lobby)
	}
	// Containers not addressed by any action keep their initial values.
	if s.Game.Status != domain.GameWaiting {
		t.Errorf("game container mutated by unrelated actions: %+v", s.Game)
	}
}

func TestSubscribe(t *testing.T) {
	store := NewStore()

	t.Run("SnapshotDelivery", func(t *testing.T) {
		ch, cancel := store.Subscribe()
		defer cancel()

		store.Dispatch(BalanceSet{Balance: 42})

		select {
		case snap := <-ch:
			if snap.Wallet.Balance != 42 {
				t.Errorf("snapshot balance = %d, want 42", snap.Wallet.Balance)
			}
		case <-time.After(time.Second):
			t.Fatal("no snapshot delivered")
		}
	})

	t.Run("CancelIsSymmetric", func(t *testing.T) {
		ch, cancel := store.Subscribe()
		cancel()
		if _, open := <-ch; open {
			t.Error("cancel must close the subscription channel")
		}
		// A second cancel is safe.
		cancel()
	})

	t.Run("SlowSubscriberNeverBlocksDispatch", func(t *testing.T) {
		_, cancel := store.Subscribe() // never read
		defer cancel()

		done := make(chan struct{})
		go func() {
			for i := 0; i < 100; i++ {
				store.Dispatch(BalanceSet{Balance: int64(i)})
			}
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("dispatch blocked on a slow subscriber")
		}
	})
}

func TestSnapshotIsolation(t *testing.T) {
	store := NewStore()
	store.Dispatch(PlayerAdded{Player: domain.LobbyPlayer{ID: "p1"}})
	before := store.State()

	store.Dispatch(PlayerAdded{Player: domain.LobbyPlayer{ID: "p2"}})

	if len(before.Lobby.Players) != 1 {
		t.Error("earlier snapshot mutated by a later dispatch")
	}
}

func TestNotificationLifecycle(t *testing.T) {
	store := NewStore()
	store.Dispatch(NotificationPushed{Severity: domain.SeverityError, Message: "insufficient funds"})
	store.Dispatch(NotificationPushed{Severity: domain.SeverityInfo, Message: "friend online"})

	s := store.State()
	if len(s.UI.Notifications) != 2 {
		t.Fatalf("notifications = %d, want 2", len(s.UI.Notifications))
	}
	if s.UI.Notifications[0].ID == s.UI.Notifications[1].ID {
		t.Error("notification ids must be unique")
	}

	store.Dispatch(NotificationDismissed{ID: s.UI.Notifications[0].ID})
	if got := len(store.State().UI.Notifications); got != 1 {
		t.Errorf("notifications after dismissal = %d, want 1", got)
	}

	store.Dispatch(NotificationsCleared{})
	if got := len(store.State().UI.Notifications); got != 0 {
		t.Errorf("notifications after clear = %d, want 0", got)
	}
}

func TestModalPayloads(t *testing.T) {
	store := NewStore()
	store.Dispatch(ModalShown{ID: ModalInsufficientFunds, Payload: int64(750)})

	m := store.State().UI.Modals[ModalInsufficientFunds]
	if !m.Visible {
		t.Fatal("modal not shown")
	}
	if required, ok := m.Payload.(int64); !ok || required != 750 {
		t.Errorf("modal payload = %v", m.Payload)
	}

	store.Dispatch(ModalHidden{ID: ModalInsufficientFunds})
	m = store.State().UI.Modals[ModalInsufficientFunds]
	if m.Visible || m.Payload != nil {
		t.Error("hide must clear visibility and payload")
	}
}
