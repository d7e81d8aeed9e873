package state

import (
	"github.com/Afiolabi/kaji-whot-client/internal/domain"
	"github.com/google/uuid"
)

// ModalID names an independently shown/hidden modal.
type ModalID string

const (
	ModalInspectCards      ModalID = "inspectCards"
	ModalReplacePlayer     ModalID = "replacePlayer"
	ModalInsufficientFunds ModalID = "insufficientFunds"
	ModalObserversPanel    ModalID = "observersPanel"
	ModalInviteFriends     ModalID = "inviteFriends"
	ModalGameSettings      ModalID = "gameSettings"
	ModalConfirmExit       ModalID = "confirmExit"
)

// Modal is one modal's visibility plus its optional payload.
type Modal struct {
	Visible bool
	Payload any
}

// UIState is pure presentation state. It is never persisted.
type UIState struct {
	Modals          map[ModalID]Modal
	Notifications   []domain.Notification
	KeyboardVisible bool
}

func initialUIState() UIState {
	return UIState{Modals: map[ModalID]Modal{}}
}

// UIAction is the action set owned by the ui container.
type UIAction interface {
	Action
	isUI()
}

// ModalShown shows a modal, optionally carrying a payload for it.
type ModalShown struct {
	ID      ModalID
	Payload any
}

// ModalHidden hides a modal and drops its payload.
type ModalHidden struct{ ID ModalID }

// NotificationPushed enqueues an ephemeral notification; the reducer assigns
// the id.
type NotificationPushed struct {
	Severity domain.Severity
	Message  string
	Action   string
}

// NotificationDismissed removes one notification by id.
type NotificationDismissed struct{ ID string }

// NotificationsCleared empties the queue.
type NotificationsCleared struct{}

// KeyboardVisibleSet flips the soft-keyboard flag.
type KeyboardVisibleSet struct{ Visible bool }

func (ModalShown) isAction()            {}
func (ModalShown) isUI()                {}
func (ModalHidden) isAction()           {}
func (ModalHidden) isUI()               {}
func (NotificationPushed) isAction()    {}
func (NotificationPushed) isUI()        {}
func (NotificationDismissed) isAction() {}
func (NotificationDismissed) isUI()     {}
func (NotificationsCleared) isAction()  {}
func (NotificationsCleared) isUI()      {}
func (KeyboardVisibleSet) isAction()    {}
func (KeyboardVisibleSet) isUI()        {}

func copyModals(m map[ModalID]Modal) map[ModalID]Modal {
	out := make(map[ModalID]Modal, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func reduceUI(s UIState, a UIAction) UIState {
	switch act := a.(type) {
	case ModalShown:
		modals := copyModals(s.Modals)
		modals[act.ID] = Modal{Visible: true, Payload: act.Payload}
		s.Modals = modals
	case ModalHidden:
		modals := copyModals(s.Modals)
		modals[act.ID] = Modal{}
		s.Modals = modals
	case NotificationPushed:
		n := domain.Notification{
			ID:       uuid.New().String(),
			Severity: act.Severity,
			Message:  act.Message,
			Action:   act.Action,
		}
		s.Notifications = append(append([]domain.Notification{}, s.Notifications...), n)
	case NotificationDismissed:
		out := make([]domain.Notification, 0, len(s.Notifications))
		for _, n := range s.Notifications {
			if n.ID != act.ID {
				out = append(out, n)
			}
		}
		s.Notifications = out
	case NotificationsCleared:
		s.Notifications = nil
	case KeyboardVisibleSet:
		s.KeyboardVisible = act.Visible
	}
	return s
}
