package service

import (
	"go-inventory-crm/internal/ws"
)

// Notifier receives events after their unit of work has committed.
type Notifier interface {
	Publish(event ws.Event)
}

type nopNotifier struct{}

func (nopNotifier) Publish(ws.Event) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
