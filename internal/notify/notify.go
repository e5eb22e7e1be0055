package notify

import (
	"context"
	"fmt"

	"github.com/akarsenev/parkslot/internal/kafka"
)

// Sender delivers booking notifications to the customer. The transport is a
// stand-in; the worker feeds it every event from the notifications topic.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("notify %s: %s for slot %s (vehicle %s)\n", event.CustomerName, event.Type, event.SlotNumber, event.VehicleNumber)
	return nil
}
