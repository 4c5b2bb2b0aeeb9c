package mocknotifier

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Notifier struct {
	mock.Mock
}

func (n *Notifier) Notify(ctx context.Context, message string) bool {
	args := n.Called(ctx, message)
	return args.Bool(0)
}
