//go:build wireinject
// +build wireinject

package payment

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/merchantdesk/backoffice/internal/payment/handler"
)

// Wire sets
var RepositorySet = wire.NewSet(
	ProvidePaymentRepository,
	ProvideRefundRepository,
	ProvidePaymentGateway,
)

var CommandHandlerSet = wire.NewSet(
	ProvideCreatePaymentHandler,
	ProvideCreateRefundHandler,
	ProvideUpdateStatusHandler,
	ProvideCancelPaymentHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideGetPaymentHandler,
	ProvideListPaymentsHandler,
	ProvideGetMyPaymentsHandler,
	ProvideListRefundsHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHandler initializes the payment handler with all dependencies
func InitializeHandler(db *gorm.DB) (*handler.PaymentHandler, error) {
	wire.Build(
		AllHandlersSet,
		handler.NewPaymentHandlerWithDI,
	)
	return nil, nil
}
