package payment

import (
	"os"

	"gorm.io/gorm"

	"github.com/merchantdesk/backoffice/internal/payment/domain"
	"github.com/merchantdesk/backoffice/internal/payment/gateway"
	"github.com/merchantdesk/backoffice/internal/payment/repository"
	"github.com/merchantdesk/backoffice/internal/payment/usecase/command"
	"github.com/merchantdesk/backoffice/internal/payment/usecase/query"
)

// Repository providers

func ProvidePaymentRepository(db *gorm.DB) domain.PaymentRepository {
	return repository.NewGormPaymentRepository(db)
}

func ProvideRefundRepository(db *gorm.DB) domain.RefundRepository {
	return repository.NewGormRefundRepository(db)
}

// ProvidePaymentGateway selects the gateway implementation. The sandbox is
// the default outside production so the service runs without provider
// credentials.
func ProvidePaymentGateway() gateway.PaymentGateway {
	if os.Getenv("GATEWAY_MODE") == "provider" {
		return gateway.NewProviderGateway()
	}
	return gateway.NewSandboxGateway()
}

// Command handler providers

func ProvideCreatePaymentHandler(payments domain.PaymentRepository, gw gateway.PaymentGateway) *command.CreatePaymentHandler {
	return command.NewCreatePaymentHandler(payments, gw)
}

func ProvideCreateRefundHandler(payments domain.PaymentRepository, refunds domain.RefundRepository, gw gateway.PaymentGateway) *command.CreateRefundHandler {
	return command.NewCreateRefundHandler(payments, refunds, gw)
}

func ProvideUpdateStatusHandler(payments domain.PaymentRepository) *command.UpdateStatusHandler {
	return command.NewUpdateStatusHandler(payments)
}

func ProvideCancelPaymentHandler(payments domain.PaymentRepository) *command.CancelPaymentHandler {
	return command.NewCancelPaymentHandler(payments)
}

// Query handler providers

func ProvideGetPaymentHandler(payments domain.PaymentRepository) *query.GetPaymentHandler {
	return query.NewGetPaymentHandler(payments)
}

func ProvideListPaymentsHandler(payments domain.PaymentRepository) *query.ListPaymentsHandler {
	return query.NewListPaymentsHandler(payments)
}

func ProvideGetMyPaymentsHandler(payments domain.PaymentRepository) *query.GetMyPaymentsHandler {
	return query.NewGetMyPaymentsHandler(payments)
}

func ProvideListRefundsHandler(payments domain.PaymentRepository, refunds domain.RefundRepository) *query.ListRefundsHandler {
	return query.NewListRefundsHandler(payments, refunds)
}
