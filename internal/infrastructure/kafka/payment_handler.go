package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/loanlens/assessment/internal/application/dto"
	"github.com/loanlens/assessment/internal/application/validation"
	"github.com/loanlens/assessment/internal/domain/valueobject"
	pkgkafka "github.com/loanlens/assessment/pkg/kafka"
)

// PaymentConfirmed is the payload of a payments.confirmed message.
type PaymentConfirmed struct {
	ApplicationID string          `json:"application_id"`
	PaymentID     string          `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// ReportUnlocker is satisfied by usecase.UnlockReportUseCase.
type ReportUnlocker interface {
	Execute(ctx context.Context, req dto.UnlockReportRequest) (dto.AssessmentResponse, error)
}

// NewPaymentHandler returns a consumer handler that unlocks reports for
// confirmed payments. Malformed messages and payments that can never apply
// are logged and acknowledged. Other failures are returned; the consumer
// retries them with backoff and dead-letters the message once retries run
// out, never committing past it.
func NewPaymentHandler(unlocker ReportUnlocker, logger *slog.Logger) pkgkafka.Handler {
	return func(ctx context.Context, msg pkgkafka.Message) error {
		var p PaymentConfirmed
		if err := json.Unmarshal(msg.Value, &p); err != nil {
			logger.WarnContext(ctx, "dropping malformed payment confirmation",
				"topic", msg.Topic, "error", err)
			return nil
		}

		_, err := unlocker.Execute(ctx, dto.UnlockReportRequest{
			ApplicationID: p.ApplicationID,
			PaymentID:     p.PaymentID,
			Amount:        p.Amount,
		})

		var verr *validation.Error
		switch {
		case err == nil:
			return nil
		case errors.As(err, &verr), errors.Is(err, valueobject.ErrInvalidStatusTransition):
			logger.WarnContext(ctx, "ignoring payment confirmation",
				"application_id", p.ApplicationID,
				"payment_id", p.PaymentID,
				"error", err,
			)
			return nil
		default:
			return fmt.Errorf("unlock report for application %s: %w", p.ApplicationID, err)
		}
	}
}
