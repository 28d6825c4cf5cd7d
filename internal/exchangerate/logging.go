package exchangerate

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"currency-ledger/internal/domain"
)

// loggingProvider decorates a Provider with logging.
type loggingProvider struct {
	next   Provider
	logger logrus.FieldLogger
}

// NewLoggingProvider returns a Provider that logs every call made to next.
func NewLoggingProvider(logger logrus.FieldLogger, next Provider) Provider {
	return &loggingProvider{
		next:   next,
		logger: logger,
	}
}

func (p *loggingProvider) Latest(ctx context.Context, base string) (snapshot *domain.RateSnapshot, err error) {
	defer func(begin time.Time) {
		p.log(begin, err, logrus.Fields{"method": "latest", "base": base})
	}(time.Now())
	return p.next.Latest(ctx, base)
}

func (p *loggingProvider) Pair(ctx context.Context, from, to string, amount float64) (quote *domain.PairQuote, err error) {
	defer func(begin time.Time) {
		fields := logrus.Fields{"method": "pair", "from": from, "to": to, "amount": amount}
		if quote != nil {
			fields["rate"] = quote.Rate
			fields["converted_amount"] = quote.ConvertedAmount
		}
		p.log(begin, err, fields)
	}(time.Now())
	return p.next.Pair(ctx, from, to, amount)
}

func (p *loggingProvider) SupportedCurrencies(ctx context.Context) (currencies []domain.Currency, err error) {
	defer func(begin time.Time) {
		p.log(begin, err, logrus.Fields{"method": "codes", "count": len(currencies)})
	}(time.Now())
	return p.next.SupportedCurrencies(ctx)
}

func (p *loggingProvider) log(begin time.Time, err error, fields logrus.Fields) {
	entry := p.logger.WithFields(fields).WithField("took", time.Since(begin))
	switch {
	case err == nil:
		entry.Debug("rate provider call")
	case IsProviderError(err):
		entry.WithError(err).Warn("rate provider call failed")
	default:
		entry.WithError(err).Debug("rate provider call rejected locally")
	}
}
