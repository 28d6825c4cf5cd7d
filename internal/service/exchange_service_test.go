package service_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"currency-ledger/internal/apperrors"
	"currency-ledger/internal/domain"
	"currency-ledger/internal/service"
)

type ExchangeServiceTestSuite struct {
	suite.Suite
	provider *MockProvider
	service  service.ExchangeService
}

func (suite *ExchangeServiceTestSuite) SetupTest() {
	suite.provider = new(MockProvider)
	suite.service = service.NewExchangeService(suite.provider)
}

func (suite *ExchangeServiceTestSuite) TestConvert_Success() {
	ctx := context.Background()
	suite.provider.On("Pair", ctx, "USD", "EUR", 100.0).Return(&domain.PairQuote{
		From:            "USD",
		To:              "EUR",
		Amount:          100,
		ConvertedAmount: 92.0,
		Rate:            0.92,
	}, nil).Once()

	record, err := suite.service.Convert(ctx, "usd", " EUR ", 100)

	suite.Require().NoError(err)
	suite.Equal("USD", record.FromCurrency)
	suite.Equal("EUR", record.ToCurrency)
	suite.Equal(100.0, record.Amount)
	suite.InDelta(92.0, record.ConvertedAmount, 1e-9)
	suite.Equal(0.92, record.Rate)
	suite.False(record.Timestamp.IsZero())
	suite.Zero(record.Seq)
	suite.provider.AssertExpectations(suite.T())
}

func (suite *ExchangeServiceTestSuite) TestConvert_UsesProviderResultVerbatim() {
	ctx := context.Background()
	// provider rounding differs from amount*rate; the provider's figure is kept.
	suite.provider.On("Pair", ctx, "USD", "JPY", 3.0).Return(&domain.PairQuote{
		From: "USD", To: "JPY", Amount: 3, ConvertedAmount: 452.1, Rate: 150.6789,
	}, nil).Once()

	record, err := suite.service.Convert(ctx, "USD", "JPY", 3)

	suite.Require().NoError(err)
	suite.Equal(452.1, record.ConvertedAmount)
	suite.Equal(150.6789, record.Rate)
}

func (suite *ExchangeServiceTestSuite) TestConvert_InvalidInputNeverCallsProvider() {
	ctx := context.Background()
	cases := []struct {
		from, to string
		amount   float64
	}{
		{"", "EUR", 10},
		{"USD", "  ", 10},
		{"USD", "EUR", 0},
		{"USD", "EUR", -5},
		{"USD", "EUR", math.NaN()},
		{"USD", "EUR", math.Inf(1)},
	}
	for _, c := range cases {
		_, err := suite.service.Convert(ctx, c.from, c.to, c.amount)
		suite.ErrorIs(err, apperrors.ErrInvalidInput, fmt.Sprintf("%+v", c))
	}
	suite.provider.AssertNotCalled(suite.T(), "Pair", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeServiceTestSuite) TestConvert_PropagatesProviderErrors() {
	ctx := context.Background()
	for _, kind := range []error{apperrors.ErrProviderRejected, apperrors.ErrProviderUnavailable, apperrors.ErrProviderMalformed} {
		provider := new(MockProvider)
		svc := service.NewExchangeService(provider)
		provider.On("Pair", ctx, "USD", "XXX", 10.0).Return(nil, fmt.Errorf("pair [USD->XXX]: %w", kind)).Once()

		_, err := svc.Convert(ctx, "USD", "XXX", 10)

		suite.ErrorIs(err, kind)
		provider.AssertNumberOfCalls(suite.T(), "Pair", 1)
	}
}

func (suite *ExchangeServiceTestSuite) TestRates_DefaultsToUSD() {
	ctx := context.Background()
	snapshot := &domain.RateSnapshot{Base: "USD", Rates: map[string]float64{"EUR": 0.92}}
	suite.provider.On("Latest", ctx, "USD").Return(snapshot, nil).Once()

	got, err := suite.service.Rates(ctx, "")

	suite.Require().NoError(err)
	suite.Same(snapshot, got)
}

func (suite *ExchangeServiceTestSuite) TestSupportedCurrencies_SortedByCode() {
	ctx := context.Background()
	suite.provider.On("SupportedCurrencies", ctx).Return([]domain.Currency{
		{Code: "USD", Name: "United States Dollar"},
		{Code: "AED", Name: "UAE Dirham"},
	}, nil).Once()

	currencies, err := suite.service.SupportedCurrencies(ctx)

	suite.Require().NoError(err)
	suite.Equal("AED", currencies[0].Code)
	suite.Equal("USD", currencies[1].Code)
}

func TestExchangeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeServiceTestSuite))
}
