package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fenrir/contracts"
	"fenrir/domain"
	"fenrir/engine"
	"fenrir/pricing"
)

const contractCode = domain.ContractCode("UK-BL-MAR-25")

func newTestEngine(t *testing.T) *engine.MatchingEngine {
	t.Helper()
	e := engine.New(contracts.DefaultRegistry())
	require.NoError(t, e.Start([]domain.ContractCode{contractCode}))
	t.Cleanup(func() { require.NoError(t, e.Stop()) })
	return e
}

func limit(t *testing.T, side domain.Side, price, qty string) engine.SubmitRequest {
	t.Helper()
	p, err := pricing.NewPriceFromString(price)
	require.NoError(t, err)
	q, err := pricing.NewQuantityFromString(qty)
	require.NoError(t, err)
	return engine.SubmitRequest{
		ContractId: contractCode,
		TraderId:   domain.NewTraderId(),
		Side:       side,
		Type:       domain.LimitOrder,
		Price:      p,
		HasPrice:   true,
		Quantity:   q,
	}
}

func market(t *testing.T, side domain.Side, qty string) engine.SubmitRequest {
	t.Helper()
	q, err := pricing.NewQuantityFromString(qty)
	require.NoError(t, err)
	return engine.SubmitRequest{
		ContractId: contractCode,
		TraderId:   domain.NewTraderId(),
		Side:       side,
		Type:       domain.MarketOrder,
		Quantity:   q,
	}
}

func TestS1ExactMatch(t *testing.T) {
	e := newTestEngine(t)

	buyID, trades, err := e.Submit(limit(t, domain.Buy, "100.00", "10"))
	require.Nil(t, err)
	assert.Empty(t, trades)

	sellID, trades, err := e.Submit(limit(t, domain.Sell, "100.00", "10"))
	require.Nil(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "100.00", trades[0].Price.String())
	assert.Equal(t, "10.00", trades[0].Quantity.String())

	buyOrder, err := e.GetOrder(contractCode, buyID)
	require.Nil(t, err)
	assert.Equal(t, domain.Filled, buyOrder.Status)
	assert.True(t, buyOrder.RemainingQuantity.IsZero())

	sellOrder, err := e.GetOrder(contractCode, sellID)
	require.Nil(t, err)
	assert.Equal(t, domain.Filled, sellOrder.Status)
	assert.True(t, sellOrder.RemainingQuantity.IsZero())
}

func TestS2PartialFillOfRestingBuy(t *testing.T) {
	e := newTestEngine(t)

	buyID, _, err := e.Submit(limit(t, domain.Buy, "100.00", "10"))
	require.Nil(t, err)

	sellID, trades, err := e.Submit(limit(t, domain.Sell, "100.00", "5"))
	require.Nil(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "5.00", trades[0].Quantity.String())

	buyOrder, err := e.GetOrder(contractCode, buyID)
	require.Nil(t, err)
	assert.Equal(t, domain.PartiallyFilled, buyOrder.Status)
	assert.Equal(t, "5.00", buyOrder.RemainingQuantity.String())

	sellOrder, err := e.GetOrder(contractCode, sellID)
	require.Nil(t, err)
	assert.Equal(t, domain.Filled, sellOrder.Status)
}

func TestS3MarketBuySweep(t *testing.T) {
	e := newTestEngine(t)

	sell1ID, _, err := e.Submit(limit(t, domain.Sell, "100.00", "5"))
	require.Nil(t, err)
	sell2ID, _, err := e.Submit(limit(t, domain.Sell, "101.00", "5"))
	require.Nil(t, err)

	buyID, trades, err := e.Submit(market(t, domain.Buy, "7"))
	require.Nil(t, err)
	require.Len(t, trades, 2)

	assert.Equal(t, "5.00", trades[0].Quantity.String())
	assert.Equal(t, "100.00", trades[0].Price.String())
	assert.Equal(t, "2.00", trades[1].Quantity.String())
	assert.Equal(t, "101.00", trades[1].Price.String())

	buyOrder, err := e.GetOrder(contractCode, buyID)
	require.Nil(t, err)
	assert.Equal(t, domain.Filled, buyOrder.Status)

	sell1, err := e.GetOrder(contractCode, sell1ID)
	require.Nil(t, err)
	assert.Equal(t, domain.Filled, sell1.Status)

	sell2, err := e.GetOrder(contractCode, sell2ID)
	require.Nil(t, err)
	assert.Equal(t, domain.PartiallyFilled, sell2.Status)
	assert.Equal(t, "3.00", sell2.RemainingQuantity.String())
}

func TestS4PriceGuardPreventsMatch(t *testing.T) {
	e := newTestEngine(t)

	sellID, _, err := e.Submit(limit(t, domain.Sell, "100.00", "5"))
	require.Nil(t, err)
	buyID, trades, err := e.Submit(limit(t, domain.Buy, "99.00", "5"))
	require.Nil(t, err)
	assert.Empty(t, trades)

	sellOrder, err := e.GetOrder(contractCode, sellID)
	require.Nil(t, err)
	assert.Equal(t, domain.Open, sellOrder.Status)
	assert.True(t, sellOrder.IsResting())

	buyOrder, err := e.GetOrder(contractCode, buyID)
	require.Nil(t, err)
	assert.Equal(t, domain.Open, buyOrder.Status)
	assert.True(t, buyOrder.IsResting())
}

func TestS5TimePriorityAtEqualPrice(t *testing.T) {
	e := newTestEngine(t)

	earlierID, _, err := e.Submit(limit(t, domain.Sell, "100.00", "5"))
	require.Nil(t, err)
	laterID, _, err := e.Submit(limit(t, domain.Sell, "100.00", "5"))
	require.Nil(t, err)

	_, trades, err := e.Submit(market(t, domain.Buy, "7"))
	require.Nil(t, err)
	require.Len(t, trades, 2)

	assert.Equal(t, earlierID, trades[0].SellOrderId)
	assert.Equal(t, "5.00", trades[0].Quantity.String())
	assert.Equal(t, laterID, trades[1].SellOrderId)
	assert.Equal(t, "2.00", trades[1].Quantity.String())

	earlier, err := e.GetOrder(contractCode, earlierID)
	require.Nil(t, err)
	assert.Equal(t, domain.Filled, earlier.Status)

	later, err := e.GetOrder(contractCode, laterID)
	require.Nil(t, err)
	assert.Equal(t, domain.PartiallyFilled, later.Status)
	assert.Equal(t, "3.00", later.RemainingQuantity.String())
}

func TestS6UnfilledMarketRemainder(t *testing.T) {
	e := newTestEngine(t)

	id, trades, err := e.Submit(market(t, domain.Buy, "10"))
	require.Nil(t, err)
	assert.Empty(t, trades)

	order, err := e.GetOrder(contractCode, id)
	require.Nil(t, err)
	assert.Equal(t, domain.Cancelled, order.Status)
	assert.Equal(t, domain.CancelReasonUnfilledMarket, order.CancelReason)
	assert.False(t, order.IsResting())
}

func TestCancelIsIdempotentInEffect(t *testing.T) {
	e := newTestEngine(t)

	id, _, err := e.Submit(limit(t, domain.Buy, "100.00", "5"))
	require.Nil(t, err)

	_, cancelErr := e.Cancel(contractCode, id)
	require.Nil(t, cancelErr)

	_, cancelErr = e.Cancel(contractCode, id)
	require.NotNil(t, cancelErr)
	assert.Equal(t, engine.KindNotResting, cancelErr.Kind)
}

func TestSubmitRejectsUnknownContract(t *testing.T) {
	e := newTestEngine(t)

	req := limit(t, domain.Buy, "100.00", "5")
	req.ContractId = "NOT-A-CONTRACT"
	_, _, err := e.Submit(req)
	require.NotNil(t, err)
	assert.Equal(t, engine.KindUnknownContract, err.Kind)
}

func TestSubmitRejectsBadQuantity(t *testing.T) {
	e := newTestEngine(t)

	req := limit(t, domain.Buy, "100.00", "0")
	_, _, err := e.Submit(req)
	require.NotNil(t, err)
	assert.Equal(t, engine.KindBadQuantity, err.Kind)
}

func TestSubmitRejectsNonTickAlignedPrice(t *testing.T) {
	e := newTestEngine(t)

	req := limit(t, domain.Buy, "100.005", "5")
	_, _, err := e.Submit(req)
	require.NotNil(t, err)
	assert.Equal(t, engine.KindBadPrice, err.Kind)
}

func TestSubmitRejectsPriceOnMarketOrder(t *testing.T) {
	e := newTestEngine(t)

	req := market(t, domain.Buy, "5")
	req.HasPrice = true
	req.Price = pricing.NewPriceFromFloat(100)
	_, _, err := e.Submit(req)
	require.NotNil(t, err)
	assert.Equal(t, engine.KindBadPrice, err.Kind)
}

func TestConservationOfQuantity(t *testing.T) {
	e := newTestEngine(t)

	sellID, _, err := e.Submit(limit(t, domain.Sell, "100.00", "10"))
	require.Nil(t, err)
	buyID, trades, err := e.Submit(limit(t, domain.Buy, "100.00", "4"))
	require.Nil(t, err)
	require.Len(t, trades, 1)

	sellOrder, err := e.GetOrder(contractCode, sellID)
	require.Nil(t, err)

	sellTrades, err := e.GetTradesForOrder(contractCode, sellID)
	require.Nil(t, err)
	var filled pricing.Quantity
	for _, tr := range sellTrades {
		filled = filled.Add(tr.Quantity)
	}
	assert.True(t, sellOrder.Quantity.Equal(sellOrder.RemainingQuantity.Add(filled)))

	buyTrades, err := e.GetTradesForOrder(contractCode, buyID)
	require.Nil(t, err)
	assert.Len(t, buyTrades, 1)
}

func TestGetOrdersFiltersBySide(t *testing.T) {
	e := newTestEngine(t)

	_, _, err := e.Submit(limit(t, domain.Buy, "99.00", "5"))
	require.Nil(t, err)
	_, _, err = e.Submit(limit(t, domain.Sell, "101.00", "5"))
	require.Nil(t, err)

	buySide := domain.Buy
	orders, gErr := e.GetOrders(contractCode, engine.OrderFilter{Side: &buySide}, engine.Page{})
	require.Nil(t, gErr)
	require.Len(t, orders, 1)
	assert.Equal(t, domain.Buy, orders[0].Side)
}
