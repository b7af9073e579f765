package checkout

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/kiri/internal/cart"
	"github.com/example/kiri/internal/delivery"
	"github.com/example/kiri/internal/session"
)

func newTestSession(t *testing.T) *session.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return session.NewStore(rdb, time.Hour)
}

func zoneQuoter() *delivery.Quoter {
	return delivery.NewQuoter("zone", 11.5564, 104.9282)
}

func validInfo() CustomerInfo {
	return CustomerInfo{
		Name:  "Sokha",
		Email: "sokha@example.com",
		Phone: "+855 12 345 678",
		Address: Address{
			Province:     "12",
			ProvinceName: "Phnom Penh",
			District:     "1201",
			Commune:      "120101",
			Village:      "12010101",
			Street:       "St 310",
		},
	}
}

func TestStepClamping(t *testing.T) {
	w := &Wizard{Step: StepInfo}

	w.Back()
	assert.Equal(t, StepInfo, w.Step)

	w.Step = StepPayment
	w.Advance()
	assert.Equal(t, StepPayment, w.Step)

	w.Back()
	assert.Equal(t, StepReview, w.Step)
}

func TestSubmitInfoRejectsMissingFields(t *testing.T) {
	ctx := context.Background()
	w := Load(ctx, newTestSession(t), zoneQuoter(), "sid")

	err := w.SubmitInfo(ctx, CustomerInfo{Name: "Sokha", Email: "not-an-email", Phone: "012"})
	require.Error(t, err)
	assert.Equal(t, StepInfo, w.Step)
	assert.Nil(t, w.Info)
}

func TestSubmitInfoPersistsAndAdvances(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(t)
	w := Load(ctx, sess, zoneQuoter(), "sid")

	require.NoError(t, w.SubmitInfo(ctx, validInfo()))
	assert.Equal(t, StepItems, w.Step)

	var stored CustomerInfo
	ok, err := sess.Read(ctx, "sid", session.KeyCheckoutInfo, &stored)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Sokha", stored.Name)
}

func TestLoadInfersStepFromDocuments(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(t)
	q := zoneQuoter()

	w := Load(ctx, sess, q, "sid")
	assert.Equal(t, StepInfo, w.Step)

	require.NoError(t, w.SubmitInfo(ctx, validInfo()))
	assert.Equal(t, StepItems, Load(ctx, sess, q, "sid").Step)

	w.SubmitItems(ctx, ItemsPatch{Currency: "KHR", Subtotal: 20000})
	rehydrated := Load(ctx, sess, q, "sid")
	assert.Equal(t, StepReview, rehydrated.Step)
	require.NotNil(t, rehydrated.Summary)
	assert.Equal(t, 20000.0, rehydrated.Summary.Subtotal)
}

func TestSubmitItemsFillsDeliveryFeeAndTotal(t *testing.T) {
	ctx := context.Background()
	w := Load(ctx, newTestSession(t), zoneQuoter(), "sid")
	require.NoError(t, w.SubmitInfo(ctx, validInfo()))

	summary := w.SubmitItems(ctx, ItemsPatch{Currency: "KHR", Subtotal: 20000})

	assert.Equal(t, 3000.0, summary.DeliveryFee)
	assert.Equal(t, 23000.0, summary.Total)
	assert.Equal(t, StepReview, w.Step)
}

func TestSubmitItemsKeepsCallerValues(t *testing.T) {
	ctx := context.Background()
	w := Load(ctx, newTestSession(t), zoneQuoter(), "sid")
	require.NoError(t, w.SubmitInfo(ctx, validInfo()))

	fee := 0.0
	total := 20000.0
	summary := w.SubmitItems(ctx, ItemsPatch{Currency: "KHR", Subtotal: 20000, DeliveryFee: &fee, Total: &total})

	assert.Zero(t, summary.DeliveryFee)
	assert.Equal(t, 20000.0, summary.Total)
}

func TestDeliveryFeeWithoutInfo(t *testing.T) {
	ctx := context.Background()
	w := Load(ctx, newTestSession(t), zoneQuoter(), "sid")

	assert.Equal(t, delivery.RemoteFee, w.DeliveryFee())
}

func TestChangedProvinceClearsDescendants(t *testing.T) {
	ctx := context.Background()
	w := Load(ctx, newTestSession(t), zoneQuoter(), "sid")
	require.NoError(t, w.SubmitInfo(ctx, validInfo()))

	next := validInfo()
	next.Address.Province = "02"
	next.Address.ProvinceName = "Battambang"
	require.NoError(t, w.SubmitInfo(ctx, next))

	assert.Empty(t, w.Info.Address.District)
	assert.Empty(t, w.Info.Address.Commune)
	assert.Empty(t, w.Info.Address.Village)
}

func TestChangedDistrictClearsCommuneAndVillage(t *testing.T) {
	ctx := context.Background()
	w := Load(ctx, newTestSession(t), zoneQuoter(), "sid")
	require.NoError(t, w.SubmitInfo(ctx, validInfo()))

	next := validInfo()
	next.Address.District = "1202"
	require.NoError(t, w.SubmitInfo(ctx, next))

	assert.Equal(t, "1202", w.Info.Address.District)
	assert.Empty(t, w.Info.Address.Commune)
	assert.Empty(t, w.Info.Address.Village)
}

func TestConfirmPaymentResetsForNextOrder(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(t)
	w := Load(ctx, sess, zoneQuoter(), "sid")
	require.NoError(t, w.SubmitInfo(ctx, validInfo()))
	w.SubmitItems(ctx, ItemsPatch{Currency: "KHR", Subtotal: 20000})

	c := cart.Load(ctx, sess, "sid")
	c.Add(ctx, cart.Item{ProductID: "p1", VariantID: "250g", Price: 5, Qty: 1})

	payload := json.RawMessage(`{"orderNo":"#1001","status":"paid","total":23000}`)
	rec := w.ConfirmPayment(ctx, payload, c)

	assert.Equal(t, "#1001", rec.OrderNo)
	assert.Equal(t, "paid", rec.Status)
	assert.Empty(t, c.Items())
	assert.Nil(t, w.Summary)
	assert.Equal(t, StepInfo, w.Step)

	// Latest receipt document kept, summary gone, info survives.
	var raw json.RawMessage
	ok, err := sess.Read(ctx, "sid", session.KeyReceipt, &raw)
	require.NoError(t, err)
	assert.True(t, ok)

	var summary Summary
	ok, err = sess.Read(ctx, "sid", session.KeyCheckoutSummary, &summary)
	require.NoError(t, err)
	assert.False(t, ok)

	var info CustomerInfo
	ok, err = sess.Read(ctx, "sid", session.KeyCheckoutInfo, &info)
	require.NoError(t, err)
	assert.True(t, ok)
}
