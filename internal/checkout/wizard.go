// Package checkout implements the four-step checkout wizard: customer info,
// item review, order review, payment. Steps advance linearly with floor and
// ceiling clamping; partial state persists to the session store so a
// returning client resumes mid-wizard.
package checkout

import (
	"context"
	"encoding/json"
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/example/kiri/internal/cart"
	"github.com/example/kiri/internal/delivery"
	"github.com/example/kiri/internal/receipt"
	"github.com/example/kiri/internal/session"
)

// Wizard steps. Receipt is a terminal view outside the step range.
const (
	StepInfo    = 1
	StepItems   = 2
	StepReview  = 3
	StepPayment = 4
)

var validate = validator.New()

// Address holds the selected administrative-area codes plus display names.
// Codes reference the geo reference data.
type Address struct {
	Province     string `json:"province"`
	District     string `json:"district"`
	Commune      string `json:"commune"`
	Village      string `json:"village"`
	Street       string `json:"street"`
	ProvinceName string `json:"provinceName,omitempty"`
	DistrictName string `json:"districtName,omitempty"`
	CommuneName  string `json:"communeName,omitempty"`
	VillageName  string `json:"villageName,omitempty"`
	Gmaps        string `json:"gmaps,omitempty"`
}

// CustomerInfo is the step-1 form, persisted verbatim. Only required-field
// validation is applied; a partially selected address is allowed through.
type CustomerInfo struct {
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Phone          string  `json:"phone" validate:"required"`
	DeliveryMethod string  `json:"deliveryMethod,omitempty"`
	Address        Address `json:"address"`
	Note           string  `json:"note,omitempty"`
}

// Summary is the step-2 output: cart totals plus the delivery fee, computed
// once when the step completes and not recomputed afterward.
type Summary struct {
	Items       []cart.Item `json:"items,omitempty"`
	Currency    string      `json:"currency"`
	Subtotal    float64     `json:"subtotal"`
	DeliveryFee float64     `json:"deliveryFee"`
	Total       float64     `json:"total"`
}

// ItemsPatch is the caller-supplied step-2 completion payload. A nil
// DeliveryFee is filled from the fee quoter; a nil Total is computed as
// subtotal plus delivery fee.
type ItemsPatch struct {
	Items       []cart.Item `json:"items,omitempty"`
	Currency    string      `json:"currency"`
	Subtotal    float64     `json:"subtotal"`
	DeliveryFee *float64    `json:"deliveryFee"`
	Total       *float64    `json:"total"`
}

// Wizard drives one session's checkout.
type Wizard struct {
	sess   *session.Store
	quoter *delivery.Quoter
	sid    string

	Step    int
	Info    *CustomerInfo
	Summary *Summary
}

// Load rehydrates wizard state from the session store. The current step is
// inferred from which documents exist.
func Load(ctx context.Context, sess *session.Store, quoter *delivery.Quoter, sessionID string) *Wizard {
	w := &Wizard{sess: sess, quoter: quoter, sid: sessionID, Step: StepInfo}

	var info CustomerInfo
	if ok, err := sess.Read(ctx, sessionID, session.KeyCheckoutInfo, &info); err != nil {
		log.Printf("[Checkout] rehydrate info failed for session %s: %v", sessionID, err)
	} else if ok {
		w.Info = &info
		w.Step = StepItems
	}

	var summary Summary
	if ok, err := sess.Read(ctx, sessionID, session.KeyCheckoutSummary, &summary); err != nil {
		log.Printf("[Checkout] rehydrate summary failed for session %s: %v", sessionID, err)
	} else if ok {
		w.Summary = &summary
		if w.Info != nil {
			w.Step = StepReview
		}
	}

	return w
}

// Back moves one step back, clamped at the first step.
func (w *Wizard) Back() {
	if w.Step > StepInfo {
		w.Step--
	}
}

// Advance moves one step forward, clamped at the payment step.
func (w *Wizard) Advance() {
	if w.Step < StepPayment {
		w.Step++
	}
}

// DeliveryFee quotes the fee for the currently captured address. Without
// info the quoter degrades to the non-urban rate rather than rejecting.
func (w *Wizard) DeliveryFee() int {
	if w.Info == nil {
		return w.quoter.Quote("", "", "")
	}

	province := w.Info.Address.ProvinceName
	if province == "" {
		province = w.Info.Address.Province
	}
	return w.quoter.Quote(w.Info.Address.Province, province, w.Info.DeliveryMethod)
}

// SubmitInfo validates required fields, persists the form verbatim and
// advances to the items step. When a parent administrative level changed
// against the previously captured address, descendant selections are
// cleared.
func (w *Wizard) SubmitInfo(ctx context.Context, info CustomerInfo) error {
	if err := validate.Struct(info); err != nil {
		return err
	}

	if w.Info != nil {
		clearDescendants(&info.Address, w.Info.Address)
	}

	w.Info = &info
	if err := w.sess.Write(ctx, w.sid, session.KeyCheckoutInfo, info); err != nil {
		log.Printf("[Checkout] persist info failed for session %s: %v", w.sid, err)
	}

	w.Step = StepItems
	return nil
}

// SubmitItems merges the step-2 patch into a Summary, persists it and
// advances to review.
func (w *Wizard) SubmitItems(ctx context.Context, patch ItemsPatch) Summary {
	fee := float64(w.DeliveryFee())
	if patch.DeliveryFee != nil {
		fee = *patch.DeliveryFee
	}

	total := patch.Subtotal + fee
	if patch.Total != nil {
		total = *patch.Total
	}

	summary := Summary{
		Items:       patch.Items,
		Currency:    patch.Currency,
		Subtotal:    patch.Subtotal,
		DeliveryFee: fee,
		Total:       total,
	}

	w.Summary = &summary
	if err := w.sess.Write(ctx, w.sid, session.KeyCheckoutSummary, summary); err != nil {
		log.Printf("[Checkout] persist summary failed for session %s: %v", w.sid, err)
	}

	w.Step = StepReview
	return summary
}

// ConfirmPayment records the backend's order/receipt payload as the latest
// receipt, clears the cart and resets the wizard for the next order. The
// receipts history document is maintained by the orders surface, not here.
func (w *Wizard) ConfirmPayment(ctx context.Context, payload json.RawMessage, c *cart.Store) receipt.Receipt {
	if err := w.sess.Write(ctx, w.sid, session.KeyReceipt, payload); err != nil {
		log.Printf("[Checkout] persist receipt failed for session %s: %v", w.sid, err)
	}

	c.Clear(ctx)

	if err := w.sess.Remove(ctx, w.sid, session.KeyCheckoutSummary); err != nil {
		log.Printf("[Checkout] remove summary failed for session %s: %v", w.sid, err)
	}
	w.Summary = nil
	w.Step = StepInfo

	return receipt.Normalize(payload)
}

// clearDescendants wipes selections below the highest administrative level
// that changed: a new province clears district, commune and village; a new
// district clears commune and village; a new commune clears the village.
func clearDescendants(next *Address, prev Address) {
	switch {
	case next.Province != prev.Province:
		next.District, next.DistrictName = "", ""
		fallthrough
	case next.District != prev.District:
		next.Commune, next.CommuneName = "", ""
		fallthrough
	case next.Commune != prev.Commune:
		next.Village, next.VillageName = "", ""
	}
}
