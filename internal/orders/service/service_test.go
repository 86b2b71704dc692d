package service

import (
	"context"
	"testing"
	"time"

	"procurement_backend/internal/events"
	"procurement_backend/internal/orders/domain"
	"procurement_backend/internal/orders/repository"
	payablesrepo "procurement_backend/internal/payables/repository"
	payablessvc "procurement_backend/internal/payables/service"
	reqdomain "procurement_backend/internal/requests/domain"
	reqrepo "procurement_backend/internal/requests/repository"
	reqsvc "procurement_backend/internal/requests/service"
	"procurement_backend/platform/apperr"
	"procurement_backend/platform/logger"

	"github.com/google/uuid"
)

// ── fakes ─────────────────────────────────────────────────────────────────────

type fakeOrderRepo struct {
	byID map[uuid.UUID]*domain.PurchaseOrder
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{byID: make(map[uuid.UUID]*domain.PurchaseOrder)}
}

func (f *fakeOrderRepo) Create(_ context.Context, order *domain.PurchaseOrder) error {
	for _, existing := range f.byID {
		if existing.RfqItemID == order.RfqItemID && existing.Status != domain.OrderStatusCanceled {
			return apperr.Conflict("an active purchase order already exists for this rfq item")
		}
	}
	cp := *order
	f.byID[order.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	order, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("purchase order not found")
	}
	cp := *order
	return &cp, nil
}

func (f *fakeOrderRepo) Save(_ context.Context, order *domain.PurchaseOrder) error {
	cp := *order
	f.byID[order.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) HasActiveOrderForRfqItem(_ context.Context, rfqItemID uuid.UUID) (bool, error) {
	for _, order := range f.byID {
		if order.RfqItemID == rfqItemID && order.Status != domain.OrderStatusCanceled {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOrderRepo) List(_ context.Context, _ repository.ListParams) (repository.ListResult, error) {
	return repository.ListResult{}, nil
}

type fakeRequestRepo struct {
	byID map[uuid.UUID]*reqdomain.PurchaseRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{byID: make(map[uuid.UUID]*reqdomain.PurchaseRequest)}
}

func (f *fakeRequestRepo) clone(pr *reqdomain.PurchaseRequest) *reqdomain.PurchaseRequest {
	cp := *pr
	cp.Items = append([]reqdomain.RfqItem(nil), pr.Items...)
	return &cp
}

func (f *fakeRequestRepo) Create(_ context.Context, pr *reqdomain.PurchaseRequest) error {
	f.byID[pr.ID] = f.clone(pr)
	return nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id uuid.UUID) (*reqdomain.PurchaseRequest, error) {
	pr, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("purchase request not found")
	}
	return f.clone(pr), nil
}

func (f *fakeRequestRepo) GetByRfqItemID(_ context.Context, itemID uuid.UUID) (*reqdomain.PurchaseRequest, error) {
	for _, pr := range f.byID {
		for idx := range pr.Items {
			if pr.Items[idx].ID == itemID {
				return f.clone(pr), nil
			}
		}
	}
	return nil, apperr.NotFound("purchase request not found for rfq item")
}

func (f *fakeRequestRepo) Save(_ context.Context, pr *reqdomain.PurchaseRequest) error {
	f.byID[pr.ID] = f.clone(pr)
	return nil
}

func (f *fakeRequestRepo) List(_ context.Context, _ reqrepo.ListParams) (reqrepo.ListResult, error) {
	return reqrepo.ListResult{}, nil
}

type fakePayablesRepo struct {
	byOrder map[uuid.UUID]*payablesrepo.AccountsPayable
	creates int
}

func newFakePayablesRepo() *fakePayablesRepo {
	return &fakePayablesRepo{byOrder: make(map[uuid.UUID]*payablesrepo.AccountsPayable)}
}

func (f *fakePayablesRepo) Create(_ context.Context, ap *payablesrepo.AccountsPayable) error {
	f.creates++
	f.byOrder[ap.PurchaseOrderID] = ap
	return nil
}

func (f *fakePayablesRepo) ExistsForOrder(_ context.Context, orderID uuid.UUID) (bool, error) {
	_, ok := f.byOrder[orderID]
	return ok, nil
}

func (f *fakePayablesRepo) GetByOrderID(_ context.Context, orderID uuid.UUID) (*payablesrepo.AccountsPayable, error) {
	return f.byOrder[orderID], nil
}

func (f *fakePayablesRepo) List(_ context.Context, _ payablesrepo.ListParams) (payablesrepo.ListResult, error) {
	return payablesrepo.ListResult{}, nil
}

type fakeTxManager struct{}

func (fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSequence struct{ n int }

func (f *fakeSequence) Next(_ context.Context, _ string) (int, error) {
	f.n++
	return f.n, nil
}

type fakeCatalog struct{}

func (fakeCatalog) VendorActive(_ context.Context, _ uuid.UUID) (bool, error)          { return true, nil }
func (fakeCatalog) MaterialExists(_ context.Context, _ uuid.UUID) (bool, error)        { return true, nil }
func (fakeCatalog) ServiceCategoryExists(_ context.Context, _ uuid.UUID) (bool, error) { return true, nil }

// ── fixture ───────────────────────────────────────────────────────────────────

// fixture wires the full orchestration topology: the orders service, a
// requests service consuming order cancellations, and a payables service
// consuming order confirmations, all over one in-memory bus.
type fixture struct {
	svc      *Service
	requests *reqsvc.Service
	orders   *fakeOrderRepo
	reqRepo  *fakeRequestRepo
	payables *fakePayablesRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.New("test")
	bus := events.NewInMemoryBus(log)

	reqRepo := newFakeRequestRepo()
	orders := newFakeOrderRepo()
	payables := newFakePayablesRepo()

	requests := reqsvc.New(reqRepo, fakeTxManager{}, &fakeSequence{}, fakeCatalog{}, bus, log, 0)
	paySvc := payablessvc.New(payables, log)
	svc := New(orders, reqRepo, fakeTxManager{}, &fakeSequence{}, bus, log, "EUR")

	bus.Subscribe(events.PurchaseOrderCanceled{}.EventName(), events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		return requests.HandleOrderCanceled(ctx, e.(events.PurchaseOrderCanceled))
	}))
	bus.Subscribe(events.PurchaseOrderConfirmed{}.EventName(), events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		return paySvc.HandleOrderConfirmed(ctx, e.(events.PurchaseOrderConfirmed))
	}))

	return &fixture{svc: svc, requests: requests, orders: orders, reqRepo: reqRepo, payables: payables}
}

// selectedRequest drives a request through reply and selection and returns
// the request plus the winning and rejected item ids.
func (fx *fixture) selectedRequest(t *testing.T) (prID, winner, loser uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	materialID := uuid.New()
	pr, err := fx.requests.Create(ctx, reqsvc.CreateParams{
		Kind:        reqdomain.RequestKindMaterial,
		MaterialID:  &materialID,
		Description: "steel beams",
		Quantity:    40,
		Unit:        "pcs",
		RequestedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	sent, err := fx.requests.SendRfq(ctx, pr.ID, []uuid.UUID{uuid.New(), uuid.New()})
	if err != nil {
		t.Fatalf("send rfq: %v", err)
	}
	winner, loser = sent.Items[0].ID, sent.Items[1].ID

	lead := 7
	if _, err := fx.requests.RecordRfqReply(ctx, pr.ID, winner, 100000, &lead, nil); err != nil {
		t.Fatalf("reply winner: %v", err)
	}
	lead2 := 10
	if _, err := fx.requests.RecordRfqReply(ctx, pr.ID, loser, 80000, &lead2, nil); err != nil {
		t.Fatalf("reply loser: %v", err)
	}
	if _, err := fx.requests.RejectRfq(ctx, pr.ID, loser); err != nil {
		t.Fatalf("reject loser: %v", err)
	}
	if _, err := fx.requests.SelectVendor(ctx, pr.ID, winner); err != nil {
		t.Fatalf("select winner: %v", err)
	}
	return pr.ID, winner, loser
}

func (fx *fixture) createOrder(t *testing.T, rfqItemID uuid.UUID) *domain.PurchaseOrder {
	t.Helper()
	order, err := fx.svc.Create(context.Background(), CreateParams{
		RfqItemID:            rfqItemID,
		OrderDate:            time.Now(),
		ExpectedDeliveryDate: time.Now().AddDate(0, 0, 14),
		CreatedBy:            uuid.New(),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func (fx *fixture) request(t *testing.T, id uuid.UUID) *reqdomain.PurchaseRequest {
	t.Helper()
	pr, err := fx.reqRepo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("load request: %v", err)
	}
	return pr
}

func itemStatus(t *testing.T, pr *reqdomain.PurchaseRequest, itemID uuid.UUID) reqdomain.RfqItemStatus {
	t.Helper()
	item, err := pr.ItemByID(itemID)
	if err != nil {
		t.Fatalf("item %s not found", itemID)
	}
	return item.Status
}

// ── tests ─────────────────────────────────────────────────────────────────────

func TestCreateOrderFromSelectedItem(t *testing.T) {
	fx := newFixture(t)
	prID, winner, _ := fx.selectedRequest(t)

	order := fx.createOrder(t, winner)

	if order.Status != domain.OrderStatusDraft {
		t.Errorf("order status = %s, want DRAFT", order.Status)
	}
	if order.TotalAmountCents != 100000 {
		t.Errorf("total = %d, want snapshot 100000", order.TotalAmountCents)
	}
	if order.OrderNumber == "" {
		t.Error("expected an allocated order number")
	}

	pr := fx.request(t, prID)
	if pr.Status != reqdomain.RequestStatusOrdered {
		t.Errorf("request status = %s, want ORDERED", pr.Status)
	}
}

func TestCreateOrderSelectsRepliedItem(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	materialID := uuid.New()
	pr, err := fx.requests.Create(ctx, reqsvc.CreateParams{
		Kind:        reqdomain.RequestKindMaterial,
		MaterialID:  &materialID,
		Description: "cables",
		Quantity:    100,
		Unit:        "m",
		RequestedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	sent, err := fx.requests.SendRfq(ctx, pr.ID, []uuid.UUID{uuid.New()})
	if err != nil {
		t.Fatalf("send rfq: %v", err)
	}
	itemID := sent.Items[0].ID
	if _, err := fx.requests.RecordRfqReply(ctx, pr.ID, itemID, 55000, nil, nil); err != nil {
		t.Fatalf("reply: %v", err)
	}

	// No explicit selectVendor: creating the order from a REPLIED item
	// performs the selection on the way.
	fx.createOrder(t, itemID)

	got := fx.request(t, pr.ID)
	if got.Status != reqdomain.RequestStatusOrdered {
		t.Errorf("request status = %s, want ORDERED", got.Status)
	}
	if itemStatus(t, got, itemID) != reqdomain.RfqItemStatusSelected {
		t.Error("expected the item to be SELECTED")
	}
}

func TestCreateOrderRejectsUnquotedItem(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	materialID := uuid.New()
	pr, err := fx.requests.Create(ctx, reqsvc.CreateParams{
		Kind:        reqdomain.RequestKindMaterial,
		MaterialID:  &materialID,
		Description: "paint",
		Quantity:    10,
		Unit:        "l",
		RequestedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	sent, err := fx.requests.SendRfq(ctx, pr.ID, []uuid.UUID{uuid.New()})
	if err != nil {
		t.Fatalf("send rfq: %v", err)
	}

	_, err = fx.svc.Create(ctx, CreateParams{
		RfqItemID:            sent.Items[0].ID,
		OrderDate:            time.Now(),
		ExpectedDeliveryDate: time.Now().AddDate(0, 0, 7),
		CreatedBy:            uuid.New(),
	})
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict for SENT item, got %v", err)
	}
}

func TestCreateSecondOrderForSameItemFails(t *testing.T) {
	fx := newFixture(t)
	_, winner, _ := fx.selectedRequest(t)

	fx.createOrder(t, winner)

	_, err := fx.svc.Create(context.Background(), CreateParams{
		RfqItemID:            winner,
		OrderDate:            time.Now(),
		ExpectedDeliveryDate: time.Now().AddDate(0, 0, 7),
		CreatedBy:            uuid.New(),
	})
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict for duplicate order, got %v", err)
	}
}

func TestConfirmCreatesExactlyOnePayable(t *testing.T) {
	fx := newFixture(t)
	_, winner, _ := fx.selectedRequest(t)
	order := fx.createOrder(t, winner)
	ctx := context.Background()

	if _, err := fx.svc.Send(ctx, order.ID); err != nil {
		t.Fatalf("send: %v", err)
	}
	confirmed, err := fx.svc.Confirm(ctx, order.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != domain.OrderStatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", confirmed.Status)
	}

	ap := fx.payables.byOrder[order.ID]
	if ap == nil {
		t.Fatal("expected an accounts payable for the confirmed order")
	}
	if ap.TotalAmountCents != order.TotalAmountCents || ap.OrderNumber != order.OrderNumber {
		t.Error("payable does not mirror the confirmed order")
	}
	if fx.payables.creates != 1 {
		t.Fatalf("payable creates = %d, want 1", fx.payables.creates)
	}

	// A duplicate confirmation attempt is an illegal transition and must
	// not create a second payable.
	if _, err := fx.svc.Confirm(ctx, order.ID); apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict on double confirm, got %v", err)
	}
	if fx.payables.creates != 1 {
		t.Fatalf("payable creates after retry = %d, want 1", fx.payables.creates)
	}
}

func TestCancelRevertsRequest(t *testing.T) {
	fx := newFixture(t)
	prID, winner, loser := fx.selectedRequest(t)
	order := fx.createOrder(t, winner)
	ctx := context.Background()

	canceled, err := fx.svc.Cancel(ctx, order.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if canceled.Status != domain.OrderStatusCanceled {
		t.Errorf("order status = %s, want CANCELED", canceled.Status)
	}

	pr := fx.request(t, prID)
	if pr.Status != reqdomain.RequestStatusRfqSent {
		t.Errorf("request status = %s, want RFQ_SENT", pr.Status)
	}
	if itemStatus(t, pr, winner) != reqdomain.RfqItemStatusReplied {
		t.Error("expected the formerly selected item to be REPLIED")
	}
	if itemStatus(t, pr, loser) != reqdomain.RfqItemStatusReplied {
		t.Error("expected the formerly rejected item to be unrejected")
	}
}

func TestCancelOrderAfterRequestCanceled(t *testing.T) {
	fx := newFixture(t)
	prID, winner, _ := fx.selectedRequest(t)
	order := fx.createOrder(t, winner)
	ctx := context.Background()

	if _, err := fx.requests.Cancel(ctx, prID); err != nil {
		t.Fatalf("cancel request: %v", err)
	}

	// The order must still be cancelable; the revert handler skips the
	// request instead of failing on its CANCELED status.
	canceled, err := fx.svc.Cancel(ctx, order.ID)
	if err != nil {
		t.Fatalf("cancel order after request canceled: %v", err)
	}
	if canceled.Status != domain.OrderStatusCanceled {
		t.Errorf("order status = %s, want CANCELED", canceled.Status)
	}

	pr := fx.request(t, prID)
	if pr.Status != reqdomain.RequestStatusCanceled {
		t.Errorf("request status = %s, want CANCELED", pr.Status)
	}
}

func TestSelectAgainAfterCancel(t *testing.T) {
	fx := newFixture(t)
	prID, winner, loser := fx.selectedRequest(t)
	order := fx.createOrder(t, winner)
	ctx := context.Background()

	if _, err := fx.svc.Cancel(ctx, order.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// The other vendor wins the second round.
	if _, err := fx.requests.SelectVendor(ctx, prID, loser); err != nil {
		t.Fatalf("select loser after revert: %v", err)
	}
	second := fx.createOrder(t, loser)
	if second.TotalAmountCents != 80000 {
		t.Errorf("total = %d, want the second vendor's quote 80000", second.TotalAmountCents)
	}

	if _, err := fx.svc.Send(ctx, second.ID); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := fx.svc.Confirm(ctx, second.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if fx.payables.creates != 1 {
		t.Fatalf("payable creates = %d, want 1", fx.payables.creates)
	}
	if fx.payables.byOrder[second.ID] == nil {
		t.Fatal("expected the payable to reference the second order")
	}
}

func TestReceiveClosesRequest(t *testing.T) {
	fx := newFixture(t)
	prID, winner, _ := fx.selectedRequest(t)
	order := fx.createOrder(t, winner)
	ctx := context.Background()

	if _, err := fx.svc.Send(ctx, order.ID); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := fx.svc.Confirm(ctx, order.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	received, err := fx.svc.Receive(ctx, order.ID)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if received.Status != domain.OrderStatusReceived {
		t.Errorf("order status = %s, want RECEIVED", received.Status)
	}

	pr := fx.request(t, prID)
	if pr.Status != reqdomain.RequestStatusClosed {
		t.Errorf("request status = %s, want CLOSED", pr.Status)
	}
}

func TestCancelAfterReceiveFails(t *testing.T) {
	fx := newFixture(t)
	_, winner, _ := fx.selectedRequest(t)
	order := fx.createOrder(t, winner)
	ctx := context.Background()

	if _, err := fx.svc.Send(ctx, order.ID); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := fx.svc.Confirm(ctx, order.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := fx.svc.Receive(ctx, order.ID); err != nil {
		t.Fatalf("receive: %v", err)
	}

	if _, err := fx.svc.Cancel(ctx, order.ID); apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict canceling a received order, got %v", err)
	}
}

func TestUpdateOnlyInDraft(t *testing.T) {
	fx := newFixture(t)
	_, winner, _ := fx.selectedRequest(t)
	order := fx.createOrder(t, winner)
	ctx := context.Background()

	if _, err := fx.svc.Update(ctx, order.ID, UpdateParams{
		OrderDate:            order.OrderDate,
		ExpectedDeliveryDate: order.ExpectedDeliveryDate.AddDate(0, 0, 7),
	}); err != nil {
		t.Fatalf("update draft order: %v", err)
	}

	if _, err := fx.svc.Send(ctx, order.ID); err != nil {
		t.Fatalf("send: %v", err)
	}
	_, err := fx.svc.Update(ctx, order.ID, UpdateParams{
		OrderDate:            order.OrderDate,
		ExpectedDeliveryDate: order.ExpectedDeliveryDate,
	})
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict updating a sent order, got %v", err)
	}
}
