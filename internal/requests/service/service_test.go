package service

import (
	"context"
	"testing"
	"time"

	"procurement_backend/internal/events"
	"procurement_backend/internal/requests/domain"
	"procurement_backend/internal/requests/repository"
	"procurement_backend/platform/apperr"
	"procurement_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	byID  map[uuid.UUID]*domain.PurchaseRequest
	saves int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[uuid.UUID]*domain.PurchaseRequest)}
}

func (f *fakeRepo) Create(_ context.Context, pr *domain.PurchaseRequest) error {
	cp := *pr
	f.byID[pr.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.PurchaseRequest, error) {
	pr, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("purchase request not found")
	}
	cp := *pr
	cp.Items = append([]domain.RfqItem(nil), pr.Items...)
	return &cp, nil
}

func (f *fakeRepo) GetByRfqItemID(_ context.Context, itemID uuid.UUID) (*domain.PurchaseRequest, error) {
	for _, pr := range f.byID {
		for idx := range pr.Items {
			if pr.Items[idx].ID == itemID {
				cp := *pr
				cp.Items = append([]domain.RfqItem(nil), pr.Items...)
				return &cp, nil
			}
		}
	}
	return nil, apperr.NotFound("purchase request not found for rfq item")
}

func (f *fakeRepo) Save(_ context.Context, pr *domain.PurchaseRequest) error {
	f.saves++
	cp := *pr
	cp.Items = append([]domain.RfqItem(nil), pr.Items...)
	f.byID[pr.ID] = &cp
	return nil
}

func (f *fakeRepo) List(_ context.Context, _ repository.ListParams) (repository.ListResult, error) {
	return repository.ListResult{}, nil
}

// fakeTxManager runs the function directly; the fakes have no transactions.
type fakeTxManager struct{}

func (fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSequence struct{ n int }

func (f *fakeSequence) Next(_ context.Context, _ string) (int, error) {
	f.n++
	return f.n, nil
}

type fakeCatalog struct {
	vendors    map[uuid.UUID]bool
	materials  map[uuid.UUID]bool
	categories map[uuid.UUID]bool
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		vendors:    make(map[uuid.UUID]bool),
		materials:  make(map[uuid.UUID]bool),
		categories: make(map[uuid.UUID]bool),
	}
}

func (f *fakeCatalog) VendorActive(_ context.Context, id uuid.UUID) (bool, error) {
	return f.vendors[id], nil
}

func (f *fakeCatalog) MaterialExists(_ context.Context, id uuid.UUID) (bool, error) {
	return f.materials[id], nil
}

func (f *fakeCatalog) ServiceCategoryExists(_ context.Context, id uuid.UUID) (bool, error) {
	return f.categories[id], nil
}

type fakeBus struct {
	published []events.Event
}

func (f *fakeBus) Publish(_ context.Context, e events.Event) {
	f.published = append(f.published, e)
}

func (f *fakeBus) PublishSync(_ context.Context, e events.Event) error {
	f.published = append(f.published, e)
	return nil
}

func (f *fakeBus) Subscribe(_ string, _ events.Handler) {}

type fixture struct {
	svc     *Service
	repo    *fakeRepo
	catalog *fakeCatalog
	bus     *fakeBus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newFakeRepo()
	catalog := newFakeCatalog()
	bus := &fakeBus{}
	svc := New(repo, fakeTxManager{}, &fakeSequence{}, catalog, bus, logger.New("test"), 72*time.Hour)
	return &fixture{svc: svc, repo: repo, catalog: catalog, bus: bus}
}

func (fx *fixture) newVendor() uuid.UUID {
	id := uuid.New()
	fx.catalog.vendors[id] = true
	return id
}

func (fx *fixture) createMaterialRequest(t *testing.T) *domain.PurchaseRequest {
	t.Helper()
	materialID := uuid.New()
	fx.catalog.materials[materialID] = true

	pr, err := fx.svc.Create(context.Background(), CreateParams{
		Kind:        domain.RequestKindMaterial,
		MaterialID:  &materialID,
		Description: "M8 bolts",
		Quantity:    500,
		Unit:        "pcs",
		RequestedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return pr
}

func TestCreateAllocatesRequestNumber(t *testing.T) {
	fx := newFixture(t)
	pr := fx.createMaterialRequest(t)

	want := "PR-" + time.Now().Format("2006") + "-0001"
	if pr.RequestNumber != want {
		t.Errorf("request number = %q, want %q", pr.RequestNumber, want)
	}
	if pr.Status != domain.RequestStatusDraft {
		t.Errorf("status = %s, want DRAFT", pr.Status)
	}
	if fx.repo.byID[pr.ID] == nil {
		t.Error("expected request to be persisted")
	}
}

func TestCreateRejectsUnknownMaterial(t *testing.T) {
	fx := newFixture(t)
	materialID := uuid.New()

	_, err := fx.svc.Create(context.Background(), CreateParams{
		Kind:        domain.RequestKindMaterial,
		MaterialID:  &materialID,
		Description: "unknown",
		Quantity:    1,
		RequestedBy: uuid.New(),
	})
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestCreateRequiresServiceCategoryForServiceKind(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.Create(context.Background(), CreateParams{
		Kind:        domain.RequestKindService,
		Description: "facade painting",
		Quantity:    1,
		RequestedBy: uuid.New(),
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateOnlyInDraft(t *testing.T) {
	fx := newFixture(t)
	pr := fx.createMaterialRequest(t)

	if _, err := fx.svc.Update(context.Background(), pr.ID, UpdateParams{Description: "M10 bolts", Quantity: 250, Unit: "pcs"}); err != nil {
		t.Fatalf("Update in draft: %v", err)
	}

	if _, err := fx.svc.SendRfq(context.Background(), pr.ID, []uuid.UUID{fx.newVendor()}); err != nil {
		t.Fatalf("SendRfq: %v", err)
	}

	_, err := fx.svc.Update(context.Background(), pr.ID, UpdateParams{Description: "M12 bolts", Quantity: 100})
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict after rfq sent, got %v", err)
	}
}

func TestSendRfqAddsItemsAndPublishes(t *testing.T) {
	fx := newFixture(t)
	pr := fx.createMaterialRequest(t)
	v1, v2 := fx.newVendor(), fx.newVendor()

	got, err := fx.svc.SendRfq(context.Background(), pr.ID, []uuid.UUID{v1, v2})
	if err != nil {
		t.Fatalf("SendRfq: %v", err)
	}
	if got.Status != domain.RequestStatusRfqSent {
		t.Errorf("status = %s, want RFQ_SENT", got.Status)
	}
	if len(got.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(got.Items))
	}

	if len(fx.bus.published) != 1 {
		t.Fatalf("published events = %d, want 1", len(fx.bus.published))
	}
	e, ok := fx.bus.published[0].(events.RfqSent)
	if !ok {
		t.Fatalf("published event is %T, want RfqSent", fx.bus.published[0])
	}
	if e.ResponseDeadline == nil {
		t.Error("expected a response deadline")
	}
}

func TestSendRfqRejectsInactiveVendor(t *testing.T) {
	fx := newFixture(t)
	pr := fx.createMaterialRequest(t)
	inactive := uuid.New()
	fx.catalog.vendors[inactive] = false

	_, err := fx.svc.SendRfq(context.Background(), pr.ID, []uuid.UUID{inactive})
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not-found for inactive vendor, got %v", err)
	}

	got, _ := fx.repo.GetByID(context.Background(), pr.ID)
	if got.Status != domain.RequestStatusDraft {
		t.Errorf("status = %s, want DRAFT (no mutation on validation failure)", got.Status)
	}
}

func TestSelectVendorFlow(t *testing.T) {
	fx := newFixture(t)
	pr := fx.createMaterialRequest(t)
	v1, v2 := fx.newVendor(), fx.newVendor()

	sent, err := fx.svc.SendRfq(context.Background(), pr.ID, []uuid.UUID{v1, v2})
	if err != nil {
		t.Fatalf("SendRfq: %v", err)
	}
	item1, item2 := sent.Items[0].ID, sent.Items[1].ID

	lead := 7
	if _, err := fx.svc.RecordRfqReply(context.Background(), pr.ID, item1, 100000, &lead, nil); err != nil {
		t.Fatalf("RecordRfqReply item1: %v", err)
	}
	lead2 := 10
	if _, err := fx.svc.RecordRfqReply(context.Background(), pr.ID, item2, 80000, &lead2, nil); err != nil {
		t.Fatalf("RecordRfqReply item2: %v", err)
	}
	if _, err := fx.svc.RejectRfq(context.Background(), pr.ID, item2); err != nil {
		t.Fatalf("RejectRfq: %v", err)
	}

	got, err := fx.svc.SelectVendor(context.Background(), pr.ID, item1)
	if err != nil {
		t.Fatalf("SelectVendor: %v", err)
	}
	if got.Status != domain.RequestStatusVendorSelected {
		t.Errorf("status = %s, want VENDOR_SELECTED", got.Status)
	}
	sel := got.SelectedItem()
	if sel == nil || sel.ID != item1 {
		t.Error("expected item1 to be the selected item")
	}
}

func TestExpireUnansweredRfq(t *testing.T) {
	fx := newFixture(t)
	pr := fx.createMaterialRequest(t)
	v1, v2 := fx.newVendor(), fx.newVendor()

	sent, err := fx.svc.SendRfq(context.Background(), pr.ID, []uuid.UUID{v1, v2})
	if err != nil {
		t.Fatalf("SendRfq: %v", err)
	}
	if _, err := fx.svc.RecordRfqReply(context.Background(), pr.ID, sent.Items[0].ID, 50000, nil, nil); err != nil {
		t.Fatalf("RecordRfqReply: %v", err)
	}

	if err := fx.svc.ExpireUnansweredRfq(context.Background(), pr.ID); err != nil {
		t.Fatalf("ExpireUnansweredRfq: %v", err)
	}

	got, _ := fx.svc.Get(context.Background(), pr.ID)
	if got.Items[0].Status != domain.RfqItemStatusReplied {
		t.Errorf("replied item changed to %s", got.Items[0].Status)
	}
	if got.Items[1].Status != domain.RfqItemStatusNoResponse {
		t.Errorf("unanswered item = %s, want NO_RESPONSE", got.Items[1].Status)
	}

	// Re-running finds nothing in SENT and saves nothing.
	saves := fx.repo.saves
	if err := fx.svc.ExpireUnansweredRfq(context.Background(), pr.ID); err != nil {
		t.Fatalf("second ExpireUnansweredRfq: %v", err)
	}
	if fx.repo.saves != saves {
		t.Error("expected no save when nothing is left to expire")
	}
}

func TestHandleOrderCanceledReverts(t *testing.T) {
	fx := newFixture(t)
	pr := fx.createMaterialRequest(t)
	v1, v2 := fx.newVendor(), fx.newVendor()

	sent, err := fx.svc.SendRfq(context.Background(), pr.ID, []uuid.UUID{v1, v2})
	if err != nil {
		t.Fatalf("SendRfq: %v", err)
	}
	item1, item2 := sent.Items[0].ID, sent.Items[1].ID
	if _, err := fx.svc.RecordRfqReply(context.Background(), pr.ID, item1, 100000, nil, nil); err != nil {
		t.Fatalf("RecordRfqReply: %v", err)
	}
	if _, err := fx.svc.RecordRfqReply(context.Background(), pr.ID, item2, 80000, nil, nil); err != nil {
		t.Fatalf("RecordRfqReply: %v", err)
	}
	if _, err := fx.svc.RejectRfq(context.Background(), pr.ID, item2); err != nil {
		t.Fatalf("RejectRfq: %v", err)
	}
	if _, err := fx.svc.SelectVendor(context.Background(), pr.ID, item1); err != nil {
		t.Fatalf("SelectVendor: %v", err)
	}

	e := events.PurchaseOrderCanceled{
		BaseEvent:         events.NewBaseEvent(),
		PurchaseOrderID:   uuid.New(),
		PurchaseRequestID: pr.ID,
		RfqItemID:         item1,
		OrderNumber:       "PO-2026-0001",
	}
	if err := fx.svc.HandleOrderCanceled(context.Background(), e); err != nil {
		t.Fatalf("HandleOrderCanceled: %v", err)
	}

	got, _ := fx.svc.Get(context.Background(), pr.ID)
	if got.Status != domain.RequestStatusRfqSent {
		t.Errorf("status = %s, want RFQ_SENT", got.Status)
	}
	for idx := range got.Items {
		if got.Items[idx].Status != domain.RfqItemStatusReplied {
			t.Errorf("item %d = %s, want REPLIED", idx, got.Items[idx].Status)
		}
	}

	// Duplicate delivery finds the request already reverted and is a no-op.
	if err := fx.svc.HandleOrderCanceled(context.Background(), e); err != nil {
		t.Fatalf("duplicate HandleOrderCanceled: %v", err)
	}
}

func TestHandleOrderCanceledSkipsCanceledRequest(t *testing.T) {
	fx := newFixture(t)
	pr := fx.createMaterialRequest(t)

	sent, err := fx.svc.SendRfq(context.Background(), pr.ID, []uuid.UUID{fx.newVendor()})
	if err != nil {
		t.Fatalf("SendRfq: %v", err)
	}
	item := sent.Items[0].ID
	if _, err := fx.svc.RecordRfqReply(context.Background(), pr.ID, item, 100000, nil, nil); err != nil {
		t.Fatalf("RecordRfqReply: %v", err)
	}
	if _, err := fx.svc.SelectVendor(context.Background(), pr.ID, item); err != nil {
		t.Fatalf("SelectVendor: %v", err)
	}
	if _, err := fx.svc.Cancel(context.Background(), pr.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	// A canceled request cannot be reverted; the handler must skip it so the
	// order cancellation it runs inside of still commits.
	e := events.PurchaseOrderCanceled{
		BaseEvent:         events.NewBaseEvent(),
		PurchaseOrderID:   uuid.New(),
		PurchaseRequestID: pr.ID,
		RfqItemID:         item,
		OrderNumber:       "PO-2026-0002",
	}
	if err := fx.svc.HandleOrderCanceled(context.Background(), e); err != nil {
		t.Fatalf("HandleOrderCanceled on canceled request: %v", err)
	}

	got, _ := fx.svc.Get(context.Background(), pr.ID)
	if got.Status != domain.RequestStatusCanceled {
		t.Errorf("status = %s, want CANCELED", got.Status)
	}
}
