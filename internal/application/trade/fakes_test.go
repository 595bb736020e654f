package trade

import (
	"context"
	"net/url"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/mall/backend/internal/domain/cart"
	"github.com/mall/backend/internal/domain/catalog"
	"github.com/mall/backend/internal/domain/identity"
	"github.com/mall/backend/internal/domain/shared"
	"github.com/mall/backend/internal/domain/trade"
	"github.com/stretchr/testify/mock"
)

// memSKURepository keeps SKUs in memory with a real compare-and-set
type memSKURepository struct {
	mu         sync.Mutex
	skus       map[int64]catalog.SKU
	goodsSales map[int64]int
	casCalls   atomic.Int64
}

func newMemSKURepository(skus ...catalog.SKU) *memSKURepository {
	r := &memSKURepository{skus: make(map[int64]catalog.SKU), goodsSales: make(map[int64]int)}
	for _, s := range skus {
		r.skus[s.ID] = s
	}
	return r
}

func (r *memSKURepository) FindByID(_ context.Context, id int64) (*catalog.SKU, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.skus[id]
	if !ok {
		return nil, catalog.ErrSKUNotFound
	}
	return &s, nil
}

func (r *memSKURepository) FindByIDs(_ context.Context, ids []int64) (map[int64]*catalog.SKU, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int64]*catalog.SKU)
	for _, id := range ids {
		if s, ok := r.skus[id]; ok {
			out[id] = &s
		}
	}
	return out, nil
}

func (r *memSKURepository) ListLaunched(context.Context, catalog.SKUListFilter) ([]catalog.SKU, int64, error) {
	return nil, 0, nil
}

func (r *memSKURepository) CompareAndSetStock(_ context.Context, id int64, expectedStock, newStock, newSales int) (bool, error) {
	r.casCalls.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.skus[id]
	if !ok || s.Stock != expectedStock {
		return false, nil
	}
	s.Stock, s.Sales = newStock, newSales
	r.skus[id] = s
	return true, nil
}

func (r *memSKURepository) AddGoodsSales(_ context.Context, goodsID int64, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.goodsSales[goodsID] += delta
	return nil
}

func (r *memSKURepository) stock(id int64) (stock, sales int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.skus[id].Stock, r.skus[id].Sales
}

// losingSKURepository loses every compare-and-set, as if another buyer
// always got there first
type losingSKURepository struct {
	*memSKURepository
}

func (r losingSKURepository) CompareAndSetStock(_ context.Context, _ int64, _, _, _ int) (bool, error) {
	r.casCalls.Add(1)
	return false, nil
}

type memOrderRepository struct {
	mu     sync.Mutex
	orders map[string]*trade.OrderInfo
}

func newMemOrderRepository() *memOrderRepository {
	return &memOrderRepository{orders: make(map[string]*trade.OrderInfo)}
}

func (r *memOrderRepository) Create(_ context.Context, o *trade.OrderInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.OrderID]; ok {
		return trade.ErrDuplicateOrder
	}
	cp := *o
	r.orders[o.OrderID] = &cp
	return nil
}

func (r *memOrderRepository) UpdateTotals(_ context.Context, o *trade.OrderInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[o.OrderID]
	if !ok {
		return trade.ErrOrderNotFound
	}
	stored.TotalCount = o.TotalCount
	stored.TotalAmount = o.TotalAmount
	return nil
}

func (r *memOrderRepository) FindByOrderID(_ context.Context, orderID string) (*trade.OrderInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, trade.ErrOrderNotFound
	}
	cp := *o
	cp.EventRecorder = shared.EventRecorder{}
	return &cp, nil
}

func (r *memOrderRepository) FindForUser(ctx context.Context, orderID string, userID int64) (*trade.OrderInfo, error) {
	o, err := r.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, trade.ErrOrderNotFound
	}
	return o, nil
}

func (r *memOrderRepository) UpdateStatus(_ context.Context, orderID string, from, to trade.OrderStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (r *memOrderRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

type memOrderGoodsRepository struct {
	mu    sync.Mutex
	lines []*trade.OrderGoods
}

func (r *memOrderGoodsRepository) Create(_ context.Context, line *trade.OrderGoods) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	line.ID = int64(len(r.lines) + 1)
	r.lines = append(r.lines, line)
	return nil
}

func (r *memOrderGoodsRepository) FindByOrderID(_ context.Context, orderID string) ([]*trade.OrderGoods, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*trade.OrderGoods
	for _, l := range r.lines {
		if l.OrderID == orderID {
			out = append(out, l)
		}
	}
	return out, nil
}

type memPaymentRepository struct {
	mu       sync.Mutex
	payments []*trade.Payment
}

func (r *memPaymentRepository) Create(_ context.Context, p *trade.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.payments {
		if existing.TradeID == p.TradeID {
			return trade.ErrPaymentRecorded
		}
	}
	p.ID = int64(len(r.payments) + 1)
	r.payments = append(r.payments, p)
	return nil
}

// memCartStore is a per-user map of carts
type memCartStore struct {
	mu        sync.Mutex
	carts     map[int64]cart.Cart
	removeErr error
}

func newMemCartStore() *memCartStore {
	return &memCartStore{carts: make(map[int64]cart.Cart)}
}

func (s *memCartStore) put(userID, skuID int64, count int, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.carts[userID] == nil {
		s.carts[userID] = cart.New()
	}
	s.carts[userID].Set(skuID, count, selected)
}

func (s *memCartStore) Get(_ context.Context, userID int64) (cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := cart.New()
	for id, e := range s.carts[userID] {
		out[id] = e
	}
	return out, nil
}

func (s *memCartStore) Set(_ context.Context, userID, skuID int64, e cart.Entry) error {
	s.put(userID, skuID, e.Count, e.Selected)
	return nil
}

func (s *memCartStore) Remove(_ context.Context, userID int64, skuIDs ...int64) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[userID].Remove(skuIDs...)
	return nil
}

func (s *memCartStore) SelectAll(_ context.Context, userID int64, selected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[userID].SelectAll(selected)
	return nil
}

func (s *memCartStore) Selected(_ context.Context, userID int64) (map[int64]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carts[userID].SelectedCounts(), nil
}

func (s *memCartStore) Merge(_ context.Context, userID int64, anonymous cart.Cart) error {
	for id, e := range anonymous {
		s.put(userID, id, e.Count, e.Selected)
	}
	return nil
}

// stubAddressRepository knows one live address per user
type stubAddressRepository struct {
	owner map[int64]int64
}

func (r stubAddressRepository) Create(context.Context, *identity.Address) error { return nil }

func (r stubAddressRepository) FindByIDForUser(_ context.Context, id, userID int64) (*identity.Address, error) {
	if owner, ok := r.owner[id]; ok && owner == userID {
		return &identity.Address{BaseEntity: shared.BaseEntity{ID: id}, UserID: userID}, nil
	}
	return nil, identity.ErrAddressNotFound
}

func (r stubAddressRepository) ListByUser(context.Context, int64) ([]*identity.Address, error) {
	return nil, nil
}

func (r stubAddressRepository) CountByUser(context.Context, int64) (int64, error) { return 0, nil }

func (r stubAddressRepository) SoftDelete(context.Context, int64, int64) error { return nil }

// capturePublisher records published events
type capturePublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.err
}

func (p *capturePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	sort.Strings(out)
	return out
}

type countingRecorder struct {
	conflicts  atomic.Int64
	contention atomic.Int64
}

func (r *countingRecorder) RecordCASConflict(context.Context)     { r.conflicts.Add(1) }
func (r *countingRecorder) RecordStockContention(context.Context) { r.contention.Add(1) }

// MockPaymentGateway is a mock implementation of trade.PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) PagePayURL(ctx context.Context, req trade.PagePayRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) VerifyReturn(params url.Values) (*trade.ReturnResult, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.ReturnResult), args.Error(1)
}
