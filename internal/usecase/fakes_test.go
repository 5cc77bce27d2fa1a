package usecase

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/domain"
)

type fakeProductRepo struct {
	products    []domain.Product
	listErrs    map[int]error // keyed by call number, starting at 1
	listCalls   int
	queries     []domain.ProductQuery
	createCalls int
	updateCalls int
}

func (f *fakeProductRepo) CreateProduct(_ context.Context, p *domain.Product) (*domain.Product, error) {
	f.createCalls++
	p.ID = fmt.Sprintf("prod-%d", len(f.products)+1)
	f.products = append(f.products, *p)
	return p, nil
}

func (f *fakeProductRepo) GetProductByID(_ context.Context, id string) (*domain.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
}

func (f *fakeProductRepo) GetProductsByIDs(_ context.Context, ids []string) (map[string]*domain.Product, error) {
	out := map[string]*domain.Product{}
	for _, id := range ids {
		for i := range f.products {
			if f.products[i].ID == id {
				p := f.products[i]
				out[id] = &p
			}
		}
	}
	return out, nil
}

func (f *fakeProductRepo) UpdateProduct(_ context.Context, p *domain.Product) (*domain.Product, error) {
	f.updateCalls++
	for i := range f.products {
		if f.products[i].ID == p.ID {
			f.products[i] = *p
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProductRepo) DeleteProduct(_ context.Context, id string) error {
	for i := range f.products {
		if f.products[i].ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeProductRepo) ListProducts(_ context.Context, q domain.ProductQuery) ([]domain.Product, error) {
	f.listCalls++
	f.queries = append(f.queries, q)
	if err := f.listErrs[f.listCalls]; err != nil {
		return nil, err
	}

	var out []domain.Product
	for _, p := range f.products {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.ExcludeCategory != "" && p.Category == q.ExcludeCategory {
			continue
		}
		if q.ExcludeID != "" && p.ID == q.ExcludeID {
			continue
		}
		if q.FeaturedOnly && !p.Featured {
			continue
		}
		out = append(out, p)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

type fakeCartRepo struct {
	items    map[string]*domain.CartItem
	seq      int
	clears   int
	clearErr error
}

func newFakeCartRepo(items ...domain.CartItem) *fakeCartRepo {
	f := &fakeCartRepo{items: map[string]*domain.CartItem{}}
	for i := range items {
		item := items[i]
		f.items[item.ID] = &item
	}
	return f
}

func (f *fakeCartRepo) ListCartItems(_ context.Context, userID string) ([]domain.CartItem, error) {
	var out []domain.CartItem
	for _, item := range f.items {
		if item.UserID == userID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeCartRepo) GetCartItem(_ context.Context, id string) (*domain.CartItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *item
	return &c, nil
}

func (f *fakeCartRepo) FindCartItem(_ context.Context, userID, productID, size, color string) (*domain.CartItem, error) {
	for _, item := range f.items {
		if item.UserID == userID && item.ProductID == productID && item.SelectedSize == size && item.SelectedColor == color {
			c := *item
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCartRepo) UpsertCartItem(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error) {
	if existing, err := f.FindCartItem(ctx, item.UserID, item.ProductID, item.SelectedSize, item.SelectedColor); err == nil {
		f.items[existing.ID].Quantity = item.Quantity
		c := *f.items[existing.ID]
		return &c, nil
	}
	f.seq++
	item.ID = fmt.Sprintf("cart-%d", f.seq)
	stored := *item
	f.items[item.ID] = &stored
	return item, nil
}

func (f *fakeCartRepo) UpdateCartItemQuantity(_ context.Context, id string, quantity int) (*domain.CartItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	item.Quantity = quantity
	c := *item
	return &c, nil
}

func (f *fakeCartRepo) DeleteCartItem(_ context.Context, id string) error {
	delete(f.items, id)
	return nil
}

func (f *fakeCartRepo) ClearCart(_ context.Context, userID string) error {
	f.clears++
	if f.clearErr != nil {
		return f.clearErr
	}
	for id, item := range f.items {
		if item.UserID == userID {
			delete(f.items, id)
		}
	}
	return nil
}

type fakeOrderRepo struct {
	orders        map[string]*domain.Order
	items         map[string][]domain.OrderItem
	keys          map[string]bool
	seq           int
	createErr     error
	itemsErr      error
	deleteErr     error
	sessionErr    error
	deleted       []string
	statusUpdates int
	staleCutoff   time.Time
	stats         domain.OrderStats
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: map[string]*domain.Order{},
		items:  map[string][]domain.OrderItem{},
		keys:   map[string]bool{},
	}
}

func (f *fakeOrderRepo) CreateOrder(_ context.Context, o *domain.Order) (*domain.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if o.IdempotencyKey != "" {
		if f.keys[o.IdempotencyKey] {
			return nil, domain.ErrDuplicateCheckout
		}
		f.keys[o.IdempotencyKey] = true
	}
	f.seq++
	o.ID = fmt.Sprintf("order-%d", f.seq)
	stored := *o
	f.orders[o.ID] = &stored
	return o, nil
}

func (f *fakeOrderRepo) CreateOrderItems(_ context.Context, orderID string, items []domain.OrderItem) error {
	if f.itemsErr != nil {
		return f.itemsErr
	}
	f.items[orderID] = append(f.items[orderID], items...)
	return nil
}

func (f *fakeOrderRepo) DeleteOrder(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.orders, id)
	delete(f.items, id)
	return nil
}

func (f *fakeOrderRepo) GetOrderByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	c := *o
	c.Items = append([]domain.OrderItem(nil), f.items[id]...)
	return &c, nil
}

func (f *fakeOrderRepo) SetPaymentSession(_ context.Context, id, sessionID string) error {
	if f.sessionErr != nil {
		return f.sessionErr
	}
	f.orders[id].PaymentSessionID = sessionID
	return nil
}

func (f *fakeOrderRepo) UpdateOrderStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	f.statusUpdates++
	o.Status = status
	c := *o
	return &c, nil
}

func (f *fakeOrderRepo) ListOrdersByUserID(_ context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListOrders(_ context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.orders {
		if filter.Status == "" || o.Status == filter.Status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) CancelStalePending(_ context.Context, cutoff time.Time) ([]string, error) {
	f.staleCutoff = cutoff
	var ids []string
	for id, o := range f.orders {
		if o.Status == domain.StatusPending && o.CreatedAt.Before(cutoff) {
			o.Status = domain.StatusCancelled
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeOrderRepo) CountOrdersBetween(_ context.Context, _, _ time.Time) (domain.OrderStats, error) {
	return f.stats, nil
}

type fakeProfileRepo struct {
	profiles    map[string]*domain.Profile
	roleUpdates int
}

func newFakeProfileRepo(profiles ...domain.Profile) *fakeProfileRepo {
	f := &fakeProfileRepo{profiles: map[string]*domain.Profile{}}
	for i := range profiles {
		p := profiles[i]
		f.profiles[p.ID] = &p
	}
	return f
}

func (f *fakeProfileRepo) CreateProfile(_ context.Context, p *domain.Profile) (*domain.Profile, error) {
	stored := *p
	f.profiles[p.ID] = &stored
	return p, nil
}

func (f *fakeProfileRepo) GetProfileByID(_ context.Context, id string) (*domain.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
	}
	c := *p
	return &c, nil
}

func (f *fakeProfileRepo) UpdateProfile(_ context.Context, id string, u domain.ProfileUpdate) (*domain.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.Address != nil {
		p.Address = *u.Address
	}
	if u.AvatarURL != nil {
		p.AvatarURL = *u.AvatarURL
	}
	c := *p
	return &c, nil
}

func (f *fakeProfileRepo) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.Profile, error) {
	f.roleUpdates++
	p, ok := f.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Role = role
	c := *p
	return &c, nil
}

func (f *fakeProfileRepo) ListProfiles(_ context.Context) ([]domain.Profile, error) {
	var out []domain.Profile
	for _, p := range f.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProfileRepo) CountProfiles(_ context.Context) (int, error) {
	return len(f.profiles), nil
}

type fakePayments struct {
	session *domain.PaymentSession
	err     error
	calls   int
	lastReq domain.PaymentSessionRequest
}

func (f *fakePayments) CreateSession(_ context.Context, req domain.PaymentSessionRequest) (*domain.PaymentSession, error) {
	f.calls++
	f.lastReq = req
	return f.session, f.err
}

type fakeEvents struct {
	events []domain.OrderEvent
	err    error
}

func (f *fakeEvents) PublishOrderEvent(_ context.Context, e domain.OrderEvent) error {
	f.events = append(f.events, e)
	return f.err
}

func (f *fakeEvents) Close() error { return nil }
