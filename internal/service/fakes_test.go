package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/cache"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
)

// In-memory repositories with the same sentinel semantics as the Mongo
// implementations. Each counts reads so tests can tell cache hits apart.

type fakeProducts struct {
	mu    sync.Mutex
	items map[string]*domain.Product
	reads int
}

func newFakeProducts(products ...domain.Product) *fakeProducts {
	f := &fakeProducts{items: map[string]*domain.Product{}}
	for i := range products {
		p := products[i]
		f.items[p.ID] = &p
	}
	return f
}

func (f *fakeProducts) Create(_ context.Context, p *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uuid.NewString()
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeProducts) Update(_ context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	cp := *p
	cp.ComputeRating()
	return &cp, nil
}

func (f *fakeProducts) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	p, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	cp.ComputeRating()
	return &cp, nil
}

func (f *fakeProducts) List(context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	out := make([]domain.Product, 0, len(f.items))
	for _, p := range f.items {
		cp := *p
		cp.ComputeRating()
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProducts) IncrementLikes(_ context.Context, id string, delta int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.LikesCount += delta
	return nil
}

func (f *fakeProducts) AddRating(_ context.Context, id string, ratingDelta, countDelta int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.RatingTotal += ratingDelta
	p.RatingCount += countDelta
	return nil
}

func (f *fakeProducts) ReserveStock(_ context.Context, id string, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Stock < qty {
		return domain.ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}

func (f *fakeProducts) ReleaseStock(_ context.Context, id string, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock += qty
	return nil
}

func (f *fakeProducts) stock(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[id].Stock
}

func (f *fakeProducts) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

type fakeCarts struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
	reads int
	// clearFailures makes the next n Clear calls fail.
	clearFailures int
	clears        int
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{carts: map[string]*domain.Cart{}}
}

func (f *fakeCarts) snapshot(userID string) *domain.Cart {
	c, ok := f.carts[userID]
	if !ok {
		return domain.EmptyCart(userID)
	}
	cp := *c
	cp.Items = append([]domain.CartItem{}, c.Items...)
	return &cp
}

func (f *fakeCarts) Get(_ context.Context, userID string) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.snapshot(userID), nil
}

func (f *fakeCarts) AddItem(_ context.Context, userID string, item domain.CartItem) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[userID]
	if !ok {
		c = domain.EmptyCart(userID)
		f.carts[userID] = c
	}
	if i := c.Find(item.ProductID); i >= 0 {
		c.Items[i].Quantity += item.Quantity
	} else {
		c.Items = append(c.Items, item)
	}
	return f.snapshot(userID), nil
}

func (f *fakeCarts) SetQuantity(_ context.Context, userID, productID string, qty int) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[userID]
	if !ok || c.Find(productID) < 0 {
		return nil, domain.ErrNotFound
	}
	c.Items[c.Find(productID)].Quantity = qty
	return f.snapshot(userID), nil
}

func (f *fakeCarts) RemoveItem(_ context.Context, userID, productID string) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[userID]
	if !ok || c.Find(productID) < 0 {
		return nil, domain.ErrNotFound
	}
	i := c.Find(productID)
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return f.snapshot(userID), nil
}

func (f *fakeCarts) Clear(_ context.Context, userID string) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	if f.clearFailures > 0 {
		f.clearFailures--
		return nil, errors.New("cart store unavailable")
	}
	f.carts[userID] = domain.EmptyCart(userID)
	return f.snapshot(userID), nil
}

func (f *fakeCarts) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

type fakeLikes struct {
	mu    sync.Mutex
	likes map[string]domain.Like
}

func newFakeLikes() *fakeLikes {
	return &fakeLikes{likes: map[string]domain.Like{}}
}

func likeKey(userID, productID string) string { return userID + "|" + productID }

func (f *fakeLikes) Create(_ context.Context, like *domain.Like) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := likeKey(like.UserID, like.ProductID)
	if _, ok := f.likes[k]; ok {
		return domain.ErrDuplicate
	}
	like.ID = uuid.NewString()
	f.likes[k] = *like
	return nil
}

func (f *fakeLikes) Delete(_ context.Context, userID, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := likeKey(userID, productID)
	if _, ok := f.likes[k]; !ok {
		return domain.ErrNotFound
	}
	delete(f.likes, k)
	return nil
}

func (f *fakeLikes) ListByUser(_ context.Context, userID string) ([]domain.Like, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Like{}
	for _, l := range f.likes {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLikes) DeleteByProduct(_ context.Context, productID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var users []string
	for k, l := range f.likes {
		if l.ProductID == productID {
			users = append(users, l.UserID)
			delete(f.likes, k)
		}
	}
	return users, nil
}

type fakeOrders struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
	reads  int
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: map[string]*domain.Order{}}
}

func (f *fakeOrders) Create(_ context.Context, o *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o.ID = uuid.NewString()
	o.CreatedAt = time.Now().UTC()
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrders) GetByID(_ context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	o, ok := f.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	out := []domain.Order{}
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) List(context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	out := []domain.Order{}
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id string, status domain.OrderStatus, from ...domain.OrderStatus) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if len(from) > 0 {
		allowed := false
		for _, s := range from {
			allowed = allowed || s == o.Status
		}
		if !allowed {
			return nil, domain.ErrConflict
		}
	}
	o.Status = status
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) put(o domain.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[o.ID] = &o
}

func (f *fakeOrders) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

type fakeReviews struct {
	mu      sync.Mutex
	reviews map[string]*domain.Review
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{reviews: map[string]*domain.Review{}}
}

func (f *fakeReviews) Create(_ context.Context, r *domain.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.reviews {
		if existing.UserID == r.UserID && existing.ProductID == r.ProductID {
			return domain.ErrDuplicate
		}
	}
	r.ID = uuid.NewString()
	cp := *r
	f.reviews[r.ID] = &cp
	return nil
}

func (f *fakeReviews) GetByID(_ context.Context, id string) (*domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reviews[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReviews) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reviews[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.reviews, id)
	return nil
}

func (f *fakeReviews) ListByProduct(_ context.Context, productID string) ([]domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Review{}
	for _, r := range f.reviews {
		if r.ProductID == productID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReviews) List(context.Context) ([]domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Review{}
	for _, r := range f.reviews {
		out = append(out, *r)
	}
	return out, nil
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
	reads int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]*domain.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	u.ID = uuid.NewString()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id, name, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Name, u.Email = name, email
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Role = role
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUsers) List(context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	out := []domain.User{}
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUsers) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

type fakeSubscribers struct {
	mu   sync.Mutex
	subs map[string]domain.Subscriber
}

func newFakeSubscribers() *fakeSubscribers {
	return &fakeSubscribers{subs: map[string]domain.Subscriber{}}
}

func (f *fakeSubscribers) Create(_ context.Context, s *domain.Subscriber) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.Email = strings.ToLower(s.Email)
	if _, ok := f.subs[s.Email]; ok {
		return domain.ErrDuplicate
	}
	s.ID = uuid.NewString()
	f.subs[s.Email] = *s
	return nil
}

func (f *fakeSubscribers) DeleteByEmail(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.ToLower(email)
	if _, ok := f.subs[email]; !ok {
		return domain.ErrNotFound
	}
	delete(f.subs, email)
	return nil
}

func (f *fakeSubscribers) List(context.Context) ([]domain.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Subscriber{}
	for _, s := range f.subs {
		out = append(out, s)
	}
	return out, nil
}

type fakeComments struct {
	mu       sync.Mutex
	comments map[string]*domain.Comment
}

func newFakeComments() *fakeComments {
	return &fakeComments{comments: map[string]*domain.Comment{}}
}

func (f *fakeComments) Create(_ context.Context, c *domain.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = uuid.NewString()
	cp := *c
	f.comments[c.ID] = &cp
	return nil
}

func (f *fakeComments) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeComments) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeComments) ListByProduct(_ context.Context, productID string) ([]domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Comment{}
	for _, c := range f.comments {
		if c.ProductID == productID {
			out = append(out, *c)
		}
	}
	return out, nil
}

// newCaching returns a memory-backed accessor. Callers use Accessor.Wait
// before asserting on cache contents.
func newCaching() Caching {
	return Caching{
		Accessor: cache.NewAccessor(cache.NewMemoryStore(), cache.Options{
			NotFound:        domain.ErrNotFound,
			OpTimeout:       time.Second,
			PopulateTimeout: time.Second,
		}),
		TTL: cache.DefaultTTLPolicy(),
	}
}
