package usecase

import (
	"context"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/internal/data/repository"
	"ecommerce-backend/internal/gateway"
	"ecommerce-backend/pkg/cache"
	"ecommerce-backend/pkg/events"
	"ecommerce-backend/pkg/token"
	"ecommerce-backend/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// memDB backs every fake repository with plain maps.
type memDB struct {
	mu         sync.Mutex
	users      map[uuid.UUID]*entity.User
	products   map[uuid.UUID]*entity.Product
	categories map[uuid.UUID]*entity.Category
	carts      map[uuid.UUID]*entity.Cart
	cartLines  map[uuid.UUID][]memCartLine
	orders     map[uuid.UUID]*entity.Order
	payments   map[string]*entity.Payment
	checkouts  map[string]*entity.CheckoutRecord
}

func newMemDB() *memDB {
	return &memDB{
		users:      map[uuid.UUID]*entity.User{},
		products:   map[uuid.UUID]*entity.Product{},
		categories: map[uuid.UUID]*entity.Category{},
		carts:      map[uuid.UUID]*entity.Cart{},
		cartLines:  map[uuid.UUID][]memCartLine{},
		orders:     map[uuid.UUID]*entity.Order{},
		payments:   map[string]*entity.Payment{},
		checkouts:  map[string]*entity.CheckoutRecord{},
	}
}

func (db *memDB) repository() *repository.Repository {
	repos := &repository.Repository{
		User:     &memUsers{db},
		Product:  &memProducts{db},
		Category: &memCategories{db},
		Cart:     &memCarts{db},
		Order:    &memOrders{db},
		Payment:  &memPayments{db},
		Checkout: &memCheckouts{db},
		Stats:    &memStats{db},
	}
	repos.Tx = memTx{repos: repos}
	return repos
}

type memTx struct {
	repos *repository.Repository
}

func (t memTx) WithinTransaction(ctx context.Context, fn func(repos *repository.Repository) error) error {
	return fn(t.repos)
}

// users

type memUsers struct{ db *memDB }

func (r *memUsers) Create(ctx context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	u := *user
	r.db.users[u.ID] = &u
	return nil
}

func (r *memUsers) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if u, ok := r.db.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r *memUsers) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memUsers) FindByResetCode(ctx context.Context, code string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.ResetCode != nil && *u.ResetCode == code {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memUsers) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	all := make([]*entity.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		c := *u
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	return page(all, limit, offset), nil
}

func (r *memUsers) CountAll(ctx context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.users)), nil
}

func (r *memUsers) Update(ctx context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[user.ID]; !ok {
		return repository.ErrRowNotFound
	}
	u := *user
	r.db.users[u.ID] = &u
	return nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

// products

type memProducts struct{ db *memDB }

func (r *memProducts) Create(ctx context.Context, product *entity.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p := *product
	r.db.products[p.ID] = &p
	return nil
}

func (r *memProducts) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if p, ok := r.db.products[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r *memProducts) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make(map[uuid.UUID]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.db.products[id]; ok {
			c := *p
			out[id] = &c
		}
	}
	return out, nil
}

func (r *memProducts) matching(filter entity.ProductFilter) []*entity.Product {
	var out []*entity.Product
	for _, p := range r.db.products {
		if filter.CreatedBy != nil && p.CreatedBy != *filter.CreatedBy {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		if filter.Search != "" {
			q := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
				continue
			}
		}
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *memProducts) FindAll(ctx context.Context, filter entity.ProductFilter, limit, offset int) ([]*entity.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return page(r.matching(filter), limit, offset), nil
}

func (r *memProducts) CountAll(ctx context.Context, filter entity.ProductFilter) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r *memProducts) FindLowStock(ctx context.Context, threshold, limit int) ([]*entity.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.db.products {
		if p.Stock <= threshold {
			c := *p
			out = append(out, &c)
		}
	}
	return page(out, limit, 0), nil
}

func (r *memProducts) Update(ctx context.Context, product *entity.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.products[product.ID]; !ok {
		return repository.ErrRowNotFound
	}
	p := *product
	r.db.products[p.ID] = &p
	return nil
}

func (r *memProducts) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.products[id]; !ok {
		return repository.ErrRowNotFound
	}
	delete(r.db.products, id)
	return nil
}

// categories

type memCategories struct{ db *memDB }

func (r *memCategories) FindAll(ctx context.Context) ([]*entity.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.Category{}
	for _, c := range r.db.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memCategories) findByName(name string) *entity.Category {
	for _, c := range r.db.categories {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp
		}
	}
	return nil
}

func (r *memCategories) FindByName(ctx context.Context, name string) (*entity.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.findByName(name), nil
}

func (r *memCategories) Create(ctx context.Context, category *entity.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.findByName(category.Name) != nil {
		return repository.ErrDuplicate
	}
	c := *category
	r.db.categories[c.ID] = &c
	return nil
}

func (r *memCategories) Resolve(ctx context.Context, name string) (*entity.Category, entity.Resolution, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c := r.findByName(name); c != nil {
		return c, entity.CategoryFound, nil
	}
	c := &entity.Category{Immutable: entity.NewImmutable(time.Now()), Name: name}
	r.db.categories[c.ID] = c
	cp := *c
	return &cp, entity.CategoryCreated, nil
}

func (r *memCategories) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.categories[id]; !ok {
		return repository.ErrRowNotFound
	}
	delete(r.db.categories, id)
	return nil
}

// carts

type memCartLine struct {
	productID uuid.UUID
	quantity  int
}

type memCarts struct{ db *memDB }

func (r *memCarts) byUser(userID uuid.UUID) *entity.Cart {
	for _, c := range r.db.carts {
		if c.UserID == userID {
			return c
		}
	}
	return nil
}

func (r *memCarts) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c := r.byUser(userID)
	if c == nil {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCarts) Upsert(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c := r.byUser(userID)
	if c == nil {
		now := time.Now()
		c = &entity.Cart{
			Model:  entity.NewModel(now),
			UserID: userID,
		}
		r.db.carts[c.ID] = c
	}
	cp := *c
	return &cp, nil
}

func (r *memCarts) AddItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.carts[cartID]; !ok {
		return 0, repository.ErrRowNotFound
	}
	lines := r.db.cartLines[cartID]
	for i := range lines {
		if lines[i].productID == productID {
			if lines[i].quantity+quantity > entity.MaxQuantity {
				return 0, repository.ErrQuantityLimit
			}
			lines[i].quantity += quantity
			return lines[i].quantity, nil
		}
	}
	r.db.cartLines[cartID] = append(lines, memCartLine{productID: productID, quantity: quantity})
	return quantity, nil
}

func (r *memCarts) FindLines(ctx context.Context, cartID uuid.UUID) ([]entity.CartLine, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	lines := []entity.CartLine{}
	for _, item := range r.db.cartLines[cartID] {
		p, ok := r.db.products[item.productID]
		if !ok {
			continue
		}
		image := ""
		if len(p.Images) > 0 {
			image = p.Images[0]
		}
		lines = append(lines, entity.CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Image:     image,
			Quantity:  item.quantity,
		})
	}
	return lines, nil
}

func (r *memCarts) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	lines := r.db.cartLines[cartID]
	for i, item := range lines {
		if item.productID == productID {
			r.db.cartLines[cartID] = append(lines[:i], lines[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *memCarts) DeleteByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c := r.byUser(userID)
	if c == nil {
		return false, nil
	}
	delete(r.db.carts, c.ID)
	delete(r.db.cartLines, c.ID)
	return true, nil
}

// orders

type memOrders struct{ db *memDB }

func (r *memOrders) Create(ctx context.Context, order *entity.Order) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o := *order
	o.Items = append([]entity.OrderItem(nil), order.Items...)
	r.db.orders[o.ID] = &o
	return nil
}

func (r *memOrders) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if o, ok := r.db.orders[id]; ok {
		c := *o
		return &c, nil
	}
	return nil, nil
}

func (r *memOrders) filter(keep func(*entity.Order) bool) []*entity.Order {
	var out []*entity.Order
	for _, o := range r.db.orders {
		if keep(o) {
			c := *o
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memOrders) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return page(r.filter(func(o *entity.Order) bool { return o.UserID == userID }), limit, offset), nil
}

func (r *memOrders) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.filter(func(o *entity.Order) bool { return o.UserID == userID }))), nil
}

func statusFilter(status *entity.OrderStatus) func(*entity.Order) bool {
	return func(o *entity.Order) bool { return status == nil || o.Status == *status }
}

func (r *memOrders) FindAll(ctx context.Context, status *entity.OrderStatus, limit, offset int) ([]*entity.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return page(r.filter(statusFilter(status)), limit, offset), nil
}

func (r *memOrders) CountAll(ctx context.Context, status *entity.OrderStatus) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.filter(statusFilter(status)))), nil
}

func (r *memOrders) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.orders[id]
	if !ok {
		return repository.ErrRowNotFound
	}
	o.Status = status
	return nil
}

// payments

type memPayments struct{ db *memDB }

func (r *memPayments) Create(ctx context.Context, payment *entity.Payment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.payments[payment.Reference]; ok {
		return repository.ErrDuplicate
	}
	p := *payment
	r.db.payments[p.Reference] = &p
	return nil
}

func (r *memPayments) byID(id uuid.UUID) *entity.Payment {
	for _, p := range r.db.payments {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *memPayments) SetGatewayResult(ctx context.Context, id uuid.UUID, gatewayRef, authorizationURL string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p := r.byID(id)
	if p == nil {
		return repository.ErrRowNotFound
	}
	p.GatewayRef = &gatewayRef
	p.AuthorizationURL = &authorizationURL
	return nil
}

func (r *memPayments) FindByReference(ctx context.Context, reference string) (*entity.Payment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if p, ok := r.db.payments[reference]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r *memPayments) FindByReferenceForUpdate(ctx context.Context, reference string) (*entity.Payment, error) {
	return r.FindByReference(ctx, reference)
}

func (r *memPayments) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p := r.byID(id)
	if p == nil {
		return repository.ErrRowNotFound
	}
	p.Status = status
	return nil
}

// checkout records

type memCheckouts struct{ db *memDB }

func (r *memCheckouts) Create(ctx context.Context, record *entity.CheckoutRecord) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.checkouts[record.Reference]; ok {
		return repository.ErrDuplicate
	}
	c := *record
	r.db.checkouts[c.Reference] = &c
	return nil
}

func (r *memCheckouts) FindByReference(ctx context.Context, reference string) (*entity.CheckoutRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c, ok := r.db.checkouts[reference]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *memCheckouts) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.CheckoutRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.CheckoutRecord
	for _, c := range r.db.checkouts {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return page(out, limit, offset), nil
}

func (r *memCheckouts) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, c := range r.db.checkouts {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

// stats

type memStats struct{ db *memDB }

func (r *memStats) Dashboard(ctx context.Context, lowStockThreshold int) (*entity.DashboardStats, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stats := &entity.DashboardStats{
		TotalProducts: int64(len(r.db.products)),
		TotalOrders:   int64(len(r.db.orders)),
		TotalUsers:    int64(len(r.db.users)),
		OrderRevenue:  decimal.Zero,
		PaidRevenue:   decimal.Zero,
	}
	for _, p := range r.db.products {
		if p.Stock <= lowStockThreshold {
			stats.LowStock++
		}
	}
	for _, o := range r.db.orders {
		if o.Status == entity.OrderStatusPending {
			stats.PendingOrders++
		}
		if o.Status != entity.OrderStatusCancelled {
			stats.OrderRevenue = stats.OrderRevenue.Add(o.Total)
		}
	}
	for _, c := range r.db.checkouts {
		if c.Status {
			stats.PaidRevenue = stats.PaidRevenue.Add(c.TotalAmount)
		}
	}
	return stats, nil
}

// infrastructure fakes

type fakeGateway struct {
	mu         sync.Mutex
	initErr    error
	verifyErr  error
	verify     map[string]*gateway.VerifyResult
	webhook    *gateway.WebhookEvent
	webhookErr error
	inits      []gateway.InitRequest
	verifies   int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{verify: map[string]*gateway.VerifyResult{}}
}

func (g *fakeGateway) Name() string { return "fake" }

func (g *fakeGateway) Initialize(ctx context.Context, req gateway.InitRequest) (*gateway.InitResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inits = append(g.inits, req)
	if g.initErr != nil {
		return nil, g.initErr
	}
	return &gateway.InitResult{
		AuthorizationURL: "https://pay.example.com/" + req.Reference,
		GatewayRef:       "gw_" + req.Reference,
	}, nil
}

func (g *fakeGateway) Verify(ctx context.Context, gatewayRef string) (*gateway.VerifyResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.verifies++
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	res, ok := g.verify[gatewayRef]
	if !ok {
		return nil, &gateway.GatewayError{Op: "verify", StatusCode: http.StatusNotFound}
	}
	return res, nil
}

func (g *fakeGateway) ParseWebhook(payload []byte, header http.Header) (*gateway.WebhookEvent, error) {
	if g.webhookErr != nil {
		return nil, g.webhookErr
	}
	return g.webhook, nil
}

// settle makes the next Verify for the initialized reference report status.
func (g *fakeGateway) settle(reference string, status gateway.Status, amount int64, currency string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.verify["gw_"+reference] = &gateway.VerifyResult{
		Reference:     reference,
		TransactionID: "trx_" + reference,
		Status:        status,
		Amount:        amount,
		Currency:      currency,
	}
}

type sentMail struct {
	To, Subject, Body string
}

type captureMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *captureMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(ctx context.Context, evts ...events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evts...)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type memStorage struct {
	mu      sync.Mutex
	saved   map[string][]byte
	deleted []string
	saveErr error
}

func (s *memStorage) Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	url := "/public/" + name
	s.saved[url] = data
	return url, nil
}

func (s *memStorage) Delete(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saved, url)
	s.deleted = append(s.deleted, url)
	return nil
}

// harness wires real services over the fakes.
type harness struct {
	db      *memDB
	repo    *repository.Repository
	gateway *fakeGateway
	mailer  *captureMailer
	events  *capturePublisher
	storage *memStorage
	redis   *miniredis.Miniredis
	store   cache.Store
	tokens  *token.Manager
	svc     *Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, nil)
}

// newHarnessWith lets a test adjust the store or config before the
// services are built.
func newHarnessWith(t *testing.T, adjust func(h *harness, config *utils.Config)) *harness {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := &harness{
		db:      newMemDB(),
		gateway: newFakeGateway(),
		mailer:  &captureMailer{},
		events:  &capturePublisher{},
		storage: &memStorage{saved: map[string][]byte{}},
		redis:   mr,
		store:   cache.NewRedisStore(client),
		tokens:  token.NewManager("test-secret", time.Hour),
	}
	h.repo = h.db.repository()

	config := &utils.Config{
		OTP:   utils.OTPConfig{ExpiryMinutes: 10, Length: 6},
		Redis: utils.RedisConfig{ProductCacheTTL: time.Minute},
		Payment: utils.PaymentConfig{
			Currency:    "NGN",
			CallbackURL: "http://localhost:8080/api/v1/payment/callback",
		},
	}
	if adjust != nil {
		adjust(h, config)
	}

	h.svc = NewService(Deps{
		Repo:      h.repo,
		Config:    config,
		Tokens:    h.tokens,
		Store:     h.store,
		Mailer:    h.mailer,
		Storage:   h.storage,
		Gateway:   h.gateway,
		Publisher: h.events,
	}, zap.NewNop())
	return h
}

func (h *harness) addUser(t *testing.T, email string, role entity.UserRole) *entity.User {
	t.Helper()
	hashed, err := utils.HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	now := time.Now()
	user := &entity.User{
		Model:        entity.NewModel(now),
		Name:         "Test User",
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
		IsActive:     true,
	}
	if err := h.repo.User.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (h *harness) addProduct(t *testing.T, name, price string, owner uuid.UUID) *entity.Product {
	t.Helper()
	now := time.Now()
	product := &entity.Product{
		Model:       entity.NewModel(now),
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Stock:       10,
		Category:    "General",
		Images:      []string{"/public/" + name + ".png"},
		CreatedBy:   owner,
	}
	if err := h.repo.Product.Create(context.Background(), product); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
