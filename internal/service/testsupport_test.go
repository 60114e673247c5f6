package service

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/bizops-service/internal/domain"
	"github.com/spec-kit/bizops-service/internal/events"
	"github.com/spec-kit/bizops-service/internal/repository"
	apperrors "github.com/spec-kit/bizops-service/pkg/util"
)

// In-memory repository fakes shared by the service tests. They return
// pgx.ErrNoRows on misses the same way the Postgres implementations do.

type memUserRepo struct {
	nextID int64
	users  map[int64]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, users: make(map[int64]*domain.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *domain.User) error {
	user.ID = r.nextID
	r.nextID++
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) Update(ctx context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, nil
}

func (r *memUserRepo) SetActive(ctx context.Context, id int64, active bool) error {
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Active = active
	return nil
}

type memClientRepo struct {
	nextID     int64
	clients    map[int64]*domain.Client
	dependents map[int64]int
}

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{
		nextID:     1,
		clients:    make(map[int64]*domain.Client),
		dependents: make(map[int64]int),
	}
}

func (r *memClientRepo) Create(ctx context.Context, client *domain.Client) error {
	client.ID = r.nextID
	r.nextID++
	clone := *client
	r.clients[client.ID] = &clone
	return nil
}

func (r *memClientRepo) Update(ctx context.Context, client *domain.Client) error {
	if _, ok := r.clients[client.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *client
	r.clients[client.ID] = &clone
	return nil
}

func (r *memClientRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *client
	return &clone, nil
}

func (r *memClientRepo) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	for _, client := range r.clients {
		if client.Email == email {
			clone := *client
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memClientRepo) List(ctx context.Context, filter repository.ClientFilter) ([]domain.Client, error) {
	out := make([]domain.Client, 0, len(r.clients))
	for _, client := range r.clients {
		out = append(out, *client)
	}
	return out, nil
}

func (r *memClientRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.clients[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.clients, id)
	return nil
}

func (r *memClientRepo) CountDependents(ctx context.Context, id int64) (int, error) {
	return r.dependents[id], nil
}

type memProductRepo struct {
	nextID   int64
	products map[int64]*domain.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{nextID: 1, products: make(map[int64]*domain.Product)}
}

func (r *memProductRepo) seed(product domain.Product) *domain.Product {
	product.ID = r.nextID
	r.nextID++
	r.products[product.ID] = &product
	return &product
}

func (r *memProductRepo) Create(ctx context.Context, product *domain.Product) error {
	product.ID = r.nextID
	r.nextID++
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *memProductRepo) Update(ctx context.Context, product *domain.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *memProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *product
	return &clone, nil
}

func (r *memProductRepo) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	for _, product := range r.products {
		if product.Code == code {
			clone := *product
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(r.products))
	for _, product := range r.products {
		out = append(out, *product)
	}
	return out, nil
}

func (r *memProductRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.products[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) IncrementStock(ctx context.Context, id int64, quantity int) error {
	product, ok := r.products[id]
	if !ok {
		return pgx.ErrNoRows
	}
	product.Stock += quantity
	return nil
}

func (r *memProductRepo) DecrementStock(ctx context.Context, id int64, quantity int) (bool, error) {
	product, ok := r.products[id]
	if !ok {
		return false, pgx.ErrNoRows
	}
	if product.Stock < quantity {
		return false, nil
	}
	product.Stock -= quantity
	return true, nil
}

type memSaleRepo struct {
	nextID int64
	sales  map[int64]*domain.Sale
	items  []domain.SaleItem
}

func newMemSaleRepo() *memSaleRepo {
	return &memSaleRepo{nextID: 1, sales: make(map[int64]*domain.Sale)}
}

func (r *memSaleRepo) Create(ctx context.Context, sale *domain.Sale) error {
	sale.ID = r.nextID
	r.nextID++
	clone := *sale
	r.sales[sale.ID] = &clone
	return nil
}

func (r *memSaleRepo) CreateItem(ctx context.Context, item *domain.SaleItem) error {
	item.ID = int64(len(r.items) + 1)
	r.items = append(r.items, *item)
	return nil
}

func (r *memSaleRepo) GetByID(ctx context.Context, id int64) (*domain.Sale, error) {
	sale, ok := r.sales[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *sale
	return &clone, nil
}

func (r *memSaleRepo) ListItems(ctx context.Context, saleID int64) ([]domain.SaleItem, error) {
	var out []domain.SaleItem
	for _, item := range r.items {
		if item.SaleID == saleID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memSaleRepo) List(ctx context.Context, filter repository.SaleFilter) ([]domain.Sale, error) {
	out := make([]domain.Sale, 0, len(r.sales))
	for _, sale := range r.sales {
		out = append(out, *sale)
	}
	return out, nil
}

type memMovementRepo struct {
	movements []domain.StockMovement
}

func (r *memMovementRepo) Create(ctx context.Context, movement *domain.StockMovement) error {
	movement.ID = int64(len(r.movements) + 1)
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *memMovementRepo) ListByProduct(ctx context.Context, productID int64, limit, offset int) ([]domain.StockMovement, error) {
	var out []domain.StockMovement
	for _, movement := range r.movements {
		if movement.ProductID == productID {
			out = append(out, movement)
		}
	}
	return out, nil
}

func (r *memMovementRepo) CountByProduct(ctx context.Context, productID int64) (int, error) {
	count := 0
	for _, movement := range r.movements {
		if movement.ProductID == productID {
			count++
		}
	}
	return count, nil
}

// fakeSaleTx hands the same fakes to the callback and discards all writes
// when the callback fails, mirroring a rolled-back transaction.
type fakeSaleTx struct {
	sales     *memSaleRepo
	products  *memProductRepo
	movements *memMovementRepo
}

func (f *fakeSaleTx) SaleTx(ctx context.Context, fn func(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
) error) error {
	salesBefore := snapshotSales(f.sales)
	productsBefore := snapshotProducts(f.products)
	movementsBefore := append([]domain.StockMovement(nil), f.movements.movements...)

	if err := fn(f.sales, f.products, f.movements); err != nil {
		f.sales.sales = salesBefore.sales
		f.sales.items = salesBefore.items
		f.sales.nextID = salesBefore.nextID
		f.products.products = productsBefore
		f.movements.movements = movementsBefore
		return err
	}
	return nil
}

type saleSnapshot struct {
	sales  map[int64]*domain.Sale
	items  []domain.SaleItem
	nextID int64
}

func snapshotSales(r *memSaleRepo) saleSnapshot {
	sales := make(map[int64]*domain.Sale, len(r.sales))
	for id, sale := range r.sales {
		clone := *sale
		sales[id] = &clone
	}
	return saleSnapshot{
		sales:  sales,
		items:  append([]domain.SaleItem(nil), r.items...),
		nextID: r.nextID,
	}
}

func snapshotProducts(r *memProductRepo) map[int64]*domain.Product {
	products := make(map[int64]*domain.Product, len(r.products))
	for id, product := range r.products {
		clone := *product
		products[id] = &clone
	}
	return products
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *recordingDispatcher) ofType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

func requireDomainError(t *testing.T, err error, code string) *apperrors.DomainError {
	t.Helper()
	require.Error(t, err)
	de, ok := err.(*apperrors.DomainError)
	require.True(t, ok, "expected *DomainError, got %T: %v", err, err)
	require.Equal(t, code, de.Code)
	return de
}

func strPtr(s string) *string { return &s }
