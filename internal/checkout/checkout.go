// Package checkout implements the order placement workflow:
// validate customer → reserve stock → persist → invalidate cache → respond.
// Each step is a hard precondition for the next; any failure before
// persistence leaves no order record.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/ecommerce-analytics/internal/analytics"
	"github.com/jcmexdev/ecommerce-analytics/internal/domain"
	"github.com/jcmexdev/ecommerce-analytics/internal/store"
)

// CacheInvalidator is the slice of the coordinator the workflow needs:
// fire the invalidation set after a successful commit.
type CacheInvalidator interface {
	InvalidateForOrder(ctx context.Context, customerID string)
}

// OrderResolver expands the persisted order for the response.
type OrderResolver interface {
	GetOrder(ctx context.Context, id string) (*analytics.ResolvedOrder, error)
}

type ItemInput struct {
	ProductID string
	Quantity  int
}

type PlaceOrderInput struct {
	CustomerID      string
	Items           []ItemInput
	PaymentMethod   string
	ShippingAddress *domain.Address
}

type Service struct {
	customers   store.CustomerStore
	products    store.ProductStore
	orders      store.OrderStore
	invalidator CacheInvalidator
	resolver    OrderResolver
	now         func() time.Time
}

func NewService(
	customers store.CustomerStore,
	products store.ProductStore,
	orders store.OrderStore,
	invalidator CacheInvalidator,
	resolver OrderResolver,
) *Service {
	return &Service{
		customers:   customers,
		products:    products,
		orders:      orders,
		invalidator: invalidator,
		resolver:    resolver,
		now:         time.Now,
	}
}

// step is a named unit of the placement workflow, run sequentially.
type step struct {
	name string
	run  func(ctx context.Context) error
}

// PlaceOrder runs the placement workflow and returns the new order with its
// customer and product references expanded.
func (s *Service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*analytics.ResolvedOrder, error) {
	p := &placement{svc: s, input: input}

	steps := []step{
		{name: "validate_customer", run: p.validateCustomer},
		{name: "reserve_stock", run: p.reserveStock},
		{name: "persist_order", run: p.persistOrder},
		{name: "invalidate_cache", run: p.invalidateCache},
		{name: "resolve_order", run: p.resolveOrder},
	}

	for _, st := range steps {
		if err := st.run(ctx); err != nil {
			slog.WarnContext(ctx, "order placement step failed",
				"step", st.name, "customer_id", input.CustomerID, "error", err)
			return nil, err
		}
	}

	slog.InfoContext(ctx, "order placed",
		"order_id", p.order.ID, "customer_id", input.CustomerID, "total", p.order.Total)
	return p.resolved, nil
}

// placement carries the state accumulated across the workflow steps.
type placement struct {
	svc      *Service
	input    PlaceOrderInput
	customer *domain.Customer
	order    domain.Order
	resolved *analytics.ResolvedOrder
}

func (p *placement) validateCustomer(ctx context.Context) error {
	if len(p.input.Items) == 0 {
		return &domain.InvalidInputError{Msg: "order must contain at least one item"}
	}

	c, err := p.svc.customers.Get(ctx, p.input.CustomerID)
	if errors.Is(err, store.ErrNotFound) {
		return &domain.NotFoundError{Resource: "customer", ID: p.input.CustomerID}
	}
	if err != nil {
		return fmt.Errorf("load customer %q: %w", p.input.CustomerID, err)
	}
	p.customer = c
	return nil
}

// reserveStock validates each item and decrements its stock as it goes,
// capturing the product's current price into the order item.
//
// The decrement is per item and unconditional, exactly like the system this
// replaces: if a later item fails validation, earlier decrements are not
// rolled back, and two concurrent placements can both pass the stock check
// before either decrements. A compare-and-decrement reservation would close
// both gaps but changes observable behaviour; see DESIGN.md.
func (p *placement) reserveStock(ctx context.Context) error {
	items := make([]domain.OrderItem, 0, len(p.input.Items))

	for _, in := range p.input.Items {
		if in.Quantity < 1 {
			return &domain.InvalidInputError{Msg: fmt.Sprintf("quantity for product %s must be >= 1", in.ProductID)}
		}

		product, err := p.svc.products.Get(ctx, in.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			return &domain.NotFoundError{Resource: "product", ID: in.ProductID}
		}
		if err != nil {
			return fmt.Errorf("load product %q: %w", in.ProductID, err)
		}

		if product.Stock < in.Quantity {
			return &domain.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   in.Quantity,
				Available:   product.Stock,
			}
		}

		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Quantity:  in.Quantity,
			UnitPrice: product.Price,
		})

		if err := p.svc.products.DecrementStock(ctx, product.ID, in.Quantity); err != nil {
			return fmt.Errorf("decrement stock for %q: %w", product.ID, err)
		}
	}

	p.order.Items = items
	return nil
}

func (p *placement) persistOrder(ctx context.Context) error {
	var total float64
	for _, it := range p.order.Items {
		total += it.Subtotal()
	}

	shipping := p.customer.Address
	if p.input.ShippingAddress != nil {
		shipping = *p.input.ShippingAddress
	}

	p.order.ID = uuid.NewString()
	p.order.CustomerID = p.customer.ID
	p.order.Total = total
	p.order.Status = domain.StatusPending
	p.order.PaymentMethod = p.input.PaymentMethod
	p.order.ShippingAddress = shipping
	p.order.OrderDate = p.svc.now().UTC()

	if err := p.svc.orders.Insert(ctx, p.order); err != nil {
		return fmt.Errorf("persist order %q: %w", p.order.ID, err)
	}
	return nil
}

// invalidateCache never fails the placement: the order is already committed,
// and a skipped invalidation self-heals at the next TTL expiry.
func (p *placement) invalidateCache(ctx context.Context) error {
	p.svc.invalidator.InvalidateForOrder(ctx, p.customer.ID)
	return nil
}

func (p *placement) resolveOrder(ctx context.Context) error {
	resolved, err := p.svc.resolver.GetOrder(ctx, p.order.ID)
	if err != nil {
		return fmt.Errorf("resolve order %q: %w", p.order.ID, err)
	}
	p.resolved = resolved
	return nil
}
