package orderrepo

import (
	"context"
	"strings"
	"sync"

	"github.com/yanqian/shopbot/internal/domain/dialog"
)

// MemoryRepository is an in-memory order table used for tests/dev.
type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]dialog.Order
}

// NewMemoryRepository constructs a repo holding the given orders.
func NewMemoryRepository(orders ...dialog.Order) *MemoryRepository {
	r := &MemoryRepository{orders: make(map[string]dialog.Order, len(orders))}
	for _, order := range orders {
		r.Put(order)
	}
	return r
}

// Put inserts or replaces an order. Ids are stored uppercased.
func (r *MemoryRepository) Put(order dialog.Order) {
	order.OrderID = strings.ToUpper(strings.TrimSpace(order.OrderID))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.OrderID] = order
}

// GetByID implements dialog.OrderRepository.
func (r *MemoryRepository) GetByID(_ context.Context, orderID string) (dialog.Order, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[orderID]
	return order, ok, nil
}

var _ dialog.OrderRepository = (*MemoryRepository)(nil)
