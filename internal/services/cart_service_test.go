package services_test

import (
	"sync"
	"testing"

	"partspicker/internal/models"
	"partspicker/internal/repositories"
	"partspicker/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher captures published stock events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) PublishStockEvent(routingKey string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, routingKey)
	return nil
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

func newCartFixture(t *testing.T, stock int) (*services.CartService, *repositories.MockPartRepository, *recordingPublisher, string) {
	t.Helper()
	partRepo := repositories.NewMockPartRepository()
	part := &models.Part{
		Name:          "Brake Pad",
		Price:         49.90,
		Currency:      "EUR",
		StockQuantity: stock,
	}
	require.NoError(t, partRepo.Create(part))

	publisher := &recordingPublisher{}
	cartRepo := repositories.NewMockCartRepository(partRepo)
	return services.NewCartService(cartRepo, publisher), partRepo, publisher, part.ID
}

func partStock(t *testing.T, repo *repositories.MockPartRepository, partID string) int {
	t.Helper()
	part, err := repo.GetByID(partID)
	require.NoError(t, err)
	return part.StockQuantity
}

func TestCartService_GetOrCreateCart(t *testing.T) {
	svc, _, _, _ := newCartFixture(t, 5)

	cart, err := svc.GetOrCreateCart("user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", cart.UserID)
	assert.Empty(t, cart.Items)

	// Idempotent: the second call returns the same cart.
	again, err := svc.GetOrCreateCart("user-1")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestCartService_AddItem_ReservesStock(t *testing.T) {
	svc, parts, publisher, partID := newCartFixture(t, 5)

	item, err := svc.AddItem("user-1", partID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, 2, partStock(t, parts, partID))

	// A second add for the same part must fail: only 2 left.
	_, err = svc.AddItem("user-1", partID, 3)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
	assert.Equal(t, 2, partStock(t, parts, partID))

	cart, err := svc.GetOrCreateCart("user-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	assert.Equal(t, []string{"stock.reserved"}, publisher.published())
}

func TestCartService_AddItem_IncrementsExistingLine(t *testing.T) {
	svc, parts, _, partID := newCartFixture(t, 5)

	_, err := svc.AddItem("user-1", partID, 2)
	require.NoError(t, err)
	item, err := svc.AddItem("user-1", partID, 2)
	require.NoError(t, err)

	assert.Equal(t, 4, item.Quantity)
	assert.Equal(t, 1, partStock(t, parts, partID))

	cart, err := svc.GetOrCreateCart("user-1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCartService_AddItem_Validation(t *testing.T) {
	svc, parts, _, partID := newCartFixture(t, 5)

	_, err := svc.AddItem("user-1", partID, 0)
	assert.Error(t, err)
	_, err = svc.AddItem("user-1", partID, -2)
	assert.Error(t, err)
	assert.Equal(t, 5, partStock(t, parts, partID))

	_, err = svc.AddItem("user-1", "missing-part", 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCartService_UpdateItem_MovesStockSymmetrically(t *testing.T) {
	svc, parts, publisher, partID := newCartFixture(t, 10)

	item, err := svc.AddItem("user-1", partID, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, partStock(t, parts, partID))

	// Increase by 2: stock absorbs the delta.
	updated, err := svc.UpdateItem("user-1", item.ID, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Quantity)
	assert.Equal(t, 4, partStock(t, parts, partID))

	// Decrease back to 1: the difference returns to stock.
	updated, err = svc.UpdateItem("user-1", item.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Quantity)
	assert.Equal(t, 9, partStock(t, parts, partID))

	// Increase beyond what stock can absorb.
	_, err = svc.UpdateItem("user-1", item.ID, 11)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
	assert.Equal(t, 9, partStock(t, parts, partID))

	assert.Equal(t, []string{"stock.reserved", "stock.reserved", "stock.released"}, publisher.published())
}

func TestCartService_UpdateItem_ForeignItemIsNotFound(t *testing.T) {
	svc, _, _, partID := newCartFixture(t, 10)

	item, err := svc.AddItem("user-1", partID, 2)
	require.NoError(t, err)

	_, err = svc.UpdateItem("user-2", item.ID, 5)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCartService_RemoveItem_RestoresStock(t *testing.T) {
	svc, parts, publisher, partID := newCartFixture(t, 10)

	item, err := svc.AddItem("user-1", partID, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, partStock(t, parts, partID))

	require.NoError(t, svc.RemoveItem("user-1", item.ID))
	assert.Equal(t, 10, partStock(t, parts, partID))

	cart, err := svc.GetOrCreateCart("user-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	assert.Equal(t, []string{"stock.reserved", "stock.released"}, publisher.published())

	err = svc.RemoveItem("user-1", item.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// Fifty concurrent single-unit adds against a stock of ten: exactly ten must
// succeed and the stock must end at zero, never below.
func TestCartService_ConcurrentAddsNeverOversell(t *testing.T) {
	svc, parts, _, partID := newCartFixture(t, 10)

	const attempts = 50
	var wg sync.WaitGroup
	errs := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			// Spread the adds over a handful of users so cart creation
			// races too.
			user := []string{"user-a", "user-b", "user-c", "user-d", "user-e"}[n%5]
			_, err := svc.AddItem(user, partID, 1)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	succeeded, failed := 0, 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, models.ErrInsufficientStock)
			failed++
		}
	}

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 40, failed)
	assert.Equal(t, 0, partStock(t, parts, partID))
}
