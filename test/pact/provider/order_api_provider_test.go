//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	pacttest "github.com/Apurer/go-order-fulfillment/test/pact"

	orderserver "github.com/Apurer/go-order-fulfillment/go"
	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/adapters/simulated"
	fulfillmentapp "github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/application"
	invmemory "github.com/Apurer/go-order-fulfillment/internal/domains/inventory/adapters/memory"
	invapp "github.com/Apurer/go-order-fulfillment/internal/domains/inventory/application"
	invdomain "github.com/Apurer/go-order-fulfillment/internal/domains/inventory/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/adapters/changefeed"
	ordersmemory "github.com/Apurer/go-order-fulfillment/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/go-order-fulfillment/internal/domains/orders/adapters/observability"
	ordersapp "github.com/Apurer/go-order-fulfillment/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/go-order-fulfillment/internal/domains/orders/domain"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestOrderAPIProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateInventorySeeded: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StateOrderExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedOrder(t, pacttest.ExistingOrderID)
			}
			return nil, nil
		},
		pacttest.StateOrderMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp rebuilds the in-memory stack on every reset so each
// interaction starts from the seeded catalog and an empty order book.
type contractProviderApp struct {
	mu     sync.RWMutex
	router http.Handler
	repo   *ordersmemory.Repository
	server *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	store := invmemory.NewSeededStore(invdomain.DefaultCatalog())
	repo := ordersmemory.NewRepository()
	feed := changefeed.NewInline()
	coordinator := ordersapp.NewCoordinator(store, repo, ordersmemory.NewDispatcher(), ordersapp.WithCoordinatorLogger(logger))
	orderService := ordersobs.New(ordersapp.NewService(repo, feed, coordinator, ordersapp.WithServiceLogger(logger)))
	feed.Subscribe(changefeed.ServiceHandler(orderService, logger))

	payment := fulfillmentapp.NewPaymentStage(simulated.NewGateway(simulated.WithPaymentDelay(0)))
	shipping := fulfillmentapp.NewShippingStage(simulated.NewCarrier(simulated.WithShippingDelay(0)))

	handlers := orderserver.ApiHandleFunctions{
		OrderAPI:       orderserver.NewOrderAPI(orderService),
		InventoryAPI:   orderserver.NewInventoryAPI(invapp.NewService(store)),
		FulfillmentAPI: orderserver.NewFulfillmentAPI(payment, shipping),
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router = orderserver.NewRouterWithGinEngine(router, handlers)

	a.mu.Lock()
	a.router = router
	a.repo = repo
	a.mu.Unlock()
}

func (a *contractProviderApp) seedOrder(t testing.TB, id string) {
	t.Helper()
	at := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	order, err := ordersdomain.NewOrder(id, pacttest.ExampleCustomer, pacttest.ExampleOrderItems(), at)
	require.NoError(t, err)
	a.mu.RLock()
	repo := a.repo
	a.mu.RUnlock()
	_, err = repo.Create(context.Background(), order)
	require.NoError(t, err)
	require.NoError(t, order.UpdateStatus(ordersdomain.StatusProcessing, "", at))
	require.NoError(t, repo.RecordStatus(context.Background(), order))
}
