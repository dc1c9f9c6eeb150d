package handlers

import (
	"github.com/jmoiron/sqlx"

	"vibecommerce/internal/config"
	"vibecommerce/internal/repos"
	"vibecommerce/internal/services"
)

type Deps struct {
	Auth *services.AuthService

	AuthHandler      *AuthHandler
	CategoryHandler  *CategoryHandler
	ProductHandler   *ProductHandler
	InventoryHandler *InventoryHandler
	CartHandler      *CartHandler
	CheckoutHandler  *CheckoutHandler
	OrderHandler     *OrderHandler
	ReceiptHandler   *ReceiptHandler
}

// NewDeps wires repos and services over db. sessions may be nil, in which
// case sessions live in the SQL store.
func NewDeps(db *sqlx.DB, cfg config.Config, sessions services.SessionStore) *Deps {
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	userRepo := repos.NewUserRepo(db)
	if sessions == nil {
		sessions = repos.NewSessionRepo(db, cfg.SessionTTL)
	}

	authSvc := services.NewAuthService(userRepo, sessions, cfg.BcryptCost)
	catalogSvc := services.NewCatalogService(prodRepo)
	invSvc := services.NewInventoryService(catalogSvc)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	checkoutSvc := services.NewCheckoutService()
	orderSvc := services.NewOrderService(orderRepo)

	return &Deps{
		Auth:             authSvc,
		AuthHandler:      &AuthHandler{Auth: authSvc},
		CategoryHandler:  &CategoryHandler{Catalog: catalogSvc},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
		CartHandler:      &CartHandler{Cart: cartSvc},
		CheckoutHandler:  &CheckoutHandler{Checkout: checkoutSvc},
		OrderHandler:     &OrderHandler{Order: orderSvc},
		ReceiptHandler:   &ReceiptHandler{Order: orderSvc},
	}
}
