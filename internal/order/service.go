package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/email"
	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/game"
	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/logger"
	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/metrics"
	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/user"
	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/wallet"

	"github.com/google/uuid"
)

var (
	ErrEmptyOrder      = errors.New("no items in order")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

type Service interface {
	Checkout(ctx context.Context, userID int, req CheckoutRequest) (*Order, error)
	ListByUser(ctx context.Context, userID int) ([]Order, error)
	GetByID(ctx context.Context, userID, orderID int) (*Order, error)
}

// Catalog supplies authoritative prices. Checkout never trusts prices sent
// by the client.
type Catalog interface {
	GetByID(ctx context.Context, id int) (*game.Game, error)
}

type WalletStore interface {
	GetOrCreateWallet(ctx context.Context, userID int) (*wallet.Wallet, error)
}

type UserStore interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

type service struct {
	repo         Repository
	catalog      Catalog
	wallets      WalletStore
	users        UserStore
	emailService *email.Service
}

func NewService(repo Repository, catalog Catalog, wallets WalletStore, users UserStore, emailService *email.Service) Service {
	return &service{
		repo:         repo,
		catalog:      catalog,
		wallets:      wallets,
		users:        users,
		emailService: emailService,
	}
}

func (s *service) Checkout(ctx context.Context, userID int, req CheckoutRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	var lines []Item
	var totalAmount int64
	for _, it := range req.Items {
		if it.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}

		g, err := s.catalog.GetByID(ctx, it.GameID)
		if err != nil {
			return nil, err
		}

		lines = append(lines, Item{
			GameID:   g.ID,
			Title:    g.Title,
			Price:    g.Price,
			Image:    g.Image,
			Quantity: it.Quantity,
		})
		totalAmount += g.Price * int64(it.Quantity)
	}

	w, err := s.wallets.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	redeem := wallet.MaxRedeemable(req.PointsUsed, w.Balance, totalAmount)
	finalAmount := totalAmount - redeem*wallet.PointValue
	earned := wallet.PointsEarned(finalAmount)

	o, err := s.repo.Create(ctx, CreateParams{
		UserID:        userID,
		OrderNumber:   newOrderNumber(),
		Items:         lines,
		TotalAmount:   totalAmount,
		Discount:      redeem * wallet.PointValue,
		PointsUsed:    redeem,
		FinalAmount:   finalAmount,
		PointsEarned:  earned,
		PaymentMethod: req.PaymentMethod,
		Shipping:      req.ShippingAddress,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordOrder(req.PaymentMethod)
	metrics.RecordPointsEarned(wallet.SourcePurchase, earned)
	if redeem > 0 {
		metrics.RecordPointsRedeemed(wallet.SourceDiscountRedemption, redeem)
	}

	s.sendConfirmation(ctx, userID, o)

	return o, nil
}

func (s *service) sendConfirmation(ctx context.Context, userID int, o *Order) {
	if s.emailService == nil || s.users == nil {
		return
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		logger.Errorf("Order %s: could not load user for confirmation email: %v", o.OrderNumber, err)
		return
	}

	if err := s.emailService.SendOrderConfirmation(ctx, u.Email, u.Name, o.OrderNumber, o.FinalAmount, o.PointsEarned); err != nil {
		logger.Errorf("Order %s: failed to queue confirmation email: %v", o.OrderNumber, err)
	}
}

func (s *service) ListByUser(ctx context.Context, userID int) ([]Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) GetByID(ctx context.Context, userID, orderID int) (*Order, error) {
	return s.repo.GetByID(ctx, userID, orderID)
}

// newOrderNumber returns a collision-resistant order number. The orders
// table carries a unique index on it as a backstop.
func newOrderNumber() string {
	return fmt.Sprintf("JJ-%s", uuid.New())
}
