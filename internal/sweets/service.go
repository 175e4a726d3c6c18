package sweets

import (
	"context"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/charuprabha111/sweet-shop-management/internal/auth"
	kafkax "github.com/charuprabha111/sweet-shop-management/internal/kafka"
)

// Service runs every operation through the authorization gate before touching
// the store, and publishes stock-change events after successful mutations.
type Service struct {
	Store       Store
	Gate        *auth.Gate
	Events      *kafkax.Producer // nil -> events disabled
	Logger      *zap.Logger
	ServiceName string
}

func (s *Service) Create(ctx context.Context, ident *auth.Identity, in Sweet) (Sweet, error) {
	if err := s.Gate.Authorize(ident, auth.ActionCreate); err != nil {
		return Sweet{}, err
	}
	sw, err := s.Store.Create(ctx, in)
	if err != nil {
		return Sweet{}, err
	}
	s.Logger.Info("sweet created", zap.String("sweet_id", sw.ID), zap.String("name", sw.Name))
	return sw, nil
}

func (s *Service) Get(ctx context.Context, ident *auth.Identity, id string) (Sweet, error) {
	if err := s.Gate.Authorize(ident, auth.ActionRead); err != nil {
		return Sweet{}, err
	}
	return s.Store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, ident *auth.Identity, f Filter) ([]Sweet, error) {
	if err := s.Gate.Authorize(ident, auth.ActionRead); err != nil {
		return nil, err
	}
	return s.Store.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, ident *auth.Identity, id string, upd Update) (Sweet, error) {
	if err := s.Gate.Authorize(ident, auth.ActionUpdate); err != nil {
		return Sweet{}, err
	}
	return s.Store.Update(ctx, id, upd)
}

func (s *Service) Delete(ctx context.Context, ident *auth.Identity, id string) error {
	if err := s.Gate.Authorize(ident, auth.ActionDelete); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.Info("sweet deleted", zap.String("sweet_id", id))
	return nil
}

// Purchase decrements quantity by exactly one; the store rejects the call
// atomically when the record is out of stock.
func (s *Service) Purchase(ctx context.Context, ident *auth.Identity, id string) (Sweet, error) {
	if err := s.Gate.Authorize(ident, auth.ActionPurchase); err != nil {
		return Sweet{}, err
	}
	sw, err := s.Store.Purchase(ctx, id)
	if err != nil {
		return Sweet{}, err
	}
	s.Logger.Info("sweet purchased",
		zap.String("sweet_id", sw.ID),
		zap.Int("quantity", sw.Quantity),
	)
	s.publishStockChanged(EventSweetPurchased, sw, -1)
	return sw, nil
}

// Restock validates amount before any lock is taken, then increments under
// the record lock. Staff only.
func (s *Service) Restock(ctx context.Context, ident *auth.Identity, id string, amount int) (Sweet, error) {
	if err := s.Gate.Authorize(ident, auth.ActionRestock); err != nil {
		return Sweet{}, err
	}
	if amount <= 0 {
		return Sweet{}, ErrInvalidAmount
	}
	sw, err := s.Store.Restock(ctx, id, amount)
	if err != nil {
		return Sweet{}, err
	}
	s.Logger.Info("sweet restocked",
		zap.String("sweet_id", sw.ID),
		zap.Int("amount", amount),
		zap.Int("quantity", sw.Quantity),
	)
	s.publishStockChanged(EventSweetRestocked, sw, amount)
	return sw, nil
}

// publishStockChanged is best-effort; mutation outcomes never depend on it.
func (s *Service) publishStockChanged(eventType string, sw Sweet, delta int) {
	if s.Events == nil {
		return
	}
	ev := Envelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     s.ServiceName,
		Payload: kafkax.MustMarshal(StockChangedPayload{
			SweetID:  sw.ID,
			Name:     sw.Name,
			Delta:    delta,
			Quantity: sw.Quantity,
		}),
	}
	s.Events.Publish(PartitionKey(sw.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
