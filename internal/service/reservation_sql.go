package service

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"github.com/travellyhq/travelly-server/internal/model"
	"github.com/travellyhq/travelly-server/internal/queue"
	"github.com/travellyhq/travelly-server/internal/repository"
)

// SQLReservationService implements ReservationService on MySQL. It owns
// the transactions and delegates row access to the repositories.
type SQLReservationService struct {
	db           *sql.DB
	members      *repository.MemberRepo
	products     *repository.ProductRepo
	tickets      *repository.TicketRepo
	reservations *repository.ReservationRepo
}

// NewSQLReservationService wires the engine to its repositories.
func NewSQLReservationService(db *sql.DB, members *repository.MemberRepo, products *repository.ProductRepo, tickets *repository.TicketRepo, reservations *repository.ReservationRepo) *SQLReservationService {
	return &SQLReservationService{
		db:           db,
		members:      members,
		products:     products,
		tickets:      tickets,
		reservations: reservations,
	}
}

// CheckAvailability confirms the product operates on the given date and
// that the date's configured windows contain the exact requested window.
func (s *SQLReservationService) CheckAvailability(ctx context.Context, productID uint64, date, startTime, endTime string) error {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	return checkSlot(product, date, startTime, endTime)
}

func checkSlot(product *model.Product, date, startTime, endTime string) error {
	start, end := model.NormalizeWindow(startTime, endTime)
	day := product.FindOperationDay(date)
	if day == nil || !day.HasWindow(start, end) {
		return ErrProductNotAvailable
	}
	return nil
}

// Create runs the whole booking as one transaction: resolve product,
// buyer and tickets, validate slot, capacity and funds, persist the
// PENDING reservation with its lines, then decrement inventory and move
// points from buyer to seller. The inventory and balance updates are
// floor-checked in SQL, so concurrent bookings cannot oversell or
// overdraw even though the totals were pre-checked.
func (s *SQLReservationService) Create(ctx context.Context, buyerID, productID uint64, req CreateReservationRequest) (*ReservationView, error) {
	if len(req.Tickets) == 0 {
		return nil, ErrNoTickets
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	product, err := s.products.GetByIDTx(ctx, tx, productID)
	if err != nil {
		return nil, err
	}
	if product.MemberID == buyerID {
		return nil, ErrSelfReservation
	}
	if err := checkSlot(product, req.Date, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	buyer, err := s.members.GetByIDTx(ctx, tx, buyerID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(req.Tickets))
	for _, line := range req.Tickets {
		ids = append(ids, line.TicketID)
	}
	tickets, err := s.tickets.GetByIDsTx(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	totalPrice, totalCount, missing := model.ComputeTotals(req.Tickets, tickets)
	if len(missing) > 0 {
		return nil, repository.ErrTicketNotFound
	}

	if product.Quantity < totalCount {
		return nil, repository.ErrInsufficientQuantity
	}
	if buyer.Point < totalPrice {
		return nil, repository.ErrInsufficientPoints
	}

	start, end := model.NormalizeWindow(req.StartTime, req.EndTime)
	res := &model.Reservation{
		ProductID:        productID,
		BuyerID:          buyerID,
		Name:             req.Name,
		Phone:            req.Phone,
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		Date:             req.Date,
		StartTime:        start,
		EndTime:          end,
		Status:           model.StatusPending,
		TotalPrice:       totalPrice,
		TotalTicketCount: totalCount,
	}
	if err := s.reservations.CreateTx(ctx, tx, res); err != nil {
		return nil, err
	}
	lines := make([]model.ReservationTicket, 0, len(req.Tickets))
	for _, line := range req.Tickets {
		t := tickets[line.TicketID]
		lines = append(lines, model.ReservationTicket{
			ReservationID: res.ID,
			TicketID:      line.TicketID,
			Quantity:      line.Quantity,
			TicketName:    t.Name,
			TicketPrice:   t.Price,
		})
	}
	if err := s.reservations.CreateTicketsBulkTx(ctx, tx, lines); err != nil {
		return nil, err
	}
	res.Tickets = lines

	effect := model.CreateEffect(totalPrice, totalCount)
	if err := s.applyEffectTx(ctx, tx, productID, buyerID, product.MemberID, effect); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	s.publish(ctx, queue.EventReservationCreated, res, product)
	return toView(res, product), nil
}

// applyEffectTx applies the inventory and point deltas of a reservation
// effect. Zero deltas are skipped so a no-op update cannot be mistaken
// for a failed floor check.
func (s *SQLReservationService) applyEffectTx(ctx context.Context, tx *sql.Tx, productID, buyerID, sellerID uint64, effect model.ReservationEffect) error {
	if effect.QuantityDelta != 0 {
		if err := s.products.AdjustQuantityTx(ctx, tx, productID, effect.QuantityDelta); err != nil {
			return err
		}
	}
	if effect.BuyerPointDelta != 0 {
		if err := s.members.AddPointsTx(ctx, tx, buyerID, effect.BuyerPointDelta); err != nil {
			return err
		}
	}
	if effect.SellerPointDelta != 0 {
		if err := s.members.AddPointsTx(ctx, tx, sellerID, effect.SellerPointDelta); err != nil {
			return err
		}
	}
	return nil
}

// Get returns a reservation with its product name and seller attached.
func (s *SQLReservationService) Get(ctx context.Context, id uint64) (*ReservationView, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, res.ProductID)
	if err != nil {
		return nil, err
	}
	return toView(res, product), nil
}

// ListByBuyer returns the member's reservations, newest first.
func (s *SQLReservationService) ListByBuyer(ctx context.Context, buyerID uint64) ([]ReservationView, error) {
	list, err := s.reservations.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	return s.toViews(ctx, list)
}

// ListByProduct returns a product's reservations for its seller.
func (s *SQLReservationService) ListByProduct(ctx context.Context, sellerID, productID uint64) (*ProductReservationsView, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.MemberID != sellerID {
		return nil, repository.ErrForbidden
	}
	list, err := s.reservations.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	views := make([]ReservationView, 0, len(list))
	for i := range list {
		views = append(views, *toView(&list[i], product))
	}
	return &ProductReservationsView{
		ProductID:    product.ID,
		ProductName:  product.Name,
		ProductPrice: product.Price,
		Quantity:     product.Quantity,
		Reservations: views,
	}, nil
}

// SellerSummary aggregates each of the seller's booked products into one
// row. Products with no reservations are absent.
func (s *SQLReservationService) SellerSummary(ctx context.Context, sellerID uint64) ([]SellerSummaryView, error) {
	rows, err := s.reservations.SummariesBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	out := make([]SellerSummaryView, 0, len(rows))
	for _, r := range rows {
		out = append(out, SellerSummaryView{
			ProductID:        r.ProductID,
			ProductName:      r.ProductName,
			Price:            r.LatestPrice,
			Date:             r.LatestDate,
			StartTime:        r.LatestStartTime,
			EndTime:          r.LatestEndTime,
			ReservationCount: r.ReservationCount,
			PendingCount:     r.PendingCount,
		})
	}
	return out, nil
}

// Confirm moves a PENDING reservation to CONFIRMED. Seller only.
func (s *SQLReservationService) Confirm(ctx context.Context, sellerID, id uint64) (*ReservationView, error) {
	return s.transition(ctx, sellerID, id, model.StatusConfirmed, nil, false)
}

// Reject moves a PENDING reservation to REJECTED with a mandatory reason
// and refunds the points and inventory.
func (s *SQLReservationService) Reject(ctx context.Context, sellerID, id uint64, reason string) (*ReservationView, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrRejectionReasonRequired
	}
	return s.transition(ctx, sellerID, id, model.StatusRejected, &reason, false)
}

// Cancel moves a reservation to CANCELED and refunds. The actor must be
// the buyer or the product's seller.
func (s *SQLReservationService) Cancel(ctx context.Context, actorID, id uint64) (*ReservationView, error) {
	return s.transition(ctx, actorID, id, model.StatusCanceled, nil, true)
}

// UpdateStatus is the raw transition primitive. REJECTED is not reachable
// here because it needs a reason; use Reject.
func (s *SQLReservationService) UpdateStatus(ctx context.Context, sellerID, id uint64, status model.ReservationStatus) (*ReservationView, error) {
	if !model.ValidStatus(status) {
		return nil, ErrInvalidStatusChange
	}
	if status == model.StatusRejected {
		return nil, ErrRejectionReasonRequired
	}
	return s.transition(ctx, sellerID, id, status, nil, false)
}

// transition locks the reservation row, enforces ownership and the legal
// transition table, writes the new status and, when the target releases
// the booking, reverses the original effect in the same transaction.
// allowBuyer widens the ownership check from seller-only to buyer or
// seller (the cancel path).
func (s *SQLReservationService) transition(ctx context.Context, actorID, id uint64, target model.ReservationStatus, reason *string, allowBuyer bool) (*ReservationView, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := s.reservations.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetByIDTx(ctx, tx, res.ProductID)
	if err != nil {
		return nil, err
	}
	isSeller := product.MemberID == actorID
	isBuyer := res.BuyerID == actorID
	if !isSeller && !(allowBuyer && isBuyer) {
		return nil, repository.ErrForbidden
	}
	if !res.Status.CanTransitionTo(target) {
		return nil, ErrInvalidStatusChange
	}

	if err := s.reservations.UpdateStatusTx(ctx, tx, id, target, reason); err != nil {
		return nil, err
	}
	if target == model.StatusCanceled || target == model.StatusRejected {
		refund := model.CreateEffect(res.TotalPrice, res.TotalTicketCount).Inverse()
		if err := s.applyEffectTx(ctx, tx, res.ProductID, res.BuyerID, product.MemberID, refund); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	res.Status = target
	res.RejectionReason = reason
	lines, err := s.reservations.GetByID(ctx, id)
	if err == nil {
		res.Tickets = lines.Tickets
	}

	s.publish(ctx, eventType(target), res, product)
	return toView(res, product), nil
}

func eventType(status model.ReservationStatus) string {
	switch status {
	case model.StatusConfirmed:
		return queue.EventReservationConfirmed
	case model.StatusRejected:
		return queue.EventReservationRejected
	case model.StatusCanceled:
		return queue.EventReservationCanceled
	default:
		return queue.EventReservationCreated
	}
}

// publish emits a reservation lifecycle event after commit. Delivery is
// best effort: a broker outage must not fail the request.
func (s *SQLReservationService) publish(ctx context.Context, eventType string, res *model.Reservation, product *model.Product) {
	event := queue.ReservationEvent{
		Type:             eventType,
		ReservationID:    res.ID,
		ProductID:        product.ID,
		ProductName:      product.Name,
		BuyerID:          res.BuyerID,
		SellerID:         product.MemberID,
		Date:             res.Date,
		StartTime:        res.StartTime,
		EndTime:          res.EndTime,
		TotalPrice:       res.TotalPrice,
		TotalTicketCount: res.TotalTicketCount,
	}
	if err := PublishReservationEvent(ctx, event); err != nil {
		log.Printf("reservation event %s for #%d not published: %v", eventType, res.ID, err)
	}
}

func (s *SQLReservationService) toViews(ctx context.Context, list []model.Reservation) ([]ReservationView, error) {
	views := make([]ReservationView, 0, len(list))
	cache := make(map[uint64]*model.Product)
	for i := range list {
		product, ok := cache[list[i].ProductID]
		if !ok {
			var err error
			product, err = s.products.GetByID(ctx, list[i].ProductID)
			if err != nil {
				return nil, err
			}
			cache[list[i].ProductID] = product
		}
		views = append(views, *toView(&list[i], product))
	}
	return views, nil
}

func toView(res *model.Reservation, product *model.Product) *ReservationView {
	lines := make([]TicketLineView, 0, len(res.Tickets))
	for _, l := range res.Tickets {
		lines = append(lines, TicketLineView{
			TicketID:    l.TicketID,
			TicketName:  l.TicketName,
			TicketPrice: l.TicketPrice,
			Quantity:    l.Quantity,
		})
	}
	return &ReservationView{
		ID:               res.ID,
		ProductID:        res.ProductID,
		ProductName:      product.Name,
		BuyerID:          res.BuyerID,
		SellerID:         product.MemberID,
		Name:             res.Name,
		Phone:            res.Phone,
		Email:            res.Email,
		Date:             res.Date,
		StartTime:        res.StartTime,
		EndTime:          res.EndTime,
		Status:           string(res.Status),
		RejectionReason:  res.RejectionReason,
		TotalPrice:       res.TotalPrice,
		TotalTicketCount: res.TotalTicketCount,
		Tickets:          lines,
		CreatedAt:        res.CreatedAt,
	}
}
