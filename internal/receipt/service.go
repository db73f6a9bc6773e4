package receipt

import (
	"context"
	"errors"
	"log/slog"

	"github.com/omarsaleh/divvy/internal/money"
	"github.com/omarsaleh/divvy/internal/split"
	"github.com/omarsaleh/divvy/internal/split/allocate"
)

// Common errors
var (
	ErrEmptyReceipt        = errors.New("receipt must contain at least one item")
	ErrNegativeTotals      = errors.New("subtotal, tax and tip cannot be negative")
	ErrNotItemized         = errors.New("split is not itemized")
	ErrNotParticipant      = errors.New("you must be a participant of this split")
	ErrItemNotInSplit      = errors.New("item does not belong to this split")
	ErrAlreadyFinalized    = errors.New("split is already finalized")
	ErrUnclaimedItems      = errors.New("all items must be fully claimed before finalizing")
	ErrQuantityBelowClaims = errors.New("quantity cannot drop below already-claimed units")
)

// Service handles itemized split business logic
type Service struct {
	repo   *Repository
	splits *split.Repository
}

// NewService creates a new receipt service. It shares the split repository
// for the split and participant rows an itemized split hangs off.
func NewService(repo *Repository, splits *split.Repository) *Service {
	return &Service{
		repo:   repo,
		splits: splits,
	}
}

// validateRecognized checks the shape of the recognition service's output.
func validateRecognized(rec *Recognized) error {
	if len(rec.Items) == 0 {
		return ErrEmptyReceipt
	}
	if rec.Subtotal < 0 || rec.Tax < 0 || rec.Tip < 0 {
		return ErrNegativeTotals
	}
	for _, item := range rec.Items {
		if item.UnitPrice <= 0 {
			return &InvalidLineItemError{Name: item.Name, Reason: "unit price must be positive"}
		}
		if item.Quantity <= 0 {
			return &InvalidLineItemError{Name: item.Name, Reason: "quantity must be positive"}
		}
	}
	return nil
}

// CreateItemizedSplit creates a split from a recognized receipt: the split
// row, one participant per obligated person (owing nothing until claims are
// finalized), and the line items. If any later write fails, the split row is
// deleted again so no partial record survives.
func (s *Service) CreateItemizedSplit(ctx context.Context, creatorID int64, req *CreateItemizedRequest) (*split.SplitWithParticipants, []LineItem, error) {
	if err := validateRecognized(&req.Receipt); err != nil {
		return nil, nil, err
	}
	for _, p := range req.Participants {
		if p.UserID == nil && (p.Name == nil || *p.Name == "") {
			return nil, nil, split.ErrInvalidParticipant
		}
	}

	items := make([]LineItem, len(req.Receipt.Items))
	var subtotal float64
	for i, in := range req.Receipt.Items {
		items[i] = LineItem{
			Name:      in.Name,
			UnitPrice: in.UnitPrice,
			Quantity:  in.Quantity,
		}
		subtotal += items[i].LineTotal()
	}
	subtotal = money.Round2(subtotal)

	sp := &split.Split{
		CreatorID:    creatorID,
		Description:  req.Description,
		TotalAmount:  money.Sum(subtotal, req.Receipt.Tax, req.Receipt.Tip),
		TaxAmount:    money.Round2(req.Receipt.Tax),
		TipAmount:    money.Round2(req.Receipt.Tip),
		CurrencyCode: req.CurrencyCode,
		Strategy:     allocate.StrategyItemized,
	}
	if err := s.splits.CreateSplit(ctx, sp); err != nil {
		return nil, nil, err
	}

	rollback := func(err error) error {
		if delErr := s.splits.DeleteSplit(ctx, sp.ID); delErr != nil {
			slog.Error("failed to roll back itemized split", "split_id", sp.ID, "error", delErr)
		}
		return err
	}

	participants := req.Participants
	hasCreator := false
	for _, p := range participants {
		if p.UserID != nil && *p.UserID == creatorID {
			hasCreator = true
			break
		}
	}
	if !hasCreator {
		creator := creatorID
		participants = append([]*split.ParticipantInput{{UserID: &creator}}, participants...)
	}

	rows := make([]*split.Participant, len(participants))
	for i, p := range participants {
		row := &split.Participant{
			SplitID:       sp.ID,
			UserID:        p.UserID,
			ExternalName:  p.Name,
			ExternalEmail: p.Email,
			ExternalPhone: p.Phone,
			Role:          split.RoleOwer,
		}
		if p.UserID != nil && *p.UserID == creatorID {
			row.Role = split.RoleCreator
		}
		if err := s.splits.CreateParticipant(ctx, row, i); err != nil {
			return nil, nil, rollback(err)
		}
		rows[i] = row
	}

	for i := range items {
		items[i].SplitID = sp.ID
		if err := s.repo.CreateLineItem(ctx, &items[i]); err != nil {
			return nil, nil, rollback(err)
		}
	}

	return &split.SplitWithParticipants{Split: sp, Participants: rows}, items, nil
}

// loadItemized fetches the split and rejects non-itemized ones.
func (s *Service) loadItemized(ctx context.Context, splitID string) (*split.Split, error) {
	sp, err := s.splits.GetSplitByID(ctx, splitID)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, split.ErrSplitNotFound
	}
	if sp.Strategy != allocate.StrategyItemized {
		return nil, ErrNotItemized
	}
	return sp, nil
}

// UpsertClaim stores or replaces the caller's claim on an item. The write is
// a single conditional statement against the store; when it loses a race the
// fresh remaining quantity is re-read to build the OverClaim report, and the
// caller retries with current state.
func (s *Service) UpsertClaim(ctx context.Context, splitID, itemID string, userID int64, req *UpsertClaimRequest) (*ItemResponse, error) {
	sp, err := s.loadItemized(ctx, splitID)
	if err != nil {
		return nil, err
	}
	if sp.FinalizedAt != nil {
		return nil, ErrAlreadyFinalized
	}

	participant, err := s.splits.GetParticipantByUser(ctx, splitID, userID)
	if err != nil {
		return nil, err
	}
	if participant == nil {
		return nil, ErrNotParticipant
	}

	item, err := s.repo.GetLineItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.SplitID != splitID {
		return nil, ErrItemNotInSplit
	}

	shareCount := req.ShareCount
	if shareCount == 0 {
		shareCount = 1
	}

	claims, err := s.repo.GetClaims(ctx, splitID)
	if err != nil {
		return nil, err
	}
	if err := ValidateUpsert(*item, claims, participant.ID, req.Quantity, shareCount); err != nil {
		return nil, err
	}

	claim := &Claim{
		ItemID:          itemID,
		ParticipantID:   participant.ID,
		QuantityClaimed: req.Quantity,
		ShareCount:      shareCount,
	}
	ok, err := s.repo.UpsertClaim(ctx, claim)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race against another claimant; report current remaining.
		claims, err = s.repo.GetClaims(ctx, splitID)
		if err != nil {
			return nil, err
		}
		return nil, &OverClaimError{
			ItemID:    itemID,
			Requested: req.Quantity,
			Remaining: RemainingQuantity(*item, claims),
		}
	}

	claims, err = s.repo.GetClaims(ctx, splitID)
	if err != nil {
		return nil, err
	}
	resp := toItemResponse(*item, claims)
	return &resp, nil
}

// ReleaseClaim removes the caller's claim on an item, returning its quantity
// to the pool.
func (s *Service) ReleaseClaim(ctx context.Context, splitID, itemID string, userID int64) error {
	sp, err := s.loadItemized(ctx, splitID)
	if err != nil {
		return err
	}
	if sp.FinalizedAt != nil {
		return ErrAlreadyFinalized
	}

	participant, err := s.splits.GetParticipantByUser(ctx, splitID, userID)
	if err != nil {
		return err
	}
	if participant == nil {
		return ErrNotParticipant
	}

	item, err := s.repo.GetLineItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil || item.SplitID != splitID {
		return ErrItemNotInSplit
	}

	return s.repo.DeleteClaim(ctx, itemID, participant.ID)
}

// EditItem applies an explicit line item edit and recomputes the split
// total. The edit is rejected when it would strand existing claims beyond
// the new quantity.
func (s *Service) EditItem(ctx context.Context, splitID, itemID string, userID int64, req *EditItemRequest) (*ItemResponse, error) {
	sp, err := s.loadItemized(ctx, splitID)
	if err != nil {
		return nil, err
	}
	if sp.CreatorID != userID {
		return nil, split.ErrPermissionDenied
	}
	if sp.FinalizedAt != nil {
		return nil, ErrAlreadyFinalized
	}

	if req.UnitPrice <= 0 {
		return nil, &InvalidLineItemError{Name: req.Name, Reason: "unit price must be positive"}
	}
	if req.Quantity <= 0 {
		return nil, &InvalidLineItemError{Name: req.Name, Reason: "quantity must be positive"}
	}

	item, err := s.repo.GetLineItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.SplitID != splitID {
		return nil, ErrItemNotInSplit
	}

	claims, err := s.repo.GetClaims(ctx, splitID)
	if err != nil {
		return nil, err
	}

	shrunk := *item
	shrunk.Quantity = req.Quantity
	if remainingPool(shrunk, claims, "").num < 0 {
		return nil, ErrQuantityBelowClaims
	}

	item.Name = req.Name
	item.UnitPrice = req.UnitPrice
	item.Quantity = req.Quantity
	if err := s.repo.UpdateLineItem(ctx, item); err != nil {
		return nil, err
	}

	// The edit changes the receipt subtotal, so the split total follows.
	items, err := s.repo.GetLineItems(ctx, splitID)
	if err != nil {
		return nil, err
	}
	total := money.Sum(ReceiptSubtotal(items), sp.TaxAmount, sp.TipAmount)
	if err := s.splits.UpdateSplitTotal(ctx, splitID, total); err != nil {
		return nil, err
	}

	resp := toItemResponse(*item, claims)
	return &resp, nil
}

// Summary reports the live claim state: per-item remaining quantities and
// per-claimant subtotals with informational tax/tip shares. The shares may
// drift a few cents off the receipt's tax+tip until the split is finalized.
func (s *Service) Summary(ctx context.Context, splitID string) (*SummaryResponse, error) {
	sp, err := s.loadItemized(ctx, splitID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetLineItems(ctx, splitID)
	if err != nil {
		return nil, err
	}
	claims, err := s.repo.GetClaims(ctx, splitID)
	if err != nil {
		return nil, err
	}

	resp := &SummaryResponse{
		SplitID:         splitID,
		ReceiptSubtotal: ReceiptSubtotal(items),
		TaxAmount:       sp.TaxAmount,
		TipAmount:       sp.TipAmount,
		TotalAmount:     sp.TotalAmount,
		Finalized:       sp.FinalizedAt != nil,
		Items:           make([]ItemResponse, len(items)),
		Shares:          Distribute(sp.TaxAmount, sp.TipAmount, ReceiptSubtotal(items), Subtotals(items, claims)),
	}
	for i, item := range items {
		resp.Items[i] = toItemResponse(item, claims)
	}
	return resp, nil
}

// Finalize persists exact-sum obligations once every item is fully claimed.
// Creator only. Obligations are written per participant row, then the
// finalized stamp is the conditional commit point: losing that race means
// another finalize computed the same values from the same claims.
func (s *Service) Finalize(ctx context.Context, splitID string, userID int64) (*FinalizeResponse, error) {
	sp, err := s.loadItemized(ctx, splitID)
	if err != nil {
		return nil, err
	}
	if sp.CreatorID != userID {
		return nil, split.ErrPermissionDenied
	}
	if sp.FinalizedAt != nil {
		return nil, ErrAlreadyFinalized
	}

	items, err := s.repo.GetLineItems(ctx, splitID)
	if err != nil {
		return nil, err
	}
	claims, err := s.repo.GetClaims(ctx, splitID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if !IsFullyClaimed(item, claims) {
			return nil, ErrUnclaimedItems
		}
	}

	participants, err := s.splits.GetParticipants(ctx, splitID)
	if err != nil {
		return nil, err
	}

	subtotals := Subtotals(items, claims)
	var order []string
	for _, p := range participants {
		if subtotals[p.ID] > 0 {
			order = append(order, p.ID)
		}
	}

	shares := FinalizeShares(sp.TaxAmount, sp.TipAmount, ReceiptSubtotal(items), order, subtotals)

	byParticipant := make(map[string]Share, len(shares))
	for _, share := range shares {
		byParticipant[share.ParticipantID] = share
	}
	for _, p := range participants {
		owed := byParticipant[p.ID].Total
		if err := s.splits.UpdateParticipantOwed(ctx, p.ID, owed); err != nil {
			return nil, err
		}
	}

	if ok, err := s.splits.MarkFinalized(ctx, splitID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrAlreadyFinalized
	}

	return &FinalizeResponse{SplitID: splitID, Shares: shares}, nil
}
