package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/services/auction/domain"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
)

type bidRepo struct{ u *unit }

func (r *bidRepo) Create(_ context.Context, bid *models.Bid) error {
	if _, ok := r.u.st.items[bid.ItemID]; !ok {
		return domain.ErrItemNotFound
	}
	if _, ok := r.u.st.users[bid.BidderID]; !ok {
		return domain.ErrUserNotFound
	}
	r.u.st.bids = append(r.u.st.bids, *bid)
	return nil
}

func (r *bidRepo) HighestForItem(_ context.Context, itemID uuid.UUID) (*models.Bid, error) {
	var best *models.Bid
	for i := range r.u.st.bids {
		b := r.u.st.bids[i]
		if b.ItemID != itemID {
			continue
		}
		if best == nil || b.Price.GreaterThan(best.Price) {
			best = &b
		}
	}
	return best, nil
}

func (r *bidRepo) ListByItem(_ context.Context, itemID uuid.UUID) ([]*models.Bid, error) {
	return listBids(r.u.st, itemID), nil
}

// listBids returns the item's bids newest first. Bids with equal timestamps
// keep reverse insertion order.
func listBids(st *state, itemID uuid.UUID) []*models.Bid {
	var out []*models.Bid
	for i := len(st.bids) - 1; i >= 0; i-- {
		if st.bids[i].ItemID == itemID {
			b := st.bids[i]
			out = append(out, &b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

type autoBids struct{ s *Store }

func (a *autoBids) Create(ctx context.Context, bid *models.Bid) error {
	return a.s.autocommit(func(u *unit) error { return (&bidRepo{u: u}).Create(ctx, bid) })
}

func (a *autoBids) HighestForItem(ctx context.Context, itemID uuid.UUID) (out *models.Bid, err error) {
	err = a.s.autocommit(func(u *unit) (e error) { out, e = (&bidRepo{u: u}).HighestForItem(ctx, itemID); return })
	return
}

func (a *autoBids) ListByItem(ctx context.Context, itemID uuid.UUID) (out []*models.Bid, err error) {
	err = a.s.autocommit(func(u *unit) (e error) { out, e = (&bidRepo{u: u}).ListByItem(ctx, itemID); return })
	return
}

type userRepo struct{ u *unit }

func (r *userRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := r.u.st.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

type autoUsers struct{ s *Store }

func (a *autoUsers) GetByID(ctx context.Context, id uuid.UUID) (out *models.User, err error) {
	err = a.s.autocommit(func(u *unit) (e error) { out, e = (&userRepo{u: u}).GetByID(ctx, id); return })
	return
}

var (
	_ repositories.BidRepository  = (*bidRepo)(nil)
	_ repositories.BidRepository  = (*autoBids)(nil)
	_ repositories.UserRepository = (*userRepo)(nil)
	_ repositories.UserRepository = (*autoUsers)(nil)
)
