package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/services/auction/domain"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
)

type itemRepo struct{ u *unit }

func (r *itemRepo) Create(_ context.Context, item *models.Item) error {
	if _, ok := r.u.st.users[item.OwnerID]; !ok {
		return domain.ErrUserNotFound
	}
	r.u.st.items[item.ID] = *item
	return nil
}

func (r *itemRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Item, error) {
	item, ok := r.u.st.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return &item, nil
}

// GetByIDForUpdate needs no extra locking: the whole transaction holds the store mutex.
func (r *itemRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *itemRepo) GetDetails(ctx context.Context, id uuid.UUID) (*models.ItemDetails, error) {
	item, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &models.ItemDetails{Item: item}
	if owner, ok := r.u.st.users[item.OwnerID]; ok {
		d.Owner = &owner
	}
	if item.WinnerID.Valid {
		if winner, ok := r.u.st.users[item.WinnerID.UUID]; ok {
			d.Winner = &winner
		}
	}
	d.Bids = listBids(r.u.st, id)
	return d, nil
}

func (r *itemRepo) UpdateDetails(_ context.Context, item *models.Item) error {
	cur, ok := r.u.st.items[item.ID]
	if !ok {
		return domain.ErrItemNotFound
	}
	cur.Name = item.Name
	cur.Description = item.Description
	cur.StartingPrice = item.StartingPrice
	cur.StartTime = item.StartTime
	cur.EndTime = item.EndTime
	cur.UpdatedAt = item.UpdatedAt
	r.u.st.items[item.ID] = cur
	return nil
}

func (r *itemRepo) SetWinner(_ context.Context, item *models.Item) error {
	cur, ok := r.u.st.items[item.ID]
	if !ok {
		return domain.ErrItemNotFound
	}
	cur.WinnerID = item.WinnerID
	cur.FinalPrice = item.FinalPrice
	cur.UpdatedAt = item.UpdatedAt
	r.u.st.items[item.ID] = cur
	return nil
}

func (r *itemRepo) MarkNotified(_ context.Context, item *models.Item) error {
	cur, ok := r.u.st.items[item.ID]
	if !ok {
		return domain.ErrItemNotFound
	}
	if !cur.WinnerID.Valid {
		return domain.ErrNoWinner
	}
	cur.Notified = true
	cur.UpdatedAt = item.UpdatedAt
	r.u.st.items[item.ID] = cur
	return nil
}

func (r *itemRepo) FindUnnotified(_ context.Context, now time.Time) ([]*models.Item, error) {
	out := r.collect(func(it *models.Item) bool { return it.AwaitsSettlement(now) })
	sort.Slice(out, func(i, j int) bool { return out[i].EndTime.Before(out[j].EndTime) })
	return out, nil
}

func (r *itemRepo) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*models.Item, error) {
	out := r.collect(func(it *models.Item) bool { return it.OwnerID == ownerID })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *itemRepo) FindWonBy(_ context.Context, userID uuid.UUID, now time.Time) ([]*models.Item, error) {
	out := r.collect(func(it *models.Item) bool {
		return it.WinnerID.Valid && it.WinnerID.UUID == userID && it.EndTime.Before(now)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].EndTime.After(out[j].EndTime) })
	return out, nil
}

func (r *itemRepo) Search(_ context.Context, f repositories.ItemFilter) ([]*models.Item, error) {
	name := strings.ToLower(f.Name)
	ownerName := strings.ToLower(f.OwnerName)
	out := r.collect(func(it *models.Item) bool {
		if name != "" && !strings.Contains(strings.ToLower(it.Name.String()), name) {
			return false
		}
		if ownerName != "" {
			owner := r.u.st.users[it.OwnerID]
			if !strings.Contains(strings.ToLower(owner.FullName()), ownerName) {
				return false
			}
		}
		if f.StartTimeFrom != nil && it.StartTime.Before(*f.StartTimeFrom) {
			return false
		}
		if f.EndTimeTo != nil && it.EndTime.After(*f.EndTimeTo) {
			return false
		}
		if f.StartingPriceFrom != nil && it.StartingPrice.LessThan(*f.StartingPriceFrom) {
			return false
		}
		if f.StartingPriceTo != nil && it.StartingPrice.GreaterThan(*f.StartingPriceTo) {
			return false
		}
		if f.OnlyWithoutBids && len(listBids(r.u.st, it.ID)) > 0 {
			return false
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].EndTime.Before(out[j].EndTime) })
	return out, nil
}

func (r *itemRepo) collect(keep func(*models.Item) bool) []*models.Item {
	var out []*models.Item
	for _, v := range r.u.st.items {
		it := v
		if keep(&it) {
			out = append(out, &it)
		}
	}
	return out
}

// autoItems runs each call as its own unit of work.
type autoItems struct{ s *Store }

func (a *autoItems) repo(u *unit) *itemRepo { return &itemRepo{u: u} }

func (a *autoItems) Create(ctx context.Context, item *models.Item) error {
	return a.s.autocommit(func(u *unit) error { return a.repo(u).Create(ctx, item) })
}

func (a *autoItems) GetByID(ctx context.Context, id uuid.UUID) (out *models.Item, err error) {
	err = a.s.autocommit(func(u *unit) (e error) { out, e = a.repo(u).GetByID(ctx, id); return })
	return
}

func (a *autoItems) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	return a.GetByID(ctx, id)
}

func (a *autoItems) GetDetails(ctx context.Context, id uuid.UUID) (out *models.ItemDetails, err error) {
	err = a.s.autocommit(func(u *unit) (e error) { out, e = a.repo(u).GetDetails(ctx, id); return })
	return
}

func (a *autoItems) UpdateDetails(ctx context.Context, item *models.Item) error {
	return a.s.autocommit(func(u *unit) error { return a.repo(u).UpdateDetails(ctx, item) })
}

func (a *autoItems) SetWinner(ctx context.Context, item *models.Item) error {
	return a.s.autocommit(func(u *unit) error { return a.repo(u).SetWinner(ctx, item) })
}

func (a *autoItems) MarkNotified(ctx context.Context, item *models.Item) error {
	return a.s.autocommit(func(u *unit) error { return a.repo(u).MarkNotified(ctx, item) })
}

func (a *autoItems) FindUnnotified(ctx context.Context, now time.Time) (out []*models.Item, err error) {
	err = a.s.autocommit(func(u *unit) (e error) { out, e = a.repo(u).FindUnnotified(ctx, now); return })
	return
}

func (a *autoItems) FindByOwner(ctx context.Context, ownerID uuid.UUID) (out []*models.Item, err error) {
	err = a.s.autocommit(func(u *unit) (e error) { out, e = a.repo(u).FindByOwner(ctx, ownerID); return })
	return
}

func (a *autoItems) FindWonBy(ctx context.Context, userID uuid.UUID, now time.Time) (out []*models.Item, err error) {
	err = a.s.autocommit(func(u *unit) (e error) { out, e = a.repo(u).FindWonBy(ctx, userID, now); return })
	return
}

func (a *autoItems) Search(ctx context.Context, f repositories.ItemFilter) (out []*models.Item, err error) {
	err = a.s.autocommit(func(u *unit) (e error) { out, e = a.repo(u).Search(ctx, f); return })
	return
}

var (
	_ repositories.ItemRepository = (*itemRepo)(nil)
	_ repositories.ItemRepository = (*autoItems)(nil)
)
