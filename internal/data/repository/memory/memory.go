// Package memory is an in-process Repository with the same failure semantics
// as the Postgres implementation. It backs unit tests of the layers above.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bonus-tma/internal/data/entity"
	"bonus-tma/internal/data/repository"

	"github.com/google/uuid"
)

// Store holds every table behind one mutex, which makes each operation atomic.
type Store struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*entity.User
	services  map[uuid.UUID]*entity.Service
	purchases []*entity.Purchase
	credits   []*entity.BonusCredit
	base      time.Time
	seq       int64

	// Err, when set, is returned by every call
	Err error
}

func NewStore() *Store {
	return &Store{
		users:    make(map[uuid.UUID]*entity.User),
		services: make(map[uuid.UUID]*entity.Service),
		base:     time.Now(),
	}
}

// Repository exposes the store through the repository interfaces.
func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		User:     (*userRepo)(s),
		Service:  (*serviceRepo)(s),
		Purchase: (*purchaseRepo)(s),
		Bonus:    (*bonusRepo)(s),
	}
}

// PutUser inserts or replaces a user row.
func (s *Store) PutUser(user *entity.User) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = entity.RoleUser
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.tick()
	}
	cp := *user
	s.users[user.ID] = &cp
	return user
}

// PutService inserts or replaces a service row.
func (s *Store) PutService(service *entity.Service) *entity.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	if service.ID == uuid.Nil {
		service.ID = uuid.New()
	}
	if service.CreatedAt.IsZero() {
		service.CreatedAt = s.tick()
		service.UpdatedAt = service.CreatedAt
	}
	cp := *service
	s.services[service.ID] = &cp
	return service
}

// User returns a copy of the stored user or nil.
func (s *Store) User(id uuid.UUID) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyUser(s.users[id])
}

// Purchases returns a copy of every purchase row.
func (s *Store) Purchases() []entity.Purchase {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Purchase, 0, len(s.purchases))
	for _, p := range s.purchases {
		out = append(out, *p)
	}
	return out
}

// tick returns strictly increasing timestamps so newest-first ordering is stable.
func (s *Store) tick() time.Time {
	s.seq++
	return s.base.Add(time.Duration(s.seq) * time.Millisecond)
}

func copyUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

func copyService(sv *entity.Service) *entity.Service {
	if sv == nil {
		return nil
	}
	cp := *sv
	return &cp
}

func strPtr(s string) *string { return &s }

type userRepo Store

func (r *userRepo) store() *Store { return (*Store)(r) }

func (r *userRepo) find(match func(*entity.User) bool) *entity.User {
	for _, u := range r.users {
		if match(u) {
			return u
		}
	}
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return copyUser(s.users[id]), nil
}

func (r *userRepo) FindByTelegramID(_ context.Context, tgID string) (*entity.User, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return copyUser(r.find(func(u *entity.User) bool { return u.TelegramID != nil && *u.TelegramID == tgID })), nil
}

func (r *userRepo) FindByPhone(_ context.Context, phone string) (*entity.User, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return copyUser(r.find(func(u *entity.User) bool { return u.Phone != nil && *u.Phone == phone })), nil
}

func (r *userRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	all := make([]*entity.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, copyUser(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if offset >= len(all) {
		return nil, nil
	}
	end := len(all)
	if limit > 0 {
		end = min(offset+limit, len(all))
	}
	return all[offset:end], nil
}

func (r *userRepo) CountAll(_ context.Context) (int64, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return int64(len(s.users)), nil
}

func (r *userRepo) GetOrCreateByTelegramID(_ context.Context, tgID string) (*entity.User, bool, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, false, s.Err
	}

	if u := r.find(func(u *entity.User) bool { return u.TelegramID != nil && *u.TelegramID == tgID }); u != nil {
		return copyUser(u), false, nil
	}

	user := &entity.User{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: s.tick()},
		TelegramID: strPtr(tgID),
		Role:       entity.RoleUser,
	}
	s.users[user.ID] = user
	return copyUser(user), true, nil
}

func (r *userRepo) PromoteToAdmin(_ context.Context, id uuid.UUID) (*entity.User, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s not found", id)
	}
	u.Role = entity.RoleAdmin
	return copyUser(u), nil
}

func (r *userRepo) SetPhone(_ context.Context, id uuid.UUID, phone string) (*entity.User, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s not found", id)
	}

	holder := r.find(func(u *entity.User) bool { return u.Phone != nil && *u.Phone == phone })
	if holder != nil && holder.ID != id {
		return nil, repository.ErrPhoneTaken
	}
	user.Phone = strPtr(phone)
	return copyUser(user), nil
}

func (r *userRepo) CreditByPhone(_ context.Context, credit *entity.BonusCredit) (*entity.User, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	user := r.find(func(u *entity.User) bool { return u.Phone != nil && *u.Phone == credit.Phone })
	if user == nil {
		if credit.Amount < 0 {
			return nil, repository.ErrNegativeBalance
		}
		user = &entity.User{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: s.tick()},
			Phone:      strPtr(credit.Phone),
			Role:       entity.RoleUser,
		}
		s.users[user.ID] = user
	}
	if user.Balance+credit.Amount < 0 {
		return nil, repository.ErrNegativeBalance
	}

	user.Balance += credit.Amount
	credit.UserID = user.ID
	cp := *credit
	s.credits = append(s.credits, &cp)
	return copyUser(user), nil
}

type serviceRepo Store

func (r *serviceRepo) store() *Store { return (*Store)(r) }

func (r *serviceRepo) Create(_ context.Context, service *entity.Service) error {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	cp := *service
	s.services[service.ID] = &cp
	return nil
}

func (r *serviceRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Service, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return copyService(s.services[id]), nil
}

func (r *serviceRepo) list(activeOnly bool) ([]*entity.Service, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	out := make([]*entity.Service, 0, len(s.services))
	for _, sv := range s.services {
		if activeOnly && !sv.Active {
			continue
		}
		out = append(out, copyService(sv))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *serviceRepo) FindActive(_ context.Context) ([]*entity.Service, error) {
	return r.list(true)
}

func (r *serviceRepo) FindAll(_ context.Context) ([]*entity.Service, error) {
	return r.list(false)
}

func (r *serviceRepo) CountAll(_ context.Context) (int64, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return int64(len(s.services)), nil
}

func (r *serviceRepo) Update(_ context.Context, id uuid.UUID, patch func(*entity.Service)) (*entity.Service, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	service, ok := s.services[id]
	if !ok {
		return nil, nil
	}
	patch(service)
	return copyService(service), nil
}

type purchaseRepo Store

func (r *purchaseRepo) store() *Store { return (*Store)(r) }

func (r *purchaseRepo) Redeem(_ context.Context, userID, serviceID uuid.UUID) (*entity.PurchaseDetail, int64, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, 0, s.Err
	}

	service, ok := s.services[serviceID]
	if !ok || !service.Active {
		return nil, 0, repository.ErrServiceUnavailable
	}
	for _, p := range s.purchases {
		if p.UserID == userID && p.ServiceID == serviceID {
			return nil, 0, repository.ErrAlreadyPurchased
		}
	}
	user, ok := s.users[userID]
	if !ok || user.Balance < service.Price {
		return nil, 0, repository.ErrInsufficientBalance
	}

	user.Balance -= service.Price
	purchase := &entity.Purchase{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: s.tick()},
		UserID:     userID,
		ServiceID:  serviceID,
	}
	s.purchases = append(s.purchases, purchase)

	return &entity.PurchaseDetail{
		Purchase:    *purchase,
		Title:       service.Title,
		Partner:     service.Partner,
		Description: service.Description,
		Price:       service.Price,
	}, user.Balance, nil
}

func (r *purchaseRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.PurchaseDetail, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	out := make([]*entity.PurchaseDetail, 0)
	for _, p := range s.purchases {
		if p.UserID != userID {
			continue
		}
		sv := s.services[p.ServiceID]
		out = append(out, &entity.PurchaseDetail{
			Purchase:    *p,
			Title:       sv.Title,
			Partner:     sv.Partner,
			Description: sv.Description,
			Price:       sv.Price,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *purchaseRepo) CountAll(_ context.Context) (int64, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return int64(len(s.purchases)), nil
}

type bonusRepo Store

func (r *bonusRepo) store() *Store { return (*Store)(r) }

func (r *bonusRepo) filter(keep func(*entity.BonusCredit) bool, limit int) ([]*entity.BonusCredit, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	out := make([]*entity.BonusCredit, 0)
	for i := len(s.credits) - 1; i >= 0; i-- {
		if !keep(s.credits[i]) {
			continue
		}
		cp := *s.credits[i]
		out = append(out, &cp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *bonusRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.BonusCredit, error) {
	return r.filter(func(c *entity.BonusCredit) bool { return c.UserID == userID }, 0)
}

func (r *bonusRepo) FindRecent(_ context.Context, limit int) ([]*entity.BonusCredit, error) {
	return r.filter(func(*entity.BonusCredit) bool { return true }, limit)
}
