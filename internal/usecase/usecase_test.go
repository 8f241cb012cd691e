package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"bonus-tma/internal/data/entity"
	"bonus-tma/internal/data/repository/memory"
	"bonus-tma/internal/dto/request"
	"bonus-tma/pkg/telegram"
	"bonus-tma/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, adminIDs ...string) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	config := &utils.Config{Admin: utils.AdminConfig{TelegramIDs: adminIDs}}
	return NewService(store.Repository(), config, zap.NewNop()), store
}

func strp(s string) *string { return &s }

func TestIdentity_ResolveCreatesOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	tgUser := &telegram.WebAppUser{ID: 279058397, FirstName: "Vladislav"}

	first, err := svc.Identity.Resolve(ctx, tgUser)
	require.NoError(t, err)
	assert.Equal(t, "279058397", *first.TelegramID)
	assert.Equal(t, int64(0), first.Balance)
	assert.Equal(t, entity.RoleUser, first.Role)

	second, err := svc.Identity.Resolve(ctx, tgUser)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestIdentity_ResolveConcurrentFirstContact(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	tgUser := &telegram.WebAppUser{ID: 42}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Identity.Resolve(ctx, tgUser)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := store.Repository().User.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestIdentity_PromotesConfiguredAdmins(t *testing.T) {
	svc, _ := newTestService(t, "100")
	ctx := context.Background()

	admin, err := svc.Identity.Resolve(ctx, &telegram.WebAppUser{ID: 100})
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	member, err := svc.Identity.Resolve(ctx, &telegram.WebAppUser{ID: 101})
	require.NoError(t, err)
	assert.False(t, member.IsAdmin())
}

func TestUser_MeAnonymous(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.User.Me(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, resp.User)
	assert.Nil(t, resp.TgUser)
}

func TestUser_MeReturnsStoredBalance(t *testing.T) {
	svc, store := newTestService(t)
	user := store.PutUser(&entity.User{TelegramID: strp("7"), Balance: 300})
	tgUser := &telegram.WebAppUser{ID: 7, Username: "seven"}

	resp, err := svc.User.Me(context.Background(), user, tgUser)
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.Equal(t, int64(300), resp.User.Balance)
	assert.Equal(t, "seven", resp.TgUser.Username)
}

func TestUser_SetPhone(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	alice := store.PutUser(&entity.User{TelegramID: strp("1")})
	bob := store.PutUser(&entity.User{TelegramID: strp("2")})

	resp, err := svc.User.SetPhone(ctx, alice, &request.SetPhoneRequest{Phone: "+79998887766"})
	require.NoError(t, err)
	assert.Equal(t, "+79998887766", *resp.User.Phone)

	// same phone again is a no-op
	_, err = svc.User.SetPhone(ctx, alice, &request.SetPhoneRequest{Phone: "+79998887766"})
	require.NoError(t, err)

	_, err = svc.User.SetPhone(ctx, bob, &request.SetPhoneRequest{Phone: "+79998887766"})
	assert.ErrorIs(t, err, utils.ErrConflict)

	_, err = svc.User.SetPhone(ctx, nil, &request.SetPhoneRequest{Phone: "+79998887766"})
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
}

func TestUser_SetPhoneDoesNotTakeCreditedBalance(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	credited, err := svc.Admin.CreditBonus(ctx, "ops", &request.CreditBonusRequest{Phone: "+79990001122", Amount: 300})
	require.NoError(t, err)

	member := store.PutUser(&entity.User{TelegramID: strp("9"), Balance: 50})
	_, err = svc.User.SetPhone(ctx, member, &request.SetPhoneRequest{Phone: "+79990001122"})
	assert.ErrorIs(t, err, utils.ErrConflict)

	assert.Equal(t, int64(50), store.User(member.ID).Balance)
	assert.Nil(t, store.User(member.ID).Phone)

	holder, err := store.Repository().User.FindByPhone(ctx, "+79990001122")
	require.NoError(t, err)
	require.NotNil(t, holder)
	assert.Equal(t, credited.User.ID, holder.ID.String())
	assert.Equal(t, int64(300), holder.Balance)

	credits, err := svc.User.Credits(ctx, member)
	require.NoError(t, err)
	assert.Empty(t, credits.Items)
}

func TestRedeem_Scenario(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	user := store.PutUser(&entity.User{TelegramID: strp("1"), Balance: 450})
	gym := store.PutService(&entity.Service{Title: "GetFit", Price: 250, Active: true})

	resp, err := svc.Redeem.Redeem(ctx, user, &request.RedeemRequest{ServiceID: gym.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(200), resp.Balance)
	assert.Equal(t, "GetFit", resp.Purchase.Title)

	_, err = svc.Redeem.Redeem(ctx, user, &request.RedeemRequest{ServiceID: gym.ID.String()})
	assert.ErrorIs(t, err, utils.ErrConflict)
	assert.Equal(t, int64(200), store.User(user.ID).Balance)
	assert.Len(t, store.Purchases(), 1)

	history, err := svc.User.Purchases(ctx, user)
	require.NoError(t, err)
	require.Len(t, history.Items, 1)
	assert.Equal(t, int64(250), history.Items[0].Price)
}

func TestRedeem_InsufficientBalance(t *testing.T) {
	svc, store := newTestService(t)
	user := store.PutUser(&entity.User{TelegramID: strp("1"), Balance: 100})
	gym := store.PutService(&entity.Service{Title: "GetFit", Price: 250, Active: true})

	_, err := svc.Redeem.Redeem(context.Background(), user, &request.RedeemRequest{ServiceID: gym.ID.String()})
	assert.ErrorIs(t, err, utils.ErrInsufficientBalance)
	assert.Equal(t, int64(100), store.User(user.ID).Balance)
	assert.Empty(t, store.Purchases())
}

func TestRedeem_PreconditionOrder(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	user := store.PutUser(&entity.User{TelegramID: strp("1"), Balance: 0})
	hidden := store.PutService(&entity.Service{Title: "Hidden", Price: 10, Active: false})

	// inactive beats insufficient balance
	_, err := svc.Redeem.Redeem(ctx, user, &request.RedeemRequest{ServiceID: hidden.ID.String()})
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = svc.Redeem.Redeem(ctx, user, &request.RedeemRequest{ServiceID: "not-a-uuid"})
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.Redeem.Redeem(ctx, nil, &request.RedeemRequest{ServiceID: hidden.ID.String()})
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
}

func TestRedeem_BalanceEqualsInitialMinusPrices(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	user := store.PutUser(&entity.User{TelegramID: strp("1"), Balance: 1000})

	var spent int64
	for _, price := range []int64{100, 250, 75, 300} {
		s := store.PutService(&entity.Service{Title: "svc", Price: price, Active: true})
		_, err := svc.Redeem.Redeem(ctx, user, &request.RedeemRequest{ServiceID: s.ID.String()})
		require.NoError(t, err)
		spent += price
	}

	assert.Equal(t, 1000-spent, store.User(user.ID).Balance)
}

func TestRedeem_StorageFaultIsNotClassified(t *testing.T) {
	svc, store := newTestService(t)
	user := store.PutUser(&entity.User{TelegramID: strp("1"), Balance: 1000})
	s := store.PutService(&entity.Service{Title: "svc", Price: 10, Active: true})
	store.Err = errors.New("connection reset")

	_, err := svc.Redeem.Redeem(context.Background(), user, &request.RedeemRequest{ServiceID: s.ID.String()})
	require.Error(t, err)
	assert.False(t, errors.Is(err, utils.ErrNotFound))
	assert.False(t, errors.Is(err, utils.ErrConflict))
	assert.False(t, errors.Is(err, utils.ErrInsufficientBalance))
}

func TestCatalog_CreateListUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Catalog.Create(ctx, &request.CreateServiceRequest{
		Title:       "  Coffee  ",
		Partner:     strp("OsCafe"),
		Price:       100,
		Description: strp(" "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Coffee", created.Service.Title)
	assert.True(t, created.Service.Active)
	assert.Nil(t, created.Service.Description)

	active, err := svc.Catalog.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active.Services, 1)

	off := request.Flag(false)
	price := int64(150)
	updated, err := svc.Catalog.Update(ctx, created.Service.ID, &request.UpdateServiceRequest{Active: &off, Price: &price})
	require.NoError(t, err)
	assert.False(t, updated.Service.Active)
	assert.Equal(t, int64(150), updated.Service.Price)
	assert.Equal(t, "Coffee", updated.Service.Title)

	active, err = svc.Catalog.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active.Services)

	all, err := svc.Catalog.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all.Services, 1)
}

func TestCatalog_ConcurrentPartialUpdatesKeepEveryField(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		s := store.PutService(&entity.Service{Title: "Coffee", Price: 100, Active: true})
		id := s.ID.String()
		price := int64(300)
		off := request.Flag(false)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.Catalog.Update(ctx, id, &request.UpdateServiceRequest{Price: &price})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := svc.Catalog.Update(ctx, id, &request.UpdateServiceRequest{Active: &off})
			assert.NoError(t, err)
		}()
		wg.Wait()

		stored, err := store.Repository().Service.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(300), stored.Price)
		assert.False(t, stored.Active)
	}
}

func TestCatalog_DeactivationKeepsExistingPurchases(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	user := store.PutUser(&entity.User{TelegramID: strp("1"), Balance: 300})
	cafe := store.PutService(&entity.Service{Title: "Coffee", Price: 100, Active: true})

	_, err := svc.Redeem.Redeem(ctx, user, &request.RedeemRequest{ServiceID: cafe.ID.String()})
	require.NoError(t, err)

	off := request.Flag(false)
	_, err = svc.Catalog.Update(ctx, cafe.ID.String(), &request.UpdateServiceRequest{Active: &off})
	require.NoError(t, err)

	history, err := svc.User.Purchases(ctx, user)
	require.NoError(t, err)
	require.Len(t, history.Items, 1)
	assert.Equal(t, cafe.ID.String(), history.Items[0].ServiceID)
	assert.Equal(t, int64(200), store.User(user.ID).Balance)

	// a deactivated service cannot be redeemed again by anyone
	other := store.PutUser(&entity.User{TelegramID: strp("2"), Balance: 300})
	_, err = svc.Redeem.Redeem(ctx, other, &request.RedeemRequest{ServiceID: cafe.ID.String()})
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestCatalog_UpdateErrors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	title := "New"

	_, err := svc.Catalog.Update(ctx, "bad-id", &request.UpdateServiceRequest{Title: &title})
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.Catalog.Update(ctx, "0b8f7f1e-8a2d-4c38-9f2e-6f1f6b6f1a11", &request.UpdateServiceRequest{Title: &title})
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = svc.Catalog.Update(ctx, "0b8f7f1e-8a2d-4c38-9f2e-6f1f6b6f1a11", &request.UpdateServiceRequest{})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestCatalog_ListActiveNewestFirst(t *testing.T) {
	svc, store := newTestService(t)
	first := store.PutService(&entity.Service{Title: "first", Price: 1, Active: true})
	second := store.PutService(&entity.Service{Title: "second", Price: 1, Active: true})

	resp, err := svc.Catalog.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Services, 2)
	assert.Equal(t, second.ID.String(), resp.Services[0].ID)
	assert.Equal(t, first.ID.String(), resp.Services[1].ID)
}

func TestAdmin_CreditUnknownPhoneCreatesUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Admin.CreditBonus(ctx, "admin:1", &request.CreditBonusRequest{
		Phone:  "+79998887766",
		Amount: 300,
		Note:   strp("welcome"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(300), resp.User.Balance)
	assert.Nil(t, resp.User.TelegramID)
	assert.Equal(t, "admin:1", resp.Credit.CreatedBy)
	assert.Equal(t, "welcome", *resp.Credit.Note)

	resp, err = svc.Admin.CreditBonus(ctx, "admin:1", &request.CreditBonusRequest{Phone: "+79998887766", Amount: -100})
	require.NoError(t, err)
	assert.Equal(t, int64(200), resp.User.Balance)

	recent, err := svc.Admin.RecentCredits(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent.Items, 2)
	assert.Equal(t, int64(-100), recent.Items[0].Amount)
}

func TestAdmin_CreditNeverBelowZero(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	user := store.PutUser(&entity.User{TelegramID: strp("1"), Phone: strp("+79995553311"), Balance: 50})

	_, err := svc.Admin.CreditBonus(ctx, "ops", &request.CreditBonusRequest{Phone: "+79995553311", Amount: -80})
	assert.ErrorIs(t, err, utils.ErrInsufficientBalance)
	assert.Equal(t, int64(50), store.User(user.ID).Balance)

	_, err = svc.Admin.CreditBonus(ctx, "ops", &request.CreditBonusRequest{Phone: "+79995553311", Amount: 0})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestAdmin_ListUsersPaginates(t *testing.T) {
	svc, store := newTestService(t)
	for i := 0; i < 5; i++ {
		store.PutUser(&entity.User{Balance: int64(i)})
	}

	resp, err := svc.Admin.ListUsers(context.Background(), &request.PaginatedRequest{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, int64(5), resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
}

func TestAdmin_ListUsersReturnsEveryoneByDefault(t *testing.T) {
	svc, store := newTestService(t)
	for i := 0; i < 151; i++ {
		store.PutUser(&entity.User{Balance: int64(i)})
	}

	resp, err := svc.Admin.ListUsers(context.Background(), &request.PaginatedRequest{Page: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 151)
	assert.Equal(t, int64(151), resp.Pagination.Total)
	assert.Equal(t, 1, resp.Pagination.TotalPages)

	resp, err = svc.Admin.ListUsers(context.Background(), &request.PaginatedRequest{Page: 1, PerPage: 500})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 151)
}
