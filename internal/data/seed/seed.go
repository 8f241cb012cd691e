// Package seed fills an empty database with demo members, partner services
// and one redemption so a fresh deployment can be clicked through.
package seed

import (
	"context"
	"fmt"
	"time"

	"bonus-tma/internal/data/entity"
	"bonus-tma/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const createdBy = "seed"

type demoUser struct {
	TelegramID string
	Phone      string
	Balance    int64
}

type demoService struct {
	Title       string
	Partner     string
	Price       int64
	Description string
}

var demoUsers = []demoUser{
	{TelegramID: "demo1", Phone: "+79998887766", Balance: 200},
	{TelegramID: "demo2", Phone: "+79995553311", Balance: 450},
}

var demoServices = []demoService{
	{Title: "Скидка 20% в кафе «Осознанность»", Partner: "OsCafe", Price: 100, Description: "Купон на скидку при заказе"},
	{Title: "1 месяц фитнеса GetFit", Partner: "GetFit Gym", Price: 250, Description: "Абонемент в зал на 30 дней"},
}

// Run seeds each table only when it is empty, so it is safe on every start.
func Run(ctx context.Context, repo *repository.Repository, log *zap.Logger) error {
	log = log.With(zap.String("component", "seed"))

	users, err := repo.User.CountAll(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if users == 0 {
		log.Info("Seeding demo users")
		for _, u := range demoUsers {
			if err := seedUser(ctx, repo, u); err != nil {
				return err
			}
		}
	}

	services, err := repo.Service.CountAll(ctx)
	if err != nil {
		return fmt.Errorf("count services: %w", err)
	}
	if services == 0 {
		log.Info("Seeding demo services")
		for _, s := range demoServices {
			if err := seedService(ctx, repo, s); err != nil {
				return err
			}
		}
	}

	purchases, err := repo.Purchase.CountAll(ctx)
	if err != nil {
		return fmt.Errorf("count purchases: %w", err)
	}
	if purchases == 0 {
		return seedPurchase(ctx, repo, log)
	}

	return nil
}

func seedUser(ctx context.Context, repo *repository.Repository, u demoUser) error {
	user, _, err := repo.User.GetOrCreateByTelegramID(ctx, u.TelegramID)
	if err != nil {
		return fmt.Errorf("seed user %s: %w", u.TelegramID, err)
	}
	if _, err := repo.User.SetPhone(ctx, user.ID, u.Phone); err != nil {
		return fmt.Errorf("seed phone for %s: %w", u.TelegramID, err)
	}

	note := "demo balance"
	_, err = repo.User.CreditByPhone(ctx, &entity.BonusCredit{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		Phone:      u.Phone,
		Amount:     u.Balance,
		Note:       &note,
		CreatedBy:  createdBy,
	})
	if err != nil {
		return fmt.Errorf("seed balance for %s: %w", u.TelegramID, err)
	}
	return nil
}

func seedService(ctx context.Context, repo *repository.Repository, s demoService) error {
	now := time.Now()
	partner := s.Partner
	description := s.Description

	err := repo.Service.Create(ctx, &entity.Service{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Title:        s.Title,
		Partner:      &partner,
		Price:        s.Price,
		Description:  &description,
		Active:       true,
	})
	if err != nil {
		return fmt.Errorf("seed service %s: %w", s.Partner, err)
	}
	return nil
}

// seedPurchase lets demo2 redeem the cafe offer through the regular redemption path.
func seedPurchase(ctx context.Context, repo *repository.Repository, log *zap.Logger) error {
	user, err := repo.User.FindByTelegramID(ctx, "demo2")
	if err != nil {
		return fmt.Errorf("find demo user: %w", err)
	}

	services, err := repo.Service.FindActive(ctx)
	if err != nil {
		return fmt.Errorf("list services: %w", err)
	}

	var cafe *entity.Service
	for _, s := range services {
		if s.Partner != nil && *s.Partner == "OsCafe" {
			cafe = s
			break
		}
	}

	if user == nil || cafe == nil {
		return nil
	}

	log.Info("Seeding demo purchase")
	if _, _, err := repo.Purchase.Redeem(ctx, user.ID, cafe.ID); err != nil {
		return fmt.Errorf("seed purchase: %w", err)
	}
	return nil
}
