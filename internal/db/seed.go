package db

import (
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/serenespring/massage-booking-api/internal/config"
	"github.com/serenespring/massage-booking-api/internal/models"
)

// Seed loads the reference data the application assumes is present: one
// BusinessHours row per weekday, the three service types, and the initial
// admin account. All inserts are idempotent.
func Seed(db *gorm.DB, cfg *config.Config) {
	seedBusinessHours(db)
	seedServiceTypes(db)
	seedAdmin(db, cfg)
}

// The studio operates Sundays and Thursdays 09:00-17:00; the other weekday
// rows exist inactive so the admin only ever updates, never creates.
func seedBusinessHours(db *gorm.DB) {
	openDays := map[int]bool{0: true, 4: true}

	for day := 0; day <= 6; day++ {
		var count int64
		db.Model(&models.BusinessHours{}).
			Where("day_of_week = ?", day).
			Count(&count)
		if count > 0 {
			continue
		}

		row := models.BusinessHours{
			DayOfWeek: day,
			StartTime: "09:00",
			EndTime:   "17:00",
			IsActive:  openDays[day],
		}
		if err := db.Create(&row).Error; err != nil {
			zap.L().Fatal("failed to seed business hours", zap.Error(err))
		}
	}
}

func seedServiceTypes(db *gorm.DB) {
	var count int64
	db.Model(&models.ServiceType{}).Count(&count)
	if count > 0 {
		return
	}

	types := []models.ServiceType{
		{Name: "Short Massage", NameZh: "舒缓按摩", Description: "30 minute focused session", DurationMinutes: 30, PriceCents: 5000, IsActive: true},
		{Name: "Standard Massage", NameZh: "标准按摩", Description: "60 minute full session", DurationMinutes: 60, PriceCents: 9000, IsActive: true},
		{Name: "Extended Massage", NameZh: "深度按摩", Description: "90 minute extended session", DurationMinutes: 90, PriceCents: 13000, IsActive: true},
	}

	if err := db.Create(&types).Error; err != nil {
		zap.L().Fatal("failed to seed service types", zap.Error(err))
	}
}

func seedAdmin(db *gorm.DB, cfg *config.Config) {
	var count int64
	db.Model(&models.Admin{}).
		Where("email = ?", cfg.AdminEmail).
		Count(&count)
	if count > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Fatal("failed to hash admin password", zap.Error(err))
	}

	admin := models.Admin{
		Email:        cfg.AdminEmail,
		PasswordHash: string(hashed),
		FirstName:    cfg.AdminFirstName,
		LastName:     cfg.AdminLastName,
		IsActive:     true,
	}

	if err := db.Create(&admin).Error; err != nil {
		zap.L().Fatal("failed to seed admin", zap.Error(err))
	}

	zap.L().Info("seeded initial admin account", zap.String("email", cfg.AdminEmail))
}
