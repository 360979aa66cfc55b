package seed

import (
	"time"

	"fleetdeck/config"
	. "fleetdeck/internal/models"
	"fleetdeck/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	yachts := []Yacht{
		{
			Name:        "Northern Star",
			Marina:      "Harborview Marina, Slip 12",
			EngineMake:  stringPtr("Volvo Penta"),
			EngineModel: stringPtr("D6-440"),
			IsActive:    true,
		},
		{
			Name:          "Sea Change",
			Marina:        "Harborview Marina, Slip 31",
			EngineMake:    stringPtr("Caterpillar"),
			EngineModel:   stringPtr("C12.9"),
			GeneratorMake: stringPtr("Kohler"),
			IsActive:      true,
		},
	}

	for i := range yachts {
		var existing Yacht
		if err := db.First(&existing, "name = ?", yachts[i].Name).Error; err == nil {
			yachts[i] = existing
			continue
		}
		log.Info("Seeding yacht", "name", yachts[i].Name)
		if err := db.Create(&yachts[i]).Error; err != nil {
			return log.Err("failed to create yacht", err, "name", yachts[i].Name)
		}
	}

	hash, err := services.HashPassword("password")
	if err != nil {
		return log.Err("failed to hash seed password", err)
	}

	users := []User{
		{
			FirstName:    "Marta",
			LastName:     "Ellison",
			Email:        "master@example.com",
			PasswordHash: hash,
			Role:         RoleMaster,
			IsActive:     true,
		},
		{
			FirstName:    "Sam",
			LastName:     "Porter",
			Email:        "staff@example.com",
			PasswordHash: hash,
			Role:         RoleStaff,
			IsActive:     true,
		},
		{
			FirstName:    "Reyes",
			LastName:     "Duran",
			Email:        "mechanic@example.com",
			PasswordHash: hash,
			Role:         RoleMechanic,
			IsActive:     true,
		},
		{
			FirstName:    "Owen",
			LastName:     "Caldwell",
			Email:        "owner@example.com",
			PasswordHash: hash,
			Role:         RoleOwner,
			YachtID:      &yachts[0].ID,
			IsActive:     true,
		},
		{
			FirstName:    "Grace",
			LastName:     "Whitfield",
			Email:        "manager@example.com",
			PasswordHash: hash,
			Role:         RoleManager,
			YachtID:      &yachts[1].ID,
			IsActive:     true,
		},
	}

	for i := range users {
		var existing User
		if err := db.First(&existing, "email = ?", users[i].Email).Error; err == nil {
			users[i] = existing
			continue
		}
		log.Info("Seeding user", "email", users[i].Email)
		if err := db.Create(&users[i]).Error; err != nil {
			return log.Err("failed to create user", err, "email", users[i].Email)
		}
	}

	owner := users[3]
	weekFromNow := time.Now().UTC().AddDate(0, 0, 7).Truncate(24 * time.Hour)
	bookings := []Booking{
		{
			YachtID:         yachts[0].ID,
			UserID:          &owner.ID,
			StartAt:         weekFromNow,
			EndAt:           weekFromNow.AddDate(0, 0, 3),
			DepartureTime:   stringPtr("09:00"),
			ArrivalTime:     stringPtr("16:30"),
			OilChangeNeeded: true,
		},
		{
			YachtID:    yachts[1].ID,
			OwnerNames: stringPtr("The Whitfields"),
			StartAt:    weekFromNow.AddDate(0, 0, 1),
			EndAt:      weekFromNow.AddDate(0, 0, 1),
		},
	}

	for i := range bookings {
		log.Info("Seeding booking", "yachtID", bookings[i].YachtID)
		if err := db.Create(&bookings[i]).Error; err != nil {
			return log.Err("failed to create booking", err)
		}
	}

	repair := RepairRequest{
		YachtID:       &yachts[0].ID,
		SubmittedByID: owner.ID,
		Title:         "Generator impeller replacement",
		Description:   "Raw water flow dropped on the last trip out.",
		Status:        RepairStatusPending,
	}
	if err := db.Create(&repair).Error; err != nil {
		return log.Err("failed to create repair request", err)
	}

	budget := Budget{
		YachtID:  yachts[0].ID,
		Year:     time.Now().UTC().Year(),
		Category: "maintenance",
		Amount:   decimal.NewFromInt(25000),
	}
	if err := db.Create(&budget).Error; err != nil {
		return log.Err("failed to create budget", err)
	}

	log.Info("Development data seeded")
	return nil
}
