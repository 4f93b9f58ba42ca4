// server/internal/database/seeder.go
package database

import (
	"context"
	"time"

	"gate-pass-api-server/internal/auth"
	"gate-pass-api-server/internal/logger"
	"gate-pass-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SeedSuperAdmin creates the bootstrap account if it does not exist yet.
func SeedSuperAdmin(db *mongo.Database) error {
	userCollection := db.Collection("users")
	superAdminEmail := "superadmin@example.com"

	count, err := userCollection.CountDocuments(context.Background(), bson.M{"email": superAdminEmail})
	if err != nil {
		return err
	}
	if count > 0 {
		logger.GetLogger().Info("Super admin already exists. Seeding skipped.")
		return nil
	}

	logger.GetLogger().Info("Super admin not found. Seeding...")
	hashedPassword, err := auth.HashPassword("superadminpassword")
	if err != nil {
		return err
	}

	superAdmin := models.User{
		Email:     superAdminEmail,
		Name:      "Super Admin",
		Password:  hashedPassword,
		Role:      models.RoleSuperAdmin,
		ServiceNo: "000000",
		Branches:  []string{"HQ"},
		Status:    "active",
	}

	_, err = userCollection.InsertOne(context.Background(), superAdmin)
	if err != nil {
		return err
	}

	logger.GetLogger().Info("Super admin seeded successfully.")
	return nil
}

// SeedCategories inserts the default item categories once.
func SeedCategories(db *mongo.Database) error {
	collection := db.Collection("categories")

	count, err := collection.CountDocuments(context.Background(), bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []interface{}{
		models.Category{Name: "Test Equipment", Returnable: true, CreatedAt: time.Now()},
		models.Category{Name: "Tools", Returnable: true, CreatedAt: time.Now()},
		models.Category{Name: "Network Hardware", Returnable: true, CreatedAt: time.Now()},
		models.Category{Name: "Consumables", Returnable: false, CreatedAt: time.Now()},
		models.Category{Name: "Stationery", Returnable: false, CreatedAt: time.Now()},
	}
	_, err = collection.InsertMany(context.Background(), defaults)
	return err
}
