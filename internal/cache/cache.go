package cache

import (
	"context"
	"encoding/json"
	"time"

	"nutriko_back_end/internal/database"
	"nutriko_back_end/internal/models"

	"github.com/gocql/gocql"
)

const (
	UserCacheTTL    = 5 * time.Minute
	ProductCacheTTL = 10 * time.Minute
)

// GetProduct récupère un produit depuis Redis ou ScyllaDB.
func GetProduct(productID gocql.UUID) (*models.Product, error) {
	ctx := context.Background()
	key := "product:" + productID.String()

	// 1. Essayer le cache Redis
	if data, err := database.Redis.Get(ctx, key).Result(); err == nil {
		var p models.Product
		if json.Unmarshal([]byte(data), &p) == nil {
			return &p, nil
		}
	}

	// 2. Récupérer de ScyllaDB
	q, err := database.QueryProductByID(productID)
	if err != nil {
		return nil, err
	}

	var p models.Product
	err = q.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.SalePrice,
		&p.CategoryID, &p.ImageURLs, &p.Tags, &p.IsFeatured, &p.IsActive,
		&p.HasVariants, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	// 3. Mettre en cache
	if data, err := json.Marshal(p); err == nil {
		database.Redis.Set(ctx, key, data, ProductCacheTTL)
	}

	return &p, nil
}

// GetVariants récupère les variantes d'un produit depuis Redis ou ScyllaDB.
func GetVariants(productID gocql.UUID) ([]models.ProductVariant, error) {
	ctx := context.Background()
	key := "variants:" + productID.String()

	if data, err := database.Redis.Get(ctx, key).Result(); err == nil {
		var variants []models.ProductVariant
		if json.Unmarshal([]byte(data), &variants) == nil {
			return variants, nil
		}
	}

	q, err := database.QueryVariantsByProduct(productID)
	if err != nil {
		return nil, err
	}
	iter := q.Iter()
	defer iter.Close()

	var variants []models.ProductVariant
	var v models.ProductVariant
	for iter.Scan(&v.ID, &v.ProductID, &v.Size, &v.Unit, &v.Flavor, &v.Price,
		&v.SalePrice, &v.Stock, &v.SKU, &v.IsActive, &v.CreatedAt, &v.UpdatedAt) {
		variants = append(variants, v)
		v = models.ProductVariant{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	if data, err := json.Marshal(variants); err == nil {
		database.Redis.Set(ctx, key, data, ProductCacheTTL)
	}

	return variants, nil
}

// FindVariant retrouve une variante précise d'un produit.
func FindVariant(productID, variantID gocql.UUID) (*models.ProductVariant, error) {
	variants, err := GetVariants(productID)
	if err != nil {
		return nil, err
	}
	for i := range variants {
		if variants[i].ID == variantID {
			return &variants[i], nil
		}
	}
	return nil, gocql.ErrNotFound
}

// InvalidateProduct invalide le cache d'un produit et de ses variantes.
func InvalidateProduct(productID gocql.UUID) {
	ctx := context.Background()
	database.Redis.Del(ctx, "product:"+productID.String())
	database.Redis.Del(ctx, "variants:"+productID.String())
	database.Redis.Del(ctx, "products:all")
}

// GetUserFromCache récupère un utilisateur depuis Redis ou ScyllaDB.
func GetUserFromCache(userID string) (*models.User, error) {
	ctx := context.Background()
	key := "user:" + userID

	if data, err := database.Redis.Get(ctx, key).Result(); err == nil {
		var user models.User
		if json.Unmarshal([]byte(data), &user) == nil {
			return &user, nil
		}
	}

	q, err := database.QueryUserByID(userID)
	if err != nil {
		return nil, err
	}

	var user models.User
	user.ID = userID
	if err := q.Scan(&user.Email, &user.Password, &user.Name, &user.Role, &user.Provider); err != nil {
		return nil, err
	}

	if data, err := json.Marshal(user); err == nil {
		database.Redis.Set(ctx, key, data, UserCacheTTL)
	}

	return &user, nil
}

// InvalidateUserCache invalide le cache d'un utilisateur
func InvalidateUserCache(userID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "user:"+userID)
}
