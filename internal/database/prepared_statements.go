package database

import "github.com/gocql/gocql"

// Requêtes des chemins chauds du storefront : jointure panier →
// catalogue, recalcul des prix au checkout, lookups de login.
// Chaque appel construit une *gocql.Query neuve — Bind mute son
// receveur, une requête partagée entre goroutines mélangerait les
// valeurs de deux clients. La préparation n'est faite qu'une fois :
// gocql la met en cache par session et par texte de requête.
const (
	cqlProductByID = `SELECT product_id, name, slug, description, price, sale_price, category_id, image_urls, tags, is_featured, is_active, has_variants, created_at, updated_at
		FROM products WHERE product_id = ?`

	cqlVariantsByProduct = `SELECT id, product_id, size, unit, flavor, price, sale_price, stock, sku, is_active, created_at, updated_at
		FROM product_variants WHERE product_id = ?`

	cqlCartByUser = `SELECT item_id, user_id, product_id, variant_id, quantity, added_at, updated_at
		FROM cart_items WHERE user_id = ?`

	cqlUserByEmail = `SELECT user_id FROM users_by_email WHERE email = ?`

	cqlUserByID = `SELECT email, password, name, role, provider FROM users WHERE user_id = ?`
)

func QueryProductByID(productID gocql.UUID) (*gocql.Query, error) {
	session, err := GetProductsSession()
	if err != nil {
		return nil, err
	}
	return session.Query(cqlProductByID, productID), nil
}

func QueryVariantsByProduct(productID gocql.UUID) (*gocql.Query, error) {
	session, err := GetProductsSession()
	if err != nil {
		return nil, err
	}
	return session.Query(cqlVariantsByProduct, productID), nil
}

func QueryCartByUser(userID string) (*gocql.Query, error) {
	session, err := GetOrdersSession()
	if err != nil {
		return nil, err
	}
	return session.Query(cqlCartByUser, userID), nil
}

func QueryUserByEmail(email string) (*gocql.Query, error) {
	session, err := GetUsersSession()
	if err != nil {
		return nil, err
	}
	return session.Query(cqlUserByEmail, email), nil
}

func QueryUserByID(userID string) (*gocql.Query, error) {
	session, err := GetUsersSession()
	if err != nil {
		return nil, err
	}
	return session.Query(cqlUserByID, userID), nil
}
