package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"nutriko_back_end/internal/cache"
	"nutriko_back_end/internal/database"
	"nutriko_back_end/internal/handlers/cart"
	"nutriko_back_end/internal/handlers/offers"
	"nutriko_back_end/internal/models"
	"nutriko_back_end/internal/pricing"
	"nutriko_back_end/internal/settings"
	"nutriko_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
)

// PricedOrder est le résultat du recalcul serveur au moment du
// checkout : lignes figées et totaux. Le total envoyé par le client
// ne sert qu'à détecter un affichage périmé, jamais à facturer.
type PricedOrder struct {
	Items    []models.OrderItem
	Subtotal float64
	Discount float64
	Shipping float64
	Total    float64
	Offer    *models.AppliedOffer
	OfferRef *models.Offer
}

// 🧾 POST /api/orders
// Body: {"shipping_address": {...}, "payment_method": "cod"|"card",
//
//	"offer_code": "...", "client_total": 123.45}
//
// Header optionnel: Idempotency-Key
func Checkout(c *gin.Context) {
	userID := c.GetString("user_id")
	email := c.GetString("email")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var req struct {
		ShippingAddress models.ShippingAddress `json:"shipping_address"`
		PaymentMethod   string                 `json:"payment_method"`
		OfferCode       string                 `json:"offer_code"`
		ClientTotal     *float64               `json:"client_total"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	if !req.ShippingAddress.Complete() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Adresse de livraison incomplète (rue, ville, région, code postal requis)"})
		return
	}

	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentMethodCOD
	}
	if req.PaymentMethod != models.PaymentMethodCOD && req.PaymentMethod != models.PaymentMethodCard {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mode de paiement invalide ('cod' ou 'card')"})
		return
	}

	// ✅ Idempotence: un retry avec la même clé renvoie la commande
	// déjà créée au lieu d'en créer une deuxième.
	idemKey := c.GetHeader("Idempotency-Key")
	orderID := gocql.TimeUUID()

	if idemKey != "" {
		claimed, existingID, err := claimIdempotencyKey(userID, idemKey, orderID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
			return
		}
		if !claimed {
			order, items, err := LoadOrder(existingID)
			if err != nil {
				c.JSON(http.StatusConflict, gin.H{"error": "Commande en cours de création, réessayez"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"order": order, "items": items, "idempotent_replay": true})
			return
		}
	}

	// ✅ Recalcul serveur depuis le panier en base
	items, err := cart.LoadCart(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})
		return
	}

	priced, err := PriceCart(orderID, items, req.OfferCode)
	if err != nil {
		status, msg := checkoutErrorResponse(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	// ⚠️ Un total client au-delà de la tolérance d'arrondi signifie que
	// le client affiche des prix périmés: on refuse avec les montants
	// recalculés plutôt que de facturer un montant jamais affiché.
	if staleClientTotal(req.ClientTotal, priced.Total) {
		log.Printf("⚠️ Écart total client/serveur pour %s: client=%.2f serveur=%.2f", userID, *req.ClientTotal, priced.Total)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "Le total affiché ne correspond plus aux prix en vigueur, rechargez votre panier",
			"subtotal": priced.Subtotal,
			"discount": priced.Discount,
			"shipping": priced.Shipping,
			"total":    priced.Total,
		})
		return
	}

	now := time.Now()
	order := models.Order{
		ID:              orderID,
		UserID:          userID,
		PaymentMethod:   req.PaymentMethod,
		Subtotal:        priced.Subtotal,
		Discount:        priced.Discount,
		Shipping:        priced.Shipping,
		Total:           priced.Total,
		ShippingAddress: req.ShippingAddress,
		AppliedOffer:    priced.Offer,
		ItemsCount:      len(priced.Items),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// 💳 Paiement par carte: la commande n'est créée qu'à la
	// confirmation Stripe (webhook). On renvoie le client_secret.
	if req.PaymentMethod == models.PaymentMethodCard {
		intent, err := NewCardIntent(order, priced, email, idemKey)
		if err != nil {
			log.Printf("❌ Erreur Stripe: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création paiement"})
			return
		}

		log.Printf("💳 PaymentIntent créé : %s (%.2f€) pour %s", intent.ID, order.Total, email)

		c.JSON(http.StatusOK, gin.H{
			"client_secret": intent.ClientSecret,
			"payment_id":    intent.ID,
			"subtotal":      order.Subtotal,
			"discount":      order.Discount,
			"shipping":      order.Shipping,
			"total":         order.Total,
			"currency":      "eur",
			"items_count":   order.ItemsCount,
		})
		return
	}

	// 💶 Paiement à la livraison: l'engagement d'achat vaut paiement,
	// la commande passe directement en préparation.
	order.Status = models.OrderStatusProcessing
	order.PaymentStatus = models.PaymentStatusPaid

	if err := PersistOrder(order, priced, userID); err != nil {
		log.Printf("❌ Erreur création commande: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création commande"})
		return
	}

	// 📧 Notification asynchrone: ne conditionne jamais la réponse
	go utils.NotifyOrderConfirmed(order, priced.Items, email)

	cart.PublishCartEvent(userID, "cleared")

	log.Printf("✅ Commande %s créée (%.2f€, %d articles) pour %s", order.ID, order.Total, order.ItemsCount, userID)

	c.JSON(http.StatusCreated, gin.H{
		"order": order,
		"items": priced.Items,
	})
}

// 💳 POST /api/payment/intent
// Body: {"shipping_address": {...}, "offer_code": "..."}
// Tarifie le panier courant et renvoie un client_secret Stripe sans
// créer de commande: elle naîtra à la confirmation du webhook.
func CreatePaymentIntent(c *gin.Context) {
	userID := c.GetString("user_id")
	email := c.GetString("email")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var req struct {
		ShippingAddress models.ShippingAddress `json:"shipping_address"`
		OfferCode       string                 `json:"offer_code"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	if !req.ShippingAddress.Complete() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Adresse de livraison incomplète (rue, ville, région, code postal requis)"})
		return
	}

	items, err := cart.LoadCart(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})
		return
	}

	orderID := gocql.TimeUUID()
	priced, err := PriceCart(orderID, items, req.OfferCode)
	if err != nil {
		status, msg := checkoutErrorResponse(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	order := models.Order{
		ID:              orderID,
		UserID:          userID,
		PaymentMethod:   models.PaymentMethodCard,
		Subtotal:        priced.Subtotal,
		Discount:        priced.Discount,
		Shipping:        priced.Shipping,
		Total:           priced.Total,
		ShippingAddress: req.ShippingAddress,
		AppliedOffer:    priced.Offer,
		ItemsCount:      len(priced.Items),
	}

	intent, err := NewCardIntent(order, priced, email, c.GetHeader("Idempotency-Key"))
	if err != nil {
		log.Printf("❌ Erreur Stripe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création paiement"})
		return
	}

	log.Printf("💳 PaymentIntent créé : %s (%.2f€) pour %s", intent.ID, order.Total, email)

	c.JSON(http.StatusOK, gin.H{
		"client_secret": intent.ClientSecret,
		"payment_id":    intent.ID,
		"subtotal":      order.Subtotal,
		"discount":      order.Discount,
		"shipping":      order.Shipping,
		"total":         order.Total,
		"currency":      "eur",
		"items_count":   order.ItemsCount,
	})
}

// staleClientTotal détecte un total client hors tolérance d'arrondi.
// Un client qui n'envoie pas de total n'est jamais refusé pour ça.
func staleClientTotal(clientTotal *float64, serverTotal float64) bool {
	return clientTotal != nil && !pricing.WithinTolerance(*clientTotal, serverTotal)
}

// PriceCart fige les lignes du panier aux prix catalogue courants et
// recalcule tous les totaux côté serveur.
func PriceCart(orderID gocql.UUID, items []models.CartItem, offerCode string) (PricedOrder, error) {
	var priced PricedOrder

	for _, it := range items {
		product, err := cache.GetProduct(it.ProductID)
		if err != nil {
			return priced, errProductGone
		}
		if !product.IsActive {
			return priced, errProductGone
		}

		line := models.OrderItem{
			OrderID:   orderID,
			ItemNo:    len(priced.Items) + 1,
			ProductID: it.ProductID,
			Name:      product.Name,
			Quantity:  it.Quantity,
		}

		var variant *models.ProductVariant
		if it.HasVariant() {
			variant, err = cache.FindVariant(it.ProductID, it.VariantID)
			if err != nil {
				return priced, errVariantGone
			}
			line.VariantID = it.VariantID
			line.Size = variant.Size + " " + variant.Unit
			line.Flavor = variant.Flavor
		}

		line.UnitPrice = pricing.UnitPrice(*product, variant)
		priced.Items = append(priced.Items, line)
		priced.Subtotal += line.UnitPrice * float64(it.Quantity)
	}

	// 🎟️ L'offre est re-validée au moment du checkout, jamais reprise
	// telle quelle de la validation précédente.
	if offerCode != "" {
		offer, err := offers.FindOfferByCode(offerCode)
		if err != nil {
			return priced, err
		}
		result, err := pricing.EvaluateOffer(offer, priced.Subtotal, time.Now())
		if err != nil {
			return priced, err
		}
		applied := result.Offer
		priced.Offer = &applied
		priced.OfferRef = &offer
		priced.Discount = result.DiscountAmount
	}

	ctx := context.Background()
	threshold := settings.Float(ctx, settings.KeyFreeShippingThreshold, pricing.DefaultFreeShippingThreshold)
	flatFee := settings.Float(ctx, settings.KeyShippingFlatFee, pricing.DefaultShippingFlatFee)
	priced.Shipping = pricing.Shipping(priced.Subtotal, threshold, flatFee)
	priced.Total = pricing.FinalTotal(priced.Subtotal, priced.Discount, priced.Shipping)

	return priced, nil
}

// PersistOrder écrit la commande, ses lignes, l'index par utilisateur
// et vide le panier dans un seul batch loggué: tout ou rien.
func PersistOrder(order models.Order, priced PricedOrder, userID string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	addressJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return err
	}

	var offerJSON []byte
	if order.AppliedOffer != nil {
		offerJSON, err = json.Marshal(order.AppliedOffer)
		if err != nil {
			return err
		}
	}

	batch := session.NewBatch(gocql.LoggedBatch)

	batch.Query(`INSERT INTO orders (order_id, user_id, status, payment_status, payment_method, payment_intent_id, subtotal, discount, shipping, total, shipping_address, applied_offer, items_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.UserID, order.Status, order.PaymentStatus, order.PaymentMethod,
		order.PaymentIntentID, order.Subtotal, order.Discount, order.Shipping, order.Total,
		string(addressJSON), string(offerJSON), order.ItemsCount, order.CreatedAt, order.UpdatedAt)

	batch.Query(`INSERT INTO orders_by_user (user_id, created_at, order_id, status, total, items_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		order.UserID, order.CreatedAt, order.ID, order.Status, order.Total, order.ItemsCount)

	for _, item := range priced.Items {
		batch.Query(`INSERT INTO order_items (order_id, item_no, product_id, variant_id, name, size, flavor, quantity, unit_price)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.OrderID, item.ItemNo, item.ProductID, item.VariantID, item.Name,
			item.Size, item.Flavor, item.Quantity, item.UnitPrice)
	}

	batch.Query(`DELETE FROM cart_items WHERE user_id = ?`, userID)

	if err := session.ExecuteBatch(batch); err != nil {
		return err
	}

	// 🎟️ Enregistrement idempotent de l'utilisation du code promo
	if priced.OfferRef != nil {
		if err := offers.RecordOfferUsage(*priced.OfferRef, order.ID, userID); err != nil {
			log.Printf("⚠️ Erreur enregistrement utilisation offre %s: %v", priced.OfferRef.Code, err)
		}
	}

	return nil
}

// claimIdempotencyKey réserve la clé pour cet utilisateur. Retourne
// (false, orderID existant) si la clé a déjà servi.
func claimIdempotencyKey(userID, key string, orderID gocql.UUID) (bool, gocql.UUID, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return false, gocql.UUID{}, err
	}

	previous := map[string]interface{}{}
	applied, err := session.Query(`INSERT INTO order_idempotency (user_id, idem_key, order_id, created_at) VALUES (?, ?, ?, ?) IF NOT EXISTS`,
		userID, key, orderID, time.Now()).MapScanCAS(previous)
	if err != nil {
		return false, gocql.UUID{}, err
	}
	if applied {
		return true, orderID, nil
	}

	existing, _ := previous["order_id"].(gocql.UUID)
	return false, existing, nil
}

// NewCardIntent crée le PaymentIntent Stripe avec le snapshot complet
// de la commande en metadata: le webhook recrée la commande à partir
// de là, sans relire le panier (qui peut avoir changé entre-temps).
func NewCardIntent(order models.Order, priced PricedOrder, email, idemKey string) (*stripe.PaymentIntent, error) {
	itemsJSON, err := json.Marshal(priced.Items)
	if err != nil {
		return nil, err
	}
	addressJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{
		"user_id":          order.UserID,
		"email":            email,
		"order_id":         order.ID.String(),
		"items":            string(itemsJSON),
		"shipping_address": string(addressJSON),
	}
	if priced.Offer != nil {
		metadata["offer_code"] = priced.Offer.Code
	}
	if idemKey != "" {
		metadata["idempotency_key"] = idemKey
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(pricing.Cents(order.Total)),
		Currency: stripe.String("eur"),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: metadata,
	}

	return paymentintent.New(params)
}
