package payment

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"nutriko_back_end/internal/database"
	"nutriko_back_end/internal/handlers/cart"
	"nutriko_back_end/internal/handlers/offers"
	"nutriko_back_end/internal/handlers/orders"
	"nutriko_back_end/internal/models"
	"nutriko_back_end/internal/pricing"
	"nutriko_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"
)

// 📥 POST /api/payment/webhook
func StripeWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := c.GetRawData()
	if err != nil {
		log.Println("❌ Lecture payload échouée:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Échec lecture body"})
		return
	}

	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	var event stripe.Event

	if secret == "" {
		log.Println("⚠️ Pas de STRIPE_WEBHOOK_SECRET — mode test")
		if err := json.Unmarshal(payload, &event); err != nil {
			log.Println("❌ JSON invalide:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "JSON invalide"})
			return
		}
	} else {
		event, err = webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), secret)
		if err != nil {
			log.Println("❌ Signature Stripe invalide:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Signature invalide"})
			return
		}
	}

	log.Printf("📥 Événement Stripe reçu : %s", event.Type)
	handleStripeEvent(event)

	c.Status(http.StatusOK)
}

func handleStripeEvent(event stripe.Event) {
	if event.Type != "payment_intent.succeeded" {
		log.Printf("ℹ️ Événement ignoré : %s", event.Type)
		return
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		log.Println("❌ Erreur décodage PaymentIntent:", err)
		return
	}

	userID := pi.Metadata["user_id"]
	userEmail := pi.Metadata["email"]
	orderIDStr := pi.Metadata["order_id"]
	itemsData := pi.Metadata["items"]
	addressData := pi.Metadata["shipping_address"]

	if userID == "" || orderIDStr == "" || itemsData == "" {
		log.Println("⚠️ Métadonnées incomplètes, événement ignoré")
		return
	}

	// 🔁 Déduplication: Stripe rejoue les webhooks, un même
	// PaymentIntent ne doit produire qu'une seule commande.
	ctx := context.Background()
	claimed, err := database.Redis.SetNX(ctx, "pi:"+pi.ID, "1", 48*time.Hour).Result()
	if err == nil && !claimed {
		log.Printf("🔁 PaymentIntent %s déjà traité, on ignore", pi.ID)
		return
	}

	orderID, err := gocql.ParseUUID(orderIDStr)
	if err != nil {
		log.Println("❌ order_id invalide dans les métadonnées:", err)
		return
	}

	// La commande est rejouable aussi côté base: si elle existe déjà,
	// rien à refaire.
	if existing, _, err := orders.LoadOrder(orderID); err == nil && existing.ID == orderID {
		log.Printf("🔁 Commande %s déjà enregistrée, on ignore", orderID)
		return
	}

	var items []models.OrderItem
	if err := json.Unmarshal([]byte(itemsData), &items); err != nil {
		log.Println("❌ Erreur JSON lignes de commande:", err)
		return
	}

	var address models.ShippingAddress
	if addressData != "" {
		json.Unmarshal([]byte(addressData), &address)
	}

	priced := orders.PricedOrder{Items: items}
	for _, it := range items {
		priced.Subtotal += it.UnitPrice * float64(it.Quantity)
	}
	total := float64(pi.Amount) / 100

	now := time.Now()
	order := models.Order{
		ID:              orderID,
		UserID:          userID,
		Status:          models.OrderStatusProcessing,
		PaymentStatus:   models.PaymentStatusPaid,
		PaymentMethod:   models.PaymentMethodCard,
		PaymentIntentID: pi.ID,
		Subtotal:        priced.Subtotal,
		Total:           total,
		ShippingAddress: address,
		ItemsCount:      len(items),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// Réduction ré-évaluée sur le sous-total figé; les frais de port
	// sont reconstitués depuis le montant effectivement facturé.
	if offerCode := pi.Metadata["offer_code"]; offerCode != "" {
		if offer, err := offers.FindOfferByCode(offerCode); err == nil {
			if result, err := pricing.EvaluateOffer(offer, priced.Subtotal, now); err == nil {
				applied := result.Offer
				order.AppliedOffer = &applied
				order.Discount = result.DiscountAmount
				priced.Offer = &applied
				priced.OfferRef = &offer
				priced.Discount = result.DiscountAmount
			}
		}
	}
	order.Shipping = total - priced.Subtotal + order.Discount
	if order.Shipping < 0 {
		order.Shipping = 0
	}
	priced.Shipping = order.Shipping
	priced.Total = total

	if err := orders.PersistOrder(order, priced, userID); err != nil {
		log.Println("❌ Erreur insertion commande:", err)
		return
	}

	cart.PublishCartEvent(userID, "cleared")

	log.Printf("✅ Commande %s créée via Stripe (%.2f€) pour %s", orderID, total, userID)

	go utils.NotifyOrderConfirmed(order, items, userEmail)
}
