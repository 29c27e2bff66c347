package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"nutriko_back_end/internal/models"
	"nutriko_back_end/internal/settings"
)

// NotifyOrderConfirmed envoie la confirmation de commande à l'acheteur
// et aux destinataires internes. Best-effort : la commande est déjà
// durable, un échec d'envoi est loggé et n'est jamais remonté au client.
func NotifyOrderConfirmed(order models.Order, items []models.OrderItem, userEmail string) {
	html := GenerateOrderConfirmationHTML(order, items)

	pdf, err := GenerateInvoicePDF(order)
	if err != nil {
		log.Println("❌ Erreur génération PDF :", err)
		pdf = nil
	}

	if err := SendEmail(userEmail, "Confirmation de votre commande Nutriko", html, pdf); err != nil {
		log.Printf("❌ Erreur envoi e-mail confirmation à %s : %v", userEmail, err)
	} else {
		log.Println("📧 E-mail de confirmation envoyé à", userEmail)
	}

	for _, recipient := range internalRecipients() {
		subject := fmt.Sprintf("🛒 Nouvelle commande %s (%.2f€)", order.ID.String(), order.Total)
		if err := SendEmail(recipient, subject, html, nil); err != nil {
			log.Printf("❌ Erreur notification interne %s : %v", recipient, err)
		}
	}
}

// internalRecipients lit la liste des destinataires internes depuis
// les site_settings, avec ORDER_NOTIFY_EMAILS en secours.
func internalRecipients() []string {
	if recipients := settings.StringSlice(context.Background(), settings.KeyOrderNotifyRecipients); len(recipients) > 0 {
		return recipients
	}

	raw := os.Getenv("ORDER_NOTIFY_EMAILS")
	if raw == "" {
		return nil
	}
	var out []string
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// SendOrderStatusEmail envoie un email de notification de changement de statut
func SendOrderStatusEmail(order models.Order, userEmail, newStatus string) error {
	subject := getStatusEmailSubject(newStatus)
	html := generateStatusEmailHTML(order, newStatus)

	if err := SendEmail(userEmail, subject, html, nil); err != nil {
		log.Printf("❌ Erreur envoi email statut: %v", err)
		return err
	}

	log.Printf("📧 Email de statut envoyé: %s → %s", newStatus, userEmail)
	return nil
}

func getStatusEmailSubject(status string) string {
	switch status {
	case models.OrderStatusShipped:
		return "📦 Votre commande a été expédiée - Nutriko"
	case models.OrderStatusDelivered:
		return "🎉 Votre commande a été livrée - Nutriko"
	case models.OrderStatusCancelled:
		return "❌ Commande annulée - Nutriko"
	case models.OrderStatusRefunded:
		return "💰 Remboursement effectué - Nutriko"
	default:
		return "📋 Mise à jour de votre commande - Nutriko"
	}
}

func getStatusMessage(status string) string {
	switch status {
	case models.OrderStatusProcessing:
		return "Votre commande est en cours de préparation."
	case models.OrderStatusShipped:
		return "Votre commande est en route ! Vous la recevrez très bientôt."
	case models.OrderStatusDelivered:
		return "Votre commande a été livrée. Bon appétit !"
	case models.OrderStatusCancelled:
		return "Votre commande a été annulée. Contactez-nous pour toute question."
	case models.OrderStatusRefunded:
		return "Le remboursement de votre commande a été effectué."
	default:
		return "Le statut de votre commande a été mis à jour."
	}
}

func generateStatusEmailHTML(order models.Order, status string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Mise à jour de commande</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f5f5f5; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Mise à jour de votre commande</h2>
		<p>Bonjour,</p>
		<p>%s</p>
		<p>Commande <strong>%s</strong> — total %.2f€</p>
		<p style="margin-top: 30px; color: #555;">
			Cordialement,<br>
			<strong>L'équipe Nutriko</strong>
		</p>
	</div>
</body>
</html>`, getStatusMessage(status), order.ID.String(), order.Total)
}
