// Package settings expose la configuration du site (site_settings)
// comme une map clé/valeur versionnée avec des accesseurs typés, au
// lieu de blobs JSON parsés à la main dans chaque handler.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"nutriko_back_end/internal/database"
	"nutriko_back_end/internal/models"
)

// Clés connues de site_settings.
const (
	KeyBanners               = "banners"
	KeyTheme                 = "theme"
	KeyLogo                  = "logo"
	KeyAboutUs               = "about_us"
	KeyShippingFlatFee       = "shipping_flat_fee"
	KeyFreeShippingThreshold = "free_shipping_threshold"
	KeyOrderNotifyRecipients = "order_notify_recipients"
)

const cacheTTL = 5 * time.Minute

var ErrNotFound = errors.New("paramètre introuvable")

// ErrVersionConflict : la version a bougé entre la lecture et
// l'écriture, le client doit relire et resoumettre.
var ErrVersionConflict = errors.New("conflit de version sur le paramètre")

// Get retourne une entrée, via le cache Redis si possible.
func Get(ctx context.Context, key string) (models.SiteSetting, error) {
	cacheKey := "setting:" + key
	if data, err := database.Redis.Get(ctx, cacheKey).Result(); err == nil && data != "" {
		var s models.SiteSetting
		if json.Unmarshal([]byte(data), &s) == nil {
			return s, nil
		}
	}

	session, err := database.GetProductsSession()
	if err != nil {
		return models.SiteSetting{}, err
	}

	var s models.SiteSetting
	s.Key = key
	if err := session.Query(`SELECT value, version, updated_by, updated_at FROM site_settings WHERE key = ?`, key).
		Scan(&s.Value, &s.Version, &s.UpdatedBy, &s.UpdatedAt); err != nil {
		return models.SiteSetting{}, ErrNotFound
	}

	if data, err := json.Marshal(s); err == nil {
		database.Redis.Set(ctx, cacheKey, data, cacheTTL)
	}

	return s, nil
}

// Set écrit une entrée en incrémentant la version avec un
// compare-and-set : une écriture concurrente perd et doit relire.
func Set(ctx context.Context, key, value, updatedBy string) (models.SiteSetting, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return models.SiteSetting{}, err
	}

	now := time.Now()

	var currentVersion int
	err = session.Query(`SELECT version FROM site_settings WHERE key = ?`, key).Scan(&currentVersion)
	if err != nil {
		// Première écriture de la clé
		applied, err := session.Query(
			`INSERT INTO site_settings (key, value, version, updated_by, updated_at) VALUES (?, ?, 1, ?, ?) IF NOT EXISTS`,
			key, value, updatedBy, now,
		).MapScanCAS(map[string]interface{}{})
		if err != nil {
			return models.SiteSetting{}, err
		}
		if !applied {
			return models.SiteSetting{}, ErrVersionConflict
		}
	} else {
		applied, err := session.Query(
			`UPDATE site_settings SET value = ?, version = ?, updated_by = ?, updated_at = ? WHERE key = ? IF version = ?`,
			value, currentVersion+1, updatedBy, now, key, currentVersion,
		).MapScanCAS(map[string]interface{}{})
		if err != nil {
			return models.SiteSetting{}, err
		}
		if !applied {
			return models.SiteSetting{}, ErrVersionConflict
		}
		currentVersion++
	}

	database.Redis.Del(ctx, "setting:"+key)

	if currentVersion == 0 {
		currentVersion = 1
	}
	return models.SiteSetting{Key: key, Value: value, Version: currentVersion, UpdatedBy: updatedBy, UpdatedAt: now}, nil
}

// List retourne toutes les entrées (back office).
func List(ctx context.Context) ([]models.SiteSetting, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT key, value, version, updated_by, updated_at FROM site_settings`).Iter()
	defer iter.Close()

	var out []models.SiteSetting
	var s models.SiteSetting
	for iter.Scan(&s.Key, &s.Value, &s.Version, &s.UpdatedBy, &s.UpdatedAt) {
		out = append(out, s)
		s = models.SiteSetting{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

// =============================================
// ACCESSEURS TYPÉS
// =============================================

// ParseFloatValue décode une valeur numérique stockée soit comme
// nombre JSON soit comme chaîne ("4.90").
func ParseFloatValue(raw string) (float64, error) {
	var n float64
	if err := json.Unmarshal([]byte(raw), &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err == nil {
		return strconv.ParseFloat(s, 64)
	}
	return 0, fmt.Errorf("valeur numérique invalide: %q", raw)
}

// ParseStringValue décode une valeur texte (chaîne JSON ou brut).
func ParseStringValue(raw string) string {
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err == nil {
		return s
	}
	return raw
}

// Float retourne la valeur numérique d'une clé, ou fallback si la clé
// est absente ou illisible.
func Float(ctx context.Context, key string, fallback float64) float64 {
	s, err := Get(ctx, key)
	if err != nil {
		return fallback
	}
	v, err := ParseFloatValue(s.Value)
	if err != nil {
		return fallback
	}
	return v
}

// String retourne la valeur texte d'une clé, ou fallback.
func String(ctx context.Context, key, fallback string) string {
	s, err := Get(ctx, key)
	if err != nil {
		return fallback
	}
	return ParseStringValue(s.Value)
}

// StringSlice retourne une valeur liste (destinataires internes des
// notifications de commande, bannières...).
func StringSlice(ctx context.Context, key string) []string {
	s, err := Get(ctx, key)
	if err != nil {
		return nil
	}
	var out []string
	if json.Unmarshal([]byte(s.Value), &out) == nil {
		return out
	}
	return nil
}
