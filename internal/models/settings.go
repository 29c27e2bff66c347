package models

import "time"

// SiteSetting est une entrée de la configuration du site (bannières,
// thème, logo, page à-propos, frais de port...). La valeur est un
// document JSON ; la version est incrémentée à chaque écriture via un
// compare-and-set, jamais réutilisée.
type SiteSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"` // JSON brut
	Version   int       `json:"version"`
	UpdatedBy string    `json:"updated_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
