package entities

import "time"

// HistoryEntry é uma linha do histórico append-only por equipamento.
// Seq é atribuído pelo banco e desempata entradas com o mesmo timestamp.
type HistoryEntry struct {
	Seq         uint64    `json:"-"`
	ID          string    `json:"id"`
	EquipmentID string    `json:"equipment_id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	User        string    `json:"user"`
	Timestamp   time.Time `json:"timestamp"`
}
