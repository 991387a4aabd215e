package dto

type DashboardStats struct {
	TotalEquipments uint64 `json:"total_equipments"`
	Available       uint64 `json:"available"`
	Loaned          uint64 `json:"loaned"`
	Maintenance     uint64 `json:"maintenance"`
	ActiveLoans     uint64 `json:"active_loans"`
	OverdueLoans    uint64 `json:"overdue_loans"`
}
