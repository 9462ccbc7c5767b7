package production

import (
	"context"
	"sort"
)

// recentBatchLimit caps DashboardStats.RecentBatches.
const recentBatchLimit = 5

// DashboardStats is the at-a-glance summary of the workshop.
type DashboardStats struct {
	TotalInputs      int     `json:"total_inputs"`
	TotalProducts    int     `json:"total_products"`
	TotalRecipes     int     `json:"total_recipes"`
	ActiveBatches    int     `json:"active_batches"`
	LowStockInputs   int     `json:"low_stock_inputs"`
	LowStockProducts int     `json:"low_stock_products"`
	RecentBatches    []Batch `json:"recent_batches"`
}

// DashboardStats counts entities, active batches, and low-stock lines.
func (s *Service) DashboardStats(ctx context.Context) DashboardStats {
	return ComputeDashboard(s.Snapshot(ctx))
}

// ComputeDashboard is the pure form of Service.DashboardStats.
func ComputeDashboard(snap Snapshot) DashboardStats {
	stats := DashboardStats{
		TotalInputs:   len(snap.Inputs),
		TotalProducts: len(snap.Products),
		TotalRecipes:  len(snap.Recipes),
		RecentBatches: []Batch{},
	}
	for _, b := range snap.Batches {
		if b.IsActive() {
			stats.ActiveBatches++
		}
	}
	for _, in := range snap.Inputs {
		if in.IsLowStock() {
			stats.LowStockInputs++
		}
	}
	for _, p := range snap.Products {
		if p.IsLowStock() {
			stats.LowStockProducts++
		}
	}

	recent := append([]Batch(nil), snap.Batches...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > recentBatchLimit {
		recent = recent[:recentBatchLimit]
	}
	stats.RecentBatches = append(stats.RecentBatches, recent...)
	return stats
}

// LowStockReport lists every input and product at or below its minimum.
type LowStockReport struct {
	Inputs   []Input   `json:"inputs"`
	Products []Product `json:"products"`
}

// Empty reports whether nothing is low.
func (r LowStockReport) Empty() bool {
	return len(r.Inputs) == 0 && len(r.Products) == 0
}

func (s *Service) LowStock(ctx context.Context) LowStockReport {
	report := LowStockReport{Inputs: []Input{}, Products: []Product{}}
	report.Inputs = append(report.Inputs, s.Inputs.LowStock(ctx)...)
	report.Products = append(report.Products, s.Products.LowStock(ctx)...)
	return report
}
