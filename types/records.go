package types

import (
	"time"
)

// Appointment is a scheduled work unit owned by a single user.
// Start/End are stored as RFC 3339 timestamps in the backend; End may be
// empty for legacy rows created before extended fields existed.
type Appointment struct {
	ID       string `json:"id"`
	OwnerID  string `json:"user_id"`
	Title    string `json:"title"`
	Start    string `json:"start_time"`
	End      string `json:"end_time,omitempty"`
	AllDay   bool   `json:"all_day,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	Type     string `json:"type,omitempty"`
	Location string `json:"location,omitempty"`
	Status   string `json:"status,omitempty"`
}

// Interval returns the effective [start, end) interval of the appointment.
// Rows without an end time are treated as one hour long.
func (a *Appointment) Interval() (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, a.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if a.End == "" {
		return start, start.Add(time.Hour), nil
	}
	end, err := time.Parse(time.RFC3339, a.End)
	if err != nil {
		return start, start.Add(time.Hour), nil
	}
	return start, end, nil
}

// MaintenancePlan is a recurring plan attached to a client.
type MaintenancePlan struct {
	ID        string `json:"id"`
	OwnerID   string `json:"user_id"`
	ClientID  string `json:"client_id,omitempty"`
	Name      string `json:"name"`
	Frequency string `json:"frequency,omitempty"`
	Active    bool   `json:"active"`
}

// PlanExecution records one cycle (year-month) of a maintenance plan.
// At most one row may exist per (plan, cycle); it links to at most one
// generated appointment and one generated task.
type PlanExecution struct {
	ID            string `json:"id"`
	OwnerID       string `json:"user_id"`
	PlanID        string `json:"plan_id"`
	Cycle         string `json:"cycle"` // "2026-09"
	AppointmentID string `json:"appointment_id,omitempty"`
	TaskID        string `json:"task_id,omitempty"`
}

// Client is a customer record.
type Client struct {
	ID      string `json:"id"`
	OwnerID string `json:"user_id"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Transaction is a ledger entry (income or expense).
type Transaction struct {
	ID           string  `json:"id"`
	OwnerID      string  `json:"user_id"`
	Description  string  `json:"description"`
	Amount       float64 `json:"amount"`
	Type         string  `json:"type"` // "income" or "expense"
	Date         string  `json:"date"`
	CategoryID   string  `json:"category_id,omitempty"`
	CategoryName string  `json:"category_name,omitempty"`
}

// Category is a ledger category, optionally nested under a parent.
type Category struct {
	ID       string `json:"id"`
	OwnerID  string `json:"user_id"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`
	Kind     string `json:"kind,omitempty"`
}

// Product is an inventory item.
type Product struct {
	ID       string  `json:"id"`
	OwnerID  string  `json:"user_id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	UnitCost float64 `json:"unit_cost,omitempty"`
}

// StockMovement records an inventory change tied to a product.
type StockMovement struct {
	ID        string  `json:"id"`
	OwnerID   string  `json:"user_id"`
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
	Kind      string  `json:"kind"` // "purchase" or "consumption"
	UnitCost  float64 `json:"unit_cost,omitempty"`
	Date      string  `json:"date"`
}

// Task is a work item, optionally generated from a maintenance plan.
type Task struct {
	ID      string `json:"id"`
	OwnerID string `json:"user_id"`
	Title   string `json:"title"`
	DueDate string `json:"due_date,omitempty"`
	PlanID  string `json:"plan_id,omitempty"`
	Status  string `json:"status,omitempty"`
}

// CycleOf formats the year-month cycle key for a date, e.g. "2026-09".
func CycleOf(t time.Time) string {
	return t.Format("2006-01")
}
