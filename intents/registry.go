package intents

import (
	internalIntents "github.com/verdeflow/verde-assistant-service/internal/intents"
)

// Field declares one parameter of an intent schema.
type Field struct {
	Type     FieldType
	Required bool
	Default  interface{}
}

// FieldType is the declared type of a schema field. Raw values are coerced
// to it during validation.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldBoolean FieldType = "boolean"
	FieldDate    FieldType = "date" // "2006-01-02"
	FieldTime    FieldType = "time" // "15:04"
)

// Intent binds a name to its parameter schema and executor. Every registered
// intent has exactly one schema and one executor.
type Intent struct {
	Name        string
	Description string
	Schema      map[string]Field
	Execute     internalIntents.Func
}

// Static registry of supported intents. Registered once at init, read-only
// thereafter.
var registry = map[string]Intent{
	"create_appointment": {
		Name:        "create_appointment",
		Description: "Schedules an appointment, optionally linked to a client",
		Schema: map[string]Field{
			"title":       {Type: FieldString, Required: true},
			"date":        {Type: FieldDate, Required: true},
			"start_time":  {Type: FieldTime, Required: true},
			"end_time":    {Type: FieldTime},
			"all_day":     {Type: FieldBoolean, Default: false},
			"client_name": {Type: FieldString},
		},
		Execute: internalIntents.CreateAppointment,
	},
	"record_transaction": {
		Name:        "record_transaction",
		Description: "Records an income or expense ledger entry",
		Schema: map[string]Field{
			"description": {Type: FieldString, Required: true},
			"amount":      {Type: FieldNumber, Required: true},
			"type":        {Type: FieldString, Default: "expense"},
			"date":        {Type: FieldDate},
		},
		Execute: internalIntents.RecordTransaction,
	},
	"generate_monthly_task": {
		Name:        "generate_monthly_task",
		Description: "Generates the current cycle's task for a maintenance plan",
		Schema: map[string]Field{
			"plan_id": {Type: FieldString, Required: true},
			"date":    {Type: FieldDate},
		},
		Execute: internalIntents.GenerateMonthlyTask,
	},
	"create_client": {
		Name:        "create_client",
		Description: "Registers a client",
		Schema: map[string]Field{
			"name":    {Type: FieldString, Required: true},
			"phone":   {Type: FieldString},
			"address": {Type: FieldString},
		},
		Execute: internalIntents.CreateClient,
	},
	"list_appointments": {
		Name:        "list_appointments",
		Description: "Lists appointments for a day, or the next upcoming ones",
		Schema: map[string]Field{
			"date": {Type: FieldDate},
		},
		Execute: internalIntents.ListAppointments,
	},
	"register_stock_purchase": {
		Name:        "register_stock_purchase",
		Description: "Registers a raw-material purchase into inventory",
		Schema: map[string]Field{
			"product_name": {Type: FieldString, Required: true},
			"quantity":     {Type: FieldNumber, Default: float64(1)},
			"unit_cost":    {Type: FieldNumber},
			"date":         {Type: FieldDate},
		},
		Execute: internalIntents.RegisterStockPurchase,
	},
}

// GetIntent returns an intent by name.
func GetIntent(name string) (*Intent, bool) {
	intent, exists := registry[name]
	if !exists {
		return nil, false
	}
	return &intent, true
}

// GetIntentList returns the names of all registered intents.
func GetIntentList() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
