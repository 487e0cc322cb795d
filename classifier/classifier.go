// Package classifier maps free-form Portuguese phrases about purchases and
// expenses to ledger classifications. Matching is deterministic keyword and
// pattern work only; no model calls are made here, so the same phrase always
// classifies the same way.
package classifier

import (
	"regexp"
	"strings"

	"github.com/verdeflow/verde-assistant-service/types"
)

// Inventory keywords are checked before any expense group: a raw-material
// purchase is a stock entry, not a plain expense, even when the phrase also
// mentions money.
var inventoryKeywords = []string{
	"fertilizante",
	"adubo",
	"substrato",
	"semente",
	"sementes",
	"muda",
	"mudas",
	"inseticida",
	"herbicida",
	"fungicida",
	"defensivo",
	"calcário",
	"terra vegetal",
	"vaso",
	"vasos",
}

// Fuel phrases get a secondary pass: machine hints win over vehicle hints,
// and neither hint falls back to the generic fuel category.
var fuelKeywords = []string{"gasolina", "diesel", "etanol", "combustível", "combustivel", "álcool"}

var machineHints = []string{"roçadeira", "rocadeira", "cortador", "motosserra", "soprador", "máquina", "maquina", "aparador"}

var vehicleHints = []string{"carro", "caminhão", "caminhao", "caminhonete", "veículo", "veiculo", "moto", "van"}

type expenseGroup struct {
	keywords []string
	category string
	parent   string
}

// Ordered: first group whose keyword appears wins.
var expenseGroups = []expenseGroup{
	{keywords: []string{"manutenção", "manutencao", "conserto", "oficina", "peça", "peca"},
		category: "Manutenção de Equipamentos", parent: "Operacional"},
	{keywords: []string{"pedágio", "pedagio", "estacionamento", "frete"},
		category: "Transporte", parent: "Operacional"},
	{keywords: []string{"ferramenta", "ferramentas", "enxada", "tesoura de poda", "mangueira"},
		category: "Ferramentas", parent: "Operacional"},
	{keywords: []string{"epi", "luva", "luvas", "bota", "botas", "protetor"},
		category: "EPI e Segurança", parent: "Operacional"},
}

// productPattern captures a bare product name following "em" or "de", up to
// a stop word or punctuation: "preciso de fertilizante para o jardim" ->
// "fertilizante".
var productPattern = regexp.MustCompile(`(?:^|\s)(?:em|de)\s+([\p{L}0-9][\p{L}0-9 ]*?)(?:\s+(?:para|pra|por|com|no|na|nos|nas|do|da|dos|das|o|a|os|as|um|uma)\b|[.,;:!?]|$)`)

// ClassifyText classifies a phrase as an inventory purchase or a categorized
// expense. It returns nil when no keyword group matches, including for empty
// or whitespace-only input.
func ClassifyText(text string) *types.Classification {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return nil
	}

	for _, kw := range inventoryKeywords {
		if strings.Contains(lower, kw) {
			name := ExtractProductName(lower)
			if name == "" {
				name = kw
			}
			return &types.Classification{
				Kind:               types.ClassInventory,
				ProductName:        name,
				ParentCategoryName: "Estoque",
				CategoryName:       "Insumos",
			}
		}
	}

	if containsAny(lower, fuelKeywords) {
		switch {
		case containsAny(lower, machineHints):
			return &types.Classification{Kind: types.ClassExpense, CategoryName: "Combustível Máquinas", ParentCategoryName: "Operacional"}
		case containsAny(lower, vehicleHints):
			return &types.Classification{Kind: types.ClassExpense, CategoryName: "Combustível Veículos", ParentCategoryName: "Operacional"}
		default:
			return &types.Classification{Kind: types.ClassExpense, CategoryName: "Combustível", ParentCategoryName: "Operacional"}
		}
	}

	for _, group := range expenseGroups {
		if containsAny(lower, group.keywords) {
			return &types.Classification{Kind: types.ClassExpense, CategoryName: group.category, ParentCategoryName: group.parent}
		}
	}

	return nil
}

// ExtractProductName pulls a bare product name out of a phrase, or returns
// "" when the pattern does not apply.
func ExtractProductName(text string) string {
	m := productPattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
