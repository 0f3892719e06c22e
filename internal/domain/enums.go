package domain

import "fmt"

// Display labels used across the records. Stored codes stay inside the
// repository layer.
const (
	PropertyStatusAvailable   = "Disponível"
	PropertyStatusRented      = "Alugado"
	PropertyStatusMaintenance = "Manutenção"

	PropertyTypeHouse      = "Casa"
	PropertyTypeApartment  = "Apartamento"
	PropertyTypeCommercial = "Comercial"
	PropertyTypeLand       = "Terreno"
	PropertyTypeOther      = "Outro"

	FinancialTypeIncome  = "Receita"
	FinancialTypeExpense = "Despesa"

	FinancialStatusPaid    = "Pago"
	FinancialStatusPending = "Pendente"
	FinancialStatusOverdue = "Atrasado"

	DefaultCategoryName = "Outros"
)

var propertyStatusLabels = map[string]string{
	"available":   PropertyStatusAvailable,
	"rented":      PropertyStatusRented,
	"maintenance": PropertyStatusMaintenance,
}

var propertyTypeLabels = map[string]string{
	"house":      PropertyTypeHouse,
	"apartment":  PropertyTypeApartment,
	"commercial": PropertyTypeCommercial,
	"land":       PropertyTypeLand,
	"other":      PropertyTypeOther,
}

var financialTypeLabels = map[string]string{
	"income":  FinancialTypeIncome,
	"expense": FinancialTypeExpense,
}

var financialStatusLabels = map[string]string{
	"paid":    FinancialStatusPaid,
	"pending": FinancialStatusPending,
	"overdue": FinancialStatusOverdue,
}

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for code, label := range m {
		out[label] = code
	}
	return out
}

var (
	propertyStatusCodes  = invert(propertyStatusLabels)
	propertyTypeCodes    = invert(propertyTypeLabels)
	financialTypeCodes   = invert(financialTypeLabels)
	financialStatusCodes = invert(financialStatusLabels)
)

// PropertyStatusLabel maps a stored status code to its display label. The
// enumeration is exhaustive: an unknown code is a data-integrity error.
func PropertyStatusLabel(code string) (string, error) {
	if label, ok := propertyStatusLabels[code]; ok {
		return label, nil
	}
	return "", fmt.Errorf("unknown property status code %q", code)
}

// PropertyStatusCode maps a display label to its stored code.
func PropertyStatusCode(label string) (string, error) {
	if code, ok := propertyStatusCodes[label]; ok {
		return code, nil
	}
	return "", fmt.Errorf("unknown property status %q", label)
}

// PropertyTypeLabel maps a stored type code to a label. Unlike the status
// map, an unknown code falls back to "Outro" instead of erroring. The
// asymmetry is deliberate and mirrors how stored data has historically been
// treated.
func PropertyTypeLabel(code string) string {
	if label, ok := propertyTypeLabels[code]; ok {
		return label
	}
	return PropertyTypeOther
}

// PropertyTypeCode maps a type label to its stored code. An empty or
// unknown label stores as "other".
func PropertyTypeCode(label string) string {
	if code, ok := propertyTypeCodes[label]; ok {
		return code
	}
	return "other"
}

// FinancialTypeLabel maps a stored transaction-type code to its label.
func FinancialTypeLabel(code string) (string, error) {
	if label, ok := financialTypeLabels[code]; ok {
		return label, nil
	}
	return "", fmt.Errorf("unknown financial type code %q", code)
}

// FinancialTypeCode maps a transaction-type label to its stored code.
func FinancialTypeCode(label string) (string, error) {
	if code, ok := financialTypeCodes[label]; ok {
		return code, nil
	}
	return "", fmt.Errorf("unknown financial type %q", label)
}

// FinancialStatusLabel maps a stored payment-status code to its label.
func FinancialStatusLabel(code string) (string, error) {
	if label, ok := financialStatusLabels[code]; ok {
		return label, nil
	}
	return "", fmt.Errorf("unknown financial status code %q", code)
}

// FinancialStatusCode maps a payment-status label to its stored code.
func FinancialStatusCode(label string) (string, error) {
	if code, ok := financialStatusCodes[label]; ok {
		return code, nil
	}
	return "", fmt.Errorf("unknown financial status %q", label)
}
