package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats solver results for the console
type TableFormatter struct{}

// Format generates a text block for one result
func (tf *TableFormatter) Format(result *Result) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	if result.ProfileName != "" {
		sb.WriteString(fmt.Sprintf("Profile:     %s\n", result.ProfileName))
	}
	sb.WriteString(fmt.Sprintf("Fiscal year: %d\n", result.Year))
	sb.WriteString(fmt.Sprintf("Target:      %s\n", result.Target))
	sb.WriteString(fmt.Sprintf("Status:      %s\n", tf.formatStatus(result.Converged)))
	sb.WriteString(fmt.Sprintf("Iterations:  %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence: %s\n", result.ConvergenceInfo))
	}
	sb.WriteString(strings.Repeat("-", 60) + "\n")

	switch result.Target {
	case TargetExpenses:
		if result.FlatTax != nil {
			sb.WriteString(fmt.Sprintf("%s total tax: %s EUR\n", result.FlatRegime, result.FlatTax.StringFixed(2)))
		}
		if result.Converged {
			sb.WriteString(fmt.Sprintf("%s matches it with expenses of %s EUR\n", result.Regime, result.Value.StringFixed(2)))
			sb.WriteString(fmt.Sprintf("Declared expenses: %s EUR (%s%s EUR versus break-even)\n",
				result.Current.StringFixed(2), tf.deltaSymbol(result.Headroom.Neg()), result.Headroom.Neg().Abs().StringFixed(2)))
		}
	case TargetRevenue:
		if result.Budget != nil {
			sb.WriteString(fmt.Sprintf("Tax budget: %s EUR under %s\n", result.Budget.StringFixed(2), result.Regime))
		}
		if result.Converged {
			sb.WriteString(fmt.Sprintf("Maximum gross revenue: %s EUR (tax %s EUR)\n",
				result.Value.StringFixed(2), result.TaxAtValue.StringFixed(2)))
			sb.WriteString(fmt.Sprintf("Headroom over current revenue: %s%s EUR\n",
				tf.deltaSymbol(result.Headroom), result.Headroom.Abs().StringFixed(2)))
			if result.WithinThreshold != nil && !*result.WithinThreshold {
				sb.WriteString("Note: that revenue exceeds the regime threshold\n")
			}
		}
	}
	return sb.String()
}

func (tf *TableFormatter) formatStatus(converged bool) string {
	if converged {
		return "converged"
	}
	return "no break-even"
}

func (tf *TableFormatter) deltaSymbol(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-"
	}
	return "+"
}

// FormatJSON renders results as indented JSON
func FormatJSON(results []*Result) (string, error) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
