package intel

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/jobcost-cli/internal/config"
	"github.com/sells-group/jobcost-cli/internal/model"
	"github.com/sells-group/jobcost-cli/internal/normalize"
)

// quoteFallbackTasks caps the recommended list when no coverage prefix fits;
// the quote surface shows more candidates than the template library does.
const quoteFallbackTasks = 10

// Recommend prices a recommended task list for one (department, product)
// segment of the catalog under the given policy. The guardrail price meets
// the target margin if realization matches history.
func Recommend(catalog []model.CatalogEntry, dept, product string, policy model.QuotePolicy, cfg config.SmartQuoteConfig) (*model.QuoteRecommendation, error) {
	var entries []model.CatalogEntry
	for _, e := range catalog {
		if e.Dept == dept && e.Product == product {
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return nil, eris.Errorf("intel: no catalog entries for segment %s / %s", dept, product)
	}

	prefix := coveragePrefix(entries, cfg.CoverageTarget, quoteFallbackTasks)

	rec := &model.QuoteRecommendation{
		Dept:         dept,
		Product:      product,
		Policy:       policy,
		TargetMargin: cfg.TargetMargin,
	}

	risks := make([]float64, 0, len(prefix))
	for _, e := range prefix {
		risks = append(risks, e.RiskScore)
	}
	riskMedian := normalize.Median(risks)

	for _, e := range prefix {
		var hours float64
		switch policy {
		case model.PolicyAggressive:
			hours = e.HoursPerJobMedian
		case model.PolicyBalanced:
			hours = e.HoursPerJobMedian * 1.1
		case model.PolicyConservative:
			hours = e.HoursPerJobP75
		default:
			return nil, eris.Errorf("intel: unknown quote policy %q", policy)
		}

		line := model.QuoteLine{
			TaskName:       e.TaskName,
			TaskFreqShare:  e.TaskFreqShare,
			SuggestedHours: hours,
			CostPerHour:    e.CostPerHourMedian,
			ExpectedCost:   hours * e.CostPerHourMedian,
			RiskScore:      e.RiskScore,
			RiskFlag:       "MEDIUM",
		}
		if cfg.TargetMargin < 1 {
			line.PriceGuardrail = line.ExpectedCost / (1 - cfg.TargetMargin)
		}
		if e.RiskScore > riskMedian {
			line.RiskFlag = "HIGH"
		}

		rec.Lines = append(rec.Lines, line)
		rec.ExpectedCost += line.ExpectedCost
		rec.GuardrailPrice += line.PriceGuardrail
	}

	return rec, nil
}
