package forecast

// classifyRisks aggregates risk and critical days across every forecast week.
func classifyRisks(weeks []CapacityPrediction) RiskAlerts {
	var riskDays, criticalDays int
	for _, week := range weeks {
		riskDays += len(week.RiskDays)
		criticalDays += len(week.CriticalDays)
	}
	return RiskAlerts{
		OverloadRisk:     OverloadRisk(riskDays),
		BurnoutRisk:      BurnoutRisk(criticalDays),
		DeadlineMissRisk: DeadlineMissRisk(riskDays),
		// No conflict signal exists without external calendar data.
		ResourceConflictRisk: RiskLow,
	}
}

// OverloadRisk grades the number of overloaded days in the horizon.
func OverloadRisk(riskDays int) RiskLevel {
	switch {
	case riskDays > 8:
		return RiskCritical
	case riskDays > 5:
		return RiskHigh
	case riskDays > 2:
		return RiskMedium
	default:
		return RiskLow
	}
}

// BurnoutRisk grades the number of critical days in the horizon.
func BurnoutRisk(criticalDays int) RiskLevel {
	switch {
	case criticalDays > 3:
		return RiskHigh
	case criticalDays > 1:
		return RiskMedium
	default:
		return RiskLow
	}
}

// DeadlineMissRisk grades how likely overloaded days push work past its due
// date.
func DeadlineMissRisk(riskDays int) RiskLevel {
	if riskDays > 3 {
		return RiskMedium
	}
	return RiskLow
}
