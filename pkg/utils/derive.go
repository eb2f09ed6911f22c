package utils

import (
	"math"
	"strconv"
	"strings"
)

// Percentage returns part as a percentage of total rounded to one decimal.
// A zero total yields 0.
func Percentage(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(part/total*1000) / 10
}

// FormatPercent renders a percentage with one decimal, e.g. "50.0%".
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64) + "%"
}

// ShareText renders part/total as a percentage, or "0%" when total is 0.
func ShareText(part, total float64) string {
	if total == 0 {
		return "0%"
	}
	return FormatPercent(Percentage(part, total))
}

// FormatRate renders an agent resolution rate as reported by the backend.
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64) + "%"
}

// RateClass buckets an agent resolution rate for display.
func RateClass(rate float64) string {
	switch {
	case rate >= 80:
		return "good"
	case rate >= 60:
		return "warning"
	default:
		return "poor"
	}
}

// StatusLabel turns a backend status such as "in_progress" into "IN PROGRESS".
// Only the first underscore is replaced.
func StatusLabel(status string) string {
	return strings.ToUpper(strings.Replace(status, "_", " ", 1))
}

// PriorityLabel capitalises the first letter of a priority.
func PriorityLabel(priority string) string {
	if priority == "" {
		return ""
	}
	return strings.ToUpper(priority[:1]) + priority[1:]
}

// FormatHours renders an average resolution time, or "N/A" when there is
// no positive average.
func FormatHours(hours float64) string {
	if hours <= 0 {
		return "N/A"
	}
	return strconv.FormatFloat(hours, 'f', -1, 64) + "h"
}
