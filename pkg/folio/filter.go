package folio

import (
	"fmt"
	"strconv"
	"strings"
)

// matchesOperator compares a cell value against an expected value. Equality
// is checked on the string forms; ordering operators compare numerically
// when both sides parse as numbers and lexically otherwise; contains and
// like are case-insensitive substring matches. Unknown operators match
// nothing.
func matchesOperator(cell interface{}, op string, value interface{}) bool {
	cellStr := fmt.Sprintf("%v", cell)
	valueStr := fmt.Sprintf("%v", value)

	switch op {
	case "=", "==":
		return cellStr == valueStr
	case "!=":
		return cellStr != valueStr
	case ">":
		return compareValues(cell, value) > 0
	case ">=":
		return compareValues(cell, value) >= 0
	case "<":
		return compareValues(cell, value) < 0
	case "<=":
		return compareValues(cell, value) <= 0
	case "contains", "like":
		return strings.Contains(strings.ToLower(cellStr), strings.ToLower(valueStr))
	default:
		return false
	}
}

// compareValues orders two values numerically when both parse as numbers,
// lexically otherwise.
func compareValues(a, b interface{}) int {
	aStr := fmt.Sprintf("%v", a)
	bStr := fmt.Sprintf("%v", b)

	aNum, aErr := strconv.ParseFloat(aStr, 64)
	bNum, bErr := strconv.ParseFloat(bStr, 64)

	if aErr == nil && bErr == nil {
		if aNum < bNum {
			return -1
		}
		if aNum > bNum {
			return 1
		}
		return 0
	}

	if aStr < bStr {
		return -1
	}
	if aStr > bStr {
		return 1
	}
	return 0
}
