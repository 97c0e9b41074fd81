package instruction

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	setStaffPattern     = regexp.MustCompile(`(?i)^set\s+(staff\s+\d+)\s+([a-z\s]+)\s+to\s+(-?\d+)`)
	adjustDemandPattern = regexp.MustCompile(`(?i)^(increase|decrease|reduce|raise)\s+([a-z]{3,})\s+staff\s+requirement\s+by\s+(-?\d+)`)
	setDemandPattern    = regexp.MustCompile(`(?i)^set\s+([a-z]{3,})\s+staff\s+requirement\s+to\s+(-?\d+)`)
)

// ParseCommand recognises the fixed imperative phrasings operators use when no structured
// output is available. Patterns are tried in order and anchored at the start of the text.
func ParseCommand(text string) (Instruction, bool) {
	t := strings.TrimSpace(text)

	if m := setStaffPattern.FindStringSubmatch(t); m != nil {
		value, ok := parseCount(m[3])
		if !ok {
			return nil, false
		}
		return UpdateStaffField{
			StaffName: titleCase(strings.Join(strings.Fields(m[1]), " ")),
			Field:     NormalizeField(m[2]),
			Value:     decimal.NewFromInt(int64(value)),
		}, true
	}

	if m := adjustDemandPattern.FindStringSubmatch(t); m != nil {
		delta, ok := parseCount(m[3])
		if !ok {
			return nil, false
		}
		sign := -1
		switch strings.ToLower(m[1]) {
		case "increase", "raise":
			sign = 1
		}
		return AdjustDemandDelta{Day: NormalizeDay(m[2]), Delta: sign * delta}, true
	}

	if m := setDemandPattern.FindStringSubmatch(t); m != nil {
		value, ok := parseCount(m[2])
		if !ok {
			return nil, false
		}
		return SetDemand{Day: NormalizeDay(m[1]), Value: value}, true
	}

	return nil, false
}

// parseCount accepts integers whose magnitude fits MaxCount
func parseCount(s string) (int, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n > MaxCount || n < -MaxCount {
		return 0, false
	}
	return int(n), true
}
