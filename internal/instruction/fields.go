package instruction

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/julianstephens/optimisable/internal/constants"
)

var fieldAliases = map[string]string{
	"cost":                      constants.FieldCost,
	"staff cost":                constants.FieldCost,
	"daily cost":                constants.FieldCost,
	"min days":                  constants.FieldMinDays,
	"min work days":             constants.FieldMinDays,
	"min working days":          constants.FieldMinDays,
	"min working days per week": constants.FieldMinDays,
	"max days":                  constants.FieldMaxDays,
	"max work days":             constants.FieldMaxDays,
	"max working days":          constants.FieldMaxDays,
	"max working days per week": constants.FieldMaxDays,
	"name":                      constants.FieldStaffName,
	"staff name":                constants.FieldStaffName,
}

// NormalizeField maps a free-form attribute label onto its canonical name.
// Matching ignores case, surrounding space and underscores. Unknown labels are returned unchanged.
func NormalizeField(label string) string {
	key := strings.ToLower(strings.ReplaceAll(label, "_", " "))
	key = strings.Join(strings.Fields(key), " ")
	if canonical, ok := fieldAliases[key]; ok {
		return canonical
	}
	return label
}

// numericField reports whether field is a staff attribute an instruction may overwrite
func numericField(field string) bool {
	switch field {
	case constants.FieldCost, constants.FieldMinDays, constants.FieldMaxDays:
		return true
	}
	return false
}

var titleCaser = cases.Title(language.Und)

func titleCase(s string) string {
	return titleCaser.String(strings.TrimSpace(s))
}

// NormalizeDay reduces a day label to its three letter title-cased form ("friday" -> "Fri")
func NormalizeDay(day string) string {
	r := []rune(strings.TrimSpace(day))
	if len(r) > 3 {
		r = r[:3]
	}
	return titleCase(string(r))
}
