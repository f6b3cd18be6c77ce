package domain

import (
	"regexp"
	"strings"
)

var cellNumberPattern = regexp.MustCompile(`^0\d{9}$`)

// ValidateIDNumber checks a South African national ID number: 13 digits,
// a plausible birth date (MM 01-12, DD 01-31) and a valid Luhn check digit
// computed over the first 12 digits.
func ValidateIDNumber(id string) bool {
	if len(id) != 13 {
		return false
	}
	digits := make([]int, 13)
	for i, r := range id {
		if r < '0' || r > '9' {
			return false
		}
		digits[i] = int(r - '0')
	}

	month := digits[2]*10 + digits[3]
	if month < 1 || month > 12 {
		return false
	}
	day := digits[4]*10 + digits[5]
	if day < 1 || day > 31 {
		return false
	}

	sum := 0
	for i := 0; i < 12; i++ {
		d := digits[i]
		if i%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	check := (10 - sum%10) % 10
	return check == digits[12]
}

// ValidateCellNumber checks a local cell number: after stripping spaces and
// dashes it must be ten digits starting with 0.
func ValidateCellNumber(cell string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(cell)
	return cellNumberPattern.MatchString(cleaned)
}

// FormatCellNumber renders a ten digit number as "XXX XXX XXXX". Anything
// that does not clean up to ten digits is returned unchanged.
func FormatCellNumber(cell string) string {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(cell)
	if len(cleaned) != 10 {
		return cell
	}
	return cleaned[0:3] + " " + cleaned[3:6] + " " + cleaned[6:10]
}
