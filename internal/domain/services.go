package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Service is an entry in the static catalog of offered services
type Service struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Cost            string   `json:"cost"`
	Requirements    []string `json:"requirements"`
	AdditionalNotes string   `json:"additionalNotes,omitempty"`
}

// Services is the catalog agents pick from when capturing a lead. Lead
// rows reference entries by ID.
var Services = []Service{
	{
		ID:   "judgement",
		Name: "JUDGEMENT",
		Cost: "R 4,500",
		Requirements: []string{
			"Power of attorney",
			"Income and expenditure",
			"Creditors list",
			"Identity document",
			"Bank statement",
			"Proof of address",
		},
	},
	{
		ID:   "debt-review",
		Name: "DEBT REVIEW",
		Cost: "R 9,000",
		Requirements: []string{
			"Power of attorney",
			"A letter from your debt counsellor",
			"Creditor's list",
			"Income and expenditure",
			"Identity document",
			"Bank statement",
			"Proof of address",
		},
	},
	{
		ID:   "default-adverse",
		Name: "DEFAULT/ADVERSE LISTING",
		Cost: "R 4,500",
		Requirements: []string{
			"Power of attorney",
			"Income and expenditure",
			"Creditors list",
		},
	},
	{
		ID:   "admin-order",
		Name: "ADMIN ORDER",
		Cost: "R 9,000",
		Requirements: []string{
			"If ordered by court, we will need a little front court",
			"Proof of address",
			"Bank statement",
			"Income and expenditure",
			"Identity document",
			"Creditors list",
		},
	},
	{
		ID:   "account-negotiations",
		Name: "ACCOUNT NEGOTIATIONS",
		Cost: "R 850 per creditor (if creditors are more than 3, it will cost R 3,200 only)",
		Requirements: []string{
			"Power of attorney",
			"Income and expenditure",
			"Identity document",
			"Proof of address",
		},
	},
	{
		ID:   "assessment",
		Name: "ASSESSMENT",
		Cost: "R 350",
		Requirements: []string{
			"Power of attorney",
			"Identity document",
			"Bank statement",
			"Proof of address",
		},
	},
	{
		ID:   "garnishment",
		Name: "GARNISHMENT",
		Cost: "R 7,000",
		Requirements: []string{
			"Power of attorney",
			"Identity document",
			"Proof of address",
			"Income and expenditure",
			"Payslip",
			"Bank statement",
		},
	},
	{
		ID:              "updating-disputes",
		Name:            "UPDATING/DISPUTES",
		Cost:            "R 4,000",
		Requirements: []string{
			"Power of attorney",
			"Identity Document",
			"Paid Up Letters",
			"17.W Form (Counsellor)",
		},
		AdditionalNotes: "Clearance Certificate included",
	},
}

// ServiceByID looks up a catalog entry by its ID
func ServiceByID(id string) (Service, bool) {
	for _, s := range Services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

var randAmountPattern = regexp.MustCompile(`R\s*([\d,]+)`)

// ParseRandAmount extracts the first "R <number>" token from a catalog cost
// string, e.g. "R 4,500" -> 4500. Cost strings without such a token report
// false and are skipped by revenue reporting.
func ParseRandAmount(cost string) (int, bool) {
	m := randAmountPattern.FindStringSubmatch(cost)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatRandAmount renders an integer amount as "R 4,500"
func FormatRandAmount(amount int) string {
	s := strconv.Itoa(amount)
	if len(s) <= 3 {
		return "R " + s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(s[i : i+3])
	}
	return "R " + b.String()
}
