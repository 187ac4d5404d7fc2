package model

import (
	"strings"

	"telegram-scam-guard/internal/domain"
)

// Well-known category labels. The seeded table uses these; nothing in the
// matching logic depends on the set being closed.
const (
	CategoryPhishing = "phishing"
	CategoryOTPScam  = "otp_scam"
	CategoryJobFraud = "job_fraud"
	CategoryFakeLink = "fake_link"
)

// ScamCategory is one row of the read-only fraud-pattern table: a label,
// its trigger keywords in both supported languages, and the locale keys the
// canned explanation/advice are rendered from.
type ScamCategory struct {
	Label         string
	Keywords      []string
	HindiKeywords []string
}

func NewScamCategory(label string, keywords, hindiKeywords []string) (*ScamCategory, error) {
	label = strings.TrimSpace(strings.ToLower(label))
	if label == "" || len(keywords)+len(hindiKeywords) == 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &ScamCategory{Label: label, Keywords: keywords, HindiKeywords: hindiKeywords}, nil
}

// ExplanationKey/AdviceKey are the i18n keys canned texts live under.
func (c *ScamCategory) ExplanationKey() string { return "explanation." + c.Label }
func (c *ScamCategory) AdviceKey() string      { return "advice." + c.Label }

// Match counts how many of the category's keywords occur in the message.
// English keywords are compared case-insensitively; Hindi keywords are
// matched as-is since Devanagari has no case.
func (c *ScamCategory) Match(message string) int {
	lower := strings.ToLower(message)
	n := 0
	for _, kw := range c.Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			n++
		}
	}
	for _, kw := range c.HindiKeywords {
		if strings.Contains(message, kw) {
			n++
		}
	}
	return n
}

// Confidence maps a match count onto [0,1]: matches over the keyword total,
// doubled so a handful of hits saturates, capped at 1.
func (c *ScamCategory) Confidence(matches int) float64 {
	total := len(c.Keywords) + len(c.HindiKeywords)
	if total == 0 || matches <= 0 {
		return 0
	}
	conf := float64(matches) / float64(total) * 2
	if conf > 1 {
		conf = 1
	}
	return conf
}

// BuiltinCategories returns the seed keyword table. cmd/seed writes these
// into Postgres; the analyzer falls back to them when the table is empty.
func BuiltinCategories() []*ScamCategory {
	return []*ScamCategory{
		{
			Label: CategoryPhishing,
			Keywords: []string{
				"click here", "verify account", "suspended account", "urgent action",
				"confirm identity", "update payment", "security alert", "limited time",
				"claim reward", "congratulations", "winner", "prize", "lottery",
				"bank account", "credit card", "debit card", "atm", "pin",
			},
			HindiKeywords: []string{
				"यहाँ क्लिक करें", "खाता सत्यापित करें", "तुरंत कार्रवाई", "पहचान पुष्टि",
				"बैंक खाता", "एटीएम", "पिन", "इनाम", "लॉटरी", "जीतने वाले",
			},
		},
		{
			Label: CategoryOTPScam,
			Keywords: []string{
				"otp", "one time password", "verification code", "security code",
				"pin", "passcode", "authentication", "share otp", "send otp",
				"confirm otp", "validate", "activate",
			},
			HindiKeywords: []string{
				"ओटीपी", "वन टाइम पासवर्ड", "सत्यापन कोड", "सुरक्षा कोड",
				"पिन", "पासकोड", "साझा करें", "भेजें",
			},
		},
		{
			Label: CategoryJobFraud,
			Keywords: []string{
				"work from home", "easy money", "part time job", "registration fee",
				"advance payment", "guaranteed income", "no experience required",
				"data entry", "copy paste", "survey work", "earn daily",
			},
			HindiKeywords: []string{
				"घर से काम", "आसान पैसा", "पार्ट टाइम जॉब", "रजिस्ट्रेशन फीस",
				"अग्रिम भुगतान", "गारंटीड आय", "डेटा एंट्री", "रोज कमाएं",
			},
		},
		{
			Label: CategoryFakeLink,
			Keywords: []string{
				"bit.ly", "tinyurl", "shortened link", "suspicious domain",
				"free download", "install app", "update required", "security patch",
			},
			HindiKeywords: []string{
				"मुफ्त डाउनलोड", "ऐप इंस्टॉल", "अपडेट जरूरी", "सुरक्षा पैच",
			},
		},
	}
}
