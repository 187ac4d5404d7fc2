package model

import "strings"

// emergencyPhrases are signals the user has already been defrauded, in
// which case replies carry the emergency checklist shortcut.
var emergencyPhrases = []string{
	"shared otp", "gave otp", "sent money", "got scammed",
	"हो गया", "दिया", "भेज दिया", "धोखा",
}

func ContainsEmergencyPhrase(message string) bool {
	lower := strings.ToLower(message)
	for _, p := range emergencyPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
