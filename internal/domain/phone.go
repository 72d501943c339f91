package domain

import "fmt"

const (
	MinPhoneDigits = 8
	MaxPhoneDigits = 15
)

// NormalizePhone strips everything that is not a decimal digit, keeping a
// single leading plus sign if present. Empty input normalizes to "".
func NormalizePhone(raw string) string {
	var out []byte
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if ch >= '0' && ch <= '9' {
			out = append(out, ch)
			continue
		}
		if ch == '+' && len(out) == 0 {
			out = append(out, ch)
		}
	}
	if len(out) == 1 && out[0] == '+' {
		return ""
	}
	return string(out)
}

// CountDigits counts decimal digits in a normalized phone number.
func CountDigits(phone string) int {
	count := 0
	for i := 0; i < len(phone); i++ {
		if phone[i] >= '0' && phone[i] <= '9' {
			count++
		}
	}
	return count
}

// ValidPhone reports whether a normalized number carries an acceptable
// digit count. No country-code inference and no full E.164 check.
func ValidPhone(phone string) bool {
	digits := CountDigits(phone)
	return digits >= MinPhoneDigits && digits <= MaxPhoneDigits
}

// OTPMessage composes the SMS body carrying the configured passcode.
func OTPMessage(otp string) string {
	return fmt.Sprintf("Your verification code is: %s", otp)
}
