// Package validation holds the pure field validators for activation
// submissions. Every validator takes a raw string and returns nil when the
// value is acceptable or an error with a message fit for per-field UI
// feedback. Empty input is always valid here: the required flag is enforced
// by the validation engine, not by the field validators.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const countryPrefix = "IT"

var (
	fiscalCodeRe = regexp.MustCompile(`^[A-Z]{6}[0-9]{2}[A-Z][0-9]{2}[A-Z][0-9]{3}[A-Z]$`)
	ibanRe       = regexp.MustCompile(`^` + countryPrefix + `[0-9]{2}[A-Z][0-9]{5}[0-9]{5}[A-Z0-9]{12}$`)
	pdrRe        = regexp.MustCompile(`^[0-9]{14}$`)
	mobileSpaced = regexp.MustCompile(`^[0-9]{3} [0-9]{6,7}$`)
	nonDigitRe   = regexp.MustCompile(`[^0-9]`)
)

// FiscalCode validates an Italian fiscal code after trimming and
// upper-casing.
func FiscalCode(raw string) error {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if v == "" {
		return nil
	}
	if len(v) != 16 {
		return errors.New("fiscal code must be exactly 16 characters")
	}
	if !fiscalCodeRe.MatchString(v) {
		return errors.New("fiscal code format is invalid")
	}
	return nil
}

// IBAN validates a domestic 27-character IBAN.
func IBAN(raw string) error {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if v == "" {
		return nil
	}
	if len(v) != 27 {
		return errors.New("IBAN must be exactly 27 characters")
	}
	if !strings.HasPrefix(v, countryPrefix) {
		return errors.New("IBAN must start with " + countryPrefix)
	}
	if !ibanRe.MatchString(v) {
		return errors.New("IBAN format is invalid")
	}
	return nil
}

// POD validates an electricity delivery point code.
func POD(raw string) error {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if v == "" {
		return nil
	}
	if len(v) != 14 {
		return errors.New("POD must be exactly 14 characters")
	}
	if !strings.HasPrefix(v, countryPrefix) {
		return errors.New("POD must start with " + countryPrefix)
	}
	return nil
}

// PDR validates a gas delivery point code.
func PDR(raw string) error {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	if !pdrRe.MatchString(v) {
		return errors.New("PDR must be exactly 14 digits")
	}
	return nil
}

// Mobile validates a mobile number. Digits are counted after stripping
// separators, but when the raw value was typed with a space it must follow
// the 3-digit prefix + 6/7-digit subscriber grouping.
func Mobile(raw string) error {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	digits := nonDigitRe.ReplaceAllString(v, "")
	if len(digits) != 9 && len(digits) != 10 {
		return errors.New("mobile number must have 9 or 10 digits")
	}
	if digits[0] == '0' {
		return errors.New("mobile number must not start with 0")
	}
	if allSameDigit(digits) {
		return errors.New("mobile number is not plausible")
	}
	if strings.Contains(v, " ") && !mobileSpaced.MatchString(v) {
		return errors.New("mobile number grouping must be 3 digits, a space, then 6 or 7 digits")
	}
	return nil
}

func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

// DocumentType enumerates the identity documents the portal accepts.
type DocumentType string

const (
	DocumentIdentityCard   DocumentType = "identity-card"
	DocumentPassport       DocumentType = "passport"
	DocumentDrivingLicense DocumentType = "driving-license"
)

// DocumentReleaseDate checks that a document's release date falls inside its
// validity window. Identity cards and passports are valid for 10 years.
// Driving licenses shorten with the holder's age at validation time:
// 10 years under 50, 5 from 50, 3 from 70, 2 from 80.
func DocumentReleaseDate(release time.Time, docType DocumentType, birth time.Time, now time.Time) error {
	maxAge, err := maxAgeYears(docType, birth, now)
	if err != nil {
		return err
	}
	if release.After(now) {
		return errors.New("document release date cannot be in the future")
	}
	if release.Before(now.AddDate(-maxAge, 0, 0)) {
		return fmt.Errorf("document released more than %d years ago is no longer valid", maxAge)
	}
	return nil
}

func maxAgeYears(docType DocumentType, birth time.Time, now time.Time) (int, error) {
	switch docType {
	case DocumentIdentityCard, DocumentPassport:
		return 10, nil
	case DocumentDrivingLicense:
		age := yearsBetween(birth, now)
		switch {
		case age < 50:
			return 10, nil
		case age < 70:
			return 5, nil
		case age < 80:
			return 3, nil
		default:
			return 2, nil
		}
	default:
		return 0, fmt.Errorf("unknown document type %q", docType)
	}
}

func yearsBetween(from, to time.Time) int {
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	return years
}
