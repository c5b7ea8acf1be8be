package utils

import "time"

// AgeYears computes age in whole years at the given date. The birthday is
// considered to have occurred this year only when (month, day) of today is
// on or after (month, day) of the birthday.
func AgeYears(birthday, today time.Time) int {
	age := today.Year() - birthday.Year()
	if today.Month() < birthday.Month() ||
		(today.Month() == birthday.Month() && today.Day() < birthday.Day()) {
		age--
	}
	return age
}
