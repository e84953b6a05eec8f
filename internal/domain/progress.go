package domain

import "strings"

// maxProgressValue is where parsing saturates. It fits a 32-bit int.
const maxProgressValue = 1_000_000_000

// ProgressWidth returns the integer prefix of a progress value, so "45%" is 45.
// Leading whitespace and a sign are accepted. Values without a numeric prefix
// ("abc", "", "%") yield 0.
func ProgressWidth(progress string) int {
	s := strings.TrimLeft(progress, " \t\n\r")
	sign := 1
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}

	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		d := int(c - '0')
		if n > (maxProgressValue-d)/10 {
			n = maxProgressValue
			continue
		}
		n = n*10 + d
	}
	return sign * n
}

// ProgressBarWidth clamps ProgressWidth to the 0..100 range of a rendered bar.
func ProgressBarWidth(progress string) int {
	w := ProgressWidth(progress)
	if w < 0 {
		return 0
	}
	if w > 100 {
		return 100
	}
	return w
}
