package service

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate     = validator.New()
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// check runs a single validator tag against value. Length tags count runes.
func check(value any, tag string) bool {
	return validate.Var(value, tag) == nil
}

func isEmail(value string) bool {
	return emailPattern.MatchString(value)
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
