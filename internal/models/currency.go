package models

import "strings"

// Currency короткий код валюты в верхнем регистре (EUR, USD, PHP)
type Currency string

// ParseCurrency нормализует пользовательский ввод
func ParseCurrency(s string) Currency {
	return Currency(strings.ToUpper(strings.TrimSpace(s)))
}

func (c Currency) IsEmpty() bool {
	return c == ""
}

// IsValid проверяет, что код состоит из 3-5 латинских букв
func (c Currency) IsValid() bool {
	if len(c) < 3 || len(c) > 5 {
		return false
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func (c Currency) String() string {
	return string(c)
}
