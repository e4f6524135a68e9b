package inventory

import (
	"strconv"
	"strings"
)

// NextTabCounter deriva el consecutivo para la próxima pestaña de venta:
// (máximo sufijo numérico de los labels existentes) + 1. Tolera labels sin
// sufijo o con sufijo no numérico (cuentan como 0).
func NextTabCounter(labels []string) int {
	max := 0
	for _, label := range labels {
		if n := trailingNumber(label); n > max {
			max = n
		}
	}
	return max + 1
}

// trailingNumber extrae el entero final de un label ("Venta 12" -> 12); 0 si no hay.
func trailingNumber(label string) int {
	label = strings.TrimSpace(label)
	i := len(label)
	for i > 0 && label[i-1] >= '0' && label[i-1] <= '9' {
		i--
	}
	if i == len(label) {
		return 0
	}
	n, err := strconv.Atoi(label[i:])
	if err != nil {
		return 0
	}
	return n
}
