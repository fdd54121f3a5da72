package entity

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeDepartment unifica variantes de ancho completo/medio (NFKC) y espacios,
// para que "ｺﾝｻﾙ事業部" y "コンサル事業部" se agrupen como el mismo departamento.
func NormalizeDepartment(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}
