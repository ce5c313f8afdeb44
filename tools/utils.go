package tools

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	ResultFileName = "result.csv"
)

func FmtJSONString(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "marshal data fail"
	}
	return string(data)
}

// IsClose compares two floats relative to the larger magnitude. Zero is only close to zero.
func IsClose(a, b, relTol float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= relTol*math.Max(math.Abs(a), math.Abs(b))
}

// FormatFloat renders f with the shortest decimal representation that reads back to the same float.
func FormatFloat(f float64) string {
	return decimal.NewFromFloat(f).String()
}

// FormatPoint renders the components of a point separated by sep.
func FormatPoint(point []float64, sep string) string {
	parts := make([]string, len(point))
	for i, c := range point {
		parts[i] = FormatFloat(c)
	}
	return strings.Join(parts, sep)
}

// FormatKilobytes renders a size in bytes as kilobytes with two decimals.
func FormatKilobytes(size int64) string {
	return decimal.NewFromInt(size).Div(decimal.NewFromInt(1024)).StringFixed(2)
}
