package source

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseInt reads a scraped integer. Blank values and "-" give 0; thousands
// separators are dropped, "22(1)" reads as 22 and "1.7" truncates to 1.
// Values outside the int32 range are treated as garbage and give 0.
func ParseInt(v any) int {
	s, ok := scalar(v)
	if !ok {
		return 0
	}
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsNaN(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}

// ParseID reads an external id. Only positive whole numbers are ids: "12" and
// 12.0 are accepted, "12.7" and anything past int64 are not.
func ParseID(v any) (int64, error) {
	s, ok := scalar(v)
	if !ok {
		return 0, fmt.Errorf("id is blank")
	}
	digits := s
	if i := strings.IndexByte(digits, '.'); i >= 0 && strings.Trim(digits[i+1:], "0") == "" {
		digits = digits[:i]
	}
	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id %q is not a whole number in range", s)
	}
	if id <= 0 {
		return 0, fmt.Errorf("id %d is not positive", id)
	}
	return id, nil
}

// ParseFloat reads a scraped decimal, tolerating "-", blanks, thousands
// separators and a trailing percent sign.
func ParseFloat(v any) float64 {
	s, ok := scalar(v)
	if !ok {
		return 0
	}
	s = strings.NewReplacer(",", "", "%", "").Replace(s)
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseString renders any scalar as trimmed text.
func ParseString(v any) string {
	s, _ := scalar(v)
	return s
}

func scalar(v any) (string, bool) {
	var s string
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		s = x
	case json.Number:
		s = x.String()
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		s = strconv.Itoa(x)
	case int64:
		s = strconv.FormatInt(x, 10)
	case int32:
		s = strconv.FormatInt(int64(x), 10)
	case bool:
		return "", false
	default:
		s = fmt.Sprint(x)
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return "", false
	}
	return s, true
}

// ParseRatio reads "won/total" pairs such as aerial duels. A bare number is
// both values.
func ParseRatio(v any) (won, total int) {
	s, ok := scalar(v)
	if !ok {
		return 0, 0
	}
	if parts := strings.SplitN(s, "/", 2); len(parts) == 2 {
		return ParseInt(parts[0]), ParseInt(parts[1])
	}
	n := ParseInt(s)
	return n, n
}
