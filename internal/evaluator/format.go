package evaluator

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders f the way JavaScript's Number.prototype.toString
// does: shortest round-trip digits, plain notation for exponents in
// [-7, 21), exponent notation otherwise.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exponent, _ := strings.Cut(s, "e")
	digits := strings.Replace(mantissa, ".", "", 1)
	e, _ := strconv.Atoi(exponent)
	k := len(digits)
	n := e + 1

	switch {
	case k <= n && n <= 21:
		return sign + digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		return sign + digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		return sign + "0." + strings.Repeat("0", -n) + digits
	}

	expSign := "+"
	if n-1 < 0 {
		expSign = "-"
	}
	exp := strconv.Itoa(abs(n - 1))
	if k == 1 {
		return sign + digits + "e" + expSign + exp
	}
	return sign + digits[:1] + "." + digits[1:] + "e" + expSign + exp
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// ToString converts v the way JavaScript's String() does. Console output
// uses this form, so strings appear without quotes.
func ToString(v Value) string {
	return toString(v, nil)
}

// toString tracks the arrays being joined; an array that contains itself
// renders the inner reference as empty, like Array.prototype.join.
func toString(v Value, joining map[*Array]bool) string {
	switch v := v.(type) {
	case nil, *Undefined, *PendingArraySlot:
		return "undefined"
	case *Null:
		return "null"
	case *Number:
		return FormatNumber(v.Value)
	case *String:
		return v.Value
	case *Boolean:
		return strconv.FormatBool(v.Value)
	case *Array:
		if joining[v] {
			return ""
		}
		if joining == nil {
			joining = make(map[*Array]bool)
		}
		joining[v] = true
		defer delete(joining, v)

		parts := make([]string, v.Len())
		for i, el := range v.Values() {
			switch el.(type) {
			case *Undefined, *Null:
			default:
				parts[i] = toString(el, joining)
			}
		}
		return strings.Join(parts, ",")
	case *Object:
		return "[object Object]"
	case *Function, *InternalFunction:
		return "[function]"
	case *LocalBinding:
		return toString(v.Value, joining)
	case *VariableBinding:
		return "[variable]"
	}
	return ""
}

// Stringify renders v for messages, following JSON.stringify for
// primitives and using short placeholders for everything else.
func Stringify(v Value) string {
	switch v := v.(type) {
	case nil, *Undefined, *PendingArraySlot:
		return "undefined"
	case *Null:
		return "null"
	case *Number:
		if math.IsNaN(v.Value) || math.IsInf(v.Value, 0) {
			return "null"
		}
		return FormatNumber(v.Value)
	case *String:
		return QuoteJSON(v.Value)
	case *Boolean:
		return strconv.FormatBool(v.Value)
	case *Array:
		return "[array]"
	case *Object:
		return "[object]"
	case *Function, *InternalFunction:
		return "[function]"
	case *LocalBinding:
		return Stringify(v.Value)
	case *VariableBinding:
		return "[variable]"
	}
	return ""
}

const hexDigits = "0123456789abcdef"

// QuoteJSON quotes s as JSON.stringify does. encoding/json is not used
// because it also escapes <, > and &, which JavaScript leaves alone.
func QuoteJSON(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				sb.WriteString(`\u00`)
				sb.WriteByte(hexDigits[r>>4])
				sb.WriteByte(hexDigits[r&0xf])
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// ToNumber converts v the way JavaScript's Number() does.
func ToNumber(v Value) float64 {
	switch v := v.(type) {
	case *Number:
		return v.Value
	case *Boolean:
		if v.Value {
			return 1
		}
		return 0
	case *Null:
		return 0
	case *String:
		return stringToNumber(v.Value)
	case *Array:
		return stringToNumber(ToString(v))
	case *LocalBinding:
		return ToNumber(v.Value)
	}
	return math.NaN()
}

func stringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		n, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789.eE+-", r) {
			return math.NaN()
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// Truthy reports JavaScript truthiness.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case nil, *Undefined, *Null, *PendingArraySlot:
		return false
	case *Boolean:
		return v.Value
	case *Number:
		return v.Value != 0 && !math.IsNaN(v.Value)
	case *String:
		return v.Value != ""
	case *LocalBinding:
		return Truthy(v.Value)
	}
	return true
}
