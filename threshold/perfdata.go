package threshold

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/logingood/yt-snmp-checks/models"
)

// PerfDatum is one label=value[UOM][;warn;crit] token.
type PerfDatum struct {
	Label string
	Value string
	UOM   string
	Warn  string
	Crit  string
}

func (p PerfDatum) String() string {
	var b strings.Builder
	b.WriteString(quote(p.Label))
	b.WriteByte('=')
	b.WriteString(quote(p.Value))
	b.WriteString(p.UOM)
	if p.Warn != "" || p.Crit != "" {
		b.WriteByte(';')
		b.WriteString(p.Warn)
		b.WriteByte(';')
		b.WriteString(p.Crit)
	}
	return b.String()
}

// Number parses the value as a float.
func (p PerfDatum) Number() (float64, error) {
	return strconv.ParseFloat(p.Value, 64)
}

// FormatPerfData joins tokens with commas.
func FormatPerfData(data []PerfDatum) string {
	parts := make([]string, 0, len(data))
	for _, d := range data {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, ",")
}

// ParsePerfData reads back what FormatPerfData wrote.
func ParsePerfData(s string) ([]PerfDatum, error) {
	var out []PerfDatum
	for _, token := range splitTokens(s) {
		if token == "" {
			continue
		}
		label, rest, ok := cutUnquoted(token, '=')
		if !ok {
			return nil, fmt.Errorf("%w: perf token %q has no value", models.ErrProtocol, token)
		}
		fields := strings.Split(rest, ";")
		d := PerfDatum{Label: unquote(label)}
		d.Value, d.UOM = splitUOM(unquote(fields[0]))
		if len(fields) > 1 {
			d.Warn = fields[1]
		}
		if len(fields) > 2 {
			d.Crit = fields[2]
		}
		out = append(out, d)
	}
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func needsQuote(s string) bool {
	return strings.ContainsAny(s, " ='\",;")
}

func quote(s string) string {
	if !needsQuote(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'")
	}
	return s
}

// splitTokens splits on commas outside single quotes.
func splitTokens(s string) []string {
	var (
		tokens []string
		quoted bool
		start  int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			quoted = !quoted
		case ',':
			if !quoted {
				tokens = append(tokens, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(tokens, strings.TrimSpace(s[start:]))
}

func cutUnquoted(s string, sep byte) (string, string, bool) {
	quoted := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			quoted = !quoted
		case sep:
			if !quoted {
				return s[:i], s[i+1:], true
			}
		}
	}
	return s, "", false
}

// splitUOM separates a trailing unit from a numeric value. Values that are
// not numeric are returned whole.
func splitUOM(v string) (string, string) {
	end := len(v)
	for end > 0 && strings.IndexByte("0123456789.", v[end-1]) < 0 {
		end--
	}
	if end == 0 || end == len(v) {
		return v, ""
	}
	if _, err := strconv.ParseFloat(v[:end], 64); err != nil {
		return v, ""
	}
	return v[:end], v[end:]
}
