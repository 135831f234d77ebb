package sqlfile

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// tsqlTime is the literal format of DATETIME2(3) values.
const tsqlTime = "2006-01-02 15:04:05.000"

// block is one table's rows in T-SQL form.
type block struct {
	table    string // schema-qualified and bracketed, e.g. [core].[User]
	identity bool
	columns  []string
	rows     [][]any
}

// render returns the INSERT batch for b, terminated by GO.
func (b block) render() string {
	if len(b.rows) == 0 {
		return fmt.Sprintf("-- No data generated for %s\nGO\n", b.table)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "-- Data for %s\n", b.table)
	if b.identity {
		fmt.Fprintf(&sb, "SET IDENTITY_INSERT %s ON;\n", b.table)
	}

	cols := make([]string, len(b.columns))
	for i, c := range b.columns {
		cols[i] = "[" + c + "]"
	}
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES\n", b.table, strings.Join(cols, ", "))
	for i, row := range b.rows {
		vals := make([]string, len(row))
		for j, v := range row {
			vals[j] = literal(v)
		}
		sb.WriteString("  (" + strings.Join(vals, ", ") + ")")
		if i < len(b.rows)-1 {
			sb.WriteString(",\n")
		}
	}
	sb.WriteString(";\n")

	if b.identity {
		fmt.Fprintf(&sb, "SET IDENTITY_INSERT %s OFF;\n", b.table)
	}
	sb.WriteString("GO\n")
	return sb.String()
}

// literal renders v as a T-SQL literal.
func literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "N'" + strings.ReplaceAll(x, "'", "''") + "'"
	case time.Time:
		return "N'" + x.UTC().Format(tsqlTime) + "'"
	case *time.Time:
		if x == nil {
			return "NULL"
		}
		return literal(*x)
	case *int64:
		if x == nil {
			return "NULL"
		}
		return strconv.FormatInt(*x, 10)
	case bool:
		if x {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case decimal.Decimal:
		return x.String()
	default:
		panic(fmt.Sprintf("sqlfile: unsupported literal type %T", v))
	}
}
