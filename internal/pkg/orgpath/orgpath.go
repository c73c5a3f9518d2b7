// Package orgpath builds the organizational path and the short human readable
// id attached to every recorded operation.
package orgpath

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Generator is deterministic: the same kind, employee and day always produce
// the same path and id.
type Generator struct {
	root string
}

func NewGenerator(root string) *Generator {
	if root == "" {
		root = "hris"
	}
	return &Generator{root: strings.Trim(root, "/")}
}

// OperationPath returns <root>/<yyyy>/<mm>/<dd>/<kind>/<employee id>.
func (g *Generator) OperationPath(ctx context.Context, kind, employeeID string, day time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if kind == "" {
		return "", fmt.Errorf("operation kind is required")
	}
	if employeeID == "" {
		return "", fmt.Errorf("employee id is required")
	}

	return fmt.Sprintf("%s/%s/%s/%s",
		g.root,
		day.Format("2006/01/02"),
		kind,
		employeeID,
	), nil
}

// ReadableID returns <PREFIX>-<yyyymmdd>-<first 8 chars of the employee id>,
// e.g. MA-20240315-3F2A9C1B for a manual attendance.
func (g *Generator) ReadableID(kind string, day time.Time, employeeID string) string {
	short := strings.ReplaceAll(employeeID, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("%s-%s-%s", prefixOf(kind), day.Format("20060102"), strings.ToUpper(short))
}

// prefixOf takes the initial of every underscore separated word of kind.
func prefixOf(kind string) string {
	var b strings.Builder
	for _, part := range strings.Split(kind, "_") {
		if part != "" {
			b.WriteByte(part[0])
		}
	}
	if b.Len() == 0 {
		return "OP"
	}
	return strings.ToUpper(b.String())
}
