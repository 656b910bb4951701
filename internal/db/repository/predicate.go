package repository

import (
	"fmt"
	"strings"
)

const questionColumns = "id, question, answer, category, difficulty"

// dialect captures the bits of SQL that differ between drivers.
type dialect struct {
	placeholder func(n int) string
	likeOp      string
	// fold names a SQL function applied to both sides of a search match.
	fold string
}

var (
	postgresDialect = dialect{
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		likeOp:      "ILIKE",
	}
	// SQLite LIKE only folds ASCII, so both sides go through a Go lower().
	sqliteDialect = dialect{
		placeholder: func(int) string { return "?" },
		likeOp:      "LIKE",
		fold:        sqliteFoldFunc,
	}
)

// predicate is a single WHERE condition with its positional arguments.
// The clause uses %s where each argument placeholder goes.
type predicate struct {
	clause string
	args   []any
}

func whereCategory(categoryID int64) predicate {
	return predicate{clause: "category = %s", args: []any{categoryID}}
}

func whereSearch(d dialect, term string) predicate {
	column, holder := "question", "%s"
	if d.fold != "" {
		column = d.fold + "(" + column + ")"
		holder = d.fold + "(" + holder + ")"
	}
	return predicate{
		clause: column + " " + d.likeOp + " " + holder + ` ESCAPE '\'`,
		args:   []any{"%" + escapeLike(term) + "%"},
	}
}

// escapeLike makes LIKE metacharacters in term match literally.
func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

// selectQuestions renders an ordered question query, optionally filtered by p.
func selectQuestions(d dialect, p *predicate) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(questionColumns)
	b.WriteString(" FROM questions")

	var args []any
	if p != nil {
		holders := make([]any, len(p.args))
		for i := range p.args {
			holders[i] = d.placeholder(i + 1)
		}
		b.WriteString(" WHERE ")
		b.WriteString(fmt.Sprintf(p.clause, holders...))
		args = p.args
	}
	b.WriteString(" ORDER BY id")
	return b.String(), args
}
