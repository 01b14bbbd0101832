package relation

import (
	"strings"
)

// Keys of a MatchKwargs mapping.
const (
	KeyDatabase   = "database"
	KeySchema     = "schema"
	KeyIdentifier = "identifier"
)

// QuotingConfig tells which parts of a relation name are quoted.
// An unquoted part is folded to upper case by Snowflake.
type QuotingConfig struct {
	Database   bool
	Schema     bool
	Identifier bool
}

// Relation references a table or view. An empty part is absent.
type Relation struct {
	Database   string
	Schema     string
	Identifier string
}

// MatchKwargs holds the normalized, present parts of a relation name.
// Absent parts are unconstrained when matching.
type MatchKwargs map[string]string

// MakeMatchKwargs normalizes the given relation parts under the quoting policy.
// Parts whose quoting flag is false are upper-cased, quoted parts are kept
// as is, and empty parts are left out of the result.
func MakeMatchKwargs(database, schema, identifier string, quoting QuotingConfig) MatchKwargs {
	kwargs := make(MatchKwargs, 3)
	if identifier != "" {
		kwargs[KeyIdentifier] = fold(identifier, quoting.Identifier)
	}
	if schema != "" {
		kwargs[KeySchema] = fold(schema, quoting.Schema)
	}
	if database != "" {
		kwargs[KeyDatabase] = fold(database, quoting.Database)
	}
	return kwargs
}

func fold(part string, quoted bool) string {
	if quoted {
		return part
	}
	return strings.ToUpper(part)
}

// Normalize returns the relation with every part folded per the quoting policy.
func (r Relation) Normalize(quoting QuotingConfig) Relation {
	kwargs := r.MatchKwargs(quoting)
	return Relation{
		Database:   kwargs[KeyDatabase],
		Schema:     kwargs[KeySchema],
		Identifier: kwargs[KeyIdentifier],
	}
}

// MatchKwargs is MakeMatchKwargs applied to the relation's own parts.
func (r Relation) MatchKwargs(quoting QuotingConfig) MatchKwargs {
	return MakeMatchKwargs(r.Database, r.Schema, r.Identifier, quoting)
}

// Matches reports whether the relation, as stored by the database, satisfies
// kwargs. The relation parts are compared verbatim.
func (r Relation) Matches(kwargs MatchKwargs) bool {
	for key, want := range kwargs {
		var got string
		switch key {
		case KeyDatabase:
			got = r.Database
		case KeySchema:
			got = r.Schema
		case KeyIdentifier:
			got = r.Identifier
		default:
			return false
		}
		if got != want {
			return false
		}
	}
	return true
}

// Same reports whether a and b denote the same object under quoting.
func Same(a, b Relation, quoting QuotingConfig) bool {
	return a.Normalize(quoting) == b.Normalize(quoting)
}

// Render renders the relation as a dotted name, double quoting the parts
// whose quoting flag is set. Absent parts are skipped.
func (r Relation) Render(quoting QuotingConfig) string {
	parts := make([]string, 0, 3)
	for _, p := range []struct {
		name   string
		quoted bool
	}{
		{r.Database, quoting.Database},
		{r.Schema, quoting.Schema},
		{r.Identifier, quoting.Identifier},
	} {
		if p.name == "" {
			continue
		}
		if p.quoted {
			parts = append(parts, QuoteIdentifier(p.name))
		} else {
			parts = append(parts, p.name)
		}
	}
	return strings.Join(parts, ".")
}

// String renders the relation without quoting, for logs.
func (r Relation) String() string {
	return r.Render(QuotingConfig{})
}

// QuoteIdentifier wraps name in double quotes, doubling embedded quotes.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
