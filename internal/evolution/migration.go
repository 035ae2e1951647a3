package evolution

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

var (
	postgresTypes = map[domain.FieldType]string{
		domain.TypeInteger: "INTEGER",
		domain.TypeDecimal: "DECIMAL(18, 2)",
		domain.TypeString:  "TEXT",
		domain.TypeDate:    "TIMESTAMP",
		domain.TypeBoolean: "BOOLEAN",
		domain.TypeNull:    "TEXT",
	}
	mongoTypes = map[domain.FieldType]string{
		domain.TypeInteger: "int",
		domain.TypeDecimal: "double",
		domain.TypeString:  "string",
		domain.TypeDate:    "date",
		domain.TypeBoolean: "bool",
		domain.TypeNull:    "null",
	}
	jsonSchemaTypes = map[domain.FieldType]string{
		domain.TypeInteger: "integer",
		domain.TypeDecimal: "number",
		domain.TypeString:  "string",
		domain.TypeDate:    "string",
		domain.TypeBoolean: "boolean",
		domain.TypeNull:    "null",
	}
)

var plainIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// PostgresType maps an inferred type to PostgreSQL. Unknown types are TEXT.
func PostgresType(t domain.FieldType) string {
	if s, ok := postgresTypes[t]; ok {
		return s
	}
	return "TEXT"
}

// MongoType maps an inferred type to a BSON type alias. Unknown types are
// strings.
func MongoType(t domain.FieldType) string {
	if s, ok := mongoTypes[t]; ok {
		return s
	}
	return "string"
}

// JSONSchemaType maps an inferred type to a JSON Schema type. Dates are
// strings.
func JSONSchemaType(t domain.FieldType) string {
	if s, ok := jsonSchemaTypes[t]; ok {
		return s
	}
	return "string"
}

// Artifact is a rendered migration for one target.
type Artifact struct {
	Target     domain.MigrationTarget `json:"target"`
	Statements []string               `json:"statements"`
}

// String returns the statements one per line.
func (a Artifact) String() string {
	return strings.Join(a.Statements, "\n")
}

// GenerateArtifacts renders diff for target against the table or collection
// named in names. Renames are emitted as comments only.
func GenerateArtifacts(diff domain.SchemaDiff, target domain.MigrationTarget, names domain.MigrationSettings) (Artifact, error) {
	switch target {
	case domain.TargetPostgreSQL:
		return Artifact{Target: target, Statements: postgresMigration(diff, names.Table)}, nil
	case domain.TargetMongoDB:
		return Artifact{Target: target, Statements: mongoMigration(diff, names.Collection)}, nil
	default:
		return Artifact{}, fmt.Errorf("migration target %q: %w", target, domain.ErrInvalidInput)
	}
}

func postgresMigration(diff domain.SchemaDiff, table string) []string {
	table = quoteIdent(table)
	stmts := []string{}

	for _, r := range diff.Renamed {
		stmts = append(stmts, fmt.Sprintf("-- Possible rename (not applied): %s -> %s (confidence: %.2f)",
			r.Old.Name, r.New.Name, r.Confidence))
	}
	for _, f := range diff.Added {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s %s;",
			table, quoteIdent(f.Name), PostgresType(f.Type), nullability(f.Nullable)))
	}
	for _, f := range diff.Removed {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s;", table, quoteIdent(f.Name)))
	}
	for _, m := range diff.Modified {
		col := quoteIdent(m.FieldName)
		if m.Old.Type != m.New.Type {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s;", table, col, PostgresType(m.New.Type)))
		}
		if m.Old.Nullable != m.New.Nullable {
			change := "SET NOT NULL"
			if m.New.Nullable {
				change = "DROP NOT NULL"
			}
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s %s;", table, col, change))
		}
	}

	if len(stmts) == 0 {
		stmts = append(stmts, "-- "+NoChangesNotes)
	}
	return stmts
}

func mongoMigration(diff domain.SchemaDiff, collection string) []string {
	ops := []string{}

	for _, r := range diff.Renamed {
		ops = append(ops, fmt.Sprintf("// Possible rename (not applied): %s -> %s (confidence: %.2f)",
			r.Old.Name, r.New.Name, r.Confidence))
	}
	for _, f := range diff.Added {
		ops = append(ops, fmt.Sprintf("db.%s.updateMany({}, {$set: {%s: null}});", collection, quoteKey(f.Name)))
	}
	for _, f := range diff.Removed {
		ops = append(ops, fmt.Sprintf("db.%s.updateMany({}, {$unset: {%s: ''}});", collection, quoteKey(f.Name)))
	}
	for _, m := range diff.Modified {
		if m.Old.Type != m.New.Type {
			ops = append(ops,
				fmt.Sprintf("// Field %s type changed from %s to %s", m.FieldName, m.Old.Type, m.New.Type),
				"// Manual data transformation may be required")
		}
		if m.Old.Nullable != m.New.Nullable {
			ops = append(ops, fmt.Sprintf("// Field %s nullable changed from %t to %t", m.FieldName, m.Old.Nullable, m.New.Nullable))
		}
	}

	if len(ops) == 0 {
		ops = append(ops, "// "+NoChangesNotes)
	}
	return ops
}

// CreateTableDDL renders a CREATE TABLE statement for a whole schema, keyed
// on the first primary-key candidate, plus one index per suggested-index
// field.
func CreateTableDDL(schema domain.Schema, table string) string {
	qt := quoteIdent(table)
	defs := make([]string, 0, len(schema.Fields)+1)
	for _, f := range schema.Fields {
		defs = append(defs, fmt.Sprintf("    %s %s %s", quoteIdent(f.Name), PostgresType(f.Type), nullability(f.Nullable)))
	}
	if len(schema.PrimaryKeyCandidates) > 0 {
		defs = append(defs, fmt.Sprintf("    PRIMARY KEY (%s)", quoteIdent(schema.PrimaryKeyCandidates[0])))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n%s\n);", qt, strings.Join(defs, ",\n"))
	for _, f := range schema.Fields {
		if f.SuggestedIndex {
			idx := quoteIdent(fmt.Sprintf("idx_%s_%s", table, f.Name))
			fmt.Fprintf(&b, "\nCREATE INDEX IF NOT EXISTS %s ON %s (%s);", idx, qt, quoteIdent(f.Name))
		}
	}
	return b.String()
}

// JSONSchema renders a draft-07 JSON Schema. Non-nullable fields are
// required.
func JSONSchema(schema domain.Schema) map[string]any {
	properties := make(map[string]any, len(schema.Fields))
	required := []string{}
	for _, f := range schema.Fields {
		properties[f.Name] = map[string]any{
			"type":        JSONSchemaType(f.Type),
			"description": "Field: " + f.Name,
		}
		if !f.Nullable {
			required = append(required, f.Name)
		}
	}
	return map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"required":   required,
		"properties": properties,
	}
}

// MongoValidator renders a $jsonSchema collection validator.
func MongoValidator(schema domain.Schema) map[string]any {
	properties := make(map[string]any, len(schema.Fields))
	required := []string{}
	for _, f := range schema.Fields {
		properties[f.Name] = map[string]any{
			"bsonType":    MongoType(f.Type),
			"description": "Field: " + f.Name,
		}
		if !f.Nullable {
			required = append(required, f.Name)
		}
	}
	return map[string]any{
		"$jsonSchema": map[string]any{
			"bsonType":   "object",
			"required":   required,
			"properties": properties,
		},
	}
}

// CreateCollection renders a createCollection call carrying the schema's
// validator.
func CreateCollection(schema domain.Schema, collection string) (string, error) {
	validator, err := json.MarshalIndent(MongoValidator(schema), "", "  ")
	if err != nil {
		return "", fmt.Errorf("render validator: %w", err)
	}
	return fmt.Sprintf("db.createCollection(%s, {validator: %s});", quoteKey(collection), validator), nil
}

func nullability(nullable bool) string {
	if nullable {
		return "NULL"
	}
	return "NOT NULL"
}

// quoteIdent double-quotes identifiers that are not plain SQL names.
func quoteIdent(name string) string {
	if plainIdentifier.MatchString(name) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteKey(name string) string {
	return "'" + strings.ReplaceAll(name, "'", `\'`) + "'"
}
