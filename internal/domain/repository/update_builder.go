package repository

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// updateBuilder assembles a DynamoDB SET expression from typed
// attribute assignments. Placeholder names are generated, so attribute
// names are never spliced into the expression text.
type updateBuilder struct {
	names   map[string]string
	values  map[string]types.AttributeValue
	clauses []string
}

func newUpdateBuilder() *updateBuilder {
	return &updateBuilder{
		names:  make(map[string]string),
		values: make(map[string]types.AttributeValue),
	}
}

func (b *updateBuilder) Set(attr string, value types.AttributeValue) {
	nameKey := fmt.Sprintf("#a%d", len(b.clauses))
	valueKey := fmt.Sprintf(":v%d", len(b.clauses))
	b.names[nameKey] = attr
	b.values[valueKey] = value
	b.clauses = append(b.clauses, nameKey+" = "+valueKey)
}

func (b *updateBuilder) Expression() string {
	return "SET " + strings.Join(b.clauses, ", ")
}

func (b *updateBuilder) Names() map[string]string {
	return b.names
}

func (b *updateBuilder) Values() map[string]types.AttributeValue {
	return b.values
}
