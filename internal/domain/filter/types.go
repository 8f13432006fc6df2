package filter

// ComparisonType enumerates the supported comparison operators for
// advanced list filtering.
type ComparisonType string

const (
	Equal          ComparisonType = "is"
	NotEqual       ComparisonType = "isNot"
	LessThan       ComparisonType = "lt"
	LessOrEqual    ComparisonType = "lte"
	GreaterThan    ComparisonType = "gt"
	GreaterOrEqual ComparisonType = "gte"
	InList         ComparisonType = "in"
	Contains       ComparisonType = "contains" // ILIKE %value%

	IsNull    ComparisonType = "null"
	IsNotNull ComparisonType = "notNull"
)

// Item is a single filter clause applied to a list query.
type Item struct {
	Field    string         `json:"field"` // column name, snake_case
	Operator ComparisonType `json:"operator"`
	Value    any            `json:"value"`
}
