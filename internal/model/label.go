package model

// Label is a (category, subcategory) pair assigned by the categorizer.
type Label struct {
	Category    string `yaml:"category" json:"category"`
	Subcategory string `yaml:"subcategory" json:"subcategory"`
}

// FallbackLabel is assigned when no rule matches.
var FallbackLabel = Label{Category: DefaultFallbackType, Subcategory: DefaultFallbackSubcat}

// Categorized pairs a transaction with its categorization outcome.
type Categorized struct {
	Transaction Transaction
	Label       Label
	Rule        string
	Excluded    bool
}
