package model

// Category is the closed classification set for transactions. Any value not
// in the enumerated set collapses to CategoryUncategorized at the boundary
// where it enters the system; nothing downstream re-validates.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTravel        Category = "Travel"
	CategoryBills         Category = "Bills"
	CategoryShopping      Category = "Shopping"
	CategoryRent          Category = "Rent"
	CategoryGroceries     Category = "Groceries"
	CategoryEntertainment Category = "Entertainment"
	CategoryHealth        Category = "Health"
	CategoryEducation     Category = "Education"
	CategorySalary        Category = "Salary"
	CategoryInvestment    Category = "Investment"
	CategoryOtherIncome   Category = "Other Income"
	CategoryOtherExpense  Category = "Other Expense"
	CategoryUncategorized Category = "Uncategorized"
)

// DefaultCategories is the set offered to the user and to the classifier.
// CategoryUncategorized is deliberately excluded: it is the fallback, not a
// choice the classifier may be steered toward.
var DefaultCategories = []Category{
	CategoryFood,
	CategoryTravel,
	CategoryBills,
	CategoryShopping,
	CategoryRent,
	CategoryGroceries,
	CategoryEntertainment,
	CategoryHealth,
	CategoryEducation,
	CategorySalary,
	CategoryInvestment,
	CategoryOtherIncome,
	CategoryOtherExpense,
}

// ParseCategory maps an arbitrary string onto the closed category set.
// Unknown values, including the empty string, map to CategoryUncategorized.
func ParseCategory(s string) Category {
	for _, c := range DefaultCategories {
		if string(c) == s {
			return c
		}
	}
	return CategoryUncategorized
}

// Valid reports whether c is a member of the closed set (including the
// Uncategorized fallback).
func (c Category) Valid() bool {
	if c == CategoryUncategorized {
		return true
	}
	for _, dc := range DefaultCategories {
		if c == dc {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }
