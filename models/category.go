package models

type Category string

const (
	CategoryProperty            Category = "property"
	CategoryTransport           Category = "transport"
	CategoryWork                Category = "work"
	CategoryElectronics         Category = "electronics"
	CategoryBusinessAndServices Category = "businessAndServices"
	CategoryRecreationAndSport  Category = "recreationAndSport"
	CategoryFree                Category = "free"
	CategoryTrade               Category = "trade"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryProperty,
	CategoryTransport,
	CategoryWork,
	CategoryElectronics,
	CategoryBusinessAndServices,
	CategoryRecreationAndSport,
	CategoryFree,
	CategoryTrade,
}

// RussianCategories holds the display names, index-aligned with Categories.
var RussianCategories = []string{
	"Недвижимость",
	"Транспорт",
	"Работа",
	"Электроника",
	"Бизнес и услуги",
	"Отдых и спорт",
	"Отдам бесплатно",
	"Обмен",
}

// Older listings were stored with spaced category names.
var legacyCategoryNames = map[Category]Category{
	CategoryBusinessAndServices: "business and services",
	CategoryRecreationAndSport:  "recreation and sport",
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// WithLegacyNames returns c followed by any older spelling of it.
func (c Category) WithLegacyNames() []Category {
	if legacy, ok := legacyCategoryNames[c]; ok {
		return []Category{c, legacy}
	}
	return []Category{c}
}

// BrowsePages maps each browse page to the two categories it shows.
var BrowsePages = map[int][2]Category{
	1: {CategoryElectronics, CategoryProperty},
	2: {CategoryWork, CategoryTransport},
	3: {CategoryBusinessAndServices, CategoryRecreationAndSport},
}
