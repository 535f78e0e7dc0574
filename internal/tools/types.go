package tools

type IngredientInput struct {
	Ingredient string `json:"ingredient" jsonschema:"ingredient name"`
}

type TechniqueInput struct {
	Technique string `json:"technique" jsonschema:"technique name"`
}

type PlanetInput struct {
	Planet string `json:"planet" jsonschema:"planet name"`
}

type RestaurantInput struct {
	Restaurant string `json:"restaurant" jsonschema:"restaurant name"`
}

type LicenceInput struct {
	LicenceName  string `json:"licence_name" jsonschema:"licence name, one of the eight known licences"`
	LicenceValue int    `json:"licence_value" jsonschema:"licence level to compare against"`
	Operation    string `json:"operation" jsonschema:"eq, ne, g, ge, l or le"`
}

type CategoryInput struct {
	Category string `json:"category" jsonschema:"technique category name"`
}

type BothCategoriesInput struct {
	FirstCategory  string `json:"first_category" jsonschema:"first technique category"`
	SecondCategory string `json:"second_category" jsonschema:"second technique category"`
}

type DistanceInput struct {
	Planet      string `json:"planet" jsonschema:"reference planet"`
	MaxDistance int    `json:"max_distance" jsonschema:"maximum distance in light years, inclusive"`
}

type SetInput struct {
	FirstList  []int `json:"first_list" jsonschema:"first list of dish ids"`
	SecondList []int `json:"second_list" jsonschema:"second list of dish ids"`
}

type IngredientOutput struct {
	Ingredient string `json:"ingredient"`
	DishIDs    []int  `json:"dish_ids"`
}

type TechniqueOutput struct {
	Technique string `json:"technique"`
	DishIDs   []int  `json:"dish_ids"`
}

type PlanetOutput struct {
	Planet  string `json:"planet"`
	DishIDs []int  `json:"dish_ids"`
}

type RestaurantOutput struct {
	Restaurant string `json:"restaurant"`
	DishIDs    []int  `json:"dish_ids"`
}

type LicenceOutput struct {
	LicenceName  string `json:"licence_name"`
	LicenceValue int    `json:"licence_value"`
	Operation    string `json:"operation"`
	DishIDs      []int  `json:"dish_ids"`
}

type MinimumLicenceOutput struct {
	LicenceName  string   `json:"licence_name"`
	LicenceValue int      `json:"licence_value"`
	Operation    string   `json:"operation"`
	Techniques   []string `json:"techniques"`
	DishIDs      []int    `json:"dish_ids"`
}

type CategoryOutput struct {
	Category   string   `json:"category"`
	Techniques []string `json:"techniques"`
}

type BothCategoriesOutput struct {
	FirstCategory  string `json:"first_category"`
	SecondCategory string `json:"second_category"`
	DishIDs        []int  `json:"dish_ids"`
}

type DistanceOutput struct {
	Planet      string `json:"planet"`
	MaxDistance int    `json:"max_distance"`
	DishIDs     []int  `json:"dish_ids"`
}

type IntersectOutput struct {
	Intersection []int `json:"intersection"`
}

type SubtractOutput struct {
	Difference []int `json:"difference"`
}

type UnionOutput struct {
	Union []int `json:"union"`
}
