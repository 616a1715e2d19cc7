package recipe

// StarterRecipes are created for every newly registered user so the
// recipe list is never empty on first login.
var StarterRecipes = []Content{
	{
		Title:       "Classic Omelette",
		Description: "A simple and quick omelette recipe.",
		Ingredients: "2 eggs\nSalt\nPepper\nButter",
		Steps:       "1. Beat eggs with salt and pepper.\n2. Melt butter in a pan.\n3. Pour eggs and cook until set.",
		Notes:       "Try adding cheese or herbs for extra flavour.",
	},
	{
		Title:       "Fresh Garden Salad",
		Description: "A healthy salad with fresh vegetables.",
		Ingredients: "Lettuce\nTomato\nCucumber\nOlive oil\nLemon juice\nSalt\nPepper",
		Steps:       "1. Chop vegetables.\n2. Toss with olive oil, lemon juice, salt, and pepper.",
		Notes:       "Add feta cheese or olives for variety.",
	},
}
