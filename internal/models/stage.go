package models

// GrowthStage describes one of the eight growth steps of a habit.
type GrowthStage struct {
	Stage       int
	Name        string
	XPRequired  int
	Description string
	PlantName   string
}

// GrowthStages is indexed by stage number.
var GrowthStages = [8]GrowthStage{
	{Stage: 0, Name: "Baby", XPRequired: 0, Description: "Just starting out", PlantName: "Seed"},
	{Stage: 1, Name: "Young", XPRequired: 50, Description: "Beginning to grow", PlantName: "Sprout"},
	{Stage: 2, Name: "Growing", XPRequired: 150, Description: "Taking shape", PlantName: "Seedling"},
	{Stage: 3, Name: "Juvenile", XPRequired: 300, Description: "Growing stronger", PlantName: "Young Plant"},
	{Stage: 4, Name: "Teen", XPRequired: 500, Description: "Developing well", PlantName: "Maturing"},
	{Stage: 5, Name: "Young Adult", XPRequired: 800, Description: "Flourishing", PlantName: "Blooming"},
	{Stage: 6, Name: "Adult", XPRequired: 1200, Description: "Fully grown", PlantName: "Thriving"},
	{Stage: 7, Name: "Master", XPRequired: 2000, Description: "Maximum evolution", PlantName: "Legendary"},
}

var flowerStageNames = map[Theme][8]string{
	ThemeRose:         {"Seed", "Sprout", "Seedling", "Young Bush", "Budding", "Blooming", "Full Bloom", "Rose Garden"},
	ThemeLily:         {"Bulb", "Shoot", "Leaves", "Stem", "Budding", "Opening", "Full Bloom", "Lily Patch"},
	ThemeTulip:        {"Bulb", "Shoot", "Leaves", "Stem", "Budding", "Opening", "Full Bloom", "Tulip Field"},
	ThemeCarnation:    {"Seed", "Sprout", "Seedling", "Stem", "Budding", "Opening", "Full Bloom", "Carnation Bouquet"},
	ThemePeony:        {"Root", "Sprout", "Leaves", "Bush", "Budding", "Opening", "Full Bloom", "Peony Garden"},
	ThemePoppy:        {"Seed", "Sprout", "Leaves", "Stem", "Budding", "Opening", "Full Bloom", "Poppy Field"},
	ThemeSunflower:    {"Seed", "Sprout", "Seedling", "Stem", "Growing Tall", "Budding", "Full Bloom", "Sunflower Field"},
	ThemeIris:         {"Rhizome", "Shoot", "Leaves", "Stem", "Budding", "Opening", "Full Bloom", "Iris Garden"},
	ThemeLavender:     {"Seed", "Sprout", "Seedling", "Bush", "Budding", "Flowering", "Full Bloom", "Lavender Field"},
	ThemeLilyOfValley: {"Pip", "Shoot", "Leaves", "Stem", "Budding", "Bells Forming", "Full Bloom", "Valley Garden"},
	ThemeBluebell:     {"Bulb", "Shoot", "Leaves", "Stem", "Budding", "Opening", "Full Bloom", "Bluebell Woods"},
	ThemeButtercup:    {"Seed", "Sprout", "Leaves", "Stem", "Budding", "Opening", "Full Bloom", "Buttercup Meadow"},
	ThemeCornflower:   {"Seed", "Sprout", "Seedling", "Stem", "Budding", "Opening", "Full Bloom", "Cornflower Field"},
}

// StageName returns the display name of a stage for the given theme.
// Unknown themes fall back to the generic plant names.
func StageName(theme Theme, stage int) string {
	if stage < 0 || stage >= len(GrowthStages) {
		return "Unknown"
	}
	if names, ok := flowerStageNames[theme]; ok {
		return names[stage]
	}
	return GrowthStages[stage].PlantName
}
