package domain

// DefaultCatalog returns the stock option lists used by `genie seed` and by a
// fresh desktop store. The first label of every list is the suggested pick.
func DefaultCatalog() map[Category][]string {
	return map[Category][]string{
		// Perspective the model should adopt.
		CategorySpecialization: {
			"Digital Artist", "Illustrator", "Animator", "Calligrapher", "Cartoonist",
			"Graphic Designer", "Native Artist", "Painter", "Photographer", "Street Artist",
		},
		CategoryCompositionType: {
			"illustration", "avatar", "cinematic", "diagram", "icon",
			"logo", "painting", "photo", "picture", "poster",
		},
		CategoryStyle: {
			"digital art", "aboriginal-styled", "abstract", "anime-styled", "comic-styled",
			"expressionism", "flat design", "glyph design", "masterpiece", "muralism",
			"photo-realistic", "pointillism", "pop art", "realism", "skeuomorphic design",
			"stencil art", "surrealism", "35mm film", "charcoal", "oil painting",
		},
		CategoryColorScheme: {
			"vibrant", "realistic", "monochromatic", "duotone", "neutral", "subdued", "analogous",
			"complementary", "split-complementary", "triadic", "gradient", "warm", "cool", "pastel",
		},
		// Mostly sets the era of the image.
		CategoryAestheticPattern: {
			"current", "anime-inspired", "futuristic", "geometric", "grunge",
			"minimalist", "modern", "retro", "vintage",
		},
		CategoryDepthOfField: {
			"subject isolation technique", "hyperfocal distance", "depth compression",
			"macro focus", "background blur", "foreground blur", "motion blur",
		},
		CategoryLighting: {"ambient", "natural", "subtle", "dramatic"},
		CategoryContrast: {"normal", "high", "low"},
	}
}
