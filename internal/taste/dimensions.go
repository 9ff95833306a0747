package taste

const (
	// NumDimensions is the number of taste dimensions (K).
	NumDimensions = 8
	// EmbeddingDim is the length of semantic embedding vectors (D).
	EmbeddingDim = 384
)

// Dimension defines one taste axis as a spectrum between two aesthetic
// poles. The positive and negative prompts are the descriptor texts whose
// embedding difference defines the axis direction in embedding space.
type Dimension struct {
	ID             string
	Name           string
	Description    string
	PositiveLabel  string
	NegativeLabel  string
	PositivePrompt string
	NegativePrompt string
}

// Dimensions lists the taste axes in basis order. The order is part of the
// contract: taste vector index i always refers to Dimensions[i].
var Dimensions = [NumDimensions]Dimension{
	{
		ID:            "emotional_tone",
		Name:          "Emotional Tone",
		Description:   "The overall emotional quality and mood of the experience",
		PositiveLabel: "Light & Joyful",
		NegativeLabel: "Dark & Melancholic",
		PositivePrompt: "uplifting, joyful, light-hearted, cheerful, optimistic, bright, " +
			"sunny, feel-good, heartwarming, delightful, playful, buoyant, " +
			"spirited, gleeful, radiant",
		NegativePrompt: "dark, melancholic, somber, bleak, depressing, gloomy, heavy, " +
			"brooding, tragic, mournful, anguished, despairing, haunting, " +
			"oppressive, grief-stricken",
	},
	{
		ID:            "energy_intensity",
		Name:          "Energy & Intensity",
		Description:   "The level of power, force, and energetic engagement",
		PositiveLabel: "Intense & Powerful",
		NegativeLabel: "Calm & Gentle",
		PositivePrompt: "intense, powerful, energetic, aggressive, forceful, explosive, " +
			"visceral, raw, unrelenting, fierce, vigorous, dynamic, kinetic, " +
			"overwhelming, electrifying",
		NegativePrompt: "calm, gentle, serene, peaceful, quiet, subdued, tranquil, soft, " +
			"mellow, restrained, understated, delicate, soothing, placid, " +
			"contemplative",
	},
	{
		ID:            "complexity",
		Name:          "Complexity",
		Description:   "The degree of layering, intricacy, and structural sophistication",
		PositiveLabel: "Complex & Layered",
		NegativeLabel: "Simple & Minimalist",
		PositivePrompt: "complex, layered, intricate, sophisticated, nuanced, multifaceted, " +
			"elaborate, dense, convoluted, rich, textured, deep, labyrinthine, " +
			"ornate, baroque",
		NegativePrompt: "simple, minimalist, straightforward, uncomplicated, direct, clean, " +
			"sparse, stripped-down, basic, pure, essential, unadorned, austere, " +
			"economical, transparent",
	},
	{
		ID:            "abstractness",
		Name:          "Abstractness",
		Description:   "The balance between literal representation and symbolic interpretation",
		PositiveLabel: "Abstract & Symbolic",
		NegativeLabel: "Concrete & Literal",
		PositivePrompt: "abstract, symbolic, metaphorical, conceptual, surreal, ambiguous, " +
			"enigmatic, dreamlike, impressionistic, non-literal, allegorical, " +
			"esoteric, mystical, poetic, transcendent",
		NegativePrompt: "concrete, literal, realistic, straightforward, explicit, clear, " +
			"grounded, tangible, documentary, matter-of-fact, plain, unambiguous, " +
			"direct, practical, factual",
	},
	{
		ID:            "aesthetic_style",
		Name:          "Aesthetic Style",
		Description:   "The production quality and stylistic presentation approach",
		PositiveLabel: "Polished & Refined",
		NegativeLabel: "Raw & Gritty",
		PositivePrompt: "polished, refined, elegant, sophisticated, pristine, stylized, " +
			"ornate, curated, glossy, meticulous, manicured, sleek, luxurious, " +
			"sumptuous, immaculate",
		NegativePrompt: "raw, gritty, rough, unpolished, rough-hewn, lo-fi, scrappy, rugged, " +
			"unvarnished, stripped-down, visceral, crude, weathered, DIY, " +
			"unfiltered",
	},
	{
		ID:            "intellectualism",
		Name:          "Intellectualism",
		Description:   "The degree of cognitive engagement and philosophical depth",
		PositiveLabel: "Cerebral & Analytical",
		NegativeLabel: "Intuitive & Visceral",
		PositivePrompt: "cerebral, analytical, thought-provoking, philosophical, intellectual, " +
			"contemplative, theoretical, questioning, introspective, heady, " +
			"erudite, profound, meditative, scholarly, dialectical",
		NegativePrompt: "intuitive, visceral, instinctive, emotional, sensory, immediate, " +
			"gut-level, primal, spontaneous, unreflective, straightforward, " +
			"surface-level, experiential, raw, feeling-driven",
	},
	{
		ID:            "conventionality",
		Name:          "Conventionality",
		Description:   "The degree of adherence to or departure from established forms",
		PositiveLabel: "Experimental & Avant-garde",
		NegativeLabel: "Traditional & Familiar",
		PositivePrompt: "experimental, avant-garde, unconventional, innovative, groundbreaking, " +
			"boundary-pushing, radical, challenging, non-traditional, daring, " +
			"subversive, transgressive, revolutionary, pioneering, iconoclastic",
		NegativePrompt: "traditional, conventional, classic, familiar, mainstream, established, " +
			"orthodox, time-tested, accessible, standard, safe, typical, " +
			"canonical, formulaic, predictable",
	},
	{
		ID:            "worldview",
		Name:          "Worldview",
		Description:   "The philosophical outlook and perspective on human experience",
		PositiveLabel: "Hopeful & Optimistic",
		NegativeLabel: "Cynical & Dark",
		PositivePrompt: "hopeful, optimistic, uplifting, idealistic, affirmative, positive, " +
			"inspiring, encouraging, redemptive, life-affirming, warm, generous, " +
			"humanistic, compassionate, faith-in-humanity",
		NegativePrompt: "cynical, pessimistic, nihilistic, bleak, disillusioned, skeptical, " +
			"bitter, jaded, despairing, misanthropic, harsh, unforgiving, " +
			"fatalistic, grim, world-weary",
	},
}

// DimensionNames returns the dimension display names in basis order.
func DimensionNames() []string {
	names := make([]string, NumDimensions)
	for i, d := range Dimensions {
		names[i] = d.Name
	}
	return names
}

// DimensionByID looks up a dimension by its identifier.
// Parameters:
//   - id: dimension identifier, e.g. "emotional_tone".
//
// Returns:
//   - Dimension: matching dimension definition.
//   - bool: true if the id is known.
func DimensionByID(id string) (Dimension, bool) {
	for _, d := range Dimensions {
		if d.ID == id {
			return d, true
		}
	}
	return Dimension{}, false
}
