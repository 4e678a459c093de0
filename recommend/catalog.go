package recommend

import "skinscan/models"

// Catalog entry names.
const (
	SalicylicAcid   = "Salicylic Acid"
	Niacinamide     = "Niacinamide"
	BenzoylPeroxide = "Benzoyl Peroxide"
	AzelaicAcid     = "Azelaic Acid"
	Retinoids       = "Retinoids (Adapalene)"
	VitaminC        = "Vitamin C"
	AlphaArbutin    = "Alpha Arbutin"
	HyaluronicAcid  = "Hyaluronic Acid"
	Sulfur          = "Sulfur"
	TeaTreeOil      = "Tea Tree Oil"
)

var catalog = []models.IngredientRecommendation{
	{
		Name:          SalicylicAcid,
		Concentration: "2%",
		Purpose:       "Exfoliates, unclogs pores",
		Products: []models.Product{
			{Name: "The Ordinary Salicylic Acid 2%", Link: "https://theordinary.com", Verified: true},
			{Name: "Paula's Choice BHA 2%", Link: "https://paulaschoice.com", Verified: true},
		},
	},
	{
		Name:          Niacinamide,
		Concentration: "5-10%",
		Purpose:       "Reduces inflammation, regulates oil",
		Products: []models.Product{
			{Name: "The Ordinary Niacinamide 10%", Link: "https://theordinary.com", Verified: true},
			{Name: "CeraVe PM Facial Moisturizing Lotion", Link: "https://cerave.com", Verified: true},
		},
	},
	{
		Name:          BenzoylPeroxide,
		Concentration: "2.5-5%",
		Purpose:       "Kills acne bacteria",
		Products: []models.Product{
			{Name: "La Roche-Posay Effaclar Duo", Link: "https://laroche-posay.us", Verified: true},
			{Name: "Neutrogena On-The-Spot", Link: "https://neutrogena.com", Verified: true},
		},
	},
	{
		Name:          AzelaicAcid,
		Concentration: "10-20%",
		Purpose:       "Reduces hyperpigmentation",
		Products: []models.Product{
			{Name: "The Ordinary Azelaic Acid 10%", Link: "https://theordinary.com", Verified: true},
			{Name: "Paula's Choice Azelaic Acid Booster", Link: "https://paulaschoice.com", Verified: true},
		},
	},
	{
		Name:          Retinoids,
		Concentration: "0.1-0.3%",
		Purpose:       "Prevents clogged pores, renews skin",
		Products: []models.Product{
			{Name: "Differin Gel 0.1%", Link: "https://differin.com", Verified: true},
			{Name: "La Roche-Posay Adapalene 0.1%", Link: "https://laroche-posay.us", Verified: true},
		},
	},
	{
		Name:          VitaminC,
		Concentration: "10-20%",
		Purpose:       "Brightens, fades dark spots",
		Products: []models.Product{
			{Name: "Timeless Vitamin C + E Serum", Link: "https://timelessha.com", Verified: true},
			{Name: "SkinCeuticals C E Ferulic", Link: "https://skinceuticals.com", Verified: true},
		},
	},
	{
		Name:          AlphaArbutin,
		Concentration: "2%",
		Purpose:       "Lightens hyperpigmentation",
		Products: []models.Product{
			{Name: "The Ordinary Alpha Arbutin 2%", Link: "https://theordinary.com", Verified: true},
			{Name: "Inkey List Alpha Arbutin", Link: "https://theinkeylist.com", Verified: true},
		},
	},
	{
		Name:          HyaluronicAcid,
		Concentration: "1-2%",
		Purpose:       "Hydrates, plumps skin",
		Products: []models.Product{
			{Name: "The Ordinary Hyaluronic Acid 2%", Link: "https://theordinary.com", Verified: true},
			{Name: "Neutrogena Hydro Boost", Link: "https://neutrogena.com", Verified: true},
		},
	},
	{
		Name:          Sulfur,
		Concentration: "3-10%",
		Purpose:       "Reduces oil, dries acne",
		Products: []models.Product{
			{Name: "De La Cruz Sulfur Ointment", Link: "https://delacruzproducts.com", Verified: true},
			{Name: "Kate Somerville EradiKate", Link: "https://katesomerville.com", Verified: true},
		},
	},
	{
		Name:          TeaTreeOil,
		Concentration: "5%",
		Purpose:       "Antibacterial, reduces inflammation",
		Products: []models.Product{
			{Name: "The Body Shop Tea Tree Oil", Link: "https://thebodyshop.com", Verified: true},
			{Name: "Thursday Plantation Tea Tree Oil", Link: "https://thursdayplantation.com", Verified: true},
		},
	},
}

var guidelines = []string{
	"Start with lower concentrations and gradually increase",
	"Use sunscreen SPF 30+ daily during treatment",
	"Avoid picking or squeezing acne lesions",
	"Maintain consistent skincare routine for 8-12 weeks",
	"Consider consulting a dermatologist for severe cases",
}

// Catalog returns a copy of every known ingredient in catalog order.
func Catalog() []models.IngredientRecommendation {
	out := make([]models.IngredientRecommendation, len(catalog))
	for i, ing := range catalog {
		out[i] = clone(ing)
	}
	return out
}

// Lookup finds a catalog entry by name.
func Lookup(name string) (models.IngredientRecommendation, bool) {
	for _, ing := range catalog {
		if ing.Name == name {
			return clone(ing), true
		}
	}
	return models.IngredientRecommendation{}, false
}

// Guidelines returns the fixed usage guidance shown with every result.
func Guidelines() []string {
	out := make([]string, len(guidelines))
	copy(out, guidelines)
	return out
}

func clone(ing models.IngredientRecommendation) models.IngredientRecommendation {
	products := make([]models.Product, len(ing.Products))
	copy(products, ing.Products)
	ing.Products = products
	return ing
}
