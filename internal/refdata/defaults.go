package refdata

// Default returns the production reference tables.  The values are curated by
// the marketplace analytics team; coordinates come from the standard survey
// gazetteer and industry multiples from observed MSME transaction data.
func Default() *Tables {
	return &Tables{
		IndustryAffinity:    defaultIndustryAffinity(),
		Gazetteer:           defaultGazetteer(),
		CityTiers:           defaultCityTiers(),
		TierMultipliers:     defaultTierMultipliers(),
		IndustryMultipliers: defaultIndustryMultipliers(),
	}
}

// defaultIndustryAffinity builds the symmetric cross-industry compatibility
// matrix.  Only the upper triangle is declared; mirror fills the rest.
func defaultIndustryAffinity() map[string]map[string]float64 {
	upper := map[string]map[string]float64{
		"technology": {
			"services":      0.8,
			"education":     0.7,
			"healthcare":    0.6,
			"logistics":     0.6,
			"manufacturing": 0.5,
			"retail":        0.5,
			"agriculture":   0.3,
		},
		"manufacturing": {
			"logistics":   0.8,
			"textiles":    0.7,
			"retail":      0.6,
			"agriculture": 0.5,
			"services":    0.4,
		},
		"retail": {
			"food & beverage": 0.8,
			"logistics":       0.7,
			"textiles":        0.6,
			"services":        0.5,
		},
		"healthcare": {
			"services":  0.6,
			"education": 0.5,
		},
		"food & beverage": {
			"agriculture": 0.8,
			"logistics":   0.5,
			"services":    0.4,
		},
		"services": {
			"education": 0.6,
			"logistics": 0.5,
		},
		"logistics": {
			"agriculture": 0.5,
		},
		"agriculture": {
			"textiles": 0.6,
		},
		"education": {},
		"textiles":  {},
	}

	out := make(map[string]map[string]float64, len(upper))
	for a := range upper {
		out[a] = map[string]float64{}
	}
	for a, row := range upper {
		for b, v := range row {
			out[a][b] = v
			if _, ok := out[b]; !ok {
				out[b] = map[string]float64{}
			}
			out[b][a] = v
		}
	}
	return out
}

func defaultGazetteer() map[string]Coordinates {
	return map[string]Coordinates{
		"mumbai":        {19.0760, 72.8777},
		"delhi":         {28.7041, 77.1025},
		"new delhi":     {28.6139, 77.2090},
		"bengaluru":     {12.9716, 77.5946},
		"bangalore":     {12.9716, 77.5946},
		"hyderabad":     {17.3850, 78.4867},
		"chennai":       {13.0827, 80.2707},
		"kolkata":       {22.5726, 88.3639},
		"pune":          {18.5204, 73.8567},
		"ahmedabad":     {23.0225, 72.5714},
		"jaipur":        {26.9124, 75.7873},
		"surat":         {21.1702, 72.8311},
		"lucknow":       {26.8467, 80.9462},
		"nagpur":        {21.1458, 79.0882},
		"indore":        {22.7196, 75.8577},
		"coimbatore":    {11.0168, 76.9558},
		"kochi":         {9.9312, 76.2673},
		"bhubaneswar":   {20.2961, 85.8245},
		"cuttack":       {20.4625, 85.8830},
		"chandigarh":    {30.7333, 76.7794},
		"nashik":        {19.9975, 73.7898},
		"vadodara":      {22.3072, 73.1812},
		"visakhapatnam": {17.6868, 83.2185},
		"guwahati":      {26.1445, 91.7362},
		"patna":         {25.5941, 85.1376},
	}
}

func defaultCityTiers() map[string]CityTier {
	return map[string]CityTier{
		"mumbai":    Tier1,
		"delhi":     Tier1,
		"new delhi": Tier1,
		"bengaluru": Tier1,
		"bangalore": Tier1,
		"hyderabad": Tier1,
		"chennai":   Tier1,
		"kolkata":   Tier1,
		"pune":      Tier1,

		"ahmedabad":     Tier2,
		"jaipur":        Tier2,
		"surat":         Tier2,
		"lucknow":       Tier2,
		"nagpur":        Tier2,
		"indore":        Tier2,
		"coimbatore":    Tier2,
		"kochi":         Tier2,
		"bhubaneswar":   Tier2,
		"chandigarh":    Tier2,
		"nashik":        Tier2,
		"vadodara":      Tier2,
		"visakhapatnam": Tier2,
	}
}

func defaultTierMultipliers() map[CityTier]float64 {
	return map[CityTier]float64{
		Tier1:     1.20,
		Tier2:     1.05,
		TierOther: 0.90,
	}
}

// defaultIndustryMultipliers are revenue multiples observed in closed MSME
// transactions, by sector.
func defaultIndustryMultipliers() map[string]float64 {
	return map[string]float64{
		"technology":      2.5,
		"healthcare":      2.0,
		"education":       1.5,
		"services":        1.2,
		"logistics":       1.1,
		"manufacturing":   1.0,
		"food & beverage": 0.9,
		"retail":          0.8,
		"textiles":        0.8,
		"agriculture":     0.7,
	}
}
