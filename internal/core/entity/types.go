package entity

// amrClasses maps named-entity concepts of the semantic graph to DBpedia classes.
// Concepts with no useful class are absent.
var amrClasses = map[string]string{
	"person":                  "dbo:Person",
	"family":                  "dbo:Family",
	"animal":                  "dbo:Animal",
	"language":                "dbo:Language",
	"nationality":             "dbo:Country",
	"ethnic-group":            "dbo:EthnicGroup",
	"regional-group":          "dbo:EthnicGroup",
	"religious-group":         "dbo:EthnicGroup",
	"political-movement":      "dbo:PoliticalParty",
	"organization":            "dbo:Organisation",
	"company":                 "dbo:Company",
	"government-organization": "dbo:GovernmentAgency",
	"military":                "dbo:MilitaryUnit",
	"criminal-organization":   "dbo:Organisation",
	"political-party":         "dbo:PoliticalParty",
	"market-sector":           "dbo:Organisation",
	"school":                  "dbo:EducationalInstitution",
	"university":              "dbo:University",
	"research-institute":      "dbo:EducationalInstitution",
	"team":                    "dbo:SportsTeam",
	"league":                  "dbo:SportsLeague",
	"location":                "dbo:Place",
	"city":                    "dbo:City",
	"city-district":           "dbo:Settlement",
	"county":                  "dbo:AdministrativeRegion",
	"state":                   "dbo:AdministrativeRegion",
	"province":                "dbo:AdministrativeRegion",
	"territory":               "dbo:AdministrativeRegion",
	"country":                 "dbo:Country",
	"local-region":            "dbo:Region",
	"country-region":          "dbo:Region",
	"world-region":            "dbo:Region",
	"continent":               "dbo:Continent",
	"ocean":                   "dbo:Sea",
	"sea":                     "dbo:Sea",
	"lake":                    "dbo:Lake",
	"river":                   "dbo:River",
	"gulf":                    "dbo:BodyOfWater",
	"bay":                     "dbo:BodyOfWater",
	"strait":                  "dbo:BodyOfWater",
	"canal":                   "dbo:Canal",
	"peninsula":               "dbo:Place",
	"mountain":                "dbo:Mountain",
	"volcano":                 "dbo:Volcano",
	"valley":                  "dbo:Valley",
	"canyon":                  "dbo:Place",
	"island":                  "dbo:Island",
	"desert":                  "dbo:Place",
	"forest":                  "dbo:Place",
	"moon":                    "dbo:Planet",
	"planet":                  "dbo:Planet",
	"star":                    "dbo:Star",
	"constellation":           "dbo:Constellation",
	"facility":                "dbo:ArchitecturalStructure",
	"airport":                 "dbo:Airport",
	"station":                 "dbo:Station",
	"port":                    "dbo:Infrastructure",
	"tunnel":                  "dbo:Tunnel",
	"bridge":                  "dbo:Bridge",
	"road":                    "dbo:Road",
	"railway-line":            "dbo:RailwayLine",
	"building":                "dbo:Building",
	"theater":                 "dbo:Theatre",
	"museum":                  "dbo:Museum",
	"palace":                  "dbo:Castle",
	"hotel":                   "dbo:Hotel",
	"worship-place":           "dbo:ReligiousBuilding",
	"market":                  "dbo:ShoppingMall",
	"sports-facility":         "dbo:SportFacility",
	"park":                    "dbo:Park",
	"zoo":                     "dbo:Zoo",
	"amusement-park":          "dbo:AmusementParkAttraction",
	"event":                   "dbo:Event",
	"incident":                "dbo:Event",
	"natural-disaster":        "dbo:NaturalEvent",
	"war":                     "dbo:MilitaryConflict",
	"battle":                  "dbo:MilitaryConflict",
	"conference":              "dbo:Convention",
	"festival":                "dbo:Festival",
	"game":                    "dbo:Game",
	"product":                 "dbo:Device",
	"vehicle":                 "dbo:MeanOfTransportation",
	"ship":                    "dbo:Ship",
	"aircraft":                "dbo:Aircraft",
	"aircraft-type":           "dbo:Aircraft",
	"spaceship":               "dbo:Spacecraft",
	"car-make":                "dbo:Automobile",
	"work-of-art":             "dbo:Work",
	"picture":                 "dbo:Artwork",
	"music":                   "dbo:MusicalWork",
	"show":                    "dbo:TelevisionShow",
	"broadcast-program":       "dbo:TelevisionShow",
	"publication":             "dbo:WrittenWork",
	"book":                    "dbo:Book",
	"newspaper":               "dbo:Newspaper",
	"magazine":                "dbo:Magazine",
	"journal":                 "dbo:AcademicJournal",
	"film":                    "dbo:Film",
	"movie":                   "dbo:Film",
	"album":                   "dbo:Album",
	"song":                    "dbo:Song",
	"award":                   "dbo:Award",
	"law":                     "dbo:Law",
	"treaty":                  "dbo:Treaty",
	"disease":                 "dbo:Disease",
	"medical-condition":       "dbo:Disease",
	"small-molecule":          "dbo:ChemicalCompound",
	"protein":                 "dbo:Protein",
	"gene":                    "dbo:Gene",
	"species":                 "dbo:Species",
	"program":                 "dbo:Software",
	"software":                "dbo:Software",
	"thing":                   "owl:Thing",
}

// ClassOf returns the DBpedia class of a node concept, "" when none is known.
func ClassOf(concept string) string {
	c, ok := amrClasses[concept]
	if !ok || c == "owl:Thing" {
		return ""
	}
	return c
}
