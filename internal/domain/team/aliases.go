package team

import "github.com/betfaro/betstats/internal/platform/textnorm"

// CanonicalName maps an informal, abbreviated or translated team name to the
// provider-recognized canonical spelling. The lookup key is the folded form
// of the input, so "Barça", "barca" and "BARCA" all hit the same entry.
func CanonicalName(name string) (string, bool) {
	canonical, ok := aliases[textnorm.Fold(name)]
	return canonical, ok
}

// Static alias table, loaded once and read-only afterwards. Keys must be in
// folded form (lowercase, accent-free, hyphens and periods as spaces).
var aliases = map[string]string{
	// England
	"man united":        "Manchester United",
	"man utd":           "Manchester United",
	"manchester utd":    "Manchester United",
	"united":            "Manchester United",
	"man city":          "Manchester City",
	"city":              "Manchester City",
	"spurs":             "Tottenham",
	"tottenham hotspur": "Tottenham",
	"gunners":           "Arsenal",
	"chelsa":            "Chelsea",
	"blues":             "Chelsea",
	"pool":              "Liverpool",
	"reds":              "Liverpool",
	"west ham":          "West Ham United",
	"hammers":           "West Ham United",
	"newcastle":         "Newcastle United",
	"magpies":           "Newcastle United",
	"leicester":         "Leicester City",
	"wolves":            "Wolverhampton Wanderers",
	"brighton":          "Brighton & Hove Albion",
	"forest":            "Nottingham Forest",
	"nottm forest":      "Nottingham Forest",
	"villa":             "Aston Villa",
	"everton fc":        "Everton",
	"toffees":           "Everton",
	"leeds":             "Leeds United",
	"sheffield utd":     "Sheffield United",
	"palace":            "Crystal Palace",
	"bournemouth afc":   "Bournemouth",

	// Spain
	"barca":           "Barcelona",
	"fc barcelona":    "Barcelona",
	"blaugrana":       "Barcelona",
	"real":            "Real Madrid",
	"madrid":          "Real Madrid",
	"merengues":       "Real Madrid",
	"atleti":          "Atletico Madrid",
	"atletico":        "Atletico Madrid",
	"athletic":        "Athletic Club",
	"athletic bilbao": "Athletic Club",
	"bilbao":          "Athletic Club",
	"betis":           "Real Betis",
	"sociedad":        "Real Sociedad",
	"la real":         "Real Sociedad",
	"sevilla fc":      "Sevilla",
	"valencia cf":     "Valencia",
	"villarreal cf":   "Villarreal",
	"celta":           "Celta Vigo",

	// Italy
	"juve":            "Juventus",
	"vecchia signora": "Juventus",
	"inter":           "Inter Milan",
	"internazionale":  "Inter Milan",
	"nerazzurri":      "Inter Milan",
	"milan":           "AC Milan",
	"rossoneri":       "AC Milan",
	"napoli ssc":      "Napoli",
	"roma as":         "AS Roma",
	"giallorossi":     "AS Roma",
	"lazio ss":        "Lazio",
	"fiorentina acf":  "Fiorentina",
	"viola":           "Fiorentina",
	"atalanta bc":     "Atalanta",

	// Germany
	"bayern":          "Bayern Munich",
	"bayern munchen":  "Bayern Munich",
	"fc bayern":       "Bayern Munich",
	"dortmund":        "Borussia Dortmund",
	"bvb":             "Borussia Dortmund",
	"gladbach":        "Borussia Monchengladbach",
	"monchengladbach": "Borussia Monchengladbach",
	"leverkusen":      "Bayer Leverkusen",
	"bayer":           "Bayer Leverkusen",
	"leipzig":         "RB Leipzig",
	"rb leipzig":      "RB Leipzig",
	"frankfurt":       "Eintracht Frankfurt",
	"eintracht":       "Eintracht Frankfurt",
	"stuttgart":       "VfB Stuttgart",
	"wolfsburg":       "VfL Wolfsburg",

	// France
	"psg":                 "Paris Saint Germain",
	"paris":               "Paris Saint Germain",
	"paris sg":            "Paris Saint Germain",
	"om":                  "Marseille",
	"olympique marseille": "Marseille",
	"ol":                  "Lyon",
	"olympique lyonnais":  "Lyon",
	"asm":                 "Monaco",
	"as monaco":           "Monaco",
	"losc":                "Lille",
	"losc lille":          "Lille",

	// Portugal
	"benfica":         "SL Benfica",
	"slb":             "SL Benfica",
	"porto":           "FC Porto",
	"fcp":             "FC Porto",
	"dragoes":         "FC Porto",
	"sporting":        "Sporting CP",
	"sporting lisbon": "Sporting CP",
	"scp":             "Sporting CP",
	"braga":           "SC Braga",

	// Netherlands
	"ajax amsterdam":      "Ajax",
	"psv eindhoven":       "PSV",
	"feyenoord rotterdam": "Feyenoord",

	// Brazil
	"fla":                   "Flamengo",
	"mengao":                "Flamengo",
	"mengo":                 "Flamengo",
	"tricolor paulista":     "Sao Paulo",
	"sao paulo fc":          "Sao Paulo",
	"spfc":                  "Sao Paulo",
	"verdao":                "Palmeiras",
	"porco":                 "Palmeiras",
	"timao":                 "Corinthians",
	"vasco":                 "Vasco DA Gama",
	"vasco da gama":         "Vasco DA Gama",
	"galo":                  "Atletico Mineiro",
	"atletico mg":           "Atletico Mineiro",
	"atletico mineiro":      "Atletico Mineiro",
	"cruzeiro ec":           "Cruzeiro",
	"raposa":                "Cruzeiro",
	"tricolor gaucho":       "Gremio",
	"inter de porto alegre": "Internacional",
	"colorado":              "Internacional",
	"flu":                   "Fluminense",
	"fogao":                 "Botafogo",
	"peixe":                 "Santos",

	// Argentina
	"boca":                     "Boca Juniors",
	"xeneize":                  "Boca Juniors",
	"river":                    "River Plate",
	"millonarios":              "River Plate",
	"argentinos junior":        "Argentinos Juniors",
	"argentinos jrs":           "Argentinos Juniors",
	"racing club avellaneda":   "Racing Club",
	"independiente avellaneda": "Independiente",
	"san lorenzo de almagro":   "San Lorenzo",

	// Saudi Arabia and Gulf
	"al khaleej": "Al-Khaleej Saihat",
	"al hilal":   "Al-Hilal Saudi FC",
	"al nassr":   "Al-Nassr",
	"al ittihad": "Al-Ittihad FC",
	"al ahli":    "Al-Ahli Jeddah",
	"al shabab":  "Al-Shabab",
	"al ettifaq": "Al-Ettifaq",
	"al taawoun": "Al-Taawon",
	"al fateh":   "Al-Fateh",
	"al raed":    "Al-Raed",

	// Elsewhere
	"galatasaray sk":      "Galatasaray",
	"cimbom":              "Galatasaray",
	"fener":               "Fenerbahce",
	"fenerbahce sk":       "Fenerbahce",
	"besiktas jk":         "Besiktas",
	"celtic fc":           "Celtic",
	"rangers fc":          "Rangers",
	"america mexico":      "Club America",
	"chivas":              "Guadalajara Chivas",
	"cruz azul fc":        "Cruz Azul",
	"la galaxy":           "Los Angeles Galaxy",
	"lafc":                "Los Angeles FC",
	"inter miami cf":      "Inter Miami",
	"red bull salzburg":   "FC Salzburg",
	"zenit st petersburg": "Zenit Saint Petersburg",
	"olympiakos":          "Olympiakos Piraeus",
	"club brugge kv":      "Club Brugge",
	"anderlecht rsc":      "Anderlecht",
	"copenhagen fc":       "FC Copenhagen",
}
