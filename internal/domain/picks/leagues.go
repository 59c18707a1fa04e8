package picks

// League priority tiers used to decide which of a day's fixtures get
// automated analysis first. Tier 1 is highest priority. Static, chosen for a
// Brazilian audience.
var (
	tier1Leagues = map[int64]struct{}{
		71:  {}, // Serie A Brazil
		72:  {}, // Serie B Brazil
		73:  {}, // Copa do Brasil
		39:  {}, // Premier League
		140: {}, // La Liga
		135: {}, // Serie A Italy
		78:  {}, // Bundesliga
		61:  {}, // Ligue 1
		2:   {}, // Champions League
		3:   {}, // Europa League
		848: {}, // Conference League
	}

	tier2Leagues = map[int64]struct{}{
		13:  {}, // Libertadores
		11:  {}, // Copa Sudamericana
		128: {}, // Argentina Primera
		307: {}, // Saudi Pro League
		94:  {}, // Primeira Liga
		88:  {}, // Eredivisie
		203: {}, // Super Lig
	}

	tier3Leagues = map[int64]struct{}{
		475: {}, // Paulistao
		476: {}, // Carioca
		477: {}, // Mineiro
		478: {}, // Gaucho
	}
)

// NonPriorityTier sorts after every real tier.
const NonPriorityTier = 99

// LeaguePriority returns 1, 2 or 3 for tiered leagues and NonPriorityTier
// for everything else.
func LeaguePriority(leagueID int64) int {
	if _, ok := tier1Leagues[leagueID]; ok {
		return 1
	}
	if _, ok := tier2Leagues[leagueID]; ok {
		return 2
	}
	if _, ok := tier3Leagues[leagueID]; ok {
		return 3
	}
	return NonPriorityTier
}
