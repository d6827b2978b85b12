package matching

// DefaultAliasTable holds the club spellings that differ between the two feeds
// for the five supported leagues.
func DefaultAliasTable() AliasTable {
	return AliasTable{
		Teams: map[string][]string{
			// EPL
			"Manchester United":       {"Man United", "Man Utd"},
			"Manchester City":         {"Man City"},
			"Tottenham":               {"Tottenham Hotspur", "Spurs"},
			"Newcastle United":        {"Newcastle"},
			"Wolverhampton Wanderers": {"Wolves"},
			"Brighton":                {"Brighton & Hove Albion", "Brighton and Hove Albion"},
			"Nottingham Forest":       {"Nott'm Forest"},
			"West Ham":                {"West Ham United"},
			"Sheffield United":        {"Sheffield Utd"},

			// La Liga
			"Atletico Madrid": {"Atlético Madrid", "Atletico"},
			"Real Betis":      {"Betis"},
			"Athletic Club":   {"Athletic Bilbao"},
			"Rayo Vallecano":  {"Rayo"},

			// Bundesliga
			"Bayern Munich":       {"Bayern München", "FC Bayern"},
			"Borussia Dortmund":   {"Dortmund", "BVB"},
			"Bayer Leverkusen":    {"Leverkusen"},
			"RB Leipzig":          {"Leipzig", "RasenBallsport Leipzig"},
			"Borussia M.Gladbach": {"Borussia Monchengladbach", "Gladbach", "Mönchengladbach"},
			"Eintracht Frankfurt": {"Frankfurt"},

			// Serie A
			"AC Milan": {"Milan"},
			"Inter":    {"Inter Milan", "Internazionale"},
			"Napoli":   {"SSC Napoli"},
			"AS Roma":  {"Roma"},

			// Ligue 1
			"Paris Saint Germain": {"Paris Saint-Germain", "PSG"},
			"Olympique Marseille": {"Marseille", "OM"},
			"Olympique Lyonnais":  {"Lyon", "OL"},
			"AS Monaco":           {"Monaco"},
		},
		Players: map[string][]string{},
	}
}
