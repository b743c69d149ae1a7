package memory

// Seed data for the built-in feed: one two-team demo league with two played
// games. Player lines, schedule scores and the final play-by-play events are
// mutually consistent so a run over this data produces a healthy QA report.

const (
	SeedLeague = "demo"
	SeedSeason = "2024"

	TeamIDAnchors = "HRB"
	TeamIDBison   = "RDG"
)

type seedPlayerLine struct {
	GameID     string
	Date       string
	TeamID     string
	TeamName   string
	PlayerID   string
	PlayerName string
	Min        float64
	FG         string
	FG3        string
	FT         string
	OReb       int
	DReb       int
	Ast        int
	Stl        int
	Blk        int
	Tov        int
	PF         int
	PlusMinus  int
}

type seedGame struct {
	ID       string
	Date     string
	HomeID   string
	HomeName string
	AwayID   string
	AwayName string
	HomePts  int
	AwayPts  int
}

type seedEvent struct {
	GameID    string
	EventNum  int
	Period    int
	Clock     string
	TeamID    string
	PlayerID  string
	EventType string
	Desc      string
	HomeScore int
	AwayScore int
}

type seedShot struct {
	GameID   string
	ShotID   int
	TeamID   string
	PlayerID string
	Period   int
	X        float64
	Y        float64
	Type     string
	Value    int
	Made     bool
}

func seedGames() []seedGame {
	return []seedGame{
		{
			ID: "0012400001", Date: "2024-11-01",
			HomeID: TeamIDAnchors, HomeName: "Harbor City Anchors",
			AwayID: TeamIDBison, AwayName: "Ridgeline Bison",
			HomePts: 68, AwayPts: 60,
		},
		{
			ID: "0012400002", Date: "2024-11-03",
			HomeID: TeamIDBison, HomeName: "Ridgeline Bison",
			AwayID: TeamIDAnchors, AwayName: "Harbor City Anchors",
			HomePts: 65, AwayPts: 61,
		},
	}
}

func seedPlayerLines() []seedPlayerLine {
	return []seedPlayerLine{
		// Game 1: Anchors 68, Bison 60.
		{GameID: "0012400001", Date: "2024-11-01", TeamID: TeamIDAnchors, TeamName: "Harbor City Anchors", PlayerID: "hrb-01", PlayerName: "Avery Cole", Min: 36, FG: "11/20", FG3: "2/6", FT: "6/7", OReb: 1, DReb: 5, Ast: 7, Stl: 2, Blk: 0, Tov: 3, PF: 2, PlusMinus: 9},
		{GameID: "0012400001", Date: "2024-11-01", TeamID: TeamIDAnchors, TeamName: "Harbor City Anchors", PlayerID: "hrb-02", PlayerName: "Jordan Reyes", Min: 34, FG: "8/15", FG3: "2/5", FT: "4/4", OReb: 2, DReb: 4, Ast: 3, Stl: 1, Blk: 1, Tov: 2, PF: 3, PlusMinus: 6},
		{GameID: "0012400001", Date: "2024-11-01", TeamID: TeamIDAnchors, TeamName: "Harbor City Anchors", PlayerID: "hrb-03", PlayerName: "Sam Okafor", Min: 30, FG: "6/11", FG3: "0/2", FT: "4/6", OReb: 3, DReb: 6, Ast: 2, Stl: 0, Blk: 2, Tov: 1, PF: 4, PlusMinus: 8},
		{GameID: "0012400001", Date: "2024-11-01", TeamID: TeamIDBison, TeamName: "Ridgeline Bison", PlayerID: "rdg-01", PlayerName: "Casey Lin", Min: 35, FG: "9/18", FG3: "3/8", FT: "2/2", OReb: 1, DReb: 3, Ast: 5, Stl: 1, Blk: 0, Tov: 2, PF: 2, PlusMinus: -7},
		{GameID: "0012400001", Date: "2024-11-01", TeamID: TeamIDBison, TeamName: "Ridgeline Bison", PlayerID: "rdg-02", PlayerName: "Drew Mason", Min: 33, FG: "7/14", FG3: "1/4", FT: "5/6", OReb: 2, DReb: 5, Ast: 4, Stl: 2, Blk: 1, Tov: 3, PF: 3, PlusMinus: -9},
		{GameID: "0012400001", Date: "2024-11-01", TeamID: TeamIDBison, TeamName: "Ridgeline Bison", PlayerID: "rdg-03", PlayerName: "Riley Ford", Min: 28, FG: "6/10", FG3: "2/3", FT: "3/4", OReb: 1, DReb: 4, Ast: 1, Stl: 0, Blk: 0, Tov: 2, PF: 2, PlusMinus: -8},

		// Game 2: Bison 65, Anchors 61.
		{GameID: "0012400002", Date: "2024-11-03", TeamID: TeamIDBison, TeamName: "Ridgeline Bison", PlayerID: "rdg-01", PlayerName: "Casey Lin", Min: 37, FG: "10/19", FG3: "4/9", FT: "4/5", OReb: 0, DReb: 4, Ast: 6, Stl: 2, Blk: 0, Tov: 1, PF: 1, PlusMinus: 5},
		{GameID: "0012400002", Date: "2024-11-03", TeamID: TeamIDBison, TeamName: "Ridgeline Bison", PlayerID: "rdg-02", PlayerName: "Drew Mason", Min: 34, FG: "8/13", FG3: "2/5", FT: "2/2", OReb: 2, DReb: 6, Ast: 3, Stl: 1, Blk: 2, Tov: 2, PF: 4, PlusMinus: 3},
		{GameID: "0012400002", Date: "2024-11-03", TeamID: TeamIDBison, TeamName: "Ridgeline Bison", PlayerID: "rdg-03", PlayerName: "Riley Ford", Min: 29, FG: "5/9", FG3: "1/2", FT: "6/8", OReb: 1, DReb: 3, Ast: 2, Stl: 0, Blk: 1, Tov: 3, PF: 3, PlusMinus: 4},
		{GameID: "0012400002", Date: "2024-11-03", TeamID: TeamIDAnchors, TeamName: "Harbor City Anchors", PlayerID: "hrb-01", PlayerName: "Avery Cole", Min: 38, FG: "9/21", FG3: "1/7", FT: "7/8", OReb: 1, DReb: 6, Ast: 8, Stl: 1, Blk: 0, Tov: 4, PF: 2, PlusMinus: -4},
		{GameID: "0012400002", Date: "2024-11-03", TeamID: TeamIDAnchors, TeamName: "Harbor City Anchors", PlayerID: "hrb-02", PlayerName: "Jordan Reyes", Min: 32, FG: "6/12", FG3: "2/6", FT: "1/2", OReb: 1, DReb: 3, Ast: 2, Stl: 2, Blk: 1, Tov: 1, PF: 3, PlusMinus: -5},
		{GameID: "0012400002", Date: "2024-11-03", TeamID: TeamIDAnchors, TeamName: "Harbor City Anchors", PlayerID: "hrb-03", PlayerName: "Sam Okafor", Min: 31, FG: "7/12", FG3: "1/3", FT: "5/5", OReb: 2, DReb: 5, Ast: 1, Stl: 1, Blk: 2, Tov: 2, PF: 4, PlusMinus: -3},
	}
}

func seedEvents() []seedEvent {
	return []seedEvent{
		{GameID: "0012400001", EventNum: 1, Period: 1, Clock: "12:00", EventType: "period_start", Desc: "Start of 1st period", HomeScore: 0, AwayScore: 0},
		{GameID: "0012400001", EventNum: 2, Period: 1, Clock: "11:41", TeamID: TeamIDAnchors, PlayerID: "hrb-01", EventType: "shot_made", Desc: "Cole 18' pullup jumper", HomeScore: 2, AwayScore: 0},
		{GameID: "0012400001", EventNum: 3, Period: 1, Clock: "11:18", TeamID: TeamIDBison, PlayerID: "rdg-01", EventType: "shot_made", Desc: "Lin 25' three pointer", HomeScore: 2, AwayScore: 3},
		{GameID: "0012400001", EventNum: 4, Period: 2, Clock: "06:02", TeamID: TeamIDAnchors, PlayerID: "hrb-03", EventType: "rebound", Desc: "Okafor offensive rebound", HomeScore: 31, AwayScore: 27},
		{GameID: "0012400001", EventNum: 5, Period: 4, Clock: "00:19", TeamID: TeamIDAnchors, PlayerID: "hrb-01", EventType: "free_throw_made", Desc: "Cole free throw 2 of 2", HomeScore: 68, AwayScore: 60},
		{GameID: "0012400001", EventNum: 6, Period: 4, Clock: "00:00", EventType: "period_end", Desc: "End of 4th period", HomeScore: 68, AwayScore: 60},

		{GameID: "0012400002", EventNum: 1, Period: 1, Clock: "12:00", EventType: "period_start", Desc: "Start of 1st period", HomeScore: 0, AwayScore: 0},
		{GameID: "0012400002", EventNum: 2, Period: 1, Clock: "11:33", TeamID: TeamIDBison, PlayerID: "rdg-01", EventType: "shot_made", Desc: "Lin 26' three pointer", HomeScore: 3, AwayScore: 0},
		{GameID: "0012400002", EventNum: 3, Period: 3, Clock: "04:47", TeamID: TeamIDAnchors, PlayerID: "hrb-01", EventType: "turnover", Desc: "Cole bad pass turnover", HomeScore: 46, AwayScore: 44},
		{GameID: "0012400002", EventNum: 4, Period: 4, Clock: "00:31", TeamID: TeamIDBison, PlayerID: "rdg-03", EventType: "free_throw_made", Desc: "Ford free throw 2 of 2", HomeScore: 65, AwayScore: 61},
		{GameID: "0012400002", EventNum: 5, Period: 4, Clock: "00:00", EventType: "period_end", Desc: "End of 4th period", HomeScore: 65, AwayScore: 61},
	}
}

func seedShots() []seedShot {
	return []seedShot{
		{GameID: "0012400001", ShotID: 1, TeamID: TeamIDAnchors, PlayerID: "hrb-01", Period: 1, X: 38.5, Y: 22.0, Type: "pullup jumper", Value: 2, Made: true},
		{GameID: "0012400001", ShotID: 2, TeamID: TeamIDBison, PlayerID: "rdg-01", Period: 1, X: 71.3, Y: 44.1, Type: "three pointer", Value: 3, Made: true},
		{GameID: "0012400001", ShotID: 3, TeamID: TeamIDAnchors, PlayerID: "hrb-02", Period: 2, X: 12.0, Y: 15.6, Type: "layup", Value: 2, Made: false},
		{GameID: "0012400001", ShotID: 4, TeamID: TeamIDBison, PlayerID: "rdg-03", Period: 3, X: 64.8, Y: 8.9, Type: "corner three", Value: 3, Made: true},
		{GameID: "0012400002", ShotID: 1, TeamID: TeamIDBison, PlayerID: "rdg-01", Period: 1, X: 68.2, Y: 41.7, Type: "three pointer", Value: 3, Made: true},
		{GameID: "0012400002", ShotID: 2, TeamID: TeamIDAnchors, PlayerID: "hrb-03", Period: 2, X: 9.4, Y: 24.3, Type: "hook shot", Value: 2, Made: true},
		{GameID: "0012400002", ShotID: 3, TeamID: TeamIDAnchors, PlayerID: "hrb-01", Period: 4, X: 45.0, Y: 30.2, Type: "stepback jumper", Value: 2, Made: false},
	}
}
