// Package memory ships a deterministic in-process feed. It stands in for a
// real upstream source in tests and demo runs: the raw records are shaped the
// way a scraped box score site would shape them, field maps included.
package memory

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/courtdata/statpipe/internal/domain/dataset"
	"github.com/courtdata/statpipe/internal/domain/source"
)

const providerName = "memfeed"

// Provider serves the seeded demo league. Kinds outside games (team_game and
// the season kinds) are reported unavailable so the pipeline derives them.
type Provider struct {
	unavailable map[dataset.Kind]struct{}
}

func NewProvider() *Provider {
	return &Provider{}
}

// WithoutKinds marks extra kinds unavailable, used to exercise skip handling.
func (p *Provider) WithoutKinds(kinds ...dataset.Kind) *Provider {
	if p.unavailable == nil {
		p.unavailable = make(map[dataset.Kind]struct{}, len(kinds))
	}
	for _, kind := range kinds {
		p.unavailable[kind] = struct{}{}
	}
	return p
}

func (p *Provider) Name() string { return providerName }

func (p *Provider) Fetch(ctx context.Context, league, season string, kind dataset.Kind) (source.Batch, error) {
	if err := ctx.Err(); err != nil {
		return source.Batch{}, err
	}
	if league != SeedLeague || season != SeedSeason {
		return source.Batch{}, crerr.Newf("memfeed: no seed data for league %q season %q", league, season)
	}
	if _, ok := p.unavailable[kind]; ok {
		return source.Batch{}, source.ErrKindUnavailable
	}

	var records []source.RawRecord
	switch kind {
	case dataset.KindSchedule:
		records = scheduleRecords()
	case dataset.KindPlayerGame:
		records = playerGameRecords()
	case dataset.KindPlayByPlay:
		records = playByPlayRecords()
	case dataset.KindShots:
		records = shotRecords()
	default:
		return source.Batch{}, source.ErrKindUnavailable
	}

	return source.Batch{
		Source:   providerName,
		Kind:     kind,
		Records:  records,
		FieldMap: fieldMapFor(kind, league, season),
	}, nil
}

func scheduleRecords() []source.RawRecord {
	games := seedGames()
	out := make([]source.RawRecord, 0, len(games))
	for _, g := range games {
		out = append(out, source.RawRecord{
			"gameId":   g.ID,
			"date":     g.Date,
			"homeId":   g.HomeID,
			"homeName": g.HomeName,
			"awayId":   g.AwayID,
			"awayName": g.AwayName,
			"homePts":  g.HomePts,
			"awayPts":  g.AwayPts,
			"status":   "Final",
		})
	}
	return out
}

func playerGameRecords() []source.RawRecord {
	lines := seedPlayerLines()
	out := make([]source.RawRecord, 0, len(lines))
	for _, l := range lines {
		out = append(out, source.RawRecord{
			"gameId":     l.GameID,
			"date":       l.Date,
			"teamId":     l.TeamID,
			"teamName":   l.TeamName,
			"playerId":   l.PlayerID,
			"playerName": l.PlayerName,
			"min":        l.Min,
			"fg":         l.FG,
			"fg3":        l.FG3,
			"ft":         l.FT,
			"oreb":       l.OReb,
			"dreb":       l.DReb,
			"ast":        l.Ast,
			"stl":        l.Stl,
			"blk":        l.Blk,
			"tov":        l.Tov,
			"pf":         l.PF,
			"plusMinus":  l.PlusMinus,
		})
	}
	return out
}

func playByPlayRecords() []source.RawRecord {
	events := seedEvents()
	out := make([]source.RawRecord, 0, len(events))
	for _, e := range events {
		rec := source.RawRecord{
			"gameId":      e.GameID,
			"eventNum":    e.EventNum,
			"period":      e.Period,
			"clock":       e.Clock,
			"eventType":   e.EventType,
			"description": e.Desc,
			"homeScore":   e.HomeScore,
			"awayScore":   e.AwayScore,
		}
		if e.TeamID != "" {
			rec["teamId"] = e.TeamID
		}
		if e.PlayerID != "" {
			rec["playerId"] = e.PlayerID
		}
		out = append(out, rec)
	}
	return out
}

func shotRecords() []source.RawRecord {
	shots := seedShots()
	out := make([]source.RawRecord, 0, len(shots))
	for _, s := range shots {
		out = append(out, source.RawRecord{
			"gameId":   s.GameID,
			"shotId":   s.ShotID,
			"teamId":   s.TeamID,
			"playerId": s.PlayerID,
			"period":   s.Period,
			"x":        s.X,
			"y":        s.Y,
			"shotType": s.Type,
			"points":   s.Value,
			"made":     s.Made,
		})
	}
	return out
}

func fieldMapFor(kind dataset.Kind, league, season string) source.FieldMap {
	meta := func(m source.FieldMap) source.FieldMap {
		m[dataset.ColLeague] = source.Const(dataset.String(league))
		m[dataset.ColSeason] = source.Const(dataset.String(season))
		return m
	}

	switch kind {
	case dataset.KindSchedule:
		return meta(source.FieldMap{
			dataset.ColGameID:   source.Key("gameId"),
			dataset.ColGameDate: source.Key("date"),
			dataset.ColHomeID:   source.Key("homeId"),
			dataset.ColHomeName: source.Key("homeName"),
			dataset.ColAwayID:   source.Key("awayId"),
			dataset.ColAwayName: source.Key("awayName"),
			dataset.ColHomePts:  source.Key("homePts"),
			dataset.ColAwayPts:  source.Key("awayPts"),
			dataset.ColStatus:   source.Key("status"),
		})
	case dataset.KindPlayerGame:
		return meta(source.FieldMap{
			dataset.ColGameID:     source.Key("gameId"),
			dataset.ColGameDate:   source.Key("date"),
			dataset.ColTeamID:     source.Key("teamId"),
			dataset.ColTeamName:   source.Key("teamName"),
			dataset.ColPlayerID:   source.Key("playerId"),
			dataset.ColPlayerName: source.Key("playerName"),
			dataset.ColMin:        source.Key("min"),
			dataset.ColPts:        source.Derived(pointsFromSplits("fg", "fg3", "ft")),
			dataset.ColFGM:        source.Derived(source.SplitFraction("fg", 0)),
			dataset.ColFGA:        source.Derived(source.SplitFraction("fg", 1)),
			dataset.ColFGPct:      source.Derived(fractionRate("fg")),
			dataset.ColFG3M:       source.Derived(source.SplitFraction("fg3", 0)),
			dataset.ColFG3A:       source.Derived(source.SplitFraction("fg3", 1)),
			dataset.ColFG3Pct:     source.Derived(fractionRate("fg3")),
			dataset.ColFTM:        source.Derived(source.SplitFraction("ft", 0)),
			dataset.ColFTA:        source.Derived(source.SplitFraction("ft", 1)),
			dataset.ColFTPct:      source.Derived(fractionRate("ft")),
			dataset.ColOReb:       source.Key("oreb"),
			dataset.ColDReb:       source.Key("dreb"),
			dataset.ColReb:        source.Derived(sumInts("oreb", "dreb")),
			dataset.ColAst:        source.Key("ast"),
			dataset.ColStl:        source.Key("stl"),
			dataset.ColBlk:        source.Key("blk"),
			dataset.ColTov:        source.Key("tov"),
			dataset.ColPF:         source.Key("pf"),
			dataset.ColPlusMinus:  source.Key("plusMinus"),
		})
	case dataset.KindPlayByPlay:
		return meta(source.FieldMap{
			dataset.ColGameID:    source.Key("gameId"),
			dataset.ColEventNum:  source.Key("eventNum"),
			dataset.ColPeriod:    source.Key("period"),
			dataset.ColClock:     source.Key("clock"),
			dataset.ColTeamID:    source.Key("teamId"),
			dataset.ColPlayerID:  source.Key("playerId"),
			dataset.ColEventType: source.Key("eventType"),
			dataset.ColDesc:      source.Key("description"),
			dataset.ColHomeScore: source.Key("homeScore"),
			dataset.ColAwayScore: source.Key("awayScore"),
		})
	case dataset.KindShots:
		return meta(source.FieldMap{
			dataset.ColGameID:    source.Key("gameId"),
			dataset.ColShotID:    source.Key("shotId"),
			dataset.ColTeamID:    source.Key("teamId"),
			dataset.ColPlayerID:  source.Key("playerId"),
			dataset.ColPeriod:    source.Key("period"),
			dataset.ColLocX:      source.Key("x"),
			dataset.ColLocY:      source.Key("y"),
			dataset.ColShotType:  source.Key("shotType"),
			dataset.ColShotValue: source.Key("points"),
			dataset.ColMade:      source.Key("made"),
		})
	}
	return nil
}

// splitParts reads a "made/attempt" raw field.
func splitParts(raw source.RawRecord, key string) (made, att int64, ok bool) {
	madeVal, okMade := source.SplitFraction(key, 0)(raw)
	attVal, okAtt := source.SplitFraction(key, 1)(raw)
	if !okMade || !okAtt {
		return 0, 0, false
	}
	made, _ = madeVal.IntVal()
	att, _ = attVal.IntVal()
	return made, att, true
}

// fractionRate turns a "made/attempt" field into a rate in [0,1];
// zero attempts yields a null rather than a failure.
func fractionRate(key string) source.Transform {
	return func(raw source.RawRecord) (dataset.Value, bool) {
		made, att, ok := splitParts(raw, key)
		if !ok {
			return dataset.Value{}, false
		}
		if att == 0 {
			return dataset.Null(dataset.TypeFloat), true
		}
		return dataset.Float(float64(made) / float64(att)), true
	}
}

// pointsFromSplits recomputes points as 2*FGM + FG3M + FTM, the identity that
// holds when threes are counted inside field goals.
func pointsFromSplits(fgKey, fg3Key, ftKey string) source.Transform {
	return func(raw source.RawRecord) (dataset.Value, bool) {
		fgm, _, okFG := splitParts(raw, fgKey)
		fg3m, _, okFG3 := splitParts(raw, fg3Key)
		ftm, _, okFT := splitParts(raw, ftKey)
		if !okFG || !okFG3 || !okFT {
			return dataset.Value{}, false
		}
		return dataset.Int(2*fgm + fg3m + ftm), true
	}
}

func sumInts(keys ...string) source.Transform {
	return func(raw source.RawRecord) (dataset.Value, bool) {
		var total int64
		for _, key := range keys {
			switch v := raw[key].(type) {
			case int:
				total += int64(v)
			case int64:
				total += v
			default:
				return dataset.Value{}, false
			}
		}
		return dataset.Int(total), true
	}
}
