package dataset

import (
	"errors"
	"testing"
	"time"
)

func scheduleRecord(t *testing.T, gameID string, homePts, awayPts int64) Record {
	t.Helper()
	schema := MustSchemaFor(KindSchedule)
	rec := schema.EmptyRecord()
	set := func(col string, v Value) {
		idx, ok := schema.ColumnIndex(col)
		if !ok {
			t.Fatalf("column %s not declared", col)
		}
		rec[idx] = v
	}
	set(ColGameID, String(gameID))
	set(ColLeague, String("demo"))
	set(ColSeason, String("2024"))
	set(ColGameDate, Date(time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)))
	set(ColHomeID, String("HRB"))
	set(ColAwayID, String("RDG"))
	set(ColHomePts, Int(homePts))
	set(ColAwayPts, Int(awayPts))
	return rec
}

func TestTableAppendAndLookup(t *testing.T) {
	table, err := NewTable(KindSchedule, "demo", "2024")
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	if err := table.Append(scheduleRecord(t, "0012400001", 68, 60)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("Len = %d, want 1", table.Len())
	}

	v, ok := table.Value(0, ColHomePts)
	if !ok {
		t.Fatal("Value(HOME_PTS) not found")
	}
	pts, ok := v.IntVal()
	if !ok || pts != 68 {
		t.Fatalf("HOME_PTS = %v ok=%t, want 68", pts, ok)
	}

	if _, ok := table.Value(0, "NO_SUCH_COLUMN"); ok {
		t.Fatal("lookup of undeclared column succeeded")
	}
}

func TestTableAppendRejectsWrongShape(t *testing.T) {
	table, err := NewTable(KindSchedule, "demo", "2024")
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	short := scheduleRecord(t, "0012400001", 68, 60)[:3]
	if err := table.Append(short); !errors.Is(err, ErrRecordShape) {
		t.Fatalf("expected ErrRecordShape for short record, got %v", err)
	}

	wrongType := scheduleRecord(t, "0012400001", 68, 60)
	idx, _ := table.Schema().ColumnIndex(ColHomePts)
	wrongType[idx] = String("68")
	if err := table.Append(wrongType); !errors.Is(err, ErrRecordShape) {
		t.Fatalf("expected ErrRecordShape for mistyped cell, got %v", err)
	}
}

func TestTableRejectsUnknownKind(t *testing.T) {
	if _, err := NewTable(Kind("lineups"), "demo", "2024"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestNaturalKeyOf(t *testing.T) {
	table, err := NewTable(KindPlayerGame, "demo", "2024")
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	schema := table.Schema()
	rec := schema.EmptyRecord()
	for col, v := range map[string]Value{
		ColGameID:   String("0012400001"),
		ColLeague:   String("demo"),
		ColSeason:   String("2024"),
		ColTeamID:   String("HRB"),
		ColPlayerID: String("hrb-01"),
	} {
		idx, _ := schema.ColumnIndex(col)
		rec[idx] = v
	}
	if err := table.Append(rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if got := table.NaturalKeyOf(0); got != "0012400001|HRB|hrb-01" {
		t.Fatalf("NaturalKeyOf = %q", got)
	}
}
