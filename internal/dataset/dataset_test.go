package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jengzang/bikeshare-backend-go/internal/config"
	"github.com/jengzang/bikeshare-backend-go/internal/database"
	"github.com/jengzang/bikeshare-backend-go/internal/enrich"
	"github.com/jengzang/bikeshare-backend-go/internal/models"
	"github.com/jengzang/bikeshare-backend-go/internal/repository"
)

const sampleCSV = `datetime,season,holiday,workingday,weather,temp,atemp,humidity,windspeed,casual,registered,count
2011-01-01 00:00:00,1,0,0,1,9.84,14.395,81,0,3,13,16
2011-01-01 01:00:00,1,0,0,1,9.02,13.635,80,0,8,32,40
2012-06-01 08:00:00,2,0,1,2,27.06,31.06,61,11.0014,19,588,607
2012-06-01 09:00:00,5,0,1,3,28.7,32.575,58,12.998,20,300,320
`

func TestReadCSV(t *testing.T) {
	raw, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raw) != 4 {
		t.Fatalf("expected 4 records, got %d", len(raw))
	}

	want := models.RawRecord{
		DateTime: "2012-06-01 08:00:00", Season: 2, WorkingDay: 1, Weather: 2,
		Temp: 27.06, ATemp: 31.06, Humidity: 61, WindSpeed: 11.0014,
		Casual: 19, Registered: 588, Count: 607,
	}
	if raw[2] != want {
		t.Fatalf("got %+v\nwant %+v", raw[2], want)
	}
}

func TestReadCSVMatchesColumnsByName(t *testing.T) {
	input := "count,registered,casual,windspeed,humidity,atemp,temp,weather,workingday,holiday,season,datetime,extra\n" +
		"16,13,3,0,81,14.395,9.84,1,0,0,1,2011-01-01 00:00:00,x\n"

	raw, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw[0].Count != 16 || raw[0].Registered != 13 || raw[0].DateTime != "2011-01-01 00:00:00" {
		t.Fatalf("columns were not matched by name: %+v", raw[0])
	}
}

func TestReadCSVErrors(t *testing.T) {
	header := strings.Join(Columns, ",") + "\n"

	_, err := ReadCSV(strings.NewReader("datetime,season\n2011-01-01 00:00:00,1\n"))
	if err == nil || !strings.Contains(err.Error(), "missing column") {
		t.Fatalf("expected missing column error, got %v", err)
	}

	_, err = ReadCSV(strings.NewReader(""))
	if err == nil {
		t.Fatalf("expected error for empty input")
	}

	_, err = ReadCSV(strings.NewReader(header +
		"2011-01-01 00:00:00,1,0,0,1,9.84,14.395,81,0,3,13,16\n" +
		"2011-01-01 01:00:00,1,0,0,1,9.02,13.635,80,0,8,lots,40\n"))
	var rowErr *RowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("expected RowError, got %v", err)
	}
	if rowErr.Line != 3 || rowErr.Column != "registered" {
		t.Fatalf("unexpected row error: %+v", rowErr)
	}
}

func TestReadCSVReportsTimestampLine(t *testing.T) {
	header := strings.Join(Columns, ",") + ",notes\n"

	// the quoted multi-line note makes the bad timestamp sit on line 5
	_, err := ReadCSV(strings.NewReader(header +
		"2011-01-01 00:00:00,1,0,0,1,9.84,14.395,81,0,3,13,16,\n" +
		"2011-01-01 01:00:00,1,0,0,1,9.02,13.635,80,0,8,32,40,\"sensor\nreset\"\n" +
		"not-a-date,1,0,0,1,9.02,13.635,80,0,8,32,40,\n"))

	var rowErr *RowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("expected RowError, got %v", err)
	}
	if rowErr.Line != 5 || rowErr.Column != "datetime" {
		t.Fatalf("unexpected row error: %+v", rowErr)
	}

	var parseErr *enrich.ParseError
	if !errors.As(err, &parseErr) || parseErr.Row != 2 {
		t.Fatalf("expected ParseError for row 2, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 5") || !strings.Contains(err.Error(), "not-a-date") {
		t.Fatalf("expected line and value in %q", err.Error())
	}
}

func TestNewDerivesDomainAndInfo(t *testing.T) {
	raw, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loadedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ds, err := New(raw, "test", loadedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	domain := ds.Domain()
	if !reflect.DeepEqual(domain.Years, []int{2011, 2012}) {
		t.Fatalf("unexpected years %v", domain.Years)
	}
	if !reflect.DeepEqual(domain.Seasons, []string{models.SeasonSpring, models.SeasonSummer}) {
		t.Fatalf("unexpected seasons %v", domain.Seasons)
	}
	if !reflect.DeepEqual(domain.WeatherCodes, []int{1, 2, 3}) {
		t.Fatalf("unexpected weather codes %v", domain.WeatherCodes)
	}
	if ds.UnknownSeasons() != 1 {
		t.Fatalf("expected 1 unknown season, got %d", ds.UnknownSeasons())
	}

	info := ds.Info()
	if info.Rows != 4 || info.Source != "test" || !info.LoadedAt.Equal(loadedAt) {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.FirstRecord != "2011-01-01 00:00:00" || info.LastRecord != "2012-06-01 09:00:00" {
		t.Fatalf("unexpected record range %s - %s", info.FirstRecord, info.LastRecord)
	}
}

func TestNewAbortsOnMalformedTimestamp(t *testing.T) {
	raw := []models.RawRecord{
		{DateTime: "2011-01-01 00:00:00", Season: 1},
		{DateTime: "01/02/2011 25h", Season: 1},
	}

	_, err := New(raw, "test", time.Now())
	var parseErr *enrich.ParseError
	if !errors.As(err, &parseErr) || parseErr.Row != 1 {
		t.Fatalf("expected ParseError for row 1, got %v", err)
	}
}

func TestNewRejectsEmptyDataset(t *testing.T) {
	if _, err := New(nil, "test", time.Now()); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestFingerprintTracksContent(t *testing.T) {
	raw, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := Fingerprint(raw)
	if a != Fingerprint(raw) {
		t.Fatalf("fingerprint is not deterministic")
	}

	changed := append([]models.RawRecord(nil), raw...)
	changed[0].Count++
	if a == Fingerprint(changed) {
		t.Fatalf("fingerprint ignored a changed count")
	}

	reordered := []models.RawRecord{raw[1], raw[0], raw[2], raw[3]}
	if a == Fingerprint(reordered) {
		t.Fatalf("fingerprint ignored record order")
	}
}

type stubSource struct {
	raw []models.RawRecord
	err error
}

func (s stubSource) ListRentals(context.Context) ([]models.RawRecord, error) {
	return s.raw, s.err
}

func TestLoadFromSource(t *testing.T) {
	raw, _ := ReadCSV(strings.NewReader(sampleCSV))

	ds, err := LoadFrom(context.Background(), stubSource{raw: raw}, "sqlite:test.db")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Fingerprint() != Fingerprint(raw) {
		t.Fatalf("fingerprint differs between sources")
	}

	_, err = LoadFrom(context.Background(), stubSource{err: errors.New("boom")}, "sqlite:test.db")
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ds, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ds.Rows()) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(ds.Rows()))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatalf("expected error for a missing file")
	}
}

func TestOpenSelectsSource(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	raw, _ := ReadCSV(strings.NewReader(sampleCSV))

	csvPath := filepath.Join(dir, "train.csv")
	if err := os.WriteFile(csvPath, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	dbPath := filepath.Join(dir, "rentals.db")
	db, err := database.Open(ctx, database.Config{Path: dbPath})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.NewMigrationManager(db).RunMigrations(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := repository.NewRentalRepository(db).ReplaceAll(ctx, raw, csvPath, Fingerprint(raw)); err != nil {
		t.Fatalf("import: %v", err)
	}
	db.Close()

	cfg := config.Default()
	cfg.DataPath = csvPath
	cfg.DBPath = dbPath

	cfg.DataSource = config.SourceCSV
	fromCSV, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("csv: %v", err)
	}

	cfg.DataSource = config.SourceSQLite
	fromDB, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}

	if fromCSV.Fingerprint() != fromDB.Fingerprint() {
		t.Fatalf("sources disagree on fingerprint")
	}
	info := fromDB.Info()
	if info.Source != "sqlite:"+dbPath {
		t.Fatalf("unexpected source %q", info.Source)
	}
	if info.ImportedFrom != csvPath || info.ImportedAt == nil {
		t.Fatalf("expected import metadata, got %+v", info)
	}
	if fromCSV.Info().ImportedAt != nil {
		t.Fatalf("csv source should carry no import metadata")
	}

	cfg.DataSource = "parquet"
	if _, err := Open(ctx, cfg); err == nil {
		t.Fatalf("expected error for unknown source")
	}
}

func TestOpenRejectsEmptyStore(t *testing.T) {
	cfg := config.Default()
	cfg.DataSource = config.SourceSQLite
	cfg.DBPath = filepath.Join(t.TempDir(), "rentals.db")

	_, err := Open(context.Background(), cfg)
	if !errors.Is(err, ErrEmpty) || !strings.Contains(err.Error(), "import") {
		t.Fatalf("expected ErrEmpty pointing at the import command, got %v", err)
	}
}
